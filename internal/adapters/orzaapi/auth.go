package orzaapi

import (
	"context"
	"net/http"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// LoginParams are the credentials for a password login.
type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterParams starts the registration OTP flow.
type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenPayload is the data shape of every token-issuing endpoint.
type tokenPayload struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token.
func (a *API) Login(ctx context.Context, params LoginParams) (string, string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/auth/login", domain.RequestOptions{JSONBody: params})
	if err != nil {
		return "", "", err
	}
	var payload tokenPayload
	if err := env.DecodeData(&payload); err != nil {
		return "", "", err
	}
	return payload.Token, env.Message, nil
}

// Register submits a registration; the server responds by emailing an OTP.
// No token is issued until the OTP is verified.
func (a *API) Register(ctx context.Context, params RegisterParams) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/auth/register", domain.RequestOptions{JSONBody: params})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// VerifyOTP completes registration with the emailed code and yields a token.
func (a *API) VerifyOTP(ctx context.Context, email, code string) (string, string, error) {
	body := map[string]string{"email": email, "otp": code}
	env, err := a.transport.Request(ctx, http.MethodPost, "/auth/verify-otp", domain.RequestOptions{JSONBody: body})
	if err != nil {
		return "", "", err
	}
	var payload tokenPayload
	if err := env.DecodeData(&payload); err != nil {
		return "", "", err
	}
	return payload.Token, env.Message, nil
}

// RequestAccountDeletion starts the delete-account OTP flow for the signed-in
// user.
func (a *API) RequestAccountDeletion(ctx context.Context) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPost, "/auth/delete-account/request", domain.RequestOptions{})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ConfirmAccountDeletion consumes the emailed code and destroys the account
// server-side.
func (a *API) ConfirmAccountDeletion(ctx context.Context, code string) (string, error) {
	body := map[string]string{"otp": code}
	env, err := a.transport.Request(ctx, http.MethodPost, "/auth/delete-account/confirm", domain.RequestOptions{JSONBody: body})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
