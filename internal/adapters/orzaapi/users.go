package orzaapi

import (
	"context"
	"net/http"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// ProfileParams is the writable portion of the current user's profile.
// Avatar is optional.
type ProfileParams struct {
	Name   string
	Bio    string
	Avatar *domain.FileUpload
}

func (p ProfileParams) multipart() *domain.MultipartPayload {
	return &domain.MultipartPayload{
		Fields: map[string]string{
			"name": p.Name,
			"bio":  p.Bio,
		},
		File: p.Avatar,
	}
}

// UserProfile fetches the detailed profile of the signed-in user.
// This and Profile are two distinct endpoints that both represent the current
// user; writes must keep both cache entries in sync.
func (a *API) UserProfile(ctx context.Context) (*domain.User, error) {
	return a.fetchUser(ctx, "/users/profile")
}

// Profile fetches the generic profile of the signed-in user.
func (a *API) Profile(ctx context.Context) (*domain.User, error) {
	return a.fetchUser(ctx, "/profile")
}

func (a *API) fetchUser(ctx context.Context, path string) (*domain.User, error) {
	env, err := a.transport.Request(ctx, http.MethodGet, path, domain.RequestOptions{})
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := env.DecodeData(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile replaces the current user's profile fields, with an optional
// avatar upload.
func (a *API) UpdateProfile(ctx context.Context, params ProfileParams) (string, error) {
	env, err := a.transport.Request(ctx, http.MethodPut, "/users/profile", domain.RequestOptions{Multipart: params.multipart()})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
