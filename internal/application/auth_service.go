package application

import (
	"context"
	"errors"
	"sync"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

var (
	ErrOTPMalformed      = errors.New("otp code must be exactly 6 digits")
	ErrCorrelatorMissing = errors.New("otp correlator absent or expired")
	ErrEmailRequired     = errors.New("email is required")
	ErrOAuthTokenMissing = errors.New("oauth callback carried no token")
)

// AuthService owns the session state machine:
//
//	Anonymous -> Authenticating -> Authenticated -> Anonymous
//
// Authentication mutations move through Authenticating; logout, confirmed
// account deletion, and server-reported 401 all collapse back to Anonymous.
// Every path to Anonymous clears the token, clears the entire query cache,
// and redirects to an entry route.
type AuthService struct {
	logger      domain.Logger
	config      config.Provider
	api         *orzaapi.API
	session     domain.SessionStore
	correlators domain.CorrelatorStore
	engine      *QueryEngine
	runner      *MutationRunner

	mu       sync.RWMutex
	state    domain.SessionState
	redirect func(domain.Route)
}

// NewAuthService creates the auth service. The initial state derives from
// token presence so a restart with a live cookie resumes Authenticated.
func NewAuthService(
	logger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	correlators domain.CorrelatorStore,
	engine *QueryEngine,
	runner *MutationRunner,
) *AuthService {
	if logger == nil {
		panic("logger is nil in NewAuthService")
	}
	if session == nil {
		panic("session store is nil in NewAuthService")
	}
	state := domain.SessionAnonymous
	if _, ok := session.Token(); ok {
		state = domain.SessionAuthenticated
	}
	return &AuthService{
		logger:      logger,
		config:      cfgProvider,
		api:         api,
		session:     session,
		correlators: correlators,
		engine:      engine,
		runner:      runner,
		state:       state,
	}
}

// SetRedirectHandler registers the UI-layer effect that interprets forced
// redirects (401 expiry, OAuth failures). Mutations communicate navigation
// through their Outcome instead.
func (s *AuthService) SetRedirectHandler(redirect func(domain.Route)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = redirect
}

// State returns the current session lifecycle position.
func (s *AuthService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated is the boolean presence check the route-protection gate
// consumes.
func (s *AuthService) IsAuthenticated() bool {
	_, ok := s.session.Token()
	return ok
}

func (s *AuthService) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *AuthService) redirectTo(route domain.Route) {
	s.mu.RLock()
	redirect := s.redirect
	s.mu.RUnlock()
	if redirect != nil {
		redirect(route)
	}
}

// Login performs a password login. On success the token is persisted with the
// password-login lifetime and dependent reads become enabled.
func (s *AuthService) Login(ctx context.Context, params orzaapi.LoginParams) (domain.Outcome, error) {
	s.setState(domain.SessionAuthenticating)
	outcome, err := s.runner.run(ctx, "login", domain.MsgLoginFailed, nil, func(ctx context.Context) (mutationResult, error) {
		token, message, err := s.api.Login(ctx, params)
		if err != nil {
			return mutationResult{}, err
		}
		s.session.Set(token, s.config.Get().LoginTTL())
		route := domain.RouteHome()
		return mutationResult{message: message, navigateTo: &route}, nil
	})
	if err != nil {
		s.setState(domain.SessionAnonymous)
		return outcome, err
	}
	s.setState(domain.SessionAuthenticated)
	return outcome, nil
}

// Register starts the registration OTP flow. On success the email is kept as
// a short-lived correlator so the verify step can consume it; if the flow is
// abandoned the correlator simply expires.
func (s *AuthService) Register(ctx context.Context, params orzaapi.RegisterParams) (domain.Outcome, error) {
	if params.Email == "" {
		return domain.Outcome{}, ErrEmailRequired
	}
	return s.runner.run(ctx, "register", domain.MsgRegisterFailed, nil, func(ctx context.Context) (mutationResult, error) {
		message, err := s.api.Register(ctx, params)
		if err != nil {
			return mutationResult{}, err
		}
		s.correlators.Set(domain.CorrelatorRegistrationEmail, params.Email, s.config.Get().CorrelatorTTL())
		return mutationResult{message: message}, nil
	})
}

// VerifyRegistrationOTP completes registration. A malformed code (not exactly
// six digits) is rejected client-side and never reaches the network. On
// success a session token is persisted, the correlator is cleared, and the UI
// is sent home.
func (s *AuthService) VerifyRegistrationOTP(ctx context.Context, code string) (domain.Outcome, error) {
	if !isSixDigits(code) {
		return domain.Outcome{Message: s.runner.lookup(domain.MsgOTPInvalid)}, ErrOTPMalformed
	}
	email, ok := s.correlators.Get(domain.CorrelatorRegistrationEmail)
	if !ok {
		return domain.Outcome{}, ErrCorrelatorMissing
	}

	s.setState(domain.SessionAuthenticating)
	outcome, err := s.runner.run(ctx, "verify_otp", domain.MsgRegisterFailed, nil, func(ctx context.Context) (mutationResult, error) {
		token, message, err := s.api.VerifyOTP(ctx, email, code)
		if err != nil {
			return mutationResult{}, err
		}
		s.session.Set(token, s.config.Get().LoginTTL())
		s.correlators.Clear(domain.CorrelatorRegistrationEmail)
		route := domain.RouteHome()
		return mutationResult{message: message, navigateTo: &route}, nil
	})
	if err != nil {
		s.setState(domain.SessionAnonymous)
		return outcome, err
	}
	s.setState(domain.SessionAuthenticated)
	return outcome, nil
}

// HandleOAuthCallback consumes the token the external provider's success
// route delivered. An absent token is a failed login: the UI is redirected to
// sign-in. A present token is persisted with the longer OAuth lifetime.
func (s *AuthService) HandleOAuthCallback(ctx context.Context, token string) (domain.Outcome, error) {
	if token == "" {
		s.logger.Warn(ctx, "OAuth callback without token, treating as failed login")
		s.setState(domain.SessionAnonymous)
		s.redirectTo(domain.RouteSignIn())
		return domain.Outcome{}, ErrOAuthTokenMissing
	}
	s.session.Set(token, s.config.Get().OAuthTTL())
	s.setState(domain.SessionAuthenticated)
	s.logger.Info(ctx, "Session established via OAuth callback")
	route := domain.RouteHome()
	return domain.Outcome{NavigateTo: &route}, nil
}

// Logout destroys the session unconditionally: token cleared, entire cache
// cleared, UI sent to sign-in. No network call is involved.
func (s *AuthService) Logout(ctx context.Context) domain.Outcome {
	s.session.Clear()
	if err := s.engine.Clear(ctx); err != nil {
		s.logger.Error(ctx, "Failed to clear cache on logout", "error", err.Error())
	}
	s.setState(domain.SessionAnonymous)
	s.logger.Info(ctx, "Session destroyed via logout")
	route := domain.RouteSignIn()
	return domain.Outcome{NavigateTo: &route}
}

// RequestAccountDeletion starts the delete-account OTP flow and records the
// pending-deletion correlator. Only an authenticated identity can be deleted.
func (s *AuthService) RequestAccountDeletion(ctx context.Context) (domain.Outcome, error) {
	if !s.IsAuthenticated() {
		return domain.Outcome{}, domain.ErrSessionExpired
	}
	return s.runner.run(ctx, "request_account_deletion", domain.MsgAccountDeleteFailed, nil, func(ctx context.Context) (mutationResult, error) {
		message, err := s.api.RequestAccountDeletion(ctx)
		if err != nil {
			return mutationResult{}, err
		}
		s.correlators.Set(domain.CorrelatorPendingDeletion, "pending", s.config.Get().CorrelatorTTL())
		return mutationResult{message: message}, nil
	})
}

// ConfirmAccountDeletion consumes the emailed code. On success the acting
// identity ceases to exist, so this is an intentional full reset: entire
// cache cleared, session destroyed, UI sent home.
func (s *AuthService) ConfirmAccountDeletion(ctx context.Context, code string) (domain.Outcome, error) {
	if !isSixDigits(code) {
		return domain.Outcome{Message: s.runner.lookup(domain.MsgOTPInvalid)}, ErrOTPMalformed
	}
	if _, ok := s.correlators.Get(domain.CorrelatorPendingDeletion); !ok {
		return domain.Outcome{}, ErrCorrelatorMissing
	}
	return s.runner.run(ctx, "confirm_account_deletion", domain.MsgAccountDeleteFailed, nil, func(ctx context.Context) (mutationResult, error) {
		message, err := s.api.ConfirmAccountDeletion(ctx, code)
		if err != nil {
			return mutationResult{}, err
		}
		s.correlators.Clear(domain.CorrelatorPendingDeletion)
		s.session.Clear()
		if clearErr := s.engine.Clear(ctx); clearErr != nil {
			s.logger.Error(ctx, "Failed to clear cache on account deletion", "error", clearErr.Error())
		}
		s.setState(domain.SessionAnonymous)
		route := domain.RouteHome()
		return mutationResult{message: message, navigateTo: &route}, nil
	})
}

// HandleUnauthorized is wired into the transport's 401 hook. The transport
// has already cleared the token; this side completes the session destruction
// law: full cache clear and a sign-in redirect, independent of which call
// triggered it.
func (s *AuthService) HandleUnauthorized(ctx context.Context) {
	if err := s.engine.Clear(ctx); err != nil {
		s.logger.Error(ctx, "Failed to clear cache on 401", "error", err.Error())
	}
	s.setState(domain.SessionAnonymous)
	s.redirectTo(domain.RouteSignIn())
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
