package domain

import "time"

// SessionState is the lifecycle position of the acting identity.
// Transitions: Anonymous -> Authenticating (login/registration/OAuth mutation
// in flight) -> Authenticated (token persisted) -> Anonymous (logout, account
// deletion, or server-reported 401). Terminal states beyond Anonymous are not
// modeled.
type SessionState string

const (
	SessionAnonymous      SessionState = "anonymous"
	SessionAuthenticating SessionState = "authenticating"
	SessionAuthenticated  SessionState = "authenticated"
)

// SessionStore holds the bearer token the transport attaches to every request.
// It is injected explicitly (never read from ambient globals) so the route
// gate and enabled-gating can consume the same presence check.
type SessionStore interface {
	// Token returns the current bearer token. ok is false when no token is
	// present or the stored token has expired.
	Token() (token string, ok bool)

	// Set persists a token with an explicit expiry window.
	Set(token string, ttl time.Duration)

	// Clear destroys the session token unconditionally.
	Clear()
}

// Correlator names used by the OTP-gated two-step flows.
const (
	CorrelatorRegistrationEmail = "registration_email"
	CorrelatorPendingDeletion   = "pending_deletion"
)

// CorrelatorStore holds short-lived values bridging two-step flows (the
// registration email awaiting OTP verification, the pending account-deletion
// marker). Values expire on their own; an abandoned flow needs no cleanup.
type CorrelatorStore interface {
	Set(name, value string, ttl time.Duration)
	Get(name string) (value string, ok bool)
	Clear(name string)
}
