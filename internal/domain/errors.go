package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed sync operation for the rendering layer.
type ErrorCode string

const (
	ErrCodeTransport    ErrorCode = "TransportFailure"    // network unreachable, timeout, unparseable body
	ErrCodeUnauthorized ErrorCode = "Unauthorized"        // HTTP 401, handled globally by the transport
	ErrCodeValidation   ErrorCode = "ValidationFailure"   // 4xx with a server-provided envelope message
	ErrCodeNotFound     ErrorCode = "NotFound"            // 404, or fallback scan exhausted
	ErrCodeInternal     ErrorCode = "InternalServerError" // 5xx
)

var (
	// ErrCacheMiss is returned by cache stores when a key has no entry.
	ErrCacheMiss = errors.New("entry not found in cache")

	// ErrSessionExpired is returned when an operation requires a session token
	// and none is present, or the server reported 401.
	ErrSessionExpired = errors.New("session token absent or expired")

	// ErrNoNextPage is the terminal signal of a pagination cursor.
	ErrNoNextPage = errors.New("no next page")

	// ErrQueryDisabled is returned when a read is attempted while its
	// prerequisite parameter is missing.
	ErrQueryDisabled = errors.New("query is disabled")
)

// APIError carries a failed response envelope back to the caller. Message is
// the server-provided text when one was parseable, so domain validation
// failures surface verbatim to the user-facing notification.
type APIError struct {
	Code       ErrorCode
	StatusCode int    // HTTP status, 0 for pure network failures
	Message    string // server envelope message, empty when unparseable
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%s, status %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%s, status %d)", e.Code, e.StatusCode)
}

// NewAPIError builds an APIError, deriving the code from the HTTP status.
func NewAPIError(statusCode int, message string) *APIError {
	code := ErrCodeTransport
	switch {
	case statusCode == 401:
		code = ErrCodeUnauthorized
	case statusCode == 404:
		code = ErrCodeNotFound
	case statusCode >= 400 && statusCode < 500:
		code = ErrCodeValidation
	case statusCode >= 500:
		code = ErrCodeInternal
	}
	return &APIError{Code: code, StatusCode: statusCode, Message: message}
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// DisplayMessage extracts the user-facing message from an operation error.
// Server-provided envelope messages pass through verbatim; anything else falls
// back to the supplied generic message.
func DisplayMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
