package domain

import "context"

// Notifier surfaces transient user-facing feedback after mutations settle.
// The rendering layer supplies the implementation (toast, snackbar, etc).
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// NoopNotifier discards all feedback. Used in tests and headless runs.
type NoopNotifier struct{}

func (NoopNotifier) Success(context.Context, string) {}
func (NoopNotifier) Error(context.Context, string)   {}
