package order

import (
	"errors"
	"fmt"
)

// ErrDuplicate means this submission's idempotency key already completed;
// the replay is refused before any provider call.
var ErrDuplicate = errors.New("order was already submitted")

// The four failure classes a submission can produce. Validation and closed
// errors are resolved before the provider is contacted; provider errors
// abort the submission and leave the cart intact; notification errors are
// never fatal.

// ValidationError marks input rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ClosedError means the shop is outside business hours.
type ClosedError struct{}

func (e *ClosedError) Error() string {
	return "sorry, we're currently closed and cannot process orders"
}

// ProviderError wraps a rejection or transport failure from Square.
type ProviderError struct {
	Status int
	Kind   string
	Detail string
}

func (e *ProviderError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("square %s (status %d): %s", e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("square %s (status %d)", e.Kind, e.Status)
}

// NotificationError marks a failed best-effort terminal alert. Callers log
// it and move on; it must never fail the submission that produced it.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("terminal notification failed: %v", e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
