package errors

import (
	"context"
	"errors"
	"fmt"
)

// Client-correctable failures. Surfaced to the user, never retried automatically.
var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrAlreadyLiked     = errors.New("already liked")
	ErrNotMatched       = errors.New("users are not matched")
	ErrEmptyMessage     = errors.New("message body is empty")
	ErrUserNotFound     = errors.New("user not found")
)

// ErrConstraintRace marks a unique-constraint conflict observed while racing
// another writer. It is resolved by re-reading state and never leaves a service.
var ErrConstraintRace = errors.New("constraint race")

// Transient failures. Safe for the caller to retry.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrTimeout            = errors.New("operation timed out")
)

// Storage normalizes an error returned by the store into the transient
// taxonomy. Domain errors pass through untouched.
func Storage(err error) error {
	switch {
	case err == nil:
		return nil
	case isDomain(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
}

// Code returns the stable wire code used in realtime error events.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrAlreadyLiked):
		return "already_liked"
	case errors.Is(err, ErrNotMatched):
		return "not_matched"
	case errors.Is(err, ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "internal"
	}
}

// Retryable reports whether the client may resend the same request.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}

func isDomain(err error) bool {
	return errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrAlreadyLiked) ||
		errors.Is(err, ErrNotMatched) ||
		errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrStorageUnavailable)
}
