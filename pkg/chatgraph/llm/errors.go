package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for model calls.
var (
	// ErrUnavailable indicates the model server could not be reached.
	ErrUnavailable = errors.New("model unavailable")

	// ErrRateLimited indicates the server rejected the call for load reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the call exceeded its deadline.
	ErrTimeout = errors.New("model call timed out")

	// ErrNoChoices indicates the server answered without any completion.
	ErrNoChoices = errors.New("response contained no choices")
)

// Error wraps a model call failure with the operation and whether a retry
// is likely to help.
type Error struct {
	Op        string
	Err       error
	Retryable bool
}

// NewError creates an Error.
func NewError(op string, err error, retryable bool) *Error {
	return &Error{Op: op, Err: err, Retryable: retryable}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports Retryable, so failures are categorized as transient or
// permanent by the errors package.
func (e *Error) Transient() bool {
	return e.Retryable
}
