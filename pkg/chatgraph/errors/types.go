package errors

import (
	"fmt"
	"strings"
)

// MissingInputError indicates a required state key or template variable
// is absent. It is raised before any model call is attempted.
type MissingInputError struct {
	// Keys are the absent state keys, in template order.
	Keys []string
	// Source says what required the keys ("input key" or "template").
	Source string
}

// Error implements the error interface.
func (e *MissingInputError) Error() string {
	noun := "variable"
	if len(e.Keys) > 1 {
		noun = "variables"
	}
	if e.Source != "" {
		return fmt.Sprintf("missing required %s for %s: %s", noun, e.Source, strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("missing required %s: %s", noun, strings.Join(e.Keys, ", "))
}

// InvalidResponseError indicates the model returned output that failed
// validation (empty after cleaning, empty JSON value, schema mismatch).
type InvalidResponseError struct {
	// Response is the cleaned response that was rejected.
	Response string
	// Reason describes why the response was rejected.
	Reason string
}

// Error implements the error interface.
func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response: %s", e.Reason)
}

// ExhaustedError indicates every attempt failed to yield a valid response.
type ExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int
	// LastErr is the last collaborator error, or nil if every failure was an
	// invalid response.
	LastErr error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("failed to get valid response after %d attempts", e.Attempts)
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

// Unwrap returns the last collaborator error.
func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}
