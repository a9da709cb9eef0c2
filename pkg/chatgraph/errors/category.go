// Package errors classifies chat graph failures.
//
// Missing input is never retried: the same state would fail again.
// Transient failures (model calls, rejected answers) are retried by the chat
// node before being escalated. Everything else is permanent.
package errors

import (
	"errors"
)

// Category says how a failure should be handled.
type Category int

const (
	CategoryPermanent Category = iota
	CategoryMissingInput
	CategoryTransient
)

var categoryNames = map[Category]string{
	CategoryPermanent:    "permanent",
	CategoryMissingInput: "missing_input",
	CategoryTransient:    "transient",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// transienter is implemented by errors that know whether a retry may help,
// such as model client errors.
type transienter interface {
	Transient() bool
}

type transientError struct{ err error }

func (e transientError) Error() string   { return e.err.Error() }
func (e transientError) Unwrap() error   { return e.err }
func (e transientError) Transient() bool { return true }

// MarkTransient wraps err so Categorize reports it as transient.
// A nil err stays nil.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// Categorize walks err's chain and returns the first category it can
// determine. Unknown and nil errors are permanent.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent
	}

	var missing *MissingInputError
	if errors.As(err, &missing) {
		return CategoryMissingInput
	}

	var (
		exhausted *ExhaustedError
		invalid   *InvalidResponseError
	)
	if errors.As(err, &exhausted) || errors.As(err, &invalid) {
		return CategoryTransient
	}

	var t transienter
	if errors.As(err, &t) && t.Transient() {
		return CategoryTransient
	}
	return CategoryPermanent
}

// IsMissingInput reports whether err was caused by absent input data.
func IsMissingInput(err error) bool {
	return Categorize(err) == CategoryMissingInput
}

// IsRetryable reports whether a retry may succeed.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}
