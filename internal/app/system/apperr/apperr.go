// Package apperr defines the error kinds every operation in the API can
// fail with, and the fixed order in which checks are made: existence, then
// authentication, then authorization, then business rule. Handlers return
// the first failure and the HTTP layer maps its kind to a status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP surface.
type Kind int

const (
	// Internal is anything unexpected; surfaces as 500.
	Internal Kind = iota
	// NotFound means a parent or target entity does not exist.
	NotFound
	// Unauthenticated means the request carried no valid identity.
	Unauthenticated
	// Forbidden means an authorization predicate was not met.
	Forbidden
	// Invalid means malformed input or an unmet business rule.
	Invalid
	// Conflict means a store-level uniqueness constraint was violated.
	Conflict
)

// Error is a kinded error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional cause, not shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a user-facing message.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err; unclassified errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf extracts the user-facing message; unclassified errors get a
// generic one so internals never leak to callers.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "unexpected error"
}

// Status maps an error kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Invalid:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
