// Package apperr defines the closed set of failure kinds the API reports and
// the error value that carries them across layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. The set is closed; every kind maps to exactly
// one HTTP status.
type Kind int

const (
	GeneralFailure Kind = iota
	Validation
	NotFound
	Authentication
	Authorization
	Conflict
	RateLimited
)

// Status returns the HTTP status code reported for the kind.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusUnprocessableEntity
	case NotFound:
		return http.StatusNotFound
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case RateLimited:
		return http.StatusTooManyRequests
	case GeneralFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Authentication:
		return "authentication"
	case Authorization:
		return "authorization"
	case Conflict:
		return "conflict"
	case RateLimited:
		return "rate_limited"
	default:
		return "general_failure"
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is
// the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Field builds a validation error for a single field. The field message is
// also used as the top-level message.
func Field(field, message string) *Error {
	return &Error{
		Kind:    Validation,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

// Fields builds a validation error carrying several field messages.
func Fields(message string, fields map[string][]string) *Error {
	return &Error{Kind: Validation, Message: message, Fields: fields}
}

// KindOf reports the kind of err, or GeneralFailure when err is not an
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return GeneralFailure
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
