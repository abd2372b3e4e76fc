package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of its message.
type Kind int

const (
	Internal Kind = iota
	NotFound
	BadRequest
	Forbidden
	Conflict
	Unauthenticated
	Unauthorized
	InvalidOrExpired
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case BadRequest:
		return "bad_request"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case InvalidOrExpired:
		return "invalid_or_expired"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to the status code returned to API clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case BadRequest, InvalidOrExpired:
		return http.StatusBadRequest
	case Forbidden, Unauthorized:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed, user-visible failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a typed error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches a cause to a typed error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of err. Untyped errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// MessageOf returns the user-facing message; internal causes are never exposed.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}
