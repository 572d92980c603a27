// Package apperr defines the error taxonomy shared by every handler and
// service. Each kind maps to exactly one HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Validation Kind = iota + 1 // 400, malformed or missing input
	Unauthorized               // 401, missing or invalid credential
	Forbidden                  // 403, credential valid but rejected
	NotFound                   // 404, referenced entity absent
	Store                      // 500, persistence or provider failure
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // per-field diagnostics for validation errors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a 400 error with a per-field error map.
func Validationf(message string, fields map[string]string) *Error {
	return &Error{Kind: Validation, Message: message, Fields: fields}
}

func Unauthorizedf(format string, args ...any) *Error {
	return &Error{Kind: Unauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: Forbidden, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Storef wraps an underlying persistence/provider failure. The cause is kept
// for the logs; the message is what callers see.
func Storef(err error, format string, args ...any) *Error {
	return &Error{Kind: Store, Message: fmt.Sprintf(format, args...), Err: err}
}

// Status maps err to an HTTP status code. Anything outside the taxonomy is a
// 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
