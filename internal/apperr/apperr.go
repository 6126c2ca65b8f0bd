// Package apperr holds the error taxonomy shared by the stores and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a client-facing error of a given kind. Error returns only the message,
// errors.Is matches the kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

func Validation(msg string) error {
	return &Error{kind: ErrValidation, msg: msg}
}

func Unauthorized(msg string) error {
	return &Error{kind: ErrUnauthorized, msg: msg}
}

// StatusCode maps an error to the HTTP status it is reported with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
