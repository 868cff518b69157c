package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of them.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrValidation        = errors.New("validation failed")
)

// Error is an expected domain outcome. Message is meant to be shown to the
// client verbatim.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the sentinel the error belongs to.
func (e *Error) Kind() error {
	return e.kind
}

// Message returns the client-facing message.
func (e *Error) Message() string {
	return e.message
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Conflictf(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func Forbiddenf(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func InvalidCredentialf(format string, args ...any) error {
	return newError(ErrInvalidCredential, format, args...)
}

func Validationf(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// AsError extracts a domain error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindName is a stable label for the kind of a domain error, used in logs and
// metrics.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
