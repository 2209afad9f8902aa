package services

import (
	"errors"
	"fmt"

	"storefront/internal/repositories"
)

// Error kinds. Every error returned by a service for a client mistake wraps
// exactly one of them; anything else is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
)

// Error carries a client-facing message next to its kind.
type Error struct {
	Kind    error
	Message string
	// Fields holds per-field problems of a validation failure.
	Fields map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports the failing fields of a request.
func ValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// fromRepo translates repository sentinels into service kinds; what names the
// missing entity in the message, e.g. "Product".
func fromRepo(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return newError(ErrNotFound, "%s not found", what)
	case errors.Is(err, repositories.ErrDuplicate):
		return newError(ErrConflict, "%s already exists", what)
	case errors.Is(err, repositories.ErrInsufficientStock):
		return newError(ErrConflict, "Insufficient stock")
	}
	return err
}
