// Package apperror defines the application's error taxonomy.
//
// Services return these typed errors; the HTTP layer maps them to status
// codes with errors.Is/As. The sentinels below are the complete set of
// failure causes a caller can distinguish — nothing else leaks out of the
// service layer except wrapped infrastructure errors (which map to 500).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnsupported  = errors.New("unsupported")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is part of the taxonomy but currently unused: update and
	// delete on a snippet owned by someone else deliberately report NotFound
	// so non-owners cannot probe for resource existence.
	ErrForbidden = errors.New("forbidden")
)

// AppError wraps a sentinel with a human-readable message and, for
// validation failures, the offending field.
type AppError struct {
	Err     error  // sentinel cause
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unsupported reports a value that is well-formed but outside the accepted
// set — in practice, a language tag not in the fixed accepted list.
func Unsupported(message string) *AppError {
	return &AppError{
		Err:     ErrUnsupported,
		Message: message,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized covers bad credentials and invalid or expired tokens.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
