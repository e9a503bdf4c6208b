// Package apperror holds the few error kinds the application distinguishes.
//
// Stored content is never validated, so the taxonomy is small: a key with no
// stored record (ErrNotFound) and a request that names something that cannot
// exist, such as an unknown template type or an editor field path
// (ErrValidation). Everything else is an internal error.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// AppError carries a sentinel plus a message that is safe to show a client.
type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable
	Field   string // optional: the input that caused it
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that nothing is stored under key.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found for key %s", resource, key),
	}
}

// ValidationFailed reports a request that refers to something that cannot exist.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
