package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrConfig     = errors.New("configuration incomplete")
	ErrStoreWrite = errors.New("store write failed")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s: %s", resource, message),
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

// ConfigIncomplete reports which required settings are missing.
// Remote sync surfaces this instead of attempting a call that cannot succeed.
func ConfigIncomplete(missing []string) *AppError {
	return &AppError{
		Err:     ErrConfig,
		Message: fmt.Sprintf("missing required settings: %s", strings.Join(missing, ", ")),
	}
}

// StoreWriteFailed wraps a failed snapshot write. The in-memory model is
// ahead of the store until the next successful save; the caller decides how
// to report that.
func StoreWriteFailed(err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrStoreWrite, err),
		Message: "failed to save the board to the snapshot store",
	}
}
