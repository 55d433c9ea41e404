package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for different categories
var (
	// ErrNotFound - resource not found (missing task/habit/routine/snapshot id)
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput - invalid input (rejected at the command boundary before reaching the engine)
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict - conflicting state (e.g. starting a session while one is already active)
	ErrConflict = errors.New("conflict")

	// ErrTransient - transient failure (storage read/write problems; callers fall back, never crash)
	ErrTransient = errors.New("transient error")

	// ErrInternal - internal error
	ErrInternal = errors.New("internal error")
)

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCategory checks if error belongs to a specific category.
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// NotFound wraps a message as a not found error.
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// InvalidInput wraps a message as an invalid input error.
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// Conflict wraps a message as a conflict error.
func Conflict(message string) error {
	return fmt.Errorf("%s: %w", message, ErrConflict)
}

// Transient wraps a message as a transient error.
func Transient(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransient)
}

// Internal wraps a message as an internal error.
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}
