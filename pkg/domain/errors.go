package domain

import (
	"errors"
	"fmt"
)

// ErrValidation marks a rejected operation. The design is left unchanged.
var ErrValidation = errors.New("validation failed")

// ErrDesignNotFound is returned when a design ID cannot be found in the store.
var ErrDesignNotFound = errors.New("design not found")

// ErrDesignExists is returned when creating a design whose ID is already taken.
var ErrDesignExists = errors.New("design already exists")

// ErrTemplateNotFound is returned when a template name is not in the library.
var ErrTemplateNotFound = errors.New("template not found")

// ErrUnknownTarget is returned when an export target name is not registered.
var ErrUnknownTarget = errors.New("unknown export target")

// ValidationError describes why an operation was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsValidation reports whether err is a rejected operation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
