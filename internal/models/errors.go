package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrNoModelLoaded  = errors.New("no trained model loaded")
	ErrGameIncomplete = errors.New("game missing final scores")
)

// ValidationError carries a machine-readable code alongside a message.
type ValidationError struct {
	Code    string
	Message string
}

// NewValidationError constructs a ValidationError.
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
