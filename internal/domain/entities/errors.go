package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a read requires a row that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps storage failures; the enclosing transaction was rolled back.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationCode classifies a rejected input.
type ValidationCode string

const (
	CodeMissingField    ValidationCode = "missing_field"
	CodeInvalidInput    ValidationCode = "invalid_input"
	CodeInvalidGameType ValidationCode = "invalid_game_type"
)

// ValidationError reports the input field that was rejected before any write.
type ValidationError struct {
	Code   ValidationCode
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Field)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingField reports an absent required field.
func MissingField(field string) error {
	return &ValidationError{Code: CodeMissingField, Field: field, Reason: "is required"}
}

// InvalidInput reports a present but malformed field.
func InvalidInput(field, reason string) error {
	return &ValidationError{Code: CodeInvalidInput, Field: field, Reason: reason}
}

// InvalidGameType reports a game type outside the configured set.
func InvalidGameType(gameType string) error {
	return &ValidationError{Code: CodeInvalidGameType, Field: "game_type", Reason: fmt.Sprintf("%q is not allowed", gameType)}
}

// AsValidation extracts the *ValidationError from err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Persistence marks err as a storage failure while keeping the cause in the chain.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
