package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad request input (missing fields, bad index).
	ErrValidation = errors.New("validation failed")
	// ErrIndexOutOfRange is returned when an index does not address a stored question.
	ErrIndexOutOfRange = fmt.Errorf("%w: index out of range", ErrValidation)
	// ErrNoQuestions indicates the collection is empty on a quiz read.
	ErrNoQuestions = errors.New("no questions available")
	// ErrPersistence wraps read/write failures of the backing store.
	ErrPersistence = errors.New("question store unavailable")
	// ErrCorruptStore indicates the persisted collection could not be decoded.
	ErrCorruptStore = errors.New("question store is corrupt")
)

// ValidationError describes a single rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Missing builds a ValidationError for an absent field.
func Missing(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}
