package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// Error families, matched with errors.Is by the transport layer
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrConflict         = errors.New("conflict")
	ErrPersistence      = errors.New("persistence failure")
	ErrValidationFailed = validator.ErrValidationFailed
)

var (
	ErrExamNotFound   = fmt.Errorf("exam %w", ErrNotFound)
	ErrCourseNotFound = fmt.Errorf("course %w", ErrNotFound)
	ErrResultNotFound = fmt.Errorf("result %w", ErrNotFound)

	ErrExamNotPublished = fmt.Errorf("exam is not published: %w", ErrInvalidState)

	ErrAlreadySubmitted = fmt.Errorf("exam already attempted: %w", ErrConflict)
	ErrExamHasResults   = fmt.Errorf("exam has results: %w", ErrConflict)
)

type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

// isDomainError reports errors that already carry a family
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrPersistence)
}

// persistenceError tags storage failures; domain errors pass through untouched
func persistenceError(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
