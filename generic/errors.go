/*
errors.go - Centralized error types for the benefit engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - Input rejected at construction (salary year, amount)
  2. State errors - Valid arguments, but the collection or object state makes
     the operation undefined (empty history, no salary entries)
  3. Authorization errors - Reviewer acting outside its specialization
  4. Initialization errors - Baseline amount could not be obtained
  5. Store errors - Missing baseline records

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, generic.ErrCategoryMismatch) {
        var mismatch *generic.CategoryMismatchError
        errors.As(err, &mismatch)
        ...
    }

SEE ALSO:
  - dagpenger/salary.go: Raises validation and empty-history errors
  - grunnbelop/provider.go: Raises initialization errors
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when a value is rejected at construction time.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidArgument is returned when an argument is outside its domain,
	// e.g. summing zero or a negative number of years.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyHistory is returned when an operation needs at least one salary
	// entry and the history has none.
	ErrEmptyHistory = errors.New("salary history is empty")

	// ErrInvalidState is returned when an operation's preconditions on the
	// receiver are not met.
	ErrInvalidState = errors.New("invalid state")

	// ErrCategoryMismatch is returned when a reviewer is handed a decision
	// outside its specialization.
	ErrCategoryMismatch = errors.New("decision category does not match reviewer specialization")

	// ErrInitialization is returned when the baseline amount cannot be obtained.
	ErrInitialization = errors.New("baseline amount initialization failed")

	// ErrBaselineNotFound is returned when no grunnbeløp is recorded for a date.
	ErrBaselineNotFound = errors.New("baseline amount not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// CategoryMismatchError records which reviewer refused which decision.
// Categories are carried as strings so this package stays scheme-agnostic.
type CategoryMismatchError struct {
	Reviewer       string
	Specialization string
	Category       string
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("reviewer %q (%s) cannot review a %s decision",
		e.Reviewer, e.Specialization, e.Category)
}

func (e *CategoryMismatchError) Unwrap() error {
	return ErrCategoryMismatch
}

// InitializationError wraps the underlying source failure.
type InitializationError struct {
	Source string
	Err    error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("baseline amount from %s: %v", e.Source, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *InitializationError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrEmptyHistory) ||
		errors.Is(err, ErrInvalidState)
}

// IsConflict returns true if the request was well-formed but cannot be
// applied to the target.
func IsConflict(err error) bool {
	return errors.Is(err, ErrCategoryMismatch)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBaselineNotFound)
}

// IsUnavailable returns true if an upstream dependency failed.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrInitialization)
}
