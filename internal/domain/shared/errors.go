// Package shared contains common domain types and errors that are used across
// all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound = errors.New("entity not found")

	// Validation errors
	ErrValidation = errors.New("validation error")
	ErrInvalidID  = errors.New("invalid ID")
	ErrEmptyValue = errors.New("value cannot be empty")

	// Store errors
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStoreUnavailable    = errors.New("store unavailable")

	// Concurrency errors
	ErrLocked = errors.New("resource is locked")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "group", "student", "report"
	Op      string // Operation that failed, e.g., "Create", "Delete"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Entity lookup errors
var (
	ErrGroupNotFound   = NewDomainError("group", "Find", ErrNotFound, "group not found")
	ErrTeacherNotFound = NewDomainError("teacher", "Find", ErrNotFound, "teacher not found")
	ErrStudentNotFound = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrSubjectNotFound = NewDomainError("subject", "Find", ErrNotFound, "subject not found")
)

// Seeding errors
var (
	ErrSeedInProgress = NewDomainError("seed", "Lock", ErrLocked, "another seeding run holds the lock")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrEmptyValue)
}

// IsConstraintViolation checks if the store rejected a write because of a
// foreign-key, uniqueness or not-null rule.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// IsStoreUnavailable checks if the error is a connectivity failure.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
