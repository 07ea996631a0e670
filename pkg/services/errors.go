// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidSortField    = errors.New("invalid sort field")
	ErrInvalidSortOrder    = errors.New("invalid sort order")
	ErrInvalidStatus       = errors.New("invalid story status")
	ErrInvalidReviewAction = errors.New("invalid review action")
	ErrEmptyAuthorID       = errors.New("author ID cannot be empty")
	ErrStoryNil            = errors.New("story cannot be nil")

	// Authorization Errors (403 Forbidden).
	ErrPermissionDenied = errors.New("permission denied")

	// Workflow Conflicts (409 Conflict).
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidReviewAction) ||
		errors.Is(err, ErrEmptyAuthorID) ||
		errors.Is(err, ErrStoryNil)
}

// IsPermissionDenied checks if an error is an authorization failure that should return HTTP 403.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsInvalidTransition checks if an error is a workflow conflict that should return HTTP 409.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewPermissionError creates a permission-denied error with context.
func NewPermissionError(op, message string) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "PERMISSION_DENIED",
		Message: message,
		Err:     ErrPermissionDenied,
	}
}

// NewTransitionError creates an invalid-transition error with context.
func NewTransitionError(op, message string) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "INVALID_TRANSITION",
		Message: message,
		Err:     ErrInvalidTransition,
	}
}
