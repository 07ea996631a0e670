// Package persistence provides standardized error types for storage operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all adapters should use.
var (
	// ErrStoryNotFound indicates a story was not found by the given identifier.
	ErrStoryNotFound = errors.New("story not found")

	// ErrArticleNotFound indicates an article was not found by id or slug.
	ErrArticleNotFound = errors.New("article not found")

	// ErrStatusConflict indicates a conditional status update lost a race: the
	// stored status no longer matches the expected one.
	ErrStatusConflict = errors.New("story status conflict")

	// ErrInvalidSortField indicates an unsupported sort field was requested.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// StoryError wraps story storage errors with operation context.
type StoryError struct {
	Op      string // Operation being performed (e.g., "GetByID", "Save", "UpdateStatus")
	StoryID string
	Err     error
	Message string
}

func (e *StoryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for story %s: %s (%v)", e.Op, e.StoryID, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for story %s: %v", e.Op, e.StoryID, e.Err)
}

func (e *StoryError) Unwrap() error {
	return e.Err
}

func (e *StoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoryError creates a new story error with context.
func NewStoryError(op, storyID string, err error) *StoryError {
	return &StoryError{
		Op:      op,
		StoryID: storyID,
		Err:     err,
	}
}

// IsStoryNotFound checks if an error indicates a story was not found.
func IsStoryNotFound(err error) bool {
	return errors.Is(err, ErrStoryNotFound)
}

// IsArticleNotFound checks if an error indicates an article was not found.
func IsArticleNotFound(err error) bool {
	return errors.Is(err, ErrArticleNotFound)
}

// IsStatusConflict checks if an error indicates a lost conditional status update.
func IsStatusConflict(err error) bool {
	return errors.Is(err, ErrStatusConflict)
}

// IsInvalidSortField checks if an error indicates an unsupported sort field.
func IsInvalidSortField(err error) bool {
	return errors.Is(err, ErrInvalidSortField)
}
