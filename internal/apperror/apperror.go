package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")

	// ErrReferentialIntegrity: a relation names an item that does not exist.
	ErrReferentialIntegrity = errors.New("referential integrity")
	// ErrDanglingReference: a projection found a relation endpoint that no longer resolves.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrUnavailable: the storage backend could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ReferentialIntegrity returns an AppError for a relation endpoint (field is
// "sourceId" or "targetId") that names no existing item.
// HTTP handlers map this to 422 Unprocessable Entity.
func ReferentialIntegrity(field, itemID string) *AppError {
	return &AppError{
		Err:     ErrReferentialIntegrity,
		Message: fmt.Sprintf("%s references unknown item %s", field, itemID),
		Field:   field,
	}
}

// DanglingReference returns an AppError for a stored relation whose endpoint
// item can no longer be found while building a report or graph.
func DanglingReference(relationID, itemID string) *AppError {
	return &AppError{
		Err:     ErrDanglingReference,
		Message: fmt.Sprintf("relation %s points at missing item %s", relationID, itemID),
	}
}

// Unavailable wraps a connectivity failure from the storage backend.
// Both ErrUnavailable and the cause stay reachable through errors.Is.
func Unavailable(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrUnavailable, cause),
		Message: "storage backend unavailable",
	}
}
