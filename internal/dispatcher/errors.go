package dispatcher

import (
	"fmt"
)

// OperationError represents a handled failure of a dispatched operation.
// The dispatcher keeps error kinds distinguishable internally and stringifies
// them only at its public boundary.
type OperationError struct {
	Type    string
	Message string
	Cause   error
}

func (e *OperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("operation error [%s]: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("operation error [%s]: %s", e.Type, e.Message)
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// Operation error types
const (
	OperationErrorTypeValidation       = "validation"
	OperationErrorTypeNotFound         = "not_found"
	OperationErrorTypeConflict         = "conflict"
	OperationErrorTypeUnknownOperation = "unknown_operation"
	OperationErrorTypeStorage          = "storage"
)

// NewValidationError creates an error for a missing or blank required parameter
func NewValidationError(message string) *OperationError {
	return &OperationError{
		Type:    OperationErrorTypeValidation,
		Message: message,
	}
}

// NewNotFoundError creates an error for a lookup with no matching record
func NewNotFoundError(message string) *OperationError {
	return &OperationError{
		Type:    OperationErrorTypeNotFound,
		Message: message,
	}
}

// NewConflictError creates an error for a duplicate-email creation attempt
func NewConflictError(message string, cause error) *OperationError {
	return &OperationError{
		Type:    OperationErrorTypeConflict,
		Message: message,
		Cause:   cause,
	}
}

// NewUnknownOperationError creates an error for an unrecognized operation name
func NewUnknownOperationError(name string) *OperationError {
	return &OperationError{
		Type:    OperationErrorTypeUnknownOperation,
		Message: name,
	}
}

// NewStorageError creates an error for an unexpected store failure
func NewStorageError(cause error) *OperationError {
	return &OperationError{
		Type:    OperationErrorTypeStorage,
		Message: cause.Error(),
		Cause:   cause,
	}
}
