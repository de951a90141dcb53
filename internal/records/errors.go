package records

import (
	"errors"
	"fmt"
)

// UserError represents errors related to user store operations
type UserError struct {
	Type    string
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s]: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s]: %s", e.Type, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// User error types
const (
	UserErrorTypeNotFound       = "not_found"
	UserErrorTypeDuplicateEmail = "duplicate_email"
	UserErrorTypeInvalidRequest = "invalid_request"
)

// NewUserNotFoundError creates an error for when no record matches a lookup
func NewUserNotFoundError(message string) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		Message: message,
	}
}

// NewDuplicateEmailError creates an error for a create with an email already on record
func NewDuplicateEmailError(email string, cause error) *UserError {
	return &UserError{
		Type:    UserErrorTypeDuplicateEmail,
		Message: fmt.Sprintf("user with email '%s' already exists", email),
		Cause:   cause,
	}
}

// NewInvalidUserRequestError creates an error for malformed store input
func NewInvalidUserRequestError(message string) *UserError {
	return &UserError{
		Type:    UserErrorTypeInvalidRequest,
		Message: message,
	}
}

// IsNotFound reports whether err is a not-found user error
func IsNotFound(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr) && userErr.Type == UserErrorTypeNotFound
}

// IsDuplicateEmail reports whether err is a duplicate-email user error
func IsDuplicateEmail(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr) && userErr.Type == UserErrorTypeDuplicateEmail
}
