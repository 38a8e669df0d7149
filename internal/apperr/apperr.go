package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies an application error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
	// ErrorTypeValidation indicates a rejected form submission
	ErrorTypeValidation ErrorType = "VALIDATION"
	// ErrorTypeAuth indicates failed authentication
	ErrorTypeAuth ErrorType = "AUTH"
	// ErrorTypeConstraint indicates the storage layer rejected an invariant violation
	ErrorTypeConstraint ErrorType = "CONSTRAINT"
	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(errorType ErrorType, message string) error {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap wraps an error with an application error
func Wrap(errorType ErrorType, message string, err error) error {
	return &AppError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a not found error
func NotFound(message string) error {
	return New(ErrorTypeNotFound, message)
}

// Validation creates a validation error
func Validation(message string) error {
	return New(ErrorTypeValidation, message)
}

// Validationf creates a validation error with a formatted message
func Validationf(format string, args ...interface{}) error {
	return New(ErrorTypeValidation, fmt.Sprintf(format, args...))
}

// Auth creates an authentication error
func Auth(message string) error {
	return New(ErrorTypeAuth, message)
}

// Constraint creates a constraint error
func Constraint(message string) error {
	return New(ErrorTypeConstraint, message)
}

// Internal creates an internal error
func Internal(message string) error {
	return New(ErrorTypeInternal, message)
}

// Message returns the human-readable message of an AppError, or a generic
// fallback for any other error
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsAuth checks if an error is an authentication error
func IsAuth(err error) bool {
	return isType(err, ErrorTypeAuth)
}

// IsConstraint checks if an error is a constraint error
func IsConstraint(err error) bool {
	return isType(err, ErrorTypeConstraint)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsDuplicateError checks if an error is a duplicate key error from the
// storage layer
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "duplicate entry")
}

// IsForeignKeyError checks if an error is a foreign key violation from the
// storage layer
func IsForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "FOREIGN KEY constraint") ||
		strings.Contains(errStr, "violates foreign key")
}
