package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Target errors
	ErrValidation      ErrorCode = "VALIDATION"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrConflict        ErrorCode = "CONFLICT"
	ErrNothingToUnhide ErrorCode = "NOTHING_TO_UNHIDE"

	// Pipeline errors
	ErrIO       ErrorCode = "IO"
	ErrRollback ErrorCode = "ROLLBACK"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// CloakError represents a structured error with code and details
type CloakError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CloakError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CloakError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CloakError) Is(target error) bool {
	var targetErr *CloakError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CloakError with the given code and message
func New(code ErrorCode, message string) *CloakError {
	return &CloakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CloakError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CloakError {
	return &CloakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CloakError
func Wrap(err error, code ErrorCode, message string) *CloakError {
	if err == nil {
		return nil
	}
	return &CloakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CloakError {
	if err == nil {
		return nil
	}
	return &CloakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CloakError) WithDetail(key string, value interface{}) *CloakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CloakError) WithDetails(details map[string]interface{}) *CloakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code.
// Only the outermost CloakError in the chain is consulted.
func IsErrorCode(err error, code ErrorCode) bool {
	var cloakErr *CloakError
	if errors.As(err, &cloakErr) {
		return cloakErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CloakError
func GetErrorCode(err error) ErrorCode {
	var cloakErr *CloakError
	if errors.As(err, &cloakErr) {
		return cloakErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CloakError
func GetErrorDetails(err error) map[string]interface{} {
	var cloakErr *CloakError
	if errors.As(err, &cloakErr) {
		return cloakErr.Details
	}
	return nil
}

// ExitCode maps an error to the process exit status used by the command layer.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetErrorCode(err) {
	case ErrValidation:
		return 2
	case ErrConflict:
		return 3
	case ErrRollback:
		return 4
	case ErrIO:
		return 5
	default:
		return 1
	}
}
