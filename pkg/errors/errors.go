// Package errors provides structured error types for the canvasd application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MISSING_*: Required fields absent from a request
//   - *_NOT_FOUND: Resource not found
//   - *_FAILURE: Operation-level failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimensions, "width must be positive, got %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidDimensions) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImageLoadFailure, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidField      Code = "INVALID_FIELD"
	ErrCodeMissingField      Code = "MISSING_FIELD"

	// Resource not found errors
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Capacity errors
	ErrCodeRegistryFull Code = "REGISTRY_FULL"

	// Rendering errors
	ErrCodeImageLoadFailure      Code = "IMAGE_LOAD_FAILURE"
	ErrCodeInternalRenderFailure Code = "INTERNAL_RENDER_FAILURE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// MissingField creates a MISSING_FIELD error for the named request field.
func MissingField(name string) *Error {
	return New(ErrCodeMissingField, "missing required field %q", name)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
