// Package errors provides structured error types for gridmerge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP adapter and the core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The merge engine reports three fatal conditions:
//   - INVALID_CONNECTIVITY: a face references a node index outside its zone,
//     or does not have exactly three indices
//   - UNKNOWN_MERGE_STRATEGY: the requested node matcher does not exist
//   - PRECONDITION_VIOLATION: an operation was requested on a graph that
//     cannot support it (e.g. merged output of a single-zone grid)
//
// The adapters add INVALID_FORMAT, INVALID_INPUT, FILE_NOT_FOUND and
// INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConnectivity, "face %d: index %d out of range", i, idx)
//	if errors.Is(err, errors.ErrCodeInvalidConnectivity) {
//	    // Handle malformed zone
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Merge engine errors
	ErrCodeInvalidConnectivity   Code = "INVALID_CONNECTIVITY"
	ErrCodeUnknownMergeStrategy  Code = "UNKNOWN_MERGE_STRATEGY"
	ErrCodePreconditionViolation Code = "PRECONDITION_VIOLATION"

	// Input validation errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsInputError reports whether err was caused by malformed caller input
// rather than by the environment or a bug. Input errors are fixed upstream;
// the HTTP adapter maps them to 4xx responses.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConnectivity, ErrCodeUnknownMergeStrategy,
		ErrCodePreconditionViolation, ErrCodeInvalidFormat, ErrCodeInvalidInput:
		return true
	}
	return false
}
