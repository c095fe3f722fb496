// Package errors provides structured error types for kbmatrix.
//
// Stage-level failures (missing input, no objects, a corrupt sort input) and
// per-span failures (parse errors, missing fields) share one taxonomy so the
// CLI can map them to exit status and the pipeline report can count skips by
// code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingInputFile, "input file not found: %s", path)
//	if errors.Is(err, errors.ErrCodeMissingInputFile) {
//	    // Handle missing input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeObjectParse, jsonErr, "object #%d", idx)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Stage-level failures
	ErrCodeMissingInputFile Code = "MISSING_INPUT_FILE"
	ErrCodeNoObjectsFound   Code = "NO_OBJECTS_FOUND"
	ErrCodeSortParse        Code = "SORT_PARSE_FAILURE"

	// Per-span failures, recovered by the convert stage
	ErrCodeObjectParse  Code = "OBJECT_PARSE_FAILURE"
	ErrCodeMissingField Code = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidState Code = "INVALID_STATE"

	// Input and configuration errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeIO            Code = "IO_ERROR"

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
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
