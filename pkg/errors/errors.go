// Package errors provides structured error types for synthtext.
//
// Every failure in the sample pipeline is reported as an [*Error] carrying a
// machine-readable [Code]. Nothing in the pipeline retries or recovers: a
// coded error aborts the current run and is surfaced to the invoker.
//
// # Error Codes
//
// Codes follow a category prefix:
//   - INVALID_*: input and configuration validation failures
//   - *_FAILED: a pipeline stage (shape, rasterize, filter, write) failed
//   - BROWSER_UNAVAILABLE: the rasterizer backend could not be started
//   - INTERNAL_*, UNSUPPORTED: unexpected conditions
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidWord, "word %q contains a path separator", w)
//	if errors.Is(err, errors.ErrCodeInvalidWord) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRasterize, origErr, "screenshot %s", word)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidWord      Code = "INVALID_WORD"
	ErrCodeInvalidNoiseMode Code = "INVALID_NOISE_MODE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeNotFound         Code = "NOT_FOUND"

	// Pipeline stage errors
	ErrCodeShape              Code = "SHAPE_FAILED"
	ErrCodeBrowserUnavailable Code = "BROWSER_UNAVAILABLE"
	ErrCodeRasterize          Code = "RASTERIZE_FAILED"
	ErrCodeFilter             Code = "FILTER_FAILED"
	ErrCodeWrite              Code = "WRITE_FAILED"
	ErrCodeManifest           Code = "MANIFEST_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
