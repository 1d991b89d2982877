package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

const (
	// ErrConfiguration marks caller misuse detectable without running any
	// handler: empty source set, unknown label, label naming the wrong
	// node kind.
	ErrConfiguration ErrorCode = "CONFIGURATION"
	// ErrStructural marks a failed graph assembly: label collision,
	// identity collision with a non-identical node, or an introduced cycle.
	ErrStructural ErrorCode = "STRUCTURAL"
	// ErrComputation marks a node handler fault raised during processing.
	ErrComputation ErrorCode = "COMPUTATION"
)

// Error represents a structured engine error with code, message, and
// diagnostic metadata.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Label is the graph or source label the error refers to, when one exists.
	Label string `json:"label,omitempty"`
	// Paths holds the label-rooted paths from labelled ancestors down to the
	// failing node. Populated only for computation errors.
	Paths [][]string `json:"paths,omitempty"`
	Cause error      `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithLabel attaches the offending label.
func (e *Error) WithLabel(label string) *Error {
	e.Label = label
	return e
}

// WithPaths attaches the label-rooted failure paths.
func (e *Error) WithPaths(paths [][]string) *Error {
	e.Paths = paths
	return e
}

// GetErrorCode extracts the error code from an error, unwrapping as needed.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given engine error code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// PathsOf extracts the failure path set from an error, or nil.
func PathsOf(err error) [][]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Paths
	}
	return nil
}
