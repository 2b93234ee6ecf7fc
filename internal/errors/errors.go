// Package errors provides typed error definitions for docktop.
// This package consolidates error handling and provides structured error types
// that can be used for better error classification and handling.
package errors

import (
	"fmt"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Engine protocol errors
	ErrTransport     ErrorCode = "TRANSPORT"      // socket connect/read/write failure
	ErrProtocol      ErrorCode = "PROTOCOL"       // malformed or unexpected response framing
	ErrDecode        ErrorCode = "DECODE"         // valid response body that fails JSON decoding
	ErrDaemonStatus  ErrorCode = "DAEMON_STATUS"  // non-success status with an error body
	ErrStreamCorrupt ErrorCode = "STREAM_CORRUPT" // log stream frame failed the sanity check

	// Configuration errors
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Action errors
	ErrActionFailed ErrorCode = "ACTION_FAILED"
	ErrInvalidSpec  ErrorCode = "INVALID_SPEC"
	ErrBuildContext ErrorCode = "BUILD_CONTEXT"

	// History store errors
	ErrHistoryOpen      ErrorCode = "HISTORY_OPEN"
	ErrHistoryMigration ErrorCode = "HISTORY_MIGRATION"
	ErrHistoryQuery     ErrorCode = "HISTORY_QUERY"
)

// DocktopError represents a structured error with additional context
type DocktopError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *DocktopError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *DocktopError) Unwrap() error {
	return e.Cause
}

// New creates a new DocktopError
func New(code ErrorCode, message string) *DocktopError {
	return &DocktopError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new DocktopError with details
func NewWithDetails(code ErrorCode, message, details string) *DocktopError {
	return &DocktopError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new DocktopError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *DocktopError {
	return &DocktopError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// GetCode extracts the error code from an error, if it's a DocktopError
func GetCode(err error) ErrorCode {
	if de, ok := err.(*DocktopError); ok {
		return de.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
