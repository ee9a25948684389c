package core

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	// Input errors
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorCodeInvalidRange ErrorCode = "INVALID_RANGE"

	// Verification errors
	ErrorCodeVerificationFailed ErrorCode = "VERIFICATION_FAILED"

	// Configuration errors
	ErrorCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrorCodeConfigWrite   ErrorCode = "CONFIG_WRITE_FAILED"

	// Server errors
	ErrorCodeServerStart ErrorCode = "SERVER_START_FAILED"
	ErrorCodeAddrInUse   ErrorCode = "ADDRESS_IN_USE"

	// Runtime errors
	ErrorCodePanicRecovered     ErrorCode = "PANIC_RECOVERED"
	ErrorCodeMaxRetriesExceeded ErrorCode = "MAX_RETRIES_EXCEEDED"
)

// Error represents a structured error with code and metadata
type Error struct {
	Err      error          `json:"error"`
	Code     ErrorCode      `json:"code"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewError creates a new structured error for domain boundaries
func NewError(err error, code ErrorCode, metadata map[string]any) *Error {
	return &Error{
		Err:      err,
		Code:     code,
		Metadata: metadata,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Metadata) > 0 {
		return fmt.Sprintf("[%s] %v (metadata: %v)", e.Code, e.Err, e.Metadata)
	}
	return fmt.Sprintf("[%s] %v", e.Code, e.Err)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// HasCode reports whether err, or any error it wraps, is a *Error with the given code
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &Error{Code: code})
}
