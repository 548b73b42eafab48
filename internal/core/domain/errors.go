// Package domain defines the core value types of pumpd.
package domain

import (
	"errors"
	"fmt"
)

// DomainError is an error carrying a stable, greppable code.
//
// Codes have the form PD-<AREA>-<NNNN>. 4xxx codes are configuration
// problems, 5xxx codes are environment failures.
type DomainError struct {
	Code    string // Error code (e.g., "PD-LSN-5001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// Wrap returns a copy of the error wrapping the given cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Configuration errors (CONF).
var (
	// ErrInvalidConfig indicates the loaded configuration failed verification.
	ErrInvalidConfig = NewDomainError("PD-CONF-4001", "invalid configuration")
)

// Child process errors (PROC).
var (
	// ErrChildSpawn indicates the child execution context could not be created.
	// This is fatal at startup.
	ErrChildSpawn = NewDomainError("PD-PROC-5001", "cannot create child process")

	// ErrChildUnavailable indicates the child program could not be executed
	// (missing or not executable). The supervisor keeps running without a child.
	ErrChildUnavailable = NewDomainError("PD-PROC-5002", "child program unavailable")
)

// Listener errors (LSN).
var (
	// ErrListen indicates the command socket could not be created, bound or put
	// into listening state. This is fatal at startup.
	ErrListen = NewDomainError("PD-LSN-5001", "cannot listen for commands")

	// ErrListenerClosed indicates the listener was closed by shutdown.
	ErrListenerClosed = NewDomainError("PD-LSN-5002", "listener closed")
)
