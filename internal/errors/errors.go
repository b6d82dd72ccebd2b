// Package errors provides structured error types for the GPS Lab client
// core. Expected failure modes (unavailable storage, quota pressure,
// malformed input) are modeled as typed, inspectable errors so callers can
// degrade gracefully instead of propagating panics across the public
// surface.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeQuota         ErrorType = "quota"
	ErrorTypeSerialization ErrorType = "serialization"
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeNetwork       ErrorType = "network"
	ErrorTypeInternal      ErrorType = "internal"
)

// Sentinel errors for the storage layer. These are matched with errors.Is
// by the store's quota-recovery and availability-probe paths.
var (
	// ErrQuotaExceeded is returned by a backend when a write would push
	// it past its configured capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrStorageUnavailable is returned when the backend probe failed and
	// the store is operating in degraded no-op mode.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrKeyNotFound is returned by backends for reads of absent keys.
	ErrKeyNotFound = errors.New("key not found")
)

// LabError is a structured error with category, stable code, and optional
// context. It is the only error shape the CLI and server surface to users.
type LabError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *LabError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *LabError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *LabError) Is(target error) bool {
	var t *LabError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *LabError) WithContext(key string, value interface{}) *LabError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *LabError {
	return &LabError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewStorageError creates a storage error.
func NewStorageError(code, message string, cause error) *LabError {
	return &LabError{
		Type:        ErrorTypeStorage,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewQuotaError creates a quota error. Quota errors are recoverable: the
// store responds by purging cache entries and sweeping expired records.
func NewQuotaError(message string, cause error) *LabError {
	return &LabError{
		Type:        ErrorTypeQuota,
		Code:        "quota_exceeded",
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewSerializationError creates a serialization error.
func NewSerializationError(message string, cause error) *LabError {
	return &LabError{
		Type:        ErrorTypeSerialization,
		Code:        "encode_failed",
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *LabError {
	return &LabError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *LabError {
	return &LabError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var le *LabError
	if errors.As(err, &le) {
		return le.Recoverable
	}

	return false
}

// IsQuotaError reports whether err is quota pressure, either the backend
// sentinel or a wrapped LabError of quota type.
func IsQuotaError(err error) bool {
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}

	var le *LabError
	if errors.As(err, &le) {
		return le.Type == ErrorTypeQuota
	}

	return false
}
