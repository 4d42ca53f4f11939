// Package errors defines the structured error taxonomy shared by the
// module resolver and the component runtime. Errors are raised
// synchronously at the point of detection; there is no retry policy in
// this core, failures are programmer errors expected to surface during
// development.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeResolution ErrorType = "resolution"
	ErrorTypeDispatch   ErrorType = "dispatch"
	ErrorTypeState      ErrorType = "state"
	ErrorTypeHydration  ErrorType = "hydration"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// VellumError is a structured error type with context.
type VellumError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *VellumError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *VellumError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *VellumError) Is(target error) bool {
	var t *VellumError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *VellumError) WithContext(key string, value interface{}) *VellumError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *VellumError) WithComponent(component string) *VellumError {
	e.Component = component

	return e
}

// Common error codes.
const (
	ErrCodeModuleNotFound    = "ERR_MODULE_NOT_FOUND"
	ErrCodeEmptyTarget       = "ERR_EMPTY_TARGET"
	ErrCodeMethodNotFound    = "ERR_METHOD_NOT_FOUND"
	ErrCodeInvalidListener   = "ERR_INVALID_LISTENER"
	ErrCodeStateTypeMismatch = "ERR_STATE_TYPE_MISMATCH"
	ErrCodeHydrationPayload  = "ERR_HYDRATION_PAYLOAD"
	ErrCodeComponentNotFound = "ERR_COMPONENT_NOT_FOUND"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// ErrModuleNotFound creates a module resolution failure carrying the
// requested target and, when known, the requiring module's path.
func ErrModuleNotFound(target, from string) *VellumError {
	msg := "module not found: " + target
	if from != "" {
		msg += " (required from " + from + ")"
	}

	return &VellumError{
		Type:        ErrorTypeResolution,
		Code:        ErrCodeModuleNotFound,
		Message:     msg,
		Recoverable: false,
	}
}

// ErrEmptyTarget distinguishes empty-target misuse from a genuine
// resolution failure.
func ErrEmptyTarget(from string) *VellumError {
	msg := "require of empty target"
	if from != "" {
		msg += " from " + from
	}

	return &VellumError{
		Type:        ErrorTypeResolution,
		Code:        ErrCodeEmptyTarget,
		Message:     msg,
		Recoverable: false,
	}
}

// ErrMethodNotFound signals that a declarative event binding references a
// component method that does not exist at dispatch time.
func ErrMethodNotFound(method, componentID string) *VellumError {
	return &VellumError{
		Type:        ErrorTypeDispatch,
		Code:        ErrCodeMethodNotFound,
		Message:     "method not found: " + method,
		Component:   componentID,
		Recoverable: false,
	}
}

// ErrInvalidListener signals a non-callable value passed where an event
// listener was expected.
func ErrInvalidListener(event string) *VellumError {
	return &VellumError{
		Type:        ErrorTypeDispatch,
		Code:        ErrCodeInvalidListener,
		Message:     "invalid listener for event: " + event,
		Recoverable: false,
	}
}

// ErrStateTypeMismatch signals an illegal state assignment.
func ErrStateTypeMismatch(key, detail string) *VellumError {
	return &VellumError{
		Type:        ErrorTypeState,
		Code:        ErrCodeStateTypeMismatch,
		Message:     fmt.Sprintf("invalid state assignment for %q: %s", key, detail),
		Recoverable: false,
	}
}

// ErrComponentNotFound creates a component lookup error.
func ErrComponentNotFound(id string) *VellumError {
	return &VellumError{
		Type:        ErrorTypeDispatch,
		Code:        ErrCodeComponentNotFound,
		Message:     "component not found: " + id,
		Recoverable: false,
	}
}

// NewHydrationError creates a hydration payload error.
func NewHydrationError(message string, cause error) *VellumError {
	return &VellumError{
		Type:        ErrorTypeHydration,
		Code:        ErrCodeHydrationPayload,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *VellumError {
	return &VellumError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *VellumError {
	return &VellumError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *VellumError {
	return &VellumError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsResolutionError checks if an error is a module resolution failure.
func IsResolutionError(err error) bool {
	var ve *VellumError
	if errors.As(err, &ve) {
		return ve.Type == ErrorTypeResolution
	}

	return false
}

// IsDispatchError checks if an error is an event dispatch failure.
func IsDispatchError(err error) bool {
	var ve *VellumError
	if errors.As(err, &ve) {
		return ve.Type == ErrorTypeDispatch
	}

	return false
}
