package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for brogw
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound indicates a well or series was not found in the registry
	ErrNotFound = errors.New("not found")

	// ErrConnectionFailed indicates the registry could not be reached
	ErrConnectionFailed = errors.New("connection failed")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrNoWorkspace indicates no wells have been retrieved yet
	ErrNoWorkspace = errors.New("no wells retrieved")

	// ErrNoMeasurements indicates no series have been downloaded yet
	ErrNoMeasurements = errors.New("no measurements downloaded")

	// ErrInvalidExtent indicates a malformed or empty bounding box
	ErrInvalidExtent = errors.New("invalid extent")
)

// WellError wraps an error with the well it concerns
type WellError struct {
	WellKey string
	Err     error
}

// Error implements the error interface
func (e *WellError) Error() string {
	return fmt.Sprintf("well %q: %v", e.WellKey, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *WellError) Unwrap() error {
	return e.Err
}

// WrapWellError wraps an error with well context
func WrapWellError(wellKey string, err error) error {
	if err == nil {
		return nil
	}
	return &WellError{
		WellKey: wellKey,
		Err:     err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors, dropping nils
func NewMultiError(errs []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errs)),
	}
	for _, err := range errs {
		m.Add(err)
	}
	return m
}

// ValidationError represents a validation failure of a flag or config value
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// FriendlyError converts technical errors to user-facing messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	switch {
	case errors.Is(err, ErrTimeout):
		return "Operation timed out. Try again or raise the timeout with --job-timeout."
	case errors.Is(err, ErrCancelled):
		return "Operation was cancelled."
	case errors.Is(err, ErrNotFound):
		return "Not found in the registry. Check the GMW id and tube number."
	case errors.Is(err, ErrConnectionFailed):
		return "Could not reach the groundwater registry. Check registry.url and your network."
	case errors.Is(err, ErrNoWorkspace):
		return "No wells in the workspace. Run 'brogw wells retrieve' first."
	case errors.Is(err, ErrNoMeasurements):
		return "No measurements downloaded. Run 'brogw series download' first."
	case errors.Is(err, ErrInvalidExtent):
		return "Invalid bounding box. Use --bbox xmin,ymin,xmax,ymax."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Check your config file and command-line flags."
	case errors.As(err, &verr):
		return verr.Error()
	default:
		return err.Error()
	}
}

// CombineErrors combines multiple errors into a single error, or nil if all are nil
func CombineErrors(errs ...error) error {
	return NewMultiError(errs).ErrorOrNil()
}
