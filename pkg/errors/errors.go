// Package errors provides custom error types for the geomap system.
// The three domain conditions (upstream unavailable, lookup miss, store
// corrupt) each have a sentinel for errors.Is checks and a typed error
// carrying the details needed for logging.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers need only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the geomap system
var (
	// ErrUpstreamUnavailable indicates the cluster directory RPC failed or
	// returned malformed data. It is fatal to a run.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrLookupMiss indicates a geolocation lookup did not produce a location.
	ErrLookupMiss = errors.New("lookup miss")

	// ErrStoreCorrupt indicates the persisted dataset could not be read or parsed.
	ErrStoreCorrupt = errors.New("store corrupt")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError represents a failed call to the cluster directory RPC.
type UpstreamError struct {
	Method     string // JSON-RPC method, e.g. getClusterNodes
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s at %s unavailable (status %d): %s", e.Method, e.Endpoint, e.StatusCode, msg)
	}
	return fmt.Sprintf("upstream %s at %s unavailable: %s", e.Method, e.Endpoint, msg)
}

// Unwrap implements errors.Unwrap
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(method, endpoint string, err error) *UpstreamError {
	return &UpstreamError{
		Method:   method,
		Endpoint: endpoint,
		Err:      err,
	}
}

// APIError represents a non-success HTTP response from an external service
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// LookupError describes why a geolocation lookup produced no location.
type LookupError struct {
	Address string
	Status  string // status reported by the lookup service, if any
	Err     error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup of %s failed: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("lookup of %s returned status %q", e.Address, e.Status)
}

// Unwrap implements errors.Unwrap
func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupMiss
}

// StoreError represents a dataset file that could not be loaded.
type StoreError struct {
	Path      string
	Operation string // "read", "parse"
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("dataset %s: %s failed: %v", e.Path, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreCorrupt
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsUpstreamUnavailable checks if an error is fatal upstream unavailability
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsLookupMiss checks if an error is a geolocation miss
func IsLookupMiss(err error) bool {
	return errors.Is(err, ErrLookupMiss)
}

// IsStoreCorrupt checks if an error is an unreadable dataset
func IsStoreCorrupt(err error) bool {
	return errors.Is(err, ErrStoreCorrupt)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
