// Package errors provides typed errors for modkit pipelines.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error.
type ErrorType int

const (
	// ErrDependency indicates a required external tool could not be installed.
	// This is the only fatal-at-Init error kind.
	ErrDependency ErrorType = iota
	// ErrTask indicates a task precondition was violated
	ErrTask
	// ErrConfig indicates a configuration error
	ErrConfig
	// ErrManifest indicates a manifest parse or patch error
	ErrManifest
	// ErrAnalysis indicates the static analyzer reported findings
	ErrAnalysis
	// ErrTest indicates the test run reported failures
	ErrTest
	// ErrPackaging indicates the packaging tool failed
	ErrPackaging
)

// PipelineError is the base error type for all modkit errors.
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// New creates a new PipelineError.
func New(errType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type.
func IsType(err error, errType ErrorType) bool {
	var perr *PipelineError
	if err == nil {
		return false
	}
	if errors.As(err, &perr) {
		return perr.Type == errType
	}
	return false
}

// IsFatalDependency reports whether the error is an unrecoverable
// dependency-installation failure raised during Init.
func IsFatalDependency(err error) bool {
	return IsType(err, ErrDependency)
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrDependency:
		return "DEPENDENCY"
	case ErrTask:
		return "TASK"
	case ErrConfig:
		return "CONFIG"
	case ErrManifest:
		return "MANIFEST"
	case ErrAnalysis:
		return "ANALYSIS"
	case ErrTest:
		return "TEST"
	case ErrPackaging:
		return "PACKAGING"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// DependencyError creates a fatal dependency error.
func DependencyError(message string, cause error) *PipelineError {
	return New(ErrDependency, message, cause)
}

// TaskError creates a task failure.
func TaskError(message string, cause error) *PipelineError {
	return New(ErrTask, message, cause)
}

// ConfigError creates a configuration error.
func ConfigError(message string, cause error) *PipelineError {
	return New(ErrConfig, message, cause)
}

// ManifestError creates a manifest error.
func ManifestError(message string, cause error) *PipelineError {
	return New(ErrManifest, message, cause)
}

// AnalysisError creates an analysis failure.
func AnalysisError(message string, cause error) *PipelineError {
	return New(ErrAnalysis, message, cause)
}

// TestError creates a test failure.
func TestError(message string, cause error) *PipelineError {
	return New(ErrTest, message, cause)
}

// PackagingError creates a packaging failure.
func PackagingError(message string, cause error) *PipelineError {
	return New(ErrPackaging, message, cause)
}
