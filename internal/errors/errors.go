// Package errors provides a lightweight structured error type (SeqDiagError)
// for category-based classification at the tool surface (CLI, watch, serve).
// Library-level violations keep their typed form in internal/diagram; this
// package wraps them with user-facing context.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a seqdiag error for classification
type ErrorCategory string

const (
	// User-facing input errors
	CategoryScenario   ErrorCategory = "scenario"
	CategoryValidation ErrorCategory = "validation"

	// Generation errors
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// SeqDiagError is a structured error with category, severity, and context
type SeqDiagError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SeqDiagError
type ContextFields map[string]any

// Error implements the error interface
func (e *SeqDiagError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SeqDiagError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SeqDiagError) WithContext(key string, value any) *SeqDiagError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SeqDiagError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SeqDiagError {
	return &SeqDiagError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SeqDiagError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SeqDiagError {
	return &SeqDiagError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := err.(*SeqDiagError); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a SeqDiagError
func GetCategory(err error) ErrorCategory {
	if se, ok := err.(*SeqDiagError); ok {
		return se.Category
	}
	return CategoryInternal
}
