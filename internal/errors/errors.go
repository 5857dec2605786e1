// Package apperrors defines the structured error types of besselj and the
// exit codes the command line reports for them.
//
// Every wrapping type implements Unwrap so that errors.Is and errors.As see
// through it.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Any other failure.
	ExitErrorTimeout  = 2   // The evaluation deadline expired.
	ExitErrorMismatch = 3   // Evaluators disagreed beyond tolerance.
	ExitErrorConfig   = 4   // Invalid flags or input values.
	ExitErrorCanceled = 130 // Interrupted (e.g., SIGINT).
)

// ConfigError represents an invalid flag, environment variable or value.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EvaluationError records which evaluation failed and why.
type EvaluationError struct {
	// Algorithm is the registry name of the evaluator, if known.
	Algorithm string
	// X and N are the argument and order of the failed evaluation.
	X float64
	N int
	// Cause is the underlying error.
	Cause error
}

// Error returns "J_n(x) [algorithm]: cause".
func (e EvaluationError) Error() string {
	if e.Algorithm == "" {
		return fmt.Sprintf("J_%d(%g): %v", e.N, e.X, e.Cause)
	}
	return fmt.Sprintf("J_%d(%g) [%s]: %v", e.N, e.X, e.Algorithm, e.Cause)
}

// Unwrap returns the underlying cause.
func (e EvaluationError) Unwrap() error { return e.Cause }

// NewEvaluationError wraps cause with the evaluation's coordinates. It
// returns nil if cause is nil.
func NewEvaluationError(algorithm string, x float64, n int, cause error) error {
	if cause == nil {
		return nil
	}
	return EvaluationError{Algorithm: algorithm, X: x, N: n, Cause: cause}
}

// ServerError represents a failure of the HTTP server.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError reports a request or input value that failed validation.
type ValidationError struct {
	// Field is the name of the offending field or parameter.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the rejected value (optional).
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError wraps err with a formatted context message using %w. It returns
// nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
