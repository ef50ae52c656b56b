// Package errors provides structured error types and exit codes for xmldiff.
package errors

import (
	"errors"
	"fmt"

	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0    // Success
	ExitRuntimeError     = 1    // Runtime error (files differ, command failed, etc.)
	ExitConfigError      = 2    // Configuration error (invalid config, bad flags, etc.)
	ExitEnvironmentError = 3    // Environment error (missing directory, unreadable project, etc.)
	ExitDiffFailed       = 0x81 // At least one test failed its XML diff
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
	KindParse
	KindDepthLimit
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindEnvironment:
		return "environment"
	case KindParse:
		return "parse"
	case KindDepthLimit:
		return "depth limit"
	default:
		return "runtime"
	}
}

// Error is the base error type for xmldiff.
type Error struct {
	Kind    ErrorKind
	Message string
	Test    string // Test name if applicable
	File    string // File name if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	if e.Test != "" && e.File != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Test, e.File, e.Message)
	}
	if e.Test != "" {
		return fmt.Sprintf("[%s] %s", e.Test, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *Error {
	return &Error{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *Error {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// WrapKind wraps an error with the given kind. The cause's text is appended
// to the message.
func WrapKind(kind ErrorKind, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf("%s: %v", message, err),
		Cause:   err,
	}
}

// TestError creates an error for a specific test and file.
func TestError(test, file, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Test:    test,
		File:    file,
		Message: message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := err.(*Error); ok {
		return e.ExitCode()
	}
	return ExitRuntimeError
}

// FromComparison converts a comparison error into an Error with the matching
// kind. It returns nil for a nil error.
func FromComparison(err error) *Error {
	if err == nil {
		return nil
	}
	var parseErr *xmldiff.ParseError
	if errors.As(err, &parseErr) {
		return &Error{Kind: KindParse, Message: parseErr.Error(), File: parseErr.Path, Cause: err}
	}
	var depthErr *xmldiff.DepthLimitError
	if errors.As(err, &depthErr) {
		return &Error{Kind: KindDepthLimit, Message: depthErr.Error(), File: depthErr.File, Cause: err}
	}
	return &Error{Kind: KindConfig, Message: err.Error(), Cause: err}
}
