// Package errors provides structured error types for skilltree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP host
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or catalog validation failures
//   - CYCLIC_GRAPH: The prerequisite graph is not a DAG
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Structural graph problems are reported with two dedicated types,
// [InvalidGraphError] and [CyclicGraphError]. Both carry their code, so
// [Is] and [GetCode] work on them exactly as on [*Error].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCatalog, "skill %q has max level 0", id)
//	if errors.Is(err, errors.ErrCodeInvalidCatalog) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidCatalog, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeInvalidCatalog   Code = "INVALID_CATALOG"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeTooLarge         Code = "TOO_LARGE"

	// Graph shape errors
	ErrCodeCyclicGraph Code = "CYCLIC_GRAPH"

	// Rejected progression operations (upgrade / downgrade)
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeTreeNotFound  Code = "TREE_NOT_FOUND"
	ErrCodeSkillNotFound Code = "SKILL_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Coder is implemented by error types that carry their own code.
type Coder interface {
	Code() Code
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It returns the code of the outermost coded error in the chain, so a
// wrapping *Error takes precedence over the error it wraps.
func Is(err error, code Code) bool {
	c := GetCode(err)
	return c != "" && c == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case Coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// InvalidGraphError reports a connection whose endpoint is not a known node.
type InvalidGraphError struct {
	Source  string // Connection source
	Target  string // Connection target
	Missing string // The endpoint that does not exist
}

// Error implements the error interface.
func (e *InvalidGraphError) Error() string {
	return fmt.Sprintf("%s: connection %s->%s references unknown node %q",
		ErrCodeInvalidGraph, e.Source, e.Target, e.Missing)
}

// Code returns the error code for this error type.
func (e *InvalidGraphError) Code() Code {
	return ErrCodeInvalidGraph
}

// CyclicGraphError reports that the connection graph contains a cycle.
// Cycle lists node IDs along one offending cycle, first node repeated last.
type CyclicGraphError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CyclicGraphError) Error() string {
	if len(e.Cycle) == 0 {
		return fmt.Sprintf("%s: graph contains a cycle", ErrCodeCyclicGraph)
	}
	return fmt.Sprintf("%s: graph contains a cycle: %s", ErrCodeCyclicGraph, strings.Join(e.Cycle, " -> "))
}

// Code returns the error code for this error type.
func (e *CyclicGraphError) Code() Code {
	return ErrCodeCyclicGraph
}
