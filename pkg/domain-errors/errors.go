// Package domainerrors defines coded domain errors shared across modules.
//
// Infrastructure facts (record missing, payload corrupt) live in
// pkg/platform/sentinel; this package is for errors that carry meaning to a
// caller: validation failures, authorization problems, invariant violations.
// Import it aliased as dErrors.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and branching.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnauthorized       Code = "unauthorized"
	CodeInternal           Code = "internal"
)

// Error is a coded domain error. Reasons carries the itemized blocking list
// for aggregate gate failures (e.g. an incomplete investigation) so transports
// can render an actionable checklist instead of a generic failure.
type Error struct {
	Code    Code
	Message string
	Reasons []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithReasons returns a copy of the error carrying an itemized reason list.
func (e *Error) WithReasons(reasons []string) *Error {
	clone := *e
	clone.Reasons = append([]string(nil), reasons...)
	return &clone
}

// HasCode reports whether any error in the chain is a domain error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is delegates to errors.Is; kept so call sites can stay on one import.
func Is(err, target error) bool { return errors.Is(err, target) }

// ReasonsOf extracts the reason list from a domain error chain, if any.
func ReasonsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reasons
	}
	return nil
}
