// Package queryerr defines the single failure currency used by the query
// compiler.
//
// Every component reports failures as *ClassifyError: a code, a rendered
// message, the offending node or term, and optionally the underlying
// cause(s). The compiler's strategy dispatch relies on these values as
// control signals - a classification failure from one strategy means "try
// the next shape", and only a failure that escapes the last strategy is
// surfaced to the caller.
package queryerr

import (
	stderrors "errors"
	"fmt"

	"github.com/cockroachdb/errors/join"
)

// Code categorizes classification failures.
type Code string

const (
	// CodeUnsupportedOperator indicates a comparison or combinator type has
	// no mapping in the operator table of the attempted output context.
	CodeUnsupportedOperator Code = "UNSUPPORTED_OPERATOR"

	// CodeUnsupportedExpression indicates a node or term does not satisfy
	// the structural preconditions of the attempted output shape.
	CodeUnsupportedExpression Code = "UNSUPPORTED_EXPRESSION"

	// CodeInvalidValue indicates a term's value cannot be normalized to the
	// scalar form a leaf compiler requires.
	CodeInvalidValue Code = "INVALID_VALUE"
)

// ClassifyError is a classification failure.
//
// Subject carries the rejected node, term, or value for diagnostics. Detail
// is an optional numeric code understood by downstream tooling (zero means
// unset). A ClassifyError may wrap one cause directly or, for aggregating
// failures, a join of several causes - one per failed strategy.
type ClassifyError struct {
	Code    Code
	Message string
	Detail  int
	Subject any
	cause   error
}

// Error implements the error interface.
func (e *ClassifyError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause(s) to errors.Is/errors.As.
func (e *ClassifyError) Unwrap() error { return e.cause }

// NewUnsupportedOperator creates a failure for an operator with no table
// entry in the named resolver context.
func NewUnsupportedOperator(context string, op any, negated bool) *ClassifyError {
	return &ClassifyError{
		Code:    CodeUnsupportedOperator,
		Message: Render(CodeUnsupportedOperator, op, negated, context),
		Subject: op,
	}
}

// NewUnsupportedExpression creates a failure for a node that does not match
// the attempted shape. Multiple causes (one per failed strategy) are joined
// into a bare multi-unwrap error so each remains reachable through
// Unwrap() []error.
func NewUnsupportedExpression(subject any, msg string, causes ...error) *ClassifyError {
	e := &ClassifyError{
		Code:    CodeUnsupportedExpression,
		Message: msg,
		Subject: subject,
	}
	switch len(causes) {
	case 0:
	case 1:
		e.cause = causes[0]
	default:
		e.cause = join.Join(causes...)
	}
	return e
}

// NewInvalidValue creates a failure for a value that has no canonical
// scalar form.
func NewInvalidValue(subject any, format string, args ...any) *ClassifyError {
	return &ClassifyError{
		Code:    CodeInvalidValue,
		Message: fmt.Sprintf(format, args...),
		Subject: subject,
	}
}

// IsUnsupportedOperator reports whether err (or anything it wraps) is an
// UNSUPPORTED_OPERATOR classification failure.
func IsUnsupportedOperator(err error) bool { return hasCode(err, CodeUnsupportedOperator) }

// IsUnsupportedExpression reports whether err (or anything it wraps) is an
// UNSUPPORTED_EXPRESSION classification failure.
func IsUnsupportedExpression(err error) bool { return hasCode(err, CodeUnsupportedExpression) }

// IsInvalidValue reports whether err (or anything it wraps) is an
// INVALID_VALUE classification failure.
func IsInvalidValue(err error) bool { return hasCode(err, CodeInvalidValue) }

// hasCode walks the whole wrap tree, including joined causes, so that a
// resolver failure buried under an aggregating expression failure is still
// matchable by code.
func hasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var ce *ClassifyError
	if stderrors.As(err, &ce) && ce.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return hasCode(u.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, cause := range u.Unwrap() {
			if hasCode(cause, code) {
				return true
			}
		}
	}
	return false
}
