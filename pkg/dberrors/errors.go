// Package dberrors defines the error kinds raised across the query
// engine, following the same {code, message, cause} shape the project
// has always used for its own errors.
package dberrors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a Error.
type Kind int

const (
	// Unknown is the zero value; it should not be constructed directly.
	Unknown Kind = iota
	// DuplicateAttribute: adding an attribute whose name already exists in a schema.
	DuplicateAttribute
	// DuplicateKey: inserting a record whose key-tuple matches an existing one.
	DuplicateKey
	// ArityMismatch: constructing a record whose value count does not match the schema size.
	ArityMismatch
	// UnboundVariable: an expression references a variable not resolvable in the governing schema.
	UnboundVariable
	// NumberFormat: a non-numeric value is used in a numeric context.
	NumberFormat
	// Parsing: malformed expression or query string.
	Parsing
	// UnsupportedOperation: evaluation reaches an operator/operand combination not defined.
	UnsupportedOperation
)

func (k Kind) String() string {
	switch k {
	case DuplicateAttribute:
		return "duplicate-attribute"
	case DuplicateKey:
		return "duplicate-key"
	case ArityMismatch:
		return "arity-mismatch"
	case UnboundVariable:
		return "unbound-variable"
	case NumberFormat:
		return "number-format"
	case Parsing:
		return "parsing"
	case UnsupportedOperation:
		return "unsupported-operation"
	default:
		return "unknown"
	}
}

// Error is the error type raised by every package in this module.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an Error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error carrying an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is (or wraps) an Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
