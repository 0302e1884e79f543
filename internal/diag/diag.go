// Package diag defines the first-class error values the middle-end raises
// (§7 Error Handling Design): every error carries a span, a stable code and
// a message, and is either attached to a poisoned element or surfaced as a
// process-wide diagnostic — never a bare panic.
package diag

import (
	"fmt"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// Code identifies an error category, mirroring the teacher's
// diagnostics.ErrA001-style stable codes (cmd/lsp/diagnostics.go).
type Code string

const (
	CodeMissingSymbol    Code = "E001"
	CodeDuplicateSymbol  Code = "E002"
	CodeMismatchedTypes  Code = "E003"
	CodeUnknownField     Code = "E004"
	CodeUnknownMethod    Code = "E005"
	CodeAmbiguousDispatch Code = "E006"
	CodeBoundsViolation  Code = "E007"
	CodeArgCount         Code = "E008"
	CodeVoidExpected     Code = "E009"
	CodeValueExpected    Code = "E010"
	CodeUnknownOperation Code = "E011"
)

// Error is the uniform diagnostic value threaded through the whole
// pipeline. It implements the standard error interface so it composes with
// errgroup and fmt.Errorf("%w", ...) the way the rest of Go expects.
type Error struct {
	Code    Code
	Span    types.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Span)
}

// New builds a diagnostic error.
func New(code Code, span types.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}

// MissingSymbol reports a fetch that completed after Finish without a
// match (§4.1, §7).
func MissingSymbol(span types.Span, name string) *Error {
	return New(CodeMissingSymbol, span, "failed to find %q", name)
}

// Duplicate reports two non-poisoned entries sharing a name (§4.1, §7,
// scenario F).
func Duplicate(span types.Span, name string) *Error {
	return New(CodeDuplicateSymbol, span, "duplicate symbol %q", name)
}

// Mismatch reports an argument that is not of the expected type or trait
// (§4.4 argument check-and-coerce).
func Mismatch(span types.Span, expected, actual string) *Error {
	return New(CodeMismatchedTypes, span, "incorrect args: expected %s, got %s", expected, actual)
}

// MissingReturn reports a function whose declared return type is non-void
// but whose finalized body does not return on every path (§4.6 "returns"
// flag, §4.4 "used to reject missing returns").
func MissingReturn(span types.Span, name string) *Error {
	return New(CodeValueExpected, span, "function %q must return a value on every path", name)
}

// UnexpectedValue reports a function declared void whose body returns a
// value on some path (§4.4 "used to reject missing returns").
func UnexpectedValue(span types.Span, name string) *Error {
	return New(CodeVoidExpected, span, "function %q is declared void but returns a value", name)
}
