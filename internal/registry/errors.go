package registry

import (
	"fmt"

	"sierra/internal/diag"
	"sierra/internal/source"
)

// Error is a build-time registry failure. Construction is all-or-nothing:
// the first error aborts and no partial registry is exposed.
type Error struct {
	Code    diag.Code
	Span    source.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Diagnostic converts the error for reporting through a diag sink.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     e.Code,
		Message:  e.Message,
		Primary:  e.Span,
	}
}

func newError(code diag.Code, span source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}
