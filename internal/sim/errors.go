package sim

import (
	"fmt"

	"sierra/internal/program"
)

// ErrorCode identifies the type of simulation failure.
type ErrorCode int

// Stable error codes - do not change values.
const (
	ErrUnknownFunction  ErrorCode = 4001 // SIM4001: entry point not declared
	ErrUnknownStatement ErrorCode = 4002 // SIM4002: cursor out of range
	ErrMissingVariable  ErrorCode = 4003 // SIM4003: operand consumed or never bound
	ErrTypeMismatch     ErrorCode = 4004 // SIM4004: value does not match declared type
	ErrDivisionByZero   ErrorCode = 4005 // SIM4005: arithmetic by zero
	ErrInputMismatch    ErrorCode = 4006 // SIM4006: inputs do not match parameters
	ErrOutputMismatch   ErrorCode = 4007 // SIM4007: results do not match return types
	ErrReplayMismatch   ErrorCode = 4008 // SIM4008: run diverged from recorded log
)

// String returns the code as "SIM4001" format.
func (c ErrorCode) String() string {
	return fmt.Sprintf("SIM%d", int(c))
}

// Error represents a fatal simulation failure. A run is never retried or
// resumed; callers may only re-invoke the whole run.
type Error struct {
	Code      ErrorCode
	Message   string
	Statement program.StatementIdx // statement being executed, -1 outside the loop
}

func (e *Error) Error() string {
	if e.Statement < 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: statement %d: %s", e.Code, e.Statement, e.Message)
}

func newError(code ErrorCode, at program.StatementIdx, format string, args ...any) *Error {
	return &Error{Code: code, Statement: at, Message: fmt.Sprintf(format, args...)}
}
