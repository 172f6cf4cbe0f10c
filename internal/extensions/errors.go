package extensions

import "fmt"

// ErrorKind classifies specialization failures.
type ErrorKind uint8

const (
	// KindUnsupportedID means the generic id names no known family.
	KindUnsupportedID ErrorKind = iota
	// KindWrongArgCount means the arg count does not match the family.
	KindWrongArgCount
	// KindUnsupportedArg means an arg has the wrong kind or value.
	KindUnsupportedArg
	// KindMissingDependency means an arg references an undeclared type.
	KindMissingDependency
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedID:
		return "unsupported id"
	case KindWrongArgCount:
		return "wrong number of generic args"
	case KindUnsupportedArg:
		return "unsupported generic arg"
	case KindMissingDependency:
		return "missing dependency"
	}
	return "unknown"
}

// Error is a specialization failure. Specialization is pure, so the same
// declaration always fails the same way.
type Error struct {
	Kind    ErrorKind
	ID      string // the generic id being specialized
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.ID, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.ID, e.Kind, e.Message)
}

func errUnsupportedID(id string) *Error {
	return &Error{Kind: KindUnsupportedID, ID: id}
}

func errWrongArgCount(id string, want, got int) *Error {
	return &Error{Kind: KindWrongArgCount, ID: id, Message: fmt.Sprintf("want %d, got %d", want, got)}
}

func errUnsupportedArg(id, msg string) *Error {
	return &Error{Kind: KindUnsupportedArg, ID: id, Message: msg}
}

func errMissingDependency(id, msg string) *Error {
	return &Error{Kind: KindMissingDependency, ID: id, Message: msg}
}
