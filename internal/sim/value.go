// Package sim is the reference interpreter: it executes a program's
// statements against a typed value store, following branch targets and
// metering gas through GasBuiltin values.
package sim

import (
	"fmt"

	"sierra/internal/extensions"
)

// ValueKind identifies the runtime shape of a Value.
type ValueKind uint8

const (
	// VKInvalid represents an invalid value.
	VKInvalid ValueKind = iota
	// VKInt represents a signed integer value.
	VKInt
	// VKGas represents the gas counter builtin.
	VKGas
	// VKNonZero represents an integer proven non-zero by a jump_nz test.
	VKNonZero
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case VKInvalid:
		return "invalid"
	case VKInt:
		return "int"
	case VKGas:
		return "gas"
	case VKNonZero:
		return "nonzero"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is a runtime value. Values are never implicitly shared: consuming
// one removes it from the environment, and only an explicit dup reintroduces
// a second live binding.
type Value struct {
	Kind ValueKind
	Int  int64
}

// IntValue builds a plain integer value.
func IntValue(v int64) Value {
	return Value{Kind: VKInt, Int: v}
}

// GasValue builds a gas counter value.
func GasValue(v int64) Value {
	return Value{Kind: VKGas, Int: v}
}

// NonZeroValue wraps an integer proven non-zero.
func NonZeroValue(v int64) Value {
	return Value{Kind: VKNonZero, Int: v}
}

func (v Value) String() string {
	switch v.Kind {
	case VKGas:
		return fmt.Sprintf("gas(%d)", v.Int)
	case VKNonZero:
		return fmt.Sprintf("nonzero(%d)", v.Int)
	case VKInt:
		return fmt.Sprintf("%d", v.Int)
	}
	return "<invalid>"
}

// kindForType maps a resolved type to the value kind its values carry.
func kindForType(info extensions.TypeInfo) ValueKind {
	switch info.Generic {
	case extensions.GenericInt:
		return VKInt
	case extensions.GenericGasBuiltin:
		return VKGas
	case extensions.GenericNonZero:
		return VKNonZero
	}
	return VKInvalid
}
