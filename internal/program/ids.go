// Package program defines the parsed representation of a Sierra program:
// type and libfunc declarations, the address-indexed statement list, and
// function entry points.
package program

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// GenericTypeID names a type family ("int", "NonZero", ...).
	GenericTypeID string
	// GenericLibFuncID names a libfunc family ("int_add", "get_gas", ...).
	GenericLibFuncID string
	// ConcreteTypeID is a declared, fully applied type id.
	ConcreteTypeID string
	// ConcreteLibFuncID is a declared, fully applied libfunc id.
	ConcreteLibFuncID string
	// VarID names a statement operand or result.
	VarID string
)

// StatementIdx is an absolute statement address within a program.
type StatementIdx int

// GenericArgKind distinguishes the two kinds of generic arguments.
type GenericArgKind uint8

const (
	// GenericArgType references a previously declared concrete type.
	GenericArgType GenericArgKind = iota
	// GenericArgValue is a signed integer literal.
	GenericArgValue
)

// GenericArg is one argument of a generic declaration.
type GenericArg struct {
	Kind  GenericArgKind
	Type  ConcreteTypeID // for GenericArgType
	Value int64          // for GenericArgValue
}

// TypeArg builds a type-reference argument.
func TypeArg(id ConcreteTypeID) GenericArg {
	return GenericArg{Kind: GenericArgType, Type: id}
}

// ValueArg builds an integer-literal argument.
func ValueArg(v int64) GenericArg {
	return GenericArg{Kind: GenericArgValue, Value: v}
}

func (a GenericArg) String() string {
	if a.Kind == GenericArgType {
		return string(a.Type)
	}
	return strconv.FormatInt(a.Value, 10)
}

// GenericSignature renders "name" or "name<arg, ...>" for a generic id
// applied to args. Used both by the printer and as a structural key when
// resolving libfunc signatures against declared types.
func GenericSignature(name string, args []GenericArg) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ", "))
}
