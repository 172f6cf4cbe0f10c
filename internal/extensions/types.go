// Package extensions resolves generic type and libfunc declarations into
// concrete, validated signatures. Families form closed sets dispatched by
// generic id; specialization is pure and side-effect free.
package extensions

import (
	"sierra/internal/program"
)

// Generic type family names.
const (
	GenericInt        program.GenericTypeID = "int"
	GenericGasBuiltin program.GenericTypeID = "GasBuiltin"
	GenericNonZero    program.GenericTypeID = "NonZero"
)

// TypeInfo is the resolved form of a type declaration.
type TypeInfo struct {
	ID      program.ConcreteTypeID
	Generic program.GenericTypeID
	// Size is the value-slot count the type occupies.
	Size int64
	// Duplicatable/Droppable report whether an explicit dup/ignore libfunc
	// family exists for the type. Nothing is ever copied or discarded
	// implicitly.
	Duplicatable bool
	Droppable    bool
	// Wrapped is the inner type for wrapper families (NonZero<T>).
	Wrapped program.ConcreteTypeID
}

// TypeEnv exposes the types declared so far. Specialization consults it for
// type-reference args, so forward references fail as missing dependencies.
type TypeEnv interface {
	// Type resolves a declared concrete id.
	Type(id program.ConcreteTypeID) (TypeInfo, bool)
	// TypeByStructure resolves the declared type with the given generic
	// shape, e.g. ("NonZero", [int]) regardless of its declared id.
	TypeByStructure(generic program.GenericTypeID, args []program.GenericArg) (TypeInfo, bool)
}

// SpecializeType resolves a type declaration against the types declared
// before it.
func SpecializeType(decl program.TypeDeclaration, env TypeEnv) (TypeInfo, error) {
	id := string(decl.Generic)
	switch decl.Generic {
	case GenericInt:
		if len(decl.Args) != 0 {
			return TypeInfo{}, errWrongArgCount(id, 0, len(decl.Args))
		}
		return TypeInfo{
			ID:           decl.ID,
			Generic:      decl.Generic,
			Size:         1,
			Duplicatable: true,
			Droppable:    true,
		}, nil

	case GenericGasBuiltin:
		if len(decl.Args) != 0 {
			return TypeInfo{}, errWrongArgCount(id, 0, len(decl.Args))
		}
		return TypeInfo{
			ID:      decl.ID,
			Generic: decl.Generic,
			Size:    1,
		}, nil

	case GenericNonZero:
		if len(decl.Args) != 1 {
			return TypeInfo{}, errWrongArgCount(id, 1, len(decl.Args))
		}
		arg := decl.Args[0]
		if arg.Kind != program.GenericArgType {
			return TypeInfo{}, errUnsupportedArg(id, "expected a type argument")
		}
		inner, ok := env.Type(arg.Type)
		if !ok {
			return TypeInfo{}, errMissingDependency(id, "type "+string(arg.Type)+" is not declared")
		}
		return TypeInfo{
			ID:      decl.ID,
			Generic: decl.Generic,
			Size:    inner.Size,
			Wrapped: inner.ID,
		}, nil

	default:
		return TypeInfo{}, errUnsupportedID(id)
	}
}
