package program

import (
	"sierra/internal/source"
)

// TypeDeclaration binds a concrete type id to a generic family and its args.
type TypeDeclaration struct {
	ID      ConcreteTypeID
	Generic GenericTypeID
	Args    []GenericArg
	Span    source.Span
}

// LibFuncDeclaration binds a concrete libfunc id to a generic family and its args.
type LibFuncDeclaration struct {
	ID      ConcreteLibFuncID
	Generic GenericLibFuncID
	Args    []GenericArg
	Span    source.Span
}

// StatementKind enumerates statement kinds.
type StatementKind uint8

const (
	// StatementInvocation invokes a libfunc and continues along one of its branches.
	StatementInvocation StatementKind = iota
	// StatementReturn ends execution of the enclosing function.
	StatementReturn
)

// Statement is one address-indexed instruction of a program.
type Statement struct {
	Kind StatementKind

	Invocation Invocation
	Return     ReturnStatement

	Span source.Span
}

// Invocation applies a declared libfunc to ordered input variables.
type Invocation struct {
	LibFunc  ConcreteLibFuncID
	Args     []VarID
	Branches []BranchInfo
}

// ReturnStatement yields the named variables as the function's results.
type ReturnStatement struct {
	Results []VarID
}

// BranchTarget names where control continues after a branch fires.
type BranchTarget struct {
	Fallthrough bool
	Statement   StatementIdx // when !Fallthrough
}

// Fallthrough is the target selecting the next statement in order.
func Fallthrough() BranchTarget {
	return BranchTarget{Fallthrough: true}
}

// TargetStatement is the target selecting an absolute statement address.
func TargetStatement(idx StatementIdx) BranchTarget {
	return BranchTarget{Statement: idx}
}

// BranchInfo is one statically declared outcome of an invocation: the
// continuation target plus the ordered result names bound when it fires.
type BranchInfo struct {
	Target  BranchTarget
	Results []VarID
}

// Param is one typed function parameter.
type Param struct {
	Name VarID
	Type ConcreteTypeID
}

// Function declares an entry point into the statement list.
type Function struct {
	Name    string
	Entry   StatementIdx
	Params  []Param
	Results []ConcreteTypeID
	Span    source.Span
}

// Program is the parsed representation consumed by the registry and the
// simulator. It is immutable once built.
type Program struct {
	Types      []TypeDeclaration
	LibFuncs   []LibFuncDeclaration
	Statements []Statement
	Funcs      []Function
}

// GetStatement returns the statement at idx, nil when out of range.
func (p *Program) GetStatement(idx StatementIdx) *Statement {
	if idx < 0 || int(idx) >= len(p.Statements) {
		return nil
	}
	return &p.Statements[idx]
}

// Func returns the function declared under name, nil when absent.
func (p *Program) Func(name string) *Function {
	for i := range p.Funcs {
		if p.Funcs[i].Name == name {
			return &p.Funcs[i]
		}
	}
	return nil
}
