// Package registry resolves a program's generic declarations into concrete,
// validated signatures and checks every statement against them.
package registry

import (
	"errors"

	"sierra/internal/diag"
	"sierra/internal/extensions"
	"sierra/internal/program"
	"sierra/internal/source"
)

// Registry holds the concrete info for every declared id of one program.
// It is immutable once built and safe for concurrent readers.
type Registry struct {
	types    map[program.ConcreteTypeID]extensions.TypeInfo
	byStruct map[string]program.ConcreteTypeID
	libfuncs map[program.ConcreteLibFuncID]*extensions.LibFunc
	funcs    map[string]*program.Function
}

// New builds a registry for the program, validating declarations in strict
// file order. Any error aborts construction.
func New(p *program.Program) (*Registry, error) {
	r := &Registry{
		types:    make(map[program.ConcreteTypeID]extensions.TypeInfo, len(p.Types)),
		byStruct: make(map[string]program.ConcreteTypeID, len(p.Types)),
		libfuncs: make(map[program.ConcreteLibFuncID]*extensions.LibFunc, len(p.LibFuncs)),
		funcs:    make(map[string]*program.Function, len(p.Funcs)),
	}
	if err := r.buildTypes(p); err != nil {
		return nil, err
	}
	if err := r.buildLibFuncs(p); err != nil {
		return nil, err
	}
	if err := r.checkStatements(p); err != nil {
		return nil, err
	}
	if err := r.buildFuncs(p); err != nil {
		return nil, err
	}
	return r, nil
}

// Type resolves a declared concrete type id.
func (r *Registry) Type(id program.ConcreteTypeID) (extensions.TypeInfo, bool) {
	ti, ok := r.types[id]
	return ti, ok
}

// TypeByStructure resolves a declared type by its generic shape.
func (r *Registry) TypeByStructure(generic program.GenericTypeID, args []program.GenericArg) (extensions.TypeInfo, bool) {
	id, ok := r.byStruct[program.GenericSignature(string(generic), args)]
	if !ok {
		return extensions.TypeInfo{}, false
	}
	return r.types[id], true
}

// LibFunc resolves a declared concrete libfunc id.
func (r *Registry) LibFunc(id program.ConcreteLibFuncID) (*extensions.LibFunc, bool) {
	lf, ok := r.libfuncs[id]
	return lf, ok
}

// Function resolves a declared entry point by name.
func (r *Registry) Function(name string) (*program.Function, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

func (r *Registry) buildTypes(p *program.Program) *Error {
	for i := range p.Types {
		decl := &p.Types[i]
		if _, dup := r.types[decl.ID]; dup {
			return newError(diag.RegDuplicateID, decl.Span, "type %s is declared twice", decl.ID)
		}
		info, err := extensions.SpecializeType(*decl, r)
		if err != nil {
			return specializationError(err, decl.Span, true)
		}
		r.types[decl.ID] = info
		// First declaration of a shape wins structural lookup.
		key := program.GenericSignature(string(decl.Generic), decl.Args)
		if _, seen := r.byStruct[key]; !seen {
			r.byStruct[key] = decl.ID
		}
	}
	return nil
}

func (r *Registry) buildLibFuncs(p *program.Program) *Error {
	for i := range p.LibFuncs {
		decl := &p.LibFuncs[i]
		if _, dup := r.libfuncs[decl.ID]; dup {
			return newError(diag.RegDuplicateID, decl.Span, "libfunc %s is declared twice", decl.ID)
		}
		lf, err := extensions.SpecializeLibFunc(*decl, r)
		if err != nil {
			return specializationError(err, decl.Span, false)
		}
		r.libfuncs[decl.ID] = lf
	}
	return nil
}

// checkStatements verifies statement shape against resolved signatures:
// operand and branch arity, per-branch result arity, and target ranges.
// Operand names are resolved later by the simulator's environment.
func (r *Registry) checkStatements(p *program.Program) *Error {
	for i := range p.Statements {
		s := &p.Statements[i]
		if s.Kind != program.StatementInvocation {
			continue
		}
		inv := &s.Invocation
		lf, ok := r.libfuncs[inv.LibFunc]
		if !ok {
			return newError(diag.RegMissingDependency, s.Span,
				"statement %d invokes undeclared libfunc %s", i, inv.LibFunc)
		}
		if len(inv.Args) != len(lf.Params) {
			return newError(diag.RegArityMismatch, s.Span,
				"statement %d: %s takes %d inputs, got %d", i, lf.ID, len(lf.Params), len(inv.Args))
		}
		if len(inv.Branches) != len(lf.Branches) {
			return newError(diag.RegArityMismatch, s.Span,
				"statement %d: %s declares %d branches, got %d", i, lf.ID, len(lf.Branches), len(inv.Branches))
		}
		for bi, br := range inv.Branches {
			if len(br.Results) != len(lf.Branches[bi].Results) {
				return newError(diag.RegArityMismatch, s.Span,
					"statement %d branch %d: %s yields %d results, got %d names",
					i, bi, lf.ID, len(lf.Branches[bi].Results), len(br.Results))
			}
			if err := r.checkTarget(p, program.StatementIdx(i), br.Target, s.Span); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Registry) checkTarget(p *program.Program, from program.StatementIdx, t program.BranchTarget, span source.Span) *Error {
	target := t.Statement
	if t.Fallthrough {
		target = from + 1
	}
	if target < 0 || int(target) >= len(p.Statements) {
		return newError(diag.RegBadTarget, span,
			"statement %d branches to invalid address %d", from, target)
	}
	return nil
}

func (r *Registry) buildFuncs(p *program.Program) *Error {
	for i := range p.Funcs {
		f := &p.Funcs[i]
		if _, dup := r.funcs[f.Name]; dup {
			return newError(diag.RegDuplicateID, f.Span, "function %s is declared twice", f.Name)
		}
		if f.Entry < 0 || int(f.Entry) >= len(p.Statements) {
			return newError(diag.RegBadFunction, f.Span,
				"function %s starts at invalid address %d", f.Name, f.Entry)
		}
		for _, param := range f.Params {
			if _, ok := r.types[param.Type]; !ok {
				return newError(diag.RegMissingDependency, f.Span,
					"function %s: parameter %s has undeclared type %s", f.Name, param.Name, param.Type)
			}
		}
		for _, ret := range f.Results {
			if _, ok := r.types[ret]; !ok {
				return newError(diag.RegMissingDependency, f.Span,
					"function %s: undeclared return type %s", f.Name, ret)
			}
		}
		r.funcs[f.Name] = f
	}
	return nil
}

func specializationError(err error, span source.Span, isType bool) *Error {
	var se *extensions.Error
	if !errors.As(err, &se) {
		return newError(diag.UnknownCode, span, "%v", err)
	}
	code := diag.UnknownCode
	switch se.Kind {
	case extensions.KindUnsupportedID:
		if isType {
			code = diag.RegUnsupportedTypeID
		} else {
			code = diag.RegUnsupportedLibFuncID
		}
	case extensions.KindWrongArgCount:
		code = diag.RegWrongGenericArgCount
	case extensions.KindUnsupportedArg:
		code = diag.RegUnsupportedArg
	case extensions.KindMissingDependency:
		code = diag.RegMissingDependency
	}
	return newError(code, span, "%s", se.Error())
}
