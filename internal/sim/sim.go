package sim

import (
	"sierra/internal/program"
	"sierra/internal/registry"
)

// Options configures a single run.
type Options struct {
	Recorder *Recorder // capture an execution log
	Replayer *Replayer // validate against a recorded log
}

// Run executes the named entry point on the given inputs, one value group
// per declared parameter, and returns one value group per declared return
// position. Each run owns a fresh environment; the program and registry are
// read-only and shareable across concurrent runs.
func Run(p *program.Program, reg *registry.Registry, entry string, inputs [][]Value) ([][]Value, error) {
	return RunWithOptions(p, reg, entry, inputs, Options{})
}

// RunWithOptions is Run with tracing hooks.
func RunWithOptions(p *program.Program, reg *registry.Registry, entry string, inputs [][]Value, opts Options) ([][]Value, error) {
	f, ok := reg.Function(entry)
	if !ok {
		return nil, newError(ErrUnknownFunction, -1, "no function %s", entry)
	}
	if len(inputs) != len(f.Params) {
		return nil, newError(ErrInputMismatch, -1,
			"%s takes %d parameters, got %d input groups", entry, len(f.Params), len(inputs))
	}

	env := NewEnvironment()
	for i, param := range f.Params {
		if err := checkGroup(reg, param.Type, inputs[i], -1); err != nil {
			return nil, err
		}
		env.Bind(param.Name, inputs[i])
	}

	if opts.Replayer != nil {
		if err := opts.Replayer.Validate(entry); err != nil {
			return nil, err
		}
	}

	cursor := f.Entry
	for {
		stmt := p.GetStatement(cursor)
		if stmt == nil {
			return nil, newError(ErrUnknownStatement, cursor, "no statement at address %d", cursor)
		}

		if stmt.Kind == program.StatementReturn {
			outputs, err := gatherReturns(reg, f, stmt, env, cursor)
			if err != nil {
				return nil, err
			}
			if opts.Replayer != nil {
				if rerr := opts.Replayer.FinishAt(cursor); rerr != nil {
					return nil, rerr
				}
			}
			if opts.Recorder != nil {
				opts.Recorder.finish(cursor)
			}
			return outputs, nil
		}

		inv := &stmt.Invocation
		lf, ok := reg.LibFunc(inv.LibFunc)
		if !ok {
			return nil, newError(ErrUnknownStatement, cursor, "undeclared libfunc %s", inv.LibFunc)
		}

		// Linear ownership: reading consumes the binding.
		taken := make([][]Value, len(inv.Args))
		for i, name := range inv.Args {
			vals, ok := env.Take(name)
			if !ok {
				return nil, newError(ErrMissingVariable, cursor, "variable %s is not bound", name)
			}
			if err := checkGroup(reg, lf.Params[i], vals, cursor); err != nil {
				return nil, err
			}
			taken[i] = vals
		}

		out, err := evalLibFunc(lf, taken, cursor)
		if err != nil {
			return nil, err
		}

		branch := inv.Branches[out.branch]
		sig := lf.Branches[out.branch]
		for i, name := range branch.Results {
			var vals []Value
			if i < len(out.results) {
				vals = out.results[i]
			}
			if cerr := checkGroup(reg, sig.Results[i], vals, cursor); cerr != nil {
				return nil, cerr
			}
			env.Bind(name, vals)
		}

		if opts.Replayer != nil {
			if rerr := opts.Replayer.Check(Event{Cursor: int(cursor), LibFunc: string(inv.LibFunc), Branch: out.branch}); rerr != nil {
				return nil, rerr
			}
		}
		if opts.Recorder != nil {
			opts.Recorder.record(Event{Cursor: int(cursor), LibFunc: string(inv.LibFunc), Branch: out.branch})
		}

		if branch.Target.Fallthrough {
			cursor++
		} else {
			cursor = branch.Target.Statement
		}
	}
}

func gatherReturns(reg *registry.Registry, f *program.Function, stmt *program.Statement, env *Environment, at program.StatementIdx) ([][]Value, error) {
	names := stmt.Return.Results
	if len(names) != len(f.Results) {
		return nil, newError(ErrOutputMismatch, at,
			"%s returns %d values, statement yields %d", f.Name, len(f.Results), len(names))
	}
	outputs := make([][]Value, len(names))
	for i, name := range names {
		vals, ok := env.Take(name)
		if !ok {
			return nil, newError(ErrMissingVariable, at, "return variable %s is not bound", name)
		}
		if err := checkGroup(reg, f.Results[i], vals, at); err != nil {
			return nil, err
		}
		outputs[i] = vals
	}
	return outputs, nil
}

// checkGroup verifies a value group against a declared type: group size must
// match the type's size class and every value must carry the matching kind.
func checkGroup(reg *registry.Registry, tid program.ConcreteTypeID, vals []Value, at program.StatementIdx) *Error {
	info, ok := reg.Type(tid)
	if !ok {
		return newError(ErrTypeMismatch, at, "undeclared type %s", tid)
	}
	if int64(len(vals)) != info.Size {
		return newError(ErrTypeMismatch, at,
			"type %s holds %d values, got %d", tid, info.Size, len(vals))
	}
	want := kindForType(info)
	for _, v := range vals {
		if v.Kind != want {
			return newError(ErrTypeMismatch, at, "type %s expects %s, got %s", tid, want, v.Kind)
		}
	}
	return nil
}
