package sim

import (
	"sierra/internal/program"
)

// Environment is the move-only variable store of one run: binding a name
// inserts, reading removes. A consumed variable is gone unless the libfunc's
// semantics explicitly produce a duplicate.
type Environment struct {
	vars map[program.VarID][]Value
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[program.VarID][]Value, 16)}
}

// Bind stores values under name. Rebinding replaces any previous binding.
func (e *Environment) Bind(name program.VarID, vals []Value) {
	e.vars[name] = vals
}

// Take removes and returns the binding for name.
func (e *Environment) Take(name program.VarID) ([]Value, bool) {
	vals, ok := e.vars[name]
	if !ok {
		return nil, false
	}
	delete(e.vars, name)
	return vals, true
}

// Len reports the number of live bindings.
func (e *Environment) Len() int {
	return len(e.vars)
}
