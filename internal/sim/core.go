package sim

import (
	"sierra/internal/extensions"
	"sierra/internal/program"
)

// branchOutcome is the tagged result of evaluating one libfunc: which
// declared branch fired and the value groups for its results, in order.
// Branch selection is ordinary data, never thrown control flow.
type branchOutcome struct {
	branch  int
	results [][]Value
}

// evalLibFunc applies a resolved libfunc's built-in semantics to its input
// value groups. Inputs arrive already taken from the environment; the caller
// checked them against the signature types.
func evalLibFunc(lf *extensions.LibFunc, inputs [][]Value, at program.StatementIdx) (branchOutcome, *Error) {
	switch lf.Kind {
	case extensions.LFStoreTemp:
		// Store is a memory-placement concern; under simulation it is the
		// identity.
		return fallthroughWith(inputs[0]), nil

	case extensions.LFAlignTemps:
		return branchOutcome{}, nil

	case extensions.LFJump:
		return branchOutcome{}, nil

	case extensions.LFIntConst:
		return fallthroughWith([]Value{IntValue(lf.Const)}), nil

	case extensions.LFIntAdd, extensions.LFIntSub, extensions.LFIntMul, extensions.LFIntDiv, extensions.LFIntMod:
		v, err := singleInt(inputs[0], at)
		if err != nil {
			return branchOutcome{}, err
		}
		res, err := applyIntOp(lf.Kind, v, lf.Const, at)
		if err != nil {
			return branchOutcome{}, err
		}
		return fallthroughWith([]Value{IntValue(res)}), nil

	case extensions.LFIntDup:
		v, err := singleInt(inputs[0], at)
		if err != nil {
			return branchOutcome{}, err
		}
		return fallthroughWith([]Value{IntValue(v)}, []Value{IntValue(v)}), nil

	case extensions.LFIntIgnore:
		if _, err := singleInt(inputs[0], at); err != nil {
			return branchOutcome{}, err
		}
		return branchOutcome{}, nil

	case extensions.LFIntJumpNZ:
		v, err := singleInt(inputs[0], at)
		if err != nil {
			return branchOutcome{}, err
		}
		if v != 0 {
			return branchOutcome{branch: 0, results: [][]Value{{NonZeroValue(v)}}}, nil
		}
		// Zero falls through; the tested operand is dropped.
		return branchOutcome{branch: 1}, nil

	case extensions.LFUnwrapNZ:
		v, err := single(inputs[0], VKNonZero, at)
		if err != nil {
			return branchOutcome{}, err
		}
		return fallthroughWith([]Value{IntValue(v.Int)}), nil

	case extensions.LFGetGas:
		gb, err := single(inputs[0], VKGas, at)
		if err != nil {
			return branchOutcome{}, err
		}
		// Atomic: either deduct and succeed, or leave the counter untouched
		// and take the shortfall branch.
		if gb.Int >= lf.Const {
			return branchOutcome{branch: 0, results: [][]Value{{GasValue(gb.Int - lf.Const)}}}, nil
		}
		return branchOutcome{branch: 1, results: [][]Value{{gb}}}, nil

	case extensions.LFRefundGas:
		gb, err := single(inputs[0], VKGas, at)
		if err != nil {
			return branchOutcome{}, err
		}
		return fallthroughWith([]Value{GasValue(gb.Int + lf.Const)}), nil
	}

	return branchOutcome{}, newError(ErrTypeMismatch, at, "libfunc %s has no simulation semantics", lf.ID)
}

func applyIntOp(kind extensions.LibFuncKind, v, c int64, at program.StatementIdx) (int64, *Error) {
	switch kind {
	case extensions.LFIntAdd:
		return v + c, nil
	case extensions.LFIntSub:
		return v - c, nil
	case extensions.LFIntMul:
		return v * c, nil
	case extensions.LFIntDiv:
		if c == 0 {
			return 0, newError(ErrDivisionByZero, at, "division by zero")
		}
		return v / c, nil
	case extensions.LFIntMod:
		if c == 0 {
			return 0, newError(ErrDivisionByZero, at, "modulo by zero")
		}
		return v % c, nil
	}
	return 0, newError(ErrTypeMismatch, at, "not an int operation")
}

func fallthroughWith(results ...[]Value) branchOutcome {
	return branchOutcome{branch: 0, results: results}
}

func single(group []Value, want ValueKind, at program.StatementIdx) (Value, *Error) {
	if len(group) != 1 {
		return Value{}, newError(ErrTypeMismatch, at, "expected a single %s value, got %d values", want, len(group))
	}
	if group[0].Kind != want {
		return Value{}, newError(ErrTypeMismatch, at, "expected %s, got %s", want, group[0].Kind)
	}
	return group[0], nil
}

func singleInt(group []Value, at program.StatementIdx) (int64, *Error) {
	v, err := single(group, VKInt, at)
	if err != nil {
		return 0, err
	}
	return v.Int, nil
}
