package extensions

import (
	"sierra/internal/program"
)

// LibFuncKind tags the concrete semantics of a resolved libfunc.
type LibFuncKind uint8

const (
	// LFInvalid is the zero kind.
	LFInvalid LibFuncKind = iota
	// LFStoreTemp moves a value into temporary storage (identity here).
	LFStoreTemp
	// LFAlignTemps pads temporary storage (no-op here).
	LFAlignTemps
	// LFJump continues unconditionally at the branch target.
	LFJump
	// LFIntConst produces the baked constant.
	LFIntConst
	// LFIntAdd adds the baked constant.
	LFIntAdd
	// LFIntSub subtracts the baked constant.
	LFIntSub
	// LFIntMul multiplies by the baked constant.
	LFIntMul
	// LFIntDiv divides by the baked constant.
	LFIntDiv
	// LFIntMod reduces modulo the baked constant.
	LFIntMod
	// LFIntDup yields two live bindings from one value.
	LFIntDup
	// LFIntIgnore discards a value.
	LFIntIgnore
	// LFIntJumpNZ tests an operand: zero falls through dropping it,
	// non-zero takes the branch carrying the NonZero wrapper.
	LFIntJumpNZ
	// LFUnwrapNZ unwraps a NonZero back to the plain value.
	LFUnwrapNZ
	// LFGetGas deducts the baked amount or takes the shortfall branch.
	LFGetGas
	// LFRefundGas adds the baked amount back.
	LFRefundGas
)

// Generic libfunc family names.
const (
	genericStoreTemp  program.GenericLibFuncID = "store_temp"
	genericAlignTemps program.GenericLibFuncID = "align_temps"
	genericJump       program.GenericLibFuncID = "jump"
	genericIntConst   program.GenericLibFuncID = "int_const"
	genericIntAdd     program.GenericLibFuncID = "int_add"
	genericIntSub     program.GenericLibFuncID = "int_sub"
	genericIntMul     program.GenericLibFuncID = "int_mul"
	genericIntDiv     program.GenericLibFuncID = "int_div"
	genericIntMod     program.GenericLibFuncID = "int_mod"
	genericIntDup     program.GenericLibFuncID = "int_dup"
	genericIntIgnore  program.GenericLibFuncID = "int_ignore"
	genericIntJumpNZ  program.GenericLibFuncID = "int_jump_nz"
	genericUnwrapNZ   program.GenericLibFuncID = "unwrap_nz"
	genericGetGas     program.GenericLibFuncID = "get_gas"
	genericRefundGas  program.GenericLibFuncID = "refund_gas"
)

// BranchSignature is the ordered result types of one declared branch.
type BranchSignature struct {
	Results []program.ConcreteTypeID
}

// LibFunc is the resolved form of a libfunc declaration: the signature the
// registry checks statements against, plus the dispatch payload the
// simulator evaluates.
type LibFunc struct {
	ID      program.ConcreteLibFuncID
	Generic program.GenericLibFuncID
	Kind    LibFuncKind
	// Const is the baked generic constant (operand for int_*, amount for
	// get_gas/refund_gas).
	Const    int64
	Params   []program.ConcreteTypeID
	Branches []BranchSignature
}

// SpecializeLibFunc resolves a libfunc declaration against the already
// declared types.
func SpecializeLibFunc(decl program.LibFuncDeclaration, env TypeEnv) (*LibFunc, error) {
	id := string(decl.Generic)
	switch decl.Generic {
	case genericStoreTemp:
		ty, err := oneTypeArg(id, decl.Args, env)
		if err != nil {
			return nil, err
		}
		return simple(decl, LFStoreTemp, 0, []program.ConcreteTypeID{ty.ID}, []program.ConcreteTypeID{ty.ID}), nil

	case genericAlignTemps:
		if _, err := oneTypeArg(id, decl.Args, env); err != nil {
			return nil, err
		}
		return simple(decl, LFAlignTemps, 0, nil, nil), nil

	case genericJump:
		if len(decl.Args) != 0 {
			return nil, errWrongArgCount(id, 0, len(decl.Args))
		}
		return &LibFunc{
			ID:       decl.ID,
			Generic:  decl.Generic,
			Kind:     LFJump,
			Branches: []BranchSignature{{}},
		}, nil

	case genericIntConst:
		c, err := oneValueArg(id, decl.Args)
		if err != nil {
			return nil, err
		}
		intTy, err := requireInt(id, env)
		if err != nil {
			return nil, err
		}
		return simple(decl, LFIntConst, c, nil, []program.ConcreteTypeID{intTy.ID}), nil

	case genericIntAdd, genericIntSub, genericIntMul, genericIntDiv, genericIntMod:
		c, err := oneValueArg(id, decl.Args)
		if err != nil {
			return nil, err
		}
		kind := map[program.GenericLibFuncID]LibFuncKind{
			genericIntAdd: LFIntAdd,
			genericIntSub: LFIntSub,
			genericIntMul: LFIntMul,
			genericIntDiv: LFIntDiv,
			genericIntMod: LFIntMod,
		}[decl.Generic]
		if (kind == LFIntDiv || kind == LFIntMod) && c == 0 {
			return nil, errUnsupportedArg(id, "zero divisor")
		}
		intTy, err := requireInt(id, env)
		if err != nil {
			return nil, err
		}
		return simple(decl, kind, c, []program.ConcreteTypeID{intTy.ID}, []program.ConcreteTypeID{intTy.ID}), nil

	case genericIntDup:
		if len(decl.Args) != 0 {
			return nil, errWrongArgCount(id, 0, len(decl.Args))
		}
		intTy, err := requireInt(id, env)
		if err != nil {
			return nil, err
		}
		return simple(decl, LFIntDup, 0,
			[]program.ConcreteTypeID{intTy.ID},
			[]program.ConcreteTypeID{intTy.ID, intTy.ID}), nil

	case genericIntIgnore:
		if len(decl.Args) != 0 {
			return nil, errWrongArgCount(id, 0, len(decl.Args))
		}
		intTy, err := requireInt(id, env)
		if err != nil {
			return nil, err
		}
		return simple(decl, LFIntIgnore, 0, []program.ConcreteTypeID{intTy.ID}, nil), nil

	case genericIntJumpNZ:
		if len(decl.Args) != 0 {
			return nil, errWrongArgCount(id, 0, len(decl.Args))
		}
		intTy, err := requireInt(id, env)
		if err != nil {
			return nil, err
		}
		nzTy, ok := env.TypeByStructure(GenericNonZero, []program.GenericArg{program.TypeArg(intTy.ID)})
		if !ok {
			return nil, errMissingDependency(id, "no declared NonZero wrapper of "+string(intTy.ID))
		}
		return &LibFunc{
			ID:      decl.ID,
			Generic: decl.Generic,
			Kind:    LFIntJumpNZ,
			Params:  []program.ConcreteTypeID{intTy.ID},
			Branches: []BranchSignature{
				{Results: []program.ConcreteTypeID{nzTy.ID}}, // non-zero
				{},                                           // zero, operand dropped
			},
		}, nil

	case genericUnwrapNZ:
		inner, err := oneTypeArg(id, decl.Args, env)
		if err != nil {
			return nil, err
		}
		nzTy, ok := env.TypeByStructure(GenericNonZero, []program.GenericArg{program.TypeArg(inner.ID)})
		if !ok {
			return nil, errMissingDependency(id, "no declared NonZero wrapper of "+string(inner.ID))
		}
		return simple(decl, LFUnwrapNZ, 0, []program.ConcreteTypeID{nzTy.ID}, []program.ConcreteTypeID{inner.ID}), nil

	case genericGetGas:
		c, err := oneValueArg(id, decl.Args)
		if err != nil {
			return nil, err
		}
		if c <= 0 {
			return nil, errUnsupportedArg(id, "gas amount must be positive")
		}
		gbTy, err := requireGasBuiltin(id, env)
		if err != nil {
			return nil, err
		}
		return &LibFunc{
			ID:      decl.ID,
			Generic: decl.Generic,
			Kind:    LFGetGas,
			Const:   c,
			Params:  []program.ConcreteTypeID{gbTy.ID},
			Branches: []BranchSignature{
				{Results: []program.ConcreteTypeID{gbTy.ID}}, // deducted
				{Results: []program.ConcreteTypeID{gbTy.ID}}, // shortfall, untouched
			},
		}, nil

	case genericRefundGas:
		c, err := oneValueArg(id, decl.Args)
		if err != nil {
			return nil, err
		}
		if c <= 0 {
			return nil, errUnsupportedArg(id, "gas amount must be positive")
		}
		gbTy, err := requireGasBuiltin(id, env)
		if err != nil {
			return nil, err
		}
		return simple(decl, LFRefundGas, c, []program.ConcreteTypeID{gbTy.ID}, []program.ConcreteTypeID{gbTy.ID}), nil

	default:
		return nil, errUnsupportedID(id)
	}
}

// simple builds a single-branch (fallthrough) libfunc.
func simple(decl program.LibFuncDeclaration, kind LibFuncKind, c int64, params, results []program.ConcreteTypeID) *LibFunc {
	return &LibFunc{
		ID:       decl.ID,
		Generic:  decl.Generic,
		Kind:     kind,
		Const:    c,
		Params:   params,
		Branches: []BranchSignature{{Results: results}},
	}
}

func oneTypeArg(id string, args []program.GenericArg, env TypeEnv) (TypeInfo, error) {
	if len(args) != 1 {
		return TypeInfo{}, errWrongArgCount(id, 1, len(args))
	}
	if args[0].Kind != program.GenericArgType {
		return TypeInfo{}, errUnsupportedArg(id, "expected a type argument")
	}
	ty, ok := env.Type(args[0].Type)
	if !ok {
		return TypeInfo{}, errMissingDependency(id, "type "+string(args[0].Type)+" is not declared")
	}
	return ty, nil
}

func oneValueArg(id string, args []program.GenericArg) (int64, error) {
	if len(args) != 1 {
		return 0, errWrongArgCount(id, 1, len(args))
	}
	if args[0].Kind != program.GenericArgValue {
		return 0, errUnsupportedArg(id, "expected an integer literal")
	}
	return args[0].Value, nil
}

func requireInt(id string, env TypeEnv) (TypeInfo, error) {
	ty, ok := env.TypeByStructure(GenericInt, nil)
	if !ok {
		return TypeInfo{}, errMissingDependency(id, "no declared int type")
	}
	return ty, nil
}

func requireGasBuiltin(id string, env TypeEnv) (TypeInfo, error) {
	ty, ok := env.TypeByStructure(GenericGasBuiltin, nil)
	if !ok {
		return TypeInfo{}, errMissingDependency(id, "no declared GasBuiltin type")
	}
	return ty, nil
}
