package extensions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sierra/internal/program"
)

// fakeEnv is a minimal TypeEnv for specialization tests.
type fakeEnv struct {
	byID     map[program.ConcreteTypeID]TypeInfo
	byStruct map[string]TypeInfo
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		byID:     make(map[program.ConcreteTypeID]TypeInfo),
		byStruct: make(map[string]TypeInfo),
	}
}

func (e *fakeEnv) add(generic program.GenericTypeID, args []program.GenericArg, info TypeInfo) {
	e.byID[info.ID] = info
	e.byStruct[program.GenericSignature(string(generic), args)] = info
}

func (e *fakeEnv) Type(id program.ConcreteTypeID) (TypeInfo, bool) {
	ti, ok := e.byID[id]
	return ti, ok
}

func (e *fakeEnv) TypeByStructure(generic program.GenericTypeID, args []program.GenericArg) (TypeInfo, bool) {
	ti, ok := e.byStruct[program.GenericSignature(string(generic), args)]
	return ti, ok
}

func envWithInt(t *testing.T) *fakeEnv {
	t.Helper()
	env := newFakeEnv()
	intInfo, err := SpecializeType(program.TypeDeclaration{ID: "int", Generic: GenericInt}, env)
	require.NoError(t, err)
	env.add(GenericInt, nil, intInfo)
	return env
}

func TestSpecializeIntType(t *testing.T) {
	env := newFakeEnv()
	info, err := SpecializeType(program.TypeDeclaration{ID: "int", Generic: GenericInt}, env)
	require.NoError(t, err)
	require.True(t, info.Duplicatable)
	require.True(t, info.Droppable)
	require.EqualValues(t, 1, info.Size)
}

func TestSpecializeNonZero(t *testing.T) {
	env := envWithInt(t)
	info, err := SpecializeType(program.TypeDeclaration{
		ID:      "NonZeroInt",
		Generic: GenericNonZero,
		Args:    []program.GenericArg{program.TypeArg("int")},
	}, env)
	require.NoError(t, err)
	require.Equal(t, program.ConcreteTypeID("int"), info.Wrapped)
	require.False(t, info.Duplicatable)
}

func TestSpecializeNonZeroOfUndeclared(t *testing.T) {
	env := newFakeEnv()
	_, err := SpecializeType(program.TypeDeclaration{
		ID:      "NonZeroInt",
		Generic: GenericNonZero,
		Args:    []program.GenericArg{program.TypeArg("int")},
	}, env)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, KindMissingDependency, serr.Kind)
}

func TestSpecializeUnknownTypeFamily(t *testing.T) {
	env := newFakeEnv()
	_, err := SpecializeType(program.TypeDeclaration{ID: "q", Generic: "Quaternion"}, env)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, KindUnsupportedID, serr.Kind)
}

func TestSpecializeIntAdd(t *testing.T) {
	env := envWithInt(t)
	lf, err := SpecializeLibFunc(program.LibFuncDeclaration{
		ID:      "add1",
		Generic: "int_add",
		Args:    []program.GenericArg{program.ValueArg(1)},
	}, env)
	require.NoError(t, err)
	require.Equal(t, LFIntAdd, lf.Kind)
	require.EqualValues(t, 1, lf.Const)
	require.Len(t, lf.Branches, 1)
}

func TestSpecializeArgKindChecked(t *testing.T) {
	env := envWithInt(t)
	// A type argument where an integer constant is required.
	_, err := SpecializeLibFunc(program.LibFuncDeclaration{
		ID:      "add",
		Generic: "int_add",
		Args:    []program.GenericArg{program.TypeArg("int")},
	}, env)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, KindUnsupportedArg, serr.Kind)
}

func TestSpecializeArgCountChecked(t *testing.T) {
	env := envWithInt(t)
	_, err := SpecializeLibFunc(program.LibFuncDeclaration{ID: "add", Generic: "int_add"}, env)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, KindWrongArgCount, serr.Kind)
}

func TestSpecializeGetGasRequiresPositive(t *testing.T) {
	env := envWithInt(t)
	gbInfo, err := SpecializeType(program.TypeDeclaration{ID: "GasBuiltin", Generic: GenericGasBuiltin}, env)
	require.NoError(t, err)
	env.add(GenericGasBuiltin, nil, gbInfo)

	_, err = SpecializeLibFunc(program.LibFuncDeclaration{
		ID:      "gg",
		Generic: "get_gas",
		Args:    []program.GenericArg{program.ValueArg(0)},
	}, env)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, KindUnsupportedArg, serr.Kind)
}

func TestSpecializeJumpNZShape(t *testing.T) {
	env := envWithInt(t)
	nzInfo, err := SpecializeType(program.TypeDeclaration{
		ID:      "NonZeroInt",
		Generic: GenericNonZero,
		Args:    []program.GenericArg{program.TypeArg("int")},
	}, env)
	require.NoError(t, err)
	env.add(GenericNonZero, []program.GenericArg{program.TypeArg("int")}, nzInfo)

	lf, err := SpecializeLibFunc(program.LibFuncDeclaration{ID: "jnz", Generic: "int_jump_nz"}, env)
	require.NoError(t, err)
	require.Len(t, lf.Branches, 2)
	require.Equal(t, []program.ConcreteTypeID{"NonZeroInt"}, lf.Branches[0].Results)
	require.Empty(t, lf.Branches[1].Results)
}
