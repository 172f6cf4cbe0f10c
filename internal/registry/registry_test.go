package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sierra/internal/diag"
	"sierra/internal/registry"
	"sierra/internal/testkit"
)

func requireCode(t *testing.T, err error, code diag.Code) {
	t.Helper()
	var regErr *registry.Error
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, code, regErr.Code)
}

func TestCollatzRegistry(t *testing.T) {
	prog := testkit.MustParse(t, testkit.CollatzText)
	reg, err := registry.New(prog)
	require.NoError(t, err)

	ti, ok := reg.Type("NonZeroInt")
	require.True(t, ok)
	require.Equal(t, "int", string(ti.Wrapped))

	lf, ok := reg.LibFunc("get_gas_11")
	require.True(t, ok)
	require.EqualValues(t, 11, lf.Const)
	require.Len(t, lf.Branches, 2)

	fn, ok := reg.Function("Collatz")
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
}

func TestDuplicateTypeID(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
type int = int;
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegDuplicateID)
}

func TestDuplicateLibFuncID(t *testing.T) {
	// The same declared id under two generic names is still a duplicate.
	prog := testkit.MustParse(t, `
type int = int;
libfunc f = int_add<1>;
libfunc f = int_sub<1>;
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegDuplicateID)
}

func TestUnsupportedTypeID(t *testing.T) {
	prog := testkit.MustParse(t, `type q = Quaternion;`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegUnsupportedTypeID)
}

func TestUnsupportedLibFuncID(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
libfunc f = int_teleport;
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegUnsupportedLibFuncID)
}

func TestForwardTypeReferenceRejected(t *testing.T) {
	// NonZero<int> before int is declared: declaration order is strict.
	prog := testkit.MustParse(t, `
type nz = NonZero<int>;
type int = int;
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegMissingDependency)
}

func TestWrongGenericArgCount(t *testing.T) {
	prog := testkit.MustParse(t, `type int = int<5>;`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegWrongGenericArgCount)
}

func TestNonNumericGenericArg(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
libfunc add = int_add<int>;
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegUnsupportedArg)
}

func TestZeroDivisorRejected(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
libfunc div = int_div<0>;
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegUnsupportedArg)
}

func TestStatementArityMismatch(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
libfunc ignore = int_ignore;

ignore(x, y) -> ();
return();

Main@0(x: int) -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegArityMismatch)
}

func TestBranchCountMismatch(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
type NonZeroInt = NonZero<int>;
libfunc jnz = int_jump_nz;

jnz(x) -> (m);
return();

Main@0(x: int) -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegArityMismatch)
}

func TestBranchResultCountMismatch(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
type NonZeroInt = NonZero<int>;
libfunc jnz = int_jump_nz;

jnz(x) { 1(m, extra) fallthrough() };
return();

Main@0(x: int) -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegArityMismatch)
}

func TestBranchTargetOutOfRange(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
libfunc jump = jump;

jump() { 7() };
return();

Main@0() -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegBadTarget)
}

func TestFallthroughPastEndRejected(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
libfunc ignore = int_ignore;

ignore(x) -> ();

Main@0(x: int) -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegBadTarget)
}

func TestUndeclaredLibFuncInStatement(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;

vanish(x) -> ();
return();

Main@0(x: int) -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegMissingDependency)
}

func TestFunctionEntryOutOfRange(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;

return();

Main@9(x: int) -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegBadFunction)
}

func TestFunctionUndeclaredParamType(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;

return();

Main@0(x: felt) -> ();
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegMissingDependency)
}

func TestJumpNZNeedsDeclaredWrapper(t *testing.T) {
	prog := testkit.MustParse(t, `
type int = int;
libfunc jnz = int_jump_nz;
`)
	_, err := registry.New(prog)
	requireCode(t, err, diag.RegMissingDependency)
}
