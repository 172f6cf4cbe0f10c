// Package testkit provides shared fixtures and helpers for package tests.
package testkit

import (
	"testing"

	"sierra/internal/diag"
	"sierra/internal/parser"
	"sierra/internal/program"
	"sierra/internal/registry"
	"sierra/internal/source"
)

// CollatzText is the end-to-end fixture: it exercises gas metering, data
// branches, NonZero wrapping, and explicit dup/drop. The entry point takes
// (gas, n) and returns (remaining gas, chain length), or -1 when gas runs
// out.
const CollatzText = `
type int = int;
type GasBuiltin = GasBuiltin;
type NonZeroInt = NonZero<int>;

libfunc store_temp_int = store_temp<int>;
libfunc store_temp_gb = store_temp<GasBuiltin>;
libfunc int_const_0 = int_const<0>;
libfunc int_const_minus_1 = int_const<-1>;
libfunc int_mod_2 = int_mod<2>;
libfunc int_div_2 = int_div<2>;
libfunc int_mul_3 = int_mul<3>;
libfunc int_add_1 = int_add<1>;
libfunc int_sub_1 = int_sub<1>;
libfunc int_dup = int_dup;
libfunc int_ignore = int_ignore;
libfunc int_jump_nz = int_jump_nz;
libfunc int_unwrap_nz = unwrap_nz<int>;
libfunc get_gas_11 = get_gas<11>;
libfunc refund_gas_1 = refund_gas<1>;
libfunc jump = jump;
libfunc align_temps = align_temps<int>;

// 0: set up [n, gb, counter=0] and enter the loop test.
store_temp_int(n) -> (n);
store_temp_gb(gb) -> (gb);
int_const_0() -> (counter);
store_temp_int(counter) -> (counter);
jump() { 34() };
// 5: top of the loop; drop the jump_nz witness, then meter gas.
int_unwrap_nz(to_drop) -> (to_drop);
int_ignore(to_drop) -> ();
get_gas_11(gb) { 14(gb) fallthrough(gb) };
// 8: out of gas; return the untouched balance and -1.
int_ignore(n) -> ();
int_ignore(counter) -> ();
store_temp_gb(gb) -> (gb);
int_const_minus_1() -> (err);
store_temp_int(err) -> (err);
return(gb, err);
// 14: parity test on n.
int_dup(n) -> (n, parity);
int_mod_2(parity) -> (parity);
store_temp_int(parity) -> (parity);
store_temp_gb(gb) -> (gb);
int_jump_nz(parity) { 24(to_drop) fallthrough() };
// 19: even case, n / 2.
align_temps() -> ();
int_div_2(n) -> (n);
store_temp_int(n) -> (n);
store_temp_gb(gb) -> (gb);
jump() { 32() };
// 24: odd case, 3n + 1; refund to align gas usage with the even path.
int_unwrap_nz(to_drop) -> (to_drop);
int_ignore(to_drop) -> ();
int_mul_3(n) -> (n);
store_temp_int(n) -> (n);
int_add_1(n) -> (n);
store_temp_int(n) -> (n);
refund_gas_1(gb) -> (gb);
store_temp_gb(gb) -> (gb);
// 32: counter += 1.
int_add_1(counter) -> (counter);
store_temp_int(counter) -> (counter);
// 34: stop when n == 1.
int_dup(n) -> (n, n_1);
int_sub_1(n_1) -> (n_1);
store_temp_int(n_1) -> (n_1);
int_jump_nz(n_1) { 5(to_drop) fallthrough() };
// 38: done; return the counter.
int_ignore(n) -> ();
refund_gas_1(gb) -> (gb);
store_temp_gb(gb) -> (gb);
store_temp_int(counter) -> (counter);
return(gb, counter);

Collatz@0(gb: GasBuiltin, n: int) -> (GasBuiltin, int);
`

// MustParse parses text, failing the test on any diagnostic.
func MustParse(t testing.TB, text string) *program.Program {
	t.Helper()
	fileSet := source.NewFileSet()
	bag := diag.NewBag(64)
	prog, ok := parser.ParseSource(fileSet, "fixture.sierra", []byte(text), diag.BagReporter{Bag: bag})
	if !ok {
		for _, d := range bag.Items() {
			t.Logf("%s %s: %s", fileSet.Position(d.Primary), d.Code, d.Message)
		}
		t.Fatalf("fixture did not parse")
	}
	return prog
}

// MustRegistry builds a registry, failing the test on any error.
func MustRegistry(t testing.TB, prog *program.Program) *registry.Registry {
	t.Helper()
	reg, err := registry.New(prog)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}
