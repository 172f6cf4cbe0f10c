package parser_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"sierra/internal/diag"
	"sierra/internal/parser"
	"sierra/internal/program"
	"sierra/internal/source"
	"sierra/internal/testkit"
)

func parseText(t *testing.T, text string) (*program.Program, *diag.Bag, bool) {
	t.Helper()
	fileSet := source.NewFileSet()
	bag := diag.NewBag(64)
	prog, ok := parser.ParseSource(fileSet, "test.sierra", []byte(text), diag.BagReporter{Bag: bag})
	return prog, bag, ok
}

func TestParseCollatz(t *testing.T) {
	prog, bag, ok := parseText(t, testkit.CollatzText)
	require.True(t, ok, "diagnostics: %v", bag.Items())
	require.Len(t, prog.Types, 3)
	require.Len(t, prog.LibFuncs, 17)
	require.Len(t, prog.Statements, 43)
	require.Len(t, prog.Funcs, 1)

	fn := prog.Func("Collatz")
	require.NotNil(t, fn)
	require.EqualValues(t, 0, fn.Entry)
	require.Equal(t, []program.ConcreteTypeID{"GasBuiltin", "int"}, fn.Results)

	// jump() { 34() };
	jump := prog.Statements[4]
	require.Equal(t, program.StatementInvocation, jump.Kind)
	require.Len(t, jump.Invocation.Branches, 1)
	require.False(t, jump.Invocation.Branches[0].Target.Fallthrough)
	require.EqualValues(t, 34, jump.Invocation.Branches[0].Target.Statement)

	// get_gas_11(gb) { 14(gb) fallthrough(gb) };
	getGas := prog.Statements[7]
	require.Len(t, getGas.Invocation.Branches, 2)
	require.True(t, getGas.Invocation.Branches[1].Target.Fallthrough)
}

func TestParseNegativeLiteralArg(t *testing.T) {
	prog, _, ok := parseText(t, `libfunc c = int_const<-1>;`)
	require.True(t, ok)
	require.Len(t, prog.LibFuncs, 1)
	require.Equal(t, []program.GenericArg{program.ValueArg(-1)}, prog.LibFuncs[0].Args)
}

func TestParseMultipleGenericArgs(t *testing.T) {
	prog, _, ok := parseText(t, `type pair = Pair<int, 3>;`)
	require.True(t, ok)
	require.Equal(t, []program.GenericArg{
		program.TypeArg("int"),
		program.ValueArg(3),
	}, prog.Types[0].Args)
}

func TestMissingSemicolonReported(t *testing.T) {
	_, bag, ok := parseText(t, "type int = int\ntype gb = GasBuiltin;")
	require.False(t, ok)
	require.True(t, bag.HasErrors())
	require.Equal(t, diag.SynExpectSemicolon, bag.Items()[0].Code)
}

func TestUnknownCharacterReported(t *testing.T) {
	_, bag, ok := parseText(t, `type int ? int;`)
	require.False(t, ok)
	require.True(t, bag.HasErrors())
}

func TestBadBranchTargetReported(t *testing.T) {
	_, bag, ok := parseText(t, `jnz(x) { nowhere&(m) };`)
	require.False(t, ok)
	require.True(t, bag.HasErrors())
}

func TestRecoveryContinuesAfterError(t *testing.T) {
	prog, _, ok := parseText(t, "type broken = ;\ntype int = int;")
	require.False(t, ok)
	// The declaration after the bad one still parses.
	require.Len(t, prog.Types, 1)
	require.Equal(t, program.ConcreteTypeID("int"), prog.Types[0].ID)
}

// The printer emits canonical text that parses back into the same program.
func TestPrintParseRoundTrip(t *testing.T) {
	first, _, ok := parseText(t, testkit.CollatzText)
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, program.Dump(&buf, first))

	second, bag, ok := parseText(t, buf.String())
	require.True(t, ok, "diagnostics: %v", bag.Items())

	stripSpans(first)
	stripSpans(second)
	require.Equal(t, first, second)
}

func stripSpans(p *program.Program) {
	for i := range p.Types {
		p.Types[i].Span = source.Span{}
	}
	for i := range p.LibFuncs {
		p.LibFuncs[i].Span = source.Span{}
	}
	for i := range p.Statements {
		p.Statements[i].Span = source.Span{}
	}
	for i := range p.Funcs {
		p.Funcs[i].Span = source.Span{}
	}
}
