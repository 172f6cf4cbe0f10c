package program_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"sierra/internal/program"
)

func wrapperDemo() *program.Program {
	return &program.Program{
		Types: []program.TypeDeclaration{
			{ID: "int", Generic: "int"},
			{ID: "NonZeroInt", Generic: "NonZero", Args: []program.GenericArg{program.TypeArg("int")}},
		},
		LibFuncs: []program.LibFuncDeclaration{
			{ID: "add1", Generic: "int_add", Args: []program.GenericArg{program.ValueArg(1)}},
			{ID: "jnz", Generic: "int_jump_nz"},
			{ID: "unwrap", Generic: "unwrap_nz", Args: []program.GenericArg{program.TypeArg("int")}},
		},
		Statements: []program.Statement{
			{
				Kind: program.StatementInvocation,
				Invocation: program.Invocation{
					LibFunc: "jnz",
					Args:    []program.VarID{"x"},
					Branches: []program.BranchInfo{
						{Target: program.TargetStatement(2), Results: []program.VarID{"m"}},
						{Target: program.Fallthrough()},
					},
				},
			},
			{Kind: program.StatementReturn},
			{
				Kind: program.StatementInvocation,
				Invocation: program.Invocation{
					LibFunc: "unwrap",
					Args:    []program.VarID{"m"},
					Branches: []program.BranchInfo{
						{Target: program.Fallthrough(), Results: []program.VarID{"v"}},
					},
				},
			},
			{
				Kind: program.StatementInvocation,
				Invocation: program.Invocation{
					LibFunc: "add1",
					Args:    []program.VarID{"v"},
					Branches: []program.BranchInfo{
						{Target: program.Fallthrough(), Results: []program.VarID{"v"}},
					},
				},
			},
			{
				Kind:   program.StatementReturn,
				Return: program.ReturnStatement{Results: []program.VarID{"v"}},
			},
		},
		Funcs: []program.Function{
			{
				Name:    "Main",
				Entry:   0,
				Params:  []program.Param{{Name: "x", Type: "int"}},
				Results: []program.ConcreteTypeID{"int"},
			},
		},
	}
}

func TestDumpGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, program.Dump(&buf, wrapperDemo()))

	g := goldie.New(t)
	g.Assert(t, "wrapper_demo", buf.Bytes())
}

func TestFormatStatement(t *testing.T) {
	p := wrapperDemo()
	require.Equal(t, "jnz(x) { 2(m) fallthrough() }", program.FormatStatement(&p.Statements[0]))
	require.Equal(t, "return()", program.FormatStatement(&p.Statements[1]))
	require.Equal(t, "unwrap(m) -> (v)", program.FormatStatement(&p.Statements[2]))
	require.Equal(t, "return(v)", program.FormatStatement(&p.Statements[4]))
}

func TestGenericSignature(t *testing.T) {
	require.Equal(t, "int", program.GenericSignature("int", nil))
	require.Equal(t, "NonZero<int>", program.GenericSignature("NonZero",
		[]program.GenericArg{program.TypeArg("int")}))
	require.Equal(t, "get_gas<11>", program.GenericSignature("get_gas",
		[]program.GenericArg{program.ValueArg(11)}))
}

func TestLookups(t *testing.T) {
	p := wrapperDemo()

	require.Nil(t, p.GetStatement(-1))
	require.Nil(t, p.GetStatement(5))
	require.NotNil(t, p.GetStatement(4))
	require.Equal(t, program.StatementReturn, p.GetStatement(4).Kind)

	require.Nil(t, p.Func("Other"))
	fn := p.Func("Main")
	require.NotNil(t, fn)
	require.EqualValues(t, 0, fn.Entry)
}
