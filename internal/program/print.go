package program

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the canonical textual form of a program. The output parses
// back into an equivalent program.
func Dump(w io.Writer, p *Program) error {
	if w == nil || p == nil {
		return nil
	}
	for _, td := range p.Types {
		if _, err := fmt.Fprintf(w, "type %s = %s;\n", td.ID, GenericSignature(string(td.Generic), td.Args)); err != nil {
			return err
		}
	}
	if len(p.Types) > 0 {
		fmt.Fprintln(w)
	}
	for _, ld := range p.LibFuncs {
		if _, err := fmt.Fprintf(w, "libfunc %s = %s;\n", ld.ID, GenericSignature(string(ld.Generic), ld.Args)); err != nil {
			return err
		}
	}
	if len(p.LibFuncs) > 0 {
		fmt.Fprintln(w)
	}
	for i := range p.Statements {
		if _, err := fmt.Fprintf(w, "%s;\n", FormatStatement(&p.Statements[i])); err != nil {
			return err
		}
	}
	if len(p.Statements) > 0 {
		fmt.Fprintln(w)
	}
	for i := range p.Funcs {
		f := &p.Funcs[i]
		params := make([]string, len(f.Params))
		for j, pr := range f.Params {
			params[j] = fmt.Sprintf("%s: %s", pr.Name, pr.Type)
		}
		results := make([]string, len(f.Results))
		for j, r := range f.Results {
			results[j] = string(r)
		}
		if _, err := fmt.Fprintf(w, "%s@%d(%s) -> (%s);\n",
			f.Name, f.Entry, strings.Join(params, ", "), strings.Join(results, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatStatement renders a single statement without the trailing semicolon.
func FormatStatement(s *Statement) string {
	switch s.Kind {
	case StatementReturn:
		return fmt.Sprintf("return(%s)", joinVars(s.Return.Results))
	case StatementInvocation:
		inv := &s.Invocation
		if len(inv.Branches) == 1 && inv.Branches[0].Target.Fallthrough {
			return fmt.Sprintf("%s(%s) -> (%s)",
				inv.LibFunc, joinVars(inv.Args), joinVars(inv.Branches[0].Results))
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s(%s) {", inv.LibFunc, joinVars(inv.Args))
		for _, br := range inv.Branches {
			if br.Target.Fallthrough {
				fmt.Fprintf(&sb, " fallthrough(%s)", joinVars(br.Results))
			} else {
				fmt.Fprintf(&sb, " %d(%s)", br.Target.Statement, joinVars(br.Results))
			}
		}
		sb.WriteString(" }")
		return sb.String()
	}
	return "<invalid statement>"
}

func joinVars(vars []VarID) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
