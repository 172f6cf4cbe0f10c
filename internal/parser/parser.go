package parser

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"sierra/internal/diag"
	"sierra/internal/program"
	"sierra/internal/source"
)

// Parser is a single-pass recursive-descent parser for the program format.
type Parser struct {
	sc       *Scanner
	tok      Token
	reporter diag.Reporter
	ok       bool
}

// Parse reads a whole file into a Program. Diagnostics go to the reporter;
// ok is false when any error was reported. Declarations, statements, and
// function signatures may interleave; statement addresses are assigned in
// order of appearance.
func Parse(f *source.File, reporter diag.Reporter) (*program.Program, bool) {
	p := &Parser{sc: NewScanner(f, reporter), reporter: reporter, ok: true}
	p.next()

	prog := &program.Program{}
	for p.tok.Kind != TokEOF {
		switch {
		case p.at("type"):
			if decl, ok := p.parseTypeDecl(); ok {
				prog.Types = append(prog.Types, decl)
			}
		case p.at("libfunc"):
			if decl, ok := p.parseLibFuncDecl(); ok {
				prog.LibFuncs = append(prog.LibFuncs, decl)
			}
		case p.at("return"):
			if stmt, ok := p.parseReturn(); ok {
				prog.Statements = append(prog.Statements, stmt)
			}
		case p.tok.Kind == TokIdent:
			p.parseStatementOrFunc(prog)
		default:
			p.errorf(diag.SynUnexpectedToken, "expected a declaration or statement, got %s", p.tok.Kind)
			p.recover()
		}
	}
	return prog, p.ok
}

// ParseSource registers content as a virtual file and parses it.
func ParseSource(fs *source.FileSet, name string, content []byte, reporter diag.Reporter) (*program.Program, bool) {
	id := fs.AddVirtual(name, content)
	return Parse(fs.Get(id), reporter)
}

func (p *Parser) next() {
	p.tok = p.sc.Next()
}

func (p *Parser) at(keyword string) bool {
	return p.tok.Kind == TokIdent && p.tok.Text == keyword
}

func (p *Parser) expect(kind TokenKind) (Token, bool) {
	if p.tok.Kind != kind {
		p.errorf(diag.SynUnexpectedToken, "expected %s, got %s", kind, p.tok.Kind)
		return p.tok, false
	}
	tok := p.tok
	p.next()
	return tok, true
}

func (p *Parser) errorf(code diag.Code, format string, args ...any) {
	p.ok = false
	diag.ReportError(p.reporter, code, p.tok.Span, fmt.Sprintf(format, args...))
}

// recover skips to just past the next semicolon.
func (p *Parser) recover() {
	for p.tok.Kind != TokEOF && p.tok.Kind != TokSemi {
		p.next()
	}
	if p.tok.Kind == TokSemi {
		p.next()
	}
}

func (p *Parser) semi(start source.Span) (source.Span, bool) {
	if p.tok.Kind != TokSemi {
		p.errorf(diag.SynExpectSemicolon, "expected ';'")
		p.recover()
		return start, false
	}
	sp := start.Cover(p.tok.Span)
	p.next()
	return sp, true
}

// type <id> = <generic><args>;
func (p *Parser) parseTypeDecl() (program.TypeDeclaration, bool) {
	start := p.tok.Span
	p.next() // "type"
	name, ok := p.expect(TokIdent)
	if !ok {
		p.recover()
		return program.TypeDeclaration{}, false
	}
	if _, ok := p.expect(TokEq); !ok {
		p.recover()
		return program.TypeDeclaration{}, false
	}
	generic, ok := p.expect(TokIdent)
	if !ok {
		p.recover()
		return program.TypeDeclaration{}, false
	}
	args, ok := p.parseGenericArgs()
	if !ok {
		p.recover()
		return program.TypeDeclaration{}, false
	}
	span, ok := p.semi(start)
	if !ok {
		return program.TypeDeclaration{}, false
	}
	return program.TypeDeclaration{
		ID:      program.ConcreteTypeID(name.Text),
		Generic: program.GenericTypeID(generic.Text),
		Args:    args,
		Span:    span,
	}, true
}

// libfunc <id> = <generic><args>;
func (p *Parser) parseLibFuncDecl() (program.LibFuncDeclaration, bool) {
	start := p.tok.Span
	p.next() // "libfunc"
	name, ok := p.expect(TokIdent)
	if !ok {
		p.recover()
		return program.LibFuncDeclaration{}, false
	}
	if _, ok := p.expect(TokEq); !ok {
		p.recover()
		return program.LibFuncDeclaration{}, false
	}
	generic, ok := p.expect(TokIdent)
	if !ok {
		p.recover()
		return program.LibFuncDeclaration{}, false
	}
	args, ok := p.parseGenericArgs()
	if !ok {
		p.recover()
		return program.LibFuncDeclaration{}, false
	}
	span, ok := p.semi(start)
	if !ok {
		return program.LibFuncDeclaration{}, false
	}
	return program.LibFuncDeclaration{
		ID:      program.ConcreteLibFuncID(name.Text),
		Generic: program.GenericLibFuncID(generic.Text),
		Args:    args,
		Span:    span,
	}, true
}

// <generic args>: empty, or '<' arg (',' arg)* '>' where arg is a type id
// or a signed integer literal.
func (p *Parser) parseGenericArgs() ([]program.GenericArg, bool) {
	if p.tok.Kind != TokLAngle {
		return nil, true
	}
	p.next()
	var args []program.GenericArg
	for {
		switch p.tok.Kind {
		case TokIdent:
			args = append(args, program.TypeArg(program.ConcreteTypeID(p.tok.Text)))
			p.next()
		case TokInt:
			v, err := strconv.ParseInt(p.tok.Text, 10, 64)
			if err != nil {
				p.errorf(diag.LexBadNumber, "invalid integer literal %q", p.tok.Text)
				return nil, false
			}
			args = append(args, program.ValueArg(v))
			p.next()
		default:
			p.errorf(diag.SynBadGenericArg, "expected a type or integer argument, got %s", p.tok.Kind)
			return nil, false
		}
		if p.tok.Kind == TokComma {
			p.next()
			continue
		}
		break
	}
	if _, ok := p.expect(TokRAngle); !ok {
		return nil, false
	}
	return args, true
}

// return(<vars>);
func (p *Parser) parseReturn() (program.Statement, bool) {
	start := p.tok.Span
	p.next() // "return"
	vars, ok := p.parseVarList()
	if !ok {
		p.recover()
		return program.Statement{}, false
	}
	span, ok := p.semi(start)
	if !ok {
		return program.Statement{}, false
	}
	return program.Statement{
		Kind:   program.StatementReturn,
		Return: program.ReturnStatement{Results: vars},
		Span:   span,
	}, true
}

// Disambiguates on the token after the leading identifier:
// '@' starts a function signature, '(' an invocation.
func (p *Parser) parseStatementOrFunc(prog *program.Program) {
	name := p.tok
	p.next()
	switch p.tok.Kind {
	case TokAt:
		if f, ok := p.parseFunction(name); ok {
			prog.Funcs = append(prog.Funcs, f)
		}
	case TokLParen:
		if stmt, ok := p.parseInvocation(name); ok {
			prog.Statements = append(prog.Statements, stmt)
		}
	default:
		p.errorf(diag.SynUnexpectedToken, "expected '@' or '(' after %s", name.Text)
		p.recover()
	}
}

// <libfunc>(<vars>) -> (<vars>);
// <libfunc>(<vars>) { <target>(<vars>) ... };
func (p *Parser) parseInvocation(name Token) (program.Statement, bool) {
	args, ok := p.parseVarList()
	if !ok {
		p.recover()
		return program.Statement{}, false
	}

	var branches []program.BranchInfo
	switch p.tok.Kind {
	case TokArrow:
		p.next()
		results, ok := p.parseVarList()
		if !ok {
			p.recover()
			return program.Statement{}, false
		}
		branches = []program.BranchInfo{{Target: program.Fallthrough(), Results: results}}

	case TokLBrace:
		p.next()
		for p.tok.Kind != TokRBrace {
			br, ok := p.parseBranch()
			if !ok {
				p.recover()
				return program.Statement{}, false
			}
			branches = append(branches, br)
		}
		p.next() // '}'
		if len(branches) == 0 {
			p.errorf(diag.SynBadBranchTarget, "invocation declares no branches")
			p.recover()
			return program.Statement{}, false
		}

	default:
		p.errorf(diag.SynUnexpectedToken, "expected '->' or '{', got %s", p.tok.Kind)
		p.recover()
		return program.Statement{}, false
	}

	span, ok := p.semi(name.Span)
	if !ok {
		return program.Statement{}, false
	}
	return program.Statement{
		Kind: program.StatementInvocation,
		Invocation: program.Invocation{
			LibFunc:  program.ConcreteLibFuncID(name.Text),
			Args:     args,
			Branches: branches,
		},
		Span: span,
	}, true
}

// <target>(<vars>) where target is an absolute address or "fallthrough".
func (p *Parser) parseBranch() (program.BranchInfo, bool) {
	var target program.BranchTarget
	switch {
	case p.at("fallthrough"):
		target = program.Fallthrough()
		p.next()
	case p.tok.Kind == TokInt:
		idx, err := strconv.ParseInt(p.tok.Text, 10, 64)
		if err != nil || idx < 0 {
			p.errorf(diag.SynBadBranchTarget, "invalid branch target %q", p.tok.Text)
			return program.BranchInfo{}, false
		}
		target = program.TargetStatement(program.StatementIdx(idx))
		p.next()
	default:
		p.errorf(diag.SynBadBranchTarget, "expected a statement address or 'fallthrough', got %s", p.tok.Kind)
		return program.BranchInfo{}, false
	}
	results, ok := p.parseVarList()
	if !ok {
		return program.BranchInfo{}, false
	}
	return program.BranchInfo{Target: target, Results: results}, true
}

// <name>@<entry>(<var>: <type>, ...) -> (<type>, ...);
func (p *Parser) parseFunction(name Token) (program.Function, bool) {
	p.next() // '@'
	entryTok, ok := p.expect(TokInt)
	if !ok {
		p.recover()
		return program.Function{}, false
	}
	entry, err := strconv.ParseInt(entryTok.Text, 10, 64)
	if err != nil || entry < 0 {
		p.errorf(diag.SynBadBranchTarget, "invalid entry address %q", entryTok.Text)
		p.recover()
		return program.Function{}, false
	}
	if _, err := safecast.Conv[int32](entry); err != nil {
		p.errorf(diag.SynBadBranchTarget, "entry address %d out of range", entry)
		p.recover()
		return program.Function{}, false
	}

	if _, ok := p.expect(TokLParen); !ok {
		p.recover()
		return program.Function{}, false
	}
	var params []program.Param
	for p.tok.Kind != TokRParen {
		pname, ok := p.expect(TokIdent)
		if !ok {
			p.recover()
			return program.Function{}, false
		}
		if _, ok := p.expect(TokColon); !ok {
			p.recover()
			return program.Function{}, false
		}
		ptype, ok := p.expect(TokIdent)
		if !ok {
			p.recover()
			return program.Function{}, false
		}
		params = append(params, program.Param{
			Name: program.VarID(pname.Text),
			Type: program.ConcreteTypeID(ptype.Text),
		})
		if p.tok.Kind == TokComma {
			p.next()
		}
	}
	p.next() // ')'

	if _, ok := p.expect(TokArrow); !ok {
		p.recover()
		return program.Function{}, false
	}
	if _, ok := p.expect(TokLParen); !ok {
		p.recover()
		return program.Function{}, false
	}
	var results []program.ConcreteTypeID
	for p.tok.Kind != TokRParen {
		rtype, ok := p.expect(TokIdent)
		if !ok {
			p.recover()
			return program.Function{}, false
		}
		results = append(results, program.ConcreteTypeID(rtype.Text))
		if p.tok.Kind == TokComma {
			p.next()
		}
	}
	p.next() // ')'

	span, ok := p.semi(name.Span)
	if !ok {
		return program.Function{}, false
	}
	return program.Function{
		Name:    name.Text,
		Entry:   program.StatementIdx(entry),
		Params:  params,
		Results: results,
		Span:    span,
	}, true
}

// parseVarList reads '(' ident (',' ident)* ')' with an empty list allowed.
func (p *Parser) parseVarList() ([]program.VarID, bool) {
	if _, ok := p.expect(TokLParen); !ok {
		return nil, false
	}
	var vars []program.VarID
	for p.tok.Kind != TokRParen {
		name, ok := p.expect(TokIdent)
		if !ok {
			return nil, false
		}
		vars = append(vars, program.VarID(name.Text))
		if p.tok.Kind == TokComma {
			p.next()
			continue
		}
		if p.tok.Kind != TokRParen {
			p.errorf(diag.SynUnclosedDelimiter, "expected ',' or ')', got %s", p.tok.Kind)
			return nil, false
		}
	}
	p.next() // ')'
	return vars, true
}
