// Package parser reads the textual Sierra program format into the program
// model. Upstream tooling produces this format; the tests and the CLI
// consume it.
package parser

import (
	"fmt"

	"fortio.org/safecast"

	"sierra/internal/diag"
	"sierra/internal/source"
)

// TokenKind enumerates scanner tokens.
type TokenKind uint8

const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLAngle
	TokRAngle
	TokComma
	TokSemi
	TokColon
	TokEq
	TokAt
	TokArrow
	TokError
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of file"
	case TokIdent:
		return "identifier"
	case TokInt:
		return "integer"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLAngle:
		return "'<'"
	case TokRAngle:
		return "'>'"
	case TokComma:
		return "','"
	case TokSemi:
		return "';'"
	case TokColon:
		return "':'"
	case TokEq:
		return "'='"
	case TokAt:
		return "'@'"
	case TokArrow:
		return "'->'"
	}
	return "<error>"
}

// Token is one scanned lexeme.
type Token struct {
	Kind TokenKind
	Text string
	Span source.Span
}

// Scanner walks a file byte-wise. Whitespace and // comments are skipped.
type Scanner struct {
	file     *source.File
	off      uint32
	limit    uint32
	reporter diag.Reporter
}

// NewScanner creates a scanner over the file.
func NewScanner(f *source.File, reporter diag.Reporter) *Scanner {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return &Scanner{file: f, limit: limit, reporter: reporter}
}

func (s *Scanner) eof() bool {
	return s.off >= s.limit
}

func (s *Scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.file.Content[s.off]
}

func (s *Scanner) peekAt(n uint32) byte {
	if s.off+n >= s.limit {
		return 0
	}
	return s.file.Content[s.off+n]
}

// Next returns the next significant token. After EOF it always returns EOF.
func (s *Scanner) Next() Token {
	s.skipTrivia()
	start := s.off
	if s.eof() {
		return s.token(TokEOF, start)
	}

	ch := s.peek()
	switch {
	case isIdentStart(ch):
		for !s.eof() && isIdentContinue(s.peek()) {
			s.off++
		}
		return s.token(TokIdent, start)

	case isDigit(ch):
		s.scanDigits()
		return s.token(TokInt, start)

	case ch == '-':
		if s.peekAt(1) == '>' {
			s.off += 2
			return s.token(TokArrow, start)
		}
		if isDigit(s.peekAt(1)) {
			s.off++
			s.scanDigits()
			return s.token(TokInt, start)
		}
	}

	s.off++
	kind := TokError
	switch ch {
	case '(':
		kind = TokLParen
	case ')':
		kind = TokRParen
	case '{':
		kind = TokLBrace
	case '}':
		kind = TokRBrace
	case '<':
		kind = TokLAngle
	case '>':
		kind = TokRAngle
	case ',':
		kind = TokComma
	case ';':
		kind = TokSemi
	case ':':
		kind = TokColon
	case '=':
		kind = TokEq
	case '@':
		kind = TokAt
	default:
		diag.ReportError(s.reporter, diag.LexUnknownChar, s.span(start),
			fmt.Sprintf("unexpected character %q", ch))
	}
	return s.token(kind, start)
}

func (s *Scanner) scanDigits() {
	for !s.eof() && isDigit(s.peek()) {
		s.off++
	}
}

func (s *Scanner) skipTrivia() {
	for !s.eof() {
		ch := s.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.off++
		case ch == '/' && s.peekAt(1) == '/':
			for !s.eof() && s.peek() != '\n' {
				s.off++
			}
		default:
			return
		}
	}
}

func (s *Scanner) token(kind TokenKind, start uint32) Token {
	sp := s.span(start)
	return Token{
		Kind: kind,
		Text: string(s.file.Content[sp.Start:sp.End]),
		Span: sp,
	}
}

func (s *Scanner) span(start uint32) source.Span {
	return source.Span{File: s.file.ID, Start: start, End: s.off}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
