// Package parser implements the fplc recursive-descent parser (spec §4.2).
package parser

import (
	"fmt"

	"fplc/pkg/ast"
	"fplc/pkg/lexer"
)

// ParseError reports a parse failure with its source position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// New constructs a Parser over a scanned token stream.
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes and parses src in one step, used by the CLI, EVAL, and IMPORT.
func Parse(src string) (*ast.Program, error) {
	lx := lexer.New(src)
	toks, err := lx.Scan()
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

// ParseExpressionString lexes and parses src as a single expression; used to
// re-parse interpolated `{...}` fragments inside formatted strings.
func ParseExpressionString(src string) (ast.Expression, error) {
	lx := lexer.New(src)
	toks, err := lx.Scan()
	if err != nil {
		return nil, err
	}
	p := New(toks)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.EOF {
		return nil, p.errorf("unexpected trailing input in interpolated expression")
	}
	return expr, nil
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.at(tt) {
		return lexer.Token{}, p.errorf("expected %s, found %s %q", tt, p.cur().Type, p.cur().Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	t := p.cur()
	return &ParseError{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

func pos(t lexer.Token) ast.Pos { return ast.Pos{Line: t.Line, Col: t.Col} }

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var stmts []ast.Statement
	for !p.at(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return ast.NewProgram(stmts), nil
}

// parseBlock parses a `{ statement* }` block.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.at(lexer.RBRACE) {
		if p.at(lexer.EOF) {
			return nil, p.errorf("unterminated block, expected }")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance() // consume }
	return stmts, nil
}
