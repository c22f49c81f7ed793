package parser

import (
	"fplc/pkg/ast"
	"fplc/pkg/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.REPEAT:
		return p.parseRepeat()
	case lexer.FOR:
		return p.parseForEach()
	case lexer.PROCEDURE:
		return p.parseProcedureDecl()
	case lexer.CLASS:
		return p.parseClassDecl()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.TRY:
		return p.parseTryCatch()
	case lexer.DISPLAY, lexer.DISPLAYINLINE:
		return p.parseDisplay()
	case lexer.EXIT:
		return p.parseExit()
	default:
		return p.parseAssignOrExprStatement()
	}
}

func (p *Parser) parseDisplay() (ast.Statement, error) {
	tok := p.advance()
	inline := tok.Type == lexer.DISPLAYINLINE
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewDisplayStatement(pos(tok), val, inline), nil
}

func (p *Parser) parseExit() (ast.Statement, error) {
	tok := p.advance()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewExitStatement(pos(tok)), nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.advance()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els []ast.Statement
	if p.at(lexer.ELSE) {
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(pos(tok), cond, then, els), nil
}

func (p *Parser) parseRepeat() (ast.Statement, error) {
	tok := p.advance()
	if p.at(lexer.UNTIL) {
		p.advance()
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.NewRepeatUntilStatement(pos(tok), cond, body), nil
	}
	count, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TIMES); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewRepeatTimesStatement(pos(tok), count, body), nil
}

func (p *Parser) parseForEach() (ast.Statement, error) {
	tok := p.advance()
	if _, err := p.expect(lexer.EACH); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	list, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewForEachStatement(pos(tok), name.Lexeme, list, body), nil
}

func (p *Parser) parseParamList() ([]string, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	if !p.at(lexer.RPAREN) {
		for {
			name, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, name.Lexeme)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseProcedureDecl() (*ast.ProcedureDecl, error) {
	tok := p.advance()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewProcedureDecl(pos(tok), name.Lexeme, params, body), nil
}

func (p *Parser) parseClassDecl() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var methods []*ast.ProcedureDecl
	for !p.at(lexer.RBRACE) {
		if p.at(lexer.EOF) {
			return nil, p.errorf("unterminated class body, expected }")
		}
		if !p.at(lexer.PROCEDURE) {
			return nil, p.errorf("expected PROCEDURE inside class body, found %s", p.cur().Type)
		}
		m, err := p.parseProcedureDecl()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	p.advance() // consume }
	return ast.NewClassDecl(pos(tok), name.Lexeme, methods), nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance()
	if !p.at(lexer.LPAREN) {
		return ast.NewReturnStatement(pos(tok), nil), nil
	}
	p.advance()
	if p.at(lexer.RPAREN) {
		p.advance()
		return ast.NewReturnStatement(pos(tok), nil), nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(pos(tok), val), nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return ast.NewImportStatement(pos(tok), name.Lexeme), nil
}

func (p *Parser) parseTryCatch() (ast.Statement, error) {
	tok := p.advance()
	tryBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.CATCH); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	catchBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewTryCatchStatement(pos(tok), tryBody, name.Lexeme, catchBody), nil
}

// parseAssignOrExprStatement parses `lvalue <- expr` or a bare expression
// statement. Because ARROW is not part of any binary/postfix operator, a
// plain expression parse stops right after an lvalue-shaped expression when
// the next token is ARROW, so no separate lvalue grammar is needed.
func (p *Parser) parseAssignOrExprStatement() (ast.Statement, error) {
	startTok := p.cur()
	head, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.ARROW) {
		return ast.NewExpressionStatement(pos(startTok), head), nil
	}
	p.advance()
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return buildAssignStatement(pos(startTok), head, rhs)
}

func buildAssignStatement(p ast.Pos, head, rhs ast.Expression) (ast.Statement, error) {
	switch v := head.(type) {
	case *ast.Variable:
		return ast.NewAssignStatement(p, v.Name, rhs), nil
	case *ast.Index:
		var indices []ast.Expression
		var cur ast.Expression = v
		for {
			idx, ok := cur.(*ast.Index)
			if !ok {
				break
			}
			indices = append([]ast.Expression{idx.Idx}, indices...)
			cur = idx.Target
		}
		return ast.NewIndexAssignStatement(p, cur, indices, rhs), nil
	case *ast.FieldAccess:
		var fields []string
		var cur ast.Expression = v
		for {
			fa, ok := cur.(*ast.FieldAccess)
			if !ok {
				break
			}
			fields = append([]string{fa.Field}, fields...)
			cur = fa.Target
		}
		return ast.NewFieldAssignStatement(p, cur, fields, rhs), nil
	default:
		return nil, &ParseError{Line: p.Line, Col: p.Col, Msg: "invalid assignment target"}
	}
}
