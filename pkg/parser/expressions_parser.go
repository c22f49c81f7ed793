package parser

import (
	"fplc/pkg/ast"
	"fplc/pkg/lexer"
)

// Precedence (lowest to highest): OR; AND; NOT (prefix); relational;
// additive; multiplicative; unary +/-; postfix [] . ().

func (p *Parser) parseExpr() (ast.Expression, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.OR) {
		tok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos(tok), "OR", left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.AND) {
		tok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos(tok), "AND", left, right)
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expression, error) {
	if p.at(lexer.NOT) {
		tok := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(pos(tok), "NOT", operand), nil
	}
	return p.parseRelational()
}

var relOps = map[lexer.TokenType]string{
	lexer.EQ: "=", lexer.NEQ: "NOT=", lexer.GT: ">", lexer.LT: "<",
	lexer.GE: ">=", lexer.LE: "<=",
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := relOps[p.cur().Type]
		if !ok {
			break
		}
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos(tok), op, left, right)
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		tok := p.advance()
		op := "+"
		if tok.Type == lexer.MINUS {
			op = "-"
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos(tok), op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.STAR) || p.at(lexer.SLASH) || p.at(lexer.MOD) {
		tok := p.advance()
		op := map[lexer.TokenType]string{lexer.STAR: "*", lexer.SLASH: "/", lexer.MOD: "MOD"}[tok.Type]
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos(tok), op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		tok := p.advance()
		op := "+"
		if tok.Type == lexer.MINUS {
			op = "-"
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(pos(tok), op, operand), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.LBRACKET:
			tok := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
			expr = ast.NewIndex(pos(tok), expr, idx)
		case lexer.DOT:
			tok := p.advance()
			field, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			if p.at(lexer.LPAREN) {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = ast.NewMethodCall(pos(tok), expr, field.Lexeme, args)
				continue
			}
			expr = ast.NewFieldAccess(pos(tok), expr, field.Lexeme)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	if !p.at(lexer.RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
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
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		return ast.NewIntLit(pos(tok), tok.Literal.(int64)), nil
	case lexer.FLOAT:
		p.advance()
		return ast.NewFloatLit(pos(tok), tok.Literal.(float64)), nil
	case lexer.STRING:
		p.advance()
		return ast.NewStringLit(pos(tok), tok.Literal.(string)), nil
	case lexer.RAWSTRING:
		p.advance()
		return ast.NewRawStringLit(pos(tok), tok.Literal.(string)), nil
	case lexer.FSTRING:
		p.advance()
		parts, err := splitFormatParts(tok.Literal.(string))
		if err != nil {
			return nil, err
		}
		return ast.NewFormatString(pos(tok), parts), nil
	case lexer.TRUE:
		p.advance()
		return ast.NewBoolLit(pos(tok), true), nil
	case lexer.FALSE:
		p.advance()
		return ast.NewBoolLit(pos(tok), false), nil
	case lexer.NULL:
		p.advance()
		return ast.NewNullLit(pos(tok)), nil
	case lexer.NAN:
		p.advance()
		return ast.NewNanLit(pos(tok)), nil
	case lexer.LBRACKET:
		return p.parseListLit()
	case lexer.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.DISPLAY, lexer.DISPLAYINLINE:
		p.advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		name := "DISPLAY"
		if tok.Type == lexer.DISPLAYINLINE {
			name = "DISPLAYINLINE"
		}
		return ast.NewCall(pos(tok), name, args), nil
	case lexer.EXIT:
		p.advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return ast.NewCall(pos(tok), "EXIT", args), nil
	case lexer.IDENT:
		p.advance()
		if p.at(lexer.LPAREN) {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return ast.NewCall(pos(tok), tok.Lexeme, args), nil
		}
		return ast.NewVariable(pos(tok), tok.Lexeme), nil
	default:
		return nil, p.errorf("unexpected token %s %q", tok.Type, tok.Lexeme)
	}
}

func (p *Parser) parseListLit() (ast.Expression, error) {
	tok, err := p.expect(lexer.LBRACKET)
	if err != nil {
		return nil, err
	}
	var elems []ast.Expression
	if !p.at(lexer.RBRACKET) {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.at(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewListLit(pos(tok), elems), nil
}

// splitFormatParts splits the decoded interior of an f"..." literal into
// alternating literal/expression fragments (spec §4.1, §9 "Interpolated
// strings"), re-parsing each `{expr}` span as an ordinary expression.
// Outside a span, `{{` and `}}` become a literal `{` and `}`.
func splitFormatParts(text string) ([]ast.FormatStringPart, error) {
	var parts []ast.FormatStringPart
	var lit []byte
	i := 0
	for i < len(text) {
		ch := text[i]
		if (ch == '{' || ch == '}') && i+1 < len(text) && text[i+1] == ch {
			lit = append(lit, ch)
			i += 2
			continue
		}
		if ch == '{' {
			if len(lit) > 0 {
				parts = append(parts, ast.FormatStringPart{Literal: string(lit)})
				lit = nil
			}
			depth := 1
			j := i + 1
			for j < len(text) && depth > 0 {
				switch text[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			if depth != 0 {
				return nil, &ParseError{Msg: "unbalanced { in formatted string"}
			}
			exprText := text[i+1 : j]
			expr, err := ParseExpressionString(exprText)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.FormatStringPart{Expr: expr})
			i = j + 1
			continue
		}
		lit = append(lit, ch)
		i++
	}
	if len(lit) > 0 {
		parts = append(parts, ast.FormatStringPart{Literal: string(lit)})
	}
	return parts, nil
}
