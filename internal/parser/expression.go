package parser

import (
	"strconv"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(0, ast.NoExprID)
}

// parseExprNoStruct parses a while/if/for header where `{` opens the body.
func (p *Parser) parseExprNoStruct() (ast.ExprID, bool) {
	saved := p.noStruct
	p.noStruct = true
	defer func() { p.noStruct = saved }()
	return p.parseExpr()
}

// parseBinaryExpr is precedence climbing. A non-zero left is an already
// parsed primary that still takes postfix operators.
func (p *Parser) parseBinaryExpr(minPrec int, left ast.ExprID) (ast.ExprID, bool) {
	var ok bool
	if left.IsValid() {
		left, ok = p.parsePostfix(left)
	} else {
		left, ok = p.parseUnaryExpr()
	}
	if !ok {
		return ast.NoExprID, false
	}

	for {
		tok := p.lx.Peek()
		if tok.IsKeyword(symbol.KwAs) {
			if precCast < minPrec {
				break
			}
			p.advance()
			ty, ok := p.parseTypeAtom()
			if !ok {
				return ast.NoExprID, false
			}
			left = p.arenas.Exprs.NewCast(p.exprSpan(left).Cover(p.lastSpan), left, ty)
			continue
		}

		prec := binaryPrec(tok.Kind)
		if prec < 0 || prec < minPrec {
			break
		}
		op := p.advance()
		right, ok := p.parseBinaryExpr(prec+1, ast.NoExprID)
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(sp, op.Kind, left, right)
	}
	return left, true
}

// parseUnaryExpr обрабатывает унарные префиксы: - ! ~ & &mut *
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	var op ast.UnaryOp
	switch tok.Kind {
	case token.Minus:
		op = ast.UnaryNeg
	case token.Bang:
		op = ast.UnaryNot
	case token.Tilde:
		op = ast.UnaryBitNot
	case token.Star:
		op = ast.UnaryDeref
	case token.Amp:
		op = ast.UnaryAddr
	default:
		return p.parsePostfixExpr()
	}
	p.advance()
	if op == ast.UnaryAddr && p.eatKeyword(symbol.KwMut) {
		op = ast.UnaryAddrMut
	}
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.exprSpan(operand)), op, operand), true
}

func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	primary, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.parsePostfix(primary)
}

// parsePostfix applies calls, indexing, member access, tuple indices and
// struct literals to base.
func (p *Parser) parsePostfix(base ast.ExprID) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	for {
		start := p.exprSpan(base)
		switch {
		case p.eat(token.LParen):
			args, ok := p.parseExprList(token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			base = exprs.NewCall(p.spanFrom(start), base, args)

		case p.eat(token.LBracket):
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.RBracket); !ok {
				return ast.NoExprID, false
			}
			base = exprs.NewIndex(p.spanFrom(start), base, index)

		case p.eat(token.Dot):
			var ok bool
			if base, ok = p.parseMember(base, start); !ok {
				return ast.NoExprID, false
			}

		case p.at(token.LBrace) && !p.noStruct && p.isPathExpr(base):
			var ok bool
			if base, ok = p.parseStructLit(base, start); !ok {
				return ast.NoExprID, false
			}

		default:
			return base, true
		}
	}
}

func (p *Parser) parseMember(base ast.ExprID, start source.Span) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return exprs.NewMember(p.spanFrom(start), base, ast.Symbol{Sym: tok.Sym, Span: tok.Span}), true
	case token.IntLit, token.FloatLit:
		// t.0 and t.0.1; the lexer reads "0.1" as one float
		p.advance()
		for _, part := range strings.Split(p.lx.Text(tok), ".") {
			n, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				return ast.NoExprID, p.fail(kinds(token.Ident, token.IntLit)...)
			}
			base = exprs.NewTupleIndex(p.spanFrom(start), base, uint32(n))
		}
		return base, true
	}
	return ast.NoExprID, p.fail(kinds(token.Ident, token.IntLit)...)
}

// isPathExpr reports whether e is `a` or `a.b.c`.
func (p *Parser) isPathExpr(e ast.ExprID) bool {
	_, ok := p.exprPath(e)
	return ok
}

func (p *Parser) exprPath(e ast.ExprID) (ast.Path, bool) {
	exprs := p.arenas.Exprs
	var rev []symbol.Symbol
	span := p.exprSpan(e)
	for {
		if id := exprs.Ident(e); id != nil {
			rev = append(rev, id.Sym)
			break
		}
		m := exprs.Member(e)
		if m == nil {
			return ast.Path{}, false
		}
		rev = append(rev, m.Field.Sym)
		e = m.Base
	}
	syms := make([]symbol.Symbol, len(rev))
	for i, s := range rev {
		syms[len(rev)-1-i] = s
	}
	return ast.Path{Syms: syms, Span: span}, true
}

// parseStructLit parses `{ field = expr, ... }` after a path.
func (p *Parser) parseStructLit(base ast.ExprID, start source.Span) (ast.ExprID, bool) {
	path, _ := p.exprPath(base)
	ty := p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprPath, Span: path.Span, Path: path})
	p.advance() // {
	var fields []ast.FieldInit
	for !p.eat(token.RBrace) {
		name, ok := p.expectIdent()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Eq); !ok {
			return ast.NoExprID, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		fields = append(fields, ast.FieldInit{Name: name, Value: value})
		if !p.eat(token.Comma) {
			if _, ok := p.expect(token.RBrace); !ok {
				return ast.NoExprID, false
			}
			break
		}
	}
	return p.arenas.Exprs.NewStruct(p.spanFrom(start), ty, fields), true
}

// parseExprList parses `a, b, c` up to and including end.
func (p *Parser) parseExprList(end token.Kind) ([]ast.ExprID, bool) {
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var out []ast.ExprID
	for !p.eat(end) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		out = append(out, e)
		if !p.eat(token.Comma) {
			if _, ok := p.expect(end); !ok {
				return nil, false
			}
			break
		}
	}
	return out, true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	tok := p.lx.Peek()

	switch tok.Kind {
	case token.Ident:
		p.advance()
		return exprs.NewIdent(tok.Span, tok.Sym), true

	case token.IntLit, token.FloatLit, token.CharLit, token.StringLit:
		p.advance()
		return exprs.NewLit(tok.Span, tok.Kind, tok.Sym), true

	case token.LParen:
		return p.parseParenExpr()

	case token.LBracket:
		p.advance()
		elems, ok := p.parseExprList(token.RBracket)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewArray(p.spanFrom(tok.Span), elems), true

	case token.LBrace:
		return p.parseBlock()

	case token.Keyword:
		switch tok.Sym {
		case symbol.KwTrue, symbol.KwFalse:
			p.advance()
			return exprs.NewLit(tok.Span, token.Keyword, tok.Sym), true
		case symbol.KwCrate, symbol.KwSelf, symbol.KwSuper:
			p.advance()
			return exprs.NewIdent(tok.Span, tok.Sym), true
		case symbol.KwIf:
			return p.parseIf()
		case symbol.KwSizeOf, symbol.KwAlignOf, symbol.KwOffsetOf:
			return p.parseIntrinsic()
		}
	}
	return ast.NoExprID, p.fail(kinds(token.Ident, token.IntLit, token.LParen, token.LBracket, token.LBrace)...)
}

// parseParenExpr parses `()`, `(e)`, `(e,)` and `(a, b)`.
func (p *Parser) parseParenExpr() (ast.ExprID, bool) {
	start := p.advance().Span
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	if p.eat(token.RParen) {
		return p.arenas.Exprs.NewTuple(p.spanFrom(start), nil), true
	}
	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if p.eat(token.RParen) {
		return first, true
	}
	if _, ok := p.expect(token.Comma); !ok {
		return ast.NoExprID, false
	}
	rest, ok := p.parseExprList(token.RParen)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewTuple(p.spanFrom(start), append([]ast.ExprID{first}, rest...)), true
}

// parseIf parses `if cond { } [else if ... | else { }]`.
func (p *Parser) parseIf() (ast.ExprID, bool) {
	start := p.advance().Span
	cond, ok := p.parseExprNoStruct()
	if !ok {
		return ast.NoExprID, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.NoExprID, false
	}
	els := ast.NoExprID
	if p.eatKeyword(symbol.KwElse) {
		if p.atKeyword(symbol.KwIf) {
			els, ok = p.parseIf()
		} else {
			els, ok = p.parseBlock()
		}
		if !ok {
			return ast.NoExprID, false
		}
	}
	return p.arenas.Exprs.NewIf(p.spanFrom(start), cond, then, els), true
}

// parseIntrinsic parses size_of(T), align_of(T) and offset_of(T, field).
func (p *Parser) parseIntrinsic() (ast.ExprID, bool) {
	kw := p.advance()
	data := ast.ExprIntrinsicData{Name: kw.Sym}
	if _, ok := p.expect(token.LParen); !ok {
		return ast.NoExprID, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.NoExprID, false
	}
	data.Ty = ty
	if kw.Sym == symbol.KwOffsetOf {
		if _, ok := p.expect(token.Comma); !ok {
			return ast.NoExprID, false
		}
		if data.Field, ok = p.expectIdent(); !ok {
			return ast.NoExprID, false
		}
	}
	if _, ok := p.expect(token.RParen); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewIntrinsic(p.spanFrom(kw.Span), data), true
}

func (p *Parser) exprSpan(e ast.ExprID) source.Span {
	return p.arenas.Exprs.Get(e).Span
}
