package parser

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// parseBlock parses `{ stmt* [tail] }`. A trailing expression without `;`
// becomes the block value.
func (p *Parser) parseBlock() (ast.ExprID, bool) {
	open, ok := p.expect(token.LBrace)
	if !ok {
		return ast.NoExprID, false
	}
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	var stmts []ast.StmtID
	tail := ast.NoExprID
	for !p.eat(token.RBrace) {
		if p.at(token.EOF) {
			return ast.NoExprID, p.fail(kinds(token.RBrace)...)
		}
		if tail.IsValid() {
			// a block-like expression followed by more statements
			stmts = append(stmts, p.arenas.Stmts.NewExpr(p.exprSpan(tail), tail))
			tail = ast.NoExprID
		}
		stmt, expr, ok := p.parseStmt()
		if !ok {
			return ast.NoExprID, false
		}
		if stmt.IsValid() {
			stmts = append(stmts, stmt)
		} else {
			tail = expr
		}
	}
	return p.arenas.Exprs.NewBlock(p.spanFrom(open.Span), stmts, tail), true
}

// parseStmt returns either a statement or, for an expression not followed
// by `;`, that expression as a candidate block tail.
func (p *Parser) parseStmt() (ast.StmtID, ast.ExprID, bool) {
	stmts := p.arenas.Stmts
	tok := p.lx.Peek()
	start := tok.Span

	if tok.Kind == token.Keyword {
		switch tok.Sym {
		case symbol.KwReturn:
			p.advance()
			value := ast.NoExprID
			if !p.at(token.Semicolon) {
				var ok bool
				if value, ok = p.parseExpr(); !ok {
					return ast.NoStmtID, ast.NoExprID, false
				}
			}
			return p.endStmt(stmts.NewReturn(p.spanFrom(start), value))
		case symbol.KwBreak:
			p.advance()
			return p.endStmt(stmts.NewBreak(start))
		case symbol.KwContinue:
			p.advance()
			return p.endStmt(stmts.NewContinue(start))
		case symbol.KwDefer:
			p.advance()
			inner, expr, ok := p.parseStmt()
			if !ok {
				return ast.NoStmtID, ast.NoExprID, false
			}
			if !inner.IsValid() {
				// defer { ... } without a trailing semicolon
				inner = stmts.NewExpr(p.exprSpan(expr), expr)
			}
			return stmts.NewDefer(p.spanFrom(start), inner), ast.NoExprID, true
		case symbol.KwWhile:
			return p.parseWhile()
		case symbol.KwFor:
			return p.parseFor()
		case symbol.KwMut:
			p.advance()
			name, ok := p.expectIdent()
			if !ok {
				return ast.NoStmtID, ast.NoExprID, false
			}
			stmt, ok := p.parseLet(start, true, name)
			if !ok {
				return ast.NoStmtID, ast.NoExprID, false
			}
			return p.endStmt(stmt)
		}
	}

	stmt, expr, ok := p.parseSimpleStmt()
	if !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	if stmt.IsValid() {
		return p.endStmt(stmt)
	}
	if p.eat(token.Semicolon) {
		return stmts.NewExpr(p.spanFrom(start), expr), ast.NoExprID, true
	}
	if p.at(token.RBrace) || p.isBlockLike(expr) {
		return ast.NoStmtID, expr, true
	}
	return ast.NoStmtID, ast.NoExprID, p.fail(kinds(token.Semicolon, token.RBrace)...)
}

// parseSimpleStmt parses a let, an assignment or a bare expression, without
// the terminating `;`. It is also used for the init and step of `for`.
func (p *Parser) parseSimpleStmt() (ast.StmtID, ast.ExprID, bool) {
	tok := p.lx.Peek()
	start := tok.Span

	var lhs ast.ExprID
	if tok.Kind == token.Ident {
		p.advance()
		if p.at(token.ColonEq) || p.at(token.Colon) {
			stmt, ok := p.parseLet(start, false, ast.Symbol{Sym: tok.Sym, Span: tok.Span})
			return stmt, ast.NoExprID, ok
		}
		var ok bool
		lhs, ok = p.parseBinaryExpr(0, p.arenas.Exprs.NewIdent(tok.Span, tok.Sym))
		if !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
	} else {
		var ok bool
		if lhs, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
	}

	if op := p.lx.Peek(); op.Kind.IsAssignOp() {
		p.advance()
		rhs, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
		return p.arenas.Stmts.NewAssign(p.spanFrom(start), op.Kind, lhs, rhs), ast.NoExprID, true
	}
	return ast.NoStmtID, lhs, true
}

// parseLet continues after `[mut] name` with `:= e` or `: T = e`. The `;`
// is left to the caller.
func (p *Parser) parseLet(start source.Span, mutable bool, name ast.Symbol) (ast.StmtID, bool) {
	let := ast.LetStmt{Name: name, Mutable: mutable}
	var ok bool
	if !p.eat(token.ColonEq) {
		if _, ok = p.expect(token.Colon); !ok {
			return ast.NoStmtID, false
		}
		if let.Ty, ok = p.parseType(); !ok {
			return ast.NoStmtID, false
		}
		if _, ok = p.expect(token.Eq); !ok {
			return ast.NoStmtID, false
		}
	}
	if let.Value, ok = p.parseExpr(); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(p.spanFrom(start), let), true
}

func (p *Parser) endStmt(stmt ast.StmtID) (ast.StmtID, ast.ExprID, bool) {
	if _, ok := p.expect(token.Semicolon); !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	return stmt, ast.NoExprID, true
}

func (p *Parser) isBlockLike(e ast.ExprID) bool {
	k := p.arenas.Exprs.Get(e).Kind
	return k == ast.ExprBlock || k == ast.ExprIf
}

func (p *Parser) parseWhile() (ast.StmtID, ast.ExprID, bool) {
	start := p.advance().Span
	cond, ok := p.parseExprNoStruct()
	if !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	p.eat(token.Semicolon)
	return p.arenas.Stmts.NewWhile(p.spanFrom(start), cond, body), ast.NoExprID, true
}

// parseFor parses `for init; cond; step { body }`; every header part is
// optional.
func (p *Parser) parseFor() (ast.StmtID, ast.ExprID, bool) {
	start := p.advance().Span
	saved := p.noStruct
	p.noStruct = true
	defer func() { p.noStruct = saved }()

	var data ast.ForStmt
	var ok bool
	if !p.at(token.Semicolon) {
		if data.Init, ok = p.parseHeaderStmt(); !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
	}
	if _, ok = p.expect(token.Semicolon); !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	if !p.at(token.Semicolon) {
		if data.Cond, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
	}
	if _, ok = p.expect(token.Semicolon); !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	if !p.at(token.LBrace) {
		if data.Step, ok = p.parseHeaderStmt(); !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
	}
	if data.Body, ok = p.parseBlock(); !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	p.eat(token.Semicolon)
	return p.arenas.Stmts.NewFor(p.spanFrom(start), data), ast.NoExprID, true
}

func (p *Parser) parseHeaderStmt() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	if p.eatKeyword(symbol.KwMut) {
		name, ok := p.expectIdent()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.parseLet(start, true, name)
	}
	stmt, expr, ok := p.parseSimpleStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	if !stmt.IsValid() {
		stmt = p.arenas.Stmts.NewExpr(p.spanFrom(start), expr)
	}
	return stmt, true
}
