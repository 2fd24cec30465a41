package parser

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// parseItem parses one module-level declaration:
//
//	[export] use path [as name];
//	[export] Name :: struct | enum | alias | module | fn | extern fn | expr
//	[export] Name : T : expr;        typed constant
//	[export] [mut] Name : T = expr;  global
//	[export] [mut] Name := expr;     global with inferred type
func (p *Parser) parseItem() (ast.ItemID, bool) {
	start := p.lx.Peek().Span
	exported := p.eatKeyword(symbol.KwExport)

	if p.eatKeyword(symbol.KwUse) {
		return p.parseUse(start, exported)
	}
	if p.eatKeyword(symbol.KwMut) {
		name, ok := p.expectIdent()
		if !ok {
			return ast.NoItemID, false
		}
		return p.parseGlobal(start, exported, true, name)
	}

	name, ok := p.expectIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if p.eat(token.ColonColon) {
		return p.parseDecl(start, exported, name)
	}
	if p.at(token.Colon) || p.at(token.ColonEq) {
		return p.parseGlobal(start, exported, false, name)
	}
	return ast.NoItemID, p.fail(kinds(token.ColonColon, token.Colon, token.ColonEq)...)
}

func (p *Parser) parseUse(start source.Span, exported bool) (ast.ItemID, bool) {
	path, ok := p.parsePath()
	if !ok {
		return ast.NoItemID, false
	}
	name := ast.Symbol{Sym: path.Last(), Span: p.lastSpan}
	if p.eatKeyword(symbol.KwAs) {
		if name, ok = p.expectIdent(); !ok {
			return ast.NoItemID, false
		}
	}
	if _, ok := p.expect(token.Semicolon); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewUse(p.spanFrom(start), exported, name, path), true
}

// parseDecl continues after `Name ::`.
func (p *Parser) parseDecl(start source.Span, exported bool, name ast.Symbol) (ast.ItemID, bool) {
	items := p.arenas.Items
	tok := p.lx.Peek()
	switch {
	case tok.IsKeyword(symbol.KwStruct):
		p.advance()
		fields, ok := p.parseStructFields()
		if !ok {
			return ast.NoItemID, false
		}
		return p.finishItem(items.NewStruct(p.spanFrom(start), exported, name, fields), true)

	case tok.IsKeyword(symbol.KwEnum):
		p.advance()
		data, ok := p.parseEnumBody()
		if !ok {
			return ast.NoItemID, false
		}
		return p.finishItem(items.NewEnum(p.spanFrom(start), exported, name, data), true)

	case tok.IsKeyword(symbol.KwAlias):
		p.advance()
		ty, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		return p.finishItem(items.NewAlias(p.spanFrom(start), exported, name, ty), false)

	case tok.IsKeyword(symbol.KwModule):
		p.advance()
		if !p.at(token.LBrace) {
			return p.finishItem(items.NewModule(p.spanFrom(start), exported, name, ast.ModuleItem{}), false)
		}
		body, ok := p.parseInlineModule()
		if !ok {
			return ast.NoItemID, false
		}
		return p.finishItem(items.NewModule(p.spanFrom(start), exported, name, ast.ModuleItem{Inline: true, Items: body}), true)

	case tok.IsKeyword(symbol.KwExtern):
		p.advance()
		fn, ok := p.parseExternFn()
		if !ok {
			return ast.NoItemID, false
		}
		return p.finishItem(items.NewFn(p.spanFrom(start), exported, name, fn), false)

	case tok.IsKeyword(symbol.KwFn):
		p.advance()
		fn, ok := p.parseFnSignature()
		if !ok {
			return ast.NoItemID, false
		}
		if fn.Body, ok = p.parseBlock(); !ok {
			return ast.NoItemID, false
		}
		return p.finishItem(items.NewFn(p.spanFrom(start), exported, name, fn), true)
	}

	value, ok := p.parseExpr()
	if !ok {
		return ast.NoItemID, false
	}
	return p.finishItem(items.NewConst(p.spanFrom(start), exported, name, ast.ConstItem{Value: value}), false)
}

// parseGlobal continues after `[mut] Name` with `: T : e`, `: T = e`,
// `: T;` or `:= e`.
func (p *Parser) parseGlobal(start source.Span, exported, mutable bool, name ast.Symbol) (ast.ItemID, bool) {
	var data ast.GlobalItem
	data.Mutable = mutable
	var ok bool

	if p.eat(token.ColonEq) {
		if data.Value, ok = p.parseExpr(); !ok {
			return ast.NoItemID, false
		}
		return p.finishItem(p.arenas.Items.NewGlobal(p.spanFrom(start), exported, name, data), false)
	}

	if _, ok = p.expect(token.Colon); !ok {
		return ast.NoItemID, false
	}
	if data.Ty, ok = p.parseType(); !ok {
		return ast.NoItemID, false
	}
	if !mutable && p.eat(token.Colon) {
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		c := ast.ConstItem{Ty: data.Ty, Value: value}
		return p.finishItem(p.arenas.Items.NewConst(p.spanFrom(start), exported, name, c), false)
	}
	if p.eat(token.Eq) {
		if data.Value, ok = p.parseExpr(); !ok {
			return ast.NoItemID, false
		}
	}
	return p.finishItem(p.arenas.Items.NewGlobal(p.spanFrom(start), exported, name, data), false)
}

// finishItem eats the terminating `;`, optional after a closing brace.
func (p *Parser) finishItem(id ast.ItemID, braced bool) (ast.ItemID, bool) {
	if braced {
		p.eat(token.Semicolon)
		return id, true
	}
	if _, ok := p.expect(token.Semicolon); !ok {
		return ast.NoItemID, false
	}
	return id, true
}

// parseStructFields parses `{ name: T, ... }` with an optional trailing comma.
func (p *Parser) parseStructFields() ([]ast.Field, bool) {
	if _, ok := p.expect(token.LBrace); !ok {
		return nil, false
	}
	var fields []ast.Field
	for !p.eat(token.RBrace) {
		name, ok := p.expectIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fields = append(fields, ast.Field{Name: name, Ty: ty})
		if !p.eat(token.Comma) {
			if _, ok := p.expect(token.RBrace); !ok {
				return nil, false
			}
			break
		}
	}
	return fields, true
}

// parseEnumBody parses `[(Storage)] { A, B = expr, ... }`.
func (p *Parser) parseEnumBody() (ast.EnumItem, bool) {
	var data ast.EnumItem
	if p.eat(token.LParen) {
		ty, ok := p.parseType()
		if !ok {
			return data, false
		}
		data.Storage = ty
		if _, ok := p.expect(token.RParen); !ok {
			return data, false
		}
	}
	if _, ok := p.expect(token.LBrace); !ok {
		return data, false
	}
	for !p.eat(token.RBrace) {
		name, ok := p.expectIdent()
		if !ok {
			return data, false
		}
		v := ast.EnumVariant{Name: name}
		if p.eat(token.Eq) {
			if v.Value, ok = p.parseExpr(); !ok {
				return data, false
			}
		}
		data.Variants = append(data.Variants, v)
		if !p.eat(token.Comma) {
			if _, ok := p.expect(token.RBrace); !ok {
				return data, false
			}
			break
		}
	}
	return data, true
}

func (p *Parser) parseInlineModule() ([]ast.ItemID, bool) {
	p.advance() // {
	var items []ast.ItemID
	for !p.eat(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.fail(kinds(token.RBrace)...)
		}
		item, ok := p.parseItem()
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

// parseExternFn continues after `extern` with `["abi"] fn(params) [-> R]`.
func (p *Parser) parseExternFn() (ast.FnItem, bool) {
	var abi token.Token
	if p.at(token.StringLit) {
		abi = p.advance()
	}
	if !p.expectKeyword(symbol.KwFn) {
		return ast.FnItem{}, false
	}
	fn, ok := p.parseFnSignature()
	fn.Extern = true
	fn.Abi = abi.Sym
	fn.AbiSpan = abi.Span
	return fn, ok
}

// parseFnSignature continues after `fn` with `(params) [-> R]`.
func (p *Parser) parseFnSignature() (ast.FnItem, bool) {
	var fn ast.FnItem
	if _, ok := p.expect(token.LParen); !ok {
		return fn, false
	}
	for !p.eat(token.RParen) {
		if p.eat(token.Ellipsis) {
			fn.Variadic = true
			if _, ok := p.expect(token.RParen); !ok {
				return fn, false
			}
			break
		}
		var param ast.Param
		param.Mutable = p.eatKeyword(symbol.KwMut)
		var ok bool
		if param.Name, ok = p.expectIdent(); !ok {
			return fn, false
		}
		if _, ok = p.expect(token.Colon); !ok {
			return fn, false
		}
		if param.Ty, ok = p.parseType(); !ok {
			return fn, false
		}
		fn.Params = append(fn.Params, param)
		if !p.eat(token.Comma) {
			if _, ok := p.expect(token.RParen); !ok {
				return fn, false
			}
			break
		}
	}
	if p.eat(token.Arrow) {
		ty, ok := p.parseType()
		if !ok {
			return fn, false
		}
		fn.Ret = ty
	}
	return fn, true
}

// parsePath parses `seg(.seg)*` where a segment is an identifier or one of
// crate, self, super.
func (p *Parser) parsePath() (ast.Path, bool) {
	var path ast.Path
	start := p.lx.Peek().Span
	for {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.Ident:
		case tok.Kind == token.Keyword && symbol.IsPathKeyword(tok.Sym):
		default:
			return path, p.fail(kinds(token.Ident)...)
		}
		p.advance()
		path.Syms = append(path.Syms, tok.Sym)
		if !p.eat(token.Dot) {
			break
		}
	}
	path.Span = p.spanFrom(start)
	return path, true
}
