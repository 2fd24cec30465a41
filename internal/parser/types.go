package parser

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// parseType parses a type, including variants `A | B`.
func (p *Parser) parseType() (ast.TypeID, bool) {
	first, ok := p.parseTypeAtom()
	if !ok || !p.at(token.Pipe) {
		return first, ok
	}
	start := p.arenas.Types.Get(first).Span
	members := []ast.TypeID{first}
	for p.eat(token.Pipe) {
		ty, ok := p.parseTypeAtom()
		if !ok {
			return ast.NoTypeID, false
		}
		members = append(members, ty)
	}
	return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprVariant, Span: p.spanFrom(start), Elems: members}), true
}

// parseTypeAtom parses every type form except variants; casts use it so
// that `x as u8 | y` stays a bitwise or.
func (p *Parser) parseTypeAtom() (ast.TypeID, bool) {
	types := p.arenas.Types
	start := p.lx.Peek().Span
	tok := p.lx.Peek()

	switch {
	case tok.Kind == token.Star:
		p.advance()
		mutable := p.eatKeyword(symbol.KwMut)
		elem, ok := p.parseTypeAtom()
		if !ok {
			return ast.NoTypeID, false
		}
		return types.New(ast.TypeExpr{Kind: ast.TypeExprPtr, Span: p.spanFrom(start), Mutable: mutable, Elem: elem}), true

	case tok.Kind == token.LBracket:
		return p.parseBracketType()

	case tok.Kind == token.LParen:
		p.advance()
		elems, trailing, ok := p.parseTypeList()
		if !ok {
			return ast.NoTypeID, false
		}
		if len(elems) == 1 && !trailing {
			// (T) is just T
			return elems[0], true
		}
		return types.New(ast.TypeExpr{Kind: ast.TypeExprTuple, Span: p.spanFrom(start), Elems: elems}), true

	case tok.IsKeyword(symbol.KwFn):
		p.advance()
		return p.parseFnType(start)

	case tok.Kind == token.Ident || (tok.Kind == token.Keyword && symbol.IsPathKeyword(tok.Sym)):
		path, ok := p.parsePath()
		if !ok {
			return ast.NoTypeID, false
		}
		return types.New(ast.TypeExpr{Kind: ast.TypeExprPath, Span: path.Span, Path: path}), true
	}
	return ast.NoTypeID, p.fail(kinds(token.Ident, token.Star, token.LBracket, token.LParen)...)
}

// parseTypeList parses `A, B, ...)` after an opening parenthesis and
// reports whether a trailing comma was present.
func (p *Parser) parseTypeList() (elems []ast.TypeID, trailing, ok bool) {
	for !p.eat(token.RParen) {
		ty, ok := p.parseType()
		if !ok {
			return nil, false, false
		}
		elems = append(elems, ty)
		trailing = p.eat(token.Comma)
		if !trailing {
			if _, ok := p.expect(token.RParen); !ok {
				return nil, false, false
			}
			break
		}
	}
	return elems, trailing, true
}

// parseBracketType parses `[*]T`, `[*mut]T`, `[]T`, `[]mut T` and `[N]T`.
func (p *Parser) parseBracketType() (ast.TypeID, bool) {
	types := p.arenas.Types
	start := p.advance().Span // [
	te := ast.TypeExpr{}

	switch {
	case p.eat(token.Star):
		te.Kind = ast.TypeExprManyPtr
		te.Mutable = p.eatKeyword(symbol.KwMut)
		if _, ok := p.expect(token.RBracket); !ok {
			return ast.NoTypeID, false
		}
	case p.eat(token.RBracket):
		te.Kind = ast.TypeExprSlice
		te.Mutable = p.eatKeyword(symbol.KwMut)
	default:
		n, ok := p.parseExpr()
		if !ok {
			return ast.NoTypeID, false
		}
		te.Kind = ast.TypeExprArray
		te.Len = n
		if _, ok := p.expect(token.RBracket); !ok {
			return ast.NoTypeID, false
		}
	}

	elem, ok := p.parseTypeAtom()
	if !ok {
		return ast.NoTypeID, false
	}
	te.Elem = elem
	te.Span = p.spanFrom(start)
	return types.New(te), true
}

// parseFnType continues after `fn` with `(A, B, ...) [-> R]`.
func (p *Parser) parseFnType(start source.Span) (ast.TypeID, bool) {
	te := ast.TypeExpr{Kind: ast.TypeExprFn}
	if _, ok := p.expect(token.LParen); !ok {
		return ast.NoTypeID, false
	}
	for !p.eat(token.RParen) {
		if p.eat(token.Ellipsis) {
			te.Variadic = true
			if _, ok := p.expect(token.RParen); !ok {
				return ast.NoTypeID, false
			}
			break
		}
		ty, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		te.Elems = append(te.Elems, ty)
		if !p.eat(token.Comma) {
			if _, ok := p.expect(token.RParen); !ok {
				return ast.NoTypeID, false
			}
			break
		}
	}
	if p.eat(token.Arrow) {
		ret, ok := p.parseTypeAtom()
		if !ok {
			return ast.NoTypeID, false
		}
		te.Ret = ret
	}
	te.Span = p.spanFrom(start)
	return p.arenas.Types.New(te), true
}
