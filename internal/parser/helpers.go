package parser

import (
	"fmt"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// Expectation is one acceptable token: a kind, or a specific keyword when
// Keyword is set.
type Expectation struct {
	Kind    token.Kind
	Keyword symbol.Symbol
}

// SyntaxError is the token that stopped the parser and what would have been
// accepted in its place.
type SyntaxError struct {
	Found    token.Token
	Text     string
	Expected []Expectation
}

func (e *SyntaxError) Error() string {
	names := make([]string, len(e.Expected))
	for i, x := range e.Expected {
		names[i] = x.String()
	}
	found := e.Found.Kind.String()
	if e.Text != "" && e.Found.Kind != token.EOF {
		found = fmt.Sprintf("%s `%s`", found, e.Text)
	}
	return fmt.Sprintf("expected %s, found %s", strings.Join(names, " or "), found)
}

func (x Expectation) String() string {
	if x.Kind == token.Keyword {
		if text, ok := symbol.PredefinedText(x.Keyword); ok {
			return "`" + text + "`"
		}
	}
	return x.Kind.String()
}

func kinds(ks ...token.Kind) []Expectation {
	out := make([]Expectation, len(ks))
	for i, k := range ks {
		out[i] = Expectation{Kind: k}
	}
	return out
}

func keyword(kw symbol.Symbol) Expectation {
	return Expectation{Kind: token.Keyword, Keyword: kw}
}

// advance съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the next token if it has kind k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) eatKeyword(kw symbol.Symbol) bool {
	if p.atKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k or fails the parse.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, p.fail(kinds(k)...)
}

func (p *Parser) expectKeyword(kw symbol.Symbol) bool {
	if p.eatKeyword(kw) {
		return true
	}
	return p.fail(keyword(kw))
}

func (p *Parser) expectIdent() (ast.Symbol, bool) {
	tok, ok := p.expect(token.Ident)
	return ast.Symbol{Sym: tok.Sym, Span: tok.Span}, ok
}

// fail records the first syntax error and always returns false. Invalid
// tokens were already reported by the lexer.
func (p *Parser) fail(expected ...Expectation) bool {
	if p.err != nil {
		return false
	}
	found := p.lx.Peek()
	p.err = &SyntaxError{Found: found, Text: p.lx.Text(found), Expected: expected}
	if found.Kind != token.Invalid && p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, diag.SynUnexpectedToken, p.diagSpan(found), p.err.Error()).Emit()
	}
	return false
}

// diagSpan points EOF errors just past the last consumed token.
func (p *Parser) diagSpan(found token.Token) source.Span {
	if found.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return found.Span
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
