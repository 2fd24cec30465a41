// Package parser builds the AST of one cool source file by recursive
// descent with one token of lookahead. The first syntax error aborts the
// file: it is reported once and ParseFile returns it in Result.
package parser

import (
	"slices"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type Result struct {
	File ast.FileID
	// Err is the syntax error that stopped parsing, nil on success.
	Err *SyntaxError
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	syms     *symbol.Table
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	err      *SyntaxError
	// noStruct forbids `Path { ... }` literals in while/if/for headers
	noStruct bool
}

// ParseFile parses every item of the lexer's file into arenas.
func ParseFile(lx *lexer.Lexer, syms *symbol.Table, arenas *ast.Builder, opts Options) Result {
	f := lx.File()
	start := source.Span{File: f.ID}
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		syms:     syms,
		file:     arenas.NewFile(f.ID, start),
		opts:     opts,
		lastSpan: start,
	}
	p.parseItems()
	file := arenas.Files.Get(p.file)
	file.Span = start.Cover(p.lastSpan)
	return Result{File: p.file, Err: p.err}
}

// parseItems: основной цикл верхнего уровня, parseItem до EOF.
func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if !ok {
			return
		}
		p.arenas.PushItem(p.file, item)
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atKeyword(kw symbol.Symbol) bool {
	return p.lx.Peek().IsKeyword(kw)
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}
