// Package lexer turns a source file into tokens.
//
// NextAny is the any-token view: it yields whitespace and comments too.
// Next and Peek form the language view used by the parser and skip trivia.
// Identifiers, keywords and literal texts are interned into a shared
// symbol.Table; identifiers are NFC-normalised first.
package lexer

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

type Lexer struct {
	file   *source.File
	syms   *symbol.Table
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	errors int
}

func New(file *source.File, syms *symbol.Table, opts Options) *Lexer {
	if opts.MaxTokenLen == 0 {
		opts.MaxTokenLen = DefaultMaxTokenLen
	}
	return &Lexer{
		file:   file,
		syms:   syms,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File { return lx.file }

// Errors reports how many lexical errors were emitted so far.
func (lx *Lexer) Errors() int { return lx.errors }

// Next returns the next language token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	for {
		tok := lx.NextAny()
		if !tok.Kind.IsTrivia() {
			return tok
		}
	}
}

// Peek returns the next language token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		t := lx.Next()
		lx.look = &t
	}
	return *lx.look
}

// NextAny returns the next token including trivia. Mixing it with a pending
// Peek is not supported.
func (lx *Lexer) NextAny() token.Token {
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
		tok = lx.scanWhitespace()
	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		tok = lx.scanComment()
	case isIdentStartByte(ch) || ch >= 0x80:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '\'':
		tok = lx.scanChar()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Span.Len() > lx.opts.MaxTokenLen {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds the maximum length")
		tok.Kind = token.Invalid
	}
	return tok
}

// Text returns the source text of tok.
func (lx *Lexer) Text(tok token.Token) string {
	return string(lx.file.Content[tok.Span.Start:tok.Span.End])
}

// Tokenize collects every token of file up to and including EOF.
func Tokenize(file *source.File, syms *symbol.Table, opts Options, trivia bool) []token.Token {
	lx := New(file, syms, opts)
	var out []token.Token
	for {
		var tok token.Token
		if trivia {
			tok = lx.NextAny()
		} else {
			tok = lx.Next()
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start)}
}

// emitText interns the lexeme as the token symbol.
func (lx *Lexer) emitText(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Sym:  lx.syms.Intern(string(lx.file.Content[sp.Start:sp.End])),
	}
}
