package lexer

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// scanString reads "..." on one line. Escapes are validated here and decoded
// by Unquote.
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "string")
}

// scanChar reads '...' holding exactly one character or escape.
func (lx *Lexer) scanChar() token.Token {
	tok := lx.scanQuoted('\'', token.CharLit, diag.LexUnterminatedChar, "character")
	if tok.Kind != token.CharLit {
		return tok
	}
	if _, err := UnquoteChar(lx.Text(tok)); err != nil {
		lx.errLex(diag.LexBadChar, tok.Span, err.Error())
		tok.Kind = token.Invalid
	}
	return tok
}

func (lx *Lexer) scanQuoted(quote byte, kind token.Kind, unterminated diag.Code, what string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	bad := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			if bad {
				return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
			}
			return lx.emitText(kind, start)
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(unterminated, sp, "newline in "+what+" literal")
			return token.Token{Kind: token.Invalid, Span: sp}
		case '\\':
			escStart := lx.cursor.Mark()
			if !lx.scanEscape() {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid escape sequence")
				bad = true
			}
		default:
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(unterminated, sp, "unterminated "+what+" literal")
	return token.Token{Kind: token.Invalid, Span: sp}
}

// scanEscape consumes one escape sequence starting at '\'.
func (lx *Lexer) scanEscape() bool {
	lx.cursor.Bump() // '\'
	switch lx.cursor.Peek() {
	case 'n', 't', 'r', '0', '\\', '\'', '"':
		lx.cursor.Bump()
		return true
	case 'x':
		lx.cursor.Bump()
		for range 2 {
			if !isHex(lx.cursor.Peek()) {
				return false
			}
			lx.cursor.Bump()
		}
		return true
	case 'u':
		lx.cursor.Bump()
		if !lx.cursor.Eat('{') {
			return false
		}
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		return lx.cursor.Eat('}') && n > 0 && n <= 6
	}
	return false
}
