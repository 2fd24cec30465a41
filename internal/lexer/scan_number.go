package lexer

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// scanNumber reads 0b/0o/0x integers, decimal integers and floats with an
// optional fraction and exponent. '_' may separate digits. The literal text
// is interned as the token symbol.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			digit = isBin
		case 'o', 'O':
			digit = isOct
		case 'x', 'X':
			digit = isHex
		}
		if digit != nil {
			lx.cursor.Off += 2
			if !lx.digits(digit) {
				return lx.badNumber(start, "expected digits after base prefix")
			}
			return lx.finishNumber(token.IntLit, start)
		}
	}

	kind := token.IntLit
	lx.digits(isDec)

	// "1.5" is a float, "1.x" is not. The parser splits "t.0.1" itself.
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.digits(isDec)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !lx.digits(isDec) {
			return lx.badNumber(start, "expected digit after exponent")
		}
	}
	return lx.finishNumber(kind, start)
}

// digits consumes digits and separators, reporting whether a digit was seen.
func (lx *Lexer) digits(digit func(byte) bool) bool {
	seen := false
	for {
		b := lx.cursor.Peek()
		switch {
		case digit(b):
			seen = true
		case b == '_':
		default:
			return seen
		}
		lx.cursor.Bump()
	}
}

// finishNumber rejects identifier characters glued to the literal, e.g. 12ab.
func (lx *Lexer) finishNumber(kind token.Kind, start Mark) token.Token {
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.badNumber(start, "invalid digit in number literal")
	}
	return lx.emitText(kind, start)
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}
}
