package lexer

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// scanWhitespace coalesces spaces, tabs and newlines into one token.
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
			continue
		}
		break
	}
	return lx.emit(token.Whitespace, start)
}

// scanComment reads // up to the end of line or a nested /* */ block.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Eat('/') {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.emit(token.Comment, start)
	}

	lx.cursor.Bump() // '*'
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch {
		case lx.try2('/', '*'):
			depth++
		case lx.try2('*', '/'):
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Comment, start)
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, "unterminated block comment")
		tok.Kind = token.Invalid
	}
	return tok
}
