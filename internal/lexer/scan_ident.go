package lexer

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// scanIdentOrKeyword reads [_\pL][_\pL\pN\pM]*. Non-ASCII identifiers are
// normalised to NFC before interning.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true

	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) || r == utf8.RuneError {
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	for {
		b := lx.cursor.Peek()
		if b < utf8.RuneSelf {
			if lx.cursor.EOF() || !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if !ascii || r >= utf8.RuneSelf {
		text = norm.NFC.String(text)
	}
	sym := lx.syms.Intern(text)
	kind := token.Ident
	if symbol.IsKeyword(sym) {
		kind = token.Keyword
	}
	return token.Token{Kind: kind, Span: sp, Sym: sym}
}
