package lexer

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('<', '<', '='):
		return lx.emit(token.ShlEq, start)
	case lx.try3('>', '>', '='):
		return lx.emit(token.ShrEq, start)
	case lx.try3('.', '.', '.'):
		return lx.emit(token.Ellipsis, start)
	}

	for _, op := range twoByteOps {
		if lx.try2(op.a, op.b) {
			return lx.emit(op.kind, start)
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := oneByteOps[ch]; ok {
		return lx.emit(k, start)
	}

	// не-ASCII байты уходят в scanIdentOrKeyword, здесь только ASCII
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp}
}

var twoByteOps = [...]struct {
	a, b byte
	kind token.Kind
}{
	{':', ':', token.ColonColon},
	{':', '=', token.ColonEq},
	{'-', '>', token.Arrow},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
	{'<', '<', token.Shl},
	{'>', '>', token.Shr},
	{'+', '=', token.PlusEq},
	{'-', '=', token.MinusEq},
	{'*', '=', token.StarEq},
	{'/', '=', token.SlashEq},
	{'%', '=', token.PercentEq},
	{'&', '=', token.AmpEq},
	{'|', '=', token.PipeEq},
	{'^', '=', token.CaretEq},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	'~': token.Tilde,
	'!': token.Bang,
	'=': token.Eq,
	'<': token.Lt,
	'>': token.Gt,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}
