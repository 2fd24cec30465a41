// Package token defines the lexical tokens of cool sources.
package token

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

// Token is a spanned lexeme. Sym carries the interned identifier, keyword or
// literal text; it is unset for punctuation and trivia.
type Token struct {
	Kind Kind
	Span source.Span
	Sym  symbol.Symbol
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsKeyword reports whether the token is the keyword kw.
func (t Token) IsKeyword(kw symbol.Symbol) bool {
	return t.Kind == Keyword && t.Sym == kw
}
