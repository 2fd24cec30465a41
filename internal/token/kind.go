package token

import "fmt"

// Kind is the category of a token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	Keyword
	IntLit
	FloatLit
	CharLit
	StringLit

	// trivia, only produced by the any-token view
	Whitespace
	Comment

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Amp       // &
	Pipe      // |
	Caret     // ^
	Tilde     // ~
	Bang      // !
	Eq        // =
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Shl       // <<
	Shr       // >>
	AndAnd    // &&
	OrOr      // ||
	PlusEq    // +=
	MinusEq   // -=
	StarEq    // *=
	SlashEq   // /=
	PercentEq // %=
	AmpEq     // &=
	PipeEq    // |=
	CaretEq   // ^=
	ShlEq     // <<=
	ShrEq     // >>=
	Colon     // :
	ColonColon
	ColonEq // :=
	Semicolon
	Comma
	Dot
	Ellipsis // ...
	Arrow    // ->
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	numKinds
)

var kindText = [numKinds]string{
	Invalid:    "invalid token",
	EOF:        "end of file",
	Ident:      "identifier",
	Keyword:    "keyword",
	IntLit:     "integer literal",
	FloatLit:   "float literal",
	CharLit:    "character literal",
	StringLit:  "string literal",
	Whitespace: "whitespace",
	Comment:    "comment",
	Plus:       "`+`",
	Minus:      "`-`",
	Star:       "`*`",
	Slash:      "`/`",
	Percent:    "`%`",
	Amp:        "`&`",
	Pipe:       "`|`",
	Caret:      "`^`",
	Tilde:      "`~`",
	Bang:       "`!`",
	Eq:         "`=`",
	EqEq:       "`==`",
	BangEq:     "`!=`",
	Lt:         "`<`",
	LtEq:       "`<=`",
	Gt:         "`>`",
	GtEq:       "`>=`",
	Shl:        "`<<`",
	Shr:        "`>>`",
	AndAnd:     "`&&`",
	OrOr:       "`||`",
	PlusEq:     "`+=`",
	MinusEq:    "`-=`",
	StarEq:     "`*=`",
	SlashEq:    "`/=`",
	PercentEq:  "`%=`",
	AmpEq:      "`&=`",
	PipeEq:     "`|=`",
	CaretEq:    "`^=`",
	ShlEq:      "`<<=`",
	ShrEq:      "`>>=`",
	Colon:      "`:`",
	ColonColon: "`::`",
	ColonEq:    "`:=`",
	Semicolon:  "`;`",
	Comma:      "`,`",
	Dot:        "`.`",
	Ellipsis:   "`...`",
	Arrow:      "`->`",
	LParen:     "`(`",
	RParen:     "`)`",
	LBrace:     "`{`",
	RBrace:     "`}`",
	LBracket:   "`[`",
	RBracket:   "`]`",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindText[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsTrivia reports kinds the language view skips.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// IsLiteral reports literal kinds.
func (k Kind) IsLiteral() bool {
	return k >= IntLit && k <= StringLit
}

// IsAssignOp reports = and the compound assignment operators.
func (k Kind) IsAssignOp() bool {
	return k == Eq || (k >= PlusEq && k <= ShrEq)
}

// BaseOp maps a compound assignment to its binary operator.
func (k Kind) BaseOp() (Kind, bool) {
	switch k {
	case PlusEq:
		return Plus, true
	case MinusEq:
		return Minus, true
	case StarEq:
		return Star, true
	case SlashEq:
		return Slash, true
	case PercentEq:
		return Percent, true
	case AmpEq:
		return Amp, true
	case PipeEq:
		return Pipe, true
	case CaretEq:
		return Caret, true
	case ShlEq:
		return Shl, true
	case ShrEq:
		return Shr, true
	}
	return Invalid, false
}
