package tast

import "github.com/LechintanTudor/cool-compiler-sub001/internal/token"

// BinaryOp is a resolved binary operator.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryRem
	BinaryBitAnd
	BinaryBitOr
	BinaryBitXor
	BinaryShl
	BinaryShr
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
	BinaryAnd
	BinaryOr
)

var binaryText = [...]string{
	BinaryAdd:    "+",
	BinarySub:    "-",
	BinaryMul:    "*",
	BinaryDiv:    "/",
	BinaryRem:    "%",
	BinaryBitAnd: "&",
	BinaryBitOr:  "|",
	BinaryBitXor: "^",
	BinaryShl:    "<<",
	BinaryShr:    ">>",
	BinaryEq:     "==",
	BinaryNe:     "!=",
	BinaryLt:     "<",
	BinaryLe:     "<=",
	BinaryGt:     ">",
	BinaryGe:     ">=",
	BinaryAnd:    "&&",
	BinaryOr:     "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryText) {
		return binaryText[op]
	}
	return "?"
}

// IsComparison reports operators yielding bool from two operands of one type.
func (op BinaryOp) IsComparison() bool {
	return op >= BinaryEq && op <= BinaryGe
}

// IsLogical reports the short-circuit operators.
func (op BinaryOp) IsLogical() bool {
	return op == BinaryAnd || op == BinaryOr
}

// BinaryOpOf maps an operator token to its BinaryOp. Compound assignment
// tokens map to the operator they apply.
func BinaryOpOf(kind token.Kind) (BinaryOp, bool) {
	switch kind {
	case token.Plus, token.PlusEq:
		return BinaryAdd, true
	case token.Minus, token.MinusEq:
		return BinarySub, true
	case token.Star, token.StarEq:
		return BinaryMul, true
	case token.Slash, token.SlashEq:
		return BinaryDiv, true
	case token.Percent, token.PercentEq:
		return BinaryRem, true
	case token.Amp, token.AmpEq:
		return BinaryBitAnd, true
	case token.Pipe, token.PipeEq:
		return BinaryBitOr, true
	case token.Caret, token.CaretEq:
		return BinaryBitXor, true
	case token.Shl, token.ShlEq:
		return BinaryShl, true
	case token.Shr, token.ShrEq:
		return BinaryShr, true
	case token.EqEq:
		return BinaryEq, true
	case token.BangEq:
		return BinaryNe, true
	case token.Lt:
		return BinaryLt, true
	case token.LtEq:
		return BinaryLe, true
	case token.Gt:
		return BinaryGt, true
	case token.GtEq:
		return BinaryGe, true
	case token.AndAnd:
		return BinaryAnd, true
	case token.OrOr:
		return BinaryOr, true
	}
	return 0, false
}
