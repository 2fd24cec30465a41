package astgen

import (
	"math/big"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// maxShift bounds shift amounts in constant expressions.
const maxShift = 1024

// evalConst folds an integer constant expression: literals, constants, enum
// variants, intrinsics, casts and integer arithmetic. Constants that are not
// defined yet give a retryable error.
func (g *Generator) evalConst(scope resolve.Scope, id ast.ExprID) (*big.Int, error) {
	e := g.tree.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprLit:
		lit := g.tree.Exprs.Lit(id)
		if lit.Kind != token.IntLit {
			break
		}
		v, ok := parseIntLit(g.syms.MustLookup(lit.Sym))
		if !ok {
			return nil, errorf(e.Span, diag.SemaLiteralOutOfRange, "invalid integer literal")
		}
		return v, nil

	case ast.ExprIdent, ast.ExprMember:
		path, ok := g.exprPath(id)
		if !ok {
			break
		}
		return g.evalConstPath(scope, e.Span, path)

	case ast.ExprUnary:
		un := g.tree.Exprs.Unary(id)
		v, err := g.evalConst(scope, un.Operand)
		if err != nil {
			return nil, err
		}
		switch un.Op {
		case ast.UnaryNeg:
			return v.Neg(v), nil
		case ast.UnaryBitNot:
			return v.Not(v), nil
		}

	case ast.ExprBinary:
		bin := g.tree.Exprs.Binary(id)
		lhs, err := g.evalConst(scope, bin.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := g.evalConst(scope, bin.Rhs)
		if err != nil {
			return nil, err
		}
		return foldBinary(e.Span, bin.Op, lhs, rhs)

	case ast.ExprCast:
		c := g.tree.Exprs.Cast(id)
		v, err := g.evalConst(scope, c.Value)
		if err != nil {
			return nil, err
		}
		ty, err := g.resolveType(scope, c.Ty)
		if err != nil {
			return nil, err
		}
		if s := g.tys.Shape(ty); s.Kind == types.KindInt {
			return g.wrapInt(v, s.Int), nil
		}
		return nil, errorf(e.Span, diag.SemaNotConstant,
			"cannot cast a constant to `%s`", g.tys.Display(ty))

	case ast.ExprIntrinsic:
		return g.intrinsicValue(scope, id)
	}
	return nil, errorf(e.Span, diag.SemaNotConstant, "expression is not an integer constant")
}

func (g *Generator) evalConstPath(scope resolve.Scope, sp source.Span, path []symbol.Symbol) (*big.Int, error) {
	if _, v, ok, err := g.enumVariant(scope, sp, path); ok || err != nil {
		return v, err
	}
	var id resolve.ConstID
	if len(path) == 1 && !symbol.IsPathKeyword(path[0]) {
		// locals shadow constants of the same name
		r, err := g.ctx.GetSymbol(scope, path[0])
		if err != nil {
			return nil, errAt(sp, err)
		}
		if r.Kind != resolve.ResolvedConst {
			return nil, errorf(sp, diag.SemaNotConstant, "`%s` is not a constant", g.ctx.JoinPath(path))
		}
		id = r.Const
	} else {
		var err error
		if id, err = g.ctx.ResolveConstPath(scope, path); err != nil {
			return nil, errAt(sp, err)
		}
	}
	ci := g.ctx.Const(id)
	switch ci.Value.Kind {
	case resolve.ConstUndefined:
		return nil, pending(sp, diag.SemaNotConstant, "constant `%s` is not defined yet", g.ctx.JoinPath(path))
	case resolve.ConstInt:
		return new(big.Int).Set(ci.Value.Int), nil
	}
	return nil, errorf(sp, diag.SemaNotConstant, "`%s` is not an integer constant", g.ctx.JoinPath(path))
}

func foldBinary(sp source.Span, op token.Kind, lhs, rhs *big.Int) (*big.Int, error) {
	out := new(big.Int)
	switch op {
	case token.Plus:
		return out.Add(lhs, rhs), nil
	case token.Minus:
		return out.Sub(lhs, rhs), nil
	case token.Star:
		return out.Mul(lhs, rhs), nil
	case token.Slash, token.Percent:
		if rhs.Sign() == 0 {
			return nil, errorf(sp, diag.SemaNotConstant, "division by zero in constant expression")
		}
		if op == token.Slash {
			return out.Quo(lhs, rhs), nil
		}
		return out.Rem(lhs, rhs), nil
	case token.Amp:
		return out.And(lhs, rhs), nil
	case token.Pipe:
		return out.Or(lhs, rhs), nil
	case token.Caret:
		return out.Xor(lhs, rhs), nil
	case token.Shl, token.Shr:
		if rhs.Sign() < 0 || rhs.Cmp(big.NewInt(maxShift)) >= 0 {
			return nil, errorf(sp, diag.SemaNotConstant, "shift amount %s is out of range", rhs)
		}
		n := uint(rhs.Uint64())
		if op == token.Shl {
			return out.Lsh(lhs, n), nil
		}
		return out.Rsh(lhs, n), nil
	}
	return nil, errorf(sp, diag.SemaNotConstant, "operator %s is not allowed in integer constants", op)
}

// wrapInt truncates v to the width of k, as a cast does at runtime.
func (g *Generator) wrapInt(v *big.Int, k types.IntKind) *big.Int {
	bits := uint(k.Bits(g.tys.Target().PtrSize))
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	out := new(big.Int).Mod(v, mod)
	if k.Signed() && out.Bit(int(bits)-1) == 1 {
		out.Sub(out, mod)
	}
	return out
}

// parseIntLit parses the text of an integer literal, base prefixes and digit
// separators included.
func parseIntLit(text string) (*big.Int, bool) {
	text = strings.ReplaceAll(text, "_", "")
	base := 10
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'b', 'B', 'o', 'O', 'x', 'X':
			base = 0
		}
	}
	return new(big.Int).SetString(text, base)
}
