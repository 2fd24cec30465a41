package astgen

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/token"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// genExpr types the expression id against expected. expected may be a
// concrete type or one of the inference placeholders.
func (g *Generator) genExpr(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	e := g.tree.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprIdent:
		return g.genPath(scope, e.Span, []symbol.Symbol{g.tree.Exprs.Ident(id).Sym}, expected)
	case ast.ExprLit:
		return g.genLit(id, expected)
	case ast.ExprUnary:
		return g.genUnary(scope, id, expected)
	case ast.ExprBinary:
		return g.genBinary(scope, id, expected)
	case ast.ExprCast:
		return g.genCast(scope, id, expected)
	case ast.ExprCall:
		return g.genCall(scope, id, expected)
	case ast.ExprIndex:
		return g.genIndex(scope, id, expected)
	case ast.ExprMember:
		if path, ok := g.exprPath(id); ok && g.isItemPath(scope, path) {
			return g.genPath(scope, e.Span, path, expected)
		}
		return g.genMember(scope, id, expected)
	case ast.ExprTupleIndex:
		return g.genTupleIndex(scope, id, expected)
	case ast.ExprStruct:
		return g.genStructLit(scope, id, expected)
	case ast.ExprArray:
		return g.genArrayLit(scope, id, expected)
	case ast.ExprTuple:
		return g.genTupleLit(scope, id, expected)
	case ast.ExprBlock:
		return g.genBlockExpr(scope, id, expected)
	case ast.ExprIf:
		return g.genIf(scope, id, expected)
	case ast.ExprIntrinsic:
		return g.genIntrinsic(scope, id, expected)
	}
	return nil, errorf(e.Span, diag.SemaInvalidOperand, "unsupported expression")
}

// finish unifies found with expected and records the expression. A value
// flowing into a variant it is a member of is wrapped.
func (g *Generator) finish(sp source.Span, kind tast.ExprKind, place resolve.ExprKind, found, expected types.TyID, data tast.ExprData) (*tast.Expr, error) {
	id, method, err := g.ctx.AddExprUnified(found, expected, place)
	if err != nil {
		return nil, errAt(sp, err)
	}
	e := &tast.Expr{Kind: kind, ID: id, Ty: g.ctx.Expr(id).Ty, Span: sp, Data: data}
	if method != resolve.Wrap {
		return e, nil
	}
	tag, _ := g.tys.VariantTag(expected, found)
	return &tast.Expr{
		Kind: tast.ExprWrap,
		ID:   g.ctx.AddExpr(resolve.Rvalue, expected),
		Ty:   expected,
		Span: sp,
		Data: tast.WrapData{Value: e, Tag: tag},
	}, nil
}

func (g *Generator) place(e *tast.Expr) resolve.ExprKind {
	return g.ctx.Expr(e.ID).Kind
}

// numericHint passes expected down to an operand only when it is a number
// type.
func (g *Generator) numericHint(expected types.TyID) types.TyID {
	if g.tys.IsNumber(expected) {
		return expected
	}
	return g.tys.Builtins().Infer
}

func (g *Generator) genPath(scope resolve.Scope, sp source.Span, path []symbol.Symbol, expected types.TyID) (*tast.Expr, error) {
	if ty, v, ok, err := g.enumVariant(scope, sp, path); ok {
		if err != nil {
			return nil, err
		}
		return g.finish(sp, tast.ExprIntValue, resolve.Rvalue, ty, expected, tast.IntValueData{Value: v})
	}
	r, err := g.ctx.ResolveValuePath(scope, path)
	if err != nil {
		return nil, errAt(sp, err)
	}
	switch r.Kind {
	case resolve.ResolvedBinding:
		if g.poisoned[r.Binding] {
			return nil, errSilent
		}
		b := g.ctx.Binding(r.Binding)
		if g.tys.IsInfer(b.Ty) {
			return nil, pending(sp, diag.SemaTyNotDefined, "type of `%s` is not known yet", g.ctx.JoinPath(path))
		}
		place := resolve.Lvalue
		if b.Mutability == resolve.Mutable {
			place = resolve.LvalueMut
		}
		return g.finish(sp, tast.ExprBindingRef, place, b.Ty, expected,
			tast.BindingRefData{Binding: r.Binding, Global: b.Global})

	case resolve.ResolvedConst:
		ci := g.ctx.Const(r.Const)
		switch ci.Value.Kind {
		case resolve.ConstFn:
			return g.finish(sp, tast.ExprFnRef, resolve.Rvalue, ci.Ty, expected,
				tast.FnRefData{Const: r.Const, Item: ci.Item})
		case resolve.ConstInt:
			if ci.Ty == g.tys.Builtins().InferInt {
				return g.genIntValue(sp, new(big.Int).Set(ci.Value.Int), expected)
			}
			return g.finish(sp, tast.ExprConstRef, resolve.Rvalue, ci.Ty, expected, tast.ConstRefData{Const: r.Const})
		}
		return nil, pending(sp, diag.SemaNotConstant, "constant `%s` is not defined yet", g.ctx.JoinPath(path))
	}
	return nil, errAt(sp, &resolve.Error{Kind: resolve.SymbolNotValue, Sym: path[len(path)-1], Path: path})
}

// genIntValue types a compile-time integer at its own use site.
func (g *Generator) genIntValue(sp source.Span, v *big.Int, expected types.TyID) (*tast.Expr, error) {
	ty, err := g.ctx.IntLiteralTy(v, expected)
	if err != nil {
		return nil, errAt(sp, err)
	}
	if g.tys.IsFloat(ty) {
		f, _ := new(big.Float).SetInt(v).Float64()
		return g.finish(sp, tast.ExprLiteral, resolve.Rvalue, ty, expected,
			tast.LiteralData{Kind: tast.LiteralFloat, Float: f})
	}
	return g.finish(sp, tast.ExprIntValue, resolve.Rvalue, ty, expected, tast.IntValueData{Value: v})
}

func (g *Generator) genLit(id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	lit := g.tree.Exprs.Lit(id)
	text := g.syms.MustLookup(lit.Sym)
	b := g.tys.Builtins()

	switch lit.Kind {
	case token.IntLit:
		v, ok := parseIntLit(text)
		if !ok {
			return nil, errorf(sp, diag.SemaLiteralOutOfRange, "invalid integer literal `%s`", text)
		}
		return g.genIntValue(sp, v, expected)
	case token.FloatLit:
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			return nil, errorf(sp, diag.SemaLiteralOutOfRange, "invalid float literal `%s`", text)
		}
		return g.finish(sp, tast.ExprLiteral, resolve.Rvalue, g.ctx.FloatLiteralTy(expected), expected,
			tast.LiteralData{Kind: tast.LiteralFloat, Float: f})
	case token.CharLit:
		r, err := lexer.UnquoteChar(text)
		if err != nil {
			return nil, errorf(sp, diag.LexBadChar, "invalid character literal")
		}
		return g.finish(sp, tast.ExprLiteral, resolve.Rvalue, b.Char, expected,
			tast.LiteralData{Kind: tast.LiteralChar, Char: r})
	case token.StringLit:
		s, err := lexer.Unquote(text)
		if err != nil {
			return nil, errorf(sp, diag.LexBadEscape, "invalid string literal")
		}
		return g.finish(sp, tast.ExprLiteral, resolve.Rvalue, b.CStr, expected,
			tast.LiteralData{Kind: tast.LiteralString, Str: s})
	case token.Keyword:
		return g.finish(sp, tast.ExprLiteral, resolve.Rvalue, b.Bool, expected,
			tast.LiteralData{Kind: tast.LiteralBool, Bool: lit.Sym == symbol.KwTrue})
	}
	return nil, errorf(sp, diag.SemaInvalidOperand, "unsupported literal")
}

func (g *Generator) genUnary(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	un := g.tree.Exprs.Unary(id)
	b := g.tys.Builtins()

	switch un.Op {
	case ast.UnaryAddr, ast.UnaryAddrMut:
		return g.genAddrOf(scope, sp, un, expected)
	case ast.UnaryDeref:
		operand, err := g.genExpr(scope, un.Operand, b.Infer)
		if err != nil {
			return nil, err
		}
		s := g.tys.Shape(operand.Ty)
		if s.Kind != types.KindPtr {
			return nil, errorf(sp, diag.SemaInvalidOperand, "cannot dereference a value of type `%s`", g.tys.Display(operand.Ty))
		}
		place := resolve.Lvalue
		if s.Mutable {
			place = resolve.LvalueMut
		}
		return g.finish(sp, tast.ExprDeref, place, s.Elem, expected, tast.DerefData{Operand: operand})
	}

	var (
		op   tast.UnaryOp
		hint types.TyID
	)
	switch un.Op {
	case ast.UnaryNeg:
		// -128 must fit i8, so a negated literal is folded before typing
		if v, ok := g.literalValue(un.Operand); ok {
			return g.genIntValue(sp, v.Neg(v), expected)
		}
		op, hint = tast.UnaryNeg, g.numericHint(expected)
	case ast.UnaryNot:
		op, hint = tast.UnaryNot, b.Bool
	default:
		op, hint = tast.UnaryBitNot, g.numericHint(expected)
	}
	operand, err := g.genExpr(scope, un.Operand, hint)
	if err != nil {
		return nil, err
	}
	if !unarySpecs[op].accepts(familyOf(g.tys, operand.Ty)) {
		return nil, errorf(sp, diag.SemaInvalidOperand, "operator `%s` cannot be applied to `%s`", op, g.tys.Display(operand.Ty))
	}
	return g.finish(sp, tast.ExprUnary, resolve.Rvalue, operand.Ty, expected, tast.UnaryData{Op: op, Operand: operand})
}

func (g *Generator) genAddrOf(scope resolve.Scope, sp source.Span, un *ast.ExprUnaryData, expected types.TyID) (*tast.Expr, error) {
	mutable := un.Op == ast.UnaryAddrMut
	hint := g.tys.Builtins().Infer
	if s := g.tys.Shape(expected); s.Kind == types.KindPtr {
		hint = s.Elem
	}
	operand, err := g.genExpr(scope, un.Operand, hint)
	if err != nil {
		return nil, err
	}
	switch place := g.place(operand); {
	case !place.IsLvalue():
		return nil, errorf(sp, diag.SemaNotAssignable, "cannot take the address of a temporary value")
	case mutable && place != resolve.LvalueMut:
		return nil, errorf(sp, diag.SemaNotAssignable, "cannot take a mutable address of an immutable place")
	}
	return g.finish(sp, tast.ExprAddrOf, resolve.Rvalue, g.tys.Ptr(operand.Ty, mutable), expected,
		tast.AddrOfData{Operand: operand, Mutable: mutable})
}

// literalValue returns the value of an integer literal, looking through
// nested negations.
func (g *Generator) literalValue(id ast.ExprID) (*big.Int, bool) {
	switch g.tree.Exprs.Get(id).Kind {
	case ast.ExprLit:
		lit := g.tree.Exprs.Lit(id)
		if lit.Kind != token.IntLit {
			return nil, false
		}
		return parseIntLit(g.syms.MustLookup(lit.Sym))
	case ast.ExprUnary:
		un := g.tree.Exprs.Unary(id)
		if un.Op != ast.UnaryNeg {
			return nil, false
		}
		v, ok := g.literalValue(un.Operand)
		if !ok {
			return nil, false
		}
		return v.Neg(v), true
	}
	return nil, false
}

// isUntyped reports operands whose type comes from their context.
func (g *Generator) isUntyped(id ast.ExprID) bool {
	switch g.tree.Exprs.Get(id).Kind {
	case ast.ExprLit:
		k := g.tree.Exprs.Lit(id).Kind
		return k == token.IntLit || k == token.FloatLit
	case ast.ExprIntrinsic:
		return true
	case ast.ExprUnary:
		un := g.tree.Exprs.Unary(id)
		return un.Op == ast.UnaryNeg && g.isUntyped(un.Operand)
	}
	return false
}

func (g *Generator) genBinary(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	bin := g.tree.Exprs.Binary(id)
	b := g.tys.Builtins()
	op, ok := tast.BinaryOpOf(bin.Op)
	if !ok {
		return nil, errorf(sp, diag.SemaInvalidOperand, "unsupported operator %s", bin.Op)
	}
	spec := binarySpecs[op]

	lhs, rhs, err := g.genOperands(scope, op, bin.Lhs, bin.Rhs, expected)
	if err != nil {
		return nil, err
	}
	if !spec.accepts(g.tys, lhs.Ty) {
		return nil, errorf(sp, diag.SemaInvalidOperand, "operator `%s` cannot be applied to `%s`", op, g.tys.Display(lhs.Ty))
	}
	if !spec.sameType && !familyIntegral.accepts(familyOf(g.tys, rhs.Ty)) {
		return nil, errorf(g.exprSpan(bin.Rhs), diag.SemaInvalidOperand, "shift amount must be an integer, found `%s`", g.tys.Display(rhs.Ty))
	}
	result := lhs.Ty
	if spec.result == resultBool {
		result = b.Bool
	}
	return g.finish(sp, tast.ExprBinary, resolve.Rvalue, result, expected, tast.BinaryData{Op: op, Lhs: lhs, Rhs: rhs})
}

// genOperands types both operands of op. When only the left one is an
// untyped literal the right one goes first so the literal takes its type.
func (g *Generator) genOperands(scope resolve.Scope, op tast.BinaryOp, lhsID, rhsID ast.ExprID, expected types.TyID) (*tast.Expr, *tast.Expr, error) {
	b := g.tys.Builtins()
	spec := binarySpecs[op]
	hint := b.Infer
	switch {
	case op.IsLogical():
		hint = b.Bool
	case spec.result == resultLeft && spec.operands.accepts(familyOf(g.tys, expected)):
		hint = expected
	}

	if spec.sameType && g.isUntyped(lhsID) && !g.isUntyped(rhsID) {
		rhs, err := g.genExpr(scope, rhsID, hint)
		if err != nil {
			return nil, nil, err
		}
		lhs, err := g.genExpr(scope, lhsID, rhs.Ty)
		return lhs, rhs, err
	}
	lhs, err := g.genExpr(scope, lhsID, hint)
	if err != nil {
		return nil, nil, err
	}
	rhsHint := lhs.Ty
	if !spec.sameType {
		rhsHint = b.InferInt
	}
	rhs, err := g.genExpr(scope, rhsID, rhsHint)
	return lhs, rhs, err
}

func (g *Generator) genCast(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	c := g.tree.Exprs.Cast(id)
	to, err := g.resolveValueType(scope, c.Ty)
	if err != nil {
		return nil, err
	}
	value, err := g.genExpr(scope, c.Value, g.tys.Builtins().Infer)
	if err != nil {
		return nil, err
	}
	if !castAllowed(g.tys, value.Ty, to) {
		return nil, errorf(sp, diag.SemaInvalidCast, "cannot cast `%s` to `%s`", g.tys.Display(value.Ty), g.tys.Display(to))
	}
	return g.finish(sp, tast.ExprCast, resolve.Rvalue, to, expected, tast.CastData{Value: value})
}

func (g *Generator) genCall(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	sp := g.exprSpan(id)
	call := g.tree.Exprs.Call(id)
	b := g.tys.Builtins()
	callee, err := g.genExpr(scope, call.Callee, b.Infer)
	if err != nil {
		return nil, err
	}
	s := g.tys.Shape(callee.Ty)
	if s.Kind != types.KindFn {
		return nil, errorf(sp, diag.SemaInvalidCall, "`%s` is not callable", g.tys.Display(callee.Ty))
	}
	params := g.tys.List(s.List)
	if len(call.Args) < len(params) || (!s.Variadic && len(call.Args) > len(params)) {
		return nil, errorf(sp, diag.SemaInvalidCall, "expected %d arguments, found %d", len(params), len(call.Args))
	}
	args := make([]*tast.Expr, len(call.Args))
	for i, a := range call.Args {
		want := b.Infer
		if i < len(params) {
			want = params[i]
		}
		if args[i], err = g.genExpr(scope, a, want); err != nil {
			return nil, err
		}
	}
	return g.finish(sp, tast.ExprCall, resolve.Rvalue, s.Elem, expected, tast.CallData{Callee: callee, Args: args})
}

func (g *Generator) genIntrinsic(scope resolve.Scope, id ast.ExprID, expected types.TyID) (*tast.Expr, error) {
	v, err := g.intrinsicValue(scope, id)
	if err != nil {
		return nil, err
	}
	hint := g.tys.Builtins().Usize
	if g.tys.IsInt(expected) {
		hint = expected
	}
	sp := g.exprSpan(id)
	ty, err := g.ctx.IntLiteralTy(v, hint)
	if err != nil {
		return nil, errAt(sp, err)
	}
	return g.finish(sp, tast.ExprIntValue, resolve.Rvalue, ty, expected, tast.IntValueData{Value: v})
}
