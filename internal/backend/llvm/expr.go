package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

func (fe *funcEmitter) expr(x *tast.Expr) (value.Value, error) {
	e := fe.emitter
	switch d := x.Data.(type) {
	case tast.LiteralData, tast.IntValueData, tast.ConstRefData, tast.FnRefData:
		c, err := e.constant(x)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%s is not a constant", x.Kind)
		}
		return c, nil

	case tast.BindingRefData, tast.FieldData, tast.TupleIndexData, tast.IndexData, tast.DerefData:
		return fe.load(x)

	case tast.AddrOfData:
		return fe.place(d.Operand)

	case tast.UnaryData:
		return fe.unary(x, d)

	case tast.BinaryData:
		if d.Op.IsLogical() {
			return fe.logical(d)
		}
		lhs, err := fe.expr(d.Lhs)
		if err != nil || !fe.live() {
			return fe.undef(x.Ty), err
		}
		rhs, err := fe.expr(d.Rhs)
		if err != nil || !fe.live() {
			return fe.undef(x.Ty), err
		}
		if d.Op.IsComparison() {
			return fe.compare(d.Op, d.Lhs.Ty, lhs, rhs)
		}
		return fe.arith(d.Op, d.Lhs.Ty, lhs, d.Rhs.Ty, rhs)

	case tast.CallData:
		return fe.call(x, d)

	case tast.CastData:
		v, err := fe.expr(d.Value)
		if err != nil || !fe.live() {
			return fe.undef(x.Ty), err
		}
		return fe.cast(v, d.Value.Ty, x.Ty)

	case tast.StructLitData:
		inits := make(map[int]*tast.Expr, len(d.Fields))
		for _, f := range d.Fields {
			inits[f.Index] = f.Value
		}
		return fe.aggregateLit(x.Ty, len(d.Fields), func(i int) *tast.Expr { return inits[i] })

	case tast.TupleLitData:
		return fe.aggregateLit(x.Ty, len(d.Elems), func(i int) *tast.Expr { return d.Elems[i] })

	case tast.ArrayLitData:
		t, err := e.llType(x.Ty)
		if err != nil {
			return nil, err
		}
		var agg value.Value = constant.NewUndef(t)
		for i, el := range d.Elems {
			v, err := fe.expr(el)
			if err != nil || !fe.live() {
				return fe.undef(x.Ty), err
			}
			agg = fe.cur.NewInsertValue(agg, v, uint64(i))
		}
		return agg, nil

	case tast.BlockData:
		return fe.block(d.Block)

	case tast.IfData:
		return fe.ifExpr(x, d)

	case tast.WhileData:
		v, err := fe.whileExpr(d)
		fe.closeInfinite(x)
		return v, err

	case tast.ForData:
		v, err := fe.forExpr(d)
		fe.closeInfinite(x)
		return v, err

	case tast.ReturnData:
		return fe.unitValue(), fe.returnExpr(d)

	case tast.WrapData:
		return fe.wrap(x, d)
	}

	if x.Kind == tast.ExprBreak || x.Kind == tast.ExprContinue {
		return fe.unitValue(), fe.jump(x.Kind)
	}
	return nil, fmt.Errorf("cannot lower %s", x.Kind)
}

func (fe *funcEmitter) load(x *tast.Expr) (value.Value, error) {
	ptr, err := fe.place(x)
	if err != nil || !fe.live() {
		return fe.undef(x.Ty), err
	}
	t, err := fe.emitter.llType(x.Ty)
	if err != nil {
		return nil, err
	}
	return fe.cur.NewLoad(t, ptr), nil
}

// place returns the address of x. Rvalues are spilled to a temporary.
func (fe *funcEmitter) place(x *tast.Expr) (value.Value, error) {
	e := fe.emitter
	switch d := x.Data.(type) {
	case tast.BindingRefData:
		if d.Global {
			if g, ok := e.globals[d.Binding]; ok {
				return g, nil
			}
		} else if slot, ok := fe.locals[d.Binding]; ok {
			return slot, nil
		}
		return nil, fmt.Errorf("binding %d has no storage", d.Binding)

	case tast.DerefData:
		return fe.expr(d.Operand)

	case tast.FieldData:
		return fe.member(d.Base, d.Index)

	case tast.TupleIndexData:
		return fe.member(d.Base, int(d.Index))

	case tast.IndexData:
		return fe.element(d)
	}

	v, err := fe.expr(x)
	if err != nil {
		return nil, err
	}
	return fe.materialize(v, x.Ty)
}

func (fe *funcEmitter) member(base *tast.Expr, i int) (value.Value, error) {
	e := fe.emitter
	ptr, err := fe.place(base)
	if err != nil {
		return nil, err
	}
	idx, err := e.fieldIndex(base.Ty, i)
	if err != nil {
		return nil, err
	}
	t, err := e.llType(base.Ty)
	if err != nil {
		return nil, err
	}
	return fe.cur.NewGetElementPtr(t, ptr, constant.NewInt(lltypes.I32, 0), constant.NewInt(lltypes.I32, int64(idx))), nil
}

func (fe *funcEmitter) element(d tast.IndexData) (value.Value, error) {
	e := fe.emitter
	s := e.tys.Shape(d.Base.Ty)
	elem, err := e.llType(s.Elem)
	if err != nil {
		return nil, err
	}

	var base value.Value
	switch s.Kind {
	case types.KindArray:
		if base, err = fe.place(d.Base); err != nil {
			return nil, err
		}
		idx, err := fe.expr(d.Index)
		if err != nil {
			return nil, err
		}
		arr, err := e.llType(d.Base.Ty)
		if err != nil {
			return nil, err
		}
		return fe.cur.NewGetElementPtr(arr, base, constant.NewInt(lltypes.I32, 0), idx), nil
	case types.KindSlice:
		sl, err := fe.expr(d.Base)
		if err != nil {
			return nil, err
		}
		base = fe.cur.NewExtractValue(sl, 0)
	default:
		if base, err = fe.expr(d.Base); err != nil {
			return nil, err
		}
	}
	idx, err := fe.expr(d.Index)
	if err != nil {
		return nil, err
	}
	return fe.cur.NewGetElementPtr(elem, base, idx), nil
}

// aggregateLit builds a struct or tuple value member by member. Padding
// fields stay undefined.
func (fe *funcEmitter) aggregateLit(ty types.TyID, n int, member func(int) *tast.Expr) (value.Value, error) {
	e := fe.emitter
	t, err := e.llType(ty)
	if err != nil {
		return nil, err
	}
	var agg value.Value = constant.NewUndef(t)
	for i := range n {
		x := member(i)
		if x == nil {
			continue
		}
		v, err := fe.expr(x)
		if err != nil || !fe.live() {
			return fe.undef(ty), err
		}
		idx, err := e.fieldIndex(ty, i)
		if err != nil {
			return nil, err
		}
		agg = fe.cur.NewInsertValue(agg, v, idx)
	}
	return agg, nil
}

func (fe *funcEmitter) call(x *tast.Expr, d tast.CallData) (value.Value, error) {
	callee, err := fe.expr(d.Callee)
	if err != nil || !fe.live() {
		return fe.undef(x.Ty), err
	}
	args := make([]value.Value, len(d.Args))
	for i, a := range d.Args {
		if args[i], err = fe.expr(a); err != nil || !fe.live() {
			return fe.undef(x.Ty), err
		}
	}
	v := fe.cur.NewCall(callee, args...)
	if fe.emitter.isVoid(x.Ty) {
		return fe.unitValue(), nil
	}
	return v, nil
}

// wrap tags a member value into its variant through a stack slot: the tag
// goes to its field and the payload is stored through a cast pointer.
func (fe *funcEmitter) wrap(x *tast.Expr, d tast.WrapData) (value.Value, error) {
	e := fe.emitter
	v, err := fe.expr(d.Value)
	if err != nil || !fe.live() {
		return fe.undef(x.Ty), err
	}
	t, err := e.llType(x.Ty)
	if err != nil {
		return nil, err
	}
	slot, err := fe.slot(x.Ty)
	if err != nil {
		return nil, err
	}
	agg := e.aggregates[x.Ty]
	zero32 := constant.NewInt(lltypes.I32, 0)

	tagPtr := fe.cur.NewGetElementPtr(t, slot, zero32, constant.NewInt(lltypes.I32, int64(agg.index[1])))
	tagTy := agg.ty.Fields[agg.index[1]].(*lltypes.IntType)
	fe.cur.NewStore(constant.NewInt(tagTy, int64(d.Tag)), tagPtr)

	payload := fe.cur.NewGetElementPtr(t, slot, zero32, constant.NewInt(lltypes.I32, int64(agg.index[0])))
	fe.cur.NewStore(v, fe.cur.NewBitCast(payload, lltypes.NewPointer(v.Type())))
	return fe.cur.NewLoad(t, slot), nil
}

func (fe *funcEmitter) unary(x *tast.Expr, d tast.UnaryData) (value.Value, error) {
	v, err := fe.expr(d.Operand)
	if err != nil || !fe.live() {
		return fe.undef(x.Ty), err
	}
	tys := fe.emitter.tys
	switch d.Op {
	case tast.UnaryNeg:
		if tys.IsFloat(x.Ty) {
			return fe.cur.NewFNeg(v), nil
		}
		return fe.cur.NewSub(zero(v.Type()), v), nil
	case tast.UnaryNot:
		return fe.cur.NewXor(v, constant.NewBool(true)), nil
	default:
		it := v.Type().(*lltypes.IntType)
		return fe.cur.NewXor(v, constant.NewInt(it, -1)), nil
	}
}

// logical lowers && and || with short-circuit evaluation.
func (fe *funcEmitter) logical(d tast.BinaryData) (value.Value, error) {
	lhs, err := fe.expr(d.Lhs)
	if err != nil || !fe.live() {
		return constant.NewUndef(lltypes.I1), err
	}
	from := fe.cur
	rhsBlock, end := fe.newBlock(), fe.newBlock()
	short := constant.NewBool(d.Op == tast.BinaryOr)
	if d.Op == tast.BinaryAnd {
		fe.cur.NewCondBr(lhs, rhsBlock, end)
	} else {
		fe.cur.NewCondBr(lhs, end, rhsBlock)
	}

	fe.cur = rhsBlock
	rhs, err := fe.expr(d.Rhs)
	if err != nil {
		return nil, err
	}
	if !fe.live() {
		fe.cur = end
		return short, nil
	}
	rhsEnd := fe.cur
	fe.cur.NewBr(end)

	fe.cur = end
	return fe.cur.NewPhi(ir.NewIncoming(short, from), ir.NewIncoming(rhs, rhsEnd)), nil
}

func (fe *funcEmitter) compare(op tast.BinaryOp, ty types.TyID, lhs, rhs value.Value) (value.Value, error) {
	tys := fe.emitter.tys
	if tys.IsFloat(ty) {
		pred := map[tast.BinaryOp]enum.FPred{
			tast.BinaryEq: enum.FPredOEQ,
			tast.BinaryNe: enum.FPredUNE,
			tast.BinaryLt: enum.FPredOLT,
			tast.BinaryLe: enum.FPredOLE,
			tast.BinaryGt: enum.FPredOGT,
			tast.BinaryGe: enum.FPredOGE,
		}[op]
		return fe.cur.NewFCmp(pred, lhs, rhs), nil
	}
	signed := fe.emitter.signed(ty)
	var pred enum.IPred
	switch op {
	case tast.BinaryEq:
		pred = enum.IPredEQ
	case tast.BinaryNe:
		pred = enum.IPredNE
	case tast.BinaryLt:
		pred = pick(signed, enum.IPredSLT, enum.IPredULT)
	case tast.BinaryLe:
		pred = pick(signed, enum.IPredSLE, enum.IPredULE)
	case tast.BinaryGt:
		pred = pick(signed, enum.IPredSGT, enum.IPredUGT)
	default:
		pred = pick(signed, enum.IPredSGE, enum.IPredUGE)
	}
	return fe.cur.NewICmp(pred, lhs, rhs), nil
}

func pick[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// arith lowers the arithmetic, bitwise and shift operators. Shift amounts
// are brought to the width of the shifted value first.
func (fe *funcEmitter) arith(op tast.BinaryOp, ty types.TyID, lhs value.Value, rhsTy types.TyID, rhs value.Value) (value.Value, error) {
	b := fe.cur
	if fe.emitter.tys.IsFloat(ty) {
		switch op {
		case tast.BinaryAdd:
			return b.NewFAdd(lhs, rhs), nil
		case tast.BinarySub:
			return b.NewFSub(lhs, rhs), nil
		case tast.BinaryMul:
			return b.NewFMul(lhs, rhs), nil
		case tast.BinaryDiv:
			return b.NewFDiv(lhs, rhs), nil
		case tast.BinaryRem:
			return b.NewFRem(lhs, rhs), nil
		}
		return nil, fmt.Errorf("operator %s on floats", op)
	}

	signed := fe.emitter.signed(ty)
	switch op {
	case tast.BinaryAdd:
		return b.NewAdd(lhs, rhs), nil
	case tast.BinarySub:
		return b.NewSub(lhs, rhs), nil
	case tast.BinaryMul:
		return b.NewMul(lhs, rhs), nil
	case tast.BinaryDiv:
		if signed {
			return b.NewSDiv(lhs, rhs), nil
		}
		return b.NewUDiv(lhs, rhs), nil
	case tast.BinaryRem:
		if signed {
			return b.NewSRem(lhs, rhs), nil
		}
		return b.NewURem(lhs, rhs), nil
	case tast.BinaryBitAnd:
		return b.NewAnd(lhs, rhs), nil
	case tast.BinaryBitOr:
		return b.NewOr(lhs, rhs), nil
	case tast.BinaryBitXor:
		return b.NewXor(lhs, rhs), nil
	case tast.BinaryShl, tast.BinaryShr:
		amount, err := fe.resize(rhs, rhsTy, lhs.Type().(*lltypes.IntType))
		if err != nil {
			return nil, err
		}
		if op == tast.BinaryShl {
			return b.NewShl(lhs, amount), nil
		}
		if signed {
			return b.NewAShr(lhs, amount), nil
		}
		return b.NewLShr(lhs, amount), nil
	}
	return nil, fmt.Errorf("operator %s on `%s`", op, fe.emitter.tys.Display(ty))
}

// signed reports whether values of ty compare and divide as signed. Enums
// follow their storage type.
func (e *Emitter) signed(ty types.TyID) bool {
	if storage, _, ok := e.tys.Enum(ty); ok {
		ty = storage
	}
	return e.tys.IsSignedInt(ty)
}

// resize truncates or extends an integer to width to.
func (fe *funcEmitter) resize(v value.Value, ty types.TyID, to *lltypes.IntType) (value.Value, error) {
	from, ok := v.Type().(*lltypes.IntType)
	if !ok {
		return nil, fmt.Errorf("`%s` is not an integer", fe.emitter.tys.Display(ty))
	}
	switch {
	case from.BitSize > to.BitSize:
		return fe.cur.NewTrunc(v, to), nil
	case from.BitSize < to.BitSize && fe.emitter.signed(ty):
		return fe.cur.NewSExt(v, to), nil
	case from.BitSize < to.BitSize:
		return fe.cur.NewZExt(v, to), nil
	}
	return v, nil
}

// cast lowers `v as to`. The pairs reaching here were accepted by the type
// checker.
func (fe *funcEmitter) cast(v value.Value, from, to types.TyID) (value.Value, error) {
	e := fe.emitter
	if from == to {
		return v, nil
	}
	dst, err := e.llType(to)
	if err != nil {
		return nil, err
	}
	fs, ts := e.tys.Shape(from), e.tys.Shape(to)
	fromPtr := fs.Kind == types.KindPtr || fs.Kind == types.KindManyPtr
	toPtr := ts.Kind == types.KindPtr || ts.Kind == types.KindManyPtr
	b := fe.cur

	switch {
	case fromPtr && toPtr:
		return b.NewBitCast(v, dst), nil
	case fromPtr:
		return b.NewPtrToInt(v, dst), nil
	case toPtr:
		return b.NewIntToPtr(v, dst), nil
	case fs.Kind == types.KindFloat && ts.Kind == types.KindFloat:
		if fs.Float == types.F32 {
			return b.NewFPExt(v, dst), nil
		}
		return b.NewFPTrunc(v, dst), nil
	case fs.Kind == types.KindFloat:
		if e.signed(to) {
			return b.NewFPToSI(v, dst), nil
		}
		return b.NewFPToUI(v, dst), nil
	case ts.Kind == types.KindFloat:
		if e.signed(from) {
			return b.NewSIToFP(v, dst), nil
		}
		return b.NewUIToFP(v, dst), nil
	}
	// integers, bool, char and enums
	it, ok := dst.(*lltypes.IntType)
	if !ok {
		return nil, fmt.Errorf("cannot cast `%s` to `%s`", e.tys.Display(from), e.tys.Display(to))
	}
	return fe.resize(v, from, it)
}
