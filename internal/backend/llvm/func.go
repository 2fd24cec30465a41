package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

type loopTarget struct {
	brk, cont *ir.Block
	depth     int // len(defers) when the loop was entered
}

type funcEmitter struct {
	emitter *Emitter
	fn      *ir.Func
	ret     types.TyID
	allocas *ir.Block
	cur     *ir.Block
	locals  map[resolve.BindingID]value.Value
	defers  [][]*tast.Stmt
	loops   []loopTarget
}

// newFuncEmitter opens f with a block reserved for stack slots that jumps to
// the first body block.
func newFuncEmitter(e *Emitter, f *ir.Func, ret types.TyID) *funcEmitter {
	fe := &funcEmitter{
		emitter: e,
		fn:      f,
		ret:     ret,
		locals:  make(map[resolve.BindingID]value.Value),
	}
	fe.allocas = f.NewBlock("entry")
	fe.cur = f.NewBlock("body")
	fe.allocas.NewBr(fe.cur)
	return fe
}

func (e *Emitter) emitFunc(fn *tast.Fn) error {
	f := e.funcs[fn.Const]
	fe := newFuncEmitter(e, f, fn.Ret)
	for i, p := range fn.Params {
		param := f.Params[i]
		slot, err := fe.slot(p.Ty)
		if err != nil {
			return err
		}
		fe.cur.NewStore(param, slot)
		fe.locals[p.Binding] = slot
	}

	v, err := fe.block(fn.Body)
	if err != nil {
		return err
	}
	if fe.live() {
		if e.isVoid(fn.Ret) {
			fe.cur.NewRet(nil)
		} else {
			fe.cur.NewRet(v)
		}
	}
	fe.seal()
	return nil
}

// seal terminates blocks nothing jumps out of; they are unreachable.
func (fe *funcEmitter) seal() {
	for _, b := range fe.fn.Blocks {
		if b.Term == nil {
			b.NewUnreachable()
		}
	}
}

func (fe *funcEmitter) live() bool { return fe.cur.Term == nil }

func (fe *funcEmitter) newBlock() *ir.Block { return fe.fn.NewBlock("") }

// slot allocates a stack slot for a value of type ty.
func (fe *funcEmitter) slot(ty types.TyID) (value.Value, error) {
	t, err := fe.emitter.llType(ty)
	if err != nil {
		return nil, err
	}
	a := fe.allocas.NewAlloca(t)
	if align, err := fe.emitter.tys.Align(ty); err == nil && align > 1 {
		a.Align = ir.Align(align)
	}
	return a, nil
}

// unitValue stands in for the value of expressions that produce none.
func (fe *funcEmitter) unitValue() value.Value {
	return constant.NewZeroInitializer(fe.emitter.unit)
}

func (fe *funcEmitter) undef(ty types.TyID) value.Value {
	t, err := fe.emitter.llType(ty)
	if err != nil {
		return fe.unitValue()
	}
	return constant.NewUndef(t)
}

// block lowers a block and runs its deferred statements when control falls
// off its end.
func (fe *funcEmitter) block(b *tast.Block) (value.Value, error) {
	fe.defers = append(fe.defers, nil)
	defer func() { fe.defers = fe.defers[:len(fe.defers)-1] }()

	for _, st := range b.Stmts {
		if !fe.live() {
			return fe.unitValue(), nil
		}
		if err := fe.stmt(st); err != nil {
			return nil, err
		}
	}
	v := fe.unitValue()
	if b.Tail != nil && fe.live() {
		var err error
		if v, err = fe.expr(b.Tail); err != nil {
			return nil, err
		}
	}
	if fe.live() {
		if err := fe.runDefers(len(fe.defers) - 1); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// runDefers emits the deferred statements of every open block from the
// innermost down to depth, newest first.
func (fe *funcEmitter) runDefers(depth int) error {
	for i := len(fe.defers) - 1; i >= depth; i-- {
		pending := fe.defers[i]
		for j := len(pending) - 1; j >= 0; j-- {
			if err := fe.stmt(pending[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (fe *funcEmitter) stmt(st *tast.Stmt) error {
	switch d := st.Data.(type) {
	case tast.LetData:
		v, err := fe.expr(d.Value)
		if err != nil || !fe.live() {
			return err
		}
		slot, err := fe.slot(fe.emitter.ctx.Binding(d.Binding).Ty)
		if err != nil {
			return err
		}
		fe.cur.NewStore(v, slot)
		fe.locals[d.Binding] = slot
		return nil

	case tast.DeferData:
		top := len(fe.defers) - 1
		fe.defers[top] = append(fe.defers[top], d.Stmt)
		return nil

	case tast.ExprStmtData:
		_, err := fe.expr(d.Expr)
		return err

	case tast.AssignData:
		return fe.assign(d)
	}
	return fmt.Errorf("unsupported statement %s", st.Kind)
}

func (fe *funcEmitter) assign(d tast.AssignData) error {
	dst, err := fe.place(d.Lhs)
	if err != nil {
		return err
	}
	rhs, err := fe.expr(d.Rhs)
	if err != nil || !fe.live() {
		return err
	}
	if d.Compound {
		t, err := fe.emitter.llType(d.Lhs.Ty)
		if err != nil {
			return err
		}
		lhs := fe.cur.NewLoad(t, dst)
		if rhs, err = fe.arith(d.Op, d.Lhs.Ty, lhs, d.Rhs.Ty, rhs); err != nil {
			return err
		}
	}
	fe.cur.NewStore(rhs, dst)
	return nil
}

// ifExpr lowers a conditional. A valued if writes each branch result into
// one stack slot read back at the join block.
func (fe *funcEmitter) ifExpr(x *tast.Expr, d tast.IfData) (value.Value, error) {
	cond, err := fe.expr(d.Cond)
	if err != nil || !fe.live() {
		return fe.undef(x.Ty), err
	}
	var result value.Value
	if !fe.emitter.isVoid(x.Ty) {
		if result, err = fe.slot(x.Ty); err != nil {
			return nil, err
		}
	}

	then, end := fe.newBlock(), fe.newBlock()
	els := end
	if d.Else != nil {
		els = fe.newBlock()
	}
	fe.cur.NewCondBr(cond, then, els)

	fe.cur = then
	v, err := fe.block(d.Then)
	if err != nil {
		return nil, err
	}
	fe.join(result, v, end)

	if d.Else != nil {
		fe.cur = els
		if v, err = fe.expr(d.Else); err != nil {
			return nil, err
		}
		fe.join(result, v, end)
	}

	fe.cur = end
	if result == nil {
		return fe.unitValue(), nil
	}
	t, err := fe.emitter.llType(x.Ty)
	if err != nil {
		return nil, err
	}
	return fe.cur.NewLoad(t, result), nil
}

func (fe *funcEmitter) join(result, v value.Value, end *ir.Block) {
	if !fe.live() {
		return
	}
	if result != nil {
		fe.cur.NewStore(v, result)
	}
	fe.cur.NewBr(end)
}

func (fe *funcEmitter) whileExpr(d tast.WhileData) (value.Value, error) {
	head, body, end := fe.newBlock(), fe.newBlock(), fe.newBlock()
	fe.cur.NewBr(head)

	fe.cur = head
	cond, err := fe.expr(d.Cond)
	if err != nil {
		return nil, err
	}
	if fe.live() {
		fe.cur.NewCondBr(cond, body, end)
	}

	fe.cur = body
	if err := fe.loopBody(d.Body, end, head); err != nil {
		return nil, err
	}
	fe.cur = end
	return fe.unitValue(), nil
}

func (fe *funcEmitter) forExpr(d tast.ForData) (value.Value, error) {
	if d.Init != nil {
		if err := fe.stmt(d.Init); err != nil {
			return nil, err
		}
	}
	head, body, step, end := fe.newBlock(), fe.newBlock(), fe.newBlock(), fe.newBlock()
	fe.cur.NewBr(head)

	fe.cur = head
	if d.Cond != nil {
		cond, err := fe.expr(d.Cond)
		if err != nil {
			return nil, err
		}
		if fe.live() {
			fe.cur.NewCondBr(cond, body, end)
		}
	} else {
		fe.cur.NewBr(body)
	}

	fe.cur = body
	if err := fe.loopBody(d.Body, end, step); err != nil {
		return nil, err
	}

	fe.cur = step
	if d.Step != nil {
		if err := fe.stmt(d.Step); err != nil {
			return nil, err
		}
	}
	if fe.live() {
		fe.cur.NewBr(head)
	}
	fe.cur = end
	return fe.unitValue(), nil
}

// closeInfinite ends the exit block of a loop that never completes.
func (fe *funcEmitter) closeInfinite(loop *tast.Expr) {
	if fe.emitter.tys.IsDiverge(loop.Ty) && fe.live() {
		fe.cur.NewUnreachable()
	}
}

func (fe *funcEmitter) loopBody(body *tast.Block, brk, cont *ir.Block) error {
	fe.loops = append(fe.loops, loopTarget{brk: brk, cont: cont, depth: len(fe.defers)})
	defer func() { fe.loops = fe.loops[:len(fe.loops)-1] }()
	if _, err := fe.block(body); err != nil {
		return err
	}
	if fe.live() {
		fe.cur.NewBr(cont)
	}
	return nil
}

// jump lowers break and continue, running the defers of the blocks left.
func (fe *funcEmitter) jump(kind tast.ExprKind) error {
	if len(fe.loops) == 0 {
		return fmt.Errorf("%s outside of a loop", kind)
	}
	loop := fe.loops[len(fe.loops)-1]
	if err := fe.runDefers(loop.depth); err != nil {
		return err
	}
	if kind == tast.ExprBreak {
		fe.cur.NewBr(loop.brk)
	} else {
		fe.cur.NewBr(loop.cont)
	}
	return nil
}

func (fe *funcEmitter) returnExpr(d tast.ReturnData) error {
	var v value.Value
	if d.Value != nil {
		var err error
		if v, err = fe.expr(d.Value); err != nil || !fe.live() {
			return err
		}
	}
	if err := fe.runDefers(0); err != nil {
		return err
	}
	if fe.emitter.isVoid(fe.ret) {
		fe.cur.NewRet(nil)
	} else {
		fe.cur.NewRet(v)
	}
	return nil
}

// materialize spills a value to a fresh slot so it can be addressed.
func (fe *funcEmitter) materialize(v value.Value, ty types.TyID) (value.Value, error) {
	slot, err := fe.slot(ty)
	if err != nil {
		return nil, err
	}
	fe.cur.NewStore(v, slot)
	return slot, nil
}

func zero(t lltypes.Type) constant.Constant {
	return constant.NewZeroInitializer(t)
}
