package astgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/ast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/astgen"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/lexer"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/parser"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/tast"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

const sample = `
export use util.Id as Ident;
export Point :: struct { x: i32, y: i32 };
Color :: enum(u8) { Red, Green = 4, Blue };
Size :: alias usize;
Number :: alias i32 | f64;
util :: module { export Id :: alias u32; };
N :: 4;
M : u64 : N * 2;
mut counter : i32 = 0;
puts :: extern "C" fn(s: [*]u8, ...) -> i32;
export main :: fn() -> i32 {
    p := Point { x = 1, y = 2 };
    mut i : usize = 0;
    defer i = 0;
    while i < N { i += 1; }
    for mut j := 0; j < 3; j += 1 { counter += j; }
    q : *Point = &p;
    return offset_of(Point, y) as i32 + q.x + size_of([N]i32) as i32;
};
`

type result struct {
	ctx  *resolve.Context
	syms *symbol.Table
	gen  *astgen.Generator
	pkg  *tast.Package
	bag  *diag.Bag
}

func generate(t *testing.T, src string) result {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("main.cl", []byte(src)))
	syms := symbol.NewTable()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, syms, lexer.Options{Reporter: rep})
	tree := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lx, syms, tree, parser.Options{Reporter: rep})
	require.Nil(t, res.Err, "syntax error: %v", res.Err)

	ctx := resolve.New(syms, layout.X86_64LinuxGNU())
	gen := astgen.New(ctx, tree, astgen.Options{Reporter: rep})
	pkg := gen.Run(astgen.Crate{Name: syms.Intern("app"), Root: res.File})
	return result{ctx: ctx, syms: syms, gen: gen, pkg: pkg, bag: bag}
}

func (r result) requireClean(t *testing.T) {
	t.Helper()
	for _, d := range r.bag.Items() {
		t.Errorf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
	}
	require.Zero(t, r.gen.Errors())
}

func (r result) codes() []diag.Code {
	var out []diag.Code
	for _, d := range r.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func (r result) fn(t *testing.T, name string) *tast.Fn {
	t.Helper()
	for _, f := range r.pkg.Fns {
		if r.ctx.PathString(f.Item) == "app."+name {
			return f
		}
	}
	t.Fatalf("function %s not generated", name)
	return nil
}

func (r result) ty(t *testing.T, name string) types.TyID {
	t.Helper()
	ty, err := r.ctx.ResolveTyPath(resolve.ModuleScope(r.pkg.Crate), []symbol.Symbol{r.syms.Intern(name)})
	require.NoError(t, err)
	return ty
}

// returned digs the value out of the last statement of fn, a return.
func returned(t *testing.T, fn *tast.Fn) *tast.Expr {
	t.Helper()
	require.NotNil(t, fn.Body)
	require.NotEmpty(t, fn.Body.Stmts)
	last := fn.Body.Stmts[len(fn.Body.Stmts)-1]
	es, ok := last.Data.(tast.ExprStmtData)
	require.True(t, ok, "last statement is %s", last.Kind)
	require.Equal(t, tast.ExprReturn, es.Expr.Kind)
	return es.Expr.Data.(tast.ReturnData).Value
}

func intValue(t *testing.T, e *tast.Expr) int64 {
	t.Helper()
	require.Equal(t, tast.ExprIntValue, e.Kind)
	return e.Data.(tast.IntValueData).Value.Int64()
}

func TestGenerateSample(t *testing.T) {
	r := generate(t, sample)
	r.requireClean(t)

	point := r.ty(t, "Point")
	lay, err := r.ctx.Types().Layout(point)
	require.NoError(t, err)
	require.Equal(t, uint64(8), lay.Size)
	require.Equal(t, uint64(4), lay.Align)

	require.Len(t, r.pkg.Consts, 2)
	m := r.pkg.Consts[1]
	require.Equal(t, r.ctx.Builtins().U64, m.Ty)
	require.Equal(t, int64(8), intValue(t, m.Value))

	require.Len(t, r.pkg.Globals, 1)
	require.True(t, r.pkg.Globals[0].Mutable)

	puts := r.fn(t, "puts")
	require.True(t, puts.Extern)
	require.Nil(t, puts.Body)

	main := r.fn(t, "main")
	require.True(t, main.Exported)
	sum := returned(t, main)
	require.Equal(t, tast.ExprBinary, sum.Kind)
	require.Equal(t, r.ctx.Builtins().I32, sum.Ty)

	outer := sum.Data.(tast.BinaryData)
	inner := outer.Lhs.Data.(tast.BinaryData)
	offset := inner.Lhs.Data.(tast.CastData).Value
	require.Equal(t, int64(4), intValue(t, offset))

	field := inner.Rhs
	require.Equal(t, tast.ExprField, field.Kind)
	require.Equal(t, tast.ExprDeref, field.Data.(tast.FieldData).Base.Kind)

	size := outer.Rhs.Data.(tast.CastData).Value
	require.Equal(t, int64(16), intValue(t, size))
}

func TestLetShadowsWithoutSeeingItself(t *testing.T) {
	r := generate(t, `
f :: fn() -> i64 {
    x := 2;
    x := x as i64;
    return x;
};
`)
	r.requireClean(t)
	f := r.fn(t, "f")
	require.Len(t, f.Body.Stmts, 3)

	first := f.Body.Stmts[0].Data.(tast.LetData)
	second := f.Body.Stmts[1].Data.(tast.LetData)
	require.NotEqual(t, first.Binding, second.Binding)
	require.Equal(t, r.ctx.Builtins().I32, r.ctx.Binding(first.Binding).Ty)
	require.Equal(t, r.ctx.Builtins().I64, r.ctx.Binding(second.Binding).Ty)

	// the initializer of the second x reads the first one
	cast := second.Value.Data.(tast.CastData)
	require.Equal(t, first.Binding, cast.Value.Data.(tast.BindingRefData).Binding)

	ret := returned(t, f)
	require.Equal(t, second.Binding, ret.Data.(tast.BindingRefData).Binding)
}

func TestImportsResolveInAnyOrder(t *testing.T) {
	r := generate(t, `
use a.B as C;
a :: module { export use crate.b.D as B; };
b :: module { export D :: alias i32; };
f :: fn() -> C { return 1; };
`)
	r.requireClean(t)
	require.GreaterOrEqual(t, r.gen.Stats().ImportPasses, 2)
	require.Equal(t, r.ctx.Builtins().I32, r.fn(t, "f").Ret)
}

func TestCircularImportsAreUnresolved(t *testing.T) {
	r := generate(t, `
use a.X as Y;
a :: module { export use crate.Y as X; };
`)
	require.Equal(t, 2, r.gen.Errors())
	for _, d := range r.bag.Items() {
		require.True(t, strings.HasPrefix(d.Message, "unresolved import"), d.Message)
		require.Len(t, d.Notes, 1)
	}
}

func TestDefinitionsInAnyOrder(t *testing.T) {
	r := generate(t, `
Outer :: struct { inner: Inner, tag: Tag };
Tag :: alias u8;
Inner :: struct { buf: [LEN]u16 };
LEN :: SIZE / 2;
SIZE :: 6;
`)
	r.requireClean(t)
	lay, err := r.ctx.Types().Layout(r.ty(t, "Outer"))
	require.NoError(t, err)
	require.Equal(t, uint64(8), lay.Size)
	require.Equal(t, uint64(2), lay.Align)
	require.Greater(t, r.gen.Stats().DefinePasses, 1)
}

func TestEnumVariantsAndUntypedConsts(t *testing.T) {
	r := generate(t, `
Color :: enum(u8) { Red, Green = 4, Blue };
N :: 300;
f :: fn() -> u8 { c := Color.Blue; return c as u8; };
g :: fn() -> u16 { return N; };
h :: fn() -> u8 { return N; };
`)
	require.Equal(t, []diag.Code{diag.SemaLiteralOutOfRange}, r.codes())

	f := r.fn(t, "f")
	let := f.Body.Stmts[0].Data.(tast.LetData)
	require.Equal(t, r.ty(t, "Color"), let.Value.Ty)
	require.Equal(t, int64(5), intValue(t, let.Value))

	require.Equal(t, int64(300), intValue(t, returned(t, r.fn(t, "g"))))
}

func TestBodyErrorsAreReported(t *testing.T) {
	r := generate(t, `
f :: fn() -> i32 { x := true; return x; };
g :: fn() { y := 1; y = 2; };
h :: fn() { break; };
k :: fn() { p := Point { x = 1 }; };
Point :: struct { x: i32, y: i32 };
`)
	require.ElementsMatch(t, []diag.Code{
		diag.SemaTyMismatch,
		diag.SemaNotAssignable,
		diag.SemaOutsideLoop,
		diag.SemaFieldNotFound,
	}, r.codes())
}

func TestUseOfFailedBindingIsSilent(t *testing.T) {
	r := generate(t, `
f :: fn() -> i32 {
    x := missing;
    return x + 1;
};
`)
	require.Equal(t, []diag.Code{diag.SemaSymbolNotFound}, r.codes())
}

func TestVariantWrapsMember(t *testing.T) {
	r := generate(t, `
Number :: alias i32 | f64;
f :: fn() -> Number { return 1.5; };
`)
	r.requireClean(t)
	v := returned(t, r.fn(t, "f"))
	require.Equal(t, tast.ExprWrap, v.Kind)
	require.Equal(t, r.ctx.Builtins().F64, v.Data.(tast.WrapData).Value.Ty)
}

func TestFailedStatementsAreReportedOnce(t *testing.T) {
	r := generate(t, `
f :: fn() -> i32 { return missing; };
g :: fn() -> i32 { x : i32 = true; return 1; };
h :: fn() -> i32 { missing; };
k :: fn() -> i32 { while true { y := missing; } };
`)
	require.ElementsMatch(t, []diag.Code{
		diag.SemaSymbolNotFound,
		diag.SemaTyMismatch,
		diag.SemaSymbolNotFound,
		diag.SemaSymbolNotFound,
	}, r.codes())

	// the return after the failed let still makes g diverge
	g := r.fn(t, "g")
	require.Equal(t, r.ctx.Builtins().I32, returned(t, g).Ty)
}

func TestInfiniteLoopsDiverge(t *testing.T) {
	r := generate(t, `
a :: fn() -> i32 { for ;; { } };
b :: fn() -> i32 { while true { } };
c :: fn(x: bool) -> i32 { if x { 1 } else { for ;; { } } };
d :: fn() -> i32 { while true { for ;; { break; } } };
`)
	r.requireClean(t)

	loop := r.fn(t, "a").Body.Stmts[0].Data.(tast.ExprStmtData).Expr
	require.Equal(t, tast.ExprFor, loop.Kind)
	require.True(t, r.ctx.Types().IsDiverge(loop.Ty))

	outer := r.fn(t, "d").Body.Stmts[0].Data.(tast.ExprStmtData).Expr
	require.True(t, r.ctx.Types().IsDiverge(outer.Ty))
	inner := outer.Data.(tast.WhileData).Body.Stmts[0].Data.(tast.ExprStmtData).Expr
	require.Equal(t, r.ctx.Builtins().Unit, inner.Ty)
}

func TestLoopsThatMayEndAreUnit(t *testing.T) {
	r := generate(t, `
a :: fn() -> i32 { for ;; { break; } };
b :: fn(x: bool) -> i32 { while x { } };
c :: fn() -> i32 { for mut i := 0; i < 3; i += 1 { } };
`)
	require.Equal(t, []diag.Code{diag.SemaTyMismatch, diag.SemaTyMismatch, diag.SemaTyMismatch}, r.codes())
}

func TestEqualityUsesComparableTypes(t *testing.T) {
	r := generate(t, `
Color :: enum { Red, Blue };
a :: fn(p: *i32, q: *i32) -> bool { return p == q; };
b :: fn() -> bool { return Color.Red != Color.Blue; };
c :: fn(s: []u8, t: []u8) -> bool { return s == t; };
d :: fn(p: *i32, q: *i32) -> bool { return p < q; };
`)
	require.Equal(t, []diag.Code{diag.SemaInvalidOperand}, r.codes())
	r.fn(t, "a")
	r.fn(t, "b")
	r.fn(t, "d")
}

func TestQualifiedConstantPaths(t *testing.T) {
	r := generate(t, `
util :: module { export N :: 3; export S :: struct { x: i32 }; };
f :: fn() -> usize { return size_of([util.N]u8); };
g :: fn() -> usize { return size_of([util.S]u8); };
`)
	require.Equal(t, []diag.Code{diag.SemaSymbolNotConst}, r.codes())
	require.Equal(t, int64(3), intValue(t, returned(t, r.fn(t, "f"))))
}
