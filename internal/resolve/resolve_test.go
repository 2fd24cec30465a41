package resolve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/fixpoint"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/layout"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

type fixture struct {
	ctx  *Context
	syms *symbol.Table
	root ModuleID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	syms := symbol.NewTable()
	ctx := New(syms, layout.X86_64LinuxGNU())
	root, err := ctx.AddCrate(syms.Intern("app"))
	require.NoError(t, err)
	return &fixture{ctx: ctx, syms: syms, root: root}
}

func (f *fixture) sym(s string) symbol.Symbol { return f.syms.Intern(s) }

func (f *fixture) path(parts ...string) []symbol.Symbol {
	out := make([]symbol.Symbol, len(parts))
	for i, p := range parts {
		out[i] = f.sym(p)
	}
	return out
}

func requireKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	re, ok := AsError(err)
	require.Truef(t, ok, "expected *Error, got %v", err)
	require.Equal(t, kind, re.Kind, "error: %v", err)
	return re
}

func TestDeclareItemRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.ctx.DeclareStruct(f.root, true, f.sym("Point"))
	require.NoError(t, err)

	_, err = f.ctx.DeclareAlias(f.root, false, f.sym("Point"))
	re := requireKind(t, err, SymbolAlreadyDefined)
	require.Equal(t, "app.Point", f.ctx.JoinPath(re.Path))

	// the same name in another module is a different path
	util, err := f.ctx.DeclareModule(f.root, true, f.sym("util"))
	require.NoError(t, err)
	_, _, err = f.ctx.DeclareStruct(util, true, f.sym("Point"))
	require.NoError(t, err)
}

func TestItemPathsAreInterned(t *testing.T) {
	f := newFixture(t)
	util, err := f.ctx.DeclareModule(f.root, true, f.sym("util"))
	require.NoError(t, err)
	id, _, err := f.ctx.DeclareConst(util, true, f.sym("N"))
	require.NoError(t, err)

	got, ok := f.ctx.LookupItem(f.path("app", "util", "N"))
	require.True(t, ok)
	require.Equal(t, id, got)
	require.Equal(t, "app.util.N", f.ctx.PathString(id))

	fromRoot, err := f.ctx.ResolvePath(ModuleScope(f.root), f.path("util", "N"))
	require.NoError(t, err)
	require.Equal(t, id, fromRoot)
}

func TestResolvePathVisibility(t *testing.T) {
	f := newFixture(t)
	util, err := f.ctx.DeclareModule(f.root, true, f.sym("util"))
	require.NoError(t, err)
	_, err = f.ctx.DeclareAlias(util, true, f.sym("Id"))
	require.NoError(t, err)
	secret, err := f.ctx.DeclareAlias(util, false, f.sym("secret"))
	require.NoError(t, err)
	inner, err := f.ctx.DeclareModule(util, false, f.sym("inner"))
	require.NoError(t, err)

	_, err = f.ctx.ResolvePath(ModuleScope(f.root), f.path("util", "Id"))
	require.NoError(t, err)

	_, err = f.ctx.ResolvePath(ModuleScope(f.root), f.path("util", "secret"))
	requireKind(t, err, SymbolNotPublic)

	// descendants see private members of their ancestors
	got, err := f.ctx.ResolvePath(ModuleScope(inner), f.path("super", "secret"))
	require.NoError(t, err)
	require.Equal(t, secret, got)
	got, err = f.ctx.ResolvePath(ModuleScope(inner), f.path("crate", "util", "secret"))
	require.NoError(t, err)
	require.Equal(t, secret, got)

	_, err = f.ctx.ResolvePath(ModuleScope(f.root), f.path("util", "inner"))
	requireKind(t, err, SymbolNotPublic)

	_, err = f.ctx.ResolvePath(ModuleScope(f.root), f.path("util", "missing"))
	re := requireKind(t, err, SymbolNotFound)
	require.True(t, re.Retryable())
}

func TestTooManySuperKeywords(t *testing.T) {
	f := newFixture(t)
	util, err := f.ctx.DeclareModule(f.root, true, f.sym("util"))
	require.NoError(t, err)

	_, err = f.ctx.ResolvePath(ModuleScope(f.root), f.path("super", "x"))
	requireKind(t, err, TooManySuperKeywords)
	_, err = f.ctx.ResolvePath(ModuleScope(util), f.path("super", "super", "x"))
	re := requireKind(t, err, TooManySuperKeywords)
	require.False(t, re.Retryable())

	got, err := f.ctx.ResolvePath(ModuleScope(util), f.path("super"))
	require.NoError(t, err)
	require.Equal(t, f.ctx.Module(f.root).Item, got)
}

func TestPathThroughNonModule(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.ctx.DeclareStruct(f.root, true, f.sym("Point"))
	require.NoError(t, err)
	_, err = f.ctx.ResolvePath(ModuleScope(f.root), f.path("Point", "x"))
	requireKind(t, err, SymbolNotModule)
}

func TestShadowing(t *testing.T) {
	f := newFixture(t)
	x := f.sym("x")
	outer := f.ctx.AddFrame(ModuleScope(f.root))
	parentX, err := f.ctx.InsertLocalBinding(outer, Immutable, x)
	require.NoError(t, err)

	inner := f.ctx.AddFrame(FrameScope(outer))
	childX, err := f.ctx.InsertLocalBinding(inner, Mutable, x)
	require.NoError(t, err)

	res, err := f.ctx.GetSymbol(FrameScope(inner), x)
	require.NoError(t, err)
	require.Equal(t, ResolvedBinding, res.Kind)
	require.Equal(t, childX, res.Binding)

	res, err = f.ctx.GetSymbol(FrameScope(outer), x)
	require.NoError(t, err)
	require.Equal(t, parentX, res.Binding)

	_, err = f.ctx.InsertLocalBinding(inner, Immutable, x)
	requireKind(t, err, SymbolAlreadyDefined)
}

func TestLetInitializerSeesOldFrame(t *testing.T) {
	f := newFixture(t)
	x := f.sym("x")
	body := f.ctx.AddFrame(ModuleScope(f.root))
	first, err := f.ctx.InsertLocalBinding(body, Immutable, x)
	require.NoError(t, err)

	// `x := x + 1;` resolves its initializer before the new frame exists
	init, err := f.ctx.GetSymbol(FrameScope(body), x)
	require.NoError(t, err)
	next := f.ctx.AddFrame(FrameScope(body))
	second, err := f.ctx.InsertLocalBinding(next, Immutable, x)
	require.NoError(t, err)

	require.Equal(t, first, init.Binding)
	after, err := f.ctx.GetSymbol(FrameScope(next), x)
	require.NoError(t, err)
	require.Equal(t, second, after.Binding)
}

func TestGetSymbolFallsBackToModule(t *testing.T) {
	f := newFixture(t)
	_, c, err := f.ctx.DeclareConst(f.root, false, f.sym("N"))
	require.NoError(t, err)
	_, pointTy, err := f.ctx.DeclareStruct(f.root, false, f.sym("Point"))
	require.NoError(t, err)
	util, err := f.ctx.DeclareModule(f.root, false, f.sym("util"))
	require.NoError(t, err)

	frame := f.ctx.AddFrame(FrameScope(f.ctx.AddFrame(ModuleScope(f.root))))
	res, err := f.ctx.GetSymbol(FrameScope(frame), f.sym("N"))
	require.NoError(t, err)
	require.Equal(t, ResolvedConst, res.Kind)
	require.Equal(t, c, res.Const)

	res, err = f.ctx.GetSymbol(FrameScope(frame), f.sym("Point"))
	require.NoError(t, err)
	require.Equal(t, ResolvedTy, res.Kind)
	require.Equal(t, pointTy, res.Ty)

	res, err = f.ctx.GetSymbol(FrameScope(frame), f.sym("util"))
	require.NoError(t, err)
	require.Equal(t, ResolvedModule, res.Kind)
	require.Equal(t, util, res.Module)

	res, err = f.ctx.GetSymbol(FrameScope(frame), symbol.TyU16)
	require.NoError(t, err)
	require.Equal(t, f.ctx.Builtins().U16, res.Ty)

	_, err = f.ctx.GetSymbol(FrameScope(frame), f.sym("nope"))
	requireKind(t, err, SymbolNotFound)
}

func TestBindingTypeIsSetOnce(t *testing.T) {
	f := newFixture(t)
	frame := f.ctx.AddFrame(ModuleScope(f.root))
	b, err := f.ctx.InsertLocalBinding(frame, Mutable, f.sym("i"))
	require.NoError(t, err)
	require.True(t, f.ctx.Types().IsInfer(f.ctx.Binding(b).Ty))

	f.ctx.SetBindingTy(b, f.ctx.Builtins().Usize)
	require.Equal(t, f.ctx.Builtins().Usize, f.ctx.Binding(b).Ty)
	require.Panics(t, func() { f.ctx.SetBindingTy(b, f.ctx.Builtins().I32) })
}

func TestAliasWaitsForDefinition(t *testing.T) {
	f := newFixture(t)
	size, err := f.ctx.DeclareAlias(f.root, true, f.sym("Size"))
	require.NoError(t, err)

	_, err = f.ctx.ResolveTyPath(ModuleScope(f.root), f.path("Size"))
	re := requireKind(t, err, TyNotDefined)
	require.True(t, fixpoint.IsRetryable(re))

	require.NoError(t, f.ctx.DefineAlias(size, f.ctx.Builtins().Usize))
	ty, err := f.ctx.ResolveTyPath(ModuleScope(f.root), f.path("Size"))
	require.NoError(t, err)
	require.Equal(t, f.ctx.Builtins().Usize, ty)

	requireKind(t, f.ctx.DefineAlias(size, f.ctx.Builtins().U8), SymbolAlreadyDefined)
}

func TestUnifyRoundTrip(t *testing.T) {
	f := newFixture(t)
	b := f.ctx.Builtins()
	tys := f.ctx.Types()
	variant := tys.Variant([]types.TyID{b.I32, b.F64})
	definable := []types.TyID{b.Unit, b.Bool, b.I8, b.Usize, b.F32, tys.Ptr(b.I32, true), variant}

	for _, ty := range definable {
		got, method, err := f.ctx.Unify(ty, b.Infer)
		require.NoError(t, err)
		require.Equal(t, ty, got)
		require.Equal(t, Direct, method)

		got, method, err = f.ctx.Unify(ty, ty)
		require.NoError(t, err)
		require.Equal(t, ty, got)
		require.Equal(t, Direct, method)
	}

	got, method, err := f.ctx.Unify(b.I32, variant)
	require.NoError(t, err)
	require.Equal(t, b.I32, got)
	require.Equal(t, Wrap, method)

	_, _, err = f.ctx.Unify(b.I32, b.U32)
	re := requireKind(t, err, TyMismatch)
	require.Equal(t, b.I32, re.Found)
	require.Equal(t, b.U32, re.Expected)
	require.Equal(t, "mismatched types: expected `u32`, found `i32`", f.ctx.Describe(err))

	_, _, err = f.ctx.Unify(b.Bool, variant)
	requireKind(t, err, TyMismatch)

	_, _, err = f.ctx.Unify(b.Module, b.Infer)
	requireKind(t, err, TyMismatch)
}

func TestUnifyPlaceholders(t *testing.T) {
	f := newFixture(t)
	b := f.ctx.Builtins()

	got, _, err := f.ctx.Unify(b.U64, b.InferInt)
	require.NoError(t, err)
	require.Equal(t, b.U64, got)

	got, _, err = f.ctx.Unify(b.InferInt, b.U64)
	require.NoError(t, err)
	require.Equal(t, b.U64, got)

	got, _, err = f.ctx.Unify(b.InferInt, b.InferNumber)
	require.NoError(t, err)
	require.Equal(t, b.InferInt, got)

	_, _, err = f.ctx.Unify(b.InferInt, b.Infer)
	requireKind(t, err, TyMismatch)
	_, _, err = f.ctx.Unify(b.InferEmptyArray, b.Infer)
	requireKind(t, err, TyMismatch)

	_, _, err = f.ctx.Unify(b.Bool, b.InferNumber)
	requireKind(t, err, TyMismatch)
	got, _, err = f.ctx.Unify(b.Bool, b.InferIntOrBool)
	require.NoError(t, err)
	require.Equal(t, b.Bool, got)
}

func TestDivergeUnifiesWithAnything(t *testing.T) {
	f := newFixture(t)
	b := f.ctx.Builtins()
	for _, expected := range []types.TyID{b.I32, b.Bool, f.ctx.Types().Slice(b.U8, false)} {
		got, method, err := f.ctx.Unify(b.Diverge, expected)
		require.NoError(t, err)
		require.Equal(t, expected, got)
		require.Equal(t, Direct, method)
	}
	got, _, err := f.ctx.Unify(b.Diverge, b.Infer)
	require.NoError(t, err)
	require.Equal(t, b.Diverge, got)
}

func TestAddExprUnified(t *testing.T) {
	f := newFixture(t)
	b := f.ctx.Builtins()
	id, method, err := f.ctx.AddExprUnified(b.InferInt, b.I64, Rvalue)
	require.NoError(t, err)
	require.Equal(t, Direct, method)
	require.Equal(t, Expr{Kind: Rvalue, Ty: b.I64}, f.ctx.Expr(id))

	before := f.ctx.NumExprs()
	_, _, err = f.ctx.AddExprUnified(b.Bool, b.I64, Rvalue)
	requireKind(t, err, TyMismatch)
	require.Equal(t, before, f.ctx.NumExprs(), "failed unification must not add an expression")
}

func TestIntLiteralPolicy(t *testing.T) {
	f := newFixture(t)
	b := f.ctx.Builtins()
	tys := f.ctx.Types()
	tests := []struct {
		name     string
		value    *big.Int
		expected types.TyID
		want     types.TyID
		kind     ErrorKind
	}{
		{"default", big.NewInt(7), b.Infer, b.I32, 0},
		{"default wide", big.NewInt(1 << 40), b.InferNumber, b.I64, 0},
		{"expected int", big.NewInt(200), b.U8, b.U8, 0},
		{"expected float", big.NewInt(2), b.F32, b.F32, 0},
		{"variant int member", big.NewInt(1), tys.Variant([]types.TyID{b.U8, b.Bool}), b.U8, 0},
		{"variant int member range", big.NewInt(300), tys.Variant([]types.TyID{b.U8, b.Bool}), 0, LiteralOutOfRange},
		{"variant float member", big.NewInt(2), tys.Variant([]types.TyID{b.F32, b.Bool}), b.F32, 0},
		{"variant falls back", big.NewInt(1), tys.Variant([]types.TyID{b.I8, b.U16}), b.I32, 0},
		{"too big for u8", big.NewInt(256), b.U8, 0, LiteralOutOfRange},
		{"negative unsigned", big.NewInt(-1), b.Usize, 0, LiteralOutOfRange},
		{"too big for i64", new(big.Int).Lsh(big.NewInt(1), 64), b.Infer, 0, LiteralOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ctx.IntLiteralTy(tt.value, tt.expected)
			if tt.kind != 0 {
				requireKind(t, err, tt.kind)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
	require.Equal(t, b.F64, f.ctx.FloatLiteralTy(b.Infer))
	require.Equal(t, b.F32, f.ctx.FloatLiteralTy(b.F32))
	require.Equal(t, b.F32, f.ctx.FloatLiteralTy(tys.Variant([]types.TyID{b.I32, b.F32})))
	require.Equal(t, b.F64, f.ctx.FloatLiteralTy(tys.Variant([]types.TyID{b.F32, b.F64})))
}

func TestIntRange(t *testing.T) {
	f := newFixture(t)
	lo, hi := f.ctx.IntRange(types.I8)
	require.Equal(t, int64(-128), lo.Int64())
	require.Equal(t, int64(127), hi.Int64())
	lo, hi = f.ctx.IntRange(types.U128)
	require.Equal(t, 0, lo.Sign())
	require.Equal(t, 128, hi.BitLen())
}

func TestUnknownAbi(t *testing.T) {
	f := newFixture(t)
	_, c, err := f.ctx.DeclareConst(f.root, true, f.sym("puts"))
	require.NoError(t, err)
	fnTy := f.ctx.Types().Fn([]types.TyID{f.ctx.Builtins().CStr}, f.ctx.Builtins().I32, false)

	err = f.ctx.DefineFn(c, fnTy, true, f.sym("stdcall"))
	requireKind(t, err, UnknownAbi)
	require.NoError(t, f.ctx.DefineFn(c, fnTy, true, symbol.AbiC))
	require.Equal(t, ConstFn, f.ctx.Const(c).Value.Kind)
	requireKind(t, f.ctx.DefineConst(c, fnTy, IntValue(big.NewInt(1))), SymbolAlreadyDefined)
}

// import describes `use <path> as <sym>;` inside module.
type importReq struct {
	module   ModuleID
	exported bool
	sym      symbol.Symbol
	path     []symbol.Symbol
}

func (f *fixture) importAttempt(imp importReq) error {
	target, err := f.ctx.ResolvePath(ModuleScope(imp.module), imp.path)
	if err != nil {
		return err
	}
	return f.ctx.ImportItem(imp.module, imp.exported, imp.sym, target)
}

func TestImportFixpointChain(t *testing.T) {
	f := newFixture(t)
	ma, err := f.ctx.DeclareModule(f.root, true, f.sym("ma"))
	require.NoError(t, err)
	mb, err := f.ctx.DeclareModule(f.root, true, f.sym("mb"))
	require.NoError(t, err)
	mc, err := f.ctx.DeclareModule(f.root, true, f.sym("mc"))
	require.NoError(t, err)
	item, _, err := f.ctx.DeclareStruct(mc, true, f.sym("T"))
	require.NoError(t, err)

	T := f.sym("T")
	imports := []importReq{
		{f.root, false, T, f.path("crate", "ma", "T")},
		{ma, true, T, f.path("crate", "mb", "T")},
		{mb, true, T, f.path("crate", "mc", "T")},
	}
	rep := fixpoint.Run(imports, f.importAttempt)
	require.True(t, rep.Done(), "report: %+v", rep)
	require.LessOrEqual(t, rep.Passes, 3)

	got, err := f.ctx.ResolvePath(ModuleScope(f.root), f.path("T"))
	require.NoError(t, err)
	require.Equal(t, item, got)
}

func TestImportFixpointCircular(t *testing.T) {
	f := newFixture(t)
	ma, err := f.ctx.DeclareModule(f.root, true, f.sym("ma"))
	require.NoError(t, err)
	mb, err := f.ctx.DeclareModule(f.root, true, f.sym("mb"))
	require.NoError(t, err)

	U := f.sym("U")
	imports := []importReq{
		{ma, true, U, f.path("crate", "mb", "U")},
		{mb, true, U, f.path("crate", "ma", "U")},
	}
	rep := fixpoint.Run(imports, f.importAttempt)
	require.Len(t, rep.Unresolved, 2)
	require.Empty(t, rep.Failed)
	require.Equal(t, 1, rep.Passes)
	for _, u := range rep.Unresolved {
		requireKind(t, u.Err, SymbolNotFound)
	}
}

func TestImportConflictsWithDeclaration(t *testing.T) {
	f := newFixture(t)
	item, _, err := f.ctx.DeclareStruct(f.root, true, f.sym("Point"))
	require.NoError(t, err)
	err = f.ctx.ImportItem(f.root, false, f.sym("Point"), item)
	requireKind(t, err, SymbolAlreadyDefined)
}

func TestDefineStructThroughContext(t *testing.T) {
	f := newFixture(t)
	_, a, err := f.ctx.DeclareStruct(f.root, true, f.sym("A"))
	require.NoError(t, err)
	_, bTy, err := f.ctx.DeclareStruct(f.root, true, f.sym("B"))
	require.NoError(t, err)

	err = f.ctx.DefineStruct(a, []types.Field{{Sym: f.sym("b"), Ty: bTy}})
	re := requireKind(t, err, TyNotDefined)
	require.True(t, re.Retryable())

	err = f.ctx.DefineStruct(bTy, []types.Field{{Sym: f.sym("a"), Ty: a}})
	re = requireKind(t, err, TyDefine)
	require.False(t, re.Retryable())
	require.Equal(t, "struct `B` has infinite size (B -> A -> B)", f.ctx.Describe(err))
}
