package astgen

import (
	"errors"
	"fmt"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/fixpoint"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// errSilent marks failures that were already reported, such as uses of a
// binding whose initializer failed.
var errSilent = errors.New("already reported")

// Error is a generation failure tied to a span. Code and Msg are set for
// failures found by the generator itself; otherwise Err carries a resolve or
// types error and both are derived from it.
type Error struct {
	Span  source.Span
	Code  diag.Code
	Msg   string
	Err   error
	retry bool
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code.Title()
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable lets fixpoint passes requeue the entry that failed.
func (e *Error) Retryable() bool {
	return e.retry || fixpoint.IsRetryable(e.Err)
}

// errAt attaches sp to err unless err already carries a span.
func errAt(sp source.Span, err error) error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) || errors.Is(err, errSilent) {
		return err
	}
	return &Error{Span: sp, Err: err}
}

func errorf(sp source.Span, code diag.Code, format string, args ...any) error {
	return &Error{Span: sp, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// pending builds a retryable failure for something defined by a later
// entry of the same pass.
func pending(sp source.Span, code diag.Code, format string, args ...any) error {
	return &Error{Span: sp, Code: code, Msg: fmt.Sprintf(format, args...), retry: true}
}

// report emits err as a diagnostic. fallback is used when err carries no
// span of its own.
func (g *Generator) report(fallback source.Span, err error) {
	if err == nil || errors.Is(err, errSilent) {
		return
	}
	sp := fallback
	code, msg := diag.SemaInfo, ""
	var ge *Error
	if errors.As(err, &ge) {
		sp = ge.Span
		code, msg = ge.Code, ge.Msg
	}
	if msg == "" {
		code, msg = g.classify(err)
	}
	g.errors++
	diag.ReportError(g.opts.Reporter, code, sp, msg).Emit()
}

// reportUnresolved reports an entry left over by a fixpoint pass.
func (g *Generator) reportUnresolved(sp source.Span, what string, err error) {
	if errors.Is(err, errSilent) {
		return
	}
	var ge *Error
	if errors.As(err, &ge) {
		sp = ge.Span
	}
	code, msg := g.classify(err)
	if ge != nil && ge.Msg != "" {
		code, msg = ge.Code, ge.Msg
	}
	g.errors++
	diag.ReportError(g.opts.Reporter, code, sp, fmt.Sprintf("unresolved %s: %s", what, msg)).
		WithNote(sp, "no other declaration could make progress; the dependency is missing or circular").
		Emit()
}

// classify maps resolve and types errors to a code and a readable message.
func (g *Generator) classify(err error) (diag.Code, string) {
	msg := g.ctx.Describe(err)
	var de *types.DefineError
	if errors.As(err, &de) {
		return defineCode(de.Kind), msg
	}
	re, ok := resolve.AsError(err)
	if !ok {
		return diag.SemaInfo, err.Error()
	}
	return resolveCode(re.Kind), msg
}

func resolveCode(k resolve.ErrorKind) diag.Code {
	switch k {
	case resolve.SymbolAlreadyDefined:
		return diag.SemaSymbolAlreadyDefined
	case resolve.SymbolNotFound:
		return diag.SemaSymbolNotFound
	case resolve.SymbolNotPublic:
		return diag.SemaSymbolNotPublic
	case resolve.SymbolNotModule:
		return diag.SemaSymbolNotModule
	case resolve.SymbolNotTy:
		return diag.SemaSymbolNotTy
	case resolve.SymbolNotConst:
		return diag.SemaSymbolNotConst
	case resolve.SymbolNotValue:
		return diag.SemaSymbolNotValue
	case resolve.TooManySuperKeywords:
		return diag.SemaTooManySuperKeywords
	case resolve.UnknownAbi:
		return diag.SemaUnknownAbi
	case resolve.TyMismatch:
		return diag.SemaTyMismatch
	case resolve.TyNotDefined:
		return diag.SemaTyNotDefined
	case resolve.TyIncomplete:
		return diag.SemaTyIncomplete
	case resolve.FieldNotFound:
		return diag.SemaFieldNotFound
	case resolve.LiteralOutOfRange:
		return diag.SemaLiteralOutOfRange
	default:
		return diag.SemaInfo
	}
}

func defineCode(k types.DefineErrorKind) diag.Code {
	switch k {
	case types.StructHasInfiniteSize:
		return diag.LayoutInfiniteSize
	case types.DuplicatedField:
		return diag.LayoutDuplicatedField
	case types.DuplicatedVariant:
		return diag.LayoutDuplicatedVariant
	case types.InvalidEnumStorage:
		return diag.LayoutInvalidEnumStorage
	case types.DiscriminantOutOfRange:
		return diag.LayoutDiscriminantOutOfRange
	default:
		return diag.LayoutInfo
	}
}

// tyErr lifts a bare types error into the resolve error space.
func tyErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNotReady):
		return &resolve.Error{Kind: resolve.TyNotDefined, Err: err}
	case errors.Is(err, types.ErrIncomplete), errors.Is(err, types.ErrNoLayout):
		return &resolve.Error{Kind: resolve.TyIncomplete, Err: err}
	}
	var de *types.DefineError
	if errors.As(err, &de) {
		return &resolve.Error{Kind: resolve.TyDefine, Sym: de.Sym, Err: err}
	}
	return err
}
