package resolve

import (
	"errors"
	"fmt"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// ErrorKind classifies resolve failures.
type ErrorKind uint8

const (
	SymbolAlreadyDefined ErrorKind = iota + 1
	SymbolNotFound
	SymbolNotPublic
	SymbolNotModule
	SymbolNotTy
	SymbolNotConst
	SymbolNotValue
	TooManySuperKeywords
	UnknownAbi
	TyMismatch
	TyNotDefined
	TyIncomplete
	TyDefine
	FieldNotFound
	LiteralOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case SymbolAlreadyDefined:
		return "symbol already defined"
	case SymbolNotFound:
		return "symbol not found"
	case SymbolNotPublic:
		return "symbol is not public"
	case SymbolNotModule:
		return "symbol is not a module"
	case SymbolNotTy:
		return "symbol is not a type"
	case SymbolNotConst:
		return "symbol is not a constant"
	case SymbolNotValue:
		return "symbol is not a value"
	case TooManySuperKeywords:
		return "too many super keywords"
	case UnknownAbi:
		return "unknown function abi"
	case TyMismatch:
		return "type mismatch"
	case TyNotDefined:
		return "type is not defined yet"
	case TyIncomplete:
		return "type is incomplete"
	case TyDefine:
		return "invalid type definition"
	case FieldNotFound:
		return "field not found"
	case LiteralOutOfRange:
		return "literal out of range"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is returned by every failing Context operation. Only the fields that
// matter for Kind are set.
type Error struct {
	Kind     ErrorKind
	Sym      symbol.Symbol
	Path     []symbol.Symbol
	Found    types.TyID
	Expected types.TyID
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure may disappear once pending
// declarations are processed. Fixpoint drivers requeue such failures.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case SymbolNotFound, TyNotDefined:
		return true
	}
	return errors.Is(e.Err, types.ErrNotReady)
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var re *Error
	ok := errors.As(err, &re)
	return re, ok
}

// wrapTypeErr lifts errors of the type table into resolve errors.
func wrapTypeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNotReady):
		return &Error{Kind: TyNotDefined, Err: err}
	case errors.Is(err, types.ErrIncomplete):
		return &Error{Kind: TyIncomplete, Err: err}
	}
	var de *types.DefineError
	if errors.As(err, &de) {
		return &Error{Kind: TyDefine, Sym: de.Sym, Err: err}
	}
	return &Error{Kind: TyIncomplete, Err: err}
}
