package types

import (
	"errors"
	"fmt"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

var (
	// ErrNotReady is returned while a component of the requested type has not
	// been defined yet. Callers driving a fixpoint retry on it.
	ErrNotReady = errors.New("type is not defined yet")
	// ErrAlreadyDefined is returned when a struct or enum is defined twice.
	ErrAlreadyDefined = errors.New("type is already defined")
	// ErrIncomplete is returned for types that depend on a broken definition.
	ErrIncomplete = errors.New("type is incomplete")
	// ErrNoLayout is returned for placeholder and meta types.
	ErrNoLayout = errors.New("type has no runtime representation")
)

// DefineErrorKind classifies permanent definition failures.
type DefineErrorKind uint8

const (
	StructHasInfiniteSize DefineErrorKind = iota + 1
	DuplicatedField
	DuplicatedVariant
	InvalidEnumStorage
	DiscriminantOutOfRange
)

func (k DefineErrorKind) String() string {
	switch k {
	case StructHasInfiniteSize:
		return "struct has infinite size"
	case DuplicatedField:
		return "duplicated field"
	case DuplicatedVariant:
		return "duplicated variant"
	case InvalidEnumStorage:
		return "invalid enum storage"
	case DiscriminantOutOfRange:
		return "discriminant out of range"
	default:
		return fmt.Sprintf("DefineErrorKind(%d)", k)
	}
}

// DefineError is a permanent failure of DefineStruct or DefineEnum.
type DefineError struct {
	Kind  DefineErrorKind
	Ty    TyID
	Sym   symbol.Symbol // offending field or variant
	Cycle []TyID        // by-value path that leads back to Ty
}

func (e *DefineError) Error() string {
	switch e.Kind {
	case StructHasInfiniteSize:
		return fmt.Sprintf("%s (cycle of %d types)", e.Kind, len(e.Cycle))
	default:
		return e.Kind.String()
	}
}

// Retryable reports whether err only means "try again later".
func Retryable(err error) bool {
	return errors.Is(err, ErrNotReady)
}
