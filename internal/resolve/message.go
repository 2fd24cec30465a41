package resolve

import (
	"errors"
	"fmt"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// Describe renders err for a user, spelling out symbols, paths and types.
func (c *Context) Describe(err error) string {
	re, ok := AsError(err)
	if !ok {
		return err.Error()
	}
	name := func() string {
		if len(re.Path) > 0 {
			return c.JoinPath(re.Path)
		}
		return c.syms.MustLookup(re.Sym)
	}
	switch re.Kind {
	case SymbolAlreadyDefined, SymbolNotFound, SymbolNotPublic, SymbolNotModule,
		SymbolNotTy, SymbolNotConst, SymbolNotValue:
		return fmt.Sprintf("%s: `%s`", re.Kind, name())
	case TooManySuperKeywords:
		return fmt.Sprintf("%s in `%s`", re.Kind, c.JoinPath(re.Path))
	case UnknownAbi:
		return fmt.Sprintf("%s `%s`", re.Kind, c.syms.MustLookup(re.Sym))
	case TyMismatch:
		return fmt.Sprintf("mismatched types: expected `%s`, found `%s`",
			c.tys.Display(re.Expected), c.tys.Display(re.Found))
	case LiteralOutOfRange:
		return fmt.Sprintf("literal out of range for `%s`", c.tys.Display(re.Expected))
	case FieldNotFound:
		return fmt.Sprintf("no field `%s` on type `%s`", c.syms.MustLookup(re.Sym), c.tys.Display(re.Found))
	case TyDefine:
		var de *types.DefineError
		if errors.As(re.Err, &de) {
			return c.describeDefine(de)
		}
	case TyNotDefined, TyIncomplete:
		if len(re.Path) > 0 {
			return fmt.Sprintf("%s: `%s`", re.Kind, name())
		}
	}
	return re.Error()
}

func (c *Context) describeDefine(de *types.DefineError) string {
	switch de.Kind {
	case types.StructHasInfiniteSize:
		cycle := ""
		for i, id := range de.Cycle {
			if i > 0 {
				cycle += " -> "
			}
			cycle += c.tys.Display(id)
		}
		return fmt.Sprintf("struct `%s` has infinite size (%s)", c.tys.Display(de.Ty), cycle)
	case types.DuplicatedField, types.DuplicatedVariant, types.DiscriminantOutOfRange:
		return fmt.Sprintf("%s `%s` in `%s`", de.Kind, c.syms.MustLookup(de.Sym), c.tys.Display(de.Ty))
	default:
		return fmt.Sprintf("%s for `%s`", de.Kind, c.tys.Display(de.Ty))
	}
}
