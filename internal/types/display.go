package types

import (
	"strconv"
	"strings"
)

// Display renders id the way it is spelled in source, for diagnostics.
func (t *Table) Display(id TyID) string {
	var sb strings.Builder
	t.display(&sb, id, 0)
	return sb.String()
}

func (t *Table) display(sb *strings.Builder, id TyID, depth int) {
	if int(id) >= len(t.entries) {
		sb.WriteString("?")
		return
	}
	if depth > 8 {
		sb.WriteString("...")
		return
	}
	s := t.Shape(id)
	switch s.Kind {
	case KindInfer:
		sb.WriteString("{" + s.Infer.String() + "}")
	case KindItem:
		if s.Item == ItemModule {
			sb.WriteString("module")
		} else {
			sb.WriteString("type")
		}
	case KindDiverge:
		sb.WriteString("!")
	case KindUnit:
		sb.WriteString("()")
	case KindBool:
		sb.WriteString("bool")
	case KindChar:
		sb.WriteString("char")
	case KindInt:
		sb.WriteString(s.Int.String())
	case KindFloat:
		sb.WriteString(s.Float.String())
	case KindPtr:
		sb.WriteString("*")
		if s.Mutable {
			sb.WriteString("mut ")
		}
		t.display(sb, s.Elem, depth+1)
	case KindManyPtr:
		if s.Mutable {
			sb.WriteString("[*mut]")
		} else {
			sb.WriteString("[*]")
		}
		t.display(sb, s.Elem, depth+1)
	case KindSlice:
		sb.WriteString("[]")
		if s.Mutable {
			sb.WriteString("mut ")
		}
		t.display(sb, s.Elem, depth+1)
	case KindArray:
		sb.WriteString("[" + strconv.FormatUint(s.Len, 10) + "]")
		t.display(sb, s.Elem, depth+1)
	case KindTuple:
		sb.WriteString("(")
		t.displayList(sb, t.List(s.List), ", ", depth)
		sb.WriteString(")")
	case KindFn:
		sb.WriteString("fn(")
		params := t.List(s.List)
		t.displayList(sb, params, ", ", depth)
		if s.Variadic {
			if len(params) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("...")
		}
		sb.WriteString(")")
		if s.Elem != t.builtins.Unit {
			sb.WriteString(" -> ")
			t.display(sb, s.Elem, depth+1)
		}
	case KindStruct, KindEnum:
		sb.WriteString(t.Name(id))
	case KindVariant:
		t.displayList(sb, t.List(s.List), " | ", depth)
	}
}

func (t *Table) displayList(sb *strings.Builder, ids []TyID, sep string, depth int) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(sep)
		}
		t.display(sb, id, depth+1)
	}
}
