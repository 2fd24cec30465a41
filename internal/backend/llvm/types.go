package llvm

import (
	"fmt"
	"slices"

	lltypes "github.com/llir/llvm/ir/types"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/resolve"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/types"
)

// aggregate is the lowered form of a struct, tuple or variant: a packed LLVM
// struct whose padding is spelled out as byte arrays. index maps a member to
// its position among the LLVM fields.
type aggregate struct {
	ty    *lltypes.StructType
	index []int
}

func intType(bits uint64) *lltypes.IntType {
	switch bits {
	case 1:
		return lltypes.I1
	case 8:
		return lltypes.I8
	case 16:
		return lltypes.I16
	case 32:
		return lltypes.I32
	case 64:
		return lltypes.I64
	case 128:
		return lltypes.I128
	}
	return lltypes.NewInt(bits)
}

// llType lowers a type. Results are cached so every use of a TyID shares one
// LLVM type, which keeps named structs unique and recursion finite.
func (e *Emitter) llType(id types.TyID) (lltypes.Type, error) {
	if t, ok := e.typeCache[id]; ok {
		return t, nil
	}
	s := e.tys.Shape(id)
	var (
		t   lltypes.Type
		err error
	)
	switch s.Kind {
	case types.KindUnit, types.KindDiverge:
		t = e.unit
	case types.KindBool:
		t = lltypes.I1
	case types.KindChar:
		t = lltypes.I32
	case types.KindInt:
		t = intType(s.Int.Bits(e.tys.Target().PtrSize))
	case types.KindFloat:
		t = lltypes.Double
		if s.Float == types.F32 {
			t = lltypes.Float
		}
	case types.KindPtr, types.KindManyPtr:
		var elem lltypes.Type
		if elem, err = e.llType(s.Elem); err == nil {
			t = lltypes.NewPointer(elem)
		}
	case types.KindSlice:
		var elem lltypes.Type
		if elem, err = e.llType(s.Elem); err == nil {
			t = lltypes.NewStruct(lltypes.NewPointer(elem), e.usize)
		}
	case types.KindArray:
		var elem lltypes.Type
		if elem, err = e.llType(s.Elem); err == nil {
			t = lltypes.NewArray(s.Len, elem)
		}
	case types.KindFn:
		var sig *lltypes.FuncType
		if sig, err = e.fnSig(id); err == nil {
			t = lltypes.NewPointer(sig)
		}
	case types.KindEnum:
		storage, _, _ := e.tys.Enum(id)
		t, err = e.llType(storage)
	case types.KindStruct:
		return e.structType(id)
	case types.KindTuple:
		var agg *aggregate
		if agg, err = e.aggregate(id, lltypes.NewStruct(), e.tys.Elems(id)); err == nil {
			t = agg.ty
		}
	case types.KindVariant:
		var agg *aggregate
		if agg, err = e.variant(id); err == nil {
			t = agg.ty
		}
	default:
		err = fmt.Errorf("type `%s` has no machine representation", e.tys.Display(id))
	}
	if err != nil {
		return nil, err
	}
	e.typeCache[id] = t
	return t, nil
}

// structType registers the named struct before lowering its fields so that
// fields pointing back at the struct find it in the cache.
func (e *Emitter) structType(id types.TyID) (lltypes.Type, error) {
	st := lltypes.NewStruct()
	// the declaration key of a nominal type is its item
	name := e.ctx.PathString(resolve.ItemID(e.tys.Shape(id).Decl))
	def := e.mod.NewTypeDef(name, st)
	e.typeCache[id] = def

	fields, err := e.tys.Fields(id)
	if err != nil {
		return nil, err
	}
	tys := make([]types.TyID, len(fields))
	for i, f := range fields {
		tys[i] = f.Ty
	}
	if _, err := e.aggregate(id, st, tys); err != nil {
		return nil, err
	}
	return def, nil
}

// aggregate fills st with the members of id in memory order.
func (e *Emitter) aggregate(id types.TyID, st *lltypes.StructType, members []types.TyID) (*aggregate, error) {
	lay, err := e.tys.Layout(id)
	if err != nil {
		return nil, err
	}
	lowered := make([]lltypes.Type, len(members))
	sizes := make([]uint64, len(members))
	for i, m := range members {
		if lowered[i], err = e.llType(m); err != nil {
			return nil, err
		}
		if sizes[i], err = e.tys.Size(m); err != nil {
			return nil, err
		}
	}
	agg := e.pack(st, lowered, sizes, lay.Offsets, lay.Size)
	e.aggregates[id] = agg
	return agg, nil
}

// variant lowers a variant as its payload bytes plus the tag.
func (e *Emitter) variant(id types.TyID) (*aggregate, error) {
	lay, err := e.tys.Layout(id)
	if err != nil {
		return nil, err
	}
	members := e.tys.Elems(id)
	var payload uint64
	for _, m := range members {
		sz, err := e.tys.Size(m)
		if err != nil {
			return nil, err
		}
		payload = max(payload, sz)
	}
	tag := lltypes.I8
	if len(members) > 256 {
		tag = lltypes.I16
	}
	lowered := []lltypes.Type{lltypes.NewArray(payload, lltypes.I8), tag}
	sizes := []uint64{payload, tag.BitSize / 8}
	agg := e.pack(lltypes.NewStruct(), lowered, sizes, lay.Offsets, lay.Size)
	e.aggregates[id] = agg
	return agg, nil
}

func (e *Emitter) pack(st *lltypes.StructType, members []lltypes.Type, sizes, offsets []uint64, size uint64) *aggregate {
	order := make([]int, len(members))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case offsets[a] < offsets[b]:
			return -1
		case offsets[a] > offsets[b]:
			return 1
		}
		return 0
	})

	agg := &aggregate{ty: st, index: make([]int, len(members))}
	st.Packed = true
	st.Fields = st.Fields[:0]
	var cursor uint64
	for _, i := range order {
		if offsets[i] > cursor {
			st.Fields = append(st.Fields, lltypes.NewArray(offsets[i]-cursor, lltypes.I8))
		}
		agg.index[i] = len(st.Fields)
		st.Fields = append(st.Fields, members[i])
		cursor = offsets[i] + sizes[i]
	}
	if size > cursor {
		st.Fields = append(st.Fields, lltypes.NewArray(size-cursor, lltypes.I8))
	}
	return agg
}

// fieldIndex returns the LLVM field holding member i of an aggregate type.
func (e *Emitter) fieldIndex(id types.TyID, i int) (uint64, error) {
	if _, err := e.llType(id); err != nil {
		return 0, err
	}
	agg, ok := e.aggregates[id]
	if !ok || i >= len(agg.index) {
		return 0, fmt.Errorf("`%s` has no member %d", e.tys.Display(id), i)
	}
	return uint64(agg.index[i]), nil
}

// fnSig lowers a function type. Unit results become void.
func (e *Emitter) fnSig(id types.TyID) (*lltypes.FuncType, error) {
	s := e.tys.Shape(id)
	params := e.tys.List(s.List)
	lowered := make([]lltypes.Type, len(params))
	for i, p := range params {
		t, err := e.llType(p)
		if err != nil {
			return nil, err
		}
		lowered[i] = t
	}
	var ret lltypes.Type = lltypes.Void
	if !e.isVoid(s.Elem) {
		var err error
		if ret, err = e.llType(s.Elem); err != nil {
			return nil, err
		}
	}
	sig := lltypes.NewFunc(ret, lowered...)
	sig.Variadic = s.Variadic
	return sig, nil
}

func (e *Emitter) isVoid(id types.TyID) bool {
	k := e.tys.Shape(id).Kind
	return k == types.KindUnit || k == types.KindDiverge
}
