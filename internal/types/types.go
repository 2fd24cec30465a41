package types

import (
	"fmt"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/arena"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

// TyID uniquely identifies a type inside a Table. IDs are dense and start at
// zero; equal shapes always share one TyID.
type TyID uint32

// Kind enumerates the shape families.
type Kind uint8

const (
	KindInfer Kind = iota
	KindItem
	KindDiverge
	KindUnit
	KindBool
	KindChar
	KindInt
	KindFloat
	KindPtr
	KindManyPtr
	KindSlice
	KindArray
	KindTuple
	KindFn
	KindStruct
	KindEnum
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindInfer:
		return "infer"
	case KindItem:
		return "item"
	case KindDiverge:
		return "diverge"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindPtr:
		return "pointer"
	case KindManyPtr:
		return "many-pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindFn:
		return "fn"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindVariant:
		return "variant"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// InferKind narrows what an inference placeholder accepts.
type InferKind uint8

const (
	InferAny InferKind = iota
	InferInt
	InferFloat
	InferNumber
	InferIntOrBool
	InferEmptyArray
	InferSubscript
)

func (k InferKind) String() string {
	switch k {
	case InferAny:
		return "infer"
	case InferInt:
		return "infer_int"
	case InferFloat:
		return "infer_float"
	case InferNumber:
		return "infer_number"
	case InferIntOrBool:
		return "infer_int_or_bool"
	case InferEmptyArray:
		return "infer_empty_array"
	case InferSubscript:
		return "infer_subscript"
	default:
		return fmt.Sprintf("InferKind(%d)", k)
	}
}

// ItemKind is the meta-type of a path that names something other than a value.
type ItemKind uint8

const (
	ItemModule ItemKind = iota
	ItemTy
)

// IntKind fixes width and signedness of an integer type.
type IntKind uint8

const (
	I8 IntKind = iota
	I16
	I32
	I64
	I128
	Isize
	U8
	U16
	U32
	U64
	U128
	Usize
)

// Signed reports whether k is a signed integer kind.
func (k IntKind) Signed() bool {
	return k <= Isize
}

// Bits returns the width of k; pointer-sized kinds need the target.
func (k IntKind) Bits(ptrSize uint64) uint64 {
	switch k {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	case I128, U128:
		return 128
	default:
		return ptrSize * 8
	}
}

func (k IntKind) String() string {
	switch k {
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case I128:
		return "i128"
	case Isize:
		return "isize"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case U128:
		return "u128"
	case Usize:
		return "usize"
	default:
		return fmt.Sprintf("IntKind(%d)", k)
	}
}

// FloatKind fixes the width of a float type.
type FloatKind uint8

const (
	F32 FloatKind = iota
	F64
)

func (k FloatKind) String() string {
	if k == F32 {
		return "f32"
	}
	return "f64"
}

// Shape is the structural descriptor of a type. Shapes are comparable and are
// hash-consed by the Table; only the fields relevant for Kind are set.
type Shape struct {
	Kind     Kind
	Infer    InferKind
	Item     ItemKind
	Int      IntKind
	Float    FloatKind
	Elem     TyID         // pointee, array/slice element, fn return
	Mutable  bool         // pointers and slices
	Len      uint64       // arrays
	List     arena.Handle // tuple elements, fn params, variant members
	Variadic bool         // fn
	Decl     uint32       // struct/enum declaration key
}

// Layout is the computed size and alignment of a value type. Offsets is set
// for structs and tuples (declaration order) and for variants (payload, tag).
type Layout struct {
	Size    uint64
	Align   uint64
	Offsets []uint64
}

// Field is a struct member with its computed offset.
type Field struct {
	Sym    symbol.Symbol
	Ty     TyID
	Offset uint64
}

// EnumVariant is one named discriminant of an enum.
type EnumVariant struct {
	Sym   symbol.Symbol
	Value int64
}
