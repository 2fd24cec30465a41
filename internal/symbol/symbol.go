package symbol

// Symbol is an interned identifier. Symbols compare by insertion order, and
// the well-known symbols below always occupy the first slots of every Table.
type Symbol uint32

// Keywords. The order of this block defines the handle of every keyword.
const (
	KwAlias Symbol = iota
	KwAlignOf
	KwAs
	KwBreak
	KwContinue
	KwCrate
	KwDefer
	KwElse
	KwEnum
	KwExport
	KwExtern
	KwFalse
	KwFn
	KwFor
	KwIf
	KwModule
	KwMut
	KwOffsetOf
	KwReturn
	KwSelf
	KwSizeOf
	KwStruct
	KwSuper
	KwTrue
	KwUse
	KwWhile

	// primitive type names
	TyBool
	TyChar
	TyF32
	TyF64
	TyI8
	TyI16
	TyI32
	TyI64
	TyI128
	TyIsize
	TyU8
	TyU16
	TyU32
	TyU64
	TyU128
	TyUsize

	// other well-known names
	AbiC
	Main
	Underscore
	Len
	Ptr

	numPredefined
)

const (
	// FirstKeyword is the smallest keyword handle.
	FirstKeyword = KwAlias
	// LastKeyword is the largest keyword handle.
	LastKeyword = KwWhile
	// FirstPrimitiveTy is the smallest primitive type handle.
	FirstPrimitiveTy = TyBool
	// LastPrimitiveTy is the largest primitive type handle.
	LastPrimitiveTy = TyUsize
)

var predefined = [numPredefined]string{
	KwAlias:    "alias",
	KwAlignOf:  "align_of",
	KwAs:       "as",
	KwBreak:    "break",
	KwContinue: "continue",
	KwCrate:    "crate",
	KwDefer:    "defer",
	KwElse:     "else",
	KwEnum:     "enum",
	KwExport:   "export",
	KwExtern:   "extern",
	KwFalse:    "false",
	KwFn:       "fn",
	KwFor:      "for",
	KwIf:       "if",
	KwModule:   "module",
	KwMut:      "mut",
	KwOffsetOf: "offset_of",
	KwReturn:   "return",
	KwSelf:     "self",
	KwSizeOf:   "size_of",
	KwStruct:   "struct",
	KwSuper:    "super",
	KwTrue:     "true",
	KwUse:      "use",
	KwWhile:    "while",

	TyBool:  "bool",
	TyChar:  "char",
	TyF32:   "f32",
	TyF64:   "f64",
	TyI8:    "i8",
	TyI16:   "i16",
	TyI32:   "i32",
	TyI64:   "i64",
	TyI128:  "i128",
	TyIsize: "isize",
	TyU8:    "u8",
	TyU16:   "u16",
	TyU32:   "u32",
	TyU64:   "u64",
	TyU128:  "u128",
	TyUsize: "usize",

	AbiC:       "C",
	Main:       "main",
	Underscore: "_",
	Len:        "len",
	Ptr:        "ptr",
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s Symbol) bool {
	return s <= LastKeyword
}

// IsPrimitiveTy reports whether s names a built-in type.
func IsPrimitiveTy(s Symbol) bool {
	return s >= FirstPrimitiveTy && s <= LastPrimitiveTy
}

// IsPathKeyword reports whether s may appear as a path segment even though it
// is a keyword (crate, super, self).
func IsPathKeyword(s Symbol) bool {
	return s == KwCrate || s == KwSuper || s == KwSelf
}

// IsPredefined reports whether s is one of the seeded symbols.
func IsPredefined(s Symbol) bool {
	return s < numPredefined
}

// PredefinedText returns the text of a seeded symbol without a table.
func PredefinedText(s Symbol) (string, bool) {
	if !IsPredefined(s) {
		return "", false
	}
	return predefined[s], true
}
