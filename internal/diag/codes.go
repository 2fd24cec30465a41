package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006
	LexBadEscape                Code = 1007
	LexBadChar                  Code = 1008

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001

	// Семантические, по одному на resolve.ErrorKind
	SemaInfo                 Code = 3000
	SemaSymbolAlreadyDefined Code = 3001
	SemaSymbolNotFound       Code = 3002
	SemaSymbolNotPublic      Code = 3003
	SemaSymbolNotModule      Code = 3004
	SemaSymbolNotTy          Code = 3005
	SemaSymbolNotConst       Code = 3006
	SemaSymbolNotValue       Code = 3007
	SemaTooManySuperKeywords Code = 3008
	SemaUnknownAbi           Code = 3009
	SemaTyMismatch           Code = 3010
	SemaTyNotDefined         Code = 3011
	SemaTyIncomplete         Code = 3012
	SemaFieldNotFound        Code = 3013
	SemaLiteralOutOfRange    Code = 3014
	SemaNotAssignable        Code = 3015
	SemaInvalidOperand       Code = 3016
	SemaInvalidCall          Code = 3017
	SemaNotConstant          Code = 3018
	SemaInvalidCast          Code = 3019
	SemaOutsideLoop          Code = 3020
	SemaInvalidIntrinsic     Code = 3021

	// Раскладка типов
	LayoutInfo                   Code = 4000
	LayoutInfiniteSize           Code = 4001
	LayoutDuplicatedField        Code = 4002
	LayoutDuplicatedVariant      Code = 4003
	LayoutInvalidEnumStorage     Code = 4004
	LayoutDiscriminantOutOfRange Code = 4005

	// IO и проект
	IOInfo           Code = 5000
	IOLoadFileFailed Code = 5001
	IOModuleNotFound Code = 5002
	IOManifest       Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexTokenTooLong:             "Token too long",
	LexUnterminatedChar:         "Unterminated character literal",
	LexBadEscape:                "Invalid escape sequence",
	LexBadChar:                  "Character literal must hold one character",

	SynInfo:            "Syntax information",
	SynUnexpectedToken: "Unexpected token",

	SemaInfo:                 "Semantic information",
	SemaSymbolAlreadyDefined: "Symbol already defined",
	SemaSymbolNotFound:       "Symbol not found",
	SemaSymbolNotPublic:      "Symbol is not exported",
	SemaSymbolNotModule:      "Symbol is not a module",
	SemaSymbolNotTy:          "Symbol is not a type",
	SemaSymbolNotConst:       "Symbol is not a constant",
	SemaSymbolNotValue:       "Symbol is not a value",
	SemaTooManySuperKeywords: "Too many super keywords",
	SemaUnknownAbi:           "Unknown ABI",
	SemaTyMismatch:           "Mismatched types",
	SemaTyNotDefined:         "Type is not defined",
	SemaTyIncomplete:         "Type is incomplete",
	SemaFieldNotFound:        "Field not found",
	SemaLiteralOutOfRange:    "Literal out of range",
	SemaNotAssignable:        "Expression is not assignable",
	SemaInvalidOperand:       "Invalid operand",
	SemaInvalidCall:          "Invalid call",
	SemaNotConstant:          "Expression is not constant",
	SemaInvalidCast:          "Invalid cast",
	SemaOutsideLoop:          "Statement outside of a loop",
	SemaInvalidIntrinsic:     "Invalid intrinsic use",

	LayoutInfo:                   "Layout information",
	LayoutInfiniteSize:           "Type has infinite size",
	LayoutDuplicatedField:        "Duplicated field",
	LayoutDuplicatedVariant:      "Duplicated enum variant",
	LayoutInvalidEnumStorage:     "Invalid enum storage",
	LayoutDiscriminantOutOfRange: "Enum discriminant out of range",

	IOInfo:           "IO information",
	IOLoadFileFailed: "Failed to load file",
	IOModuleNotFound: "Module file not found",
	IOManifest:       "Invalid manifest",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
