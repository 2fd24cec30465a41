package ast

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
)

// Path is a dotted name such as crate.math.Vec2.
type Path struct {
	Syms []symbol.Symbol
	Span source.Span
}

// Last returns the final segment.
func (p Path) Last() symbol.Symbol {
	return p.Syms[len(p.Syms)-1]
}
