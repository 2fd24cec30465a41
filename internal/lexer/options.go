package lexer

import (
	"github.com/LechintanTudor/cool-compiler-sub001/internal/diag"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/source"
)

// DefaultMaxTokenLen bounds a single token unless Options overrides it.
const DefaultMaxTokenLen = 1 << 16

type Options struct {
	// Reporter может быть nil: тогда ошибки игнорируем, но продолжаем лексить.
	Reporter diag.Reporter
	// MaxTokenLen is the largest accepted token in bytes; 0 means
	// DefaultMaxTokenLen.
	MaxTokenLen uint32
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.errors++
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
