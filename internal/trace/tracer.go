package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Close() error
	Level() Level
	Enabled() bool
}

// Config selects where and how much to trace.
type Config struct {
	Level Level
	// Output takes precedence over Path. Path "-" or "" is stderr; a path
	// ending in .ndjson selects FormatNDJSON.
	Output io.Writer
	Path   string
}

// New builds the tracer described by cfg.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := FormatText
	if strings.HasSuffix(cfg.Path, ".ndjson") {
		format = FormatNDJSON
	}
	w := cfg.Output
	switch {
	case w != nil:
	case cfg.Path == "" || cfg.Path == "-":
		w = nopCloser{os.Stderr}
	default:
		f, err := os.Create(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("trace: open output: %w", err)
		}
		w = f
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

// nopCloser keeps Close from closing stderr.
type nopCloser struct{ io.Writer }
