package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Format is the encoding of a stream tracer.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

// StreamTracer writes every event as it happens. It is safe for use by the
// goroutines of CompileAll.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = seq.Add(1)
	var line []byte
	if t.format == FormatNDJSON {
		line = encodeJSON(ev)
	} else {
		line = []byte(encodeText(ev))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	// tracing never fails a build
	_, _ = t.w.Write(line) //nolint:errcheck
}

func (t *StreamTracer) Close() error {
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level != LevelOff }

func encodeText(ev *Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-6s %-6s #%d", ev.Time.Format("15:04:05.000000"), ev.Kind, ev.Scope, ev.SpanID)
	if ev.ParentID != 0 {
		fmt.Fprintf(&sb, "<%d", ev.ParentID)
	}
	sb.WriteString(" " + ev.Name)
	if ev.Kind == KindEnd {
		fmt.Fprintf(&sb, " (%s)", ev.Dur.Round(time.Microsecond))
	}
	if ev.Detail != "" {
		sb.WriteString(" " + ev.Detail)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		fmt.Fprintf(&sb, " %s=%s", k, ev.Extra[k])
	}
	sb.WriteByte('\n')
	return sb.String()
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	DurUS    int64             `json:"dur_us,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func encodeJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		DurUS:    ev.Dur.Microseconds(),
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}
