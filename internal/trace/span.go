package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
	now     = time.Now
)

// Span is an open interval of work. The zero Span, returned when its scope
// is filtered out, ignores End.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	sp := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: now(),
	}
	t.Emit(&Event{
		Time:     sp.started,
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   sp.id,
		ParentID: parent,
		Name:     name,
	})
	return sp
}

// With attaches a key to the end event.
func (s *Span) With(key, value string) *Span {
	if s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s.tracer == nil {
		return 0
	}
	dur := now().Sub(s.started)
	s.tracer.Emit(&Event{
		Time:     now(),
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Dur:      dur,
		Extra:    s.extra,
	})
	s.tracer = nil
	return dur
}

// ID is 0 for a filtered-out span.
func (s *Span) ID() uint64 { return s.id }
