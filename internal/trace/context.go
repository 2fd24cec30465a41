package trace

import "context"

type tracerKey struct{}

type spanKey struct{}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// Start opens a span below the span active in ctx and returns a context in
// which the new span is active.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	parent, _ := ctx.Value(spanKey{}).(uint64)
	sp := Begin(FromContext(ctx), scope, name, parent)
	if sp.id == 0 {
		return ctx, sp
	}
	return context.WithValue(ctx, spanKey{}, sp.id), sp
}

// Point records an instant event under the span active in ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().ShouldEmit(scope) {
		return
	}
	parent, _ := ctx.Value(spanKey{}).(uint64)
	t.Emit(&Event{Time: now(), Kind: KindPoint, Scope: scope, ParentID: parent, Name: name, Detail: detail})
}
