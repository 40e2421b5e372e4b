package trace

import "context"

// binding is what a context carries: the tracer plus the span new children
// should hang off.
type binding struct {
	tracer Tracer
	parent uint64
}

type bindingKey struct{}

func lookup(ctx context.Context) binding {
	if ctx != nil {
		if b, ok := ctx.Value(bindingKey{}).(binding); ok {
			return b
		}
	}
	return binding{tracer: Nop}
}

// FromContext returns the tracer bound to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return lookup(ctx).tracer
}

// WithTracer binds t to ctx. The parent span is reset: a new tracer starts a
// new tree.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, bindingKey{}, binding{tracer: t})
}

// ParentID is the span that spans started under ctx attach to (0 at the root).
func ParentID(ctx context.Context) uint64 {
	return lookup(ctx).parent
}

// WithParent makes id the parent of spans started under the returned context.
func WithParent(ctx context.Context, id uint64) context.Context {
	if ctx == nil {
		return nil
	}
	b := lookup(ctx)
	b.parent = id
	return context.WithValue(ctx, bindingKey{}, b)
}

// Child begins a span under the current parent and returns a context in which
// that span is the parent. A span filtered out by the level keeps the old
// parent so deeper spans still nest correctly.
func Child(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	b := lookup(ctx)
	span := Begin(b.tracer, scope, name, b.parent)
	if span.ID() == 0 {
		return span, ctx
	}
	return span, WithParent(ctx, span.ID())
}
