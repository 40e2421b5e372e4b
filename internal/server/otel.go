package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"algotex/internal/trace"
)

const defaultTracerName = "algotex"

// requestTracing opens a server span per request. A nil provider falls back
// to the global one, whose spans are no-ops until something installs it.
func requestTracing(tp oteltrace.TracerProvider, tracerName string) func(http.Handler) http.Handler {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(tracerName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				oteltrace.WithSpanKind(oteltrace.SpanKindServer),
				oteltrace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
					attribute.String("algotex.request_id", middleware.GetReqID(r.Context())),
				),
			)
			defer span.End()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			span.SetAttributes(
				attribute.String("http.route", routePattern(r)),
				attribute.Int("http.status_code", status),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			} else {
				span.SetStatus(codes.Ok, "")
			}
		})
	}
}

// NewTracerProvider returns an SDK provider whose finished request spans are
// replayed into t as driver-scope points, so --trace shows HTTP traffic next
// to the render passes. Call Shutdown when the server stops.
func NewTracerProvider(t trace.Tracer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(traceBridge{tracer: t}))
}

type traceBridge struct {
	tracer trace.Tracer
}

func (traceBridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (b traceBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.tracer == nil || !b.tracer.Enabled() || !b.tracer.Level().ShouldEmit(trace.ScopeDriver) {
		return
	}
	attrs := s.Attributes()
	extra := make(map[string]string, len(attrs)+2)
	for _, kv := range attrs {
		extra[string(kv.Key)] = kv.Value.Emit()
	}
	extra["trace_id"] = s.SpanContext().TraceID().String()
	if st := s.Status(); st.Code == codes.Error {
		extra["status"] = st.Description
	}
	b.tracer.Emit(&trace.Event{
		Time:   s.EndTime(),
		Seq:    trace.NextSeq(),
		Kind:   trace.KindPoint,
		Scope:  trace.ScopeDriver,
		Name:   s.Name(),
		Detail: s.EndTime().Sub(s.StartTime()).String(),
		Extra:  extra,
	})
}

func (traceBridge) Shutdown(context.Context) error   { return nil }
func (traceBridge) ForceFlush(context.Context) error { return nil }
