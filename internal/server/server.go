// Package server exposes the renderer over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	oteltrace "go.opentelemetry.io/otel/trace"

	"algotex/internal/document"
	"algotex/internal/driver"
	"algotex/internal/trace"
)

const (
	DefaultAddr    = "127.0.0.1:8088"
	DefaultMaxBody = 1 << 20
	shutdownGrace  = 5 * time.Second
)

// Config configures the HTTP service.
type Config struct {
	Addr    string
	MaxBody int64 // request body limit in bytes
	// Render holds the base settings; query parameters adjust a copy per request.
	Render driver.Options
	// DocumentDefaults seeds ?document=true requests. Built-in defaults when nil.
	DocumentDefaults *document.Options
	// Registry receives the service metrics. A fresh registry is created when nil.
	Registry *prometheus.Registry
	// Tracer receives the internal pass spans of every render.
	Tracer     trace.Tracer
	TracerName string // OpenTelemetry instrumentation name

	// TracerProvider receives the per-request spans. The global provider when nil.
	TracerProvider oteltrace.TracerProvider
}

// Server is the render service.
type Server struct {
	cfg      Config
	registry *prometheus.Registry
	metrics  *metrics
	router   chi.Router
}

// New wires routes, metrics and request tracing.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if cfg.TracerName == "" {
		cfg.TracerName = defaultTracerName
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	s := &Server{
		cfg:      cfg,
		registry: reg,
		metrics:  newMetrics(reg),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(requestTracing(cfg.TracerProvider, cfg.TracerName))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Post("/render", s.handleRender)
	r.Post("/names", s.handleNames)
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// ListenAndServe listens on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln. Cancelling ctx shuts the server down
// gracefully and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}
