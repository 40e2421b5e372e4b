package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"algotex/internal/diagfmt"
	"algotex/internal/document"
	"algotex/internal/driver"
	"algotex/internal/render"
	"algotex/internal/source"
	"algotex/internal/trace"
)

const defaultSourceName = "request.py"

type renderResponse struct {
	Output      string                     `json:"output,omitempty"`
	Names       []string                   `json:"names"`
	Error       string                     `json:"error,omitempty"`
	Diagnostics *diagfmt.DiagnosticsOutput `json:"diagnostics,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// handleRender renders the Python source in the request body. The markup is
// returned as text/plain unless format=json; failures always answer JSON.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	fs, res := driver.RenderSource(s.requestContext(r), sourceName(r), body, opts)
	resp := renderResponse{Names: nonNil(res.Names)}
	if res.Err != nil {
		s.metrics.rendersTotal.WithLabelValues(renderOutcome(res.Err)).Inc()
		resp.Error = res.Err.Error()
		resp.Diagnostics = diagnostics(res, fs)
		writeJSON(w, statusFor(res.Err), resp)
		return
	}
	s.metrics.rendersTotal.WithLabelValues("ok").Inc()
	s.metrics.outputBytes.Observe(float64(len(res.Output)))

	if r.URL.Query().Get("format") == "json" {
		resp.Output = string(res.Output)
		if res.Bag.Len() > 0 {
			resp.Diagnostics = diagnostics(res, fs)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Algotex-Names", strings.Join(res.Names, ","))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

// handleNames answers the declared-name set; a render failure after
// collection does not hide the names.
func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	opts.Document = nil
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	fs, res := driver.RenderSource(s.requestContext(r), sourceName(r), body, opts)
	if errors.Is(res.Err, driver.ErrSyntax) {
		writeJSON(w, http.StatusUnprocessableEntity, renderResponse{
			Names:       []string{},
			Error:       res.Err.Error(),
			Diagnostics: diagnostics(res, fs),
		})
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{Names: nonNil(res.Names)})
}

func (s *Server) requestContext(r *http.Request) context.Context {
	if s.cfg.Tracer == nil {
		return r.Context()
	}
	return trace.WithTracer(r.Context(), s.cfg.Tracer)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit),
			})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	return body, true
}

// requestOptions overlays query parameters on the configured settings.
func (s *Server) requestOptions(r *http.Request) (driver.Options, error) {
	opts := s.cfg.Render
	opts.Cache = nil
	opts.Progress = nil
	opts.Timer = nil
	opts.Render.Verbatim = append([]string(nil), opts.Render.Verbatim...)
	q := r.URL.Query()

	if v := q.Get("indent"); v != "" {
		opts.Render.Indent = v
	}
	if v := q.Get("verbatim"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Render.Verbatim = append(opts.Render.Verbatim, name)
			}
		}
	}
	builtins, err := boolParam(q.Get("builtins"), opts.Render.VerbatimBuiltins)
	if err != nil {
		return opts, fmt.Errorf("builtins: %w", err)
	}
	opts.Render.VerbatimBuiltins = builtins
	raw, err := boolParam(q.Get("raw"), opts.Render.RawStrings)
	if err != nil {
		return opts, fmt.Errorf("raw: %w", err)
	}
	opts.Render.RawStrings = raw
	timings, err := boolParam(q.Get("timings"), false)
	if err != nil {
		return opts, fmt.Errorf("timings: %w", err)
	}
	opts.Timings = timings

	wantDoc, err := boolParam(q.Get("document"), opts.Document != nil)
	if err != nil {
		return opts, fmt.Errorf("document: %w", err)
	}
	if !wantDoc {
		opts.Document = nil
		return opts, nil
	}
	doc := document.Options{PackageOptions: document.DefaultPackageOptions, Title: document.DefaultTitle}
	switch {
	case opts.Document != nil:
		doc = *opts.Document
	case s.cfg.DocumentDefaults != nil:
		doc = *s.cfg.DocumentDefaults
	}
	if v := q.Get("title"); v != "" {
		doc.Title = v
	}
	if v := q.Get("author"); v != "" {
		doc.Author = v
	}
	opts.Document = &doc
	return opts, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func sourceName(r *http.Request) string {
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return defaultSourceName
}

func diagnostics(res *driver.RenderResult, fs *source.FileSet) *diagfmt.DiagnosticsOutput {
	out, err := diagfmt.BuildDiagnosticsOutput(res.Bag, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeBasename,
		IncludeNotes:     true,
	})
	if err != nil {
		return nil
	}
	return &out
}

func renderOutcome(err error) string {
	switch {
	case errors.Is(err, driver.ErrSyntax):
		return "syntax"
	case errors.Is(err, render.ErrUnhandledConstruct),
		errors.Is(err, render.ErrUnsupportedLiteral),
		errors.Is(err, render.ErrUnexpectedOperator):
		return "unsupported"
	case errors.Is(err, render.ErrTooDeep):
		return "too_deep"
	default:
		return "error"
	}
}

func statusFor(err error) int {
	var re *render.Error
	switch {
	case errors.Is(err, driver.ErrSyntax), errors.As(err, &re):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
