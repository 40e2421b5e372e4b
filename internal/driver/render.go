package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"algotex/internal/collect"
	"algotex/internal/diag"
	"algotex/internal/document"
	"algotex/internal/pipeline"
	"algotex/internal/pyast"
	"algotex/internal/render"
	"algotex/internal/source"
	"algotex/internal/trace"
)

// ErrSyntax marks a file whose diagnostics stopped it before rendering.
var ErrSyntax = errors.New("source has syntax errors")

// RenderResult is the outcome of rendering one file.
type RenderResult struct {
	Path    string
	FileID  source.FileID
	Output  []byte   // markup, or the full document when Options.Document is set
	Names   []string // declared macro names in first-seen order
	Bag     *diag.Bag
	Cached  bool
	Timings pipeline.Timings
	Err     error // ErrSyntax, a *render.Error, or an I/O failure
}

// RenderFile loads path and renders it.
func RenderFile(ctx context.Context, path string, opts Options) (*source.FileSet, *RenderResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return fs, renderLoaded(ctx, fs, fs.Get(fileID), &opts), nil
}

// RenderSource renders in-memory content (stdin, HTTP body) under name.
func RenderSource(ctx context.Context, name string, content []byte, opts Options) (*source.FileSet, *RenderResult) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	if opts.Document != nil {
		doc := *opts.Document
		doc.SourceColumn = false
		opts.Document = &doc
	}
	return fs, renderLoaded(ctx, fs, fs.Get(fileID), &opts)
}

type fileRun struct {
	ctx    context.Context
	opts   *Options
	res    *RenderResult
	tracer trace.Tracer
	span   *trace.Span
}

// pass runs one stage under a trace span, a timer phase and a progress event.
func (r *fileRun) pass(stage pipeline.Stage, fn func() error) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	pipeline.Emit(r.opts.Progress, pipeline.Event{File: r.res.Path, Stage: stage, Status: pipeline.StatusWorking})
	span := trace.Begin(r.tracer, trace.ScopePass, string(stage), trace.ParentID(r.ctx))
	done := r.opts.Timer.Track(string(stage))
	start := time.Now()

	err := fn()

	elapsed := time.Since(start)
	r.res.Timings.Add(stage, elapsed)
	note := ""
	if err != nil {
		note = err.Error()
	}
	done(note)
	span.End(note)
	return err
}

func (r *fileRun) finish(status pipeline.Status, err error) *RenderResult {
	r.res.Err = err
	detail := string(status)
	if err != nil {
		detail = err.Error()
	}
	r.span.WithExtra("status", string(status)).End(detail)
	pipeline.Emit(r.opts.Progress, pipeline.Event{
		File:    r.res.Path,
		Stage:   pipeline.StageRender,
		Status:  status,
		Err:     err,
		Elapsed: r.res.Timings.Sum(),
	})
	if r.opts.Timings {
		appendTimingDiagnostic(r.res.Bag, timingPayload{Kind: "file", Path: r.res.Path, Timings: r.res.Timings, File: r.res.FileID})
	}
	return r.res
}

func renderLoaded(ctx context.Context, fs *source.FileSet, file *source.File, opts *Options) *RenderResult {
	span, ctx := trace.Child(ctx, trace.ScopeFile, file.Path)
	run := &fileRun{
		ctx:    ctx,
		opts:   opts,
		tracer: trace.FromContext(ctx),
		span:   span,
		res: &RenderResult{
			Path:   file.Path,
			FileID: file.ID,
			Bag:    diag.NewBag(opts.maxDiagnostics()),
		},
	}
	res := run.res

	if err := ctx.Err(); err != nil {
		return run.finish(pipeline.StatusError, err)
	}

	key := cacheKey(file, opts)
	if opts.Cache != nil {
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: file.ID}, "render cache read failed: "+err.Error()))
		case hit:
			res.Output = payload.Output
			res.Names = payload.Names
			res.Cached = true
			return run.finish(pipeline.StatusCached, nil)
		}
	}

	return renderTree(run, fs, file, key)
}

func renderTree(run *fileRun, fs *source.FileSet, file *source.File, key Digest) *RenderResult {
	res, opts := run.res, run.opts

	var parsed *pyast.Tree
	err := run.pass(pipeline.StageParse, func() error {
		var perr error
		parsed, perr = parseFile(file, res.Bag, opts.maxDiagnostics())
		if perr != nil {
			return perr
		}
		if res.Bag.HasErrors() {
			return fmt.Errorf("%s: %w", file.Path, ErrSyntax)
		}
		return nil
	})
	if err != nil {
		return run.finish(pipeline.StatusError, err)
	}

	rOpts := opts.renderOptions()
	var names *collect.Set
	err = run.pass(pipeline.StageCollect, func() error {
		names = collect.Names(parsed, rOpts.Normalizer)
		return nil
	})
	if err != nil {
		return run.finish(pipeline.StatusError, err)
	}
	res.Names = names.Names()

	rOpts.Names = names
	rOpts.Tracer = run.tracer
	rOpts.ParentSpan = trace.ParentID(run.ctx)
	var markup bytes.Buffer
	err = run.pass(pipeline.StageRender, func() error {
		return render.Render(parsed, &markup, rOpts)
	})
	if err != nil {
		if d, ok := render.Diagnostic(err); ok {
			res.Bag.Add(d)
		}
		return run.finish(pipeline.StatusError, err)
	}
	res.Output = markup.Bytes()

	if opts.Document != nil {
		var doc bytes.Buffer
		docOpts := *opts.Document
		docOpts.SourcePath = sourcePathFor(fs, file, docOpts.SourcePath)
		err = run.pass(pipeline.StageAssemble, func() error {
			return document.Assemble(&doc, res.Output, docOpts)
		})
		if err != nil {
			return run.finish(pipeline.StatusError, err)
		}
		res.Output = doc.Bytes()
	}

	if opts.Cache != nil {
		payload := &DiskPayload{Path: file.Path, Output: res.Output, Names: res.Names, Created: time.Now()}
		if err := opts.Cache.Put(key, payload); err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: file.ID}, "render cache write failed: "+err.Error()))
		}
	}
	return run.finish(pipeline.StatusDone, nil)
}

// sourcePathFor picks the path \inputminted should read: an explicit
// override, else the file path relative to the file set base.
func sourcePathFor(fs *source.FileSet, file *source.File, override string) string {
	if override != "" {
		return override
	}
	if file.Flags&source.FileVirtual != 0 {
		return ""
	}
	return file.FormatPath("relative", fs.BaseDir())
}
