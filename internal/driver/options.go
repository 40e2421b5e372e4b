package driver

import (
	"algotex/internal/document"
	"algotex/internal/naming"
	"algotex/internal/observ"
	"algotex/internal/pipeline"
	"algotex/internal/render"
)

// RenderSettings mirrors the [render] table of algotex.toml.
type RenderSettings struct {
	Indent     string
	Verbatim   []string
	MaxDepth   int
	RawStrings bool

	// VerbatimBuiltins adds naming.PythonBuiltins to Verbatim.
	VerbatimBuiltins bool
}

// verbatim is the effective verbatim list, preset included.
func (s RenderSettings) verbatim() []string {
	if !s.VerbatimBuiltins {
		return s.Verbatim
	}
	out := make([]string, 0, len(s.Verbatim)+len(naming.PythonBuiltins))
	out = append(out, s.Verbatim...)
	return append(out, naming.PythonBuiltins...)
}

// Options controls a render run over one or many files.
type Options struct {
	MaxDiagnostics int
	Jobs           int // 0 = GOMAXPROCS
	Render         RenderSettings
	Document       *document.Options // nil = markup body only
	Cache          *DiskCache        // nil = no caching
	Progress       pipeline.ProgressSink
	Timer          *observ.Timer // shared by every file of the run
	Timings        bool          // attach an OBS6001 diagnostic per file
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

func (o Options) renderOptions() render.Options {
	return render.Options{
		Indent:     o.Render.Indent,
		MaxDepth:   o.Render.MaxDepth,
		RawStrings: o.Render.RawStrings,
		Normalizer: naming.New(o.Render.verbatim()...),
	}
}
