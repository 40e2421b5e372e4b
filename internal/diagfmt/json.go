package diagfmt

import (
	"encoding/json"
	"io"

	"algotex/internal/diag"
	"algotex/internal/source"
)

// LocationJSON is a span in JSON output. Line and column are 1-based and
// omitted unless positions were requested.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root JSON object. Errors and Warnings count the
// whole bag; Truncated is set when Max cut the list short.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// locator resolves spans for one output, remembering formatted paths per file.
type locator struct {
	fs    *source.FileSet
	opts  JSONOpts
	paths map[source.FileID]string
}

func (l *locator) path(id source.FileID) string {
	if p, ok := l.paths[id]; ok {
		return p
	}
	p := "<unknown>"
	if f := l.fs.Get(id); f != nil {
		p = formatPath(f, l.fs, l.opts.PathMode)
	}
	l.paths[id] = p
	return p
}

func (l *locator) at(span source.Span) LocationJSON {
	loc := LocationJSON{File: l.path(span.File), StartByte: span.Start, EndByte: span.End}
	if l.opts.IncludePositions {
		start, end := l.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (l *locator) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: l.at(d.Primary),
	}
	// timing payloads live in notes
	if l.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: l.at(n.Span)})
		}
	}
	return out
}

// BuildDiagnosticsOutput builds the JSON structure without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	items := bag.Items()
	l := &locator{fs: fs, opts: opts, paths: make(map[source.FileID]string)}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for i := range items {
		switch items[i].Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
		if opts.Max > 0 && len(out.Diagnostics) == opts.Max {
			out.Truncated = true
			continue
		}
		out.Diagnostics = append(out.Diagnostics, l.diagnostic(&items[i]))
	}
	out.Count = len(out.Diagnostics)
	return out, nil
}

// JSON пишет диагностики одним JSON-объектом.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
