package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"algotex/internal/diag"
	"algotex/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i := range items {
		d := &items[i]
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(location(d.Primary, fs, opts.PathMode)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			truncate(d.Message, opts.Width))
		writeContext(w, p, fs, d.Primary, opts.Context)

		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(note.Span, fs, opts.PathMode), note.Msg)
			writeContext(w, p, fs, note.Span, 0)
		}
	}
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	default:
		return f.FormatPath(mode.String(), "")
	}
}

// writeContext печатает строку с ошибкой и ctx строк вокруг неё.
func writeContext(w io.Writer, p palette, fs *source.FileSet, span source.Span, ctx int8) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := start.Line
	last := start.Line
	if ctx > 0 {
		c := uint32(ctx)
		if first > c {
			first -= c
		} else {
			first = 1
		}
		last += c
	}
	lines := uint32(len(f.LineIdx)) + 1
	if last > lines {
		last = lines
	}
	gutterWidth := len(fmt.Sprint(last))
	for n := first; n <= last; n++ {
		line := f.GetLine(n)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), expandTabs(line))
		if n != start.Line {
			continue
		}
		lead, width := caretColumns(line, start, end)
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", lead),
			p.caret.Sprint("^"+strings.Repeat("~", width-1)))
	}
}

// caretColumns returns the display offset and width of the underline.
// Multi-line spans are underlined to the end of the first line.
func caretColumns(line string, start, end source.LineCol) (lead, width int) {
	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	lead = runewidth.StringWidth(expandTabs(line[:col]))

	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}
	width = runewidth.StringWidth(expandTabs(line[col:stop]))
	if width < 1 {
		width = 1
	}
	return lead, width
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func truncate(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
