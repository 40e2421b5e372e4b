package render

import "strings"

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeText makes s safe for LaTeX text mode.
func EscapeText(s string) string {
	return latexEscaper.Replace(s)
}

func (r *Renderer) text(s string) string {
	if r.opts.RawStrings {
		return s
	}
	return EscapeText(s)
}
