// Package document wraps rendered pseudocode into a standalone LaTeX file.
package document

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"algotex/internal/render"
)

const (
	DefaultPackageOptions = "linesnumbered,lined,boxed,commentsnumbered"
	DefaultTitle          = "Python2Algorithm"
)

// Options describes the preamble and layout of the assembled document.
type Options struct {
	PackageOptions string // algorithm2e options
	Title          string
	Author         string
	// SourceColumn puts the Python listing beside the algorithm (paracol + minted).
	// Ignored when SourcePath is empty, e.g. for stdin input.
	SourceColumn bool
	SourcePath   string
}

type templateData struct {
	PackageOptions string
	Title          string
	Author         string
	SourceColumn   bool
	Source         string
	Body           string
}

// Шаблон с разделителями << >>: в LaTeX и так слишком много фигурных скобок.
const documentTemplate = `\documentclass{article}
\usepackage[<<.PackageOptions>>]{algorithm2e}
<<if .SourceColumn>>\usepackage{minted}
\usepackage{paracol}
<<end>>\usepackage[usenames]{color}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage[utf8]{inputenc}
\usepackage[OT1]{fontenc}
<<if .SourceColumn>>\columnratio{0.55}
<<end>>\usepackage{geometry}
\geometry{left=3.0cm,right=3.0cm,top=1.0cm,bottom=1.0cm,columnsep=1.0cm}
\title{<<.Title>>}
\author{<<.Author>>}
\begin{document}
\maketitle
<<if .SourceColumn>>\begin{paracol}{2}
<<end>>\begin{algorithm}
<<.Body>>
\end{algorithm}
<<if .SourceColumn>>\switchcolumn
\inputminted{python3}{<<.Source>>}
\end{paracol}
<<end>>\end{document}
`

var tmpl = template.Must(template.New("document").Delims("<<", ">>").Parse(documentTemplate))

func (o Options) withDefaults() Options {
	if o.PackageOptions == "" {
		o.PackageOptions = DefaultPackageOptions
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

// Assemble writes a complete LaTeX document around body.
// Nothing is written to w when the template fails.
func Assemble(w io.Writer, body []byte, opts Options) error {
	opts = opts.withDefaults()
	data := templateData{
		PackageOptions: opts.PackageOptions,
		Title:          render.EscapeText(opts.Title),
		Author:         render.EscapeText(opts.Author),
		SourceColumn:   opts.SourceColumn && opts.SourcePath != "",
		Source:         filepath.ToSlash(opts.SourcePath),
		Body:           strings.TrimRight(string(body), "\n"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("assemble document: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
