package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"algotex/internal/document"
	"algotex/internal/driver"
	"algotex/internal/observ"
	"algotex/internal/pipeline"
	"algotex/internal/project"
	"algotex/internal/source"
	"algotex/internal/ui"
)

const (
	stdinName = "<stdin>"
	cacheApp  = "algotex"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [flags] [file.py|directory|-]",
		Short: "Render Python source as algorithm2e markup",
		Long: `Render converts a Python file, every *.py file of a directory, or standard
input (-, the default) into algorithm2e markup. A single input is written to
stdout unless --output is given; a directory writes one .tex file per source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRender,
	}
	cmd.Flags().StringP("output", "o", "", "output file (single input) or directory (directory input)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	addUIFlag(cmd.Flags())
	cmd.Flags().Bool("no-cache", false, "disable the on-disk render cache")
	cmd.Flags().Bool("clear-cache", false, "drop every cached render before running")
	addDocumentFlags(cmd)
	addRenderFlags(cmd)
	return cmd
}

func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("document", false, "wrap the markup into a standalone LaTeX document")
	cmd.Flags().String("title", "", "document title (default from algotex.toml)")
	cmd.Flags().String("author", "", "document author (default from algotex.toml)")
	cmd.Flags().Bool("no-source-column", false, "omit the Python listing beside the algorithm")
}

// documentOptions returns nil unless --document is set.
func documentOptions(cmd *cobra.Command, cfg project.Config) (*document.Options, error) {
	flags := cmd.Flags()
	enabled, err := flags.GetBool("document")
	if err != nil {
		return nil, fmt.Errorf("failed to get document flag: %w", err)
	}
	if !enabled {
		return nil, nil
	}
	doc := cfg.DocumentOptions()
	if flags.Changed("title") {
		if doc.Title, err = flags.GetString("title"); err != nil {
			return nil, fmt.Errorf("failed to get title flag: %w", err)
		}
	}
	if flags.Changed("author") {
		if doc.Author, err = flags.GetString("author"); err != nil {
			return nil, fmt.Errorf("failed to get author flag: %w", err)
		}
	}
	noColumn, err := flags.GetBool("no-source-column")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-source-column flag: %w", err)
	}
	if noColumn {
		doc.SourceColumn = false
	}
	return &doc, nil
}

// buildOptions assembles driver options shared by render and watch.
func buildOptions(cmd *cobra.Command, cfg project.Config) (driver.Options, error) {
	var opts driver.Options
	settings, err := renderSettings(cmd, cfg)
	if err != nil {
		return opts, err
	}
	opts.Render = settings
	if opts.MaxDiagnostics, err = maxDiagnostics(cmd); err != nil {
		return opts, err
	}
	if opts.Document, err = documentOptions(cmd, cfg); err != nil {
		return opts, err
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return opts, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

// openCache opens the user cache unless disabled. A cache that cannot be
// opened only costs speed, so the failure is reported and ignored.
func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache(cacheApp)
	if err != nil {
		if !quietFlag(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: render cache disabled: %v\n", err)
		}
		return nil, nil
	}
	if clear, _ := cmd.Flags().GetBool("clear-cache"); clear {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear render cache: %w", err)
		}
	}
	return cache, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	target := "-"
	if len(args) == 1 {
		target = args[0]
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cmd, cfg)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		fs, res := driver.RenderSource(cmd.Context(), stdinName, content, opts)
		return finishSingle(cmd, fs, res, output, opts)
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}

	if !st.IsDir() {
		fs, res, err := driver.RenderFile(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", target, err)
		}
		return finishSingle(cmd, fs, res, output, opts)
	}

	files, err := driver.ListPyFiles(target)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", target, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .py files under %s", target)
	}

	plan := outputPlan{srcRoot: target, outDir: output}
	useUI := !quietFlag(cmd) && uiModeFlag(cmd.Flags()).wantsTUI(cmd.OutOrStdout())
	var batch *batchResult
	if useUI {
		batch, err = renderWithUI(cmd.Context(), cmd.OutOrStdout(), "rendering "+target, target, files, plan, opts)
	} else {
		batch, err = renderBatch(cmd.Context(), target, files, plan, opts)
	}
	if err != nil {
		return err
	}
	return reportBatch(cmd, batch, opts)
}

// finishSingle reports diagnostics and writes the output of one input.
func finishSingle(cmd *cobra.Command, fs *source.FileSet, res *driver.RenderResult, output string, opts driver.Options) error {
	printDiagnostics(cmd, res.Bag, fs)
	if opts.Timer != nil && !quietFlag(cmd) {
		printStageTimings(cmd.ErrOrStderr(), res.Path, res.Timings)
	}
	if res.Err != nil {
		return fmt.Errorf("%s: render failed: %w", res.Path, res.Err)
	}
	if output == "" || output == "-" {
		_, err := cmd.OutOrStdout().Write(res.Output)
		return err
	}
	return writeFile(output, res.Output)
}

// outputPlan maps a source file to its .tex destination: beside the source,
// or mirrored under outDir.
type outputPlan struct {
	srcRoot string
	outDir  string
	single  string // fixed destination for a single watched file
}

func (p outputPlan) pathFor(file string) string {
	if p.single != "" {
		return p.single
	}
	name := strings.TrimSuffix(file, filepath.Ext(file)) + ".tex"
	if p.outDir == "" {
		return name
	}
	rel, err := filepath.Rel(p.srcRoot, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(name)
	}
	return filepath.Join(p.outDir, rel)
}

type batchResult struct {
	fs      *source.FileSet
	files   []string
	results []*driver.RenderResult
	written []string // destination per result, empty when not written
}

// renderBatch renders files and writes every successful output.
func renderBatch(ctx context.Context, baseDir string, files []string, plan outputPlan, opts driver.Options) (*batchResult, error) {
	fs, results, err := driver.RenderFiles(ctx, baseDir, files, opts)
	if err != nil {
		return nil, err
	}
	batch := &batchResult{fs: fs, files: files, results: results, written: make([]string, len(results))}
	for i, res := range results {
		if res == nil || res.Err != nil {
			continue
		}
		status := pipeline.StatusDone
		if res.Cached {
			status = pipeline.StatusCached
		}
		pipeline.Emit(opts.Progress, pipeline.Event{File: res.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})
		dest := plan.pathFor(files[i])
		if err := writeFile(dest, res.Output); err != nil {
			res.Err = err
			pipeline.Emit(opts.Progress, pipeline.Event{File: res.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusError, Err: err})
			continue
		}
		batch.written[i] = dest
		pipeline.Emit(opts.Progress, pipeline.Event{File: res.Path, Stage: pipeline.StageWrite, Status: status})
	}
	return batch, nil
}

// renderWithUI runs renderBatch while the progress view consumes its events.
func renderWithUI(ctx context.Context, out io.Writer, title, baseDir string, files []string, plan outputPlan, opts driver.Options) (*batchResult, error) {
	events := make(chan pipeline.Event, 256)
	type outcome struct {
		batch *batchResult
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		o := opts
		o.Progress = pipeline.ChannelSink{Ch: events}
		batch, err := renderBatch(ctx, baseDir, files, plan, o)
		close(events)
		done <- outcome{batch: batch, err: err}
	}()

	uiErr := ui.RunProgress(out, title, nil, events)
	// после ctrl+c вид больше не читает канал, а рендер ещё пишет в него
	go func() {
		for range events {
		}
	}()
	res := <-done
	if res.err != nil {
		return nil, res.err
	}
	return res.batch, uiErr
}

// reportBatch prints diagnostics, timings and a summary; it fails when any
// file failed.
func reportBatch(cmd *cobra.Command, batch *batchResult, opts driver.Options) error {
	var failed, cached int
	for _, res := range batch.results {
		if res == nil {
			continue
		}
		printDiagnostics(cmd, res.Bag, batch.fs)
		switch {
		case res.Err != nil:
			failed++
		case res.Cached:
			cached++
		}
	}
	errOut := cmd.ErrOrStderr()
	if !quietFlag(cmd) {
		if opts.Timer != nil {
			fmt.Fprint(errOut, opts.Timer.Summary())
		}
		fmt.Fprintf(errOut, "rendered %d of %d files (%d cached)\n", len(batch.results)-failed, len(batch.results), cached)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to render", failed, len(batch.results))
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
