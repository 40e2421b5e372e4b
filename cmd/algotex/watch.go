package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"algotex/internal/driver"
	"algotex/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] file.py|directory",
		Short: "Re-render sources whenever they change",
		Long: `Watch renders the input once, then re-renders every changed .py file.
Outputs are written beside the sources, or under --output.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
	cmd.Flags().StringP("output", "o", "", "output file (single input) or directory (directory input)")
	cmd.Flags().Int("jobs", 0, "max parallel workers per batch (0=auto)")
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a batch of changes is rendered")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk render cache")
	cmd.Flags().Bool("clear-cache", false, "drop every cached render before running")
	addDocumentFlags(cmd)
	addRenderFlags(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cmd, cfg)
	if err != nil {
		return err
	}
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	plan := outputPlan{srcRoot: target, outDir: output}
	baseDir := target
	var initial []string
	if st.IsDir() {
		if initial, err = driver.ListPyFiles(target); err != nil {
			return fmt.Errorf("failed to list %s: %w", target, err)
		}
	} else {
		baseDir = filepath.Dir(target)
		plan = outputPlan{single: output}
		initial = []string{target}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(target, debounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	defer w.Close()

	rebuild := func(ctx context.Context, files []string) {
		if len(files) == 0 {
			return
		}
		batch, err := renderBatch(ctx, baseDir, files, plan, opts)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
			return
		}
		reportWatchBatch(cmd, batch)
	}

	rebuild(ctx, initial)
	if !quietFlag(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl+c to stop)\n", target)
	}
	return w.Run(ctx, rebuild)
}

// reportWatchBatch prints diagnostics and one line per written file. Failures
// never stop the watch loop.
func reportWatchBatch(cmd *cobra.Command, batch *batchResult) {
	errOut := cmd.ErrOrStderr()
	for i, res := range batch.results {
		if res == nil {
			continue
		}
		printDiagnostics(cmd, res.Bag, batch.fs)
		if quietFlag(cmd) {
			continue
		}
		switch {
		case res.Err != nil:
			fmt.Fprintf(errOut, "failed  %s: %v\n", res.Path, res.Err)
		case batch.written[i] != "":
			fmt.Fprintf(errOut, "wrote   %s\n", batch.written[i])
		}
	}
}
