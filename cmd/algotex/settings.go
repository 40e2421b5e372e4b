package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"algotex/internal/diag"
	"algotex/internal/diagfmt"
	"algotex/internal/driver"
	"algotex/internal/project"
	"algotex/internal/source"
	"algotex/internal/version"
)

// loadConfig reads --config, or discovers algotex.toml upward from the
// working directory, and applies the [tool].min_version gate.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg project.Config
	if path != "" {
		cfg, err = project.Load(path)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return project.Config{}, err
		}
		cfg, err = project.Discover(wd)
	}
	if err != nil {
		return project.Config{}, err
	}
	if err := cfg.CheckVersion(version.Version); err != nil {
		return project.Config{}, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	return cfg, nil
}

// addRenderFlags registers the flags that override the [render] table.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("indent", "", "indentation unit (default from algotex.toml)")
	cmd.Flags().StringSlice("verbatim", nil, "names left untouched by the normalizer (added to the config list)")
	cmd.Flags().Bool("verbatim-builtins", false, "leave Python builtins such as range and print unnormalized")
	cmd.Flags().Int("max-depth", 0, "nesting guard (0 keeps the configured value)")
	cmd.Flags().Bool("raw-strings", false, "emit string literals without LaTeX escaping")
}

// renderSettings merges [render] with the command-line overrides.
func renderSettings(cmd *cobra.Command, cfg project.Config) (driver.RenderSettings, error) {
	settings := driver.RenderSettings{
		Indent:     cfg.Render.Indent,
		MaxDepth:   cfg.Render.MaxDepth,
		RawStrings: !cfg.Render.EscapeStrings,
	}
	flags := cmd.Flags()
	if flags.Changed("indent") {
		indent, err := flags.GetString("indent")
		if err != nil {
			return settings, fmt.Errorf("failed to get indent flag: %w", err)
		}
		if indent == "" {
			return settings, fmt.Errorf("--indent must not be empty")
		}
		settings.Indent = indent
	}
	verbatim, err := verbatimNames(cmd, cfg)
	if err != nil {
		return settings, err
	}
	settings.Verbatim = verbatim
	if settings.VerbatimBuiltins, err = verbatimBuiltins(cmd, cfg); err != nil {
		return settings, err
	}
	depth, err := flags.GetInt("max-depth")
	if err != nil {
		return settings, fmt.Errorf("failed to get max-depth flag: %w", err)
	}
	if depth < 0 {
		return settings, fmt.Errorf("--max-depth must not be negative")
	}
	if depth > 0 {
		settings.MaxDepth = depth
	}
	if flags.Changed("raw-strings") {
		raw, err := flags.GetBool("raw-strings")
		if err != nil {
			return settings, fmt.Errorf("failed to get raw-strings flag: %w", err)
		}
		settings.RawStrings = raw
	}
	return settings, nil
}

// verbatimNames is [render].verbatim plus every --verbatim value.
func verbatimNames(cmd *cobra.Command, cfg project.Config) ([]string, error) {
	names := append([]string(nil), cfg.Render.Verbatim...)
	extra, err := cmd.Flags().GetStringSlice("verbatim")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbatim flag: %w", err)
	}
	for _, name := range extra {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// verbatimBuiltins is [render].verbatim_builtins unless --verbatim-builtins
// was given.
func verbatimBuiltins(cmd *cobra.Command, cfg project.Config) (bool, error) {
	if !cmd.Flags().Changed("verbatim-builtins") {
		return cfg.Render.VerbatimBuiltins, nil
	}
	on, err := cmd.Flags().GetBool("verbatim-builtins")
	if err != nil {
		return false, fmt.Errorf("failed to get verbatim-builtins flag: %w", err)
	}
	return on, nil
}

func maxDiagnostics(cmd *cobra.Command) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return n, nil
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return quiet
}

// useColor resolves --color for the given stream.
func useColor(cmd *cobra.Command, w io.Writer) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// printDiagnostics writes bag to stderr in the --diag-format layout.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	errOut := cmd.ErrOrStderr()
	flags := cmd.Root().PersistentFlags()
	maxDiag, _ := maxDiagnostics(cmd)
	format, _ := flags.GetString("diag-format")
	pathMode, _ := flags.GetString("path-mode")
	mode := diagfmt.ParsePathMode(pathMode)

	switch format {
	case "short":
		items := bag.Items()
		if maxDiag > 0 && maxDiag < len(items) {
			items = items[:maxDiag]
		}
		fmt.Fprintln(errOut, diag.FormatShort(items, fs, true))
	case "json":
		if err := diagfmt.JSON(errOut, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         mode,
			Max:              maxDiag,
			IncludeNotes:     true,
		}); err != nil {
			fmt.Fprintf(errOut, "failed to encode diagnostics: %v\n", err)
		}
	default:
		diagfmt.Pretty(errOut, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, errOut),
			Context:   2,
			PathMode:  mode,
			ShowNotes: true,
			Max:       maxDiag,
		})
	}
}
