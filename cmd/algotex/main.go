package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"algotex/internal/version"
)

// newRootCmd builds the command tree. Each call returns fresh commands, so
// flag state never leaks between invocations.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "algotex",
		Short: "Render Python algorithms as algorithm2e pseudocode",
		Long: `algotex turns a restricted subset of Python into LaTeX markup for the
algorithm2e package: keyword macros, function declarations and math runs.`,
		SilenceUsage:  true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cleanup, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			profiled := startProfiling(cmd)
			traceCleanup = func() {
				stopProfiling(cmd)
				cleanup()
			}
			return profiled
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			runTraceCleanup()
		},
	}

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newNamesCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("diag-format", "pretty", "diagnostic layout on stderr (pretty|short|json)")
	flags.String("path-mode", "auto", "how diagnostic paths are shown (auto|absolute|relative|basename)")
	flags.String("config", "", "path to algotex.toml (default: search upward from the working directory)")
	addTraceFlags(flags)
	addProfileFlags(flags)
	return rootCmd
}

// main executes the root command and exits with status 1 on failure.
func main() {
	err := newRootCmd().Execute()
	if err != nil {
		dumpTraceRing(os.Stderr)
	}
	// трассировка сбрасывается и при ошибке: PersistentPostRun её не увидит
	runTraceCleanup()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
