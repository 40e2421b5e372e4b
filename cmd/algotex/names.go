package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"algotex/internal/driver"
	"algotex/internal/naming"
)

func newNamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names [flags] file.py",
		Short: "Print the function macros a file declares",
		Long: `Names lists the normalized names that render would declare with
\SetKwFunction: defined functions and called functions, in first-seen order.`,
		Args: cobra.ExactArgs(1),
		RunE: runNames,
	}
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().StringSlice("verbatim", nil, "names left untouched by the normalizer (added to the config list)")
	cmd.Flags().Bool("verbatim-builtins", false, "leave Python builtins such as range and print unnormalized")
	return cmd
}

func runNames(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	verbatim, err := verbatimNames(cmd, cfg)
	if err != nil {
		return err
	}
	builtins, err := verbatimBuiltins(cmd, cfg)
	if err != nil {
		return err
	}
	if builtins {
		verbatim = append(verbatim, naming.PythonBuiltins...)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	result, names, err := driver.CollectNames(args[0], verbatim, maxDiag)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	printDiagnostics(cmd, result.Bag, result.FileSet)
	if names == nil {
		return fmt.Errorf("%s: %w", args[0], driver.ErrSyntax)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(names)
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
