package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"algotex/internal/diagfmt"
	"algotex/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.py",
		Short: "Parse a Python file and dump its syntax tree",
		Long:  `Parse prints the syntax tree the renderer works on, for debugging unexpected markup`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], maxDiag)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	printDiagnostics(cmd, result.Bag, result.FileSet)
	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: %w", args[0], driver.ErrSyntax)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(out, result.Tree, result.FileSet)
	case "json":
		return diagfmt.FormatTreeJSON(out, result.Tree)
	case "tree":
		return diagfmt.FormatTreeDiagram(out, result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
