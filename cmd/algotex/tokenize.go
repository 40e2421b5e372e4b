package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"algotex/internal/diagfmt"
	"algotex/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.py",
		Short: "Tokenize a Python source file",
		Long:  `Tokenize breaks a Python source file down into the tokens the parser consumes`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiag)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	// диагностика в stderr, токены всё равно печатаем
	printDiagnostics(cmd, result.Bag, result.FileSet)

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(out, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
