package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"algotex/internal/version"
)

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show algotex build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		_, err = io.WriteString(out, version.Info(useColor(cmd, out)))
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(versionPayload{
			Tool:       "algotex",
			Version:    valueOrUnknown(version.Version),
			GitCommit:  strings.TrimSpace(version.GitCommit),
			GitMessage: strings.TrimSpace(version.GitMessage),
			BuildDate:  strings.TrimSpace(version.BuildDate),
		})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
