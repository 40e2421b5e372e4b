package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"algotex/internal/driver"
	"algotex/internal/server"
	"algotex/internal/trace"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the renderer over HTTP",
		Long: `Serve answers POST /render and POST /names with the request body as
Python source, exposes Prometheus metrics on /metrics and liveness on /healthz.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", server.DefaultAddr, "listen address")
	cmd.Flags().Int64("max-body", server.DefaultMaxBody, "request body limit in bytes")
	addRenderFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := renderSettings(cmd, cfg)
	if err != nil {
		return err
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("failed to get addr flag: %w", err)
	}
	maxBody, err := cmd.Flags().GetInt64("max-body")
	if err != nil {
		return fmt.Errorf("failed to get max-body flag: %w", err)
	}

	// документ собирается только по запросу (?document=true) с параметрами из конфига
	doc := cfg.DocumentOptions()
	doc.SourceColumn = false

	tp := server.NewTracerProvider(trace.FromContext(cmd.Context()))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	srv := server.New(server.Config{
		Addr:    addr,
		MaxBody: maxBody,
		Render: driver.Options{
			MaxDiagnostics: maxDiag,
			Render:         settings,
		},
		DocumentDefaults: &doc,
		Tracer:           trace.FromContext(cmd.Context()),
		TracerProvider:   tp,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if !quietFlag(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "algotex serving on http://%s\n", srv.Addr())
	}
	return srv.ListenAndServe(ctx)
}
