package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topowidth/internal/api"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve validation and decomposition over HTTP",
		Long: `Serve the analysis API over HTTP.

Endpoints:
  GET  /healthz              liveness probe
  POST /api/v1/validate      check a decomposition against a graph
  POST /api/v1/decompose     run the full pipeline for a graph

The decompose endpoint needs the configured solver binary; validate works
without one. The server shares the CLI's cache, so instances solved on
the command line are answered from cache over HTTP and vice versa.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides configuration)")
	return cmd
}

// runServe starts the API server and keeps it up until the context ends,
// then shuts it down gracefully.
func runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := api.NewServer(runner, addr, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
