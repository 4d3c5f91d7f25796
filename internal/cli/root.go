package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topowidth/internal/config"
	"github.com/matzehuels/topowidth/pkg/buildinfo"
	"github.com/matzehuels/topowidth/pkg/cache"
	"github.com/matzehuels/topowidth/pkg/pipeline"
)

// Execute runs the topowidth CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, loads the configuration named by
// --config (or the default path), and executes the command tree. Both the
// logger and the configuration travel on the context, accessible to all
// commands via loggerFromContext and configFromContext.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// Example:
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd builds the full command tree.
func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "topowidth",
		Short: "Topowidth computes exact treewidth of network topologies",
		Long: `Topowidth measures how tree-like communication networks are. It encodes
graphs for an external exact-treewidth solver, validates every answer the
solver returns, and reports the width together with the certifying tree
decomposition.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file path")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// configKey is the context key for storing the loaded configuration.
const configKey ctxKey = 1

// withConfig returns a new context with the configuration attached.
func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the configuration from ctx.
// If none is attached, it returns the defaults so commands never see nil.
func configFromContext(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// newRunner builds the pipeline runner the configuration describes.
// With noCache the configured backend is ignored and nothing is cached.
func newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)

	var c cache.Cache
	if noCache {
		c = cache.NewNullCache()
	} else {
		var err error
		if c, err = cfg.NewCache(); err != nil {
			return nil, fmt.Errorf("initialize cache: %w", err)
		}
	}
	return pipeline.NewRunner(cfg.NewSolver(logger), c, logger), nil
}
