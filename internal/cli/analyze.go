package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topowidth/internal/config"
	"github.com/matzehuels/topowidth/pkg/graph"
	"github.com/matzehuels/topowidth/pkg/pipeline"
	"github.com/matzehuels/topowidth/pkg/report"
	"github.com/matzehuels/topowidth/pkg/topology"
	"github.com/matzehuels/topowidth/pkg/wire"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output      string        // decomposition output file, or directory in batch mode
	summary     string        // summary file path for batch runs
	solverPath  string        // solver binary override
	timeout     time.Duration // per-graph solver timeout override
	refresh     bool          // bypass cache reads
	noCache     bool          // disable caching entirely
	interactive bool          // pick one topology from a directory
}

// newAnalyzeCmd creates the analyze command, the tool's main entry point.
func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOpts{}

	cmd := &cobra.Command{
		Use:   "analyze [graph|directory]",
		Short: "Compute exact treewidth through the external solver",
		Long: `Compute the exact treewidth of one or many network topologies.

The argument may be a single graph (GML topology or JSON document), or a
directory of GML topologies which is analyzed as a batch with a summary
file written at the end. With no argument the configured data directory
is used.

Every solver answer is validated against the input graph before it is
reported. Identical instances are answered from the cache on repeat runs.

Examples:
  topowidth analyze data/Geant2012.gml
  topowidth analyze graph.json -o decomposition.json
  topowidth analyze data/ --summary results.csv
  topowidth analyze data/ --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runAnalyze(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "decomposition output file, or directory in batch mode")
	cmd.Flags().StringVar(&opts.summary, "summary", "", "batch summary file (.csv extension selects CSV)")
	cmd.Flags().StringVar(&opts.solverPath, "solver", "", "solver binary (overrides configuration)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-graph solver timeout (overrides configuration)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the cache and recompute")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick one topology from the directory interactively")

	return cmd
}

// runAnalyze dispatches between single-graph and batch mode.
func runAnalyze(ctx context.Context, input string, opts *analyzeOpts) error {
	logger := loggerFromContext(ctx)

	// Flag overrides apply to a copy so they never leak into the shared
	// configuration.
	cfg := *configFromContext(ctx)
	if opts.solverPath != "" {
		cfg.Solver.Path = opts.solverPath
	}
	if opts.timeout > 0 {
		cfg.Solver.Timeout = config.Duration(opts.timeout)
	}

	if input == "" {
		input = cfg.Paths.Data
	}
	info, err := os.Stat(input)
	if err != nil {
		return err
	}

	runner, err := newRunner(ctx, &cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if !info.IsDir() {
		g, err := loadGraph(input, logger)
		if err != nil {
			return err
		}
		if _, err := analyzeOne(ctx, runner, g, opts, opts.output); err != nil {
			return err
		}
		if opts.output != "" {
			printNextStep("Render it", "topowidth render "+opts.output)
		}
		return nil
	}

	return runAnalyzeDir(ctx, runner, &cfg, input, opts)
}

// runAnalyzeDir analyzes every topology in dir. Individual failures are
// reported and skipped so one hard instance cannot sink a dataset run; the
// summary file covers everything that succeeded.
func runAnalyzeDir(ctx context.Context, runner *pipeline.Runner, cfg *config.Config, dir string, opts *analyzeOpts) error {
	logger := loggerFromContext(ctx)

	graphs, err := loadGraphDir(dir, logger)
	if err != nil {
		return err
	}
	if len(graphs) == 0 {
		return fmt.Errorf("no topologies found in %s", dir)
	}

	if opts.interactive {
		g, err := pickTopology(graphs)
		if errors.Is(err, errSelectionAborted) {
			printInfo("No topology selected")
			return nil
		}
		if err != nil {
			return err
		}
		_, err = analyzeOne(ctx, runner, g, opts, opts.output)
		return err
	}

	summaryPath := opts.summary
	if summaryPath == "" {
		summaryPath = filepath.Join(cfg.Paths.Output, "summary.txt")
	}
	if opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return err
		}
	}

	logger.Infof("Analyzing %d topologies from %s", len(graphs), dir)
	prog := newProgress(logger)

	rows := make([]report.Row, 0, len(graphs))
	failed := 0
	for _, g := range graphs {
		outPath := ""
		if opts.output != "" {
			outPath = filepath.Join(opts.output, g.Name()+".json")
		}
		res, err := analyzeOne(ctx, runner, g, opts, outPath)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			printError("%s: %v", g.Name(), err)
			failed++
			continue
		}
		rows = append(rows, report.Row{
			Graph: g.Name(),
			Nodes: res.Stats.NodeCount,
			Edges: res.Stats.EdgeCount,
			Width: res.Width,
		})
	}
	prog.done(fmt.Sprintf("Analyzed %d of %d topologies", len(rows), len(graphs)))

	printNewline()
	if parent := filepath.Dir(summaryPath); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return err
		}
	}
	if err := report.WriteFile(summaryPath, rows); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	printFile(summaryPath)

	if failed > 0 {
		return fmt.Errorf("%d of %d topologies failed", failed, len(graphs))
	}
	printSuccess("Analyzed %d topologies", len(rows))
	return nil
}

// analyzeOne runs the pipeline for one graph, prints its outcome, and
// writes the decomposition when outPath is set.
func analyzeOne(ctx context.Context, runner *pipeline.Runner, g *graph.Graph[string], opts *analyzeOpts, outPath string) (*pipeline.Result[string], error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", g.Name()))
	spinner.Start()
	res, err := pipeline.Analyze(ctx, runner, g, pipeline.Options{Refresh: opts.refresh})
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	if res.Report.Valid {
		printSuccess("%s: treewidth %d", g.Name(), res.Width)
	} else {
		printWarning("%s: solver answer failed %s validation", g.Name(), res.Report.Failed)
		printDetail("%s", res.Report.Detail)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.BagCount, res.CacheHit)

	if outPath != "" {
		if err := wire.WriteDecompositionFile(res.Decomposition, outPath); err != nil {
			return nil, fmt.Errorf("write decomposition: %w", err)
		}
		printFile(outPath)
	}
	return res, nil
}

// isGML reports whether path names a GML topology file.
func isGML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gml")
}

// loadGraph reads one graph, GML or JSON. GML node ids are converted to
// string identities so every command downstream handles a single graph
// type, and the same topology produces the same cache key regardless of
// which format it arrived in.
func loadGraph(path string, logger *log.Logger) (*graph.Graph[string], error) {
	if isGML(path) {
		g, err := topology.ReadFile(path, logger)
		if err != nil {
			return nil, err
		}
		return wire.ToGraph(wire.FromGraph(g), logger)
	}
	return wire.ReadGraphFile(path, logger)
}

// loadGraphDir reads every GML topology under dir.
func loadGraphDir(dir string, logger *log.Logger) ([]*graph.Graph[string], error) {
	parsed, err := topology.ReadDir(dir, logger)
	if err != nil {
		return nil, err
	}
	graphs := make([]*graph.Graph[string], 0, len(parsed))
	for _, g := range parsed {
		sg, err := wire.ToGraph(wire.FromGraph(g), logger)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, sg)
	}
	return graphs, nil
}
