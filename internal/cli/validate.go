package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/wire"
)

// newValidateCmd creates the validate command.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <graph> <decomposition.json>",
		Short: "Check a tree decomposition against its graph",
		Long: `Check that a decomposition is a valid tree decomposition of a graph.

The four properties are checked in order: the decomposition must be a
tree, every graph node must appear in some bag, every edge's endpoints
must share a bag, and each node's bags must form a connected subtree.
The first failed property names the verdict and the command exits with
status 1.

Examples:
  topowidth validate data/Abilene.gml decomposition.json
  topowidth validate graph.json decomposition.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0], args[1])
		},
	}
	return cmd
}

// runValidate checks the decomposition and reports the verdict. Validity
// drives the exit code: an invalid decomposition is a command failure.
func runValidate(ctx context.Context, graphPath, decompPath string) error {
	logger := loggerFromContext(ctx)

	g, err := loadGraph(graphPath, logger)
	if err != nil {
		return err
	}
	d, err := wire.ReadDecompositionFile(decompPath, logger)
	if err != nil {
		return err
	}

	rep := decomp.Check(g, d)
	if !rep.Valid {
		printError("%s is not a valid decomposition of %s", filepath.Base(decompPath), g.Name())
		printDetail("failed property: %s", rep.Failed)
		printDetail("%s", rep.Detail)
		return fmt.Errorf("validation failed: %s", rep.Failed)
	}

	width := -1
	if d.BagCount() > 0 {
		if width, err = d.Width(); err != nil {
			return err
		}
	}
	printSuccess("%s is a valid decomposition of %s", filepath.Base(decompPath), g.Name())
	printDetail("width %d, %d bags", width, d.BagCount())
	return nil
}
