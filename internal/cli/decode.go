package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/pace"
	"github.com/matzehuels/topowidth/pkg/wire"
)

// newDecodeCmd creates the decode command.
func newDecodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <graph> <solver-output>",
		Short: "Turn raw solver output back into a decomposition",
		Long: `Decode a solver's answer for a graph into a tree decomposition over the
graph's own node identities, validate it, and emit it as JSON.

The graph must be the same instance the solver was run on: decoding maps
the solver's renumbered nodes back through the graph's encoding order.
The verdict is informational here; use 'validate' when the exit code
should reflect validity.

Examples:
  topowidth decode data/Abilene.gml answer.td
  topowidth decode graph.json answer.td -o decomposition.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd.Context(), args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// runDecode re-encodes the graph to recover the node numbering, decodes the
// solver output against it, and reports the validation verdict.
func runDecode(ctx context.Context, graphPath, answerPath, output string) error {
	logger := loggerFromContext(ctx)

	g, err := loadGraph(graphPath, logger)
	if err != nil {
		return err
	}
	_, idx := pace.Encode(g)

	answer, err := os.ReadFile(answerPath)
	if err != nil {
		return err
	}

	d, err := pace.Decode(bytes.NewReader(answer), idx, g.Name(), logger)
	if err != nil {
		return err
	}

	rep := decomp.Check(g, d)
	width := -1
	if d.BagCount() > 0 {
		if width, err = d.Width(); err != nil {
			return err
		}
	}

	if rep.Valid {
		logger.Infof("Valid decomposition of %s: width %d, %d bags", g.Name(), width, d.BagCount())
	} else {
		logger.Warnf("Invalid decomposition of %s: %s (%s)", g.Name(), rep.Failed, rep.Detail)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := wire.WriteDecomposition(d, out); err != nil {
		return err
	}
	if output != "" {
		logger.Infof("Wrote decomposition to %s", output)
	}
	return nil
}
