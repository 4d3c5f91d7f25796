package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topowidth/pkg/pace"
)

// newEncodeCmd creates the encode command.
func newEncodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode <graph>",
		Short: "Emit the solver input format for a graph",
		Long: `Emit the textual instance format exact-treewidth solvers read on stdin:
a problem line followed by one line per edge, with nodes renumbered 1..n.

The input may be a GML topology or a JSON graph document.

Examples:
  topowidth encode data/Abilene.gml
  topowidth encode graph.json -o instance.gr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// runEncode loads the graph and writes its solver encoding.
func runEncode(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)

	g, err := loadGraph(input, logger)
	if err != nil {
		return err
	}

	text, idx := pace.Encode(g)

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(text); err != nil {
		return err
	}
	if output != "" {
		logger.Infof("Encoded %s: %d nodes, %d edges", g.Name(), idx.Len(), g.EdgeCount())
		logger.Infof("Wrote instance to %s", output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
