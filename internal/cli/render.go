package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topowidth/pkg/render"
	"github.com/matzehuels/topowidth/pkg/topology"
	"github.com/matzehuels/topowidth/pkg/wire"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (or base path for multiple formats)
	formats []string // output formats: "dot", "svg", "png", "pdf"
	scale   float64  // raster scale factor for PNG
}

// newRenderCmd creates the render command for drawing graphs and
// decompositions.
//
// Default settings:
//   - format: svg
//   - scale: 2.0 (PNG raster density)
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render <graph|decomposition>",
		Short: "Draw a graph or decomposition as DOT, SVG, PNG, or PDF",
		Long: `Draw a network topology or a tree decomposition.

GML inputs and JSON graph documents are drawn as node-link diagrams;
JSON decomposition documents (recognized by their bags) are drawn as
labelled trees. SVG needs no external tools; PNG and PDF require
rsvg-convert from librsvg.

Examples:
  topowidth render data/Abilene.gml
  topowidth render decomposition.json -f svg,png
  topowidth render graph.json -f dot -o graph.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := render.ValidateFormat(f); err != nil {
					return err
				}
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor for png")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		base := filepath.Base(input)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	ext := filepath.Ext(output)
	if render.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the input, builds its DOT form, and writes every
// requested format.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	dot, name, err := buildDOT(input, logger)
	if err != nil {
		return err
	}
	if name == "" {
		base := filepath.Base(input)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	logger.Debugf("Built DOT for %s: %d bytes", name, len(dot))

	// A single format with an explicit output goes exactly there; every
	// other combination derives file names from the base path.
	var written []string
	if len(opts.formats) == 1 && opts.output != "" {
		if err := renderAndWrite(ctx, dot, opts.formats[0], opts.output, opts.scale); err != nil {
			return err
		}
		written = []string{opts.output}
	} else {
		base := basePath(opts.output, input)
		for _, format := range opts.formats {
			path := base + "." + format
			if err := renderAndWrite(ctx, dot, format, path, opts.scale); err != nil {
				return err
			}
			written = append(written, path)
		}
	}

	printSuccess("Rendered %s", name)
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// renderAndWrite produces one format and writes it to path.
func renderAndWrite(ctx context.Context, dot, format, path string, scale float64) error {
	logger := loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
	spinner.Start()
	data, err := render.Render(dot, format, scale)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Infof("Generated %s", path)
	return nil
}

// buildDOT reads the input file and produces its DOT form. GML inputs are
// always graphs; JSON documents carrying bags are decompositions, anything
// else is read as a graph.
func buildDOT(path string, logger *log.Logger) (dot, name string, err error) {
	if isGML(path) {
		g, err := topology.ReadFile(path, logger)
		if err != nil {
			return "", "", err
		}
		return render.GraphDOT(g), g.Name(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	var dw wire.Decomposition
	if err := json.Unmarshal(data, &dw); err == nil && len(dw.Bags) > 0 {
		d, err := wire.ToDecomposition(dw, logger)
		if err != nil {
			return "", "", err
		}
		return render.DecompositionDOT(d), d.Name(), nil
	}

	var gw wire.Graph
	if err := json.Unmarshal(data, &gw); err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	g, err := wire.ToGraph(gw, logger)
	if err != nil {
		return "", "", err
	}
	return render.GraphDOT(g), g.Name(), nil
}
