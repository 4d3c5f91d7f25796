package render

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/graph"
)

// GraphDOT converts a graph to Graphviz DOT format. Topologies are
// undirected, so edges use "--" and the neato layout engine, which suits
// mesh-like networks better than ranked layouts.
//
// The resulting DOT string can be rendered using [SVG], [PNG], or [PDF].
func GraphDOT[ID cmp.Ordered](g *graph.Graph[ID]) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", g.Name())
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q;\n", fmt.Sprint(n))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", fmt.Sprint(e.A), fmt.Sprint(e.B))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// DecompositionDOT converts a tree decomposition to Graphviz DOT format.
// Bags are drawn as rounded boxes labelled with their member sets, and the
// tree edges connect them. The default dot engine works well here since
// the structure is a tree.
func DecompositionDOT[ID cmp.Ordered](d *decomp.Decomposition[ID]) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", d.Name())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, bagID := range d.Bags() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", bagID, bagLabel(d, bagID))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.A, e.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func bagLabel[ID cmp.Ordered](d *decomp.Decomposition[ID], bagID string) string {
	members, _ := d.Bag(bagID)
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = fmt.Sprint(m)
	}
	return fmt.Sprintf("%s\n{%s}", bagID, strings.Join(parts, ", "))
}
