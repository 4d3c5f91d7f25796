package wire

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/graph"
)

// =============================================================================
// Document Types
// =============================================================================

// Graph is the canonical serialization format for topology graphs, used by
// CLI output files and API payloads. Node identities are serialized as
// strings regardless of their in-memory type; reading a document therefore
// yields a string-identified graph.
type Graph struct {
	Name  string   `json:"name,omitempty"`
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Edge is one undirected edge. A and B carry the canonical order of the
// source graph; importers must not rely on it.
type Edge struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Bag is one decomposition node: its identifier and the original-graph
// nodes it covers.
type Bag struct {
	ID    string   `json:"id"`
	Nodes []string `json:"nodes"`
}

// Decomposition is the serialization format for tree decompositions. It
// stores structure only; derived values such as width are recomputed after
// import.
type Decomposition struct {
	Name  string `json:"name,omitempty"`
	Bags  []Bag  `json:"bags"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Core ↔ Document Conversion
// =============================================================================

// FromGraph converts a graph to its serialization format. Nodes and edges
// are emitted in the graph's sorted order, so the same graph always
// produces the same document.
func FromGraph[ID cmp.Ordered](g *graph.Graph[ID]) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Name:  g.Name(),
		Nodes: make([]string, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, id := range nodes {
		out.Nodes[i] = fmt.Sprint(id)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{A: fmt.Sprint(e.A), B: fmt.Sprint(e.B)}
	}
	return out
}

// ToGraph converts a document back to a graph over string identities.
// Structural violations (duplicate nodes, edges to unknown nodes) fail the
// conversion; self-loops and duplicate edges are tolerated anomalies logged
// through logger, which may be nil.
func ToGraph(gw Graph, logger *log.Logger) (*graph.Graph[string], error) {
	g := graph.New[string](gw.Name, logger)
	for _, id := range gw.Nodes {
		if err := g.AddNode(id); err != nil {
			return nil, fmt.Errorf("add node %s: %w", id, err)
		}
	}
	for _, e := range gw.Edges {
		if _, _, err := g.AddEdge(e.A, e.B); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", e.A, e.B, err)
		}
	}
	return g, nil
}

// FromDecomposition converts a decomposition to its serialization format.
// Bags are emitted sorted by identifier with sorted members.
func FromDecomposition[ID cmp.Ordered](d *decomp.Decomposition[ID]) Decomposition {
	bagIDs := d.Bags()
	edges := d.Edges()

	out := Decomposition{
		Name:  d.Name(),
		Bags:  make([]Bag, len(bagIDs)),
		Edges: make([]Edge, len(edges)),
	}
	for i, bagID := range bagIDs {
		members, _ := d.Bag(bagID)
		bag := Bag{ID: bagID, Nodes: make([]string, len(members))}
		for j, v := range members {
			bag.Nodes[j] = fmt.Sprint(v)
		}
		out.Bags[i] = bag
	}
	for i, e := range edges {
		out.Edges[i] = Edge{A: e.A, B: e.B}
	}
	return out
}

// ToDecomposition converts a document back to a decomposition over string
// identities. Empty bags, duplicate bag identifiers and edges to
// undeclared bags fail the conversion.
func ToDecomposition(dw Decomposition, logger *log.Logger) (*decomp.Decomposition[string], error) {
	d := decomp.New[string](dw.Name, logger)
	for _, bag := range dw.Bags {
		if err := d.AddBag(bag.ID, bag.Nodes...); err != nil {
			return nil, fmt.Errorf("add bag %s: %w", bag.ID, err)
		}
	}
	for _, e := range dw.Edges {
		if _, _, err := d.AddEdge(e.A, e.B); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", e.A, e.B, err)
		}
	}
	return d, nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph[ID cmp.Ordered](g *graph.Graph[ID]) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph[ID cmp.Ordered](g *graph.Graph[ID], w io.Writer) error {
	return encodeJSON(w, FromGraph(g))
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile[ID cmp.Ordered](g *graph.Graph[ID], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader, logger *log.Logger) (*graph.Graph[string], error) {
	var gw Graph
	if err := json.NewDecoder(r).Decode(&gw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(gw, logger)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string, logger *log.Logger) (*graph.Graph[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f, logger)
}

// =============================================================================
// Decomposition Serialization API
// =============================================================================

// MarshalDecomposition converts a decomposition to indented JSON bytes.
func MarshalDecomposition[ID cmp.Ordered](d *decomp.Decomposition[ID]) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDecomposition(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDecomposition writes a decomposition as JSON to an io.Writer.
func WriteDecomposition[ID cmp.Ordered](d *decomp.Decomposition[ID], w io.Writer) error {
	return encodeJSON(w, FromDecomposition(d))
}

// WriteDecompositionFile writes a decomposition to a JSON file.
// The file is created with 0644 permissions.
func WriteDecompositionFile[ID cmp.Ordered](d *decomp.Decomposition[ID], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDecomposition(d, f)
}

// ReadDecomposition decodes a JSON decomposition from an io.Reader.
func ReadDecomposition(r io.Reader, logger *log.Logger) (*decomp.Decomposition[string], error) {
	var dw Decomposition
	if err := json.NewDecoder(r).Decode(&dw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDecomposition(dw, logger)
}

// ReadDecompositionFile reads a JSON file and returns the decoded
// decomposition.
func ReadDecompositionFile(path string, logger *log.Logger) (*decomp.Decomposition[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDecomposition(f, logger)
}

// =============================================================================
// Internal Helpers
// =============================================================================

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
