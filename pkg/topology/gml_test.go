package topology

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/topowidth/pkg/graph"
)

const abilene = `Creator "Topology Zoo Toolset"
graph [
  DateObtained "2/1/11"
  directed 0
  label "Abilene"
  node [
    id 0
    label "New York"
    Country "United States"
    graphics [
      id 99
      w 18.0
    ]
  ]
  node [
    id 1
    label "Chicago"
  ]
  node [
    id 2
    label "Springfield [MO]"
  ]
  edge [
    source 0
    target 1
    LinkLabel "OC-192"
  ]
  edge [
    source 1
    target 2
  ]
]
`

func TestRead(t *testing.T) {
	g, err := Read(strings.NewReader(abilene), "Abilene", nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got := g.Name(); got != "Abilene" {
		t.Errorf("Name = %q, want %q", got, "Abilene")
	}
	if got := g.NodeCount(); got != 3 {
		t.Errorf("NodeCount = %d, want 3", got)
	}
	if got := g.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount = %d, want 2", got)
	}
	if g.HasNode(99) {
		t.Error("id inside a nested graphics block must not become a node")
	}
	if !g.HasEdge(0, 1) || !g.HasEdge(1, 2) {
		t.Errorf("edges = %v, want 0-1 and 1-2", g.Edges())
	}
}

func TestReadAnomalies(t *testing.T) {
	const multigraph = `graph [
  multigraph 1
  node [ id 0 ]
  node [ id 1 ]
  edge [ source 0 target 1 ]
  edge [ source 1 target 0 ]
  edge [ source 1 target 1 ]
]
`
	g, err := Read(strings.NewReader(multigraph), "multi", nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1 (duplicate and self-loop dropped)", got)
	}
}

func TestReadDirected(t *testing.T) {
	const directed = `graph [
  directed 1
  node [ id 0 ]
  node [ id 1 ]
  edge [ source 1 target 0 ]
]
`
	g, err := Read(strings.NewReader(directed), "directed", nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !g.HasEdge(0, 1) {
		t.Error("directed edges must read as undirected pairs")
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		gml  string
	}{
		{
			name: "edge without target",
			gml:  "graph [\n  node [ id 0 ]\n  edge [ source 0 ]\n]",
		},
		{
			name: "node without id",
			gml:  "graph [\n  node [ label ]\n]",
		},
		{
			name: "unbalanced blocks",
			gml:  "graph [\n  node [ id 0 ]\n",
		},
		{
			name: "unexpected close",
			gml:  "graph [\n]\n]",
		},
		{
			name: "non-integer id",
			gml:  "graph [\n  node [ id zero ]\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.gml), "bad", nil)
			if !errors.Is(err, ErrMalformedGML) {
				t.Errorf("err = %v, want ErrMalformedGML", err)
			}
		})
	}
}

func TestReadUnknownEndpoint(t *testing.T) {
	const gml = `graph [
  node [ id 0 ]
  edge [ source 0 target 7 ]
]
`
	_, err := Read(strings.NewReader(gml), "bad", nil)
	if !errors.Is(err, graph.ErrUnknownNode) {
		t.Errorf("err = %v, want graph.ErrUnknownNode", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Abilene.gml")
	if err := os.WriteFile(path, []byte(abilene), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadFile(path, nil)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got := g.Name(); got != "Abilene" {
		t.Errorf("Name = %q, want file stem %q", got, "Abilene")
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.gml":      "graph [\n  node [ id 0 ]\n]",
		"a.gml":      abilene,
		"broken.gml": "graph [\n  node [ id 0 ]\n  edge [ source 0 ]\n]",
		"other.txt":  "not a topology",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	graphs, err := ReadDir(dir, nil)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	// broken.gml is skipped with a warning, other.txt is not matched, and
	// results follow file-name order.
	if len(graphs) != 2 {
		t.Fatalf("got %d graphs, want 2", len(graphs))
	}
	if graphs[0].Name() != "a" || graphs[1].Name() != "b" {
		t.Errorf("names = %q, %q; want a, b", graphs[0].Name(), graphs[1].Name())
	}
}
