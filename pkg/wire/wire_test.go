package wire

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/graph"
)

func TestGraphRoundTrip(t *testing.T) {
	g := graph.New[string]("abilene", nil)
	for _, id := range []string{"nyc", "chi", "den"} {
		require.NoError(t, g.AddNode(id))
	}
	_, _, err := g.AddEdge("nyc", "chi")
	require.NoError(t, err)
	_, _, err = g.AddEdge("chi", "den")
	require.NoError(t, err)

	data, err := MarshalGraph(g)
	require.NoError(t, err)

	got, err := ReadGraph(bytes.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, "abilene", got.Name())
	assert.Equal(t, g.Nodes(), got.Nodes())
	assert.Equal(t, g.Edges(), got.Edges())
}

func TestFromGraphStringifiesIntegers(t *testing.T) {
	g := graph.New[int]("zoo", nil)
	for _, id := range []int{10, 2} {
		require.NoError(t, g.AddNode(id))
	}
	_, _, err := g.AddEdge(10, 2)
	require.NoError(t, err)

	gw := FromGraph(g)
	assert.Equal(t, []string{"2", "10"}, gw.Nodes, "document keeps the numeric node order")
	assert.Equal(t, []Edge{{A: "2", B: "10"}}, gw.Edges)
}

func TestToGraphRejectsUnknownEndpoint(t *testing.T) {
	gw := Graph{
		Nodes: []string{"a"},
		Edges: []Edge{{A: "a", B: "ghost"}},
	}

	_, err := ToGraph(gw, nil)
	require.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestToGraphToleratesAnomalies(t *testing.T) {
	gw := Graph{
		Nodes: []string{"a", "b"},
		Edges: []Edge{{A: "a", B: "b"}, {A: "b", B: "a"}, {A: "a", B: "a"}},
	}

	g, err := ToGraph(gw, nil)
	require.NoError(t, err, "duplicate and self-loop edges are tolerated on import")
	assert.Equal(t, 1, g.EdgeCount())
}

func TestDecompositionRoundTrip(t *testing.T) {
	d := decomp.New[int]("zoo", nil)
	require.NoError(t, d.AddBag("bag_1", 1, 2))
	require.NoError(t, d.AddBag("bag_2", 2, 3))
	_, _, err := d.AddEdge("bag_1", "bag_2")
	require.NoError(t, err)

	data, err := MarshalDecomposition(d)
	require.NoError(t, err)

	got, err := ReadDecomposition(bytes.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, got.BagCount())
	members, ok := got.Bag("bag_1")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, members)
	assert.True(t, got.HasEdge("bag_1", "bag_2"))

	rep, ok := got.Representative("2")
	require.True(t, ok)
	assert.Equal(t, "bag_1", rep, "representatives rebuild in bag order")
}

func TestToDecompositionRejectsEmptyBag(t *testing.T) {
	dw := Decomposition{Bags: []Bag{{ID: "bag_1"}}}

	_, err := ToDecomposition(dw, nil)
	require.ErrorIs(t, err, decomp.ErrEmptyBag)
}

func TestToDecompositionRejectsEdgeToUndeclaredBag(t *testing.T) {
	dw := Decomposition{
		Bags:  []Bag{{ID: "bag_1", Nodes: []string{"a"}}},
		Edges: []Edge{{A: "bag_1", B: "bag_9"}},
	}

	_, err := ToDecomposition(dw, nil)
	require.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()

	g := graph.New[string]("file-test", nil)
	require.NoError(t, g.AddNode("a"))
	require.NoError(t, g.AddNode("b"))
	_, _, err := g.AddEdge("a", "b")
	require.NoError(t, err)

	gpath := filepath.Join(dir, "graph.json")
	require.NoError(t, WriteGraphFile(g, gpath))

	got, err := ReadGraphFile(gpath, nil)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), got.Nodes())

	d := decomp.New[string]("file-test", nil)
	require.NoError(t, d.AddBag("bag_1", "a", "b"))

	dpath := filepath.Join(dir, "decomp.json")
	require.NoError(t, WriteDecompositionFile(d, dpath))

	gotD, err := ReadDecompositionFile(dpath, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, gotD.BagCount())

	_, err = ReadGraphFile(filepath.Join(dir, "missing.json"), nil)
	require.Error(t, err)
}

func TestMarshalGraphDeterministic(t *testing.T) {
	build := func(order []string) *graph.Graph[string] {
		g := graph.New[string]("det", nil)
		for _, id := range order {
			require.NoError(t, g.AddNode(id))
		}
		_, _, err := g.AddEdge("y", "x")
		require.NoError(t, err)
		return g
	}

	a, err := MarshalGraph(build([]string{"x", "y", "z"}))
	require.NoError(t, err)
	b, err := MarshalGraph(build([]string{"z", "y", "x"}))
	require.NoError(t, err)

	// Different insertion order but same edge {x,y}: identical documents.
	assert.Equal(t, string(a), string(b))
}
