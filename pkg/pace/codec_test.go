package pace

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/graph"
)

func buildGraph(t *testing.T, nodes []int, edges [][2]int) *graph.Graph[int] {
	t.Helper()
	g := graph.New[int]("test", nil)
	for _, v := range nodes {
		require.NoError(t, g.AddNode(v))
	}
	for _, e := range edges {
		_, _, err := g.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}
	return g
}

func TestEncode(t *testing.T) {
	g := buildGraph(t, []int{30, 10, 20}, [][2]int{{30, 10}, {20, 30}})

	text, idx := Encode(g)

	// 10→1, 20→2, 30→3; edge lines sorted, smaller endpoint first,
	// no trailing newline.
	assert.Equal(t, "p tw 3 2\n1 3\n2 3", string(text))
	assert.Equal(t, 3, idx.Len())

	n, ok := idx.SolverID(20)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	id, ok := idx.NodeID(3)
	require.True(t, ok)
	assert.Equal(t, 30, id)

	_, ok = idx.SolverID(99)
	assert.False(t, ok)
	_, ok = idx.NodeID(0)
	assert.False(t, ok)
	_, ok = idx.NodeID(4)
	assert.False(t, ok)
}

func TestEncodeEmptyGraph(t *testing.T) {
	g := graph.New[int]("empty", nil)

	text, idx := Encode(g)
	assert.Equal(t, "p tw 0 0", string(text))
	assert.Equal(t, 0, idx.Len())
}

func TestEncodeDeterministic(t *testing.T) {
	// Same node and edge sets in scrambled insertion order must encode to
	// byte-identical text.
	a := buildGraph(t, []int{1, 2, 3, 4}, [][2]int{{1, 2}, {2, 3}, {3, 4}})
	b := buildGraph(t, []int{4, 2, 1, 3}, [][2]int{{4, 3}, {2, 1}, {3, 2}})

	textA, _ := Encode(a)
	textB, _ := Encode(b)
	assert.Equal(t, string(textA), string(textB))
}

func TestEncodeStringIdentitiesSortLexically(t *testing.T) {
	// Numeric-looking strings order lexically: "10" < "2". The numbering is
	// fixed by that order, whatever it is, so encoding stays deterministic.
	g := graph.New[string]("lex", nil)
	for _, v := range []string{"2", "10"} {
		require.NoError(t, g.AddNode(v))
	}
	_, _, err := g.AddEdge("2", "10")
	require.NoError(t, err)

	text, idx := Encode(g)
	assert.Equal(t, "p tw 2 1\n1 2", string(text))

	id, ok := idx.NodeID(1)
	require.True(t, ok)
	assert.Equal(t, "10", id)
}

func TestDecode(t *testing.T) {
	g := buildGraph(t, []int{10, 20, 30}, [][2]int{{10, 20}, {20, 30}})
	_, idx := Encode(g)

	output := strings.Join([]string{
		"s td 2 2 3",
		"c solver chatter",
		"",
		"b 1 1 2",
		"b 2 2 3",
		"1 2",
	}, "\n")

	td, err := Decode(strings.NewReader(output), idx, "test", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, td.BagCount())

	members, ok := td.Bag("bag_1")
	require.True(t, ok)
	assert.Equal(t, []int{10, 20}, members, "wire integers map back to identities")

	members, ok = td.Bag("bag_2")
	require.True(t, ok)
	assert.Equal(t, []int{20, 30}, members)

	assert.True(t, td.HasEdge("bag_1", "bag_2"))
	assert.Equal(t, []string{"bag_1", "bag_2"}, td.ContainingBags(20))

	report := decomp.Check(g, td)
	assert.True(t, report.Valid)

	w, err := td.Width()
	require.NoError(t, err)
	assert.Equal(t, 1, w)
}

func TestDecodeSkipsHeaderUnconditionally(t *testing.T) {
	g := buildGraph(t, []int{1}, nil)
	_, idx := Encode(g)

	// Even a first line that parses as a bag declaration is header, not
	// content.
	td, err := Decode(strings.NewReader("b 1 1\nb 2 1"), idx, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, td.BagCount())
	assert.False(t, td.HasNode("bag_1"))
	assert.True(t, td.HasNode("bag_2"))
}

func TestDecodeEmptyOutput(t *testing.T) {
	g := buildGraph(t, []int{1}, nil)
	_, idx := Encode(g)

	td, err := Decode(strings.NewReader(""), idx, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, td.BagCount())

	_, err = td.Width()
	assert.ErrorIs(t, err, decomp.ErrNoBags)
}

func TestDecodeProtocolViolations(t *testing.T) {
	g := buildGraph(t, []int{10, 20}, [][2]int{{10, 20}})
	_, idx := Encode(g)

	tests := []struct {
		name   string
		output string
		want   error
	}{
		{
			name:   "three tokens that are not a bag",
			output: "header\n1 2 3",
			want:   ErrMalformedLine,
		},
		{
			name:   "single token line",
			output: "header\nboom",
			want:   ErrMalformedLine,
		},
		{
			name:   "bag declaration without index",
			output: "header\nb",
			want:   ErrMalformedLine,
		},
		{
			name:   "bag member is not an integer",
			output: "header\nb 1 one",
			want:   ErrMalformedLine,
		},
		{
			name:   "bag member outside the index",
			output: "header\nb 1 3",
			want:   ErrUnknownIndex,
		},
		{
			name:   "bag member zero",
			output: "header\nb 1 0",
			want:   ErrUnknownIndex,
		},
		{
			name:   "edge references undeclared bag",
			output: "header\nb 1 1 2\n1 7",
			want:   ErrUnknownBag,
		},
		{
			name:   "empty bag",
			output: "header\nb 4",
			want:   decomp.ErrEmptyBag,
		},
		{
			name:   "duplicate bag declaration",
			output: "header\nb 1 1\nb 1 2",
			want:   graph.ErrDuplicateNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.output), idx, "test", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeToleratesDuplicateAndSelfLoopEdges(t *testing.T) {
	g := buildGraph(t, []int{10, 20}, [][2]int{{10, 20}})
	_, idx := Encode(g)

	output := strings.Join([]string{
		"header",
		"b 1 1",
		"b 2 2",
		"1 2",
		"1 2", // duplicate tree edge: logged, skipped
		"2 2", // self-loop: logged, skipped
	}, "\n")

	td, err := Decode(strings.NewReader(output), idx, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, td.EdgeCount())
}

func TestRoundTripWithEchoSolver(t *testing.T) {
	// An echo solver answers with one bag per node and its input edges
	// verbatim. Decoding its output and mapping tree edges back through
	// the index must reproduce the original edge set exactly.
	g := buildGraph(t, []int{5, 1, 9, 3}, [][2]int{{5, 1}, {9, 3}, {1, 3}})
	input, idx := Encode(g)

	td, err := Decode(strings.NewReader(echoSolver(string(input))), idx, "echo", nil)
	require.NoError(t, err)
	require.Equal(t, g.NodeCount(), td.BagCount())

	got := make([]graph.Edge[int], 0, td.EdgeCount())
	for _, e := range td.Edges() {
		u := mustAtoi(t, strings.TrimPrefix(e.A, BagPrefix))
		v := mustAtoi(t, strings.TrimPrefix(e.B, BagPrefix))
		a, ok := idx.NodeID(u)
		require.True(t, ok)
		b, ok := idx.NodeID(v)
		require.True(t, ok)
		got = append(got, graph.NewEdge(a, b))
	}
	assert.ElementsMatch(t, g.Edges(), got)
}

func TestZeroEdgeGraphDecodesToSingletonBags(t *testing.T) {
	// With no edges, every connected component is a single node: the echo
	// solver yields one singleton bag per component and width 0.
	g := buildGraph(t, []int{7, 3, 11}, nil)
	input, idx := Encode(g)

	td, err := Decode(strings.NewReader(echoSolver(string(input))), idx, "echo", nil)
	require.NoError(t, err)
	require.Equal(t, 3, td.BagCount())

	for n := 1; n <= 3; n++ {
		members, ok := td.Bag(fmt.Sprintf("bag_%d", n))
		require.True(t, ok)
		id, _ := idx.NodeID(n)
		assert.Equal(t, []int{id}, members)
	}

	w, err := td.Width()
	require.NoError(t, err)
	assert.Equal(t, 0, w)
}

// echoSolver fabricates solver output from solver input: a header, one
// singleton bag per node, then the input's edge lines unchanged.
func echoSolver(input string) string {
	lines := strings.Split(input, "\n")
	header := strings.Fields(lines[0])
	n := header[2]

	var b strings.Builder
	fmt.Fprintf(&b, "s td %s 1 %s", n, n)
	count := mustParse(n)
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "\nb %d %d", i, i)
	}
	for _, edge := range lines[1:] {
		fmt.Fprintf(&b, "\n%s", edge)
	}
	return b.String()
}

func mustParse(s string) int {
	n := 0
	fmt.Sscanf(s, "%d", &n)
	return n
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	_, err := fmt.Sscanf(s, "%d", &n)
	require.NoError(t, err)
	return n
}
