package graph

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

var (
	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same identity already exists. Node identities must be unique; adding
	// a duplicate is a precondition violation and is never silently merged.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does
	// not exist, or by [Graph.RemoveNode] when the node is not present.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by [Graph.RemoveEdge] when no edge exists
	// between the two endpoints.
	ErrUnknownEdge = errors.New("unknown edge")
)

// Edge is an unordered pair of two distinct node identities in canonical
// form: A is always the smaller endpoint under the identity type's natural
// order. Two Edge values are equal exactly when they connect the same pair,
// regardless of the order the endpoints were given in.
type Edge[ID cmp.Ordered] struct {
	A, B ID
}

// NewEdge returns the canonical edge between a and b.
func NewEdge[ID cmp.Ordered](a, b ID) Edge[ID] {
	if b < a {
		a, b = b, a
	}
	return Edge[ID]{A: a, B: b}
}

// Other returns the endpoint opposite to id, and false if id is not an
// endpoint of the edge.
func (e Edge[ID]) Other(id ID) (ID, bool) {
	switch id {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	var zero ID
	return zero, false
}

func (e Edge[ID]) String() string { return fmt.Sprintf("{%v, %v}", e.A, e.B) }

// compareEdges orders edges ascending by (A, B). Used by the sorted
// accessors so traversal-independent callers see a stable order.
func compareEdges[ID cmp.Ordered](x, y Edge[ID]) int {
	if c := cmp.Compare(x.A, y.A); c != 0 {
		return c
	}
	return cmp.Compare(x.B, y.B)
}

// Graph is an undirected graph over opaque, totally ordered node identities.
// It owns its node and edge sets and maintains derived adjacency and
// incidence indices that are kept consistent on every mutation: a node n is
// adjacent to x exactly when the canonical edge {x, n} is in the edge set.
//
// The zero value is not usable - use New to create a valid instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph[ID cmp.Ordered] struct {
	name     string
	nodes    map[ID]struct{}
	edges    map[Edge[ID]]struct{}
	adjacent map[ID]map[ID]struct{}
	incident map[ID]map[Edge[ID]]struct{}
	logger   *log.Logger
}

// New creates an empty undirected graph. The name is informational (dataset
// graphs are named after their source file) and may be empty. The logger
// receives warnings about tolerated input anomalies (self-loops, duplicate
// edges) and may be nil, in which case those warnings are discarded.
func New[ID cmp.Ordered](name string, logger *log.Logger) *Graph[ID] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Graph[ID]{
		name:     name,
		nodes:    make(map[ID]struct{}),
		edges:    make(map[Edge[ID]]struct{}),
		adjacent: make(map[ID]map[ID]struct{}),
		incident: make(map[ID]map[Edge[ID]]struct{}),
		logger:   logger,
	}
}

// Name returns the graph's informational name.
func (g *Graph[ID]) Name() string { return g.name }

// AddNode adds a node to the graph.
// Returns ErrDuplicateNode if a node with the same identity already exists.
func (g *Graph[ID]) AddNode(id ID) error {
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateNode
	}
	g.nodes[id] = struct{}{}
	g.adjacent[id] = make(map[ID]struct{})
	g.incident[id] = make(map[Edge[ID]]struct{})
	return nil
}

// AddEdge adds the undirected edge {a, b} between two existing nodes and
// returns its canonical value. The boolean reports whether the graph was
// modified.
//
// Returns ErrUnknownNode if either endpoint has not been added. A self-loop
// (a == b) creates no edge: it is logged as a warning and reported with a
// false boolean, since real-world input feeds are known to contain them.
// A duplicate edge likewise leaves the graph unchanged and is logged; the
// existing canonical edge is returned so callers still obtain the pair.
func (g *Graph[ID]) AddEdge(a, b ID) (Edge[ID], bool, error) {
	if _, ok := g.nodes[a]; !ok {
		return Edge[ID]{}, false, ErrUnknownNode
	}
	if _, ok := g.nodes[b]; !ok {
		return Edge[ID]{}, false, ErrUnknownNode
	}
	if a == b {
		g.logger.Warn("discarding self-loop edge", "graph", g.name, "node", a)
		return Edge[ID]{}, false, nil
	}
	e := NewEdge(a, b)
	if _, dup := g.edges[e]; dup {
		g.logger.Warn("ignoring duplicate edge", "graph", g.name, "edge", e)
		return e, false, nil
	}
	g.edges[e] = struct{}{}
	g.adjacent[a][b] = struct{}{}
	g.adjacent[b][a] = struct{}{}
	g.incident[a][e] = struct{}{}
	g.incident[b][e] = struct{}{}
	return e, true, nil
}

// RemoveEdge removes the edge between a and b.
// Returns ErrUnknownEdge if no such edge exists.
func (g *Graph[ID]) RemoveEdge(a, b ID) error {
	e := NewEdge(a, b)
	if _, ok := g.edges[e]; !ok {
		return ErrUnknownEdge
	}
	delete(g.edges, e)
	delete(g.adjacent[e.A], e.B)
	delete(g.adjacent[e.B], e.A)
	delete(g.incident[e.A], e)
	delete(g.incident[e.B], e)
	return nil
}

// RemoveNode removes a node and cascades: every incident edge is removed
// first, then the node itself. Returns ErrUnknownNode if the node is not
// present.
func (g *Graph[ID]) RemoveNode(id ID) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownNode
	}
	for e := range g.incident[id] {
		delete(g.edges, e)
		delete(g.adjacent[e.A], e.B)
		delete(g.adjacent[e.B], e.A)
		delete(g.incident[e.A], e)
		delete(g.incident[e.B], e)
	}
	delete(g.incident, id)
	delete(g.adjacent, id)
	delete(g.nodes, id)
	return nil
}

// HasNode reports whether the node is present.
func (g *Graph[ID]) HasNode(id ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether an edge exists between a and b, in either
// endpoint order.
func (g *Graph[ID]) HasEdge(a, b ID) bool {
	_, ok := g.edges[NewEdge(a, b)]
	return ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph[ID]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph[ID]) EdgeCount() int { return len(g.edges) }

// Nodes returns all node identities sorted under their natural order.
// The slice is a copy and safe to modify.
func (g *Graph[ID]) Nodes() []ID {
	nodes := make([]ID, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)
	return nodes
}

// Edges returns all edges sorted ascending by (A, B).
// The slice is a copy and safe to modify.
func (g *Graph[ID]) Edges() []Edge[ID] {
	edges := make([]Edge[ID], 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

// Neighbors returns the sorted identities adjacent to the node.
// Returns nil if the node does not exist or has no neighbors.
func (g *Graph[ID]) Neighbors(id ID) []ID {
	adj := g.adjacent[id]
	if len(adj) == 0 {
		return nil
	}
	neighbors := make([]ID, 0, len(adj))
	for n := range adj {
		neighbors = append(neighbors, n)
	}
	slices.Sort(neighbors)
	return neighbors
}

// IncidentEdges returns the sorted edges touching the node.
// Returns nil if the node does not exist or has no incident edges.
func (g *Graph[ID]) IncidentEdges(id ID) []Edge[ID] {
	inc := g.incident[id]
	if len(inc) == 0 {
		return nil
	}
	edges := make([]Edge[ID], 0, len(inc))
	for e := range inc {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

// Degree returns the number of edges touching the node, or 0 if the node
// does not exist.
func (g *Graph[ID]) Degree(id ID) int { return len(g.incident[id]) }

// Connected reports whether every node is reachable from every other node.
// It runs a breadth-first traversal from an arbitrary node; callers must not
// rely on any particular traversal order. The empty graph is vacuously
// connected.
func (g *Graph[ID]) Connected() bool {
	if len(g.nodes) == 0 {
		return true
	}
	var root ID
	for id := range g.nodes {
		root = id
		break
	}
	visited := make(map[ID]struct{}, len(g.nodes))
	visited[root] = struct{}{}
	queue := []ID{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range g.adjacent[current] {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return len(visited) == len(g.nodes)
}
