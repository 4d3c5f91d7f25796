// Package graph provides the undirected graph container that the rest of
// topowidth is built on.
//
// # Overview
//
// A [Graph] owns a node set and an edge set of canonical unordered pairs,
// and maintains derived adjacency and incidence indices that stay consistent
// across every mutation. Node identity is a type parameter constrained by
// [cmp.Ordered]: dataset topologies use integer identities, while tree
// decompositions layer string bag identifiers on top of the same container.
// The total order on identities is what makes every sorted accessor, and
// ultimately the solver wire format, deterministic.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode], and connect
// them with [Graph.AddEdge]:
//
//	g := graph.New[int]("backbone", nil)
//	g.AddNode(1)
//	g.AddNode(2)
//	g.AddEdge(1, 2)
//
// Query structure with [Graph.Nodes], [Graph.Edges], [Graph.Neighbors] and
// [Graph.IncidentEdges]; all of them return sorted copies.
//
// # Input Leniency
//
// Real-world topology files contain self-loops and duplicate edges. Both are
// tolerated: AddEdge logs a warning through the graph's logger and leaves
// the graph unchanged instead of failing the surrounding load. Structural
// mistakes - duplicate nodes, edges to unknown endpoints, removal of absent
// elements - are reported as sentinel errors and never absorbed.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Read-only use from
// multiple goroutines is safe once construction has finished.
package graph
