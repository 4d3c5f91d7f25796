// Package decomp provides tree decompositions of undirected graphs and the
// validation of their defining properties.
//
// # Overview
//
// A tree decomposition maps a graph into a tree of bags, where each bag is
// a set of original-graph nodes. Its width - the size of the largest bag
// minus one - bounds the treewidth of the graph. [Decomposition] is itself
// a [graph.Graph] over string bag identifiers, extended with the bag
// mapping and two derived indices: the representative bag per covered node
// and the insertion-ordered list of bags containing it.
//
// # Validity
//
// A decomposition is valid for a graph when four properties hold:
//
//  1. the bag structure is a tree (connected and acyclic),
//  2. every graph node appears in at least one bag,
//  3. every graph edge has both endpoints together in some bag,
//  4. the bags containing any given node induce a connected subtree
//     (the running intersection property).
//
// [Check] evaluates them in that fixed order and reports the first
// violation in a [Report]. An invalid decomposition is an expected outcome
// when verifying solver output, so Check returns a value, never an error.
//
// # Construction
//
// Decompositions are built incrementally - typically by the pace package
// while decoding solver output, or by hand in tests:
//
//	td := decomp.New[int]("example", nil)
//	td.AddBag("bag_1", 1, 2)
//	td.AddBag("bag_2", 2, 3)
//	td.AddEdge("bag_1", "bag_2")
//	report := decomp.Check(g, td)
//
// Tree-ness is not enforced while building: a half-decoded decomposition
// is legitimately disconnected. Hand the finished value to [Check].
package decomp
