package decomp

import (
	"cmp"
	"fmt"
	"sync"

	"github.com/matzehuels/topowidth/pkg/graph"
)

// intersectionWorkers bounds the goroutines used for per-node subtree
// checks. parallelMembership is the total bag-membership size above which
// the parallel path is taken; below it the sequential loop is faster.
const (
	intersectionWorkers = 8
	parallelMembership  = 2048
)

// Property identifies one of the four defining properties of a valid tree
// decomposition.
type Property int

const (
	// PropertyNone is reported for a valid decomposition.
	PropertyNone Property = iota
	// PropertyTree requires the bag structure to be connected and acyclic.
	PropertyTree
	// PropertyNodeCoverage requires every graph node to appear in a bag,
	// and every bag member to be a graph node.
	PropertyNodeCoverage
	// PropertyEdgeCoverage requires, for every graph edge, some bag
	// containing both endpoints.
	PropertyEdgeCoverage
	// PropertyRunningIntersection requires the bags containing any given
	// node to induce a connected subtree.
	PropertyRunningIntersection
)

func (p Property) String() string {
	switch p {
	case PropertyNone:
		return "none"
	case PropertyTree:
		return "tree"
	case PropertyNodeCoverage:
		return "node-coverage"
	case PropertyEdgeCoverage:
		return "edge-coverage"
	case PropertyRunningIntersection:
		return "running-intersection"
	}
	return fmt.Sprintf("property(%d)", int(p))
}

// Report is the outcome of validating a decomposition against its graph.
// An invalid decomposition is a normal, reportable result, not an error:
// Failed names the first violated property and Detail describes the
// offending bag, edge or node.
type Report struct {
	Valid  bool
	Failed Property
	Detail string
}

func valid() Report { return Report{Valid: true} }

func invalid(p Property, format string, args ...any) Report {
	return Report{Failed: p, Detail: fmt.Sprintf(format, args...)}
}

// Check decides whether d is a valid tree decomposition of g. The four
// properties are evaluated in a fixed order - tree structure, node
// coverage, edge coverage, running intersection - and the first violation
// is reported, so diagnostics are reproducible for a given input pair.
//
// Check is read-only over both arguments. The per-node running-intersection
// checks are independent of one another and run on a bounded worker pool
// for large decompositions.
func Check[ID cmp.Ordered](g *graph.Graph[ID], d *Decomposition[ID]) Report {
	if detail, ok := checkTree(d); !ok {
		return invalid(PropertyTree, "%s", detail)
	}
	if detail, ok := checkNodeCoverage(g, d); !ok {
		return invalid(PropertyNodeCoverage, "%s", detail)
	}
	if detail, ok := checkEdgeCoverage(g, d); !ok {
		return invalid(PropertyEdgeCoverage, "%s", detail)
	}
	if detail, ok := checkRunningIntersection(g, d); !ok {
		return invalid(PropertyRunningIntersection, "%s", detail)
	}
	return valid()
}

// checkTree verifies that the bag structure is connected and acyclic with a
// single breadth-first traversal: visiting a bag that already has more than
// one visited neighbor means a second path reached it, hence a cycle;
// leaving bags unvisited means the structure is disconnected. A
// decomposition with zero bags is trivially a tree.
func checkTree[ID cmp.Ordered](d *Decomposition[ID]) (string, bool) {
	bags := d.Graph.Nodes()
	if len(bags) == 0 {
		return "", true
	}
	root := bags[0]
	visited := map[string]struct{}{}
	queued := map[string]struct{}{root: {}}
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		visited[current] = struct{}{}
		seen := 0
		for _, n := range d.Graph.Neighbors(current) {
			if _, ok := visited[n]; ok {
				seen++
			}
		}
		if seen > 1 {
			return fmt.Sprintf("bag structure contains a cycle (detected at %q)", current), false
		}
		for _, n := range d.Graph.Neighbors(current) {
			if _, ok := visited[n]; ok {
				continue
			}
			if _, ok := queued[n]; ok {
				continue
			}
			queued[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	if len(visited) != len(bags) {
		return fmt.Sprintf("bag structure is disconnected: %d of %d bags unreachable from %q",
			len(bags)-len(visited), len(bags), root), false
	}
	return "", true
}

// checkNodeCoverage verifies set equality between the covered nodes (the
// domain of the representative index) and the graph's node set.
func checkNodeCoverage[ID cmp.Ordered](g *graph.Graph[ID], d *Decomposition[ID]) (string, bool) {
	for _, v := range g.Nodes() {
		if _, ok := d.representative[v]; !ok {
			return fmt.Sprintf("graph node %v is not contained in any bag", v), false
		}
	}
	if len(d.representative) != g.NodeCount() {
		for _, v := range d.CoveredNodes() {
			if !g.HasNode(v) {
				return fmt.Sprintf("bags cover %v, which is not a graph node", v), false
			}
		}
	}
	return "", true
}

// checkEdgeCoverage verifies, for every single graph edge, that some bag
// contains both endpoints. Each edge needs its own witness: one bag
// covering one edge says nothing about the others. Only bags containing
// the first endpoint can qualify, so the search is restricted to those.
func checkEdgeCoverage[ID cmp.Ordered](g *graph.Graph[ID], d *Decomposition[ID]) (string, bool) {
	for _, e := range g.Edges() {
		covered := false
		for _, bagID := range d.containing[e.A] {
			if d.Contains(bagID, e.B) {
				covered = true
				break
			}
		}
		if !covered {
			return fmt.Sprintf("no bag contains both endpoints of edge %v", e), false
		}
	}
	return "", true
}

// checkRunningIntersection verifies, for every graph node, that the bags
// containing it induce a connected subtree: a traversal from the node's
// representative bag that only moves between bags containing the node must
// reach all of them. Work is proportional to total bag membership, so large
// inputs fan the per-node checks out to a worker pool; the reported
// violation is always the one for the smallest node, whichever goroutine
// finds it.
func checkRunningIntersection[ID cmp.Ordered](g *graph.Graph[ID], d *Decomposition[ID]) (string, bool) {
	nodes := g.Nodes()

	membership := 0
	for _, bagIDs := range d.containing {
		membership += len(bagIDs)
	}
	if membership < parallelMembership {
		for _, v := range nodes {
			if !subtreeConnected(d, v) {
				return subtreeDetail(d, v), false
			}
		}
		return "", true
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failedAt = -1
	)
	jobs := make(chan int, intersectionWorkers*2)
	for range intersectionWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if !subtreeConnected(d, nodes[i]) {
					mu.Lock()
					if failedAt == -1 || i < failedAt {
						failedAt = i
					}
					mu.Unlock()
				}
			}
		}()
	}
	for i := range nodes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if failedAt >= 0 {
		return subtreeDetail(d, nodes[failedAt]), false
	}
	return "", true
}

// subtreeConnected reports whether the bags containing v form a connected
// subtree of d. It only reads the decomposition and is safe to run
// concurrently for different nodes.
func subtreeConnected[ID cmp.Ordered](d *Decomposition[ID], v ID) bool {
	rep, ok := d.representative[v]
	if !ok {
		return false
	}
	member := make(map[string]struct{}, len(d.containing[v]))
	for _, bagID := range d.containing[v] {
		member[bagID] = struct{}{}
	}
	visited := map[string]struct{}{rep: {}}
	queue := []string{rep}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range d.Graph.Neighbors(current) {
			if _, in := member[n]; !in {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return len(visited) == len(member)
}

func subtreeDetail[ID cmp.Ordered](d *Decomposition[ID], v ID) string {
	return fmt.Sprintf("bags containing %v do not induce a connected subtree (%d bags, representative %q)",
		v, len(d.containing[v]), d.representative[v])
}
