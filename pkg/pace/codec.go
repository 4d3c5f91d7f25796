package pace

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topowidth/pkg/decomp"
	"github.com/matzehuels/topowidth/pkg/graph"
)

// BagPrefix is prepended to the solver-assigned bag index to form a stable
// decomposition-node identifier: bag index 3 becomes "bag_3".
const BagPrefix = "bag_"

var (
	// ErrMalformedLine is returned by [Decode] for any solver output line
	// that is neither empty, a comment, a bag declaration, nor a two-token
	// edge declaration.
	ErrMalformedLine = errors.New("malformed solver output line")

	// ErrUnknownIndex is returned by [Decode] when a bag declaration lists
	// an integer with no corresponding node in the encoding index.
	ErrUnknownIndex = errors.New("integer not in encoding index")

	// ErrUnknownBag is returned by [Decode] when an edge declaration
	// references a bag index that was never declared.
	ErrUnknownBag = errors.New("edge references undeclared bag")
)

// Index is the bidirectional mapping between a graph's node identities and
// the contiguous 1-based integers required on the wire. An Index is
// produced by [Encode] and consumed by [Decode]; reusing it across
// unrelated graphs produces garbage.
type Index[ID cmp.Ordered] struct {
	toSolver map[ID]int
	ids      []ID // ids[i-1] is the identity numbered i
}

func newIndex[ID cmp.Ordered](sorted []ID) *Index[ID] {
	idx := &Index[ID]{
		toSolver: make(map[ID]int, len(sorted)),
		ids:      sorted,
	}
	for i, id := range sorted {
		idx.toSolver[id] = i + 1
	}
	return idx
}

// Len returns the number of mapped identities.
func (x *Index[ID]) Len() int { return len(x.ids) }

// SolverID returns the wire integer for a node identity.
func (x *Index[ID]) SolverID(id ID) (int, bool) {
	n, ok := x.toSolver[id]
	return n, ok
}

// NodeID returns the node identity for a wire integer.
func (x *Index[ID]) NodeID(n int) (ID, bool) {
	if n < 1 || n > len(x.ids) {
		var zero ID
		return zero, false
	}
	return x.ids[n-1], true
}

// Encode renders the graph in the solver input language:
//
//	p tw <node_count> <edge_count>
//	<u_1> <v_1>
//	...
//
// Identities are numbered 1..n in their natural total order (numeric for
// integer identities, lexicographic for strings), so the same node and edge
// sets always produce byte-identical output regardless of insertion order.
// Edge lines carry the smaller integer first and are sorted ascending;
// there is no trailing newline after the last line. The returned Index is
// required to decode the solver's answer back into graph identities.
func Encode[ID cmp.Ordered](g *graph.Graph[ID]) ([]byte, *Index[ID]) {
	nodes := g.Nodes()
	edges := g.Edges()
	idx := newIndex(nodes)

	var b strings.Builder
	fmt.Fprintf(&b, "p tw %d %d", len(nodes), len(edges))
	for _, e := range edges {
		// The identity order is total and the numbering monotone, so the
		// ID-sorted edge list is already sorted in solver space.
		fmt.Fprintf(&b, "\n%d %d", idx.toSolver[e.A], idx.toSolver[e.B])
	}
	return []byte(b.String()), idx
}

// Decode parses solver output into a tree decomposition, mapping wire
// integers back to node identities through idx. The first line is a header
// and is skipped without interpretation. Comment lines (first token "c")
// and blank lines are ignored. A line "b <index> <int>..." declares bag
// BagPrefix+index; any other line must be exactly two tokens naming
// previously declared bag indices and declares a tree edge between them.
//
// Decoding is strict: malformed lines, non-integer bag members, integers
// outside idx, empty bags, duplicate bag declarations and references to
// undeclared bags all abort with an error naming the offending line - a
// partially decoded decomposition is never returned. Duplicate edge lines
// and self-loop edge lines are input anomalies tolerated at the graph
// layer; they are logged through logger (which may be nil) and skipped.
func Decode[ID cmp.Ordered](r io.Reader, idx *Index[ID], name string, logger *log.Logger) (*decomp.Decomposition[ID], error) {
	td := decomp.New[ID](name, logger)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			// Header, skipped unconditionally.
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "c":
			continue
		case "b":
			if err := decodeBag(td, idx, fields); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			if err := decodeEdge(td, fields); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading solver output: %w", err)
	}
	return td, nil
}

func decodeBag[ID cmp.Ordered](td *decomp.Decomposition[ID], idx *Index[ID], fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: bag declaration %q has no index", ErrMalformedLine, strings.Join(fields, " "))
	}
	bagID := BagPrefix + fields[1]
	members := make([]ID, 0, len(fields)-2)
	for _, tok := range fields[2:] {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("%w: bag member %q is not an integer", ErrMalformedLine, tok)
		}
		id, ok := idx.NodeID(n)
		if !ok {
			return fmt.Errorf("%w: %d (index covers 1..%d)", ErrUnknownIndex, n, idx.Len())
		}
		members = append(members, id)
	}
	if err := td.AddBag(bagID, members...); err != nil {
		return fmt.Errorf("declare %s: %w", bagID, err)
	}
	return nil
}

func decodeEdge[ID cmp.Ordered](td *decomp.Decomposition[ID], fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: %q", ErrMalformedLine, strings.Join(fields, " "))
	}
	a, b := BagPrefix+fields[0], BagPrefix+fields[1]
	for _, bagID := range []string{a, b} {
		if !td.HasNode(bagID) {
			return fmt.Errorf("%w: %s", ErrUnknownBag, bagID)
		}
	}
	if _, _, err := td.AddEdge(a, b); err != nil {
		return fmt.Errorf("edge %s %s: %w", a, b, err)
	}
	return nil
}
