package decomp

import (
	"cmp"
	"errors"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topowidth/pkg/graph"
)

var (
	// ErrEmptyBag is returned by [Decomposition.AddBag] when the member set
	// is empty. Every decomposition node must carry at least one original
	// graph node.
	ErrEmptyBag = errors.New("bag must not be empty")

	// ErrBagRequired is returned by [Decomposition.AddNode]. Decomposition
	// nodes always carry a bag, so they must be added through AddBag.
	ErrBagRequired = errors.New("decomposition nodes require a bag, use AddBag")

	// ErrNoBags is returned by [Decomposition.Width] when the decomposition
	// has no bags, since the width of an empty decomposition is undefined.
	ErrNoBags = errors.New("decomposition has no bags")
)

// Decomposition is a tree decomposition of an undirected graph. It is itself
// an undirected graph whose nodes are bag identifiers (strings, distinct
// from the original graph's identities); each bag identifier carries a bag,
// the set of original-graph nodes it covers.
//
// Two derived indices are maintained across every mutation: the
// representative bag per covered node (the first bag the node was added to)
// and the insertion-ordered list of all bags containing it. Tree-ness of
// the edge structure is deliberately not enforced during construction - a
// decomposition being decoded from solver output is transiently neither
// connected nor acyclic. Use [Check] once construction has finished.
//
// The zero value is not usable - use New to create a valid instance.
type Decomposition[ID cmp.Ordered] struct {
	*graph.Graph[string]

	bags           map[string]map[ID]struct{}
	representative map[ID]string
	containing     map[ID][]string
}

// New creates an empty tree decomposition. The logger is passed through to
// the underlying graph and may be nil.
func New[ID cmp.Ordered](name string, logger *log.Logger) *Decomposition[ID] {
	return &Decomposition[ID]{
		Graph:          graph.New[string](name, logger),
		bags:           make(map[string]map[ID]struct{}),
		representative: make(map[ID]string),
		containing:     make(map[ID][]string),
	}
}

// AddNode always fails with ErrBagRequired: a decomposition node cannot
// exist without a bag. It shadows the underlying graph method so the
// invariant cannot be bypassed through the embedded type.
func (d *Decomposition[ID]) AddNode(string) error { return ErrBagRequired }

// AddBag adds a decomposition node with the given bag members. Duplicate
// members are collapsed to a set. Returns ErrEmptyBag when no members are
// given and graph.ErrDuplicateNode when the bag identifier already exists.
//
// For every member not covered by an earlier bag, this bag becomes its
// representative.
func (d *Decomposition[ID]) AddBag(bagID string, members ...ID) error {
	bag := make(map[ID]struct{}, len(members))
	for _, v := range members {
		bag[v] = struct{}{}
	}
	if len(bag) == 0 {
		return ErrEmptyBag
	}
	if err := d.Graph.AddNode(bagID); err != nil {
		return err
	}
	d.bags[bagID] = bag
	for v := range bag {
		if _, covered := d.representative[v]; !covered {
			d.representative[v] = bagID
		}
		d.containing[v] = append(d.containing[v], bagID)
	}
	return nil
}

// RemoveBag removes a decomposition node, its incident tree edges, and its
// entry in every index. Nodes the bag represented are re-assigned to the
// first remaining bag containing them; a node contained in no other bag
// becomes unrepresented, which [Check] reports as a coverage failure rather
// than this method failing. Returns graph.ErrUnknownNode if the bag
// identifier does not exist.
func (d *Decomposition[ID]) RemoveBag(bagID string) error {
	if err := d.Graph.RemoveNode(bagID); err != nil {
		return err
	}
	for v := range d.bags[bagID] {
		remaining := slices.DeleteFunc(d.containing[v], func(id string) bool { return id == bagID })
		if len(remaining) == 0 {
			delete(d.containing, v)
			delete(d.representative, v)
			continue
		}
		d.containing[v] = remaining
		if d.representative[v] == bagID {
			d.representative[v] = remaining[0]
		}
	}
	delete(d.bags, bagID)
	return nil
}

// RemoveNode is an alias for [Decomposition.RemoveBag], shadowing the
// underlying graph method so index maintenance cannot be bypassed.
func (d *Decomposition[ID]) RemoveNode(bagID string) error { return d.RemoveBag(bagID) }

// Bag returns the sorted members of a bag and whether the bag exists.
// The slice is a copy and safe to modify.
func (d *Decomposition[ID]) Bag(bagID string) ([]ID, bool) {
	bag, ok := d.bags[bagID]
	if !ok {
		return nil, false
	}
	members := make([]ID, 0, len(bag))
	for v := range bag {
		members = append(members, v)
	}
	slices.Sort(members)
	return members, true
}

// Bags returns the sorted identifiers of every bag.
func (d *Decomposition[ID]) Bags() []string {
	ids := make([]string, 0, len(d.bags))
	for bagID := range d.bags {
		ids = append(ids, bagID)
	}
	slices.Sort(ids)
	return ids
}

// Contains reports whether the bag exists and contains the node.
func (d *Decomposition[ID]) Contains(bagID string, v ID) bool {
	_, ok := d.bags[bagID][v]
	return ok
}

// Representative returns the canonical bag identifier owning the node, and
// false if no bag contains it.
func (d *Decomposition[ID]) Representative(v ID) (string, bool) {
	bagID, ok := d.representative[v]
	return bagID, ok
}

// ContainingBags returns the identifiers of every bag containing the node,
// in the order the bags were added. The slice is a copy and safe to modify.
func (d *Decomposition[ID]) ContainingBags(v ID) []string {
	return slices.Clone(d.containing[v])
}

// CoveredNodes returns the sorted original-graph nodes that appear in at
// least one bag.
func (d *Decomposition[ID]) CoveredNodes() []ID {
	nodes := make([]ID, 0, len(d.containing))
	for v := range d.containing {
		nodes = append(nodes, v)
	}
	slices.Sort(nodes)
	return nodes
}

// BagCount returns the number of bags.
func (d *Decomposition[ID]) BagCount() int { return len(d.bags) }

// Width returns the width of the decomposition: the size of its largest bag
// minus one. Returns ErrNoBags when the decomposition is empty, since the
// maximum is undefined.
func (d *Decomposition[ID]) Width() (int, error) {
	if len(d.bags) == 0 {
		return 0, ErrNoBags
	}
	largest := 0
	for _, bag := range d.bags {
		if len(bag) > largest {
			largest = len(bag)
		}
	}
	return largest - 1, nil
}
