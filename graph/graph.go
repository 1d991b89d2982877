package graph

import (
	"sort"

	"github.com/BaSui01/flowgraph/types"
)

// Graph is an immutable registry of nodes and their adjacency. Nodes are
// held in an arena keyed by identity; sources are expressed as identity
// references, so shared sources deduplicate naturally and cycle detection
// stays a plain walk over the adjacency map.
//
// Add never mutates the receiver: it returns a new graph value and leaves
// the original valid and usable elsewhere.
type Graph struct {
	labels     map[string]Identity
	labelOf    map[Identity]string
	nodes      map[Identity]*Node
	sources    map[Identity]map[Identity]struct{}
	dependants map[Identity]map[Identity]struct{}
}

// Empty returns a graph with no nodes.
func Empty() *Graph {
	return &Graph{
		labels:     map[string]Identity{},
		labelOf:    map[Identity]string{},
		nodes:      map[Identity]*Node{},
		sources:    map[Identity]map[Identity]struct{}{},
		dependants: map[Identity]map[Identity]struct{}{},
	}
}

// New builds a graph from a label→node mapping by folding Add over the
// entries. Entry order does not affect the result: labels are independent
// and shared sources deduplicate by identity.
func New(nodes map[string]*Node) (*Graph, error) {
	labels := make([]string, 0, len(nodes))
	for label := range nodes {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	g := Empty()
	for _, label := range labels {
		var err error
		g, err = g.Add(label, nodes[label])
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Add registers node under label, recursively inserting any of its sources
// that are not yet present (unlabelled), and returns the extended graph.
// It fails with a structural error on label collision, on identity
// collision with a non-identical node value, or if the insertion would
// introduce a cycle; a nil node or an empty label is a configuration
// error. A failed Add is fatal to graph assembly; the partial result must
// be discarded.
func (g *Graph) Add(label string, node *Node) (*Graph, error) {
	if node == nil {
		return nil, types.NewError(types.ErrConfiguration, "cannot add a nil node").WithLabel(label)
	}
	if label == "" {
		return nil, types.NewError(types.ErrConfiguration, "cannot register a node under an empty label")
	}
	if _, exists := g.labels[label]; exists {
		return nil, types.NewErrorf(types.ErrStructural, "label %q is already registered", label).WithLabel(label)
	}

	next := g.clone()
	cloned := map[Identity]bool{}
	if err := next.insert(node, cloned, map[Identity]bool{}); err != nil {
		return nil, err
	}
	next.labels[label] = node.id
	next.labelOf[node.id] = label

	if err := next.checkAcyclic(node.id); err != nil {
		return nil, err
	}
	return next, nil
}

// clone copies the outer maps. Inner source sets are immutable once built;
// inner dependant sets are copy-on-extend during insert.
func (g *Graph) clone() *Graph {
	next := &Graph{
		labels:     make(map[string]Identity, len(g.labels)+1),
		labelOf:    make(map[Identity]string, len(g.labelOf)+1),
		nodes:      make(map[Identity]*Node, len(g.nodes)+1),
		sources:    make(map[Identity]map[Identity]struct{}, len(g.sources)+1),
		dependants: make(map[Identity]map[Identity]struct{}, len(g.dependants)+1),
	}
	for k, v := range g.labels {
		next.labels[k] = v
	}
	for k, v := range g.labelOf {
		next.labelOf[k] = v
	}
	for k, v := range g.nodes {
		next.nodes[k] = v
	}
	for k, v := range g.sources {
		next.sources[k] = v
	}
	for k, v := range g.dependants {
		next.dependants[k] = v
	}
	return next
}

func (g *Graph) insert(node *Node, cloned, inserting map[Identity]bool) error {
	if existing, ok := g.nodes[node.id]; ok {
		if existing != node {
			return types.NewErrorf(types.ErrStructural, "identity %q is claimed by a different node", node.id)
		}
		return nil
	}
	// A source chain looping back onto a node mid-insertion is left for the
	// acyclicity check to report; recursing into it would never terminate.
	if inserting[node.id] {
		return nil
	}
	inserting[node.id] = true

	srcs := make(map[Identity]struct{}, len(node.sources))
	for _, src := range node.sources {
		if err := g.insert(src, cloned, inserting); err != nil {
			return err
		}
		srcs[src.id] = struct{}{}
	}

	g.nodes[node.id] = node
	g.sources[node.id] = srcs
	for srcID := range srcs {
		g.addDependant(srcID, node.id, cloned)
	}
	return nil
}

func (g *Graph) addDependant(src, dst Identity, cloned map[Identity]bool) {
	set := g.dependants[src]
	if !cloned[src] {
		copied := make(map[Identity]struct{}, len(set)+1)
		for k := range set {
			copied[k] = struct{}{}
		}
		set = copied
		g.dependants[src] = set
		cloned[src] = true
	}
	set[dst] = struct{}{}
}

// checkAcyclic walks the source adjacency depth-first from the freshly
// inserted identity, tracking the current path as a set. Any new cycle
// must be reachable from the new node, so one walk per Add suffices.
func (g *Graph) checkAcyclic(start Identity) error {
	visited := map[Identity]bool{}
	onPath := map[Identity]bool{}

	var walk func(id Identity) error
	walk = func(id Identity) error {
		if onPath[id] {
			return types.NewErrorf(types.ErrStructural, "cycle detected via node %q", id)
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		onPath[id] = true
		for srcID := range g.sources[id] {
			if err := walk(srcID); err != nil {
				return err
			}
		}
		onPath[id] = false
		return nil
	}
	return walk(start)
}

// Resolve maps a label to the identity it names.
func (g *Graph) Resolve(label string) (Identity, bool) {
	id, ok := g.labels[label]
	return id, ok
}

// LabelOf maps an identity back to its label. Hidden nodes have none.
func (g *Graph) LabelOf(id Identity) (string, bool) {
	label, ok := g.labelOf[id]
	return label, ok
}

// Lookup returns the node registered under id.
func (g *Graph) Lookup(id Identity) (*Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// Labels returns all registered labels in sorted order.
func (g *Graph) Labels() []string {
	labels := make([]string, 0, len(g.labels))
	for label := range g.labels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// InputIdentities returns the identities of every input node in the graph,
// sorted for determinism.
func (g *Graph) InputIdentities() []Identity {
	ids := make([]Identity, 0, len(g.nodes))
	for id, node := range g.nodes {
		if node.kind == KindInput {
			ids = append(ids, id)
		}
	}
	sortIdentities(ids)
	return ids
}

// SourcesOf returns the source identities of id, sorted.
func (g *Graph) SourcesOf(id Identity) []Identity {
	return setToSorted(g.sources[id])
}

// DependantsOf returns the identities that use id as a source, sorted.
func (g *Graph) DependantsOf(id Identity) []Identity {
	return setToSorted(g.dependants[id])
}

// Len returns the number of nodes in the graph, hidden nodes included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

func setToSorted(set map[Identity]struct{}) []Identity {
	ids := make([]Identity, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sortIdentities(ids)
	return ids
}

func sortIdentities(ids []Identity) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
