package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/BaSui01/flowgraph/types"
)

// Identity is a process-unique opaque token naming a node. Identities are
// generated at construction time and never reused.
type Identity string

// Kind distinguishes the two node variants.
type Kind string

const (
	// KindInput marks a root node whose value is supplied per processing
	// call and never stored.
	KindInput Kind = "input"
	// KindCompute marks a node that derives its value from its sources and
	// its own previous value.
	KindCompute Kind = "compute"
)

// Handler computes a node's new value from its previous value (nil on the
// first run) and the current values of its sources, keyed by the node's
// local source labels. Handlers must be pure with respect to engine state.
type Handler func(ctx context.Context, prev any, sources map[string]any) (any, error)

// Node is a unit of the dataflow graph: an input node (identity only) or a
// compute node (identity, named sources, handler). Nodes are shared by
// reference; a node never owns its sources.
type Node struct {
	id      Identity
	kind    Kind
	sources map[string]*Node
	handler Handler
}

// ID returns the node's identity.
func (n *Node) ID() Identity { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Sources returns the node's source mapping (nil for input nodes). The
// returned map must not be mutated.
func (n *Node) Sources() map[string]*Node { return n.sources }

// Handler returns the node's compute handler (nil for input nodes).
func (n *Node) Handler() Handler { return n.handler }

// IDGenerator produces fresh node identities.
type IDGenerator interface {
	Next() Identity
}

// UUIDGenerator is the production identity generator.
type UUIDGenerator struct{}

// Next returns a fresh random identity.
func (UUIDGenerator) Next() Identity { return Identity(uuid.NewString()) }

// SequentialGenerator produces deterministic identities for tests.
type SequentialGenerator struct {
	mu     sync.Mutex
	Prefix string
	next   uint64
}

// Next returns the next identity in sequence.
func (g *SequentialGenerator) Next() Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return Identity(fmt.Sprintf("%s%d", g.Prefix, g.next))
}

// Factory constructs nodes using an explicit identity generator, keeping
// graph construction deterministic and testable.
type Factory struct {
	gen IDGenerator
}

// NewFactory creates a node factory backed by the given generator.
func NewFactory(gen IDGenerator) *Factory {
	return &Factory{gen: gen}
}

// Input creates a fresh input node.
func (f *Factory) Input() *Node {
	return &Node{id: f.gen.Next(), kind: KindInput}
}

// Compute creates a fresh compute node with the given named sources and
// handler. The source set must be non-empty.
func (f *Factory) Compute(sources map[string]*Node, handler Handler) (*Node, error) {
	if len(sources) == 0 {
		return nil, types.NewError(types.ErrConfiguration, "compute node requires at least one source")
	}
	if handler == nil {
		return nil, types.NewError(types.ErrConfiguration, "compute node requires a handler")
	}
	for label, src := range sources {
		if src == nil {
			return nil, types.NewErrorf(types.ErrConfiguration, "source %q is nil", label).WithLabel(label)
		}
	}
	copied := make(map[string]*Node, len(sources))
	for label, src := range sources {
		copied[label] = src
	}
	return &Node{id: f.gen.Next(), kind: KindCompute, sources: copied, handler: handler}, nil
}

var defaultFactory = NewFactory(UUIDGenerator{})

// NewInput creates a fresh input node with a random identity.
func NewInput() *Node {
	return defaultFactory.Input()
}

// NewCompute creates a fresh compute node with a random identity.
func NewCompute(sources map[string]*Node, handler Handler) (*Node, error) {
	return defaultFactory.Compute(sources, handler)
}
