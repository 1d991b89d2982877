package flow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/flowgraph/graph"
	"github.com/BaSui01/flowgraph/types"
)

// Values maps compute-node identities to their latest values. Input nodes
// never appear here.
type Values map[graph.Identity]any

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Schedule is a compiled execution plan: ordered levels of node
// identities, inputs excluded. Nodes within a level are mutually
// independent; levels must run in order.
type Schedule struct {
	levels [][]graph.Identity
}

// NewSchedule wraps pre-computed levels into a schedule.
func NewSchedule(levels [][]graph.Identity) Schedule {
	return Schedule{levels: levels}
}

// Levels returns the schedule's levels. The result must not be mutated.
func (s Schedule) Levels() [][]graph.Identity { return s.levels }

// NodeCount returns the number of scheduled nodes.
func (s Schedule) NodeCount() int {
	n := 0
	for _, level := range s.levels {
		n += len(level)
	}
	return n
}

// Processor is a pluggable execution strategy: Compile derives a schedule
// for a set of input identities, Execute runs a schedule against the
// previous values and the current input batch and returns the full new
// value set. Untouched compute nodes carry their previous value forward.
type Processor interface {
	Compile(g *graph.Graph, inputs []graph.Identity) (Schedule, error)
	Execute(ctx context.Context, g *graph.Graph, schedule Schedule, values Values, inputs Values) (Values, error)
}

// Sequential executes schedules as a single ordered fold, updating the
// value accumulator node by node.
type Sequential struct {
	logger *zap.Logger
}

// NewSequential creates a sequential processor. A nil logger disables logging.
func NewSequential(logger *zap.Logger) *Sequential {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequential{logger: logger.With(zap.String("component", "sequential_processor"))}
}

// Compile flattens the leveler's output into one ordered sequence.
func (p *Sequential) Compile(g *graph.Graph, inputs []graph.Identity) (Schedule, error) {
	levels, err := graph.Levels(g, inputs)
	if err != nil {
		return Schedule{}, err
	}
	var flat []graph.Identity
	for _, level := range levels {
		flat = append(flat, level...)
	}
	if flat == nil {
		return Schedule{}, nil
	}
	return NewSchedule([][]graph.Identity{flat}), nil
}

// Execute folds over the schedule, computing each node against the
// accumulated value map and writing the result back before moving on.
// On failure nothing is committed.
func (p *Sequential) Execute(ctx context.Context, g *graph.Graph, schedule Schedule, values Values, inputs Values) (Values, error) {
	acc := values.clone()
	start := time.Now()
	executed := 0

	for _, level := range schedule.Levels() {
		for _, id := range level {
			value, err := evaluate(ctx, g, id, acc, inputs)
			if err != nil {
				return nil, attributeFailure(g, id, err)
			}
			acc[id] = value
			executed++
		}
	}

	p.logger.Debug("sequential execution completed",
		zap.Int("nodes_executed", executed),
		zap.Duration("duration", time.Since(start)),
	)
	return acc, nil
}

// evaluate runs a single compute node: its source values are looked up
// first in the running value map, then in the input batch (nil if the
// input was not supplied this call), and the handler is invoked with the
// node's previous value.
func evaluate(ctx context.Context, g *graph.Graph, id graph.Identity, current Values, inputs Values) (any, error) {
	node, ok := g.Lookup(id)
	if !ok {
		return nil, types.NewErrorf(types.ErrConfiguration, "scheduled identity %q is not in the graph", id)
	}

	sources := make(map[string]any, len(node.Sources()))
	for srcLabel, src := range node.Sources() {
		if value, ok := current[src.ID()]; ok {
			sources[srcLabel] = value
		} else {
			sources[srcLabel] = inputs[src.ID()]
		}
	}

	return node.Handler()(ctx, current[id], sources)
}

// attributeFailure wraps a handler fault with every label-rooted path
// leading to the failing node, preserving the fault as the cause.
func attributeFailure(g *graph.Graph, id graph.Identity, err error) error {
	display := string(id)
	if label, ok := g.LabelOf(id); ok {
		display = label
	}
	return types.NewErrorf(types.ErrComputation, "node %q failed", display).
		WithLabel(display).
		WithPaths(failurePaths(g, id)).
		WithCause(err)
}
