// Package flowgraph provides a top-level convenience entry point for the
// incremental dataflow engine with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/flowgraph"
//
//	in := flowgraph.Input()
//	sum, err := flowgraph.Compute(map[string]*graph.Node{"source": in},
//		func(ctx context.Context, prev any, sources map[string]any) (any, error) {
//			total, _ := prev.(int)
//			if v, ok := sources["source"].(int); ok {
//				total += v
//			}
//			return total, nil
//		})
//	g, err := flowgraph.Graph(map[string]*graph.Node{"in": in, "sum": sum})
//	fc := flowgraph.New(g)
//	fc, err = fc.Process(ctx, map[string]any{"in": 10})
//
// This is a thin wrapper around the graph and flow packages; both produce
// identical results. Use this package when you prefer the shorter import
// path.
package flowgraph

import (
	"github.com/BaSui01/flowgraph/flow"
	"github.com/BaSui01/flowgraph/graph"
)

// Option configures the context created by [New].
type Option = flow.Option

// Input creates a fresh input node with a unique identity.
func Input() *graph.Node {
	return graph.NewInput()
}

// Compute creates a fresh compute node over the given named sources.
func Compute(sources map[string]*graph.Node, handler graph.Handler) (*graph.Node, error) {
	return graph.NewCompute(sources, handler)
}

// Graph builds an immutable graph from a label→node mapping.
func Graph(nodes map[string]*graph.Node) (*graph.Graph, error) {
	return graph.New(nodes)
}

// New creates a processing context over g. The sequential processor is the
// default; pass [WithParallel] or [flow.WithProcessor] to change it.
func New(g *graph.Graph, opts ...Option) *flow.Context {
	return flow.NewContext(g, opts...)
}

// Re-export context options so callers never need to import flow/ for the
// common cases.

// WithProcessor selects a custom execution strategy.
var WithProcessor = flow.WithProcessor

// WithLogger sets a custom zap logger.
var WithLogger = flow.WithLogger

// WithMetrics attaches a prometheus-backed metrics collector.
var WithMetrics = flow.WithMetrics

// WithParallel selects the level-parallel processor with the given
// concurrency limit (zero means one goroutine per node).
func WithParallel(limit int) Option {
	return flow.WithProcessor(flow.NewParallel(limit, nil))
}
