package flow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/flowgraph/graph"
	"github.com/BaSui01/flowgraph/internal/metrics"
	"github.com/BaSui01/flowgraph/types"
)

// Context binds a graph to a processor together with the accumulated
// compute-node values and the cached compilations. Context values are
// never mutated in place: Process and Precompile return new values, and
// any number of contexts derived from the same lineage stay independently
// usable and concurrently queryable.
type Context struct {
	graph        *graph.Graph
	processor    Processor
	values       Values
	compilations compilationCache
	logger       *zap.Logger
	collector    *metrics.Collector
}

// Option configures a Context at creation time.
type Option func(*Context)

// WithProcessor selects the execution strategy. The default is the
// sequential processor.
func WithProcessor(p Processor) Option {
	return func(c *Context) { c.processor = p }
}

// WithLogger attaches a logger to the context and its default processor.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithMetrics attaches a metrics collector. Absent a collector, the
// context records nothing.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Context) { c.collector = collector }
}

// NewContext creates a processing context over g.
func NewContext(g *graph.Graph, opts ...Option) *Context {
	c := &Context{
		graph:        g,
		values:       Values{},
		compilations: compilationCache{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("component", "flow_context"))
	if c.processor == nil {
		c.processor = NewSequential(c.logger)
	}
	return c
}

// Graph returns the graph this context is bound to.
func (c *Context) Graph() *graph.Graph { return c.graph }

// Process runs one batch of external inputs through the graph and returns
// a new context whose compute-node values reflect the batch. Every label
// in the batch must name an input node. Input values are used for this
// call only and never stored.
//
// On failure the error carries the label-rooted paths to the failing node
// and the receiver remains the valid state: no partial results are ever
// committed.
func (c *Context) Process(ctx context.Context, batch map[string]any) (*Context, error) {
	// An empty batch names no inputs: nothing is scheduled and the current
	// values already are the result.
	if len(batch) == 0 {
		return c, nil
	}

	labels := make([]string, 0, len(batch))
	for label := range batch {
		labels = append(labels, label)
	}

	start := time.Now()
	schedule, compilations, err := c.compiled(labels)
	if err != nil {
		return nil, err
	}

	inputs := make(Values, len(batch))
	for label, value := range batch {
		id, ok := c.graph.Resolve(label)
		if !ok {
			return nil, types.NewErrorf(types.ErrConfiguration, "unknown label %q", label).WithLabel(label)
		}
		inputs[id] = value
	}

	values, err := c.processor.Execute(ctx, c.graph, schedule, c.values, inputs)
	if err != nil {
		c.collector.ObserveProcess(time.Since(start), false)
		c.logger.Error("processing failed",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		return nil, err
	}

	c.collector.ObserveProcess(time.Since(start), true)
	c.collector.AddNodeExecutions(schedule.NodeCount())
	c.logger.Debug("processing completed",
		zap.Int("batch_size", len(batch)),
		zap.Int("nodes_executed", schedule.NodeCount()),
		zap.Duration("duration", time.Since(start)),
	)

	return &Context{
		graph:        c.graph,
		processor:    c.processor,
		values:       values,
		compilations: compilations,
		logger:       c.logger,
		collector:    c.collector,
	}, nil
}

// Precompile populates the compilation cache for the given input label
// set, so the first Process call with that shape pays no compilation
// cost. Precompiling an already-cached set returns the receiver.
func (c *Context) Precompile(labels ...string) (*Context, error) {
	// The empty label set schedules nothing; there is no compilation to warm.
	if len(labels) == 0 {
		return c, nil
	}

	key := cacheKey(labels)
	if _, ok := c.compilations[key]; ok {
		c.collector.CacheHit()
		return c, nil
	}

	schedule, err := c.compile(labels)
	if err != nil {
		return nil, err
	}
	return &Context{
		graph:        c.graph,
		processor:    c.processor,
		values:       c.values,
		compilations: c.compilations.extend(key, schedule),
		logger:       c.logger,
		collector:    c.collector,
	}, nil
}

// compiled returns the schedule for labels, reusing the cache when the
// label set was seen before and extending it otherwise.
func (c *Context) compiled(labels []string) (Schedule, compilationCache, error) {
	key := cacheKey(labels)
	if schedule, ok := c.compilations[key]; ok {
		c.collector.CacheHit()
		return schedule, c.compilations, nil
	}

	schedule, err := c.compile(labels)
	if err != nil {
		return Schedule{}, nil, err
	}
	return schedule, c.compilations.extend(key, schedule), nil
}

func (c *Context) compile(labels []string) (Schedule, error) {
	c.collector.CacheMiss()
	inputs, err := resolveInputs(c.graph, labels)
	if err != nil {
		return Schedule{}, err
	}
	schedule, err := c.processor.Compile(c.graph, inputs)
	if err != nil {
		return Schedule{}, err
	}
	c.logger.Debug("compiled schedule",
		zap.Strings("labels", labels),
		zap.Int("nodes", schedule.NodeCount()),
	)
	return schedule, nil
}

// Value returns the latest value of the compute node registered under
// label. The second result reports presence: input-node labels and
// compute nodes that have not run yet read as absent. An unknown label is
// a configuration error.
func (c *Context) Value(label string) (any, bool, error) {
	id, ok := c.graph.Resolve(label)
	if !ok {
		return nil, false, types.NewErrorf(types.ErrConfiguration, "unknown label %q", label).WithLabel(label)
	}
	node, _ := c.graph.Lookup(id)
	if node.Kind() != graph.KindCompute {
		return nil, false, nil
	}
	value, present := c.values[id]
	return value, present, nil
}

// Values returns the current values of every labelled compute node that
// has one. Input nodes never appear.
func (c *Context) Values() map[string]any {
	out := map[string]any{}
	for _, label := range c.graph.Labels() {
		id, _ := c.graph.Resolve(label)
		node, _ := c.graph.Lookup(id)
		if node.Kind() != graph.KindCompute {
			continue
		}
		if value, ok := c.values[id]; ok {
			out[label] = value
		}
	}
	return out
}
