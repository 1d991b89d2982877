package flow

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/flowgraph/graph"
)

// Parallel executes each schedule level as a concurrent fan-out and joins
// before advancing to the next level. Nodes within a level read a value
// snapshot taken before the level started, so they cannot observe each
// other's outputs from the same call; they have no dependency edge by
// construction, so that is the intended semantics.
type Parallel struct {
	logger *zap.Logger
	limit  int
}

// NewParallel creates a level-parallel processor. limit bounds the number
// of concurrently running handlers per level; zero or negative means one
// goroutine per node. A nil logger disables logging.
func NewParallel(limit int, logger *zap.Logger) *Parallel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parallel{
		logger: logger.With(zap.String("component", "parallel_processor")),
		limit:  limit,
	}
}

// Compile keeps the leveler's output as levels so Execute can fan out
// within each one.
func (p *Parallel) Compile(g *graph.Graph, inputs []graph.Identity) (Schedule, error) {
	levels, err := graph.Levels(g, inputs)
	if err != nil {
		return Schedule{}, err
	}
	return NewSchedule(levels), nil
}

// Execute runs levels in order; within a level every node is computed
// concurrently against the pre-level snapshot, and results merge into the
// running value map only after the whole level joins. A failing node
// cancels the remaining work in its level and nothing is committed.
func (p *Parallel) Execute(ctx context.Context, g *graph.Graph, schedule Schedule, values Values, inputs Values) (Values, error) {
	acc := values.clone()
	start := time.Now()
	executed := 0

	for _, level := range schedule.Levels() {
		results := make([]any, len(level))

		eg, egCtx := errgroup.WithContext(ctx)
		if p.limit > 0 {
			eg.SetLimit(p.limit)
		}
		for i, id := range level {
			i, id := i, id
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				value, err := evaluate(egCtx, g, id, acc, inputs)
				if err != nil {
					return attributeFailure(g, id, err)
				}
				results[i] = value
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		// Barrier passed; only now do this level's results become visible.
		for i, id := range level {
			acc[id] = results[i]
		}
		executed += len(level)
	}

	p.logger.Debug("parallel execution completed",
		zap.Int("levels", len(schedule.Levels())),
		zap.Int("nodes_executed", executed),
		zap.Duration("duration", time.Since(start)),
	)
	return acc, nil
}
