package flowgraph

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/flowgraph/graph"
	"github.com/BaSui01/flowgraph/internal/metrics"
)

func rollingSum(ctx context.Context, prev any, sources map[string]any) (any, error) {
	total, _ := prev.(int)
	if v, ok := sources["source"].(int); ok {
		total += v
	}
	return total, nil
}

func TestTopLevel_SequentialDefault(t *testing.T) {
	in := Input()
	sum, err := Compute(map[string]*graph.Node{"source": in}, rollingSum)
	require.NoError(t, err)
	g, err := Graph(map[string]*graph.Node{"in": in, "sum": sum})
	require.NoError(t, err)

	fc := New(g)
	fc, err = fc.Process(context.Background(), map[string]any{"in": 10})
	require.NoError(t, err)
	fc, err = fc.Process(context.Background(), map[string]any{"in": 10})
	require.NoError(t, err)

	value, present, err := fc.Value("sum")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, 20, value)
}

func TestTopLevel_ParallelAndMetrics(t *testing.T) {
	in := Input()
	sum, err := Compute(map[string]*graph.Node{"source": in}, rollingSum)
	require.NoError(t, err)
	g, err := Graph(map[string]*graph.Node{"in": in, "sum": sum})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector("flowgraph", reg, nil)

	fc := New(g, WithParallel(4), WithMetrics(collector))
	fc, err = fc.Process(context.Background(), map[string]any{"in": 7})
	require.NoError(t, err)

	value, present, err := fc.Value("sum")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, 7, value)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
