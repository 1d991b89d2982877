package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/flowgraph/types"
)

func TestLevels_Diamond(t *testing.T) {
	f := testFactory()
	in := f.Input()
	left, err := f.Compute(map[string]*Node{"source": in}, relay)
	require.NoError(t, err)
	right, err := f.Compute(map[string]*Node{"source": in}, relay)
	require.NoError(t, err)
	join, err := f.Compute(map[string]*Node{"l": left, "r": right}, relay)
	require.NoError(t, err)

	g, err := New(map[string]*Node{"in": in, "join": join})
	require.NoError(t, err)

	levels, err := Levels(g, []Identity{in.ID()})
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.ElementsMatch(t, []Identity{left.ID(), right.ID()}, levels[0])
	assert.Equal(t, []Identity{join.ID()}, levels[1])
}

func TestLevels_MaxDepthPlacement(t *testing.T) {
	// d depends on the input directly and on a two-hop chain; it must be
	// scheduled at the depth of its farthest input dependency.
	f := testFactory()
	in := f.Input()
	a, err := f.Compute(map[string]*Node{"source": in}, relay)
	require.NoError(t, err)
	b, err := f.Compute(map[string]*Node{"source": a}, relay)
	require.NoError(t, err)
	d, err := f.Compute(map[string]*Node{"near": in, "far": b}, relay)
	require.NoError(t, err)

	g, err := New(map[string]*Node{"in": in, "d": d})
	require.NoError(t, err)

	levels, err := Levels(g, nil)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, []Identity{a.ID()}, levels[0])
	assert.Equal(t, []Identity{b.ID()}, levels[1])
	assert.Equal(t, []Identity{d.ID()}, levels[2])
}

func TestLevels_DefaultFrontierIsAllInputs(t *testing.T) {
	f := testFactory()
	i1 := f.Input()
	i2 := f.Input()
	c, err := f.Compute(map[string]*Node{"a": i1, "b": i2}, relay)
	require.NoError(t, err)

	g, err := New(map[string]*Node{"c": c})
	require.NoError(t, err)

	levels, err := Levels(g, nil)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, []Identity{c.ID()}, levels[0])
}

func TestLevels_StaleSourcesAddNoDepth(t *testing.T) {
	// c3 consumes both branches but only i2's branch is in the frontier;
	// c1 is untouched and contributes no depth, so c3 sits one level above c2.
	f := testFactory()
	i1 := f.Input()
	i2 := f.Input()
	c1, err := f.Compute(map[string]*Node{"source": i1}, relay)
	require.NoError(t, err)
	c2, err := f.Compute(map[string]*Node{"source": i2}, relay)
	require.NoError(t, err)
	c3, err := f.Compute(map[string]*Node{"a": c1, "b": c2}, relay)
	require.NoError(t, err)

	g, err := New(map[string]*Node{"c3": c3})
	require.NoError(t, err)

	levels, err := Levels(g, []Identity{i2.ID()})
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, []Identity{c2.ID()}, levels[0])
	assert.Equal(t, []Identity{c3.ID()}, levels[1])
}

func TestLevels_Determinism(t *testing.T) {
	f := testFactory()
	in := f.Input()
	nodes := map[string]*Node{"in": in}
	prev := in
	for _, label := range []string{"a", "b", "c", "d"} {
		c, err := f.Compute(map[string]*Node{"source": prev, "root": in}, relay)
		require.NoError(t, err)
		nodes[label] = c
		prev = c
	}
	g, err := New(nodes)
	require.NoError(t, err)

	first, err := Levels(g, []Identity{in.ID()})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Levels(g, []Identity{in.ID()})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLevels_RejectsBadFrontier(t *testing.T) {
	f := testFactory()
	in := f.Input()
	c, err := f.Compute(map[string]*Node{"source": in}, relay)
	require.NoError(t, err)
	g, err := New(map[string]*Node{"in": in, "c": c})
	require.NoError(t, err)

	_, err = Levels(g, []Identity{"no-such-id"})
	require.Error(t, err)
	assert.Equal(t, types.ErrConfiguration, types.GetErrorCode(err))

	_, err = Levels(g, []Identity{c.ID()})
	require.Error(t, err)
	assert.Equal(t, types.ErrConfiguration, types.GetErrorCode(err))
}
