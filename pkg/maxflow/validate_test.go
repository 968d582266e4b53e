package maxflow

import (
	"testing"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestValidate(t *testing.T) {
	t.Run("maximum flow with its cut", func(t *testing.T) {
		g := buildGraph(t, 4, scenarios[0].arcs)
		for _, id := range []datastructure.ArcID{0, 2, 4, 6} {
			g.Push(id, 2)
		}
		cut := NewMinCut(4)
		cut.SetFlag(0, true)
		cut.SetFlag(1, true)
		require.NoError(t, cut.collectCutArcs(g))
		assert.Equal(t, []datastructure.ArcID{2, 4}, cut.GetCutArcs())

		assert.NoError(t, Validate(g, 0, 3, 4, cut))
	})

	t.Run("every violation is reported", func(t *testing.T) {
		g := buildGraph(t, 4, scenarios[0].arcs)
		g.Push(0, 3)
		g.Push(4, 3) // over the capacity of 1 -> 3

		err := Validate(g, 0, 3, 4, nil)
		require.Error(t, err)
		// capacity, sink value, source value, augmenting path over 0 -> 2 -> 3
		assert.Len(t, multierr.Errors(err), 4)
	})

	t.Run("cut capacity differs from flow", func(t *testing.T) {
		g := buildGraph(t, 4, scenarios[0].arcs)
		for _, id := range []datastructure.ArcID{0, 2, 4, 6} {
			g.Push(id, 2)
		}
		cut := NewMinCut(4)
		cut.SetFlag(0, true)
		require.NoError(t, cut.collectCutArcs(g))
		assert.Equal(t, int64(5), cut.GetCapacity())

		err := Validate(g, 0, 3, 4, cut)
		assert.Len(t, multierr.Errors(err), 1)
	})

	t.Run("terminal capacity exceeded", func(t *testing.T) {
		g := buildGraph(t, 2, []testArc{{0, 1, 2}})
		g.Push(0, 3)

		err := Validate(g, 0, 1, 3, nil)
		assert.ErrorContains(t, err, "more than its in-capacity 2")
		assert.ErrorContains(t, err, "more than its out-capacity 2")
		// capacity, sink in-capacity, source out-capacity
		assert.Len(t, multierr.Errors(err), 3)
	})

	t.Run("bad terminals", func(t *testing.T) {
		g := buildGraph(t, 2, nil)
		assert.ErrorIs(t, Validate(g, 1, 1, 0, nil), datastructure.ErrInvalidArgument)
	})
}

func TestMinCutFlags(t *testing.T) {
	cut := NewMinCut(5)
	cut.SetFlag(0, true)
	cut.SetFlag(3, true)
	cut.SetFlag(3, true)
	assert.Equal(t, 2, cut.GetNumNodesInSourceSide())
	assert.Equal(t, 3, cut.GetNumNodesInSinkSide())

	cut.SetFlag(3, false)
	assert.Equal(t, []datastructure.Index{0}, cut.SourceSide())
	assert.False(t, cut.GetFlag(3))
}

func TestReachableMinCut(t *testing.T) {
	g := buildGraph(t, 4, scenarios[0].arcs)
	flow, err := NewEdmondsKarp(g).ComputeMaxFlow(0, 3)
	require.NoError(t, err)
	require.Equal(t, int64(4), flow)

	cut, err := reachableMinCut(g, 0)
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Index{0, 1}, cut.SourceSide())
	assert.Equal(t, int64(4), cut.GetCapacity())
}
