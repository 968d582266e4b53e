package datastructure

import (
	"math"
	"testing"

	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResidualGraph(t *testing.T) {
	for _, n := range []int{-1, 0, 1, pkg.MAX_NODES + 1} {
		_, err := NewResidualGraph(n)
		assert.ErrorIs(t, err, ErrInvalidArgument, "n=%d", n)
	}

	g, err := NewResidualGraph(2)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumberOfVertices())
	assert.Zero(t, g.NumberOfArcs())
}

func TestAddArc(t *testing.T) {
	g, err := NewResidualGraph(3)
	require.NoError(t, err)

	id, err := g.AddArc(0, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, ArcID(0), id)
	assert.True(t, IsForwardArc(id))
	assert.Equal(t, ArcID(1), ReverseArc(id))

	forward := g.GetArc(id)
	assert.Equal(t, Index(0), forward.GetFrom())
	assert.Equal(t, Index(1), forward.GetTo())
	assert.Equal(t, int64(7), forward.GetCapacity())
	assert.Equal(t, int64(7), forward.GetResidualCapacity())

	reverse := g.GetReversedArc(id)
	assert.Equal(t, Index(1), reverse.GetFrom())
	assert.Equal(t, Index(0), reverse.GetTo())
	assert.Zero(t, reverse.GetCapacity())
	assert.Zero(t, reverse.GetResidualCapacity())

	assert.Equal(t, 1, g.GetVertexArcsSize(0))
	assert.Equal(t, 1, g.GetVertexArcsSize(1))
	assert.Equal(t, ArcID(1), g.GetArcIDOfVertex(1, 0))

	// parallel arcs stay distinct
	second, err := g.AddArc(0, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, ArcID(2), second)
	assert.Equal(t, 2, g.GetVertexArcsSize(0))
	assert.Equal(t, int64(10), g.OutCapacity(0))
	assert.Equal(t, int64(10), g.InCapacity(1))
}

func TestAddArcInvalid(t *testing.T) {
	cases := []struct {
		name     string
		u, v     Index
		capacity int64
	}{
		{"source out of range", 3, 0, 1},
		{"target out of range", 0, 5, 1},
		{"self-loop", 1, 1, 1},
		{"negative capacity", 0, 1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewResidualGraph(3)
			require.NoError(t, err)
			_, err = g.AddArc(tc.u, tc.v, tc.capacity)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Zero(t, g.NumberOfArcs())
		})
	}
}

func TestAddArcOverflow(t *testing.T) {
	g, err := NewResidualGraph(3)
	require.NoError(t, err)

	_, err = g.AddArc(0, 1, math.MaxInt64)
	require.NoError(t, err)
	_, err = g.AddArc(0, 2, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = g.AddArc(2, 1, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	// rejected arcs leave no trace
	assert.Equal(t, 2, g.NumberOfArcs())
	assert.Zero(t, g.InCapacity(2))
}

func TestPushConservesPairCapacity(t *testing.T) {
	g, err := NewResidualGraph(2)
	require.NoError(t, err)
	id, err := g.AddArc(0, 1, 9)
	require.NoError(t, err)

	g.Push(id, 4)
	assert.Equal(t, int64(5), g.GetArc(id).GetResidualCapacity())
	assert.Equal(t, int64(4), g.GetReversedArc(id).GetResidualCapacity())
	assert.Equal(t, int64(4), g.GetArc(id).GetFlow())

	g.Push(ReverseArc(id), 3)
	assert.Equal(t, int64(8), g.GetArc(id).GetResidualCapacity())
	assert.Equal(t, int64(1), g.GetArc(id).GetFlow())

	g.ForEachArc(func(id ArcID, a *Arc) {
		if IsForwardArc(id) {
			assert.Equal(t, int64(9), a.GetResidualCapacity()+g.GetReversedArc(id).GetResidualCapacity())
		}
	})
}

func TestFreezeAndClone(t *testing.T) {
	g, err := NewResidualGraph(2)
	require.NoError(t, err)
	id, err := g.AddArc(0, 1, 2)
	require.NoError(t, err)
	g.Push(id, 1)

	g.Freeze()
	_, err = g.AddArc(1, 0, 1)
	assert.ErrorIs(t, err, ErrGraphFrozen)

	clone := g.Clone()
	assert.False(t, clone.Frozen())
	assert.Equal(t, int64(1), clone.GetArc(id).GetResidualCapacity())
	_, err = clone.AddArc(1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumberOfArcs())
	assert.Equal(t, 4, clone.NumberOfArcs())
}

func TestCheckedAdd(t *testing.T) {
	cases := []struct {
		a, b     int64
		expected int64
		ok       bool
	}{
		{1, 2, 3, true},
		{math.MaxInt64, 1, 0, false},
		{math.MinInt64, -1, 0, false},
		{math.MaxInt64, -1, math.MaxInt64 - 1, true},
		{-5, 5, 0, true},
	}
	for _, tc := range cases {
		got, ok := CheckedAdd(tc.a, tc.b)
		assert.Equal(t, tc.ok, ok, "%d + %d", tc.a, tc.b)
		assert.Equal(t, tc.expected, got, "%d + %d", tc.a, tc.b)
	}
}
