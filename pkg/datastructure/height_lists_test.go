package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(hl *HeightLists, h int) []Index {
	var nodes []Index
	hl.ForEach(h, func(u Index) {
		nodes = append(nodes, u)
	})
	return nodes
}

func TestHeightListsFIFO(t *testing.T) {
	hl := NewHeightLists(5, 4)
	hl.PushBack(2, 3)
	hl.PushBack(2, 1)
	hl.PushBack(2, 4)
	hl.PushBack(0, 0)

	assert.Equal(t, 3, hl.Len(2))
	assert.Equal(t, []Index{3, 1, 4}, collect(hl, 2))
	assert.Equal(t, 2, hl.HeightOf(1))
	assert.Equal(t, -1, hl.HeightOf(2))
	assert.False(t, hl.Contains(2))

	u, ok := hl.PopFront(2)
	assert.True(t, ok)
	assert.Equal(t, Index(3), u)
	assert.False(t, hl.Contains(3))

	_, ok = hl.PopFront(1)
	assert.False(t, ok)
}

func TestHeightListsRemoveAndMove(t *testing.T) {
	hl := NewHeightLists(4, 3)
	for u := Index(0); u < 4; u++ {
		hl.PushBack(1, u)
	}

	hl.Remove(2) // middle
	hl.Remove(0) // head
	hl.Remove(3) // tail
	hl.Remove(3) // absent
	assert.Equal(t, []Index{1}, collect(hl, 1))
	assert.Equal(t, 1, hl.Len(1))

	hl.Move(3, 1)
	assert.True(t, hl.Empty(1))
	assert.Equal(t, []Index{1}, collect(hl, 3))

	hl.PushBack(3, 0)
	hl.Move(3, 1)
	assert.Equal(t, []Index{0, 1}, collect(hl, 3))
}

func TestHeightListsForEachRemovingCurrent(t *testing.T) {
	hl := NewHeightLists(4, 2)
	for u := Index(0); u < 4; u++ {
		hl.PushBack(0, u)
	}
	hl.ForEach(0, func(u Index) {
		if u%2 == 0 {
			hl.Move(2, u)
		}
	})
	assert.Equal(t, []Index{1, 3}, collect(hl, 0))
	assert.Equal(t, []Index{0, 2}, collect(hl, 2))

	hl.Clear()
	assert.True(t, hl.Empty(0))
	assert.True(t, hl.Empty(2))
	assert.False(t, hl.Contains(1))
}

func TestHeightHistogram(t *testing.T) {
	hh := NewHeightHistogram(4)
	assert.Equal(t, 4, hh.MaxHeight())
	hh.Increment(0)
	hh.Increment(0)
	hh.Increment(1)

	assert.Equal(t, 1, hh.Move(0, 2))
	assert.Equal(t, 0, hh.Move(1, 2))
	assert.Equal(t, 2, hh.Count(2))
	assert.Equal(t, 1, hh.Decrement(2))

	hh.Reset()
	for h := 0; h <= 4; h++ {
		assert.Zero(t, hh.Count(h))
	}
}
