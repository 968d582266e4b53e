package datastructure

const nilNode = -1

// HeightLists keeps every node in at most one FIFO list, one list per height.
// The lists are intrusive: next/prev live in per-node arrays, so insertion, removal
// and popping are O(1) without allocation.
type HeightLists struct {
	head   []int // per height
	tail   []int // per height
	size   []int // per height
	next   []int // per node
	prev   []int // per node
	height []int // per node, nilNode when the node is in no list
}

func NewHeightLists(numberOfVertices, maxHeight int) *HeightLists {
	hl := &HeightLists{
		head:   make([]int, maxHeight+1),
		tail:   make([]int, maxHeight+1),
		size:   make([]int, maxHeight+1),
		next:   make([]int, numberOfVertices),
		prev:   make([]int, numberOfVertices),
		height: make([]int, numberOfVertices),
	}
	hl.Clear()
	return hl
}

func (hl *HeightLists) Contains(u Index) bool {
	return hl.height[u] != nilNode
}

// HeightOf returns the height of the list holding u, or -1.
func (hl *HeightLists) HeightOf(u Index) int {
	return hl.height[u]
}

func (hl *HeightLists) Len(h int) int {
	return hl.size[h]
}

func (hl *HeightLists) Empty(h int) bool {
	return hl.size[h] == 0
}

// PushBack appends u to the list at height h. u must not be in any list.
func (hl *HeightLists) PushBack(h int, u Index) {
	v := int(u)
	hl.next[v] = nilNode
	hl.prev[v] = hl.tail[h]
	if hl.tail[h] != nilNode {
		hl.next[hl.tail[h]] = v
	} else {
		hl.head[h] = v
	}
	hl.tail[h] = v
	hl.height[v] = h
	hl.size[h]++
}

// Remove unlinks u from whatever list holds it. It is a no-op for nodes in no list.
func (hl *HeightLists) Remove(u Index) {
	v := int(u)
	h := hl.height[v]
	if h == nilNode {
		return
	}
	if hl.prev[v] != nilNode {
		hl.next[hl.prev[v]] = hl.next[v]
	} else {
		hl.head[h] = hl.next[v]
	}
	if hl.next[v] != nilNode {
		hl.prev[hl.next[v]] = hl.prev[v]
	} else {
		hl.tail[h] = hl.prev[v]
	}
	hl.next[v] = nilNode
	hl.prev[v] = nilNode
	hl.height[v] = nilNode
	hl.size[h]--
}

func (hl *HeightLists) PopFront(h int) (Index, bool) {
	v := hl.head[h]
	if v == nilNode {
		return 0, false
	}
	hl.Remove(Index(v))
	return Index(v), true
}

// Move relocates u to the back of the list at height h.
func (hl *HeightLists) Move(h int, u Index) {
	hl.Remove(u)
	hl.PushBack(h, u)
}

// ForEach visits the list at height h front to back. handle may remove the node it is
// given but no other node.
func (hl *HeightLists) ForEach(h int, handle func(u Index)) {
	for v := hl.head[h]; v != nilNode; {
		next := hl.next[v]
		handle(Index(v))
		v = next
	}
}

func (hl *HeightLists) Clear() {
	for h := range hl.head {
		hl.head[h] = nilNode
		hl.tail[h] = nilNode
		hl.size[h] = 0
	}
	for v := range hl.next {
		hl.next[v] = nilNode
		hl.prev[v] = nilNode
		hl.height[v] = nilNode
	}
}
