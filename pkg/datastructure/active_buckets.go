package datastructure

// ActiveBuckets holds active nodes in per-height FIFO buckets and tracks the highest
// height that may hold one. currentMax is -1 when no bucket is occupied.
type ActiveBuckets struct {
	lists      *HeightLists
	currentMax int
	active     int
}

func NewActiveBuckets(numberOfVertices, maxHeight int) *ActiveBuckets {
	return &ActiveBuckets{
		lists:      NewHeightLists(numberOfVertices, maxHeight),
		currentMax: -1,
	}
}

func (ab *ActiveBuckets) Insert(h int, u Index) {
	ab.lists.PushBack(h, u)
	ab.active++
	if h > ab.currentMax {
		ab.currentMax = h
	}
}

func (ab *ActiveBuckets) Contains(u Index) bool {
	return ab.lists.Contains(u)
}

// Remove drops u from its bucket; currentMax is left as an upper bound.
func (ab *ActiveBuckets) Remove(u Index) {
	if !ab.lists.Contains(u) {
		return
	}
	ab.lists.Remove(u)
	ab.active--
}

// PopHighest takes the oldest node of the highest occupied bucket, walking
// currentMax down across empty buckets.
func (ab *ActiveBuckets) PopHighest() (Index, int, bool) {
	for ab.currentMax >= 0 {
		if u, ok := ab.lists.PopFront(ab.currentMax); ok {
			ab.active--
			return u, ab.currentMax, true
		}
		ab.currentMax--
	}
	return 0, -1, false
}

// LowerMax walks currentMax down towards h, stopping early at an occupied bucket.
func (ab *ActiveBuckets) LowerMax(h int) {
	for ab.currentMax > h && ab.lists.Empty(ab.currentMax) {
		ab.currentMax--
	}
}

func (ab *ActiveBuckets) CurrentMax() int {
	return ab.currentMax
}

func (ab *ActiveBuckets) Len() int {
	return ab.active
}

func (ab *ActiveBuckets) BucketLen(h int) int {
	return ab.lists.Len(h)
}

func (ab *ActiveBuckets) Clear() {
	ab.lists.Clear()
	ab.currentMax = -1
	ab.active = 0
}
