package datastructure

// HeightHistogram counts nodes per height value.
type HeightHistogram struct {
	count []int
}

func NewHeightHistogram(maxHeight int) *HeightHistogram {
	return &HeightHistogram{count: make([]int, maxHeight+1)}
}

func (hh *HeightHistogram) Count(h int) int {
	return hh.count[h]
}

func (hh *HeightHistogram) Increment(h int) {
	hh.count[h]++
}

// Decrement lowers the count at h and returns what is left.
func (hh *HeightHistogram) Decrement(h int) int {
	hh.count[h]--
	return hh.count[h]
}

// Move accounts for one node going from height from to height to and returns the
// count left at from.
func (hh *HeightHistogram) Move(from, to int) int {
	hh.count[to]++
	hh.count[from]--
	return hh.count[from]
}

func (hh *HeightHistogram) Reset() {
	for i := range hh.count {
		hh.count[i] = 0
	}
}

func (hh *HeightHistogram) MaxHeight() int {
	return len(hh.count) - 1
}
