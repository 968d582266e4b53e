package maxflow

import "github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"

// gap handles an empty height h < n. Nothing above h can reach the sink anymore, so
// every node with a height in (h, n) is promoted straight to n.
func (e *Engine) gap(h int) {
	e.stats.Gaps++
	promoted := 0
	top := min(e.maxLayer, e.n-1)
	for k := h + 1; k <= top; k++ {
		e.layers.ForEach(k, func(v datastructure.Index) {
			e.height[v] = e.n
			e.histogram.Move(k, e.n)
			e.layers.Move(e.n, v)
			e.current[v] = 0
			if e.buckets.Contains(v) {
				e.buckets.Remove(v)
				e.buckets.Insert(e.n, v)
			}
			promoted++
		})
	}
	e.maxLayer = h - 1
	// stops at bucket n while promoted nodes there are still active
	e.buckets.LowerMax(h - 1)
	e.stats.GapNodes += promoted
	e.logger.Debugf("gap at height %d: %d nodes promoted to %d, %d active nodes at %d",
		h, promoted, e.n, e.buckets.BucketLen(e.n), e.n)
}
