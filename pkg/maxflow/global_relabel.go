package maxflow

import "github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"

const unlabeled = -1

// globalRelabel sets every height to the exact residual distance to the sink. Nodes the
// sink cannot be reached from get n plus their residual distance back to the source,
// so their excess drains to the source; nodes that reach neither get 2n-1 and are not
// activated. The histogram, the layers and the buckets are rebuilt from the new labels.
func (e *Engine) globalRelabel() {
	e.stats.GlobalRelabels++
	e.relabelsSinceGlobal = 0

	for v := range e.height {
		e.height[v] = unlabeled
		e.current[v] = 0
	}
	e.height[e.sink] = 0
	e.height[e.source] = e.n
	e.reverseBFS(e.sink)
	e.reverseBFS(e.source)

	e.histogram.Reset()
	e.layers.Clear()
	e.buckets.Clear()
	e.maxLayer = 0
	for v := 0; v < e.n; v++ {
		u := datastructure.Index(v)
		reached := e.height[v] != unlabeled
		if !reached {
			e.height[v] = e.maxHeight - 1
		}
		e.histogram.Increment(e.height[v])
		if e.isTerminal(u) {
			continue
		}
		e.layers.PushBack(e.height[v], u)
		if e.height[v] < e.n && e.height[v] > e.maxLayer {
			e.maxLayer = e.height[v]
		}
		if reached && e.excess[v] > 0 {
			e.buckets.Insert(e.height[v], u)
		}
	}
	e.logger.Debugf("global relabel %d: %d active nodes, highest active height %d",
		e.stats.GlobalRelabels, e.buckets.Len(), e.buckets.CurrentMax())
}

// reverseBFS labels unlabeled nodes with the height of root plus their residual
// distance to root, following arcs (v -> u) whose residual capacity is positive.
func (e *Engine) reverseBFS(root datastructure.Index) {
	queue := append(e.queue[:0], root)
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		e.graph.ForEachVertexArcs(u, func(id datastructure.ArcID, a *datastructure.Arc) {
			v := a.GetTo()
			if e.height[v] != unlabeled || e.graph.GetReversedArc(id).GetResidualCapacity() == 0 {
				return
			}
			e.height[v] = e.height[u] + 1
			queue = append(queue, v)
		})
	}
	e.queue = queue
}
