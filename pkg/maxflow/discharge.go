package maxflow

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
)

// discharge pushes excess out of u along admissible arcs starting at its current arc.
// When the arc list runs out u is relabeled and, if it still has excess, goes back to
// the bucket of its new height.
func (e *Engine) discharge(u datastructure.Index) error {
	size := e.graph.GetVertexArcsSize(u)
	for e.current[u] < size {
		id := e.graph.GetArcIDOfVertex(u, e.current[u])
		arc := e.graph.GetArc(id)
		if arc.GetResidualCapacity() > 0 && e.height[u] == e.height[arc.GetTo()]+1 {
			if err := e.push(u, id, arc); err != nil {
				return err
			}
			if e.excess[u] == 0 {
				// the arc may still have residual capacity, keep it current
				return nil
			}
		}
		e.current[u]++
	}

	e.relabel(u)
	if e.excess[u] > 0 && e.height[u] < e.maxHeight {
		e.buckets.Insert(e.height[u], u)
	}
	return nil
}

func (e *Engine) push(u datastructure.Index, id datastructure.ArcID, arc *datastructure.Arc) error {
	v := arc.GetTo()
	delta := min(e.excess[u], arc.GetResidualCapacity())
	targetExcess, ok := datastructure.CheckedAdd(e.excess[v], delta)
	if !ok {
		return fmt.Errorf("%w: excess of node %d", datastructure.ErrOverflow, v)
	}
	e.graph.Push(id, delta)
	e.excess[u] -= delta
	e.excess[v] = targetExcess
	e.stats.Pushes++

	if !e.isTerminal(v) && !e.buckets.Contains(v) {
		e.buckets.Insert(e.height[v], v)
	}
	return nil
}

// relabel lifts u to one above its lowest residual neighbour. A node without residual
// arcs goes to maxHeight and keeps its excess; it is never activated again.
func (e *Engine) relabel(u datastructure.Index) {
	minHeight := math.MaxInt
	e.graph.ForEachVertexArcs(u, func(_ datastructure.ArcID, a *datastructure.Arc) {
		if a.GetResidualCapacity() > 0 && e.height[a.GetTo()] < minHeight {
			minHeight = e.height[a.GetTo()]
		}
	})

	newHeight := e.maxHeight
	if minHeight != math.MaxInt {
		newHeight = min(minHeight+1, e.maxHeight)
	} else {
		e.logger.Debugf("node %d has no residual arc left, keeping excess %d", u, e.excess[u])
	}

	e.stats.Relabels++
	e.relabelsSinceGlobal++
	e.current[u] = 0

	oldHeight := e.height[u]
	if left := e.setHeight(u, newHeight); left == 0 && oldHeight < e.n {
		e.gap(oldHeight)
	}
}

// setHeight moves u to height h in the histogram and the layers and returns how many
// nodes are left at u's old height.
func (e *Engine) setHeight(u datastructure.Index, h int) int {
	old := e.height[u]
	e.height[u] = h
	left := e.histogram.Move(old, h)
	e.layers.Move(h, u)
	if h < e.n && h > e.maxLayer {
		e.maxLayer = h
	}
	return left
}
