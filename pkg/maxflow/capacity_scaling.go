package maxflow

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
)

// CapacityScaling augments along shortest paths whose arcs all have residual capacity
// of at least delta. delta starts at the largest power of two not above the largest
// capacity and halves once no such path is left (Ahuja, Magnanti and Orlin, 7.3).
type CapacityScaling struct {
	ek *EdmondsKarp
}

func NewCapacityScaling(graph *datastructure.ResidualGraph, opts ...Option) *CapacityScaling {
	return &CapacityScaling{ek: NewEdmondsKarp(graph, opts...)}
}

func (cs *CapacityScaling) ComputeMaxFlow(source, sink datastructure.Index) (int64, error) {
	return cs.ComputeMaxFlowContext(context.Background(), source, sink)
}

func (cs *CapacityScaling) ComputeMaxFlowContext(ctx context.Context, source, sink datastructure.Index) (int64, error) {
	g := cs.ek.graph
	if err := checkTerminals(g, source, sink); err != nil {
		return 0, err
	}
	g.Freeze()

	var maxCapacity int64
	g.ForEachForwardArc(func(_ datastructure.ArcID, a *datastructure.Arc) {
		maxCapacity = max(maxCapacity, a.GetResidualCapacity())
	})
	delta := int64(0)
	if maxCapacity > 0 {
		delta = 1
		for delta <= maxCapacity/2 {
			delta *= 2
		}
	}

	var (
		maxFlow int64
		paths   int
		phases  int
		ok      bool
	)
	for ; delta >= 1; delta /= 2 {
		phases++
		for {
			if err := ctx.Err(); err != nil {
				return maxFlow, fmt.Errorf("capacity scaling interrupted after %d paths: %w", paths, err)
			}
			flow := cs.ek.bfsAugmentingPath(source, sink, delta)
			if flow == 0 {
				break
			}
			paths++
			maxFlow, ok = datastructure.CheckedAdd(maxFlow, flow)
			if !ok {
				return maxFlow, fmt.Errorf("%w: flow value", datastructure.ErrOverflow)
			}
		}
	}

	minCut, err := reachableMinCut(g, source)
	if err != nil {
		return maxFlow, err
	}
	cs.ek.minCut = minCut
	cs.ek.logger.Debugf("capacity scaling done: flow %d, %d augmenting paths in %d phases", maxFlow, paths, phases)
	return maxFlow, nil
}

func (cs *CapacityScaling) MinCut() (*MinCut, error) {
	return cs.ek.MinCut()
}
