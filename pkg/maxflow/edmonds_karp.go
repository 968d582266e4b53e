package maxflow

import (
	"container/list"
	"context"
	"fmt"
	"math"

	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"go.uber.org/zap"
)

// EdmondsKarp augments along shortest residual paths found by BFS.
type EdmondsKarp struct {
	graph  *datastructure.ResidualGraph
	prev   []datastructure.ArcID // arc used to reach each node in the last BFS
	minCut *MinCut
	logger *zap.SugaredLogger
}

func NewEdmondsKarp(graph *datastructure.ResidualGraph, opts ...Option) *EdmondsKarp {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &EdmondsKarp{
		graph:  graph,
		prev:   make([]datastructure.ArcID, graph.NumberOfVertices()),
		logger: o.logger.Sugar(),
	}
}

func (ek *EdmondsKarp) ComputeMaxFlow(source, sink datastructure.Index) (int64, error) {
	return ek.ComputeMaxFlowContext(context.Background(), source, sink)
}

func (ek *EdmondsKarp) ComputeMaxFlowContext(ctx context.Context, source, sink datastructure.Index) (int64, error) {
	if err := checkTerminals(ek.graph, source, sink); err != nil {
		return 0, err
	}
	ek.graph.Freeze()

	var (
		maxFlow int64
		paths   int
		ok      bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return maxFlow, fmt.Errorf("edmonds-karp interrupted after %d paths: %w", paths, err)
		}
		flow := ek.bfsAugmentingPath(source, sink, 1)
		if flow == 0 {
			break
		}
		paths++
		maxFlow, ok = datastructure.CheckedAdd(maxFlow, flow)
		if !ok {
			return maxFlow, fmt.Errorf("%w: flow value", datastructure.ErrOverflow)
		}
	}

	minCut, err := reachableMinCut(ek.graph, source)
	if err != nil {
		return maxFlow, err
	}
	ek.minCut = minCut
	ek.logger.Debugf("edmonds-karp done: flow %d, %d augmenting paths", maxFlow, paths)
	return maxFlow, nil
}

// bfsAugmentingPath pushes the bottleneck of one shortest path over arcs with residual
// capacity of at least threshold and returns it, or 0 if there is no such path.
func (ek *EdmondsKarp) bfsAugmentingPath(source, sink datastructure.Index, threshold int64) int64 {
	for i := range ek.prev {
		ek.prev[i] = pkg.NO_ARC
	}

	queue := list.New()
	queue.PushBack(source)
	visited := func(v datastructure.Index) bool {
		return v == source || ek.prev[v] != pkg.NO_ARC
	}

	for queue.Len() > 0 && !visited(sink) {
		u := queue.Remove(queue.Front()).(datastructure.Index)
		ek.graph.ForEachVertexArcs(u, func(id datastructure.ArcID, a *datastructure.Arc) {
			if !visited(a.GetTo()) && a.GetResidualCapacity() >= threshold {
				ek.prev[a.GetTo()] = id
				queue.PushBack(a.GetTo())
			}
		})
	}

	if !visited(sink) {
		return 0
	}

	bottleneck := int64(math.MaxInt64)
	for v := sink; v != source; {
		a := ek.graph.GetArc(ek.prev[v])
		bottleneck = min(bottleneck, a.GetResidualCapacity())
		v = a.GetFrom()
	}
	for v := sink; v != source; {
		id := ek.prev[v]
		ek.graph.Push(id, bottleneck)
		v = ek.graph.GetArc(id).GetFrom()
	}
	return bottleneck
}

func (ek *EdmondsKarp) MinCut() (*MinCut, error) {
	if ek.minCut == nil {
		return nil, ErrNotComputed
	}
	return ek.minCut, nil
}
