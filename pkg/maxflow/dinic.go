package maxflow

import (
	"context"
	"fmt"
	"math"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"go.uber.org/zap"
)

const invalidLevel = -1

// Dinic computes blocking flows on BFS level graphs. The path search keeps an explicit
// stack of arcs instead of recursing.
type Dinic struct {
	graph  *datastructure.ResidualGraph
	level  []int
	last   []int // current-arc position per node within a phase
	path   []datastructure.ArcID
	queue  []datastructure.Index
	minCut *MinCut
	logger *zap.SugaredLogger
}

func NewDinic(graph *datastructure.ResidualGraph, opts ...Option) *Dinic {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	n := graph.NumberOfVertices()
	return &Dinic{
		graph:  graph,
		level:  make([]int, n),
		last:   make([]int, n),
		path:   make([]datastructure.ArcID, 0, n),
		queue:  make([]datastructure.Index, 0, n),
		logger: o.logger.Sugar(),
	}
}

func (d *Dinic) ComputeMaxFlow(source, sink datastructure.Index) (int64, error) {
	return d.ComputeMaxFlowContext(context.Background(), source, sink)
}

func (d *Dinic) ComputeMaxFlowContext(ctx context.Context, source, sink datastructure.Index) (int64, error) {
	if err := checkTerminals(d.graph, source, sink); err != nil {
		return 0, err
	}
	d.graph.Freeze()

	var (
		maxFlow int64
		phases  int
		ok      bool
	)
	for d.bfsComputeLevelGraph(source, sink) {
		if err := ctx.Err(); err != nil {
			return maxFlow, fmt.Errorf("dinic interrupted after %d phases: %w", phases, err)
		}
		phases++
		for i := range d.last {
			d.last[i] = 0
		}
		for {
			flow := d.augment(source, sink)
			if flow == 0 {
				break
			}
			maxFlow, ok = datastructure.CheckedAdd(maxFlow, flow)
			if !ok {
				return maxFlow, fmt.Errorf("%w: flow value", datastructure.ErrOverflow)
			}
		}
	}

	minCut, err := reachableMinCut(d.graph, source)
	if err != nil {
		return maxFlow, err
	}
	d.minCut = minCut
	d.logger.Debugf("dinic done: flow %d, %d phases", maxFlow, phases)
	return maxFlow, nil
}

// bfsComputeLevelGraph labels nodes with their residual distance from source and
// reports whether the sink got a level.
func (d *Dinic) bfsComputeLevelGraph(source, sink datastructure.Index) bool {
	for i := range d.level {
		d.level[i] = invalidLevel
	}
	d.level[source] = 0
	queue := append(d.queue[:0], source)
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		if u == sink {
			continue
		}
		d.graph.ForEachVertexArcs(u, func(_ datastructure.ArcID, a *datastructure.Arc) {
			v := a.GetTo()
			if a.GetResidualCapacity() > 0 && d.level[v] == invalidLevel {
				d.level[v] = d.level[u] + 1
				queue = append(queue, v)
			}
		})
	}
	d.queue = queue
	return d.level[sink] != invalidLevel
}

// augment walks the level graph from source with current-arc pointers until it reaches
// the sink, then pushes the path bottleneck. Dead ends lose their level so later walks
// skip them. It returns 0 once the phase is blocked.
func (d *Dinic) augment(source, sink datastructure.Index) int64 {
	path := d.path[:0]
	u := source
	for {
		if u == sink {
			bottleneck := int64(math.MaxInt64)
			for _, id := range path {
				bottleneck = min(bottleneck, d.graph.GetArc(id).GetResidualCapacity())
			}
			for _, id := range path {
				d.graph.Push(id, bottleneck)
			}
			d.path = path
			return bottleneck
		}

		advanced := false
		for size := d.graph.GetVertexArcsSize(u); d.last[u] < size; d.last[u]++ {
			id := d.graph.GetArcIDOfVertex(u, d.last[u])
			a := d.graph.GetArc(id)
			if a.GetResidualCapacity() > 0 && d.level[a.GetTo()] == d.level[u]+1 {
				path = append(path, id)
				u = a.GetTo()
				advanced = true
				break
			}
		}
		if advanced {
			continue
		}

		d.level[u] = invalidLevel
		if len(path) == 0 {
			d.path = path
			return 0
		}
		id := path[len(path)-1]
		path = path[:len(path)-1]
		u = d.graph.GetArc(id).GetFrom()
		d.last[u]++
	}
}

func (d *Dinic) MinCut() (*MinCut, error) {
	if d.minCut == nil {
		return nil, ErrNotComputed
	}
	return d.minCut, nil
}
