package maxflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrEngineFailed       = errors.New("maxflow: engine is unusable after a failed run")
	ErrNotComputed        = errors.New("maxflow: no completed max flow computation")
	ErrStepBudgetExceeded = errors.New("maxflow: discharge budget exceeded")
)

// Stats counts the work done by an Engine over all its runs.
type Stats struct {
	Discharges     int
	Pushes         int
	Relabels       int
	GlobalRelabels int
	Gaps           int
	GapNodes       int
}

type engineState int

const (
	stateReady engineState = iota
	stateComputed
	stateFailed
)

// Engine computes a maximum flow with the highest-label push-relabel method. It owns
// its graph for as long as it lives; the graph is frozen on the first run.
type Engine struct {
	graph  *datastructure.ResidualGraph
	n      int
	source datastructure.Index
	sink   datastructure.Index
	bound  bool

	maxHeight int // 2n; heights live in [0, maxHeight]
	height    []int
	excess    []int64
	current   []int // current-arc position per node

	histogram *datastructure.HeightHistogram
	buckets   *datastructure.ActiveBuckets
	layers    *datastructure.HeightLists // every node except source and sink, by height
	maxLayer  int                        // upper bound on the highest occupied layer below n
	queue     []datastructure.Index

	relabelsSinceGlobal    int
	globalRelabelThreshold int

	opts   options
	stats  Stats
	state  engineState
	minCut *MinCut
	logger *zap.SugaredLogger
}

func NewEngine(graph *datastructure.ResidualGraph, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := graph.NumberOfVertices()
	maxHeight := 2 * n
	e := &Engine{
		graph:     graph,
		n:         n,
		maxHeight: maxHeight,
		height:    make([]int, n),
		excess:    make([]int64, n),
		current:   make([]int, n),
		histogram: datastructure.NewHeightHistogram(maxHeight),
		buckets:   datastructure.NewActiveBuckets(n, maxHeight),
		layers:    datastructure.NewHeightLists(n, maxHeight),
		queue:     make([]datastructure.Index, 0, n),
		opts:      o,
		logger:    o.logger.Sugar(),
	}
	if o.globalRelabelFrequency > 0 {
		e.globalRelabelThreshold = max(1, int(o.globalRelabelFrequency*float64(n)))
	}
	return e
}

func (e *Engine) Graph() *datastructure.ResidualGraph {
	return e.graph
}

// ComputeMaxFlow returns the flow added from source to sink by this call. A second call
// on a stabilized graph returns 0.
func (e *Engine) ComputeMaxFlow(source, sink datastructure.Index) (int64, error) {
	return e.ComputeMaxFlowContext(context.Background(), source, sink)
}

// ComputeMaxFlowContext is ComputeMaxFlow with cooperative cancellation. ctx is polled
// once per discharge. On cancellation or an exhausted discharge budget the flow pushed
// so far is returned with the error and the engine is no longer usable.
func (e *Engine) ComputeMaxFlowContext(ctx context.Context, source, sink datastructure.Index) (int64, error) {
	if e.state == stateFailed {
		return 0, ErrEngineFailed
	}
	if err := e.bind(source, sink); err != nil {
		return 0, err
	}
	e.graph.Freeze()

	sinkExcessBefore := e.excess[e.sink]
	if err := e.initialize(); err != nil {
		e.state = stateFailed
		return 0, fmt.Errorf("initialize: %w", err)
	}
	if e.opts.initialGlobalRelabel {
		e.globalRelabel()
	}

	if err := e.run(ctx); err != nil {
		e.state = stateFailed
		return e.excess[e.sink] - sinkExcessBefore, err
	}

	// exact labels for the cut
	e.globalRelabel()
	minCut := NewMinCut(e.n)
	for v := 0; v < e.n; v++ {
		minCut.SetFlag(datastructure.Index(v), e.height[v] >= e.n)
	}
	if err := minCut.collectCutArcs(e.graph); err != nil {
		e.state = stateFailed
		return e.excess[e.sink] - sinkExcessBefore, err
	}
	e.minCut = minCut
	e.state = stateComputed

	flow := e.excess[e.sink] - sinkExcessBefore
	e.logger.Debugf("push-relabel done: flow %d, %d discharges, %d pushes, %d relabels, %d global relabels, %d gaps",
		flow, e.stats.Discharges, e.stats.Pushes, e.stats.Relabels, e.stats.GlobalRelabels, e.stats.Gaps)
	return flow, nil
}

func (e *Engine) bind(source, sink datastructure.Index) error {
	if err := checkTerminals(e.graph, source, sink); err != nil {
		return err
	}
	if e.bound && (e.source != source || e.sink != sink) {
		return fmt.Errorf("%w: engine already ran with source %d and sink %d",
			datastructure.ErrInvalidArgument, e.source, e.sink)
	}
	e.source, e.sink, e.bound = source, sink, true
	return nil
}

// initialize saturates every residual arc out of the source and seeds the histogram,
// the height layers and the active buckets.
func (e *Engine) initialize() error {
	for v := range e.height {
		e.height[v] = 0
		e.current[v] = 0
	}
	e.height[e.source] = e.n
	e.relabelsSinceGlobal = 0

	size := e.graph.GetVertexArcsSize(e.source)
	for i := 0; i < size; i++ {
		id := e.graph.GetArcIDOfVertex(e.source, i)
		arc := e.graph.GetArc(id)
		delta := arc.GetResidualCapacity()
		if delta == 0 {
			continue
		}
		v := arc.GetTo()
		targetExcess, ok := datastructure.CheckedAdd(e.excess[v], delta)
		if !ok {
			return fmt.Errorf("%w: excess of node %d", datastructure.ErrOverflow, v)
		}
		sourceExcess, ok := datastructure.CheckedAdd(e.excess[e.source], -delta)
		if !ok {
			return fmt.Errorf("%w: excess of source %d", datastructure.ErrOverflow, e.source)
		}
		e.graph.Push(id, delta)
		e.excess[v] = targetExcess
		e.excess[e.source] = sourceExcess
		e.stats.Pushes++
		if v != e.sink {
			e.height[v] = 1
		}
	}

	e.histogram.Reset()
	e.layers.Clear()
	e.buckets.Clear()
	e.maxLayer = 1
	for v := 0; v < e.n; v++ {
		u := datastructure.Index(v)
		e.histogram.Increment(e.height[v])
		if e.isTerminal(u) {
			continue
		}
		e.layers.PushBack(e.height[v], u)
		if e.excess[v] > 0 {
			e.buckets.Insert(e.height[v], u)
		}
	}
	return nil
}

func (e *Engine) run(ctx context.Context) error {
	discharges := 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("push-relabel interrupted after %d discharges: %w", discharges, err)
		}
		if e.globalRelabelThreshold > 0 && e.relabelsSinceGlobal >= e.globalRelabelThreshold {
			e.globalRelabel()
		}
		u, _, ok := e.buckets.PopHighest()
		if !ok {
			return nil
		}
		if e.opts.maxDischarges > 0 && discharges >= e.opts.maxDischarges {
			e.buckets.Insert(e.height[u], u)
			return fmt.Errorf("%w: %d", ErrStepBudgetExceeded, e.opts.maxDischarges)
		}
		discharges++
		e.stats.Discharges++
		if err := e.discharge(u); err != nil {
			return err
		}
	}
}

func (e *Engine) isTerminal(u datastructure.Index) bool {
	return u == e.source || u == e.sink
}

// IsSourceSide reports whether v is on the source side of the minimum cut found by the
// last completed run.
func (e *Engine) IsSourceSide(v datastructure.Index) (bool, error) {
	if e.minCut == nil {
		return false, ErrNotComputed
	}
	if !e.graph.ValidVertex(v) {
		return false, fmt.Errorf("%w: node %d out of range [0, %d)", datastructure.ErrInvalidArgument, v, e.n)
	}
	return e.minCut.GetFlag(v), nil
}

func (e *Engine) MinCut() (*MinCut, error) {
	if e.minCut == nil {
		return nil, ErrNotComputed
	}
	return e.minCut, nil
}

func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) Height(v datastructure.Index) int {
	return e.height[v]
}

func (e *Engine) Excess(v datastructure.Index) int64 {
	return e.excess[v]
}

// CheckLabeling verifies that every height lies in [0, 2n] and that height[u] <=
// height[v]+1 on every arc with residual capacity.
func (e *Engine) CheckLabeling() error {
	var errs error
	for v, h := range e.height {
		if h < 0 || h > e.histogram.MaxHeight() {
			errs = multierr.Append(errs, fmt.Errorf("node %d: height %d outside [0, %d]", v, h, e.histogram.MaxHeight()))
		}
	}
	e.graph.ForEachArc(func(id datastructure.ArcID, a *datastructure.Arc) {
		if a.GetResidualCapacity() == 0 {
			return
		}
		u, v := a.GetFrom(), a.GetTo()
		if e.height[u] > e.height[v]+1 {
			errs = multierr.Append(errs, fmt.Errorf("arc %d (%d -> %d): height %d > %d + 1",
				id, u, v, e.height[u], e.height[v]))
		}
	})
	return errs
}
