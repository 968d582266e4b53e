package maxflow

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type testArc struct {
	from, to datastructure.Index
	capacity int64
}

func buildGraph(t *testing.T, n int, arcs []testArc) *datastructure.ResidualGraph {
	t.Helper()
	g, err := datastructure.NewResidualGraph(n)
	require.NoError(t, err)
	for _, a := range arcs {
		_, err := g.AddArc(a.from, a.to, a.capacity)
		require.NoError(t, err)
	}
	return g
}

var engineOptionSets = map[string][]Option{
	"default": nil,
	"no global relabel": {
		WithGlobalRelabelFrequency(0),
		WithInitialGlobalRelabel(false),
	},
	"frequent global relabel": {
		WithGlobalRelabelFrequency(0.1),
	},
	"only initial global relabel": {
		WithGlobalRelabelFrequency(0),
		WithInitialGlobalRelabel(true),
	},
}

var scenarios = []struct {
	name         string
	n            int
	arcs         []testArc
	source, sink datastructure.Index
	expected     int64
}{
	{
		name: "diamond",
		n:    4,
		arcs: []testArc{
			{0, 1, 3}, {0, 2, 2}, {1, 3, 2}, {2, 3, 3},
		},
		source: 0, sink: 3,
		expected: 4,
	},
	{
		name: "no path",
		n:    4,
		arcs: []testArc{
			{0, 1, 3}, {2, 3, 3}, {3, 0, 7},
		},
		source: 0, sink: 3,
		expected: 0,
	},
	{
		name:   "single direct arc",
		n:      2,
		arcs:   []testArc{{0, 1, 5}},
		source: 0, sink: 1,
		expected: 5,
	},
	{
		name: "parallel arcs",
		n:    4,
		arcs: []testArc{
			{0, 1, 100}, {1, 2, 2}, {1, 2, 3}, {2, 3, 100},
		},
		source: 0, sink: 3,
		expected: 5,
	},
	{
		name: "clrs figure 26.6",
		n:    6,
		arcs: []testArc{
			{0, 1, 16}, {0, 2, 13}, {2, 1, 4}, {1, 3, 12}, {3, 2, 9},
			{2, 4, 14}, {4, 3, 7}, {3, 5, 20}, {4, 5, 4},
		},
		source: 0, sink: 5,
		expected: 23,
	},
	{
		name: "zero capacity arcs",
		n:    3,
		arcs: []testArc{
			{0, 1, 0}, {1, 2, 9}, {0, 2, 0},
		},
		source: 0, sink: 2,
		expected: 0,
	},
	{
		name: "source and sink not at the ends",
		n:    5,
		arcs: []testArc{
			{0, 3, 4}, {3, 1, 2}, {3, 4, 3}, {4, 1, 1}, {1, 2, 10},
		},
		source: 3, sink: 1,
		expected: 3,
	},
	{
		name: "flow back into the source",
		n:    4,
		arcs: []testArc{
			{0, 1, 10}, {1, 0, 4}, {1, 2, 3}, {2, 3, 2}, {1, 3, 1},
		},
		source: 0, sink: 3,
		expected: 3,
	},
}

func TestEngineComputeMaxFlow(t *testing.T) {
	for optName, opts := range engineOptionSets {
		for _, tc := range scenarios {
			t.Run(optName+"/"+tc.name, func(t *testing.T) {
				g := buildGraph(t, tc.n, tc.arcs)
				engine := NewEngine(g, opts...)

				flow, err := engine.ComputeMaxFlow(tc.source, tc.sink)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, flow)

				cut, err := engine.MinCut()
				require.NoError(t, err)
				assert.Equal(t, flow, cut.GetCapacity())
				assert.NoError(t, Validate(g, tc.source, tc.sink, flow, cut))
				assert.NoError(t, engine.CheckLabeling())

				for v := 0; v < tc.n; v++ {
					u := datastructure.Index(v)
					if u == tc.source || u == tc.sink {
						continue
					}
					assert.Zero(t, engine.Excess(u), "excess left at node %d", v)
				}
			})
		}
	}
}

func TestSolversAgree(t *testing.T) {
	for _, algorithm := range Algorithms {
		for _, tc := range scenarios {
			t.Run(algorithm+"/"+tc.name, func(t *testing.T) {
				g := buildGraph(t, tc.n, tc.arcs)
				solver, err := NewSolver(algorithm, g)
				require.NoError(t, err)

				flow, err := solver.ComputeMaxFlow(tc.source, tc.sink)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, flow)

				cut, err := solver.MinCut()
				require.NoError(t, err)
				assert.NoError(t, Validate(g, tc.source, tc.sink, flow, cut))
			})
		}
	}
}

func TestNewSolverRejectsUsedGraph(t *testing.T) {
	g := buildGraph(t, 4, scenarios[0].arcs)
	_, err := NewEngine(g).ComputeMaxFlow(0, 3)
	require.NoError(t, err)

	for _, algorithm := range Algorithms {
		_, err := NewSolver(algorithm, g)
		assert.ErrorIs(t, err, datastructure.ErrGraphFrozen, algorithm)
	}
}

func TestCapacityScalingLargeCapacities(t *testing.T) {
	// a wide path and a narrow detour; the early phases only see the wide path
	arcs := []testArc{{0, 2, 1 << 40}, {2, 1, 1 << 40}, {0, 3, 5}, {3, 1, 3}}
	g := buildGraph(t, 4, arcs)
	solver := NewCapacityScaling(g)

	flow, err := solver.ComputeMaxFlow(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40+3), flow)

	cut, err := solver.MinCut()
	require.NoError(t, err)
	assert.NoError(t, Validate(g, 0, 1, flow, cut))

	_, err = NewCapacityScaling(buildGraph(t, 2, nil)).MinCut()
	assert.ErrorIs(t, err, ErrNotComputed)
}

func TestNewSolverUnknownAlgorithm(t *testing.T) {
	g := buildGraph(t, 2, nil)
	_, err := NewSolver("ford-fulkerson", g)
	assert.ErrorIs(t, err, datastructure.ErrInvalidArgument)
}

func TestEngineIsSourceSide(t *testing.T) {
	g := buildGraph(t, 4, scenarios[0].arcs)
	engine := NewEngine(g)

	_, err := engine.IsSourceSide(0)
	assert.ErrorIs(t, err, ErrNotComputed)
	_, err = engine.MinCut()
	assert.ErrorIs(t, err, ErrNotComputed)

	_, err = engine.ComputeMaxFlow(0, 3)
	require.NoError(t, err)

	// 0->2 and 1->3 are saturated and form the only minimum cut
	expected := []bool{true, true, false, false}
	for v, want := range expected {
		got, err := engine.IsSourceSide(datastructure.Index(v))
		require.NoError(t, err)
		assert.Equal(t, want, got, "node %d", v)
	}

	cut, err := engine.MinCut()
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Index{0, 1}, cut.SourceSide())
	assert.Equal(t, 2, cut.GetNumNodesInSinkSide())
	assert.Len(t, cut.GetCutArcs(), 2)

	_, err = engine.IsSourceSide(4)
	assert.ErrorIs(t, err, datastructure.ErrInvalidArgument)
}

func TestEngineIdempotent(t *testing.T) {
	g := buildGraph(t, 6, scenarios[4].arcs)
	engine := NewEngine(g)

	flow, err := engine.ComputeMaxFlow(0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(23), flow)

	again, err := engine.ComputeMaxFlow(0, 5)
	require.NoError(t, err)
	assert.Zero(t, again)

	cut, err := engine.MinCut()
	require.NoError(t, err)
	assert.Equal(t, int64(23), cut.GetCapacity())
	assert.NoError(t, Validate(g, 0, 5, 23, cut))
}

func TestEngineInvalidArguments(t *testing.T) {
	cases := []struct {
		name         string
		source, sink datastructure.Index
	}{
		{"source equals sink", 1, 1},
		{"source out of range", 4, 1},
		{"sink out of range", 0, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := buildGraph(t, 4, scenarios[0].arcs)
			engine := NewEngine(g)
			flow, err := engine.ComputeMaxFlow(tc.source, tc.sink)
			assert.ErrorIs(t, err, datastructure.ErrInvalidArgument)
			assert.Zero(t, flow)
			assert.False(t, g.Frozen())

			// the engine is still usable
			flow, err = engine.ComputeMaxFlow(0, 3)
			require.NoError(t, err)
			assert.Equal(t, int64(4), flow)
		})
	}
}

func TestEngineRejectsDifferentTerminals(t *testing.T) {
	g := buildGraph(t, 4, scenarios[0].arcs)
	engine := NewEngine(g)
	_, err := engine.ComputeMaxFlow(0, 3)
	require.NoError(t, err)

	_, err = engine.ComputeMaxFlow(1, 3)
	assert.ErrorIs(t, err, datastructure.ErrInvalidArgument)

	_, err = g.AddArc(1, 2, 1)
	assert.ErrorIs(t, err, datastructure.ErrGraphFrozen)
}

func TestEngineGapHeuristic(t *testing.T) {
	// a and b can hold 10 units but only 1 reaches the sink. Once a is relabeled above b
	// height 1 empties and both are promoted to n.
	g := buildGraph(t, 4, []testArc{
		{0, 1, 10}, {1, 2, 10}, {2, 3, 1},
	})
	engine := NewEngine(g, WithGlobalRelabelFrequency(0), WithInitialGlobalRelabel(false))

	flow, err := engine.ComputeMaxFlow(0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flow)

	stats := engine.Stats()
	assert.Equal(t, 1, stats.Gaps)
	assert.Equal(t, 2, stats.GapNodes)
	assert.Zero(t, engine.Excess(1))
	assert.Zero(t, engine.Excess(2))

	cut, err := engine.MinCut()
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Index{0, 1, 2}, cut.SourceSide())
	assert.NoError(t, Validate(g, 0, 3, flow, cut))
}

func TestEngineCancelled(t *testing.T) {
	g := buildGraph(t, 4, scenarios[0].arcs)
	engine := NewEngine(g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.ComputeMaxFlowContext(ctx, 0, 3)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = engine.ComputeMaxFlow(0, 3)
	assert.ErrorIs(t, err, ErrEngineFailed)

	g.ForEachForwardArc(func(_ datastructure.ArcID, a *datastructure.Arc) {
		assert.GreaterOrEqual(t, a.GetFlow(), int64(0))
		assert.LessOrEqual(t, a.GetFlow(), a.GetCapacity())
	})
}

func TestEngineStepBudget(t *testing.T) {
	g := buildGraph(t, 4, scenarios[0].arcs)
	engine := NewEngine(g, WithMaxDischarges(1))

	_, err := engine.ComputeMaxFlow(0, 3)
	assert.True(t, errors.Is(err, ErrStepBudgetExceeded))
	assert.Equal(t, 1, engine.Stats().Discharges)

	_, err = engine.ComputeMaxFlow(0, 3)
	assert.ErrorIs(t, err, ErrEngineFailed)
}

func TestEngineDisconnectedSource(t *testing.T) {
	g := buildGraph(t, 3, []testArc{{1, 2, 4}, {2, 0, 4}})
	engine := NewEngine(g)

	flow, err := engine.ComputeMaxFlow(0, 2)
	require.NoError(t, err)
	assert.Zero(t, flow)

	sourceSide, err := engine.IsSourceSide(0)
	require.NoError(t, err)
	assert.True(t, sourceSide)
	sinkSide, err := engine.IsSourceSide(2)
	require.NoError(t, err)
	assert.False(t, sinkSide)
}

func randomArcs(rng *rand.Rand, n, m int, maxCapacity int64) []testArc {
	arcs := make([]testArc, 0, m)
	for len(arcs) < m {
		u := datastructure.Index(rng.Intn(n))
		v := datastructure.Index(rng.Intn(n))
		if u == v {
			continue
		}
		arcs = append(arcs, testArc{u, v, rng.Int63n(maxCapacity + 1)})
	}
	return arcs
}

func TestRandomGraphsMatchBaselines(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 60; i++ {
		n := 2 + rng.Intn(40)
		m := rng.Intn(6 * n)
		arcs := randomArcs(rng, n, m, 50)

		ek := NewEdmondsKarp(buildGraph(t, n, arcs))
		expected, err := ek.ComputeMaxFlow(0, 1)
		require.NoError(t, err)

		dinic := NewDinic(buildGraph(t, n, arcs))
		dinicFlow, err := dinic.ComputeMaxFlow(0, 1)
		require.NoError(t, err)
		require.Equal(t, expected, dinicFlow, "graph %d: dinic", i)

		scalingGraph := buildGraph(t, n, arcs)
		scaling := NewCapacityScaling(scalingGraph)
		scalingFlow, err := scaling.ComputeMaxFlow(0, 1)
		require.NoError(t, err)
		require.Equal(t, expected, scalingFlow, "graph %d: capacity scaling", i)
		scalingCut, err := scaling.MinCut()
		require.NoError(t, err)
		require.NoError(t, Validate(scalingGraph, 0, 1, scalingFlow, scalingCut), "graph %d: capacity scaling", i)

		for optName, opts := range engineOptionSets {
			g := buildGraph(t, n, arcs)
			engine := NewEngine(g, opts...)
			flow, err := engine.ComputeMaxFlow(0, 1)
			require.NoError(t, err)
			require.Equal(t, expected, flow, "graph %d (%s): push-relabel", i, optName)

			cut, err := engine.MinCut()
			require.NoError(t, err)
			require.NoError(t, Validate(g, 0, 1, flow, cut), "graph %d (%s)", i, optName)
			require.NoError(t, engine.CheckLabeling(), "graph %d (%s)", i, optName)
		}
	}
}

func TestSolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, algorithm := range []string{pkg.ALGORITHM_DINIC, pkg.ALGORITHM_EDMONDS_KARP, pkg.ALGORITHM_CAPACITY_SCALING} {
		g := buildGraph(t, 4, scenarios[0].arcs)
		solver, err := NewSolver(algorithm, g)
		require.NoError(t, err)
		_, err = solver.ComputeMaxFlowContext(ctx, 0, 3)
		assert.ErrorIs(t, err, context.Canceled, algorithm)
	}
}

// Stopping a run after k discharges leaves the engine between two discharges, where
// the labels come from pushes, relabels and gaps rather than the final global relabel.
func TestEngineLabelingValidBetweenDischarges(t *testing.T) {
	type instance struct {
		n    int
		arcs []testArc
	}
	instances := []instance{
		// the gap scenario with the sink renumbered to 1
		{4, []testArc{{0, 2, 10}, {2, 3, 10}, {3, 1, 1}}},
	}
	rng := rand.New(rand.NewSource(2024))
	for i := 0; i < 40; i++ {
		n := 2 + rng.Intn(30)
		instances = append(instances, instance{n, randomArcs(rng, n, rng.Intn(5*n), 30)})
	}

	optionSets := map[string][]Option{
		"gap only": {
			WithGlobalRelabelFrequency(0),
			WithInitialGlobalRelabel(false),
		},
		"gap and global relabel": {
			WithGlobalRelabelFrequency(0.2),
		},
		"default": nil,
	}

	gaps, globalRelabels := 0, 0
	for i, inst := range instances {
		for optName, opts := range optionSets {
			for budget := 1; ; budget++ {
				require.Less(t, budget, 100000, "instance %d (%s) does not terminate", i, optName)

				engine := NewEngine(buildGraph(t, inst.n, inst.arcs),
					append(append([]Option{}, opts...), WithMaxDischarges(budget))...)
				_, err := engine.ComputeMaxFlow(0, 1)
				if err == nil {
					break
				}
				require.ErrorIs(t, err, ErrStepBudgetExceeded, "instance %d (%s)", i, optName)
				require.NoError(t, engine.CheckLabeling(), "instance %d (%s) after %d discharges", i, optName, budget)

				stats := engine.Stats()
				gaps += stats.Gaps
				globalRelabels += stats.GlobalRelabels
			}
		}
	}
	assert.Positive(t, gaps)
	assert.Positive(t, globalRelabels)
}
