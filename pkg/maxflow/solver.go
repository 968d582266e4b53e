package maxflow

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
)

// Solver is a maximum flow algorithm bound to one residual graph.
type Solver interface {
	ComputeMaxFlow(source, sink datastructure.Index) (int64, error)
	ComputeMaxFlowContext(ctx context.Context, source, sink datastructure.Index) (int64, error)
	MinCut() (*MinCut, error)
}

var (
	_ Solver = (*Engine)(nil)
	_ Solver = (*EdmondsKarp)(nil)
	_ Solver = (*Dinic)(nil)
	_ Solver = (*CapacityScaling)(nil)
)

var Algorithms = []string{
	pkg.ALGORITHM_PUSH_RELABEL,
	pkg.ALGORITHM_DINIC,
	pkg.ALGORITHM_EDMONDS_KARP,
	pkg.ALGORITHM_CAPACITY_SCALING,
}

// NewSolver builds the solver registered under algorithm. Options other than
// WithLogger only affect push-relabel. A solver needs a graph no other solver has run on.
func NewSolver(algorithm string, graph *datastructure.ResidualGraph, opts ...Option) (Solver, error) {
	if graph.Frozen() {
		return nil, fmt.Errorf("%w: the graph already belongs to a solver", datastructure.ErrGraphFrozen)
	}
	switch algorithm {
	case pkg.ALGORITHM_PUSH_RELABEL:
		return NewEngine(graph, opts...), nil
	case pkg.ALGORITHM_DINIC:
		return NewDinic(graph, opts...), nil
	case pkg.ALGORITHM_EDMONDS_KARP:
		return NewEdmondsKarp(graph, opts...), nil
	case pkg.ALGORITHM_CAPACITY_SCALING:
		return NewCapacityScaling(graph, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", datastructure.ErrInvalidArgument, algorithm)
	}
}

func checkTerminals(g *datastructure.ResidualGraph, source, sink datastructure.Index) error {
	if !g.ValidVertex(source) || !g.ValidVertex(sink) {
		return fmt.Errorf("%w: source %d or sink %d out of range [0, %d)",
			datastructure.ErrInvalidArgument, source, sink, g.NumberOfVertices())
	}
	if source == sink {
		return fmt.Errorf("%w: source and sink are both %d", datastructure.ErrInvalidArgument, source)
	}
	return nil
}
