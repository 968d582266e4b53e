package maxflow

import (
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"go.uber.org/multierr"
)

// Validate checks a finished computation against the max-flow min-cut theorem (CLRS
// 26.1 and 26.2): the capacity constraint on every arc, conservation at every node other
// than source and sink, the total flow reaching the sink, the absence of an augmenting
// path and, if cut is not nil, that the cut separates source from sink and has capacity
// equal to flow. flow is the total value delivered to the sink over all runs. Every
// violation found is returned.
func Validate(g *datastructure.ResidualGraph, source, sink datastructure.Index, flow int64, cut *MinCut) error {
	if err := checkTerminals(g, source, sink); err != nil {
		return err
	}

	var errs error
	balance := make([]int64, g.NumberOfVertices())
	g.ForEachForwardArc(func(id datastructure.ArcID, a *datastructure.Arc) {
		f := a.GetFlow()
		if f < 0 || f > a.GetCapacity() {
			errs = multierr.Append(errs, fmt.Errorf("arc %d (%d -> %d): flow %d outside [0, %d]",
				id, a.GetFrom(), a.GetTo(), f, a.GetCapacity()))
		}
		balance[a.GetFrom()] -= f
		balance[a.GetTo()] += f
	})

	for v, b := range balance {
		u := datastructure.Index(v)
		if u != source && u != sink && b != 0 {
			errs = multierr.Append(errs, fmt.Errorf("node %d: inflow and outflow differ by %d", v, b))
		}
	}
	if balance[sink] > g.InCapacity(sink) {
		errs = multierr.Append(errs, fmt.Errorf("sink %d receives %d, more than its in-capacity %d",
			sink, balance[sink], g.InCapacity(sink)))
	}
	if -balance[source] > g.OutCapacity(source) {
		errs = multierr.Append(errs, fmt.Errorf("source %d sends %d, more than its out-capacity %d",
			source, -balance[source], g.OutCapacity(source)))
	}
	if balance[sink] != flow {
		errs = multierr.Append(errs, fmt.Errorf("sink %d receives %d, reported flow is %d", sink, balance[sink], flow))
	}
	if -balance[source] != flow {
		errs = multierr.Append(errs, fmt.Errorf("source %d sends %d, reported flow is %d", source, -balance[source], flow))
	}

	reachable, err := reachableMinCut(g, source)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else if reachable.GetFlag(sink) {
		errs = multierr.Append(errs, fmt.Errorf("an augmenting path from %d to %d is left", source, sink))
	}

	if cut != nil {
		if !cut.GetFlag(source) || cut.GetFlag(sink) {
			errs = multierr.Append(errs, fmt.Errorf("cut does not separate source %d from sink %d", source, sink))
		}
		if cut.GetCapacity() != flow {
			errs = multierr.Append(errs, fmt.Errorf("cut capacity %d differs from flow %d", cut.GetCapacity(), flow))
		}
	}
	return errs
}
