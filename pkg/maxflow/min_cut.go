package maxflow

import (
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
)

type MinCut struct {
	flags                []bool // true if the vertex is on the source side of the cut
	numNodesInSourceSide int
	cutArcs              []datastructure.ArcID // forward arcs leaving the source side
	capacity             int64
}

func NewMinCut(numberOfVertices int) *MinCut {
	return &MinCut{
		flags: make([]bool, numberOfVertices),
	}
}

func (mc *MinCut) SetFlag(u datastructure.Index, flag bool) {
	if mc.flags[u] == flag {
		return
	}
	mc.flags[u] = flag
	if flag {
		mc.numNodesInSourceSide++
	} else {
		mc.numNodesInSourceSide--
	}
}

func (mc *MinCut) GetFlag(u datastructure.Index) bool {
	return mc.flags[u]
}

func (mc *MinCut) GetNumNodesInSourceSide() int {
	return mc.numNodesInSourceSide
}

func (mc *MinCut) GetNumNodesInSinkSide() int {
	return len(mc.flags) - mc.numNodesInSourceSide
}

func (mc *MinCut) GetCutArcs() []datastructure.ArcID {
	return mc.cutArcs
}

func (mc *MinCut) GetCapacity() int64 {
	return mc.capacity
}

// SourceSide lists the source-side vertices in increasing order.
func (mc *MinCut) SourceSide() []datastructure.Index {
	side := make([]datastructure.Index, 0, mc.numNodesInSourceSide)
	for u, flag := range mc.flags {
		if flag {
			side = append(side, datastructure.Index(u))
		}
	}
	return side
}

// collectCutArcs fills the crossing arcs and their total original capacity once the
// flags are set.
func (mc *MinCut) collectCutArcs(g *datastructure.ResidualGraph) error {
	mc.cutArcs = mc.cutArcs[:0]
	mc.capacity = 0
	var err error
	g.ForEachForwardArc(func(id datastructure.ArcID, a *datastructure.Arc) {
		if err != nil || !mc.flags[a.GetFrom()] || mc.flags[a.GetTo()] {
			return
		}
		mc.cutArcs = append(mc.cutArcs, id)
		capacity, ok := datastructure.CheckedAdd(mc.capacity, a.GetCapacity())
		if !ok {
			err = fmt.Errorf("%w: cut capacity", datastructure.ErrOverflow)
			return
		}
		mc.capacity = capacity
	})
	return err
}

// reachableMinCut puts every vertex reachable from source in the residual graph on
// the source side.
func reachableMinCut(g *datastructure.ResidualGraph, source datastructure.Index) (*MinCut, error) {
	minCut := NewMinCut(g.NumberOfVertices())
	queue := make([]datastructure.Index, 0, g.NumberOfVertices())
	queue = append(queue, source)
	minCut.SetFlag(source, true)
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		g.ForEachVertexArcs(u, func(_ datastructure.ArcID, a *datastructure.Arc) {
			v := a.GetTo()
			if a.GetResidualCapacity() > 0 && !minCut.GetFlag(v) {
				minCut.SetFlag(v, true)
				queue = append(queue, v)
			}
		})
	}
	if err := minCut.collectCutArcs(g); err != nil {
		return nil, err
	}
	return minCut, nil
}
