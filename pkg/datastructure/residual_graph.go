package datastructure

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOverflow        = errors.New("capacity overflow")
	ErrGraphFrozen     = errors.New("graph is owned by a running solver")
)

type Index uint32

type ArcID int

// Arc is one half of an arc pair. The forward arc of a pair has an even id and its
// reverse sits at id ^ 1, so reverse lookups never need a stored back-pointer.
type Arc struct {
	from     Index
	to       Index
	capacity int64 // original capacity, zero for reverse arcs
	residual int64
}

func (a *Arc) GetFrom() Index {
	return a.from
}

func (a *Arc) GetTo() Index {
	return a.to
}

func (a *Arc) GetCapacity() int64 {
	return a.capacity
}

func (a *Arc) GetResidualCapacity() int64 {
	return a.residual
}

// GetFlow is negative on reverse arcs carrying flow back.
func (a *Arc) GetFlow() int64 {
	return a.capacity - a.residual
}

func ReverseArc(id ArcID) ArcID {
	return id ^ 1
}

func IsForwardArc(id ArcID) bool {
	return id&1 == 0
}

type ResidualGraph struct {
	arcs          []Arc
	adjacencyList [][]ArcID
	inCapacity    []int64
	outCapacity   []int64
	frozen        bool
}

// NewResidualGraph allocates a graph with numberOfVertices nodes and no arcs.
func NewResidualGraph(numberOfVertices int) (*ResidualGraph, error) {
	if numberOfVertices < pkg.MIN_NODES {
		return nil, fmt.Errorf("%w: a flow network needs at least %d nodes, got %d",
			ErrInvalidArgument, pkg.MIN_NODES, numberOfVertices)
	}
	if numberOfVertices > pkg.MAX_NODES {
		return nil, fmt.Errorf("%w: %d nodes exceed the limit of %d", ErrInvalidArgument, numberOfVertices, pkg.MAX_NODES)
	}
	adjacencyList := make([][]ArcID, numberOfVertices)
	for i := range adjacencyList {
		adjacencyList[i] = make([]ArcID, 0)
	}
	return &ResidualGraph{
		arcs:          make([]Arc, 0),
		adjacencyList: adjacencyList,
		inCapacity:    make([]int64, numberOfVertices),
		outCapacity:   make([]int64, numberOfVertices),
	}, nil
}

func (g *ResidualGraph) NumberOfVertices() int {
	return len(g.adjacencyList)
}

// NumberOfArcs counts both halves of every pair.
func (g *ResidualGraph) NumberOfArcs() int {
	return len(g.arcs)
}

func (g *ResidualGraph) ValidVertex(u Index) bool {
	return int(u) < len(g.adjacencyList)
}

// AddArc appends the forward arc (u -> v, capacity) and its zero-capacity reverse
// (v -> u, 0). Parallel arcs are kept distinct. The returned id is the forward arc.
func (g *ResidualGraph) AddArc(u, v Index, capacity int64) (ArcID, error) {
	if g.frozen {
		return pkg.NO_ARC, ErrGraphFrozen
	}
	if !g.ValidVertex(u) {
		return pkg.NO_ARC, fmt.Errorf("%w: no node with index %d", ErrInvalidArgument, u)
	}
	if !g.ValidVertex(v) {
		return pkg.NO_ARC, fmt.Errorf("%w: no node with index %d", ErrInvalidArgument, v)
	}
	if u == v {
		return pkg.NO_ARC, fmt.Errorf("%w: self-loop on node %d", ErrInvalidArgument, u)
	}
	if capacity < 0 {
		return pkg.NO_ARC, fmt.Errorf("%w: negative capacity %d on arc %d -> %d", ErrInvalidArgument, capacity, u, v)
	}

	// every excess is bounded by the inflow capacity of its node, so bounding these
	// sums keeps all later arithmetic inside int64.
	out, ok := CheckedAdd(g.outCapacity[u], capacity)
	if !ok {
		return pkg.NO_ARC, fmt.Errorf("%w: outgoing capacity of node %d exceeds int64", ErrOverflow, u)
	}
	in, ok := CheckedAdd(g.inCapacity[v], capacity)
	if !ok {
		return pkg.NO_ARC, fmt.Errorf("%w: incoming capacity of node %d exceeds int64", ErrOverflow, v)
	}
	g.outCapacity[u] = out
	g.inCapacity[v] = in

	id := ArcID(len(g.arcs))
	g.arcs = append(g.arcs, Arc{from: u, to: v, capacity: capacity, residual: capacity})
	g.adjacencyList[u] = append(g.adjacencyList[u], id)

	g.arcs = append(g.arcs, Arc{from: v, to: u, capacity: 0, residual: 0})
	g.adjacencyList[v] = append(g.adjacencyList[v], id+1)
	return id, nil
}

func (g *ResidualGraph) GetArc(id ArcID) *Arc {
	return &g.arcs[id]
}

func (g *ResidualGraph) GetReversedArc(id ArcID) *Arc {
	return &g.arcs[ReverseArc(id)]
}

func (g *ResidualGraph) GetVertexArcsSize(u Index) int {
	return len(g.adjacencyList[u])
}

func (g *ResidualGraph) GetArcIDOfVertex(u Index, idx int) ArcID {
	return g.adjacencyList[u][idx]
}

func (g *ResidualGraph) GetArcOfVertex(u Index, idx int) *Arc {
	return &g.arcs[g.adjacencyList[u][idx]]
}

func (g *ResidualGraph) ForEachVertexArcs(u Index, handle func(id ArcID, a *Arc)) {
	for _, id := range g.adjacencyList[u] {
		handle(id, &g.arcs[id])
	}
}

func (g *ResidualGraph) ForEachArc(handle func(id ArcID, a *Arc)) {
	for id := range g.arcs {
		handle(ArcID(id), &g.arcs[id])
	}
}

// ForEachForwardArc visits the arcs added through AddArc, in insertion order.
func (g *ResidualGraph) ForEachForwardArc(handle func(id ArcID, a *Arc)) {
	for id := 0; id < len(g.arcs); id += 2 {
		handle(ArcID(id), &g.arcs[id])
	}
}

// Push moves delta units along arc id: its residual shrinks and its reverse grows.
// The caller guarantees 0 <= delta <= residual.
func (g *ResidualGraph) Push(id ArcID, delta int64) {
	g.arcs[id].residual -= delta
	g.arcs[id^1].residual += delta
}

func (g *ResidualGraph) OutCapacity(u Index) int64 {
	return g.outCapacity[u]
}

func (g *ResidualGraph) InCapacity(u Index) int64 {
	return g.inCapacity[u]
}

// Freeze rejects further AddArc calls. Solvers freeze the graph they own.
func (g *ResidualGraph) Freeze() {
	g.frozen = true
}

func (g *ResidualGraph) Frozen() bool {
	return g.frozen
}

// Clone copies arcs with their current residuals. The clone is not frozen.
func (g *ResidualGraph) Clone() *ResidualGraph {
	ng := &ResidualGraph{
		arcs:          make([]Arc, len(g.arcs)),
		adjacencyList: make([][]ArcID, len(g.adjacencyList)),
		inCapacity:    make([]int64, len(g.inCapacity)),
		outCapacity:   make([]int64, len(g.outCapacity)),
	}
	copy(ng.arcs, g.arcs)
	copy(ng.inCapacity, g.inCapacity)
	copy(ng.outCapacity, g.outCapacity)
	for i, adj := range g.adjacencyList {
		newAdj := make([]ArcID, len(adj))
		copy(newAdj, adj)
		ng.adjacencyList[i] = newAdj
	}
	return ng
}

// CheckedAdd returns a+b and false when the sum leaves the int64 range.
func CheckedAdd(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}
