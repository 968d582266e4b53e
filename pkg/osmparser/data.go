package osmparser

import (
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"github.com/paulmach/osm"
)

// RoadArc is one direction of a road segment between two junctions.
type RoadArc struct {
	From     datastructure.Index
	To       datastructure.Index
	Capacity int64 // vehicles per hour
	Lanes    int
	WayID    osm.WayID
	Name     string
	Geometry []datastructure.Coordinate
}

// Network is a road graph whose arcs carry traffic capacities.
type Network struct {
	Coordinates []datastructure.Coordinate
	Arcs        []RoadArc
	OsmNodeIDs  []osm.NodeID
}

func (n *Network) NumberOfVertices() int {
	return len(n.Coordinates)
}

// Graph builds a fresh residual graph. Forward arc ids are 2*i for Arcs[i].
func (n *Network) Graph() (*datastructure.ResidualGraph, error) {
	g, err := datastructure.NewResidualGraph(n.NumberOfVertices())
	if err != nil {
		return nil, err
	}
	for i, a := range n.Arcs {
		if _, err := g.AddArc(a.From, a.To, a.Capacity); err != nil {
			return nil, fmt.Errorf("way %d: %w", n.Arcs[i].WayID, err)
		}
	}
	return g, nil
}

// RoadArcOf maps a forward arc id of a graph built by Graph back to its road arc.
func (n *Network) RoadArcOf(id datastructure.ArcID) *RoadArc {
	return &n.Arcs[id/2]
}
