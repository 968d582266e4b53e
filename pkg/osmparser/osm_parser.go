package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type node struct {
	id    osm.NodeID
	copy  bool // barrier copy, gets its own vertex
	coord datastructure.Coordinate
}

type roadWay struct {
	id    osm.WayID
	nodes []osm.NodeID
	tags  osm.Tags
}

type direction struct {
	oneWay  bool
	forward bool
}

type OsmParser struct {
	wayNodeMap      map[osm.NodeID]NodeType
	acceptedNodeMap map[osm.NodeID]datastructure.Coordinate
	barrierNodes    map[osm.NodeID]bool
	nodeIDMap       map[osm.NodeID]datastructure.Index
	ways            []roadWay
	network         *Network
	logger          *zap.Logger
}

func NewOSMParser(logger *zap.Logger) *OsmParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OsmParser{
		wayNodeMap:      make(map[osm.NodeID]NodeType),
		acceptedNodeMap: make(map[osm.NodeID]datastructure.Coordinate),
		barrierNodes:    make(map[osm.NodeID]bool),
		nodeIDMap:       make(map[osm.NodeID]datastructure.Index),
		network:         &Network{},
		logger:          logger,
	}
}

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":         {},
		"motorway_link":    {},
		"trunk":            {},
		"trunk_link":       {},
		"primary":          {},
		"primary_link":     {},
		"secondary":        {},
		"secondary_link":   {},
		"residential":      {},
		"residential_link": {},
		"service":          {},
		"tertiary":         {},
		"tertiary_link":    {},
		"road":             {},
		"track":            {},
		"unclassified":     {},
		"undefined":        {},
		"unknown":          {},
		"living_street":    {},
		"private":          {},
		"motorroad":        {},
	}

	//https://wiki.openstreetmap.org/wiki/Key:barrier
	// a barrier node with access=no splits the road into two disconnected arcs
	acceptedBarrierType = map[string]struct{}{
		"bollard":        {},
		"swing_gate":     {},
		"jersey_barrier": {},
		"lift_gate":      {},
		"block":          {},
		"gate":           {},
	}
)

// Parse reads a .osm.pbf file in two passes, ways first and then the nodes they use.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*Network, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, 0)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		p.scanWay(scanner.Object())
	}
	err = scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, fmt.Errorf("scanning ways of %s: %w", mapFile, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = osmpbf.New(ctx, f, 0)
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		p.scanNode(scanner.Object())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning nodes of %s: %w", mapFile, err)
	}

	return p.build()
}

// ParseObjects builds a network from decoded objects.
func (p *OsmParser) ParseObjects(objects osm.Objects) (*Network, error) {
	for _, o := range objects {
		p.scanWay(o)
	}
	for _, o := range objects {
		p.scanNode(o)
	}
	return p.build()
}

func (p *OsmParser) scanWay(o osm.Object) {
	way, ok := o.(*osm.Way)
	if !ok || len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return
	}
	if (len(p.ways)+1)%50000 == 0 {
		p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", len(p.ways)+1)
	}

	for i, wayNode := range way.Nodes {
		if _, ok := p.wayNodeMap[wayNode.ID]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[wayNode.ID] = END_NODE
			} else {
				p.wayNodeMap[wayNode.ID] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[wayNode.ID] = JUNCTION_NODE
		}
	}
	// way ends are vertices too
	if p.wayNodeMap[way.Nodes[0].ID] == END_NODE {
		p.wayNodeMap[way.Nodes[0].ID] = JUNCTION_NODE
	}
	last := way.Nodes[len(way.Nodes)-1].ID
	if p.wayNodeMap[last] == END_NODE {
		p.wayNodeMap[last] = JUNCTION_NODE
	}

	p.ways = append(p.ways, roadWay{id: way.ID, nodes: way.Nodes.NodeIDs(), tags: way.Tags})
}

func (p *OsmParser) scanNode(o osm.Object) {
	n, ok := o.(*osm.Node)
	if !ok {
		return
	}
	if _, ok := p.wayNodeMap[n.ID]; !ok {
		return
	}
	p.acceptedNodeMap[n.ID] = datastructure.NewCoordinate(n.Lat, n.Lon)

	barrierType := n.Tags.Find("barrier")
	if _, ok := acceptedBarrierType[barrierType]; ok && n.Tags.Find("access") == "no" {
		p.barrierNodes[n.ID] = true
	}
}

func (p *OsmParser) build() (*Network, error) {
	for i, way := range p.ways {
		if (i+1)%50000 == 0 {
			p.logger.Sugar().Infof("processing openstreetmap ways: %d...", i+1)
		}
		p.processWay(way)
	}
	if p.network.NumberOfVertices() < 2 {
		return nil, fmt.Errorf("%w: road network has %d junctions", datastructure.ErrInvalidArgument, p.network.NumberOfVertices())
	}
	p.logger.Sugar().Infof("road network: %d junctions, %d arcs", p.network.NumberOfVertices(), len(p.network.Arcs))
	return p.network, nil
}

func (p *OsmParser) processWay(way roadWay) {
	dir := wayDirection(way.tags)
	roadType := way.tags.Find("highway")
	forwardLanes, backwardLanes := wayLanes(way.tags, roadType, dir.oneWay)
	laneCapacity := roadClassLaneCapacity(roadType)
	name := way.tags.Find("name")

	addSegment := func(segment []node) {
		from, to := segment[0], segment[len(segment)-1]
		if from.id == to.id && !from.copy && !to.copy {
			return
		}
		u, v := p.vertexOf(from), p.vertexOf(to)
		geometry := make([]datastructure.Coordinate, len(segment))
		for i, n := range segment {
			geometry[i] = n.coord
		}
		if !dir.oneWay || dir.forward {
			p.network.Arcs = append(p.network.Arcs, RoadArc{
				From: u, To: v, Lanes: forwardLanes, Capacity: int64(forwardLanes) * laneCapacity,
				WayID: way.id, Name: name, Geometry: geometry,
			})
		}
		if !dir.oneWay || !dir.forward {
			p.network.Arcs = append(p.network.Arcs, RoadArc{
				From: v, To: u, Lanes: backwardLanes, Capacity: int64(backwardLanes) * laneCapacity,
				WayID: way.id, Name: name, Geometry: reversed(geometry),
			})
		}
	}

	// closed ways without a junction are split in the middle
	processSegment := func(segment []node) {
		if len(segment) < 2 {
			return
		}
		first, last := segment[0], segment[len(segment)-1]
		if len(segment) > 2 && first.id == last.id && !first.copy && !last.copy {
			mid := len(segment) / 2
			addSegment(segment[:mid+1])
			addSegment(segment[mid:])
			return
		}
		addSegment(segment)
	}

	segment := []node{}
	for _, id := range way.nodes {
		coord, ok := p.acceptedNodeMap[id]
		if !ok {
			// outside the extract
			processSegment(segment)
			segment = []node{}
			continue
		}
		n := node{id: id, coord: coord}

		if p.barrierNodes[id] {
			if len(segment) > 0 {
				processSegment(append(segment, n))
			}
			segment = []node{{id: id, copy: true, coord: coord}}
			continue
		}

		segment = append(segment, n)
		if p.wayNodeMap[id] == JUNCTION_NODE && len(segment) > 1 {
			processSegment(segment)
			segment = []node{n}
		}
	}
	processSegment(segment)
}

// vertexOf returns the graph vertex of a segment end. Barrier copies always get a new
// vertex so the road does not connect through the barrier.
func (p *OsmParser) vertexOf(n node) datastructure.Index {
	if !n.copy {
		if v, ok := p.nodeIDMap[n.id]; ok {
			return v
		}
	}
	v := datastructure.Index(len(p.network.Coordinates))
	p.network.Coordinates = append(p.network.Coordinates, n.coord)
	p.network.OsmNodeIDs = append(p.network.OsmNodeIDs, n.id)
	if !n.copy {
		p.nodeIDMap[n.id] = v
	}
	return v
}

func reversed(path []datastructure.Coordinate) []datastructure.Coordinate {
	r := make([]datastructure.Coordinate, len(path))
	for i, c := range path {
		r[len(path)-1-i] = c
	}
	return r
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

func wayDirection(tags osm.Tags) direction {
	forwardRestricted := isRestricted(tags.Find("vehicle:forward")) || isRestricted(tags.Find("motor_vehicle:forward"))
	backwardRestricted := isRestricted(tags.Find("vehicle:backward")) || isRestricted(tags.Find("motor_vehicle:backward"))
	oneWay := tags.Find("oneway")

	dir := direction{forward: true}
	if oneWay == "yes" || oneWay == "-1" || forwardRestricted || backwardRestricted ||
		tags.Find("junction") == "roundabout" {
		dir.oneWay = true
	}
	if oneWay == "-1" || forwardRestricted {
		dir.forward = false
	}
	return dir
}

// wayLanes splits the lanes of a way into forward and backward lanes.
func wayLanes(tags osm.Tags, roadType string, oneWay bool) (int, int) {
	lanes := parseLanes(tags.Find("lanes"))
	if lanes == 0 {
		lanes = roadClassLanes(roadType, oneWay)
	}
	if oneWay {
		return lanes, lanes
	}

	forward := parseLanes(tags.Find("lanes:forward"))
	if forward == 0 {
		forward = max(1, lanes/2)
	}
	backward := parseLanes(tags.Find("lanes:backward"))
	if backward == 0 {
		backward = max(1, lanes-forward)
	}
	return forward, backward
}

func parseLanes(value string) int {
	lanes, err := strconv.Atoi(value)
	if err != nil || lanes < 0 {
		return 0
	}
	return lanes
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := acceptedHighway[highway]; ok {
			return true
		}
	} else if junction != "" {
		return true
	}
	return false
}
