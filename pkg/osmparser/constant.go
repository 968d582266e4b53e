package osmparser

import "github.com/lintang-b-s/hipr-maxflow/pkg"

type NodeType int

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

// roadClassLaneCapacity is the saturation flow of one lane in vehicles per hour.
func roadClassLaneCapacity(roadType string) int64 {
	switch roadType {
	case "motorway", "motorroad":
		return 2000
	case "trunk", "motorway_link":
		return 1800
	case "primary", "trunk_link":
		return 1500
	case "secondary", "primary_link":
		return 1200
	case "tertiary", "secondary_link":
		return 900
	case "unclassified", "residential", "tertiary_link", "road":
		return pkg.DEFAULT_LANE_CAPACITY
	case "service", "track", "residential_link":
		return 300
	case "living_street", "private":
		return 150
	default:
		return pkg.DEFAULT_LANE_CAPACITY
	}
}

// roadClassLanes is the total lane count assumed when a way has no lanes tag.
func roadClassLanes(roadType string, oneWay bool) int {
	switch roadType {
	case "motorway", "trunk", "motorroad":
		if oneWay {
			return 2
		}
		return 4
	case "primary", "secondary":
		if oneWay {
			return 1
		}
		return 2
	default:
		if oneWay {
			return pkg.DEFAULT_LANES
		}
		return 2 * pkg.DEFAULT_LANES
	}
}
