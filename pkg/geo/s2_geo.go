package geo

import (
	"errors"
	"math"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
)

var ErrNoVertices = errors.New("no vertices to search")

func toLatLng(c datastructure.Coordinate) s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat(), c.Lon())
}

// NearestVertex returns the index of the coordinate closest to query and its distance
// in meters.
func NearestVertex(coords []datastructure.Coordinate, query datastructure.Coordinate) (datastructure.Index, float64, error) {
	if len(coords) == 0 {
		return 0, 0, ErrNoVertices
	}
	q := toLatLng(query)
	best := 0
	bestAngle := math.Inf(1)
	for i, c := range coords {
		angle := q.Distance(toLatLng(c)).Radians()
		if angle < bestAngle {
			bestAngle = angle
			best = i
		}
	}
	return datastructure.Index(best), bestAngle * earthRadiusKM * 1000, nil
}

func ProjectPointToLineCoord(nearestStPoint datastructure.Coordinate, secondNearestStPoint datastructure.Coordinate,
	snap datastructure.Coordinate) datastructure.Coordinate {
	nearestStS2 := s2.PointFromLatLng(toLatLng(nearestStPoint))
	secondNearestStS2 := s2.PointFromLatLng(toLatLng(secondNearestStPoint))
	snapS2 := s2.PointFromLatLng(toLatLng(snap))
	projection := s2.Project(snapS2, nearestStS2, secondNearestStS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// return in meter
func PointLinePerpendicularDistance(nearestStPoint datastructure.Coordinate, secondNearestStPoint datastructure.Coordinate,
	snap datastructure.Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(nearestStPoint, secondNearestStPoint, snap)

	dist := CalculateHaversineDistance(snap.Lat(), snap.Lon(), projectionPoint.Lat(), projectionPoint.Lon())

	return dist * 1000
}

// PathLength sums the haversine lengths of consecutive points, in meters.
func PathLength(path []datastructure.Coordinate) float64 {
	length := 0.0
	for i := 1; i < len(path); i++ {
		length += CalculateHaversineDistance(path[i-1].Lat(), path[i-1].Lon(), path[i].Lat(), path[i].Lon())
	}
	return length * 1000
}
