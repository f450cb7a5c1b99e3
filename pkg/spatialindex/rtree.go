package spatialindex

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

var ErrNoNearbyNode = errors.New("no graph node near the query point")

// Rtree snaps coordinates to the nearest graph vertex. Every vertex is a point entry keyed by {lat, lon}.
type Rtree[K constraints.Ordered] struct {
	tr *rtree.RTreeG[NodePoint[K]]
}

type NodePoint[K constraints.Ordered] struct {
	ID    K
	Coord geo.Coordinate
}

func NewRtree[K constraints.Ordered]() *Rtree[K] {
	var tr rtree.RTreeG[NodePoint[K]]
	return &Rtree[K]{
		tr: &tr,
	}
}

func (rt *Rtree[K]) Insert(id K, coord geo.Coordinate) {
	p := [2]float64{coord.Lat, coord.Lon}
	rt.tr.Insert(p, p, NodePoint[K]{ID: id, Coord: coord})
}

// Build indexes every coordinate of coords.
func (rt *Rtree[K]) Build(coords map[K]geo.Coordinate, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("numNodes", len(coords)))
	for id, c := range coords {
		rt.Insert(id, c)
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree[K]) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius returns all nodes inside the bounding box of the circle of radius km around q.
func (rt *Rtree[K]) SearchWithinRadius(q geo.Coordinate, radius float64) []NodePoint[K] {
	bb := geo.BoundingBoxAround(q, radius)

	results := make([]NodePoint[K], 0, 10)
	rt.tr.Search(bb.GetMin(), bb.GetMax(),
		func(min, max [2]float64, data NodePoint[K]) bool {
			results = append(results, data)
			return true
		})
	return results
}

// Snap returns the node closest to q within radius km. Equal distances resolve to the smaller id.
func (rt *Rtree[K]) Snap(q geo.Coordinate, radius float64) (NodePoint[K], float64, error) {
	var (
		best     NodePoint[K]
		bestDist = math.Inf(1)
		found    bool
	)
	for _, cand := range rt.SearchWithinRadius(q, radius) {
		dist := geo.HaversineKm(q, cand.Coord)
		if dist > radius {
			continue
		}
		if dist < bestDist || (dist == bestDist && cand.ID < best.ID) {
			best, bestDist, found = cand, dist, true
		}
	}
	if !found {
		return NodePoint[K]{}, 0, fmt.Errorf("%w: (%v, %v) within %v km", ErrNoNearbyNode, q.Lat, q.Lon, radius)
	}
	return best, bestDist, nil
}
