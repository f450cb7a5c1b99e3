package heuristic

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"golang.org/x/exp/constraints"
)

var ErrMissingCoordinate = errors.New("node has no coordinate")

// GreatCircle estimates cost as the haversine distance times costPerMeter. It is consistent as long as
// every edge costs at least costPerMeter times the straight distance between its endpoints, which holds
// for edges weighted by their length in meters and costPerMeter = 1.
type GreatCircle[K constraints.Ordered] struct {
	coords       map[K]geo.Coordinate
	costPerMeter float64
}

func NewGreatCircle[K constraints.Ordered](coords map[K]geo.Coordinate, costPerMeter float64) *GreatCircle[K] {
	return &GreatCircle[K]{coords: coords, costPerMeter: costPerMeter}
}

func (gc *GreatCircle[K]) Estimate(a, b K) (float64, error) {
	ca, ok := gc.coords[a]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrMissingCoordinate, a)
	}
	cb, ok := gc.coords[b]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrMissingCoordinate, b)
	}
	return geo.HaversineMeters(ca, cb) * gc.costPerMeter, nil
}
