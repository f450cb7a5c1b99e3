package routing

import (
	"fmt"
	"math"

	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"golang.org/x/exp/constraints"
)

// minHeuristic is the estimate towards the closest of several destinations.
// the minimum of consistent heuristics is consistent, so one shared pass stays optimal for all of them.
type minHeuristic[K constraints.Ordered] struct {
	graph   *da.Graph[K]
	h       Heuristic[K]
	targets []da.Index
}

func (m *minHeuristic[K]) estimate(v da.Index) (float64, error) {
	from := m.graph.ID(v)
	best := math.Inf(1)
	for _, t := range m.targets {
		to := m.graph.ID(t)
		est, err := m.h.Estimate(from, to)
		if err != nil {
			return 0, fmt.Errorf("%w: estimate %v -> %v: %w", ErrProviderFailure, from, to, err)
		}
		if math.IsNaN(est) || est < 0 {
			return 0, fmt.Errorf("%w: estimate %v -> %v = %v", ErrInvalidHeuristic, from, to, est)
		}
		if est < best {
			best = est
		}
	}
	return best, nil
}
