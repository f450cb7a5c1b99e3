package routing

import (
	"context"

	"golang.org/x/exp/constraints"
)

// Heuristic estimates the remaining cost from a to b. It must never overestimate the true cost,
// and for label-setting search it must also be consistent: Estimate(u,t) <= w(u,v) + Estimate(v,t).
type Heuristic[K constraints.Ordered] interface {
	Estimate(a, b K) (float64, error)
}

// Preparer is implemented by heuristics that want to precompute per-destination data before a search.
type Preparer[K constraints.Ordered] interface {
	Prepare(ctx context.Context, destinations []K) error
}

type HeuristicFunc[K constraints.Ordered] func(a, b K) (float64, error)

func (f HeuristicFunc[K]) Estimate(a, b K) (float64, error) {
	return f(a, b)
}
