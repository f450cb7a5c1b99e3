package heuristic

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"golang.org/x/exp/constraints"
)

type pairKey[K constraints.Ordered] struct {
	a, b K
}

// Cached keeps the most recent estimates of an expensive heuristic. Errors are not cached.
type Cached[K constraints.Ordered] struct {
	inner routing.Heuristic[K]
	cache *lru.Cache[pairKey[K], float64]
}

func NewCached[K constraints.Ordered](inner routing.Heuristic[K], size int) (*Cached[K], error) {
	cache, err := lru.New[pairKey[K], float64](size)
	if err != nil {
		return nil, err
	}
	return &Cached[K]{inner: inner, cache: cache}, nil
}

func (c *Cached[K]) Estimate(a, b K) (float64, error) {
	key := pairKey[K]{a, b}
	if est, ok := c.cache.Get(key); ok {
		return est, nil
	}
	est, err := c.inner.Estimate(a, b)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, est)
	return est, nil
}

func (c *Cached[K]) Len() int {
	return c.cache.Len()
}

// Prepare forwards to the wrapped heuristic when it wants per-search preparation.
func (c *Cached[K]) Prepare(ctx context.Context, destinations []K) error {
	if p, ok := c.inner.(routing.Preparer[K]); ok {
		return p.Prepare(ctx, destinations)
	}
	return nil
}
