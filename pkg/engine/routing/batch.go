package routing

import (
	"context"

	"github.com/lintang-b-s/roadsearch/pkg/concurrent"
	"golang.org/x/exp/constraints"
)

type BatchResult[K constraints.Ordered] struct {
	Results map[K]SearchResult[K]
	Err     error
}

// BatchSearch runs independent queries on a worker pool. Results are in query order.
func BatchSearch[K constraints.Ordered](ctx context.Context, engine *SearchEngine[K], queries []Query[K],
	workers int) []BatchResult[K] {
	return concurrent.Map(ctx, workers, queries, func(ctx context.Context, q Query[K]) BatchResult[K] {
		res, err := engine.Search(ctx, q)
		return BatchResult[K]{Results: res, Err: err}
	})
}
