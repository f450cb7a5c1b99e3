package routing

import (
	"context"
	"fmt"
	"math"

	"github.com/lintang-b-s/roadsearch/pkg"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/util"
)

// Search finds least-cost paths from q.Source to every destination in one pass. Nodes are expanded in
// order of (cost, index) for DIJKSTRA, or (cost + h, index) for ASTAR where h is the minimum estimate
// over all destinations. The search stops once every destination is finalized or the frontier is empty.
func (se *SearchEngine[K]) Search(ctx context.Context, q Query[K]) (map[K]SearchResult[K], error) {
	source, targets, err := se.validate(q)
	if err != nil {
		return nil, err
	}

	var h *minHeuristic[K]
	if q.Mode == pkg.ASTAR {
		if p, ok := q.Heuristic.(Preparer[K]); ok {
			if err := p.Prepare(ctx, se.toIDs(targets)); err != nil {
				return nil, fmt.Errorf("%w: prepare heuristic: %w", ErrProviderFailure, err)
			}
		}
		h = &minHeuristic[K]{graph: se.graph, h: q.Heuristic, targets: targets}
	}

	st := se.acquireState()
	defer se.releaseState(st)

	var stats SearchStats
	err = se.run(ctx, st, source, targets, h, &stats)
	if q.Stats != nil {
		*q.Stats = stats
	}
	if err != nil {
		return nil, err
	}

	results := make(map[K]SearchResult[K], len(targets))
	for _, t := range targets {
		id := se.graph.ID(t)
		res := SearchResult[K]{Destination: id, Cost: pkg.INF_WEIGHT}
		if st.finalized[t] {
			path, err := ReconstructPath(st.parent, source, t)
			if err != nil {
				return nil, fmt.Errorf("destination %v: %w", id, err)
			}
			res.Reached = true
			res.Cost = st.cost[t]
			res.Path = se.toIDs(path)
		}
		results[id] = res
	}
	return results, nil
}

// Distances returns the least cost from source to every vertex, indexed by da.Index.
// Unreachable vertices are +Inf.
func (se *SearchEngine[K]) Distances(ctx context.Context, source K) ([]float64, error) {
	s, ok := se.graph.IndexOf(source)
	if !ok {
		return nil, fmt.Errorf("%w: source %v", ErrNodeNotFound, source)
	}

	st := se.acquireState()
	defer se.releaseState(st)

	if err := se.run(ctx, st, s, nil, nil, &SearchStats{}); err != nil {
		return nil, err
	}

	dist := make([]float64, se.graph.NumberOfVertices())
	copy(dist, st.cost)
	return dist, nil
}

func (se *SearchEngine[K]) validate(q Query[K]) (da.Index, []da.Index, error) {
	if len(q.Destinations) == 0 {
		return 0, nil, ErrNoDestination
	}
	switch q.Mode {
	case pkg.DIJKSTRA:
	case pkg.ASTAR:
		if q.Heuristic == nil {
			return 0, nil, ErrHeuristicRequired
		}
	default:
		return 0, nil, fmt.Errorf("%w: %v", ErrUnknownSearchMode, q.Mode)
	}

	source, ok := se.graph.IndexOf(q.Source)
	if !ok {
		return 0, nil, fmt.Errorf("%w: source %v", ErrNodeNotFound, q.Source)
	}

	seen := make(map[da.Index]struct{}, len(q.Destinations))
	targets := make([]da.Index, 0, len(q.Destinations))
	for _, d := range q.Destinations {
		t, ok := se.graph.IndexOf(d)
		if !ok {
			return 0, nil, fmt.Errorf("%w: destination %v", ErrNodeNotFound, d)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		targets = append(targets, t)
	}
	return source, targets, nil
}

// run is the label-setting loop. With no targets it settles every reachable vertex.
func (se *SearchEngine[K]) run(ctx context.Context, st *searchState, source da.Index, targets []da.Index,
	h *minHeuristic[K], stats *SearchStats) error {

	remaining := len(targets)
	for _, t := range targets {
		st.markTarget(t)
	}

	st.label(source, 0, source)
	sourceRank, err := se.rank(st, source, h, stats)
	if err != nil {
		return err
	}
	st.heapNode[source] = da.NewPriorityQueueNode(sourceRank, source)
	st.pq.Insert(st.heapNode[source])

	for !st.pq.IsEmpty() {
		if util.StopConcurrentOperation(ctx) {
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}

		node, err := st.pq.ExtractMin()
		if err != nil {
			return err
		}
		u := node.GetItem()
		st.finalized[u] = true
		stats.NumSettledNodes++

		if st.isTarget[u] {
			remaining--
			if remaining == 0 {
				return nil
			}
		}

		var relaxErr error
		se.graph.ForOutEdges(u, func(v da.Index, weight float64) {
			if relaxErr != nil {
				return
			}
			stats.NumRelaxations++

			candidate := st.cost[u] + weight
			if candidate >= st.cost[v] {
				return
			}
			if st.finalized[v] {
				// only reachable with an inconsistent heuristic. finalized labels are never reopened.
				stats.NumInconsistent++
				return
			}

			st.label(v, candidate, u)
			rank, err := se.rank(st, v, h, stats)
			if err != nil {
				relaxErr = err
				return
			}

			if st.heapNode[v] == nil {
				st.heapNode[v] = da.NewPriorityQueueNode(rank, v)
				st.pq.Insert(st.heapNode[v])
				return
			}
			if err := st.pq.DecreaseKey(st.heapNode[v], rank); err != nil {
				relaxErr = err
			}
		})
		if relaxErr != nil {
			return relaxErr
		}
	}
	return nil
}

// rank is the frontier key of v. the heuristic part is never stored in cost.
func (se *SearchEngine[K]) rank(st *searchState, v da.Index, h *minHeuristic[K], stats *SearchStats) (float64, error) {
	if h == nil {
		return st.cost[v], nil
	}
	if math.IsNaN(st.h[v]) {
		est, err := h.estimate(v)
		stats.NumHeuristicEvals++
		if err != nil {
			return 0, err
		}
		st.setHeuristic(v, est)
	}
	return st.cost[v] + st.h[v], nil
}

func (se *SearchEngine[K]) toIDs(path []da.Index) []K {
	ids := make([]K, len(path))
	for i, v := range path {
		ids[i] = se.graph.ID(v)
	}
	return ids
}
