package routing

import (
	"github.com/lintang-b-s/roadsearch/pkg"
	"golang.org/x/exp/constraints"
)

type Query[K constraints.Ordered] struct {
	Source       K
	Destinations []K
	Mode         pkg.SearchMode

	// Heuristic is required for ASTAR and ignored for DIJKSTRA.
	Heuristic Heuristic[K]

	// Stats, when set, receives the counters of the search.
	Stats *SearchStats
}

func NewQuery[K constraints.Ordered](source K, destinations ...K) Query[K] {
	return Query[K]{Source: source, Destinations: destinations, Mode: pkg.DIJKSTRA}
}

func (q Query[K]) WithAstar(h Heuristic[K]) Query[K] {
	q.Mode = pkg.ASTAR
	q.Heuristic = h
	return q
}

type SearchResult[K constraints.Ordered] struct {
	Destination K       `json:"destination"`
	Reached     bool    `json:"reached"`
	Cost        float64 `json:"cost"`
	Path        []K     `json:"path"`
}

// SearchStats are the counters of one search. NumInconsistent counts relaxations that would have
// improved an already finalized node, which only an inconsistent heuristic can cause.
type SearchStats struct {
	NumSettledNodes   int `json:"num_settled_nodes"`
	NumRelaxations    int `json:"num_relaxations"`
	NumHeuristicEvals int `json:"num_heuristic_evals"`
	NumInconsistent   int `json:"num_inconsistent_relaxations"`
}
