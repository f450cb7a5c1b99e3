package routing

import (
	"sync"

	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"golang.org/x/exp/constraints"
)

// SearchEngine runs label-setting searches over one immutable graph. It is safe for concurrent use;
// every search gets its own state from the pool.
type SearchEngine[K constraints.Ordered] struct {
	graph     *da.Graph[K]
	statePool sync.Pool
}

func NewSearchEngine[K constraints.Ordered](graph *da.Graph[K]) *SearchEngine[K] {
	e := &SearchEngine[K]{
		graph: graph,
	}
	n := graph.NumberOfVertices()
	e.statePool = sync.Pool{
		New: func() any {
			return newSearchState(n)
		},
	}
	return e
}

func (se *SearchEngine[K]) GetGraph() *da.Graph[K] {
	return se.graph
}

func (se *SearchEngine[K]) acquireState() *searchState {
	return se.statePool.Get().(*searchState)
}

func (se *SearchEngine[K]) releaseState(st *searchState) {
	st.reset()
	se.statePool.Put(st)
}
