package routing

import (
	"math"

	"github.com/lintang-b-s/roadsearch/pkg"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
)

// searchState holds the labels of one search. It is owned by a single Search call and
// returned to the engine pool afterwards; reset only clears the vertices that were touched.
type searchState struct {
	cost      []float64
	parent    []da.Index
	finalized []bool
	heapNode  []*da.PriorityQueueNode[da.Index]
	h         []float64 // NaN until evaluated
	isTarget  []bool

	touched []da.Index
	pq      *da.MinHeap[da.Index]
}

func newSearchState(n int) *searchState {
	st := &searchState{
		cost:      make([]float64, n),
		parent:    make([]da.Index, n),
		finalized: make([]bool, n),
		heapNode:  make([]*da.PriorityQueueNode[da.Index], n),
		h:         make([]float64, n),
		isTarget:  make([]bool, n),
		touched:   make([]da.Index, 0, 64),
		pq: da.NewFourAryHeap[da.Index]().WithTieBreak(func(a, b da.Index) bool {
			return a < b
		}),
	}
	st.pq.Preallocate(n)
	for i := 0; i < n; i++ {
		st.cost[i] = pkg.INF_WEIGHT
		st.parent[i] = da.INVALID_INDEX
		st.h[i] = math.NaN()
	}
	return st
}

func (st *searchState) touch(v da.Index) {
	if st.cost[v] == pkg.INF_WEIGHT && st.parent[v] == da.INVALID_INDEX && !st.isTarget[v] && math.IsNaN(st.h[v]) {
		st.touched = append(st.touched, v)
	}
}

func (st *searchState) markTarget(v da.Index) {
	st.touch(v)
	st.isTarget[v] = true
}

// label sets cost and parent of v.
func (st *searchState) label(v da.Index, cost float64, parent da.Index) {
	st.touch(v)
	st.cost[v] = cost
	st.parent[v] = parent
}

func (st *searchState) setHeuristic(v da.Index, h float64) {
	st.touch(v)
	st.h[v] = h
}

func (st *searchState) reset() {
	for _, v := range st.touched {
		st.cost[v] = pkg.INF_WEIGHT
		st.parent[v] = da.INVALID_INDEX
		st.finalized[v] = false
		st.heapNode[v] = nil
		st.h[v] = math.NaN()
		st.isTarget[v] = false
	}
	st.touched = st.touched[:0]
	st.pq.Clear()
}
