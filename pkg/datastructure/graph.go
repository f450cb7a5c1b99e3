package datastructure

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

type Index uint32

const INVALID_INDEX Index = math.MaxUint32

// Graph is an immutable weighted directed graph in compressed sparse row form.
// Vertex ids are sorted, so Index order equals id order.
type Graph[K constraints.Ordered] struct {
	ids      []K
	index    map[K]Index
	firstOut []Index // len = n+1
	head     []Index
	weight   []float64
}

func NewGraph[K constraints.Ordered](ids []K, firstOut, head []Index, weight []float64) *Graph[K] {
	index := make(map[K]Index, len(ids))
	for i, id := range ids {
		index[id] = Index(i)
	}
	return &Graph[K]{
		ids:      ids,
		index:    index,
		firstOut: firstOut,
		head:     head,
		weight:   weight,
	}
}

func (g *Graph[K]) NumberOfVertices() int {
	return len(g.ids)
}

func (g *Graph[K]) NumberOfEdges() int {
	return len(g.head)
}

// IndexOf returns the dense index of id.
func (g *Graph[K]) IndexOf(id K) (Index, bool) {
	i, ok := g.index[id]
	return i, ok
}

func (g *Graph[K]) HasNode(id K) bool {
	_, ok := g.index[id]
	return ok
}

// ID returns the node id stored at index u.
func (g *Graph[K]) ID(u Index) K {
	return g.ids[u]
}

// Nodes returns the sorted node ids. The slice must not be modified.
func (g *Graph[K]) Nodes() []K {
	return g.ids
}

func (g *Graph[K]) GetOutDegree(u Index) int {
	return int(g.firstOut[u+1] - g.firstOut[u])
}

// ForOutEdges calls handle for every out edge of u, in head index order.
func (g *Graph[K]) ForOutEdges(u Index, handle func(head Index, weight float64)) {
	for e := g.firstOut[u]; e < g.firstOut[u+1]; e++ {
		handle(g.head[e], g.weight[e])
	}
}

// Weight returns the weight of edge (u,v).
func (g *Graph[K]) Weight(u, v Index) (float64, bool) {
	heads := g.head[g.firstOut[u]:g.firstOut[u+1]]
	i := sort.Search(len(heads), func(i int) bool { return heads[i] >= v })
	if i < len(heads) && heads[i] == v {
		return g.weight[int(g.firstOut[u])+i], true
	}
	return 0, false
}

// EdgeWeight is Weight addressed by node ids.
func (g *Graph[K]) EdgeWeight(from, to K) (float64, bool) {
	u, ok := g.index[from]
	if !ok {
		return 0, false
	}
	v, ok := g.index[to]
	if !ok {
		return 0, false
	}
	return g.Weight(u, v)
}

// Reverse returns the transposed graph over the same ids.
func (g *Graph[K]) Reverse() *Graph[K] {
	n := len(g.ids)
	firstOut := make([]Index, n+1)
	for _, v := range g.head {
		firstOut[v+1]++
	}
	for i := 0; i < n; i++ {
		firstOut[i+1] += firstOut[i]
	}

	head := make([]Index, len(g.head))
	weight := make([]float64, len(g.weight))
	next := make([]Index, n)
	copy(next, firstOut[:n])

	// tails are visited in increasing order so every reversed adjacency list stays sorted
	for u := 0; u < n; u++ {
		for e := g.firstOut[u]; e < g.firstOut[u+1]; e++ {
			v := g.head[e]
			head[next[v]] = Index(u)
			weight[next[v]] = g.weight[e]
			next[v]++
		}
	}

	return &Graph[K]{
		ids:      g.ids,
		index:    g.index,
		firstOut: firstOut,
		head:     head,
		weight:   weight,
	}
}
