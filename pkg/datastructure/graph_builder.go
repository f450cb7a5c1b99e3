package datastructure

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

var (
	ErrSelfLoop       = errors.New("self-loop edge")
	ErrNegativeWeight = errors.New("negative edge weight")
	ErrInvalidWeight  = errors.New("edge weight is not a finite number")
)

type edgeKey[K constraints.Ordered] struct {
	from, to K
}

// GraphBuilder collects nodes and edges and produces an immutable Graph.
// Duplicate edges keep the minimum weight.
type GraphBuilder[K constraints.Ordered] struct {
	nodes map[K]struct{}
	edges map[edgeKey[K]]float64
}

func NewGraphBuilder[K constraints.Ordered]() *GraphBuilder[K] {
	return &GraphBuilder[K]{
		nodes: make(map[K]struct{}),
		edges: make(map[edgeKey[K]]float64),
	}
}

// AddNode registers a node that may have no edges.
func (b *GraphBuilder[K]) AddNode(id K) {
	b.nodes[id] = struct{}{}
}

func (b *GraphBuilder[K]) AddEdge(from, to K, weight float64) error {
	if from == to {
		return fmt.Errorf("%w: %v", ErrSelfLoop, from)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: %v -> %v: %v", ErrInvalidWeight, from, to, weight)
	}
	if weight < 0 {
		return fmt.Errorf("%w: %v -> %v: %v", ErrNegativeWeight, from, to, weight)
	}

	b.nodes[from] = struct{}{}
	b.nodes[to] = struct{}{}

	key := edgeKey[K]{from, to}
	if old, ok := b.edges[key]; ok && old <= weight {
		return nil
	}
	b.edges[key] = weight
	return nil
}

func (b *GraphBuilder[K]) NumberOfEdges() int {
	return len(b.edges)
}

func (b *GraphBuilder[K]) Build() *Graph[K] {
	ids := make([]K, 0, len(b.nodes))
	for id := range b.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	index := make(map[K]Index, len(ids))
	for i, id := range ids {
		index[id] = Index(i)
	}

	type edge struct {
		u, v Index
		w    float64
	}
	edges := make([]edge, 0, len(b.edges))
	for k, w := range b.edges {
		edges = append(edges, edge{index[k.from], index[k.to], w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].u != edges[j].u {
			return edges[i].u < edges[j].u
		}
		return edges[i].v < edges[j].v
	})

	firstOut := make([]Index, len(ids)+1)
	head := make([]Index, len(edges))
	weight := make([]float64, len(edges))
	for i, e := range edges {
		firstOut[e.u+1]++
		head[i] = e.v
		weight[i] = e.w
	}
	for i := 0; i < len(ids); i++ {
		firstOut[i+1] += firstOut[i]
	}

	return &Graph[K]{
		ids:      ids,
		index:    index,
		firstOut: firstOut,
		head:     head,
		weight:   weight,
	}
}

// NewGraphFromAdjacency builds a graph from a nested adjacency map.
func NewGraphFromAdjacency[K constraints.Ordered](adj map[K]map[K]float64) (*Graph[K], error) {
	b := NewGraphBuilder[K]()
	for from, outs := range adj {
		b.AddNode(from)
		for to, w := range outs {
			if err := b.AddEdge(from, to, w); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}
