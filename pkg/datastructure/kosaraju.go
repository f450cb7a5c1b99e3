package datastructure

import "github.com/lintang-b-s/roadsearch/pkg/util"

// RunKosaraju runs kosaraju's algorithm and returns the strongly connected component of every vertex
// together with the number of components. Component ids follow the order they are discovered.
func (g *Graph[K]) RunKosaraju() ([]Index, int) {
	n := g.NumberOfVertices()

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := 0; v < n; v++ {
		if !visited[v] {
			g.dfs(Index(v), &order, visited)
		}
	}

	order = util.ReverseG[Index](order)

	rev := g.Reverse()
	visited = make([]bool, n)
	sccs := make([]Index, n)
	numComponents := 0

	for _, v := range order {
		if visited[v] {
			continue
		}
		component := make([]Index, 0, 10)
		rev.dfs(v, &component, visited)
		for _, node := range component {
			sccs[node] = Index(numComponents)
		}
		numComponents++
	}

	return sccs, numComponents
}

// dfs appends vertices reachable from v in post-order. iterative so long road chains don't blow the stack.
func (g *Graph[K]) dfs(v Index, output *[]Index, visited []bool) {
	type frame struct {
		v Index
		e Index
	}
	stack := []frame{{v, g.firstOut[v]}}
	visited[v] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.e < g.firstOut[top.v+1] {
			w := g.head[top.e]
			top.e++
			if !visited[w] {
				visited[w] = true
				stack = append(stack, frame{w, g.firstOut[w]})
			}
			continue
		}
		*output = append(*output, top.v)
		stack = stack[:len(stack)-1]
	}
}

// LargestSCC returns the subgraph induced by the largest strongly connected component.
// Ties go to the component holding the smallest id.
func (g *Graph[K]) LargestSCC() *Graph[K] {
	if g.NumberOfVertices() == 0 {
		return g
	}
	sccs, k := g.RunKosaraju()
	size := make([]int, k)
	for _, c := range sccs {
		size[c]++
	}
	best := sccs[0]
	for c := 0; c < k; c++ {
		if size[c] > size[best] {
			best = Index(c)
		}
	}

	keep := make([]bool, len(sccs))
	for v, c := range sccs {
		keep[v] = c == best
	}
	return g.Subgraph(keep)
}

// Subgraph returns the graph induced by the vertices with keep[v] set.
func (g *Graph[K]) Subgraph(keep []bool) *Graph[K] {
	newIndex := make([]Index, g.NumberOfVertices())
	ids := make([]K, 0)
	for v := range g.ids {
		if keep[v] {
			newIndex[v] = Index(len(ids))
			ids = append(ids, g.ids[v])
		} else {
			newIndex[v] = INVALID_INDEX
		}
	}

	firstOut := make([]Index, len(ids)+1)
	head := make([]Index, 0, len(g.head))
	weight := make([]float64, 0, len(g.weight))
	for u := range g.ids {
		if !keep[u] {
			continue
		}
		for e := g.firstOut[u]; e < g.firstOut[u+1]; e++ {
			v := g.head[e]
			if !keep[v] {
				continue
			}
			head = append(head, newIndex[v])
			weight = append(weight, g.weight[e])
		}
		firstOut[newIndex[u]+1] = Index(len(head))
	}

	return NewGraph(ids, firstOut, head, weight)
}
