package route

import (
	"context"
	"fmt"
	"sync"

	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"golang.org/x/exp/constraints"
)

type edge[K constraints.Ordered] struct {
	from, to K
}

// MemoryGeometry is a map backed GeometryProvider.
type MemoryGeometry[K constraints.Ordered] struct {
	mu    sync.RWMutex
	edges map[edge[K]]geo.LineGeometry
}

func NewMemoryGeometry[K constraints.Ordered]() *MemoryGeometry[K] {
	return &MemoryGeometry[K]{edges: make(map[edge[K]]geo.LineGeometry)}
}

// Put stores the shape of a->b, measuring its length from the points.
func (m *MemoryGeometry[K]) Put(a, b K, points []geo.Coordinate) {
	m.PutLine(a, b, geo.NewLineGeometry(points))
}

func (m *MemoryGeometry[K]) PutLine(a, b K, line geo.LineGeometry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[edge[K]{a, b}] = line
}

func (m *MemoryGeometry[K]) EdgeGeometry(_ context.Context, a, b K) (geo.LineGeometry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	line, ok := m.edges[edge[K]{a, b}]
	if !ok {
		return geo.LineGeometry{}, fmt.Errorf("%w: %v -> %v", ErrGeometryNotFound, a, b)
	}
	return line, nil
}

func (m *MemoryGeometry[K]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.edges)
}
