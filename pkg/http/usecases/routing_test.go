package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/roadsearch/pkg"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/engine"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/kv"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 1 -> 2 -> 3 along a street, 4 is isolated from 1 (only 4 -> 3)
func newTestService(t *testing.T) (*RoutingService, *kv.ResultStore) {
	t.Helper()
	coords := map[int64]geo.Coordinate{
		1: geo.NewCoordinate(-7.760, 110.370),
		2: geo.NewCoordinate(-7.760, 110.371),
		3: geo.NewCoordinate(-7.760, 110.372),
		4: geo.NewCoordinate(-7.770, 110.380),
	}
	geometry := route.NewMemoryGeometry[int64]()
	adj := map[int64]map[int64]float64{}
	for _, e := range [][2]int64{{1, 2}, {2, 3}, {4, 3}} {
		line := geo.NewLineGeometry([]geo.Coordinate{coords[e[0]], coords[e[1]]})
		geometry.PutLine(e[0], e[1], line)
		if adj[e[0]] == nil {
			adj[e[0]] = map[int64]float64{}
		}
		adj[e[0]][e[1]] = line.Length
	}
	g, err := da.NewGraphFromAdjacency(adj)
	require.NoError(t, err)

	db, err := kv.Open("test", true)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	results := kv.NewResultStore(db)

	e := engine.NewEngineFromGraph(engine.Config{CostPerMeter: 1}, g, coords, geometry, results)
	return NewRoutingService(zap.NewNop(), e, pkg.ASTAR, 0.5), results
}

func TestShortestPath(t *testing.T) {
	svc, store := newTestService(t)

	for _, mode := range []pkg.SearchMode{pkg.DIJKSTRA, pkg.ASTAR} {
		t.Run(mode.String(), func(t *testing.T) {
			res, err := svc.ShortestPath(context.Background(), 1, []int64{3, 4, 3}, mode, true)
			require.NoError(t, err)
			require.Len(t, res, 2, "duplicate destinations collapse")

			assert.True(t, res[0].Reached)
			assert.Equal(t, []int64{1, 2, 3}, res[0].Path)
			require.NotNil(t, res[0].Geometry)
			assert.InDelta(t, res[0].Cost, res[0].Geometry.Length, 1e-9)
			assert.Len(t, res[0].Geometry.Points, 3)

			assert.False(t, res[1].Reached)
			assert.Nil(t, res[1].Geometry)
			assert.NotEqual(t, res[0].RunID, res[1].RunID)

			rec, err := store.Get(res[0].RunID)
			require.NoError(t, err)
			assert.Equal(t, []string{"1", "2", "3"}, rec.Path)
			assert.Equal(t, geo.EncodePolyline(res[0].Geometry.Points), rec.Geometry)

			_, err = store.Get(res[1].RunID)
			assert.ErrorIs(t, err, kv.ErrRecordNotFound, "unreached destinations are not persisted")
		})
	}
}

func TestShortestPathMissingGeometry(t *testing.T) {
	coords := map[int64]geo.Coordinate{
		1: geo.NewCoordinate(-7.760, 110.370),
		2: geo.NewCoordinate(-7.760, 110.371),
		3: geo.NewCoordinate(-7.761, 110.370),
	}
	g, err := da.NewGraphFromAdjacency(map[int64]map[int64]float64{
		1: {2: 110, 3: 90},
	})
	require.NoError(t, err)
	// 1 -> 3 has no stored shape
	geometry := route.NewMemoryGeometry[int64]()
	geometry.Put(1, 2, []geo.Coordinate{coords[1], coords[2]})

	e := engine.NewEngineFromGraph(engine.Config{CostPerMeter: 1}, g, coords, geometry, nil)
	svc := NewRoutingService(zap.NewNop(), e, pkg.DIJKSTRA, 0.5)

	res, err := svc.ShortestPath(context.Background(), 1, []int64{2, 3}, pkg.DIJKSTRA, true)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.True(t, res[0].Reached)
	require.NotNil(t, res[0].Geometry)
	assert.NoError(t, res[0].GeometryErr)
	assert.True(t, res[0].Shortest)

	assert.True(t, res[1].Reached)
	assert.Equal(t, []int64{1, 3}, res[1].Path)
	assert.Nil(t, res[1].Geometry)
	assert.ErrorIs(t, res[1].GeometryErr, route.ErrMissingGeometry)
	assert.False(t, res[1].Shortest)

	t.Run("no candidate assembles", func(t *testing.T) {
		_, err := svc.ShortestPath(context.Background(), 1, []int64{3}, pkg.DIJKSTRA, true)
		assert.ErrorIs(t, err, route.ErrMissingGeometry)
		assertCode(t, err, util.ErrInternalServerError)
	})

	t.Run("without geometry", func(t *testing.T) {
		res, err := svc.ShortestPath(context.Background(), 1, []int64{3}, pkg.DIJKSTRA, false)
		require.NoError(t, err)
		assert.NoError(t, res[0].GeometryErr)
		assert.Equal(t, 90.0, res[0].Cost)
	})
}

func TestShortestPathErrors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ShortestPath(context.Background(), 1, []int64{4}, pkg.DIJKSTRA, false)
	assert.ErrorIs(t, err, routing.ErrUnreachable)
	assertCode(t, err, util.ErrNotFound)

	_, err = svc.ShortestPath(context.Background(), 1, []int64{99}, pkg.DIJKSTRA, false)
	assert.ErrorIs(t, err, routing.ErrNodeNotFound)
	assertCode(t, err, util.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.ShortestPath(ctx, 1, []int64{3}, pkg.DIJKSTRA, false)
	assert.ErrorIs(t, err, routing.ErrCancelled)
	assertCode(t, err, util.ErrServiceUnavailable)
}

func TestComputeRoute(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ComputeRoute(context.Background(), -7.7601, 110.3701, -7.7601, 110.3719, pkg.ASTAR)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Source)
	assert.Equal(t, int64(3), res.Destination)
	require.NotNil(t, res.Geometry)

	_, err = svc.ComputeRoute(context.Background(), -6.2, 106.8, -7.76, 110.372, pkg.ASTAR)
	assertCode(t, err, util.ErrNotFound)
}

func assertCode(t *testing.T, err error, code error) {
	t.Helper()
	var uerr *util.Error
	require.True(t, errors.As(err, &uerr), "%v", err)
	assert.ErrorIs(t, uerr.Code(), code)
}
