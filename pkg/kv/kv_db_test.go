package kv

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memDB(t *testing.T) *pebble.DB {
	t.Helper()
	db, err := Open("test", true)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGeometryStore(t *testing.T) {
	store := NewGeometryStore[int64](memDB(t))
	line := geo.NewLineGeometry([]geo.Coordinate{
		geo.NewCoordinate(-7.76, 110.37),
		geo.NewCoordinate(-7.761, 110.372),
	})
	require.NoError(t, store.Put(1, 2, line))

	got, err := store.EdgeGeometry(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, line.Length, got.Length)
	require.Len(t, got.Points, 2)
	assert.InDelta(t, -7.761, got.Points[1].Lat, 1e-5)
	assert.InDelta(t, 110.372, got.Points[1].Lon, 1e-5)

	_, err = store.EdgeGeometry(context.Background(), 2, 1)
	assert.ErrorIs(t, err, route.ErrGeometryNotFound)
}

func TestGeometryStoreBatchWithAssembler(t *testing.T) {
	store := NewGeometryStore[string](memDB(t))
	require.NoError(t, store.PutBatch([]EdgeLine[string]{
		{From: "A", To: "B", Line: geo.LineGeometry{Points: []geo.Coordinate{geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1)}, Length: 1}},
		{From: "C", To: "B", Line: geo.LineGeometry{Points: []geo.Coordinate{geo.NewCoordinate(0, 2), geo.NewCoordinate(0, 1)}, Length: 1}},
	}))

	rg, err := route.Assemble(context.Background(), []string{"A", "B", "C"}, store)
	require.NoError(t, err)
	assert.Equal(t, 2.0, rg.Length)
	assert.Len(t, rg.Points, 3)

	_, err = route.Assemble(context.Background(), []string{"A", "Q"}, store)
	assert.ErrorIs(t, err, route.ErrMissingGeometry)
}

func TestResultStore(t *testing.T) {
	store := NewResultStore(memDB(t))
	rec := route.RouteRecord{
		RunID:       "run-1",
		Source:      "A",
		Destination: "D",
		Path:        []string{"A", "B", "D"},
		Cost:        9,
		ElapsedTime: 3 * time.Millisecond,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Save(context.Background(), rec))

	got, err := store.Get("run-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.Error(t, store.Save(context.Background(), route.RouteRecord{}))
}

func TestCoordinateStore(t *testing.T) {
	db := memDB(t)
	store := NewCoordinateStore(db)
	coords := map[int64]geo.Coordinate{
		1:   geo.NewCoordinate(-7.76, 110.37),
		-42: geo.NewCoordinate(0.5, -0.25),
		900: geo.NewCoordinate(51.5, -0.12),
	}
	require.NoError(t, store.PutCoordinates(coords))
	// other prefixes in the same db are not picked up
	require.NoError(t, NewGeometryStore[int64](db).Put(1, 900, geo.LineGeometry{Length: 1}))

	got, err := store.LoadCoordinates()
	require.NoError(t, err)
	assert.Equal(t, coords, got)
}
