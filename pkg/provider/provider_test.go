package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixture = map[string]map[string]float64{
	"A": {"C": 6, "B": 7},
	"B": {"D": 2, "E": 4},
	"C": {"D": 5, "E": 1},
	"D": {"E": 4},
}

func TestMemoryProvider(t *testing.T) {
	g, err := NewMemoryProvider(fixture).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, g.Nodes())
	assert.Equal(t, 7, g.NumberOfEdges())

	_, err = NewMemoryProvider(map[string]map[string]float64{"A": {"A": 1}}).Load(context.Background())
	assert.ErrorIs(t, err, da.ErrSelfLoop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewMemoryProvider(fixture).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileProvider(t *testing.T) {
	g, err := NewMemoryProvider(fixture).Load(context.Background())
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "graph.bz2")
	require.NoError(t, g.WriteGraph(filename, da.QuoteString))

	got, err := NewFileProvider(filename, da.UnquoteString, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), got.Nodes())
	w, ok := got.EdgeWeight("C", "E")
	require.True(t, ok)
	assert.Equal(t, 1.0, w)

	_, err = NewFileProvider(filepath.Join(t.TempDir(), "missing.bz2"), da.UnquoteString, zap.NewNop()).
		Load(context.Background())
	assert.Error(t, err)
}

func TestOSMProvider(t *testing.T) {
	extract := `<osm version="0.6">
  <node id="10" lat="-7.76" lon="110.37"/>
  <node id="11" lat="-7.76" lon="110.371"/>
  <node id="12" lat="-7.761" lon="110.371"/>
  <way id="1"><nd ref="10"/><nd ref="11"/><nd ref="12"/><tag k="highway" v="primary"/></way>
</osm>`
	filename := filepath.Join(t.TempDir(), "map.osm")
	require.NoError(t, os.WriteFile(filename, []byte(extract), 0o644))

	p := NewOSMProvider(filename, zap.NewNop(), false)
	_, err := p.Coordinates()
	assert.ErrorIs(t, err, ErrNotLoaded)

	g, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 12}, g.Nodes(), "the way has no junction so it is one edge per direction")
	assert.Equal(t, 2, g.NumberOfEdges())

	coords, err := p.Coordinates()
	require.NoError(t, err)
	assert.InDelta(t, -7.761, coords[12].Lat, 1e-9)

	network, err := p.Network()
	require.NoError(t, err)
	require.Len(t, network.Edges, 2)
	assert.Len(t, network.Edges[0].Line.Points, 3)
}
