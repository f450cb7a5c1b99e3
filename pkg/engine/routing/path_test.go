package routing

import (
	"context"
	"testing"

	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructPath(t *testing.T) {
	inv := da.INVALID_INDEX

	testCases := []struct {
		name        string
		parent      []da.Index
		source      da.Index
		destination da.Index
		want        []da.Index
		wantErr     error
	}{
		{
			name:        "chain",
			parent:      []da.Index{0, 0, 1, 2},
			source:      0,
			destination: 3,
			want:        []da.Index{0, 1, 2, 3},
		},
		{
			name:        "source is destination",
			parent:      []da.Index{0, inv},
			source:      0,
			destination: 0,
			want:        []da.Index{0},
		},
		{
			name:        "no parent",
			parent:      []da.Index{0, inv, 1},
			source:      0,
			destination: 1,
			wantErr:     ErrUnreachable,
		},
		{
			name:        "cycle",
			parent:      []da.Index{0, 2, 3, 1},
			source:      0,
			destination: 3,
			wantErr:     ErrCycleDetected,
		},
		{
			name:        "self parent",
			parent:      []da.Index{0, 1},
			source:      0,
			destination: 1,
			wantErr:     ErrCycleDetected,
		},
		{
			name:        "parent out of range",
			parent:      []da.Index{0, 7},
			source:      0,
			destination: 1,
			wantErr:     ErrCycleDetected,
		},
		{
			name:        "broken chain",
			parent:      []da.Index{0, inv, 1},
			source:      0,
			destination: 2,
			wantErr:     ErrUnreachable,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReconstructPath(tt.parent, tt.source, tt.destination)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchSearch(t *testing.T) {
	engine := NewSearchEngine(fiveNodeGraph(t))

	queries := []Query[string]{
		NewQuery("A", "D"),
		NewQuery("Z", "D"),
		NewQuery("A", "E").WithAstar(zeroHeuristic[string]()),
		NewQuery("B", "E"),
	}

	got := BatchSearch(context.Background(), engine, queries, 3)
	require.Len(t, got, 4)

	assert.NoError(t, got[0].Err)
	assert.Equal(t, 9.0, got[0].Results["D"].Cost)
	assert.ErrorIs(t, got[1].Err, ErrNodeNotFound)
	assert.Equal(t, []string{"A", "C", "E"}, got[2].Results["E"].Path)
	assert.Equal(t, 4.0, got[3].Results["E"].Cost)
}
