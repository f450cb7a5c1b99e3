package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lintang-b-s/roadsearch/pkg"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/heuristic"
	"github.com/lintang-b-s/roadsearch/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(s string) (string, error) {
	return s, nil
}

func TestExampleQuery(t *testing.T) {
	g, err := provider.NewMemoryProvider(exampleGraph).Load(context.Background())
	require.NoError(t, err)

	res, err := routing.NewSearchEngine(g).Search(context.Background(), routing.NewQuery("A", "D"))
	require.NoError(t, err)
	assert.Equal(t, "A -> B -> D", FormatPath(res["D"].Path))
	assert.Equal(t, 9.0, res["D"].Cost)
}

func TestPrintResultsKeepsGoingPastUnreachable(t *testing.T) {
	// F only leads into the network, nothing reaches it
	adj := map[string]map[string]float64{"F": {"A": 1}}
	for k, v := range exampleGraph {
		adj[k] = v
	}
	g, err := da.NewGraphFromAdjacency(adj)
	require.NoError(t, err)

	dests := []string{"F", "D", "E"}
	res, err := routing.NewSearchEngine(g).Search(context.Background(), routing.NewQuery("A", dests...))
	require.NoError(t, err)

	var out bytes.Buffer
	misses := printResults(&out, "A", dests, res)
	assert.Equal(t, 1, misses)
	assert.Equal(t, strings.Join([]string{
		"A -> F: unreachable",
		"A -> B -> D",
		"cost: 9",
		"A -> C -> E",
		"cost: 7",
		"nearest: E",
		"",
	}, "\n"), out.String())
}

func TestReadQueries(t *testing.T) {
	in := "A D\n\n# comment\nB E,D\n"
	queries, err := readQueries(strings.NewReader(in), identity)
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, "A", queries[0].Source)
	assert.Equal(t, []string{"D"}, queries[0].Destinations)
	assert.Equal(t, []string{"E", "D"}, queries[1].Destinations)

	_, err = readQueries(strings.NewReader("A\n"), identity)
	assert.ErrorContains(t, err, "line 1")

	_, err = readQueries(strings.NewReader("1 x\n"), da.ParseInt64)
	assert.Error(t, err)
}

func TestRunBatchInInputOrder(t *testing.T) {
	g, err := provider.NewMemoryProvider(exampleGraph).Load(context.Background())
	require.NoError(t, err)
	engine := routing.NewSearchEngine(g)

	queries, err := readQueries(strings.NewReader("A D\nB E D\nE A\nZ A\n"), identity)
	require.NoError(t, err)

	for _, searchMode := range []pkg.SearchMode{pkg.DIJKSTRA, pkg.ASTAR} {
		t.Run(searchMode.String(), func(t *testing.T) {
			batch := append([]routing.Query[string](nil), queries...)
			var out bytes.Buffer
			misses := runBatch(context.Background(), &out, engine, batch, searchMode, heuristic.Zero[string]{}, 3)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.GreaterOrEqual(t, len(lines), 13)
			assert.Equal(t, []string{
				"# query 1: A",
				"A -> B -> D",
				"cost: 9",
				"# query 2: B",
				"B -> E",
				"cost: 4",
				"B -> D",
				"cost: 2",
				"nearest: D",
				"# query 3: E",
				"E -> A: unreachable",
				"# query 4: Z",
			}, lines[:12])
			assert.True(t, strings.HasPrefix(lines[12], "error: "))
			assert.Equal(t, 2, misses, "one unreachable destination and one failed query")
		})
	}
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "1 -> 2 -> 3", FormatPath([]int64{1, 2, 3}))
	assert.Equal(t, "A", FormatPath([]string{"A"}))
	assert.Equal(t, "", FormatPath([]string{}))
}
