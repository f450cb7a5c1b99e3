package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/lintang-b-s/roadsearch/pkg"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/heuristic"
	"github.com/lintang-b-s/roadsearch/pkg/logger"
	"github.com/lintang-b-s/roadsearch/pkg/provider"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

var (
	graphFile    = flag.String("graph", "", "graph file written by the preprocessor; the built-in 5 node example when empty")
	landmarkFile = flag.String("landmark", "", "landmark file for A*, zero heuristic when empty")
	source       = flag.String("source", "A", "source node id")
	destinations = flag.String("dest", "D", "comma separated destination node ids")
	mode         = flag.String("mode", "dijkstra", "dijkstra or astar")
	queriesFile  = flag.String("queries", "", "file with one query per line, '<source> <dest> [dest...]'; runs them in parallel")
	workers      = flag.Int("workers", runtime.NumCPU(), "parallel searches for -queries")
)

// the example road network used in the documentation
var exampleGraph = map[string]map[string]float64{
	"A": {"C": 6, "B": 7},
	"B": {"D": 2, "E": 4},
	"C": {"D": 5, "E": 1},
	"D": {"E": 4},
}

func main() {
	flag.Parse()
	logger, err := logger.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	searchMode, err := pkg.ParseSearchMode(*mode)
	if err != nil {
		logger.Fatal("invalid mode", zap.Error(err))
	}

	ctx := context.Background()
	var misses int
	if *graphFile == "" {
		g, err := provider.NewMemoryProvider(exampleGraph).Load(ctx)
		if err != nil {
			logger.Fatal("load example graph", zap.Error(err))
		}
		misses, err = run(ctx, os.Stdout, g, searchMode, func(s string) (string, error) { return s, nil })
		if err != nil {
			logger.Fatal("query failed", zap.Error(err))
		}
	} else {
		g, err := provider.NewFileProvider(*graphFile, da.ParseInt64, logger).Load(ctx)
		if err != nil {
			logger.Fatal("load graph", zap.Error(err))
		}
		misses, err = run(ctx, os.Stdout, g, searchMode, da.ParseInt64)
		if err != nil {
			logger.Fatal("query failed", zap.Error(err))
		}
	}
	if misses > 0 {
		os.Exit(2)
	}
}

// run executes the flag selected query, or every query of -queries, and returns the number of
// destinations that were not reached plus the number of queries that failed.
func run[K constraints.Ordered](ctx context.Context, w io.Writer, g *da.Graph[K], searchMode pkg.SearchMode,
	parse func(string) (K, error)) (int, error) {
	h, err := newHeuristic(g, searchMode, *landmarkFile)
	if err != nil {
		return 0, err
	}
	engine := routing.NewSearchEngine(g)

	if *queriesFile != "" {
		f, err := os.Open(*queriesFile)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		queries, err := readQueries(f, parse)
		if err != nil {
			return 0, err
		}
		return runBatch(ctx, w, engine, queries, searchMode, h, *workers), nil
	}

	src, err := parse(*source)
	if err != nil {
		return 0, fmt.Errorf("invalid source: %w", err)
	}
	dests := []K{}
	for _, d := range util.SplitTrim(*destinations, ",") {
		id, err := parse(d)
		if err != nil {
			return 0, fmt.Errorf("invalid destination: %w", err)
		}
		dests = append(dests, id)
	}

	q := withMode(routing.NewQuery(src, dests...), searchMode, h)
	var stats routing.SearchStats
	q.Stats = &stats
	results, err := engine.Search(ctx, q)
	if err != nil {
		return 0, err
	}
	misses := printResults(w, src, dests, results)
	fmt.Fprintf(w, "settled %d nodes, %d relaxations\n", stats.NumSettledNodes, stats.NumRelaxations)
	return misses, nil
}

func newHeuristic[K constraints.Ordered](g *da.Graph[K], searchMode pkg.SearchMode, landmarkFile string) (routing.Heuristic[K], error) {
	if searchMode != pkg.ASTAR {
		return nil, nil
	}
	if landmarkFile == "" {
		return heuristic.Zero[K]{}, nil
	}
	return heuristic.ReadLandmark(landmarkFile, g)
}

func withMode[K constraints.Ordered](q routing.Query[K], searchMode pkg.SearchMode, h routing.Heuristic[K]) routing.Query[K] {
	if searchMode == pkg.ASTAR {
		return q.WithAstar(h)
	}
	return q
}

// readQueries parses one query per line: a source followed by destinations, separated by spaces or
// commas. Blank lines and lines starting with '#' are skipped.
func readQueries[K constraints.Ordered](r io.Reader, parse func(string) (K, error)) ([]routing.Query[K], error) {
	queries := []routing.Query[K]{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ff := strings.FieldsFunc(line, func(c rune) bool { return c == ' ' || c == '\t' || c == ',' })
		if len(ff) < 2 {
			return nil, fmt.Errorf("line %d: want a source and at least one destination, got %q", lineNo, line)
		}
		ids := make([]K, len(ff))
		for i, f := range ff {
			id, err := parse(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			ids[i] = id
		}
		queries = append(queries, routing.NewQuery(ids[0], ids[1:]...))
	}
	return queries, sc.Err()
}

// runBatch searches all queries on a worker pool and prints them in input order.
func runBatch[K constraints.Ordered](ctx context.Context, w io.Writer, engine *routing.SearchEngine[K],
	queries []routing.Query[K], searchMode pkg.SearchMode, h routing.Heuristic[K], workers int) int {
	for i := range queries {
		queries[i] = withMode(queries[i], searchMode, h)
	}

	misses := 0
	for i, br := range routing.BatchSearch(ctx, engine, queries, workers) {
		q := queries[i]
		fmt.Fprintf(w, "# query %d: %v\n", i+1, q.Source)
		if br.Err != nil {
			fmt.Fprintf(w, "error: %v\n", br.Err)
			misses++
			continue
		}
		misses += printResults(w, q.Source, q.Destinations, br.Results)
	}
	return misses
}

// printResults prints one path and cost per destination, "unreachable" for the ones not reached, and with
// several destinations the least cost one. It returns the number of unreached destinations.
func printResults[K constraints.Ordered](w io.Writer, src K, dests []K, results map[K]routing.SearchResult[K]) int {
	misses := 0
	var nearest K
	nearestCost := math.Inf(1)
	for _, d := range dests {
		res := results[d]
		if !res.Reached {
			fmt.Fprintf(w, "%v -> %v: unreachable\n", src, d)
			misses++
			continue
		}
		fmt.Fprintln(w, FormatPath(res.Path))
		fmt.Fprintf(w, "cost: %v\n", res.Cost)
		if res.Cost < nearestCost {
			nearest, nearestCost = d, res.Cost
		}
	}
	if len(dests) > 1 && !math.IsInf(nearestCost, 1) {
		fmt.Fprintf(w, "nearest: %v\n", nearest)
	}
	return misses
}

func FormatPath[K constraints.Ordered](path []K) string {
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " -> ")
}
