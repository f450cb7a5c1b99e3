package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/heuristic"
	"github.com/lintang-b-s/roadsearch/pkg/kv"
	"github.com/lintang-b-s/roadsearch/pkg/provider"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"github.com/lintang-b-s/roadsearch/pkg/spatialindex"
	"go.uber.org/zap"
)

var ErrUnknownGraphSource = errors.New("unknown graph source")

// Engine owns one road network snapshot and everything a query needs around it.
type Engine struct {
	cfg       Config
	graph     *da.Graph[int64]
	search    *routing.SearchEngine[int64]
	heuristic routing.Heuristic[int64]
	coords    map[int64]geo.Coordinate
	rtree     *spatialindex.Rtree[int64]
	geometry  route.GeometryProvider[int64]
	results   route.ResultSink
	db        *pebble.DB
}

func (e *Engine) GetGraph() *da.Graph[int64] {
	return e.graph
}

func (e *Engine) GetSearchEngine() *routing.SearchEngine[int64] {
	return e.search
}

// GetHeuristic is nil when the configured heuristic could not be built.
func (e *Engine) GetHeuristic() routing.Heuristic[int64] {
	return e.heuristic
}

func (e *Engine) GetRtree() *spatialindex.Rtree[int64] {
	return e.rtree
}

func (e *Engine) GetGeometry() route.GeometryProvider[int64] {
	return e.geometry
}

func (e *Engine) GetResultSink() route.ResultSink {
	return e.results
}

func (e *Engine) GetConfig() Config {
	return e.cfg
}

func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func NewEngine(ctx context.Context, cfg Config, logger *zap.Logger) (*Engine, error) {
	logger.Info("Starting roadsearch query engine...", zap.String("graphSource", cfg.GraphSource))

	db, err := kv.Open(cfg.DBPath, cfg.InMemoryDB)
	if err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, db: db, results: kv.NewResultStore(db)}

	if err := e.loadNetwork(ctx, logger); err != nil {
		db.Close()
		return nil, err
	}
	// landmark bounds are only consistent when every vertex reaches and is reached by every landmark
	if cfg.LargestSCC || cfg.Heuristic == HEURISTIC_LANDMARK {
		if !cfg.LargestSCC {
			logger.Info("landmark heuristic needs a strongly connected graph, restricting to the largest component")
		}
		before := e.graph.NumberOfVertices()
		e.graph = e.graph.LargestSCC()
		logger.Info("kept largest strongly connected component",
			zap.Int("numVertices", e.graph.NumberOfVertices()), zap.Int("removed", before-e.graph.NumberOfVertices()))
	}
	e.search = routing.NewSearchEngine(e.graph)

	e.rtree = spatialindex.NewRtree[int64]()
	e.rtree.Build(e.graphCoords(), logger)

	if err := e.buildHeuristic(ctx, logger); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("roadsearch query engine ready",
		zap.Int("numVertices", e.graph.NumberOfVertices()), zap.Int("numEdges", e.graph.NumberOfEdges()))
	return e, nil
}

// NewEngineFromGraph wraps an already built graph, used by tests and the query cli.
func NewEngineFromGraph(cfg Config, graph *da.Graph[int64], coords map[int64]geo.Coordinate,
	geometry route.GeometryProvider[int64], results route.ResultSink) *Engine {
	e := &Engine{
		cfg:       cfg,
		graph:     graph,
		search:    routing.NewSearchEngine(graph),
		coords:    coords,
		geometry:  geometry,
		results:   results,
		rtree:     spatialindex.NewRtree[int64](),
		heuristic: nil,
	}
	for id, c := range e.graphCoords() {
		e.rtree.Insert(id, c)
	}
	if len(coords) > 0 {
		e.heuristic = heuristic.NewGreatCircle(coords, cfg.CostPerMeter)
	}
	return e
}

func (e *Engine) loadNetwork(ctx context.Context, logger *zap.Logger) error {
	switch e.cfg.GraphSource {
	case SOURCE_OSM:
		p := provider.NewOSMProvider(e.cfg.MapFile, logger, false)
		g, err := p.Load(ctx)
		if err != nil {
			return err
		}
		network, err := p.Network()
		if err != nil {
			return err
		}
		e.graph = g
		e.coords = network.Coords
		e.geometry = network.Geometry()
		return nil
	case SOURCE_FILE:
		g, err := provider.NewFileProvider(e.cfg.GraphFile, da.ParseInt64, logger).Load(ctx)
		if err != nil {
			return err
		}
		coords, err := kv.NewCoordinateStore(e.db).LoadCoordinates()
		if err != nil {
			return err
		}
		e.graph = g
		e.coords = coords
		e.geometry = kv.NewGeometryStore[int64](e.db)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGraphSource, e.cfg.GraphSource)
	}
}

// graphCoords drops coordinates of vertices that are not in the graph anymore.
func (e *Engine) graphCoords() map[int64]geo.Coordinate {
	out := make(map[int64]geo.Coordinate, len(e.coords))
	for id, c := range e.coords {
		if e.graph.HasNode(id) {
			out[id] = c
		}
	}
	return out
}

func (e *Engine) buildHeuristic(ctx context.Context, logger *zap.Logger) error {
	var h routing.Heuristic[int64]
	switch e.cfg.Heuristic {
	case HEURISTIC_ZERO:
		h = heuristic.Zero[int64]{}
	case HEURISTIC_GREAT_CIRCLE:
		if len(e.coords) == 0 {
			logger.Warn("no vertex coordinates, A* is disabled")
			return nil
		}
		h = heuristic.NewGreatCircle(e.coords, e.cfg.CostPerMeter)
	case HEURISTIC_LANDMARK:
		lm, err := e.landmarks(ctx, logger)
		if err != nil {
			return err
		}
		h = lm
	default:
		return fmt.Errorf("unknown heuristic %q", e.cfg.Heuristic)
	}

	if e.cfg.CacheSize > 0 {
		cached, err := heuristic.NewCached(h, e.cfg.CacheSize)
		if err != nil {
			return err
		}
		h = cached
	}
	e.heuristic = h
	return nil
}

// landmarks reads the landmark file when it matches the graph and preprocesses new landmarks otherwise.
func (e *Engine) landmarks(ctx context.Context, logger *zap.Logger) (*heuristic.Landmark[int64], error) {
	if e.cfg.LandmarkFile != "" {
		if _, err := os.Stat(e.cfg.LandmarkFile); err == nil {
			lm, err := heuristic.ReadLandmark(e.cfg.LandmarkFile, e.graph)
			if err == nil {
				logger.Info("read landmarks", zap.String("landmarkFile", e.cfg.LandmarkFile))
				return lm, nil
			}
			logger.Warn("landmark file does not match the graph, recomputing", zap.Error(err))
		}
	}

	lm, err := PreprocessLandmarks(ctx, e.graph, e.graphCoords(), e.cfg.NumLandmarks, e.cfg.Workers, logger)
	if err != nil {
		return nil, err
	}
	if e.cfg.LandmarkFile != "" {
		if err := lm.WriteLandmark(e.cfg.LandmarkFile); err != nil {
			logger.Warn("could not write landmark file", zap.Error(err))
		}
	}
	return lm, nil
}

// PreprocessLandmarks selects landmarks (planar when coordinates are known, farthest otherwise) and
// computes their distance tables.
func PreprocessLandmarks(ctx context.Context, graph *da.Graph[int64], coords map[int64]geo.Coordinate,
	numLandmarks, workers int, logger *zap.Logger) (*heuristic.Landmark[int64], error) {
	lm := heuristic.NewLandmark(graph)

	var (
		selected []da.Index
		err      error
	)
	if len(coords) > 0 {
		selected = lm.SelectLandmarksPlanar(numLandmarks, coords)
	} else {
		selected, err = lm.SelectLandmarksFarthest(ctx, numLandmarks)
		if err != nil {
			return nil, err
		}
	}
	if len(selected) == 0 {
		return nil, errors.New("no landmark selected")
	}
	if err := lm.PreprocessALT(ctx, selected, workers, logger); err != nil {
		return nil, err
	}
	return lm, nil
}
