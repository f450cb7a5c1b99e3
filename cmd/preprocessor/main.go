package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/engine"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/kv"
	"github.com/lintang-b-s/roadsearch/pkg/logger"
	"github.com/lintang-b-s/roadsearch/pkg/osmparser"
	"github.com/lintang-b-s/roadsearch/pkg/provider"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

var (
	mapFile      = flag.String("map", "./data/map.osm.pbf", "openstreetmap extract (.osm.pbf or .osm)")
	outDir       = flag.String("out", "./data", "output directory")
	numLandmarks = flag.Int("landmarks", 16, "number of ALT landmarks")
	workers      = flag.Int("workers", 4, "parallel landmark searches")
	batchSize    = flag.Int("batch", 10000, "geometry records per pebble batch")
)

func main() {
	flag.Parse()
	logger, err := logger.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(context.Background(), logger); err != nil {
		logger.Fatal("preprocessing failed", zap.Error(err))
	}
	logger.Sugar().Infof("Preprocessing completed successfully.")
}

func run(ctx context.Context, logger *zap.Logger) error {
	osmProvider := provider.NewOSMProvider(*mapFile, logger, true)
	graph, err := osmProvider.Load(ctx)
	if err != nil {
		return err
	}
	network, err := osmProvider.Network()
	if err != nil {
		return err
	}
	graph = graph.LargestSCC()
	logger.Info("kept largest strongly connected component", zap.Int("numVertices", graph.NumberOfVertices()),
		zap.Int("numEdges", graph.NumberOfEdges()))

	graphFile := filepath.Join(*outDir, "road.graph")
	if err := graph.WriteGraph(graphFile, da.FormatInt64); err != nil {
		return err
	}
	logger.Info("wrote graph", zap.String("graphFile", graphFile))

	db, err := kv.Open(filepath.Join(*outDir, "roadsearch_db"), false)
	if err != nil {
		return err
	}
	defer db.Close()

	coords := make(map[int64]geo.Coordinate, graph.NumberOfVertices())
	for _, id := range graph.Nodes() {
		coords[id] = network.Coords[id]
	}
	if err := kv.NewCoordinateStore(db).PutCoordinates(coords); err != nil {
		return err
	}
	if err := writeGeometry(db, graph, network, logger); err != nil {
		return err
	}

	lm, err := engine.PreprocessLandmarks(ctx, graph, coords, *numLandmarks, *workers, logger)
	if err != nil {
		return err
	}
	landmarkFile := filepath.Join(*outDir, "landmark.bz2")
	if err := lm.WriteLandmark(landmarkFile); err != nil {
		return err
	}
	logger.Info("wrote landmarks", zap.String("landmarkFile", landmarkFile), zap.Int64s("landmarks", lm.Landmarks()))
	return nil
}

func writeGeometry(db *pebble.DB, graph *da.Graph[int64], network *osmparser.Network, logger *zap.Logger) error {
	store := kv.NewGeometryStore[int64](db)
	bar := progressbar.NewOptions(len(network.Edges),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][3/3][reset] writing edge geometry..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	batch := make([]kv.EdgeLine[int64], 0, *batchSize)
	written := 0
	for _, e := range network.Edges {
		bar.Add(1)
		if _, ok := graph.EdgeWeight(e.From, e.To); !ok {
			continue
		}
		batch = append(batch, kv.EdgeLine[int64]{From: e.From, To: e.To, Line: e.Line})
		if len(batch) == *batchSize {
			if err := store.PutBatch(batch); err != nil {
				return err
			}
			written += len(batch)
			batch = batch[:0]
		}
	}
	if err := store.PutBatch(batch); err != nil {
		return err
	}
	written += len(batch)
	bar.Finish()
	logger.Info("wrote edge geometry", zap.Int("numEdges", written))
	return nil
}
