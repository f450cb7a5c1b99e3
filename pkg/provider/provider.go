package provider

import (
	"context"
	"errors"
	"fmt"
	"os"

	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/osmparser"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

var ErrNotLoaded = errors.New("road network is not loaded yet")

// GraphProvider builds one immutable graph snapshot.
type GraphProvider[K constraints.Ordered] interface {
	Load(ctx context.Context) (*da.Graph[K], error)
}

type MemoryProvider[K constraints.Ordered] struct {
	adj map[K]map[K]float64
}

func NewMemoryProvider[K constraints.Ordered](adj map[K]map[K]float64) *MemoryProvider[K] {
	return &MemoryProvider[K]{adj: adj}
}

func (p *MemoryProvider[K]) Load(ctx context.Context) (*da.Graph[K], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return da.NewGraphFromAdjacency(p.adj)
}

// FileProvider reads a graph written by da.Graph.WriteGraph.
type FileProvider[K constraints.Ordered] struct {
	filename string
	parse    func(string) (K, error)
	logger   *zap.Logger
}

func NewFileProvider[K constraints.Ordered](filename string, parse func(string) (K, error), logger *zap.Logger) *FileProvider[K] {
	return &FileProvider[K]{filename: filename, parse: parse, logger: logger}
}

func (p *FileProvider[K]) Load(ctx context.Context) (*da.Graph[K], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.logger.Info("reading graph", zap.String("graphFilePath", p.filename))
	g, err := da.ReadGraph(p.filename, p.parse)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", p.filename, err)
	}
	return g, nil
}

// OSMProvider parses an OpenStreetMap extract. After Load the parsed network keeps vertex coordinates and
// edge shapes for heuristics, snapping and geometry.
type OSMProvider struct {
	filename     string
	logger       *zap.Logger
	showProgress bool
	network      *osmparser.Network
}

func NewOSMProvider(filename string, logger *zap.Logger, showProgress bool) *OSMProvider {
	return &OSMProvider{filename: filename, logger: logger, showProgress: showProgress}
}

func (p *OSMProvider) Load(ctx context.Context) (*da.Graph[int64], error) {
	f, err := os.Open(p.filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p.logger.Info("parsing openstreetmap extract", zap.String("mapFile", p.filename))
	network, err := osmparser.NewParser(p.logger, p.showProgress).Parse(ctx, f, osmparser.FormatFromFilename(p.filename))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.filename, err)
	}
	p.network = network
	return network.Graph, nil
}

func (p *OSMProvider) Network() (*osmparser.Network, error) {
	if p.network == nil {
		return nil, ErrNotLoaded
	}
	return p.network, nil
}

func (p *OSMProvider) Coordinates() (map[int64]geo.Coordinate, error) {
	network, err := p.Network()
	if err != nil {
		return nil, err
	}
	return network.Coords, nil
}
