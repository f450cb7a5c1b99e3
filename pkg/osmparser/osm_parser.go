package osmparser

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/k0kubun/go-ansi"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type Format int

const (
	PBF Format = iota
	XML
)

// FormatFromFilename picks XML for .osm/.xml files and PBF otherwise.
func FormatFromFilename(filename string) Format {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".osm") || strings.HasSuffix(lower, ".xml") {
		return XML
	}
	return PBF
}

type nodeType uint8

const (
	END_NODE nodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

var ErrEmptyNetwork = errors.New("osm extract has no routable ways")

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":         {},
		"motorway_link":    {},
		"trunk":            {},
		"trunk_link":       {},
		"primary":          {},
		"primary_link":     {},
		"secondary":        {},
		"secondary_link":   {},
		"residential":      {},
		"residential_link": {},
		"service":          {},
		"tertiary":         {},
		"tertiary_link":    {},
		"road":             {},
		"track":            {},
		"unclassified":     {},
		"undefined":        {},
		"unknown":          {},
		"living_street":    {},
		"private":          {},
		"motorroad":        {},
	}
)

// Edge is one directed graph edge produced from a way segment.
type Edge struct {
	From, To int64
	Line     geo.LineGeometry
}

type Network struct {
	Graph  *da.Graph[int64]
	Coords map[int64]geo.Coordinate // coordinates of graph vertices
	Edges  []Edge
}

// Geometry returns the edge shapes as an in-memory geometry provider.
func (n *Network) Geometry() *route.MemoryGeometry[int64] {
	m := route.NewMemoryGeometry[int64]()
	for _, e := range n.Edges {
		m.PutLine(e.From, e.To, e.Line)
	}
	return m
}

type Parser struct {
	logger       *zap.Logger
	showProgress bool
	wayNodeMap   map[int64]nodeType
	nodeCoords   map[int64]geo.Coordinate
}

func NewParser(logger *zap.Logger, showProgress bool) *Parser {
	return &Parser{
		logger:       logger,
		showProgress: showProgress,
		wayNodeMap:   make(map[int64]nodeType),
		nodeCoords:   make(map[int64]geo.Coordinate),
	}
}

func newScanner(ctx context.Context, r io.Reader, format Format) osm.Scanner {
	if format == XML {
		return osmxml.New(ctx, r)
	}
	return osmpbf.New(ctx, r, 1)
}

func (p *Parser) newBar(description string) *progressbar.ProgressBar {
	if !p.showProgress {
		return progressbar.DefaultSilent(-1)
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
	)
}

/*
Parse reads the extract twice. The first pass marks which way nodes are shared between ways (junctions), the
second pass collects coordinates of way nodes and cuts every accepted way into edges at its junctions.
Each edge is weighted by its haversine length in meters.
*/
func (p *Parser) Parse(ctx context.Context, r io.ReadSeeker, format Format) (*Network, error) {
	ways := make([]*osm.Way, 0)

	bar := p.newBar("[cyan][1/2][reset] scanning openstreetmap ways...")
	scanner := newScanner(ctx, r, format)
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		ways = append(ways, way)
		for i, node := range way.Nodes {
			id := int64(node.ID)
			if _, seen := p.wayNodeMap[id]; !seen {
				if i == 0 || i == len(way.Nodes)-1 {
					p.wayNodeMap[id] = END_NODE
				} else {
					p.wayNodeMap[id] = BETWEEN_NODE
				}
			} else {
				p.wayNodeMap[id] = JUNCTION_NODE
			}
		}
		bar.Add(1)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan osm ways: %w", err)
	}
	scanner.Close()
	bar.Finish()
	p.logger.Info("scanned openstreetmap ways", zap.Int("numWays", len(ways)))
	if len(ways) == 0 {
		return nil, ErrEmptyNetwork
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	bar = p.newBar("[cyan][2/2][reset] reading openstreetmap nodes...")
	scanner = newScanner(ctx, r, format)
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
			p.nodeCoords[int64(node.ID)] = geo.NewCoordinate(node.Lat, node.Lon)
			bar.Add(1)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan osm nodes: %w", err)
	}
	scanner.Close()
	bar.Finish()

	return p.buildNetwork(ways)
}

func (p *Parser) buildNetwork(ways []*osm.Way) (*Network, error) {
	type edgeKey struct{ from, to int64 }
	edges := make(map[edgeKey]Edge)
	addEdge := func(from, to int64, line geo.LineGeometry) {
		key := edgeKey{from, to}
		if old, ok := edges[key]; ok && old.Line.Length <= line.Length {
			return
		}
		edges[key] = Edge{From: from, To: to, Line: line}
	}

	skipped := 0
	for _, way := range ways {
		forward, backward := wayDirection(way)
		segments, ok := p.splitWay(way)
		if !ok {
			skipped++
			continue
		}
		for _, segment := range segments {
			line := geo.LineGeometry{Points: segment.points, Length: segmentLength(segment.points)}
			if forward {
				addEdge(segment.from, segment.to, line)
			}
			if backward {
				addEdge(segment.to, segment.from, line.Reversed())
			}
		}
	}
	if skipped > 0 {
		p.logger.Warn("skipped ways with nodes outside the extract", zap.Int("numWays", skipped))
	}

	builder := da.NewGraphBuilder[int64]()
	network := &Network{
		Coords: make(map[int64]geo.Coordinate),
		Edges:  make([]Edge, 0, len(edges)),
	}
	for _, e := range edges {
		if err := builder.AddEdge(e.From, e.To, e.Line.Length); err != nil {
			return nil, err
		}
		network.Edges = append(network.Edges, e)
		network.Coords[e.From] = e.Line.Points[0]
		network.Coords[e.To] = e.Line.Points[len(e.Line.Points)-1]
	}
	if builder.NumberOfEdges() == 0 {
		return nil, ErrEmptyNetwork
	}
	slices.SortFunc(network.Edges, func(a, b Edge) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	network.Graph = builder.Build()
	p.logger.Info("built road network graph",
		zap.Int("numVertices", network.Graph.NumberOfVertices()),
		zap.Int("numEdges", network.Graph.NumberOfEdges()))
	return network, nil
}

type segment struct {
	from, to int64
	points   []geo.Coordinate
}

// splitWay cuts a way at junction nodes. A closed segment is cut once more before its last node so both
// halves are proper edges.
func (p *Parser) splitWay(way *osm.Way) ([]segment, bool) {
	segments := make([]segment, 0, 1)
	ids := make([]int64, 0, len(way.Nodes))
	points := make([]geo.Coordinate, 0, len(way.Nodes))

	flush := func() {
		if len(ids) < 2 {
			return
		}
		first, last := ids[0], ids[len(ids)-1]
		switch {
		case len(ids) == 2 && first == last:
		case first == last:
			n := len(ids)
			segments = append(segments,
				segment{from: first, to: ids[n-2], points: append([]geo.Coordinate(nil), points[:n-1]...)},
				segment{from: ids[n-2], to: last, points: append([]geo.Coordinate(nil), points[n-2:]...)},
			)
		default:
			segments = append(segments, segment{from: first, to: last, points: append([]geo.Coordinate(nil), points...)})
		}
	}

	for i, node := range way.Nodes {
		id := int64(node.ID)
		coord, ok := p.nodeCoords[id]
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
		points = append(points, coord)
		if i > 0 && i < len(way.Nodes)-1 && p.isJunctionNode(id) {
			flush()
			ids = append(ids[:0], id)
			points = append(points[:0], coord)
		}
	}
	flush()
	return segments, true
}

func segmentLength(points []geo.Coordinate) float64 {
	length := 0.0
	for i := 1; i < len(points); i++ {
		length += geo.HaversineMeters(points[i-1], points[i])
	}
	return length
}

func (p *Parser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeMap[nodeID] == JUNCTION_NODE
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := acceptedHighway[highway]; ok {
			return true
		}
	} else if junction != "" {
		return true
	}
	return false
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

// wayDirection returns whether the way can be driven along (forward) and against (backward) its node order.
func wayDirection(way *osm.Way) (forward, backward bool) {
	okvf := isRestricted(way.Tags.Find("vehicle:forward")) || isRestricted(way.Tags.Find("motor_vehicle:forward"))
	okvb := isRestricted(way.Tags.Find("vehicle:backward")) || isRestricted(way.Tags.Find("motor_vehicle:backward"))

	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		return !okvf, false
	case "-1", "reverse":
		return false, !okvb
	case "no":
		return !okvf, !okvb
	}
	if way.Tags.Find("junction") == "roundabout" || way.Tags.Find("highway") == "motorway" {
		return !okvf, false
	}
	return !okvf, !okvb
}
