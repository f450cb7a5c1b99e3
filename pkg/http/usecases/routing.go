package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/lintang-b-s/roadsearch/pkg"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"github.com/lintang-b-s/roadsearch/pkg/spatialindex"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"go.uber.org/zap"
)

type RouteResult struct {
	RunID       string
	Source      int64
	Destination int64
	Reached     bool
	Cost        float64
	Path        []int64
	Geometry    *route.RouteGeometry
	// GeometryErr is set when the route was found but one of its hops has no stored geometry.
	GeometryErr error
	// Shortest marks the route with the smallest assembled length among the destinations.
	Shortest    bool
	ElapsedTime time.Duration
}

type RoutingService struct {
	log         *zap.Logger
	engine      RoutingEngine
	defaultMode pkg.SearchMode
	snapRadius  float64
	runCounter  atomic.Uint64
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, defaultMode pkg.SearchMode,
	snapRadius float64) *RoutingService {
	return &RoutingService{
		log:         log,
		engine:      engine,
		defaultMode: defaultMode,
		snapRadius:  snapRadius,
	}
}

func (rs *RoutingService) DefaultMode() pkg.SearchMode {
	return rs.defaultMode
}

// nextRunID is the start time of the run followed by a process wide counter.
func (rs *RoutingService) nextRunID(start time.Time) string {
	n := rs.runCounter.Add(1)
	return start.UTC().Format("20060102T150405.000000") + "-" + strconv.FormatUint(n, 10)
}

// ShortestPath searches from source to every destination in one pass. With a single destination an
// unreachable destination is an error, with several it is reported per destination.
func (rs *RoutingService) ShortestPath(ctx context.Context, source int64, destinations []int64,
	mode pkg.SearchMode, withGeometry bool) ([]RouteResult, error) {
	start := time.Now()

	q := routing.NewQuery(source, destinations...)
	q.Mode = mode
	if mode == pkg.ASTAR {
		q.Heuristic = rs.engine.GetHeuristic()
	}
	var stats routing.SearchStats
	q.Stats = &stats

	found, err := rs.engine.GetSearchEngine().Search(ctx, q)
	if err != nil {
		return nil, wrapSearchError(err)
	}

	results := make([]RouteResult, 0, len(destinations))
	seen := make(map[int64]struct{}, len(destinations))
	for _, d := range destinations {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}

		sr := found[d]
		res := RouteResult{
			Source:      source,
			Destination: d,
			Reached:     sr.Reached,
			Cost:        sr.Cost,
			Path:        sr.Path,
		}
		results = append(results, res)
	}
	if len(results) == 1 && !results[0].Reached {
		return nil, util.WrapErrorf(fmt.Errorf("%w: %d -> %d", routing.ErrUnreachable, source, results[0].Destination),
			util.ErrNotFound, "path not found")
	}
	if withGeometry {
		if err := rs.attachGeometry(ctx, results); err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(start)
	for i := range results {
		results[i].ElapsedTime = elapsed
		results[i].RunID = rs.nextRunID(start)
		if results[i].Reached {
			rs.save(ctx, results[i], start)
		}
	}

	rs.log.Debug("shortest path query",
		zap.Int64("source", source),
		zap.Int("numDestinations", len(results)),
		zap.String("mode", mode.String()),
		zap.Int("settled", stats.NumSettledNodes),
		zap.Duration("elapsed", elapsed))
	return results, nil
}

// attachGeometry assembles every reached route as one candidate. A route with a missing hop keeps its
// error and the others are still assembled; the request fails only when no candidate assembled or the
// geometry store itself failed.
func (rs *RoutingService) attachGeometry(ctx context.Context, results []RouteResult) error {
	paths := make([][]int64, 0, len(results))
	owner := make([]int, 0, len(results))
	for i, res := range results {
		if !res.Reached {
			continue
		}
		paths = append(paths, res.Path)
		owner = append(owner, i)
	}
	if len(paths) == 0 {
		return nil
	}

	candidates, best, err := route.AssembleCandidates(ctx, paths, rs.engine.GetGeometry())
	if candidates == nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "assemble route geometry")
	}
	for i, c := range candidates {
		res := &results[owner[i]]
		if c.Err != nil {
			res.GeometryErr = c.Err
			rs.log.Warn("route without geometry", zap.Int64("destination", res.Destination), zap.Error(c.Err))
			continue
		}
		rg := c.Geometry
		res.Geometry = &rg
	}
	if best < 0 {
		return util.WrapErrorf(err, util.ErrInternalServerError, "assemble route geometry")
	}
	results[owner[best]].Shortest = true
	return nil
}

// ComputeRoute snaps both coordinates to the nearest graph nodes and returns the route with its geometry.
func (rs *RoutingService) ComputeRoute(ctx context.Context, origLat, origLon, dstLat, dstLon float64,
	mode pkg.SearchMode) (RouteResult, error) {
	rt := rs.engine.GetRtree()
	from, _, err := rt.Snap(geo.NewCoordinate(origLat, origLon), rs.snapRadius)
	if err != nil {
		return RouteResult{}, wrapSnapError(err, "origin")
	}
	to, _, err := rt.Snap(geo.NewCoordinate(dstLat, dstLon), rs.snapRadius)
	if err != nil {
		return RouteResult{}, wrapSnapError(err, "destination")
	}

	results, err := rs.ShortestPath(ctx, from.ID, []int64{to.ID}, mode, true)
	if err != nil {
		return RouteResult{}, err
	}
	return results[0], nil
}

func (rs *RoutingService) save(ctx context.Context, res RouteResult, start time.Time) {
	sink := rs.engine.GetResultSink()
	if sink == nil {
		return
	}
	rec := route.RouteRecord{
		RunID:       res.RunID,
		Source:      strconv.FormatInt(res.Source, 10),
		Destination: strconv.FormatInt(res.Destination, 10),
		Path:        make([]string, len(res.Path)),
		Cost:        res.Cost,
		ElapsedTime: res.ElapsedTime,
		CreatedAt:   start.UTC(),
	}
	for i, v := range res.Path {
		rec.Path[i] = strconv.FormatInt(v, 10)
	}
	if res.Geometry != nil {
		rec.Geometry = geo.EncodePolyline(res.Geometry.Points)
		rec.Length = res.Geometry.Length
	}
	if err := sink.Save(ctx, rec); err != nil {
		rs.log.Warn("could not save route record", zap.String("runID", rec.RunID), zap.Error(err))
	}
}

func wrapSearchError(err error) error {
	switch {
	case errors.Is(err, routing.ErrNodeNotFound):
		return util.WrapErrorf(err, util.ErrNotFound, "node not found")
	case errors.Is(err, routing.ErrNoDestination):
		return util.WrapErrorf(err, util.ErrBadParamInput, "no destination")
	case errors.Is(err, routing.ErrCancelled):
		return util.WrapErrorf(err, util.ErrServiceUnavailable, "search cancelled")
	default:
		return util.WrapErrorf(err, util.ErrInternalServerError, "search failed")
	}
}

func wrapSnapError(err error, which string) error {
	if errors.Is(err, spatialindex.ErrNoNearbyNode) {
		return util.WrapErrorf(err, util.ErrNotFound, "no road near the %s", which)
	}
	return util.WrapErrorf(err, util.ErrInternalServerError, "snap %s", which)
}
