package usecases

import (
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"github.com/lintang-b-s/roadsearch/pkg/spatialindex"
)

// RoutingEngine is the part of engine.Engine the routing service needs.
type RoutingEngine interface {
	GetSearchEngine() *routing.SearchEngine[int64]
	GetHeuristic() routing.Heuristic[int64]
	GetRtree() *spatialindex.Rtree[int64]
	GetGeometry() route.GeometryProvider[int64]
	GetResultSink() route.ResultSink
}
