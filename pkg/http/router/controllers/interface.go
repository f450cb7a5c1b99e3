package controllers

import (
	"context"

	"github.com/lintang-b-s/roadsearch/pkg"
	"github.com/lintang-b-s/roadsearch/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(ctx context.Context, source int64, destinations []int64, mode pkg.SearchMode,
		withGeometry bool) ([]usecases.RouteResult, error)
	ComputeRoute(ctx context.Context, origLat, origLon, dstLat, dstLon float64,
		mode pkg.SearchMode) (usecases.RouteResult, error)
	DefaultMode() pkg.SearchMode
}
