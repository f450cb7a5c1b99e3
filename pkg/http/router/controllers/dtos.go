package controllers

import (
	"math"

	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/http/usecases"
)

type shortestPathRequest struct {
	Source       int64
	Destinations []int64 `validate:"required,min=1,max=100"`
	Mode         string  `validate:"omitempty,oneof=dijkstra astar a* a-star"`
	Geometry     bool
}

type computeRoutesRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	Mode           string  `json:"mode" validate:"omitempty,oneof=dijkstra astar a* a-star"`
}

type routeResponse struct {
	RunID         string   `json:"run_id"`
	Source        int64    `json:"source"`
	Destination   int64    `json:"destination"`
	Reached       bool     `json:"reached"`
	Cost          *float64 `json:"cost"` // null when unreached
	Path          []int64  `json:"path"`
	Polyline      string   `json:"polyline,omitempty"`
	Length        float64  `json:"length,omitempty"`
	Shortest      bool     `json:"shortest"`
	GeometryError string   `json:"geometry_error,omitempty"` // route found, geometry missing
	ElapsedMs     float64  `json:"elapsed_ms"`
}

func NewRouteResponse(res usecases.RouteResult) routeResponse {
	resp := routeResponse{
		RunID:       res.RunID,
		Source:      res.Source,
		Destination: res.Destination,
		Reached:     res.Reached,
		Path:        res.Path,
		Shortest:    res.Shortest,
		ElapsedMs:   float64(res.ElapsedTime.Microseconds()) / 1000.0,
	}
	if !math.IsInf(res.Cost, 1) {
		cost := res.Cost
		resp.Cost = &cost
	}
	if res.Geometry != nil {
		resp.Polyline = geo.EncodePolyline(res.Geometry.Points)
		resp.Length = res.Geometry.Length
	}
	if res.GeometryErr != nil {
		resp.GeometryError = res.GeometryErr.Error()
	}
	return resp
}

func NewRouteResponses(results []usecases.RouteResult) []routeResponse {
	out := make([]routeResponse, len(results))
	for i, res := range results {
		out[i] = NewRouteResponse(res)
	}
	return out
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
