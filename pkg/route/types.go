package route

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"golang.org/x/exp/constraints"
)

var (
	ErrMissingGeometry  = errors.New("missing geometry for route hop")
	ErrGeometryNotFound = errors.New("edge geometry not found")
	ErrProviderFailure  = errors.New("geometry provider failure")
)

// GeometryProvider returns the shape of the edge a->b, or ErrGeometryNotFound.
type GeometryProvider[K constraints.Ordered] interface {
	EdgeGeometry(ctx context.Context, a, b K) (geo.LineGeometry, error)
}

type RouteGeometry struct {
	Points []geo.Coordinate `json:"points"`
	Length float64          `json:"length"`
	Hops   int              `json:"hops"`
}

// RouteRecord is one computed route handed to a ResultSink.
type RouteRecord struct {
	RunID       string        `json:"run_id"`
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	Path        []string      `json:"path"`
	Cost        float64       `json:"cost"`
	Geometry    string        `json:"geometry,omitempty"` // encoded polyline
	Length      float64       `json:"length"`
	ElapsedTime time.Duration `json:"elapsed_time"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ResultSink interface {
	Save(ctx context.Context, rec RouteRecord) error
}
