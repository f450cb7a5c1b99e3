package route

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"golang.org/x/exp/constraints"
)

// Assemble joins the geometry of every hop of path in traversal order. A hop stored only in the opposite
// direction is used reversed. The shared point between two hops appears once.
func Assemble[K constraints.Ordered](ctx context.Context, path []K, provider GeometryProvider[K]) (RouteGeometry, error) {
	rg := RouteGeometry{Points: make([]geo.Coordinate, 0)}
	for i := 0; i+1 < len(path); i++ {
		if util.StopConcurrentOperation(ctx) {
			return RouteGeometry{}, ctx.Err()
		}

		hop, err := hopGeometry(ctx, path[i], path[i+1], provider)
		if err != nil {
			return RouteGeometry{}, err
		}

		points := hop.Points
		if len(rg.Points) > 0 && len(points) > 0 && rg.Points[len(rg.Points)-1] == points[0] {
			points = points[1:]
		}
		rg.Points = append(rg.Points, points...)
		rg.Length += hop.Length
		rg.Hops++
	}
	return rg, nil
}

func hopGeometry[K constraints.Ordered](ctx context.Context, a, b K, provider GeometryProvider[K]) (geo.LineGeometry, error) {
	line, err := provider.EdgeGeometry(ctx, a, b)
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, ErrGeometryNotFound) {
		return geo.LineGeometry{}, fmt.Errorf("%w: %v -> %v: %w", ErrProviderFailure, a, b, err)
	}

	line, err = provider.EdgeGeometry(ctx, b, a)
	if err == nil {
		return line.Reversed(), nil
	}
	if !errors.Is(err, ErrGeometryNotFound) {
		return geo.LineGeometry{}, fmt.Errorf("%w: %v -> %v: %w", ErrProviderFailure, b, a, err)
	}
	return geo.LineGeometry{}, fmt.Errorf("%w: %v -> %v", ErrMissingGeometry, a, b)
}

// SelectShortest returns the index of the shortest candidate, the first one on ties, or -1 when there are none.
func SelectShortest(candidates []RouteGeometry) int {
	best := -1
	minLength := math.Inf(1)
	for i, c := range candidates {
		if c.Length < minLength {
			minLength = c.Length
			best = i
		}
	}
	return best
}

type Candidate[K constraints.Ordered] struct {
	Path     []K
	Geometry RouteGeometry
	Err      error
}

// AssembleCandidates assembles every candidate path. A candidate with a missing hop is kept with its error
// and skipped by the selection; any other failure aborts. It returns the index of the shortest candidate
// that assembled, or the joined errors when none did.
func AssembleCandidates[K constraints.Ordered](ctx context.Context, paths [][]K, provider GeometryProvider[K]) ([]Candidate[K], int, error) {
	candidates := make([]Candidate[K], len(paths))
	ok := make([]RouteGeometry, 0, len(paths))
	okIdx := make([]int, 0, len(paths))
	var errs []error

	for i, path := range paths {
		rg, err := Assemble(ctx, path, provider)
		candidates[i] = Candidate[K]{Path: path, Geometry: rg, Err: err}
		if err == nil {
			ok = append(ok, rg)
			okIdx = append(okIdx, i)
			continue
		}
		if !errors.Is(err, ErrMissingGeometry) {
			return nil, -1, err
		}
		errs = append(errs, fmt.Errorf("candidate %d: %w", i, err))
	}

	best := SelectShortest(ok)
	if best < 0 {
		if len(errs) == 0 {
			return candidates, -1, nil
		}
		return candidates, -1, errors.Join(errs...)
	}
	return candidates, okIdx[best], nil
}
