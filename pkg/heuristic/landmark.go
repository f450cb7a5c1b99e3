package heuristic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lintang-b-s/roadsearch/pkg"
	da "github.com/lintang-b-s/roadsearch/pkg/datastructure"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTooManyLandmarks = fmt.Errorf("too much landmarks, the maximum number of landmarks is %d", pkg.MAX_NUM_LANDMARKS)
	ErrNotPreprocessed  = errors.New("landmarks are not preprocessed")
)

// Landmark is the ALT lower bound. Estimates are consistent only on a strongly connected graph.
type Landmark[K constraints.Ordered] struct {
	graph     *da.Graph[K]
	lw        [][]float64 // distance from each landmarks to every vertices in graph
	vlw       [][]float64 // distance from all vertices to each landmarks
	landmarks []da.Index  // landmark vertex ids
}

func NewLandmark[K constraints.Ordered](graph *da.Graph[K]) *Landmark[K] {
	return &Landmark[K]{
		graph:     graph,
		lw:        make([][]float64, 0),
		landmarks: make([]da.Index, 0),
	}
}

// Landmarks returns the ids of the selected landmarks.
func (lm *Landmark[K]) Landmarks() []K {
	ids := make([]K, len(lm.landmarks))
	for i, l := range lm.landmarks {
		ids[i] = lm.graph.ID(l)
	}
	return ids
}

/*
[1] Goldberg, A.V. and Harrelson, C. (2005) 'Computing the shortest path: A search meets graph theory', SODA '05, pp. 156-165.

planar landmark selection described in section 7 of [1]: split the plane around the center of the graph into k
sectors and take the vertex farthest along each sector direction, plus the vertex closest to the center.
*/
func (lm *Landmark[K]) SelectLandmarksPlanar(k int, coords map[K]geo.Coordinate) []da.Index {
	type located struct {
		v     da.Index
		coord geo.Coordinate
	}
	vs := make([]located, 0, lm.graph.NumberOfVertices())
	minLat, minLon := math.MaxFloat64, math.MaxFloat64
	maxLat, maxLon := -math.MaxFloat64, -math.MaxFloat64
	for i, id := range lm.graph.Nodes() {
		c, ok := coords[id]
		if !ok {
			continue
		}
		vs = append(vs, located{da.Index(i), c})
		minLat, maxLat = math.Min(minLat, c.Lat), math.Max(maxLat, c.Lat)
		minLon, maxLon = math.Min(minLon, c.Lon), math.Max(maxLon, c.Lon)
	}
	if len(vs) == 0 || k <= 0 {
		return nil
	}

	center := geo.NewCoordinate((maxLat+minLat)/2.0, (maxLon+minLon)/2.0)
	chosen := make(map[da.Index]struct{}, k+1)
	landmarks := make([]da.Index, 0, k+1)

	thetaDif := 360.0 / float64(k)
	theta := 0.0
	for i := 0; i < k; i++ {
		thetaRad := util.DegreeToRadians(theta)
		sint := math.Sin(thetaRad)
		cost := math.Cos(thetaRad)
		// O(V logV)
		sort.SliceStable(vs, func(i, j int) bool {
			a := (vs[i].coord.Lon-center.Lon)*cost + (vs[i].coord.Lat-center.Lat)*sint
			b := (vs[j].coord.Lon-center.Lon)*cost + (vs[j].coord.Lat-center.Lat)*sint
			return a < b
		})
		for j := len(vs) - 1; j >= 0; j-- {
			if _, dup := chosen[vs[j].v]; !dup {
				chosen[vs[j].v] = struct{}{}
				landmarks = append(landmarks, vs[j].v)
				break
			}
		}
		theta += thetaDif
	}

	mid := vs[0].v
	minMidDist := math.MaxFloat64
	for _, v := range vs {
		dist := geo.HaversineMeters(v.coord, center)
		if dist < minMidDist {
			minMidDist = dist
			mid = v.v
		}
	}
	if _, dup := chosen[mid]; !dup && len(landmarks) < pkg.MAX_NUM_LANDMARKS {
		landmarks = append(landmarks, mid)
	}

	return landmarks
}

// SelectLandmarksFarthest picks landmarks greedily: each new landmark is the vertex farthest from the ones
// already chosen. Vertices unreachable from every landmark so far are preferred, so each component gets one.
func (lm *Landmark[K]) SelectLandmarksFarthest(ctx context.Context, k int) ([]da.Index, error) {
	n := lm.graph.NumberOfVertices()
	if n == 0 || k <= 0 {
		return nil, nil
	}
	engine := routing.NewSearchEngine(lm.graph)

	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = pkg.INF_WEIGHT
	}
	chosen := make([]bool, n)

	next := da.Index(0)
	landmarks := make([]da.Index, 0, k)
	for len(landmarks) < k {
		landmarks = append(landmarks, next)
		chosen[next] = true

		dist, err := engine.Distances(ctx, lm.graph.ID(next))
		if err != nil {
			return nil, err
		}
		for v := range dist {
			minDist[v] = math.Min(minDist[v], dist[v])
		}

		best, bestDist := da.INVALID_INDEX, -1.0
		for v := 0; v < n; v++ {
			if chosen[v] {
				continue
			}
			if minDist[v] > bestDist {
				best, bestDist = da.Index(v), minDist[v]
			}
		}
		if best == da.INVALID_INDEX || bestDist <= 0 {
			break
		}
		next = best
	}
	return landmarks, nil
}

/*
preprocessing phase of A*, landmark, and triangle inequality (ALT) described in [1]: one forward and one
backward dijkstra per landmark.

O((n+m)logn * k), n=number of vertices,m=number of edges,k=number of landmarks
*/
func (lm *Landmark[K]) PreprocessALT(ctx context.Context, landmarks []da.Index, workers int, logger *zap.Logger) error {
	k := len(landmarks)
	if k > pkg.MAX_NUM_LANDMARKS {
		return ErrTooManyLandmarks
	}
	logger.Info("computing landmarks....", zap.Int("numLandmarks", k))

	n := lm.graph.NumberOfVertices()
	lm.landmarks = append([]da.Index(nil), landmarks...)
	lm.lw = make([][]float64, k)
	lm.vlw = make([][]float64, n)
	for v := 0; v < n; v++ {
		lm.vlw[v] = make([]float64, k)
	}

	forward := routing.NewSearchEngine(lm.graph)
	backward := routing.NewSearchEngine(lm.graph.Reverse())

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, l := range landmarks {
		id := lm.graph.ID(l)

		g.Go(func() error {
			sps, err := forward.Distances(gctx, id) // O((n+m)logn)
			if err != nil {
				return err
			}
			lm.lw[i] = sps
			return nil
		})

		g.Go(func() error {
			sps, err := backward.Distances(gctx, id)
			if err != nil {
				return err
			}
			// every goroutine owns column i
			for v := 0; v < n; v++ {
				lm.vlw[v][i] = sps[v]
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("done computing landmarks....")
	return nil
}

/*
tighest lower bound of ALT, section 6 of [1]:

	d(u,t) >= d(u,L) - d(t,L)
	d(u,t) >= d(L,t) - d(L,u)

landmarks with an infinite distance on either side are skipped, and the bound is clamped to zero.
on a strongly connected graph no landmark is skipped and the max of these potentials is consistent, so it
is safe for label-setting search. skipping keeps the bound admissible but can break consistency, which is
why the engine restricts landmark graphs to their largest strongly connected component.
*/
func (lm *Landmark[K]) FindTighestLowerBound(u, t da.Index) float64 {
	// O(k), k = number of landmarks
	tighestLowerBound := 0.0
	for i := 0; i < len(lm.landmarks); i++ {
		if math.IsInf(lm.vlw[u][i], 1) || math.IsInf(lm.lw[i][t], 1) ||
			math.IsInf(lm.vlw[t][i], 1) || math.IsInf(lm.lw[i][u], 1) {
			continue
		}
		lbOne := lm.vlw[u][i] - lm.vlw[t][i]
		lbTwo := lm.lw[i][t] - lm.lw[i][u]

		tighestLowerBound = math.Max(tighestLowerBound, math.Max(lbOne, lbTwo))
	}

	return tighestLowerBound
}

func (lm *Landmark[K]) Estimate(a, b K) (float64, error) {
	if len(lm.landmarks) == 0 {
		return 0, ErrNotPreprocessed
	}
	u, ok := lm.graph.IndexOf(a)
	if !ok {
		return 0, fmt.Errorf("%w: %v", routing.ErrNodeNotFound, a)
	}
	t, ok := lm.graph.IndexOf(b)
	if !ok {
		return 0, fmt.Errorf("%w: %v", routing.ErrNodeNotFound, b)
	}
	return lm.FindTighestLowerBound(u, t), nil
}
