package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lintang-b-s/roadsearch/pkg"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/geo"
	"github.com/lintang-b-s/roadsearch/pkg/http/usecases"
	http_server "github.com/lintang-b-s/roadsearch/pkg/http/server"
	"github.com/lintang-b-s/roadsearch/pkg/route"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testRoute struct {
	Destination   int64    `json:"destination"`
	Cost          *float64 `json:"cost"`
	Polyline      string   `json:"polyline"`
	Length        float64  `json:"length"`
	Shortest      bool     `json:"shortest"`
	GeometryError string   `json:"geometry_error"`
}

type testError struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

type fakeRoutingService struct {
	err        error
	gotMode    pkg.SearchMode
	gotDests   []int64
	gotGeom    bool
	panicOnUse bool
}

func (f *fakeRoutingService) DefaultMode() pkg.SearchMode {
	return pkg.ASTAR
}

func (f *fakeRoutingService) ShortestPath(_ context.Context, source int64, destinations []int64, mode pkg.SearchMode,
	withGeometry bool) ([]usecases.RouteResult, error) {
	if f.panicOnUse {
		panic("boom")
	}
	f.gotMode, f.gotDests, f.gotGeom = mode, destinations, withGeometry
	if f.err != nil {
		return nil, f.err
	}
	out := []usecases.RouteResult{}
	for i, d := range destinations {
		res := usecases.RouteResult{
			RunID: "r", Source: source, Destination: d, Reached: true, Cost: 9, Path: []int64{source, d},
			ElapsedTime: time.Millisecond,
		}
		if withGeometry && i == 0 {
			res.Shortest = true
		} else if withGeometry {
			res.GeometryErr = route.ErrMissingGeometry
		}
		out = append(out, res)
	}
	return out, nil
}

func (f *fakeRoutingService) ComputeRoute(_ context.Context, origLat, origLon, dstLat, dstLon float64,
	mode pkg.SearchMode) (usecases.RouteResult, error) {
	f.gotMode = mode
	if f.err != nil {
		return usecases.RouteResult{}, f.err
	}
	return usecases.RouteResult{
		RunID: "r", Source: 1, Destination: 2, Reached: true, Cost: 5, Path: []int64{1, 2},
		Geometry: &route.RouteGeometry{
			Points: []geo.Coordinate{geo.NewCoordinate(origLat, origLon), geo.NewCoordinate(dstLat, dstLon)},
			Length: 5,
			Hops:   1,
		},
	}, nil
}

func serve(t *testing.T, svc *fakeRoutingService, config http_server.Config, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewAPI(zap.NewNop()).Handler(config, svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestShortestPathHandler(t *testing.T) {
	svc := &fakeRoutingService{}
	rec := serve(t, svc, http_server.Config{}, "/api/shortestPath?source=1&destinations=4,%205&mode=dijkstra&geometry=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []testRoute `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, int64(5), body.Data[1].Destination)
	require.NotNil(t, body.Data[0].Cost)
	assert.Equal(t, 9.0, *body.Data[0].Cost)
	assert.True(t, body.Data[0].Shortest)
	assert.Empty(t, body.Data[0].GeometryError)
	assert.False(t, body.Data[1].Shortest)
	assert.Contains(t, body.Data[1].GeometryError, "missing geometry")
	assert.Equal(t, pkg.DIJKSTRA, svc.gotMode)
	assert.Equal(t, []int64{4, 5}, svc.gotDests)
	assert.True(t, svc.gotGeom)

	t.Run("default mode", func(t *testing.T) {
		rec := serve(t, svc, http_server.Config{}, "/api/shortestPath?source=1&destinations=4")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pkg.ASTAR, svc.gotMode)
	})
}

func TestComputeRoutesHandler(t *testing.T) {
	svc := &fakeRoutingService{}
	rec := serve(t, svc, http_server.Config{},
		"/api/computeRoutes?origin_lat=-7.76&origin_lon=110.37&destination_lat=-7.77&destination_lon=110.38&mode=astar")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data testRoute `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Polyline)
	assert.Equal(t, 5.0, body.Data.Length)
}

func TestHandlerStatusMapping(t *testing.T) {
	testCases := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing source",
			target:     "/api/shortestPath?destinations=1",
			wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST",
		},
		{
			name:       "no destinations",
			target:     "/api/shortestPath?source=1&destinations=",
			wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST",
		},
		{
			name:       "unknown mode",
			target:     "/api/shortestPath?source=1&destinations=2&mode=bfs",
			wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST",
		},
		{
			name:       "latitude out of range",
			target:     "/api/computeRoutes?origin_lat=-97&origin_lon=110&destination_lat=-7&destination_lon=110",
			wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST",
		},
		{
			name:       "node not found",
			target:     "/api/shortestPath?source=1&destinations=2",
			err:        util.WrapErrorf(fmt.Errorf("%w: 2", routing.ErrNodeNotFound), util.ErrNotFound, "node not found"),
			wantStatus: http.StatusNotFound, wantCode: "NODE_NOT_FOUND",
		},
		{
			name:       "unreachable",
			target:     "/api/shortestPath?source=1&destinations=2",
			err:        util.WrapErrorf(fmt.Errorf("%w: 1 -> 2", routing.ErrUnreachable), util.ErrNotFound, "path not found"),
			wantStatus: http.StatusNotFound, wantCode: "PATH_NOT_FOUND",
		},
		{
			name:       "cancelled",
			target:     "/api/shortestPath?source=1&destinations=2",
			err:        util.WrapErrorf(routing.ErrCancelled, util.ErrServiceUnavailable, "search cancelled"),
			wantStatus: http.StatusServiceUnavailable, wantCode: "SERVICE_UNAVAILABLE",
		},
		{
			name:       "internal",
			target:     "/api/computeRoutes?origin_lat=-7&origin_lon=110&destination_lat=-7.1&destination_lon=110",
			err:        util.WrapErrorf(route.ErrMissingGeometry, util.ErrInternalServerError, "assemble route geometry"),
			wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeRoutingService{err: tt.err}, http_server.Config{}, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body testError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("heartbeat", func(t *testing.T) {
		rec := serve(t, &fakeRoutingService{}, http_server.Config{}, "/api/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		rec := serve(t, &fakeRoutingService{panicOnUse: true}, http_server.Config{}, "/api/shortestPath?source=1&destinations=2")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("rate limit", func(t *testing.T) {
		h := NewAPI(zap.NewNop()).Handler(http_server.Config{UseRateLimit: true, RateLimit: 0.001, RateBurst: 1},
			&fakeRoutingService{})
		codes := []int{}
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shortestPath?source=1&destinations=2", nil))
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		h := NewAPI(zap.NewNop()).Handler(http_server.Config{}, &fakeRoutingService{})
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/shortestPath?source=1&destinations=2", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "roadsearch_total_requests")
	})

	t.Run("real ip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		assert.Equal(t, "10.0.0.1", realIP(req))
	})
}

func TestAPIDocs(t *testing.T) {
	svc := &fakeRoutingService{}

	rec := serve(t, svc, http_server.Config{}, "/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "/api", doc.BasePath)
	for _, p := range []string{"/shortestPath", "/computeRoutes", "/healthz"} {
		assert.Contains(t, doc.Paths, p)
	}

	rec = serve(t, svc, http_server.Config{}, "/doc/index.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.json")
}
