package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/roadsearch/pkg/http/router/controllers"
	"github.com/lintang-b-s/roadsearch/pkg/http/router/docs"
	router_helper "github.com/lintang-b-s/roadsearch/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/roadsearch/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
	reg *prometheus.Registry
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log, reg: prometheus.NewRegistry()}
}

// Handler builds the router with its middleware chain.
func (api *API) Handler(config http_server.Config, routingService controllers.RoutingService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(api.reg, promhttp.HandlerOpts{}))
	router.GET("/doc/*any", swaggerHandler)
	router.GET("/openapi.json", openAPIHandler)

	group := router_helper.NewRouteGroup(router, "/api")
	routingRoutes := controllers.New(routingService, api.log)
	routingRoutes.Routes(group)

	m := NewMetrics(api.reg)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log)}
	if config.UseRateLimit {
		mwChain = append(mwChain, Limit(config.RateLimit, config.RateBurst))
	}
	mwChain = append(mwChain, PromeHttpMiddleware(m, router))
	return alice.New(mwChain...).Then(router)
}

func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	routingService controllers.RoutingService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(config, routingService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		_ = srv.Shutdown(context.Background())
		return nil
	}
}

var swaggerUI = httpSwagger.Handler(httpSwagger.URL("/openapi.json"))

func swaggerHandler(res http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	swaggerUI.ServeHTTP(res, req)
}

func openAPIHandler(res http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	res.Header().Set("Content-Type", "application/json")
	res.Write(docs.OpenAPI)
}
