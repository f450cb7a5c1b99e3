package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/roadsearch/pkg/engine"
	http_router "github.com/lintang-b-s/roadsearch/pkg/http/router"
	"github.com/lintang-b-s/roadsearch/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/roadsearch/pkg/http/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the API in the background. Wait returns once ctx is cancelled and the server has shut down.
func (s *Server) Use(
	ctx context.Context,
	cfg engine.Config,
	routingService controllers.RoutingService,
) *Server {
	config := http_server.Config{
		Port:         cfg.APIPort,
		Timeout:      cfg.APITimeout,
		UseRateLimit: cfg.UseRateLimit,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	}

	server := http_router.NewAPI(s.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, config, routingService)
	})
	s.g = g
	return s
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}

// GracefulShutdown blocks until SIGINT or SIGTERM.
func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
