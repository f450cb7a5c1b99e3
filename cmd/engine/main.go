package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/roadsearch/pkg/engine"
	"github.com/lintang-b-s/roadsearch/pkg/http"
	"github.com/lintang-b-s/roadsearch/pkg/http/usecases"
	"github.com/lintang-b-s/roadsearch/pkg/logger"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"go.uber.org/zap"
)

var (
	configDir = flag.String("config_dir", "./data/", "directory containing config.yaml")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(*configDir); err != nil {
		logger.Fatal("read config", zap.Error(err))
	}
	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	routingEngine, err := engine.NewEngine(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("start engine", zap.Error(err))
	}
	defer routingEngine.Close()

	routingService := usecases.NewRoutingService(logger, routingEngine, cfg.DefaultMode, cfg.SnapRadiusKm)

	api := http.NewServer(logger).Use(ctx, cfg, routingService)

	signal := http.GracefulShutdown()
	logger.Info("roadsearch server stopping", zap.String("signal", signal.String()))
	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
