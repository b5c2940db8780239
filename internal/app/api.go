package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	v1 "github.com/jaennil/guide_helper/backend/featurecache/internal/infrastructure/http/v1"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/infrastructure/http/v1/handler"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/repository/cache"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/usecase"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/config"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/http_server"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/logger"
	"github.com/jaennil/guide_helper/backend/featurecache/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func Run(cfg *config.Config) {
	l := logger.NewZapLogger(cfg.Logger)
	defer l.Sync()

	l.Info("app config", "cfg", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithLogger(ctx, l)

	if cfg.Telemetry.Enabled {
		shutdownTracer, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
			Environment:    cfg.Telemetry.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		}, l)
		if err != nil {
			l.Fatal("failed to initialize tracer", "error", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				l.Error("tracer shutdown failed", "error", err)
			}
		}()
	}

	store, closeStore, err := cache.New(cfg.Cache, cfg.Redis, l)
	if err != nil {
		l.Fatal("failed to initialize tile store", "error", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			l.Error("failed to close tile store", "error", err)
		}
	}()

	registry := usecase.NewRegistry(
		usecase.WithStore(store),
		usecase.WithRefZoom(cfg.Cache.RefZoom),
		usecase.WithMaxSplitDelta(cfg.Cache.MaxSplitDelta),
		usecase.WithLimits(usecase.LimitsFromConfig(cfg.Cache.Limits)),
		usecase.WithLogger(l),
	)

	validate := validator.New()
	handler := handler.NewHandler(validate, registry)
	router := v1.NewRouter(handler, l, cfg.Telemetry.Enabled)

	httpServer := http_server.NewServer(ctx, cfg.HTTP.Server, router)

	healthServer, err := newHealthServer(cfg.Health.GRPCPort)
	if err != nil {
		l.Fatal("failed to listen for grpc health checks", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info("starting http server...", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		l.Info("http server stopped", "address", httpServer.Addr)
		return nil
	})

	g.Go(func() error {
		l.Info("starting grpc health server...", "address", healthServer.Addr())
		return healthServer.Serve()
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info("received shutdown signal")

		healthServer.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		l.Info("shutting down http server...", "address", httpServer.Addr)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			l.Error("http server shutdown failed", "error", err)
			return err
		}
		l.Info("http server shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Error("server failed", "error", err)
	}

	l.Info("application shutdown completed")
}
