package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ametow/leakgate/internal/config"
	"github.com/ametow/leakgate/internal/metrics"
	"github.com/ametow/leakgate/internal/server"
	"github.com/ametow/leakgate/internal/service"
	"github.com/ametow/leakgate/internal/upstream/leakosint"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("config load failed", zap.Error(err))
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("logger init failed", zap.Error(err))
	}
	defer logger.Sync()

	m := metrics.New()

	client := leakosint.New(leakosint.Config{
		Token:   cfg.Upstream.Token,
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, logger)

	svc := service.NewProxyService(service.ProxyDeps{
		Upstream: client,
		Logger:   logger,
		Metrics:  m,
	})

	srv := server.New(server.Deps{
		Service:        svc,
		Logger:         logger,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	run(logger, cfg, srv.Handler())
}

// run serves the API and metrics endpoints until SIGINT/SIGTERM, then
// shuts both down gracefully.
func run(logger *zap.Logger, cfg *config.Config, handler http.Handler) {
	apiSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.Server.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := apiSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("metrics listening", zap.String("addr", cfg.Server.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api shutdown failed", zap.Error(err))
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
