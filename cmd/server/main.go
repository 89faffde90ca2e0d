package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openmartech/adreport/internal/api"
	"github.com/openmartech/adreport/internal/config"
	"github.com/openmartech/adreport/internal/db"
	"github.com/openmartech/adreport/internal/middleware"
	"github.com/openmartech/adreport/internal/observability"
	"github.com/openmartech/adreport/internal/warehouse"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdownTracing, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.TempoEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdownTracing()
	}

	pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	store, err := db.InitRedis(cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer store.Close()

	// Initialize metrics registry
	metricsRegistry := observability.NewPrometheusRegistry()

	wh, err := warehouse.Init(cfg.ClickHouseDSN, cfg.CHMaxOpenConns, cfg.CHMaxIdleConns, cfg.CHConnMaxLifetime, cfg.CHConnMaxIdleTime, metricsRegistry)
	if err != nil {
		return fmt.Errorf("failed to connect clickhouse: %w", err)
	}
	defer wh.Close()

	r := mux.NewRouter()
	r.Use(middleware.WithTraceLogger(logger))

	srvDeps := api.NewServer(logger, wh, pg, store, metricsRegistry, cfg)
	srvDeps.Routes(r)

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.ServiceName),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Report server running", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
