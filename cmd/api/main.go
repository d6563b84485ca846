package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/riskibarqy/hr-admin/internal/app"
	"github.com/riskibarqy/hr-admin/internal/config"
	"github.com/riskibarqy/hr-admin/internal/observability"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("api stopped")
}

func run(cfg config.Config, logger *logging.Logger) error {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		return fmt.Errorf("start telemetry: %w", err)
	}

	application, err := app.New(rootCtx, cfg, logger)
	if err != nil {
		_ = telemetry.Shutdown(context.Background())
		return fmt.Errorf("build app: %w", err)
	}

	group, gctx := errgroup.WithContext(rootCtx)
	group.Go(func() error {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown started")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := application.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
		if err := application.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close app: %w", err))
		}
		if err := telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return group.Wait()
}
