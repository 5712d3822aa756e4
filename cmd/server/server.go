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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/infrastructure"
	"github.com/janhq/chat-assistant/internal/infrastructure/logger"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/infrastructure/observability"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	infra      *infrastructure.Infrastructure
}

// @title Chat Assistant API
// @version 1.0
// @description Chat assistant backend with conversation history, content filtering and a product catalog mode.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func (application *Application) Start(ctx context.Context, cfg *config.Config) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return runMetricsServer(ctx, cfg)
	})
	eg.Go(func() error {
		return application.infra.Crontab.Run(ctx)
	})
	eg.Go(func() error {
		return application.httpServer.Run(ctx)
	})

	err := eg.Wait()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer drainCancel()
	if drainErr := application.infra.Dispatcher.Shutdown(drainCtx); drainErr != nil {
		application.infra.Logger.Warn().Err(drainErr).Msg("background tasks did not finish before shutdown")
	}
	return err
}

func runMetricsServer(ctx context.Context, cfg *config.Config) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	loadEnvFiles()

	if err := run(); err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Msg("application stopped with error")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := CreateApplication()
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer cleanup()

	cfg := config.GetGlobal()
	log := logger.GetLogger()

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	log.Info().
		Str("store", cfg.StoreDriver).
		Str("assistant_mode", cfg.AssistantMode).
		Str("history_mode", cfg.HistoryMode).
		Msg("starting chat assistant")

	if err := application.Start(ctx, cfg); err != nil {
		return err
	}
	log.Info().Msg("application exited cleanly")
	return nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
