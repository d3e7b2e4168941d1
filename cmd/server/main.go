// Package main provides the entry point for the Kling API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/davidseroussi/kling-api/internal/config"
	"github.com/davidseroussi/kling-api/internal/kling"
	"github.com/davidseroussi/kling-api/internal/media"
	"github.com/davidseroussi/kling-api/internal/server"
	"github.com/davidseroussi/kling-api/internal/storage"
	"github.com/davidseroussi/kling-api/internal/video"
	"github.com/davidseroussi/kling-api/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting Kling API",
		slog.Int("port", cfg.Port),
		slog.String("log_format", cfg.LogFormat),
		slog.String("log_level", cfg.LogLevel),
		slog.String("temp_dir", cfg.TempDir),
		slog.Duration("poll_interval", cfg.PollInterval),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	// Initialize storage
	var store storage.Storage
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, s3Cfg)
		if err != nil {
			return fmt.Errorf("create S3 storage: %w", err)
		}
		store = s3Store
		logger.Info("S3 archive configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
	} else {
		localStore, err := storage.NewLocalStorage(cfg.TempDir)
		if err != nil {
			return fmt.Errorf("create local storage: %w", err)
		}
		store = localStore
		logger.Info("local storage configured",
			slog.String("temp_dir", cfg.TempDir),
		)
	}

	// Initialize Kling client
	klingClient, err := kling.NewClient(cfg.KlingCookie, kling.WithBaseURL(cfg.KlingBaseURL))
	if err != nil {
		return fmt.Errorf("create Kling client: %w", err)
	}

	// Wire the job lifecycle components
	fetcher := media.NewFetcher(store)
	submitter := video.NewSubmitter(klingClient)
	translator := video.NewTranslator(klingClient, logger)
	notifier := webhook.NewNotifier(
		webhook.WithHTTPClient(&http.Client{Timeout: cfg.WebhookTimeout}),
	)
	poller := video.NewPoller(translator, notifier, logger,
		video.WithPollInterval(cfg.PollInterval),
	)
	svc := video.NewService(fetcher, submitter, translator, poller, store, logger)

	// Initialize HTTP handlers and router
	handlers := server.NewHandlers(svc, logger)
	router := server.NewRouter(handlers, logger, server.DefaultConfig())

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			slog.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-shutdownCh:
		logger.Info("received shutdown signal",
			slog.String("signal", sig.String()),
		)
	case err := <-errCh:
		return err
	}

	// Graceful shutdown with timeout. In-flight poll loops are abandoned;
	// the provider remains the source of truth for their tasks.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
