// Package main provides a standalone CLI that polls one task and notifies a
// webhook, useful for resuming notification of a task created elsewhere.
//
// Usage: pollwebhook <task_id> <webhook_url>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/davidseroussi/kling-api/internal/config"
	"github.com/davidseroussi/kling-api/internal/kling"
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
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <task_id> <webhook_url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return fmt.Errorf("expected 2 arguments, got %d", flag.NArg())
	}
	taskID := flag.Arg(0)
	webhookURL := flag.Arg(1)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	klingClient, err := kling.NewClient(cfg.KlingCookie, kling.WithBaseURL(cfg.KlingBaseURL))
	if err != nil {
		return fmt.Errorf("create Kling client: %w", err)
	}

	translator := video.NewTranslator(klingClient, logger)
	notifier := webhook.NewNotifier(
		webhook.WithHTTPClient(&http.Client{Timeout: cfg.WebhookTimeout}),
	)
	poller := video.NewPoller(translator, notifier, logger,
		video.WithPollInterval(cfg.PollInterval),
	)

	logger.Info("polling task",
		slog.String("task_id", taskID),
		slog.String("webhook_url", webhookURL),
	)

	// Runs in the foreground until a terminal state is delivered.
	poller.Run(context.Background(), taskID, webhookURL)

	return nil
}
