package video

import (
	"context"
	"log/slog"
	"time"

	"github.com/davidseroussi/kling-api/internal/webhook"
)

// defaultPollInterval is the sleep between poll attempts.
const defaultPollInterval = 5 * time.Second

// failedMessage is the provider-agnostic description delivered to webhooks
// when the provider declares a task failed.
const failedMessage = "Video generation failed"

// PollRunner launches the background poll loop for one task.
type PollRunner interface {
	Run(ctx context.Context, taskID, webhookURL string)
}

// Compile-time check that Poller implements PollRunner.
var _ PollRunner = (*Poller)(nil)

// Poller repeatedly translates a task's status until a terminal state is
// observed, then performs at most one webhook delivery. It holds no state
// across runs; loops for different tasks are fully independent.
type Poller struct {
	translator StatusTranslator
	notifier   webhook.Notifier
	interval   time.Duration
	logger     *slog.Logger
}

// PollerOption is a function that configures a Poller.
type PollerOption func(*Poller)

// WithPollInterval sets the sleep between poll attempts.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// NewPoller creates a new Poller.
func NewPoller(translator StatusTranslator, notifier webhook.Notifier, logger *slog.Logger, opts ...PollerOption) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		translator: translator,
		notifier:   notifier,
		interval:   defaultPollInterval,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls the task until a terminal state is observed, then delivers one
// webhook notification and returns. Callers launch it on its own goroutine;
// nothing inside the loop is visible to the request that started it. An
// unbounded stream of pending states polls indefinitely until ctx is done.
func (p *Poller) Run(ctx context.Context, taskID, webhookURL string) {
	for {
		state, urls, err := p.translator.Translate(ctx, taskID)
		if err != nil {
			p.deliver(ctx, taskID, webhookURL, webhook.Errored(taskID, err.Error()))
			return
		}

		switch state {
		case StateCompleted:
			p.deliver(ctx, taskID, webhookURL, webhook.Completed(taskID, urls))
			return
		case StateFailed:
			p.deliver(ctx, taskID, webhookURL, webhook.Failed(taskID, failedMessage))
			return
		}

		select {
		case <-ctx.Done():
			// Teardown mid-poll abandons the loop; no webhook is sent.
			p.logger.Warn("poll loop abandoned",
				slog.String("task_id", taskID),
				slog.Any("error", ctx.Err()),
			)
			return
		case <-time.After(p.interval):
		}
	}
}

// deliver performs the single webhook attempt. A failed delivery is logged
// and never retried.
func (p *Poller) deliver(ctx context.Context, taskID, webhookURL string, payload webhook.Payload) {
	if webhookURL == "" {
		return
	}

	if err := p.notifier.Notify(ctx, webhookURL, payload); err != nil {
		p.logger.Warn("webhook delivery failed",
			slog.String("task_id", taskID),
			slog.String("status", payload.Status),
			slog.Any("error", err),
		)
		return
	}

	p.logger.Info("webhook delivered",
		slog.String("task_id", taskID),
		slog.String("status", payload.Status),
	)
}
