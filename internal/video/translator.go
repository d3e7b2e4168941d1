package video

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davidseroussi/kling-api/internal/kling"
)

// StatusTranslator is the translation surface the poll loop and the
// orchestrator depend on.
type StatusTranslator interface {
	Translate(ctx context.Context, taskID string) (State, []string, error)
}

// Compile-time check that Translator implements StatusTranslator.
var _ StatusTranslator = (*Translator)(nil)

// Translator queries the provider for a task's current state and, when the
// task is completed, resolves each work into a playable media URL.
type Translator struct {
	client kling.Client
	logger *slog.Logger
}

// NewTranslator creates a new Translator.
func NewTranslator(client kling.Client, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{client: client, logger: logger}
}

// Translate returns the task's classified state and, for completed tasks,
// the resolved media URLs in the order the provider listed the works.
// A non-nil error means the polling mechanism itself failed, which is
// distinct from StateFailed; in that case the returned state is StateError.
func (t *Translator) Translate(ctx context.Context, taskID string) (State, []string, error) {
	meta, err := t.client.FetchMetadata(ctx, taskID)
	if err != nil {
		return StateError, nil, fmt.Errorf("fetch metadata: %w", err)
	}

	state := classify(meta.Status)
	if state != StateCompleted {
		return state, nil, nil
	}

	urls := make([]string, 0, len(meta.Works))
	for _, work := range meta.Works {
		resource, err := t.client.FetchWorkResource(ctx, work.WorkID)
		if err != nil || resource == "" {
			// One unresolvable work must not invalidate the batch.
			t.logger.Warn("skipping unresolved work",
				slog.String("task_id", taskID),
				slog.String("work_id", work.WorkID),
				slog.Any("error", err),
			)
			continue
		}
		urls = append(urls, resource)
	}

	return StateCompleted, urls, nil
}
