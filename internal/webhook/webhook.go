// Package webhook delivers terminal task outcomes to caller-registered URLs.
// Delivery is best-effort: one attempt per task, no retry.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Payload statuses carried in webhook bodies.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusError     = "error"
)

// ErrDeliveryFailed is returned when the webhook target responds with a
// non-2xx status code.
var ErrDeliveryFailed = errors.New("webhook: delivery failed")

// Payload is the JSON body posted to a webhook target. It is a tagged union:
// completed payloads carry video URLs, failed and error payloads carry an
// error description.
type Payload struct {
	TaskID    string   `json:"task_id"`
	Status    string   `json:"status"`
	VideoURLs []string `json:"video_urls,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Completed builds the payload for a successfully generated task.
func Completed(taskID string, videoURLs []string) Payload {
	if videoURLs == nil {
		videoURLs = []string{}
	}
	return Payload{TaskID: taskID, Status: StatusCompleted, VideoURLs: videoURLs}
}

// Failed builds the payload for a provider-declared failure.
func Failed(taskID, message string) Payload {
	return Payload{TaskID: taskID, Status: StatusFailed, Error: message}
}

// Errored builds the payload for a polling mechanism failure, which is
// distinct from a provider-declared one.
func Errored(taskID, message string) Payload {
	return Payload{TaskID: taskID, Status: StatusError, Error: message}
}

// Notifier posts terminal outcome payloads to webhook targets.
type Notifier interface {
	Notify(ctx context.Context, url string, payload Payload) error
}

// Compile-time check that HTTPNotifier implements Notifier.
var _ Notifier = (*HTTPNotifier)(nil)

// HTTPNotifier is the HTTP implementation of Notifier.
type HTTPNotifier struct {
	httpClient *http.Client
}

// NotifierOption is a function that configures an HTTPNotifier.
type NotifierOption func(*HTTPNotifier)

// WithHTTPClient sets a custom HTTP client for deliveries.
func WithHTTPClient(c *http.Client) NotifierOption {
	return func(n *HTTPNotifier) {
		n.httpClient = c
	}
}

// NewNotifier creates a new HTTPNotifier.
func NewNotifier(opts ...NotifierOption) *HTTPNotifier {
	n := &HTTPNotifier{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts the payload to url as JSON. It makes exactly one attempt.
func (n *HTTPNotifier) Notify(ctx context.Context, url string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	return nil
}
