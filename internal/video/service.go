package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davidseroussi/kling-api/internal/storage"
)

// ErrPromptRequired is returned when a creation request has no prompt.
var ErrPromptRequired = errors.New("video: prompt is required")

// ImageFetcher acquires a local copy of a remote source image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (path string, err error)
}

// CreateVideoInput is a validated creation request.
type CreateVideoInput struct {
	Prompt      string
	ImageURL    string
	ImagePath   string
	HighQuality bool
	AutoExtend  bool
	ModelName   string
	WebhookURL  string
}

// VideoStatus is the synchronous status snapshot returned to API callers.
type VideoStatus struct {
	TaskID    string
	State     State
	VideoURLs []string
}

// Service composes the media fetcher, submitter, translator and poll loop
// behind the two externally visible operations.
type Service struct {
	fetcher    ImageFetcher
	submitter  TaskSubmitter
	translator StatusTranslator
	poller     PollRunner
	store      storage.Storage
	logger     *slog.Logger
}

// NewService creates a new Service.
func NewService(
	fetcher ImageFetcher,
	submitter TaskSubmitter,
	translator StatusTranslator,
	poller PollRunner,
	store storage.Storage,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:    fetcher,
		submitter:  submitter,
		translator: translator,
		poller:     poller,
		store:      store,
		logger:     logger,
	}
}

// CreateVideo submits a generation task and returns its ID. When the input
// carries an image URL, the image is downloaded to a temporary file which
// replaces the URL, so exactly one image source reaches the provider; the
// file is deleted after submission regardless of outcome. When a webhook URL
// was supplied, the poll loop is launched detached from the request.
func (s *Service) CreateVideo(ctx context.Context, input CreateVideoInput) (string, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return "", ErrPromptRequired
	}

	imagePath := input.ImagePath
	if input.ImageURL != "" {
		fetched, err := s.fetcher.Fetch(ctx, input.ImageURL)
		if err != nil {
			return "", err
		}
		imagePath = fetched
		input.ImageURL = ""
		defer func() {
			if err := s.store.CleanupTemp(ctx, []string{fetched}); err != nil {
				s.logger.Warn("temp image cleanup failed",
					slog.String("path", fetched),
					slog.Any("error", err),
				)
			}
		}()

		s.archiveSourceImage(ctx, fetched)
	}

	taskID, err := s.submitter.Submit(ctx, SubmitInput{
		Prompt:      input.Prompt,
		ImagePath:   imagePath,
		HighQuality: input.HighQuality,
		AutoExtend:  input.AutoExtend,
		ModelName:   input.ModelName,
	})
	if err != nil {
		return "", err
	}

	if input.WebhookURL != "" {
		// Fire-and-forget: the loop outlives the request and its failure is
		// invisible to the caller. WithoutCancel keeps it alive after the
		// request context ends.
		go s.poller.Run(context.WithoutCancel(ctx), taskID, input.WebhookURL)
	}

	s.logger.Info("task created",
		slog.String("task_id", taskID),
		slog.Bool("image_provided", imagePath != ""),
		slog.Bool("webhook_registered", input.WebhookURL != ""),
	)

	return taskID, nil
}

// GetVideoStatus performs one status translation and returns the snapshot.
// A mechanism failure is returned as an error for the HTTP layer to map.
func (s *Service) GetVideoStatus(ctx context.Context, taskID string) (VideoStatus, error) {
	state, urls, err := s.translator.Translate(ctx, taskID)
	if err != nil {
		return VideoStatus{}, err
	}
	if urls == nil {
		urls = []string{}
	}
	return VideoStatus{TaskID: taskID, State: state, VideoURLs: urls}, nil
}

// archiveSourceImage uploads a best-effort copy of the fetched source image
// to the configured archive. Failures never block submission.
func (s *Service) archiveSourceImage(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("open image for archive failed",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return
	}
	defer func() { _ = f.Close() }()

	key := fmt.Sprintf("sources/%s/%s", time.Now().Format("2006-01-02"), filepath.Base(path))
	url, err := s.store.ArchiveImage(ctx, key, f)
	if errors.Is(err, storage.ErrArchiveNotConfigured) {
		return
	}
	if err != nil {
		s.logger.Warn("source image archive failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("source image archived", slog.String("url", url))
}
