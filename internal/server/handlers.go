package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/davidseroussi/kling-api/internal/media"
	"github.com/davidseroussi/kling-api/internal/video"
)

// defaultModelName is submitted when the request omits model_name.
const defaultModelName = "1.5"

// VideoService is the orchestrator surface the HTTP layer depends on.
type VideoService interface {
	CreateVideo(ctx context.Context, input video.CreateVideoInput) (taskID string, err error)
	GetVideoStatus(ctx context.Context, taskID string) (video.VideoStatus, error)
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   VideoService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service VideoService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CreateVideo handles POST /api/v1/create-video requests.
func (h *Handlers) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	// Apply source defaults: high quality on, model 1.5
	highQuality := true
	if req.IsHighQuality != nil {
		highQuality = *req.IsHighQuality
	}
	modelName := req.ModelName
	if modelName == "" {
		modelName = defaultModelName
	}

	taskID, err := h.service.CreateVideo(r.Context(), video.CreateVideoInput{
		Prompt:      req.Prompt,
		ImageURL:    req.ImageURL,
		ImagePath:   req.ImagePath,
		HighQuality: highQuality,
		AutoExtend:  req.AutoExtend,
		ModelName:   modelName,
		WebhookURL:  req.WebhookURL,
	})
	if err != nil {
		h.logger.Warn("failed to create task",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), createErrorCode(err))
		return
	}

	h.logger.Info("task created",
		slog.String("task_id", taskID),
	)

	writeJSON(w, http.StatusOK, CreateVideoResponse{TaskID: taskID})
}

// GetVideoStatus handles GET /api/v1/video-status/{task_id} requests.
func (h *Handlers) GetVideoStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "task ID is required", "MISSING_TASK_ID")
		return
	}

	status, err := h.service.GetVideoStatus(r.Context(), taskID)
	if err != nil {
		h.logger.Warn("failed to fetch task status",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "STATUS_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, VideoStatusResponse{
		TaskID:    status.TaskID,
		Status:    string(status.State),
		VideoURLs: status.VideoURLs,
	})
}

// createErrorCode maps creation failures to response codes.
func createErrorCode(err error) string {
	switch {
	case errors.Is(err, video.ErrPromptRequired):
		return "PROMPT_REQUIRED"
	case errors.Is(err, media.ErrFetch):
		return "IMAGE_FETCH_FAILED"
	case errors.Is(err, video.ErrSubmission):
		return "SUBMISSION_FAILED"
	default:
		return "TASK_CREATION_FAILED"
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
