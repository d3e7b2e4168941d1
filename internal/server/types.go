// Package server provides the HTTP server for the Kling API service.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// CreateVideoRequest is the HTTP request body for creating a generation task.
// At most one of image_url and image_path should be set; when image_url is
// given, the service downloads it and submits the local copy instead.
type CreateVideoRequest struct {
	// Prompt describes the video to generate.
	Prompt string `json:"prompt" validate:"required"`
	// ImageURL is an optional absolute URL of a source image.
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
	// ImagePath is an optional local path of a source image.
	ImagePath string `json:"image_path,omitempty"`
	// IsHighQuality requests high-quality rendering. Defaults to true.
	IsHighQuality *bool `json:"is_high_quality,omitempty"`
	// AutoExtend requests automatic extension of the generated clip.
	AutoExtend bool `json:"auto_extend"`
	// ModelName is the Kling model version tag. Defaults to "1.5".
	ModelName string `json:"model_name,omitempty"`
	// WebhookURL is an optional callback notified once on terminal state.
	WebhookURL string `json:"webhook_url,omitempty" validate:"omitempty,url"`
}

// CreateVideoResponse is the HTTP response after creating a task.
type CreateVideoResponse struct {
	// TaskID is the provider-issued identifier of the task.
	TaskID string `json:"task_id"`
}

// VideoStatusResponse is the HTTP response for a status query.
type VideoStatusResponse struct {
	// TaskID is the provider-issued identifier of the task.
	TaskID string `json:"task_id"`
	// Status is one of "pending", "completed" or "failed".
	Status string `json:"status"`
	// VideoURLs is the ordered list of resolved media URLs; empty unless
	// the task is completed.
	VideoURLs []string `json:"video_urls"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
