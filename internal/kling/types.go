// Package kling provides an HTTP client for the Kling video generation API.
package kling

import "encoding/json"

// TaskStatus is the numeric task status reported by the Kling API.
type TaskStatus int

// Kling task statuses as observed on the wire. Anything that is neither
// completed nor failed counts as still pending.
const (
	StatusSubmitted  TaskStatus = 5
	StatusProcessing TaskStatus = 10
	StatusFailed     TaskStatus = 50
	StatusCompleted  TaskStatus = 99
)

// IsTerminal returns true if the status is a terminal state.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// TaskInput contains the parameters for creating a generation task.
type TaskInput struct {
	Prompt      string // Prompt text describing the video to generate
	ImagePath   string // Optional local path to a source image for image-to-video
	HighQuality bool   // Request high-quality rendering
	AutoExtend  bool   // Request automatic extension of the generated clip
	ModelName   string // Kling model version tag, e.g. "1.5"
}

// Work is one artifact produced within a task.
type Work struct {
	WorkID string
}

// Metadata is the provider-reported state of a task.
type Metadata struct {
	Status TaskStatus
	Works  []Work
}

// Task types used by the Kling submit endpoint.
const (
	taskTypeText2Video  = "m2v_txt2video"
	taskTypeImage2Video = "m2v_img2video"
)

// argument is one name/value pair in a submit request.
type argument struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// taskInputRef references an uploaded resource in a submit request.
type taskInputRef struct {
	Name      string `json:"name"`
	InputType string `json:"inputType"`
	URL       string `json:"url"`
}

// submitRequest is the request body for the task submit endpoint.
type submitRequest struct {
	Type      string         `json:"type"`
	Arguments []argument     `json:"arguments"`
	Inputs    []taskInputRef `json:"inputs"`
}

// envelope is the common wrapper around Kling API responses.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// submitResponse is the response from the task submit endpoint.
type submitResponse struct {
	envelope
	Data struct {
		Task struct {
			ID json.Number `json:"id"`
		} `json:"task"`
	} `json:"data"`
}

// taskResponse is the response from the task metadata endpoint.
type taskResponse struct {
	envelope
	Data struct {
		Status int           `json:"status"`
		Works  []workPayload `json:"works"`
	} `json:"data"`
}

// workPayload is one work entry in a task metadata response.
type workPayload struct {
	WorkID json.Number `json:"workId"`
}

// resourceResponse is the response from the per-work resource endpoint.
type resourceResponse struct {
	envelope
	Data struct {
		Resource string `json:"resource"`
	} `json:"data"`
}

// uploadResponse is the response from the image upload endpoint.
type uploadResponse struct {
	envelope
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}
