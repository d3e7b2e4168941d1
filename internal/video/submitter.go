package video

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidseroussi/kling-api/internal/kling"
)

// ErrSubmission wraps any provider failure during task creation. Submission
// is a single attempt; the HTTP layer maps this to a client error.
var ErrSubmission = errors.New("video: task submission failed")

// SubmitInput contains the parameters forwarded to the provider.
type SubmitInput struct {
	Prompt      string
	ImagePath   string
	HighQuality bool
	AutoExtend  bool
	ModelName   string
}

// TaskSubmitter translates a creation request into one provider call.
type TaskSubmitter interface {
	Submit(ctx context.Context, input SubmitInput) (taskID string, err error)
}

// Compile-time check that Submitter implements TaskSubmitter.
var _ TaskSubmitter = (*Submitter)(nil)

// Submitter submits generation tasks through the Kling client.
type Submitter struct {
	client kling.Client
}

// NewSubmitter creates a new Submitter.
func NewSubmitter(client kling.Client) *Submitter {
	return &Submitter{client: client}
}

// Submit sends a single creation attempt to the provider and returns the
// opaque task ID. It neither creates nor deletes the image file; the caller
// supplies the path and owns its lifetime.
func (s *Submitter) Submit(ctx context.Context, input SubmitInput) (string, error) {
	taskID, err := s.client.CreateTask(ctx, kling.TaskInput{
		Prompt:      input.Prompt,
		ImagePath:   input.ImagePath,
		HighQuality: input.HighQuality,
		AutoExtend:  input.AutoExtend,
		ModelName:   input.ModelName,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	return taskID, nil
}
