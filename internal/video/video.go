// Package video implements the video-generation job lifecycle: submission to
// the Kling provider, status translation, and the background poll loop that
// delivers a webhook notification once a terminal state is reached.
package video

import "github.com/davidseroussi/kling-api/internal/kling"

// State classifies a task at one observation instant. Exactly one state
// holds per observation; the provider is the source of truth and no state is
// persisted locally.
type State string

const (
	// StatePending indicates the provider has not finished the task.
	StatePending State = "pending"
	// StateCompleted indicates the provider finished the task successfully.
	StateCompleted State = "completed"
	// StateFailed indicates the provider declared the task failed.
	StateFailed State = "failed"
	// StateError is synthesized locally when the polling mechanism itself
	// fails. It is distinct from StateFailed.
	StateError State = "error"
)

// IsTerminal returns true if the state ends the poll loop.
func (s State) IsTerminal() bool {
	return s != StatePending
}

// classify maps a provider-reported status onto a State. Unknown statuses
// count as pending; the provider may report them any number of times before
// settling.
func classify(status kling.TaskStatus) State {
	switch status {
	case kling.StatusCompleted:
		return StateCompleted
	case kling.StatusFailed:
		return StateFailed
	default:
		return StatePending
	}
}
