package types

import "time"

// ProgressEventType defines the kind of event emitted while a publication
// task runs.
type ProgressEventType string

const (
	EventTypeProgress  ProgressEventType = "progress"  // EventTypeProgress reports a checkpoint within an attempt.
	EventTypeCompleted ProgressEventType = "completed" // EventTypeCompleted is the terminal success event.
	EventTypeError     ProgressEventType = "error"     // EventTypeError is the terminal failure event.
)

// ProgressEvent is a single timestamped status update for a publication
// task. Events are emitted in execution order within one attempt; across
// retry attempts only local ordering is guaranteed.
type ProgressEvent struct {
	// TaskID identifies the task this event belongs to.
	TaskID string `json:"taskId"`

	// Type indicates the kind of event.
	Type ProgressEventType `json:"type"`

	// Message is a human-readable description of the checkpoint.
	Message string `json:"message"`

	// Percentage is a coarse completion estimate (0-100). It may reset
	// when an attempt is restarted.
	Percentage int `json:"percentage"`

	// ResultURL points at the published listing, set only on completed
	// events.
	ResultURL string `json:"resultUrl,omitempty"`

	// Timestamp records when the event was produced.
	Timestamp time.Time `json:"timestamp"`
}

// NewProgressEvent builds a progress checkpoint event for a task.
func NewProgressEvent(taskID, message string, percentage int) ProgressEvent {
	return ProgressEvent{
		TaskID:     taskID,
		Type:       EventTypeProgress,
		Message:    message,
		Percentage: percentage,
		Timestamp:  time.Now(),
	}
}

// NewCompletedEvent builds the terminal success event for a task.
func NewCompletedEvent(taskID, message, resultURL string) ProgressEvent {
	return ProgressEvent{
		TaskID:     taskID,
		Type:       EventTypeCompleted,
		Message:    message,
		Percentage: 100,
		ResultURL:  resultURL,
		Timestamp:  time.Now(),
	}
}

// NewErrorEvent builds the terminal failure event for a task.
func NewErrorEvent(taskID, message string) ProgressEvent {
	return ProgressEvent{
		TaskID:    taskID,
		Type:      EventTypeError,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Terminal reports whether the event ends the task's stream.
func (e ProgressEvent) Terminal() bool {
	return e.Type == EventTypeCompleted || e.Type == EventTypeError
}
