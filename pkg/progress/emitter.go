package progress

import (
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/types"
)

// Reporter is the pipeline-facing progress interface. The pipeline reports
// coarse checkpoints; it does not know about transport or subscribers.
type Reporter interface {
	Report(message string, percentage int)
}

// Sink receives every event an emitter produces, in emission order.
type Sink func(types.ProgressEvent)

// Emitter normalizes step-level progress into timestamped events for one
// task and forwards each to an optional caller sink and to the hub room
// for the task id.
type Emitter struct {
	taskID string
	hub    *Hub
	sink   Sink
}

// NewEmitter creates an emitter for a task. hub and sink may each be nil.
func NewEmitter(taskID string, hub *Hub, sink Sink) *Emitter {
	return &Emitter{taskID: taskID, hub: hub, sink: sink}
}

// Report emits a progress checkpoint event.
func (e *Emitter) Report(message string, percentage int) {
	e.emit(types.NewProgressEvent(e.taskID, message, percentage))
}

// Completed emits the terminal success event.
func (e *Emitter) Completed(message, resultURL string) {
	e.emit(types.NewCompletedEvent(e.taskID, message, resultURL))
}

// Failed emits the terminal failure event.
func (e *Emitter) Failed(message string) {
	e.emit(types.NewErrorEvent(e.taskID, message))
}

func (e *Emitter) emit(event types.ProgressEvent) {
	logging.Debug("progress",
		zap.String("task_id", event.TaskID),
		zap.String("type", string(event.Type)),
		zap.Int("percentage", event.Percentage),
		zap.String("message", event.Message),
	)

	if e.sink != nil {
		e.sink(event)
	}
	if e.hub != nil {
		e.hub.Publish(event)
	}
}
