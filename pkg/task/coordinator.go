// Package task coordinates publication tasks: it assigns ids, runs the
// retry-wrapped publisher asynchronously and tracks lifecycle status.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/progress"
	"github.com/entrhq/adpilot/pkg/publisher"
	"github.com/entrhq/adpilot/pkg/types"
)

// Publisher runs one publication request to a terminal outcome.
type Publisher interface {
	Publish(ctx context.Context, taskID string, req publisher.Request, reporter progress.Reporter) types.Outcome[publisher.Response]
}

// Observer records task lifecycle metrics.
type Observer interface {
	TaskStarted()
	TaskCompleted(duration time.Duration)
	TaskFailed(duration time.Duration)
}

// NopObserver is an Observer that does nothing.
type NopObserver struct{}

func (NopObserver) TaskStarted()                      {}
func (NopObserver) TaskCompleted(time.Duration)       {}
func (NopObserver) TaskFailed(duration time.Duration) {}

// Coordinator accepts validated publication requests, acknowledges them
// immediately and drives each to exactly one terminal event. A task, once
// submitted, runs to completion or exhausted-retry failure; there is no
// mid-task cancellation.
type Coordinator struct {
	publisher Publisher
	hub       *progress.Hub
	observer  Observer

	mu       sync.RWMutex
	statuses map[string]types.TaskStatus

	wg sync.WaitGroup
}

// NewCoordinator creates a coordinator. hub may be nil when no external
// observers are wired; observer may be nil.
func NewCoordinator(pub Publisher, hub *progress.Hub, observer Observer) *Coordinator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Coordinator{
		publisher: pub,
		hub:       hub,
		observer:  observer,
		statuses:  make(map[string]types.TaskStatus),
	}
}

// Submit accepts a validated request, assigns a task id and starts the
// publication asynchronously. It always succeeds; the true outcome is
// observable only through the task's event stream.
func (c *Coordinator) Submit(req publisher.Request) string {
	taskID := uuid.New().String()

	c.mu.Lock()
	c.statuses[taskID] = types.StatusQueued
	c.mu.Unlock()

	c.observer.TaskStarted()
	logging.Info("publication task accepted",
		zap.String("task_id", taskID),
		zap.String("title", req.Listing.Title),
		zap.Int("photos", len(req.Photos)),
	)

	c.wg.Add(1)
	go c.run(taskID, req)

	return taskID
}

// Status returns the current lifecycle status for a task id.
func (c *Coordinator) Status(taskID string) (types.TaskStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	status, ok := c.statuses[taskID]
	return status, ok
}

// Wait blocks until all in-flight tasks reach a terminal state. Used on
// shutdown and in tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) run(taskID string, req publisher.Request) {
	defer c.wg.Done()
	start := time.Now()

	reporter := &taskReporter{
		Emitter:     progress.NewEmitter(taskID, c.hub, nil),
		coordinator: c,
		taskID:      taskID,
	}

	outcome := c.publisher.Publish(context.Background(), taskID, req, reporter)

	if resp, ok := outcome.Value(); ok {
		c.setStatus(taskID, types.StatusCompleted)
		reporter.Completed("publication finished successfully", resp.URL)
		c.observer.TaskCompleted(time.Since(start))
		logging.Info("publication task completed",
			zap.String("task_id", taskID),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}

	c.setStatus(taskID, types.StatusFailed)
	reporter.Failed(outcome.ErrorMessage())
	c.observer.TaskFailed(time.Since(start))
	logging.Error("publication task failed",
		zap.String("task_id", taskID),
		zap.String("error", outcome.ErrorMessage()),
		zap.Duration("duration", time.Since(start)),
	)
}

func (c *Coordinator) setStatus(taskID string, next types.TaskStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.statuses[taskID]
	if !current.CanTransition(next) {
		logging.Warn("illegal task status transition",
			zap.String("task_id", taskID),
			zap.String("from", string(current)),
			zap.String("to", string(next)),
		)
		return
	}
	c.statuses[taskID] = next
}

// taskReporter forwards progress events and mirrors the attempt lifecycle
// into the task status.
type taskReporter struct {
	*progress.Emitter
	coordinator *Coordinator
	taskID      string
}

func (r *taskReporter) AttemptStarted(attempt int) {
	r.coordinator.setStatus(r.taskID, types.StatusRunning)
}

func (r *taskReporter) Retrying(attempt int, err error) {
	r.coordinator.setStatus(r.taskID, types.StatusRetrying)
}
