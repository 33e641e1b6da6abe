package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/adpilot/pkg/progress"
	"github.com/entrhq/adpilot/pkg/publisher"
	"github.com/entrhq/adpilot/pkg/types"
)

type fakePublisher struct {
	outcome  types.Outcome[publisher.Response]
	progress []string
	retries  int
	started  chan struct{}
}

func (f *fakePublisher) Publish(ctx context.Context, taskID string, req publisher.Request, reporter progress.Reporter) types.Outcome[publisher.Response] {
	if f.started != nil {
		<-f.started
	}
	if listener, ok := reporter.(publisher.StatusListener); ok {
		listener.AttemptStarted(1)
		for i := 0; i < f.retries; i++ {
			listener.Retrying(i+1, context.DeadlineExceeded)
			listener.AttemptStarted(i + 2)
		}
	}
	for _, msg := range f.progress {
		reporter.Report(msg, 50)
	}
	return f.outcome
}

func testRequest() publisher.Request {
	return publisher.Request{
		Listing: types.Listing{Title: "Casa moderna en Carretera Sur"},
		Photos:  []types.Photo{{Path: "/tmp/1.jpg"}},
	}
}

func collectEvents(t *testing.T, sub *progress.Subscriber, release chan struct{}) []types.ProgressEvent {
	t.Helper()
	close(release)

	var events []types.ProgressEvent
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-sub.Send:
			events = append(events, ev)
			if ev.Terminal() {
				// Nothing may follow the terminal event.
				select {
				case extra := <-sub.Send:
					t.Fatalf("event after terminal: %+v", extra)
				case <-time.After(100 * time.Millisecond):
				}
				return events
			}
		case <-deadline:
			t.Fatal("no terminal event observed")
		}
	}
}

func TestCoordinatorEmitsSingleTerminalCompletedEvent(t *testing.T) {
	hub := progress.NewHub(nil, 32)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	release := make(chan struct{})
	pub := &fakePublisher{
		outcome:  types.Ok(publisher.Response{URL: "https://www.encuentra24.com/mis-anuncios"}),
		progress: []string{"navigating", "logging in"},
		started:  release,
	}
	coord := NewCoordinator(pub, hub, nil)

	taskID := coord.Submit(testRequest())
	require.NotEmpty(t, taskID)

	status, ok := coord.Status(taskID)
	require.True(t, ok)
	assert.Equal(t, types.StatusQueued, status)

	sub := hub.Subscribe(taskID)
	events := collectEvents(t, sub, release)
	coord.Wait()

	terminal := events[len(events)-1]
	assert.Equal(t, types.EventTypeCompleted, terminal.Type)
	assert.Equal(t, "https://www.encuentra24.com/mis-anuncios", terminal.ResultURL)

	for _, ev := range events[:len(events)-1] {
		assert.Equal(t, types.EventTypeProgress, ev.Type)
	}

	status, _ = coord.Status(taskID)
	assert.Equal(t, types.StatusCompleted, status)
}

func TestCoordinatorEmitsSingleTerminalErrorEvent(t *testing.T) {
	hub := progress.NewHub(nil, 32)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	release := make(chan struct{})
	pub := &fakePublisher{
		outcome: types.Fail[publisher.Response]("operation failed after 3 attempts, last error: unsupported category"),
		started: release,
	}
	coord := NewCoordinator(pub, hub, nil)

	taskID := coord.Submit(testRequest())
	sub := hub.Subscribe(taskID)
	events := collectEvents(t, sub, release)
	coord.Wait()

	terminal := events[len(events)-1]
	assert.Equal(t, types.EventTypeError, terminal.Type)
	assert.Contains(t, terminal.Message, "unsupported category")

	status, _ := coord.Status(taskID)
	assert.Equal(t, types.StatusFailed, status)
}

func TestCoordinatorTracksRetryingStatus(t *testing.T) {
	pub := &fakePublisher{
		outcome: types.Ok(publisher.Response{URL: "https://www.encuentra24.com/mis-anuncios"}),
		retries: 1,
	}
	coord := NewCoordinator(pub, nil, nil)

	taskID := coord.Submit(testRequest())
	coord.Wait()

	status, ok := coord.Status(taskID)
	require.True(t, ok)
	assert.Equal(t, types.StatusCompleted, status)
}

// abortingPublisher fails while the task is still waiting on its next
// attempt, the shape of a context cancellation during backoff.
type abortingPublisher struct{}

func (abortingPublisher) Publish(ctx context.Context, taskID string, req publisher.Request, reporter progress.Reporter) types.Outcome[publisher.Response] {
	if listener, ok := reporter.(publisher.StatusListener); ok {
		listener.AttemptStarted(1)
		listener.Retrying(1, context.Canceled)
	}
	return types.Fail[publisher.Response]("operation aborted: context canceled (last error: navigation timeout)")
}

func TestCoordinatorFailsTaskAbortedDuringBackoff(t *testing.T) {
	coord := NewCoordinator(abortingPublisher{}, nil, nil)

	taskID := coord.Submit(testRequest())
	coord.Wait()

	status, ok := coord.Status(taskID)
	require.True(t, ok)
	assert.Equal(t, types.StatusFailed, status)
}

func TestCoordinatorUnknownTask(t *testing.T) {
	coord := NewCoordinator(&fakePublisher{outcome: types.Fail[publisher.Response]("x")}, nil, nil)
	_, ok := coord.Status("no-such-task")
	assert.False(t, ok)
}

func TestCoordinatorConcurrentTasks(t *testing.T) {
	pub := &fakePublisher{outcome: types.Ok(publisher.Response{URL: "u"})}
	coord := NewCoordinator(pub, nil, nil)

	ids := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := coord.Submit(testRequest())
		assert.False(t, ids[id], "task id %s reused", id)
		ids[id] = true
	}
	coord.Wait()

	for id := range ids {
		status, ok := coord.Status(id)
		require.True(t, ok)
		assert.Equal(t, types.StatusCompleted, status)
	}
}
