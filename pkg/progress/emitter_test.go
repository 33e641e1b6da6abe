package progress

import (
	"testing"

	"github.com/entrhq/adpilot/pkg/types"
)

func TestEmitterForwardsToSink(t *testing.T) {
	var events []types.ProgressEvent
	emitter := NewEmitter("task-1", nil, func(ev types.ProgressEvent) {
		events = append(events, ev)
	})

	emitter.Report("navigating", 20)
	emitter.Report("logging in", 30)
	emitter.Completed("published", "https://www.encuentra24.com/mis-anuncios")

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Type != types.EventTypeProgress || events[0].Percentage != 20 {
		t.Errorf("unexpected first event %+v", events[0])
	}
	if events[1].Message != "logging in" {
		t.Errorf("events out of order: %+v", events[1])
	}
	last := events[2]
	if last.Type != types.EventTypeCompleted || last.ResultURL == "" {
		t.Errorf("unexpected terminal event %+v", last)
	}
	for _, ev := range events {
		if ev.TaskID != "task-1" {
			t.Errorf("event with wrong task id: %+v", ev)
		}
		if ev.Timestamp.IsZero() {
			t.Errorf("event missing timestamp: %+v", ev)
		}
	}
}

func TestEmitterFailedEvent(t *testing.T) {
	var got types.ProgressEvent
	emitter := NewEmitter("task-2", nil, func(ev types.ProgressEvent) { got = ev })

	emitter.Failed("login rejected: bad credentials")

	if got.Type != types.EventTypeError {
		t.Errorf("event type = %q, want error", got.Type)
	}
	if got.Message != "login rejected: bad credentials" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestEmitterNilSinkAndHub(t *testing.T) {
	emitter := NewEmitter("task-3", nil, nil)
	// Must not panic.
	emitter.Report("navigating", 20)
	emitter.Failed("boom")
}
