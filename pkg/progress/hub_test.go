package progress

import (
	"context"
	"testing"
	"time"

	"github.com/entrhq/adpilot/pkg/types"
)

func newRunningHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, 16)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func recvEvent(t *testing.T, ch chan types.ProgressEvent) types.ProgressEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("subscriber channel closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return types.ProgressEvent{}
}

func TestHubRoutesEventsByTask(t *testing.T) {
	hub, cancel := newRunningHub(t)
	defer cancel()

	subA := hub.Subscribe("task-a")
	subB := hub.Subscribe("task-b")

	hub.Publish(types.NewProgressEvent("task-a", "navigating", 20))

	ev := recvEvent(t, subA.Send)
	if ev.TaskID != "task-a" || ev.Message != "navigating" {
		t.Errorf("unexpected event %+v", ev)
	}

	select {
	case ev := <-subB.Send:
		t.Errorf("task-b subscriber received foreign event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPreservesEmissionOrder(t *testing.T) {
	hub, cancel := newRunningHub(t)
	defer cancel()

	sub := hub.Subscribe("task-1")

	messages := []string{"navigating", "logging in", "filling form", "uploading"}
	for i, msg := range messages {
		hub.Publish(types.NewProgressEvent("task-1", msg, i*10))
	}

	for _, want := range messages {
		ev := recvEvent(t, sub.Send)
		if ev.Message != want {
			t.Errorf("event out of order: got %q, want %q", ev.Message, want)
		}
	}
}

func TestHubLateSubscriberMissesEarlierEvents(t *testing.T) {
	hub, cancel := newRunningHub(t)
	defer cancel()

	// No subscribers yet; the event goes nowhere.
	hub.Publish(types.NewProgressEvent("task-1", "navigating", 20))

	sub := hub.Subscribe("task-1")
	hub.Publish(types.NewProgressEvent("task-1", "logging in", 30))

	ev := recvEvent(t, sub.Send)
	if ev.Message != "logging in" {
		t.Errorf("late subscriber saw replayed event %q", ev.Message)
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub, cancel := newRunningHub(t)
	defer cancel()

	sub := hub.Subscribe("task-1")
	hub.Unsubscribe(sub)

	select {
	case _, ok := <-sub.Send:
		if ok {
			t.Error("expected closed channel after unsubscribe")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber channel not closed")
	}
}

func TestHubShutdownClosesSubscribers(t *testing.T) {
	hub := NewHub(nil, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	sub := hub.Subscribe("task-1")
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-sub.Send; ok {
		t.Error("expected subscriber channel closed on shutdown")
	}
}
