// Package progress carries task progress events from the automation
// pipeline to external observers. Events are fanned out per task id; there
// is no buffering or replay, so a subscriber joining after a checkpoint
// event misses it. That is acceptable for a live-status stream and is a
// documented limitation.
package progress

import (
	"context"

	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/types"
)

// Observer receives hub lifecycle signals, typically for metrics.
type Observer interface {
	IncSubscribers()
	DecSubscribers()
	RecordEvent()
}

// NopObserver is an Observer that does nothing.
type NopObserver struct{}

func (NopObserver) IncSubscribers() {}
func (NopObserver) DecSubscribers() {}
func (NopObserver) RecordEvent()    {}

// Subscriber is one external observer of a single task's event stream.
type Subscriber struct {
	// TaskID is the task whose events this subscriber receives.
	TaskID string

	// Send delivers events to the subscriber. Closed by the hub on
	// unregister or when the subscriber falls behind.
	Send chan types.ProgressEvent
}

// Hub fans progress events out to task-scoped subscriber rooms. All state
// is owned by the Run loop; registration, unregistration and broadcast go
// through channels so no lock is needed.
type Hub struct {
	rooms      map[string]map[*Subscriber]bool
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan types.ProgressEvent
	observer   Observer
	bufferSize int
}

// NewHub creates a hub. bufferSize is the per-subscriber channel capacity;
// a subscriber whose buffer is full is dropped rather than allowed to
// stall the broadcast loop.
func NewHub(observer Observer, bufferSize int) *Hub {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Hub{
		rooms:      make(map[string]map[*Subscriber]bool),
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		broadcast:  make(chan types.ProgressEvent),
		observer:   observer,
		bufferSize: bufferSize,
	}
}

// Subscribe registers a new subscriber for the given task id.
func (h *Hub) Subscribe(taskID string) *Subscriber {
	sub := &Subscriber{
		TaskID: taskID,
		Send:   make(chan types.ProgressEvent, h.bufferSize),
	}
	h.register <- sub
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unregister <- sub
}

// Publish delivers an event to every subscriber of its task.
func (h *Hub) Publish(event types.ProgressEvent) {
	h.broadcast <- event
}

// Run owns the hub state until ctx is cancelled, then closes every
// subscriber channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for sub := range room {
					close(sub.Send)
				}
			}
			h.rooms = make(map[string]map[*Subscriber]bool)
			return

		case sub := <-h.register:
			room, ok := h.rooms[sub.TaskID]
			if !ok {
				room = make(map[*Subscriber]bool)
				h.rooms[sub.TaskID] = room
			}
			room[sub] = true
			h.observer.IncSubscribers()

		case sub := <-h.unregister:
			if room, ok := h.rooms[sub.TaskID]; ok && room[sub] {
				delete(room, sub)
				close(sub.Send)
				if len(room) == 0 {
					delete(h.rooms, sub.TaskID)
				}
				h.observer.DecSubscribers()
			}

		case event := <-h.broadcast:
			h.observer.RecordEvent()
			room := h.rooms[event.TaskID]
			for sub := range room {
				select {
				case sub.Send <- event:
				default:
					logging.Warn("dropping slow progress subscriber")
					delete(room, sub)
					close(sub.Send)
					h.observer.DecSubscribers()
				}
			}
			if len(room) == 0 {
				delete(h.rooms, event.TaskID)
			}
		}
	}
}
