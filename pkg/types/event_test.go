package types

import (
	"testing"
	"time"
)

func TestProgressEventConstructors(t *testing.T) {
	before := time.Now()

	progress := NewProgressEvent("task-1", "navigating", 20)
	if progress.Type != EventTypeProgress {
		t.Errorf("progress event type = %q, want %q", progress.Type, EventTypeProgress)
	}
	if progress.TaskID != "task-1" || progress.Message != "navigating" || progress.Percentage != 20 {
		t.Errorf("unexpected progress event: %+v", progress)
	}
	if progress.Terminal() {
		t.Error("progress event must not be terminal")
	}
	if progress.Timestamp.Before(before) {
		t.Error("progress event timestamp not set")
	}

	completed := NewCompletedEvent("task-1", "done", "https://example.com/my-ads")
	if completed.Type != EventTypeCompleted {
		t.Errorf("completed event type = %q, want %q", completed.Type, EventTypeCompleted)
	}
	if completed.Percentage != 100 {
		t.Errorf("completed percentage = %d, want 100", completed.Percentage)
	}
	if completed.ResultURL != "https://example.com/my-ads" {
		t.Errorf("completed resultURL = %q", completed.ResultURL)
	}
	if !completed.Terminal() {
		t.Error("completed event must be terminal")
	}

	failure := NewErrorEvent("task-1", "login rejected")
	if failure.Type != EventTypeError {
		t.Errorf("error event type = %q, want %q", failure.Type, EventTypeError)
	}
	if !failure.Terminal() {
		t.Error("error event must be terminal")
	}
	if failure.ResultURL != "" {
		t.Error("error event must not carry a result URL")
	}
}
