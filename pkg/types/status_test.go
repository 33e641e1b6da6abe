package types

import "testing"

func TestTaskStatusTransitions(t *testing.T) {
	tests := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{StatusQueued, StatusRunning, true},
		{StatusQueued, StatusCompleted, false},
		{StatusRunning, StatusRetrying, true},
		{StatusRunning, StatusCompleted, true},
		{StatusRunning, StatusFailed, true},
		{StatusRetrying, StatusRunning, true},
		{StatusRetrying, StatusFailed, true},
		{StatusRetrying, StatusCompleted, false},
		{StatusCompleted, StatusRunning, false},
		{StatusFailed, StatusRunning, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	for _, s := range []TaskStatus{StatusQueued, StatusRunning, StatusRetrying} {
		if s.Terminal() {
			t.Errorf("%s reported terminal", s)
		}
	}
	for _, s := range []TaskStatus{StatusCompleted, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%s not reported terminal", s)
		}
	}
}
