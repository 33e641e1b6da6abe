package types

// TaskStatus is the lifecycle state of a publication task. Transitions are
// driven only by the coordinator and the retry executor; a task has exactly
// one active attempt at a time.
type TaskStatus string

const (
	StatusQueued    TaskStatus = "QUEUED"    // StatusQueued means the task is accepted but not yet running.
	StatusRunning   TaskStatus = "RUNNING"   // StatusRunning means an attempt is in flight.
	StatusRetrying  TaskStatus = "RETRYING"  // StatusRetrying means the previous attempt failed and a new one is pending.
	StatusCompleted TaskStatus = "COMPLETED" // StatusCompleted is the terminal success state.
	StatusFailed    TaskStatus = "FAILED"    // StatusFailed is the terminal failure state.
)

// Terminal reports whether the status is an end state.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// transition.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	switch s {
	case StatusQueued:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusRetrying || next == StatusCompleted || next == StatusFailed
	case StatusRetrying:
		// The retry executor can abort during backoff, so a task waiting
		// on its next attempt may still fail terminally.
		return next == StatusRunning || next == StatusFailed
	default:
		return false
	}
}
