// Package metrics exposes Prometheus instrumentation for the publication
// service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tasksStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpilot_tasks_started_total",
		Help: "Number of publication tasks accepted",
	})
	tasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpilot_tasks_completed_total",
		Help: "Number of publication tasks that finished successfully",
	})
	tasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpilot_tasks_failed_total",
		Help: "Number of publication tasks that exhausted their retries",
	})
	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adpilot_task_duration_seconds",
		Help:    "End-to-end duration of publication tasks",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	streamSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "adpilot_stream_subscribers",
		Help: "Number of connected progress stream subscribers",
	})
	eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adpilot_progress_events_total",
		Help: "Number of progress events published",
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// TaskObserver records task lifecycle metrics.
type TaskObserver struct{}

func (TaskObserver) TaskStarted() {
	tasksStarted.Inc()
}

func (TaskObserver) TaskCompleted(duration time.Duration) {
	tasksCompleted.Inc()
	taskDuration.Observe(duration.Seconds())
}

func (TaskObserver) TaskFailed(duration time.Duration) {
	tasksFailed.Inc()
	taskDuration.Observe(duration.Seconds())
}

// HubObserver adapts the hub's observer interface onto Prometheus.
type HubObserver struct{}

func (HubObserver) IncSubscribers() {
	streamSubscribers.Inc()
}

func (HubObserver) DecSubscribers() {
	streamSubscribers.Dec()
}

func (HubObserver) RecordEvent() {
	eventsPublished.Inc()
}
