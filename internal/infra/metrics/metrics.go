// Package metrics provides Prometheus metrics for taskdeck: the task API
// server, the outgoing task transport, and the dashboard engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// ─── API Server ─────────────────────────────────────────────────────────────

// APIRequests counts served requests by method, route pattern and status.
var APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskdeck",
	Name:      "api_requests_total",
	Help:      "Total HTTP requests served by the task API.",
}, []string{"method", "route", "status"})

// APILatency tracks request handling time by route pattern.
var APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "taskdeck",
	Name:      "api_request_duration_seconds",
	Help:      "Task API request duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
}, []string{"route"})

// LoginAttempts counts logins by result (ok, rejected).
var LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskdeck",
	Name:      "login_attempts_total",
	Help:      "Total login attempts by result.",
}, []string{"result"})

// TasksStored tracks the number of tasks held by the server.
var TasksStored = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "taskdeck",
	Name:      "tasks_stored",
	Help:      "Number of tasks in server storage.",
})

// ─── Transport ──────────────────────────────────────────────────────────────

// TransportLatency tracks outgoing task API calls by operation.
var TransportLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "taskdeck",
	Name:      "transport_request_duration_seconds",
	Help:      "Outgoing task API call duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"op"})

// TransportErrors counts failed outgoing calls by operation and kind.
var TransportErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskdeck",
	Name:      "transport_errors_total",
	Help:      "Total failed task API calls.",
}, []string{"op", "kind"})

// ─── Dashboard Engine ───────────────────────────────────────────────────────

// EngineOperations counts engine operations by op and result (ok, error, denied, discarded).
var EngineOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskdeck",
	Name:      "engine_operations_total",
	Help:      "Total dashboard engine operations.",
}, []string{"op", "result"})

// SummaryTasks mirrors the engine's current Summary by bucket.
var SummaryTasks = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "taskdeck",
	Name:      "summary_tasks",
	Help:      "Tasks in the loaded collection per summary bucket.",
}, []string{"bucket"})

// ObserveSummary publishes every bucket of s.
func ObserveSummary(s domain.Summary) {
	SummaryTasks.WithLabelValues("total").Set(float64(s.Total))
	SummaryTasks.WithLabelValues("completed").Set(float64(s.Completed))
	SummaryTasks.WithLabelValues("in_progress").Set(float64(s.InProgress))
	SummaryTasks.WithLabelValues("on_hold").Set(float64(s.OnHold))
	SummaryTasks.WithLabelValues("not_started").Set(float64(s.NotStarted))
}
