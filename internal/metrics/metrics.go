// Package metrics provides Prometheus metrics for the deletion daemon.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace for all daemon metrics
	namespace = "deletecontent"
)

// Registry holds the daemon metrics together with the go and process collectors
var Registry = prometheus.NewRegistry()

var (
	// RunsTotal tracks finished step invocations
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of deletion step invocations",
		},
		[]string{"plugin", "result", "error_type"},
	)

	// RunDuration tracks how long an invocation took
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of deletion step invocations in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"plugin"},
	)

	// DeletedTargets tracks removed directories and files
	DeletedTargets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deleted_targets_total",
			Help:      "Total number of directories and files removed",
		},
		[]string{"plugin"},
	)

	// MessagesRejected tracks bus messages that could not be processed at all
	MessagesRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_rejected_total",
			Help:      "Total number of step messages that could not be decoded or dispatched",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RunsTotal,
		RunDuration,
		DeletedTargets,
		MessagesRejected,
	)
}

// RecordRunSuccess records a successful invocation
func RecordRunSuccess(plugin string, deleted int, duration time.Duration) {
	RunsTotal.WithLabelValues(plugin, "success", "").Inc()
	RunDuration.WithLabelValues(plugin).Observe(duration.Seconds())
	DeletedTargets.WithLabelValues(plugin).Add(float64(deleted))
}

// RecordRunFailure records a failed invocation. Targets removed before the failure still count.
func RecordRunFailure(plugin, errorType string, deleted int, duration time.Duration) {
	RunsTotal.WithLabelValues(plugin, "failure", errorType).Inc()
	RunDuration.WithLabelValues(plugin).Observe(duration.Seconds())
	DeletedTargets.WithLabelValues(plugin).Add(float64(deleted))
}

// RecordRejected records a message that was rejected without a run
func RecordRejected() {
	MessagesRejected.Inc()
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
