// Package metrics concentra os coletores Prometheus do planner.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	queueAdmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planner",
			Subsystem: "queue",
			Name:      "admissions_total",
			Help:      "Total number of calls admitted to the external service.",
		},
		[]string{"label"},
	)

	queueWaits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "planner",
			Subsystem: "queue",
			Name:      "window_wait_seconds",
			Help:      "Time the drain loop waited for window capacity.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		},
	)

	queuePending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "planner",
			Subsystem: "queue",
			Name:      "pending_calls",
			Help:      "Calls waiting for admission.",
		},
	)

	storageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planner",
			Subsystem: "storage",
			Name:      "failures_total",
			Help:      "Storage read/write failures swallowed by the persistence orchestrator.",
		},
		[]string{"tier", "op"},
	)

	storageWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planner",
			Subsystem: "storage",
			Name:      "writes_total",
			Help:      "Record writes issued per tier.",
		},
		[]string{"tier"},
	)
)

func init() {
	Registry.MustRegister(
		queueAdmissions,
		queueWaits,
		queuePending,
		storageFailures,
		storageWrites,
	)
}

// Handler returns an HTTP handler that exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordAdmission counts one admitted call and updates the pending gauge.
func RecordAdmission(label string, pending int) {
	if label == "" {
		label = "unlabeled"
	}
	queueAdmissions.WithLabelValues(label).Inc()
	queuePending.Set(float64(pending))
}

// RecordWindowWait observes a drain-loop suspension.
func RecordWindowWait(wait time.Duration, pending int) {
	queueWaits.Observe(wait.Seconds())
	queuePending.Set(float64(pending))
}

// RecordStorageWrite counts one write issued to a tier.
func RecordStorageWrite(tier string) {
	storageWrites.WithLabelValues(tier).Inc()
}

// RecordStorageFailure counts one swallowed storage failure.
func RecordStorageFailure(tier, op string) {
	storageFailures.WithLabelValues(tier, op).Inc()
}
