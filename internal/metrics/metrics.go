// Package metrics exposes the Prometheus instrumentation for the
// build coordinator: job outcomes, the resource ledger, and the HTTP
// surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ledgerGauges is the narrow view of resources.Manager the live GPU/CPU
// availability gauges read from. Defined here rather than imported to
// avoid a metrics->resources dependency; *resources.Manager satisfies
// it directly.
type ledgerGauges interface {
	AvailableGPU() float64
	AvailableCPU() float64
}

var (
	JobsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectorbuild_jobs_submitted_total",
			Help: "Total number of build jobs admitted",
		},
		[]string{},
	)

	JobOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectorbuild_job_outcomes_total",
			Help: "Total number of build jobs reaching a terminal state, by status",
		},
		[]string{"status"},
	)

	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vectorbuild_build_duration_seconds",
			Help:    "Time taken to build an index, from worker pickup to terminal state",
			Buckets: prometheus.ExponentialBuckets(1, 2, 15),
		},
		[]string{"status"},
	)

	AdmissionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectorbuild_admission_rejections_total",
			Help: "Total number of /_build requests rejected, by reason",
		},
		[]string{"reason"},
	)

	WorkersActiveGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vectorbuild_workers_active",
			Help: "Number of worker goroutines in the executor pool",
		},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectorbuild_api_requests_total",
			Help: "Total number of HTTP requests, by route and status code",
		},
		[]string{"route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vectorbuild_api_request_duration_seconds",
			Help:    "HTTP request duration, by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordJobSubmission increments the admitted-job counter.
func RecordJobSubmission() {
	JobsSubmitted.WithLabelValues().Inc()
}

// RecordJobOutcome increments the terminal-outcome counter for status.
func RecordJobOutcome(status string) {
	JobOutcomes.WithLabelValues(status).Inc()
}

// RecordBuildDuration observes how long a build took to reach status.
func RecordBuildDuration(status string, seconds float64) {
	BuildDuration.WithLabelValues(status).Observe(seconds)
}

// RecordAdmissionRejection increments the rejection counter for reason
// ("validation", "hash_collision", "capacity").
func RecordAdmissionRejection(reason string) {
	AdmissionRejections.WithLabelValues(reason).Inc()
}

// RegisterLedgerGauges registers the GPU/CPU availability gauges as
// GaugeFuncs reading live off rm, so every scrape reflects the
// ledger's current state instead of whatever value a call site last
// pushed — resources the executor releases back to rm after a build
// show up on the next scrape with no additional wiring. Call once,
// after the resource manager is constructed.
func RegisterLedgerGauges(rm ledgerGauges) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vectorbuild_available_gpu_bytes",
			Help: "Current available GPU memory in the resource ledger",
		},
		rm.AvailableGPU,
	)
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vectorbuild_available_cpu_bytes",
			Help: "Current available CPU memory in the resource ledger",
		},
		rm.AvailableCPU,
	)
}

// SetWorkersActive sets the worker-pool size gauge.
func SetWorkersActive(count float64) {
	WorkersActiveGauge.Set(count)
}

// RecordAPIRequest increments the request counter and observes its
// duration for route.
func RecordAPIRequest(route, statusCode string, seconds float64) {
	APIRequests.WithLabelValues(route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(route).Observe(seconds)
}
