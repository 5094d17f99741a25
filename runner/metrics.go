package runner

import "github.com/prometheus/client_golang/prometheus"

// Metric label values for invocation status.
const (
	statusOK    = "ok"
	statusError = "error"
)

var (
	invocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enginecall_invocations_total",
			Help: "Total number of engine invocations by final status.",
		},
		[]string{"status"},
	)

	enqueueDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enginecall_enqueue_seconds",
			Help:    "Duration of the enqueue entry point, from submission to output metadata availability, in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	invocationsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "enginecall_invocations_in_flight",
			Help: "Number of invocations currently inside the enqueue entry point.",
		},
	)
)

func init() {
	prometheus.MustRegister(invocationsTotal)
	prometheus.MustRegister(enqueueDuration)
	prometheus.MustRegister(invocationsInFlight)

	// Pre-initialize label combinations so they appear in /metrics with
	// value 0 from startup, rather than only after first observation.
	invocationsTotal.WithLabelValues(statusOK)
	invocationsTotal.WithLabelValues(statusError)
}
