package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// CHECK METRICS
// =============================================================================

var (
	checksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swarmcheck_checks_total",
			Help: "Total number of engine operations run",
		},
		[]string{"operation", "status"}, // status: ok, errors
	)

	checkDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swarmcheck_check_duration_seconds",
			Help:    "Engine operation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	errorCountHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swarmcheck_error_count",
			Help:    "Number of errors in an operation's report",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"operation"},
	)
)

// =============================================================================
// PUBLIC API
// =============================================================================

// RecordCheck records the outcome and duration of a top-level engine
// operation. errorCount is the length of the resulting error report.
func RecordCheck(operation string, errorCount int, durationMS float64) {
	status := "ok"
	if errorCount > 0 {
		status = "errors"
	}
	checksTotal.WithLabelValues(operation, status).Inc()
	checkDurationSeconds.WithLabelValues(operation).Observe(durationMS / 1000.0)
	errorCountHistogram.WithLabelValues(operation).Observe(float64(errorCount))
}
