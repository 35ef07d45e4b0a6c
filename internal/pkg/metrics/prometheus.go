package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudlens",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cloudlens",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cloudlens",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Sample store metrics
	samplesInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudlens",
			Subsystem: "samples",
			Name:      "inserted_total",
			Help:      "Total number of metric samples inserted",
		},
		[]string{"source"},
	)

	samplesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cloudlens",
			Subsystem: "samples",
			Name:      "deleted_total",
			Help:      "Total number of metric samples bulk-deleted",
		},
	)

	// Alert ledger metrics
	alertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudlens",
			Subsystem: "alerts",
			Name:      "created_total",
			Help:      "Total number of alerts created",
		},
		[]string{"type", "severity"},
	)

	alertsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cloudlens",
			Subsystem: "alerts",
			Name:      "resolved_total",
			Help:      "Total number of alerts resolved",
		},
	)

	// Threshold sweep metrics
	sweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudlens",
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Total number of threshold sweep runs",
		},
		[]string{"status"},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cloudlens",
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Duration of a threshold sweep in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus HTTP metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}
		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSamplesInserted records inserted sample counts by source
// (seed or ingest).
func RecordSamplesInserted(source string, count int) {
	samplesInserted.WithLabelValues(source).Add(float64(count))
}

// RecordSamplesDeleted records a bulk delete.
func RecordSamplesDeleted(count int64) {
	samplesDeleted.Add(float64(count))
}

// RecordAlertCreated records an alert creation.
func RecordAlertCreated(alertType, severity string) {
	alertsCreated.WithLabelValues(alertType, severity).Inc()
}

// RecordAlertResolved records an alert resolution.
func RecordAlertResolved() {
	alertsResolved.Inc()
}

// RecordSweep records a threshold sweep run.
func RecordSweep(status string, duration time.Duration) {
	sweepRuns.WithLabelValues(status).Inc()
	sweepDuration.Observe(duration.Seconds())
}
