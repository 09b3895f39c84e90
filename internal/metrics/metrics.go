// Package metrics holds the Prometheus collectors for the HTTP layer and the
// practice log itself.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "practicelog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "practicelog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	accessDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "practicelog",
			Subsystem: "ownership",
			Name:      "denied_total",
			Help:      "Goal and session accesses rejected by the ownership guard.",
		},
		[]string{"resource", "reason"},
	)

	sessionsLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "practicelog",
			Subsystem: "sessions",
			Name:      "logged_total",
			Help:      "Practice sessions created.",
		},
	)

	minutesLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "practicelog",
			Subsystem: "sessions",
			Name:      "minutes_total",
			Help:      "Practice minutes recorded on session creation.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		accessDenied,
		sessionsLogged,
		minutesLogged,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveRequest(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}

func RecordDenied(resource, reason string) {
	accessDenied.WithLabelValues(resource, reason).Inc()
}

func RecordSession(minutes int) {
	sessionsLogged.Inc()
	minutesLogged.Add(float64(minutes))
}
