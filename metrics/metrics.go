package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Committed project status transitions.",
		},
		[]string{"from", "to"},
	)

	NotifierFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "notifier",
			Name:      "failures_total",
			Help:      "Failed stats/badge notifier calls.",
		},
		[]string{"call"},
	)

	EventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "notifier",
			Name:      "events_dropped_total",
			Help:      "Completion events dropped because the queue was full or closed.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "projecthub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		TransitionsTotal,
		NotifierFailuresTotal,
		EventsDroppedTotal,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func RecordTransition(from, to string) {
	TransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordNotifierFailure(call string) {
	NotifierFailuresTotal.WithLabelValues(call).Inc()
}

func RecordEventDropped() {
	EventsDroppedTotal.Inc()
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
