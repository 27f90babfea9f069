package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	TaskEventCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_event_count",
			Help: "Total task lifecycle events observed on the bus",
		},
		[]string{"type"},
	)

	StreakComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streak_compute_duration_seconds",
			Help:    "Time spent building a streak summary from ledger rows",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 10), // 0.1ms to ~50ms
		},
	)
)

// RecordTaskEvent counts a bus notification by type.
func RecordTaskEvent(eventType string) {
	TaskEventCount.WithLabelValues(eventType).Inc()
}

// ObserveStreakCompute records one summary computation.
func ObserveStreakCompute(d time.Duration) {
	StreakComputeDuration.Observe(d.Seconds())
}

// GinMiddleware times every request by route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
