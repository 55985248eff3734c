package metrics

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clarity"

var (
	registry = prometheus.NewRegistry()

	previewRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "preview",
		Name:      "runs_total",
		Help:      "Preview runs by track and cache outcome.",
	}, []string{"track", "cache"})

	reportJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "report",
		Name:      "jobs_total",
		Help:      "Full report jobs by outcome.",
	}, []string{"outcome"})

	reportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "report",
		Name:      "duration_seconds",
		Help:      "Time spent building and storing a full report.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	workerMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "messages_total",
		Help:      "Queue messages seen by the worker, by outcome.",
	}, []string{"outcome"})

	webhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "payments",
		Name:      "webhook_events_total",
		Help:      "Payment webhook events by type and outcome.",
	}, []string{"type", "outcome"})

	httpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status class.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "class"})
)

func init() {
	registry.MustRegister(
		previewRuns,
		reportJobs,
		reportDuration,
		workerMessages,
		webhookEvents,
		httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry exposes the collectors for tests.
func Registry() *prometheus.Registry { return registry }

// ObservePreview counts a preview run. cached reports an LRU hit.
func ObservePreview(track string, cached bool) {
	outcome := "miss"
	if cached {
		outcome = "hit"
	}
	previewRuns.WithLabelValues(track, outcome).Inc()
}

// Report job outcomes.
const (
	JobQueued    = "queued"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// IncReportJob counts a report job transition.
func IncReportJob(outcome string) {
	reportJobs.WithLabelValues(outcome).Inc()
}

// ObserveReportDuration records how long a report took end to end.
func ObserveReportDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	reportDuration.Observe(d.Seconds())
}

// Worker message outcomes.
const (
	MessageReceived      = "received"
	MessageCompleted     = "completed"
	MessageFailed        = "failed"
	MessageUnrecoverable = "deleted_unrecoverable"
)

// IncWorkerMessage counts a worker message outcome.
func IncWorkerMessage(outcome string) {
	workerMessages.WithLabelValues(outcome).Inc()
}

// IncWebhookEvent counts a payment webhook event.
func IncWebhookEvent(eventType, outcome string) {
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// Middleware records request latency keyed by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, statusClass(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// RegisterDB exports the pool statistics of conn as go_sql_* series
// labelled db_name="clarity". Only the first pool registered is exported.
func RegisterDB(conn *sql.DB) bool {
	if conn == nil {
		return false
	}
	err := registry.Register(collectors.NewDBStatsCollector(conn, namespace))
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		return false
	}
	return err == nil
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
