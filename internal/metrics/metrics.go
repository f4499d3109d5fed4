package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vocabquest"

// Metrics owns a private registry so tests and multiple instances never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	sessionsIngested *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	xpAwarded        *prometheus.CounterVec
	mistakesRecorded prometheus.Counter

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_ingested_total",
				Help:      "Game session submissions by game type and outcome",
			},
			[]string{"game_type", "outcome"},
		),
		ingestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "session_ingest_duration_seconds",
				Help:      "Time spent ingesting a game session",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
			},
		),
		xpAwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "xp_awarded_total",
				Help:      "XP credited to learners by source",
			},
			[]string{"source"},
		),
		mistakesRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mistakes_recorded_total",
				Help:      "Wrong answers added to practice queues",
			},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
	}

	m.registry.MustRegister(
		m.sessionsIngested,
		m.ingestDuration,
		m.xpAwarded,
		m.mistakesRecorded,
		m.requestCounter,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) SessionIngested(gameType, outcome string, elapsed time.Duration) {
	if gameType == "" {
		gameType = "unknown"
	}
	m.sessionsIngested.WithLabelValues(gameType, outcome).Inc()
	m.ingestDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) XPAwarded(source string, xp int64) {
	if xp <= 0 {
		return
	}
	m.xpAwarded.WithLabelValues(source).Add(float64(xp))
}

func (m *Metrics) MistakesRecorded(n int) {
	if n <= 0 {
		return
	}
	m.mistakesRecorded.Add(float64(n))
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.requestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		m.requestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
