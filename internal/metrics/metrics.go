// Package metrics exposes Prometheus collectors for the HTTP layer and the feedback service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const namespace = "feedback_service"

// Metrics owns a dedicated registry so tests can build as many instances as they need
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	submissions      *prometheus.CounterVec
	resultsRequests  *prometheus.CounterVec
	graphqlOperation *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Feedback form submissions by outcome",
		}, []string{"outcome"}),
		resultsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_requests_total",
			Help:      "Results report requests by cache outcome",
		}, []string{"cache"}),
		graphqlOperation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "GraphQL operations by name and status",
		}, []string{"operation", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.submissions,
		m.resultsRequests,
		m.graphqlOperation,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterRedis reports the go-redis connection pool
func (m *Metrics) RegisterRedis(client *redis.Client) {
	if client == nil {
		return
	}
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "pool_total_connections",
			Help:      "Connections currently in the Redis pool",
		}, func() float64 {
			return float64(client.PoolStats().TotalConns)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "pool_idle_connections",
			Help:      "Idle connections in the Redis pool",
		}, func() float64 {
			return float64(client.PoolStats().IdleConns)
		}),
	)
}

// ===== SERVICE HOOKS =====

// FeedbackSubmitted counts a submission; accepted is the result returned to the caller
func (m *Metrics) FeedbackSubmitted(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ResultsServed(fromCache bool) {
	label := "miss"
	if fromCache {
		label = "hit"
	}
	m.resultsRequests.WithLabelValues(label).Inc()
}

func (m *Metrics) GraphQLOperation(operation string, failed bool) {
	if operation == "" {
		operation = "anonymous"
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.graphqlOperation.WithLabelValues(operation, status).Inc()
}

// ===== HTTP =====

// Middleware records request count and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
