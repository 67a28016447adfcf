// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	authAttempts *prometheus.CounterVec
	mutations    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecatalog_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursecatalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecatalog_auth_attempts_total",
			Help: "Register and login attempts by outcome.",
		}, []string{"action", "outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecatalog_course_mutations_total",
			Help: "Successful course mutations by operation.",
		}, []string{"operation"}),
	}

	reg.MustRegister(c.requests, c.latency, c.authAttempts, c.mutations)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordAuth counts an auth attempt; outcome is "success" or an error kind.
func (c *Collector) RecordAuth(action, outcome string) {
	if c == nil {
		return
	}
	c.authAttempts.WithLabelValues(action, outcome).Inc()
}

func (c *Collector) RecordMutation(operation string) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(operation).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
