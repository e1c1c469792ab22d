// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"dreamspeak/application/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	DreamsCreated prometheus.Counter
	Analyses      *prometheus.CounterVec
	Images        *prometheus.CounterVec
}

var _ ports.MetricsRecorder = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so several can coexist in tests
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DreamsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dreams_created_total",
				Help:      "Total number of dreams created",
			},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dream_analyses_total",
				Help:      "Total number of dream analyses by outcome",
			},
			[]string{"status"},
		),
		Images: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dream_images_total",
				Help:      "Total number of image generations by outcome",
			},
			[]string{"status", "fallback"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.DreamsCreated,
		c.Analyses,
		c.Images,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a completed request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// DreamCreated counts a stored dream
func (c *Collector) DreamCreated() {
	c.DreamsCreated.Inc()
}

// AnalysisCompleted counts an analysis attempt
func (c *Collector) AnalysisCompleted(success bool) {
	c.Analyses.WithLabelValues(outcome(success)).Inc()
}

// ImageGenerated counts an image attempt
func (c *Collector) ImageGenerated(success, fallback bool) {
	c.Images.WithLabelValues(outcome(success), strconv.FormatBool(fallback)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
