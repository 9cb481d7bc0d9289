// Package observability provides the shared Prometheus metrics registry
// used by the datastore, weather and HTTP layers.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metric collectors behind a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Weather metrics
	WeatherFetchOps      *prometheus.CounterVec
	WeatherFetchDuration *prometheus.HistogramVec

	// Datastore metrics
	DatastoreOps *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		WeatherFetchOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kokorolog_weather_fetch_total",
				Help: "Number of weather provider fetches by provider and status.",
			},
			[]string{"provider", "status"},
		),
		WeatherFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kokorolog_weather_fetch_duration_seconds",
				Help:    "Duration of weather provider fetches.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		DatastoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kokorolog_datastore_operations_total",
				Help: "Number of datastore operations by operation and status.",
			},
			[]string{"operation", "status"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kokorolog_http_requests_total",
				Help: "Number of HTTP requests by method, path and status code.",
			},
			[]string{"method", "path", "code"},
		),
	}

	collectorList := []prometheus.Collector{
		m.WeatherFetchOps,
		m.WeatherFetchDuration,
		m.DatastoreOps,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	}
	for _, c := range collectorList {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordWeatherFetch records the outcome of a weather provider fetch.
func (m *Metrics) RecordWeatherFetch(provider, status string) {
	if m == nil {
		return
	}
	m.WeatherFetchOps.WithLabelValues(provider, status).Inc()
}

// RecordWeatherFetchDuration records the duration of a weather provider fetch.
func (m *Metrics) RecordWeatherFetchDuration(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.WeatherFetchDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordDatastoreOp records the outcome of a datastore operation.
func (m *Metrics) RecordDatastoreOp(operation, status string) {
	if m == nil {
		return
	}
	m.DatastoreOps.WithLabelValues(operation, status).Inc()
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, code string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, code).Inc()
}

// Handler returns an http.Handler exposing the registry in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
