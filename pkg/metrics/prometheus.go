// Package metrics provides Prometheus metrics for the medal dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset metrics, set once at load time
	datasetRecords    prometheus.Gauge
	datasetCountries  prometheus.Gauge
	datasetYears      prometheus.Gauge
	datasetLoadTime   prometheus.Gauge
	datasetLoadErrors prometheus.Counter

	// Aggregation metrics, labelled by chart (pie, area, bar)
	aggregations       *prometheus.CounterVec
	aggregationLatency *prometheus.HistogramVec
	aggregationSize    *prometheus.HistogramVec
	aggregationErrors  *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medaldash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.datasetRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_records"),
		Help:        "Number of medal records loaded",
		ConstLabels: labels,
	})

	m.datasetCountries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_countries"),
		Help:        "Number of distinct countries in the dataset",
		ConstLabels: labels,
	})

	m.datasetYears = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_years"),
		Help:        "Number of distinct Olympic years in the dataset",
		ConstLabels: labels,
	})

	m.datasetLoadTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_load_duration_milliseconds"),
		Help:        "Time spent reading and normalizing the dataset at startup",
		ConstLabels: labels,
	})

	m.datasetLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_load_errors_total"),
		Help:        "Number of failed dataset loads",
		ConstLabels: labels,
	})

	m.aggregations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("aggregations_total"),
			Help:        "Total number of chart aggregations by chart",
			ConstLabels: labels,
		},
		[]string{"chart"},
	)

	m.aggregationLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("aggregation_latency_milliseconds"),
			Help:        "Chart aggregation latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"chart"},
	)

	m.aggregationSize = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("aggregation_points"),
			Help:        "Number of points returned by a chart aggregation",
			Buckets:     []float64{0, 1, 3, 5, 10, 25, 50, 100, 250},
			ConstLabels: labels,
		},
		[]string{"chart"},
	)

	m.aggregationErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("aggregation_errors_total"),
			Help:        "Total number of rejected chart requests by chart and reason",
			ConstLabels: labels,
		},
		[]string{"chart", "reason"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Total number of errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Total number of errors by endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Dataset Metrics Functions.

// UpdateDatasetRecords sets the number of loaded records.
func (m *Manager) UpdateDatasetRecords(count int) {
	if m.enabled {
		m.datasetRecords.Set(float64(count))
	}
}

// UpdateDatasetCountries sets the number of distinct countries.
func (m *Manager) UpdateDatasetCountries(count int) {
	if m.enabled {
		m.datasetCountries.Set(float64(count))
	}
}

// UpdateDatasetYears sets the number of distinct years.
func (m *Manager) UpdateDatasetYears(count int) {
	if m.enabled {
		m.datasetYears.Set(float64(count))
	}
}

// RecordDatasetLoad records how long the startup load took.
func (m *Manager) RecordDatasetLoad(durationMs float64) {
	if m.enabled {
		m.datasetLoadTime.Set(durationMs)
	}
}

// RecordDatasetLoadError increments the dataset load error counter.
func (m *Manager) RecordDatasetLoadError() {
	if m.enabled {
		m.datasetLoadErrors.Inc()
	}
}

// Aggregation Metrics Functions.

// RecordAggregation records one aggregation of chart with its latency and size.
func (m *Manager) RecordAggregation(chart string, latencyMs float64, points int) {
	if !m.enabled {
		return
	}
	m.aggregations.WithLabelValues(chart).Inc()
	m.aggregationLatency.WithLabelValues(chart).Observe(latencyMs)
	m.aggregationSize.WithLabelValues(chart).Observe(float64(points))
}

// RecordAggregationError records a rejected aggregation request.
func (m *Manager) RecordAggregationError(chart, reason string) {
	if m.enabled {
		m.aggregationErrors.WithLabelValues(chart, reason).Inc()
	}
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByType records an error by type and severity.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if m.enabled {
		m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error by endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine count.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// RefreshInterval returns how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Package-level helpers delegate to the global manager.

// UpdateDatasetRecords sets the number of loaded records.
func UpdateDatasetRecords(count int) { globalManager.UpdateDatasetRecords(count) }

// UpdateDatasetCountries sets the number of distinct countries.
func UpdateDatasetCountries(count int) { globalManager.UpdateDatasetCountries(count) }

// UpdateDatasetYears sets the number of distinct years.
func UpdateDatasetYears(count int) { globalManager.UpdateDatasetYears(count) }

// RecordDatasetLoad records how long the startup load took.
func RecordDatasetLoad(durationMs float64) { globalManager.RecordDatasetLoad(durationMs) }

// RecordDatasetLoadError increments the dataset load error counter.
func RecordDatasetLoadError() { globalManager.RecordDatasetLoadError() }

// RecordAggregation records one aggregation of chart.
func RecordAggregation(chart string, latencyMs float64, points int) {
	globalManager.RecordAggregation(chart, latencyMs, points)
}

// RecordAggregationError records a rejected aggregation request.
func RecordAggregationError(chart, reason string) {
	globalManager.RecordAggregationError(chart, reason)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets the system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// RefreshInterval returns the global manager's refresh interval.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// GetRegistry returns the custom registry for metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
