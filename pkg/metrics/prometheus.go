// Package metrics provides Prometheus metrics for the event pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Fetch metrics - data source traffic
	matchesFetched prometheus.Counter
	eventsFetched  prometheus.Counter
	fetchErrors    prometheus.Counter
	fetchLatency   prometheus.Histogram

	// Flatten metrics - transformation volume
	eventsFlattened prometheus.Counter
	flattenErrors   prometheus.Counter
	columnCount     prometheus.Gauge

	// Load metrics - storage sink
	rowsLoaded        prometheus.Counter
	loadLatency       prometheus.Histogram
	duplicatesSkipped prometheus.Counter

	// Query metrics - read path
	queryLatency prometheus.Histogram
	queryErrors  prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// System metrics
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
		namespace:        "handbook",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	histOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
			Buckets:   m.histogramBuckets,
		}
	}

	m.matchesFetched = prometheus.NewCounter(factory("matches_fetched_total", "Matches fetched from the data source"))
	m.eventsFetched = prometheus.NewCounter(factory("events_fetched_total", "Raw events fetched from the data source"))
	m.fetchErrors = prometheus.NewCounter(factory("fetch_errors_total", "Failed source fetches"))
	m.fetchLatency = prometheus.NewHistogram(histOpts("fetch_latency_ms", "Source fetch latency in milliseconds"))

	m.eventsFlattened = prometheus.NewCounter(factory("events_flattened_total", "Events flattened into table rows"))
	m.flattenErrors = prometheus.NewCounter(factory("flatten_errors_total", "Flattening failures"))
	m.columnCount = prometheus.NewGauge(gaugeOpts("table_columns", "Columns in the flattened table"))

	m.rowsLoaded = prometheus.NewCounter(factory("rows_loaded_total", "Rows bulk-inserted into the store"))
	m.loadLatency = prometheus.NewHistogram(histOpts("load_latency_ms", "Bulk insert latency in milliseconds"))
	m.duplicatesSkipped = prometheus.NewCounter(factory("duplicates_skipped_total", "Events skipped as already loaded"))

	m.queryLatency = prometheus.NewHistogram(histOpts("query_latency_ms", "SQL query latency in milliseconds"))
	m.queryErrors = prometheus.NewCounter(factory("query_errors_total", "Failed SQL queries"))

	m.queueSize = prometheus.NewGauge(gaugeOpts("queue_size", "Pending fetch jobs"))
	m.queueCapacity = prometheus.NewGauge(gaugeOpts("queue_capacity", "Fetch queue capacity"))
	m.queueUtilization = prometheus.NewGauge(gaugeOpts("queue_utilization", "Fetch queue fill ratio"))
	m.queueEnqueues = prometheus.NewCounter(factory("queue_enqueues_total", "Jobs accepted by the queue"))
	m.queueDequeues = prometheus.NewCounter(factory("queue_dequeues_total", "Jobs handed to workers"))
	m.queueEnqueueErrors = prometheus.NewCounter(factory("queue_enqueue_errors_total", "Jobs rejected by the queue"))

	m.workerCount = prometheus.NewGauge(gaugeOpts("worker_count", "Fetch workers in the pool"))
	m.workerProcessingLatency = prometheus.NewHistogram(histOpts("worker_processing_latency_ms", "Per-job worker latency in milliseconds"))
	m.workerErrors = prometheus.NewCounter(factory("worker_errors_total", "Worker job failures"))

	m.httpRequests = prometheus.NewCounterVec(
		factory("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		histOpts("http_request_duration_ms", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status"},
	)
	m.errorsByEndpoint = prometheus.NewCounterVec(
		factory("errors_by_endpoint_total", "HTTP errors by endpoint"),
		[]string{"endpoint", "method", "type"},
	)
	m.errorsByComponent = prometheus.NewCounterVec(
		factory("errors_by_component_total", "Internal errors by component"),
		[]string{"component", "reason"},
	)

	m.systemMemoryUsage = prometheus.NewGauge(gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = prometheus.NewGauge(gaugeOpts("system_goroutines", "Live goroutines"))
	m.systemGCPauseTime = prometheus.NewHistogram(histOpts("system_gc_pause_ms", "Average GC pause in milliseconds"))

	if m.enabled {
		m.registry.MustRegister(
			m.matchesFetched, m.eventsFetched, m.fetchErrors, m.fetchLatency,
			m.eventsFlattened, m.flattenErrors, m.columnCount,
			m.rowsLoaded, m.loadLatency, m.duplicatesSkipped,
			m.queryLatency, m.queryErrors,
			m.queueSize, m.queueCapacity, m.queueUtilization,
			m.queueEnqueues, m.queueDequeues, m.queueEnqueueErrors,
			m.workerCount, m.workerProcessingLatency, m.workerErrors,
			m.httpRequests, m.httpRequestDuration, m.errorsByEndpoint, m.errorsByComponent,
			m.systemMemoryUsage, m.systemGoroutineCount, m.systemGCPauseTime,
		)
	}
}

// Package-level helpers on the global manager. Call sites stay one-liners.

func RecordMatchFetched()           { globalManager.matchesFetched.Inc() }
func RecordEventsFetched(n int)     { globalManager.eventsFetched.Add(float64(n)) }
func RecordFetchError()             { globalManager.fetchErrors.Inc() }
func RecordFetchLatency(ms float64) { globalManager.fetchLatency.Observe(ms) }

func RecordEventsFlattened(n int) { globalManager.eventsFlattened.Add(float64(n)) }
func RecordFlattenError()         { globalManager.flattenErrors.Inc() }
func UpdateColumnCount(n int)     { globalManager.columnCount.Set(float64(n)) }

func RecordRowsLoaded(n int64)       { globalManager.rowsLoaded.Add(float64(n)) }
func RecordLoadLatency(ms float64)   { globalManager.loadLatency.Observe(ms) }
func RecordDuplicateSkipped()        { globalManager.duplicatesSkipped.Inc() }
func RecordQueryLatency(ms float64)  { globalManager.queryLatency.Observe(ms) }
func RecordQueryError()              { globalManager.queryErrors.Inc() }

func UpdateQueueSize(n int)           { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)       { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(f float64) { globalManager.queueUtilization.Set(f) }
func RecordQueueEnqueue()             { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()             { globalManager.queueDequeues.Inc() }
func RecordQueueEnqueueError()        { globalManager.queueEnqueueErrors.Inc() }

func UpdateWorkerCount(n int)                  { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerProcessingLatency(ms float64) { globalManager.workerProcessingLatency.Observe(ms) }
func RecordWorkerError()                       { globalManager.workerErrors.Inc() }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

func RecordErrorByComponent(component, reason string) {
	globalManager.errorsByComponent.WithLabelValues(component, reason).Inc()
}

func UpdateSystemMemoryUsage(bytes uint64)  { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)      { globalManager.systemGoroutineCount.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)    { globalManager.systemGCPauseTime.Observe(ms) }
