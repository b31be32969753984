package providers

import (
	"benchstore/internal/services"
	"benchstore/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetEntriesTotal(category string, count int)
	IncAlerts(category string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	entriesTotal        *prometheus.GaugeVec
	alertsTotal         *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetEntriesTotal(category string, count int) {
	m.entriesTotal.WithLabelValues(category).Set(float64(count))
}

func (m *MetricsProvider) IncAlerts(category string) {
	m.alertsTotal.WithLabelValues(category).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// NewMetricsProvider registers the collectors on prometheus.DefaultRegisterer.
func NewMetricsProvider(conf *structures.Config, service services.BenchmarkServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	factory := promauto.With(prometheus.DefaultRegisterer)

	m := &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "benchstore_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "benchstore_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "benchstore_cache_hits_total",
			Help: "Total number of rendered script cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "benchstore_cache_misses_total",
			Help: "Total number of rendered script cache misses",
		}),

		persistenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "benchstore_persistence_duration_seconds",
			Help:    "Duration of data file writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		entriesTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "benchstore_entries_total",
			Help: "Number of stored entries per category",
		}, []string{"category"}),

		alertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "benchstore_alerts_total",
			Help: "Regression alerts raised per category",
		}, []string{"category"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "benchstore_categories_total",
		Help: "Number of benchmark categories",
	}, func() float64 {
		return float64(len(service.GetCategories()))
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "benchstore_revision",
		Help: "In-memory revision of the benchmark suite",
	}, func() float64 {
		return float64(service.GetRevision())
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "benchstore_last_update_timestamp_seconds",
		Help: "Date of the newest entry as a Unix timestamp",
	}, func() float64 {
		return float64(service.GetLastUpdate()) / 1000
	})

	return m
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetEntriesTotal(_ string, _ int)                  {}
func (n *noopMetrics) IncAlerts(_ string)                               {}
