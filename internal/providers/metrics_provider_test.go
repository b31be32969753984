package providers

import (
	"benchstore/internal/models"
	"benchstore/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mock for BenchmarkServiceInterface ---

type metricsTestService struct{}

func (m *metricsTestService) Append(_ string, _ *models.Entry) error { return nil }
func (m *metricsTestService) GetSnapshot() *models.BenchmarkSuite    { return nil }
func (m *metricsTestService) PutSuite(_ *models.BenchmarkSuite)      {}
func (m *metricsTestService) GetCategories() []string {
	return []string{"Go Benchmark", "Rust Benchmark"}
}
func (m *metricsTestService) GetEntries(_ string) []models.Entry       { return nil }
func (m *metricsTestService) GetLatest(_ string) (*models.Entry, bool) { return nil, false }
func (m *metricsTestService) GetEntryCount(_ string) int               { return 0 }
func (m *metricsTestService) GetRevision() uint64                      { return 7 }
func (m *metricsTestService) GetLastUpdate() int64                     { return 1700000000000 }
func (m *metricsTestService) GetRepoURL() string                       { return "" }

func useTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
	return reg
}

// gatheredValue returns the counter or gauge value of the series with the
// given labels, or -1 when absent.
func gatheredValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	series:
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue series
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return -1
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestService{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/data.js", 200)
	m.ObserveRequestDuration("/data.js", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetEntriesTotal("Go Benchmark", 10)
	m.IncAlerts("Go Benchmark")
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestService{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_Counters(t *testing.T) {
	reg := useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestService{})

	m.IncRequestsTotal("/data.js", 200)
	m.IncRequestsTotal("/data.js", 201)
	m.IncRequestsTotal("/data.js", 404)
	m.ObserveRequestDuration("/data.js", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.SetEntriesTotal("Go Benchmark", 42)
	m.IncAlerts("Go Benchmark")

	assert.Equal(t, 2.0, gatheredValue(t, reg, "benchstore_requests_total", map[string]string{"endpoint": "/data.js", "status": "2xx"}))
	assert.Equal(t, 1.0, gatheredValue(t, reg, "benchstore_requests_total", map[string]string{"endpoint": "/data.js", "status": "4xx"}))
	assert.Equal(t, 1.0, gatheredValue(t, reg, "benchstore_cache_hits_total", nil))
	assert.Equal(t, 2.0, gatheredValue(t, reg, "benchstore_cache_misses_total", nil))
	assert.Equal(t, 42.0, gatheredValue(t, reg, "benchstore_entries_total", map[string]string{"category": "Go Benchmark"}))
	assert.Equal(t, 1.0, gatheredValue(t, reg, "benchstore_alerts_total", map[string]string{"category": "Go Benchmark"}))
}

func TestMetricsProvider_ServiceGauges(t *testing.T) {
	reg := useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	NewMetricsProvider(conf, &metricsTestService{})

	assert.Equal(t, 2.0, gatheredValue(t, reg, "benchstore_categories_total", nil))
	assert.Equal(t, 7.0, gatheredValue(t, reg, "benchstore_revision", nil))
	assert.Equal(t, 1700000000.0, gatheredValue(t, reg, "benchstore_last_update_timestamp_seconds", nil))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
