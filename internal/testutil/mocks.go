package testutil

import (
	"benchstore/internal/models"
	"benchstore/internal/providers"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Contains reports whether a message of the given level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Logs {
		if l.Level == level && strings.Contains(fmt.Sprintf(l.Format, l.Args...), substr) {
			return true
		}
	}
	return false
}

// MockBenchmarkService implements services.BenchmarkServiceInterface on top
// of a plain suite. AppendFn overrides Append when set.
type MockBenchmarkService struct {
	mu          sync.Mutex
	Suite       *models.BenchmarkSuite
	Revision    uint64
	AppendFn    func(category string, entry *models.Entry) error
	AppendCalls []AppendCall
	PutCalls    []*models.BenchmarkSuite
}

type AppendCall struct {
	Category string
	Entry    *models.Entry
}

func (m *MockBenchmarkService) suite() *models.BenchmarkSuite {
	if m.Suite == nil {
		m.Suite = models.NewBenchmarkSuite("")
	}
	return m.Suite
}

func (m *MockBenchmarkService) Append(category string, entry *models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls = append(m.AppendCalls, AppendCall{Category: category, Entry: entry})
	if m.AppendFn != nil {
		return m.AppendFn(category, entry)
	}
	m.suite().Append(category, *entry)
	m.Revision++
	return nil
}

func (m *MockBenchmarkService) GetSnapshot() *models.BenchmarkSuite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suite().Clone()
}

func (m *MockBenchmarkService) PutSuite(suite *models.BenchmarkSuite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, suite)
	m.Suite = suite.Clone()
	m.Revision++
}

func (m *MockBenchmarkService) GetCategories() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suite().Categories()
}

func (m *MockBenchmarkService) GetEntries(category string) []models.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suite().EntriesOf(category)
}

func (m *MockBenchmarkService) GetLatest(category string) (*models.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suite().Latest(category)
}

func (m *MockBenchmarkService) GetEntryCount(category string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suite().Len(category)
}

func (m *MockBenchmarkService) GetRevision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Revision
}

func (m *MockBenchmarkService) GetLastUpdate() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suite().LastUpdate
}

func (m *MockBenchmarkService) GetRepoURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suite().RepoURL
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	CacheHits        int
	CacheMisses      int
	PersistenceCalls int
	EntriesTotal     map[string]int
	Alerts           map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}
func (m *MockMetrics) SetEntriesTotal(category string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EntriesTotal == nil {
		m.EntriesTotal = make(map[string]int)
	}
	m.EntriesTotal[category] = count
}
func (m *MockMetrics) IncAlerts(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Alerts == nil {
		m.Alerts = make(map[string]int)
	}
	m.Alerts[category]++
}

// MockNotifier implements providers.NotifierInterface.
type MockNotifier struct {
	mu       sync.Mutex
	Messages []string
	NotifyFn func(ctx context.Context, text string) error
}

func (m *MockNotifier) Notify(ctx context.Context, text string) error {
	m.mu.Lock()
	m.Messages = append(m.Messages, text)
	m.mu.Unlock()
	if m.NotifyFn != nil {
		return m.NotifyFn(ctx, text)
	}
	return nil
}

// MockScheduler implements interfaces.SchedulerInterface.
type MockScheduler struct {
	InitCalls    int
	StopCalls    int
	RestoreErr   error
	PersistErr   error
	PersistCalls int
}

func (m *MockScheduler) Init()          { m.InitCalls++ }
func (m *MockScheduler) Stop()          { m.StopCalls++ }
func (m *MockScheduler) Restore() error { return m.RestoreErr }
func (m *MockScheduler) Persist() error {
	m.PersistCalls++
	return m.PersistErr
}
