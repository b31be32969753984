package persistence

import (
	"benchstore/internal/services"
	"benchstore/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const restoreFixture = `window.BENCHMARK_DATA = {
  "lastUpdate": 1700000000000,
  "repoUrl": "https://github.com/org/repo",
  "entries": {
    "Go Benchmark": [
      {
        "commit": {"id": "abc", "message": "m", "timestamp": "2024-01-02T15:04:05Z", "url": "u",
                   "author": {"name": "n", "email": "e"}, "committer": {"name": "n", "email": "e"},
                   "distinct": true, "tree_id": "t"},
        "date": 1700000000000,
        "tool": "go",
        "benches": [{"name": "BenchmarkFib10 - ns/op", "value": 245.1, "unit": "ns/op", "extra": "1000 times"}]
      }
    ]
  }
};
`

func newTestScheduler(t *testing.T, path string) (*Scheduler, services.BenchmarkServiceInterface, *testutil.MockMetrics) {
	t.Helper()
	conf := testConfig(path)
	svc := services.NewBenchmarkService(conf)
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fm := NewFileManager(conf, svc, logger)
	s := NewScheduler(conf, logger, svc, fm, &testutil.MockCompressor{}, metrics).(*Scheduler)
	return s, svc, metrics
}

func TestScheduler_Restore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.js")
	require.NoError(t, os.WriteFile(path, []byte(restoreFixture), 0644))

	s, svc, metrics := newTestScheduler(t, path)
	require.NoError(t, s.Restore())

	latest, ok := svc.GetLatest("Go Benchmark")
	require.True(t, ok)
	assert.Equal(t, "abc", latest.Commit.ID)
	assert.Equal(t, 245.1, latest.Benches[0].Value)
	assert.Equal(t, 1, metrics.EntriesTotal["Go Benchmark"])
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	s, _, _ := newTestScheduler(t, "/nonexistent/data.js")
	assert.NoError(t, s.Restore())
}

func TestScheduler_Restore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.js")
	require.NoError(t, os.WriteFile(path, []byte("window.BENCHMARK_DATA = {"), 0644))

	s, _, _ := newTestScheduler(t, path)
	assert.Error(t, s.Restore())
}

func TestScheduler_Persist_SkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.js")
	s, _, metrics := newTestScheduler(t, path)

	require.NoError(t, s.Persist())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing changed, nothing written")
	assert.Equal(t, 0, metrics.PersistenceCalls)
}

func TestScheduler_Persist_WritesAfterAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.js")
	s, svc, metrics := newTestScheduler(t, path)

	e := testEntry("a", 100, 1)
	require.NoError(t, svc.Append("Go Benchmark", &e))
	require.NoError(t, s.Persist())

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.PersistenceCalls)
	assert.Equal(t, 1, metrics.EntriesTotal["Go Benchmark"])

	require.NoError(t, s.Persist())
	assert.Equal(t, 1, metrics.PersistenceCalls)
}

func TestScheduler_Persist_WriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s, svc, _ := newTestScheduler(t, filepath.Join(blocker, "data.js"))
	e := testEntry("a", 100, 1)
	require.NoError(t, svc.Append("Go Benchmark", &e))

	assert.Error(t, s.Persist())
}

func TestScheduler_Persist_ExportsArchive(t *testing.T) {
	dir := t.TempDir()
	conf := testConfig(filepath.Join(dir, "data.js"))
	conf.Persistence.ArchiveDir = filepath.Join(dir, "archive")
	svc := services.NewBenchmarkService(conf)
	logger := &testutil.MockLogger{}
	s := NewScheduler(conf, logger, svc, NewFileManager(conf, svc, logger), &testutil.MockCompressor{}, &testutil.MockMetrics{})

	e := testEntry("a", 100, 1)
	require.NoError(t, svc.Append("Go Benchmark", &e))
	require.NoError(t, s.Persist())

	_, err := os.Stat(filepath.Join(dir, "archive", "Go%20Benchmark.json.zst"))
	assert.NoError(t, err)
}

func TestScheduler_StopNilCron(t *testing.T) {
	s, _, _ := newTestScheduler(t, "/tmp/data.js")
	s.Stop()
}

func TestScheduler_InitPersistsPeriodically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.js")
	s, svc, _ := newTestScheduler(t, path)

	e := testEntry("a", 100, 1)
	require.NoError(t, svc.Append("Go Benchmark", &e))

	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)
}
