package services

import (
	"benchstore/internal/models"
	"benchstore/internal/structures"
	"sync"

	"go.uber.org/atomic"
)

const DefaultCategory = "Go Benchmark"

type BenchmarkServiceInterface interface {
	Append(category string, entry *models.Entry) error
	GetSnapshot() *models.BenchmarkSuite
	PutSuite(suite *models.BenchmarkSuite)
	GetCategories() []string
	GetEntries(category string) []models.Entry
	GetLatest(category string) (*models.Entry, bool)
	GetEntryCount(category string) int
	GetRevision() uint64
	GetLastUpdate() int64
	GetRepoURL() string
}

// BenchmarkService owns the in-memory suite of a process. Every mutation bumps
// the revision so persistence and caches can tell whether anything changed.
// The revision is bumped while mu is held and read without it.
type BenchmarkService struct {
	mu              sync.RWMutex
	suite           *models.BenchmarkSuite
	revision        atomic.Uint64
	defaultCategory string
}

func NewBenchmarkService(conf *structures.Config) BenchmarkServiceInterface {
	category := conf.Store.DefaultCategory
	if category == "" {
		category = DefaultCategory
	}
	return &BenchmarkService{
		suite:           models.NewBenchmarkSuite(conf.Store.RepoURL),
		defaultCategory: category,
	}
}

func (bs *BenchmarkService) category(name string) string {
	if name == "" {
		return bs.defaultCategory
	}
	return name
}

func (bs *BenchmarkService) Append(category string, entry *models.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	bs.suite.Append(bs.category(category), *entry)
	bs.revision.Inc()
	return nil
}

func (bs *BenchmarkService) GetSnapshot() *models.BenchmarkSuite {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.suite.Clone()
}

// PutSuite replaces the whole suite, keeping the configured repository URL
// when the loaded one has none.
func (bs *BenchmarkService) PutSuite(suite *models.BenchmarkSuite) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	repoURL := bs.suite.RepoURL
	bs.suite = suite.Clone()
	if bs.suite.RepoURL == "" {
		bs.suite.RepoURL = repoURL
	}
	bs.revision.Inc()
}

func (bs *BenchmarkService) GetCategories() []string {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.suite.Categories()
}

func (bs *BenchmarkService) GetEntries(category string) []models.Entry {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.suite.EntriesOf(bs.category(category))
}

func (bs *BenchmarkService) GetLatest(category string) (*models.Entry, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.suite.Latest(bs.category(category))
}

func (bs *BenchmarkService) GetEntryCount(category string) int {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.suite.Len(bs.category(category))
}

func (bs *BenchmarkService) GetRevision() uint64 {
	return bs.revision.Load()
}

func (bs *BenchmarkService) GetLastUpdate() int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.suite.LastUpdate
}

func (bs *BenchmarkService) GetRepoURL() string {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.suite.RepoURL
}
