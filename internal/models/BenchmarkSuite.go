package models

import (
	"fmt"
	"sort"
)

// BenchmarkSuite is the whole benchmark history: every entry ever recorded,
// grouped by category ("Go Benchmark") in append order.
type BenchmarkSuite struct {
	LastUpdate int64              `json:"lastUpdate"`
	RepoURL    string             `json:"repoUrl"`
	Entries    map[string][]Entry `json:"entries"`
}

func NewBenchmarkSuite(repoURL string) *BenchmarkSuite {
	return &BenchmarkSuite{
		RepoURL: repoURL,
		Entries: make(map[string][]Entry),
	}
}

// Append adds entry to the end of the category, creating it when absent.
// Earlier entries are never touched; duplicates are kept as-is.
func (s *BenchmarkSuite) Append(category string, entry Entry) {
	if s.Entries == nil {
		s.Entries = make(map[string][]Entry)
	}
	s.Entries[category] = append(s.Entries[category], entry.clone())
	if entry.Date > s.LastUpdate {
		s.LastUpdate = entry.Date
	}
}

func (s *BenchmarkSuite) Categories() []string {
	names := make([]string, 0, len(s.Entries))
	for name := range s.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *BenchmarkSuite) Len(category string) int {
	return len(s.Entries[category])
}

// EntriesOf returns a copy of the category's entries, nil when absent.
func (s *BenchmarkSuite) EntriesOf(category string) []Entry {
	entries, ok := s.Entries[category]
	if !ok {
		return nil
	}
	copied := make([]Entry, len(entries))
	for i, e := range entries {
		copied[i] = e.clone()
	}
	return copied
}

// Latest returns the most recently appended entry of the category.
func (s *BenchmarkSuite) Latest(category string) (*Entry, bool) {
	entries := s.Entries[category]
	if len(entries) == 0 {
		return nil, false
	}
	latest := entries[len(entries)-1].clone()
	return &latest, true
}

// Clone returns a deep copy that shares no slices with s.
func (s *BenchmarkSuite) Clone() *BenchmarkSuite {
	c := &BenchmarkSuite{
		LastUpdate: s.LastUpdate,
		RepoURL:    s.RepoURL,
		Entries:    make(map[string][]Entry, len(s.Entries)),
	}
	for name := range s.Entries {
		c.Entries[name] = s.EntriesOf(name)
	}
	return c
}

// Validate checks every entry, reporting the first failure with its location.
func (s *BenchmarkSuite) Validate() error {
	for _, name := range s.Categories() {
		for i := range s.Entries[name] {
			if err := s.Entries[name][i].Validate(); err != nil {
				return fmt.Errorf("entries[%q][%d]: %w", name, i, err)
			}
		}
	}
	return nil
}
