package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommit(id string) CommitInfo {
	return CommitInfo{
		Author:    Person{Email: "dev@example.com", Name: "Dev", Username: "dev"},
		Committer: Person{Email: "noreply@github.com", Name: "GitHub", Username: "web-flow"},
		Distinct:  true,
		ID:        id,
		Message:   "Speed up reconcile loop",
		Timestamp: "2021-03-01T10:00:00Z",
		TreeID:    "tree-" + id,
		URL:       "https://example.com/r/commit/" + id,
	}
}

func testEntry(id string, date int64, value float64) Entry {
	return Entry{
		Commit: testCommit(id),
		Date:   date,
		Tool:   "go",
		Benches: []BenchResult{
			{Name: "BenchmarkFoo", Value: value, Unit: "ns/op", Extra: "10 times"},
		},
	}
}

func TestNewBenchmarkSuite_Empty(t *testing.T) {
	s := NewBenchmarkSuite("https://example.com/r")
	assert.Equal(t, "https://example.com/r", s.RepoURL)
	assert.Equal(t, int64(0), s.LastUpdate)
	assert.NotNil(t, s.Entries)
	assert.Empty(t, s.Categories())
}

func TestBenchmarkSuite_ExampleScenario(t *testing.T) {
	s := NewBenchmarkSuite("https://example.com/r")

	s.Append("Go Benchmark", testEntry("a1", 1000, 42))
	assert.Equal(t, int64(1000), s.LastUpdate)
	assert.Equal(t, 1, s.Len("Go Benchmark"))

	s.Append("Go Benchmark", testEntry("a2", 500, 40))
	assert.Equal(t, int64(1000), s.LastUpdate)
	require.Equal(t, 2, s.Len("Go Benchmark"))
	assert.Equal(t, int64(1000), s.Entries["Go Benchmark"][0].Date)
	assert.Equal(t, int64(500), s.Entries["Go Benchmark"][1].Date)
}

func TestBenchmarkSuite_AppendKeepsPriorEntries(t *testing.T) {
	s := NewBenchmarkSuite("")
	s.Append("Go Benchmark", testEntry("a1", 1000, 1))
	s.Append("Go Benchmark", testEntry("a2", 2000, 2))
	before := s.Clone().Entries["Go Benchmark"]

	next := testEntry("a3", 3000, 3)
	s.Append("Go Benchmark", next)

	after := s.Entries["Go Benchmark"]
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, next, after[len(after)-1])
}

func TestBenchmarkSuite_AppendCopiesBenches(t *testing.T) {
	s := NewBenchmarkSuite("")
	e := testEntry("a1", 1000, 1)
	s.Append("Go Benchmark", e)

	e.Benches[0].Value = 999
	assert.Equal(t, float64(1), s.Entries["Go Benchmark"][0].Benches[0].Value)
}

func TestBenchmarkSuite_LastUpdateIsMaxAcrossCategories(t *testing.T) {
	s := NewBenchmarkSuite("")
	dates := map[string][]int64{
		"Go Benchmark":   {10, 300, 20},
		"Rust Benchmark": {500, 5},
		"Go Benchmark 2": {499},
	}
	for cat, ds := range dates {
		for _, d := range ds {
			s.Append(cat, testEntry("c", d, 1))
		}
	}

	var max int64
	for _, entries := range s.Entries {
		for _, e := range entries {
			if e.Date > max {
				max = e.Date
			}
		}
	}
	assert.Equal(t, int64(500), max)
	assert.Equal(t, max, s.LastUpdate)
}

func TestBenchmarkSuite_DuplicatesPreserved(t *testing.T) {
	s := NewBenchmarkSuite("")
	e := testEntry("dup", 1000, 7)
	s.Append("Go Benchmark", e)
	s.Append("Go Benchmark", e)

	require.Equal(t, 2, s.Len("Go Benchmark"))
	assert.Equal(t, s.Entries["Go Benchmark"][0], s.Entries["Go Benchmark"][1])
}

func TestBenchmarkSuite_AppendOnZeroValue(t *testing.T) {
	var s BenchmarkSuite
	s.Append("Go Benchmark", testEntry("a1", 1, 1))
	assert.Equal(t, 1, s.Len("Go Benchmark"))
}

func TestBenchmarkSuite_Categories_Sorted(t *testing.T) {
	s := NewBenchmarkSuite("")
	s.Append("b", testEntry("1", 1, 1))
	s.Append("a", testEntry("2", 2, 1))
	s.Append("c", testEntry("3", 3, 1))
	assert.Equal(t, []string{"a", "b", "c"}, s.Categories())
}

func TestBenchmarkSuite_Latest(t *testing.T) {
	s := NewBenchmarkSuite("")
	_, ok := s.Latest("Go Benchmark")
	assert.False(t, ok)

	s.Append("Go Benchmark", testEntry("a1", 1, 1))
	s.Append("Go Benchmark", testEntry("a2", 2, 2))

	latest, ok := s.Latest("Go Benchmark")
	require.True(t, ok)
	assert.Equal(t, "a2", latest.Commit.ID)

	latest.Benches[0].Value = 100
	assert.Equal(t, float64(2), s.Entries["Go Benchmark"][1].Benches[0].Value)
}

func TestBenchmarkSuite_CloneIsDeep(t *testing.T) {
	s := NewBenchmarkSuite("r")
	s.Append("Go Benchmark", testEntry("a1", 1, 1))

	c := s.Clone()
	c.Entries["Go Benchmark"][0].Benches[0].Value = 50
	c.Append("Go Benchmark", testEntry("a2", 2, 2))

	assert.Equal(t, float64(1), s.Entries["Go Benchmark"][0].Benches[0].Value)
	assert.Equal(t, 1, s.Len("Go Benchmark"))
}

func TestEntry_Validate(t *testing.T) {
	e := testEntry("a1", 1, 0)
	assert.NoError(t, e.Validate())

	missingID := testEntry("", 1, 1)
	assert.ErrorIs(t, missingID.Validate(), ErrInvalidEntry)

	noBenches := testEntry("a1", 1, 1)
	noBenches.Benches = nil
	assert.ErrorIs(t, noBenches.Validate(), ErrInvalidEntry)

	noTool := testEntry("a1", 1, 1)
	noTool.Tool = ""
	assert.ErrorIs(t, noTool.Validate(), ErrInvalidEntry)

	zeroDate := testEntry("a1", 0, 1)
	assert.NoError(t, zeroDate.Validate())

	noUnit := testEntry("a1", 1, 1)
	noUnit.Benches[0].Unit = ""
	assert.ErrorIs(t, noUnit.Validate(), ErrInvalidEntry)
}
