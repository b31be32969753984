package gobench

import (
	"benchstore/internal/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `goos: linux
goarch: amd64
pkg: github.com/org/repo/fib
cpu: AMD EPYC 7763 64-Core Processor
BenchmarkFib10-8          	 4906161	       245.1 ns/op	      16 B/op	       1 allocs/op
BenchmarkFib20/memo-8     	  121954	      9817 ns/op
BenchmarkCopy             	    1000	   1203456 ns/op	 871.32 MB/s
PASS
ok  	github.com/org/repo/fib	3.512s
`

func TestParse_Split(t *testing.T) {
	results, err := Parse(strings.NewReader(sampleOutput), ModeSplit)
	require.NoError(t, err)
	require.Len(t, results, 6)

	assert.Equal(t, models.BenchResult{
		Name:  "BenchmarkFib10 - ns/op",
		Value: 245.1,
		Unit:  "ns/op",
		Extra: "4906161 times\n8 procs",
	}, results[0])
	assert.Equal(t, "BenchmarkFib10 - B/op", results[1].Name)
	assert.Equal(t, 16.0, results[1].Value)
	assert.Equal(t, "BenchmarkFib10 - allocs/op", results[2].Name)

	assert.Equal(t, "BenchmarkFib20/memo - ns/op", results[3].Name)
	assert.Equal(t, "121954 times\n8 procs", results[3].Extra)

	assert.Equal(t, "BenchmarkCopy - MB/s", results[5].Name)
	assert.Equal(t, "1000 times", results[5].Extra)

	for _, r := range results {
		assert.Equal(t, models.ShapeSplit, r.Shape(), r.Name)
	}
}

func TestParse_Combined(t *testing.T) {
	results, err := Parse(strings.NewReader(sampleOutput), ModeCombined)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, models.BenchResult{
		Name:  "BenchmarkFib10",
		Value: 245.1,
		Unit:  "ns/op\t 16 B/op\t 1 allocs/op",
		Extra: "4906161 times\n8 procs",
	}, results[0])
	assert.Equal(t, models.ShapeCombined, results[0].Shape())

	assert.Equal(t, "ns/op", results[1].Unit)
	assert.Equal(t, models.ShapeSingle, results[1].Shape())

	metrics, err := results[0].Metrics()
	require.NoError(t, err)
	assert.Equal(t, []models.Metric{
		{Benchmark: "BenchmarkFib10", Unit: "ns/op", Value: 245.1},
		{Benchmark: "BenchmarkFib10", Unit: "B/op", Value: 16},
		{Benchmark: "BenchmarkFib10", Unit: "allocs/op", Value: 1},
	}, metrics)
}

func TestParse_SubBenchmarkWithDashes(t *testing.T) {
	out := "BenchmarkSort/size-1000-16   \t  5000\t  300000 ns/op\n"
	results, err := Parse(strings.NewReader(out), ModeSplit)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BenchmarkSort/size-1000 - ns/op", results[0].Name)
	assert.Equal(t, "5000 times\n16 procs", results[0].Extra)
}

func TestParse_NoBenchmarks(t *testing.T) {
	_, err := Parse(strings.NewReader("PASS\nok  \tpkg\t0.01s\n"), ModeSplit)
	assert.ErrorIs(t, err, ErrNoBenchmarks)

	_, err = Parse(strings.NewReader(""), ModeCombined)
	assert.ErrorIs(t, err, ErrNoBenchmarks)
}

func TestParse_MalformedMeasurement(t *testing.T) {
	_, err := Parse(strings.NewReader("BenchmarkX-8  100  fast ns/op\n"), ModeSplit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = Parse(strings.NewReader("BenchmarkX-8  100  12 ns/op 7\n"), ModeSplit)
	assert.Error(t, err)
}

func TestParse_IgnoresBenchmarkLogLines(t *testing.T) {
	out := "BenchmarkX\n    bench_test.go:12: warming up\nBenchmarkX-4  10  5 ns/op\n"
	results, err := Parse(strings.NewReader(out), ModeSplit)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 5.0, results[0].Value)
}
