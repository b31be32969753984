// Package gobench turns `go test -bench` output into benchmark results.
package gobench

import (
	"benchstore/internal/models"
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var ErrNoBenchmarks = errors.New("no benchmark results found in output")

type Mode int

const (
	// ModeSplit emits one result per measurement, named "<bench> - <unit>".
	ModeSplit Mode = iota
	// ModeCombined emits one result per benchmark with the extra
	// measurements packed into the unit, as older dashboards expect.
	ModeCombined
)

// BenchmarkFib10-8   	 4906161	       245.1 ns/op	      16 B/op	       1 allocs/op
var benchLine = regexp.MustCompile(`^(Benchmark\S*?)(?:-(\d+))?\s+(\d+)\s+(.+)$`)

type measurement struct {
	raw   string
	value float64
	unit  string
}

// Parse reads benchmark output from r. Lines that are not benchmark results
// (goos, pkg, PASS, test logs) are skipped.
func Parse(r io.Reader, mode Mode) ([]models.BenchResult, error) {
	var results []models.BenchResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		m := benchLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name, procs, times := m[1], m[2], m[3]
		measurements, err := parseMeasurements(m[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, name, err)
		}

		extra := times + " times"
		if procs != "" {
			extra += "\n" + procs + " procs"
		}

		switch mode {
		case ModeCombined:
			results = append(results, combined(name, extra, measurements))
		default:
			for _, ms := range measurements {
				results = append(results, models.BenchResult{
					Name:  name + " - " + ms.unit,
					Value: ms.value,
					Unit:  ms.unit,
					Extra: extra,
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read benchmark output: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoBenchmarks
	}
	return results, nil
}

func parseMeasurements(rest string) ([]measurement, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("malformed measurements %q", rest)
	}

	out := make([]measurement, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		v, err := cast.ToFloat64E(fields[i])
		if err != nil {
			return nil, fmt.Errorf("measurement %q: %w", fields[i], err)
		}
		out = append(out, measurement{raw: fields[i], value: v, unit: fields[i+1]})
	}
	return out, nil
}

func combined(name, extra string, ms []measurement) models.BenchResult {
	var unit strings.Builder
	unit.WriteString(ms[0].unit)
	for _, m := range ms[1:] {
		unit.WriteString("\t ")
		unit.WriteString(m.raw)
		unit.WriteString(" ")
		unit.WriteString(m.unit)
	}
	return models.BenchResult{
		Name:  name,
		Value: ms[0].value,
		Unit:  unit.String(),
		Extra: extra,
	}
}
