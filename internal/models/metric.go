package models

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Shape tells how a BenchResult packs its measurements.
type Shape int

const (
	// ShapeSingle is one measurement with one unit and a plain name.
	ShapeSingle Shape = iota
	// ShapeCombined is the legacy record: Value is in the first unit and the
	// remaining measurements are packed into Unit, e.g.
	// "ns/op\t 11125 B/op\t 12 allocs/op".
	ShapeCombined
	// ShapeSplit is one measurement per record, the name suffixed with
	// " - <unit>".
	ShapeSplit
)

func (s Shape) String() string {
	switch s {
	case ShapeCombined:
		return "combined"
	case ShapeSplit:
		return "split"
	default:
		return "single"
	}
}

const metricSeparator = " - "

// Metric is one named measurement, independent of the stored shape.
type Metric struct {
	Benchmark string
	Unit      string
	Value     float64
}

func (b BenchResult) Shape() Shape {
	if strings.ContainsAny(strings.TrimSpace(b.Unit), "\t ") {
		return ShapeCombined
	}
	if b.Unit != "" && strings.HasSuffix(b.Name, metricSeparator+b.Unit) {
		return ShapeSplit
	}
	return ShapeSingle
}

// Metrics expands the result into its measurements without modifying it.
func (b BenchResult) Metrics() ([]Metric, error) {
	switch b.Shape() {
	case ShapeSplit:
		return []Metric{{
			Benchmark: strings.TrimSuffix(b.Name, metricSeparator+b.Unit),
			Unit:      b.Unit,
			Value:     b.Value,
		}}, nil
	case ShapeCombined:
		return parseCombinedUnit(b.Name, b.Value, b.Unit)
	default:
		return []Metric{{Benchmark: b.Name, Unit: b.Unit, Value: b.Value}}, nil
	}
}

func parseCombinedUnit(name string, value float64, unit string) ([]Metric, error) {
	parts := strings.Split(strings.TrimSpace(unit), "\t")
	first := strings.TrimSpace(parts[0])
	if first == "" || strings.Contains(first, " ") {
		return nil, fmt.Errorf("bench %q: malformed combined unit %q", name, unit)
	}

	metrics := []Metric{{Benchmark: name, Unit: first, Value: value}}
	for _, part := range parts[1:] {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("bench %q: malformed measurement %q", name, part)
		}
		v, err := cast.ToFloat64E(fields[0])
		if err != nil {
			return nil, fmt.Errorf("bench %q: measurement %q: %w", name, part, err)
		}
		metrics = append(metrics, Metric{Benchmark: name, Unit: fields[1], Value: v})
	}
	return metrics, nil
}

// EntryMetrics flattens the metrics of every bench of the entry.
func EntryMetrics(e *Entry) ([]Metric, error) {
	var all []Metric
	for _, b := range e.Benches {
		m, err := b.Metrics()
		if err != nil {
			return nil, err
		}
		all = append(all, m...)
	}
	return all, nil
}
