// Package alert detects performance regressions between two runs.
package alert

import (
	"benchstore/internal/models"
	"fmt"
	"strings"
)

const DefaultThreshold = 2.0

type Alert struct {
	Benchmark  string  `json:"benchmark"`
	Unit       string  `json:"unit"`
	Previous   float64 `json:"previous"`
	Current    float64 `json:"current"`
	Ratio      float64 `json:"ratio"`
	PrevCommit string  `json:"prevCommit"`
	CurrCommit string  `json:"currCommit"`
}

func (a Alert) String() string {
	return fmt.Sprintf("%s [%s]: %g -> %g (%.2fx worse)", a.Benchmark, a.Unit, a.Previous, a.Current, a.Ratio)
}

// BiggerIsBetter reports whether larger values of unit mean faster code.
// Throughput units end with "/s" (MB/s, ops/s); everything else is a cost.
func BiggerIsBetter(unit string) bool {
	return strings.HasSuffix(unit, "/s")
}

type metricKey struct {
	benchmark string
	unit      string
}

// Compare returns one alert for every metric present in both entries whose
// ratio exceeds threshold. Benches that cannot be expanded into metrics are
// skipped, as are zero denominators. A non-positive threshold means
// DefaultThreshold.
func Compare(prev, curr *models.Entry, threshold float64) []Alert {
	if prev == nil || curr == nil {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	previous := make(map[metricKey]float64)
	for _, b := range prev.Benches {
		ms, err := b.Metrics()
		if err != nil {
			continue
		}
		for _, m := range ms {
			previous[metricKey{m.Benchmark, m.Unit}] = m.Value
		}
	}

	var alerts []Alert
	for _, b := range curr.Benches {
		ms, err := b.Metrics()
		if err != nil {
			continue
		}
		for _, m := range ms {
			p, ok := previous[metricKey{m.Benchmark, m.Unit}]
			if !ok {
				continue
			}
			ratio, ok := ratioOf(p, m.Value, m.Unit)
			if !ok || ratio <= threshold {
				continue
			}
			alerts = append(alerts, Alert{
				Benchmark:  m.Benchmark,
				Unit:       m.Unit,
				Previous:   p,
				Current:    m.Value,
				Ratio:      ratio,
				PrevCommit: prev.Commit.ID,
				CurrCommit: curr.Commit.ID,
			})
		}
	}
	return alerts
}

func ratioOf(prev, curr float64, unit string) (float64, bool) {
	if BiggerIsBetter(unit) {
		if curr == 0 {
			return 0, false
		}
		return prev / curr, true
	}
	if prev == 0 {
		return 0, false
	}
	return curr / prev, true
}

// Message renders alerts as a plain-text notification body.
func Message(category string, alerts []Alert) string {
	if len(alerts) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Possible performance regression in %q (commit %s):\n", category, shortID(alerts[0].CurrCommit))
	for _, a := range alerts {
		b.WriteString("- ")
		b.WriteString(a.String())
		b.WriteString("\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
