// SPDX-License-Identifier: MIT

package pingstats

import (
	"errors"
	"math"
	"sort"
)

// Summary aggregates a set of probe results.
type Summary struct {
	Total       int
	SuccessRate float64 // 0..1, 0 for an empty set

	// AvgLatency and P95Latency are in milliseconds and nil when no probe
	// succeeded.
	AvgLatency *float64
	P95Latency *float64
}

// Summarize computes success rate and latency statistics for results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	if s.Total == 0 {
		return s
	}

	latencies := make([]float64, 0, len(results))
	for _, r := range results {
		if r.OK && r.Latency != nil {
			latencies = append(latencies, *r.Latency)
		}
	}

	s.SuccessRate = float64(len(latencies)) / float64(s.Total)
	if len(latencies) == 0 {
		return s
	}

	var total float64
	for _, l := range latencies {
		total += l
	}
	avg := total / float64(len(latencies))
	s.AvgLatency = &avg

	sort.Float64s(latencies)
	p95 := percentile(latencies, 95)
	s.P95Latency = &p95

	return s
}

// Percentile returns the p-th percentile of values using linear
// interpolation between the closest ranks. values is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("values must be non-empty")
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, errors.New("p must be between 0 and 100")
	}

	xs := make([]float64, len(values))
	copy(xs, values)
	sort.Float64s(xs)

	return percentile(xs, p), nil
}

// percentile expects xs sorted and non-empty and p within 0..100.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 1 {
		return xs[0]
	}

	k := float64(len(xs)-1) * (p / 100)
	f := int(k)
	c := f + 1
	if c > len(xs)-1 {
		c = len(xs) - 1
	}
	if f == c {
		return xs[f]
	}

	return xs[f]*(float64(c)-k) + xs[c]*(k-float64(f))
}
