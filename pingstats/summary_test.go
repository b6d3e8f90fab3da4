package pingstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(host string, latency float64) Result {
	return Result{Host: host, OK: true, Latency: &latency}
}

func fail(host string) Result {
	return Result{Host: host}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Total)
	assert.Zero(t, s.SuccessRate)
	assert.Nil(t, s.AvgLatency)
	assert.Nil(t, s.P95Latency)
}

func TestSummarizeAllFailures(t *testing.T) {
	s := Summarize([]Result{fail("a"), fail("b")})

	assert.Equal(t, 2, s.Total)
	assert.Zero(t, s.SuccessRate)
	assert.Nil(t, s.AvgLatency)
	assert.Nil(t, s.P95Latency)
}

func TestSummarizeMixed(t *testing.T) {
	s := Summarize([]Result{ok("a", 10), fail("b"), ok("c", 30)})

	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 2.0/3, s.SuccessRate, 1e-9)
	require.NotNil(t, s.AvgLatency)
	assert.InDelta(t, 20.0, *s.AvgLatency, 1e-9)
	require.NotNil(t, s.P95Latency)
	assert.InDelta(t, 29.0, *s.P95Latency, 1e-9)
}

func TestSummarizeUnsortedLatencies(t *testing.T) {
	results := []Result{ok("a", 100), ok("b", 3), fail("c"), ok("d", 1), ok("e", 4), ok("f", 2)}

	s := Summarize(results)
	require.NotNil(t, s.P95Latency)

	want, err := Percentile([]float64{100, 3, 1, 4, 2}, 95)
	require.NoError(t, err)
	assert.InDelta(t, want, *s.P95Latency, 1e-9)
	assert.InDelta(t, 80.8, *s.P95Latency, 1e-9)
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"single value", []float64{42}, 95, 42},
		{"lower bound", []float64{10, 20, 30}, 0, 10},
		{"upper bound", []float64{10, 20, 30}, 100, 30},
		{"median", []float64{10, 20, 30, 40}, 50, 25},
		{"unsorted", []float64{40, 10, 30, 20}, 50, 25},
		{"p95", []float64{1, 2, 3, 4, 100}, 95, 80.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentile(tt.values, tt.p)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPercentileDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, err := Percentile(values, 50)
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentileInvalid(t *testing.T) {
	_, err := Percentile(nil, 50)
	assert.Error(t, err)

	_, err = Percentile([]float64{1, 2}, -1)
	assert.Error(t, err)

	_, err = Percentile([]float64{1, 2}, 101)
	assert.Error(t, err)
}
