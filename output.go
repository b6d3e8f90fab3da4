package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/czerwonk/ping_stats/pingstats"
	yaml "gopkg.in/yaml.v2"
)

type rttView struct {
	Min    float64 `json:"min" yaml:"min"`
	Avg    float64 `json:"avg" yaml:"avg"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

type metricsView struct {
	Source      string   `json:"source" yaml:"source"`
	Target      string   `json:"target,omitempty" yaml:"target,omitempty"`
	Transmitted int      `json:"transmitted" yaml:"transmitted"`
	Received    int      `json:"received" yaml:"received"`
	Duplicates  int      `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Errors      int      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Loss        *float64 `json:"loss_percent" yaml:"loss_percent"`
	RTT         *rttView `json:"rtt_ms" yaml:"rtt_ms"`
}

type summaryView struct {
	Total       int      `json:"total" yaml:"total"`
	SuccessRate float64  `json:"success_rate" yaml:"success_rate"`
	AvgLatency  *float64 `json:"avg_latency_ms" yaml:"avg_latency_ms"`
	P95Latency  *float64 `json:"p95_latency_ms" yaml:"p95_latency_ms"`
}

func newMetricsView(source string, m *pingstats.Metrics) metricsView {
	v := metricsView{
		Source:      source,
		Target:      m.Target,
		Transmitted: m.Transmitted,
		Received:    m.Received,
		Duplicates:  m.Duplicates,
		Errors:      m.Errors,
	}

	if m.LossDefined() {
		loss := m.Loss
		v.Loss = &loss
	}

	if m.RTT != nil {
		v.RTT = &rttView{
			Min:    ms(m.RTT.Min),
			Avg:    ms(m.RTT.Avg),
			Max:    ms(m.RTT.Max),
			StdDev: ms(m.RTT.StdDev),
		}
	}

	return v
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func writeMetrics(w io.Writer, format string, views []metricsView) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		return writeYAML(w, views)
	}

	for _, v := range views {
		if err := writeMetricsText(w, v); err != nil {
			return err
		}
	}

	return nil
}

func writeMetricsText(w io.Writer, v metricsView) error {
	header := v.Source
	if v.Target != "" {
		header = fmt.Sprintf("%s (%s)", v.Target, v.Source)
	}

	loss := "n/a"
	if v.Loss != nil {
		loss = fmt.Sprintf("%.2f%%", *v.Loss)
	}

	rtt := "n/a"
	if v.RTT != nil {
		rtt = fmt.Sprintf("min %.3f ms, avg %.3f ms, max %.3f ms, stddev %.3f ms", v.RTT.Min, v.RTT.Avg, v.RTT.Max, v.RTT.StdDev)
	}

	_, err := fmt.Fprintf(w, "--- %s ---\npackets: %d transmitted, %d received, %s loss\nrtt: %s\n", header, v.Transmitted, v.Received, loss, rtt)
	return err
}

func writeSummary(w io.Writer, format string, s pingstats.Summary) error {
	v := summaryView{
		Total:       s.Total,
		SuccessRate: s.SuccessRate,
		AvgLatency:  s.AvgLatency,
		P95Latency:  s.P95Latency,
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return writeYAML(w, v)
	}

	_, err := fmt.Fprintf(w, "total: %d\nsuccess rate: %.4f\navg latency: %s\np95 latency: %s\n",
		v.Total, v.SuccessRate, optionalMillis(v.AvgLatency), optionalMillis(v.P95Latency))
	return err
}

func optionalMillis(v *float64) string {
	if v == nil {
		return "n/a"
	}

	return fmt.Sprintf("%.3f ms", *v)
}

func writeYAML(w io.Writer, v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}
