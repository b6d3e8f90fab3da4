package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/czerwonk/ping_stats/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("cannot write %s: %v", path, err)
	}

	return path
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("cannot read testdata: %v", err)
	}

	return string(b)
}

func TestStatsCollector(t *testing.T) {
	good := writeSource(t, "gw.txt", readTestdata(t, "linux.txt"))
	down := writeSource(t, "down.txt", readTestdata(t, "timeout.txt"))
	bad := writeSource(t, "bad.txt", "ping: unknown host example.invalid\n")

	cfgs := []config.SourceConfig{
		{Path: good, Labels: map[string]string{"site": "fra1"}},
		{Path: down, Labels: map[string]string{"site": "ams1"}},
		{Path: bad},
	}
	sources := make([]*source, len(cfgs))
	for i, c := range cfgs {
		sources[i] = newSource(c)
	}

	c := newStatsCollector(sources, newCustomLabelSet(cfgs), rttInSeconds)

	expected := fmt.Sprintf(`
# HELP ping_stats_loss_ratio Packet loss from 0.0 to 1.0
# TYPE ping_stats_loss_ratio gauge
ping_stats_loss_ratio{site="fra1",source=%[1]q,target="8.8.8.8"} 0.25
ping_stats_loss_ratio{site="ams1",source=%[2]q,target="10.255.255.1"} 1
# HELP ping_stats_packets_received Number of echo replies received
# TYPE ping_stats_packets_received gauge
ping_stats_packets_received{site="fra1",source=%[1]q,target="8.8.8.8"} 3
ping_stats_packets_received{site="ams1",source=%[2]q,target="10.255.255.1"} 0
# HELP ping_stats_parse_errors_total Number of failed attempts to parse a source
# TYPE ping_stats_parse_errors_total counter
ping_stats_parse_errors_total{source=%[1]q} 0
ping_stats_parse_errors_total{source=%[2]q} 0
ping_stats_parse_errors_total{source=%[3]q} 1
# HELP ping_stats_rtt_seconds Round trip time in seconds
# TYPE ping_stats_rtt_seconds gauge
ping_stats_rtt_seconds{site="fra1",source=%[1]q,target="8.8.8.8",type="avg"} 0.012533
ping_stats_rtt_seconds{site="fra1",source=%[1]q,target="8.8.8.8",type="max"} 0.013
ping_stats_rtt_seconds{site="fra1",source=%[1]q,target="8.8.8.8",type="min"} 0.0121
ping_stats_rtt_seconds{site="fra1",source=%[1]q,target="8.8.8.8",type="std_dev"} 0.000368
`, good, down, bad)

	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"ping_stats_loss_ratio",
		"ping_stats_packets_received",
		"ping_stats_parse_errors_total",
		"ping_stats_rtt_seconds",
	)
	if err != nil {
		t.Error(err)
	}
}

func TestStatsCollectorRTTUnit(t *testing.T) {
	path := writeSource(t, "gw.txt", readTestdata(t, "linux.txt"))
	cfgs := []config.SourceConfig{{Path: path}}

	tests := []struct {
		name    string
		unit    rttUnit
		millis  int
		seconds int
	}{
		{"ms", rttInMills, 4, 0},
		{"s", rttInSeconds, 0, 4},
		{"both", rttBoth, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStatsCollector([]*source{newSource(cfgs[0])}, newCustomLabelSet(cfgs), tt.unit)

			if got := testutil.CollectAndCount(c, "ping_stats_rtt_ms"); got != tt.millis {
				t.Errorf("expected %d ping_stats_rtt_ms series, got %d", tt.millis, got)
			}

			c = newStatsCollector([]*source{newSource(cfgs[0])}, newCustomLabelSet(cfgs), tt.unit)
			if got := testutil.CollectAndCount(c, "ping_stats_rtt_seconds"); got != tt.seconds {
				t.Errorf("expected %d ping_stats_rtt_seconds series, got %d", tt.seconds, got)
			}
		})
	}
}

func TestStatsCollectorCachesParseResult(t *testing.T) {
	path := writeSource(t, "gw.txt", readTestdata(t, "linux.txt"))
	s := newSource(config.SourceConfig{Path: path})
	c := newStatsCollector([]*source{s}, newCustomLabelSet(nil), rttInMills)

	testutil.CollectAndCount(c)
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := testutil.CollectAndCount(c, "ping_stats_packets_received"); got != 1 {
		t.Errorf("expected cached result to be exported, got %d series", got)
	}

	s.invalidate()
	if got := testutil.CollectAndCount(c, "ping_stats_packets_received"); got != 0 {
		t.Errorf("expected no series after reparse failed, got %d", got)
	}
	if got := s.parseErrors(); got != 1 {
		t.Errorf("expected 1 parse error, got %d", got)
	}
}
