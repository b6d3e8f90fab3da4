package main

import (
	"github.com/czerwonk/ping_stats/pingstats"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const prefix = "ping_stats_"

var labelNames = []string{"source", "target"}

type statsCollector struct {
	sources      []*source
	customLabels *customLabelSet

	transmittedDesc *prometheus.Desc
	receivedDesc    *prometheus.Desc
	lossDesc        *prometheus.Desc
	rttDesc         scaledMetrics
	parseErrorsDesc *prometheus.Desc
}

func newStatsCollector(sources []*source, customLabels *customLabelSet, unit rttUnit) *statsCollector {
	names := append(append([]string{}, labelNames...), customLabels.labelNames()...)

	return &statsCollector{
		sources:         sources,
		customLabels:    customLabels,
		transmittedDesc: newDesc("packets_transmitted", "Number of echo requests sent", names, nil),
		receivedDesc:    newDesc("packets_received", "Number of echo replies received", names, nil),
		lossDesc:        newDesc("loss_ratio", "Packet loss from 0.0 to 1.0", names, nil),
		rttDesc:         newScaledDesc("rtt", "Round trip time", unit, append(append([]string{}, names...), "type")),
		parseErrorsDesc: newDesc("parse_errors_total", "Number of failed attempts to parse a source", []string{"source"}, nil),
	}
}

func newDesc(name, help string, variableLabels []string, constLabels prometheus.Labels) *prometheus.Desc {
	return prometheus.NewDesc(prefix+name, help, variableLabels, constLabels)
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.transmittedDesc
	ch <- c.receivedDesc
	ch <- c.lossDesc
	c.rttDesc.Describe(ch)
	ch <- c.parseErrorsDesc
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.sources {
		m, err := s.get()
		ch <- prometheus.MustNewConstMetric(c.parseErrorsDesc, prometheus.CounterValue, float64(s.parseErrors()), s.path())
		if err != nil {
			continue
		}

		c.collectMetrics(ch, s, m)
	}
}

func (c *statsCollector) collectMetrics(ch chan<- prometheus.Metric, s *source, m *pingstats.Metrics) {
	l := append([]string{s.path(), m.Target}, c.customLabels.labelValues(s.cfg)...)

	ch <- prometheus.MustNewConstMetric(c.transmittedDesc, prometheus.GaugeValue, float64(m.Transmitted), l...)
	ch <- prometheus.MustNewConstMetric(c.receivedDesc, prometheus.GaugeValue, float64(m.Received), l...)

	if m.LossDefined() {
		ch <- prometheus.MustNewConstMetric(c.lossDesc, prometheus.GaugeValue, m.LossRatio(), l...)
	}

	if m.RTT == nil {
		log.WithField("source", s.path()).Debugln("no round-trip statistics available")
		return
	}

	c.rttDesc.Collect(ch, m.RTT.Min, append(l, "min")...)
	c.rttDesc.Collect(ch, m.RTT.Avg, append(l, "avg")...)
	c.rttDesc.Collect(ch, m.RTT.Max, append(l, "max")...)
	c.rttDesc.Collect(ch, m.RTT.StdDev, append(l, "std_dev")...)
}
