// SPDX-License-Identifier: MIT

// Package pingstats turns the textual output of ping into metrics.
package pingstats

import "time"

// Metrics is the summary of a single ping run.
type Metrics struct {
	Target      string // host from the statistics header, may be empty
	Transmitted int    // number of echo requests sent
	Received    int    // number of echo replies received
	Duplicates  int    // duplicate replies (iputils only)
	Errors      int    // ICMP errors reported (iputils only)
	Loss        float64

	// RTT is nil when the output carries no round-trip summary, e.g. when
	// every request timed out.
	RTT *RTT

	// Replies holds the round-trip times of the individual reply lines.
	Replies []time.Duration
}

// RTT holds round-trip statistics.
type RTT struct {
	Min    time.Duration
	Avg    time.Duration
	Max    time.Duration
	StdDev time.Duration
}

// LossDefined reports whether Loss is backed by at least one transmitted
// packet. With nothing transmitted Loss is 0 by convention.
func (m *Metrics) LossDefined() bool {
	return m.Transmitted > 0
}

// LossRatio returns Loss scaled to 0..1.
func (m *Metrics) LossRatio() float64 {
	return m.Loss / 100
}

// RTTAvailable reports whether latency statistics were present.
func (m *Metrics) RTTAvailable() bool {
	return m.RTT != nil
}

func lossPercent(transmitted, received int) float64 {
	if transmitted == 0 {
		return 0
	}

	return 100 * (1 - float64(received)/float64(transmitted))
}
