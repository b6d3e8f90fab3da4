// SPDX-License-Identifier: MIT

package pingstats

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	mon "github.com/digineo/go-ping/monitor"
)

const rttPattern = `(?:(?:rtt|round-trip)\s+)?(min/avg/max(?:/(?:mdev|stddev))?)\s*=\s*(\S+)\s*ms`

var (
	// --- 8.8.8.8 ping statistics ---
	headerRegexp = regexp.MustCompile(`^\s*--- (.+) ping statistics ---\s*$`)

	// Ping statistics for 8.8.8.8:
	winHeaderRegexp = regexp.MustCompile(`^\s*Ping statistics for (.+):\s*$`)

	// 4 packets transmitted, 3 received, +1 duplicates, +2 errors, 25% packet loss, time 3004ms
	// 4 packets transmitted, 4 packets received, 0.0% packet loss
	// 4 transmitted, 4 received, min/avg/max = 1/2/3 ms
	statsRegexp = regexp.MustCompile(`^\s*(\d+) (?:packets )?transmitted, (\d+) (?:packets )?received((?:, \+\d+ [a-z]+)*)(?:, (\S+)% packet loss)?`)
	extraRegexp = regexp.MustCompile(`\+(\d+) ([a-z]+)`)

	// Packets: Sent = 4, Received = 4, Lost = 0 (0% loss),
	winStatsRegexp = regexp.MustCompile(`^\s*Packets: Sent = (\d+), Received = (\d+), Lost = (\d+)`)

	// rtt min/avg/max/mdev = 0.045/0.052/0.061/0.006 ms
	// round-trip min/avg/max/stddev = 44.347/44.347/44.347/0.000 ms
	// round-trip min/avg/max = 12.3/12.3/12.3 ms
	rttRegexp = regexp.MustCompile(`^\s*` + rttPattern)

	// round-trip summary trailing a statistics summary on the same line
	inlineRTTRegexp = regexp.MustCompile(rttPattern)

	rttValueRegexp = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	// Minimum = 1ms, Maximum = 3ms, Average = 2ms
	winRTTRegexp = regexp.MustCompile(`^\s*Minimum = (\S+?)ms, Maximum = (\S+?)ms, Average = (\S+?)ms`)

	// 64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=12.3 ms
	// Reply from 8.8.8.8: bytes=32 time<1ms TTL=118
	replyRegexp = regexp.MustCompile(`time[=<](\d+(?:\.\d+)?)\s*ms`)
)

type parser struct {
	m       *Metrics
	statsAt int
	haveRTT bool
	haveDev bool
	lineNo  int
}

// Parse converts the textual output of a ping run into Metrics.
// Linux (iputils), BSD/macOS, busybox and Windows formats are understood.
// A *ParseError is returned when no statistics summary is found or when a
// summary field is malformed.
func Parse(text string) (*Metrics, error) {
	p := &parser{m: &Metrics{}}

	for i, line := range strings.Split(text, "\n") {
		p.lineNo = i + 1
		if err := p.parseLine(strings.TrimRight(line, "\r")); err != nil {
			return nil, err
		}
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	return p.m, nil
}

// ParseReader reads r to EOF and parses the result.
func ParseReader(r io.Reader) (*Metrics, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read ping output: %w", err)
	}

	return Parse(string(b))
}

func (p *parser) parseLine(line string) error {
	if matches := headerRegexp.FindStringSubmatch(line); matches != nil {
		p.m.Target = matches[1]
		return nil
	}

	if matches := winHeaderRegexp.FindStringSubmatch(line); matches != nil {
		p.m.Target = matches[1]
		return nil
	}

	if matches := statsRegexp.FindStringSubmatch(line); matches != nil {
		if err := p.parseStats(matches); err != nil {
			return err
		}

		// the match is anchored, so the remainder starts after matches[0]
		if rtt := inlineRTTRegexp.FindStringSubmatch(line[len(matches[0]):]); rtt != nil {
			return p.parseRTT(rtt)
		}
		return nil
	}

	if matches := winStatsRegexp.FindStringSubmatch(line); matches != nil {
		return p.parseWinStats(matches)
	}

	if matches := rttRegexp.FindStringSubmatch(line); matches != nil {
		return p.parseRTT(matches)
	}

	if matches := winRTTRegexp.FindStringSubmatch(line); matches != nil {
		return p.parseWinRTT(matches)
	}

	if matches := replyRegexp.FindStringSubmatch(line); matches != nil {
		ms, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			return newParseError(p.lineNo, "invalid reply time %q", matches[1])
		}
		p.m.Replies = append(p.m.Replies, millis(ms))
	}

	return nil
}

func (p *parser) parseStats(matches []string) error {
	if err := p.markStats(); err != nil {
		return err
	}

	var err error
	if p.m.Transmitted, err = p.atoi(matches[1], "transmitted"); err != nil {
		return err
	}
	if p.m.Received, err = p.atoi(matches[2], "received"); err != nil {
		return err
	}

	for _, extra := range extraRegexp.FindAllStringSubmatch(matches[3], -1) {
		n, err := p.atoi(extra[1], extra[2])
		if err != nil {
			return err
		}

		switch extra[2] {
		case "duplicates":
			p.m.Duplicates = n
		case "errors":
			p.m.Errors = n
		}
	}

	// the reported loss is rounded by ping, we derive our own
	if matches[4] != "" {
		if _, err := strconv.ParseFloat(matches[4], 64); err != nil {
			return newParseError(p.lineNo, "invalid packet loss %q", matches[4])
		}
	}

	return nil
}

func (p *parser) parseWinStats(matches []string) error {
	if err := p.markStats(); err != nil {
		return err
	}

	var err error
	if p.m.Transmitted, err = p.atoi(matches[1], "sent"); err != nil {
		return err
	}
	if p.m.Received, err = p.atoi(matches[2], "received"); err != nil {
		return err
	}

	lost, err := p.atoi(matches[3], "lost")
	if err != nil {
		return err
	}
	if lost != p.m.Transmitted-p.m.Received {
		return newParseError(p.lineNo, "lost count %d does not match sent %d and received %d", lost, p.m.Transmitted, p.m.Received)
	}

	return nil
}

func (p *parser) parseRTT(matches []string) error {
	names := strings.Split(matches[1], "/")
	values := strings.Split(matches[2], "/")
	if len(values) != len(names) {
		return newParseError(p.lineNo, "expected %d round-trip values for %s, got %q", len(names), matches[1], matches[2])
	}

	return p.setRTT(names, values)
}

func (p *parser) parseWinRTT(matches []string) error {
	// Windows prints maximum before average
	return p.setRTT([]string{"min", "avg", "max"}, []string{matches[1], matches[3], matches[2]})
}

func (p *parser) setRTT(names, values []string) error {
	if p.haveRTT {
		return newParseError(p.lineNo, "duplicate round-trip summary")
	}

	raw := make([]float64, len(values))
	for i, v := range values {
		if !rttValueRegexp.MatchString(v) {
			return newParseError(p.lineNo, "invalid %s round-trip value %q", names[i], v)
		}

		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return newParseError(p.lineNo, "invalid %s round-trip value %q", names[i], v)
		}
		raw[i] = f
	}

	if raw[0] > raw[1] || raw[1] > raw[2] {
		return newParseError(p.lineNo, "round-trip values out of order: min=%v avg=%v max=%v", raw[0], raw[1], raw[2])
	}

	p.m.RTT = &RTT{
		Min: millis(raw[0]),
		Avg: millis(raw[1]),
		Max: millis(raw[2]),
	}
	if len(raw) == 4 {
		p.m.RTT.StdDev = millis(raw[3])
		p.haveDev = true
	}
	p.haveRTT = true

	return nil
}

func (p *parser) markStats() error {
	if p.statsAt > 0 {
		return newParseError(p.lineNo, "duplicate statistics summary (first on line %d)", p.statsAt)
	}

	p.statsAt = p.lineNo
	return nil
}

func (p *parser) atoi(s, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, newParseError(p.lineNo, "invalid %s count %q", field, s)
	}

	return n, nil
}

func (p *parser) finish() error {
	m := p.m

	if p.statsAt == 0 {
		return newParseError(0, "no ping statistics summary found")
	}

	if m.Received > m.Transmitted {
		return newParseError(p.statsAt, "received %d exceeds transmitted %d", m.Received, m.Transmitted)
	}

	if p.haveRTT && m.Received == 0 {
		return newParseError(0, "round-trip summary present but no packets were received")
	}

	m.Loss = lossPercent(m.Transmitted, m.Received)

	if p.haveRTT && !p.haveDev && len(m.Replies) > 0 {
		m.RTT.StdDev = stdDev(m.Replies)
	}

	return nil
}

// stdDev folds reply times into a ping history to get their deviation.
// replies must not be empty.
func stdDev(replies []time.Duration) time.Duration {
	h := mon.NewHistory(len(replies))
	for _, rtt := range replies {
		h.AddResult(rtt, nil)
	}

	return millis(float64(h.Compute().StdDev))
}

func millis(ms float64) time.Duration {
	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}
