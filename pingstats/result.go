// SPDX-License-Identifier: MIT

package pingstats

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// host=1.1.1.1 status=OK latency_ms=12.3
// host=google.com status=FAIL
var resultRegexp = regexp.MustCompile(`^host=([a-zA-Z0-9.\-]+)\s+status=(OK|FAIL)(?:\s+latency_ms=(\d+(?:\.\d+)?))?$`)

// Result is a single probe outcome taken from a structured log line.
type Result struct {
	Host string
	OK   bool

	// Latency is the round-trip time in milliseconds, nil for failed probes.
	Latency *float64
}

// ParseResultLine parses a line of the form
// "host=<name> status=OK latency_ms=<ms>" or "host=<name> status=FAIL".
// An OK line must carry a latency and a FAIL line must not.
func ParseResultLine(line string) (Result, error) {
	return parseResultLine(0, line)
}

// ParseResultLines reads structured result lines from r, skipping blank
// lines. The first invalid line aborts parsing.
func ParseResultLines(r io.Reader) ([]Result, error) {
	results := make([]Result, 0)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		res, err := parseResultLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read result lines: %w", err)
	}

	return results, nil
}

func parseResultLine(lineNo int, line string) (Result, error) {
	line = strings.TrimSpace(line)

	matches := resultRegexp.FindStringSubmatch(line)
	if matches == nil {
		return Result{}, newParseError(lineNo, "invalid result line %q", line)
	}

	res := Result{
		Host: matches[1],
		OK:   matches[2] == "OK",
	}

	if matches[3] != "" {
		lat, err := strconv.ParseFloat(matches[3], 64)
		if err != nil {
			return Result{}, newParseError(lineNo, "invalid latency %q", matches[3])
		}
		res.Latency = &lat
	}

	if res.OK && res.Latency == nil {
		return Result{}, newParseError(lineNo, "OK status must include latency_ms")
	}
	if !res.OK && res.Latency != nil {
		return Result{}, newParseError(lineNo, "FAIL status must not include latency_ms")
	}

	return res, nil
}
