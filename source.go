package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/czerwonk/ping_stats/config"
	"github.com/czerwonk/ping_stats/pingstats"
	log "github.com/sirupsen/logrus"
)

// stdinSource names ping output read from standard input.
const stdinSource = "-"

// source is a file holding the output of a ping run. The parse result is
// cached until the file is reported as changed.
type source struct {
	cfg     config.SourceConfig
	mutex   sync.Mutex
	stale   bool
	metrics *pingstats.Metrics
	err     error
	errors  int
}

func newSource(cfg config.SourceConfig) *source {
	cfg.Path = filepath.Clean(cfg.Path)
	return &source{cfg: cfg, stale: true}
}

// newParsedSource wraps metrics that were parsed elsewhere, e.g. from stdin.
func newParsedSource(name string, m *pingstats.Metrics) *source {
	return &source{cfg: config.SourceConfig{Path: name}, metrics: m}
}

func (s *source) path() string {
	return s.cfg.Path
}

// get returns the parse result, re-reading the file if it is stale.
func (s *source) get() (*pingstats.Metrics, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.stale {
		return s.metrics, s.err
	}

	s.metrics, s.err = parseFile(s.cfg.Path)
	s.stale = false
	if s.err != nil {
		s.errors++
		log.WithField("source", s.cfg.Path).Warnf("could not parse ping output: %v", s.err)
	} else {
		log.WithField("source", s.cfg.Path).Debugf("parsed ping output for %q", s.metrics.Target)
	}

	return s.metrics, s.err
}

func (s *source) parseErrors() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.errors
}

func (s *source) invalidate() {
	s.mutex.Lock()
	s.stale = true
	s.mutex.Unlock()
}

func (s *source) isStale() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.stale
}

func parseFile(path string) (*pingstats.Metrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open source: %w", err)
	}
	defer f.Close()

	return pingstats.ParseReader(f)
}

func sourcesFromConfig(cfg *config.Config) []*source {
	sources := make([]*source, len(cfg.Sources))
	for i, sc := range cfg.Sources {
		sources[i] = newSource(sc)
	}

	return sources
}
