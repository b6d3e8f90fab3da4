package main

import (
	"sort"

	"github.com/czerwonk/ping_stats/config"
)

// customLabelSet is the union of label names over all sources, in the
// order they were first seen.
type customLabelSet struct {
	names   []string
	nameMap map[string]struct{}
}

func newCustomLabelSet(sources []config.SourceConfig) *customLabelSet {
	cl := &customLabelSet{
		nameMap: make(map[string]struct{}),
		names:   make([]string, 0),
	}

	for i := range sources {
		cl.addLabelsForSource(&sources[i])
	}

	return cl
}

func (cl *customLabelSet) addLabelsForSource(s *config.SourceConfig) {
	if s.Labels == nil {
		return
	}

	names := make([]string, 0, len(s.Labels))
	for name := range s.Labels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cl.addLabel(name)
	}
}

func (cl *customLabelSet) addLabel(name string) {
	if _, exists := cl.nameMap[name]; exists {
		return
	}

	cl.names = append(cl.names, name)
	cl.nameMap[name] = struct{}{}
}

func (cl *customLabelSet) labelNames() []string {
	return cl.names
}

func (cl *customLabelSet) labelValues(s config.SourceConfig) []string {
	values := make([]string, len(cl.names))
	if s.Labels == nil {
		return values
	}

	for i, name := range cl.names {
		if value, isSet := s.Labels[name]; isSet {
			values[i] = value
		}
	}

	return values
}
