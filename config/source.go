package config

import "fmt"

// SourceConfig is a file containing ping output, optionally with labels
// attached to the metrics exported for it.
type SourceConfig struct {
	Path   string
	Labels map[string]string
}

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (s *SourceConfig) UnmarshalYAML(unmashal func(interface{}) error) error {
	var str string
	if err := unmashal(&str); err == nil {
		s.Path = str
		return nil
	}

	var x map[string]map[string]string
	if err := unmashal(&x); err != nil {
		return err
	}

	if len(x) != 1 {
		return fmt.Errorf("source must have exactly one path, got %d", len(x))
	}

	for path, l := range x {
		s.Path = path
		s.Labels = l
	}

	return nil
}

// MarshalYAML implements yaml.Marshaler interface.
func (s SourceConfig) MarshalYAML() (interface{}, error) {
	if len(s.Labels) == 0 {
		return s.Path, nil
	}

	return map[string]map[string]string{s.Path: s.Labels}, nil
}
