package config

import (
	"io"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config represents configuration for ping_stats
type Config struct {
	Sources []SourceConfig `yaml:"sources"`

	Metrics struct {
		RTTUnit  string `yaml:"rtt-unit"`
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`

	Web struct {
		ListenAddress string   `yaml:"listen-address"`
		TelemetryPath string   `yaml:"telemetry-path"`
		ReadTimeout   duration `yaml:"read-timeout"`
	} `yaml:"web"`
}

type duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (d *duration) UnmarshalYAML(unmashal func(interface{}) error) error {
	var s string
	if err := unmashal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(dur)
	return nil
}

// Duration is a convenience getter.
func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

// Set updates the underlying duration.
func (d *duration) Set(dur time.Duration) {
	*d = duration(dur)
}

// SourcePaths returns the paths of all configured sources.
func (c *Config) SourcePaths() []string {
	paths := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		paths[i] = s.Path
	}

	return paths
}

// FromYAML reads YAML from reader and unmarshals it to Config
func FromYAML(r io.Reader) (*Config, error) {
	c := &Config{}
	err := yaml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
