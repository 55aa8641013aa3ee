// Package config loads and validates the YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds accepted by the "source" field.
const (
	SourceSynth  = "synth"
	SourceLines  = "lines"
	SourceNetdev = "netdev"
	SourceProm   = "prom"
)

// Bounds applied while validating. Values outside are clamped, not rejected.
const (
	MinInterval = 10 * time.Millisecond
	MinRate     = 1
	MaxRate     = 10000
)

// Duration decodes YAML values like "500ms" or plain nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	// Integer scalars also decode as strings, so try them first.
	var ns int64
	if err := node.Decode(&ns); err == nil {
		*d = Duration(ns)
		return nil
	}
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("bad duration: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full on-disk configuration. Flags override individual
// fields after loading.
type Config struct {
	Source   string   `yaml:"source"`
	Capacity int      `yaml:"capacity"`
	Window   int      `yaml:"window"`
	Interval Duration `yaml:"interval"`

	// lines source
	Path string `yaml:"path"`

	// synth source
	Rate     float64 `yaml:"rate"`
	Channels int     `yaml:"channels"`

	// netdev source
	Interface string `yaml:"interface"`

	Prometheus PrometheusConfig `yaml:"prometheus"`
	Series     []SeriesConfig   `yaml:"series"`
}

// PrometheusConfig configures the metrics endpoint poller.
type PrometheusConfig struct {
	URL     string   `yaml:"url"`
	Metrics []string `yaml:"metrics"`
}

// SeriesConfig overrides the name and color of one channel, by position.
type SeriesConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Source:   SourceSynth,
		Capacity: 10000,
		Window:   300,
		Interval: Duration(500 * time.Millisecond),
		Rate:     60,
		Channels: 3,
	}
}

// Load reads the YAML file at path, fills defaults and validates. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyDefaults fills zero fields and clamps out-of-range numeric values.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Source == "" {
		c.Source = d.Source
	}
	if c.Capacity == 0 {
		c.Capacity = d.Capacity
	}
	if c.Capacity < 0 {
		c.Capacity = 0
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.Interval.Std() < MinInterval {
		c.Interval = Duration(MinInterval)
	}
	if c.Rate == 0 {
		c.Rate = d.Rate
	}
	if c.Rate < MinRate {
		c.Rate = MinRate
	}
	if c.Rate > MaxRate {
		c.Rate = MaxRate
	}
	if c.Channels <= 0 {
		c.Channels = d.Channels
	}
}

// Validate rejects what clamping cannot fix.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceSynth, SourceNetdev:
	case SourceLines:
		// empty path means stdin
	case SourceProm:
		if c.Prometheus.URL == "" {
			return fmt.Errorf("prom source needs prometheus.url")
		}
		if len(c.Prometheus.Metrics) == 0 {
			return fmt.Errorf("prom source needs prometheus.metrics")
		}
	default:
		return fmt.Errorf("unknown source %q (want synth, lines, netdev or prom)", c.Source)
	}
	return nil
}
