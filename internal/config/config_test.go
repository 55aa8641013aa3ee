package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "serialscope.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source != SourceSynth {
		t.Errorf("source = %q, want synth", cfg.Source)
	}
	if cfg.Capacity != 10000 || cfg.Window != 300 {
		t.Errorf("capacity/window = %d/%d", cfg.Capacity, cfg.Window)
	}
	if cfg.Interval.Std() != 500*time.Millisecond {
		t.Errorf("interval = %v", cfg.Interval.Std())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
source: lines
path: /var/log/samples.txt
capacity: 5000
window: 120
interval: 250ms
series:
  - name: volts
    color: "#ff0000"
  - name: amps
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source != SourceLines || cfg.Path != "/var/log/samples.txt" {
		t.Errorf("source/path = %q/%q", cfg.Source, cfg.Path)
	}
	if cfg.Capacity != 5000 || cfg.Window != 120 {
		t.Errorf("capacity/window = %d/%d", cfg.Capacity, cfg.Window)
	}
	if cfg.Interval.Std() != 250*time.Millisecond {
		t.Errorf("interval = %v", cfg.Interval.Std())
	}
	if len(cfg.Series) != 2 || cfg.Series[0].Name != "volts" || cfg.Series[0].Color != "#ff0000" {
		t.Errorf("series = %+v", cfg.Series)
	}
	if cfg.Series[1].Color != "" {
		t.Errorf("series[1].color = %q, want empty", cfg.Series[1].Color)
	}
}

func TestLoadClamps(t *testing.T) {
	path := writeConfig(t, `
source: synth
capacity: -10
interval: 1ms
rate: 50000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capacity != 0 {
		t.Errorf("capacity = %d, want clamped to 0", cfg.Capacity)
	}
	if cfg.Interval.Std() != MinInterval {
		t.Errorf("interval = %v, want %v", cfg.Interval.Std(), MinInterval)
	}
	if cfg.Rate != MaxRate {
		t.Errorf("rate = %f, want %d", cfg.Rate, MaxRate)
	}
}

func TestLoadUnknownSource(t *testing.T) {
	path := writeConfig(t, "source: carrier-pigeon\n")
	if _, err := Load(path); err == nil {
		t.Fatal("want error for unknown source kind")
	}
}

func TestLoadPromRequiresEndpoint(t *testing.T) {
	path := writeConfig(t, "source: prom\n")
	if _, err := Load(path); err == nil {
		t.Fatal("want error for prom source without url")
	}

	path = writeConfig(t, `
source: prom
prometheus:
  url: http://localhost:9090/metrics
  metrics:
    - go_goroutines
    - process_cpu_seconds_total
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Prometheus.Metrics) != 2 {
		t.Errorf("metrics = %v", cfg.Prometheus.Metrics)
	}
}

func TestDurationAcceptsInteger(t *testing.T) {
	path := writeConfig(t, "source: synth\ninterval: 1000000000\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Interval.Std() != time.Second {
		t.Errorf("interval = %v, want 1s", cfg.Interval.Std())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "source: synth\ninterval: soon\n")
	if _, err := Load(path); err == nil {
		t.Fatal("want error for unparseable duration")
	}
}
