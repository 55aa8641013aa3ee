package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/onkanat/serialscope/internal/config"
	"github.com/onkanat/serialscope/internal/console"
	"github.com/onkanat/serialscope/internal/ingest"
	"github.com/onkanat/serialscope/internal/series"
	"github.com/onkanat/serialscope/internal/ui"
)

var flags struct {
	config   string
	source   string
	capacity int
	window   int
	interval time.Duration
	path     string
	rate     float64
	channels int
	iface    string
	url      string
	metrics  []string
}

func main() {
	root := &cobra.Command{
		Use:   "serialscope",
		Short: "Live terminal plotter for multi-channel numeric streams",
		Long: `serialscope plots continuous numeric streams (serial lines, stdin,
synthetic signals, network counters, Prometheus metrics) in the terminal,
with a pannable, zoomable window over recent history.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	f := root.Flags()
	f.StringVar(&flags.config, "config", "", "YAML config file")
	f.StringVar(&flags.source, "source", "", "input source: synth, lines, netdev or prom")
	f.IntVar(&flags.capacity, "capacity", 0, "samples of history to retain")
	f.IntVar(&flags.window, "window", 0, "initial window size in samples")
	f.DurationVar(&flags.interval, "interval", 0, "poll interval for tick-driven sources")
	f.StringVar(&flags.path, "path", "", "file, FIFO or device to read lines from (- for stdin)")
	f.Float64Var(&flags.rate, "rate", 0, "synth rows per second")
	f.IntVar(&flags.channels, "channels", 0, "synth channel count")
	f.StringVar(&flags.iface, "iface", "", "network interface for the netdev source")
	f.StringVar(&flags.url, "url", "", "Prometheus metrics endpoint")
	f.StringSliceVar(&flags.metrics, "metrics", nil, "Prometheus metric names to plot")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file (if any) and applies explicit flag
// overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}

	set := cmd.Flags().Changed
	if set("source") {
		cfg.Source = flags.source
	}
	if set("capacity") {
		cfg.Capacity = flags.capacity
	}
	if set("window") {
		cfg.Window = flags.window
	}
	if set("interval") {
		cfg.Interval = config.Duration(flags.interval)
	}
	if set("path") {
		cfg.Path = flags.path
	}
	if set("rate") {
		cfg.Rate = flags.rate
	}
	if set("channels") {
		cfg.Channels = flags.channels
	}
	if set("iface") {
		cfg.Interface = flags.iface
	}
	if set("url") {
		cfg.Prometheus.URL = flags.url
	}
	if set("metrics") {
		cfg.Prometheus.Metrics = flags.metrics
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSource(cfg *config.Config) (ingest.Source, error) {
	switch cfg.Source {
	case config.SourceSynth:
		return ingest.NewSynthSource(cfg.Channels, cfg.Rate), nil
	case config.SourceLines:
		return ingest.NewLineSource(cfg.Path)
	case config.SourceNetdev:
		return ingest.NewNetdevSource(cfg.Interface, cfg.Interval.Std())
	case config.SourceProm:
		return ingest.NewPromSource(cfg.Prometheus.URL, cfg.Prometheus.Metrics, cfg.Interval.Std())
	}
	return nil, fmt.Errorf("unknown source %q", cfg.Source)
}

func run(cfg *config.Config) error {
	// Redirect log output to a file so it doesn't interfere with the TUI.
	logFile, err := os.CreateTemp("", "serialscope-*.log")
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	src, err := buildSource(cfg)
	if err != nil {
		return fmt.Errorf("open %s source: %w", cfg.Source, err)
	}

	store := series.New(cfg.Capacity)
	logRing := console.New(console.DefaultCapacity)

	c := ingest.NewCollector(src)
	rows := c.Start()
	defer c.Stop()

	model := ui.New(store, logRing, rows, src.Name())
	model.SetCollector(c)
	model.SetInitialWindow(cfg.Window)
	model.SetInitialInterval(cfg.Interval.Std())
	if len(cfg.Series) > 0 {
		ov := make([]ui.SeriesOverride, len(cfg.Series))
		for i, s := range cfg.Series {
			ov[i] = ui.SeriesOverride{Name: strings.TrimSpace(s.Name), Color: strings.TrimSpace(s.Color)}
		}
		model.SetSeriesOverrides(ov)
	}

	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
