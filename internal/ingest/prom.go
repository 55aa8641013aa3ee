package ingest

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// PromSource polls a Prometheus text-format metrics endpoint and turns the
// configured metric names into channels, one value per poll. Metrics absent
// from a scrape produce NaN (a visible gap), not an error.
type PromSource struct {
	url     string
	metrics []string
	client  *http.Client

	mu       sync.Mutex
	interval time.Duration

	sent bool
}

// NewPromSource polls url every interval for the named metrics.
func NewPromSource(url string, metrics []string, interval time.Duration) (*PromSource, error) {
	if url == "" {
		return nil, fmt.Errorf("prometheus source needs a url")
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("prometheus source needs at least one metric name")
	}
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return &PromSource{
		url:      url,
		metrics:  metrics,
		client:   &http.Client{Timeout: 5 * time.Second},
		interval: interval,
	}, nil
}

func (p *PromSource) Name() string { return "prometheus" }

// SetInterval changes the poll interval; takes effect on the next wait.
func (p *PromSource) SetInterval(d time.Duration) {
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	p.mu.Lock()
	p.interval = d
	p.mu.Unlock()
}

// Next emits a header row first, then one scrape per interval.
func (p *PromSource) Next(ctx context.Context) (Row, error) {
	if !p.sent {
		p.sent = true
		return Row{Names: p.metrics, Raw: strings.Join(p.metrics, ",")}, nil
	}

	p.mu.Lock()
	d := p.interval
	p.mu.Unlock()
	select {
	case <-time.After(d):
	case <-ctx.Done():
		return Row{}, ctx.Err()
	}

	families, err := p.scrape(ctx)
	if err != nil {
		return Row{}, err
	}
	values := make([]float64, len(p.metrics))
	parts := make([]string, len(p.metrics))
	for i, name := range p.metrics {
		values[i] = sampleValue(families[name])
		parts[i] = fmt.Sprintf("%s=%g", name, values[i])
	}
	return Row{Values: values, Raw: strings.Join(parts, " ")}, nil
}

func (p *PromSource) scrape(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", p.url, resp.StatusCode)
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse metrics: %w", err)
	}
	return families, nil
}

// sampleValue extracts the first sample of a family. Histograms and
// summaries are not meaningful as a single channel and read as missing.
func sampleValue(mf *dto.MetricFamily) float64 {
	if mf == nil || len(mf.Metric) == 0 {
		return math.NaN()
	}
	m := mf.Metric[0]
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return math.NaN()
}

func (p *PromSource) Close() error { return nil }
