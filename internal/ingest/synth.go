package ingest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// SynthSource generates a deterministic-shaped multi-channel test signal:
// channel k cycles through sine, square and random-walk waveforms. Rows are
// paced by a rate limiter so the stream behaves like a real device.
type SynthSource struct {
	channels int
	limiter  *rate.Limiter
	start    time.Time
	rng      *rand.Rand
	walk     []float64
	sent     bool
}

// NewSynthSource generates rows at rowsPerSec across the given number of
// channels. Out-of-range arguments are clamped.
func NewSynthSource(channels int, rowsPerSec float64) *SynthSource {
	if channels < 1 {
		channels = 1
	}
	if rowsPerSec <= 0 {
		rowsPerSec = 60
	}
	return &SynthSource{
		channels: channels,
		limiter:  rate.NewLimiter(rate.Limit(rowsPerSec), 1),
		start:    time.Now(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		walk:     make([]float64, channels),
	}
}

func (s *SynthSource) Name() string { return "synth" }

// Next emits a header row first, then one sample row per limiter tick.
func (s *SynthSource) Next(ctx context.Context) (Row, error) {
	if !s.sent {
		s.sent = true
		names := make([]string, s.channels)
		for i := range names {
			names[i] = s.channelName(i)
		}
		return Row{Names: names, Raw: strings.Join(names, ",")}, nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return Row{}, err
	}

	t := time.Since(s.start).Seconds()
	values := make([]float64, s.channels)
	parts := make([]string, s.channels)
	for i := range values {
		values[i] = s.sample(i, t)
		parts[i] = fmt.Sprintf("%.4f", values[i])
	}
	return Row{Values: values, Raw: strings.Join(parts, ",")}, nil
}

func (s *SynthSource) sample(ch int, t float64) float64 {
	freq := 0.2 + 0.15*float64(ch/3)
	switch ch % 3 {
	case 0:
		return math.Sin(2 * math.Pi * freq * t)
	case 1:
		if math.Sin(2*math.Pi*freq*t) >= 0 {
			return 0.8
		}
		return -0.8
	default:
		s.walk[ch] += (s.rng.Float64() - 0.5) * 0.1
		return s.walk[ch]
	}
}

func (s *SynthSource) channelName(ch int) string {
	switch ch % 3 {
	case 0:
		return fmt.Sprintf("sine%d", ch)
	case 1:
		return fmt.Sprintf("square%d", ch)
	default:
		return fmt.Sprintf("walk%d", ch)
	}
}

func (s *SynthSource) Close() error { return nil }
