package ingest

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestSynthHeaderThenSamples(t *testing.T) {
	src := NewSynthSource(4, 1000)
	ctx := context.Background()

	row, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(row.Names) != 4 {
		t.Fatalf("header = %v, want 4 names", row.Names)
	}
	if row.Names[0] != "sine0" || row.Names[1] != "square1" || row.Names[2] != "walk2" {
		t.Errorf("names = %v", row.Names)
	}

	for i := 0; i < 5; i++ {
		row, err = src.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if len(row.Values) != 4 {
			t.Fatalf("values = %v, want 4 channels", row.Values)
		}
		for ch, v := range row.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("channel %d produced non-finite %f", ch, v)
			}
		}
		if row.Raw == "" {
			t.Error("raw line should be populated")
		}
	}
}

func TestSynthWaveShapes(t *testing.T) {
	src := NewSynthSource(2, 1e6)
	ctx := context.Background()
	src.Next(ctx) // header

	for i := 0; i < 50; i++ {
		row, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if v := row.Values[0]; v < -1 || v > 1 {
			t.Errorf("sine sample %f out of [-1, 1]", v)
		}
		if v := row.Values[1]; v != 0.8 && v != -0.8 {
			t.Errorf("square sample %f, want ±0.8", v)
		}
	}
}

func TestSynthClampsArguments(t *testing.T) {
	src := NewSynthSource(0, -5)
	row, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(row.Names) != 1 {
		t.Errorf("channels = %d, want clamped to 1", len(row.Names))
	}
}

func TestSynthHonorsCancellation(t *testing.T) {
	src := NewSynthSource(1, 0.001) // ~17 minutes per row
	ctx, cancel := context.WithCancel(context.Background())
	src.Next(ctx) // header is immediate
	cancel()
	_, err := src.Next(ctx)
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestEMASmoothing(t *testing.T) {
	e := NewEMA(0.5)
	if got := e.Update(10); got != 10 {
		t.Fatalf("primed value = %f, want 10", got)
	}
	if got := e.Update(0); got != 5 {
		t.Errorf("value = %f, want 5", got)
	}
	if got := e.Update(5); got != 5 {
		t.Errorf("value = %f, want 5", got)
	}
}
