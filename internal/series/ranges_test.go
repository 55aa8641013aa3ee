package series

import (
	"math"
	"testing"
)

func TestRangeTrackerObserve(t *testing.T) {
	var r rangeTracker
	for _, v := range []float64{3, -2, 7, 0} {
		r.observe(v)
	}
	min, max := r.bounds()
	if min != -2 || max != 7 {
		t.Errorf("bounds = [%f, %f], want [-2, 7]", min, max)
	}
}

func TestRangeTrackerIgnoresNonFinite(t *testing.T) {
	var r rangeTracker
	r.observe(math.NaN())
	r.observe(math.Inf(1))
	r.observe(math.Inf(-1))
	min, max := r.bounds()
	if min != -1 || max != 1 {
		t.Errorf("bounds = [%f, %f], want fallback [-1, 1]", min, max)
	}

	r.observe(5)
	r.observe(math.Inf(1))
	min, max = r.bounds()
	if max == math.Inf(1) {
		t.Error("Inf leaked into the tracked range")
	}
	_ = min
}

func TestRangeTrackerDegeneratePadding(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantMin float64
		wantMax float64
	}{
		{"large magnitude pads 10%", 100, 90, 110},
		{"small magnitude pads at least 1", 0.5, -0.5, 1.5},
		{"zero pads at least 1", 0, -1, 1},
		{"negative", -100, -110, -90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r rangeTracker
			r.observe(tt.value)
			r.observe(tt.value)
			min, max := r.bounds()
			if math.Abs(min-tt.wantMin) > 1e-9 || math.Abs(max-tt.wantMax) > 1e-9 {
				t.Errorf("bounds = [%f, %f], want [%f, %f]", min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestRangeTrackerAlwaysMinLessThanMax(t *testing.T) {
	var r rangeTracker
	min, max := r.bounds()
	if min >= max {
		t.Errorf("empty: min %f >= max %f", min, max)
	}
	r.observe(42)
	min, max = r.bounds()
	if min >= max {
		t.Errorf("single value: min %f >= max %f", min, max)
	}
}

func TestGlobalRangeCoversRetainedValues(t *testing.T) {
	s, _ := newTestStore(32)
	vals := []float64{5, -3, 12, 0.5, -7.25, 99}
	for _, v := range vals {
		s.Append([]float64{v})
	}
	min, max := s.Range()
	for _, v := range vals {
		if v < min || v > max {
			t.Errorf("value %f outside range [%f, %f]", v, min, max)
		}
	}
}
