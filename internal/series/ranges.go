package series

import "math"

// rangeTracker maintains the running min/max over all finite values seen
// since the last reset. Incremental observation is O(1); callers must do a
// full recompute whenever stored values are relocated or discarded.
type rangeTracker struct {
	min, max float64
	seen     bool
}

func (r *rangeTracker) reset() {
	*r = rangeTracker{}
}

func (r *rangeTracker) observe(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !r.seen {
		r.min, r.max = v, v
		r.seen = true
		return
	}
	if v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}
}

// bounds returns a drawable range, always min < max. With no finite data it
// falls back to [-1, 1]; a degenerate min==max is padded symmetrically by
// 10% of the magnitude, at least 1.
func (r *rangeTracker) bounds() (float64, float64) {
	if !r.seen {
		return -1, 1
	}
	if r.min == r.max {
		pad := math.Abs(r.min) * 0.1
		if pad < 1 {
			pad = 1
		}
		return r.min - pad, r.max + pad
	}
	return r.min, r.max
}
