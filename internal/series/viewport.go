package series

import "math"

// MinViewportSize is the smallest window the viewport will shrink to.
const MinViewportSize = 10

const (
	zoomFactorMin = 0.5
	zoomFactorMax = 2.0
	wheelDeltaMax = 1000.0
	wheelZoomRate = 0.001
)

// Cursor returns the rightmost visible total index.
func (s *Store) Cursor() int { return s.cursor }

// ViewSize returns the viewport size in samples.
func (s *Store) ViewSize() int { return s.size }

// Frozen reports whether the viewport has stopped auto-following appends.
func (s *Store) Frozen() bool { return s.frozen }

// SetCursor rounds pos to the nearest integer and clamps it into
// [0, total-1]. It never errors.
func (s *Store) SetCursor(pos float64) {
	s.cursor = s.clampCursor(pos)
	s.notify()
}

// AdjustCursor moves the cursor by delta samples, clamped to the current
// scroll bounds (which depend on freeze state).
func (s *Store) AdjustCursor(delta float64) {
	s.adjustCursor(delta)
	s.notify()
}

func (s *Store) adjustCursor(delta float64) {
	if math.IsNaN(delta) {
		return
	}
	target := int(math.Round(float64(s.cursor) + delta))
	lo, hi := s.scrollBounds()
	if target < lo {
		target = lo
	}
	if target > hi {
		target = hi
	}
	s.cursor = target
}

// scrollBounds returns the inclusive cursor range the user may pan across.
// Unfrozen, the reference edge is the live newest sample. Frozen, the edge
// is where "newest" was when freeze began, and the data appended since then
// extends the upper bound so the user can pan forward toward live.
func (s *Store) scrollBounds() (int, int) {
	ref := s.total - 1
	if s.frozen {
		ref = s.freezeBase - 1
	}
	span := s.Length() - s.size
	if span < 0 {
		span = 0
	}
	lo := ref - span
	if lo < 0 {
		lo = 0
	}
	hi := s.total - 1
	if hi < 0 {
		hi = 0
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func (s *Store) clampCursor(pos float64) int {
	if math.IsNaN(pos) {
		pos = 0
	}
	p := int(math.Round(pos))
	hi := s.total - 1
	if hi < 0 {
		hi = 0
	}
	if p < 0 {
		p = 0
	}
	if p > hi {
		p = hi
	}
	return p
}

// SetSize resizes the viewport, clamped to [MinViewportSize,
// min(capacity, retained)]. The anchor stride targets ~anchorTargetCount
// visible anchors, so a size change re-derives it and rebuilds the anchor
// list from scratch.
func (s *Store) SetSize(n int) {
	s.setSize(n)
	s.notify()
}

func (s *Store) setSize(n int) {
	s.size = s.clampSize(n)
	s.rebuildAnchors()
}

func (s *Store) clampSize(n int) int {
	hi := s.Length()
	if hi > s.capacity {
		hi = s.capacity
	}
	if hi < MinViewportSize {
		hi = MinViewportSize
	}
	if n < MinViewportSize {
		n = MinViewportSize
	}
	if n > hi {
		n = hi
	}
	return n
}

// SetFrozen toggles freeze. Entering freeze snapshots the total so the
// amount of data appended while frozen is always recoverable; leaving it
// snaps the cursor back to live.
func (s *Store) SetFrozen(frozen bool) {
	if frozen && !s.frozen {
		s.freezeBase = s.total
	}
	if !frozen && s.frozen {
		s.cursor = s.clampCursor(float64(s.total - 1))
	}
	s.frozen = frozen
	s.notify()
}

// ZoomByFactor resizes the viewport by factor (clamped to [0.5, 2] per
// invocation) while keeping the sample at the visual center centered. It
// never errors; out-of-range inputs are clamped.
func (s *Store) ZoomByFactor(factor float64) {
	if math.IsNaN(factor) || factor <= 0 {
		return
	}
	if factor < zoomFactorMin {
		factor = zoomFactorMin
	}
	if factor > zoomFactorMax {
		factor = zoomFactorMax
	}

	center := float64(s.cursor) - float64(s.size-1)/2
	desired := int(math.Round(float64(s.size) / factor))
	s.setSize(desired)

	target := int(math.Round(center + float64(s.size-1)/2))
	lo, hi := s.scrollBounds()
	if target < lo {
		target = lo
	}
	if target > hi {
		target = hi
	}
	s.cursor = target
	s.notify()
}

// HandleWheel maps a wheel delta to an exponential zoom factor and applies
// it. |deltaY| is clamped to 1000 so a single event stays a bounded gesture.
func (s *Store) HandleWheel(deltaY float64) {
	if math.IsNaN(deltaY) {
		return
	}
	if deltaY > wheelDeltaMax {
		deltaY = wheelDeltaMax
	}
	if deltaY < -wheelDeltaMax {
		deltaY = -wheelDeltaMax
	}
	s.ZoomByFactor(math.Exp(deltaY * wheelZoomRate))
}
