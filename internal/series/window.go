package series

import (
	"math"
	"time"
)

// MaxWindowLen caps a single window request so a buggy or malicious caller
// cannot force an unbounded allocation.
const MaxWindowLen = 1 << 20

// Window is a point-in-time view over the rings: per-channel contiguous
// arrays of exactly the requested length, an aligned timestamp array, a
// drawable y-range and the anchors visible in the span. Slots with no data
// hold the missing sentinel (NaN values, zero times).
//
// A Window is built fresh from ring storage; it stays valid after later
// mutations, but it no longer reflects live state once one happens.
type Window struct {
	Start, End int // inclusive total-index span; End is the cursor
	Channels   [][]float64
	Times      []time.Time
	YMin, YMax float64
	Anchors    []Anchor
}

// memoKey is the state tuple the viewport snapshot is cached on. Any
// mutation that can change window contents either changes the tuple or
// explicitly invalidates the memo.
type memoKey struct {
	total  int
	cursor int
	size   int
	frozen bool
}

// ViewportData returns the window for the live cursor and size. Repeated
// calls with no intervening mutation return the same *Window, so callers
// may compare by reference to skip redraws.
func (s *Store) ViewportData() *Window {
	key := memoKey{total: s.total, cursor: s.cursor, size: s.size, frozen: s.frozen}
	if s.memoOK && key == s.memoKey {
		return s.memo
	}
	s.memo = s.Window(s.cursor, s.size)
	s.memoKey = key
	s.memoOK = true
	return s.memo
}

func (s *Store) invalidate() {
	s.memoOK = false
	s.memo = nil
}

// Window materializes the inclusive total-index range
// [cursor-size+1, cursor] as contiguous arrays, handling ring wraparound and
// padding any part that falls outside retained history. The most recent
// sample always lands in the final slot.
func (s *Store) Window(cursor, size int) *Window {
	if size > MaxWindowLen {
		size = MaxWindowLen
	}
	if size <= 0 {
		w := &Window{
			Start:    cursor,
			End:      cursor,
			Channels: make([][]float64, len(s.series)),
		}
		for i := range w.Channels {
			w.Channels[i] = []float64{}
		}
		w.Times = []time.Time{}
		w.YMin, w.YMax = s.rng.bounds()
		return w
	}

	lo := cursor - size + 1
	hi := cursor

	w := &Window{
		Start:    lo,
		End:      hi,
		Channels: make([][]float64, len(s.series)),
		Times:    make([]time.Time, size),
	}
	for i := range w.Channels {
		ch := make([]float64, size)
		for j := range ch {
			ch[j] = math.NaN()
		}
		w.Channels[i] = ch
	}
	w.YMin, w.YMax = s.rng.bounds()
	w.Anchors = s.anchors.inRange(lo, hi)

	oldest := s.total - s.Length()
	newest := s.total - 1
	from := lo
	if from < oldest {
		from = oldest
	}
	to := hi
	if to > newest {
		to = newest
	}
	if s.capacity == 0 || from > to {
		return w // no overlap with retained data: fully padded
	}

	n := to - from + 1
	off := from - lo
	rs := from % s.capacity
	re := to % s.capacity
	if rs <= re {
		for i, ch := range s.channels {
			copy(w.Channels[i][off:off+n], ch[rs:re+1])
		}
		copy(w.Times[off:off+n], s.times[rs:re+1])
	} else {
		head := s.capacity - rs
		for i, ch := range s.channels {
			copy(w.Channels[i][off:off+head], ch[rs:])
			copy(w.Channels[i][off+head:off+n], ch[:re+1])
		}
		copy(w.Times[off:off+head], s.times[rs:])
		copy(w.Times[off+head:off+n], s.times[:re+1])
	}
	return w
}
