// Package series is the in-memory time-series engine behind the plot view:
// fixed-capacity per-channel rings sharing one write cursor, a pannable and
// zoomable viewport over them, incremental min/max tracking, sparse time
// anchors for axis labeling, and inertial scrolling.
//
// The Store is not goroutine-safe. It is designed to be confined to a single
// logical thread (in this program, the bubbletea update loop): ingestion rows
// arrive as messages and every mutation notifies subscribers synchronously
// before returning, so observers always see a fully settled state.
package series

import (
	"fmt"
	"math"
	"time"
)

// Missing is the sentinel stored in window slots that hold no data.
// It is rendered as a visible gap, never silently dropped.
func Missing() float64 { return math.NaN() }

// Series describes one channel. Identity is positional: ID always equals the
// channel's index. Name and Color can be changed by the user independently of
// the data.
type Series struct {
	ID    int
	Name  string
	Color string // hex style token, e.g. "#5fd75f"
}

var defaultPalette = []string{
	"#00afff", "#ff8700", "#5fd75f", "#ff5f87",
	"#af87ff", "#ffd75f", "#5fd7d7", "#d78787",
}

func defaultSeries(id int) Series {
	return Series{
		ID:    id,
		Name:  fmt.Sprintf("ch%d", id),
		Color: defaultPalette[id%len(defaultPalette)],
	}
}

// DefaultViewportSize is the window size a fresh Store starts with, before
// any explicit SetSize.
const DefaultViewportSize = 300

// Store owns the channel rings, the shared timestamp ring, the viewport and
// everything hanging off them.
type Store struct {
	capacity int
	series   []Series
	channels [][]float64 // one ring per series, all len == capacity
	times    []time.Time // receipt time per sample slot, len == capacity
	total    int         // samples ever appended; never reset by wraparound
	retained int         // samples actually held; capped at capacity

	rng     rangeTracker
	anchors anchorIndex

	// viewport
	cursor     int // rightmost visible total index
	size       int
	frozen     bool
	freezeBase int // total at the moment freeze began

	mom          momentum
	sched        FrameScheduler
	framePending bool

	subs    []subscription
	nextSub int

	memo    *Window
	memoKey memoKey
	memoOK  bool

	now func() time.Time
}

// New creates a Store with the given history capacity and no channels.
// Channels appear on the first Append (or via SetSeries). A zero capacity is
// a valid degenerate state: appends advance the total but retain nothing.
func New(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	s := &Store{
		capacity: capacity,
		times:    make([]time.Time, capacity),
		now:      time.Now,
	}
	s.size = DefaultViewportSize
	if capacity > 0 && s.size > capacity {
		s.size = capacity
	}
	if s.size < MinViewportSize {
		s.size = MinViewportSize
	}
	s.anchors.setStride(s.size)
	return s
}

// NewWithNow is New with an injectable clock.
func NewWithNow(capacity int, now func() time.Time) *Store {
	s := New(capacity)
	if now != nil {
		s.now = now
	}
	return s
}

// Total returns the count of samples ever appended.
func (s *Store) Total() int { return s.total }

// Capacity returns the ring capacity.
func (s *Store) Capacity() int { return s.capacity }

// Length returns the number of retained samples. This is tracked
// explicitly rather than derived from total: a capacity grow cannot
// resurrect samples the smaller ring already evicted.
func (s *Store) Length() int { return s.retained }

// SeriesList returns a copy of the channel descriptors.
func (s *Store) SeriesList() []Series {
	out := make([]Series, len(s.series))
	copy(out, s.series)
	return out
}

// ChannelCount returns the current number of channels.
func (s *Store) ChannelCount() int { return len(s.series) }

// Range returns the global y-range over all finite retained values. The
// result always satisfies min < max: with no finite data it is [-1, 1], and
// a degenerate min==max is padded by 10% of the magnitude (at least 1).
func (s *Store) Range() (float64, float64) { return s.rng.bounds() }

// Append ingests one row of samples, one value per channel. A row whose
// arity differs from the current channel count reconciles the channel count
// first; it is never an error. Non-finite values are stored (they show up as
// gaps) but excluded from range tracking. An empty row is a no-op.
func (s *Store) Append(values []float64) {
	if len(values) == 0 {
		return
	}
	if len(values) != len(s.series) {
		s.reconcile(len(values))
	}
	if s.capacity > 0 {
		pos := s.total % s.capacity
		for i, v := range values {
			s.channels[i][pos] = v
			s.rng.observe(v)
		}
		ts := s.now()
		s.times[pos] = ts
		s.anchors.maybeRecord(s.total, ts)
		s.anchors.prune(s.total + 1 - s.capacity)
		if s.retained < s.capacity {
			s.retained++
		}
	}
	s.total++
	if !s.frozen {
		s.cursor = s.total - 1
	}
	s.invalidate()
	s.notify()
}

// SetSeries performs a hard reset: the channel count becomes len(names), all
// buffers are reallocated, and total, cursor, anchors, freeze state and the
// tracked range are cleared.
func (s *Store) SetSeries(names []string) {
	s.series = make([]Series, len(names))
	s.channels = make([][]float64, len(names))
	for i, name := range names {
		s.series[i] = defaultSeries(i)
		if name != "" {
			s.series[i].Name = name
		}
		s.channels[i] = newRing(s.capacity)
	}
	s.times = make([]time.Time, s.capacity)
	s.total = 0
	s.retained = 0
	s.cursor = 0
	s.frozen = false
	s.freezeBase = 0
	s.rng.reset()
	s.anchors.clear()
	s.mom = momentum{}
	s.framePending = false
	s.invalidate()
	s.notify()
}

// SetCapacity changes the history length at runtime. The most recent
// min(retained, n) samples survive, in chronological order, and the range is
// recomputed from scratch since evicted extremes cannot be "un-seen".
func (s *Store) SetCapacity(n int) {
	if n < 0 {
		n = 0
	}
	if n == s.capacity {
		return
	}
	keep := s.Length()
	if keep > n {
		keep = n
	}

	channels := make([][]float64, len(s.series))
	for i := range channels {
		channels[i] = newRing(n)
	}
	times := make([]time.Time, n)
	for t := s.total - keep; t < s.total; t++ {
		src := t % s.capacity
		dst := t % n
		for i := range channels {
			channels[i][dst] = s.channels[i][src]
		}
		times[dst] = s.times[src]
	}

	s.capacity = n
	s.channels = channels
	s.times = times
	s.retained = keep
	s.recomputeRange()
	s.size = s.clampSize(s.size)
	s.rebuildAnchors()
	s.invalidate()
	s.notify()
}

// ReconcileChannelCount grows or shrinks the channel list to n, preserving
// index-based identity for channels that survive. Growing adds default-named
// channels with freshly allocated buffers; shrinking drops trailing channels.
func (s *Store) ReconcileChannelCount(n int) {
	if n < 0 || n == len(s.series) {
		return
	}
	s.reconcile(n)
	s.invalidate()
	s.notify()
}

func (s *Store) reconcile(n int) {
	if n > len(s.series) {
		for id := len(s.series); id < n; id++ {
			s.series = append(s.series, defaultSeries(id))
			s.channels = append(s.channels, newRing(s.capacity))
		}
		return
	}
	s.series = s.series[:n]
	s.channels = s.channels[:n]
	// Dropped channels may have held the global extremes.
	s.recomputeRange()
}

// RenameSeries changes the display name of channel id. Out-of-range ids are
// ignored.
func (s *Store) RenameSeries(id int, name string) {
	if id < 0 || id >= len(s.series) {
		return
	}
	s.series[id].Name = name
	s.notify()
}

// RecolorSeries changes the style token of channel id. Out-of-range ids are
// ignored.
func (s *Store) RecolorSeries(id int, color string) {
	if id < 0 || id >= len(s.series) {
		return
	}
	s.series[id].Color = color
	s.notify()
}

// recomputeRange rescans every retained value. Needed whenever stored values
// are relocated or discarded; incremental tracking handles everything else.
func (s *Store) recomputeRange() {
	s.rng.reset()
	if s.capacity == 0 {
		return
	}
	length := s.Length()
	for t := s.total - length; t < s.total; t++ {
		pos := t % s.capacity
		for i := range s.channels {
			s.rng.observe(s.channels[i][pos])
		}
	}
}

// rebuildAnchors recomputes the whole anchor list from retained samples,
// using the current stride.
func (s *Store) rebuildAnchors() {
	s.anchors.clear()
	s.anchors.setStride(s.size)
	if s.capacity == 0 {
		return
	}
	length := s.Length()
	for t := s.total - length; t < s.total; t++ {
		s.anchors.maybeRecord(t, s.times[t%s.capacity])
	}
}

func newRing(capacity int) []float64 {
	ring := make([]float64, capacity)
	for i := range ring {
		ring[i] = math.NaN()
	}
	return ring
}
