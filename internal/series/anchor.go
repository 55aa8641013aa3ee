package series

import (
	"math"
	"time"
)

// anchorTargetCount is the number of anchors a viewport aims to show; the
// stride is re-derived from the viewport size to hit it.
const anchorTargetCount = 5

// Anchor is a sparse (total index, receipt time) pair recorded at append
// time. Anchors label the time axis without rescanning history.
type Anchor struct {
	Total int
	Time  time.Time
}

// anchorIndex is the append-time-populated list of anchors, oldest first.
type anchorIndex struct {
	stride int
	list   []Anchor
}

func (a *anchorIndex) setStride(viewSize int) {
	stride := int(math.Round(float64(viewSize) / anchorTargetCount))
	if stride < 1 {
		stride = 1
	}
	a.stride = stride
}

func (a *anchorIndex) clear() {
	a.list = a.list[:0]
}

// maybeRecord appends an anchor for sample t if t lands on the stride.
func (a *anchorIndex) maybeRecord(t int, ts time.Time) {
	if a.stride <= 0 || t%a.stride != 0 {
		return
	}
	a.list = append(a.list, Anchor{Total: t, Time: ts})
}

// prune drops anchors older than the oldest retained sample.
func (a *anchorIndex) prune(oldest int) {
	i := 0
	for i < len(a.list) && a.list[i].Total < oldest {
		i++
	}
	if i > 0 {
		a.list = append(a.list[:0], a.list[i:]...)
	}
}

// inRange returns the anchors whose total falls within [lo, hi].
func (a *anchorIndex) inRange(lo, hi int) []Anchor {
	var out []Anchor
	for _, an := range a.list {
		if an.Total < lo {
			continue
		}
		if an.Total > hi {
			break
		}
		out = append(out, an)
	}
	return out
}
