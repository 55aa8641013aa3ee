package series

import (
	"math"
	"time"
)

const (
	// minMomentumVelocity is sampled in samples/ms; below it momentum never
	// starts and a running decay terminates.
	minMomentumVelocity = 0.005
	// frictionPerFrame is the decay applied per reference frame, made
	// frame-rate independent by scaling the exponent with the actual dt.
	frictionPerFrame      = 0.95
	referenceFrameMillis  = 16.7
	dragVelocityEMAWeight = 0.2
)

// FrameScheduler is how the engine asks its host for the next animation
// frame. The host must eventually call StepMomentum once per request; the
// engine keeps at most one request pending at a time.
type FrameScheduler interface {
	RequestFrame()
}

// momentum holds the inertial-scroll state. Two logical states: idle
// (zero value) and running.
type momentum struct {
	active   bool
	velocity float64 // samples per millisecond
	last     time.Time
}

// SetFrameScheduler installs the frame source used by momentum scrolling.
// Without one, StartMomentum still tracks state but nothing drives steps.
func (s *Store) SetFrameScheduler(sched FrameScheduler) {
	s.sched = sched
}

// MomentumActive reports whether an inertial scroll is running.
func (s *Store) MomentumActive() bool { return s.mom.active }

// StartMomentum begins an inertial scroll with initial velocity v in
// samples/ms, canceling any scroll already running. Velocities below the
// threshold (or non-finite ones) leave the engine idle.
func (s *Store) StartMomentum(v float64) {
	s.mom = momentum{}
	s.framePending = false
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) < minMomentumVelocity {
		s.notify()
		return
	}
	s.mom = momentum{active: true, velocity: v, last: s.now()}
	s.requestFrame()
	s.notify()
}

// StopMomentum cancels any scheduled step and resets velocity state.
// Safe to call when already idle.
func (s *Store) StopMomentum() {
	s.mom = momentum{}
	s.framePending = false
	s.notify()
}

// StepMomentum advances the scroll by one frame: exponential friction
// scaled to the elapsed time, then a cursor move clamped to the scroll
// bounds. It reschedules itself through the FrameScheduler until the
// velocity decays below the threshold. Returns whether momentum is still
// running.
func (s *Store) StepMomentum() bool {
	s.framePending = false
	if !s.mom.active {
		return false
	}
	now := s.now()
	dt := float64(now.Sub(s.mom.last).Microseconds()) / 1000.0
	s.mom.last = now
	if dt > 0 {
		s.mom.velocity *= math.Pow(frictionPerFrame, dt/referenceFrameMillis)
		s.adjustCursor(s.mom.velocity * dt)
	}
	if math.Abs(s.mom.velocity) < minMomentumVelocity {
		s.mom = momentum{}
		s.notify()
		return false
	}
	s.requestFrame()
	s.notify()
	return true
}

func (s *Store) requestFrame() {
	if s.sched == nil || s.framePending {
		return
	}
	s.framePending = true
	s.sched.RequestFrame()
}

// VelocityTracker smooths noisy per-event drag deltas into a velocity
// estimate with an exponential moving average, ready to hand to
// StartMomentum when the gesture ends.
type VelocityTracker struct {
	v      float64
	primed bool
}

// Observe feeds one drag delta (samples moved over dtMillis) and returns
// the smoothed velocity in samples/ms.
func (t *VelocityTracker) Observe(deltaSamples, dtMillis float64) float64 {
	if dtMillis <= 0 {
		return t.v
	}
	inst := deltaSamples / dtMillis
	if !t.primed {
		t.v = inst
		t.primed = true
	} else {
		t.v = (1-dragVelocityEMAWeight)*t.v + dragVelocityEMAWeight*inst
	}
	return t.v
}

// Velocity returns the current smoothed estimate.
func (t *VelocityTracker) Velocity() float64 { return t.v }

// Reset clears the tracker for the next gesture.
func (t *VelocityTracker) Reset() { *t = VelocityTracker{} }
