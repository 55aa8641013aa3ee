package series

import (
	"math"
	"testing"
	"time"
)

// recordingScheduler counts frame requests; the test plays the frames back
// by calling StepMomentum, like the UI does.
type recordingScheduler struct {
	requests int
}

func (r *recordingScheduler) RequestFrame() { r.requests++ }

func momentumStore(t *testing.T) (*Store, *fakeClock, *recordingScheduler) {
	t.Helper()
	s, clk := newTestStore(2000)
	for i := 0; i < 1500; i++ {
		s.Append([]float64{float64(i)})
	}
	s.SetSize(100)
	sched := &recordingScheduler{}
	s.SetFrameScheduler(sched)
	return s, clk, sched
}

func TestStartMomentumBelowThresholdStaysIdle(t *testing.T) {
	s, _, sched := momentumStore(t)
	s.StartMomentum(0.004)
	if s.MomentumActive() {
		t.Error("momentum should stay idle below the velocity threshold")
	}
	if sched.requests != 0 {
		t.Errorf("frame requests = %d, want 0", sched.requests)
	}
}

func TestStartMomentumNonFiniteIsIdle(t *testing.T) {
	s, _, _ := momentumStore(t)
	s.StartMomentum(math.NaN())
	if s.MomentumActive() {
		t.Error("NaN velocity must not start momentum")
	}
	s.StartMomentum(math.Inf(-1))
	if s.MomentumActive() {
		t.Error("Inf velocity must not start momentum")
	}
}

func TestMomentumDecaysToIdle(t *testing.T) {
	s, clk, sched := momentumStore(t)
	s.SetCursor(700)
	s.StartMomentum(1.0) // 1 sample/ms rightward
	if !s.MomentumActive() {
		t.Fatal("momentum should be running")
	}
	if sched.requests != 1 {
		t.Fatalf("frame requests = %d after start, want 1", sched.requests)
	}

	steps := 0
	for s.MomentumActive() {
		clk.advance(17 * time.Millisecond)
		s.StepMomentum()
		steps++
		if steps > 10000 {
			t.Fatal("momentum did not terminate")
		}
	}
	if s.Cursor() <= 700 {
		t.Errorf("cursor = %d, want > 700 after rightward momentum", s.Cursor())
	}
	// Strict sub-1 decay per frame: v=1 at 0.95^(17/16.7) per step reaches
	// 0.005 in roughly a hundred frames.
	if steps < 50 || steps > 200 {
		t.Errorf("steps = %d, want a plausible decay length", steps)
	}
}

func TestMomentumFrameRateIndependence(t *testing.T) {
	run := func(frame time.Duration) int {
		s, clk := newTestStore(20000)
		for i := 0; i < 20000; i++ {
			s.Append([]float64{0})
		}
		s.SetSize(100)
		s.SetCursor(10000)
		s.StartMomentum(-1.0)
		for s.MomentumActive() {
			clk.advance(frame)
			if !s.StepMomentum() {
				break
			}
		}
		return s.Cursor()
	}
	at60 := run(17 * time.Millisecond)
	at30 := run(33 * time.Millisecond)
	// Same decay curve integrated at different frame rates lands close by.
	if diff := at60 - at30; diff < -40 || diff > 40 {
		t.Errorf("60fps cursor %d vs 30fps cursor %d, want within 40 samples", at60, at30)
	}
}

func TestMomentumClampsAtBounds(t *testing.T) {
	s, clk, _ := momentumStore(t)
	s.StartMomentum(5.0) // rightward from the live edge
	for s.MomentumActive() {
		clk.advance(17 * time.Millisecond)
		s.StepMomentum()
	}
	if s.Cursor() != s.Total()-1 {
		t.Errorf("cursor = %d, want pinned at %d", s.Cursor(), s.Total()-1)
	}
}

func TestStopMomentumIsImmediateAndIdempotent(t *testing.T) {
	s, clk, _ := momentumStore(t)
	s.StartMomentum(1.0)
	clk.advance(17 * time.Millisecond)
	s.StepMomentum()
	s.StopMomentum()
	if s.MomentumActive() {
		t.Fatal("momentum should be stopped")
	}
	cursor := s.Cursor()
	clk.advance(17 * time.Millisecond)
	if s.StepMomentum() {
		t.Error("step after stop should report idle")
	}
	if s.Cursor() != cursor {
		t.Errorf("cursor moved after stop: %d -> %d", cursor, s.Cursor())
	}
	s.StopMomentum() // already idle: safe
}

func TestStartMomentumCancelsPrevious(t *testing.T) {
	s, clk, sched := momentumStore(t)
	s.SetCursor(700)
	s.StartMomentum(1.0)
	clk.advance(17 * time.Millisecond)
	s.StepMomentum()

	// Restart in the other direction; the old run must not keep moving us.
	s.StartMomentum(-1.0)
	if sched.requests != 3 {
		t.Errorf("frame requests = %d, want 3 (start, reschedule, restart)", sched.requests)
	}
	before := s.Cursor()
	clk.advance(17 * time.Millisecond)
	s.StepMomentum()
	if s.Cursor() >= before {
		t.Errorf("cursor = %d, want < %d after reversed momentum", s.Cursor(), before)
	}
}

func TestSinglePendingFrame(t *testing.T) {
	s, _, sched := momentumStore(t)
	s.StartMomentum(1.0)
	// Mutations between frames must not pile up extra requests.
	s.AdjustCursor(-5)
	s.SetCursor(600)
	if sched.requests != 1 {
		t.Errorf("frame requests = %d, want 1 until the frame is consumed", sched.requests)
	}
}

func TestVelocityTrackerEMA(t *testing.T) {
	var vt VelocityTracker
	got := vt.Observe(10, 10) // first sample primes: 1.0
	if got != 1.0 {
		t.Fatalf("primed velocity = %f, want 1.0", got)
	}
	got = vt.Observe(0, 10) // instant 0: 0.8*1.0 + 0.2*0 = 0.8
	if math.Abs(got-0.8) > 1e-9 {
		t.Errorf("velocity = %f, want 0.8", got)
	}
	if vt.Velocity() != got {
		t.Errorf("Velocity() = %f, want %f", vt.Velocity(), got)
	}
	vt.Reset()
	if vt.Velocity() != 0 {
		t.Errorf("velocity after reset = %f, want 0", vt.Velocity())
	}
}

func TestVelocityTrackerIgnoresZeroDt(t *testing.T) {
	var vt VelocityTracker
	vt.Observe(5, 10)
	before := vt.Velocity()
	vt.Observe(100, 0)
	if vt.Velocity() != before {
		t.Errorf("velocity = %f, want unchanged %f on zero dt", vt.Velocity(), before)
	}
}
