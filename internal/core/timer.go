package core

import "time"

// maxCatchUp bounds how many ticks a single frame may run after a stall.
const maxCatchUp = 4

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
	paused      bool
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetClock replaces the time source.
func (f *FixedStep) SetClock(now func() time.Time) {
	f.now = now
	f.last = time.Time{}
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// TPS returns the target tick rate.
func (f *FixedStep) TPS() int { return int(time.Second / f.step) }

// SetPaused stops or resumes ticking. Time spent paused is not made up.
func (f *FixedStep) SetPaused(p bool) {
	f.paused = p
	f.accumulator = 0
	f.last = time.Time{}
}

// Paused reports whether ticking is paused.
func (f *FixedStep) Paused() bool { return f.paused }

// Ticks reports how many simulation ticks are due this frame. A long stall
// is clamped so the simulation does not spiral trying to catch up.
func (f *FixedStep) Ticks() int {
	if f.paused {
		return 0
	}
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	n := int(f.accumulator / f.step)
	if n > maxCatchUp {
		n = maxCatchUp
		f.accumulator = 0
		return n
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	if f.paused {
		return false
	}
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
