package core

import (
	"testing"
	"time"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time { return c.t }

func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFixedStepFirstFrameTicks(t *testing.T) {
	fs := NewFixedStep(10)
	clock := &manualClock{t: time.Unix(100, 0)}
	fs.SetClock(clock.now)

	if n := fs.Ticks(); n != 1 {
		t.Fatalf("first frame should run one primed tick, got %d", n)
	}
	if n := fs.Ticks(); n != 0 {
		t.Fatalf("no time passed, got %d ticks", n)
	}
	clock.advance(250 * time.Millisecond)
	if n := fs.Ticks(); n != 2 {
		t.Fatalf("250ms at 10 TPS should give 2 ticks, got %d", n)
	}
	clock.advance(50 * time.Millisecond)
	if n := fs.Ticks(); n != 1 {
		t.Fatalf("leftover 50ms plus 50ms should give 1 tick, got %d", n)
	}
}

func TestFixedStepCatchUpLimit(t *testing.T) {
	fs := NewFixedStep(60)
	clock := &manualClock{t: time.Unix(0, 0)}
	fs.SetClock(clock.now)
	fs.Ticks()

	clock.advance(5 * time.Second)
	if n := fs.Ticks(); n != maxCatchUp {
		t.Fatalf("stall should clamp to %d ticks, got %d", maxCatchUp, n)
	}
	if n := fs.Ticks(); n != 0 {
		t.Fatalf("backlog should be dropped after clamping, got %d", n)
	}
}

func TestFixedStepPause(t *testing.T) {
	fs := NewFixedStep(10)
	clock := &manualClock{t: time.Unix(0, 0)}
	fs.SetClock(clock.now)
	fs.SetPaused(true)
	clock.advance(time.Second)
	if fs.Ticks() != 0 || fs.ShouldStep() {
		t.Fatal("paused controller must not tick")
	}
	fs.SetPaused(false)
	if n := fs.Ticks(); n != 0 {
		t.Fatalf("paused time must not be made up, got %d", n)
	}
	if fs.TPS() != 10 {
		t.Fatalf("tps = %d", fs.TPS())
	}
}
