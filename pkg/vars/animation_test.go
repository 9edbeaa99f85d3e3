package vars

import (
	"testing"
	"time"
)

func TestEaseAdvancesTowardDestOverManualTime(t *testing.T) {
	app := NewApp()
	app.SetClockMode(ClockManual)
	c := NewCell(app, Float64(0))

	Ease[Float64](c, Float64(100), 1*time.Second, Linear)

	app.AdvanceTime(0) // the first tick runs at elapsed 0 and writes the start value
	app.AdvanceTime(250 * time.Millisecond)
	mid := c.Get()
	if mid <= 0 || mid >= 100 {
		t.Fatalf("c.Get() mid-animation = %v, want strictly between 0 and 100", mid)
	}

	app.AdvanceTime(1 * time.Second) // past the end
	if got := c.Get(); got != 100 {
		t.Fatalf("c.Get() after animation ends = %v, want 100", got)
	}
}

func TestEaseStopsTickingOnceFinished(t *testing.T) {
	app := NewApp()
	app.SetClockMode(ClockManual)
	c := NewCell(app, Float64(0))

	handle := Ease[Float64](c, Float64(10), 100*time.Millisecond, Linear)
	app.AdvanceTime(200 * time.Millisecond)

	if handle.IsRunning() {
		t.Fatalf("IsRunning() = true after the animation's duration has fully elapsed")
	}
}

func TestUserWriteDuringAnimationWins(t *testing.T) {
	app := NewApp()
	app.SetClockMode(ClockManual)
	c := NewCell(app, Float64(0))

	handle := Ease[Float64](c, Float64(100), 1*time.Second, Linear)
	app.AdvanceTime(100 * time.Millisecond)

	stopped := false
	c.HookAnimationStop(func() { stopped = true })

	c.Set(Float64(42)) // a fresh user write always carries a newer importance
	app.Drain()

	if got := c.Get(); got != 42 {
		t.Fatalf("c.Get() after user write mid-animation = %v, want 42 (user write must win)", got)
	}
	if c.IsAnimating() {
		t.Fatalf("IsAnimating() = true after a user write superseded the animation")
	}
	if handle.IsRunning() {
		t.Fatalf("IsRunning() = true after a superseding user write, the animation should have stopped")
	}
	if !stopped {
		t.Fatalf("animation-stop hook never fired after a user write superseded the animation")
	}

	// Advancing time further must not resurrect the stopped animation.
	app.AdvanceTime(200 * time.Millisecond)
	if got := c.Get(); got != 42 {
		t.Fatalf("c.Get() after further AdvanceTime = %v, want 42 (stopped animation must not tick again)", got)
	}
}

func TestEaseFiresAnimationStopHookOnceFinished(t *testing.T) {
	app := NewApp()
	app.SetClockMode(ClockManual)
	c := NewCell(app, Float64(0))

	fireCount := 0
	c.HookAnimationStop(func() { fireCount++ })

	Ease[Float64](c, Float64(10), 100*time.Millisecond, Linear)
	app.AdvanceTime(50 * time.Millisecond)
	if fireCount != 0 {
		t.Fatalf("fireCount = %d mid-animation, want 0", fireCount)
	}

	app.AdvanceTime(100 * time.Millisecond) // past the end
	if fireCount != 1 {
		t.Fatalf("fireCount = %d after the animation finished, want 1", fireCount)
	}

	app.AdvanceTime(100 * time.Millisecond)
	if fireCount != 1 {
		t.Fatalf("fireCount = %d after a further drain, want 1 (single-shot hook must not refire)", fireCount)
	}
}

func TestAnimateForStopsExactlyOnce(t *testing.T) {
	app := NewApp()
	app.SetClockMode(ClockManual)

	ticks := 0
	handle := app.AnimateFor(100*time.Millisecond, func(args *AnimationArgs) {
		ticks++
	})

	app.AdvanceTime(30 * time.Millisecond)
	app.AdvanceTime(30 * time.Millisecond)
	app.AdvanceTime(100 * time.Millisecond) // past the end

	if handle.IsRunning() {
		t.Fatalf("handle should report not running once the animation's duration has elapsed")
	}
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3 (one per AdvanceTime call up to and including the one that finishes it)", ticks)
	}

	app.AdvanceTime(30 * time.Millisecond)
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3 (a finished animation must not tick again)", ticks)
	}
}

func TestHandleStopEndsAPerpetualAnimation(t *testing.T) {
	app := NewApp()
	app.SetClockMode(ClockManual)

	ticks := 0
	handle := app.Animate(func(args *AnimationArgs) {
		ticks++
	})

	app.AdvanceTime(10 * time.Millisecond)
	handle.Stop()
	app.AdvanceTime(10 * time.Millisecond)

	if ticks != 1 {
		t.Fatalf("ticks = %d, want 1 (no further ticks after Stop())", ticks)
	}
}
