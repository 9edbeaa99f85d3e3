package vars

import (
	"sync"
	"sync/atomic"
	"time"
)

// AnimationArgs is passed to an animation's tick callback every frame
// (spec.md §4.G). Elapsed is time since the animation started; Fct is
// that elapsed time expressed as an EasingTime (0..1, clamped once the
// animation's duration has passed).
type AnimationArgs struct {
	Elapsed time.Duration
	Fct     EasingTime

	stop bool
}

// Stop requests that the animation not tick again after this call.
func (a *AnimationArgs) Stop() { a.stop = true }

// Animation is a single running animation loop, registered on an App and
// ticked once per Drain (spec.md §4.C, §4.G). It carries its own
// modify-importance so its writes lose to any user write that arrives in
// the same or a later drain, and win over a stale animation that's since
// been superseded (spec.md §4.A write-precedence rule).
type Animation struct {
	id        uint64
	app       *App
	startedAt time.Duration
	started   bool
	duration  time.Duration
	fn        func(*AnimationArgs)
	stopped   atomic.Bool

	// onStop runs exactly once, the first time the animation stops for any
	// reason (finished, args.Stop(), handle.Stop(), or superseded by a
	// higher-importance write). Ease wires this to the target value's
	// animationFinished so stop hooks fire regardless of which path ended
	// the animation.
	onStop   func()
	stopOnce sync.Once
}

// fireOnStop runs onStop at most once, however many of tick's return paths
// and AnimationHandle.Stop observe the animation stopping.
func (a *Animation) fireOnStop() {
	a.stopOnce.Do(func() {
		if a.onStop != nil {
			a.onStop()
		}
	})
}

// AnimationHandle lets a caller stop an animation early or check whether
// it's still running.
type AnimationHandle struct {
	anim *Animation
}

// Stop ends the animation; its next scheduled tick (if any) is skipped.
func (h *AnimationHandle) Stop() {
	h.anim.stopped.Store(true)
	h.anim.fireOnStop()
}

// IsRunning reports whether the animation has not been stopped and, for a
// finite-duration animation, has not yet reached its end.
func (h *AnimationHandle) IsRunning() bool { return !h.anim.stopped.Load() }

// Animate registers a perpetual animation: fn runs once per Drain with the
// elapsed time since the animation started, until fn calls args.Stop() or
// the returned handle's Stop() is called.
func (a *App) Animate(fn func(args *AnimationArgs)) *AnimationHandle {
	anim := &Animation{id: nextID(), app: a, fn: fn, startedAt: a.now(), started: true}
	a.registerAnimation(anim)
	return &AnimationHandle{anim: anim}
}

// AnimateFor registers a fixed-duration animation: fn's Fct reaches 1 at
// exactly duration and the animation then stops on its own.
func (a *App) AnimateFor(duration time.Duration, fn func(args *AnimationArgs)) *AnimationHandle {
	anim := &Animation{id: nextID(), app: a, duration: duration, fn: fn, startedAt: a.now(), started: true}
	a.registerAnimation(anim)
	return &AnimationHandle{anim: anim}
}

func (a *Animation) tick(now time.Duration) bool {
	if a.stopped.Load() {
		a.fireOnStop()
		return false
	}
	if !a.started {
		a.startedAt = now
		a.started = true
	}
	elapsed := now - a.startedAt

	var fct EasingTime
	finished := false
	if a.duration > 0 {
		fct = NewEasingTime(float64(elapsed) / float64(a.duration))
		finished = elapsed >= a.duration
	} else {
		fct = NewEasingTime(0)
	}

	span := tracingStartAnimTick(a.app)
	args := &AnimationArgs{Elapsed: elapsed, Fct: fct}
	func() {
		defer span.End()
		defer func() {
			if r := recover(); r != nil {
				recordHookPanic(r)
				args.stop = true
			}
		}()
		a.fn(args)
	}()

	if args.stop || finished {
		a.stopped.Store(true)
		a.fireOnStop()
		return false
	}
	return true
}

// Ease animates target from its current value to dest over duration,
// sampling easing once per Drain (spec.md §4.G "ease"). It writes through
// Cell.setAnimated so every tick carries the animation's own
// modify-importance and the animating=true flag, letting a user write
// during the animation win outright per the precedence rule. The animation
// is built by hand rather than through AnimateFor so its cancel path can be
// wired into the target's value before the scheduler ever ticks it: a
// superseding write invokes that cancel, which stops the Animation and
// fires its stop hooks through the same onStop path a natural finish does.
func Ease[T Transitionable[T]](target *Cell[T], dest T, duration time.Duration, easing EasingFunc) *AnimationHandle {
	from := target.Get()
	importance := nextImportance()

	anim := &Animation{id: nextID(), app: target.app, duration: duration, startedAt: target.app.now(), started: true}
	anim.fn = func(args *AnimationArgs) {
		step := easing(args.Fct)
		target.setAnimated(importance, from.Lerp(dest, step))
	}
	anim.onStop = func() { target.val.animationFinished() }

	target.val.setAnimCancel(func() {
		anim.stopped.Store(true)
		anim.fireOnStop()
	})

	target.app.registerAnimation(anim)
	return &AnimationHandle{anim: anim}
}
