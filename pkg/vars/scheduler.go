package vars

import (
	"log"
	"sync"
	"time"
)

// tickable is implemented by *Animation; kept as a small interface here so
// scheduler.go doesn't need to know animation.go's internals.
type tickable interface {
	tick(now time.Duration) (stillRunning bool)
}

// App is the update scheduler (spec.md §4.C "VARS"). Unlike the original's
// single process-wide VARS, App is an explicit value: Design Notes §9 flags
// the global-mutable-state pattern as something a Go port should localize,
// so tests can each build their own App instead of sharing mutable process
// state. Vars below is the default instance for callers that don't need
// isolation.
type App struct {
	mu sync.Mutex

	updateID UpdateId
	applyID  ApplyUpdateId
	queue    []func()

	clockMode AnimationClockMode
	manualNow time.Duration
	startedAt time.Time

	animations []tickable

	drainsTotal uint64
}

// NewApp builds an independent scheduler instance.
func NewApp() *App {
	return &App{startedAt: time.Now()}
}

// Vars is the default process-wide scheduler, analogous to the original's
// VARS global.
var Vars = NewApp()

func (a *App) UpdateID() UpdateId {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updateID
}

func (a *App) ApplyUpdateID() ApplyUpdateId {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applyID
}

// SetClockMode switches between the real wall clock and a manually
// advanced one (spec.md Design Notes §9, needed for deterministic
// animation tests).
func (a *App) SetClockMode(mode AnimationClockMode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clockMode = mode
}

func (a *App) now() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.clockMode == ClockManual {
		return a.manualNow
	}
	return time.Since(a.startedAt)
}

// schedule queues a modify closure to run on the next Drain.
func (a *App) schedule(f func()) {
	a.mu.Lock()
	a.queue = append(a.queue, f)
	a.mu.Unlock()
}

func (a *App) registerAnimation(t tickable) {
	a.mu.Lock()
	a.animations = append(a.animations, t)
	a.mu.Unlock()
}

// Drain runs one frame of the scheduler (spec.md §4.C): update_id advances,
// animations tick (they may enqueue modify closures of their own), then the
// modify queue runs to exhaustion — including closures scheduled by the
// hooks the first round's closures fire, and so on — before apply_update_id
// advances once at the end. See the queue-draining loop below for why this
// converges in rounds bounded by the dependency graph's depth rather than
// needing fixed-point iteration.
func (a *App) Drain() {
	span := tracingStartDrain(a)
	defer span.End()

	a.mu.Lock()
	a.updateID++
	a.mu.Unlock()

	a.tickAnimations()

	// A write's hook chain can itself schedule more writes (a derived
	// variable recomputing in response to its source). Draining the queue
	// to exhaustion within this same call, rather than carrying leftovers
	// into the next Drain, is what lets a diamond-shaped dependency graph
	// converge in one frame: each round only ever processes closures
	// scheduled by the round before it, so the number of rounds is bounded
	// by the graph's depth, not by iterating to a fixed point.
	totalRun := 0
	for {
		a.mu.Lock()
		queue := a.queue
		a.queue = nil
		a.mu.Unlock()

		if len(queue) == 0 {
			break
		}
		for _, f := range queue {
			runModifySafely(f)
		}
		totalRun += len(queue)
	}

	a.mu.Lock()
	a.applyID++
	a.drainsTotal++
	a.mu.Unlock()

	metricsObserveDrain(totalRun)
	if DevMode && Debug.LogDrains {
		log.Printf("vars: drain ran %d modify closures", totalRun)
	}
}

func (a *App) tickAnimations() {
	now := a.now()

	a.mu.Lock()
	anims := a.animations
	a.mu.Unlock()
	if len(anims) == 0 {
		return
	}

	span := tracingStartAnimTick(a)
	defer span.End()

	live := anims[:0:0]
	for _, anim := range anims {
		if anim.tick(now) {
			live = append(live, anim)
		}
	}
	metricsSetAnimationsActive(len(live))

	a.mu.Lock()
	a.animations = live
	a.mu.Unlock()
}

// WaitIdle drives Drain repeatedly until the modify queue and animation
// set are both empty. Useful in tests and in the headless `tick`
// subcommand.
func (a *App) WaitIdle(maxDrains int) {
	for i := 0; i < maxDrains; i++ {
		a.mu.Lock()
		empty := len(a.queue) == 0 && len(a.animations) == 0
		a.mu.Unlock()
		if empty {
			return
		}
		a.Drain()
	}
}

// AdvanceTime moves a manual clock forward and runs one Drain. Only valid
// in ClockManual mode.
func (a *App) AdvanceTime(d time.Duration) {
	a.mu.Lock()
	a.manualNow += d
	a.mu.Unlock()
	a.Drain()
}

// runModifySafely isolates a panicking modify closure the same way hooks
// are isolated (spec.md §7): one broken write shouldn't corrupt the rest
// of the drain's queue.
func runModifySafely(f func()) {
	defer func() {
		if r := recover(); r != nil {
			recordHookPanic(r)
		}
	}()
	f()
}
