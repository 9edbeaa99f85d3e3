package vars

import "log"

// DevMode gates verbose diagnostics that a production build would rather
// not pay for: hook-panic logging, the contextualized-cache size warning,
// per-drain logging. Mirrors the teacher's package-level DevMode
// flag (config.go).
var DevMode = false

// DebugConfig mirrors the teacher's DebugConfig struct: a small bag of
// independent toggles rather than one all-or-nothing verbosity knob.
type DebugConfig struct {
	// LogHookPanics logs a recovered hook panic instead of staying silent.
	LogHookPanics bool
	// LogContextualizedCacheGrowth logs when a Contextualized variable's
	// per-context cache crosses the 200-entry mark (spec.md §4.F).
	LogContextualizedCacheGrowth bool
	// LogDrains logs one line per scheduler drain with queue depth.
	LogDrains bool
}

// DefaultDebugConfig mirrors the teacher's DefaultDebugConfig(): everything
// off, since these are opt-in diagnostics.
func DefaultDebugConfig() DebugConfig {
	return DebugConfig{}
}

// Debug is the process-wide instance consulted by the runtime. Tests that
// want to assert on diagnostics can flip individual fields.
var Debug = DefaultDebugConfig()

func recordHookPanic(r any) {
	metricsHookPanic()
	if DevMode && Debug.LogHookPanics {
		log.Printf("vars: hook panicked, unsubscribing: %v", r)
	}
}

// AnimationClockMode selects whether the animation scheduler advances off
// the wall clock or only when AdvanceTime is called explicitly (spec.md
// Design Notes §9, needed so tests of easing/slerp are deterministic).
type AnimationClockMode int

const (
	ClockRealtime AnimationClockMode = iota
	ClockManual
)
