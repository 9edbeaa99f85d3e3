package vars

import "sync/atomic"

// globalIDCounter is the source of unique IDs for every reactive primitive
// (cells, derived variables, hooks, animations). Atomic so creation from
// concurrent goroutines never collides.
var globalIDCounter uint64

// nextID returns the next process-wide unique identifier.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// UpdateId is the scheduler's monotonic counter, advanced once per event
// pass (spec.md §3 "Update ids"). It is stamped onto a value's metadata
// whenever a modify closure actually commits.
type UpdateId uint64

// ApplyUpdateId is a second counter, advanced only when a drain actually
// runs the modify queue. Derived variables use it to schedule at most one
// recomputation per drain (spec.md §3, §4.E Merge).
type ApplyUpdateId uint64

// globalImportance backs every value's modify-importance precedence
// (spec.md §4.A, §4.G). A single monotonic sequence is sufficient: the
// only externally observable contract is relative order between writes,
// and animations already tick before user writes within one drain
// (spec.md §5), so a plain counter reproduces the "epoch base +
// generation" scheme from the original without needing per-animation
// epoch reservations. See DESIGN.md for the full rationale.
var globalImportance atomic.Uint64

// nextImportance returns a fresh, strictly increasing modify-importance
// value for a single write.
func nextImportance() uint64 {
	return globalImportance.Add(1)
}
