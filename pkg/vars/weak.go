package vars

import (
	"runtime"
	"sync/atomic"
	"weak"
)

// refCounts is the shared counter block for a single variable's weak
// references. It is allocated separately from the variable itself so it
// keeps reporting a sane WeakCount even after the variable has been
// collected.
type refCounts struct {
	weak atomic.Int64
}

// weakToken is the object a WeakVar's automatic decrement is hung off.
// Every live copy of a given WeakVar[T] value shares the same token
// pointer, so the decrement fires once, when the last copy of that
// particular Downgrade() result becomes unreachable — the Go analogue of
// Rust's Weak<T> Drop. A second, independent Downgrade() call creates its
// own token and is counted separately, matching Weak::clone incrementing
// the same Arc's weak count.
type weakToken struct{}

// WeakVar is the non-owning counterpart of Var[T] (spec.md §4.J). It never
// keeps the underlying variable alive; Upgrade returns ok=false once the
// last strong reference is gone and the garbage collector has reclaimed it.
//
// strong_count/weak_count are necessarily approximate in Go: there is no
// Drop to count exact live clones of a Var[T] handle the way Rust's Arc
// does. StrongCount reports GC liveness (1 while reachable from anywhere,
// 0 once collected) rather than an exact handle count; WeakCount counts
// outstanding Downgrade() calls whose WeakVar (and any copies of it) are
// still reachable. See DESIGN.md for the full rationale.
type WeakVar[T any] struct {
	counts  *refCounts
	token   *weakToken
	upgrade func() (Var[T], bool)
}

// Upgrade returns the live variable, or ok=false if it has been collected.
func (w WeakVar[T]) Upgrade() (Var[T], bool) {
	if w.upgrade == nil {
		return nil, false
	}
	return w.upgrade()
}

// StrongCount reports whether the variable this weak reference points at
// is still reachable (1) or has been collected (0).
func (w WeakVar[T]) StrongCount() int {
	if _, ok := w.Upgrade(); ok {
		return 1
	}
	return 0
}

// WeakCount reports the number of outstanding weak references to the
// variable, including this one.
func (w WeakVar[T]) WeakCount() int64 {
	if w.counts == nil {
		return 0
	}
	return w.counts.weak.Load()
}

// newWeakVar builds a WeakVar[T] over a concrete node type C (Cell[T],
// mapVar[T], ...), using wrap to re-box the concrete pointer as a Var[T]
// once it resolves.
func newWeakVar[C any, T any](ptr *C, counts *refCounts, wrap func(*C) Var[T]) WeakVar[T] {
	wp := weak.Make(ptr)
	counts.weak.Add(1)
	tok := &weakToken{}
	runtime.AddCleanup(tok, decrementWeak, counts)
	return WeakVar[T]{
		counts: counts,
		token:  tok,
		upgrade: func() (Var[T], bool) {
			p := wp.Value()
			if p == nil {
				return nil, false
			}
			return wrap(p), true
		},
	}
}

func decrementWeak(c *refCounts) {
	c.weak.Add(-1)
}

// selfLiveness builds the isAlive closure a concrete variable constructor
// installs on its own varBase, backing that variable's own StrongCount().
func selfLiveness[C any](ptr *C) func() bool {
	wp := weak.Make(ptr)
	return func() bool { return wp.Value() != nil }
}
