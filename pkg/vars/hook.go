package vars

import (
	"runtime"
	"sync"
)

// HookArgs is passed to a subscriber every time its variable fires
// (spec.md §4.B). Value points at the committed value; Update is true when
// the firing was an explicit update() call rather than (or in addition to)
// a value change. Tags is passed through unchanged to type-erased hooks
// (AnyHookArgs); no variable kind in this package sets it.
type HookArgs[T any] struct {
	Value  *T
	Update bool
	Tags   []any
}

// HookFunc is a subscriber callback. Returning false unsubscribes it
// (spec.md §4.B "weak hooks prune themselves").
type HookFunc[T any] func(args *HookArgs[T]) bool

// AnyHookArgs is the type-erased counterpart of HookArgs, used by Merge to
// subscribe to heterogeneous inputs (spec.md §4.E).
type AnyHookArgs struct {
	Value  any
	Update bool
	Tags   []any
}

// AnyHookFunc is the type-erased counterpart of HookFunc.
type AnyHookFunc func(args *AnyHookArgs) bool

// runHookSafely isolates a hook panic so one broken subscriber can't corrupt
// a drain (spec.md §7 "hook panics are not part of the contract; isolate
// them"). A panicking hook is treated as if it asked to be unsubscribed.
func runHookSafely[T any](fn HookFunc[T], args *HookArgs[T]) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			recordHookPanic(r)
			ok = false
		}
	}()
	return fn(args)
}

type hookEntry[T any] struct {
	id uint64
	fn HookFunc[T]
}

// hookList is the subscriber registry behind every variable kind. It is
// intentionally small: a mutex-guarded slice, pruned in place whenever a
// hook returns false or panics.
type hookList[T any] struct {
	mu      sync.RWMutex
	entries []*hookEntry[T]
}

func (h *hookList[T]) push(fn HookFunc[T]) *Handle {
	e := &hookEntry[T]{id: nextID(), fn: fn}
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
	return newHandle(func() { h.remove(e.id) })
}

func (h *hookList[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, e := range h.entries {
		if e.id == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

func (h *hookList[T]) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// notify runs every live hook with args, pruning any that return false or
// panic. Hooks are snapshotted before running so a hook that subscribes or
// unsubscribes another hook doesn't race the iteration.
func (h *hookList[T]) notify(args *HookArgs[T]) {
	h.mu.RLock()
	snapshot := make([]*hookEntry[T], len(h.entries))
	copy(snapshot, h.entries)
	h.mu.RUnlock()

	var dead []uint64
	for _, e := range snapshot {
		if !runHookSafely(e.fn, args) {
			dead = append(dead, e.id)
		}
	}
	if len(dead) == 0 {
		return
	}
	h.mu.Lock()
	for _, id := range dead {
		for i, e := range h.entries {
			if e.id == id {
				h.entries = append(h.entries[:i], h.entries[i+1:]...)
				break
			}
		}
	}
	h.mu.Unlock()
}

// Handle is the owning side of a subscription (spec.md §4.B). Unsubscribe
// detaches it immediately. Perm cancels the garbage-collection-triggered
// detach so the hook survives even if the caller drops the Handle value,
// the Go analogue of never calling Rust's Drop. If neither is called, the
// hook is detached automatically once the Handle itself becomes
// unreachable, via runtime.AddCleanup.
type Handle struct {
	mu      sync.Mutex
	detach  func()
	cleanup runtime.Cleanup
	done    bool
	permed  bool
}

func newHandle(detach func()) *Handle {
	h := &Handle{detach: detach}
	h.cleanup = runtime.AddCleanup(h, runDetach, detach)
	return h
}

func runDetach(detach func()) { detach() }

// Unsubscribe detaches the hook right away.
func (h *Handle) Unsubscribe() {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	h.done = true
	fn := h.detach
	h.mu.Unlock()
	h.cleanup.Stop()
	fn()
}

// Perm makes the subscription outlive this Handle value: the automatic
// GC-triggered detach is cancelled, so the hook stays registered until the
// variable itself is gone or Unsubscribe is called on a handle obtained
// elsewhere.
func (h *Handle) Perm() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done || h.permed {
		return
	}
	h.permed = true
	h.cleanup.Stop()
}
