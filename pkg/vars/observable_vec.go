package vars

import (
	"runtime"
	"sync"
	"weak"
)

// VecChangeKind enumerates the kinds of mutation ObservableVec reports.
type VecChangeKind int

const (
	VecInsert VecChangeKind = iota
	VecRemove
	VecMove
	VecClear
)

func (k VecChangeKind) String() string {
	switch k {
	case VecInsert:
		return "insert"
	case VecRemove:
		return "remove"
	case VecMove:
		return "move"
	case VecClear:
		return "clear"
	default:
		return "unknown"
	}
}

// VecChange is one entry in an ObservableVec's per-frame change log
// (spec.md §4.H). Index/ToIndex are meaningful per Kind: Insert/Remove use
// Index; Move uses both; Clear uses neither.
type VecChange struct {
	Kind    VecChangeKind
	Index   int
	ToIndex int
}

// ObservableVec is a reactive vector whose consumers can either read the
// whole current snapshot or replay the exact sequence of structural
// changes made during the frame that just committed (spec.md §4.H). It
// mirrors a Cell in spirit (same modify-importance-free, always-writable
// semantics) but reports changes as a log instead of an equality-checked
// value, since "did the slice change" isn't a useful question for a
// collection a caller is actively editing.
type ObservableVec[T any] struct {
	id  uint64
	app *App

	mu    sync.RWMutex
	items []T

	opsMu sync.Mutex
	ops   []VecChange

	lastUpdate UpdateId
	hooks      hookList[[]T]
	changes    hookList[[]VecChange]
	counts     *refCounts
}

// NewObservableVec builds an empty (or seeded, via initial) observable
// vector scheduled against app.
func NewObservableVec[T any](app *App, initial ...T) *ObservableVec[T] {
	v := &ObservableVec[T]{
		id:     nextID(),
		app:    app,
		items:  append([]T(nil), initial...),
		counts: &refCounts{},
	}
	return v
}

// Get returns a copy of the current snapshot.
func (v *ObservableVec[T]) Get() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.items...)
}

// Len returns the current length without copying the backing slice.
func (v *ObservableVec[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// HookSnapshot subscribes to the vector's value as a whole, firing once
// per drain that changed it with the post-change snapshot.
func (v *ObservableVec[T]) HookSnapshot(fn HookFunc[[]T]) *Handle { return v.hooks.push(fn) }

// HookChanges subscribes to the structural change log, firing once per
// drain that changed the vector with that drain's (possibly collapsed)
// list of VecChange entries.
func (v *ObservableVec[T]) HookChanges(fn HookFunc[[]VecChange]) *Handle { return v.changes.push(fn) }

func (v *ObservableVec[T]) LastUpdate() UpdateId {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastUpdate
}

// queueChange records that a mutation already applied to items happened,
// so commit can replay it into this frame's reported change log. The
// mutation itself always runs eagerly, under v.mu, at the call site below
// — queue only ever holds already-applied change descriptors, never
// unevaluated closures, so a second mutation in the same frame computes
// its index against the real, just-mutated slice rather than a stale one.
func (v *ObservableVec[T]) queueChange(c VecChange) {
	v.opsMu.Lock()
	first := len(v.ops) == 0
	v.ops = append(v.ops, c)
	v.opsMu.Unlock()

	if first {
		v.app.schedule(v.commit)
	}
}

// Insert inserts item at index, pushing everything from index onward one
// position later. index == Len() appends.
func (v *ObservableVec[T]) Insert(index int, item T) {
	v.mu.Lock()
	v.items = append(v.items, item)
	copy(v.items[index+1:], v.items[index:])
	v.items[index] = item
	v.mu.Unlock()

	v.queueChange(VecChange{Kind: VecInsert, Index: index})
}

// Push appends item at the end.
func (v *ObservableVec[T]) Push(item T) {
	v.mu.Lock()
	idx := len(v.items)
	v.items = append(v.items, item)
	v.mu.Unlock()

	v.queueChange(VecChange{Kind: VecInsert, Index: idx})
}

// Remove deletes the item at index.
func (v *ObservableVec[T]) Remove(index int) {
	v.mu.Lock()
	v.items = append(v.items[:index], v.items[index+1:]...)
	v.mu.Unlock()

	v.queueChange(VecChange{Kind: VecRemove, Index: index})
}

// Move relocates the item at `from` to position `to`.
func (v *ObservableVec[T]) Move(from, to int) {
	v.mu.Lock()
	item := v.items[from]
	v.items = append(v.items[:from], v.items[from+1:]...)
	v.items = append(v.items, item)
	copy(v.items[to+1:], v.items[to:])
	v.items[to] = item
	v.mu.Unlock()

	v.queueChange(VecChange{Kind: VecMove, Index: from, ToIndex: to})
}

// Clear empties the vector.
func (v *ObservableVec[T]) Clear() {
	v.mu.Lock()
	v.items = v.items[:0]
	v.mu.Unlock()

	v.queueChange(VecChange{Kind: VecClear})
}

// commit reports this frame's already-applied mutations: it takes the
// post-mutation snapshot and emits a change log, collapsing it to a
// single Clear entry if the frame mixed an Insert with any other kind of
// mutation, or if an Insert is followed by another Insert that does not
// land one index past it (the consumer should just re-read the snapshot
// instead of replaying a diff). The backing slice
// itself always reflects every real mutation that ran — only the
// reported log simplifies.
func (v *ObservableVec[T]) commit() {
	v.opsMu.Lock()
	changes := v.ops
	v.ops = nil
	v.opsMu.Unlock()

	if len(changes) == 0 {
		return
	}

	v.mu.Lock()
	snapshot := append([]T(nil), v.items...)
	v.lastUpdate = v.app.UpdateID()
	v.mu.Unlock()

	log := collapseVecChanges(changes)

	if v.hooks.len() > 0 {
		v.hooks.notify(&HookArgs[[]T]{Value: &snapshot, Update: true})
	}
	if v.changes.len() > 0 {
		v.changes.notify(&HookArgs[[]VecChange]{Value: &log, Update: true})
	}
}

// WeakObservableVec is the non-owning counterpart of *ObservableVec[T]
// (spec.md §4.J applies to every reactive primitive, not just Var[T]).
type WeakObservableVec[T any] struct {
	ptr    weak.Pointer[ObservableVec[T]]
	counts *refCounts
	token  *weakToken
}

func (w WeakObservableVec[T]) Upgrade() (*ObservableVec[T], bool) {
	p := w.ptr.Value()
	return p, p != nil
}

func (w WeakObservableVec[T]) WeakCount() int64 {
	if w.counts == nil {
		return 0
	}
	return w.counts.weak.Load()
}

// Downgrade returns a non-owning reference to the vector.
func (v *ObservableVec[T]) Downgrade() WeakObservableVec[T] {
	v.counts.weak.Add(1)
	tok := &weakToken{}
	runtime.AddCleanup(tok, decrementWeak, v.counts)
	return WeakObservableVec[T]{ptr: weak.Make(v), counts: v.counts, token: tok}
}

func collapseVecChanges(changes []VecChange) []VecChange {
	sawInsert := false
	sawOther := false
	for i, c := range changes {
		if c.Kind == VecInsert {
			if i > 0 && changes[i-1].Kind == VecInsert && c.Index != changes[i-1].Index+1 {
				return []VecChange{{Kind: VecClear}}
			}
			sawInsert = true
		} else {
			sawOther = true
		}
	}
	if sawInsert && sawOther {
		return []VecChange{{Kind: VecClear}}
	}
	return changes
}
