package vars

// Var is the external interface every reactive variable kind implements:
// the primitive Cell, and every derived variable (Map, FilterMap, FlatMap,
// Merge, When, Contextualized) (spec.md §6 "external interfaces").
type Var[T any] interface {
	// With runs f against the current value without copying it out
	// (useful for large values); it still counts as a read for whatever
	// dependency tracking a caller layers on top.
	With(f func(value *T))
	// Get returns a copy of the current value.
	Get() T
	// Peek reads the value without participating in dependency tracking.
	Peek() T
	// Set replaces the value. Returns VarIsReadOnlyError if the variable
	// doesn't have CapModify.
	Set(v T) error
	// Modify runs f against a Mutate proxy at the next drain.
	Modify(f func(m *Mutate[T])) error
	// Update forces hooks to fire on the next drain even if the value
	// doesn't change.
	Update() error
	// Hook subscribes fn; it keeps firing until it returns false or the
	// returned Handle is unsubscribed (spec.md §4.B).
	Hook(fn HookFunc[T]) *Handle
	// HookAnimationStop registers a single-shot callback that fires the
	// next time no animation currently targets this variable (spec.md
	// §4.B, §4.G) — whether the animation ran to completion, was stopped
	// explicitly, or was superseded by a higher-importance write.
	HookAnimationStop(fn func()) *Handle
	// Downgrade returns a non-owning reference (spec.md §4.J).
	Downgrade() WeakVar[T]

	// Capabilities reports what this variable currently allows.
	Capabilities() Capability
	// LastUpdate is the UpdateId of the most recent commit that fired
	// hooks.
	LastUpdate() UpdateId
	// ModifyImportance is the precedence value of the most recent commit
	// (spec.md §4.A, §4.G).
	ModifyImportance() uint64
	// IsAnimating reports whether an animation is currently driving the
	// value: true from its first committed tick until the animation stops
	// or a plain write supersedes it.
	IsAnimating() bool
	// IsContextual reports whether reads resolve through a per-context
	// indirection (only Contextualized variables do).
	IsContextual() bool
	// ActualVar resolves one layer of indirection: for a Contextualized
	// variable it's the per-context variable currently in scope; for
	// everything else it's the receiver itself (spec.md §4.F).
	ActualVar() Var[T]

	// StrongCount/WeakCount expose the weak-reference bookkeeping
	// (spec.md §4.J); see WeakVar's doc comment for the Go-specific
	// caveats.
	StrongCount() int
	WeakCount() int64

	// AsAny erases the type parameter so heterogeneous variables can be
	// collected into a single slice (used by Merge).
	AsAny() AnyVar

	// App returns the scheduler this variable is bound to, so derived
	// variables can share their source's scheduler without it being
	// threaded through every constructor call.
	App() *App
}

// AnyVar is the type-erased counterpart of Var[T], used internally by
// Merge to hold inputs of differing element types.
type AnyVar interface {
	WithAny(f func(value any))
	GetAny() any
	HookAny(fn AnyHookFunc) *Handle
	Capabilities() Capability
	LastUpdate() UpdateId
	ModifyImportance() uint64
	IsAnimating() bool
}

type anyAdapter[T any] struct{ v Var[T] }

// AsAny wraps a concrete Var[T] as an AnyVar.
func AsAny[T any](v Var[T]) AnyVar { return anyAdapter[T]{v: v} }

func (a anyAdapter[T]) WithAny(f func(value any)) {
	a.v.With(func(t *T) { f(*t) })
}
func (a anyAdapter[T]) GetAny() any { return a.v.Get() }
func (a anyAdapter[T]) HookAny(fn AnyHookFunc) *Handle {
	return a.v.Hook(func(args *HookArgs[T]) bool {
		return fn(&AnyHookArgs{Value: *args.Value, Update: args.Update, Tags: args.Tags})
	})
}
func (a anyAdapter[T]) Capabilities() Capability     { return a.v.Capabilities() }
func (a anyAdapter[T]) LastUpdate() UpdateId         { return a.v.LastUpdate() }
func (a anyAdapter[T]) ModifyImportance() uint64     { return a.v.ModifyImportance() }
func (a anyAdapter[T]) IsAnimating() bool            { return a.v.IsAnimating() }

// varBase holds the bookkeeping shared by every concrete variable kind:
// identity, the value container, the hook list, and the weak-reference
// counters. It is embedded by value (not by pointer) in each concrete
// type, mirroring the teacher's signalBase-embedded-in-Signal/Memo
// pattern. Downgrade and StrongCount still need a per-type implementation
// because weak.Make needs the concrete outer pointer type; isAlive is
// installed by each constructor right after the outer struct is
// allocated.
type varBase[T any] struct {
	id      uint64
	app     *App
	val     value[T]
	hooks   hookList[T]
	counts  *refCounts
	isAlive func() bool
}

func newVarBase[T any](app *App, initial T, equal func(T, T) bool) varBase[T] {
	return varBase[T]{
		id:     nextID(),
		app:    app,
		val:    value[T]{v: initial, equal: equal},
		counts: &refCounts{},
	}
}

func (b *varBase[T]) With(f func(*T)) {
	b.val.mu.RLock()
	defer b.val.mu.RUnlock()
	f(&b.val.v)
}
func (b *varBase[T]) Get() T  { return b.val.get() }
func (b *varBase[T]) Peek() T { return b.val.get() }
func (b *varBase[T]) Hook(fn HookFunc[T]) *Handle { return b.hooks.push(fn) }
func (b *varBase[T]) HookAnimationStop(fn func()) *Handle {
	return b.val.hookAnimationStop(fn)
}
func (b *varBase[T]) LastUpdate() UpdateId {
	_, lu, _, _ := b.val.snapshot()
	return lu
}
func (b *varBase[T]) ModifyImportance() uint64 {
	_, _, imp, _ := b.val.snapshot()
	return imp
}
func (b *varBase[T]) IsAnimating() bool {
	_, _, _, animating := b.val.snapshot()
	return animating
}
func (b *varBase[T]) StrongCount() int {
	if b.isAlive != nil && b.isAlive() {
		return 1
	}
	return 0
}
func (b *varBase[T]) WeakCount() int64 { return b.counts.weak.Load() }
func (b *varBase[T]) App() *App        { return b.app }

// notifyCommit fires hooks after a commit that reported fired=true.
func (b *varBase[T]) notifyCommit(forced bool) {
	v := b.val.get()
	b.hooks.notify(&HookArgs[T]{Value: &v, Update: forced})
}
