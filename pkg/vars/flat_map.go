package vars

import "sync"

// flatMapVar is the output of FlatMap (spec.md §4.E "flat_map"): selector
// picks an inner variable from the source's current value, and the
// derived variable mirrors whichever inner variable is currently selected,
// resubscribing every time source fires.
type flatMapVar[I, O any] struct {
	varBase[O]
	source   Var[I]
	selector func(I) Var[O]

	innerMu   sync.Mutex
	inner     Var[O]
	innerHook *Handle
}

// FlatMap derives a variable that follows selector(source.Get()), and
// switches to following a new inner variable whenever source fires.
func FlatMap[I, O any](source Var[I], selector func(I) Var[O]) Var[O] {
	fm := &flatMapVar[I, O]{
		source:   source,
		selector: selector,
	}
	initial := selector(source.Get())
	fm.varBase = newVarBase[O](source.App(), initial.Get(), nil)
	fm.isAlive = selfLiveness(fm)
	fm.attachInner(initial)

	hook := source.Hook(func(args *HookArgs[I]) bool {
		fm.switchInner(fm.selector(*args.Value))
		return true
	})
	hook.Perm()

	return fm
}

// attachInner subscribes to inner without recomputing fm's own value
// (used only at construction, where the initial value was already seeded).
func (fm *flatMapVar[I, O]) attachInner(inner Var[O]) {
	fm.innerMu.Lock()
	defer fm.innerMu.Unlock()
	fm.inner = inner
	fm.innerHook = inner.Hook(func(args *HookArgs[O]) bool {
		fm.forward(*args.Value, args.Update)
		return true
	})
	fm.innerHook.Perm()
}

// switchInner drops the old inner subscription, adopts next, and
// immediately mirrors its current value (the inner variable may already
// differ from whatever fm last held).
func (fm *flatMapVar[I, O]) switchInner(next Var[O]) {
	fm.innerMu.Lock()
	if fm.innerHook != nil {
		fm.innerHook.Unsubscribe()
	}
	fm.inner = next
	fm.innerHook = next.Hook(func(args *HookArgs[O]) bool {
		fm.forward(*args.Value, args.Update)
		return true
	})
	fm.innerHook.Perm()
	fm.innerMu.Unlock()

	fm.forward(next.Get(), true)
}

func (fm *flatMapVar[I, O]) forward(v O, forcedUpdate bool) {
	importance := nextImportance()
	app := fm.app
	app.schedule(func() {
		fired, forced := fm.val.commit(importance, false, app.UpdateID(), func(mut *Mutate[O]) {
			mut.Set(v)
			if forcedUpdate {
				mut.RequestUpdate()
			}
		})
		if fired {
			fm.notifyCommit(forced)
		}
	})
}

func (fm *flatMapVar[I, O]) Capabilities() Capability { return CapNew }
func (fm *flatMapVar[I, O]) IsContextual() bool       { return false }
func (fm *flatMapVar[I, O]) ActualVar() Var[O]        { return fm }
func (fm *flatMapVar[I, O]) AsAny() AnyVar            { return AsAny[O](fm) }

func (fm *flatMapVar[I, O]) Downgrade() WeakVar[O] {
	return newWeakVar[flatMapVar[I, O], O](fm, fm.counts, func(p *flatMapVar[I, O]) Var[O] { return p })
}

func (fm *flatMapVar[I, O]) Modify(f func(mut *Mutate[O])) error {
	return &VarIsReadOnlyError{Capabilities: fm.Capabilities()}
}
func (fm *flatMapVar[I, O]) Set(v O) error { return fm.Modify(nil) }
func (fm *flatMapVar[I, O]) Update() error { return fm.Modify(nil) }
