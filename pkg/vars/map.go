package vars

// mapVar is the output of Map and MapBidi (spec.md §4.E "map"). It holds
// its own value storage (varBase) plus a permanent hook on its source that
// recomputes on every source commit.
type mapVar[I, O any] struct {
	varBase[O]
	source  Var[I]
	f       func(I) O
	setBack func(O) I // nil for a one-way Map
}

// Map derives a read-only variable from source by applying f whenever
// source fires (spec.md §4.E). The derived variable recomputes eagerly at
// construction so Get() never observes a stale value.
func Map[I, O any](source Var[I], f func(I) O) Var[O] {
	return newMapVar(source, f, nil)
}

// MapBidi derives a two-way variable: reads go through f, writes go
// through back and are forwarded to source (spec.md §4.E "map_bidi").
// Capabilities mirror source's CapModify bit.
func MapBidi[I, O any](source Var[I], f func(I) O, back func(O) I) Var[O] {
	return newMapVar(source, f, back)
}

func newMapVar[I, O any](source Var[I], f func(I) O, back func(O) I) *mapVar[I, O] {
	m := &mapVar[I, O]{
		varBase: newVarBase[O](source.App(), f(source.Get()), nil),
		source:  source,
		f:       f,
		setBack: back,
	}
	m.isAlive = selfLiveness(m)

	hook := source.Hook(func(args *HookArgs[I]) bool {
		m.recompute(*args.Value, args.Update)
		return true
	})
	hook.Perm()

	return m
}

func (m *mapVar[I, O]) recompute(sourceVal I, forcedUpdate bool) {
	importance := nextImportance()
	app := m.app
	app.schedule(func() {
		fired, forced := m.val.commit(importance, false, app.UpdateID(), func(mut *Mutate[O]) {
			mut.Set(m.f(sourceVal))
			if forcedUpdate {
				mut.RequestUpdate()
			}
		})
		if fired {
			m.notifyCommit(forced)
		}
	})
}

func (m *mapVar[I, O]) Capabilities() Capability {
	caps := CapNew
	if m.setBack != nil && m.source.Capabilities().Has(CapModify) {
		caps |= CapModify
	}
	return caps
}
func (m *mapVar[I, O]) IsContextual() bool { return false }
func (m *mapVar[I, O]) ActualVar() Var[O]  { return m }
func (m *mapVar[I, O]) AsAny() AnyVar      { return AsAny[O](m) }

func (m *mapVar[I, O]) Downgrade() WeakVar[O] {
	return newWeakVar[mapVar[I, O], O](m, m.counts, func(p *mapVar[I, O]) Var[O] { return p })
}

func (m *mapVar[I, O]) Modify(f func(mut *Mutate[O])) error {
	if m.setBack == nil {
		return &VarIsReadOnlyError{Capabilities: m.Capabilities()}
	}
	// A modify against a bidi map reads the current derived value, applies
	// f to get the new derived value, maps it back, and writes the source.
	cur := m.val.get()
	mut := &Mutate[O]{value: &cur}
	f(mut)
	if !mut.touched && !mut.updateRequested {
		return nil
	}
	back := m.setBack(cur)
	forced := mut.updateRequested
	return m.source.Modify(func(sm *Mutate[I]) {
		sm.Set(back)
		if forced {
			sm.RequestUpdate()
		}
	})
}

func (m *mapVar[I, O]) Set(v O) error {
	return m.Modify(func(mut *Mutate[O]) { mut.Set(v) })
}

func (m *mapVar[I, O]) Update() error {
	return m.Modify(func(mut *Mutate[O]) { mut.RequestUpdate() })
}
