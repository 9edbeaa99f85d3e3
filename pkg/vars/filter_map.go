package vars

// filterMapVar is the output of FilterMap (spec.md §4.E "filter_map"): a
// derived variable that only updates when the mapping function accepts
// the source value, holding its last accepted value otherwise.
type filterMapVar[I, O any] struct {
	varBase[O]
	source Var[I]
	f      func(I) (O, bool)
}

// FilterMap derives a variable that skips source commits whose mapped
// value is rejected (second return false), instead keeping whatever it
// last held. fallback seeds the initial value when the very first source
// value is itself rejected.
func FilterMap[I, O any](source Var[I], f func(I) (O, bool), fallback func() O) Var[O] {
	initial, ok := f(source.Get())
	if !ok {
		initial = fallback()
	}

	fm := &filterMapVar[I, O]{
		varBase: newVarBase[O](source.App(), initial, nil),
		source:  source,
		f:       f,
	}
	fm.isAlive = selfLiveness(fm)

	hook := source.Hook(func(args *HookArgs[I]) bool {
		fm.recompute(*args.Value, args.Update)
		return true
	})
	hook.Perm()

	return fm
}

func (fm *filterMapVar[I, O]) recompute(sourceVal I, forcedUpdate bool) {
	out, ok := fm.f(sourceVal)
	if !ok {
		return
	}
	importance := nextImportance()
	app := fm.app
	app.schedule(func() {
		fired, forced := fm.val.commit(importance, false, app.UpdateID(), func(mut *Mutate[O]) {
			mut.Set(out)
			if forcedUpdate {
				mut.RequestUpdate()
			}
		})
		if fired {
			fm.notifyCommit(forced)
		}
	})
}

func (fm *filterMapVar[I, O]) Capabilities() Capability { return CapNew }
func (fm *filterMapVar[I, O]) IsContextual() bool       { return false }
func (fm *filterMapVar[I, O]) ActualVar() Var[O]        { return fm }
func (fm *filterMapVar[I, O]) AsAny() AnyVar            { return AsAny[O](fm) }

func (fm *filterMapVar[I, O]) Downgrade() WeakVar[O] {
	return newWeakVar[filterMapVar[I, O], O](fm, fm.counts, func(p *filterMapVar[I, O]) Var[O] { return p })
}

func (fm *filterMapVar[I, O]) Modify(f func(mut *Mutate[O])) error {
	return &VarIsReadOnlyError{Capabilities: fm.Capabilities()}
}
func (fm *filterMapVar[I, O]) Set(v O) error { return fm.Modify(nil) }
func (fm *filterMapVar[I, O]) Update() error { return fm.Modify(nil) }
