package vars

import "sync"

// mergeVar is the output of Merge and MergeBuilder (spec.md §4.E "merge",
// supplemented per original_source/crates/zng-var/src/merge.rs with
// builder-style incremental construction). Inputs are type-erased so
// Merge can combine variables of differing element types into one output.
type mergeVar[O any] struct {
	varBase[O]
	inputs  []AnyVar
	combine func([]any) O

	mu         sync.Mutex
	pending    bool
	pendingFor ApplyUpdateId
}

// Merge derives a variable from N heterogeneous inputs: whenever any input
// fires, combine is called with every input's current value (in input
// order) to produce the new output. Multiple inputs firing within the same
// drain only trigger one recomputation (spec.md §4.E), deduped by
// apply_update_id.
func Merge[O any](combine func(values []any) O, inputs ...AnyVar) Var[O] {
	if len(inputs) == 0 {
		panic("vars: Merge requires at least one input")
	}
	mv := &mergeVar[O]{inputs: inputs, combine: combine}
	a := mergeApp(inputs[0])
	mv.varBase = newVarBase[O](a, combine(mergeSnapshot(inputs)), nil)
	mv.isAlive = selfLiveness(mv)
	mv.wireInputs()
	return mv
}

// mergeApp recovers the scheduler an AnyVar is bound to. AnyVar doesn't
// expose App() directly (it erases everything not needed by Merge/When),
// so this goes through a private interface the anyAdapter also satisfies.
type hasApp interface{ appOf() *App }

func mergeApp(v AnyVar) *App {
	if a, ok := v.(hasApp); ok {
		return a.appOf()
	}
	return Vars
}

func (a anyAdapter[T]) appOf() *App { return a.v.App() }

func mergeSnapshot(inputs []AnyVar) []any {
	vals := make([]any, len(inputs))
	for i, in := range inputs {
		vals[i] = in.GetAny()
	}
	return vals
}

func (mv *mergeVar[O]) wireInputs() {
	for _, in := range mv.inputs {
		hook := in.HookAny(func(args *AnyHookArgs) bool {
			mv.onInputFired()
			return true
		})
		hook.Perm()
	}
}

func (mv *mergeVar[O]) onInputFired() {
	curApply := mv.app.ApplyUpdateID()
	mv.mu.Lock()
	if mv.pending && mv.pendingFor == curApply {
		mv.mu.Unlock()
		return
	}
	mv.pending = true
	mv.pendingFor = curApply
	mv.mu.Unlock()

	importance := nextImportance()
	app := mv.app
	app.schedule(func() {
		mv.mu.Lock()
		mv.pending = false
		mv.mu.Unlock()

		out := mv.combine(mergeSnapshot(mv.inputs))
		fired, forced := mv.val.commit(importance, false, app.UpdateID(), func(mut *Mutate[O]) {
			mut.Set(out)
		})
		if fired {
			mv.notifyCommit(forced)
		}
	})
}

func (mv *mergeVar[O]) Capabilities() Capability { return CapNew }
func (mv *mergeVar[O]) IsContextual() bool        { return false }
func (mv *mergeVar[O]) ActualVar() Var[O]         { return mv }
func (mv *mergeVar[O]) AsAny() AnyVar             { return AsAny[O](mv) }

func (mv *mergeVar[O]) Downgrade() WeakVar[O] {
	return newWeakVar[mergeVar[O], O](mv, mv.counts, func(p *mergeVar[O]) Var[O] { return p })
}

func (mv *mergeVar[O]) Modify(f func(mut *Mutate[O])) error {
	return &VarIsReadOnlyError{Capabilities: mv.Capabilities()}
}
func (mv *mergeVar[O]) Set(v O) error { return mv.Modify(nil) }
func (mv *mergeVar[O]) Update() error { return mv.Modify(nil) }

// MergeBuilder mirrors MergeVarBuilder/ArcMergeVarInput from
// original_source/crates/zng-var/src/merge.rs: incremental construction
// for call sites that assemble their input list in a loop rather than as
// a fixed-arity call.
type MergeBuilder[O any] struct {
	inputs []AnyVar
}

// NewMergeBuilder starts an empty builder.
func NewMergeBuilder[O any]() *MergeBuilder[O] { return &MergeBuilder[O]{} }

// Push appends one more input variable.
func (b *MergeBuilder[O]) Push(v AnyVar) *MergeBuilder[O] {
	b.inputs = append(b.inputs, v)
	return b
}

// Len reports how many inputs have been pushed so far.
func (b *MergeBuilder[O]) Len() int { return len(b.inputs) }

// Build finalizes the builder into a Merge variable using combine.
func (b *MergeBuilder[O]) Build(combine func(values []any) O) Var[O] {
	return Merge(combine, b.inputs...)
}

// Merge2 is a typed convenience over Merge for the common two-input case.
func Merge2[A, B, O any](a Var[A], b Var[B], combine func(A, B) O) Var[O] {
	return Merge(func(values []any) O {
		return combine(values[0].(A), values[1].(B))
	}, AsAny(a), AsAny(b))
}

// Merge3 is a typed convenience over Merge for the three-input case.
func Merge3[A, B, C, O any](a Var[A], b Var[B], c Var[C], combine func(A, B, C) O) Var[O] {
	return Merge(func(values []any) O {
		return combine(values[0].(A), values[1].(B), values[2].(C))
	}, AsAny(a), AsAny(b), AsAny(c))
}
