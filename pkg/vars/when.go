package vars

import (
	"sync"
	"sync/atomic"
)

// WhenArm pairs a boolean condition with the variable whose value should
// be used while that condition holds (spec.md §4.E "when", supplemented
// per original_source/crates/zng-var/src/var_impl/when.rs). Arms are
// priority-ordered: the first arm (lowest index) whose condition is true
// wins, matching CSS-style first-match-wins cascading.
type WhenArm[T any] struct {
	Condition Var[bool]
	Value     Var[T]
}

// whenVar is the output of When. Every condition and value variable gets a
// permanent hook installed at construction, mirroring var_when's hand-
// rolled per-input hook chain rather than re-deriving subscriptions on
// every recomputation.
type whenVar[T any] struct {
	varBase[T]
	arms       []WhenArm[T]
	defaultVar Var[T]

	mu     sync.Mutex
	active atomic.Int64 // index into arms, or len(arms) meaning "default active"

	pending    bool
	pendingFor ApplyUpdateId
}

// When derives a variable that tracks whichever arm's condition is
// currently true (first match wins), falling back to defaultVar when none
// are. Capabilities change over the variable's lifetime to mirror whatever
// arm (or the default) is currently active (spec.md §4.E, CapCapsChange).
func When[T any](defaultVar Var[T], arms ...WhenArm[T]) Var[T] {
	wv := &whenVar[T]{arms: arms, defaultVar: defaultVar}

	initialActive := wv.firstTrue()
	wv.active.Store(int64(initialActive))
	wv.varBase = newVarBase[T](defaultVar.App(), wv.currentSourceValue(initialActive), nil)
	wv.isAlive = selfLiveness(wv)

	for i, arm := range arms {
		idx := i
		condHook := arm.Condition.Hook(func(args *HookArgs[bool]) bool {
			wv.onConditionFired(idx, *args.Value)
			return true
		})
		condHook.Perm()

		valHook := arm.Value.Hook(func(args *HookArgs[T]) bool {
			wv.onSourceFired(idx, args.Update)
			return true
		})
		valHook.Perm()
	}

	defHook := defaultVar.Hook(func(args *HookArgs[T]) bool {
		wv.onSourceFired(len(arms), args.Update)
		return true
	})
	defHook.Perm()

	return wv
}

// firstTrue scans conditions in priority order. It takes no lock of its
// own; it is used at construction and from onConditionFired while wv.mu is
// held.
func (wv *whenVar[T]) firstTrue() int {
	for i, arm := range wv.arms {
		if arm.Condition.Get() {
			return i
		}
	}
	return len(wv.arms)
}

func (wv *whenVar[T]) currentSourceValue(active int) T {
	if active < len(wv.arms) {
		return wv.arms[active].Value.Get()
	}
	return wv.defaultVar.Get()
}

// onConditionFired implements the promote/demote rule: if the arm that
// just went false was the active one, recompute from scratch (first true
// wins); if a higher-priority arm (lower index) than the current active
// one just became true, promote it immediately.
func (wv *whenVar[T]) onConditionFired(idx int, becameTrue bool) {
	wv.mu.Lock()
	cur := int(wv.active.Load())
	changed := false
	if cur == idx && !becameTrue {
		next := wv.firstTrue()
		if next != cur {
			wv.active.Store(int64(next))
			changed = true
		}
	} else if cur > idx && becameTrue {
		wv.active.Store(int64(idx))
		changed = true
	}
	wv.mu.Unlock()

	if changed {
		wv.scheduleRecompute(true)
	}
}

// onSourceFired forwards a value/default commit only while that source is
// the active one.
func (wv *whenVar[T]) onSourceFired(idx int, forcedUpdate bool) {
	if int(wv.active.Load()) != idx {
		return
	}
	wv.scheduleRecompute(forcedUpdate)
}

func (wv *whenVar[T]) scheduleRecompute(forcedUpdate bool) {
	curApply := wv.app.ApplyUpdateID()
	wv.mu.Lock()
	if wv.pending && wv.pendingFor == curApply {
		wv.mu.Unlock()
		return
	}
	wv.pending = true
	wv.pendingFor = curApply
	wv.mu.Unlock()

	importance := nextImportance()
	app := wv.app
	app.schedule(func() {
		wv.mu.Lock()
		wv.pending = false
		active := int(wv.active.Load())
		wv.mu.Unlock()

		out := wv.currentSourceValue(active)
		fired, forced := wv.val.commit(importance, false, app.UpdateID(), func(mut *Mutate[T]) {
			mut.Set(out)
			if forcedUpdate {
				mut.RequestUpdate()
			}
		})
		if fired {
			wv.notifyCommit(forced)
		}
	})
}

func (wv *whenVar[T]) Capabilities() Capability {
	active := int(wv.active.Load())
	var activeVar Var[T]
	if active < len(wv.arms) {
		activeVar = wv.arms[active].Value
	} else {
		activeVar = wv.defaultVar
	}
	return activeVar.Capabilities() | CapCapsChange
}

func (wv *whenVar[T]) IsContextual() bool { return false }
func (wv *whenVar[T]) ActualVar() Var[T]  { return wv }
func (wv *whenVar[T]) AsAny() AnyVar      { return AsAny[T](wv) }

func (wv *whenVar[T]) Downgrade() WeakVar[T] {
	return newWeakVar[whenVar[T], T](wv, wv.counts, func(p *whenVar[T]) Var[T] { return p })
}

// Modify forwards to whichever arm (or default) is currently active, the
// same way MapBidi forwards writes to its source.
func (wv *whenVar[T]) Modify(f func(mut *Mutate[T])) error {
	if !wv.Capabilities().Has(CapModify) {
		return &VarIsReadOnlyError{Capabilities: wv.Capabilities()}
	}
	active := int(wv.active.Load())
	var target Var[T]
	if active < len(wv.arms) {
		target = wv.arms[active].Value
	} else {
		target = wv.defaultVar
	}
	return target.Modify(f)
}

func (wv *whenVar[T]) Set(v T) error {
	return wv.Modify(func(mut *Mutate[T]) { mut.Set(v) })
}
func (wv *whenVar[T]) Update() error {
	return wv.Modify(func(mut *Mutate[T]) { mut.RequestUpdate() })
}
