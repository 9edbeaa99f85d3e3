package vars

import (
	"reflect"
	"sync"
)

// Mutate is the proxy a Modify closure receives (spec.md §4.A). Set
// replaces the value and marks it touched; ToMut hands out a pointer for
// in-place edits to large values; RequestUpdate forces hooks to fire even
// if the value compares equal to what it replaced.
type Mutate[T any] struct {
	value           *T
	touched         bool
	updateRequested bool
}

// Get reads the value as it stands so far in this Modify call.
func (m *Mutate[T]) Get() T { return *m.value }

// Set replaces the value.
func (m *Mutate[T]) Set(v T) {
	*m.value = v
	m.touched = true
}

// ToMut returns a pointer for in-place mutation (e.g. appending to a
// slice). Any use of the returned pointer is assumed to touch the value.
func (m *Mutate[T]) ToMut() *T {
	m.touched = true
	return m.value
}

// RequestUpdate forces hooks to fire on commit even without a value change.
func (m *Mutate[T]) RequestUpdate() { m.updateRequested = true }

// defaultEquals mirrors the teacher's defaultEquals: a fast path for the
// common scalar kinds, falling back to reflect.DeepEqual for everything
// else (spec.md §4.A "equality check, overridable").
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case int32:
		return av == any(b).(int32)
	case float64:
		return av == any(b).(float64)
	case float32:
		return av == any(b).(float32)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	case uint:
		return av == any(b).(uint)
	case uint64:
		return av == any(b).(uint64)
	}
	return reflect.DeepEqual(a, b)
}

// value is the container behind every variable kind (spec.md §4.A): the
// current value, an equality check, and the bookkeeping needed for the
// modify-importance write-precedence rule shared by user writes and
// animations (spec.md §4.A, §4.G).
type value[T any] struct {
	mu               sync.RWMutex
	v                T
	equal            func(T, T) bool
	lastUpdate       UpdateId
	modifyImportance uint64
	animating        bool
	animCancel       func()
	stopHooks        hookList[struct{}]
}

func (v *value[T]) get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

func (v *value[T]) eq(a, b T) bool {
	if v.equal != nil {
		return v.equal(a, b)
	}
	return defaultEquals(a, b)
}

func (v *value[T]) snapshot() (val T, lastUpdate UpdateId, importance uint64, animating bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v, v.lastUpdate, v.modifyImportance, v.animating
}

// commit applies mutate under lock, honoring the modify-importance
// precedence rule: a write whose importance is lower than the value's
// current importance is dropped outright (an animation tick arriving after
// a user write in the same frame never clobbers it). Returns whether hooks
// should fire and whether the firing was a forced update() rather than a
// plain value change.
//
// A commit that fires with animating=false while the value was animating
// means a higher-importance write just superseded whatever animation was
// targeting it (spec.md §4.G "a write during an animation stops it"); the
// animation's own cancel closure, stashed by setAnimCancel when the
// animation started, is invoked outside the lock so it can tear down the
// Animation and fire the stop hooks via animationFinished.
func (v *value[T]) commit(importance uint64, animating bool, updateID UpdateId, mutate func(m *Mutate[T])) (fired bool, wasForced bool) {
	v.mu.Lock()

	if importance < v.modifyImportance {
		v.mu.Unlock()
		return false, false
	}

	old := v.v
	m := &Mutate[T]{value: &v.v}
	completed := false
	defer func() {
		if !completed {
			v.v = old
			v.mu.Unlock()
		}
	}()
	mutate(m)
	completed = true

	changed := m.touched && !v.eq(old, v.v)
	fired = m.updateRequested || changed

	var cancel func()
	if fired {
		v.modifyImportance = importance
		if v.animating && !animating {
			cancel = v.animCancel
			v.animCancel = nil
		}
		v.animating = animating
		v.lastUpdate = updateID
	}
	v.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	return fired, m.updateRequested
}

// setAnimCancel stashes the closure that tears down whatever Animation is
// currently driving this value, so a superseding write (see commit above)
// can stop it instead of leaving it ticking uselessly against a value it no
// longer controls.
func (v *value[T]) setAnimCancel(cancel func()) {
	v.mu.Lock()
	v.animCancel = cancel
	v.mu.Unlock()
}

// animationFinished marks the value no longer animating and fires every
// registered stop hook exactly once (spec.md §4.G "single-shot hooks that
// fire when no animation currently targets the variable"). It is the single
// path stop hooks fire through, whether the animation ran to completion,
// called AnimationArgs.Stop(), had its handle stopped externally, or was
// cancelled by commit above because a user write already flipped animating
// to false. The Animation's own sync.Once (fireOnStop) guarantees this runs
// at most once per animation, so there's no need to re-check v.animating
// here — by the supersede path it's already false by the time this runs.
func (v *value[T]) animationFinished() {
	v.mu.Lock()
	v.animating = false
	v.animCancel = nil
	v.mu.Unlock()

	v.stopHooks.notify(&HookArgs[struct{}]{Value: new(struct{}), Update: true})
}

// hookAnimationStop registers a single-shot callback that fires the next
// time no animation is targeting this value (spec.md §4.G). It auto-prunes
// after firing once, matching the "single-shot" contract rather than the
// keep-firing contract of a regular Hook.
func (v *value[T]) hookAnimationStop(fn func()) *Handle {
	return v.stopHooks.push(func(args *HookArgs[struct{}]) bool {
		fn()
		return false
	})
}
