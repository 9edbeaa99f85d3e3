package vars

import (
	"reflect"
	"testing"
)

func TestObservableVecPushAndGet(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[string](app)

	v.Push("a")
	v.Push("b")
	app.Drain()

	if got := v.Get(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Get() = %v, want [a b]", got)
	}
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", v.Len())
	}
}

func TestObservableVecSeededInitial(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app, 1, 2, 3)

	if got := v.Get(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("Get() = %v, want [1 2 3]", got)
	}
}

func TestObservableVecRemove(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app, 1, 2, 3)

	v.Remove(1)
	app.Drain()

	if got := v.Get(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("Get() = %v, want [1 3]", got)
	}
}

func TestObservableVecMove(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[string](app, "a", "b", "c")

	v.Move(0, 2)
	app.Drain()

	if got := v.Get(); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("Get() = %v, want [b c a]", got)
	}
}

func TestObservableVecClear(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app, 1, 2, 3)

	v.Clear()
	app.Drain()

	if got := v.Get(); len(got) != 0 {
		t.Fatalf("Get() = %v, want empty", got)
	}
}

func TestObservableVecChangeLogReportsPlainMutations(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app, 1, 2, 3)

	var log []VecChange
	v.HookChanges(func(args *HookArgs[[]VecChange]) bool {
		log = *args.Value
		return true
	})

	v.Remove(0)
	app.Drain()

	want := []VecChange{{Kind: VecRemove, Index: 0}}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("log = %+v, want %+v", log, want)
	}
}

func TestObservableVecChangeLogCollapsesWhenInsertMixesWithOtherKind(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app, 1, 2, 3)

	var log []VecChange
	v.HookChanges(func(args *HookArgs[[]VecChange]) bool {
		log = *args.Value
		return true
	})

	v.Insert(0, 99)
	v.Remove(2)
	app.Drain()

	want := []VecChange{{Kind: VecClear}}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("log = %+v, want %+v (insert mixed with another kind must collapse to Clear)", log, want)
	}

	// The real backing slice must still reflect both ops having applied,
	// even though the reported log collapsed.
	if got := v.Get(); !reflect.DeepEqual(got, []int{99, 1, 3}) {
		t.Fatalf("Get() = %v, want [99 1 3] (collapse only affects the reported log, not the actual state)", got)
	}
}

func TestObservableVecSnapshotHookFiresOnce(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app)

	fireCount := 0
	var lastSnapshot []int
	v.HookSnapshot(func(args *HookArgs[[]int]) bool {
		fireCount++
		lastSnapshot = *args.Value
		return true
	})

	v.Push(1)
	v.Push(2)
	v.Push(3)
	app.Drain()

	if fireCount != 1 {
		t.Fatalf("fireCount = %d, want 1 (multiple ops in one frame collapse into a single snapshot notification)", fireCount)
	}
	if !reflect.DeepEqual(lastSnapshot, []int{1, 2, 3}) {
		t.Fatalf("lastSnapshot = %v, want [1 2 3]", lastSnapshot)
	}
}

func TestObservableVecDowngradeUpgrade(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app, 1)

	weakRef := v.Downgrade()
	got, ok := weakRef.Upgrade()
	if !ok || got != v {
		t.Fatalf("Upgrade() = (%v, %v), want (%v, true)", got, ok, v)
	}
}
