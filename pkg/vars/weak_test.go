package vars

import "testing"

func TestWeakVarUpgradeWhileStrongRefLive(t *testing.T) {
	app := NewApp()
	c := NewCell(app, 1)

	w := c.Downgrade()
	got, ok := w.Upgrade()
	if !ok {
		t.Fatalf("Upgrade() ok = false while the cell is still reachable")
	}
	if got.Get() != 1 {
		t.Fatalf("Upgrade().Get() = %d, want 1", got.Get())
	}
	if w.StrongCount() != 1 {
		t.Fatalf("StrongCount() = %d, want 1", w.StrongCount())
	}

	// c must stay reachable at least this far so the GC can't collect it
	// out from under the assertions above.
	_ = c
}

func TestWeakVarWeakCountTracksOutstandingDowngrades(t *testing.T) {
	app := NewApp()
	c := NewCell(app, 1)

	w1 := c.Downgrade()
	if got := w1.WeakCount(); got != 1 {
		t.Fatalf("WeakCount() after first Downgrade = %d, want 1", got)
	}

	w2 := c.Downgrade()
	if got := w2.WeakCount(); got != 2 {
		t.Fatalf("WeakCount() after second Downgrade = %d, want 2", got)
	}
	if got := w1.WeakCount(); got != 2 {
		t.Fatalf("w1.WeakCount() = %d, want 2 (both weak refs share the same counter block)", got)
	}
}

func TestWeakVarZeroValueUpgradeFails(t *testing.T) {
	var w WeakVar[int]
	if _, ok := w.Upgrade(); ok {
		t.Fatalf("Upgrade() on the zero value WeakVar must report ok=false")
	}
	if w.WeakCount() != 0 {
		t.Fatalf("WeakCount() on the zero value WeakVar = %d, want 0", w.WeakCount())
	}
}

func TestWeakObservableVecUpgrade(t *testing.T) {
	app := NewApp()
	v := NewObservableVec[int](app, 1, 2)

	w := v.Downgrade()
	if got := w.WeakCount(); got != 1 {
		t.Fatalf("WeakCount() = %d, want 1", got)
	}

	got, ok := w.Upgrade()
	if !ok || got != v {
		t.Fatalf("Upgrade() = (%v, %v), want (%v, true)", got, ok, v)
	}
}
