package vars

import "testing"

func TestDrainConvergesADiamondDependencyInOnePass(t *testing.T) {
	app := NewApp()
	root := NewCell(app, 1)
	left := Map(Var[int](root), func(n int) int { return n * 2 })
	right := Map(Var[int](root), func(n int) int { return n * 3 })
	sum := Merge2(left, right, func(l, r int) int { return l + r })

	if got := sum.Get(); got != 5 {
		t.Fatalf("initial sum.Get() = %d, want 5", got)
	}

	root.Set(10)
	app.Drain()

	if got := sum.Get(); got != 50 {
		t.Fatalf("sum.Get() after root.Set(10) = %d, want 50 (one Drain must fully converge the diamond)", got)
	}
}

func TestApplyUpdateIDAdvancesOncePerDrain(t *testing.T) {
	app := NewApp()
	before := app.ApplyUpdateID()

	c := NewCell(app, 1)
	c.Set(2)
	app.Drain()

	if got := app.ApplyUpdateID(); got != before+1 {
		t.Fatalf("ApplyUpdateID() = %d, want %d", got, before+1)
	}
}

func TestUpdateIDAdvancesEveryDrainEvenWithoutWrites(t *testing.T) {
	app := NewApp()
	before := app.UpdateID()

	app.Drain()
	app.Drain()

	if got := app.UpdateID(); got != before+2 {
		t.Fatalf("UpdateID() = %d, want %d", got, before+2)
	}
}

func TestWaitIdleReturnsOnceQueueAndAnimationsAreEmpty(t *testing.T) {
	app := NewApp()
	c := NewCell(app, 1)
	c.Set(2)

	app.WaitIdle(10)

	if got := c.Get(); got != 2 {
		t.Fatalf("c.Get() = %d, want 2 after WaitIdle", got)
	}
}

func TestMultipleWritesToSameCellInOneDrainEachCommitInOrder(t *testing.T) {
	app := NewApp()
	c := NewCell(app, 0)

	fireCount := 0
	c.Hook(func(args *HookArgs[int]) bool {
		fireCount++
		return true
	})

	c.Set(1)
	c.Set(2)
	c.Set(3)
	app.Drain()

	if got := c.Get(); got != 3 {
		t.Fatalf("c.Get() = %d, want 3 (last write in the frame wins)", got)
	}
	if fireCount != 3 {
		t.Fatalf("fireCount = %d, want 3 (each queued Modify commits and fires independently, in order)", fireCount)
	}
}
