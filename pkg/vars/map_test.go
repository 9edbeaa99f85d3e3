package vars

import "testing"

func TestMapRecomputesOnSourceChange(t *testing.T) {
	app := NewApp()
	src := NewCell(app, 2)
	doubled := Map(Var[int](src), func(n int) int { return n * 2 })

	if got := doubled.Get(); got != 4 {
		t.Fatalf("initial doubled.Get() = %d, want 4", got)
	}

	src.Set(5)
	app.Drain()

	if got := doubled.Get(); got != 10 {
		t.Fatalf("doubled.Get() after source change = %d, want 10", got)
	}
}

func TestMapIsReadOnly(t *testing.T) {
	app := NewApp()
	src := NewCell(app, 1)
	derived := Map(Var[int](src), func(n int) int { return n + 1 })

	if derived.Capabilities().Has(CapModify) {
		t.Fatalf("Map output must not have CapModify")
	}
	if !derived.Capabilities().Has(CapNew) {
		t.Fatalf("Map output must have CapNew (it recomputes whenever its source fires)")
	}
	if err := derived.Set(100); err == nil {
		t.Fatalf("Set on a Map output should return VarIsReadOnlyError")
	}
}

func TestMapBidiForwardsWritesToSource(t *testing.T) {
	app := NewApp()
	celsius := NewCell(app, 0.0)
	fahrenheit := MapBidi(Var[float64](celsius),
		func(c float64) float64 { return c*9/5 + 32 },
		func(f float64) float64 { return (f - 32) * 5 / 9 },
	)

	if got := fahrenheit.Get(); got != 32 {
		t.Fatalf("fahrenheit.Get() = %v, want 32", got)
	}

	fahrenheit.Set(212)
	app.Drain()

	if got := celsius.Get(); got != 100 {
		t.Fatalf("celsius.Get() after fahrenheit.Set(212) = %v, want 100", got)
	}
	if caps := fahrenheit.Capabilities(); !caps.Has(CapModify) || !caps.Has(CapNew) {
		t.Fatalf("MapBidi.Capabilities() = %s, want both CapModify and CapNew", caps)
	}
}

func TestFilterMapSkipsRejectedValues(t *testing.T) {
	app := NewApp()
	src := NewCell(app, -1)
	positives := FilterMap(Var[int](src),
		func(n int) (int, bool) { return n, n > 0 },
		func() int { return 0 },
	)

	if got := positives.Get(); got != 0 {
		t.Fatalf("initial positives.Get() = %d, want 0 (fallback, since -1 is rejected)", got)
	}

	src.Set(-5) // still rejected
	app.Drain()
	if got := positives.Get(); got != 0 {
		t.Fatalf("positives.Get() = %d, want 0 (rejected update must not change value)", got)
	}

	src.Set(7) // accepted
	app.Drain()
	if got := positives.Get(); got != 7 {
		t.Fatalf("positives.Get() = %d, want 7", got)
	}
	if !positives.Capabilities().Has(CapNew) {
		t.Fatalf("FilterMap output must have CapNew (it may still produce new values)")
	}
}

func TestFlatMapFollowsSelectedInner(t *testing.T) {
	app := NewApp()
	a := NewCell(app, "a")
	b := NewCell(app, "b")
	useB := NewCell(app, false)

	flat := FlatMap(Var[bool](useB), func(pick bool) Var[string] {
		if pick {
			return Var[string](b)
		}
		return Var[string](a)
	})

	if got := flat.Get(); got != "a" {
		t.Fatalf("flat.Get() = %q, want %q", got, "a")
	}

	a.Set("a2")
	app.Drain()
	if got := flat.Get(); got != "a2" {
		t.Fatalf("flat.Get() = %q, want %q (should still follow a)", got, "a2")
	}

	useB.Set(true)
	app.Drain()
	if got := flat.Get(); got != "b" {
		t.Fatalf("flat.Get() = %q, want %q (should now follow b)", got, "b")
	}

	a.Set("a3") // no longer followed
	app.Drain()
	if got := flat.Get(); got != "b" {
		t.Fatalf("flat.Get() = %q, want %q (should ignore a after switching to b)", got, "b")
	}

	b.Set("b2")
	app.Drain()
	if got := flat.Get(); got != "b2" {
		t.Fatalf("flat.Get() = %q, want %q", got, "b2")
	}
	if !flat.Capabilities().Has(CapNew) {
		t.Fatalf("FlatMap output must have CapNew")
	}
}
