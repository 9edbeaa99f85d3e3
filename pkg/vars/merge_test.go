package vars

import "testing"

func TestMerge2CombinesBothInputs(t *testing.T) {
	app := NewApp()
	first := NewCell(app, "Ada")
	last := NewCell(app, "Lovelace")

	full := Merge2(Var[string](first), Var[string](last), func(f, l string) string {
		return f + " " + l
	})

	if got := full.Get(); got != "Ada Lovelace" {
		t.Fatalf("full.Get() = %q, want %q", got, "Ada Lovelace")
	}

	first.Set("Grace")
	app.Drain()

	if got := full.Get(); got != "Grace Lovelace" {
		t.Fatalf("full.Get() = %q, want %q", got, "Grace Lovelace")
	}
	if caps := full.Capabilities(); caps.Has(CapModify) || !caps.Has(CapNew) {
		t.Fatalf("Merge output Capabilities() = %s, want CapNew and no CapModify", caps)
	}
}

func TestMergeDedupsMultipleInputsInOneDrain(t *testing.T) {
	app := NewApp()
	a := NewCell(app, 1)
	b := NewCell(app, 1)

	recomputes := 0
	sum := Merge2(Var[int](a), Var[int](b), func(x, y int) int {
		recomputes++
		return x + y
	})
	recomputes = 0 // ignore the construction-time combine call

	a.Set(2)
	b.Set(2)
	app.Drain()

	if got := sum.Get(); got != 4 {
		t.Fatalf("sum.Get() = %d, want 4", got)
	}
	if recomputes != 1 {
		t.Fatalf("recomputes = %d, want 1 (two inputs firing in the same drain should combine into one recomputation)", recomputes)
	}
}

func TestMergeBuilderIncrementalConstruction(t *testing.T) {
	app := NewApp()
	a := NewCell(app, 1)
	b := NewCell(app, 2)
	c := NewCell(app, 3)

	builder := NewMergeBuilder[int]()
	builder.Push(AsAny[int](a)).Push(AsAny[int](b)).Push(AsAny[int](c))

	total := builder.Build(func(values []any) int {
		sum := 0
		for _, v := range values {
			sum += v.(int)
		}
		return sum
	})

	if got := total.Get(); got != 6 {
		t.Fatalf("total.Get() = %d, want 6", got)
	}

	c.Set(10)
	app.Drain()

	if got := total.Get(); got != 13 {
		t.Fatalf("total.Get() = %d, want 13", got)
	}
}
