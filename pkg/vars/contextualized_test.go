package vars

import "testing"

func TestContextualizedMaterializesOncePerHandle(t *testing.T) {
	app := NewApp()

	inits := 0
	c := NewContextualized[int](app, func() Var[int] {
		inits++
		return NewCell(app, inits)
	})

	h1 := NewContextInitHandle()
	var first, second int
	WithContextHandle(h1, func() {
		first = c.Get()
		second = c.Get()
	})

	if inits != 1 {
		t.Fatalf("inits = %d, want 1 (second read under the same handle must reuse the cached actual var)", inits)
	}
	if first != second {
		t.Fatalf("first = %d, second = %d, want equal", first, second)
	}
}

func TestContextualizedMaterializesSeparatelyPerHandle(t *testing.T) {
	app := NewApp()

	inits := 0
	c := NewContextualized[int](app, func() Var[int] {
		inits++
		return NewCell(app, inits)
	})

	h1 := NewContextInitHandle()
	h2 := NewContextInitHandle()

	var vh1, vh2 int
	WithContextHandle(h1, func() { vh1 = c.Get() })
	WithContextHandle(h2, func() { vh2 = c.Get() })

	if inits != 2 {
		t.Fatalf("inits = %d, want 2 (distinct handles must materialize distinct actual vars)", inits)
	}
	if vh1 == vh2 {
		t.Fatalf("vh1 = %d, vh2 = %d, want distinct values from distinct init() calls", vh1, vh2)
	}
}

func TestContextualizedOutsideAnyScopeSharesRootHandle(t *testing.T) {
	app := NewApp()

	inits := 0
	c := NewContextualized[int](app, func() Var[int] {
		inits++
		return NewCell(app, inits)
	})

	first := c.Get()
	second := c.Get()

	if inits != 1 {
		t.Fatalf("inits = %d, want 1 (reads outside any WithContextHandle scope share the root handle)", inits)
	}
	if first != second {
		t.Fatalf("first = %d, second = %d, want equal", first, second)
	}
}

func TestContextualizedWritesForwardToTheScopedActualVar(t *testing.T) {
	app := NewApp()
	c := NewContextualized[int](app, func() Var[int] {
		return NewCell(app, 0)
	})

	h := NewContextInitHandle()
	WithContextHandle(h, func() {
		if err := c.Set(42); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
	})
	app.Drain()

	var got int
	WithContextHandle(h, func() { got = c.Get() })
	if got != 42 {
		t.Fatalf("c.Get() under h = %d, want 42", got)
	}
}

func TestContextualizedCapabilitiesIncludeCapContext(t *testing.T) {
	app := NewApp()
	c := NewContextualized[int](app, func() Var[int] {
		return NewCell(app, 0)
	})

	if !c.Capabilities().Has(CapContext) {
		t.Fatalf("Contextualized.Capabilities() must always report CapContext")
	}
}
