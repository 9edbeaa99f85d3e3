package vars

// Cell is the primitive, always-writable variable (spec.md §4.D). Every
// derived variable is ultimately backed by one or more Cells, directly or
// through their own output storage.
type Cell[T any] struct {
	varBase[T]
}

// CellOption configures a Cell at construction (spec.md §4.D "options").
type CellOption[T any] func(*Cell[T])

// WithEquals overrides the default equality check used to decide whether a
// Set actually changed the value.
func WithEquals[T any](eq func(a, b T) bool) CellOption[T] {
	return func(c *Cell[T]) { c.val.equal = eq }
}

// NewCell constructs a writable variable seeded with initial, scheduled
// against app.
func NewCell[T any](app *App, initial T, opts ...CellOption[T]) *Cell[T] {
	c := &Cell[T]{varBase: newVarBase[T](app, initial, nil)}
	for _, opt := range opts {
		opt(c)
	}
	c.isAlive = selfLiveness(c)
	return c
}

// NewVar is a convenience alias for NewCell against the default scheduler,
// matching how most callers reach for a fresh variable without naming the
// App explicitly.
func NewVar[T any](initial T, opts ...CellOption[T]) *Cell[T] {
	return NewCell(Vars, initial, opts...)
}

func (c *Cell[T]) Capabilities() Capability { return CapModify | CapNew }
func (c *Cell[T]) IsContextual() bool       { return false }
func (c *Cell[T]) ActualVar() Var[T]        { return c }

func (c *Cell[T]) Downgrade() WeakVar[T] {
	return newWeakVar[Cell[T], T](c, c.counts, func(p *Cell[T]) Var[T] { return p })
}

func (c *Cell[T]) AsAny() AnyVar { return AsAny[T](c) }

// Modify queues f to run against the value at the next Drain, honoring the
// modify-importance precedence rule (spec.md §4.A). A plain user write
// always carries a fresh, strictly increasing importance, so it can never
// be silently dropped by an in-flight animation.
func (c *Cell[T]) Modify(f func(m *Mutate[T])) error {
	importance := nextImportance()
	app := c.app
	app.schedule(func() {
		fired, forced := c.val.commit(importance, false, app.UpdateID(), f)
		if fired {
			c.notifyCommit(forced)
		}
	})
	return nil
}

// Set replaces the value.
func (c *Cell[T]) Set(v T) error {
	return c.Modify(func(m *Mutate[T]) { m.Set(v) })
}

// Update forces hooks to fire on the next drain even without a value
// change.
func (c *Cell[T]) Update() error {
	return c.Modify(func(m *Mutate[T]) { m.RequestUpdate() })
}

// setAnimated is used by the animation controller: it carries the
// animation's own importance and the animating=true flag, and skips
// recordHookPanic wrapping since the animation tick loop already isolates
// panics one level up.
func (c *Cell[T]) setAnimated(importance uint64, v T) {
	fired, forced := c.val.commit(importance, true, c.app.UpdateID(), func(m *Mutate[T]) { m.Set(v) })
	if fired {
		c.notifyCommit(forced)
	}
}
