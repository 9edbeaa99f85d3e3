package vars

import (
	"log"
	"sync"
	"weak"
)

// contextEntry pairs a weakly-held ContextInitHandle with the variable
// materialized for it. Once the handle is collected the entry is dead
// weight, purged the next time ActualVar inserts a new entry (spec.md §4.F, grounded
// on contextualized.rs's borrow_init_impl).
type contextEntry[T any] struct {
	handle weak.Pointer[ContextInitHandle]
	v      Var[T]
}

// Contextualized lazily materializes a different actual variable per
// context scope (spec.md §4.F): the first read under a given
// ContextInitHandle calls init() once and caches the result; subsequent
// reads under the same handle reuse it. Unlike every other variable kind
// here, Contextualized has no value of its own — every operation proxies
// to whichever actual variable is current.
type Contextualized[T any] struct {
	id      uint64
	app     *App
	counts  *refCounts
	isAlive func() bool

	init func() Var[T]

	mu     sync.RWMutex
	actual []contextEntry[T]
}

// NewContextualized builds a variable whose actual value depends on
// whatever ContextInitHandle is current when it's first read under that
// scope. init is called at most once per distinct live handle.
func NewContextualized[T any](app *App, init func() Var[T]) *Contextualized[T] {
	c := &Contextualized[T]{
		id:     nextID(),
		app:    app,
		counts: &refCounts{},
		init:   init,
	}
	c.isAlive = selfLiveness(c)
	return c
}

// ActualVar resolves (materializing if necessary) the variable backing the
// calling goroutine's current context scope.
func (c *Contextualized[T]) ActualVar() Var[T] {
	handle := CurrentContextHandle()

	c.mu.RLock()
	for _, e := range c.actual {
		if hp := e.handle.Value(); hp != nil && hp == handle {
			c.mu.RUnlock()
			return e.v
		}
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another goroutine may have inserted this handle's entry
	// while we waited for the write lock.
	for _, e := range c.actual {
		if hp := e.handle.Value(); hp != nil && hp == handle {
			return e.v
		}
	}

	// Purge entries whose handle has been collected before inserting a
	// new one, exactly as borrow_init_impl does.
	live := c.actual[:0:0]
	for _, e := range c.actual {
		if e.handle.Value() != nil {
			live = append(live, e)
		}
	}
	removed := len(c.actual) - len(live)
	c.actual = live
	if removed > 0 {
		metricsContextualizedCacheDelta(-removed)
	}

	v := c.init()
	c.actual = append(c.actual, contextEntry[T]{handle: weak.Make(handle), v: v})
	metricsContextualizedCacheDelta(1)

	if len(c.actual) == 200 && DevMode && Debug.LogContextualizedCacheGrowth {
		log.Printf("vars: contextualized variable %d actualized over 200 times; "+
			"its context scopes may not be getting cleaned up", c.id)
	}

	return v
}

func (c *Contextualized[T]) With(f func(*T))            { c.ActualVar().With(f) }
func (c *Contextualized[T]) Get() T                     { return c.ActualVar().Get() }
func (c *Contextualized[T]) Peek() T                    { return c.ActualVar().Peek() }
func (c *Contextualized[T]) Set(v T) error              { return c.ActualVar().Set(v) }
func (c *Contextualized[T]) Modify(f func(*Mutate[T])) error {
	return c.ActualVar().Modify(f)
}
func (c *Contextualized[T]) Update() error              { return c.ActualVar().Update() }
func (c *Contextualized[T]) Hook(fn HookFunc[T]) *Handle { return c.ActualVar().Hook(fn) }
func (c *Contextualized[T]) HookAnimationStop(fn func()) *Handle {
	return c.ActualVar().HookAnimationStop(fn)
}

func (c *Contextualized[T]) Downgrade() WeakVar[T] {
	return newWeakVar[Contextualized[T], T](c, c.counts, func(p *Contextualized[T]) Var[T] { return p })
}

func (c *Contextualized[T]) Capabilities() Capability { return c.ActualVar().Capabilities() | CapContext }
func (c *Contextualized[T]) LastUpdate() UpdateId      { return c.ActualVar().LastUpdate() }
func (c *Contextualized[T]) ModifyImportance() uint64  { return c.ActualVar().ModifyImportance() }
func (c *Contextualized[T]) IsAnimating() bool         { return c.ActualVar().IsAnimating() }
func (c *Contextualized[T]) IsContextual() bool        { return true }

func (c *Contextualized[T]) StrongCount() int {
	if c.isAlive != nil && c.isAlive() {
		return 1
	}
	return 0
}
func (c *Contextualized[T]) WeakCount() int64 { return c.counts.weak.Load() }
func (c *Contextualized[T]) AsAny() AnyVar    { return AsAny[T](c) }
func (c *Contextualized[T]) App() *App        { return c.app }
