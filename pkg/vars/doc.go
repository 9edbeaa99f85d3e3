// Package vars implements a reactive variable runtime for retained-mode UI:
// observable cells, derived variables (map, merge, flat-map, filter-map,
// when), a per-frame update scheduler, weak hook subscriptions, and an
// animation controller with an easing library and slerp-aware
// interpolation.
//
// The central type is Var[T], implemented by Cell (the only always-
// writable kind) and by every derived variable Map/FilterMap/FlatMap/
// Merge/When/Contextualized produce. A variable is read with Get/Peek/
// With, written with Set/Modify/Update, and observed with Hook. Writes
// don't take effect synchronously: they're queued on an App (the
// scheduler) and applied on the next Drain, in the order update_id
// advances, animations tick (their writes commit immediately, stamped with
// the new update_id), the modify queue runs, apply_update_id advances.
//
// Concurrency: every exported type here is safe for concurrent use from
// multiple goroutines. Hooks and modify closures are expected to be quick;
// a panicking one is recovered and treated as if it unsubscribed (or, for
// a modify closure, as if it never ran).
package vars
