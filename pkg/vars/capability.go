package vars

import "strings"

// Capability is a bitset describing what a variable allows (spec.md §1,
// GLOSSARY "Capabilities"). A consumer inspects Capabilities() before
// attempting a write instead of relying on a type assertion.
type Capability uint8

const (
	// CapNew means the variable may produce new values over time (spec.md
	// §3 "NEW (may produce new values)") — set on a plain Cell and on any
	// derived variable that recomputes in response to its source, unset
	// only for a value that is permanently frozen once constructed.
	CapNew Capability = 1 << iota
	// CapModify means Set/Modify/Update are allowed.
	CapModify
	// CapCapsChange means the variable's own capability set can change
	// over its lifetime (When does: capabilities mirror whichever arm
	// is active, spec.md §4.E).
	CapCapsChange
	// CapContext means reads resolve through a per-context indirection
	// (Contextualized, spec.md §4.F).
	CapContext
)

func (c Capability) Has(f Capability) bool { return c&f != 0 }

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c.Has(CapNew) {
		parts = append(parts, "new")
	}
	if c.Has(CapModify) {
		parts = append(parts, "modify")
	}
	if c.Has(CapCapsChange) {
		parts = append(parts, "caps-change")
	}
	if c.Has(CapContext) {
		parts = append(parts, "context")
	}
	return strings.Join(parts, "|")
}
