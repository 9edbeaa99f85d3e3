package vars

import "fmt"

// VarIsReadOnlyError is returned by Set/Modify/Update when the variable's
// capabilities don't include CapModify (spec.md §4.I). Derived variables
// (Map, Merge, FilterMap, FlatMap, and When while its active source is
// read-only) return this
// rather than panicking, mirroring the teacher's errors.go sentinel style.
type VarIsReadOnlyError struct {
	Capabilities Capability
}

func (e *VarIsReadOnlyError) Error() string {
	return fmt.Sprintf("vars: variable is read-only (capabilities: %s)", e.Capabilities)
}

// ContextHandleDeadError reports a missing live context handle for a
// Contextualized variable. No function in this package returns it: a
// Contextualized variable read outside any WithContextHandle scope
// materializes under the shared root handle instead.
type ContextHandleDeadError struct{}

func (e *ContextHandleDeadError) Error() string {
	return "vars: no live context handle for contextualized variable"
}

// CycleDetectedError reports a variable that depends on itself. No function
// in this package returns it: MergeBuilder.Build and When do not check
// their inputs for self-reference, and there is no cycle detection across
// the graph.
type CycleDetectedError struct {
	VarID uint64
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("vars: variable %d cannot depend on itself", e.VarID)
}
