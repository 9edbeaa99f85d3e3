package vars

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// getGoroutineID parses the calling goroutine's id out of a runtime.Stack
// dump. Grounded in the teacher's pkg/vango/tracking.go, which uses the
// same trick to key its per-goroutine tracking context — Go has no public
// goroutine-local-storage API, so this is the idiomatic workaround the
// teacher itself reaches for.
func getGoroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	i := bytes.IndexByte(buf, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(buf[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ContextInitHandle identifies one "context scope" a Contextualized
// variable can be materialized under (spec.md §4.F). A widget/task tree
// pushes a handle for the duration of its initialization and pops it
// afterward; every Contextualized variable read during that window shares
// the one materialized instance keyed by that handle.
type ContextInitHandle struct {
	id uint64
}

// NewContextInitHandle allocates a fresh, otherwise-unused handle.
func NewContextInitHandle() *ContextInitHandle {
	return &ContextInitHandle{id: nextID()}
}

// rootContextHandle is the handle in effect when no WithContextHandle
// scope is active. It is never collected, so contextualized variables
// used outside of any explicit scope still get one stable, shared cache
// entry rather than materializing a fresh instance on every read.
var rootContextHandle = &ContextInitHandle{id: 0}

var (
	contextStackMu sync.Mutex
	contextStacks  = map[uint64][]*ContextInitHandle{}
)

// WithContextHandle pushes handle as the current context for the duration
// of fn, restoring whatever was current beforehand. Nested calls on the
// same goroutine stack normally.
func WithContextHandle(handle *ContextInitHandle, fn func()) {
	gid := getGoroutineID()

	contextStackMu.Lock()
	contextStacks[gid] = append(contextStacks[gid], handle)
	contextStackMu.Unlock()

	defer func() {
		contextStackMu.Lock()
		stack := contextStacks[gid]
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			delete(contextStacks, gid)
		} else {
			contextStacks[gid] = stack
		}
		contextStackMu.Unlock()
	}()

	fn()
}

// CurrentContextHandle returns the handle pushed by the innermost
// enclosing WithContextHandle call on the current goroutine, or
// rootContextHandle if none is active.
func CurrentContextHandle() *ContextInitHandle {
	gid := getGoroutineID()

	contextStackMu.Lock()
	defer contextStackMu.Unlock()
	stack := contextStacks[gid]
	if len(stack) == 0 {
		return rootContextHandle
	}
	return stack[len(stack)-1]
}
