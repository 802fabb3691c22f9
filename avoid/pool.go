package avoid

import "sync"

// ============================================================================
// Traversal Stack Pooling
// ============================================================================
//
// Focus lookups run on every keyboard show and walk the whole presented
// hierarchy. The depth-first stack is pooled so repeated lookups over large
// trees do not allocate a fresh slice each time.
//
// Usage:
//   stack := acquireViewStack()
//   ... push/pop ...
//   releaseViewStack(stack)

var viewStackPool = sync.Pool{
	New: func() interface{} {
		s := make([]View, 0, 32)
		return &s
	},
}

// acquireViewStack gets an empty view stack from the pool.
// Caller must call releaseViewStack when done.
func acquireViewStack() *[]View {
	return viewStackPool.Get().(*[]View)
}

// releaseViewStack clears the stack and returns it to the pool.
func releaseViewStack(s *[]View) {
	if s == nil {
		return
	}

	// Clear to avoid holding host views alive from the pool
	stack := *s
	for i := range stack {
		stack[i] = nil
	}

	// Only pool stacks up to a reasonable size to avoid memory bloat
	if cap(stack) <= 1024 {
		*s = stack[:0]
		viewStackPool.Put(s)
	}
}
