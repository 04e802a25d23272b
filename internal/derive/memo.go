package derive

import "github.com/five82/sluggish/internal/runtime"

// Memo caches one derived value keyed by a dependency list. When disabled it
// recomputes on every Get, which is the default the demo starts with.
type Memo[T any] struct {
	Enabled bool

	deps     []any
	value    T
	valid    bool
	computes int
}

// Get returns the cached value if memoization is enabled and deps match the
// previous call by identity; otherwise it calls compute.
func (m *Memo[T]) Get(deps []any, compute func() T) T {
	if m.Enabled && m.valid && sameDeps(m.deps, deps) {
		return m.value
	}
	m.value = compute()
	m.deps = deps
	m.valid = true
	m.computes++
	return m.value
}

// Computes counts how often compute was called.
func (m *Memo[T]) Computes() int { return m.computes }

// Reset drops the cached value.
func (m *Memo[T]) Reset() {
	var zero T
	m.value, m.deps, m.valid = zero, nil, false
}

func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !runtime.Same(a[i], b[i]) {
			return false
		}
	}
	return true
}
