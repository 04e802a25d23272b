package runtime

import "reflect"

// State is a state cell owned by a Runtime. Writes mark the runtime dirty so
// the next flush runs a cycle. Get and Set must be called on the loop goroutine.
type State[T any] struct {
	rt      *Runtime
	name    string
	value   T
	version uint64
}

// NewState registers a state cell with an initial value.
func NewState[T any](rt *Runtime, name string, initial T) *State[T] {
	return &State[T]{rt: rt, name: name, value: initial}
}

// Name returns the label given at registration.
func (s *State[T]) Name() string { return s.name }

// Get returns the current value.
func (s *State[T]) Get() T { return s.value }

// Version counts effective writes to this cell.
func (s *State[T]) Version() uint64 { return s.version }

// Set replaces the value. Writing a value identical to the current one is
// ignored, so it neither bumps the version nor schedules a cycle.
func (s *State[T]) Set(v T) {
	if Same(s.value, v) {
		return
	}
	s.value = v
	s.version++
	s.rt.markWrite()
}

// Update applies fn to the current value and stores the result.
func (s *State[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// Same reports whether a and b have the same identity: equal for comparable
// values, same backing storage for slices and maps. Funcs are never the same,
// since a new closure is a new reference.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Func:
		return false
	}
	if !ta.Comparable() {
		return false
	}
	return comparableEqual(a, b)
}

func comparableEqual(a, b any) (eq bool) {
	// Structs with interface fields can hold uncomparable dynamic values.
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
