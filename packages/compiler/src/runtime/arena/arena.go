// Package arena stores values behind generational handles.
//
// A handle stays valid until its value is removed. Slots are reused, but a handle to a
// removed value never resolves to the value that replaced it.
package arena

// Handle refers to a value of an Arena. The zero Handle never resolves.
type Handle struct {
	index      int
	generation uint32
}

// IsZero reports whether h is the zero handle
func (h Handle) IsZero() bool {
	return h.generation == 0
}

type slot[T any] struct {
	value      T
	generation uint32
	used       bool
}

// Arena is a slab of values addressed by Handle
type Arena[T any] struct {
	slots []slot[T]
	free  []int
	count int
}

// Insert stores v and returns its handle
func (a *Arena[T]) Insert(v T) Handle {
	a.count++
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[i]
		s.generation++
		s.value = v
		s.used = true
		return Handle{index: i, generation: s.generation}
	}
	a.slots = append(a.slots, slot[T]{value: v, generation: 1, used: true})
	return Handle{index: len(a.slots) - 1, generation: 1}
}

// Get returns the value of h. ok is false if h was removed or is the zero handle.
func (a *Arena[T]) Get(h Handle) (v T, ok bool) {
	if h.generation == 0 || h.index >= len(a.slots) {
		return v, false
	}
	s := &a.slots[h.index]
	if !s.used || s.generation != h.generation {
		return v, false
	}
	return s.value, true
}

// Remove deletes the value of h and reports whether it was present
func (a *Arena[T]) Remove(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.used = false
	a.free = append(a.free, h.index)
	a.count--
	return true
}

// Len returns the number of stored values
func (a *Arena[T]) Len() int {
	return a.count
}
