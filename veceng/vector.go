// Package veceng implements the dated vector engine: aligned
// storage anchored to a start date, plus the aliasing guard it carries
// for the benefit of lag nodes.
package veceng

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/storage"
)

// Vector is V<T>: owned, date-anchored storage. It is the only data
// engine variant that actually holds memory; every other engine variant
// in package engine reads through one, directly or by way of a chain of
// lazy nodes.
type Vector[T archx.Float] struct {
	data      *storage.Storage[T]
	startDate date.Date
	guards    map[any]int // registering lag node identity -> refcount
}

// New allocates a zero-filled Vector of the given size anchored at
// startDate.
func New[T archx.Float](startDate date.Date, size int) (*Vector[T], error) {
	s, err := storage.New[T](size)
	if err != nil {
		return nil, err
	}
	return &Vector[T]{data: s, startDate: startDate}, nil
}

// NewFromValues copies values into a new Vector anchored at startDate.
func NewFromValues[T archx.Float](startDate date.Date, values []T) (*Vector[T], error) {
	s, err := storage.NewFrom(values)
	if err != nil {
		return nil, err
	}
	return &Vector[T]{data: s, startDate: startDate}, nil
}

// Size returns the number of elements.
func (v *Vector[T]) Size() int { return v.data.Len() }

// StartDate returns the anchor date of index 0.
func (v *Vector[T]) StartDate() date.Date { return v.startDate }

// Read returns the scalar at index i.
func (v *Vector[T]) Read(i int) T { return v.data.At(i) }

// Write sets the scalar at index i.
func (v *Vector[T]) Write(i int, x T) { v.data.Set(i, x) }

// Packed returns up to LaneWidth() lanes starting at index i.
func (v *Vector[T]) Packed(i int) []T { return v.data.PackedAt(i) }

// SetPacked overwrites len(values) consecutive lanes starting at index i.
func (v *Vector[T]) SetPacked(i int, values []T) { v.data.SetPackedAt(i, values) }

// LaneWidth returns the active SIMD lane width for T.
func (v *Vector[T]) LaneWidth() int { return v.data.LaneWidth() }

// DependsOn reports whether other is this same vector engine (the leaf
// case of the read contract's reachability test).
func (v *Vector[T]) DependsOn(other *Vector[T]) bool { return v == other }

// Clone deep-copies the vector, including its data but not its guard set
// (a clone starts unguarded — no live lag node references the clone yet).
func (v *Vector[T]) Clone() *Vector[T] {
	return &Vector[T]{data: v.data.Clone(), startDate: v.startDate}
}

// Reset re-anchors the vector to new_date and new_size, shifting stored
// values so that the element at each surviving month keeps its value: a
// later start date truncates the prefix that fell before it, an earlier
// one prepends zeros, and an unchanged start date simply resizes.
func (v *Vector[T]) Reset(newStart date.Date, newSize int) {
	delta := newStart.Sub(v.startDate)
	old := v.data.Slice()
	oldLen := len(old)

	switch {
	case delta > 0:
		// Later start: shift left by delta, dropping the prefix that no
		// longer belongs inside the window, then zero-fill the tail.
		shiftEnd := oldLen
		if shiftEnd > delta+newSize {
			shiftEnd = delta + newSize
		}
		for i := delta; i < shiftEnd; i++ {
			old[i-delta] = old[i]
		}
		_ = v.data.Resize(newSize)
		resized := v.data.Slice()
		tailStart := oldLen - delta
		if tailStart < 0 {
			tailStart = 0
		}
		for i := tailStart; i < newSize; i++ {
			resized[i] = 0
		}
	case delta < 0:
		shift := -delta
		_ = v.data.Resize(newSize)
		resized := v.data.Slice()
		for i := newSize - 1; i >= shift; i-- {
			resized[i] = resized[i-shift]
		}
		for i := 0; i < shift && i < newSize; i++ {
			resized[i] = 0
		}
	default:
		if newSize != oldLen {
			prevLen := oldLen
			_ = v.data.Resize(newSize)
			if newSize > prevLen {
				resized := v.data.Slice()
				for i := prevLen; i < newSize; i++ {
					resized[i] = 0
				}
			}
		}
	}
	v.startDate = newStart
}

// AddGuard registers owner (typically a *engine.Lag[T], passed as
// an opaque identity) as depending on this vector surviving a future
// self-referential assignment in ascending-index order. Guards are
// reference-counted by identity so a cloned lag node and its original
// both hold independent registrations.
func (v *Vector[T]) AddGuard(owner any) {
	if v.guards == nil {
		v.guards = make(map[any]int)
	}
	v.guards[owner]++
}

// RemoveGuard deregisters one reference held by owner.
func (v *Vector[T]) RemoveGuard(owner any) {
	if v.guards == nil {
		return
	}
	v.guards[owner]--
	if v.guards[owner] <= 0 {
		delete(v.guards, owner)
	}
}

// IsGuarded reports whether at least one live lag node references this
// vector.
func (v *Vector[T]) IsGuarded() bool {
	return len(v.guards) > 0
}
