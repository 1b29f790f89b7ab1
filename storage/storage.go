// Package storage implements aligned storage: a contiguous
// buffer of N scalars exposing both indexed and packed (W-lane) access.
//
// Go's allocator gives no placement guarantee over a []T, so "aligned to
// W*sizeof(T)" is not a byte-level fact here the way it would be behind
// a dedicated aligned allocator. What this type reproduces is the
// *contract* surrounding it: New rounds capacity up to a whole number of
// lanes (Resize and Clone allocate the exact length), PackedAt shortens
// its view at the tail rather than reading past the live length, and an
// explicit allocation-failure error is preserved for call sites that
// need to report it.
package storage

import (
	"fmt"
	"math"

	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/tachyerr"
)

// maxLen is a sanity ceiling standing in for an aligned allocator
// running out of address space; allocations beyond it report
// ErrAlignmentAllocationFailure instead of panicking.
const maxLen = math.MaxInt32

// Storage is a length-n buffer of T, lane-width aware.
type Storage[T archx.Float] struct {
	data []T
	lane int
}

// New allocates a zero-filled Storage of length n, rounding its backing
// capacity up to a multiple of the active lane width for T.
func New[T archx.Float](n int) (*Storage[T], error) {
	if n < 0 || n > maxLen {
		return nil, fmt.Errorf("length %d: %w", n, tachyerr.ErrAlignmentAllocationFailure)
	}
	w := archx.Width[T]()
	cap := roundUp(n, w)
	return &Storage[T]{data: make([]T, n, cap), lane: w}, nil
}

// NewFrom copies values into a new Storage of the same length.
func NewFrom[T archx.Float](values []T) (*Storage[T], error) {
	s, err := New[T](len(values))
	if err != nil {
		return nil, err
	}
	copy(s.data, values)
	return s, nil
}

func roundUp(n, w int) int {
	if w <= 1 {
		return n
	}
	rem := n % w
	if rem == 0 {
		return n
	}
	return n + (w - rem)
}

// Len returns the number of live scalars.
func (s *Storage[T]) Len() int { return len(s.data) }

// LaneWidth returns W for this storage's element type.
func (s *Storage[T]) LaneWidth() int { return s.lane }

// At returns the scalar at index i.
func (s *Storage[T]) At(i int) T { return s.data[i] }

// Set writes the scalar at index i.
func (s *Storage[T]) Set(i int, v T) { s.data[i] = v }

// PackedAt returns a borrowed view of up to LaneWidth() lanes starting at
// i; the view is shorter only when i is within LaneWidth()-1 of the end
// (an unaligned tail read), which callers must handle explicitly rather
// than assume a full lane width.
func (s *Storage[T]) PackedAt(i int) []T {
	w := s.lane
	end := i + w
	if end > len(s.data) {
		end = len(s.data)
	}
	return s.data[i:end]
}

// SetPackedAt overwrites len(values) consecutive lanes starting at i.
func (s *Storage[T]) SetPackedAt(i int, values []T) {
	copy(s.data[i:i+len(values)], values)
}

// Slice returns the full backing slice for bulk operations (e.g. the
// functor family precomputing a whole result in one pass).
func (s *Storage[T]) Slice() []T { return s.data }

// Resize grows or shrinks the buffer in place, preserving values at
// unchanged indices and zero-filling any newly created tail. Shrinking
// simply truncates.
func (s *Storage[T]) Resize(n int) error {
	if n < 0 || n > maxLen {
		return fmt.Errorf("length %d: %w", n, tachyerr.ErrAlignmentAllocationFailure)
	}
	if n <= len(s.data) {
		s.data = s.data[:n]
		return nil
	}
	grown := make([]T, n)
	copy(grown, s.data)
	s.data = grown
	return nil
}

// Clone returns a deep copy of the storage.
func (s *Storage[T]) Clone() *Storage[T] {
	out := make([]T, len(s.data))
	copy(out, s.data)
	return &Storage[T]{data: out, lane: s.lane}
}
