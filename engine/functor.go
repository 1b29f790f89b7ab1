package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// Functor is the general elementwise-transform engine: unlike
// UnaryStatic, the transform it applies may depend on the read index as
// well as the source value, which is what the piecewise-linear spline
// functors in package spline need. ScalarFn is applied per lane; PackedFn, when set, lets
// a caller supply a genuinely vectorised form (e.g. the spline's
// gather+fmadd evaluation) instead of falling back to one ScalarFn call
// per lane.
type Functor[T archx.Float] struct {
	src      Engine[T]
	scalarFn func(i int, x T) T
	packedFn func(i int, xs []T) []T
}

// NewFunctor builds a Functor over src. packedFn may be nil, in which case
// Packed falls back to calling scalarFn lane-by-lane.
func NewFunctor[T archx.Float](src Engine[T], scalarFn func(i int, x T) T, packedFn func(i int, xs []T) []T) *Functor[T] {
	return &Functor[T]{src: src, scalarFn: scalarFn, packedFn: packedFn}
}

func (e *Functor[T]) Size() int            { return e.src.Size() }
func (e *Functor[T]) StartDate() date.Date { return e.src.StartDate() }
func (e *Functor[T]) Read(i int) T         { return e.scalarFn(i, e.src.Read(i)) }

func (e *Functor[T]) Packed(i int) []T {
	xs := e.src.Packed(i)
	if e.packedFn != nil {
		return e.packedFn(i, xs)
	}
	out := make([]T, len(xs))
	for k, x := range xs {
		out[k] = e.scalarFn(i+k, x)
	}
	return out
}

func (e *Functor[T]) DependsOn(v *veceng.Vector[T]) bool { return e.src.DependsOn(v) }
