package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// Scalar is a broadcast constant: every index reads the same value. Its
// reported Size is 0 by convention: a scalar contributes no length
// constraint to a BinOp it's an operand of — if either operand has size
// 0, the other operand's size and start date are used instead.
type Scalar[T archx.Float] struct {
	x T
}

// NewScalar wraps x as a broadcast engine.
func NewScalar[T archx.Float](x T) *Scalar[T] { return &Scalar[T]{x: x} }

func (s *Scalar[T]) Value() T             { return s.x }
func (s *Scalar[T]) Size() int            { return 0 }
func (s *Scalar[T]) StartDate() date.Date { return date.MinDate }
func (s *Scalar[T]) Read(int) T           { return s.x }
func (s *Scalar[T]) Packed(int) []T {
	w := archx.Width[T]()
	out := make([]T, w)
	for i := range out {
		out[i] = s.x
	}
	return out
}
func (s *Scalar[T]) DependsOn(*veceng.Vector[T]) bool { return false }

// Iota produces first, first+1, first+2, ... for n elements, anchored at
// start.
type Iota[T archx.Float] struct {
	start date.Date
	first int
	n     int
}

// NewIota builds an Iota engine.
func NewIota[T archx.Float](start date.Date, first, n int) *Iota[T] {
	return &Iota[T]{start: start, first: first, n: n}
}

func (e *Iota[T]) Size() int            { return e.n }
func (e *Iota[T]) StartDate() date.Date { return e.start }
func (e *Iota[T]) Read(i int) T         { return T(e.first + i) }
func (e *Iota[T]) Packed(i int) []T {
	return packedFromRead(e.Read, i, archx.Width[T](), e.n-i)
}
func (e *Iota[T]) DependsOn(*veceng.Vector[T]) bool { return false }
