package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// Stored borrows a vector engine; it is the leaf most expressions
// eventually read through.
type Stored[T archx.Float] struct {
	v *veceng.Vector[T]
}

// NewStored wraps v as a data engine.
func NewStored[T archx.Float](v *veceng.Vector[T]) *Stored[T] {
	return &Stored[T]{v: v}
}

// Vector returns the underlying vector engine, e.g. so a Lag node can
// register itself as a guard on it.
func (s *Stored[T]) Vector() *veceng.Vector[T] { return s.v }

func (s *Stored[T]) Size() int             { return s.v.Size() }
func (s *Stored[T]) StartDate() date.Date  { return s.v.StartDate() }
func (s *Stored[T]) Read(i int) T          { return s.v.Read(i) }
func (s *Stored[T]) Packed(i int) []T      { return s.v.Packed(i) }
func (s *Stored[T]) DependsOn(v *veceng.Vector[T]) bool {
	return s.v.DependsOn(v)
}
func (s *Stored[T]) AddGuard(owner any)    { s.v.AddGuard(owner) }
func (s *Stored[T]) RemoveGuard(owner any) { s.v.RemoveGuard(owner) }
