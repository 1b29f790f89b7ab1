package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// Memoised wraps a vector that already holds fully materialised values in
// a cache, alongside the key it lives under there. It is what package
// ops returns once an eager evaluation has happened: reads simply
// delegate to the backing vector, no recomputation possible.
type Memoised[T archx.Float] struct {
	v     *veceng.Vector[T]
	key   string
	level int
}

// NewMemoised wraps v, recording the cache key and level it was stored
// under, for diagnostics.
func NewMemoised[T archx.Float](v *veceng.Vector[T], key string, level int) *Memoised[T] {
	return &Memoised[T]{v: v, key: key, level: level}
}

func (m *Memoised[T]) Vector() *veceng.Vector[T] { return m.v }
func (m *Memoised[T]) Key() string               { return m.key }
func (m *Memoised[T]) Level() int                { return m.level }

func (m *Memoised[T]) Size() int            { return m.v.Size() }
func (m *Memoised[T]) StartDate() date.Date { return m.v.StartDate() }
func (m *Memoised[T]) Read(i int) T         { return m.v.Read(i) }
func (m *Memoised[T]) Packed(i int) []T     { return m.v.Packed(i) }
func (m *Memoised[T]) DependsOn(v *veceng.Vector[T]) bool {
	return m.v.DependsOn(v)
}
func (m *Memoised[T]) AddGuard(owner any)    { m.v.AddGuard(owner) }
func (m *Memoised[T]) RemoveGuard(owner any) { m.v.RemoveGuard(owner) }
