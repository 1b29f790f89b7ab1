package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// Lag is the time-shift engine: Read(i) is the operand's value at
// max(0, i-shift) when checked, or i-shift (caller's responsibility to
// stay in range) when unchecked.
//
// Go has no destructor to pair guard registration-on-construction with
// release-on-destruction, so Close must be called explicitly once a Lag
// is no longer part of any live expression tree; it is idempotent.
type Lag[T archx.Float] struct {
	op      Engine[T]
	shift   int
	checked bool
	closed  bool
}

// NewLag wraps op with a time shift. A positive shift registers this Lag
// as a guard on op's underlying storage, if op exposes one (see
// Guardable); this is always a single registration with the immediate
// operand.
func NewLag[T archx.Float](op Engine[T], shift int, checked bool) *Lag[T] {
	l := &Lag[T]{op: op, shift: shift, checked: checked}
	if shift > 0 {
		if g, ok := op.(Guardable[T]); ok {
			g.AddGuard(l)
		}
	}
	return l
}

// Close deregisters this Lag's guard, if it registered one.
func (l *Lag[T]) Close() {
	if l.closed {
		return
	}
	l.closed = true
	if l.shift > 0 {
		if g, ok := l.op.(Guardable[T]); ok {
			g.RemoveGuard(l)
		}
	}
}

func (l *Lag[T]) lagIndex(i int) int {
	idx := i - l.shift
	if l.checked && idx < 0 {
		return 0
	}
	return idx
}

func (l *Lag[T]) Size() int            { return l.op.Size() }
func (l *Lag[T]) StartDate() date.Date { return l.op.StartDate() }
func (l *Lag[T]) Read(i int) T         { return l.op.Read(l.lagIndex(i)) }

// Packed reads lane-by-lane rather than as one shifted block load: a
// checked lag clamps each lane's source index independently near the
// start of the series, which a single shifted packed load cannot
// express, so this falls back to scalar reads.
func (l *Lag[T]) Packed(i int) []T {
	return packedFromRead(l.Read, i, archx.Width[T](), l.Size()-i)
}

func (l *Lag[T]) DependsOn(v *veceng.Vector[T]) bool { return l.op.DependsOn(v) }
