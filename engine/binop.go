package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// Op identifies a binary arithmetic operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
)

func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	default:
		return "?"
	}
}

func applyOp[T archx.Float](op Op, x, y T) T {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpMin:
		if x < y {
			return x
		}
		return y
	case OpMax:
		if x > y {
			return x
		}
		return y
	default:
		panic("engine: unknown Op")
	}
}

func applyOpPacked[T archx.Float](op Op, x, y []T) []T {
	switch op {
	case OpAdd:
		return archx.Add(x, y)
	case OpSub:
		return archx.Sub(x, y)
	case OpMul:
		return archx.Mul(x, y)
	case OpDiv:
		return archx.Div(x, y)
	case OpMin:
		return archx.Min(x, y)
	case OpMax:
		return archx.Max(x, y)
	default:
		panic("engine: unknown Op")
	}
}

// BinOp is the aligned binary-operator engine. It is
// purely lazy: it holds no cache of its own. Whether a BinOp is read
// directly, wrapped in a DelayedCache, or evaluated eagerly into a
// Memoised vector is decided by package ops, which implements the
// caching policy.
type BinOp[T archx.Float] struct {
	op    Op
	a, b  Engine[T]
	off1  int
	off2  int
	start date.Date
	n     int
}

// NewBinOp aligns a and b to the later of their two start dates and
// builds the lazy binary-op engine over that common window. A
// zero-size operand (a Scalar, or an Iota/BinOp that happens to be
// empty) contributes no date or length constraint at all: its start
// date is never consulted, and the result simply takes on the other
// operand's start date and size.
func NewBinOp[T archx.Float](op Op, a, b Engine[T]) *BinOp[T] {
	sz1, sz2 := a.Size(), b.Size()

	switch {
	case sz1 == 0 && sz2 == 0:
		return &BinOp[T]{op: op, a: a, b: b, start: date.MinDate}
	case sz1 == 0:
		return &BinOp[T]{op: op, a: a, b: b, start: b.StartDate(), n: sz2}
	case sz2 == 0:
		return &BinOp[T]{op: op, a: a, b: b, start: a.StartDate(), n: sz1}
	}

	d1, d2 := a.StartDate(), b.StartDate()
	start := date.Max(d1, d2)
	off1 := max(0, start.Sub(d1))
	off2 := max(0, start.Sub(d2))
	n := min(sz1-off1, sz2-off2)
	if n < 0 {
		n = 0
	}
	return &BinOp[T]{op: op, a: a, b: b, off1: off1, off2: off2, start: start, n: n}
}

func (e *BinOp[T]) Size() int            { return e.n }
func (e *BinOp[T]) StartDate() date.Date { return e.start }
func (e *BinOp[T]) Read(i int) T {
	return applyOp(e.op, e.a.Read(i+e.off1), e.b.Read(i+e.off2))
}
func (e *BinOp[T]) Packed(i int) []T {
	pa := e.a.Packed(i + e.off1)
	pb := e.b.Packed(i + e.off2)
	w := min(len(pa), len(pb))
	return applyOpPacked(e.op, pa[:w], pb[:w])
}
func (e *BinOp[T]) DependsOn(v *veceng.Vector[T]) bool {
	return e.a.DependsOn(v) || e.b.DependsOn(v)
}
