package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// UnaryOp identifies a static (argument-independent) unary functor.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryAbs
	UnaryExp
	UnaryLog
	UnarySqrt
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryAbs:
		return "abs"
	case UnaryExp:
		return "exp"
	case UnaryLog:
		return "log"
	case UnarySqrt:
		return "sqrt"
	default:
		return "?"
	}
}

func applyUnary[T archx.Float](op UnaryOp, x T) T {
	switch op {
	case UnaryNeg:
		return -x
	case UnaryAbs:
		if x < 0 {
			return -x
		}
		return x
	case UnaryExp:
		return archx.Exp([]T{x})[0]
	case UnaryLog:
		return archx.Log([]T{x})[0]
	case UnarySqrt:
		return archx.Sqrt([]T{x})[0]
	default:
		panic("engine: unknown UnaryOp")
	}
}

func applyUnaryPacked[T archx.Float](op UnaryOp, x []T) []T {
	switch op {
	case UnaryNeg:
		return archx.Neg(x)
	case UnaryAbs:
		return archx.Abs(x)
	case UnaryExp:
		return archx.Exp(x)
	case UnaryLog:
		return archx.Log(x)
	case UnarySqrt:
		return archx.Sqrt(x)
	default:
		panic("engine: unknown UnaryOp")
	}
}

// UnaryStatic applies a fixed elementwise transform to a single operand,
// preserving its start date and size unchanged.
type UnaryStatic[T archx.Float] struct {
	op  UnaryOp
	src Engine[T]
}

// NewUnaryStatic wraps src under op.
func NewUnaryStatic[T archx.Float](op UnaryOp, src Engine[T]) *UnaryStatic[T] {
	return &UnaryStatic[T]{op: op, src: src}
}

func (e *UnaryStatic[T]) Size() int            { return e.src.Size() }
func (e *UnaryStatic[T]) StartDate() date.Date { return e.src.StartDate() }
func (e *UnaryStatic[T]) Read(i int) T         { return applyUnary(e.op, e.src.Read(i)) }
func (e *UnaryStatic[T]) Packed(i int) []T     { return applyUnaryPacked(e.op, e.src.Packed(i)) }
func (e *UnaryStatic[T]) DependsOn(v *veceng.Vector[T]) bool {
	return e.src.DependsOn(v)
}
