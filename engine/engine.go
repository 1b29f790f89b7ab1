// Package engine implements the lazy data-engine family: the
// variant nodes an expression tree is built from (stored vector, scalar,
// iota, lag, binary op, unary static functor, general functor, memoised,
// delayed cache), composed by the operators in package ops and read by
// package calcvector.
//
// A closed set of variants, each satisfying an implicit "engine concept"
// (size, start date, scalar read, packed read, depends_on), could be
// expressed as a sum type, but this module instead picks a small
// Engine[T] interface every variant below implements, since the
// measured performance path here is the packed inner loop, not engine
// dispatch, and an interface keeps the variant set open to the spline
// functors in package spline without a sum-type rebuild each time one is
// added.
package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// Engine is the read contract every data-engine variant satisfies.
type Engine[T archx.Float] interface {
	Size() int
	StartDate() date.Date
	Read(i int) T
	Packed(i int) []T
	// DependsOn is a conservative reachability test: true iff this
	// engine's tree could read v's storage.
	DependsOn(v *veceng.Vector[T]) bool
}

// Guardable is implemented by engine variants that can register a lag
// node's interest in their underlying storage. Stored and Memoised do,
// forwarding to their vector, and DelayedCache does, forwarding to its
// materialised vector or its inner engine; a Lag wrapping anything else
// (a BinOp, a Functor, ...) simply has no guard to register — only the
// immediate operand is ever worth guarding.
type Guardable[T archx.Float] interface {
	AddGuard(owner any)
	RemoveGuard(owner any)
}

func packedFromRead[T archx.Float](read func(i int) T, i, w, remaining int) []T {
	if w > remaining {
		w = remaining
	}
	if w <= 0 {
		return nil
	}
	out := make([]T, w)
	for k := 0; k < w; k++ {
		out[k] = read(i + k)
	}
	return out
}
