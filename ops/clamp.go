package ops

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/engine"
)

// Min, Max clamp a against a scalar or vector bound lo/hi, going through
// the same caching policy as every other binary operator: clamp
// functors are ordinary binary operators as far as caching is
// concerned.
func Min[T archx.Float](a, b Node[T]) Node[T] { return binary(engine.OpMin, a, b) }
func Max[T archx.Float](a, b Node[T]) Node[T] { return binary(engine.OpMax, a, b) }

// MinMax clamps x into [lo, hi]: max(lo, min(hi, x)).
func MinMax[T archx.Float](x, lo, hi Node[T]) Node[T] {
	return Max(lo, Min(hi, x))
}

// ExpOfMax builds exp(max(lo, x)) as a single expression node, one of
// two clamp/exp combinations fused directly at the engine level rather
// than going through the ordinary binary caching policy a second time —
// the intermediate clamp is never independently useful and forcing it
// through its own cache entry would buy nothing.
func ExpOfMax[T archx.Float](lo, x Node[T]) Node[T] {
	id := "exp(max(" + lo.ID + "," + x.ID + "))"
	inner := engine.NewBinOp(engine.OpMax, lo.Eng, x.Eng)
	u := engine.NewUnaryStatic(engine.UnaryExp, inner)
	return finishCached(id, u, x)
}

// ExpOfMin builds exp(min(hi, x)), the other permitted fusion.
func ExpOfMin[T archx.Float](hi, x Node[T]) Node[T] {
	id := "exp(min(" + hi.ID + "," + x.ID + "))"
	inner := engine.NewBinOp(engine.OpMin, hi.Eng, x.Eng)
	u := engine.NewUnaryStatic(engine.UnaryExp, inner)
	return finishCached(id, u, x)
}

// finishCached applies the single-operand half of the caching policy to
// a pre-built engine, against the cache of carrier (the node whose
// level governs the fused expression — here, x, since lo/hi are clamp
// bounds rather than the expression's primary operand).
func finishCached[T archx.Float](id string, eng engine.Engine[T], carrier Node[T]) Node[T] {
	if carrier.Cache == nil || carrier.Level() == 0 {
		return Node[T]{Eng: eng, ID: id}
	}
	key := carrier.Cache.HashKey(id)
	dc := engine.NewDelayedCache[T](key, eng, carrier.Cache)
	return Node[T]{Eng: dc, ID: id, Cache: carrier.Cache}
}
