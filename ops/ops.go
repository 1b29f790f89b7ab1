// Package ops implements the expression operators: the
// overloaded-operator equivalents that compose engine.Engine values into
// new ones, deciding as they do whether the result is left lazy,
// wrapped in a delayed cache, or evaluated eagerly into a stronger
// cache. The same binary-operator caching policy is
// applied uniformly to every arithmetic and clamp operator rather than
// re-implemented per call site.
package ops

import (
	"math"
	"strconv"

	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/cache"
	"github.com/meenmo/tachygo/engine"
	"github.com/meenmo/tachygo/scalarid"
)

// infiniteLevel stands in for the "scalar operands are level-∞" rule: a
// scalar never wins ChooseStronger against a real vector, and two
// scalars never collide on the "same level" branch of the policy the
// way two same-level vectors do.
const infiniteLevel = math.MaxInt32

// Node is one point in an expression tree: an engine to read through,
// the textual id used both for display and for minting cache keys, and
// the cache (if any) results at this level get materialised into. A nil
// Cache marks a scalar or otherwise cache-less leaf and reports
// infiniteLevel.
type Node[T archx.Float] struct {
	Eng   engine.Engine[T]
	ID    string
	Cache *cache.Cache[T]
}

// Level reports the node's cache level, or infiniteLevel if it carries
// no cache (a scalar leaf).
func (n Node[T]) Level() int {
	if n.Cache == nil {
		return infiniteLevel
	}
	return n.Cache.Level()
}

// Scalar builds a cache-less leaf node wrapping a constant.
func Scalar[T archx.Float](x T) Node[T] {
	return Node[T]{Eng: engine.NewScalar(x), ID: formatScalar(x)}
}

// Stored builds a leaf node over an existing engine, e.g. one produced
// by package calcvector, carrying its own id and cache.
func Stored[T archx.Float](eng engine.Engine[T], id string, c *cache.Cache[T]) Node[T] {
	return Node[T]{Eng: eng, ID: id, Cache: c}
}

func formatScalar[T archx.Float](x T) string {
	if v, ok := any(x).(float32); ok {
		return scalarid.OfFloat32(v)
	}
	return scalarid.Of(float64(x))
}

// binary applies op to a and b under the binary-operator caching policy:
//
//   - both level 0 (or both cache-less): the BinOp is returned
//     unwrapped, read lazily on every access.
//   - equal nonzero levels: the BinOp is wrapped in a DelayedCache keyed
//     on the new node's id, against that shared level's cache, and left
//     unforced — a chain of same-level operations builds up lazily and
//     materialises only once something downstream calls Force.
//   - different levels (including either operand being a cache-less
//     scalar, whose level is treated as infinite): the BinOp is forced
//     immediately into the stronger (smaller-numbered) of the two
//     caches and the result handed back already memoised. When the
//     stronger cache is the level-0 sentinel, nothing can be cached, so
//     the BinOp is returned unwrapped exactly as in the both-level-0 case.
func binary[T archx.Float](op engine.Op, a, b Node[T]) Node[T] {
	id := "(" + a.ID + op.Symbol() + b.ID + ")"
	bo := engine.NewBinOp(op, a.Eng, b.Eng)

	la, lb := a.Level(), b.Level()
	switch {
	case la == 0 && lb == 0:
		return Node[T]{Eng: bo, ID: id}
	case la == infiniteLevel && lb == infiniteLevel:
		return Node[T]{Eng: bo, ID: id}
	case la == lb:
		key := a.Cache.HashKey(id)
		dc := engine.NewDelayedCache[T](key, bo, a.Cache)
		return Node[T]{Eng: dc, ID: id, Cache: a.Cache}
	default:
		stronger := a.Cache
		if la == infiniteLevel {
			stronger = b.Cache
		} else if lb == infiniteLevel {
			stronger = a.Cache
		} else {
			stronger = cache.ChooseStronger(a.Cache, b.Cache)
		}
		if stronger.Level() == 0 {
			return Node[T]{Eng: bo, ID: id}
		}
		key := stronger.HashKey(id)
		dc := engine.NewDelayedCache[T](key, bo, stronger)
		v := dc.Force()
		mem := engine.NewMemoised[T](v, key, stronger.Level())
		return Node[T]{Eng: mem, ID: id, Cache: stronger}
	}
}

// Add, Sub, Mul, Div are the arithmetic expression operators.
func Add[T archx.Float](a, b Node[T]) Node[T] { return binary(engine.OpAdd, a, b) }
func Sub[T archx.Float](a, b Node[T]) Node[T] { return binary(engine.OpSub, a, b) }
func Mul[T archx.Float](a, b Node[T]) Node[T] { return binary(engine.OpMul, a, b) }
func Div[T archx.Float](a, b Node[T]) Node[T] { return binary(engine.OpDiv, a, b) }

// unary applies a static unary functor to a. With a real (level >= 1)
// cache on a, the result is wrapped in an unforced DelayedCache against
// that cache, like the same-level branch of binary; otherwise it is left
// uncached. It never materialises eagerly, since there is only ever one
// input cache level to compare against itself.
func unary[T archx.Float](op engine.UnaryOp, a Node[T]) Node[T] {
	id := op.String() + "(" + a.ID + ")"
	u := engine.NewUnaryStatic(op, a.Eng)
	if a.Cache == nil || a.Level() == 0 {
		return Node[T]{Eng: u, ID: id}
	}
	key := a.Cache.HashKey(id)
	dc := engine.NewDelayedCache[T](key, u, a.Cache)
	return Node[T]{Eng: dc, ID: id, Cache: a.Cache}
}

// Neg, Abs, Exp, Log, Sqrt are the unary expression operators.
func Neg[T archx.Float](a Node[T]) Node[T]  { return unary(engine.UnaryNeg, a) }
func Abs[T archx.Float](a Node[T]) Node[T]  { return unary(engine.UnaryAbs, a) }
func Exp[T archx.Float](a Node[T]) Node[T]  { return unary(engine.UnaryExp, a) }
func Log[T archx.Float](a Node[T]) Node[T]  { return unary(engine.UnaryLog, a) }
func Sqrt[T archx.Float](a Node[T]) Node[T] { return unary(engine.UnarySqrt, a) }

// Lag applies a time shift of shift months to a, registering a into the
// aliasing guard if a exposes one. The returned Node's
// engine is the *engine.Lag itself so its Close method remains
// reachable to callers that need to release the guard explicitly.
func Lag[T archx.Float](a Node[T], shift int, checked bool) (Node[T], *engine.Lag[T]) {
	l := engine.NewLag(a.Eng, shift, checked)
	id := a.ID + "[" + signedShift(shift) + "]"
	return Node[T]{Eng: l, ID: id, Cache: a.Cache}, l
}

func signedShift(shift int) string {
	if shift >= 0 {
		return "+" + strconv.Itoa(shift)
	}
	return strconv.Itoa(shift)
}
