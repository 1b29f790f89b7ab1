package engine

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/cache"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

// DelayedCache wraps an inner engine with a cache key, evaluating and
// inserting into the cache only when Force is called rather than
// eagerly at construction: the "same cache level"
// branch of the binary-operator policy produces one of these instead of
// evaluating immediately, so a long chain of same-level operations
// builds its whole tree lazily and only pays the materialisation cost
// once, at Force, rather than once per intermediate node.
//
// Reads never force: until Force is called, Read and Packed compute
// through the inner engine. Force is idempotent and safe to call more
// than once (e.g. from package ops and again from calcvector.Assign):
// the second call is a no-op once the key is already present.
type DelayedCache[T archx.Float] struct {
	key   string
	inner Engine[T]
	c     *cache.Cache[T]
	// materialised is nil until Force succeeds (or is set at construction
	// when the cache already holds key); afterwards every read delegates
	// to it instead of recomputing via inner.
	materialised *veceng.Vector[T]
}

// NewDelayedCache builds a delayed cache node. key must already be
// minted (by a cache's HashKey) by the caller; this type does not mint
// its own keys since id construction is an operator-level concern,
// not an engine-level one.
func NewDelayedCache[T archx.Float](key string, inner Engine[T], c *cache.Cache[T]) *DelayedCache[T] {
	d := &DelayedCache[T]{key: key, inner: inner, c: c}
	if v, ok := c.Get(key); ok {
		d.materialised = v
	}
	return d
}

// Key returns this node's cache key.
func (d *DelayedCache[T]) Key() string { return d.key }

// Forced reports whether this node has already been materialised into
// its cache.
func (d *DelayedCache[T]) Forced() bool { return d.materialised != nil }

// Force evaluates the inner engine in full, lane by lane via Packed for
// the bulk of the range, and inserts the result into the cache under
// this node's key. Once forced, Read and Packed delegate to the stored
// vector rather than recomputing through inner.
func (d *DelayedCache[T]) Force() *veceng.Vector[T] {
	if d.materialised != nil {
		return d.materialised
	}
	if v, ok := d.c.Get(d.key); ok {
		d.materialised = v
		return v
	}
	n := d.inner.Size()
	v, err := veceng.New[T](d.inner.StartDate(), n)
	if err != nil {
		panic(err)
	}
	for i := 0; i < n; {
		p := d.inner.Packed(i)
		if len(p) == 0 {
			v.Write(i, d.inner.Read(i))
			i++
			continue
		}
		v.SetPacked(i, p)
		i += len(p)
	}
	d.c.Insert(d.key, v)
	d.materialised = v
	return v
}

func (d *DelayedCache[T]) Size() int            { return d.inner.Size() }
func (d *DelayedCache[T]) StartDate() date.Date { return d.inner.StartDate() }

func (d *DelayedCache[T]) Read(i int) T {
	if d.materialised != nil {
		return d.materialised.Read(i)
	}
	return d.inner.Read(i)
}

func (d *DelayedCache[T]) Packed(i int) []T {
	if d.materialised != nil {
		return d.materialised.Packed(i)
	}
	return d.inner.Packed(i)
}

func (d *DelayedCache[T]) DependsOn(v *veceng.Vector[T]) bool {
	if d.materialised != nil && d.materialised == v {
		return true
	}
	return d.inner.DependsOn(v)
}

func (d *DelayedCache[T]) AddGuard(owner any) {
	if d.materialised != nil {
		d.materialised.AddGuard(owner)
		return
	}
	if g, ok := d.inner.(Guardable[T]); ok {
		g.AddGuard(owner)
	}
}

func (d *DelayedCache[T]) RemoveGuard(owner any) {
	if d.materialised != nil {
		d.materialised.RemoveGuard(owner)
		return
	}
	if g, ok := d.inner.(Guardable[T]); ok {
		g.RemoveGuard(owner)
	}
}
