// Package calcvector implements the calc-vector facade: the
// user-facing handle wrapping an expression tree of package engine
// nodes, composed via package ops, and backed by a package cache calc
// cache. It is the surface most calculations are written against.
package calcvector

import (
	"fmt"
	"io"

	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/cache"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/engine"
	"github.com/meenmo/tachygo/ops"
	"github.com/meenmo/tachygo/tachyerr"
	"github.com/meenmo/tachygo/veceng"
)

// CalcVector is the facade type calculations are built from. It always
// carries a current expression (node) that can be read like any other
// engine; it additionally owns real storage once constructed directly
// from values, or once Commit has materialised a lazy expression.
//
// A destructor-based design could insert a calc vector's value into the
// cache automatically once it goes out of scope. Go has no equivalent
// hook, so that insertion becomes the explicit Commit method here: call
// it once a lazily-built expression's value needs to survive
// independently of the expression tree that produced it.
type CalcVector[T archx.Float] struct {
	id      string
	cache   *cache.Cache[T]
	node    ops.Node[T]
	owned   *veceng.Vector[T]
	dropped bool
}

// New constructs a calc vector directly from values, anchored at
// startDate, identified by id. If c is non-nil and carries a real
// (level >= 1) cache that already has an entry under id, construction
// fails with ErrDuplicateKey. When doCache is true and c is
// a real cache, the new vector is inserted under id immediately; when
// false, construction succeeds but the vector is not inserted into c,
// and a later Commit does not insert it either, since the calc vector
// already owns its storage.
func New[T archx.Float](id string, startDate date.Date, values []T, c *cache.Cache[T], doCache bool) (*CalcVector[T], error) {
	if c != nil && c.Level() > 0 && c.HasKey(id) {
		return nil, fmt.Errorf("calcvector %q: %w", id, tachyerr.ErrDuplicateKey)
	}
	v, err := veceng.NewFromValues(startDate, values)
	if err != nil {
		return nil, err
	}
	if doCache && c != nil && c.Level() > 0 {
		c.Insert(id, v)
	}
	stored := engine.NewStored(v)
	return &CalcVector[T]{
		id:    id,
		cache: c,
		node:  ops.Stored[T](stored, id, c),
		owned: v,
	}, nil
}

// NewZeros is New with a zero-filled size-n buffer in place of explicit
// values.
func NewZeros[T archx.Float](id string, startDate date.Date, size int, c *cache.Cache[T], doCache bool) (*CalcVector[T], error) {
	if c != nil && c.Level() > 0 && c.HasKey(id) {
		return nil, fmt.Errorf("calcvector %q: %w", id, tachyerr.ErrDuplicateKey)
	}
	v, err := veceng.New[T](startDate, size)
	if err != nil {
		return nil, err
	}
	if doCache && c != nil && c.Level() > 0 {
		c.Insert(id, v)
	}
	stored := engine.NewStored(v)
	return &CalcVector[T]{
		id:    id,
		cache: c,
		node:  ops.Stored[T](stored, id, c),
		owned: v,
	}, nil
}

// FromExpr wraps an already-built expression node (the result of
// composing other calc vectors through package ops) under a fresh id
// and cache, without forcing it: the calc vector stays purely lazy
// until something reads through it or Commit is called.
func FromExpr[T archx.Float](id string, n ops.Node[T], c *cache.Cache[T]) (*CalcVector[T], error) {
	if c != nil && c.Level() > 0 && c.HasKey(id) {
		return nil, fmt.Errorf("calcvector %q: %w", id, tachyerr.ErrDuplicateKey)
	}
	return &CalcVector[T]{id: id, cache: c, node: ops.Node[T]{Eng: n.Eng, ID: id, Cache: c}}, nil
}

// Node returns the current expression node, for composing into further
// ops calls (e.g. ops.Add(a.Node(), b.Node())).
func (cv *CalcVector[T]) Node() ops.Node[T] { return cv.node }

func (cv *CalcVector[T]) Size() int            { return cv.node.Eng.Size() }
func (cv *CalcVector[T]) StartDate() date.Date { return cv.node.Eng.StartDate() }
func (cv *CalcVector[T]) Read(i int) T         { return cv.node.Eng.Read(i) }
func (cv *CalcVector[T]) Packed(i int) []T     { return cv.node.Eng.Packed(i) }
func (cv *CalcVector[T]) DependsOn(v *veceng.Vector[T]) bool {
	return cv.node.Eng.DependsOn(v)
}

// ID returns the identifier this calc vector was constructed or wrapped
// under.
func (cv *CalcVector[T]) ID() string { return cv.id }

// Owned reports whether this calc vector currently holds real storage
// (built directly, or by a prior Commit) rather than a purely lazy
// expression.
func (cv *CalcVector[T]) Owned() bool { return cv.owned != nil }

// Commit materialises the current expression into owned storage and,
// if this calc vector carries a real cache, inserts it there under its
// id. It is idempotent: calling it again once already owned is a no-op
// that returns the existing vector.
func (cv *CalcVector[T]) Commit() *veceng.Vector[T] {
	if cv.owned != nil {
		return cv.owned
	}
	eng := cv.node.Eng
	n := eng.Size()
	v, err := veceng.New[T](eng.StartDate(), n)
	if err != nil {
		panic(err)
	}
	for i := 0; i < n; {
		p := eng.Packed(i)
		if len(p) == 0 {
			v.Write(i, eng.Read(i))
			i++
			continue
		}
		v.SetPacked(i, p)
		i += len(p)
	}
	if cv.cache != nil && cv.cache.Level() > 0 {
		cv.cache.Insert(cv.id, v)
	}
	cv.owned = v
	cv.node = ops.Stored[T](engine.NewStored(v), cv.id, cv.cache)
	return v
}

// Lag returns a new expression node reading this calc vector shifted by
// shift months, and the underlying Lag engine so the caller can Close
// it once done. A positive shift into a self-referential
// assignment (see Assign) is what the aliasing guard protects.
func (cv *CalcVector[T]) Lag(shift int, checked bool) (ops.Node[T], *engine.Lag[T]) {
	return ops.Lag[T](cv.node, shift, checked)
}

// Assign overwrites this calc vector's owned values with rhs's, month
// by month. It requires owned storage: a purely lazy calc
// vector has nothing to overwrite and must be Commit-ed first.
//
// Assigning into a vector already published in a real cache under its
// own id is refused with ErrCachedReassign: once another expression may
// have read (and possibly cached a result derived from) this vector's
// current values, mutating it in place would silently invalidate
// whatever already depends on it.
//
// If this vector's storage is guarded (i.e. some live Lag reads it,
// typically because rhs was itself built from a Lag of cv, as in a
// month-over-month recurrence v[t] = f(v[t-1])), the write proceeds
// strictly in ascending index order, one scalar at a time, so every
// lagged read of an earlier index observes that index's *new* value
// before the write moves on — the same ordering contract a plain
// left-to-right evaluation would get for free. An unguarded rhs writes
// in packed chunks instead, since there is no self-reference to order
// around.
//
// If rhs reports fewer elements than cv owns, the last value rhs
// produced is carried forward to fill the remaining tail.
func (cv *CalcVector[T]) Assign(rhs ops.Node[T]) error {
	if cv.owned == nil {
		return fmt.Errorf("calcvector %q: assign requires committed storage: %w", cv.id, tachyerr.ErrCachedReassign)
	}
	if cv.cache != nil && cv.cache.Level() > 0 && cv.cache.HasKey(cv.id) {
		return fmt.Errorf("calcvector %q: %w", cv.id, tachyerr.ErrCachedReassign)
	}
	if dc, ok := rhs.Eng.(*engine.DelayedCache[T]); ok {
		dc.Force()
	}

	n := cv.owned.Size()
	src := rhs.Eng
	m := src.Size()
	guarded := cv.owned.IsGuarded()

	// rhs may be anchored at a different start date than this calc
	// vector's owned storage; align the two windows before writing so
	// index i_tgt in owned receives index i_src in rhs, not raw index i.
	delta := src.StartDate().Sub(cv.owned.StartDate())
	iTgt := delta
	if iTgt < 0 {
		iTgt = 0
	}
	iSrc := -delta
	if iSrc < 0 {
		iSrc = 0
	}
	limit := n - iTgt
	if rem := m - iSrc; rem < limit {
		limit = rem
	}
	if limit < 0 {
		limit = 0
	}

	if guarded {
		for k := 0; k < limit; k++ {
			cv.owned.Write(iTgt+k, src.Read(iSrc+k))
		}
	} else {
		for k := 0; k < limit; {
			p := src.Packed(iSrc + k)
			w := len(p)
			if w == 0 {
				cv.owned.Write(iTgt+k, src.Read(iSrc+k))
				k++
				continue
			}
			if k+w > limit {
				w = limit - k
				p = p[:w]
			}
			cv.owned.SetPacked(iTgt+k, p)
			k += w
		}
	}

	if limit > 0 && iTgt+limit < n {
		last := cv.owned.Read(iTgt + limit - 1)
		for i := iTgt + limit; i < n; i++ {
			cv.owned.Write(i, last)
		}
	}
	return nil
}

// Drop marks this calc vector as no longer needed by its owner. It is
// idempotent and does not remove the vector from its cache (other
// expressions may still hold and rely on that entry); it exists so call
// sites can document intent explicitly, the same way Keep documents the
// opposite intent, in place of the scope-exit timing a destructor-based
// design would rely on.
func (cv *CalcVector[T]) Drop() { cv.dropped = true }

// Keep is Drop's complement: it clears the dropped mark, documenting
// that this handle's value must survive past the current scope.
func (cv *CalcVector[T]) Keep() { cv.dropped = false }

// Dropped reports whether Drop was the last of Drop/Keep called.
func (cv *CalcVector[T]) Dropped() bool { return cv.dropped }

// DebugPrint writes a one-line summary of this calc vector's identity,
// window, and leading values to w.
func (cv *CalcVector[T]) DebugPrint(w io.Writer) {
	n := cv.Size()
	shown := n
	if shown > 6 {
		shown = 6
	}
	fmt.Fprintf(w, "%s start=%s size=%d level=%s values=[", cv.id, cv.StartDate(), n, cache.LevelString(cv.levelOrZero()))
	for i := 0; i < shown; i++ {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%v", cv.Read(i))
	}
	if shown < n {
		fmt.Fprint(w, " ...")
	}
	fmt.Fprintln(w, "]")
}

func (cv *CalcVector[T]) levelOrZero() int {
	if cv.cache == nil {
		return 0
	}
	return cv.cache.Level()
}
