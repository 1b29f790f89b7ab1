// Package cache implements the calc cache: a level-indexed, per-owner
// store of named intermediate vectors, with hash-key minting.
//
// Go generics can't parameterize a type over a constant cache level the
// way a C++ non-type template parameter can, so level lives as an
// ordinary int field and every method branches on it once, at the top.
// A Cache with Level()==0 is the dummy sentinel: HasKey is always false
// and HashKey always returns "V0", matching a level-0 partial
// specialization in spirit without the compile-time machinery.
package cache

import (
	"strconv"

	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/veceng"
)

// Cache is C<T,L>. Construct with New for a real (level >= 1) cache, or
// Dummy for the level-0 sentinel.
type Cache[T archx.Float] struct {
	id    string
	level int

	store map[string]*veceng.Vector[T]
	order []string // insertion order, for Clear and iteration

	hashed   map[string]uint32 // expression text -> monotone id
	nextHash uint32
}

// New creates an empty cache at the given level (must be >= 1) identified
// by id.
func New[T archx.Float](id string, level int) *Cache[T] {
	if level <= 0 {
		level = 1
	}
	return &Cache[T]{
		id:     id,
		level:  level,
		store:  make(map[string]*veceng.Vector[T]),
		hashed: make(map[string]uint32),
	}
}

// Dummy returns the level-0 sentinel cache: it never retains anything
// and every hash key it mints is the constant "V0".
func Dummy[T archx.Float]() *Cache[T] {
	return &Cache[T]{level: 0}
}

// ID returns the cache's own identifier.
func (c *Cache[T]) ID() string { return c.id }

// SetID changes the cache's identifier.
func (c *Cache[T]) SetID(id string) { c.id = id }

// Level returns the cache level; 0 marks the dummy sentinel.
func (c *Cache[T]) Level() int { return c.level }

// HasKey reports whether key is currently stored. Always false for the
// level-0 sentinel.
func (c *Cache[T]) HasKey(key string) bool {
	if c.level == 0 {
		return false
	}
	_, ok := c.store[key]
	return ok
}

// Get returns the vector stored under key, if any.
func (c *Cache[T]) Get(key string) (*veceng.Vector[T], bool) {
	if c.level == 0 {
		return nil, false
	}
	v, ok := c.store[key]
	return v, ok
}

// Insert stores v under key, replacing any existing entry for that key.
// A no-op on the level-0 sentinel.
func (c *Cache[T]) Insert(key string, v *veceng.Vector[T]) {
	if c.level == 0 {
		return
	}
	if _, exists := c.store[key]; !exists {
		c.order = append(c.order, key)
	}
	c.store[key] = v
}

// Keys returns the stored keys in insertion order.
func (c *Cache[T]) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of entries currently stored.
func (c *Cache[T]) Len() int { return len(c.store) }

// HashKey mints (or returns the previously minted) opaque token for the
// textual expression s. Tokens are "X" followed by a monotone counter,
// hex-encoded least-significant-nibble first: the first string ever
// hashed in a cache instance gets "X1", the second "X2", and so on, so
// equal strings always map to equal tokens within one cache and
// distinct strings never collide. The level-0 sentinel always returns
// "V0" without counting anything.
func (c *Cache[T]) HashKey(s string) string {
	if c.level == 0 {
		return "V0"
	}
	if id, ok := c.hashed[s]; ok {
		return encodeHash(id)
	}
	c.nextHash++
	c.hashed[s] = c.nextHash
	return encodeHash(c.nextHash)
}

func encodeHash(k uint32) string {
	const digits = "0123456789abcdef"
	if k == 0 {
		return "X0"
	}
	var nibbles []byte
	for k > 0 {
		nibbles = append(nibbles, digits[k&0xf])
		k >>= 4
	}
	return "X" + string(nibbles)
}

// Clear destroys every stored value, in insertion order, and resets the
// cache to empty. Hash-key history (for stable repeat tokens) survives a
// clear: it lives in a separate map from the stored values.
func (c *Cache[T]) Clear() {
	if c.level == 0 {
		return
	}
	for _, k := range c.order {
		delete(c.store, k)
	}
	c.order = nil
}

// Clone returns a new cache with the same id and level, deep-copying
// every currently stored vector.
func (c *Cache[T]) Clone() *Cache[T] {
	if c.level == 0 {
		return Dummy[T]()
	}
	out := New[T](c.id, c.level)
	for _, k := range c.order {
		out.store[k] = c.store[k].Clone()
		out.order = append(out.order, k)
	}
	for s, id := range c.hashed {
		out.hashed[s] = id
	}
	out.nextHash = c.nextHash
	return out
}

// ChooseStronger returns whichever of a, b has the smaller (i.e.
// stronger/more-local) cache level. It implements the "choose the
// smaller of the two cache levels" half of the binary-operator caching
// policy without needing compile-time dispatch: the decision is one
// branch on two plain ints.
func ChooseStronger[T archx.Float](a, b *Cache[T]) *Cache[T] {
	if a.level <= b.level {
		return a
	}
	return b
}

// LevelString renders a level for diagnostics/ids.
func LevelString(level int) string { return strconv.Itoa(level) }
