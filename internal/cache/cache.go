// Package cache implements the optional, bounded memoization cache §5
// permits ("an implementer MAY add a pure memoization cache keyed by
// (expression, env hash), but it must be bounded and correctness must not
// depend on its presence"). Keys are hashed with blake2b rather than
// compared as raw strings, the same choice the teacher makes for its
// user-credential hashing (golang.org/x/crypto) — applied here to a
// different subpackage for an in-scope, non-auth purpose: collapsing a
// (expression, environment) pair to a fixed-size cache key.
package cache

import (
	"encoding/binary"
	"math"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/ashgrove/formulang/internal/eval"
)

// Key is a blake2b-256 digest identifying one (expression, environment)
// pair.
type Key [32]byte

// KeyFor hashes expression together with the variables referenced from env,
// sorted by name so that key order never affects the digest.
func KeyFor(expression string, env *eval.Environment, referenced []string) Key {
	h, _ := blake2b.New256(nil) // nil key, fixed-size output: never errors
	h.Write([]byte(expression))

	names := append([]string{}, referenced...)
	sort.Strings(names)
	for _, name := range names {
		h.Write([]byte{0}) // separator, guards against name concatenation collisions
		h.Write([]byte(name))
		v := env.Variables[name]
		h.Write(boolByte(v.IsBool))
		if v.IsBool {
			h.Write(boolByte(v.Bool))
		} else {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.Num))
			h.Write(buf[:])
		}
	}

	var out Key
	copy(out[:], h.Sum(nil))
	return out
}

func boolByte(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

// Cache is a bounded, not-thread-safe memoization table from Key to an
// already-evaluated Value. Eviction is strict FIFO by insertion order —
// simple, and sufficient for a cache whose presence must never change
// program correctness, only repeated-evaluation cost.
type Cache struct {
	capacity int
	order    []Key
	entries  map[Key]eval.Value
}

// New builds a Cache that holds at most capacity entries. A non-positive
// capacity disables storage: Get always misses, Put is a no-op.
func New(capacity int) *Cache {
	return &Cache{capacity: capacity, entries: map[Key]eval.Value{}}
}

func (c *Cache) Get(k Key) (eval.Value, bool) {
	v, ok := c.entries[k]
	return v, ok
}

func (c *Cache) Put(k Key, v eval.Value) {
	if c.capacity <= 0 {
		return
	}
	if _, exists := c.entries[k]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, k)
	}
	c.entries[k] = v
}

// Len reports how many entries are currently cached.
func (c *Cache) Len() int { return len(c.entries) }
