package cache

import (
	"time"

	"github.com/krisalay/lfu-ttl-cache/engine"
	"github.com/krisalay/lfu-ttl-cache/eviction"
	"github.com/krisalay/lfu-ttl-cache/expiration"
	"github.com/krisalay/lfu-ttl-cache/types"
)

/*
LFUCache is a bounded key-value cache with two eviction pressures:
- capacity: when full, the least frequently used key is evicted
- time: an entry expires InvalidationTimeout after its last write

Get, Put and Remove are O(1), apart from the expiry scan eager mode runs
first (see expiration.Eager).

Three structures are kept in step:
- entries: key → value and insertion time
- timeline: keys ordered by insertion time, for the expiry scan
- frequencies: key → frequency bucket, for eviction

They are only ever changed together, by store and delete.

LFUCache is NOT safe for concurrent use. Wrap it in a ShardedCache or guard
it with a single mutex.
*/
type LFUCache[K comparable, V any] struct {
	maxEntries int

	engine *engine.CacheEngine

	entries     map[K]*types.CacheEntry[K, V]
	timeline    *expiration.Timeline[K, V]
	frequencies eviction.Policy[K]
}

// New creates an empty cache. It fails if cfg does not validate.
func New[K comparable, V any](cfg Config) (*LFUCache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &LFUCache[K, V]{
		maxEntries: cfg.MaxEntries,
		engine: engine.NewCacheEngine(
			expiration.ExpireAfterWrite{TTL: cfg.InvalidationTimeout},
			cfg.Purge,
			cfg.Clock,
			cfg.Metrics,
			cfg.Logger,
		),
		entries:     make(map[K]*types.CacheEntry[K, V], cfg.MaxEntries),
		timeline:    expiration.NewTimeline[K, V](),
		frequencies: eviction.NewLFU[K](),
	}, nil
}

// MustNew is like New but panics on an invalid config.
func MustNew[K comparable, V any](cfg Config) *LFUCache[K, V] {
	c, err := New[K, V](cfg)
	if err != nil {
		panic(err)
	}
	return c
}

/*
Get returns the value stored for key and bumps its frequency by one.

An expired key is removed and reported absent, in both purge modes.
*/
func (c *LFUCache[K, V]) Get(key K) (V, bool) {
	if c.engine.EagerPurge() {
		c.purge()
	}

	ent, ok := c.lookup(key)
	if !ok {
		c.engine.OnMiss()
		var zero V
		return zero, false
	}

	c.frequencies.OnGet(key)
	c.engine.OnHit()
	return ent.Value, true
}

/*
Put stores value under key and returns the value it replaced, if any.

A new key enters at frequency 1. When the cache is full, one key is evicted
before the new one is inserted, so the cache never holds more than
MaxEntries. Overwriting a live key never evicts; it resets the key's
frequency to 1 and restarts its TTL.
*/
func (c *LFUCache[K, V]) Put(key K, value V) (V, bool) {
	if c.engine.EagerPurge() {
		c.purge()
	}

	var prev V
	ent, replaced := c.lookup(key)
	if replaced {
		prev = ent.Value
	} else if len(c.entries) >= c.maxEntries {
		c.evict()
	}

	c.store(key, value, c.engine.Now())
	return prev, replaced
}

// Remove deletes key and returns its value. An expired key is deleted too,
// but reported absent.
func (c *LFUCache[K, V]) Remove(key K) (V, bool) {
	if c.engine.EagerPurge() {
		c.purge()
	}

	var zero V

	ent, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	c.delete(ent)
	if c.engine.IsExpired(ent.InsertedAt) {
		c.engine.OnExpire(key)
		return zero, false
	}
	return ent.Value, true
}

/*
Len returns the number of stored entries.

In eager mode expired entries are purged first, so this is the exact live
count. In lazy mode expired entries that nobody touched are still counted.
*/
func (c *LFUCache[K, V]) Len() int {
	if c.engine.EagerPurge() {
		c.purge()
	}
	return len(c.entries)
}

// Cap returns MaxEntries.
func (c *LFUCache[K, V]) Cap() int {
	return c.maxEntries
}

// PurgeInvalidEntries removes every expired entry, in either mode.
// With lazy purging, call it on a timer to bound memory.
func (c *LFUCache[K, V]) PurgeInvalidEntries() {
	c.purge()
}

// Contains reports whether key holds a live entry. Unlike Get it does not
// change the key's frequency.
func (c *LFUCache[K, V]) Contains(key K) bool {
	_, ok := c.Peek(key)
	return ok
}

// Peek returns the value for key without changing its frequency.
// In lazy mode an expired entry is reported absent but left in place.
func (c *LFUCache[K, V]) Peek(key K) (V, bool) {
	if c.engine.EagerPurge() {
		c.purge()
	}

	ent, ok := c.entries[key]
	if !ok || c.engine.IsExpired(ent.InsertedAt) {
		var zero V
		return zero, false
	}
	return ent.Value, true
}

// Keys returns the stored keys, oldest write first.
func (c *LFUCache[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	c.timeline.Each(func(ent *types.CacheEntry[K, V]) bool {
		keys = append(keys, ent.Key)
		return true
	})
	return keys
}

// Range calls fn for every stored entry, oldest write first, until fn
// returns false. Frequencies are not touched. fn must not modify the cache.
func (c *LFUCache[K, V]) Range(fn func(key K, value V) bool) {
	if c.engine.EagerPurge() {
		c.purge()
	}
	c.timeline.Each(func(ent *types.CacheEntry[K, V]) bool {
		return fn(ent.Key, ent.Value)
	})
}

// lookup returns the live entry for key. An expired entry is deleted on the way.
func (c *LFUCache[K, V]) lookup(key K) (*types.CacheEntry[K, V], bool) {
	ent, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.engine.IsExpired(ent.InsertedAt) {
		c.delete(ent)
		c.engine.OnExpire(key)
		return nil, false
	}
	return ent, true
}

/*
purge scans the timeline from the oldest entry and deletes expired entries,
stopping at the first live one: everything after it was written later.
*/
func (c *LFUCache[K, V]) purge() {
	now := c.engine.Now()

	removed := 0
	for {
		ent, ok := c.timeline.Oldest()
		if !ok || !c.engine.IsExpiredAt(ent.InsertedAt, now) {
			break
		}
		c.delete(ent)
		c.engine.OnExpire(ent.Key)
		removed++
	}

	c.engine.OnPurge(removed)
}

// evict deletes the least frequently used key to make room for a new one.
func (c *LFUCache[K, V]) evict() {
	key, ok := c.frequencies.Victim()
	if !ok {
		return
	}

	freq, _ := c.frequencies.Frequency(key)
	c.delete(c.entries[key])
	c.engine.OnEvict(key, freq)
}

// store writes key into all three structures. An existing key keeps its
// entry but moves to the back of the timeline and back to frequency 1.
func (c *LFUCache[K, V]) store(key K, value V, now time.Time) {
	ent, ok := c.entries[key]
	if !ok {
		ent = &types.CacheEntry[K, V]{Key: key}
		c.entries[key] = ent
	}
	ent.Value = value
	ent.InsertedAt = now

	c.timeline.Push(ent)
	c.frequencies.OnPut(key)
}

// delete removes ent from all three structures.
func (c *LFUCache[K, V]) delete(ent *types.CacheEntry[K, V]) {
	delete(c.entries, ent.Key)
	c.timeline.Remove(ent.Key)
	c.frequencies.Remove(ent.Key)
}
