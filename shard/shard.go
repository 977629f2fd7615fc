package shard

import (
	"sync"

	"github.com/jmgilman/go/errors"

	cache "github.com/krisalay/lfu-ttl-cache/api"
)

/*
This file defines what a "Shard" is. A shard is a small, independent piece of the cache.
Instead of having one big cache and one big lock, we split the cache into many shards. Each shard:
- Holds some portion of the keys
- Has its own LFU-TTL engine, so its own frequencies and capacity
- Has its own lock
- Tracks its own in-flight loads

The engine itself is single-threaded; Mu is what makes it safe to share.
*/
type Shard[K comparable, V any] struct {

	// Mu serializes every call into Cache. Even Get needs it:
	// reads change frequencies and may delete expired entries.
	// It also guards inflight.
	Mu sync.Mutex

	// Cache is the engine holding this shard's keys.
	Cache cache.Cache[K, V]

	// inflight holds one call per key currently being loaded.
	// Keys are compared with ==, so distinct keys never share a load.
	inflight map[K]*call[V]
}

// call is one load from the backing store that other goroutines can wait on.
type call[V any] struct {
	wg    sync.WaitGroup
	value V
	found bool
	err   error
}

func NewShard[K comparable, V any](c cache.Cache[K, V]) *Shard[K, V] {
	return &Shard[K, V]{Cache: c, inflight: make(map[K]*call[V])}
}

// Do runs fn with the shard locked.
func (s *Shard[K, V]) Do(fn func(cache.Cache[K, V])) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	fn(s.Cache)
}

/*
Load returns the cached value for key. On a miss it calls load and caches
what it finds.

If 100 goroutines miss the same key at once, only ONE of them calls load.
The others wait and share its result. The loaded value is stored before
the call is released, so a goroutine arriving later hits the cache.
*/
func (s *Shard[K, V]) Load(key K, load func() (V, bool, error)) (V, bool, error) {
	s.Mu.Lock()
	if v, ok := s.Cache.Get(key); ok {
		s.Mu.Unlock()
		return v, true, nil
	}
	if c, ok := s.inflight[key]; ok {
		s.Mu.Unlock()
		c.wg.Wait()
		return c.value, c.found, c.err
	}

	c := &call[V]{err: errors.New(errors.CodeInternal, "load did not return")}
	c.wg.Add(1)
	s.inflight[key] = c
	s.Mu.Unlock()

	defer func() {
		s.Mu.Lock()
		if c.err == nil && c.found {
			s.Cache.Put(key, c.value)
		}
		delete(s.inflight, key)
		s.Mu.Unlock()
		c.wg.Done()
	}()

	c.value, c.found, c.err = load()
	return c.value, c.found, c.err
}
