package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jmgilman/go/errors"
	"golang.org/x/sync/errgroup"

	api "github.com/krisalay/lfu-ttl-cache/api"
	"github.com/krisalay/lfu-ttl-cache/shard"
	"github.com/krisalay/lfu-ttl-cache/types"
	"github.com/krisalay/lfu-ttl-cache/writepolicy"
)

var (
	_ api.Cache[string, int]           = (*LFUCache[string, int])(nil)
	_ api.ConcurrentCache[string, int] = (*ShardedCache[string, int])(nil)
)

/*
ShardedCache makes the single-threaded LFU-TTL engine safe for concurrent use.
This struct is the orchestrator that connects:
- shards (one engine + one mutex each)
- read-through loading from a backing store
- write policies
- a background purge janitor

Capacity is divided across shards, and each shard runs LFU over its own
keys only. Eviction is therefore least-frequently-used per shard, not
across the whole cache.
*/
type ShardedCache[K comparable, V any] struct {
	// shards are the actual storage units. Each shard is an independent mini-cache.
	shards []*shard.Shard[K, V]

	// selector decides which shard a key should go to.
	selector shard.Selector[K, V]

	// loader is the optional backing store for read-through.
	loader types.Loader[K, V]

	// writePolicy is the optional write-through / write-back policy.
	writePolicy writepolicy.WritePolicy[K, V]

	// mu guards closed and stopJanitor.
	mu          sync.Mutex
	closed      bool
	stopJanitor context.CancelFunc
	janitorWG   sync.WaitGroup
	closeOnce   sync.Once
}

/*
NewShardedCache splits cfg.MaxEntries across the given number of shards.
loader and writePolicy may be nil. cfg.Metrics is shared by every shard and
must be safe for concurrent use (types.Counters is).
*/
func NewShardedCache[K comparable, V any](
	shards int,
	cfg Config,
	loader types.Loader[K, V],
	writePolicy writepolicy.WritePolicy[K, V],
) (*ShardedCache[K, V], error) {
	if shards <= 0 {
		return nil, errors.Newf(errors.CodeInvalidConfig, "shard count must be positive, got %d", shards)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxEntries < shards {
		return nil, errors.Newf(errors.CodeInvalidConfig,
			"max entries (%d) must be at least the shard count (%d)", cfg.MaxEntries, shards)
	}

	// Spread the remainder over the first shards so the total is exact.
	base, rem := cfg.MaxEntries/shards, cfg.MaxEntries%shards

	s := make([]*shard.Shard[K, V], shards)
	for i := range s {
		shardCfg := cfg
		shardCfg.MaxEntries = base
		if i < rem {
			shardCfg.MaxEntries++
		}

		engine, err := New[K, V](shardCfg)
		if err != nil {
			return nil, err
		}
		s[i] = shard.NewShard[K, V](engine)
	}

	return &ShardedCache[K, V]{
		shards:      s,
		selector:    shard.NewHashSelector[K, V](),
		loader:      loader,
		writePolicy: writePolicy,
	}, nil
}

/*
Get retrieves a value from the cache.
On a miss, the loader (if any) is asked for the value. Concurrent misses on
the same key share one load; see shard.Shard.Load.
*/
func (c *ShardedCache[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	sh := c.selector.Select(key, c.shards)

	if c.loader == nil {
		var (
			value V
			ok    bool
		)
		sh.Do(func(e api.Cache[K, V]) { value, ok = e.Get(key) })
		return value, ok, nil
	}

	// The value came from the store, so it is not written back.
	value, ok, err := sh.Load(key, func() (V, bool, error) {
		return c.loader.Load(ctx, key)
	})
	if err != nil {
		var zero V
		return zero, false, errors.Wrapf(err, errors.CodeUnavailable, "loading key %v", key)
	}
	return value, ok, nil
}

/*
Put stores a value in its shard, then hands the write to the write policy.
*/
func (c *ShardedCache[K, V]) Put(ctx context.Context, key K, value V) (V, bool) {
	sh := c.selector.Select(key, c.shards)

	var (
		prev     V
		replaced bool
	)
	sh.Do(func(e api.Cache[K, V]) { prev, replaced = e.Put(key, value) })

	if c.writePolicy != nil {
		c.writePolicy.OnWrite(ctx, key, value)
	}
	return prev, replaced
}

/*
Remove deletes a key from the cache immediately.
*/
func (c *ShardedCache[K, V]) Remove(key K) (V, bool) {
	sh := c.selector.Select(key, c.shards)

	var (
		value V
		ok    bool
	)
	sh.Do(func(e api.Cache[K, V]) { value, ok = e.Remove(key) })
	return value, ok
}

// Len is the sum of the shard lengths. Shards are locked one at a time,
// so under concurrent writes the result is approximate.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for _, sh := range c.shards {
		sh.Do(func(e api.Cache[K, V]) { total += e.Len() })
	}
	return total
}

// PurgeInvalidEntries purges every shard, in parallel.
func (c *ShardedCache[K, V]) PurgeInvalidEntries() {
	var g errgroup.Group
	for _, sh := range c.shards {
		g.Go(func() error {
			sh.Do(func(e api.Cache[K, V]) { e.PurgeInvalidEntries() })
			return nil
		})
	}
	_ = g.Wait()
}

/*
StartJanitor purges expired entries every interval until Close.
This is what keeps memory bounded in lazy purge mode. Calling it again
while a janitor runs does nothing. It fails on a non-positive interval or
once the cache is closed.
*/
func (c *ShardedCache[K, V]) StartJanitor(interval time.Duration) error {
	if interval <= 0 {
		return errors.Newf(errors.CodeInvalidInput, "janitor interval must be positive, got %s", interval)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.New(errors.CodeUnavailable, "cache is closed")
	}
	if c.stopJanitor != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.stopJanitor = cancel

	c.janitorWG.Add(1)
	go func() {
		defer c.janitorWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.PurgeInvalidEntries()
			}
		}
	}()
	return nil
}

/*
Close gracefully shuts down the cache.
The janitor is stopped and pending write-back operations are flushed.
No janitor can be started afterwards.
*/
func (c *ShardedCache[K, V]) Close() {
	c.mu.Lock()
	c.closed = true
	stop := c.stopJanitor
	c.mu.Unlock()

	c.closeOnce.Do(func() {
		if stop != nil {
			stop()
		}
		c.janitorWG.Wait()

		if c.writePolicy != nil {
			c.writePolicy.Close()
		}
	})
}
