package cache_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/krisalay/lfu-ttl-cache"
	"github.com/krisalay/lfu-ttl-cache/expiration"
	"github.com/krisalay/lfu-ttl-cache/writepolicy"
)

//
// ================= TEST BACKING STORE =================
//

type TestStore struct {
	mu      sync.RWMutex
	data    map[string]string
	loads   atomic.Int64
	loadErr error
}

func NewTestStore() *TestStore {
	return &TestStore{data: make(map[string]string)}
}

func (s *TestStore) Load(ctx context.Context, key string) (string, bool, error) {
	s.loads.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loadErr != nil {
		return "", false, s.loadErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *TestStore) Put(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *TestStore) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

//
// ================= HELPER: CREATE CACHE (WRITE-BACK MODE) =================
//

func newShardedTestCache(t *testing.T, capacity int) (*cache.ShardedCache[string, string], *TestStore) {
	t.Helper()

	store := NewTestStore()

	cfg := cache.DefaultConfig()
	cfg.MaxEntries = capacity
	cfg.InvalidationTimeout = 10 * time.Second

	c, err := cache.NewShardedCache[string, string](
		2, // shards
		cfg,
		store,
		writepolicy.NewWriteBackPolicy[string, string](store, 1024, nil),
	)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c, store
}

//
// ================= CONSTRUCTION =================
//

func TestNewShardedCacheRejectsInvalidConfig(t *testing.T) {
	cfg := cache.DefaultConfig()

	_, err := cache.NewShardedCache[string, string](0, cfg, nil, nil)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	cfg.MaxEntries = 3
	_, err = cache.NewShardedCache[string, string](4, cfg, nil, nil)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	cfg.MaxEntries = 0
	_, err = cache.NewShardedCache[string, string](1, cfg, nil, nil)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

//
// ================= BASIC OPERATIONS =================
//

func TestShardedAddAndRetrieve(t *testing.T) {
	ctx := context.Background()
	c, _ := newShardedTestCache(t, 10)

	_, replaced := c.Put(ctx, "key1", "value1")
	assert.False(t, replaced)

	v, ok, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value1", v)

	prev, replaced := c.Put(ctx, "key1", "value2")
	assert.True(t, replaced)
	assert.Equal(t, "value1", prev)
}

func TestShardedReadThrough(t *testing.T) {
	ctx := context.Background()
	c, store := newShardedTestCache(t, 10)

	// backing store has value
	store.data["keyX"] = "store-value"

	v, ok, err := c.Get(ctx, "keyX")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "store-value", v)

	// second read is served from memory
	_, _, _ = c.Get(ctx, "keyX")
	assert.Equal(t, int64(1), store.loads.Load())

	// missing in both cache and store
	v, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestShardedLoadErrorIsWrapped(t *testing.T) {
	ctx := context.Background()
	c, store := newShardedTestCache(t, 10)

	cause := stderrors.New("connection refused")
	store.loadErr = cause

	_, ok, err := c.Get(ctx, "key")
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
}

type pairKey struct{ A, B string }

// gatedLoader reports every load on started and blocks until gate closes.
type gatedLoader struct {
	started chan pairKey
	gate    chan struct{}
	loads   atomic.Int64
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{started: make(chan pairKey, 16), gate: make(chan struct{})}
}

func (l *gatedLoader) Load(ctx context.Context, key pairKey) (string, bool, error) {
	l.loads.Add(1)
	l.started <- key
	<-l.gate
	return key.A + "|" + key.B, true, nil
}

func (l *gatedLoader) Put(ctx context.Context, key pairKey, value string) error {
	return nil
}

func TestShardedConcurrentLoadsKeepDistinctKeysApart(t *testing.T) {
	ctx := context.Background()
	loader := newGatedLoader()

	cfg := cache.DefaultConfig()
	cfg.MaxEntries = 10

	// One shard so both keys also share a lock.
	c, err := cache.NewShardedCache[pairKey, string](1, cfg, loader, nil)
	require.NoError(t, err)
	defer c.Close()

	// Both keys print as "{a b }" with %v.
	keys := []pairKey{{A: "a b", B: ""}, {A: "a", B: "b "}}
	require.Equal(t, fmt.Sprint(keys[0]), fmt.Sprint(keys[1]))

	results := make([]string, len(keys))
	var wg sync.WaitGroup
	for i, k := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok, err := c.Get(ctx, k)
			assert.NoError(t, err)
			assert.True(t, ok)
			results[i] = v
		}()
	}

	for range keys {
		select {
		case <-loader.started:
		case <-time.After(2 * time.Second):
			close(loader.gate)
			t.Fatal("expected one load per distinct key")
		}
	}
	close(loader.gate)
	wg.Wait()

	assert.Equal(t, "a b|", results[0])
	assert.Equal(t, "a|b ", results[1])

	// Both values were cached under their own key.
	for i, k := range keys {
		v, ok, err := c.Get(ctx, k)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, results[i], v)
	}
	assert.Equal(t, int64(2), loader.loads.Load())
}

func TestShardedConcurrentMissesShareOneLoad(t *testing.T) {
	ctx := context.Background()
	loader := newGatedLoader()

	cfg := cache.DefaultConfig()
	cfg.MaxEntries = 10

	c, err := cache.NewShardedCache[pairKey, string](2, cfg, loader, nil)
	require.NoError(t, err)
	defer c.Close()

	key := pairKey{A: "x", B: "y"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok, err := c.Get(ctx, key)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "x|y", v)
		}()
	}

	select {
	case <-loader.started:
	case <-time.After(2 * time.Second):
		close(loader.gate)
		t.Fatal("load never started")
	}
	// Give the other readers time to queue behind the first load.
	time.Sleep(20 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	assert.Equal(t, int64(1), loader.loads.Load())
}

func TestShardedWriteBackReachesStore(t *testing.T) {
	ctx := context.Background()
	c, store := newShardedTestCache(t, 10)

	c.Put(ctx, "key1", "value1")
	c.Close()

	v, ok := store.Value("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", v)
}

func TestShardedRemoveKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newShardedTestCache(t, 10)

	c.Put(ctx, "key1", "value1")

	v, ok := c.Remove("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", v)
	assert.Equal(t, 0, c.Len())
}

//
// ================= CAPACITY =================
//

func TestShardedCapacityIsSplitAcrossShards(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.MaxEntries = 10

	c, err := cache.NewShardedCache[int, int](4, cfg, nil, nil)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 1000; i++ {
		c.Put(context.Background(), i, i)
		require.LessOrEqual(t, c.Len(), 10)
	}
	assert.Positive(t, c.Len())
}

//
// ================= TTL & JANITOR =================
//

func TestShardedJanitorPurgesLazyEntries(t *testing.T) {
	clock := newManualClock()

	cfg := cache.DefaultConfig()
	cfg.InvalidationTimeout = time.Second
	cfg.Purge = expiration.Lazy
	cfg.Clock = clock

	c, err := cache.NewShardedCache[int, int](4, cfg, nil, nil)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 100; i++ {
		c.Put(context.Background(), i, i)
	}
	clock.Advance(2 * time.Second)
	assert.Equal(t, 100, c.Len(), "lazy mode keeps stale entries")

	require.NoError(t, c.StartJanitor(5*time.Millisecond))
	require.NoError(t, c.StartJanitor(5*time.Millisecond)) // second call is a no-op

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestShardedJanitorRejectsBadInterval(t *testing.T) {
	c, _ := newShardedTestCache(t, 10)

	for _, interval := range []time.Duration{0, -time.Second} {
		err := c.StartJanitor(interval)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}

func TestShardedJanitorNotStartedAfterClose(t *testing.T) {
	c, _ := newShardedTestCache(t, 10)
	c.Close()

	err := c.StartJanitor(5 * time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))

	// Close stays safe to call.
	c.Close()
}

func TestShardedPurgeInvalidEntries(t *testing.T) {
	clock := newManualClock()

	cfg := cache.DefaultConfig()
	cfg.InvalidationTimeout = time.Second
	cfg.Purge = expiration.Lazy
	cfg.Clock = clock

	c, err := cache.NewShardedCache[int, int](3, cfg, nil, nil)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 30; i++ {
		c.Put(context.Background(), i, i)
	}
	clock.Advance(time.Second)

	c.PurgeInvalidEntries()
	assert.Equal(t, 0, c.Len())
}

//
// ================= CONCURRENCY TEST =================
//

func TestShardedConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c, store := newShardedTestCache(t, 64)

	store.data["key"] = "value"

	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				v, _, err := c.Get(ctx, "key")
				if err != nil || v != "value" {
					t.Errorf("expected value, got %v (%v)", v, err)
					return
				}
				k := fmt.Sprintf("g%d-%d", id, j%32)
				c.Put(ctx, k, k)
				c.Get(ctx, k)
				if j%7 == 0 {
					c.Remove(k)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}
