package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/lfu-ttl-cache"
	"github.com/krisalay/lfu-ttl-cache/logging"
	"github.com/krisalay/lfu-ttl-cache/types"
	"github.com/krisalay/lfu-ttl-cache/writepolicy"
)

// ================= BACKING STORE =================

type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]int)}
}

func (s *InMemoryStore) Load(ctx context.Context, key string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *InMemoryStore) Put(ctx context.Context, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()
	logger := logging.New(log.InfoLevel)

	// ---------------- Cache Config ----------------
	const (
		shards      = 8
		capacity    = 200000
		preloadKeys = 100000
		goroutines  = 200
		opsPerG     = 5000
	)

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Preload Keys :", preloadKeys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	// ---------------- Backing Store ----------------
	store := NewInMemoryStore()
	for i := 0; i < preloadKeys; i++ {
		store.data[fmt.Sprintf("key-%d", i)] = i
	}

	// ---------------- Cache ----------------
	metrics := types.NewCounters()

	cfg := cache.DefaultConfig()
	cfg.MaxEntries = capacity
	cfg.InvalidationTimeout = 60 * time.Second
	cfg.Metrics = metrics
	cfg.Logger = logger

	c, err := cache.NewShardedCache[string, int](
		shards,
		cfg,
		store,
		writepolicy.NewWriteBackPolicy[string, int](store, 4096, logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating cache")
	}
	defer c.Close()

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < opsPerG; j++ {
				key := fmt.Sprintf("key-%d", (i*opsPerG+j)%preloadKeys)
				if _, _, err := c.Get(gctx, key); err != nil {
					return err
				}
				if j%10 == 0 {
					c.Put(gctx, key, j)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("benchmark worker failed")
	}

	duration := time.Since(start)
	totalOps := goroutines * opsPerG
	stats := metrics.Snapshot()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hit Ratio        : %.2f\n", stats.HitRatio())
	fmt.Printf("Evictions        : %d\n", stats.Evictions)
	fmt.Printf("Cached Keys      : %d\n", c.Len())
	fmt.Println("=========================================")
}
