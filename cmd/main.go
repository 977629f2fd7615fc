package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/phuslu/log"

	cache "github.com/krisalay/lfu-ttl-cache"
	"github.com/krisalay/lfu-ttl-cache/config"
	"github.com/krisalay/lfu-ttl-cache/expiration"
	"github.com/krisalay/lfu-ttl-cache/logging"
	"github.com/krisalay/lfu-ttl-cache/types"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		settings = s
	}

	logger := logging.New(settings.LogLevel)
	metrics := types.NewCounters()

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("EVICTION POLICY : LFU")
	fmt.Println("CAPACITY        :", settings.Cache.MaxEntries)
	fmt.Println("TTL             :", settings.Cache.InvalidationTimeout)
	fmt.Println("PURGE           :", settings.Cache.Purge)

	// ====================================================
	fmt.Println("\n==================== 1) LFU EVICTION ====================")
	lfuEviction(logger, metrics)

	// ====================================================
	fmt.Println("\n==================== 2) TTL EXPIRATION ====================")
	ttlExpiration(logger, metrics, expiration.Eager)

	// ====================================================
	fmt.Println("\n==================== 3) LAZY PURGE ====================")
	ttlExpiration(logger, metrics, expiration.Lazy)

	// ====================================================
	fmt.Println("\n==================== 4) SHARDED + JANITOR ====================")
	sharded(settings, logger, metrics)

	// ====================================================
	stats := metrics.Snapshot()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS      : %d\n", stats.Hits)
	fmt.Printf("MISSES    : %d\n", stats.Misses)
	fmt.Printf("EVICTIONS : %d\n", stats.Evictions)
	fmt.Printf("EXPIRED   : %d\n", stats.Expired)
}

// lfuEviction fills a cache of 17, reads every key but 12, then forces one eviction.
func lfuEviction(logger *log.Logger, metrics types.Metrics) {
	cfg := cache.DefaultConfig()
	cfg.MaxEntries = 17
	cfg.Logger = logger
	cfg.Metrics = metrics

	c := cache.MustNew[int, int](cfg)

	for i := 0; i < 17; i++ {
		c.Put(i, i*i)
	}
	for i := 0; i < 17; i++ {
		if i != 12 {
			c.Get(i)
		}
	}
	fmt.Println("CACHE  → before :", c.FrequenciesString())

	c.Put(23, 100007)
	fmt.Println("CACHE  → after  :", c.FrequenciesString())

	_, ok := c.Get(12)
	fmt.Println("CACHE  → GET 12 found =", ok)
	v, _ := c.Get(23)
	fmt.Println("CACHE  → GET 23 =", v)
}

// ttlExpiration writes two batches 500ms apart and reads both 1.2s after the first.
func ttlExpiration(logger *log.Logger, metrics types.Metrics, mode expiration.PurgeMode) {
	cfg := cache.DefaultConfig()
	cfg.InvalidationTimeout = time.Second
	cfg.Purge = mode
	cfg.Logger = logger
	cfg.Metrics = metrics

	c := cache.MustNew[int, int](cfg)

	for i := 0; i < 10; i++ {
		c.Put(i, i*i)
	}
	time.Sleep(500 * time.Millisecond)
	for i := 10; i < 20; i++ {
		c.Put(i, i*i)
	}
	time.Sleep(700 * time.Millisecond)

	fmt.Printf("CACHE  → %s mode, stored keys before reads = %d\n", mode, len(c.Keys()))

	live := 0
	for i := 0; i < 20; i++ {
		if _, ok := c.Get(i); ok {
			live++
		}
	}
	fmt.Printf("CACHE  → live keys = %d, stored keys = %d\n", live, c.Len())
}

// sharded runs the configured cache behind shards, with a janitor in lazy mode.
func sharded(settings config.Settings, logger *log.Logger, metrics types.Metrics) {
	ctx := context.Background()

	cfg := settings.Cache
	cfg.Logger = logger
	cfg.Metrics = metrics

	c, err := cache.NewShardedCache[string, int](settings.Shards, cfg, nil, nil)
	if err != nil {
		logger.Error().Err(err).Msg("creating sharded cache")
		return
	}
	defer c.Close()

	if settings.JanitorInterval > 0 {
		if err := c.StartJanitor(settings.JanitorInterval); err != nil {
			logger.Error().Err(err).Msg("starting janitor")
			return
		}
	}

	for i := 0; i < 50; i++ {
		c.Put(ctx, fmt.Sprintf("k%d", i), i)
	}
	v, ok, _ := c.Get(ctx, "k7")
	fmt.Println("CACHE  → GET k7 =", v, ok)
	fmt.Printf("CACHE  → %d shards hold %d keys\n", settings.Shards, c.Len())
}
