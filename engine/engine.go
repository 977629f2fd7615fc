package engine

import (
	"time"

	"github.com/phuslu/log"

	"github.com/krisalay/lfu-ttl-cache/expiration"
	"github.com/krisalay/lfu-ttl-cache/logging"
	"github.com/krisalay/lfu-ttl-cache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- When data is expired
- Whether expired entries are purged on every operation or lazily
- What time it is
- How events are recorded (metrics and logs)

It does NOT:
- Store data
- Track frequencies
- Decide eviction order
- Handle locking
*/
type CacheEngine struct {

	// Expiration controls when a cache entry should be considered "too old".
	Expiration expiration.Strategy

	// Purge selects eager or lazy removal of expired entries.
	Purge expiration.PurgeMode

	// Clock is the time source. Tests replace it to control expiry.
	Clock types.Clock

	// Metrics counts hits, misses, evictions and expirations.
	Metrics types.Metrics

	// Logger receives debug events for evictions and purges.
	Logger *log.Logger
}

/*
NewCacheEngine creates a CacheEngine.
Nil clock, metrics and logger are replaced with working defaults, so the
rest of the code never checks for nil.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	purge expiration.PurgeMode,
	clock types.Clock,
	metrics types.Metrics,
	logger *log.Logger,
) *CacheEngine {
	if clock == nil {
		clock = types.SystemClock{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = logging.New(log.WarnLevel)
	}

	return &CacheEngine{
		Expiration: exp,
		Purge:      purge,
		Clock:      clock,
		Metrics:    metrics,
		Logger:     logger,
	}
}

func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

// IsExpired reports whether an entry written at insertedAt is expired now.
// Without an expiration strategy nothing expires.
func (e *CacheEngine) IsExpired(insertedAt time.Time) bool {
	return e.IsExpiredAt(insertedAt, e.Now())
}

func (e *CacheEngine) IsExpiredAt(insertedAt, now time.Time) bool {
	return e.Expiration != nil && e.Expiration.IsExpired(insertedAt, now)
}

// EagerPurge reports whether operations should scan for expired entries first.
func (e *CacheEngine) EagerPurge() bool {
	return e.Purge == expiration.Eager
}

func (e *CacheEngine) OnHit() { e.Metrics.Hit() }

func (e *CacheEngine) OnMiss() { e.Metrics.Miss() }

// OnEvict records a capacity eviction of key, which had frequency freq.
func (e *CacheEngine) OnEvict(key any, freq int) {
	e.Metrics.Eviction()
	e.Logger.Debug().Int("frequency", freq).Msgf("evicted key %v", key)
}

// OnExpire records the removal of an expired key.
func (e *CacheEngine) OnExpire(key any) {
	e.Metrics.Expire()
	e.Logger.Trace().Msgf("expired key %v", key)
}

// OnPurge records the end of a purge scan that removed n entries.
func (e *CacheEngine) OnPurge(n int) {
	if n == 0 {
		return
	}
	e.Logger.Debug().Int("removed", n).Str("mode", e.Purge.String()).Msg("purged expired entries")
}
