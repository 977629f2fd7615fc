package cache

import (
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/phuslu/log"

	"github.com/krisalay/lfu-ttl-cache/expiration"
	"github.com/krisalay/lfu-ttl-cache/types"
)

const (
	DefaultMaxEntries          = 1024
	DefaultInvalidationTimeout = 30 * time.Second
)

// Config describes one LFU-TTL cache. Start from DefaultConfig and override
// what you need; the zero value is rejected by New.
type Config struct {

	// MaxEntries is the capacity bound. Inserting a new key into a full
	// cache evicts the least frequently used key first.
	MaxEntries int

	// InvalidationTimeout is how long an entry lives after its last write.
	InvalidationTimeout time.Duration

	// Purge selects eager (default) or lazy removal of expired entries.
	Purge expiration.PurgeMode

	// Optional. Nil means the system clock, no metrics and a warn-level logger.
	Clock   types.Clock
	Metrics types.Metrics
	Logger  *log.Logger
}

// DefaultConfig returns 1024 entries, a 30s timeout and eager purging.
func DefaultConfig() Config {
	return Config{
		MaxEntries:          DefaultMaxEntries,
		InvalidationTimeout: DefaultInvalidationTimeout,
		Purge:               expiration.Eager,
	}
}

// Validate returns a CodeInvalidConfig error for settings the cache cannot run with.
func (c Config) Validate() error {
	if c.MaxEntries <= 0 {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidConfig, "max entries must be positive, got %d", c.MaxEntries),
			"field", "MaxEntries",
		)
	}
	if c.InvalidationTimeout <= 0 {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidConfig, "invalidation timeout must be positive, got %s", c.InvalidationTimeout),
			"field", "InvalidationTimeout",
		)
	}
	if c.Purge != expiration.Eager && c.Purge != expiration.Lazy {
		return errors.Newf(errors.CodeInvalidConfig, "unknown purge mode %s", c.Purge)
	}
	return nil
}
