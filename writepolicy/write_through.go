package writepolicy

import (
	"context"

	"github.com/phuslu/log"

	"github.com/krisalay/lfu-ttl-cache/types"
)

/*
This file implements the "write-through" policy.

Whenever the cache writes data, it immediately writes the same data to the backing store.

So the flow is: Cache write → DB write (synchronous)
*/
type WriteThroughPolicy[K comparable, V any] struct {

	// store is the backing store where data must be persisted immediately.
	store types.Loader[K, V]

	logger *log.Logger
}

// NewWriteThroughPolicy creates a new write-through policy. logger may be nil.
func NewWriteThroughPolicy[K comparable, V any](store types.Loader[K, V], logger *log.Logger) *WriteThroughPolicy[K, V] {
	return &WriteThroughPolicy[K, V]{store: store, logger: orDefault(logger)}
}

/*
OnWrite writes the data to the backing store before returning.
If the backing store is slow, cache writes become slow.
*/
func (w *WriteThroughPolicy[K, V]) OnWrite(ctx context.Context, key K, value V) {
	if err := w.store.Put(ctx, key, value); err != nil {
		w.logger.Error().Err(err).Msgf("write-through failed for key %v", key)
	}
}

// Close has nothing to do: write-through has no background worker.
func (w *WriteThroughPolicy[K, V]) Close() {}
