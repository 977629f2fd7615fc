package writepolicy

import (
	"context"
	"sync"

	"github.com/phuslu/log"

	"github.com/krisalay/lfu-ttl-cache/logging"
	"github.com/krisalay/lfu-ttl-cache/types"
)

// This file implements the "write-back" policy.

// writeReq represents one pending write operation that needs to be sent to the backing store.
type writeReq[K comparable, V any] struct {
	ctx   context.Context
	key   K
	value V
}

/*
WriteBackPolicy manages asynchronous writes to the backing store.
*/
type WriteBackPolicy[K comparable, V any] struct {

	// store is the backing store (DB, API, etc.)
	store types.Loader[K, V]

	// ch is a buffered channel that holds pending write requests.
	ch chan writeReq[K, V]

	logger *log.Logger

	// mu guards closed against a write racing Close.
	mu     sync.RWMutex
	closed bool

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup
}

// NewWriteBackPolicy creates a new write-back policy with room for buffer pending writes.
func NewWriteBackPolicy[K comparable, V any](store types.Loader[K, V], buffer int, logger *log.Logger) *WriteBackPolicy[K, V] {
	w := &WriteBackPolicy[K, V]{
		store:  store,
		ch:     make(chan writeReq[K, V], buffer),
		logger: orDefault(logger),
	}

	// Start one background worker
	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite queues the write. If the queue is full, the write is DROPPED:
// blocking here would slow the cache down and defeat the purpose of write-back.
func (w *WriteBackPolicy[K, V]) OnWrite(ctx context.Context, key K, value V) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}

	select {
	case w.ch <- writeReq[K, V]{ctx, key, value}:
	default:
		w.logger.Warn().Msgf("write-back queue full, dropped write for key %v", key)
	}
}

/*
worker runs in the background and processes queued writes.
This is where eventual consistency happens.
*/
func (w *WriteBackPolicy[K, V]) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.store.Put(req.ctx, req.key, req.value); err != nil {
			w.logger.Error().Err(err).Msgf("write-back failed for key %v", req.key)
		}
	}
}

/*
Close shuts down the write-back policy gracefully.
1. Stop accepting writes and close the channel
2. Wait for the worker to drain what was already queued

Close is idempotent.
*/
func (w *WriteBackPolicy[K, V]) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	w.wg.Wait()
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return logging.New(log.WarnLevel)
	}
	return logger
}
