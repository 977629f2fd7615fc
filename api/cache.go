package cache

import "context"

/*
Cache defines the contract of the single-threaded LFU-TTL engine.

Absence is never an error: a missing or expired key is reported with
ok=false. None of these methods block.
*/
type Cache[K comparable, V any] interface {

	/*
		Get returns the value stored for key.

		BEHAVIOR:
		---------
		- Live key: returns the value and bumps its frequency by one
		- Expired key: removes it and reports absent
		- Missing key: reports absent
	*/
	Get(key K) (V, bool)

	/*
		Put stores a key-value pair and returns the value it replaced.

		BEHAVIOR:
		---------
		- New key: enters at frequency 1; if the cache is full the least
		  frequently used key is evicted first
		- Existing key: value replaced, frequency reset to 1, TTL restarted
	*/
	Put(key K, value V) (V, bool)

	// Remove deletes key and returns its value. Removing a missing key is safe.
	Remove(key K) (V, bool)

	// Len returns the number of stored entries.
	Len() int

	// PurgeInvalidEntries removes every expired entry now.
	PurgeInvalidEntries()
}

/*
ConcurrentCache is the contract of the synchronized wrapper around the engine.
It can be shared between goroutines.
*/
type ConcurrentCache[K comparable, V any] interface {

	/*
		Get returns the value stored for key.
		On a miss, a configured backing store is asked for the value and
		the result is cached. err is only set when that load fails.
	*/
	Get(ctx context.Context, key K) (value V, ok bool, err error)

	// Put stores a key-value pair and forwards the write to the write policy.
	Put(ctx context.Context, key K, value V) (V, bool)

	// Remove deletes key from the cache. The backing store is not touched.
	Remove(key K) (V, bool)

	Len() int

	PurgeInvalidEntries()

	/*
		Close stops the purge janitor and flushes pending write-back
		operations. Call it on shutdown.
	*/
	Close()
}
