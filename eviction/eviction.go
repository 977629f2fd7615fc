package eviction

/*
This file defines how the cache decides what to remove when it runs out of space.
*/

/*
Policy is the interface that an eviction strategy must follow.

The cache does NOT care how eviction works internally.
It only calls these methods, and it removes the victim itself so the
entry store and the policy are always updated together.
*/
type Policy[K comparable] interface {

	// OnGet is called whenever a key is read from the cache.
	// LFU counts the access.
	OnGet(K)

	// OnPut is called whenever a key is written to the cache.
	// A new key starts tracking here; for an existing key the policy
	// decides what a rewrite means.
	OnPut(K)

	// Remove is called when a key leaves the cache for any reason:
	// eviction, explicit removal, TTL expiry.
	Remove(K) bool

	// Victim is called when the cache is FULL and needs space.
	// It names the key to drop without dropping it.
	Victim() (K, bool)

	// Frequency returns the access count the policy holds for a key.
	Frequency(K) (int, bool)

	// Buckets returns the policy's frequency groups, lowest first.
	Buckets() []BucketSnapshot[K]
}

var _ Policy[string] = (*LFU[string])(nil)
