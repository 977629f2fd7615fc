package types

import "time"

// CacheEntry is the Entry Store record for one key.
// InsertedAt is set on every write and never on reads.
type CacheEntry[K comparable, V any] struct {
	Key        K
	Value      V
	InsertedAt time.Time
}
