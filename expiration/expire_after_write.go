package expiration

import "time"

/*
ExpireAfterWrite expires an entry a fixed TTL after it was last written.
Reads do not extend the lifetime, so entries expire in the same order they
were written. The purge scan relies on that ordering.
*/
type ExpireAfterWrite struct {

	// TTL is how long an entry stays valid after a write.
	TTL time.Duration
}

// IsExpired is true once now >= insertedAt + TTL.
func (e ExpireAfterWrite) IsExpired(insertedAt, now time.Time) bool {
	return !now.Before(insertedAt.Add(e.TTL))
}
