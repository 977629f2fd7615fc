package types

import "time"

// Clock is the time source used for TTL decisions.
// Tests swap it for a manual clock so expiry does not depend on sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock (with its monotonic reading).
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
