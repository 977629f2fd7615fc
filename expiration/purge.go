package expiration

import (
	"fmt"
	"strings"
)

/*
PurgeMode decides when expired entries of OTHER keys are removed.
A Get on an expired key always removes that key, whatever the mode.
*/
type PurgeMode int

const (
	// Eager scans for expired entries before every Get, Put and Len.
	// The scan stops at the first live entry, so it is cheap when called
	// often, but one call after a long idle period may remove a long run.
	Eager PurgeMode = iota

	// Lazy never scans on its own. Expired entries stay (and hold capacity)
	// until they are read or PurgeInvalidEntries is called, usually from a timer.
	Lazy
)

func (m PurgeMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	default:
		return fmt.Sprintf("PurgeMode(%d)", int(m))
	}
}

// ParsePurgeMode accepts "eager" (or "greedy") and "lazy", case-insensitive.
// The empty string means Eager.
func ParsePurgeMode(s string) (PurgeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "eager", "greedy":
		return Eager, nil
	case "lazy":
		return Lazy, nil
	default:
		return Eager, fmt.Errorf("unknown purge mode %q", s)
	}
}
