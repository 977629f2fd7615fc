package types

import "go.uber.org/atomic"

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when Get finds a live entry.
	Hit()

	// Miss is called when Get finds nothing, or finds an expired entry.
	Miss()

	// Eviction is called when a key is removed because the cache is full and needs space.
	Eviction()

	// Expire is called when a key is removed because it has passed its TTL.
	Expire()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

If someone does not care about metrics, the cache still works without
nil checks on every event.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Expire()   {}

// Stats is a point-in-time copy of Counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Expired   int64
}

/*
Counters is a Metrics implementation that simply counts events.
It is safe to share one Counters between shards.
*/
type Counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	expired   atomic.Int64
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) Hit()      { c.hits.Inc() }
func (c *Counters) Miss()     { c.misses.Inc() }
func (c *Counters) Eviction() { c.evictions.Inc() }
func (c *Counters) Expire()   { c.expired.Inc() }

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Expired:   c.expired.Load(),
	}
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
