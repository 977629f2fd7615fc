package cache

import (
	"fmt"
	"strings"

	"github.com/krisalay/lfu-ttl-cache/eviction"
)

// This file holds debugging views of the frequency buckets. None of these
// purge expired entries or change frequencies.

// Frequency returns how often key has been read since its last write, plus one.
func (c *LFUCache[K, V]) Frequency(key K) (int, bool) {
	return c.frequencies.Frequency(key)
}

// Snapshot returns the bucket chain, lowest frequency first.
// The frequency-1 bucket is always present, possibly empty.
func (c *LFUCache[K, V]) Snapshot() []eviction.BucketSnapshot[K] {
	return c.frequencies.Buckets()
}

// FrequenciesString renders the buckets as {1: [12], 2: [0, 1, 2]}.
func (c *LFUCache[K, V]) FrequenciesString() string {
	return c.render(func(b eviction.BucketSnapshot[K]) string {
		keys := make([]string, len(b.Keys))
		for i, k := range b.Keys {
			keys[i] = fmt.Sprint(k)
		}
		return "[" + strings.Join(keys, ", ") + "]"
	})
}

// FrequencyCountsString renders the bucket sizes as {1: 1, 2: 3}.
func (c *LFUCache[K, V]) FrequencyCountsString() string {
	return c.render(func(b eviction.BucketSnapshot[K]) string {
		return fmt.Sprint(len(b.Keys))
	})
}

// TotalFrequencyCount is the number of keys across all buckets. It always
// equals the raw number of stored entries.
func (c *LFUCache[K, V]) TotalFrequencyCount() int {
	total := 0
	for _, b := range c.frequencies.Buckets() {
		total += len(b.Keys)
	}
	return total
}

func (c *LFUCache[K, V]) render(value func(eviction.BucketSnapshot[K]) string) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, b := range c.frequencies.Buckets() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d: %s", b.Frequency, value(b))
	}
	sb.WriteByte('}')
	return sb.String()
}
