package shard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cache "github.com/krisalay/lfu-ttl-cache/api"
	"github.com/krisalay/lfu-ttl-cache/shard"
)

func TestHashSelectorIsStable(t *testing.T) {
	shards := make([]*shard.Shard[int, int], 8)
	for i := range shards {
		shards[i] = shard.NewShard[int, int](nil)
	}
	sel := shard.NewHashSelector[int, int]()

	used := make(map[*shard.Shard[int, int]]bool)
	for k := 0; k < 1000; k++ {
		first := sel.Select(k, shards)
		assert.Same(t, first, sel.Select(k, shards))
		used[first] = true
	}
	assert.Len(t, used, len(shards), "1000 keys should reach every shard")
}

func TestShardDoPassesCache(t *testing.T) {
	var called bool
	s := shard.NewShard[string, int](nil)
	s.Do(func(c cache.Cache[string, int]) {
		called = true
		assert.Nil(t, c)
	})
	assert.True(t, called)
}
