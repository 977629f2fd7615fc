package expiration

import "github.com/krisalay/lfu-ttl-cache/types"

type timelineNode[K comparable, V any] struct {
	entry *types.CacheEntry[K, V]
	prev  *timelineNode[K, V]
	next  *timelineNode[K, V]
}

/*
Timeline keeps entries ordered by insertion time, oldest first.

Entries are only ever appended (a rewrite is a Remove followed by a Push),
so as long as the clock does not go backwards the front of the timeline
is always the entry that expires first.
*/
type Timeline[K comparable, V any] struct {
	nodes map[K]*timelineNode[K, V]

	// oldest is the front, newest the back
	oldest *timelineNode[K, V]
	newest *timelineNode[K, V]
}

func NewTimeline[K comparable, V any]() *Timeline[K, V] {
	return &Timeline[K, V]{nodes: make(map[K]*timelineNode[K, V])}
}

// Push appends ent as the newest entry. A key already on the timeline is
// moved to the back.
func (t *Timeline[K, V]) Push(ent *types.CacheEntry[K, V]) {
	t.Remove(ent.Key)

	n := &timelineNode[K, V]{entry: ent, prev: t.newest}
	if t.newest != nil {
		t.newest.next = n
	} else {
		t.oldest = n
	}
	t.newest = n
	t.nodes[ent.Key] = n
}

// Remove takes key off the timeline, keeping the order of the rest.
func (t *Timeline[K, V]) Remove(key K) bool {
	n, ok := t.nodes[key]
	if !ok {
		return false
	}

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		t.oldest = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		t.newest = n.prev
	}

	delete(t.nodes, key)
	return true
}

// Oldest returns the entry with the earliest insertion time.
func (t *Timeline[K, V]) Oldest() (*types.CacheEntry[K, V], bool) {
	if t.oldest == nil {
		return nil, false
	}
	return t.oldest.entry, true
}

func (t *Timeline[K, V]) Len() int {
	return len(t.nodes)
}

// Each calls fn oldest-first until fn returns false.
// fn must not modify the timeline.
func (t *Timeline[K, V]) Each(fn func(*types.CacheEntry[K, V]) bool) {
	for n := t.oldest; n != nil; n = n.next {
		if !fn(n.entry) {
			return
		}
	}
}
