// This file implements O(1) LFU eviction.

package eviction

import "fmt"

/*
LFU tracks access frequencies with a chain of buckets ordered by strictly
increasing frequency:

	head(1) <-> 2 <-> 5 <-> 6

Every key lives in exactly one bucket and index points at its node, so
reading a key moves it one bucket forward in constant time.

The head bucket always has frequency 1 and is never unlinked, even when
empty. New keys always go there. Any other bucket is unlinked as soon as
its last key leaves.

LFU is not safe for concurrent use.
*/
type LFU[K comparable] struct {
	head  *bucket[K]
	index map[K]*keyNode[K]
}

// BucketSnapshot is a copy of one bucket, for debugging and tests.
type BucketSnapshot[K comparable] struct {
	Frequency int
	Keys      []K
}

func NewLFU[K comparable]() *LFU[K] {
	return &LFU[K]{
		head:  &bucket[K]{freq: 1},
		index: make(map[K]*keyNode[K]),
	}
}

// OnGet increases the frequency of k by exactly one.
// Untracked keys are ignored.
func (l *LFU[K]) OnGet(k K) {
	n, ok := l.index[k]
	if !ok {
		return
	}

	cur := n.bucket
	next := cur.next

	// The successor is only reusable if it is exactly one step up.
	if next == nil || next.freq != cur.freq+1 {
		next = &bucket[K]{freq: cur.freq + 1}
		l.linkAfter(cur, next)
	}

	cur.detach(n)
	next.push(n)

	if cur.empty() {
		l.unlink(cur)
	}
}

// OnPut starts tracking k at frequency 1. If k is already tracked its
// frequency is reset to 1 and it becomes the newest key of the head bucket.
func (l *LFU[K]) OnPut(k K) {
	if n, ok := l.index[k]; ok {
		cur := n.bucket
		cur.detach(n)
		if cur.empty() {
			l.unlink(cur)
		}
		l.head.push(n)
		return
	}

	n := &keyNode[K]{key: k}
	l.head.push(n)
	l.index[k] = n
}

// Remove stops tracking k. It reports whether k was tracked.
func (l *LFU[K]) Remove(k K) bool {
	n, ok := l.index[k]
	if !ok {
		return false
	}

	b := n.bucket
	b.detach(n)
	if b.empty() {
		l.unlink(b)
	}
	delete(l.index, k)
	return true
}

/*
Victim returns the key to evict, without dropping it.

The victim is the oldest key of the lowest live frequency. Since only the
head bucket may be empty, that is either the first key of the head or, when
every frequency-1 key has been promoted, the first key of its successor.
*/
func (l *LFU[K]) Victim() (K, bool) {
	if l.head.first != nil {
		return l.head.first.key, true
	}
	if next := l.head.next; next != nil && next.first != nil {
		return next.first.key, true
	}

	var zero K
	if len(l.index) > 0 {
		panic(fmt.Sprintf("eviction: %d keys tracked but no bucket holds any", len(l.index)))
	}
	return zero, false
}

// Frequency returns the current access frequency of k.
func (l *LFU[K]) Frequency(k K) (int, bool) {
	n, ok := l.index[k]
	if !ok {
		return 0, false
	}
	return n.bucket.freq, true
}

// Len returns the number of tracked keys.
func (l *LFU[K]) Len() int {
	return len(l.index)
}

// Buckets returns the bucket chain from head to tail. The head bucket is
// always included, even when empty.
func (l *LFU[K]) Buckets() []BucketSnapshot[K] {
	var out []BucketSnapshot[K]
	for b := l.head; b != nil; b = b.next {
		out = append(out, BucketSnapshot[K]{Frequency: b.freq, Keys: b.keys()})
	}
	return out
}

// linkAfter splices b into the chain right after cur.
func (l *LFU[K]) linkAfter(cur, b *bucket[K]) {
	b.prev = cur
	b.next = cur.next
	if cur.next != nil {
		cur.next.prev = b
	}
	cur.next = b
}

// unlink drops an empty bucket from the chain. The head is kept.
func (l *LFU[K]) unlink(b *bucket[K]) {
	if b == l.head {
		return
	}
	b.prev.next = b.next
	if b.next != nil {
		b.next.prev = b.prev
	}
	b.prev, b.next = nil, nil
}
