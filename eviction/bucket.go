package eviction

// keyNode is one key inside a bucket. Nodes are intrusive: a node is in
// exactly one bucket's list at a time, and bucket points back to it.
type keyNode[K comparable] struct {
	key    K
	bucket *bucket[K]
	prev   *keyNode[K]
	next   *keyNode[K]
}

// bucket groups all keys that share one access frequency.
// Keys are kept in the order they entered the bucket, oldest first.
type bucket[K comparable] struct {
	freq int

	first *keyNode[K]
	last  *keyNode[K]
	size  int

	// prev has a strictly lower frequency, next a strictly higher one.
	prev *bucket[K]
	next *bucket[K]
}

func (b *bucket[K]) empty() bool { return b.size == 0 }

// push appends n to the end of the bucket.
func (b *bucket[K]) push(n *keyNode[K]) {
	n.bucket = b
	n.prev = b.last
	n.next = nil
	if b.last != nil {
		b.last.next = n
	} else {
		b.first = n
	}
	b.last = n
	b.size++
}

// detach removes n from the bucket, keeping the order of the others.
func (b *bucket[K]) detach(n *keyNode[K]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		b.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		b.last = n.prev
	}
	n.prev, n.next, n.bucket = nil, nil, nil
	b.size--
}

func (b *bucket[K]) keys() []K {
	out := make([]K, 0, b.size)
	for n := b.first; n != nil; n = n.next {
		out = append(out, n.key)
	}
	return out
}
