// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package cache

import "time"

// entry is one cached value. index is its slot in the expiry heap.
type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	index     int
}

// expiryHeap is a min-heap of entries ordered by expiresAt. The root is the
// entry that expires first, which is also the eviction victim when the cache
// is over quota. Not safe for concurrent use; Cache holds the lock.
type expiryHeap[V any] []*entry[V]

func (h *expiryHeap[V]) push(e *entry[V]) {
	e.index = len(*h)
	*h = append(*h, e)
	h.up(e.index)
}

// peek returns the earliest-expiring entry or nil.
func (h expiryHeap[V]) peek() *entry[V] {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

func (h *expiryHeap[V]) remove(i int) *entry[V] {
	old := *h
	n := len(old) - 1
	e := old[i]

	if i != n {
		old[i] = old[n]
		old[i].index = i
	}
	old[n] = nil
	*h = old[:n]

	if i != n {
		h.fix(i)
	}
	e.index = -1
	return e
}

// fix restores heap order after the entry at i changed its expiry.
func (h expiryHeap[V]) fix(i int) {
	if !h.up(i) {
		h.down(i)
	}
}

func (h expiryHeap[V]) up(i int) bool {
	moved := false
	for i > 0 {
		parent := (i - 1) / 2
		if !h[i].expiresAt.Before(h[parent].expiresAt) {
			break
		}
		h.swap(i, parent)
		i = parent
		moved = true
	}
	return moved
}

func (h expiryHeap[V]) down(i int) {
	n := len(h)
	for {
		smallest := i
		if l := 2*i + 1; l < n && h[l].expiresAt.Before(h[smallest].expiresAt) {
			smallest = l
		}
		if r := 2*i + 2; r < n && h[r].expiresAt.Before(h[smallest].expiresAt) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h expiryHeap[V]) swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
