// Package rank provides a bounded top-N accumulator backed by a min-heap.
package rank

import (
	"container/heap"
	"sort"
)

// Accumulator retains the N highest-scored items offered to it. The
// comparator is deterministic: score first, then the item id as tie-break,
// so drained output is reproducible for equal scores.
//
// Accumulator is not safe for concurrent use; a single coordinating
// goroutine owns it.
type Accumulator[T any] struct {
	limit int
	score func(T) float64
	id    func(T) string
	h     minHeap[T]
}

// New creates an accumulator holding at most limit items, ordered by score.
// id breaks score ties deterministically.
func New[T any](limit int, score func(T) float64, id func(T) string) *Accumulator[T] {
	if limit < 0 {
		limit = 0
	}
	return &Accumulator[T]{
		limit: limit,
		score: score,
		id:    id,
	}
}

// Offer attempts to admit item. Once at capacity, an item is admitted only
// if its score strictly exceeds the current minimum, which is evicted.
// Returns true if the item was retained.
func (a *Accumulator[T]) Offer(item T) bool {
	if a.limit == 0 {
		return false
	}
	e := entry[T]{item: item, score: a.score(item), id: a.id(item)}
	if a.h.Len() < a.limit {
		heap.Push(&a.h, e)
		return true
	}
	if e.score <= a.h.entries[0].score {
		return false
	}
	a.h.entries[0] = e
	heap.Fix(&a.h, 0)
	return true
}

// Len returns the number of retained items.
func (a *Accumulator[T]) Len() int {
	return a.h.Len()
}

// MinScore returns the lowest retained score, or 0 when empty.
func (a *Accumulator[T]) MinScore() float64 {
	if a.h.Len() == 0 {
		return 0
	}
	return a.h.entries[0].score
}

// Drain empties the accumulator and returns the retained items sorted by
// score descending, then id ascending.
func (a *Accumulator[T]) Drain() []T {
	entries := a.h.entries
	a.h.entries = nil
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].id < entries[j].id
	})
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out
}

type entry[T any] struct {
	item  T
	score float64
	id    string
}

// minHeap orders entries worst-first so the eviction candidate sits at the
// root. Among equal scores the larger id is evicted first, keeping the
// retained set deterministic.
type minHeap[T any] struct {
	entries []entry[T]
}

func (h *minHeap[T]) Len() int { return len(h.entries) }

func (h *minHeap[T]) Less(i, j int) bool {
	if h.entries[i].score != h.entries[j].score {
		return h.entries[i].score < h.entries[j].score
	}
	return h.entries[i].id > h.entries[j].id
}

func (h *minHeap[T]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *minHeap[T]) Push(x any) {
	h.entries = append(h.entries, x.(entry[T]))
}

func (h *minHeap[T]) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	h.entries = old[:n-1]
	return e
}
