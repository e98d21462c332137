// Package queue provides the bounded top-k selection used by search.
package queue

import (
	"math"
	"slices"
)

// Item is a scored point.
type Item struct {
	ID    uint64
	Score float64
}

// Better reports whether a ranks before b: higher score first, ties broken
// by ascending ID. NaN scores rank after every number.
func Better(a, b Item) bool {
	aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
	if aNaN || bNaN {
		if aNaN && bNaN {
			return a.ID < b.ID
		}
		return bNaN
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}

// Compare orders items best-first for slices.SortFunc.
func Compare(a, b Item) int {
	switch {
	case Better(a, b):
		return -1
	case Better(b, a):
		return 1
	default:
		return 0
	}
}

// TopK keeps the k best items seen so far.
//
// Internally it is a heap with the worst retained item on top, so each
// Push is O(log k) and rejected items cost a single comparison.
type TopK struct {
	k     int
	items []Item
}

// NewTopK creates a selector for the k best items. k <= 0 retains nothing.
func NewTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	return &TopK{
		k:     k,
		items: make([]Item, 0, min(k, 1024)),
	}
}

// Len returns the number of retained items.
func (t *TopK) Len() int { return len(t.items) }

// Push offers an item.
func (t *TopK) Push(item Item) {
	if t.k == 0 {
		return
	}
	if len(t.items) < t.k {
		t.items = append(t.items, item)
		t.siftUp(len(t.items) - 1)
		return
	}
	if Better(item, t.items[0]) {
		t.items[0] = item
		t.siftDown(0)
	}
}

// Merge offers every item retained by other.
func (t *TopK) Merge(other *TopK) {
	for _, item := range other.items {
		t.Push(item)
	}
}

// Sorted returns the retained items best-first. The selector is left empty.
func (t *TopK) Sorted() []Item {
	out := t.items
	t.items = nil
	slices.SortFunc(out, Compare)
	return out
}

// less orders the heap so the worst item is on top.
func (t *TopK) less(i, j int) bool {
	return Better(t.items[j], t.items[i])
}

func (t *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !t.less(i, p) {
			return
		}
		t.items[i], t.items[p] = t.items[p], t.items[i]
		i = p
	}
}

func (t *TopK) siftDown(i int) {
	n := len(t.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && t.less(r, l) {
			best = r
		}
		if !t.less(best, i) {
			return
		}
		t.items[i], t.items[best] = t.items[best], t.items[i]
		i = best
	}
}
