/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package query

import (
	"container/heap"
	"math"
	"sort"
)

// entry is a kNN candidate. key identifies what the heap ranks, an object id or a trajectory id;
// equal distances are ordered by key.
type entry struct {
	key  string
	id   string
	traj string
	dist float64
}

func better(a, b entry) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.key < b.key
}

// boundedHeap keeps the k best entries, at most one per key. The root is the worst kept entry.
type boundedHeap struct {
	k     int
	items []entry
	pos   map[string]int
}

var _ heap.Interface = (*boundedHeap)(nil)

func newBoundedHeap(k int) *boundedHeap {
	return &boundedHeap{k: k, pos: map[string]int{}}
}

func (h *boundedHeap) Len() int { return len(h.items) }

func (h *boundedHeap) Less(i, j int) bool { return better(h.items[j], h.items[i]) }

func (h *boundedHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.pos[h.items[i].key] = i
	h.pos[h.items[j].key] = j
}

func (h *boundedHeap) Push(x any) {
	e := x.(entry)
	h.pos[e.key] = len(h.items)
	h.items = append(h.items, e)
}

func (h *boundedHeap) Pop() any {
	n := len(h.items)
	e := h.items[n-1]
	h.items = h.items[:n-1]
	delete(h.pos, e.key)
	return e
}

// offer adds the entry, replacing the entry with the same key if it is better, or evicting the
// current worst entry when the heap is full.
func (h *boundedHeap) offer(e entry) {
	if i, ok := h.pos[e.key]; ok {
		if better(e, h.items[i]) {
			h.items[i] = e
			heap.Fix(h, i)
		}
		return
	}
	if len(h.items) < h.k {
		heap.Push(h, e)
		return
	}
	if better(e, h.items[0]) {
		delete(h.pos, h.items[0].key)
		h.items[0] = e
		h.pos[e.key] = 0
		heap.Fix(h, 0)
	}
}

// limit is the distance an entry must not exceed to enter the heap.
func (h *boundedHeap) limit() float64 {
	if len(h.items) < h.k {
		return math.Inf(1)
	}
	return h.items[0].dist
}

// sorted returns the entries ascending.
func (h *boundedHeap) sorted() []entry {
	out := make([]entry, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}
