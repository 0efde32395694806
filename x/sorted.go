/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import "container/heap"

// cursor walks one sorted posting list.
type cursor struct {
	list []uint64
	pos  int
}

func (c *cursor) head() uint64 { return c.list[c.pos] }

// cursorHeap orders non-exhausted cursors by their head value.
type cursorHeap []*cursor

func (h cursorHeap) Len() int            { return len(h) }
func (h cursorHeap) Less(i, j int) bool  { return h[i].head() < h[j].head() }
func (h cursorHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap) Push(v interface{}) { *h = append(*h, v.(*cursor)) }

func (h *cursorHeap) Pop() interface{} {
	last := (*h)[len(*h)-1]
	*h = (*h)[:len(*h)-1]
	return last
}

// MergeSorted returns the sorted union of sorted posting lists, without duplicates.
func MergeSorted(lists [][]uint64) []uint64 {
	h := make(cursorHeap, 0, len(lists))
	longest := 0
	for _, l := range lists {
		if len(l) == 0 {
			continue
		}
		h = append(h, &cursor{list: l})
		longest = max(longest, len(l))
	}
	heap.Init(&h)

	out := make([]uint64, 0, longest)
	for len(h) > 0 {
		c := h[0]
		if v := c.head(); len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
		if c.pos++; c.pos == len(c.list) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	return out
}
