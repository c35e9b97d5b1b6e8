// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package queue

import (
	"gvisor.dev/ringq/pkg/ring"
)

// maxBins bounds the number of pending runs kept by sortRing. Bin i holds a
// run of up to 2^i elements, so this covers any ring that fits in memory.
const maxBins = 64

// ordered returns true iff a may precede b in the requested order.
func ordered(a, b string, descend bool) bool {
	if descend {
		return a >= b
	}
	return a <= b
}

// mergeInto merges the sorted ring src into the sorted ring dst, leaving src
// empty. Elements of dst precede equal elements of src.
func mergeInto(dst, src *ring.Link[Element], descend bool) {
	pos := dst.Next()
	for pos != dst && !src.Empty() {
		s := src.Next()
		if ordered(pos.Owner().value, s.Owner().value, descend) {
			pos = pos.Next()
			continue
		}
		ring.MoveTail(s, pos)
	}
	ring.SpliceTail(src, dst)
}

// Sort sorts q in ascending order, or descending order if descend is set.
// Values are compared lexicographically and the sort is stable: equal values
// keep their relative order in both directions.
func (q *Queue) Sort(descend bool) {
	if q == nil || q.head.Empty() || q.head.Singular() {
		return
	}
	sortRing(&q.head, descend)
}

// sortRing is an iterative merge sort. Elements are taken from the front one
// at a time and carried up through the bins, merging with each occupied bin
// on the way, like incrementing a binary counter. Higher bins always hold
// older elements, which keeps every merge stable.
func sortRing(head *ring.Link[Element], descend bool) {
	var (
		carry ring.Link[Element]
		bins  [maxBins]ring.Link[Element]
		fill  int
	)
	for !head.Empty() {
		ring.Move(head.Next(), &carry)
		i := 0
		for ; i < fill && !bins[i].Empty(); i++ {
			mergeInto(&bins[i], &carry, descend)
			ring.Splice(&bins[i], &carry)
		}
		ring.Splice(&carry, &bins[i])
		if i == fill {
			fill++
		}
	}
	for i := 1; i < fill; i++ {
		mergeInto(&bins[i], &bins[i-1], descend)
	}
	ring.Splice(&bins[fill-1], head)
}

// Ascend removes and releases every element that has a strictly smaller
// element anywhere to its right. It returns the number of elements removed.
func (q *Queue) Ascend() int {
	return q.prune(false)
}

// Descend removes and releases every element that has a strictly greater
// element anywhere to its right. It returns the number of elements removed.
func (q *Queue) Descend() int {
	return q.prune(true)
}

// prune walks q from the tail. The last element kept is the extreme of
// everything to the right of the cursor, so an element survives iff it is
// ordered before it.
func (q *Queue) prune(descend bool) int {
	if q == nil || q.head.Empty() {
		return 0
	}
	head := &q.head
	removed := 0
	keep := head.Prev()
	for cur := keep.Prev(); cur != head; {
		prev := cur.Prev()
		if ordered(cur.Owner().value, keep.Owner().value, descend) {
			keep = cur
		} else {
			cur.Owner().Release()
			removed++
		}
		cur = prev
	}
	return removed
}

// Merge merges every queue in srcs into dst. All queues, dst included, must
// already be sorted in the requested order. The current contents of dst take
// part as the first input, and equal values keep the order of their inputs.
// Every source is left empty; nil sources, dst itself and repeats of a
// source already listed are skipped.
//
// Merge returns the number of elements in dst afterwards, or 0 without
// touching anything if dst is absent or no usable source remains.
func Merge(dst *Queue, srcs []*Queue, descend bool) int {
	if dst == nil || len(srcs) == 0 {
		return 0
	}
	rings := []*ring.Link[Element]{&dst.head}
	seen := map[*ring.Link[Element]]struct{}{&dst.head: {}}
	for _, src := range srcs {
		if src == nil {
			continue
		}
		// Merging a ring into itself never terminates.
		if _, ok := seen[&src.head]; ok {
			continue
		}
		seen[&src.head] = struct{}{}
		rings = append(rings, &src.head)
	}
	if len(rings) == 1 {
		return 0
	}
	// Merge neighbours pairwise until one ring is left; each round halves
	// the number of rings and keeps them in input order.
	for len(rings) > 1 {
		merged := rings[:0]
		for i := 0; i < len(rings); i += 2 {
			if i+1 < len(rings) {
				mergeInto(rings[i], rings[i+1], descend)
			}
			merged = append(merged, rings[i])
		}
		rings = merged
	}
	return dst.Size()
}
