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

// DeleteMid removes and releases the element at position n/2 (0-indexed) of a
// queue holding n elements. It returns false if q is absent or empty.
func (q *Queue) DeleteMid() bool {
	if q == nil || q.head.Empty() {
		return false
	}
	head := &q.head

	// fast moves two links per step, so it reaches the sentinel when slow is
	// halfway through.
	fast, slow := head.Next(), head.Next()
	for fast != head && fast.Next() != head {
		fast = fast.Next().Next()
		slow = slow.Next()
	}
	slow.Owner().Release()
	return true
}

// DeleteDup removes every element whose value is shared with an adjacent
// element. q must be sorted, so that equal values form runs; each run longer
// than one is removed entirely, no copy of the value survives.
//
// It returns false only if q is absent.
func (q *Queue) DeleteDup() bool {
	if q == nil {
		return false
	}
	head := &q.head

	var dups ring.Link[Element]
	// cutter is the link right before the current run.
	cutter := head
	for cur := head.Next(); cur != head; {
		next := cur.Next()
		if next != head && next.Owner().value == cur.Owner().value {
			cur = next
			continue
		}
		// cur ends the run that starts at cutter.Next().
		if cur.Prev() != cutter {
			var run ring.Link[Element]
			ring.CutPosition(&run, cutter, cur)
			ring.SpliceTail(&run, &dups)
		}
		cutter = next.Prev()
		cur = next
	}
	releaseAll(&dups)
	return true
}

// releaseAll releases every element of the ring anchored at head.
func releaseAll(head *ring.Link[Element]) {
	for !head.Empty() {
		head.Next().Owner().Release()
	}
}

// Swap exchanges the positions of every two adjacent elements. With an odd
// number of elements the last one stays in place.
func (q *Queue) Swap() {
	if q == nil {
		return
	}
	head := &q.head
	// After the move, cur is the second of its pair and cur.Next() starts the
	// following pair.
	for cur := head.Next(); cur != head && cur.Next() != head; cur = cur.Next() {
		ring.MoveTail(cur.Next(), cur)
	}
}

// Reverse reverses the order of the elements in q.
func (q *Queue) Reverse() {
	if q == nil {
		return
	}
	reverse(&q.head)
}

// reverse moves every element of the ring anchored at head to the front, in
// the order they are encountered.
func reverse(head *ring.Link[Element]) {
	for cur := head.Next(); cur != head; {
		next := cur.Next()
		ring.Move(cur, head)
		cur = next
	}
}

// ReverseK reverses every consecutive group of k elements in place. A trailing
// group with fewer than k elements keeps its order.
//
// Queues with a single element, or fewer than k elements, are left untouched.
func (q *Queue) ReverseK(k int) error {
	if q == nil {
		return ErrNilQueue
	}
	if k <= 0 {
		return ErrInvalidGroup
	}
	head := &q.head
	if head.Singular() || ring.Len(head) < k {
		return nil
	}

	var done ring.Link[Element]
	n := 0
	for cur := head.Next(); cur != head; {
		next := cur.Next()
		if n++; n == k {
			var group ring.Link[Element]
			ring.CutPosition(&group, head, cur)
			reverse(&group)
			ring.SpliceTail(&group, &done)
			n = 0
		}
		cur = next
	}
	ring.Splice(&done, head)
	return nil
}
