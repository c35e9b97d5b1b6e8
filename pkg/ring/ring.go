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

// Package ring provides a circular, doubly-linked, intrusive list.
//
// A ring is anchored by a sentinel Link that has no owner. Objects join a
// ring by embedding a Link and registering themselves as its owner, so that
// walking the ring yields the objects directly:
//
//	type Item struct {
//		name string
//		link ring.Link[Item]
//	}
//
//	var head ring.Link[Item]
//	it := &Item{name: "a"}
//	it.link.Init(it)
//	ring.AddTail(&it.link, &head)
//
//	for l := head.Next(); l != &head; l = l.Next() {
//		// do something with l.Owner().
//	}
//
// The functions in this package are the only code allowed to modify the
// next and prev relations. Misuse, such as passing nil or linking a node that
// is still part of another ring, is a programming error and is not reported.
//
// A ring is not safe for concurrent use.
package ring

import (
	"fmt"
)

// Link is the node embedded in every object that participates in a ring.
//
// The zero value is a detached link. A detached link is also an empty ring,
// which means that a zero Link can be used as a sentinel directly.
type Link[T any] struct {
	next  *Link[T]
	prev  *Link[T]
	owner *T
}

// Init detaches l and sets its owner.
func (l *Link[T]) Init(owner *T) {
	l.next = l
	l.prev = l
	l.owner = owner
}

// lazyInit turns a zero Link into a self loop.
func (l *Link[T]) lazyInit() {
	if l.next == nil {
		l.next = l
		l.prev = l
	}
}

// Next returns the link that follows l.
func (l *Link[T]) Next() *Link[T] {
	l.lazyInit()
	return l.next
}

// Prev returns the link that precedes l.
func (l *Link[T]) Prev() *Link[T] {
	l.lazyInit()
	return l.prev
}

// Owner returns the object l is embedded in, or nil for a sentinel.
func (l *Link[T]) Owner() *T {
	return l.owner
}

// Empty returns true iff l is the only link in its ring.
//
// For a sentinel this means the ring has no elements; for any other link it
// means the link is detached.
func (l *Link[T]) Empty() bool {
	return l.next == nil || l.next == l
}

// Singular returns true iff the ring anchored at l holds exactly one other
// link.
func (l *Link[T]) Singular() bool {
	return !l.Empty() && l.next == l.prev
}

// First returns the owner of the first element of the ring anchored at head,
// or nil if the ring is empty.
func First[T any](head *Link[T]) *T {
	if head.Empty() {
		return nil
	}
	return head.next.owner
}

// Last returns the owner of the last element of the ring anchored at head,
// or nil if the ring is empty.
func Last[T any](head *Link[T]) *T {
	if head.Empty() {
		return nil
	}
	return head.prev.owner
}

// insert links n between two consecutive links.
func insert[T any](n, prev, next *Link[T]) {
	next.prev = n
	n.next = next
	n.prev = prev
	prev.next = n
}

// Add links n into the ring immediately after after.
func Add[T any](n, after *Link[T]) {
	after.lazyInit()
	insert(n, after, after.next)
}

// AddTail links n into the ring immediately before before. When before is a
// sentinel, n becomes the last element.
func AddTail[T any](n, before *Link[T]) {
	before.lazyInit()
	insert(n, before.prev, before)
}

// Unlink removes l from its ring, reconnecting its former neighbors, and
// leaves l detached. Unlinking a detached link is a no-op.
func (l *Link[T]) Unlink() {
	if l.Empty() {
		l.lazyInit()
		return
	}
	l.prev.next = l.next
	l.next.prev = l.prev
	l.next = l
	l.prev = l
}

// Move unlinks n and links it again immediately after after.
func Move[T any](n, after *Link[T]) {
	n.Unlink()
	Add(n, after)
}

// MoveTail unlinks n and links it again immediately before before.
func MoveTail[T any](n, before *Link[T]) {
	n.Unlink()
	AddTail(n, before)
}

// CutPosition moves the elements of head, from the first one up to and
// including at, into dst. dst must be empty and at must be an element of
// head's ring or head itself, in which case nothing is moved.
//
// This runs in O(1).
func CutPosition[T any](dst, head, at *Link[T]) {
	dst.lazyInit()
	head.lazyInit()
	if head.Empty() || at == head {
		return
	}
	first := head.next
	rest := at.next

	dst.next = first
	first.prev = dst
	dst.prev = at
	at.next = dst

	head.next = rest
	rest.prev = head
}

// splice grafts every element of src between prev and next. src is left
// untouched and must be reinitialized by the caller.
func splice[T any](src, prev, next *Link[T]) {
	first := src.next
	last := src.prev

	first.prev = prev
	prev.next = first

	last.next = next
	next.prev = last
}

// Splice moves every element of src, in order, to immediately after after,
// leaving src empty. This runs in O(1).
func Splice[T any](src, after *Link[T]) {
	if src.Empty() {
		return
	}
	after.lazyInit()
	splice(src, after, after.next)
	src.next = src
	src.prev = src
}

// SpliceTail moves every element of src, in order, to immediately before
// before, leaving src empty. This runs in O(1).
func SpliceTail[T any](src, before *Link[T]) {
	if src.Empty() {
		return
	}
	before.lazyInit()
	splice(src, before.prev, before)
	src.next = src
	src.prev = src
}

// Len returns the number of elements in the ring anchored at head.
//
// NOTE: This is an O(n) operation.
func Len[T any](head *Link[T]) (count int) {
	for l := head.Next(); l != head; l = l.next {
		count++
	}
	return count
}

// Check walks the ring anchored at head and verifies that it is circular,
// that every link is consistent with both of its neighbors, that no link
// appears twice and that only head lacks an owner.
func Check[T any](head *Link[T]) error {
	if head.Empty() {
		if head.next != nil && head.prev != head {
			return fmt.Errorf("empty sentinel %p has prev %p", head, head.prev)
		}
		return nil
	}
	seen := map[*Link[T]]struct{}{head: {}}
	for l, i := head, 0; ; l, i = l.next, i+1 {
		if l.next == nil || l.prev == nil {
			return fmt.Errorf("link %d (%p) is not linked", i, l)
		}
		if l.next.prev != l {
			return fmt.Errorf("link %d (%p): next.prev is %p", i, l, l.next.prev)
		}
		if l.prev.next != l {
			return fmt.Errorf("link %d (%p): prev.next is %p", i, l, l.prev.next)
		}
		if l != head && l.owner == nil {
			return fmt.Errorf("link %d (%p) has no owner", i, l)
		}
		if l.next == head {
			return nil
		}
		if _, ok := seen[l.next]; ok {
			return fmt.Errorf("link %p appears twice", l.next)
		}
		seen[l.next] = struct{}{}
	}
}
