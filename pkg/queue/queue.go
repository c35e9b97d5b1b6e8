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

// Package queue implements a queue of text values on top of an intrusive
// ring.
//
// Every Element embeds its own ring.Link; a Queue is nothing more than the
// sentinel of that ring. Insertion and removal at either end are O(1), and the
// list-wide transformations (reversal, grouped reversal, pruning, sorting and
// merging) only relink elements, they never copy values.
//
// Methods accept a nil *Queue: such a queue is treated as absent, and every
// operation on it is a no-op that reports failure, zero, or ErrNilQueue.
//
// A Queue is not safe for concurrent use. Callers that share queues across
// goroutines, including every queue taking part in a Merge, must serialize
// access themselves.
package queue

import (
	"fmt"
	"strings"

	"gvisor.dev/ringq/pkg/errors"
	"gvisor.dev/ringq/pkg/ring"
)

var (
	// ErrNilQueue is returned when an operation that reports errors is
	// given an absent queue.
	ErrNilQueue = errors.New(errors.InvalidArgument, "queue is nil")

	// ErrEmptyValue is returned when inserting an empty value.
	ErrEmptyValue = errors.New(errors.InvalidArgument, "value is empty")

	// ErrInvalidGroup is returned by ReverseK for a non-positive group size.
	ErrInvalidGroup = errors.New(errors.InvalidArgument, "group size must be positive")
)

// Element is a queue member. It owns its value.
type Element struct {
	value string
	link  ring.Link[Element]
}

// newElement returns a detached element holding a private copy of s.
func newElement(s string) *Element {
	e := &Element{value: strings.Clone(s)}
	e.link.Init(e)
	return e
}

// Value returns the element's value.
func (e *Element) Value() string {
	return e.value
}

// Release detaches e from whatever ring it is in and drops its value. e must
// not be used afterwards.
func (e *Element) Release() {
	if e == nil {
		return
	}
	e.link.Unlink()
	e.value = ""
}

// Queue is a ring of Elements anchored at a sentinel.
//
// The zero value for Queue is an empty queue ready to use.
type Queue struct {
	head ring.Link[Element]
}

// New returns an empty queue.
func New() *Queue {
	q := &Queue{}
	q.head.Init(nil)
	return q
}

// Free releases every element still in q, leaving q empty.
func (q *Queue) Free() {
	if q == nil {
		return
	}
	head := &q.head
	for l := head.Next(); l != head; {
		next := l.Next()
		l.Owner().Release()
		l = next
	}
}

// InsertHead inserts a copy of s at the head of q.
func (q *Queue) InsertHead(s string) error {
	if err := q.checkInsert(s); err != nil {
		return err
	}
	ring.Add(&newElement(s).link, &q.head)
	return nil
}

// InsertTail inserts a copy of s at the tail of q.
func (q *Queue) InsertTail(s string) error {
	if err := q.checkInsert(s); err != nil {
		return err
	}
	ring.AddTail(&newElement(s).link, &q.head)
	return nil
}

func (q *Queue) checkInsert(s string) error {
	if q == nil {
		return ErrNilQueue
	}
	if len(s) == 0 {
		return ErrEmptyValue
	}
	return nil
}

// RemoveHead unlinks the first element of q and returns it, or returns nil if
// q is absent or empty. The caller owns the returned element.
//
// If buf is not empty, the value is copied into it, truncated to len(buf)-1
// bytes and followed by a NUL byte. buf is never written past its length.
func (q *Queue) RemoveHead(buf []byte) *Element {
	if q == nil || q.head.Empty() {
		return nil
	}
	return remove(q.head.Next(), buf)
}

// RemoveTail is like RemoveHead, but for the last element of q.
func (q *Queue) RemoveTail(buf []byte) *Element {
	if q == nil || q.head.Empty() {
		return nil
	}
	return remove(q.head.Prev(), buf)
}

func remove(l *ring.Link[Element], buf []byte) *Element {
	e := l.Owner()
	if len(buf) > 0 {
		n := copy(buf[:len(buf)-1], e.value)
		buf[n] = 0
	}
	l.Unlink()
	return e
}

// Size returns the number of elements in q.
//
// NOTE: This is an O(n) operation.
func (q *Queue) Size() int {
	if q == nil {
		return 0
	}
	return ring.Len(&q.head)
}

// Empty returns true iff q is absent or has no elements.
func (q *Queue) Empty() bool {
	return q == nil || q.head.Empty()
}

// Front returns the first element of q without removing it, or nil.
func (q *Queue) Front() *Element {
	if q == nil {
		return nil
	}
	return ring.First(&q.head)
}

// Back returns the last element of q without removing it, or nil.
func (q *Queue) Back() *Element {
	if q == nil {
		return nil
	}
	return ring.Last(&q.head)
}

// Values returns the values of q from head to tail.
func (q *Queue) Values() []string {
	if q == nil {
		return nil
	}
	var vs []string
	for l := q.head.Next(); l != &q.head; l = l.Next() {
		vs = append(vs, l.Owner().value)
	}
	return vs
}

// Check verifies the ring invariants of q and that every element holds a
// value. An absent queue is trivially consistent.
func (q *Queue) Check() error {
	if q == nil {
		return nil
	}
	if err := ring.Check(&q.head); err != nil {
		return err
	}
	i := 0
	for l := q.head.Next(); l != &q.head; l = l.Next() {
		if l.Owner().value == "" {
			return fmt.Errorf("element %d has an empty value", i)
		}
		i++
	}
	return nil
}
