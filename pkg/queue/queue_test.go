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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gvisor.dev/ringq/pkg/errors"
	"gvisor.dev/ringq/pkg/ring"
)

// newQueue returns a queue holding vs, head to tail.
func newQueue(t *testing.T, vs ...string) *Queue {
	t.Helper()
	q := New()
	for _, v := range vs {
		if err := q.InsertTail(v); err != nil {
			t.Fatalf("InsertTail(%q) failed: %v", v, err)
		}
	}
	return q
}

// values returns the contents of q after checking its invariants.
func values(t *testing.T, q *Queue) []string {
	t.Helper()
	if err := q.Check(); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	return q.Values()
}

func expect(t *testing.T, q *Queue, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, values(t, q), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	q := New()
	if !q.Empty() {
		t.Errorf("new queue is not empty")
	}
	if got := q.Size(); got != 0 {
		t.Errorf("Size = %d, want 0", got)
	}
	expect(t, q)

	var zero Queue
	if err := zero.InsertTail("a"); err != nil {
		t.Fatalf("InsertTail on zero Queue failed: %v", err)
	}
	expect(t, &zero, "a")
}

func TestInsert(t *testing.T) {
	q := New()
	for _, v := range []string{"b", "a"} {
		if err := q.InsertHead(v); err != nil {
			t.Fatalf("InsertHead(%q) failed: %v", v, err)
		}
	}
	for _, v := range []string{"c", "d"} {
		if err := q.InsertTail(v); err != nil {
			t.Fatalf("InsertTail(%q) failed: %v", v, err)
		}
	}
	expect(t, q, "a", "b", "c", "d")
	if got := q.Size(); got != 4 {
		t.Errorf("Size = %d, want 4", got)
	}
	if got := q.Front().Value(); got != "a" {
		t.Errorf("Front = %q, want a", got)
	}
	if got := q.Back().Value(); got != "d" {
		t.Errorf("Back = %q, want d", got)
	}
}

func TestInsertInvalid(t *testing.T) {
	q := newQueue(t, "a")
	for _, tc := range []struct {
		name string
		q    *Queue
		s    string
		want error
	}{
		{name: "nil queue head", q: nil, s: "x", want: ErrNilQueue},
		{name: "empty value", q: q, s: "", want: ErrEmptyValue},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.q.InsertHead(tc.s); err != tc.want {
				t.Errorf("InsertHead = %v, want %v", err, tc.want)
			}
			if err := tc.q.InsertTail(tc.s); err != tc.want {
				t.Errorf("InsertTail = %v, want %v", err, tc.want)
			}
			if code, _ := errors.CodeOf(tc.want); code != errors.InvalidArgument {
				t.Errorf("code = %v, want %v", code, errors.InvalidArgument)
			}
		})
	}
	expect(t, q, "a")
}

func TestInsertCopiesValue(t *testing.T) {
	buf := []byte("abc")
	q := New()
	if err := q.InsertTail(string(buf)); err != nil {
		t.Fatalf("InsertTail failed: %v", err)
	}
	buf[0] = 'z'
	expect(t, q, "abc")
}

func TestRemove(t *testing.T) {
	q := newQueue(t, "a", "b", "c")

	e := q.RemoveHead(nil)
	if e == nil || e.Value() != "a" {
		t.Fatalf("RemoveHead = %v, want a", e)
	}
	e.Release()

	e = q.RemoveTail(nil)
	if e == nil || e.Value() != "c" {
		t.Fatalf("RemoveTail = %v, want c", e)
	}
	e.Release()
	expect(t, q, "b")

	if e := q.RemoveHead(nil); e == nil || e.Value() != "b" {
		t.Fatalf("RemoveHead = %v, want b", e)
	}
	if e := q.RemoveHead(nil); e != nil {
		t.Errorf("RemoveHead on empty queue = %q, want nil", e.Value())
	}
	if e := q.RemoveTail(nil); e != nil {
		t.Errorf("RemoveTail on empty queue = %q, want nil", e.Value())
	}
}

func TestRemoveDetaches(t *testing.T) {
	q := newQueue(t, "a", "b")
	e := q.RemoveHead(nil)
	if !e.link.Empty() {
		t.Errorf("removed element is still linked")
	}
	// A removed element can be linked into another ring without corrupting
	// the one it came from.
	other := New()
	ring.AddTail(&e.link, &other.head)
	expect(t, q, "b")
	expect(t, other, "a")
}

func TestRemoveBuffer(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value string
		size  int
		want  []byte
	}{
		{name: "fits", value: "abc", size: 8, want: []byte{'a', 'b', 'c', 0, '.', '.', '.', '.'}},
		{name: "exact", value: "abc", size: 4, want: []byte{'a', 'b', 'c', 0}},
		{name: "truncated", value: "abcdef", size: 4, want: []byte{'a', 'b', 'c', 0}},
		{name: "one byte", value: "abc", size: 1, want: []byte{0}},
		{name: "zero bytes", value: "abc", size: 0, want: []byte{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := newQueue(t, tc.value, tc.value)
			for _, remove := range []func([]byte) *Element{q.RemoveHead, q.RemoveTail} {
				// The backing array is one byte longer than the
				// buffer so that overruns are observable.
				backing := bytes.Repeat([]byte{'.'}, tc.size+1)
				buf := backing[:tc.size]
				if e := remove(buf); e == nil || e.Value() != tc.value {
					t.Fatalf("remove = %v, want %q", e, tc.value)
				}
				if diff := cmp.Diff(tc.want, buf); diff != "" {
					t.Errorf("buffer mismatch (-want +got):\n%s", diff)
				}
				if backing[tc.size] != '.' {
					t.Errorf("buffer written past its length")
				}
			}
		})
	}
}

func TestStackAndQueueDiscipline(t *testing.T) {
	q := New()
	in := []string{"1", "2", "3", "4", "5"}
	for _, v := range in {
		if err := q.InsertHead(v); err != nil {
			t.Fatalf("InsertHead(%q) failed: %v", v, err)
		}
	}
	// Removing from the tail gives insertion order.
	var got []string
	for e := q.RemoveTail(nil); e != nil; e = q.RemoveTail(nil) {
		got = append(got, e.Value())
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("tail removal mismatch (-want +got):\n%s", diff)
	}

	for _, v := range in {
		if err := q.InsertHead(v); err != nil {
			t.Fatalf("InsertHead(%q) failed: %v", v, err)
		}
	}
	// Removing from the head gives reverse insertion order.
	got = nil
	for e := q.RemoveHead(nil); e != nil; e = q.RemoveHead(nil) {
		got = append(got, e.Value())
	}
	want := []string{"5", "4", "3", "2", "1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("head removal mismatch (-want +got):\n%s", diff)
	}
}

func TestSizeTracksOperations(t *testing.T) {
	q := New()
	ops := []struct {
		insert bool
		head   bool
	}{
		{true, true}, {true, false}, {true, true}, {false, true},
		{true, false}, {false, false}, {false, false}, {false, true},
		{false, true}, {true, true},
	}
	want := 0
	for i, op := range ops {
		switch {
		case op.insert && op.head:
			q.InsertHead("x")
			want++
		case op.insert:
			q.InsertTail("y")
			want++
		case op.head:
			if q.RemoveHead(nil) != nil {
				want--
			}
		default:
			if q.RemoveTail(nil) != nil {
				want--
			}
		}
		if got := q.Size(); got != want {
			t.Fatalf("op %d: Size = %d, want %d", i, got, want)
		}
		if err := q.Check(); err != nil {
			t.Fatalf("op %d: Check failed: %v", i, err)
		}
	}
}

func TestFree(t *testing.T) {
	q := newQueue(t, "a", "b", "c")
	front := q.Front()
	q.Free()
	expect(t, q)
	if !front.link.Empty() || front.Value() != "" {
		t.Errorf("Free left an element linked or holding a value")
	}
	// Free on an empty queue is harmless.
	q.Free()
	expect(t, q)
}

func TestNilQueue(t *testing.T) {
	var q *Queue
	q.Free()
	if q.Size() != 0 || !q.Empty() {
		t.Errorf("nil queue is not empty")
	}
	if q.RemoveHead(make([]byte, 4)) != nil || q.RemoveTail(nil) != nil {
		t.Errorf("removal from nil queue returned an element")
	}
	if q.Front() != nil || q.Back() != nil || q.Values() != nil {
		t.Errorf("nil queue has contents")
	}
	if q.DeleteMid() {
		t.Errorf("DeleteMid on nil queue succeeded")
	}
	if q.DeleteDup() {
		t.Errorf("DeleteDup on nil queue succeeded")
	}
	q.Swap()
	q.Reverse()
	if err := q.ReverseK(2); err != ErrNilQueue {
		t.Errorf("ReverseK = %v, want %v", err, ErrNilQueue)
	}
	q.Sort(false)
	q.Sort(true)
	if q.Ascend() != 0 || q.Descend() != 0 {
		t.Errorf("pruning a nil queue removed elements")
	}
	if got := Merge(q, []*Queue{New()}, false); got != 0 {
		t.Errorf("Merge into nil queue = %d, want 0", got)
	}
	if err := q.Check(); err != nil {
		t.Errorf("Check on nil queue failed: %v", err)
	}
}
