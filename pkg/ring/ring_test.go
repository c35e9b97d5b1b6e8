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

package ring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type item struct {
	name string
	link Link[item]
}

func newItem(name string) *item {
	it := &item{name: name}
	it.link.Init(it)
	return it
}

// build returns a ring holding one item per name, in order.
func build(names ...string) *Link[item] {
	head := &Link[item]{}
	for _, n := range names {
		AddTail(&newItem(n).link, head)
	}
	return head
}

func names(t *testing.T, head *Link[item]) []string {
	t.Helper()
	if err := Check(head); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	var got []string
	for l := head.Next(); l != head; l = l.Next() {
		got = append(got, l.Owner().name)
	}
	// Walk backwards too, to make sure prev links agree.
	var back []string
	for l := head.Prev(); l != head; l = l.Prev() {
		back = append([]string{l.Owner().name}, back...)
	}
	if diff := cmp.Diff(got, back); diff != "" {
		t.Fatalf("forward and backward walks differ (-fwd +back):\n%s", diff)
	}
	return got
}

func TestZeroValue(t *testing.T) {
	var head Link[item]
	if !head.Empty() {
		t.Errorf("zero Link is not empty")
	}
	if head.Singular() {
		t.Errorf("zero Link is singular")
	}
	if got := Len(&head); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
	if First(&head) != nil || Last(&head) != nil {
		t.Errorf("First/Last of an empty ring are not nil")
	}
	if err := Check(&head); err != nil {
		t.Errorf("Check failed: %v", err)
	}
	if head.Next() != &head || head.Prev() != &head {
		t.Errorf("zero Link did not self loop on first use")
	}
}

func TestAdd(t *testing.T) {
	head := &Link[item]{}
	a, b, c := newItem("a"), newItem("b"), newItem("c")
	Add(&b.link, head)
	Add(&a.link, head)
	AddTail(&c.link, head)
	if diff := cmp.Diff([]string{"a", "b", "c"}, names(t, head)); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
	if First(head) != a || Last(head) != c {
		t.Errorf("First/Last = %v/%v, want a/c", First(head).name, Last(head).name)
	}
	if head.Singular() {
		t.Errorf("three element ring reported as singular")
	}
}

func TestUnlink(t *testing.T) {
	head := build("a", "b", "c")
	b := head.Next().Next()
	b.Unlink()
	if !b.Empty() {
		t.Errorf("unlinked link is not detached")
	}
	if diff := cmp.Diff([]string{"a", "c"}, names(t, head)); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}

	// Unlinking again is harmless.
	b.Unlink()
	if diff := cmp.Diff([]string{"a", "c"}, names(t, head)); diff != "" {
		t.Errorf("ring mismatch after second unlink (-want +got):\n%s", diff)
	}

	head.Next().Unlink()
	if !head.Singular() {
		t.Errorf("ring with one element is not singular")
	}
	head.Next().Unlink()
	if !head.Empty() {
		t.Errorf("ring is not empty after removing everything")
	}
}

func TestMove(t *testing.T) {
	head := build("a", "b", "c", "d")
	d := head.Prev()
	Move(d, head)
	if diff := cmp.Diff([]string{"d", "a", "b", "c"}, names(t, head)); diff != "" {
		t.Errorf("Move mismatch (-want +got):\n%s", diff)
	}
	MoveTail(head.Next(), head)
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, names(t, head)); diff != "" {
		t.Errorf("MoveTail mismatch (-want +got):\n%s", diff)
	}
	// Moving b before a swaps them.
	a := head.Next()
	MoveTail(a.Next(), a)
	if diff := cmp.Diff([]string{"b", "a", "c", "d"}, names(t, head)); diff != "" {
		t.Errorf("swap mismatch (-want +got):\n%s", diff)
	}
}

func TestCutPosition(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in      []string
		at      int // index of the last element to cut, -1 for head.
		wantCut []string
		wantRem []string
	}{
		{
			name:    "head",
			in:      []string{"a", "b"},
			at:      -1,
			wantRem: []string{"a", "b"},
		},
		{
			name:    "first",
			in:      []string{"a", "b", "c"},
			at:      0,
			wantCut: []string{"a"},
			wantRem: []string{"b", "c"},
		},
		{
			name:    "middle",
			in:      []string{"a", "b", "c", "d"},
			at:      1,
			wantCut: []string{"a", "b"},
			wantRem: []string{"c", "d"},
		},
		{
			name:    "all",
			in:      []string{"a", "b", "c"},
			at:      2,
			wantCut: []string{"a", "b", "c"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			head := build(tc.in...)
			at := head
			for i := 0; i <= tc.at; i++ {
				at = at.Next()
			}
			var dst Link[item]
			CutPosition(&dst, head, at)
			if diff := cmp.Diff(tc.wantCut, names(t, &dst)); diff != "" {
				t.Errorf("cut mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantRem, names(t, head)); diff != "" {
				t.Errorf("remainder mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplice(t *testing.T) {
	head := build("a", "d")
	src := build("b", "c")
	Splice(src, head.Next())
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, names(t, head)); diff != "" {
		t.Errorf("Splice mismatch (-want +got):\n%s", diff)
	}
	if !src.Empty() {
		t.Errorf("source ring is not empty after Splice")
	}

	tail := build("e", "f")
	SpliceTail(tail, head)
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e", "f"}, names(t, head)); diff != "" {
		t.Errorf("SpliceTail mismatch (-want +got):\n%s", diff)
	}

	// Splicing an empty ring is a no-op.
	var empty Link[item]
	Splice(&empty, head)
	SpliceTail(&empty, head)
	if got := Len(head); got != 6 {
		t.Errorf("Len = %d after splicing an empty ring, want 6", got)
	}

	// Splicing into an empty ring.
	var dst Link[item]
	SpliceTail(head, &dst)
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e", "f"}, names(t, &dst)); diff != "" {
		t.Errorf("SpliceTail into empty mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckDetectsCorruption(t *testing.T) {
	head := build("a", "b", "c")
	b := head.Next().Next()
	b.prev = head
	if err := Check(head); err == nil {
		t.Errorf("Check accepted a ring with a broken prev link")
	}

	head = build("a", "b")
	head.Next().owner = nil
	if err := Check(head); err == nil {
		t.Errorf("Check accepted an element without an owner")
	}
}
