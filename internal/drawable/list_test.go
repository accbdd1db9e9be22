/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"shotedit/internal/vector"
)

func rects(n int) ([]Container, *List) {
	l := NewList()
	var cs []Container
	for i := 0; i < n; i++ {
		r := NewRectangle(nil)
		r.SetRect(vector.R(float64(10*i), 0, 50, 50))
		cs = append(cs, r)
		l.Add(r)
	}
	return cs, l
}

func sameOrder(l *List, want ...Container) bool {
	if l.Len() != len(want) {
		return false
	}
	for i, c := range want {
		if l.At(i) != c {
			return false
		}
	}
	return true
}

func selection(cs ...Container) *List {
	s := NewList()
	for _, c := range cs {
		s.Add(c)
	}
	return s
}

func TestListAddInsertRemove(t *testing.T) {
	cs, l := rects(3)
	if l.Add(cs[0]) || l.Len() != 3 {
		t.Fatalf("duplicate add must be ignored")
	}
	if i := l.Remove(cs[1]); i != 1 || l.Contains(cs[1]) {
		t.Fatalf("remove returned %d", i)
	}
	l.Insert(1, cs[1])
	if !sameOrder(l, cs[0], cs[1], cs[2]) {
		t.Fatalf("insert did not restore position")
	}
	if l.Remove(NewEllipse(nil)) != -1 {
		t.Fatalf("removing a stranger must report -1")
	}
	l.Insert(-5, NewEllipse(nil))
	l.Insert(99, NewEllipse(nil))
	if l.Len() != 5 || l.At(0).Kind() != KindEllipse || l.At(4).Kind() != KindEllipse {
		t.Fatalf("insert must clamp the index")
	}
}

func TestClickableElementAtReturnsTopmost(t *testing.T) {
	cs, l := rects(3) // the top edges of all three overlap at x=20..50
	if got := l.ClickableElementAt(20, 0); got != cs[2] {
		t.Fatalf("expected topmost element")
	}
	if hits := l.ClickableElementsAt(20, 0); len(hits) != 3 || hits[0] != cs[2] || hits[2] != cs[0] {
		t.Fatalf("hits not ordered topmost first: %d", len(hits))
	}
	if l.ClickableElementAt(500, 500) != nil {
		t.Fatalf("expected miss")
	}
}

func TestZOrderOperations(t *testing.T) {
	cs, l := rects(4) // a b c d
	a, b, c, d := cs[0], cs[1], cs[2], cs[3]
	mods := 0
	l.OnModified = func() { mods++ }

	l.PullElementsUp(selection(a, c))
	if !sameOrder(l, b, a, d, c) {
		t.Fatalf("pull up wrong")
	}
	l.PushElementsDown(selection(a, c))
	if !sameOrder(l, a, b, c, d) {
		t.Fatalf("push down wrong")
	}
	l.PullElementsToTop(selection(b))
	if !sameOrder(l, a, c, d, b) {
		t.Fatalf("to top wrong")
	}
	l.PushElementsToBottom(selection(d, b))
	if !sameOrder(l, d, b, a, c) {
		t.Fatalf("to bottom must keep relative order of the moved subset")
	}
	if mods != 4 {
		t.Fatalf("every reorder must mark modified, got %d", mods)
	}
	l.PushElementsToBottom(selection(d))
	if mods != 4 {
		t.Fatalf("no-op reorder must not mark modified")
	}

	if l.CanPushDown(selection(d)) || !l.CanPullUp(selection(d)) {
		t.Fatalf("bottom element can only move up")
	}
	if l.CanPullUp(selection(c)) || !l.CanPushDown(selection(c)) {
		t.Fatalf("top element can only move down")
	}
	if l.CanPullUp(selection(a, b, c, d)) || l.CanPushDown(selection()) {
		t.Fatalf("full or empty selection cannot move")
	}
}

func TestListMoveTransformBounds(t *testing.T) {
	cs, l := rects(2)
	mods := 0
	l.OnModified = func() { mods++ }
	l.MoveBy(5, 5)
	l.MoveBy(0, 0)
	if cs[1].Rect().X != 15 || mods != 1 {
		t.Fatalf("move: %v mods=%d", cs[1].Rect(), mods)
	}
	l.Transform(vector.Translate(-5, -5))
	db := l.DrawingBounds()
	for _, c := range cs {
		if u := db.Union(c.DrawingBounds()); u != db {
			t.Fatalf("union must contain every member")
		}
	}
	l.SetSelected(true)
	if !cs[0].Selected() || l.AdornerAt(60, 50) == nil {
		t.Fatalf("selected elements must expose adorners")
	}
	l.Dispose()
	if l.Len() != 0 || cs[0].Status() != StatusDisposed {
		t.Fatalf("dispose must empty the list and dispose members")
	}
}

// Pulling a selection to the top and pushing it to the bottom again is a
// stable partition; it restores the original order exactly when the
// selection already formed the bottom of the stack.
func TestProperty_ToTopThenToBottom(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("stable partition", prop.ForAll(
		func(mask []bool) bool {
			cs, l := rects(len(mask))
			var sel, rest []Container
			prefix := true
			seenUnselected := false
			for i, m := range mask {
				if m {
					sel = append(sel, cs[i])
					if seenUnselected {
						prefix = false
					}
				} else {
					rest = append(rest, cs[i])
					seenUnselected = true
				}
			}
			s := selection(sel...)
			l.PullElementsToTop(s)
			if !sameOrder(l, append(append([]Container(nil), rest...), sel...)...) {
				return false
			}
			l.PushElementsToBottom(s)
			if !sameOrder(l, append(append([]Container(nil), sel...), rest...)...) {
				return false
			}
			return sameOrder(l, cs...) == prefix
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
