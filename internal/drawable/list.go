/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"shotedit/internal/vector"
)

// List is an ordered set of containers; the order is the z-order with index
// 0 at the bottom. All entries share the list's parent id, which identifies
// the capture session the elements belong to.
type List struct {
	items    []Container
	parentID uuid.UUID

	// OnModified is called after reordering or geometry changes.
	OnModified func()
}

func NewList() *List { return &List{parentID: uuid.New()} }

// NewListWithParent creates a list that belongs to an existing session.
func NewListWithParent(id uuid.UUID) *List { return &List{parentID: id} }

func (l *List) ParentID() uuid.UUID      { return l.parentID }
func (l *List) SetParentID(id uuid.UUID) { l.parentID = id }
func (l *List) Len() int                 { return len(l.items) }
func (l *List) At(i int) Container       { return l.items[i] }

// Items returns a copy of the entries, bottom first.
func (l *List) Items() []Container { return append([]Container(nil), l.items...) }

func (l *List) IndexOf(c Container) int {
	for i, x := range l.items {
		if x == c {
			return i
		}
	}
	return -1
}

func (l *List) Contains(c Container) bool { return l.IndexOf(c) >= 0 }

// Add appends c on top. Adding a present element is ignored.
func (l *List) Add(c Container) bool {
	if c == nil || l.Contains(c) {
		return false
	}
	l.items = append(l.items, c)
	return true
}

// AddAll appends every element not yet present.
func (l *List) AddAll(cs []Container) {
	for _, c := range cs {
		l.Add(c)
	}
}

// Insert places c at index i (clamped). Present elements are ignored.
func (l *List) Insert(i int, c Container) bool {
	if c == nil || l.Contains(c) {
		return false
	}
	if i < 0 {
		i = 0
	}
	if i > len(l.items) {
		i = len(l.items)
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = c
	return true
}

// Remove deletes c and returns its former index, or -1.
func (l *List) Remove(c Container) int {
	i := l.IndexOf(c)
	if i < 0 {
		return -1
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return i
}

// Clear empties the list without disposing the elements.
func (l *List) Clear() { l.items = nil }

// Draw paints the elements bottom to top. Elements whose drawing bounds miss
// clip are skipped unless they affect the whole canvas.
func (l *List) Draw(dc *gg.Context, mode RenderMode, clip vector.Rect) {
	for _, c := range l.items {
		if !clip.Empty() && !c.CoversCanvas() && !intersects(c.DrawingBounds(), clip) {
			continue
		}
		c.Draw(dc, mode)
	}
}

// DrawAdorners paints the handles of selected elements.
func (l *List) DrawAdorners(dc *gg.Context) {
	for _, c := range l.items {
		if !c.Selected() {
			continue
		}
		for _, a := range c.Adorners() {
			a.Draw(dc)
		}
	}
}

func intersects(a, b vector.Rect) bool {
	a, b = a.Normalize(), b.Normalize()
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// ClickableElementAt returns the topmost element hit at (x,y), or nil.
func (l *List) ClickableElementAt(x, y float64) Container {
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].ClickableAt(x, y) {
			return l.items[i]
		}
	}
	return nil
}

// ClickableElementsAt returns all elements hit at (x,y), topmost first.
func (l *List) ClickableElementsAt(x, y float64) []Container {
	var out []Container
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].ClickableAt(x, y) {
			out = append(out, l.items[i])
		}
	}
	return out
}

// AdornerAt returns the handle of a selected element at (x,y), topmost first.
func (l *List) AdornerAt(x, y float64) *Adorner {
	for i := len(l.items) - 1; i >= 0; i-- {
		c := l.items[i]
		if !c.Selected() {
			continue
		}
		for _, a := range c.Adorners() {
			if a.HitTest(x, y) {
				return a
			}
		}
	}
	return nil
}

func (l *List) MoveBy(dx, dy float64) {
	if len(l.items) == 0 || dx == 0 && dy == 0 {
		return
	}
	for _, c := range l.items {
		c.MoveBy(dx, dy)
	}
	l.modified()
}

func (l *List) Transform(m vector.Affine2D) {
	for _, c := range l.items {
		c.Transform(m)
	}
	l.modified()
}

// DrawingBounds is the union of the members' drawing bounds.
func (l *List) DrawingBounds() vector.Rect {
	var r vector.Rect
	for i, c := range l.items {
		if i == 0 {
			r = c.DrawingBounds()
			continue
		}
		r = r.Union(c.DrawingBounds())
	}
	return r
}

// SetSelected sets the flag on every member.
func (l *List) SetSelected(s bool) {
	for _, c := range l.items {
		c.SetSelected(s)
	}
}

// SetStatus sets the status of every member.
func (l *List) SetStatus(s Status) {
	for _, c := range l.items {
		c.SetStatus(s)
	}
}

// HasIntersectingFilters reports whether a filter element overlaps clip.
func (l *List) HasIntersectingFilters(clip vector.Rect) bool {
	for _, c := range l.items {
		if len(c.Filters()) > 0 && (c.CoversCanvas() || intersects(c.DrawingBounds(), clip)) {
			return true
		}
	}
	return false
}

// CanPullUp reports whether any element of sel can move up.
func (l *List) CanPullUp(sel *List) bool {
	if sel.Len() == 0 || sel.Len() == l.Len() {
		return false
	}
	for _, c := range sel.items {
		if i := l.IndexOf(c); i >= 0 && i < l.Len()-sel.Len() {
			return true
		}
	}
	return false
}

// CanPushDown reports whether any element of sel can move down.
func (l *List) CanPushDown(sel *List) bool {
	if sel.Len() == 0 || sel.Len() == l.Len() {
		return false
	}
	for _, c := range sel.items {
		if l.IndexOf(c) >= sel.Len() {
			return true
		}
	}
	return false
}

// PullElementsUp moves each element of sel one step up, past an unselected
// neighbour. Relative order inside both groups is kept.
func (l *List) PullElementsUp(sel *List) {
	changed := false
	for i := len(l.items) - 2; i >= 0; i-- {
		if sel.Contains(l.items[i]) && !sel.Contains(l.items[i+1]) {
			l.items[i], l.items[i+1] = l.items[i+1], l.items[i]
			changed = true
		}
	}
	if changed {
		l.modified()
	}
}

// PushElementsDown is the mirror of PullElementsUp.
func (l *List) PushElementsDown(sel *List) {
	changed := false
	for i := 1; i < len(l.items); i++ {
		if sel.Contains(l.items[i]) && !sel.Contains(l.items[i-1]) {
			l.items[i], l.items[i-1] = l.items[i-1], l.items[i]
			changed = true
		}
	}
	if changed {
		l.modified()
	}
}

// PullElementsToTop moves sel above all other elements (stable partition).
func (l *List) PullElementsToTop(sel *List) {
	l.partition(sel, false)
}

// PushElementsToBottom moves sel below all other elements (stable partition).
func (l *List) PushElementsToBottom(sel *List) {
	l.partition(sel, true)
}

func (l *List) partition(sel *List, selectedFirst bool) {
	var in, out []Container
	for _, c := range l.items {
		if sel.Contains(c) {
			in = append(in, c)
		} else {
			out = append(out, c)
		}
	}
	if len(in) == 0 {
		return
	}
	var next []Container
	if selectedFirst {
		next = append(in, out...)
	} else {
		next = append(out, in...)
	}
	same := true
	for i := range next {
		if next[i] != l.items[i] {
			same = false
			break
		}
	}
	l.items = next
	if !same {
		l.modified()
	}
}

// SetOrder replaces the order with items, which must hold the same elements.
func (l *List) SetOrder(items []Container) {
	l.items = append([]Container(nil), items...)
	l.modified()
}

// Dispose disposes every element and empties the list.
func (l *List) Dispose() {
	for _, c := range l.items {
		c.Dispose()
	}
	l.items = nil
}

func (l *List) modified() {
	if l.OnModified != nil {
		l.OnModified()
	}
}
