/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"image"
	"slices"

	"shotedit/internal/drawable"
	"shotedit/internal/field"
	"shotedit/internal/undo"
	"shotedit/internal/vector"
)

// addElements undoes an addition by taking the elements out again.
type addElements struct {
	s     *Surface
	elems []drawable.Container
}

func (m *addElements) Restore() undo.Memento {
	elems, idx := m.s.detach(m.elems)
	m.s.emit(EventElementsChanged, "")
	return &deleteElements{s: m.s, elems: elems, indices: idx}
}

// Merge absorbs the bounds changes of a drag that is still creating the
// added elements.
func (m *addElements) Merge(newer undo.Memento) bool {
	b, ok := newer.(*boundsChange)
	if !ok {
		return false
	}
	for _, e := range b.entries {
		if !slices.Contains(m.elems, e.c) {
			return false
		}
	}
	return true
}

func (m *addElements) Dispose() {}

// deleteElements undoes a removal; indices are the former z positions in
// ascending order.
type deleteElements struct {
	s       *Surface
	elems   []drawable.Container
	indices []int
}

func (m *deleteElements) Restore() undo.Memento {
	m.s.reinsert(m.elems, m.indices)
	return &addElements{s: m.s, elems: m.elems}
}

func (m *deleteElements) Merge(undo.Memento) bool { return false }

// Dispose releases the elements once no history can bring them back.
func (m *deleteElements) Dispose() {
	for _, c := range m.elems {
		if !m.s.elements.Contains(c) {
			c.Dispose()
		}
	}
}

// geometry is everything a move or resize can change on an element.
type geometry struct {
	rect   vector.Rect
	points []vector.Pt
	target vector.Pt
}

func geometryOf(c drawable.Container) geometry {
	g := geometry{rect: c.Rect()}
	switch e := c.(type) {
	case *drawable.Freehand:
		g.points = e.Points()
	case *drawable.SpeechBubble:
		g.target = e.Target()
	}
	return g
}

func (g geometry) applyTo(c drawable.Container) {
	switch e := c.(type) {
	case *drawable.Freehand:
		e.SetPoints(g.points)
		return
	case *drawable.SpeechBubble:
		e.SetTarget(g.target)
	}
	c.SetRect(g.rect)
}

type boundsEntry struct {
	c drawable.Container
	g geometry
}

// boundsChange records the geometry of a set of elements before a move or
// resize. Offers for the same set merge, so a drag is one undo step.
type boundsChange struct {
	s       *Surface
	entries []boundsEntry
}

func newBoundsChange(s *Surface, cs []drawable.Container) *boundsChange {
	m := &boundsChange{s: s, entries: make([]boundsEntry, len(cs))}
	for i, c := range cs {
		m.entries[i] = boundsEntry{c: c, g: geometryOf(c)}
	}
	return m
}

func (m *boundsChange) Restore() undo.Memento {
	inv := &boundsChange{s: m.s, entries: make([]boundsEntry, len(m.entries))}
	for i, e := range m.entries {
		inv.entries[i] = boundsEntry{c: e.c, g: geometryOf(e.c)}
		e.g.applyTo(e.c)
	}
	m.s.emit(EventElementsChanged, "")
	return inv
}

func (m *boundsChange) Merge(newer undo.Memento) bool {
	b, ok := newer.(*boundsChange)
	if !ok || len(b.entries) != len(m.entries) {
		return false
	}
	for i := range m.entries {
		if m.entries[i].c != b.entries[i].c {
			return false
		}
	}
	return true
}

func (m *boundsChange) Dispose() {}

type fieldEntry struct {
	c drawable.Container
	v any
}

// fieldChange keeps the previous value of one field type on each element.
type fieldChange struct {
	t       field.Type
	entries []fieldEntry
}

func (m *fieldChange) Restore() undo.Memento {
	inv := &fieldChange{t: m.t, entries: make([]fieldEntry, len(m.entries))}
	for i, e := range m.entries {
		h := e.c.FieldHolder()
		inv.entries[i] = fieldEntry{c: e.c, v: h.Value(m.t)}
		h.SetValue(m.t, e.v)
	}
	return inv
}

// Merge folds writes of the same type into one step. The oldest value per
// element wins.
func (m *fieldChange) Merge(newer undo.Memento) bool {
	f, ok := newer.(*fieldChange)
	if !ok || f.t != m.t {
		return false
	}
	for _, e := range f.entries {
		if !slices.ContainsFunc(m.entries, func(x fieldEntry) bool { return x.c == e.c }) {
			m.entries = append(m.entries, e)
		}
	}
	return true
}

func (m *fieldChange) Dispose() {}

type textElement interface {
	drawable.Container
	Text() string
	SetText(string)
}

// textChange keeps the previous text of a text element.
type textChange struct {
	s   *Surface
	c   textElement
	old string
}

func (m *textChange) Restore() undo.Memento {
	cur := m.c.Text()
	m.c.SetText(m.old)
	m.s.emit(EventElementsChanged, "")
	return &textChange{s: m.s, c: m.c, old: cur}
}

// Merge coalesces typing into one element.
func (m *textChange) Merge(newer undo.Memento) bool {
	t, ok := newer.(*textChange)
	return ok && t.c == m.c
}

func (m *textChange) Dispose() {}

// backgroundChange keeps a replaced background and the transform that was
// applied to the elements when it was replaced.
type backgroundChange struct {
	s   *Surface
	img *image.RGBA
	m   vector.Affine2D
}

func (m *backgroundChange) Restore() undo.Memento {
	inv, ok := m.m.Invert()
	if !ok {
		inv = vector.Identity
	}
	cur := m.s.image
	m.s.image = m.img
	if !inv.IsIdentity() {
		m.s.elements.Transform(inv)
	}
	m.s.emit(EventSizeChanged, "")
	return &backgroundChange{s: m.s, img: cur, m: inv}
}

func (m *backgroundChange) Merge(undo.Memento) bool { return false }

// Dispose drops the bitmap reference once the entry leaves the history.
func (m *backgroundChange) Dispose() { m.img = nil }

func (m *backgroundChange) Size() int {
	if m.img == nil {
		return 0
	}
	return len(m.img.Pix)
}

// elementOrder keeps a full z-order snapshot.
type elementOrder struct {
	s     *Surface
	order []drawable.Container
}

func (m *elementOrder) Restore() undo.Memento {
	cur := m.s.elements.Items()
	m.s.elements.SetOrder(m.order)
	m.s.emit(EventElementsChanged, "")
	return &elementOrder{s: m.s, order: cur}
}

func (m *elementOrder) Merge(undo.Memento) bool { return false }
func (m *elementOrder) Dispose()                {}
