/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"slices"

	"shotedit/internal/drawable"
	"shotedit/internal/vector"
)

// duplicateOffset is the shift applied to pasted or duplicated elements
// that originate from the same surface.
const duplicateOffset = 10

// SetCounterStart sets the number of the first step label.
func (s *Surface) SetCounterStart(n int) {
	if n == s.counterStart {
		return
	}
	s.counterStart = n
	s.renumber()
	s.markModified()
}

func (s *Surface) CounterStart() int { return s.counterStart }

// StepLabels returns the labels on the surface in numbering order.
func (s *Surface) StepLabels() []*drawable.StepLabel {
	return append([]*drawable.StepLabel(nil), s.stepLabels...)
}

func (s *Surface) renumber() {
	for i, sl := range s.stepLabels {
		sl.SetNumber(s.counterStart + i)
	}
}

// seqOf returns the creation sequence of sl, assigning the next one on
// first sight. Labels keep their sequence while removed so undo puts them
// back in their old place.
func (s *Surface) seqOf(sl *drawable.StepLabel) uint64 {
	if s.labelSeq == nil {
		s.labelSeq = make(map[*drawable.StepLabel]uint64)
	}
	n, ok := s.labelSeq[sl]
	if !ok {
		s.nextSeq++
		n = s.nextSeq
		s.labelSeq[sl] = n
	}
	return n
}

func (s *Surface) sortStepLabels() {
	slices.SortStableFunc(s.stepLabels, func(a, b *drawable.StepLabel) int {
		return cmp.Compare(s.seqOf(a), s.seqOf(b))
	})
}

func (s *Surface) forgetStepLabel(c drawable.Container) {
	if sl, ok := c.(*drawable.StepLabel); ok {
		s.stepLabels = slices.DeleteFunc(s.stepLabels, func(x *drawable.StepLabel) bool { return x == sl })
	}
}

// reorder runs op on the selection and records the previous z-order when
// anything moved.
func (s *Surface) reorder(op func(sel *drawable.List)) bool {
	if s.selected.Len() == 0 {
		return false
	}
	before := s.elements.Items()
	op(s.selected)
	if slices.Equal(before, s.elements.Items()) {
		return false
	}
	s.undo.MakeUndoable(&elementOrder{s: s, order: before}, false)
	s.emit(EventElementsChanged, "")
	return true
}

func (s *Surface) CanPullSelectionUp() bool   { return s.elements.CanPullUp(s.selected) }
func (s *Surface) CanPushSelectionDown() bool { return s.elements.CanPushDown(s.selected) }
func (s *Surface) PullSelectedUp() bool       { return s.reorder(s.elements.PullElementsUp) }
func (s *Surface) PushSelectedDown() bool     { return s.reorder(s.elements.PushElementsDown) }
func (s *Surface) PullSelectedToTop() bool    { return s.reorder(s.elements.PullElementsToTop) }
func (s *Surface) PushSelectedToBottom() bool { return s.reorder(s.elements.PushElementsToBottom) }

// MoveSelected shifts the selection, e.g. for keyboard nudges. Repeated
// nudges of the same selection are one undo step until the next gesture.
func (s *Surface) MoveSelected(dx, dy float64) bool {
	sel := s.selected.Items()
	if len(sel) == 0 || (dx == 0 && dy == 0) {
		return false
	}
	s.undo.MakeUndoable(newBoundsChange(s, sel), true)
	s.selected.MoveBy(dx, dy)
	s.markModified()
	s.emit(EventElementsChanged, "")
	return true
}

// Duplicate adds deep copies of the selection, shifted down and right, and
// selects them.
func (s *Surface) Duplicate() bool {
	sel := s.selectionInOrder()
	if len(sel) == 0 {
		return false
	}
	tmp := drawable.NewListWithParent(s.elements.ParentID())
	tmp.AddAll(sel)
	dup, err := tmp.Clone()
	if err != nil {
		s.log.WarnContext(s.ctx, "duplicate failed", "err", err)
		s.emit(EventMessage, "could not duplicate the selection")
		return false
	}
	dup.MoveBy(duplicateOffset, duplicateOffset)
	s.insertLoaded(dup.Items())
	return true
}

// selectionInOrder returns the selected elements bottom first, without the
// crop rectangle.
func (s *Surface) selectionInOrder() []drawable.Container {
	var out []drawable.Container
	for _, c := range s.elements.Items() {
		if c.Selected() && c != drawable.Container(s.crop) {
			out = append(out, c)
		}
	}
	return out
}

// insertLoaded adds decoded elements as one undo step and selects them.
// Step labels among them are numbered in the order of their stored numbers.
func (s *Surface) insertLoaded(items []drawable.Container) {
	var labels []*drawable.StepLabel
	for _, c := range items {
		if sl, ok := c.(*drawable.StepLabel); ok {
			labels = append(labels, sl)
		}
	}
	slices.SortStableFunc(labels, func(a, b *drawable.StepLabel) int { return cmp.Compare(a.Number(), b.Number()) })
	for _, sl := range labels {
		s.seqOf(sl)
	}
	s.DeselectAll()
	s.AddElements(items, true)
	s.SelectElements(items)
}

// SetElementText replaces the text of a text or speech bubble element.
// Typing into one element coalesces into one undo step.
func (s *Surface) SetElementText(c drawable.Container, text string) bool {
	te, ok := c.(textElement)
	if !ok || !s.elements.Contains(c) || te.Text() == text {
		return false
	}
	s.undo.MakeUndoable(&textChange{s: s, c: te, old: te.Text()}, true)
	te.SetText(text)
	s.markModified()
	s.emit(EventElementsChanged, "")
	return true
}

func (s *Surface) newElement(kind drawable.Kind) drawable.Container {
	c, err := drawable.New(kind, s.defaults)
	if err != nil {
		panic(err)
	}
	s.attach(c)
	return c
}

func (s *Surface) addBox(kind drawable.Kind, x, y, w, h float64) drawable.Container {
	c := s.newElement(kind)
	c.SetRect(vector.R(x, y, w, h))
	s.AddElement(c, true)
	return c
}

func (s *Surface) AddRectangle(x, y, w, h float64) *drawable.Rectangle {
	return s.addBox(drawable.KindRectangle, x, y, w, h).(*drawable.Rectangle)
}

func (s *Surface) AddEllipse(x, y, w, h float64) *drawable.Ellipse {
	return s.addBox(drawable.KindEllipse, x, y, w, h).(*drawable.Ellipse)
}

func (s *Surface) AddHighlight(x, y, w, h float64) *drawable.Highlight {
	return s.addBox(drawable.KindHighlight, x, y, w, h).(*drawable.Highlight)
}

func (s *Surface) AddObfuscate(x, y, w, h float64) *drawable.Obfuscate {
	return s.addBox(drawable.KindObfuscate, x, y, w, h).(*drawable.Obfuscate)
}

// AddLine adds a line from (x1,y1) to (x2,y2).
func (s *Surface) AddLine(x1, y1, x2, y2 float64) *drawable.Line {
	return s.addBox(drawable.KindLine, x1, y1, x2-x1, y2-y1).(*drawable.Line)
}

func (s *Surface) AddArrow(x1, y1, x2, y2 float64) *drawable.Arrow {
	return s.addBox(drawable.KindArrow, x1, y1, x2-x1, y2-y1).(*drawable.Arrow)
}

func (s *Surface) AddText(x, y, w, h float64, text string) *drawable.Text {
	t := s.newElement(drawable.KindText).(*drawable.Text)
	t.SetRect(vector.R(x, y, w, h))
	t.SetText(text)
	s.AddElement(t, true)
	return t
}

// AddSpeechBubble adds a bubble whose tail points at target.
func (s *Surface) AddSpeechBubble(x, y, w, h float64, text string, target vector.Pt) *drawable.SpeechBubble {
	b := s.newElement(drawable.KindSpeechBubble).(*drawable.SpeechBubble)
	b.SetRect(vector.R(x, y, w, h))
	b.SetText(text)
	b.SetTarget(target)
	b.InitContent()
	s.AddElement(b, true)
	return b
}

// AddStepLabel adds the next numbered label centered on (x,y).
func (s *Surface) AddStepLabel(x, y float64) *drawable.StepLabel {
	sl := s.newElement(drawable.KindStepLabel).(*drawable.StepLabel)
	r := sl.Rect()
	sl.SetRect(vector.R(x-r.W/2, y-r.H/2, r.W, r.H))
	s.AddElement(sl, true)
	return sl
}

// AddFreehand adds a smoothed stroke through pts. It returns nil for fewer
// than two points.
func (s *Surface) AddFreehand(pts []vector.Pt) *drawable.Freehand {
	f := s.newElement(drawable.KindFreehand).(*drawable.Freehand)
	f.SetPoints(pts)
	if !f.InitContent() {
		f.Dispose()
		return nil
	}
	s.AddElement(f, true)
	return f
}

// AddImage places img at (x,y) in its natural size.
func (s *Surface) AddImage(img image.Image, x, y float64) *drawable.Image {
	return s.addImage(drawable.SourceBitmap, img, x, y, true)
}

func (s *Surface) addImage(src drawable.ImageSource, img image.Image, x, y float64, undoable bool) *drawable.Image {
	el := drawable.NewImage(src, s.defaults)
	el.SetImage(img)
	r := el.Rect()
	el.SetRect(vector.R(x, y, r.W, r.H))
	s.AddElement(el, undoable)
	return el
}

// AddImageFromFile loads path and places it at (x,y). A file that cannot
// be read leaves the surface unchanged.
func (s *Surface) AddImageFromFile(path string, x, y float64) (*drawable.Image, error) {
	el := drawable.NewImage(drawable.SourceBitmap, s.defaults)
	if err := el.Load(path); err != nil {
		s.log.WarnContext(s.ctx, "image not added", "path", path, "err", err)
		s.emit(EventMessage, fmt.Sprintf("could not load %s", path))
		return nil, err
	}
	r := el.Rect()
	el.SetRect(vector.R(x, y, r.W, r.H))
	s.AddElement(el, true)
	return el, nil
}

// ErrNoCursor is returned when a capture has no visible cursor.
var ErrNoCursor = errors.New("capture has no visible cursor")

// AddCursorFromCapture places the captured cursor at its captured location.
func (s *Surface) AddCursorFromCapture(c Capture) (*drawable.Image, error) {
	return s.addCursor(c, true)
}

func (s *Surface) addCursor(c Capture, undoable bool) (*drawable.Image, error) {
	img, at, visible := c.Cursor()
	if !visible || img == nil {
		return nil, ErrNoCursor
	}
	return s.addImage(drawable.SourceCursor, img, float64(at.X), float64(at.Y), undoable), nil
}
