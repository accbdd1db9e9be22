/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"math"

	"shotedit/internal/drawable"
	"shotedit/internal/vector"
)

// Drawn boxes below minDrawnSize in either axis are enlarged to floorSize.
const (
	minDrawnSize = 5
	floorSize    = 25
)

// MouseDown starts a gesture. In a drawing mode the undrawn element becomes
// the element being drawn and is added to the surface. Otherwise an adorner
// of a selected element or the topmost element under the pointer is picked
// up; a press on empty canvas clears the selection.
func (s *Surface) MouseDown(x, y float64) {
	if s.mouseDown {
		return
	}
	s.mouseDown = true
	s.last = vector.P(x, y)
	s.undo.Seal()

	if s.mode != ModeNone && s.undrawn != nil {
		el := s.undrawn
		s.undrawn = nil
		el.SetStatus(drawable.StatusDrawing)
		el.HandleMouseDown(x, y)
		crop, isCrop := el.(*drawable.Crop)
		if isCrop {
			s.crop = crop
			s.elements.Add(crop)
		} else {
			s.AddElement(el, false)
		}
		s.drawing = el
		s.selectOnly(el)
		// selecting seals the history; the entry must stay open for the drag
		if !isCrop {
			s.undo.MakeUndoable(&addElements{s: s, elems: []drawable.Container{el}}, false)
		}
		return
	}

	if a := s.selectedAdornerAt(x, y); a != nil {
		s.adorner = a
		a.Owner().SetStatus(drawable.StatusResizing)
		return
	}
	c := s.elements.ClickableElementAt(x, y)
	if c == nil {
		s.DeselectAll()
		return
	}
	if !c.Selected() {
		s.selectOnly(c)
	}
	s.moving = true
	s.selected.SetStatus(drawable.StatusMoving)
}

func (s *Surface) selectedAdornerAt(x, y float64) *drawable.Adorner {
	a := s.elements.AdornerAt(x, y)
	if a == nil || !a.Owner().Selected() {
		return nil
	}
	return a
}

// MouseMove continues the gesture. Geometry changes of existing elements
// are offered to the undo history as mergeable bounds changes, so a whole
// drag becomes one entry.
func (s *Surface) MouseMove(x, y float64) {
	if !s.mouseDown {
		return
	}
	dx, dy := x-s.last.X, y-s.last.Y
	s.last = vector.P(x, y)
	switch {
	case s.drawing != nil:
		if s.drawing != s.crop {
			s.undo.MakeUndoable(newBoundsChange(s, []drawable.Container{s.drawing}), true)
			s.markModified()
		}
		s.drawing.HandleMouseMove(x, y)
	case s.adorner != nil:
		owner := s.adorner.Owner()
		if owner != s.crop {
			s.undo.MakeUndoable(newBoundsChange(s, []drawable.Container{owner}), true)
			s.markModified()
		}
		s.adorner.DragTo(x, y)
	case s.moving:
		if dx == 0 && dy == 0 {
			return
		}
		sel := s.selected.Items()
		if !(len(sel) == 1 && sel[0] == s.crop) {
			s.undo.MakeUndoable(newBoundsChange(s, sel), true)
			s.markModified()
		}
		s.selected.MoveBy(dx, dy)
	default:
		return
	}
	s.emit(EventElementsChanged, "")
}

// MouseUp ends the gesture. A newly drawn element that fails InitContent is
// removed again together with its undo entry.
func (s *Surface) MouseUp(x, y float64) {
	if !s.mouseDown {
		return
	}
	s.mouseDown = false
	switch {
	case s.drawing != nil:
		s.finishDrawing(x, y)
	case s.adorner != nil:
		s.adorner.Owner().SetStatus(drawable.StatusIdle)
		s.adorner = nil
	case s.moving:
		s.selected.SetStatus(drawable.StatusIdle)
		s.moving = false
	}
	s.undo.Seal()
}

func (s *Surface) finishDrawing(x, y float64) {
	el := s.drawing
	s.drawing = nil
	el.HandleMouseUp(x, y)
	if !el.InitContent() {
		s.DeselectElement(el)
		if el == s.crop {
			s.elements.Remove(el)
			s.crop = nil
			el.Dispose()
		} else {
			s.undo.DropLast()
			s.RemoveElement(el, false)
		}
		s.log.DebugContext(s.ctx, "discarded degenerate element", "kind", el.Kind().String())
		s.prepareUndrawn()
		return
	}
	applyFloor(el)
	el.SetStatus(drawable.StatusIdle)
	s.selectOnly(el)
	s.prepareUndrawn()
	s.emit(EventElementsChanged, "")
}

// applyFloor enlarges a box that is click-sized in either axis so it can be
// grabbed; each short axis grows to floorSize keeping its direction. Lines,
// arrows, freehand strokes and step labels keep their own size.
func applyFloor(c drawable.Container) {
	switch c.Kind() {
	case drawable.KindLine, drawable.KindArrow, drawable.KindFreehand, drawable.KindStepLabel:
		return
	}
	r := c.Rect()
	if math.Abs(r.W) >= minDrawnSize && math.Abs(r.H) >= minDrawnSize {
		return
	}
	r.W, r.H = floorAxis(r.W), floorAxis(r.H)
	c.SetRect(r)
}

func floorAxis(v float64) float64 {
	if math.Abs(v) >= floorSize {
		return v
	}
	if v < 0 {
		return -floorSize
	}
	return floorSize
}
