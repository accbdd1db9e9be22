/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"

	"shotedit/internal/field"
	"shotedit/internal/vector"
)

func TestRectangleClickableScenario(t *testing.T) {
	r := NewRectangle(nil)
	r.SetRect(vector.R(10, 10, 100, 50))
	r.fields.SetValue(field.FillColor, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	if !r.ClickableAt(15, 15) {
		t.Fatalf("filled body must be clickable")
	}
	if r.ClickableAt(200, 200) {
		t.Fatalf("far point must not be clickable")
	}

	r.fields.SetValue(field.LineThickness, 0)
	r.fields.SetValue(field.FillColor, color.NRGBA{})
	for _, p := range []vector.Pt{{X: 15, Y: 15}, {X: 10, Y: 10}, {X: 60, Y: 10}, {X: 110, Y: 35}} {
		if r.ClickableAt(p.X, p.Y) {
			t.Fatalf("invisible rectangle clickable at %v", p)
		}
	}
}

func TestRectangleOutlineTolerance(t *testing.T) {
	r := NewRectangle(nil) // thickness 2, no fill
	r.SetRect(vector.R(10, 10, 100, 50))
	if r.ClickableAt(15, 15) {
		t.Fatalf("inside of an unfilled rectangle must not be clickable")
	}
	if !r.ClickableAt(10, 30) || !r.ClickableAt(12, 30) {
		t.Fatalf("outline within tolerance must be clickable")
	}
	if r.ClickableAt(13, 30) {
		t.Fatalf("tolerance is half of thickness plus 2")
	}
}

func TestEllipseAndLineHits(t *testing.T) {
	e := NewEllipse(nil)
	e.SetRect(vector.R(0, 0, 100, 50))
	if e.ClickableAt(50, 25) || !e.ClickableAt(50, 0) {
		t.Fatalf("ellipse outline hit test wrong")
	}
	l := NewLine(nil)
	l.SetRect(vector.R(0, 0, 100, 0))
	if !l.ClickableAt(50, 3) || l.ClickableAt(50, 4) {
		t.Fatalf("line tolerance must be (thickness+5)/2")
	}
	a := NewArrow(nil)
	a.SetRect(vector.R(100, 100, -50, 0))
	if !a.ClickableAt(75, 100) {
		t.Fatalf("arrow with negative width must still hit")
	}
	if !a.DrawingBounds().Contains(vector.P(50, 100)) {
		t.Fatalf("arrow head outside drawing bounds")
	}
}

func TestShadowStepsExact(t *testing.T) {
	steps := ShadowSteps(true)
	want := []struct {
		off   float64
		alpha uint8
	}{{1, 100}, {2, 80}, {3, 60}, {4, 40}, {5, 20}}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps", len(steps))
	}
	for i, w := range want {
		s := steps[i]
		if s.Offset != w.off || s.Color != (color.NRGBA{R: 100, G: 100, B: 100, A: w.alpha}) {
			t.Fatalf("step %d: %+v", i, s)
		}
	}
	if s := ShadowSteps(false); len(s) != 6 || s[0].Offset != 0 || s[0].Color.A != 100 || s[5].Color.A != 0 {
		t.Fatalf("no-outline shadow must start at offset 0: %+v", s)
	}
}

func TestDrawingBoundsContainBounds(t *testing.T) {
	for kind := KindRectangle; kind <= KindObfuscate; kind++ {
		c, err := New(kind, nil)
		if err != nil {
			t.Fatalf("New(%s): %v", kind, err)
		}
		c.SetRect(vector.R(40, 30, -20, 25))
		if fh, ok := c.(*Freehand); ok {
			fh.SetPoints([]vector.Pt{{X: 20, Y: 30}, {X: 40, Y: 55}})
		}
		b, db := c.Bounds(), c.DrawingBounds()
		if db.X > b.X || db.Y > b.Y || db.X+db.W < b.X+b.W || db.Y+db.H < b.Y+b.H {
			t.Fatalf("%s: drawing bounds %v do not contain %v", kind, db, b)
		}
	}
	if _, err := New(Kind(99), nil); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestShadowGrowsDrawingBounds(t *testing.T) {
	e := NewEllipse(nil)
	e.SetRect(vector.R(0, 0, 50, 50))
	e.fields.SetValue(field.Shadow, false)
	before := e.DrawingBounds()
	e.fields.SetValue(field.Shadow, true)
	after := e.DrawingBounds()
	if after.W-before.W != 10 || after.H-before.H != 10 || after.X != before.X {
		t.Fatalf("shadow margin wrong: %v -> %v", before, after)
	}
}

func TestFreehandCapturesAndSmooths(t *testing.T) {
	f := NewFreehand(nil)
	f.HandleMouseDown(0, 0)
	if f.InitContent() {
		t.Fatalf("single point must be degenerate")
	}
	f.HandleMouseMove(2, 2) // below capture distance
	f.HandleMouseMove(20, 0)
	f.HandleMouseMove(40, 20)
	f.HandleMouseUp(60, 20)
	if n := len(f.Points()); n != 4 {
		t.Fatalf("expected 4 points, got %d", n)
	}
	if !f.InitContent() {
		t.Fatalf("path should be valid")
	}
	if !f.ClickableAt(20, 5) || f.ClickableAt(20, 40) {
		t.Fatalf("freehand hit test wrong")
	}
	f.MoveBy(100, 0)
	if p := f.Points()[0]; p != vector.P(100, 0) {
		t.Fatalf("points not moved: %v", p)
	}
}

func TestFilterChainFollowsPreset(t *testing.T) {
	h := NewHighlight(nil)
	if fs := h.Filters(); len(fs) != 1 || fs[0].Name() != "highlight" {
		t.Fatalf("default chain: %v", fs)
	}
	if h.CoversCanvas() {
		t.Fatalf("text highlight only touches its area")
	}
	h.FieldHolder().SetValue(field.PreparedFilterHighlight, field.FilterAreaHighlight)
	fs := h.Filters()
	if len(fs) != 2 || fs[0].Name() != "brightness" || fs[1].Name() != "blur" || !fs[0].Invert() {
		t.Fatalf("area highlight chain wrong: %v", fs)
	}
	if !h.CoversCanvas() || !h.FieldHolder().HasField(field.BlurRadius) || h.FieldHolder().HasField(field.HighlightColor) {
		t.Fatalf("child fields not replaced")
	}
	if len(h.FieldHolder().Children()) != 2 {
		t.Fatalf("exactly one pipeline must be active")
	}

	o := NewObfuscate(nil)
	o.FieldHolder().SetValue(field.PreparedFilterObfuscate, field.FilterBlur)
	if fs := o.Filters(); len(fs) != 1 || fs[0].Name() != "blur" {
		t.Fatalf("obfuscate chain: %v", fs)
	}
}

func TestResizeAdorners(t *testing.T) {
	r := NewRectangle(nil)
	r.SetRect(vector.R(10, 10, 100, 50))
	ads := r.Adorners()
	if len(ads) != 8 {
		t.Fatalf("expected 8 grippers")
	}
	if !ads[4].HitTest(112, 58) || ads[4].HitTest(120, 60) {
		t.Fatalf("bottom-right gripper hit test wrong")
	}
	ads[0].DragTo(0, 5)
	if got := r.Rect(); got != vector.R(0, 5, 110, 55) {
		t.Fatalf("top-left drag: %v", got)
	}
	ads[5].DragTo(999, 100)
	if got := r.Rect(); got.H != 95 || got.W != 110 {
		t.Fatalf("bottom drag changed width: %v", got)
	}

	l := NewLine(nil)
	l.SetRect(vector.R(0, 0, 10, 10))
	la := l.Adorners()
	la[0].DragTo(5, 5)
	if l.Start() != vector.P(5, 5) || l.End() != vector.P(10, 10) {
		t.Fatalf("endpoint drag: %v %v", l.Start(), l.End())
	}

	sb := NewSpeechBubble(nil)
	sb.SetRect(vector.R(0, 0, 50, 30))
	sa := sb.Adorners()
	sa[len(sa)-1].DragTo(80, 90)
	if sb.Target() != vector.P(80, 90) || !sb.DrawingBounds().Contains(vector.P(80, 90)) {
		t.Fatalf("target drag: %v", sb.Target())
	}
}

func TestTransformQuarterTurn(t *testing.T) {
	r := NewRectangle(nil)
	r.SetRect(vector.R(10, 20, 30, 40))
	r.Transform(vector.Affine2D{B: 1, C: -1, E: 100}) // 90 deg clockwise in a 100px high image
	if b := r.Bounds(); b != vector.R(40, 10, 40, 30) {
		t.Fatalf("rotated bounds %v", b)
	}
	img := NewImage(SourceIcon, nil)
	img.SetImage(solidImage(4, 2))
	img.Transform(vector.Affine2D{B: 1, C: -1, E: 100})
	if bb := img.Bitmap().Bounds(); bb.Dx() != 2 || bb.Dy() != 4 {
		t.Fatalf("image pixels not rotated: %v", bb)
	}
}

func TestImageLoadMissingKeepsState(t *testing.T) {
	img := NewImage(SourceBitmap, nil)
	img.SetImage(solidImage(3, 3))
	before := img.Bitmap()
	err := img.Load(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad, got %v", err)
	}
	if img.Bitmap() != before || img.Rect().W != 3 {
		t.Fatalf("failed load changed the element")
	}
}

func TestStatusDisposedIsTerminal(t *testing.T) {
	r := NewRectangle(nil)
	r.SetStatus(StatusDrawing)
	r.SetSelected(true)
	r.Dispose()
	r.SetStatus(StatusIdle)
	if r.Status() != StatusDisposed || r.Selected() {
		t.Fatalf("dispose must be terminal: %s", r.Status())
	}
}

func TestStepLabelCentersOnPointer(t *testing.T) {
	s := NewStepLabel(nil)
	s.HandleMouseDown(100, 100)
	if b := s.Bounds(); b != vector.R(85, 85, 30, 30) {
		t.Fatalf("step label not centered: %v", b)
	}
	if !s.ClickableAt(82, 100) || s.ClickableAt(79, 100) {
		t.Fatalf("step label tolerance wrong")
	}
}

// Every variant must paint in both modes without panicking, including text
// that needs the font fallback.
func TestDrawAllKinds(t *testing.T) {
	dc := gg.NewContext(200, 150)
	dc.SetColor(color.White)
	dc.Clear()
	for kind := KindRectangle; kind <= KindObfuscate; kind++ {
		c, _ := New(kind, nil)
		c.HandleMouseDown(20, 20)
		c.HandleMouseMove(120, 90)
		c.HandleMouseMove(140, 100)
		c.HandleMouseUp(140, 100)
		c.SetStatus(StatusIdle)
		switch v := c.(type) {
		case *Text:
			v.SetText("Hello annotation world")
			v.FieldHolder().SetValue(field.FontFamily, "No Such Font")
		case *SpeechBubble:
			v.SetText("Hi")
		case *Image:
			v.SetImage(solidImage(8, 8))
		}
		c.Draw(dc, RenderEdit)
		c.Draw(dc, RenderExport)
		for _, a := range c.Adorners() {
			a.Draw(dc)
		}
	}
}
