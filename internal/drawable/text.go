/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"shotedit/internal/field"
	applog "shotedit/internal/log"
	"shotedit/internal/textlayout"
	"shotedit/internal/vector"
)

// DefaultFontFamily is used when no remembered family exists.
var DefaultFontFamily = "Arial"

// textual is the state shared by elements that render text.
type textual struct {
	Element

	text  string
	Fonts *textlayout.Library

	warned string
}

// Text is a box of wrapped text. The text color is LINE_COLOR.
type Text struct{ textual }

func NewText(d *field.Defaults) *Text {
	t := &Text{}
	t.init(t, KindText)
	initTextFields(&t.Element, d, 11, red, transparent, false)
	return t
}

func initTextFields(e *Element, d *field.Defaults, size float64, line, fill any, shadow bool) {
	e.addField(d, field.LineThickness, 2)
	e.addField(d, field.LineColor, line)
	e.addField(d, field.FillColor, fill)
	e.addField(d, field.Shadow, shadow)
	e.addField(d, field.FontFamily, DefaultFontFamily)
	e.addField(d, field.FontSize, size)
	e.addField(d, field.FontBold, false)
	e.addField(d, field.FontItalic, false)
	e.addField(d, field.TextHorizontalAlignment, field.AlignCenter)
	e.addField(d, field.TextVerticalAlignment, field.AlignMiddle)
}

func (t *textual) Text() string     { return t.text }
func (t *textual) SetText(s string) { t.text = s }

func (t *textual) library() *textlayout.Library {
	if t.Fonts != nil {
		return t.Fonts
	}
	return textlayout.Shared()
}

// FontSpec returns the font requested by the element's fields.
func (t *textual) FontSpec() textlayout.FontSpec {
	return textlayout.FontSpec{
		Family: t.fields.String(field.FontFamily),
		Size:   t.fields.Float(field.FontSize),
		Bold:   t.fields.Bool(field.FontBold),
		Italic: t.fields.Bool(field.FontItalic),
	}
}

// face resolves the font. A missing family falls back to sans-serif; if
// even the fallback cannot be built the process cannot render text at all.
func (t *textual) face() font.Face {
	spec := t.FontSpec()
	face, fellBack, err := t.library().Face(spec)
	if err != nil {
		panic(fmt.Sprintf("drawable: cannot construct fallback font: %v", err))
	}
	if fellBack && t.warned != spec.Family {
		t.warned = spec.Family
		applog.WithComponent("drawable").Warn("font family not found, using sans-serif", "family", spec.Family)
	}
	return face
}

func (t *Text) Draw(dc *gg.Context, mode RenderMode) {
	b := t.Bounds()
	fill := t.fields.Color(field.FillColor)
	if visible(fill) {
		dc.SetColor(fill)
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Fill()
	}
	if t.lineVisible() {
		dc.SetColor(t.fields.Color(field.LineColor))
		dc.SetLineWidth(t.lineThickness())
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Stroke()
	}
	if t.text == "" {
		if mode == RenderEdit {
			drawSelectionBorder(dc, b)
		}
		return
	}
	// the shadow only shows on a transparent background
	shadow := t.fields.Bool(field.Shadow) && !visible(fill)
	drawTextIn(dc, &t.Element, t.face(), t.text, b.Inset(t.lineThickness()+2, t.lineThickness()+2), shadow)
}

func (t *Text) ClickableAt(x, y float64) bool { return textClickable(&t.Element, x, y) }

// Text boxes are hit inside their whole area, like a filled rectangle.
func textClickable(e *Element, x, y float64) bool {
	b := e.Bounds()
	p := vector.P(x, y)
	if b.Contains(p) {
		return true
	}
	return e.lineThickness() > 0 && vector.NearRectOutline(b, p, strokeTolerance(e.lineThickness()))
}

// drawTextIn wraps text into area and paints it aligned per the fields.
func drawTextIn(dc *gg.Context, e *Element, face font.Face, text string, area vector.Rect, shadow bool) {
	box := textlayout.Wrap(face, text, area.W)
	ha, _ := field.Get[field.HorizontalAlignment](&e.fields, field.TextHorizontalAlignment)
	va, _ := field.Get[field.VerticalAlignment](&e.fields, field.TextVerticalAlignment)

	y0 := area.Y
	switch va {
	case field.AlignMiddle:
		y0 += (area.H - box.Height) / 2
	case field.AlignBottom:
		y0 += area.H - box.Height
	}
	dc.SetFontFace(face)
	paint := func(off float64) {
		for i, l := range box.Lines {
			x := area.X
			switch ha {
			case field.AlignCenter:
				x += (area.W - l.Width) / 2
			case field.AlignRight:
				x += area.W - l.Width
			}
			y := y0 + float64(i)*box.Metrics.LineHeight + box.Metrics.Ascent
			dc.DrawString(l.Text, math.Round(x+off), math.Round(y+off))
		}
	}
	if shadow {
		for _, s := range ShadowSteps(true) {
			dc.SetColor(s.Color)
			paint(s.Offset)
		}
	}
	dc.SetColor(e.fields.Color(field.LineColor))
	paint(0)
}

// SpeechBubble is a rounded text box with a tail pointing at Target.
type SpeechBubble struct {
	textual

	target vector.Pt
}

func NewSpeechBubble(d *field.Defaults) *SpeechBubble {
	s := &SpeechBubble{}
	s.init(s, KindSpeechBubble)
	initTextFields(&s.Element, d, 20, blue, white, true)
	return s
}

func (s *SpeechBubble) Target() vector.Pt     { return s.target }
func (s *SpeechBubble) SetTarget(p vector.Pt) { s.target = p }

// The press point becomes the tail target.
func (s *SpeechBubble) HandleMouseDown(x, y float64) bool {
	s.target = vector.P(x, y)
	return s.Element.HandleMouseDown(x, y)
}

// InitContent moves a target that ended up inside the bubble below it.
func (s *SpeechBubble) InitContent() bool {
	b := s.Bounds()
	if b.Contains(s.target) {
		s.target = vector.P(b.X+b.W/2, b.Y+b.H+math.Max(20, b.H/2))
	}
	return true
}

func (s *SpeechBubble) MoveBy(dx, dy float64) {
	s.Element.MoveBy(dx, dy)
	s.target = s.target.Add(vector.P(dx, dy))
}

func (s *SpeechBubble) Transform(m vector.Affine2D) {
	s.Element.Transform(m)
	s.target = m.Apply(s.target)
}

func (s *SpeechBubble) Adorners() []*Adorner {
	return append(resizeAdorners(s), &Adorner{Kind: AdornerTarget, owner: s})
}

func (s *SpeechBubble) DrawingBounds() vector.Rect {
	r := s.Element.DrawingBounds()
	pad := (5 + s.lineThickness()) / 2
	return r.Union(vector.R(s.target.X-pad, s.target.Y-pad, 2*pad, 2*pad))
}

func (s *SpeechBubble) radius() float64 {
	b := s.Bounds()
	return math.Min(b.W, b.H) / 4
}

func (s *SpeechBubble) tail() vector.TailGeometry { return vector.SpeechTail(s.Bounds(), s.target) }

func (s *SpeechBubble) ClickableAt(x, y float64) bool {
	p := vector.P(x, y)
	b := s.Bounds()
	if visible(s.fields.Color(field.FillColor)) {
		if vector.InRoundedRect(b, s.radius(), p) || vector.InPolygon(s.tail().Polygon(), p) {
			return true
		}
	}
	t := s.lineThickness()
	if t <= 0 {
		return false
	}
	tail := s.tail()
	return vector.NearRectOutline(b, p, strokeTolerance(t)) ||
		vector.DistToPolyline(tail.Polygon(), p) <= strokeTolerance(t)
}

func (s *SpeechBubble) Draw(dc *gg.Context, mode RenderMode) {
	b := s.Bounds()
	if b.Empty() {
		return
	}
	t := s.lineThickness()
	tail := s.tail()
	exitL := exitPoint(b, tail.BaseLeft, tail.Tip)
	exitR := exitPoint(b, tail.BaseRight, tail.Tip)
	outline := func(off float64) {
		dc.DrawRoundedRectangle(b.X+off, b.Y+off, b.W, b.H, s.radius())
		dc.MoveTo(exitL.X+off, exitL.Y+off)
		dc.LineTo(tail.Tip.X+off, tail.Tip.Y+off)
		dc.LineTo(exitR.X+off, exitR.Y+off)
	}
	fillTail := func() {
		dc.MoveTo(tail.BaseLeft.X, tail.BaseLeft.Y)
		dc.LineTo(tail.Tip.X, tail.Tip.Y)
		dc.LineTo(tail.BaseRight.X, tail.BaseRight.Y)
		dc.ClosePath()
		dc.Fill()
	}
	fill := s.fields.Color(field.FillColor)
	if s.fields.Bool(field.Shadow) && (s.lineVisible() || visible(fill)) {
		w := math.Max(t, 1)
		for _, st := range ShadowSteps(s.lineVisible()) {
			dc.SetColor(st.Color)
			dc.SetLineWidth(w)
			outline(st.Offset)
			dc.Stroke()
		}
	}
	if visible(fill) {
		dc.SetColor(fill)
		dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, s.radius())
		dc.Fill()
	}
	if s.lineVisible() {
		dc.SetColor(s.fields.Color(field.LineColor))
		dc.SetLineWidth(t)
		dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, s.radius())
		dc.Stroke()
	}
	if visible(fill) {
		// cover the outline where the tail leaves the bubble
		dc.SetColor(fill)
		fillTail()
	}
	if s.lineVisible() {
		dc.SetColor(s.fields.Color(field.LineColor))
		dc.SetLineWidth(t)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.MoveTo(exitL.X, exitL.Y)
		dc.LineTo(tail.Tip.X, tail.Tip.Y)
		dc.LineTo(exitR.X, exitR.Y)
		dc.Stroke()
	}
	if s.text == "" {
		if mode == RenderEdit && !visible(fill) && !s.lineVisible() {
			drawSelectionBorder(dc, b)
		}
		return
	}
	inset := t + s.radius()/2
	drawTextIn(dc, &s.Element, s.face(), s.text, b.Inset(inset, inset), false)
}

// exitPoint finds where the segment from a (inside r) to b leaves r.
func exitPoint(r vector.Rect, a, b vector.Pt) vector.Pt {
	if r.Contains(b) {
		return b
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < 24; i++ {
		mid := (lo + hi) / 2
		if r.Contains(a.Add(b.Sub(a).Mul(mid))) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return a.Add(b.Sub(a).Mul(lo))
}
