/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"shotedit/internal/field"
	"shotedit/internal/vector"
)

var (
	red         = color.NRGBA{R: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	darkRed     = color.NRGBA{R: 139, A: 255}
	transparent = color.NRGBA{}
)

// Rectangle is an outlined and optionally filled box.
type Rectangle struct{ Element }

func NewRectangle(d *field.Defaults) *Rectangle {
	r := &Rectangle{}
	r.init(r, KindRectangle)
	r.addField(d, field.LineThickness, 2)
	r.addField(d, field.LineColor, red)
	r.addField(d, field.FillColor, transparent)
	r.addField(d, field.Shadow, true)
	return r
}

func (r *Rectangle) Draw(dc *gg.Context, _ RenderMode) { drawBox(dc, &r.Element, false) }

func (r *Rectangle) ClickableAt(x, y float64) bool { return boxClickable(&r.Element, x, y, false) }

// Ellipse is the ellipse inscribed in its bounds.
type Ellipse struct{ Element }

func NewEllipse(d *field.Defaults) *Ellipse {
	e := &Ellipse{}
	e.init(e, KindEllipse)
	e.addField(d, field.LineThickness, 2)
	e.addField(d, field.LineColor, red)
	e.addField(d, field.FillColor, transparent)
	e.addField(d, field.Shadow, true)
	return e
}

func (e *Ellipse) Draw(dc *gg.Context, _ RenderMode) { drawBox(dc, &e.Element, true) }

func (e *Ellipse) ClickableAt(x, y float64) bool { return boxClickable(&e.Element, x, y, true) }

func boxPath(dc *gg.Context, r vector.Rect, ellipse bool) {
	if ellipse {
		dc.DrawEllipse(r.X+r.W/2, r.Y+r.H/2, r.W/2, r.H/2)
		return
	}
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
}

// drawBox paints shadow, fill and outline of a rectangle or ellipse.
func drawBox(dc *gg.Context, e *Element, ellipse bool) {
	b := e.Bounds()
	t := e.lineThickness()
	lineVisible := e.lineVisible()
	fill := e.fields.Color(field.FillColor)
	if e.fields.Bool(field.Shadow) && (lineVisible || visible(fill)) {
		w := 1.0
		if lineVisible {
			w = t
		}
		for _, s := range ShadowSteps(lineVisible) {
			dc.SetColor(s.Color)
			dc.SetLineWidth(w)
			boxPath(dc, vector.R(b.X+s.Offset, b.Y+s.Offset, b.W, b.H), ellipse)
			dc.Stroke()
		}
	}
	if visible(fill) {
		dc.SetColor(fill)
		boxPath(dc, b, ellipse)
		dc.Fill()
	}
	if lineVisible {
		dc.SetColor(e.fields.Color(field.LineColor))
		dc.SetLineWidth(t)
		boxPath(dc, b, ellipse)
		dc.Stroke()
	}
}

// boxClickable tests the fill first, then the outline with a widened pen.
// No fill and no outline means the element cannot be hit at all.
func boxClickable(e *Element, x, y float64, ellipse bool) bool {
	b := e.Bounds()
	p := vector.P(x, y)
	if visible(e.fields.Color(field.FillColor)) {
		if ellipse && vector.InEllipse(b, p) || !ellipse && b.Contains(p) {
			return true
		}
	}
	t := e.lineThickness()
	if t <= 0 {
		return false
	}
	if ellipse {
		return vector.NearEllipseOutline(b, p, strokeTolerance(t))
	}
	return vector.NearRectOutline(b, p, strokeTolerance(t))
}

// Line is a straight stroke from (Left,Top) to (Left+Width,Top+Height).
type Line struct{ Element }

func NewLine(d *field.Defaults) *Line {
	l := &Line{}
	l.init(l, KindLine)
	initLineFields(&l.Element, d)
	return l
}

func initLineFields(e *Element, d *field.Defaults) {
	e.addField(d, field.LineThickness, 2)
	e.addField(d, field.LineColor, red)
	e.addField(d, field.Shadow, true)
}

// Start and End are the endpoints of the raw geometry.
func (l *Line) Start() vector.Pt { return l.rect.Min() }
func (l *Line) End() vector.Pt   { return l.rect.Max() }

func (l *Line) Draw(dc *gg.Context, _ RenderMode) { drawLine(dc, &l.Element, field.ArrowNone) }

func (l *Line) ClickableAt(x, y float64) bool { return lineClickable(&l.Element, x, y) }

func (l *Line) Adorners() []*Adorner { return endpointAdorners(l) }

func lineClickable(e *Element, x, y float64) bool {
	tol := (e.lineThickness() + 5) / 2
	return vector.DistToSegment(vector.P(x, y), e.rect.Min(), e.rect.Max()) <= tol
}

// Arrow is a line with optional heads at either end.
type Arrow struct{ Element }

func NewArrow(d *field.Defaults) *Arrow {
	a := &Arrow{}
	a.init(a, KindArrow)
	initLineFields(&a.Element, d)
	a.addField(d, field.ArrowHeads, field.ArrowEnd)
	return a
}

func (a *Arrow) Heads() field.ArrowHeadCombination {
	h, _ := field.Get[field.ArrowHeadCombination](&a.fields, field.ArrowHeads)
	return h
}

func (a *Arrow) Draw(dc *gg.Context, _ RenderMode) { drawLine(dc, &a.Element, a.Heads()) }

func (a *Arrow) ClickableAt(x, y float64) bool {
	if lineClickable(&a.Element, x, y) {
		return true
	}
	p := vector.P(x, y)
	for _, head := range arrowHeads(&a.Element, a.Heads()) {
		if vector.InPolygon(head, p) {
			return true
		}
	}
	return false
}

func (a *Arrow) Adorners() []*Adorner { return endpointAdorners(a) }

// DrawingBounds also covers the arrow heads.
func (a *Arrow) DrawingBounds() vector.Rect {
	r := a.Element.DrawingBounds()
	if a.Heads() != field.ArrowNone {
		h := arrowHeadLength(a.lineThickness())
		r = r.Inset(-h, -h)
	}
	return r
}

func arrowHeadLength(thickness float64) float64 { return 6 + 3*math.Max(thickness, 1) }

// arrowHeads returns the head triangles at the requested ends.
func arrowHeads(e *Element, heads field.ArrowHeadCombination) [][]vector.Pt {
	start, end := e.rect.Min(), e.rect.Max()
	if start.Dist(end) == 0 {
		return nil
	}
	length := arrowHeadLength(e.lineThickness())
	head := func(tip, from vector.Pt) []vector.Pt {
		d := tip.Sub(from).Mul(1 / tip.Dist(from))
		n := vector.P(-d.Y, d.X)
		back := tip.Sub(d.Mul(length))
		return []vector.Pt{tip, back.Add(n.Mul(length * 0.4)), back.Sub(n.Mul(length * 0.4))}
	}
	var out [][]vector.Pt
	if heads == field.ArrowStart || heads == field.ArrowBoth {
		out = append(out, head(start, end))
	}
	if heads == field.ArrowEnd || heads == field.ArrowBoth {
		out = append(out, head(end, start))
	}
	return out
}

func drawLine(dc *gg.Context, e *Element, heads field.ArrowHeadCombination) {
	t := e.lineThickness()
	if t <= 0 {
		return
	}
	start, end := e.rect.Min(), e.rect.Max()
	stroke := func(off float64, c color.NRGBA) {
		dc.SetColor(c)
		dc.SetLineWidth(t)
		dc.SetLineCap(gg.LineCapRound)
		dc.DrawLine(start.X+off, start.Y+off, end.X+off, end.Y+off)
		dc.Stroke()
		for _, h := range arrowHeads(e, heads) {
			dc.MoveTo(h[0].X+off, h[0].Y+off)
			for _, q := range h[1:] {
				dc.LineTo(q.X+off, q.Y+off)
			}
			dc.ClosePath()
			dc.Fill()
		}
	}
	if e.fields.Bool(field.Shadow) {
		for _, s := range ShadowSteps(true) {
			stroke(s.Offset, s.Color)
		}
	}
	stroke(0, e.fields.Color(field.LineColor))
}
