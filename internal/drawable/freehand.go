/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"sync"

	"github.com/fogleman/gg"

	"shotedit/internal/field"
	"shotedit/internal/vector"
)

// minPointDistance is how far the pointer must travel before another point
// is captured.
const minPointDistance = 6

// Freehand is a smoothed path captured from pointer movement.
type Freehand struct {
	Element

	mu     sync.Mutex // guards points and path; paint may run during a drag
	points []vector.Pt
	path   vector.Path
}

func NewFreehand(d *field.Defaults) *Freehand {
	f := &Freehand{}
	f.init(f, KindFreehand)
	f.addField(d, field.LineThickness, 3)
	f.addField(d, field.LineColor, red)
	f.addField(d, field.Shadow, false)
	return f
}

// Points returns a copy of the captured points.
func (f *Freehand) Points() []vector.Pt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]vector.Pt(nil), f.points...)
}

// SetPoints replaces the captured points and rebuilds the smoothed path.
func (f *Freehand) SetPoints(pts []vector.Pt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append([]vector.Pt(nil), pts...)
	f.rebuildLocked()
}

func (f *Freehand) rebuildLocked() {
	f.path = vector.SmoothPolyline(f.points)
	if len(f.points) > 0 {
		f.rect = f.path.Bounds()
	}
}

func (f *Freehand) HandleMouseDown(x, y float64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = []vector.Pt{vector.P(x, y)}
	f.path = vector.Path{}
	f.rect = vector.R(x, y, 0, 0)
	return true
}

func (f *Freehand) HandleMouseMove(x, y float64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := vector.P(x, y)
	if n := len(f.points); n > 0 && f.points[n-1].Dist(p) < minPointDistance {
		return true
	}
	f.points = append(f.points, p)
	// raw polyline while drawing; smoothing happens on release
	f.path = vector.Path{}
	f.path.MoveTo(f.points[0].X, f.points[0].Y)
	for _, q := range f.points[1:] {
		f.path.LineTo(q.X, q.Y)
	}
	f.rect = f.path.Bounds()
	return true
}

func (f *Freehand) HandleMouseUp(x, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := len(f.points); n > 0 && f.points[n-1] != vector.P(x, y) {
		f.points = append(f.points, vector.P(x, y))
	}
	f.rebuildLocked()
}

// InitContent rejects a click without movement.
func (f *Freehand) InitContent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points) >= 2
}

func (f *Freehand) MoveBy(dx, dy float64) { f.Transform(vector.Translate(dx, dy)) }

func (f *Freehand) Transform(m vector.Affine2D) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.points {
		f.points[i] = m.Apply(p)
	}
	f.rebuildLocked()
}

// SetRect is ignored; the geometry follows the points.
func (f *Freehand) SetRect(vector.Rect) {}

// Freehand paths are moved, never resized.
func (f *Freehand) Adorners() []*Adorner { return nil }

func (f *Freehand) DrawingBounds() vector.Rect {
	f.mu.Lock()
	b := f.rect.Normalize()
	f.mu.Unlock()
	return inflateForStroke(b, f.lineThickness()+10, f.fields.Bool(field.Shadow))
}

func (f *Freehand) ClickableAt(x, y float64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	tol := (f.lineThickness() + 10) / 2
	return f.path.DistanceTo(vector.P(x, y)) <= tol
}

func (f *Freehand) Draw(dc *gg.Context, _ RenderMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.lineThickness()
	if t <= 0 || f.path.Empty() {
		return
	}
	if f.fields.Bool(field.Shadow) {
		for _, s := range ShadowSteps(true) {
			dc.Push()
			dc.Translate(s.Offset, s.Offset)
			dc.SetColor(s.Color)
			strokePath(dc, &f.path, t)
			dc.Pop()
		}
	}
	dc.SetColor(f.fields.Color(field.LineColor))
	strokePath(dc, &f.path, t)
}

func strokePath(dc *gg.Context, p *vector.Path, width float64) {
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	appendPath(dc, p)
	dc.Stroke()
}

// appendPath replays p into the current gg path.
func appendPath(dc *gg.Context, p *vector.Path) {
	for _, c := range p.Cmds {
		d := c.Data
		switch c.Op {
		case vector.MoveTo:
			dc.MoveTo(d[0], d[1])
		case vector.LineTo:
			dc.LineTo(d[0], d[1])
		case vector.CubicTo:
			dc.CubicTo(d[0], d[1], d[2], d[3], d[4], d[5])
		case vector.Close:
			dc.ClosePath()
		}
	}
}
