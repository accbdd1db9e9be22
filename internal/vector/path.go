/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [6]float64
}

// Path is a list of drawing commands in canvas coordinates.
type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

func (p *Path) Empty() bool { return len(p.Cmds) == 0 }

// Bounds approximates the bounding box by the control polygon, which always
// contains the curve.
func (p *Path) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo, LineTo:
			grow(c.Data[0], c.Data[1])
		case CubicTo:
			grow(c.Data[0], c.Data[1])
			grow(c.Data[2], c.Data[3])
			grow(c.Data[4], c.Data[5])
		}
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Transform returns a copy of p with every point mapped through m.
func (p *Path) Transform(m Affine2D) Path {
	out := Path{Cmds: make([]PathCmd, len(p.Cmds))}
	for i, c := range p.Cmds {
		n := c
		switch c.Op {
		case MoveTo, LineTo:
			q := m.Apply(Pt{c.Data[0], c.Data[1]})
			n.Data[0], n.Data[1] = q.X, q.Y
		case CubicTo:
			for j := 0; j < 6; j += 2 {
				q := m.Apply(Pt{c.Data[j], c.Data[j+1]})
				n.Data[j], n.Data[j+1] = q.X, q.Y
			}
		}
		out.Cmds[i] = n
	}
	return out
}

// curveSteps is the number of line segments a cubic is flattened into.
const curveSteps = 12

// Flatten converts p into polylines, one per subpath.
func (p *Path) Flatten() [][]Pt {
	var out [][]Pt
	var cur []Pt
	var start Pt
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			flush()
			start = Pt{c.Data[0], c.Data[1]}
			cur = []Pt{start}
		case LineTo:
			cur = append(cur, Pt{c.Data[0], c.Data[1]})
		case CubicTo:
			if len(cur) == 0 {
				cur = []Pt{start}
			}
			p0 := cur[len(cur)-1]
			p1, p2, p3 := Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}, Pt{c.Data[4], c.Data[5]}
			for i := 1; i <= curveSteps; i++ {
				cur = append(cur, cubicAt(p0, p1, p2, p3, float64(i)/curveSteps))
			}
		case Close:
			if len(cur) > 0 {
				cur = append(cur, start)
			}
		}
	}
	flush()
	return out
}

func cubicAt(p0, p1, p2, p3 Pt, t float64) Pt {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Pt{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// DistanceTo returns the shortest distance from q to the stroked outline of p.
// An empty path is infinitely far away.
func (p *Path) DistanceTo(q Pt) float64 {
	best := math.Inf(1)
	for _, line := range p.Flatten() {
		if len(line) == 1 {
			best = math.Min(best, q.Dist(line[0]))
			continue
		}
		for i := 1; i < len(line); i++ {
			best = math.Min(best, DistToSegment(q, line[i-1], line[i]))
		}
	}
	return best
}

// SmoothPolyline fits a Catmull-Rom spline through pts and returns it as
// cubic bezier segments. One or two points yield a plain line.
func SmoothPolyline(pts []Pt) Path {
	var p Path
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	if len(pts) < 3 {
		for _, q := range pts[1:] {
			p.LineTo(q.X, q.Y)
		}
		return p
	}
	at := func(i int) Pt {
		if i < 0 {
			return pts[0]
		}
		if i >= len(pts) {
			return pts[len(pts)-1]
		}
		return pts[i]
	}
	for i := 0; i < len(pts)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		c1 := p1.Add(p2.Sub(p0).Mul(1.0 / 6))
		c2 := p2.Sub(p3.Sub(p1).Mul(1.0 / 6))
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
	}
	return p
}
