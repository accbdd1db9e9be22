/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// DistToSegment is the distance from p to the segment ab.
func DistToSegment(p, a, b Pt) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Pt{a.X + t*dx, a.Y + t*dy})
}

// InEllipse reports whether p lies inside the ellipse inscribed in r.
func InEllipse(r Rect, p Pt) bool {
	n := r.Normalize()
	rx, ry := n.W/2, n.H/2
	if rx == 0 || ry == 0 {
		return false
	}
	dx := (p.X - (n.X + rx)) / rx
	dy := (p.Y - (n.Y + ry)) / ry
	return dx*dx+dy*dy <= 1
}

const ellipseSegments = 72

// EllipsePolygon samples the ellipse inscribed in r.
func EllipsePolygon(r Rect) []Pt {
	n := r.Normalize()
	c := n.Center()
	out := make([]Pt, 0, ellipseSegments+1)
	for i := 0; i <= ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		out = append(out, Pt{c.X + n.W/2*math.Cos(a), c.Y + n.H/2*math.Sin(a)})
	}
	return out
}

// NearEllipseOutline reports whether p is within tol of the ellipse outline.
func NearEllipseOutline(r Rect, p Pt, tol float64) bool {
	return DistToPolyline(EllipsePolygon(r), p) <= tol
}

// NearRectOutline reports whether p is within tol of any edge of r.
func NearRectOutline(r Rect, p Pt, tol float64) bool {
	n := r.Normalize()
	c := []Pt{{n.X, n.Y}, {n.X + n.W, n.Y}, {n.X + n.W, n.Y + n.H}, {n.X, n.Y + n.H}, {n.X, n.Y}}
	return DistToPolyline(c, p) <= tol
}

// DistToPolyline is the distance from p to the nearest segment of line.
func DistToPolyline(line []Pt, p Pt) float64 {
	switch len(line) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(line[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(line); i++ {
		best = math.Min(best, DistToSegment(p, line[i-1], line[i]))
	}
	return best
}

// InRoundedRect tests p against r with uniformly rounded corners.
func InRoundedRect(r Rect, radius float64, p Pt) bool {
	n := r.Normalize()
	if !n.Contains(p) {
		return false
	}
	radius = math.Min(radius, math.Min(n.W, n.H)/2)
	core := n.Inset(radius, 0)
	if core.W >= 0 && core.Contains(p) {
		return true
	}
	core = n.Inset(0, radius)
	if core.H >= 0 && core.Contains(p) {
		return true
	}
	r2 := radius * radius
	for _, x := range []float64{n.X + radius, n.X + n.W - radius} {
		for _, y := range []float64{n.Y + radius, n.Y + n.H - radius} {
			dx, dy := p.X-x, p.Y-y
			if dx*dx+dy*dy <= r2 {
				return true
			}
		}
	}
	return false
}

// InPolygon is an even-odd point-in-polygon test.
func InPolygon(poly []Pt, p Pt) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
