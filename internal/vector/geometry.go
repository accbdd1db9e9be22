/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package vector holds the float geometry used by annotation elements:
// points, rectangles, affine transforms, paths and outline hit-testing.
// Values are float64 so they pass straight into gg.
package vector

import (
	"image"
	"math"
)

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

func (p Pt) Add(q Pt) Pt        { return Pt{p.X + q.X, p.Y + q.Y} }
func (p Pt) Sub(q Pt) Pt        { return Pt{p.X - q.X, p.Y - q.Y} }
func (p Pt) Mul(k float64) Pt   { return Pt{p.X * k, p.Y * k} }
func (p Pt) Dist(q Pt) float64  { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Pt) Image() image.Point { return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y))) }
func PtFrom(ip image.Point) Pt  { return Pt{float64(ip.X), float64(ip.Y)} }
func P(x, y float64) Pt         { return Pt{x, y} }
func PtInt(x, y int) Pt         { return Pt{float64(x), float64(y)} }

// Eq compares with a tolerance.
func (p Pt) Eq(q Pt, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect is an axis-aligned rectangle given by its min corner and size.
// W or H may be negative until Normalize is called.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// RectFrom converts an image.Rectangle.
func RectFrom(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

// Normalize flips negative extents so W,H >= 0.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Pt) bool {
	n := r.Normalize()
	return p.X >= n.X && p.Y >= n.Y && p.X <= n.X+n.W && p.Y <= n.Y+n.H
}

// Inset shrinks r by dx,dy on every side; negative values grow it.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the smallest rect containing both.
func (r Rect) Union(o Rect) Rect {
	a, b := r.Normalize(), o.Normalize()
	x0, y0 := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	x1, y1 := math.Max(a.X+a.W, b.X+b.W), math.Max(a.Y+a.H, b.Y+b.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Image rounds r outward to an integer rectangle.
func (r Rect) Image() image.Rectangle {
	n := r.Normalize()
	return image.Rect(int(math.Floor(n.X)), int(math.Floor(n.Y)), int(math.Ceil(n.X+n.W)), int(math.Ceil(n.Y+n.H)))
}

// Affine2D is the matrix
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

// Mul returns m*n, i.e. n is applied first.
func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

func (m Affine2D) IsIdentity() bool { return m == Identity }

// Invert returns the inverse transform; ok is false for singular matrices.
func (m Affine2D) Invert() (Affine2D, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity, false
	}
	inv := 1 / det
	return Affine2D{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, true
}

// ScaleFactors returns the x/y scale encoded in m (rotation aware).
func (m Affine2D) ScaleFactors() (float64, float64) {
	return math.Hypot(m.A, m.B), math.Hypot(m.C, m.D)
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }

// Rotate builds a rotation by rad around the origin. Quarter turns are
// snapped to exact values so integer geometry survives a round trip.
func Rotate(rad float64) Affine2D {
	c, s := math.Cos(rad), math.Sin(rad)
	c, s = FloatRound(c, 12), FloatRound(s, 12)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// RotateAbout rotates by rad around p.
func RotateAbout(rad float64, p Pt) Affine2D {
	return Translate(p.X, p.Y).Mul(Rotate(rad)).Mul(Translate(-p.X, -p.Y))
}

// FloatRound rounds v to n decimal places.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
