/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"image"
	"math"
	"testing"
)

func almostEq(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestRectNormalizeContainsInset(t *testing.T) {
	r := R(110, 70, -100, -50).Normalize()
	if r != R(10, 20, 100, 50) {
		t.Fatalf("unexpected normalize: %+v", r)
	}
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in != R(15, 25, 90, 40) {
		t.Fatalf("unexpected inset: %+v", in)
	}
	if got := r.Image(); got != image.Rect(10, 20, 110, 70) {
		t.Fatalf("unexpected image rect: %v", got)
	}
}

func TestAffineMulApplyInvert(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p != (Pt{12, 8}) {
		t.Fatalf("unexpected transform result: %+v", p)
	}
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible")
	}
	if q := inv.Apply(p); !q.Eq(Pt{1, 1}, 1e-9) {
		t.Fatalf("inverse mismatch: %+v", q)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("singular matrix reported invertible")
	}
}

func TestRotateQuarterTurnIsExact(t *testing.T) {
	p := Rotate(math.Pi / 2).Apply(Pt{10, 0})
	if p != (Pt{0, 10}) {
		t.Fatalf("quarter turn not exact: %+v", p)
	}
	q := RotateAbout(math.Pi, Pt{50, 50}).Apply(Pt{40, 50})
	if !q.Eq(Pt{60, 50}, 1e-9) {
		t.Fatalf("rotate about mismatch: %+v", q)
	}
}

func TestHitHelpers(t *testing.T) {
	r := R(0, 0, 100, 100)
	if !InEllipse(r, Pt{50, 50}) || InEllipse(r, Pt{2, 2}) {
		t.Fatalf("InEllipse mismatch")
	}
	if !NearEllipseOutline(r, Pt{100, 50}, 1) || NearEllipseOutline(r, Pt{50, 50}, 5) {
		t.Fatalf("NearEllipseOutline mismatch")
	}
	if !NearRectOutline(r, Pt{0, 40}, 0.5) || NearRectOutline(r, Pt{50, 50}, 10) {
		t.Fatalf("NearRectOutline mismatch")
	}
	if !InRoundedRect(r, 20, Pt{10, 10}) || InRoundedRect(r, 20, Pt{1, 1}) {
		t.Fatalf("InRoundedRect mismatch")
	}
	tri := []Pt{{0, 0}, {10, 0}, {0, 10}}
	if !InPolygon(tri, Pt{2, 2}) || InPolygon(tri, Pt{8, 8}) {
		t.Fatalf("InPolygon mismatch")
	}
	if d := DistToSegment(Pt{5, 5}, Pt{0, 0}, Pt{10, 0}); d != 5 {
		t.Fatalf("DistToSegment=%v", d)
	}
}
