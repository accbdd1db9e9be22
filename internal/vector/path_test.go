/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestPathBoundsAndTransform(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(0, 10)
	p.Close()

	if b := p.Bounds(); b != R(0, 0, 10, 10) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	moved := p.Transform(Translate(5, 5))
	if b := moved.Bounds(); b != R(5, 5, 10, 10) {
		t.Fatalf("unexpected transformed bounds: %+v", b)
	}
	if b := p.Bounds(); b.X != 0 {
		t.Fatalf("Transform must not mutate the receiver")
	}
}

func TestSmoothPolylinePassesThroughPoints(t *testing.T) {
	pts := []Pt{{0, 0}, {10, 5}, {20, 0}, {30, 10}}
	p := SmoothPolyline(pts)
	if len(p.Cmds) != 1+len(pts)-1 {
		t.Fatalf("expected one cubic per segment, got %d cmds", len(p.Cmds))
	}
	for _, q := range pts {
		if d := p.DistanceTo(q); d > 1e-9 {
			t.Fatalf("smoothed path misses input point %+v by %v", q, d)
		}
	}
	if d := p.DistanceTo(Pt{15, 40}); d < 20 {
		t.Fatalf("far point too close: %v", d)
	}
}

func TestSmoothPolylineShortInputs(t *testing.T) {
	if p := SmoothPolyline(nil); !p.Empty() {
		t.Fatalf("expected empty path")
	}
	p := SmoothPolyline([]Pt{{0, 0}, {10, 0}})
	if len(p.Cmds) != 2 || p.Cmds[1].Op != LineTo {
		t.Fatalf("two points should produce a line: %+v", p.Cmds)
	}
	var empty Path
	if !math.IsInf(empty.DistanceTo(Pt{}), 1) {
		t.Fatalf("empty path distance should be +Inf")
	}
}

func TestSpeechTailPointsAtTarget(t *testing.T) {
	bubble := R(100, 100, 160, 120) // center (180,160)
	geo := SpeechTail(bubble, Pt{50, 160})
	if geo.Side != "left" {
		t.Fatalf("expected side left, got %s", geo.Side)
	}
	if !geo.Tip.Eq(Pt{50, 160}, 1e-9) {
		t.Fatalf("tip should sit on target: %+v", geo.Tip)
	}
	// base is perpendicular to the direction, centered on the bubble center
	mid := geo.BaseLeft.Add(geo.BaseRight).Mul(0.5)
	if !mid.Eq(Pt{180, 160}, 1e-3) {
		t.Fatalf("base not centered: %+v", mid)
	}
	if !almostEq(geo.BaseLeft.X, geo.BaseRight.X, 1e-3) {
		t.Fatalf("base should be vertical for a horizontal tail")
	}
	if geo.Path.Cmds[len(geo.Path.Cmds)-1].Op != Close {
		t.Fatalf("expected closed path")
	}
	if !InPolygon(geo.Polygon(), Pt{100, 160}) {
		t.Fatalf("point on the tail axis should be inside")
	}
}

func TestSpeechTailDegenerateTargetPointsUp(t *testing.T) {
	geo := SpeechTail(R(0, 0, 40, 40), Pt{20, 20})
	if geo.Side != "top" {
		t.Fatalf("expected default upward tail, got %s", geo.Side)
	}
}
