/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// TailGeometry is the triangular pointer of a speech bubble.
type TailGeometry struct {
	BaseLeft  Pt
	BaseRight Pt
	Tip       Pt
	Angle     float64 // radians, direction from bubble center to target
	Side      string  // dominant direction: left/right/top/bottom
	Path      Path
}

// Polygon returns the three corners of the tail.
func (t TailGeometry) Polygon() []Pt { return []Pt{t.BaseLeft, t.Tip, t.BaseRight} }

// SpeechTail builds a tail whose base straddles the bubble center and whose
// tip sits on target. The base width scales with the bubble size; results are
// rounded to 3 decimals so redraws are deterministic.
func SpeechTail(bubble Rect, target Pt) TailGeometry {
	b := bubble.Normalize()
	c := b.Center()
	vx, vy := target.X-c.X, target.Y-c.Y
	if vx == 0 && vy == 0 {
		vy = -1
	}
	mag := math.Hypot(vx, vy)
	ux, uy := vx/mag, vy/mag

	half := (b.W + b.H) / 40
	if half < 2 {
		half = 2
	}
	px, py := -uy, ux
	geo := TailGeometry{
		BaseLeft:  Pt{FloatRound(c.X+px*half, 3), FloatRound(c.Y+py*half, 3)},
		BaseRight: Pt{FloatRound(c.X-px*half, 3), FloatRound(c.Y-py*half, 3)},
		Tip:       Pt{FloatRound(target.X, 3), FloatRound(target.Y, 3)},
		Angle:     math.Atan2(uy, ux),
		Side:      classifySide(ux, uy),
	}
	geo.Path.MoveTo(geo.BaseLeft.X, geo.BaseLeft.Y)
	geo.Path.LineTo(geo.Tip.X, geo.Tip.Y)
	geo.Path.LineTo(geo.BaseRight.X, geo.BaseRight.Y)
	geo.Path.Close()
	return geo
}

func classifySide(ux, uy float64) string {
	if math.Abs(ux) >= math.Abs(uy) {
		if ux >= 0 {
			return "right"
		}
		return "left"
	}
	if uy >= 0 {
		return "bottom"
	}
	return "top"
}
