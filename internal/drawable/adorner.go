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

	"github.com/fogleman/gg"

	"shotedit/internal/vector"
)

// AdornerKind distinguishes the handle types.
type AdornerKind uint8

const (
	AdornerResize AdornerKind = iota
	AdornerEndpoint
	AdornerTarget
)

// AdornerSize is the edge length of a handle in pixels.
const AdornerSize = 10

// Adorner is an interactive handle drawn on a selected element in edit mode.
// It is never part of exported output.
type Adorner struct {
	Kind AdornerKind
	// Handle is the gripper index: 0..7 clockwise from top-left for resize
	// handles, 0/1 for the start/end of a line.
	Handle int

	owner Container
}

func (a *Adorner) Owner() Container { return a.owner }

func resizeAdorners(c Container) []*Adorner {
	out := make([]*Adorner, 8)
	for i := range out {
		out[i] = &Adorner{Kind: AdornerResize, Handle: i, owner: c}
	}
	return out
}

func endpointAdorners(c Container) []*Adorner {
	return []*Adorner{
		{Kind: AdornerEndpoint, Handle: 0, owner: c},
		{Kind: AdornerEndpoint, Handle: 1, owner: c},
	}
}

// Location is the center of the handle.
func (a *Adorner) Location() vector.Pt {
	r := a.owner.Rect()
	switch a.Kind {
	case AdornerEndpoint:
		if a.Handle == 0 {
			return r.Min()
		}
		return r.Max()
	case AdornerTarget:
		if sb, ok := a.owner.(*SpeechBubble); ok {
			return sb.Target()
		}
		return r.Center()
	}
	xs := [8]float64{0, 0.5, 1, 1, 1, 0.5, 0, 0}
	ys := [8]float64{0, 0, 0, 0.5, 1, 1, 1, 0.5}
	h := a.Handle & 7
	return vector.P(r.X+r.W*xs[h], r.Y+r.H*ys[h])
}

func (a *Adorner) HitTest(x, y float64) bool {
	l := a.Location()
	return abs(x-l.X) <= AdornerSize/2 && abs(y-l.Y) <= AdornerSize/2
}

// DragTo moves the handle to (x,y) and reshapes the owner accordingly.
func (a *Adorner) DragTo(x, y float64) {
	r := a.owner.Rect()
	switch a.Kind {
	case AdornerTarget:
		if sb, ok := a.owner.(*SpeechBubble); ok {
			sb.SetTarget(vector.P(x, y))
		}
		return
	case AdornerEndpoint:
		if a.Handle == 0 {
			end := r.Max()
			r = vector.R(x, y, end.X-x, end.Y-y)
		} else {
			r.W, r.H = x-r.X, y-r.Y
		}
		a.owner.SetRect(r)
		return
	}
	switch a.Handle {
	case 0, 6, 7: // left edge
		r.W += r.X - x
		r.X = x
	case 2, 3, 4: // right edge
		r.W = x - r.X
	}
	switch a.Handle {
	case 0, 1, 2: // top edge
		r.H += r.Y - y
		r.Y = y
	case 4, 5, 6: // bottom edge
		r.H = y - r.Y
	}
	a.owner.SetRect(r)
}

func (a *Adorner) Draw(dc *gg.Context) {
	l := a.Location()
	dc.SetColor(color.White)
	dc.DrawRectangle(l.X-AdornerSize/2, l.Y-AdornerSize/2, AdornerSize, AdornerSize)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
