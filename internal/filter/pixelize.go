/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package filter

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"shotedit/internal/field"
)

// Pixelize replaces PIXEL_SIZE blocks by their average color.
type Pixelize struct{ base }

func NewPixelize(invert bool) *Pixelize {
	p := &Pixelize{base{invert: invert}}
	p.fields.AddField(field.PixelSize, "pixelize", 5)
	return p
}

func (p *Pixelize) Name() string { return "pixelize" }

func (p *Pixelize) Apply(img *image.RGBA, area image.Rectangle, _ bool) {
	size := p.fields.Int(field.PixelSize)
	if size < 2 {
		return
	}
	run(img, area, p.invert, func(r image.Rectangle) { pixelate(img, r, size) })
}

func pixelate(img *image.RGBA, r image.Rectangle, size int) {
	for by := r.Min.Y; by < r.Max.Y; by += size {
		for bx := r.Min.X; bx < r.Max.X; bx += size {
			block := image.Rect(bx, by, bx+size, by+size).Intersect(r)
			var sum [4]int
			n := 0
			for y := block.Min.Y; y < block.Max.Y; y++ {
				o := img.PixOffset(block.Min.X, y)
				for x := block.Min.X; x < block.Max.X; x, o = x+1, o+4 {
					for c := 0; c < 4; c++ {
						sum[c] += int(img.Pix[o+c])
					}
					n++
				}
			}
			if n == 0 {
				continue
			}
			var avg [4]uint8
			for c := range avg {
				avg[c] = uint8(sum[c] / n)
			}
			for y := block.Min.Y; y < block.Max.Y; y++ {
				o := img.PixOffset(block.Min.X, y)
				for x := block.Min.X; x < block.Max.X; x, o = x+1, o+4 {
					copy(img.Pix[o:o+4], avg[:])
				}
			}
		}
	}
}

// Magnifier enlarges the center of the area by MAGNIFICATION_FACTOR.
type Magnifier struct{ base }

func NewMagnifier(invert bool) *Magnifier {
	m := &Magnifier{base{invert: invert}}
	m.fields.AddField(field.MagnificationFactor, "magnifier", 2)
	return m
}

func (m *Magnifier) Name() string { return "magnifier" }

func (m *Magnifier) Apply(img *image.RGBA, area image.Rectangle, _ bool) {
	f := m.fields.Int(field.MagnificationFactor)
	if f < 2 {
		return
	}
	run(img, area, m.invert, func(r image.Rectangle) {
		w, h := max(1, r.Dx()/f), max(1, r.Dy()/f)
		c := image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
		src := image.Rect(c.X-w/2, c.Y-h/2, c.X-w/2+w, c.Y-h/2+h)
		part := image.NewRGBA(src)
		xdraw.Copy(part, src.Min, img, src, xdraw.Src, nil)
		xdraw.NearestNeighbor.Scale(img, r, part, src, xdraw.Src, nil)
	})
}
