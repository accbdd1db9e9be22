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
	"image/color"

	"shotedit/internal/field"
)

// ColorMatrix is a row-major 4x5 matrix applied to RGBA values in 0..255;
// the fifth column is an offset.
type ColorMatrix [20]float64

var (
	IdentityMatrix = ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
	// GrayscaleMatrix uses Rec. 601 luma weights.
	GrayscaleMatrix = ColorMatrix{
		0.299, 0.587, 0.114, 0, 0,
		0.299, 0.587, 0.114, 0, 0,
		0.299, 0.587, 0.114, 0, 0,
		0, 0, 0, 1, 0,
	}
	InvertMatrix = ColorMatrix{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}
)

// BrightnessMatrix scales RGB by f.
func BrightnessMatrix(f float64) ColorMatrix {
	return ColorMatrix{
		f, 0, 0, 0, 0,
		0, f, 0, 0, 0,
		0, 0, f, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// ApplyMatrix transforms every pixel of img inside r.
func ApplyMatrix(img *image.RGBA, r image.Rectangle, m ColorMatrix) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, o = x+1, o+4 {
			p := img.Pix[o : o+4 : o+4]
			in := [4]float64{float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])}
			for row := 0; row < 4; row++ {
				k := m[row*5 : row*5+5]
				p[row] = clamp8(k[0]*in[0] + k[1]*in[1] + k[2]*in[2] + k[3]*in[3] + k[4])
			}
		}
	}
}

// Brightness multiplies RGB by BRIGHTNESS.
type Brightness struct{ base }

func NewBrightness(invert bool) *Brightness {
	b := &Brightness{base{invert: invert}}
	b.fields.AddField(field.Brightness, "brightness", 0.9)
	return b
}

func (b *Brightness) Name() string { return "brightness" }

func (b *Brightness) Apply(img *image.RGBA, area image.Rectangle, _ bool) {
	m := BrightnessMatrix(b.fields.Float(field.Brightness))
	run(img, area, b.invert, func(r image.Rectangle) { ApplyMatrix(img, r, m) })
}

type Grayscale struct{ base }

func NewGrayscale(invert bool) *Grayscale { return &Grayscale{base{invert: invert}} }

func (g *Grayscale) Name() string { return "grayscale" }

func (g *Grayscale) Apply(img *image.RGBA, area image.Rectangle, _ bool) {
	run(img, area, g.invert, func(r image.Rectangle) { ApplyMatrix(img, r, GrayscaleMatrix) })
}

// Highlight emulates a text marker: each channel becomes the minimum of the
// pixel and HIGHLIGHT_COLOR.
type Highlight struct{ base }

func NewHighlight(invert bool) *Highlight {
	h := &Highlight{base{invert: invert}}
	h.fields.AddField(field.HighlightColor, "highlight", color.NRGBA{R: 255, G: 255, A: 255})
	return h
}

func (h *Highlight) Name() string { return "highlight" }

func (h *Highlight) Apply(img *image.RGBA, area image.Rectangle, _ bool) {
	c := h.fields.Color(field.HighlightColor)
	run(img, area, h.invert, func(r image.Rectangle) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			o := img.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x, o = x+1, o+4 {
				img.Pix[o] = min(img.Pix[o], c.R)
				img.Pix[o+1] = min(img.Pix[o+1], c.G)
				img.Pix[o+2] = min(img.Pix[o+2], c.B)
			}
		}
	})
}
