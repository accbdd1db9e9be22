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
	"math"

	xdraw "golang.org/x/image/draw"

	"shotedit/internal/field"
)

// Blur is a separable gaussian blur driven by BLUR_RADIUS. In preview mode
// PREVIEW_QUALITY below 1 blurs a downscaled copy instead.
type Blur struct{ base }

func NewBlur(invert bool) *Blur {
	b := &Blur{base{invert: invert}}
	b.fields.AddField(field.BlurRadius, "blur", 3)
	b.fields.AddField(field.PreviewQuality, "blur", 1.0)
	return b
}

func (b *Blur) Name() string { return "blur" }

func (b *Blur) Apply(img *image.RGBA, area image.Rectangle, preview bool) {
	radius := float64(b.fields.Int(field.BlurRadius))
	if radius <= 0 {
		return
	}
	q := b.fields.Float(field.PreviewQuality)
	run(img, area, b.invert, func(r image.Rectangle) {
		if preview && q > 0 && q < 1 {
			blurScaled(img, r, radius, q)
			return
		}
		GaussianBlur(img, r, radius)
	})
}

func blurScaled(img *image.RGBA, r image.Rectangle, radius, q float64) {
	w := max(1, int(float64(r.Dx())*q))
	h := max(1, int(float64(r.Dy())*q))
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, r, xdraw.Src, nil)
	GaussianBlur(small, small.Bounds(), radius*q)
	xdraw.ApproxBiLinear.Scale(img, r, small, small.Bounds(), xdraw.Src, nil)
}

// GaussianKernel returns a normalized 1D kernel of size 2*ceil(3r)+1.
func GaussianKernel(radius float64) []float64 {
	if radius <= 0 {
		return []float64{1}
	}
	half := int(math.Ceil(radius * 3))
	k := make([]float64, 2*half+1)
	twoSigmaSq := 2 * radius * radius
	sum := 0.0
	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// GaussianBlur blurs img inside r. Samples outside r are clamped to its edge
// so the blur does not bleed in neighbouring pixels.
func GaussianBlur(img *image.RGBA, r image.Rectangle, radius float64) {
	r = r.Intersect(img.Bounds())
	if r.Empty() || radius <= 0 {
		return
	}
	k := GaussianKernel(radius)
	half := len(k) / 2
	w, h := r.Dx(), r.Dy()
	tmp := make([]float64, w*h*4)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float64
			for i, wt := range k {
				sx := clamp(x+i-half, 0, w-1)
				o := img.PixOffset(r.Min.X+sx, r.Min.Y+y)
				for c := 0; c < 4; c++ {
					acc[c] += float64(img.Pix[o+c]) * wt
				}
			}
			copy(tmp[(y*w+x)*4:], acc[:])
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float64
			for i, wt := range k {
				sy := clamp(y+i-half, 0, h-1)
				t := (sy*w + x) * 4
				for c := 0; c < 4; c++ {
					acc[c] += tmp[t+c] * wt
				}
			}
			o := img.PixOffset(r.Min.X+x, r.Min.Y+y)
			for c := 0; c < 4; c++ {
				img.Pix[o+c] = clamp8(acc[c])
			}
		}
	}
}
