/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package effect holds whole-image effects such as borders, shadows and
// rotation. An effect never modifies its input; it returns a new image and
// the matrix that maps old coordinates onto it, so annotation elements can
// follow the pixels.
package effect

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"shotedit/internal/filter"
	"shotedit/internal/vector"
)

// Effect transforms a whole bitmap.
type Effect interface {
	Name() string
	Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D)
}

// ErrUnknownEffect is returned by ByName.
var ErrUnknownEffect = errors.New("unknown effect")

// Params carries numeric effect parameters, e.g. from a script.
type Params map[string]float64

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// ByName builds an effect from its name and parameters.
func ByName(name string, p Params) (Effect, error) {
	switch strings.ToLower(name) {
	case "border":
		return Border{Width: int(p.get("width", 2)), Color: color.NRGBA{A: 255}}, nil
	case "dropshadow", "drop_shadow", "shadow":
		return DropShadow{Size: int(p.get("size", 7)), Offset: int(p.get("offset", 1)), Darkness: p.get("darkness", 0.6)}, nil
	case "resize":
		w, h := int(p.get("width", 0)), int(p.get("height", 0))
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("resize needs positive width and height, got %dx%d", w, h)
		}
		return Resize{Width: w, Height: h}, nil
	case "rotate":
		return Rotate{Turns: int(p.get("turns", 1))}, nil
	case "invert":
		return Invert{}, nil
	case "grayscale":
		return Grayscale{}, nil
	case "tornedge", "torn_edge":
		return TornEdge{ToothHeight: int(p.get("tooth_height", 12)), Range: int(p.get("range", 20)), Seed: int64(p.get("seed", 1))}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

func clone(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}

// Border surrounds the image with a solid frame.
type Border struct {
	Width int
	Color color.NRGBA
}

func (Border) Name() string { return "border" }

func (e Border) Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D) {
	w := max(e.Width, 0)
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*w, b.Dy()+2*w))
	draw.Draw(out, out.Bounds(), image.NewUniform(e.Color), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(w, w, w+b.Dx(), w+b.Dy()), src, b.Min, draw.Src)
	return out, vector.Translate(float64(w), float64(w))
}

// DropShadow puts a blurred dark copy of the image outline behind it.
type DropShadow struct {
	Size     int     // blur radius and margin
	Offset   int     // shadow displacement
	Darkness float64 // 0..1
}

func (DropShadow) Name() string { return "dropshadow" }

func (e DropShadow) Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D) {
	size, off := max(e.Size, 0), max(e.Offset, 0)
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*size+off, b.Dy()+2*size+off))
	a := uint8(255 * min(max(e.Darkness, 0), 1))
	shadow := image.Rect(size+off, size+off, size+off+b.Dx(), size+off+b.Dy())
	draw.DrawMask(out, shadow, image.NewUniform(color.NRGBA{A: a}), image.Point{}, src, b.Min, draw.Over)
	filter.GaussianBlur(out, out.Bounds(), float64(size)/2)
	draw.Draw(out, image.Rect(size, size, size+b.Dx(), size+b.Dy()), src, b.Min, draw.Over)
	return out, vector.Translate(float64(size), float64(size))
}

// Resize scales the image to Width x Height.
type Resize struct{ Width, Height int }

func (Resize) Name() string { return "resize" }

func (e Resize) Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D) {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, e.Width, e.Height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, b, xdraw.Src, nil)
	return out, vector.Scale(float64(e.Width)/float64(b.Dx()), float64(e.Height)/float64(b.Dy()))
}

// Rotate turns the image clockwise by Turns quarter turns.
type Rotate struct{ Turns int }

func (Rotate) Name() string { return "rotate" }

func (e Rotate) Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D) {
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	var m vector.Affine2D
	switch ((e.Turns % 4) + 4) % 4 {
	case 0:
		return clone(src), vector.Identity
	case 1:
		m = vector.Affine2D{B: 1, C: -1, E: h}
	case 2:
		m = vector.Affine2D{A: -1, D: -1, E: w, F: h}
	case 3:
		m = vector.Affine2D{B: -1, C: 1, F: w}
	}
	return RotateQuarter(src, e.Turns), m
}

// RotateQuarter returns img turned clockwise by turns quarter turns.
func RotateQuarter(img *image.RGBA, turns int) *image.RGBA {
	turns = ((turns % 4) + 4) % 4
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var out *image.RGBA
	if turns%2 == 1 {
		out = image.NewRGBA(image.Rect(0, 0, h, w))
	} else {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch turns {
			case 0:
				dx, dy = x, y
			case 1:
				dx, dy = h-1-y, x
			case 2:
				dx, dy = w-1-x, h-1-y
			case 3:
				dx, dy = y, w-1-x
			}
			so := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			do := out.PixOffset(dx, dy)
			copy(out.Pix[do:do+4], img.Pix[so:so+4])
		}
	}
	return out
}

// Invert negates the colors.
type Invert struct{}

func (Invert) Name() string { return "invert" }

func (Invert) Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D) {
	out := clone(src)
	filter.ApplyMatrix(out, out.Bounds(), filter.InvertMatrix)
	return out, vector.Identity
}

// Grayscale removes color.
type Grayscale struct{}

func (Grayscale) Name() string { return "grayscale" }

func (Grayscale) Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D) {
	out := clone(src)
	filter.ApplyMatrix(out, out.Bounds(), filter.GrayscaleMatrix)
	return out, vector.Identity
}

// TornEdge cuts the image edges into a ragged, paper-like outline. The
// outline is derived from Seed so the result is reproducible.
type TornEdge struct {
	ToothHeight int
	Range       int // horizontal distance between teeth
	Seed        int64
	// Skip lists edges to keep straight: "top", "right", "bottom", "left".
	Skip []string
}

func (TornEdge) Name() string { return "tornedge" }

func (e TornEdge) skip(edge string) bool {
	for _, s := range e.Skip {
		if s == edge {
			return true
		}
	}
	return false
}

func (e TornEdge) Apply(src *image.RGBA) (*image.RGBA, vector.Affine2D) {
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	tooth := float64(max(e.ToothHeight, 1))
	step := float64(max(e.Range, 2))
	rng := rand.New(rand.NewSource(e.Seed))
	jag := func() float64 { return rng.Float64() * tooth }

	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.MoveTo(0, 0)
	for x := step; x < w; x += step { // top
		if e.skip("top") {
			break
		}
		dc.LineTo(x, jag())
	}
	dc.LineTo(w, 0)
	for y := step; y < h; y += step { // right
		if e.skip("right") {
			break
		}
		dc.LineTo(w-jag(), y)
	}
	dc.LineTo(w, h)
	for x := w - step; x > 0; x -= step { // bottom
		if e.skip("bottom") {
			break
		}
		dc.LineTo(x, h-jag())
	}
	dc.LineTo(0, h)
	for y := h - step; y > 0; y -= step { // left
		if e.skip("left") {
			break
		}
		dc.LineTo(jag(), y)
	}
	dc.ClosePath()
	dc.Clip()
	dc.DrawImage(clone(src), 0, 0)

	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		out = image.NewRGBA(dc.Image().Bounds())
		draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	}
	return out, vector.Identity
}
