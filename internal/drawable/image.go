/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"shotedit/internal/effect"
	"shotedit/internal/field"
	"shotedit/internal/vector"
)

// ErrImageLoad is returned when an image file cannot be read or decoded.
var ErrImageLoad = errors.New("image load failed")

// ImageSource tells where an image element's pixels came from.
type ImageSource uint8

const (
	SourceBitmap ImageSource = iota
	SourceIcon
	SourceCursor
)

// Image shows a bitmap, icon or captured cursor scaled to its bounds.
type Image struct {
	Element

	source ImageSource
	img    *image.RGBA
}

func NewImage(src ImageSource, d *field.Defaults) *Image {
	i := &Image{source: src}
	i.init(i, KindImage)
	i.addField(d, field.LineThickness, 0)
	i.addField(d, field.LineColor, red)
	i.addField(d, field.Shadow, false)
	return i
}

func (i *Image) Source() ImageSource { return i.source }
func (i *Image) Bitmap() *image.RGBA { return i.img }

// SetImage copies img into the element. An element without a size takes the
// size of the image.
func (i *Image) SetImage(img image.Image) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	i.img = rgba
	if i.rect.W == 0 || i.rect.H == 0 {
		i.rect.W, i.rect.H = float64(b.Dx()), float64(b.Dy())
	}
}

// Load reads an image file. On failure the element keeps its previous
// content and the error wraps ErrImageLoad.
func (i *Image) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageLoad, path, err)
	}
	i.SetImage(img)
	return nil
}

// An image with content is placed at its natural size and follows the
// pointer instead of being dragged open.
func (i *Image) HandleMouseDown(x, y float64) bool {
	if i.img == nil {
		return i.Element.HandleMouseDown(x, y)
	}
	b := i.img.Bounds()
	i.rect = vector.R(x, y, float64(b.Dx()), float64(b.Dy()))
	return true
}

func (i *Image) HandleMouseMove(x, y float64) bool {
	if i.img == nil {
		return i.Element.HandleMouseMove(x, y)
	}
	i.rect.X, i.rect.Y = x, y
	return true
}

// InitContent refuses an element that never received a bitmap.
func (i *Image) InitContent() bool { return i.img != nil }

func (i *Image) ClickableAt(x, y float64) bool {
	return i.Bounds().Inset(-5, -5).Contains(vector.P(x, y))
}

// Transform also turns the pixels for quarter turns so the image stays upright
// relative to the rotated background.
func (i *Image) Transform(m vector.Affine2D) {
	i.Element.Transform(m)
	if i.img == nil {
		return
	}
	if turns := quarterTurns(m); turns != 0 {
		i.img = effect.RotateQuarter(i.img, turns)
	}
}

// quarterTurns returns the clockwise quarter turns encoded in m, or 0.
func quarterTurns(m vector.Affine2D) int {
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	switch {
	case near(m.A, 0) && near(m.D, 0) && m.B > 0 && m.C < 0:
		return 1
	case m.A < 0 && m.D < 0 && near(m.B, 0) && near(m.C, 0):
		return 2
	case near(m.A, 0) && near(m.D, 0) && m.B < 0 && m.C > 0:
		return 3
	}
	return 0
}

func (i *Image) Draw(dc *gg.Context, _ RenderMode) {
	b := i.Bounds()
	if b.Empty() {
		return
	}
	if i.fields.Bool(field.Shadow) {
		for _, s := range ShadowSteps(i.lineVisible()) {
			dc.SetColor(s.Color)
			dc.SetLineWidth(1)
			dc.DrawRectangle(b.X+s.Offset, b.Y+s.Offset, b.W, b.H)
			dc.Stroke()
		}
	}
	if i.img != nil {
		iw, ih := float64(i.img.Bounds().Dx()), float64(i.img.Bounds().Dy())
		dc.Push()
		dc.Translate(b.X, b.Y)
		dc.Scale(b.W/iw, b.H/ih)
		dc.DrawImage(i.img, 0, 0)
		dc.Pop()
	}
	if i.lineVisible() {
		dc.SetColor(i.fields.Color(field.LineColor))
		dc.SetLineWidth(i.lineThickness())
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Stroke()
	}
}
