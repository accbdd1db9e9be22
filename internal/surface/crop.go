/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"image"
	"image/draw"
	"math"

	"shotedit/internal/drawable"
	"shotedit/internal/effect"
	"shotedit/internal/vector"
)

// clipCrop normalizes r, rounds it outwards to whole pixels and clips it to
// the background.
func (s *Surface) clipCrop(r vector.Rect) (image.Rectangle, bool) {
	n := r.Normalize()
	ir := image.Rect(
		int(math.Floor(n.X)), int(math.Floor(n.Y)),
		int(math.Ceil(n.X+n.W)), int(math.Ceil(n.Y+n.H)),
	).Intersect(s.image.Bounds())
	return ir, !ir.Empty()
}

// IsCropPossible reports whether r still covers part of the background.
func (s *Surface) IsCropPossible(r vector.Rect) bool {
	_, ok := s.clipCrop(r)
	return ok
}

// ApplyCrop cuts the background to r clipped to the image and moves every
// element by the same offset. It refuses an empty result.
func (s *Surface) ApplyCrop(r vector.Rect) bool {
	ir, ok := s.clipCrop(r)
	if !ok {
		return false
	}
	out := image.NewRGBA(image.Rect(0, 0, ir.Dx(), ir.Dy()))
	draw.Draw(out, out.Bounds(), s.image, ir.Min, draw.Src)
	s.replaceBackground(out, vector.Translate(-float64(ir.Min.X), -float64(ir.Min.Y)))
	s.log.InfoContext(s.ctx, "cropped", "rect", ir.String())
	return true
}

// replaceBackground swaps in img as one undo step; m maps old coordinates
// to new ones and is applied to every element.
func (s *Surface) replaceBackground(img *image.RGBA, m vector.Affine2D) {
	s.undo.MakeUndoable(&backgroundChange{s: s, img: s.image, m: m}, false)
	s.image = img
	if !m.IsIdentity() {
		s.elements.Transform(m)
	}
	s.markModified()
	s.emit(EventSizeChanged, "")
}

// SetImage replaces the background without touching the elements.
func (s *Surface) SetImage(img image.Image, undoable bool) {
	rgba := toRGBA(img)
	if undoable {
		s.replaceBackground(rgba, vector.Identity)
		return
	}
	s.image = rgba
	s.markModified()
	s.emit(EventSizeChanged, "")
}

// ApplyBitmapEffect runs e on the background as one undo step.
func (s *Surface) ApplyBitmapEffect(e effect.Effect) {
	out, m := e.Apply(s.image)
	s.replaceBackground(out, m)
	s.log.InfoContext(s.ctx, "effect applied", "effect", e.Name())
}

// CropRect returns the pending crop rectangle.
func (s *Surface) CropRect() (vector.Rect, bool) {
	if s.crop == nil {
		return vector.Rect{}, false
	}
	return s.crop.Bounds(), true
}

// SetCropRect enters crop mode if needed and places the crop rectangle at r.
func (s *Surface) SetCropRect(r vector.Rect) {
	if s.mode != ModeCrop {
		s.SetDrawingMode(ModeCrop)
	}
	if s.crop == nil {
		s.dropUndrawn()
		s.crop = drawable.NewCrop(s.defaults)
		s.elements.Add(s.crop)
	}
	s.crop.SetRect(r)
	s.crop.SetStatus(drawable.StatusIdle)
	s.selectOnly(s.crop)
}

// ConfirmCrop ends crop mode. With confirm the background is cut to the
// crop rectangle; otherwise the crop is discarded. It reports whether the
// background changed.
func (s *Surface) ConfirmCrop(confirm bool) bool {
	if s.crop == nil {
		return false
	}
	r := s.crop.Bounds()
	s.cancelCrop()
	ok := confirm && s.ApplyCrop(r)
	s.SetDrawingMode(ModeNone)
	return ok
}

func (s *Surface) cancelCrop() {
	if s.crop == nil {
		return
	}
	c := s.crop
	s.crop = nil
	s.DeselectElement(c)
	s.elements.Remove(c)
	c.Dispose()
	s.emit(EventElementsChanged, "")
}

// AutoCrop crops away a uniform border. It reports false when no border
// was found.
func (s *Surface) AutoCrop() bool {
	r, ok := FindAutoCropRect(s.image, s.autoCropDiff)
	if !ok {
		s.emit(EventMessage, "nothing to auto-crop")
		return false
	}
	s.SetCropRect(vector.RectFrom(r))
	return s.ConfirmCrop(true)
}

// FindAutoCropRect looks for content that differs from each corner color
// by more than diff in any channel and returns the largest of the four
// candidate rectangles. It fails when that is empty or the whole image.
func FindAutoCropRect(img *image.RGBA, diff int) (image.Rectangle, bool) {
	b := img.Bounds()
	if b.Empty() {
		return image.Rectangle{}, false
	}
	corners := []image.Point{
		b.Min,
		{b.Min.X, b.Max.Y - 1},
		{b.Max.X - 1, b.Min.Y},
		{b.Max.X - 1, b.Max.Y - 1},
	}
	var best image.Rectangle
	for _, c := range corners {
		r := contentRect(img, c, diff)
		if area(r) > area(best) {
			best = r
		}
	}
	if best.Empty() || best == b {
		return image.Rectangle{}, false
	}
	return best, true
}

func area(r image.Rectangle) int { return r.Dx() * r.Dy() }

func contentRect(img *image.RGBA, ref image.Point, diff int) image.Rectangle {
	b := img.Bounds()
	o := img.PixOffset(ref.X, ref.Y)
	rc := img.Pix[o : o+4 : o+4]
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		o := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, o = x+1, o+4 {
			if !differs(img.Pix[o:o+4:o+4], rc, diff) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func differs(p, ref []uint8, diff int) bool {
	for i := 0; i < 4; i++ {
		d := int(p[i]) - int(ref[i])
		if d > diff || -d > diff {
			return true
		}
	}
	return false
}
