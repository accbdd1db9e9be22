/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package filter contains the pixel filters used by highlight and obfuscate
// elements. Every filter works in place on an *image.RGBA restricted to an
// area; an inverted filter treats everything outside the area instead.
package filter

import (
	"image"
	"image/draw"

	"shotedit/internal/field"
)

// Filter is one step of an element's filter chain. Its tunables live in the
// embedded field holder so the property toolbar can edit them.
type Filter interface {
	Name() string
	FieldHolder() *field.Holder
	Invert() bool
	// Apply processes img inside area (or outside it when inverted).
	// preview is true while editing and allows cheaper approximations.
	Apply(img *image.RGBA, area image.Rectangle, preview bool)
}

type base struct {
	fields field.Holder
	invert bool
}

func (b *base) FieldHolder() *field.Holder { return &b.fields }
func (b *base) Invert() bool               { return b.invert }

// run applies fn to area, or to the whole image except area when invert is set.
func run(img *image.RGBA, area image.Rectangle, invert bool, fn func(r image.Rectangle)) {
	area = area.Intersect(img.Bounds())
	if !invert {
		if !area.Empty() {
			fn(area)
		}
		return
	}
	var keep *image.RGBA
	if !area.Empty() {
		keep = image.NewRGBA(area)
		draw.Draw(keep, area, img, area.Min, draw.Src)
	}
	fn(img.Bounds())
	if keep != nil {
		draw.Draw(img, area, keep, area.Min, draw.Src)
	}
}

// New builds a filter by name; used when decoding element templates.
func New(name string, invert bool) (Filter, bool) {
	switch name {
	case "blur":
		return NewBlur(invert), true
	case "pixelize":
		return NewPixelize(invert), true
	case "highlight":
		return NewHighlight(invert), true
	case "brightness":
		return NewBrightness(invert), true
	case "grayscale":
		return NewGrayscale(invert), true
	case "magnifier":
		return NewMagnifier(invert), true
	}
	return nil, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
