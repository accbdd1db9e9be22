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

	"shotedit/internal/field"
	"shotedit/internal/filter"
	"shotedit/internal/vector"
)

// filtered is the base of elements that only run a pixel filter chain over
// their area. The chain is derived from the prepared filter field.
type filtered struct {
	Element
	preset field.Type
}

func (f *filtered) setupFilters(d *field.Defaults, preset field.Type, def field.PreparedFilter) {
	f.preset = preset
	f.addField(d, field.LineThickness, 0)
	f.addField(d, field.LineColor, red)
	f.addField(d, field.Shadow, false)
	f.addField(d, preset, def)
	f.fields.Subscribe(func(c field.Change) {
		if c.Field.Type() == preset && c.Field.Owner() == &f.fields {
			f.rebuildFilters()
		}
	})
	f.rebuildFilters()
}

// PreparedFilter returns the active preset.
func (f *filtered) PreparedFilter() field.PreparedFilter {
	pf, _ := field.Get[field.PreparedFilter](&f.fields, f.preset)
	return pf
}

// rebuildFilters replaces the chain; exactly one pipeline is active.
func (f *filtered) rebuildFilters() {
	f.fields.ClearChildren()
	f.filters = ChainFor(f.PreparedFilter())
	for _, flt := range f.filters {
		f.fields.AddChild(flt.FieldHolder())
	}
}

// ChainFor builds the filter chain of a prepared filter.
func ChainFor(pf field.PreparedFilter) []filter.Filter {
	switch pf {
	case field.FilterTextHighlight:
		return []filter.Filter{filter.NewHighlight(false)}
	case field.FilterAreaHighlight:
		return []filter.Filter{filter.NewBrightness(true), filter.NewBlur(true)}
	case field.FilterGrayscale:
		return []filter.Filter{filter.NewGrayscale(true)}
	case field.FilterMagnification:
		return []filter.Filter{filter.NewMagnifier(false)}
	case field.FilterBlur:
		return []filter.Filter{filter.NewBlur(false)}
	case field.FilterPixelize:
		return []filter.Filter{filter.NewPixelize(false)}
	}
	return nil
}

func (f *filtered) ClickableAt(x, y float64) bool {
	b := f.Bounds()
	p := vector.P(x, y)
	if b.Contains(p) {
		return true
	}
	return f.lineThickness() > 0 && vector.NearRectOutline(b, p, strokeTolerance(f.lineThickness()))
}

func (f *filtered) Draw(dc *gg.Context, mode RenderMode) {
	b := f.Bounds()
	if f.lineVisible() {
		if f.fields.Bool(field.Shadow) {
			for _, s := range ShadowSteps(true) {
				dc.SetColor(s.Color)
				dc.SetLineWidth(f.lineThickness())
				dc.DrawRectangle(b.X+s.Offset, b.Y+s.Offset, b.W, b.H)
				dc.Stroke()
			}
		}
		dc.SetColor(f.fields.Color(field.LineColor))
		dc.SetLineWidth(f.lineThickness())
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Stroke()
	}
	// filters are skipped while the element is being dragged
	if mode == RenderEdit && f.status != StatusIdle {
		drawSelectionBorder(dc, b)
		return
	}
	img := canvas(dc)
	if img == nil || b.Empty() {
		return
	}
	for _, flt := range f.filters {
		flt.Apply(img, b.Image(), mode == RenderEdit)
	}
}

// Highlight marks text or an area using a highlight preset.
type Highlight struct{ filtered }

func NewHighlight(d *field.Defaults) *Highlight {
	h := &Highlight{}
	h.init(h, KindHighlight)
	h.setupFilters(d, field.PreparedFilterHighlight, field.FilterTextHighlight)
	return h
}

// Obfuscate hides the pixels below it by blurring or pixelizing.
type Obfuscate struct{ filtered }

func NewObfuscate(d *field.Defaults) *Obfuscate {
	o := &Obfuscate{}
	o.init(o, KindObfuscate)
	o.setupFilters(d, field.PreparedFilterObfuscate, field.FilterPixelize)
	return o
}

var cropMask = color.NRGBA{R: 150, G: 150, B: 100, A: 100}

// Crop marks the area to keep. It masks everything outside while editing and
// never shows up in exported output.
type Crop struct{ Element }

func NewCrop(d *field.Defaults) *Crop {
	c := &Crop{}
	c.init(c, KindCrop)
	c.addField(d, field.CropMode, field.CropDefault)
	return c
}

func (c *Crop) Mode() field.CropKind {
	m, _ := field.Get[field.CropKind](&c.fields, field.CropMode)
	return m
}

func (c *Crop) CoversCanvas() bool { return true }

func (c *Crop) ClickableAt(x, y float64) bool { return c.Bounds().Contains(vector.P(x, y)) }

func (c *Crop) Draw(dc *gg.Context, mode RenderMode) {
	if mode == RenderExport {
		return
	}
	b := c.Bounds()
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetColor(cropMask)
	dc.DrawRectangle(0, 0, w, b.Y)
	dc.DrawRectangle(0, b.Y+b.H, w, h-b.Y-b.H)
	dc.DrawRectangle(0, b.Y, b.X, b.H)
	dc.DrawRectangle(b.X+b.W, b.Y, w-b.X-b.W, b.H)
	dc.Fill()
	drawSelectionBorder(dc, b)
}
