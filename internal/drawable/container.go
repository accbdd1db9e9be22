/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package drawable implements the annotation elements (containers) that sit
// on top of a screenshot, their adorners, the z-ordered element list and the
// binary element template format.
package drawable

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"shotedit/internal/field"
	"shotedit/internal/filter"
	"shotedit/internal/vector"
)

// Container is one annotation element. The set of implementations is closed:
// every variant embeds Element.
type Container interface {
	field.Bindable

	Kind() Kind
	// Rect is the raw geometry; width and height may be negative.
	Rect() vector.Rect
	SetRect(r vector.Rect)
	// Bounds is Rect normalized.
	Bounds() vector.Rect
	// DrawingBounds is the paint invalidation area; it always contains Bounds.
	DrawingBounds() vector.Rect
	MoveBy(dx, dy float64)
	Transform(m vector.Affine2D)

	Draw(dc *gg.Context, mode RenderMode)
	ClickableAt(x, y float64) bool

	HandleMouseDown(x, y float64) bool
	HandleMouseMove(x, y float64) bool
	HandleMouseUp(x, y float64)
	// InitContent finishes creation; false means the element is degenerate
	// and must be discarded.
	InitContent() bool

	Selected() bool
	SetSelected(bool)
	Status() Status
	SetStatus(Status)

	Filters() []filter.Filter
	Adorners() []*Adorner
	// CoversCanvas reports whether drawing affects pixels outside
	// DrawingBounds (inverted filters, crop mask).
	CoversCanvas() bool
	Dispose()

	base() *Element
}

// Element carries the state shared by all variants.
type Element struct {
	fields   field.Holder
	rect     vector.Rect
	selected bool
	status   Status
	filters  []filter.Filter

	kind Kind
	self Container
}

func (e *Element) init(self Container, kind Kind) {
	e.self = self
	e.kind = kind
}

func (e *Element) base() *Element             { return e }
func (e *Element) Kind() Kind                 { return e.kind }
func (e *Element) FieldHolder() *field.Holder { return &e.fields }
func (e *Element) Rect() vector.Rect          { return e.rect }
func (e *Element) SetRect(r vector.Rect)      { e.rect = r }
func (e *Element) Bounds() vector.Rect        { return e.rect.Normalize() }
func (e *Element) Selected() bool             { return e.selected }
func (e *Element) SetSelected(s bool)         { e.selected = s }
func (e *Element) Status() Status             { return e.status }
func (e *Element) Filters() []filter.Filter   { return append([]filter.Filter(nil), e.filters...) }

// Scope is the default scope of the element's fields.
func (e *Element) Scope() string { return e.kind.String() }

// SetStatus moves the element to s. Once disposed it stays disposed.
func (e *Element) SetStatus(s Status) {
	if e.status == StatusDisposed {
		return
	}
	e.status = s
}

// addField adds t with the remembered default for this kind, or v.
func (e *Element) addField(d *field.Defaults, t field.Type, v any) {
	e.fields.AddField(t, e.Scope(), d.Resolve(t, e.Scope(), v))
}

func (e *Element) lineThickness() float64 {
	return math.Max(0, e.fields.Float(field.LineThickness))
}

func (e *Element) lineVisible() bool {
	return e.lineThickness() > 0 && visible(e.fields.Color(field.LineColor))
}

func (e *Element) DrawingBounds() vector.Rect {
	return inflateForStroke(e.Bounds(), e.lineThickness(), e.fields.Bool(field.Shadow))
}

// inflateForStroke pads b by half the pen plus slack. The shadow margin only
// grows the right and bottom edges, where the shadow falls.
func inflateForStroke(b vector.Rect, thickness float64, shadow bool) vector.Rect {
	pad := (5 + thickness) / 2
	r := b.Inset(-pad, -pad)
	if shadow {
		r.W += shadowMargin
		r.H += shadowMargin
	}
	return r
}

func (e *Element) MoveBy(dx, dy float64) {
	e.rect.X += dx
	e.rect.Y += dy
}

// Transform maps the two defining corners through m. For quarter turns this
// keeps the element axis aligned; the raw size may become negative.
func (e *Element) Transform(m vector.Affine2D) {
	p0 := m.Apply(e.rect.Min())
	p1 := m.Apply(e.rect.Max())
	e.rect = vector.Rect{X: p0.X, Y: p0.Y, W: p1.X - p0.X, H: p1.Y - p0.Y}
}

// Default drag-to-create: the press point is one corner, the pointer the other.
func (e *Element) HandleMouseDown(x, y float64) bool {
	e.rect = vector.R(x, y, 0, 0)
	return true
}

func (e *Element) HandleMouseMove(x, y float64) bool {
	e.rect.W = x - e.rect.X
	e.rect.H = y - e.rect.Y
	return true
}

func (e *Element) HandleMouseUp(x, y float64) {}

func (e *Element) InitContent() bool { return true }

func (e *Element) Adorners() []*Adorner { return resizeAdorners(e.self) }

func (e *Element) CoversCanvas() bool {
	for _, f := range e.filters {
		if f.Invert() {
			return true
		}
	}
	return false
}

func (e *Element) Dispose() {
	e.status = StatusDisposed
	e.selected = false
	e.fields.ClearChildren()
	e.filters = nil
}

// ShadowStep is one layer of the stepped drop shadow.
type ShadowStep struct {
	Offset float64
	Color  color.NRGBA
}

const (
	shadowBaseAlpha = 100
	shadowStepCount = 5
	shadowMargin    = 10
)

// ShadowSteps returns the layers of the drop shadow, bottom first. The
// shadow starts one pixel out when an outline is visible.
func ShadowSteps(lineVisible bool) []ShadowStep {
	var out []ShadowStep
	alpha := shadowBaseAlpha
	step := 0
	if lineVisible {
		step = 1
	}
	for ; step <= shadowStepCount; step++ {
		out = append(out, ShadowStep{Offset: float64(step), Color: color.NRGBA{R: 100, G: 100, B: 100, A: uint8(alpha)}})
		alpha -= shadowBaseAlpha / shadowStepCount
	}
	return out
}

func visible(c color.NRGBA) bool { return c.A > 0 }

// canvas returns the pixels behind dc for filters that work in place.
func canvas(dc *gg.Context) *image.RGBA {
	img, _ := dc.Image().(*image.RGBA)
	return img
}

// strokeTolerance is half the hit-test pen: the stroke width widened by 2px.
func strokeTolerance(thickness float64) float64 { return (thickness + 2) / 2 }

// drawSelectionBorder paints the dashed rectangle used while a filter
// element is being drawn or moved.
func drawSelectionBorder(dc *gg.Context, r vector.Rect) {
	dc.Push()
	dc.SetDash(4, 4)
	dc.SetLineWidth(1)
	dc.SetColor(color.NRGBA{A: 255})
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Stroke()
	dc.Pop()
}

// ErrUnknownKind is returned for a kind outside the closed variant set.
var ErrUnknownKind = errors.New("unknown container kind")

// New creates a fresh container of kind using remembered defaults from d,
// which may be nil.
func New(kind Kind, d *field.Defaults) (Container, error) {
	switch kind {
	case KindRectangle:
		return NewRectangle(d), nil
	case KindEllipse:
		return NewEllipse(d), nil
	case KindLine:
		return NewLine(d), nil
	case KindArrow:
		return NewArrow(d), nil
	case KindFreehand:
		return NewFreehand(d), nil
	case KindText:
		return NewText(d), nil
	case KindSpeechBubble:
		return NewSpeechBubble(d), nil
	case KindStepLabel:
		return NewStepLabel(d), nil
	case KindImage:
		return NewImage(SourceBitmap, d), nil
	case KindCrop:
		return NewCrop(d), nil
	case KindHighlight:
		return NewHighlight(d), nil
	case KindObfuscate:
		return NewObfuscate(d), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
}
