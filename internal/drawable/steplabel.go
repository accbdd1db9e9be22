/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"strconv"

	"github.com/fogleman/gg"

	"shotedit/internal/field"
	"shotedit/internal/textlayout"
	"shotedit/internal/vector"
)

const stepLabelSize = 30

// StepLabel is a numbered circle. Numbers are assigned by the surface in
// creation order.
type StepLabel struct {
	Element

	number int
	Fonts  *textlayout.Library
}

func NewStepLabel(d *field.Defaults) *StepLabel {
	s := &StepLabel{}
	s.init(s, KindStepLabel)
	s.addField(d, field.FillColor, darkRed)
	s.addField(d, field.LineColor, white)
	s.addField(d, field.Flags, field.FlagCounter)
	s.rect = vector.R(0, 0, stepLabelSize, stepLabelSize)
	return s
}

func (s *StepLabel) Number() int     { return s.number }
func (s *StepLabel) SetNumber(n int) { s.number = n }

// The label is centered on the pointer instead of being dragged open.
func (s *StepLabel) HandleMouseDown(x, y float64) bool {
	s.center(x, y)
	return true
}

func (s *StepLabel) HandleMouseMove(x, y float64) bool {
	s.center(x, y)
	return true
}

func (s *StepLabel) center(x, y float64) {
	w, h := s.rect.W, s.rect.H
	if w == 0 || h == 0 {
		w, h = stepLabelSize, stepLabelSize
	}
	s.rect = vector.R(x-w/2, y-h/2, w, h)
}

func (s *StepLabel) ClickableAt(x, y float64) bool {
	return s.Bounds().Inset(-5, -5).Contains(vector.P(x, y))
}

func (s *StepLabel) Draw(dc *gg.Context, _ RenderMode) {
	b := s.Bounds()
	if b.Empty() {
		return
	}
	dc.SetColor(s.fields.Color(field.FillColor))
	dc.DrawEllipse(b.X+b.W/2, b.Y+b.H/2, b.W/2, b.H/2)
	dc.Fill()

	lib := s.Fonts
	if lib == nil {
		lib = textlayout.Shared()
	}
	face, _, err := lib.Face(textlayout.FontSpec{Family: textlayout.SansSerif, Size: b.H * 0.5, Bold: true})
	if err != nil {
		panic("drawable: cannot construct fallback font: " + err.Error())
	}
	dc.SetFontFace(face)
	dc.SetColor(s.fields.Color(field.LineColor))
	dc.DrawStringAnchored(strconv.Itoa(s.number), b.X+b.W/2, b.Y+b.H/2, 0.5, 0.35)
}
