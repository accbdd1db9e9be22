/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout resolves fonts and breaks element text into lines.
package textlayout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string
	Size   float64 // points
	Bold   bool
	Italic bool
}

// Metrics are pixel metrics of a resolved face.
type Metrics struct {
	Ascent, Descent, LineHeight float64
}

// MetricsOf converts a face's metrics to pixels.
func MetricsOf(face font.Face) Metrics {
	m := face.Metrics()
	return Metrics{
		Ascent:     fixedToFloat(m.Ascent),
		Descent:    fixedToFloat(m.Descent),
		LineHeight: fixedToFloat(m.Height),
	}
}

// Line is one laid out line.
type Line struct {
	Text  string
	Width float64
}

// Box is text broken into lines for a given width.
type Box struct {
	Lines   []Line
	Width   float64
	Height  float64
	Metrics Metrics
}

// BasicFace is a fixed 7x13 face for deterministic tests and headless use.
func BasicFace() font.Face { return basicfont.Face7x13 }

// Wrap breaks text at spaces so no line exceeds maxWidth (unless a single
// word is wider). Explicit newlines are kept. maxWidth <= 0 disables wrapping.
func Wrap(face font.Face, text string, maxWidth float64) Box {
	d := &font.Drawer{Face: face}
	met := MetricsOf(face)
	box := Box{Metrics: met}
	add := func(s string) {
		w := measure(d, s)
		box.Lines = append(box.Lines, Line{Text: s, Width: w})
		if w > box.Width {
			box.Width = w
		}
	}
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			add("")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if maxWidth > 0 && measure(d, next) > maxWidth {
				add(cur)
				cur = w
				continue
			}
			cur = next
		}
		add(cur)
	}
	box.Height = float64(len(box.Lines)) * met.LineHeight
	return box
}

// Measure returns the advance width of s in pixels.
func Measure(face font.Face, s string) float64 { return measure(&font.Drawer{Face: face}, s) }

func measure(d *font.Drawer, s string) float64 { return fixedToFloat(d.MeasureString(s)) }

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
