/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package field

import "sort"

// Type identifies a field. The numeric value is the wire id used in
// element templates; never renumber existing entries.
type Type uint16

const (
	ArrowHeads Type = iota + 1
	BlurRadius
	Brightness
	FillColor
	Flags
	FontBold
	FontFamily
	FontItalic
	FontSize
	HighlightColor
	LineColor
	LineThickness
	MagnificationFactor
	PixelSize
	PreviewQuality
	Shadow
	TextHorizontalAlignment
	TextVerticalAlignment
	PreparedFilterHighlight
	PreparedFilterObfuscate
	CropMode
)

// Kind is the value representation of a field type.
type Kind uint8

const (
	KindColor Kind = iota + 1 // color.NRGBA
	KindInt                   // int
	KindFloat                 // float64
	KindBool                  // bool
	KindString                // string
	KindEnum                  // one of the enum types below
)

type typeInfo struct {
	name string
	kind Kind
	enum func(int) any
}

var catalogue = map[Type]typeInfo{
	ArrowHeads:              {"ARROWHEADS", KindEnum, func(v int) any { return ArrowHeadCombination(v) }},
	BlurRadius:              {"BLUR_RADIUS", KindInt, nil},
	Brightness:              {"BRIGHTNESS", KindFloat, nil},
	FillColor:               {"FILL_COLOR", KindColor, nil},
	Flags:                   {"FLAGS", KindEnum, func(v int) any { return Flag(v) }},
	FontBold:                {"FONT_BOLD", KindBool, nil},
	FontFamily:              {"FONT_FAMILY", KindString, nil},
	FontItalic:              {"FONT_ITALIC", KindBool, nil},
	FontSize:                {"FONT_SIZE", KindFloat, nil},
	HighlightColor:          {"HIGHLIGHT_COLOR", KindColor, nil},
	LineColor:               {"LINE_COLOR", KindColor, nil},
	LineThickness:           {"LINE_THICKNESS", KindInt, nil},
	MagnificationFactor:     {"MAGNIFICATION_FACTOR", KindInt, nil},
	PixelSize:               {"PIXEL_SIZE", KindInt, nil},
	PreviewQuality:          {"PREVIEW_QUALITY", KindFloat, nil},
	Shadow:                  {"SHADOW", KindBool, nil},
	TextHorizontalAlignment: {"TEXT_HORIZONTAL_ALIGNMENT", KindEnum, func(v int) any { return HorizontalAlignment(v) }},
	TextVerticalAlignment:   {"TEXT_VERTICAL_ALIGNMENT", KindEnum, func(v int) any { return VerticalAlignment(v) }},
	PreparedFilterHighlight: {"PREPARED_FILTER_HIGHLIGHT", KindEnum, func(v int) any { return PreparedFilter(v) }},
	PreparedFilterObfuscate: {"PREPARED_FILTER_OBFUSCATE", KindEnum, func(v int) any { return PreparedFilter(v) }},
	CropMode:                {"CROPMODE", KindEnum, func(v int) any { return CropKind(v) }},
}

func (t Type) String() string {
	if ti, ok := catalogue[t]; ok {
		return ti.name
	}
	return "UNKNOWN"
}

// Kind returns the value kind; 0 for unknown types.
func (t Type) Kind() Kind { return catalogue[t].kind }

func (t Type) Valid() bool {
	_, ok := catalogue[t]
	return ok
}

// TypeByName resolves names like "LINE_COLOR".
func TypeByName(name string) (Type, bool) {
	for t, ti := range catalogue {
		if ti.name == name {
			return t, true
		}
	}
	return 0, false
}

// AllTypes lists the catalogue in wire-id order.
func AllTypes() []Type {
	out := make([]Type, 0, len(catalogue))
	for t := range catalogue {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type ArrowHeadCombination int

const (
	ArrowNone ArrowHeadCombination = iota
	ArrowStart
	ArrowEnd
	ArrowBoth
)

type HorizontalAlignment int

const (
	AlignLeft HorizontalAlignment = iota
	AlignCenter
	AlignRight
)

type VerticalAlignment int

const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
)

// PreparedFilter names a preset filter chain for highlight and obfuscate elements.
type PreparedFilter int

const (
	FilterBlur PreparedFilter = iota
	FilterPixelize
	FilterTextHighlight
	FilterAreaHighlight
	FilterGrayscale
	FilterMagnification
)

var preparedNames = [...]string{"BLUR", "PIXELIZE", "TEXT_HIGHLIGHT", "AREA_HIGHLIGHT", "GRAYSCALE", "MAGNIFICATION"}

func (p PreparedFilter) String() string {
	if p >= 0 && int(p) < len(preparedNames) {
		return preparedNames[p]
	}
	return "UNKNOWN"
}

// ParsePreparedFilter accepts the upper-snake names.
func ParsePreparedFilter(s string) (PreparedFilter, bool) {
	for i, n := range preparedNames {
		if n == s {
			return PreparedFilter(i), true
		}
	}
	return 0, false
}

type CropKind int

const (
	CropDefault CropKind = iota
	CropAuto
)

// Flag is a bit set of element behaviors.
type Flag int

const (
	FlagConfirmable Flag = 1 << iota
	FlagCounter
)
