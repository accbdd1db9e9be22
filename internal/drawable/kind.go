/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import "fmt"

// Kind identifies a container variant. The set is closed; the numeric values
// are part of the template format.
type Kind uint8

const (
	KindRectangle Kind = iota + 1
	KindEllipse
	KindLine
	KindArrow
	KindFreehand
	KindText
	KindSpeechBubble
	KindStepLabel
	KindImage
	KindCrop
	KindHighlight
	KindObfuscate
)

var kindNames = map[Kind]string{
	KindRectangle:    "Rectangle",
	KindEllipse:      "Ellipse",
	KindLine:         "Line",
	KindArrow:        "Arrow",
	KindFreehand:     "Freehand",
	KindText:         "Text",
	KindSpeechBubble: "SpeechBubble",
	KindStepLabel:    "StepLabel",
	KindImage:        "Image",
	KindCrop:         "Crop",
	KindHighlight:    "Highlight",
	KindObfuscate:    "Obfuscate",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// RenderMode selects whether editing chrome is painted.
type RenderMode uint8

const (
	RenderEdit RenderMode = iota
	RenderExport
)

// Status is the edit state of a container.
//
//	Undrawn -> Drawing -> Idle <-> Moving/Resizing
//
// Disposed is terminal.
type Status uint8

const (
	StatusUndrawn Status = iota
	StatusDrawing
	StatusIdle
	StatusMoving
	StatusResizing
	StatusDisposed
)

func (s Status) String() string {
	switch s {
	case StatusUndrawn:
		return "undrawn"
	case StatusDrawing:
		return "drawing"
	case StatusIdle:
		return "idle"
	case StatusMoving:
		return "moving"
	case StatusResizing:
		return "resizing"
	case StatusDisposed:
		return "disposed"
	}
	return "unknown"
}
