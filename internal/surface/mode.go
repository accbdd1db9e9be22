/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"fmt"
	"strings"

	"shotedit/internal/drawable"
)

// DrawingMode selects what a drag on the surface does.
type DrawingMode uint8

const (
	ModeNone DrawingMode = iota
	ModeRect
	ModeEllipse
	ModeLine
	ModeArrow
	ModeText
	ModeSpeechBubble
	ModeStepLabel
	ModeHighlight
	ModeObfuscate
	ModeCrop
	ModeBitmap
	ModePath
)

var modes = []struct {
	name string
	kind drawable.Kind
}{
	ModeNone:         {"none", 0},
	ModeRect:         {"rect", drawable.KindRectangle},
	ModeEllipse:      {"ellipse", drawable.KindEllipse},
	ModeLine:         {"line", drawable.KindLine},
	ModeArrow:        {"arrow", drawable.KindArrow},
	ModeText:         {"text", drawable.KindText},
	ModeSpeechBubble: {"speechbubble", drawable.KindSpeechBubble},
	ModeStepLabel:    {"steplabel", drawable.KindStepLabel},
	ModeHighlight:    {"highlight", drawable.KindHighlight},
	ModeObfuscate:    {"obfuscate", drawable.KindObfuscate},
	ModeCrop:         {"crop", drawable.KindCrop},
	ModeBitmap:       {"bitmap", drawable.KindImage},
	ModePath:         {"path", drawable.KindFreehand},
}

func (m DrawingMode) String() string {
	if int(m) < len(modes) {
		return modes[m].name
	}
	return fmt.Sprintf("DrawingMode(%d)", uint8(m))
}

func (m DrawingMode) kind() (drawable.Kind, bool) {
	if m == ModeNone || int(m) >= len(modes) {
		return 0, false
	}
	return modes[m].kind, true
}

// ParseDrawingMode accepts the names printed by String, case-insensitively.
func ParseDrawingMode(s string) (DrawingMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, m := range modes {
		if m.name == s {
			return DrawingMode(i), true
		}
	}
	return ModeNone, false
}

// EventKind classifies a queued surface notification.
type EventKind uint8

const (
	EventSelectionChanged EventKind = iota + 1
	EventDrawingModeChanged
	EventElementsChanged
	EventSurfaceModified
	EventUndoStateChanged
	// EventMessage carries a status line for the user.
	EventMessage
	EventSizeChanged
)

var eventNames = map[EventKind]string{
	EventSelectionChanged:   "selection-changed",
	EventDrawingModeChanged: "drawing-mode-changed",
	EventElementsChanged:    "elements-changed",
	EventSurfaceModified:    "surface-modified",
	EventUndoStateChanged:   "undo-state-changed",
	EventMessage:            "message",
	EventSizeChanged:        "size-changed",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

type Event struct {
	Kind    EventKind
	Message string
}
