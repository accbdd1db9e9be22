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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"shotedit/internal/drawable"
	"shotedit/internal/field"
	"shotedit/internal/vector"
)

type elemState struct {
	c      drawable.Container
	bounds vector.Rect
	fields string
}

// observe captures what undo must restore: order, geometry and field values.
func observe(s *Surface) []elemState {
	var out []elemState
	for _, c := range s.Elements() {
		var b strings.Builder
		for _, f := range c.FieldHolder().Fields() {
			b.WriteString(f.String())
			b.WriteByte(';')
		}
		if t, ok := c.(textElement); ok {
			fmt.Fprintf(&b, "text=%q;", t.Text())
		}
		if sl, ok := c.(*drawable.StepLabel); ok {
			fmt.Fprintf(&b, "n=%d;", sl.Number())
		}
		out = append(out, elemState{c: c, bounds: c.Bounds(), fields: b.String()})
	}
	return out
}

func sameState(a, b []elemState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].c != b[i].c || !rectEq(a[i].bounds, b[i].bounds) || a[i].fields != b[i].fields {
			return false
		}
	}
	return true
}

// apply runs one mutation chosen by op against s.
func apply(s *Surface, op int) {
	n := len(s.Elements())
	pick := func() drawable.Container {
		c := s.Elements()[(op/8)%n]
		s.SelectElements([]drawable.Container{c})
		return c
	}
	x, y := float64(op%97), float64(op%53)
	switch op % 8 {
	case 0:
		s.AddRectangle(x, y, 20, 10)
	case 1:
		s.AddEllipse(x, y, 15, 25)
	case 2:
		if n > 0 {
			pick()
			s.MoveSelected(float64(op%7)-3, float64(op%5)-2)
		}
	case 3:
		if n > 0 {
			pick()
			s.SetFieldValue(field.LineThickness, op%9)
		}
	case 4:
		if n > 0 {
			pick()
			s.DeleteSelected()
		}
	case 5:
		if n > 0 {
			pick()
			if op%2 == 0 {
				s.PullSelectedToTop()
			} else {
				s.PushSelectedToBottom()
			}
		}
	case 6:
		s.AddStepLabel(x, y)
	case 7:
		t := s.AddText(x, y, 40, 20, "")
		s.SetElementText(t, fmt.Sprintf("t%d", op))
	}
}

func TestProperty_UndoAllRedoAllRestoresState(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("N undo then N redo is observationally identity", prop.ForAll(
		func(ops []int) bool {
			s := newSurface(120, 80)
			for _, op := range ops {
				apply(s, op)
			}
			after := observe(s)
			d := depth(s)
			for i := 0; i < d; i++ {
				if !s.Undo() {
					return false
				}
			}
			if len(s.Elements()) != 0 {
				return false
			}
			for i := 0; i < d; i++ {
				if !s.Redo() {
					return false
				}
			}
			return sameState(after, observe(s))
		},
		gen.SliceOf(gen.IntRange(0, 799)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DragIsOneUndoEntry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("a drag adds exactly one entry regardless of move count", prop.ForAll(
		func(moves int, dx, dy int) bool {
			s := newSurface(400, 400)
			r := s.AddRectangle(100, 100, 80, 40)
			before := depth(s)
			from := vector.P(100, 120)
			to := vector.P(100+float64(dx), 120+float64(dy))
			drag(s, from, to, moves)
			if depth(s) != before+1 {
				return false
			}
			if !rectEq(r.Bounds(), vector.R(100+float64(dx), 100+float64(dy), 80, 40)) {
				return false
			}
			s.Undo()
			return rectEq(r.Bounds(), vector.R(100, 100, 80, 40))
		},
		gen.IntRange(1, 60),
		gen.IntRange(1, 90),
		gen.IntRange(-90, 90),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// ownSubscriptions is the number of observers an element registers on its
// own fields, independent of any binding.
func ownSubscriptions(c drawable.Container) int {
	switch c.(type) {
	case *drawable.Highlight, *drawable.Obfuscate:
		return 1
	}
	return 0
}

var bindingModes = []DrawingMode{ModeRect, ModeEllipse, ModeArrow, ModeText, ModeHighlight, ModeObfuscate}

// selectStep drives one selection-related input chosen by op.
func selectStep(s *Surface, op int) {
	x, y := float64(op%150), float64((op/3)%100)
	switch op % 10 {
	case 0:
		s.SetDrawingMode(bindingModes[(op/10)%len(bindingModes)])
	case 1:
		if s.DrawingMode() == ModeNone {
			s.SetDrawingMode(ModeRect)
		}
		drag(s, vector.P(x, y), vector.P(x+float64(op%40), y+float64(op%30)), 3)
	case 2:
		s.SetDrawingMode(ModeNone)
	case 3:
		s.MouseDown(x, y)
		s.MouseUp(x, y)
	case 4:
		s.SelectAll()
	case 5:
		s.DeleteSelected()
	case 6:
		s.Undo()
	case 7:
		s.Redo()
	case 8:
		s.DeselectAll()
	case 9:
		if els := s.Elements(); len(els) > 0 {
			s.SelectElements([]drawable.Container{els[(op/10)%len(els)]})
		}
	}
}

func TestProperty_SelectionBindingsNeverLeak(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("bound exactly when selected, one subscription per binding", prop.ForAll(
		func(ops []int) bool {
			s := newSurface(200, 150)
			seen := map[drawable.Container]bool{}
			agg := s.Aggregator()
			for _, op := range ops {
				selectStep(s, op)
				if u := s.Undrawn(); u != nil {
					seen[u] = true
				}
				onSurface := map[drawable.Container]bool{}
				for _, c := range s.Elements() {
					seen[c] = true
					onSurface[c] = true
				}
				bound := 0
				for c := range seen {
					b := agg.IsBound(c)
					if b {
						bound++
					}
					want := ownSubscriptions(c)
					if b {
						want++
					}
					if c.FieldHolder().SubscriberCount() != want {
						return false
					}
					if onSurface[c] && c.Selected() != b {
						return false
					}
					if !onSurface[c] && c != s.Undrawn() && b {
						return false
					}
				}
				if bound != agg.BoundCount() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 999)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
