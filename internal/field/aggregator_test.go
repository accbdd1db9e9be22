/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package field

import (
	"image/color"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type elem struct{ h Holder }

func (e *elem) FieldHolder() *Holder { return &e.h }

func newElem(thickness int, shadow bool) *elem {
	e := &elem{}
	e.h.AddField(LineThickness, "Ellipse", thickness)
	e.h.AddField(Shadow, "Ellipse", shadow)
	e.h.AddField(LineColor, "Ellipse", color.NRGBA{R: 255, A: 255})
	return e
}

func TestAggregatorMixedValuesAndFanOut(t *testing.T) {
	a := NewAggregator()
	e1, e2 := newElem(1, true), newElem(5, false)
	a.BindElement(e1)
	a.BindElement(e2)

	if v := a.GetField(LineThickness).Value(); v != Indeterminate {
		t.Fatalf("expected indeterminate thickness, got %v", v)
	}
	if v := a.GetField(Shadow).Value(); v != Indeterminate {
		t.Fatalf("expected indeterminate shadow, got %v", v)
	}
	if v := a.GetField(LineColor).Value(); v != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("common color expected, got %v", v)
	}

	var touched []Bindable
	a.BeforeChange = func(b Bindable, f *Field) { touched = append(touched, b) }
	a.GetField(LineThickness).SetValue(3)
	a.UnbindElement(e1)
	a.UnbindElement(e2)

	if e1.h.Int(LineThickness) != 3 || e2.h.Int(LineThickness) != 3 {
		t.Fatalf("fan-out failed: %d %d", e1.h.Int(LineThickness), e2.h.Int(LineThickness))
	}
	if len(touched) != 2 {
		t.Fatalf("BeforeChange should run per element, ran %d", len(touched))
	}
	if a.GetField(LineThickness) != nil || a.HasFieldValue(LineThickness) {
		t.Fatalf("proxies must vanish with no bound elements")
	}
}

func TestAggregatorOnlyCommonTypes(t *testing.T) {
	a := NewAggregator()
	e1 := newElem(2, false)
	e2 := &elem{}
	e2.h.AddField(LineThickness, "Line", 2)
	e2.h.AddField(ArrowHeads, "Arrow", ArrowEnd)
	a.BindElements([]Bindable{e1, e2})

	if !a.HasFieldValue(LineThickness) || a.GetField(LineThickness).Value() != 2 {
		t.Fatalf("shared thickness expected")
	}
	if a.HasFieldValue(Shadow) || a.HasFieldValue(ArrowHeads) {
		t.Fatalf("non shared types must not be aggregated")
	}
	if a.SetFieldValue(Shadow, true) {
		t.Fatalf("write to missing proxy must be refused")
	}
}

func TestAggregatorTracksElementSideChanges(t *testing.T) {
	a := NewAggregator()
	e1, e2 := newElem(2, true), newElem(2, true)
	a.BindElements([]Bindable{e1, e2})
	var seen int
	sub := a.Subscribe(func(Change) { seen++ })

	e1.h.SetValue(Shadow, false) // e.g. undo restoring a value
	if a.GetField(Shadow).Value() != Indeterminate {
		t.Fatalf("aggregate not refreshed after element change")
	}
	if e2.h.Bool(Shadow) != true {
		t.Fatalf("refresh must not write back into elements")
	}
	if seen == 0 {
		t.Fatalf("toolbar observer not notified")
	}
	a.Unsubscribe(sub)
}

func TestAggregatorRememberDefaults(t *testing.T) {
	a := NewAggregator()
	a.Defaults = NewDefaults()
	e := newElem(2, true)
	a.BindElement(e)
	a.SetFieldValue(LineThickness, 6)
	if v, ok := a.Defaults.Lookup(LineThickness, "Ellipse"); !ok || v != 6 {
		t.Fatalf("last used value not remembered: %v", v)
	}
}

func TestAggregatorBindTwiceIsNoop(t *testing.T) {
	a := NewAggregator()
	e := newElem(1, false)
	a.BindElement(e)
	a.BindElement(e)
	if a.BoundCount() != 1 || e.h.SubscriberCount() != 1 {
		t.Fatalf("double bind leaked: bound=%d subs=%d", a.BoundCount(), e.h.SubscriberCount())
	}
	a.UnbindAll()
	if e.h.SubscriberCount() != 0 {
		t.Fatalf("UnbindAll leaked a subscription")
	}
}

// Random bind/unbind sequences must never leave a subscription behind once
// everything is unbound.
func TestProperty_AggregatorBindingsBalanced(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bind/unbind sequences leave no subscriptions", prop.ForAll(
		func(ops []int) bool {
			elems := []*elem{newElem(1, true), newElem(2, false), newElem(3, true), newElem(4, false)}
			a := NewAggregator()
			for _, op := range ops {
				e := elems[op%len(elems)]
				switch (op / len(elems)) % 3 {
				case 0:
					a.BindElement(e)
				case 1:
					a.UnbindElement(e)
				default:
					a.SetFieldValue(LineThickness, op)
				}
				for _, x := range elems {
					want := 0
					if a.IsBound(x) {
						want = 1
					}
					if x.h.SubscriberCount() != want {
						return false
					}
				}
			}
			a.UnbindAll()
			for _, x := range elems {
				if x.h.SubscriberCount() != 0 {
					return false
				}
			}
			return a.BoundCount() == 0
		},
		gen.SliceOf(gen.IntRange(0, 59)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
