/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package field

import (
	"errors"
	"image/color"
	"testing"
)

func TestHolderDuplicateFieldPanics(t *testing.T) {
	var h Holder
	h.AddField(LineThickness, "", 2)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate field type")
		}
	}()
	h.AddField(LineThickness, "Rectangle", 3)
}

func TestHolderNotifiesAndUnsubscribes(t *testing.T) {
	var h Holder
	h.AddField(Shadow, "", false)
	var got []Change
	sub := h.Subscribe(func(c Change) { got = append(got, c) })

	if !h.SetValue(Shadow, true) {
		t.Fatalf("expected change")
	}
	if h.SetValue(Shadow, true) {
		t.Fatalf("same value must not count as change")
	}
	if len(got) != 1 || got[0].Old != false || got[0].New != true {
		t.Fatalf("unexpected notifications: %+v", got)
	}
	h.Unsubscribe(sub)
	h.SetValue(Shadow, false)
	if len(got) != 1 || h.SubscriberCount() != 0 {
		t.Fatalf("observer still attached")
	}
	if h.SetValue(FillColor, color.NRGBA{}) {
		t.Fatalf("missing field must not be written")
	}
}

func TestHolderChildrenForwardChanges(t *testing.T) {
	var parent, child Holder
	parent.AddField(LineColor, "", color.NRGBA{R: 255, A: 255})
	child.AddField(PixelSize, "", 5)
	parent.AddChild(&child)

	n := 0
	parent.Subscribe(func(Change) { n++ })
	if !parent.HasField(PixelSize) || parent.Int(PixelSize) != 5 {
		t.Fatalf("child field not visible through parent")
	}
	parent.SetValue(PixelSize, 8)
	if n != 1 {
		t.Fatalf("child change not forwarded, n=%d", n)
	}
	parent.ClearChildren()
	if parent.HasField(PixelSize) || child.SubscriberCount() != 0 {
		t.Fatalf("children not detached")
	}
	if len(parent.Fields()) != 1 {
		t.Fatalf("unexpected fields: %v", parent.Fields())
	}
}

func TestTypedGetters(t *testing.T) {
	var h Holder
	h.AddField(FontSize, "", 11.0)
	h.AddField(ArrowHeads, "", ArrowBoth)
	h.AddField(FontFamily, "", "Arial")
	if h.Float(FontSize) != 11 || h.String(FontFamily) != "Arial" {
		t.Fatalf("typed getters mismatch")
	}
	if v, ok := Get[ArrowHeadCombination](&h, ArrowHeads); !ok || v != ArrowBoth {
		t.Fatalf("Get mismatch: %v %v", v, ok)
	}
	if c := h.Color(LineColor); c != (color.NRGBA{}) {
		t.Fatalf("missing color should be zero")
	}
}

func TestTypeCatalogue(t *testing.T) {
	for _, ft := range AllTypes() {
		name := ft.String()
		back, ok := TypeByName(name)
		if !ok || back != ft {
			t.Fatalf("name round trip failed for %d/%s", ft, name)
		}
		if ft.Kind() == 0 {
			t.Fatalf("%s has no kind", name)
		}
	}
	if Type(999).Valid() {
		t.Fatalf("unknown type reported valid")
	}
}

func TestEncodeDecodeValues(t *testing.T) {
	cases := []struct {
		t Type
		v any
	}{
		{LineColor, color.NRGBA{R: 1, G: 2, B: 3, A: 4}},
		{LineThickness, 7},
		{FontSize, 12.5},
		{Shadow, true},
		{FontFamily, "DejaVu Sans"},
		{PreparedFilterObfuscate, FilterPixelize},
		{CropMode, CropAuto},
	}
	for _, c := range cases {
		s, err := EncodeValue(c.t, c.v)
		if err != nil {
			t.Fatalf("encode %s: %v", c.t, err)
		}
		v, err := DecodeValue(c.t, s)
		if err != nil || v != c.v {
			t.Fatalf("decode %s: got %v (%T) err %v", c.t, v, v, err)
		}
	}
	if _, err := EncodeValue(LineThickness, "x"); !errors.Is(err, ErrBadValue) {
		t.Fatalf("expected ErrBadValue, got %v", err)
	}
	if c, err := ParseColor("#ff0000"); err != nil || c != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("ParseColor: %v %v", c, err)
	}
}

func TestDefaultsExportImport(t *testing.T) {
	d := NewDefaults()
	d.Remember(LineThickness, "Rectangle", 4)
	d.Remember(LineColor, "Ellipse", color.NRGBA{B: 255, A: 255})

	if v, _ := d.Lookup(LineThickness, "Ellipse"); v != 4 {
		t.Fatalf("unscoped fallback missing: %v", v)
	}
	exp := d.Export()
	exp["LINE_THICKNESS@Arrow"] = "thick"
	exp["NOT_A_FIELD"] = "1"

	d2 := NewDefaults()
	err := d2.Import(exp)
	if err == nil {
		t.Fatalf("expected import errors for bad entries")
	}
	if v := d2.Resolve(LineThickness, "Rectangle", 1); v != 4 {
		t.Fatalf("scoped value lost: %v", v)
	}
	if v := d2.Resolve(LineColor, "Ellipse", nil); v != (color.NRGBA{B: 255, A: 255}) {
		t.Fatalf("color lost: %v", v)
	}
	if v := d2.Resolve(FontSize, "Text", 11.0); v != 11.0 {
		t.Fatalf("fallback not used: %v", v)
	}
}
