//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests exercise the editor widget. They are gated behind the "fyne"
// build tag so headless CI does not need Fyne or a display:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"shotedit/internal/surface"
)

func press(e *EditorCanvas, x, y float32) {
	e.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func release(e *EditorCanvas, x, y float32) {
	e.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func moveTo(e *EditorCanvas, x, y float32) {
	e.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func TestEditorCanvas_DrawsThroughSurface(t *testing.T) {
	test.NewTempApp(t)
	s := surface.New(image.NewRGBA(image.Rect(0, 0, 200, 100)), surface.Options{})
	ec := NewEditorCanvas(s)
	if sz := ec.MinSize(); sz.Width != 200 || sz.Height != 100 {
		t.Fatalf("unexpected MinSize: %v", sz)
	}

	selections := 0
	ec.OnSelection = func() { selections++ }
	s.SetDrawingMode(surface.ModeRect)
	press(ec, 10, 10)
	moveTo(ec, 60, 40)
	release(ec, 60, 40)

	if len(s.Elements()) != 1 {
		t.Fatalf("expected one element, got %d", len(s.Elements()))
	}
	if b := s.Elements()[0].Bounds(); b.W != 50 || b.H != 30 {
		t.Fatalf("unexpected bounds %+v", b)
	}
	if selections == 0 {
		t.Fatalf("selection callback not run")
	}
}

func TestEditorCanvas_ZoomMapsPointer(t *testing.T) {
	test.NewTempApp(t)
	s := surface.New(image.NewRGBA(image.Rect(0, 0, 100, 100)), surface.Options{})
	ec := NewEditorCanvas(s)
	ec.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 20)})
	if ec.zoom != 2 {
		t.Fatalf("expected zoom 2, got %v", ec.zoom)
	}
	x, y := ec.toImage(fyne.NewPos(40, 20))
	if x != 20 || y != 10 {
		t.Fatalf("expected (20,10), got (%v,%v)", x, y)
	}
}

func TestHandleKeyNudges(t *testing.T) {
	s := surface.New(image.NewRGBA(image.Rect(0, 0, 50, 50)), surface.Options{})
	r := s.AddRectangle(10, 10, 10, 10)
	s.SelectElement(r)
	if !handleKey(s, fyne.KeyRight) || r.Bounds().X != 11 {
		t.Fatalf("right arrow must nudge by one pixel")
	}
	if !handleKey(s, fyne.KeyDelete) || len(s.Elements()) != 0 {
		t.Fatalf("delete must remove the selection")
	}
}
