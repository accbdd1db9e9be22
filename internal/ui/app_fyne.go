//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"shotedit/internal/config"
	"shotedit/internal/crash"
	"shotedit/internal/export"
	"shotedit/internal/field"
	applog "shotedit/internal/log"
	"shotedit/internal/surface"
)

// Run opens the image at imagePath in an editor window.
func Run(imagePath string) error {
	l := applog.WithComponent("ui")
	if imagePath == "" {
		return fmt.Errorf("no image given")
	}
	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	opts, err := surface.OptionsFromConfig(cfg)
	if err != nil {
		l.Warn("config partly ignored", slog.Any("err", err))
	}
	s, err := export.Open(imagePath, opts)
	if err != nil {
		return err
	}
	defer s.Dispose()
	defer crash.Recover(&crash.Session{
		Dir:      filepath.Dir(imagePath),
		Title:    filepath.Base(imagePath),
		Elements: s,
		Keep:     cfg.Output.TemplateKeep,
	})
	l.Info("starting UI", slog.String("image", imagePath))

	fyneApp := app.NewWithID("shotedit")
	w := fyneApp.NewWindow("shotedit - " + filepath.Base(imagePath))
	prefs := fyneApp.Preferences()
	w.Resize(fyne.NewSize(
		float32(max(prefs.IntWithFallback("window.width", 1200), 800)),
		float32(max(prefs.IntWithFallback("window.height", 800), 600)),
	))

	status := widget.NewLabel("Ready")
	ec := NewEditorCanvas(s)
	ec.OnMessage = func(msg string) { status.SetText(msg) }

	var modeNames []string
	for m := surface.ModeNone; m <= surface.ModePath; m++ {
		if m != surface.ModeBitmap {
			modeNames = append(modeNames, m.String())
		}
	}
	modeSel := widget.NewSelect(modeNames, func(name string) {
		if m, ok := surface.ParseDrawingMode(name); ok {
			s.SetDrawingMode(m)
			ec.Sync()
		}
	})
	modeSel.SetSelected(surface.ModeNone.String())

	thickness := widget.NewSelect([]string{"1", "2", "3", "5", "8", "12"}, func(v string) {
		n, _ := strconv.Atoi(v)
		if s.Aggregator().HasFieldValue(field.LineThickness) && s.SetFieldValue(field.LineThickness, n) {
			ec.Sync()
		}
	})
	thickness.PlaceHolder = "Thickness"
	shadow := widget.NewCheck("Shadow", func(on bool) {
		if s.Aggregator().HasFieldValue(field.Shadow) && s.SetFieldValue(field.Shadow, on) {
			ec.Sync()
		}
	})
	// control visibility follows the bound elements
	ec.OnSelection = func() {
		agg := s.Aggregator()
		setVisible(thickness, agg.HasFieldValue(field.LineThickness))
		setVisible(shadow, agg.HasFieldValue(field.Shadow))
		if f := agg.GetField(field.Shadow); f != nil && !f.IsMixed() {
			if on, ok := f.Value().(bool); ok {
				shadow.SetChecked(on)
			}
		}
		if f := agg.GetField(field.LineThickness); f != nil && !f.IsMixed() {
			thickness.SetSelected(fmt.Sprint(f.Value()))
		}
		if s.DrawingMode().String() != modeSel.Selected {
			modeSel.SetSelected(s.DrawingMode().String())
		}
	}

	save := func() {
		dialog.ShowFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil || uc == nil {
				return
			}
			path := uc.URI().Path()
			_ = uc.Close()
			if err := saveTo(s, path, cfg); err != nil {
				l.Error("save failed", slog.String("path", path), slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			s.SetModified(false)
			status.SetText("Saved " + filepath.Base(path))
		}, w)
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), save),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { s.Undo(); ec.Sync() }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { s.Redo(); ec.Sync() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MoveUpIcon(), func() { s.PullSelectedUp(); ec.Sync() }),
		widget.NewToolbarAction(theme.MoveDownIcon(), func() { s.PushSelectedDown(); ec.Sync() }),
		widget.NewToolbarAction(theme.ContentCopyIcon(), func() { s.Duplicate(); ec.Sync() }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { s.DeleteSelected(); ec.Sync() }),
		widget.NewToolbarAction(theme.ViewFullScreenIcon(), func() {
			if !s.AutoCrop() {
				status.SetText("Nothing to crop")
			}
			ec.Sync()
		}),
	)

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if handleKey(s, ev.Name) {
			ec.Sync()
		}
	})

	top := container.NewHBox(toolbar, modeSel, thickness, shadow)
	w.SetContent(container.NewBorder(top, status, nil, nil, container.NewScroll(ec)))
	ec.Sync()

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		cfg.Editor.LastUsed = s.Defaults().Export()
		if err := config.Save(cfg); err != nil {
			l.Warn("remember field values failed", slog.Any("err", err))
		}
		if !s.Modified() {
			w.Close()
			return
		}
		dialog.ShowConfirm("Unsaved changes", "Discard the annotations?", func(ok bool) {
			if ok {
				w.Close()
			}
		}, w)
	})
	w.ShowAndRun()
	return nil
}

func setVisible(o fyne.CanvasObject, v bool) {
	if v {
		o.Show()
	} else {
		o.Hide()
	}
}

// handleKey maps editor shortcuts. It reports whether the surface changed.
func handleKey(s *surface.Surface, k fyne.KeyName) bool {
	switch k {
	case fyne.KeyDelete, fyne.KeyBackspace:
		return s.DeleteSelected()
	case fyne.KeyEscape:
		if _, ok := s.CropRect(); ok {
			return s.ConfirmCrop(false)
		}
		s.SetDrawingMode(surface.ModeNone)
		return true
	case fyne.KeyReturn, fyne.KeyEnter:
		return s.ConfirmCrop(true)
	case fyne.KeyLeft:
		return s.MoveSelected(-1, 0)
	case fyne.KeyRight:
		return s.MoveSelected(1, 0)
	case fyne.KeyUp:
		return s.MoveSelected(0, -1)
	case fyne.KeyDown:
		return s.MoveSelected(0, 1)
	}
	return false
}

func saveTo(s *surface.Surface, path string, cfg config.AppConfig) error {
	return export.Save(s, path, export.Options{PDF: export.PDFOptions{DPI: cfg.Output.PDFDPI}})
}

// EditorCanvas shows a surface at a zoom factor and forwards pointer input.
type EditorCanvas struct {
	widget.BaseWidget

	s    *surface.Surface
	zoom float32
	down bool

	// OnMessage receives user facing surface messages.
	OnMessage func(string)
	// OnSelection runs after selection or mode changes.
	OnSelection func()
}

func NewEditorCanvas(s *surface.Surface) *EditorCanvas {
	ec := &EditorCanvas{s: s, zoom: 1}
	ec.ExtendBaseWidget(ec)
	return ec
}

func (e *EditorCanvas) toImage(p fyne.Position) (float64, float64) {
	return float64(p.X / e.zoom), float64(p.Y / e.zoom)
}

func (e *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	e.down = true
	e.s.MouseDown(e.toImage(ev.Position))
	e.Sync()
}

func (e *EditorCanvas) MouseUp(ev *desktop.MouseEvent) {
	if !e.down {
		return
	}
	e.down = false
	e.s.MouseUp(e.toImage(ev.Position))
	e.Sync()
}

func (e *EditorCanvas) MouseIn(*desktop.MouseEvent) {}
func (e *EditorCanvas) MouseOut()                   {}

func (e *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if !e.down {
		return
	}
	e.s.MouseMove(e.toImage(ev.Position))
	e.Sync()
}

// Scrolled zooms between 0.1 and 4.
func (e *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	e.zoom = min(max(e.zoom+ev.Scrolled.DY*0.05, 0.1), 4)
	e.Refresh()
}

// Sync drains surface events into the callbacks and repaints.
func (e *EditorCanvas) Sync() {
	sel := false
	for _, ev := range e.s.Events() {
		switch ev.Kind {
		case surface.EventMessage:
			if e.OnMessage != nil {
				e.OnMessage(ev.Message)
			}
		case surface.EventSelectionChanged, surface.EventDrawingModeChanged:
			sel = true
		}
	}
	if sel && e.OnSelection != nil {
		e.OnSelection()
	}
	e.Refresh()
}

func (e *EditorCanvas) MinSize() fyne.Size {
	w, h := e.s.Size()
	return fyne.NewSize(float32(w)*e.zoom, float32(h)*e.zoom)
}

func (e *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	img := canvas.NewImageFromImage(e.s.RenderEdit())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleFastest
	return &editorRenderer{e: e, bg: bg, img: img, objects: []fyne.CanvasObject{bg, img}}
}

type editorRenderer struct {
	e       *EditorCanvas
	bg      *canvas.Rectangle
	img     *canvas.Image
	objects []fyne.CanvasObject
}

func (r *editorRenderer) Destroy()                     {}
func (r *editorRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *editorRenderer) MinSize() fyne.Size           { return r.e.MinSize() }

func (r *editorRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.img.Resize(r.e.MinSize())
	r.img.Move(fyne.NewPos(0, 0))
}

func (r *editorRenderer) Refresh() {
	r.img.Image = r.e.s.RenderEdit()
	r.Layout(r.e.Size())
	canvas.Refresh(r.img)
}
