/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package surface is the editable document: a background bitmap with an
// ordered list of annotation elements on top, the current selection, the
// undo history and the pointer-driven drawing state machine.
//
// A Surface is driven from one goroutine. Every input call may queue events;
// the host drains them with Events after each call.
package surface

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"log/slog"

	"shotedit/internal/config"
	"shotedit/internal/drawable"
	"shotedit/internal/field"
	applog "shotedit/internal/log"
	"shotedit/internal/textlayout"
	"shotedit/internal/undo"
	"shotedit/internal/vector"
)

// Options configures a new Surface. The zero value is usable.
type Options struct {
	UndoMaxDepth       int
	UndoMaxBytes       int
	AutoCropDifference int
	CounterStart       int
	// Defaults remembers last used field values; nil gets a private store.
	Defaults *field.Defaults
	// Fonts resolves text faces; nil uses the shared library.
	Fonts  *textlayout.Library
	Logger *slog.Logger
}

// OptionsFromConfig maps the editor section of the user configuration.
// Remembered field values that fail to decode and unreadable font files
// are skipped and returned.
func OptionsFromConfig(cfg config.AppConfig) (Options, error) {
	d := field.NewDefaults()
	err := d.Import(cfg.Editor.LastUsed)
	if cfg.Editor.DefaultFontFamily != "" {
		drawable.DefaultFontFamily = cfg.Editor.DefaultFontFamily
	}
	opts := Options{
		UndoMaxDepth:       cfg.Editor.UndoMaxDepth,
		AutoCropDifference: cfg.Editor.AutoCropDifference,
		CounterStart:       cfg.Editor.CounterStart,
		Defaults:           d,
	}
	if len(cfg.Editor.FontDirs) > 0 {
		opts.Fonts = textlayout.NewLibrary()
		if _, ferr := opts.Fonts.ScanDirs(cfg.Editor.FontDirs); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}
	return opts, err
}

// Surface owns the background bitmap and everything drawn on it.
type Surface struct {
	image    *image.RGBA
	elements *drawable.List
	selected *drawable.List
	undo     *undo.Manager
	agg      *field.Aggregator
	defaults *field.Defaults
	fonts    *textlayout.Library

	mode    DrawingMode
	undrawn drawable.Container
	drawing drawable.Container
	crop    *drawable.Crop
	// pending is the bitmap placed by the next drag in ModeBitmap.
	pending image.Image

	mouseDown bool
	moving    bool
	adorner   *drawable.Adorner
	last      vector.Pt

	stepLabels   []*drawable.StepLabel
	labelSeq     map[*drawable.StepLabel]uint64
	nextSeq      uint64
	counterStart int
	autoCropDiff int

	details  CaptureDetails
	modified bool
	events   []Event

	ctx context.Context
	log *slog.Logger
}

// New creates a surface over a copy of img.
func New(img image.Image, opts Options) *Surface {
	s := &Surface{
		image:        toRGBA(img),
		elements:     drawable.NewList(),
		selected:     drawable.NewList(),
		undo:         undo.NewManager(undo.Config{MaxDepth: opts.UndoMaxDepth, MaxBytes: opts.UndoMaxBytes}),
		agg:          field.NewAggregator(),
		defaults:     opts.Defaults,
		fonts:        opts.Fonts,
		counterStart: opts.CounterStart,
		autoCropDiff: opts.AutoCropDifference,
		log:          opts.Logger,
	}
	if s.defaults == nil {
		s.defaults = field.NewDefaults()
	}
	if s.fonts == nil {
		s.fonts = textlayout.Shared()
	}
	if s.counterStart == 0 {
		s.counterStart = 1
	}
	if s.log == nil {
		s.log = applog.WithComponent("surface")
	}
	s.selected.SetParentID(s.elements.ParentID())
	s.ctx = applog.WithSurface(context.Background(), s.elements.ParentID().String())
	s.agg.Defaults = s.defaults
	s.agg.BeforeChange = s.beforeFieldChange
	s.undo.OnChange = func() { s.emit(EventUndoStateChanged, "") }
	s.elements.OnModified = s.markModified
	return s
}

func toRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Image returns the current background. Callers must not modify it.
func (s *Surface) Image() *image.RGBA { return s.image }

func (s *Surface) Size() (w, h int) {
	b := s.image.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Elements() []drawable.Container { return s.elements.Items() }
func (s *Surface) Selected() []drawable.Container { return s.selected.Items() }
func (s *Surface) Aggregator() *field.Aggregator  { return s.agg }
func (s *Surface) Defaults() *field.Defaults      { return s.defaults }
func (s *Surface) UndoManager() *undo.Manager     { return s.undo }
func (s *Surface) Modified() bool                 { return s.modified }
func (s *Surface) SetModified(m bool)             { s.modified = m }
func (s *Surface) CanUndo() bool                  { return s.undo.CanUndo() }
func (s *Surface) CanRedo() bool                  { return s.undo.CanRedo() }
func (s *Surface) DrawingMode() DrawingMode       { return s.mode }

// Undrawn returns the element prepared for the next drag, if any.
func (s *Surface) Undrawn() drawable.Container { return s.undrawn }

// Undo reverts the newest undoable change.
func (s *Surface) Undo() bool {
	s.undo.Seal()
	if !s.undo.Undo() {
		return false
	}
	s.markModified()
	return true
}

func (s *Surface) Redo() bool {
	if !s.undo.Redo() {
		return false
	}
	s.markModified()
	return true
}

func (s *Surface) markModified() {
	s.modified = true
	s.emit(EventSurfaceModified, "")
}

// SetDrawingMode leaves the current mode and enters m. Any pending crop is
// cancelled, the selection is cleared, and for a drawing mode a fresh
// undrawn element is created and bound so the toolbar shows its defaults.
func (s *Surface) SetDrawingMode(m DrawingMode) {
	if s.crop != nil && m != ModeCrop {
		s.cancelCrop()
	}
	s.DeselectAll()
	s.dropUndrawn()
	s.mode = m
	s.prepareUndrawn()
	if s.undrawn != nil {
		s.agg.BindElement(s.undrawn)
	}
	s.emit(EventDrawingModeChanged, m.String())
}

func (s *Surface) dropUndrawn() {
	if s.undrawn == nil {
		return
	}
	s.agg.UnbindElement(s.undrawn)
	s.undrawn.Dispose()
	s.undrawn = nil
}

func (s *Surface) prepareUndrawn() {
	s.undrawn = nil
	kind, ok := s.mode.kind()
	if !ok || (s.mode == ModeCrop && s.crop != nil) {
		return
	}
	c, err := drawable.New(kind, s.defaults)
	if err != nil {
		panic(err)
	}
	s.attach(c)
	if img, ok := c.(*drawable.Image); ok && s.pending != nil {
		img.SetImage(s.pending)
	}
	s.undrawn = c
}

// SetPendingImage sets the bitmap that the next drag in ModeBitmap places.
func (s *Surface) SetPendingImage(img image.Image) {
	s.pending = img
	if s.mode == ModeBitmap {
		s.SetDrawingMode(ModeBitmap)
	}
}

// attach gives c the surface's shared resources.
func (s *Surface) attach(c drawable.Container) {
	switch e := c.(type) {
	case *drawable.Text:
		e.Fonts = s.fonts
	case *drawable.SpeechBubble:
		e.Fonts = s.fonts
	case *drawable.StepLabel:
		e.Fonts = s.fonts
	}
}

// SelectElement adds c to the selection and binds it to the aggregator.
func (s *Surface) SelectElement(c drawable.Container) {
	if c == nil || s.selected.Contains(c) || !s.elements.Contains(c) {
		return
	}
	s.undo.Seal()
	s.selected.Add(c)
	c.SetSelected(true)
	s.agg.BindElement(c)
	s.emit(EventSelectionChanged, "")
}

// SelectElements replaces the selection with cs.
func (s *Surface) SelectElements(cs []drawable.Container) {
	s.DeselectAll()
	for _, c := range cs {
		s.SelectElement(c)
	}
}

func (s *Surface) SelectAll() { s.SelectElements(s.elements.Items()) }

func (s *Surface) DeselectElement(c drawable.Container) {
	if s.selected.Remove(c) < 0 {
		return
	}
	s.undo.Seal()
	c.SetSelected(false)
	s.agg.UnbindElement(c)
	s.emit(EventSelectionChanged, "")
}

// DeselectAll empties the selection and releases every aggregator binding,
// including the undrawn element's.
func (s *Surface) DeselectAll() {
	had := s.selected.Len() > 0
	s.selected.SetSelected(false)
	s.selected.Clear()
	s.agg.UnbindAll()
	s.undo.Seal()
	if had {
		s.emit(EventSelectionChanged, "")
	}
}

func (s *Surface) selectOnly(c drawable.Container) {
	s.DeselectAll()
	s.SelectElement(c)
}

// AddElement puts c on top of the z-order.
func (s *Surface) AddElement(c drawable.Container, undoable bool) {
	s.AddElements([]drawable.Container{c}, undoable)
}

// AddElements adds cs on top as one undo step.
func (s *Surface) AddElements(cs []drawable.Container, undoable bool) {
	var added []drawable.Container
	for _, c := range cs {
		if c == nil || !s.elements.Add(c) {
			continue
		}
		s.attach(c)
		if c.Status() == drawable.StatusUndrawn {
			c.SetStatus(drawable.StatusIdle)
		}
		if sl, ok := c.(*drawable.StepLabel); ok {
			s.seqOf(sl)
			s.stepLabels = append(s.stepLabels, sl)
		}
		added = append(added, c)
	}
	if len(added) == 0 {
		return
	}
	s.sortStepLabels()
	s.renumber()
	if undoable {
		s.undo.MakeUndoable(&addElements{s: s, elems: added}, false)
	}
	s.markModified()
	s.emit(EventElementsChanged, "")
}

// RemoveElement removes c. Without undo the element is disposed.
func (s *Surface) RemoveElement(c drawable.Container, undoable bool) {
	s.RemoveElements([]drawable.Container{c}, undoable)
}

func (s *Surface) RemoveElements(cs []drawable.Container, undoable bool) {
	elems, idx := s.detach(cs)
	if len(elems) == 0 {
		return
	}
	if undoable {
		s.undo.MakeUndoable(&deleteElements{s: s, elems: elems, indices: idx}, false)
	} else {
		for _, c := range elems {
			c.Dispose()
		}
	}
	s.markModified()
	s.emit(EventElementsChanged, "")
}

// detach takes cs out of the list and the selection and returns the
// removed elements in ascending index order with their former indices.
func (s *Surface) detach(cs []drawable.Container) ([]drawable.Container, []int) {
	type pos struct {
		c drawable.Container
		i int
	}
	var ps []pos
	for _, c := range s.elements.Items() {
		for _, x := range cs {
			if x == c {
				ps = append(ps, pos{c, s.elements.IndexOf(c)})
				break
			}
		}
	}
	elems := make([]drawable.Container, 0, len(ps))
	idx := make([]int, 0, len(ps))
	for _, p := range ps {
		elems = append(elems, p.c)
		idx = append(idx, p.i)
	}
	for i := len(elems) - 1; i >= 0; i-- {
		c := elems[i]
		s.DeselectElement(c)
		s.elements.Remove(c)
		s.forgetStepLabel(c)
	}
	s.renumber()
	return elems, idx
}

// reinsert puts elems back at their former indices, lowest first.
func (s *Surface) reinsert(elems []drawable.Container, idx []int) {
	for i, c := range elems {
		s.elements.Insert(idx[i], c)
		if sl, ok := c.(*drawable.StepLabel); ok {
			s.stepLabels = append(s.stepLabels, sl)
		}
	}
	s.sortStepLabels()
	s.renumber()
	s.emit(EventElementsChanged, "")
}

// DeleteSelected removes the selection as one undo step.
func (s *Surface) DeleteSelected() bool {
	sel := s.selected.Items()
	if len(sel) == 0 {
		return false
	}
	s.RemoveElements(sel, true)
	return true
}

// SetFieldValue writes v through the aggregator to every bound element.
// Each call is one undo step covering all bound elements.
func (s *Surface) SetFieldValue(t field.Type, v any) bool {
	s.undo.Seal()
	ok := s.agg.SetFieldValue(t, v)
	s.undo.Seal()
	return ok
}

func (s *Surface) beforeFieldChange(b field.Bindable, f *field.Field) {
	c, ok := b.(drawable.Container)
	if !ok || !s.elements.Contains(c) || s.undo.InUndoRedo() {
		return
	}
	s.undo.MakeUndoable(&fieldChange{t: f.Type(), entries: []fieldEntry{{c: c, v: f.Value()}}}, true)
	s.markModified()
}

// Events drains the queued events.
func (s *Surface) Events() []Event {
	ev := s.events
	s.events = nil
	return ev
}

func (s *Surface) emit(k EventKind, msg string) {
	if k != EventMessage {
		for _, e := range s.events {
			if e.Kind == k {
				return
			}
		}
	}
	s.events = append(s.events, Event{Kind: k, Message: msg})
}

// Dispose releases every element and the undo history.
func (s *Surface) Dispose() {
	s.agg.UnbindAll()
	s.dropUndrawn()
	s.undo.Clear()
	s.elements.Dispose()
	s.selected.Clear()
	s.stepLabels = nil
	s.crop = nil
}
