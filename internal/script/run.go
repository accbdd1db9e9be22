/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shotedit/internal/drawable"
	"shotedit/internal/effect"
	"shotedit/internal/field"
	applog "shotedit/internal/log"
	"shotedit/internal/surface"
	"shotedit/internal/vector"
)

var errNoSelection = errors.New("nothing selected")

// Run replays sc against s. It stops at the first failing step; steps
// before it stay applied and can be undone on the surface.
func Run(ctx context.Context, s *surface.Surface, sc Script) error {
	log := applog.WithComponent("script")
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Index: i, Op: st.Op, Err: err}
		}
		if err := apply(s, st); err != nil {
			log.WarnContext(ctx, "script step failed", slog.Int("step", i), slog.String("op", string(st.Op)), slog.Any("err", err))
			return &StepError{Index: i, Op: st.Op, Err: err}
		}
		log.DebugContext(ctx, "script step", slog.Int("step", i), slog.String("op", string(st.Op)))
	}
	return nil
}

func apply(s *surface.Surface, st Step) error {
	switch st.Op {
	case OpDraw:
		return draw(s, st)
	case OpField:
		t, ok := field.TypeByName(st.Field)
		if !ok {
			return fmt.Errorf("unknown field %q", st.Field)
		}
		v, err := field.DecodeValue(t, st.Value)
		if err != nil {
			return err
		}
		if !s.Aggregator().HasFieldValue(t) {
			return fmt.Errorf("no selected element has %s", t)
		}
		s.SetFieldValue(t, v)
	case OpSelect:
		c, err := element(s, st.Index)
		if err != nil {
			return err
		}
		s.SelectElements([]drawable.Container{c})
	case OpSelectAll:
		s.SelectAll()
	case OpDeselect:
		s.DeselectAll()
	case OpDelete:
		if !s.DeleteSelected() {
			return errNoSelection
		}
	case OpMove:
		if !s.MoveSelected(st.DX, st.DY) {
			return errNoSelection
		}
	case OpOrder:
		return order(s, st.Direction)
	case OpText:
		return text(s, st)
	case OpCrop:
		r := vector.Rect{X: st.Rect[0], Y: st.Rect[1], W: st.Rect[2], H: st.Rect[3]}
		if !s.IsCropPossible(r) {
			return ErrNoCrop
		}
		s.SetCropRect(r)
		if !s.ConfirmCrop(true) {
			return ErrNoCrop
		}
	case OpAutoCrop:
		if !s.AutoCrop() {
			return ErrNoCrop
		}
	case OpEffect:
		e, err := effect.ByName(st.Name, effect.Params(st.Params))
		if err != nil {
			return err
		}
		s.ApplyBitmapEffect(e)
	case OpUndo:
		for n := max(1, st.Count); n > 0; n-- {
			if !s.Undo() {
				return errors.New("nothing to undo")
			}
		}
	case OpRedo:
		for n := max(1, st.Count); n > 0; n-- {
			if !s.Redo() {
				return errors.New("nothing to redo")
			}
		}
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

// draw runs a pointer gesture through the points in the given mode. The
// surface returns to no mode afterwards so later steps see plain selection.
func draw(s *surface.Surface, st Step) error {
	m, ok := surface.ParseDrawingMode(st.Mode)
	if !ok || m == surface.ModeNone {
		return fmt.Errorf("unknown drawing mode %q", st.Mode)
	}
	if len(st.Points) < 2 {
		return fmt.Errorf("draw needs at least two points")
	}
	before := len(s.Elements())
	s.SetDrawingMode(m)
	p := st.Points
	s.MouseDown(p[0][0], p[0][1])
	for _, q := range p[1 : len(p)-1] {
		s.MouseMove(q[0], q[1])
	}
	last := p[len(p)-1]
	s.MouseMove(last[0], last[1])
	s.MouseUp(last[0], last[1])
	if m == surface.ModeCrop {
		if !s.ConfirmCrop(true) {
			return ErrNoCrop
		}
		return nil
	}
	drawn := s.Selected()
	s.SetDrawingMode(surface.ModeNone)
	if len(s.Elements()) == before {
		return fmt.Errorf("gesture was too small to draw a %s", m)
	}
	s.SelectElements(drawn)
	if st.Text != nil && len(drawn) == 1 {
		s.SetElementText(drawn[0], *st.Text)
	}
	return nil
}

func order(s *surface.Surface, dir string) error {
	var ok bool
	switch dir {
	case "up":
		ok = s.PullSelectedUp()
	case "down":
		ok = s.PushSelectedDown()
	case "top":
		ok = s.PullSelectedToTop()
	case "bottom":
		ok = s.PushSelectedToBottom()
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
	if !ok && len(s.Selected()) == 0 {
		return errNoSelection
	}
	return nil
}

func text(s *surface.Surface, st Step) error {
	var c drawable.Container
	if st.Index != nil {
		var err error
		if c, err = element(s, st.Index); err != nil {
			return err
		}
	} else {
		sel := s.Selected()
		if len(sel) != 1 {
			return fmt.Errorf("text needs exactly one selected element, have %d", len(sel))
		}
		c = sel[0]
	}
	if _, ok := c.(interface{ Text() string }); !ok {
		return fmt.Errorf("%s elements hold no text", c.Kind())
	}
	s.SetElementText(c, *st.Text)
	return nil
}

func element(s *surface.Surface, idx *int) (drawable.Container, error) {
	els := s.Elements()
	if idx == nil || *idx < 0 || *idx >= len(els) {
		return nil, fmt.Errorf("element index out of range (have %d)", len(els))
	}
	return els[*idx], nil
}
