/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"image"

	"github.com/fogleman/gg"

	"shotedit/internal/drawable"
	"shotedit/internal/vector"
)

// Render paints the background and the elements intersecting clip onto dc.
// An empty clip paints everything. In edit mode the adorners of the
// selection are painted on top unless a gesture is in progress.
func (s *Surface) Render(dc *gg.Context, mode drawable.RenderMode, clip vector.Rect) {
	if clip.Empty() {
		w, h := s.Size()
		clip = vector.R(0, 0, float64(w), float64(h))
	}
	dc.DrawImage(s.image, 0, 0)
	s.elements.Draw(dc, mode, clip)
	if mode == drawable.RenderEdit && !s.mouseDown {
		s.selected.DrawAdorners(dc)
	}
}

// RenderEdit returns the editing view with selection chrome.
func (s *Surface) RenderEdit() *image.RGBA { return s.render(drawable.RenderEdit) }

// GetBitmapForExport flattens the background and all elements.
func (s *Surface) GetBitmapForExport() *image.RGBA { return s.render(drawable.RenderExport) }

func (s *Surface) render(mode drawable.RenderMode) *image.RGBA {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	dc := gg.NewContext(w, h)
	s.Render(dc, mode, vector.Rect{})
	return dc.Image().(*image.RGBA)
}
