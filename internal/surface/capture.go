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
	"time"
)

// Capture is a finished screen capture handed to the editor. How it was
// taken is not the editor's concern.
type Capture interface {
	Image() image.Image
	// Cursor returns the cursor bitmap and where it was on the capture.
	Cursor() (img image.Image, at image.Point, visible bool)
	Details() CaptureDetails
}

// CaptureDetails is descriptive metadata carried along with a capture.
type CaptureDetails struct {
	Title string
	Taken time.Time
	// Source names the capture region, e.g. "window" or "region".
	Source string
}

// CaptureData is a plain Capture value.
type CaptureData struct {
	Bitmap        image.Image
	CursorImage   image.Image
	CursorAt      image.Point
	CursorVisible bool
	Meta          CaptureDetails
}

func (c *CaptureData) Image() image.Image { return c.Bitmap }

func (c *CaptureData) Cursor() (image.Image, image.Point, bool) {
	return c.CursorImage, c.CursorAt, c.CursorVisible && c.CursorImage != nil
}

func (c *CaptureData) Details() CaptureDetails { return c.Meta }

// NewFromCapture creates a surface over the capture bitmap. A visible
// cursor becomes an image element that is not part of the undo history.
func NewFromCapture(c Capture, opts Options) *Surface {
	s := New(c.Image(), opts)
	s.details = c.Details()
	if _, err := s.addCursor(c, false); err == nil {
		s.modified = false
	}
	s.events = nil
	return s
}

// Details returns the metadata of the capture the surface was created from.
func (s *Surface) Details() CaptureDetails { return s.details }
