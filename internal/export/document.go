/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"shotedit/internal/surface"
	"shotedit/internal/version"
)

// Open creates a surface from an image file or a session bundle. A bundle
// restores its elements without undo history.
func Open(path string, opts surface.Options) (*surface.Surface, error) {
	if IsBundle(path) {
		b, err := ReadBundle(path)
		if err != nil {
			return nil, err
		}
		s := surface.NewFromCapture(&surface.CaptureData{
			Bitmap: b.Background,
			Meta:   surface.CaptureDetails{Title: b.Manifest.Title, Taken: b.Manifest.Taken, Source: b.Manifest.Source},
		}, opts)
		if err := s.LoadElementsFromStream(bytes.NewReader(b.Elements)); err != nil {
			s.Dispose()
			return nil, fmt.Errorf("%w: elements: %v", ErrBadBundle, err)
		}
		s.DeselectAll()
		s.UndoManager().Clear()
		s.SetModified(false)
		s.Events()
		return s, nil
	}
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}
	meta := surface.CaptureDetails{Title: filepath.Base(path), Source: "file"}
	if fi, err := os.Stat(path); err == nil {
		meta.Taken = fi.ModTime()
	}
	return surface.NewFromCapture(&surface.CaptureData{Bitmap: img, Meta: meta}, opts), nil
}

// Save writes s to path. Bundles keep the elements editable; every other
// format gets the flattened export bitmap.
func Save(s *surface.Surface, path string, opt Options) error {
	if !IsBundle(path) {
		if opt.PDF.Title == "" {
			opt.PDF.Title = s.Details().Title
		}
		return Write(s.GetBitmapForExport(), path, opt)
	}
	var buf bytes.Buffer
	if _, err := s.SaveElementsToStream(&buf); err != nil {
		return err
	}
	d := s.Details()
	return WriteBundle(&Bundle{
		Manifest: Manifest{
			Title:    d.Title,
			Source:   d.Source,
			Taken:    d.Taken,
			Elements: len(s.Elements()),
			Version:  version.String(),
		},
		Background: s.Image(),
		Flattened:  s.GetBitmapForExport(),
		Elements:   buf.Bytes(),
	}, path)
}
