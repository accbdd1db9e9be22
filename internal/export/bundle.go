/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry names inside a session bundle.
const (
	bundleManifest   = "manifest.json"
	bundleBackground = "background.png"
	bundleFlattened  = "flattened.png"
	bundleElements   = "elements.bin"
)

// ErrBadBundle is returned when a bundle misses an entry or is unreadable.
var ErrBadBundle = errors.New("not a session bundle")

// Manifest describes a bundle.
type Manifest struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Source   string    `json:"source,omitempty"`
	Taken    time.Time `json:"taken,omitempty"`
	Saved    time.Time `json:"saved"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Elements int       `json:"elements"`
	Version  string    `json:"version,omitempty"`
}

// Bundle is an editable session: the unannotated background, a flattened
// preview and the element template.
type Bundle struct {
	Manifest   Manifest
	Background image.Image
	Flattened  image.Image
	Elements   []byte
}

// WriteBundle stores b as a zip file at path. A missing manifest id is
// generated and the saved time is stamped.
func WriteBundle(b *Bundle, path string) error {
	if b == nil || b.Background == nil {
		return fmt.Errorf("write bundle: no background")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".shot") {
		path += ".shot"
	}
	if b.Manifest.ID == "" {
		b.Manifest.ID = uuid.NewString()
	}
	bb := b.Background.Bounds()
	b.Manifest.Width, b.Manifest.Height = bb.Dx(), bb.Dy()
	b.Manifest.Saved = time.Now().UTC()

	return writeFile(path, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		man, err := json.MarshalIndent(b.Manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("build manifest: %w", err)
		}
		if err := addZipFile(zw, bundleManifest, man); err != nil {
			return err
		}
		if err := addZipPNG(zw, bundleBackground, b.Background); err != nil {
			return err
		}
		if b.Flattened != nil {
			if err := addZipPNG(zw, bundleFlattened, b.Flattened); err != nil {
				return err
			}
		}
		if err := addZipFile(zw, bundleElements, b.Elements); err != nil {
			return err
		}
		return zw.Close()
	})
}

// ReadBundle opens a bundle written by WriteBundle. The flattened preview
// is optional.
func ReadBundle(path string) (*Bundle, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	defer func() { _ = zr.Close() }()

	files := map[string]*zip.File{}
	for _, f := range zr.File {
		files[f.Name] = f
	}
	for _, name := range []string{bundleManifest, bundleBackground, bundleElements} {
		if files[name] == nil {
			return nil, fmt.Errorf("%w: missing %s", ErrBadBundle, name)
		}
	}

	b := &Bundle{}
	raw, err := readZipFile(files[bundleManifest])
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &b.Manifest); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrBadBundle, err)
	}
	if b.Background, err = readZipPNG(files[bundleBackground]); err != nil {
		return nil, err
	}
	if f := files[bundleFlattened]; f != nil {
		if b.Flattened, err = readZipPNG(f); err != nil {
			return nil, err
		}
	}
	if b.Elements, err = readZipFile(files[bundleElements]); err != nil {
		return nil, err
	}
	return b, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: time.Now()})
	if err != nil {
		return fmt.Errorf("zip add %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("zip add %s: %w", name, err)
	}
	return nil
}

func addZipPNG(zw *zip.Writer, name string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return addZipFile(zw, name, buf.Bytes())
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadBundle, f.Name, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadBundle, f.Name, err)
	}
	return data, nil
}

func readZipPNG(f *zip.File) (image.Image, error) {
	data, err := readZipFile(f)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadBundle, f.Name, err)
	}
	return img, nil
}

// IsBundle reports whether path has the bundle extension.
func IsBundle(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".shot")
}
