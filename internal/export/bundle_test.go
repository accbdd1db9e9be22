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
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBundle_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	b := &Bundle{
		Manifest:   Manifest{Title: "Editor window", Elements: 2},
		Background: testImage(10, 7),
		Flattened:  testImage(10, 7),
		Elements:   []byte{1, 2, 3, 4},
	}
	path := filepath.Join(dir, "session")
	if err := WriteBundle(b, path); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	if b.Manifest.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !IsBundle(path + ".shot") {
		t.Fatalf("extension not appended")
	}

	got, err := ReadBundle(path + ".shot")
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	if got.Manifest.ID != b.Manifest.ID || got.Manifest.Title != "Editor window" {
		t.Fatalf("manifest mismatch: %+v", got.Manifest)
	}
	if got.Manifest.Width != 10 || got.Manifest.Height != 7 {
		t.Fatalf("manifest size %dx%d", got.Manifest.Width, got.Manifest.Height)
	}
	if got.Background.Bounds().Dx() != 10 || got.Flattened == nil {
		t.Fatalf("images not restored")
	}
	if !bytes.Equal(got.Elements, []byte{1, 2, 3, 4}) {
		t.Fatalf("elements = %v", got.Elements)
	}
}

func TestBundle_MissingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.shot")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	if err := addZipFile(zw, bundleManifest, []byte(`{"id":"x"}`)); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = zw.Close()
	_ = f.Close()

	if _, err := ReadBundle(path); !errors.Is(err, ErrBadBundle) {
		t.Fatalf("expected ErrBadBundle, got %v", err)
	}
}

func TestBundle_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.shot")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadBundle(path); !errors.Is(err, ErrBadBundle) {
		t.Fatalf("expected ErrBadBundle, got %v", err)
	}
}
