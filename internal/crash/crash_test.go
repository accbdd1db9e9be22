/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotedit/internal/drawable"
	"shotedit/internal/surface"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	defer os.Remove(path)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "shotedit Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportUsesSessionDir(t *testing.T) {
	dir := t.TempDir()
	path, err := writeReport(&Session{Dir: dir, Title: "Terminal"}, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected crash report under %s, got %s", dir, path)
	}
	b, _ := os.ReadFile(path)
	if !bytes.Contains(b, []byte("Capture: Terminal")) {
		t.Fatalf("capture title missing: %s", b)
	}
}

type failingSaver struct{}

func (failingSaver) SaveElementsToStream(io.Writer) (int64, error) { return 0, errors.New("disk full") }

func TestAutosave(t *testing.T) {
	s := surface.New(image.NewRGBA(image.Rect(0, 0, 50, 50)), surface.Options{})
	s.AddRectangle(5, 5, 10, 10)
	dir := t.TempDir()

	path, err := Autosave(&Session{Dir: dir, Elements: s})
	if err != nil {
		t.Fatalf("autosave: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open autosave: %v", err)
	}
	defer f.Close()
	l, err := drawable.ReadFrom(f)
	if err != nil {
		t.Fatalf("autosave is not a template: %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("expected one element, got %d", l.Len())
	}

	if _, err := Autosave(&Session{Dir: dir, Elements: failingSaver{}}); err == nil {
		t.Fatalf("expected saver error")
	}
	if _, err := Autosave(nil); err == nil {
		t.Fatalf("expected error without session")
	}
}

func TestAutosavePrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"autosave-20240101-000000.elements", "autosave-20240102-000000.elements"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	s := surface.New(image.NewRGBA(image.Rect(0, 0, 10, 10)), surface.Options{})
	path, err := Autosave(&Session{Dir: dir, Elements: s, Keep: 2})
	if err != nil {
		t.Fatalf("autosave: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "autosave-*.elements"))
	if len(matches) != 2 {
		t.Fatalf("expected 2 autosaves, got %v", matches)
	}
	if _, err := os.Stat(filepath.Join(dir, "autosave-20240101-000000.elements")); !os.IsNotExist(err) {
		t.Fatalf("oldest autosave must be removed")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("new autosave missing: %v", err)
	}
}
