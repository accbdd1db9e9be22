/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"archive/zip"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"shotedit/internal/field"
	"shotedit/internal/surface"
)

func TestSaveLoadList(t *testing.T) {
	dir := t.TempDir()
	d := field.NewDefaults()
	d.Remember(field.LineThickness, "Rectangle", 4)
	p, err := Save(dir, FromDefaults("Docs Blue", d))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(p) != "docs-blue.yaml" {
		t.Fatalf("unexpected file name %s", p)
	}
	st, err := Load(dir, "Docs Blue")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Name != "Docs Blue" || st.Values["LINE_THICKNESS@Rectangle"] != "4" || st.Values["LINE_THICKNESS"] != "4" {
		t.Fatalf("unexpected style %+v", st)
	}
	if _, err := Save(dir, Style{Name: "alpha"}); err != nil {
		t.Fatalf("save alpha: %v", err)
	}
	all, err := List(dir)
	if err != nil || len(all) != 2 || all[0].Name != "Docs Blue" || all[1].Name != "alpha" {
		t.Fatalf("list = %+v, %v", all, err)
	}
	if _, err := Load(dir, "missing"); !errors.Is(err, ErrNoStyle) {
		t.Fatalf("expected ErrNoStyle, got %v", err)
	}
	if _, err := Save(dir, Style{}); err == nil {
		t.Fatalf("unnamed style must be refused")
	}
}

func TestApplyWritesSelectionAndDefaults(t *testing.T) {
	s := surface.New(image.NewRGBA(image.Rect(0, 0, 100, 100)), surface.Options{})
	r := s.AddRectangle(10, 10, 30, 30)
	s.SelectElement(r)
	st := Style{Name: "bold", Values: map[string]string{
		"LINE_THICKNESS":     "7",
		"LINE_COLOR@Ellipse": "#00ff00",
		"FONT_SIZE":          "20",
		"NOT_A_FIELD":        "1",
	}}
	n, err := st.Apply(s)
	if err == nil {
		t.Fatalf("unknown field must be reported")
	}
	if n != 1 {
		t.Fatalf("only LINE_THICKNESS applies to a rectangle, wrote %d", n)
	}
	if r.FieldHolder().Int(field.LineThickness) != 7 {
		t.Fatalf("selection not updated")
	}
	if v, ok := s.Defaults().Lookup(field.LineColor, "Ellipse"); !ok || v != (color.NRGBA{G: 255, A: 255}) {
		t.Fatalf("scoped default not remembered: %v", v)
	}
	if v, ok := s.Defaults().Lookup(field.LineColor, "Rectangle"); ok {
		t.Fatalf("scoped value must not leak to other kinds: %v", v)
	}
	if !s.CanUndo() {
		t.Fatalf("style write must be undoable")
	}
	s.Undo()
	if r.FieldHolder().Int(field.LineThickness) == 7 {
		t.Fatalf("undo must revert the style write")
	}
}

func TestExportAndInstallPack(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"one", "two"} {
		if _, err := Save(src, Style{Name: name, Values: map[string]string{"SHADOW": "false"}}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	zipPath := filepath.Join(t.TempDir(), "out", "pack.zip")
	n, err := ExportPack(src, zipPath)
	if err != nil || n != 2 {
		t.Fatalf("export pack: %d, %v", n, err)
	}

	dst := t.TempDir()
	if _, err := Save(dst, Style{Name: "one", Values: map[string]string{"SHADOW": "true"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	installed, err := InstallPack(dst, zipPath)
	if err != nil {
		t.Fatalf("install pack: %v", err)
	}
	if installed != 1 {
		t.Fatalf("existing style must be skipped, installed %d", installed)
	}
	one, _ := Load(dst, "one")
	if one.Values["SHADOW"] != "true" {
		t.Fatalf("existing style was overwritten")
	}
	if _, err := Load(dst, "two"); err != nil {
		t.Fatalf("two not installed: %v", err)
	}
}

func TestInstallPackIgnoresForeignEntries(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "evil.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"../escape.yaml": "name: escape\n",
		"notes.txt":      "hello",
		"broken.yaml":    "values: [",
		"ok.yaml":        "name: ok\nvalues:\n  SHADOW: \"true\"\n",
	} {
		w, _ := zw.Create(name)
		_, _ = w.Write([]byte(body))
	}
	_ = zw.Close()
	_ = f.Close()

	dst := t.TempDir()
	n, err := InstallPack(dst, zipPath)
	if err != nil || n != 1 {
		t.Fatalf("expected only ok.yaml installed, got %d, %v", n, err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dst), "escape.yaml")); err == nil {
		t.Fatalf("entry escaped the styles dir")
	}
	if _, err := os.Stat(filepath.Join(dst, "broken.yaml")); err == nil {
		t.Fatalf("invalid style must be removed")
	}
}
