/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Editor.UndoMaxDepth != Defaults().Editor.UndoMaxDepth {
		t.Fatalf("expected default undo depth, got %d", cfg.Editor.UndoMaxDepth)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Defaults()
	cfg.Editor.UndoMaxDepth = 7
	cfg.Editor.FontDirs = []string{"/fonts"}
	cfg.Editor.LastUsed = map[string]string{"LINE_THICKNESS@Rectangle": "4"}
	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Editor.UndoMaxDepth != 7 || len(got.Editor.FontDirs) != 1 || got.Editor.LastUsed["LINE_THICKNESS@Rectangle"] != "4" {
		t.Fatalf("round trip mismatch: %#v", got.Editor)
	}
}

func TestLoadFileMalformedKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("editor: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Editor.AutoCropDifference != Defaults().Editor.AutoCropDifference {
		t.Fatalf("defaults not kept on parse error")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Logging: LoggingConfig{Level: " DEBUG", Format: "json", Source: true, File: "/tmp/shotedit.log"}}
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/shotedit.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	if dst.Editor.UndoMaxDepth != Defaults().Editor.UndoMaxDepth {
		t.Fatalf("zero file values must not clobber defaults")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(EnvUndoDepth, "12")
	t.Setenv(EnvAutoCropDiff, "3")
	t.Setenv(EnvLogSource, "yes")
	t.Setenv(EnvFontDirs, "/a"+string(os.PathListSeparator)+"/b")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.UndoMaxDepth != 12 || cfg.Editor.AutoCropDifference != 3 || !cfg.Logging.Source {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
	if len(cfg.Editor.FontDirs) != 2 {
		t.Fatalf("font dirs not split: %v", cfg.Editor.FontDirs)
	}
	if name, ok := EnvOverrideFor("editor.undo_max_depth"); !ok || name != EnvUndoDepth {
		t.Fatalf("EnvOverrideFor mismatch: %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("output.pdf_dpi"); ok {
		t.Fatalf("unexpected override for output.pdf_dpi")
	}
}
