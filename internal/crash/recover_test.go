/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"image"
	"io"
	"os"
	"strings"
	"testing"

	"shotedit/internal/surface"
)

// TestRecover_WritesReportAndAutosave ensures Recover handles a panic,
// writes a report and an autosave, and asks for exit code 2.
func TestRecover_WritesReportAndAutosave(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	s := surface.New(image.NewRGBA(image.Rect(0, 0, 20, 20)), surface.Options{})
	s.AddEllipse(1, 1, 5, 5)
	dir := t.TempDir()

	func() {
		defer Recover(&Session{Dir: dir, Elements: s})
		panic("boom")
	}()

	var report, autosave bool
	files, _ := os.ReadDir(dir)
	for _, f := range files {
		switch {
		case strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log"):
			report = true
		case strings.HasPrefix(f.Name(), "autosave-"):
			autosave = true
		}
	}
	if !report || !autosave {
		t.Fatalf("expected report and autosave, got report=%v autosave=%v", report, autosave)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}
