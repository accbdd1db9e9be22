/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report and, when an editing
// session is attached, an autosave of its elements.
package crash

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"time"

	applog "shotedit/internal/log"
	"shotedit/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// ElementSaver writes the elements of a document as a template.
type ElementSaver interface {
	SaveElementsToStream(w io.Writer) (int64, error)
}

// Session is what a crash can salvage. Dir receives the report and the
// autosave; an empty Dir means the temp directory.
type Session struct {
	Dir      string
	Title    string
	Elements ElementSaver
	// Keep bounds the number of autosave files in Dir; 0 keeps all.
	Keep int
}

func (s *Session) dir() string {
	if s == nil || s.Dir == "" {
		return os.TempDir()
	}
	return s.Dir
}

// Recover captures a panic, logs it with the stack, writes a report and
// tries to autosave the session elements, then exits with code 2.
//
// Usage: defer crash.Recover(sess)
func Recover(sess *Session) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(sess, r, stack)
		if err != nil {
			l.Error("crash report failed", slog.Any("err", err))
		}
		if sess != nil && sess.Elements != nil {
			if path, err := Autosave(sess); err != nil {
				l.Error("autosave failed", slog.Any("err", err))
			} else {
				l.Info("autosave written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		exitFn(2)
	}
}

// Autosave writes the session elements to a timestamped template file in
// the session directory and returns its path.
func Autosave(sess *Session) (string, error) {
	if sess == nil || sess.Elements == nil {
		return "", fmt.Errorf("autosave: no session")
	}
	dir := sess.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("autosave dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("autosave-%s.elements", time.Now().Format("20060102-150405")))
	var buf bytes.Buffer
	if _, err := sess.Elements.SaveElementsToStream(&buf); err != nil {
		return "", fmt.Errorf("autosave: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("autosave: %w", err)
	}
	if sess.Keep > 0 {
		prune(dir, sess.Keep)
	}
	return path, nil
}

// prune removes the oldest autosaves beyond keep. The timestamp in the
// name sorts chronologically.
func prune(dir string, keep int) {
	matches, err := filepath.Glob(filepath.Join(dir, "autosave-*.elements"))
	if err != nil || len(matches) <= keep {
		return
	}
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-keep] {
		if err := os.Remove(old); err != nil {
			applog.WithComponent("crash").Warn("remove old autosave", slog.String("path", old), slog.Any("err", err))
		}
	}
}

func writeReport(sess *Session, panicVal any, stack []byte) (string, error) {
	dir := sess.dir()
	_ = os.MkdirAll(dir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "shotedit Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if sess != nil && sess.Title != "" {
		_, _ = fmt.Fprintf(&buf, "Capture: %s\n", sess.Title)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}
