/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// SansSerif is the generic family every lookup falls back to. It is backed
// by the embedded Go fonts.
const SansSerif = "sans-serif"

// ErrNoFont is returned when neither the family nor the fallback could be built.
var ErrNoFont = errors.New("no usable font")

type fontKey struct {
	family string // lower case
	bold   bool
	italic bool
}

// Library resolves font specs against fonts loaded from disk, falling back
// to the embedded Go fonts for unknown families.
type Library struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
	DPI   float64

	fallback map[fontKey][]byte
	parsed   map[fontKey]*truetype.Font
}

var (
	sharedOnce sync.Once
	shared     *Library
)

// Shared returns the process wide library used when an element was not
// given one explicitly.
func Shared() *Library {
	sharedOnce.Do(func() { shared = NewLibrary() })
	return shared
}

func NewLibrary() *Library {
	return &Library{
		fonts: make(map[fontKey]*opentype.Font),
		DPI:   72,
		fallback: map[fontKey][]byte{
			{SansSerif, false, false}: goregular.TTF,
			{SansSerif, true, false}:  gobold.TTF,
			{SansSerif, false, true}:  goitalic.TTF,
			{SansSerif, true, true}:   gobolditalic.TTF,
		},
		parsed: make(map[fontKey]*truetype.Font),
	}
}

// LoadFile registers an OpenType/TrueType file. Family and style come from
// the font's name table.
func (l *Library) LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse font %s: %w", path, err)
	}
	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil || family == "" {
		family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
	sub = strings.ToLower(sub)
	key := fontKey{
		family: strings.ToLower(family),
		bold:   strings.Contains(sub, "bold"),
		italic: strings.Contains(sub, "italic") || strings.Contains(sub, "oblique"),
	}
	l.mu.Lock()
	l.fonts[key] = f
	l.mu.Unlock()
	return family, nil
}

// ScanDirs loads every .ttf/.otf below dirs. Unreadable files are skipped;
// the number of loaded fonts and the joined errors are returned.
func (l *Library) ScanDirs(dirs []string) (int, error) {
	n := 0
	var errs []error
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			ext := strings.ToLower(filepath.Ext(p))
			if d.IsDir() || (ext != ".ttf" && ext != ".otf") {
				return nil
			}
			if _, err := l.LoadFile(p); err != nil {
				errs = append(errs, err)
				return nil
			}
			n++
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return n, errors.Join(errs...)
}

// HasFamily reports whether family resolves without falling back.
func (l *Library) HasFamily(family string) bool {
	fam := strings.ToLower(strings.TrimSpace(family))
	if fam == SansSerif {
		return true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for k := range l.fonts {
		if k.family == fam {
			return true
		}
	}
	return false
}

// Families lists the loaded families plus the generic fallback.
func (l *Library) Families() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seen := map[string]bool{SansSerif: true}
	out := []string{SansSerif}
	for k := range l.fonts {
		if !seen[k.family] {
			seen[k.family] = true
			out = append(out, k.family)
		}
	}
	return out
}

// Face resolves spec. An unknown or broken family falls back to SansSerif;
// fellBack tells the caller so it can report it. An error means the
// fallback itself could not be constructed.
func (l *Library) Face(spec FontSpec) (face font.Face, fellBack bool, err error) {
	if spec.Size <= 0 {
		spec.Size = 11
	}
	if f := l.find(spec); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.Size, DPI: l.DPI, Hinting: font.HintingFull})
		if err == nil {
			return face, false, nil
		}
	}
	face, err = l.fallbackFace(spec)
	return face, !strings.EqualFold(spec.Family, SansSerif), err
}

func (l *Library) find(spec FontSpec) *opentype.Font {
	fam := strings.ToLower(strings.TrimSpace(spec.Family))
	l.mu.RLock()
	defer l.mu.RUnlock()
	if f, ok := l.fonts[fontKey{fam, spec.Bold, spec.Italic}]; ok {
		return f
	}
	for k, f := range l.fonts {
		if k.family == fam {
			return f
		}
	}
	return nil
}

func (l *Library) fallbackFace(spec FontSpec) (font.Face, error) {
	key := fontKey{SansSerif, spec.Bold, spec.Italic}
	l.mu.Lock()
	defer l.mu.Unlock()
	tf, ok := l.parsed[key]
	if !ok {
		data, found := l.fallback[key]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrNoFont, spec.Family)
		}
		var err error
		tf, err = truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoFont, err)
		}
		l.parsed[key] = tf
	}
	return truetype.NewFace(tf, &truetype.Options{Size: spec.Size, DPI: l.DPI, Hinting: font.HintingFull}), nil
}
