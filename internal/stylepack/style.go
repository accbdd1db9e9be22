/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package stylepack manages named styles: sets of remembered field values
// kept as YAML files in a styles directory, shareable as zip packs.
package stylepack

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"shotedit/internal/field"
	applog "shotedit/internal/log"
	"shotedit/internal/surface"
)

const ext = ".yaml"

// ErrNoStyle is returned when a named style does not exist.
var ErrNoStyle = errors.New("no such style")

// Style maps "FIELD_NAME" or "FIELD_NAME@Scope" keys to encoded values,
// the same form the configuration uses for last used values.
type Style struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Values      map[string]string `yaml:"values"`
}

// FromDefaults captures the remembered values of d as a style.
func FromDefaults(name string, d *field.Defaults) Style {
	return Style{Name: name, Values: d.Export()}
}

type entry struct {
	t     field.Type
	scope string
	v     any
}

// entries decodes the values in key order. Undecodable entries are
// reported together.
func (st Style) entries() ([]entry, error) {
	keys := make([]string, 0, len(st.Values))
	for k := range st.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []entry
	var errs []error
	for _, k := range keys {
		name, scope, _ := strings.Cut(k, "@")
		t, ok := field.TypeByName(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown field %q", name))
			continue
		}
		v, err := field.DecodeValue(t, st.Values[k])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		out = append(out, entry{t, scope, v})
	}
	return out, errors.Join(errs...)
}

// Apply makes the style the surface defaults for new elements and writes
// its unscoped values to the current selection, one undo step per field.
// It returns the number of fields written to the selection.
func (st Style) Apply(s *surface.Surface) (int, error) {
	es, err := st.entries()
	// errors repeat those of entries
	_ = s.Defaults().Import(st.Values)
	n := 0
	agg := s.Aggregator()
	for _, e := range es {
		if e.scope != "" || !agg.HasFieldValue(e.t) {
			continue
		}
		if s.SetFieldValue(e.t, e.v) {
			n++
		}
	}
	applog.WithComponent("stylepack").Debug("style applied", slog.String("style", st.Name), slog.Int("fields", n))
	return n, err
}

// Path returns the file of style name in dir.
func Path(dir, name string) string { return filepath.Join(dir, fileName(name)) }

func fileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	return name + ext
}

// Save writes st into dir, replacing a style of the same name.
func Save(dir string, st Style) (string, error) {
	if strings.TrimSpace(st.Name) == "" {
		return "", errors.New("style name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure styles dir: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return "", err
	}
	path := Path(dir, st.Name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write style: %w", err)
	}
	return path, nil
}

// Load reads the style name from dir.
func Load(dir, name string) (Style, error) {
	return LoadFile(Path(dir, name))
}

// LoadFile reads one style file.
func LoadFile(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Style{}, fmt.Errorf("%w: %s", ErrNoStyle, strings.TrimSuffix(filepath.Base(path), ext))
	}
	if err != nil {
		return Style{}, err
	}
	var st Style
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Style{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if st.Name == "" {
		st.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return st, nil
}

// List returns the styles in dir sorted by name. A missing dir is empty.
func List(dir string) ([]Style, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
	if err != nil {
		return nil, err
	}
	var out []Style
	var errs []error
	for _, m := range matches {
		st, err := LoadFile(m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, errors.Join(errs...)
}
