/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package field

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

type defaultKey struct {
	t     Type
	scope string
}

// Defaults remembers the last value used per field type and scope, so a new
// element starts with what the user picked last time.
type Defaults struct {
	values map[defaultKey]any
}

func NewDefaults() *Defaults { return &Defaults{values: make(map[defaultKey]any)} }

// Remember stores v under (t, scope) and under t alone.
func (d *Defaults) Remember(t Type, scope string, v any) {
	if d == nil || v == nil || v == Indeterminate {
		return
	}
	d.values[defaultKey{t, scope}] = v
	d.values[defaultKey{t, ""}] = v
}

// Lookup prefers the scoped value and falls back to the unscoped one.
func (d *Defaults) Lookup(t Type, scope string) (any, bool) {
	if d == nil {
		return nil, false
	}
	if v, ok := d.values[defaultKey{t, scope}]; ok {
		return v, true
	}
	v, ok := d.values[defaultKey{t, ""}]
	return v, ok
}

// Resolve returns the remembered value for (t, scope) or fallback.
func (d *Defaults) Resolve(t Type, scope string, fallback any) any {
	if v, ok := d.Lookup(t, scope); ok {
		return v
	}
	return fallback
}

func (d *Defaults) Len() int {
	if d == nil {
		return 0
	}
	return len(d.values)
}

// Export encodes all values as "NAME" / "NAME@scope" keys.
func (d *Defaults) Export() map[string]string {
	out := make(map[string]string, len(d.values))
	for k, v := range d.values {
		s, err := EncodeValue(k.t, v)
		if err != nil {
			continue
		}
		key := k.t.String()
		if k.scope != "" {
			key += "@" + k.scope
		}
		out[key] = s
	}
	return out
}

// Import loads values produced by Export. Entries that cannot be parsed are
// skipped and reported together in the returned error.
func (d *Defaults) Import(m map[string]string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var errs []error
	for _, k := range keys {
		name, scope, _ := strings.Cut(k, "@")
		t, ok := TypeByName(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown field %q", name))
			continue
		}
		v, err := DecodeValue(t, m[k])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		d.values[defaultKey{t, scope}] = v
	}
	return errors.Join(errs...)
}

// ErrBadValue marks a value that does not fit its field type.
var ErrBadValue = errors.New("bad field value")

// EncodeValue renders v in the textual form used by config and templates.
func EncodeValue(t Type, v any) (string, error) {
	switch t.Kind() {
	case KindColor:
		c, ok := v.(color.NRGBA)
		if !ok {
			break
		}
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
	case KindInt:
		if n, ok := v.(int); ok {
			return strconv.Itoa(n), nil
		}
	case KindFloat:
		if f, ok := v.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindEnum:
		if n, ok := enumInt(v); ok {
			return strconv.Itoa(n), nil
		}
	}
	return "", fmt.Errorf("%w: %T for %s", ErrBadValue, v, t)
}

// DecodeValue parses the output of EncodeValue.
func DecodeValue(t Type, s string) (any, error) {
	ti, ok := catalogue[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %d", ErrBadValue, t)
	}
	switch ti.kind {
	case KindColor:
		return parseColor(s)
	case KindInt:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return b, nil
	case KindString:
		return s, nil
	case KindEnum:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return ti.enum(n), nil
	}
	return nil, ErrBadValue
}

func enumInt(v any) (int, bool) {
	switch e := v.(type) {
	case ArrowHeadCombination:
		return int(e), true
	case HorizontalAlignment:
		return int(e), true
	case VerticalAlignment:
		return int(e), true
	case PreparedFilter:
		return int(e), true
	case CropKind:
		return int(e), true
	case Flag:
		return int(e), true
	}
	return 0, false
}

// parseColor accepts #rrggbb and #rrggbbaa.
func parseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrBadValue, s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrBadValue, s)
	}
	if len(s) == 6 {
		n = n<<8 | 0xff
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

// ParseColor is the exported form of the color parser used by scripts.
func ParseColor(s string) (color.NRGBA, error) { return parseColor(s) }
