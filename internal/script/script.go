/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script replays JSON annotation scripts against a surface. A
// script is a list of steps that drive the same operations a user would:
// pointer gestures, toolbar writes, ordering, crop and undo.
package script

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var (
	// ErrInvalid wraps schema violations and malformed JSON.
	ErrInvalid = errors.New("invalid script")
	// ErrNoCrop is returned when a crop or auto-crop step changes nothing.
	ErrNoCrop = errors.New("nothing to crop")
)

// Op names a step.
type Op string

const (
	OpDraw      Op = "draw"
	OpField     Op = "field"
	OpSelect    Op = "select"
	OpSelectAll Op = "select_all"
	OpDeselect  Op = "deselect"
	OpDelete    Op = "delete"
	OpMove      Op = "move"
	OpOrder     Op = "order"
	OpText      Op = "text"
	OpCrop      Op = "crop"
	OpAutoCrop  Op = "autocrop"
	OpEffect    Op = "effect"
	OpUndo      Op = "undo"
	OpRedo      Op = "redo"
)

// Script is a parsed annotation script.
type Script struct {
	Version int    `json:"version,omitempty"`
	Steps   []Step `json:"steps"`
}

// Step is one operation. Only the properties relevant to Op are set.
type Step struct {
	Op        Op                 `json:"op"`
	Mode      string             `json:"mode,omitempty"`
	Points    [][2]float64       `json:"points,omitempty"`
	Field     string             `json:"field,omitempty"`
	Value     string             `json:"value,omitempty"`
	Index     *int               `json:"index,omitempty"`
	DX        float64            `json:"dx,omitempty"`
	DY        float64            `json:"dy,omitempty"`
	Direction string             `json:"direction,omitempty"`
	Text      *string            `json:"text,omitempty"`
	Rect      []float64          `json:"rect,omitempty"`
	Name      string             `json:"name,omitempty"`
	Params    map[string]float64 `json:"params,omitempty"`
	Count     int                `json:"count,omitempty"`
}

// StepError reports the failing step. Index is zero based; -1 means the
// document as a whole.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	if e.Index < 0 {
		return e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("step %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Parse validates data against the script schema and decodes it. Schema
// errors that point into the step list carry that step's index.
func Parse(data []byte) (Script, error) {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Script{}, &StepError{Index: -1, Err: fmt.Errorf("%w: %v", ErrInvalid, err)}
	}
	if !res.Valid() {
		first := res.Errors()[0]
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Script{}, &StepError{
			Index: stepIndex(first.Field()),
			Err:   fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; ")),
		}
	}
	var sc Script
	if err := json.Unmarshal(data, &sc); err != nil {
		return Script{}, &StepError{Index: -1, Err: fmt.Errorf("%w: %v", ErrInvalid, err)}
	}
	return sc, nil
}

// stepIndex extracts n from a schema field path like "steps.3.points".
func stepIndex(path string) int {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "steps" {
		return -1
	}
	n := 0
	for _, r := range parts[1] {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
