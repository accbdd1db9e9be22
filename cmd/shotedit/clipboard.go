/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// clipPrefix tags clipboard text that carries an element template.
const clipPrefix = "shotedit:"

// systemClipboard stores templates on the text clipboard as base64 with a
// format header, since the system clipboard only carries text here.
type systemClipboard struct{}

func (systemClipboard) SetData(format string, data []byte) error {
	return clipboard.WriteAll(encodeClip(format, data))
}

func (systemClipboard) Data(format string) ([]byte, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return decodeClip(format, text)
}

func encodeClip(format string, data []byte) string {
	return clipPrefix + format + ":" + base64.StdEncoding.EncodeToString(data)
}

func decodeClip(format, text string) ([]byte, error) {
	head := clipPrefix + format + ":"
	if !strings.HasPrefix(text, head) {
		return nil, fmt.Errorf("clipboard has no %s data", format)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text[len(head):]))
	if err != nil {
		return nil, fmt.Errorf("clipboard has no %s data: %w", format, err)
	}
	return data, nil
}
