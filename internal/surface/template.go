/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"shotedit/internal/drawable"
)

// TemplateFormat identifies element templates on a clipboard.
const TemplateFormat = "application/x-shotedit-elements"

// Clipboard stores opaque data per format.
type Clipboard interface {
	SetData(format string, data []byte) error
	Data(format string) ([]byte, error)
}

// MemoryClipboard is a process-local Clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *MemoryClipboard) SetData(format string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[format] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryClipboard) Data(format string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[format]
	if !ok {
		return nil, fmt.Errorf("clipboard has no %s data", format)
	}
	return append([]byte(nil), d...), nil
}

// writeElements encodes cs as a template of this surface.
func (s *Surface) writeElements(w io.Writer, cs []drawable.Container) (int64, error) {
	l := drawable.NewListWithParent(s.elements.ParentID())
	l.AddAll(cs)
	return drawable.WriteTo(w, l)
}

// SaveElementsToStream writes every element except a pending crop and
// returns the number of bytes written.
func (s *Surface) SaveElementsToStream(w io.Writer) (int64, error) {
	var cs []drawable.Container
	for _, c := range s.elements.Items() {
		if c != drawable.Container(s.crop) {
			cs = append(cs, c)
		}
	}
	n, err := s.writeElements(w, cs)
	if err != nil {
		s.log.WarnContext(s.ctx, "template save failed", "err", err)
		return n, err
	}
	s.log.DebugContext(s.ctx, "template saved", "elements", len(cs), "bytes", n)
	return n, nil
}

// LoadElementsFromStream adds the elements of a template as one undo step
// and selects them. A corrupt stream changes nothing.
func (s *Surface) LoadElementsFromStream(r io.Reader) error {
	l, err := drawable.ReadFrom(r)
	if err != nil {
		s.log.WarnContext(s.ctx, "template load failed", "err", err)
		s.emit(EventMessage, "the element file could not be read, nothing was changed")
		return err
	}
	s.insertLoaded(l.Items())
	return nil
}

// CopySelected puts the selection on cb as a template.
func (s *Surface) CopySelected(cb Clipboard) error {
	sel := s.selectionInOrder()
	if len(sel) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if _, err := s.writeElements(&buf, sel); err != nil {
		return err
	}
	return cb.SetData(TemplateFormat, buf.Bytes())
}

// CutSelected copies the selection and deletes it.
func (s *Surface) CutSelected(cb Clipboard) error {
	if err := s.CopySelected(cb); err != nil {
		return err
	}
	s.DeleteSelected()
	return nil
}

// Paste adds the template on cb. Elements copied from this surface are
// shifted so they do not cover their originals.
func (s *Surface) Paste(cb Clipboard) error {
	data, err := cb.Data(TemplateFormat)
	if err != nil {
		return err
	}
	l, err := drawable.ReadFrom(bytes.NewReader(data))
	if err != nil {
		s.log.WarnContext(s.ctx, "paste failed", "err", err)
		s.emit(EventMessage, "the clipboard does not hold usable elements")
		return err
	}
	if l.ParentID() == s.elements.ParentID() {
		l.MoveBy(duplicateOffset, duplicateOffset)
	}
	s.insertLoaded(l.Items())
	return nil
}
