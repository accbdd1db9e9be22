/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package field implements typed, observable properties of annotation
// elements and the aggregator that edits the fields of a whole selection.
package field

import (
	"fmt"
	"image/color"
)

// Field is a typed value slot owned by exactly one Holder.
type Field struct {
	typ   Type
	scope string
	value any
	owner *Holder
}

func (f *Field) Type() Type      { return f.typ }
func (f *Field) Scope() string   { return f.scope }
func (f *Field) Value() any      { return f.value }
func (f *Field) HasValue() bool  { return f.value != nil }
func (f *Field) Owner() *Holder  { return f.owner }
func (f *Field) String() string  { return fmt.Sprintf("%s=%v", f.typ, f.value) }
func (f *Field) IsMixed() bool   { return f.value == Indeterminate }

// SetValue stores v and notifies the owner's observers. It reports whether
// the value actually changed.
func (f *Field) SetValue(v any) bool {
	if f.value == v {
		return false
	}
	old := f.value
	f.value = v
	if f.owner != nil {
		f.owner.notify(Change{Field: f, Old: old, New: v})
	}
	return true
}

type indeterminate struct{}

func (indeterminate) String() string { return "<mixed>" }

// Indeterminate is the aggregate value shown when bound elements disagree.
var Indeterminate any = indeterminate{}

// Change describes one field update.
type Change struct {
	Field    *Field
	Old, New any
}

type Observer func(Change)

// Subscription identifies an observer registration.
type Subscription uint64

type observerEntry struct {
	id Subscription
	fn Observer
}

// Holder owns a set of uniquely typed fields and an observer list.
// Child holders (filters of a container) are exposed through the parent and
// their changes are re-broadcast to the parent's observers.
type Holder struct {
	fields    []*Field
	children  []*Holder
	childSubs []Subscription
	observers []observerEntry
	nextID    Subscription
}

// AddField adds a field; a duplicate type is a programmer error.
func (h *Holder) AddField(t Type, scope string, v any) *Field {
	for _, f := range h.fields {
		if f.typ == t {
			panic(fmt.Sprintf("field: duplicate field %s in holder", t))
		}
	}
	f := &Field{typ: t, scope: scope, value: v, owner: h}
	h.fields = append(h.fields, f)
	return f
}

// RemoveField drops the field of type t, if present.
func (h *Holder) RemoveField(t Type) {
	for i, f := range h.fields {
		if f.typ == t {
			f.owner = nil
			h.fields = append(h.fields[:i], h.fields[i+1:]...)
			return
		}
	}
}

// Field finds t among own fields first, then children.
func (h *Holder) Field(t Type) *Field {
	for _, f := range h.fields {
		if f.typ == t {
			return f
		}
	}
	for _, c := range h.children {
		if f := c.Field(t); f != nil {
			return f
		}
	}
	return nil
}

func (h *Holder) HasField(t Type) bool { return h.Field(t) != nil }

// OwnFields returns the fields added directly to h.
func (h *Holder) OwnFields() []*Field { return append([]*Field(nil), h.fields...) }

// Fields returns own fields followed by children's fields. A type already
// seen earlier is skipped.
func (h *Holder) Fields() []*Field {
	out := append([]*Field(nil), h.fields...)
	seen := make(map[Type]bool, len(out))
	for _, f := range out {
		seen[f.typ] = true
	}
	for _, c := range h.children {
		for _, f := range c.Fields() {
			if !seen[f.typ] {
				seen[f.typ] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Value returns the value of t or nil.
func (h *Holder) Value(t Type) any {
	if f := h.Field(t); f != nil {
		return f.value
	}
	return nil
}

// SetValue writes t if present. It reports whether the value changed.
func (h *Holder) SetValue(t Type, v any) bool {
	f := h.Field(t)
	if f == nil {
		return false
	}
	return f.SetValue(v)
}

// Get returns the value of t as T.
func Get[T any](h *Holder, t Type) (T, bool) {
	v, ok := h.Value(t).(T)
	return v, ok
}

func (h *Holder) Int(t Type) int {
	switch v := h.Value(t).(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func (h *Holder) Float(t Type) float64 {
	switch v := h.Value(t).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (h *Holder) Bool(t Type) bool {
	v, _ := h.Value(t).(bool)
	return v
}

func (h *Holder) String(t Type) string {
	v, _ := h.Value(t).(string)
	return v
}

// Color returns the color of t; missing fields are transparent.
func (h *Holder) Color(t Type) color.NRGBA {
	v, _ := h.Value(t).(color.NRGBA)
	return v
}

// Subscribe registers fn for changes of any field of h or its children.
func (h *Holder) Subscribe(fn Observer) Subscription {
	h.nextID++
	h.observers = append(h.observers, observerEntry{id: h.nextID, fn: fn})
	return h.nextID
}

// Unsubscribe removes exactly the registration s.
func (h *Holder) Unsubscribe(s Subscription) {
	for i, o := range h.observers {
		if o.id == s {
			h.observers = append(h.observers[:i], h.observers[i+1:]...)
			return
		}
	}
}

func (h *Holder) SubscriberCount() int { return len(h.observers) }

// AddChild attaches c; its changes are forwarded to h's observers.
func (h *Holder) AddChild(c *Holder) {
	h.children = append(h.children, c)
	h.childSubs = append(h.childSubs, c.Subscribe(h.notify))
}

// Children returns the attached child holders.
func (h *Holder) Children() []*Holder { return append([]*Holder(nil), h.children...) }

// ClearChildren detaches every child holder.
func (h *Holder) ClearChildren() {
	for i, c := range h.children {
		c.Unsubscribe(h.childSubs[i])
	}
	h.children, h.childSubs = nil, nil
}

func (h *Holder) notify(c Change) {
	// copy: observers may unsubscribe while being called
	obs := append([]observerEntry(nil), h.observers...)
	for _, o := range obs {
		o.fn(c)
	}
}
