/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package field

// Bindable is anything whose fields can be edited through an Aggregator.
type Bindable interface {
	FieldHolder() *Holder
}

// Aggregator merges the fields of the bound elements into proxy fields.
// Writing a proxy fans the value out to every bound element that has a
// field of that type; each element keeps its own copy.
type Aggregator struct {
	proxies  Holder
	bound    []Bindable
	subs     map[Bindable]Subscription
	proxySub Subscription

	refreshing bool
	fanning    bool

	// BeforeChange runs before a fan-out write touches f, so the owner can
	// record undo state.
	BeforeChange func(b Bindable, f *Field)
	// Defaults, when set, remembers every value written through a proxy.
	Defaults *Defaults
}

func NewAggregator() *Aggregator {
	a := &Aggregator{subs: make(map[Bindable]Subscription)}
	a.proxySub = a.proxies.Subscribe(a.onProxyChange)
	return a
}

// BindElement starts observing b. Binding an element twice is a no-op.
func (a *Aggregator) BindElement(b Bindable) {
	if _, ok := a.subs[b]; ok {
		return
	}
	a.subs[b] = b.FieldHolder().Subscribe(a.onElementChange)
	a.bound = append(a.bound, b)
	a.refresh()
}

// BindElements binds each of bs.
func (a *Aggregator) BindElements(bs []Bindable) {
	for _, b := range bs {
		if _, ok := a.subs[b]; ok {
			continue
		}
		a.subs[b] = b.FieldHolder().Subscribe(a.onElementChange)
		a.bound = append(a.bound, b)
	}
	a.refresh()
}

// UnbindElement stops observing b; unknown elements are ignored.
func (a *Aggregator) UnbindElement(b Bindable) {
	sub, ok := a.subs[b]
	if !ok {
		return
	}
	b.FieldHolder().Unsubscribe(sub)
	delete(a.subs, b)
	for i, x := range a.bound {
		if x == b {
			a.bound = append(a.bound[:i], a.bound[i+1:]...)
			break
		}
	}
	a.refresh()
}

// UnbindAll releases every binding.
func (a *Aggregator) UnbindAll() {
	for _, b := range a.bound {
		b.FieldHolder().Unsubscribe(a.subs[b])
	}
	a.bound = nil
	a.subs = make(map[Bindable]Subscription)
	a.refresh()
}

// Rebind refreshes the proxies after b replaced some of its fields.
func (a *Aggregator) Rebind(b Bindable) {
	if a.IsBound(b) {
		a.refresh()
	}
}

func (a *Aggregator) IsBound(b Bindable) bool {
	_, ok := a.subs[b]
	return ok
}

func (a *Aggregator) BoundElements() []Bindable { return append([]Bindable(nil), a.bound...) }

func (a *Aggregator) BoundCount() int { return len(a.bound) }

// GetField returns the proxy for t, or nil when not every bound element has t.
func (a *Aggregator) GetField(t Type) *Field { return a.proxies.Field(t) }

// HasFieldValue reports whether a proxy for t exists; mixed values count.
func (a *Aggregator) HasFieldValue(t Type) bool {
	f := a.proxies.Field(t)
	return f != nil && f.HasValue()
}

// Fields returns all proxies.
func (a *Aggregator) Fields() []*Field { return a.proxies.OwnFields() }

// SetFieldValue writes v through the proxy of t. It reports whether a proxy existed.
func (a *Aggregator) SetFieldValue(t Type, v any) bool {
	f := a.proxies.Field(t)
	if f == nil {
		return false
	}
	f.SetValue(v)
	return true
}

// Subscribe observes proxy changes, e.g. to refresh toolbar controls.
func (a *Aggregator) Subscribe(fn Observer) Subscription { return a.proxies.Subscribe(fn) }

func (a *Aggregator) Unsubscribe(s Subscription) { a.proxies.Unsubscribe(s) }

func (a *Aggregator) onProxyChange(c Change) {
	if a.refreshing || c.New == Indeterminate {
		return
	}
	a.fanOut(c.Field.typ, c.New)
}

func (a *Aggregator) fanOut(t Type, v any) {
	a.fanning = true
	for _, b := range a.bound {
		f := b.FieldHolder().Field(t)
		if f == nil || f.value == v {
			continue
		}
		if a.BeforeChange != nil {
			a.BeforeChange(b, f)
		}
		f.SetValue(v)
		if a.Defaults != nil {
			a.Defaults.Remember(t, f.scope, v)
		}
	}
	a.fanning = false
	// a prepared filter switch replaces child fields
	if t == PreparedFilterHighlight || t == PreparedFilterObfuscate {
		a.refresh()
	}
}

func (a *Aggregator) onElementChange(c Change) {
	if a.fanning {
		return
	}
	a.refresh()
}

// refresh recomputes the proxy set and values from the bound elements.
func (a *Aggregator) refresh() {
	a.refreshing = true
	defer func() { a.refreshing = false }()

	common := map[Type]any{}
	var order []Type
	for i, b := range a.bound {
		fs := b.FieldHolder().Fields()
		if i == 0 {
			for _, f := range fs {
				common[f.typ] = f.value
				order = append(order, f.typ)
			}
			continue
		}
		present := make(map[Type]any, len(fs))
		for _, f := range fs {
			present[f.typ] = f.value
		}
		for t, v := range common {
			pv, ok := present[t]
			switch {
			case !ok:
				delete(common, t)
			case pv != v:
				common[t] = Indeterminate
			}
		}
	}

	for _, f := range a.proxies.OwnFields() {
		if _, ok := common[f.typ]; !ok {
			a.proxies.RemoveField(f.typ)
		}
	}
	for _, t := range order {
		v, ok := common[t]
		if !ok {
			continue
		}
		if p := a.proxies.Field(t); p != nil {
			p.SetValue(v)
		} else {
			a.proxies.AddField(t, "", v)
			a.proxies.notify(Change{Field: a.proxies.Field(t), New: v})
		}
	}
}
