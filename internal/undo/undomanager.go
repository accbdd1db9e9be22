/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo keeps the undo and redo stacks of a document.
//
// Entries are mementos: Restore applies the inverse of the recorded mutation
// and returns a memento that reverts the restore, so redo is symmetric.
package undo

// Memento captures enough state to revert one mutation.
type Memento interface {
	// Restore reverts the mutation and returns the memento that redoes it.
	Restore() Memento
	// Merge folds a newer memento into the receiver. Returning true means the
	// newer one is redundant and gets discarded.
	Merge(newer Memento) bool
	// Dispose releases resources only this memento still references.
	Dispose()
}

// Sizer is implemented by mementos holding large buffers such as bitmaps.
type Sizer interface{ Size() int }

// Config caps the undo history. Zero values mean unlimited.
type Config struct {
	// MaxDepth is the maximum number of undo entries; the oldest are dropped.
	MaxDepth int
	// MaxBytes is a soft cap on the summed Size of undo entries.
	MaxBytes int
}

type entry struct {
	m      Memento
	size   int
	sealed bool
}

// Manager owns the two stacks. It is not safe for concurrent use; the editor
// drives it from the UI goroutine only.
type Manager struct {
	cfg        Config
	undo       []entry
	redo       []entry
	inUndoRedo bool
	totalBytes int

	// OnChange is called after every stack modification.
	OnChange func()
}

func NewManager(cfg Config) *Manager { return &Manager{cfg: cfg} }

// MakeUndoable records m. With allowMerge the current unsealed top may absorb
// m instead of a new entry being pushed. Any new mutation drops the redo
// history. Calling it from inside Undo or Redo is a programming error.
func (u *Manager) MakeUndoable(m Memento, allowMerge bool) {
	if u.inUndoRedo {
		panic("undo: MakeUndoable called while restoring a memento")
	}
	u.clearRedo()
	if n := len(u.undo); allowMerge && n > 0 && !u.undo[n-1].sealed && u.undo[n-1].m.Merge(m) {
		m.Dispose()
		u.changed()
		return
	}
	if n := len(u.undo); n > 0 {
		u.undo[n-1].sealed = true
	}
	e := entry{m: m, size: sizeOf(m)}
	u.undo = append(u.undo, e)
	u.totalBytes += e.size
	u.enforceCaps()
	u.changed()
}

// Seal closes the top entry for merging, typically at the end of a gesture.
func (u *Manager) Seal() {
	if n := len(u.undo); n > 0 {
		u.undo[n-1].sealed = true
	}
}

// DropLast disposes the newest undo entry without restoring it, for a
// gesture that was abandoned after recording. It reports whether an entry
// was dropped.
func (u *Manager) DropLast() bool {
	if u.inUndoRedo {
		panic("undo: DropLast called while restoring a memento")
	}
	n := len(u.undo)
	if n == 0 {
		return false
	}
	top := u.undo[n-1]
	u.undo = u.undo[:n-1]
	u.totalBytes -= top.size
	top.m.Dispose()
	u.changed()
	return true
}

// Undo reverts the newest entry and moves its inverse to the redo stack.
func (u *Manager) Undo() bool {
	n := len(u.undo)
	if n == 0 {
		return false
	}
	top := u.undo[n-1]
	u.undo = u.undo[:n-1]
	u.totalBytes -= top.size
	inv := u.restore(top.m)
	u.redo = append(u.redo, entry{m: inv, size: sizeOf(inv), sealed: true})
	u.changed()
	return true
}

// Redo re-applies the newest undone entry.
func (u *Manager) Redo() bool {
	n := len(u.redo)
	if n == 0 {
		return false
	}
	top := u.redo[n-1]
	u.redo = u.redo[:n-1]
	inv := u.restore(top.m)
	e := entry{m: inv, size: sizeOf(inv), sealed: true}
	u.undo = append(u.undo, e)
	u.totalBytes += e.size
	u.enforceCaps()
	u.changed()
	return true
}

func (u *Manager) restore(m Memento) Memento {
	u.inUndoRedo = true
	defer func() { u.inUndoRedo = false }()
	return m.Restore()
}

func (u *Manager) CanUndo() bool { return len(u.undo) > 0 }
func (u *Manager) CanRedo() bool { return len(u.redo) > 0 }

// InUndoRedo reports whether a memento is currently being restored.
func (u *Manager) InUndoRedo() bool { return u.inUndoRedo }

// Depths returns the number of undo and redo entries.
func (u *Manager) Depths() (undo, redo int) { return len(u.undo), len(u.redo) }

// Stats returns the accounted undo bytes and both depths.
func (u *Manager) Stats() (totalBytes, undoDepth, redoDepth int) {
	return u.totalBytes, len(u.undo), len(u.redo)
}

// Clear disposes both stacks.
func (u *Manager) Clear() {
	for _, e := range u.undo {
		e.m.Dispose()
	}
	u.undo = nil
	u.totalBytes = 0
	u.clearRedo()
	u.changed()
}

func (u *Manager) clearRedo() {
	for _, e := range u.redo {
		e.m.Dispose()
	}
	u.redo = nil
}

func (u *Manager) enforceCaps() {
	drop := 0
	if u.cfg.MaxDepth > 0 && len(u.undo) > u.cfg.MaxDepth {
		drop = len(u.undo) - u.cfg.MaxDepth
	}
	bytes := u.totalBytes
	for i := 0; i < drop; i++ {
		bytes -= u.undo[i].size
	}
	// keep at least the newest entry even if it alone exceeds the budget
	for u.cfg.MaxBytes > 0 && bytes > u.cfg.MaxBytes && drop < len(u.undo)-1 {
		bytes -= u.undo[drop].size
		drop++
	}
	if drop == 0 {
		return
	}
	for _, e := range u.undo[:drop] {
		e.m.Dispose()
	}
	u.undo = append([]entry(nil), u.undo[drop:]...)
	u.totalBytes = bytes
}

func (u *Manager) changed() {
	if u.OnChange != nil {
		u.OnChange()
	}
}

func sizeOf(m Memento) int {
	if s, ok := m.(Sizer); ok {
		return s.Size()
	}
	return 0
}
