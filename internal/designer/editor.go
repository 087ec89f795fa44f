/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package designer

import (
	"fmt"

	"formdesigner/internal/widgets"
)

// DragState is the per-gesture pointer state. Release clears Active; Last
// survives and is where paste puts new widgets.
type DragState struct {
	Active *SlotID
	Last   Point
}

// Press starts a gesture on id at pt.
func (d *DragState) Press(id SlotID, pt Point) {
	d.Active = &id
	d.Last = pt
}

// Move returns the delta since the previous event and records pt.
func (d *DragState) Move(pt Point) (dx, dy float64) {
	dx, dy = pt.X-d.Last.X, pt.Y-d.Last.Y
	d.Last = pt
	return dx, dy
}

func (d *DragState) Release() { d.Active = nil }

// Editor ties the canvas, the clipboard and pointer handling together the
// way the desktop shell drives them. Cut, copy and delete act on the widget
// last pressed.
type Editor struct {
	Canvas    *Canvas
	Clipboard *Clipboard

	drag     DragState
	selected SlotID
	hasSel   bool
}

func NewEditor(c *Canvas) *Editor {
	return &Editor{Canvas: c, Clipboard: NewClipboard(c), drag: DragState{Last: c.Origin()}}
}

// Add places a widget of type t at the default origin and selects it.
func (e *Editor) Add(t widgets.Type) (SlotID, error) {
	id, err := e.Canvas.Place(t)
	if err != nil {
		return 0, err
	}
	e.Select(id)
	return id, nil
}

// Press hit-tests pt and starts a drag on the widget found there.
func (e *Editor) Press(pt Point) (SlotID, bool) {
	id, ok := e.Canvas.ItemAt(pt)
	if !ok {
		e.drag.Last = pt
		return 0, false
	}
	e.PressOn(id, pt)
	return id, true
}

// PressOn starts a drag on a known widget; used when the toolkit already
// routed the event to it.
func (e *Editor) PressOn(id SlotID, pt Point) {
	e.drag.Press(id, pt)
	e.Select(id)
}

// Drag moves the active widget by the pointer delta. Without an active
// widget only the pointer is tracked.
func (e *Editor) Drag(pt Point) {
	dx, dy := e.drag.Move(pt)
	if e.drag.Active != nil {
		e.Canvas.MoveBy(*e.drag.Active, dx, dy)
	}
}

// Track records the pointer without moving anything.
func (e *Editor) Track(pt Point) { e.drag.Last = pt }

func (e *Editor) Release() { e.drag.Release() }

// Pointer is the last recorded pointer position.
func (e *Editor) Pointer() Point { return e.drag.Last }

// Dragging reports the widget under an active gesture.
func (e *Editor) Dragging() (SlotID, bool) {
	if e.drag.Active == nil {
		return 0, false
	}
	return *e.drag.Active, true
}

func (e *Editor) Select(id SlotID) { e.selected, e.hasSel = id, true }

// Selected returns the current selection if it still exists.
func (e *Editor) Selected() (SlotID, bool) {
	if !e.hasSel {
		return 0, false
	}
	if _, ok := e.Canvas.Lookup(e.selected); !ok {
		return 0, false
	}
	return e.selected, true
}

func (e *Editor) selection() (SlotID, error) {
	id, ok := e.Selected()
	if !ok {
		e.hasSel = false
		return 0, ErrStaleReference
	}
	return id, nil
}

// Cut moves the selection to the clipboard.
func (e *Editor) Cut() error {
	id, err := e.selection()
	if err != nil {
		return err
	}
	e.Clipboard.Cut(id)
	e.hasSel = false
	return nil
}

func (e *Editor) Copy() error {
	id, err := e.selection()
	if err != nil {
		return err
	}
	e.Clipboard.Copy(id)
	return nil
}

// Paste places a new widget of the clipboard's type at the last pointer
// position and selects it.
func (e *Editor) Paste() (SlotID, error) {
	id, ok, err := e.Clipboard.Paste(e.drag.Last)
	if err != nil {
		return 0, fmt.Errorf("paste: %w", err)
	}
	if !ok {
		return 0, ErrMissingClipboard
	}
	e.Select(id)
	return id, nil
}

// Delete removes the selection.
func (e *Editor) Delete() error {
	id, err := e.selection()
	if err != nil {
		return err
	}
	e.Canvas.Remove(id)
	e.hasSel = false
	return nil
}
