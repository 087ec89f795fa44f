/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package designer

import (
	"log/slog"

	"formdesigner/internal/widgets"
)

// Clipboard holds at most one widget reference. It records the slot and the
// widget type, never a copy of the widget, so paste yields a fresh instance
// with catalog defaults.
type Clipboard struct {
	canvas *Canvas
	slot   SlotID
	typ    widgets.Type
	full   bool
}

func NewClipboard(c *Canvas) *Clipboard { return &Clipboard{canvas: c} }

// Cut records id and removes it from the canvas. A stale id leaves the
// clipboard unchanged and reports false.
func (cb *Clipboard) Cut(id SlotID) bool {
	if !cb.record(id) {
		return false
	}
	cb.canvas.Remove(id)
	return true
}

// Copy records id, leaving the widget in place.
func (cb *Clipboard) Copy(id SlotID) bool { return cb.record(id) }

func (cb *Clipboard) record(id SlotID) bool {
	p, ok := cb.canvas.Lookup(id)
	if !ok {
		return false
	}
	cb.slot, cb.typ, cb.full = id, p.Type, true
	cb.canvas.log.Debug("clipboard set", slog.Int64("slot", int64(id)), slog.String("type", p.Type.String()))
	return true
}

// Paste places a new widget of the recorded type at target. An empty
// clipboard is a no-op reporting ok=false.
func (cb *Clipboard) Paste(target Point) (SlotID, bool, error) {
	if !cb.full {
		return 0, false, nil
	}
	id, err := cb.canvas.PlaceAt(cb.typ, target)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Entry returns the recorded slot and type. The slot may no longer exist
// after a cut.
func (cb *Clipboard) Entry() (SlotID, widgets.Type, error) {
	if !cb.full {
		return 0, 0, ErrMissingClipboard
	}
	return cb.slot, cb.typ, nil
}

func (cb *Clipboard) Empty() bool { return !cb.full }
