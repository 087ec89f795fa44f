/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widgets

import (
	"fmt"
	"slices"
	"strings"
)

// State is the full live content of one widget. Fields that do not apply to
// the widget's type stay zero.
type State struct {
	Type       Type     `json:"type"`
	Text       string   `json:"text,omitempty"`
	Foreground string   `json:"foreground,omitempty"`
	Font       []string `json:"font,omitempty"`
	Values     []string `json:"values,omitempty"` // Combobox
	From       float64  `json:"from,omitempty"`   // Spinbox
	To         float64  `json:"to,omitempty"`     // Spinbox
	Items      []string `json:"items,omitempty"`  // Listbox
	Content    string   `json:"content,omitempty"`
	Rows       int      `json:"rows,omitempty"` // Text
	Cols       int      `json:"cols,omitempty"` // Text
}

func (s State) clone() State {
	c := s
	c.Font = slices.Clone(s.Font)
	c.Values = slices.Clone(s.Values)
	c.Items = slices.Clone(s.Items)
	return c
}

// Handle is an opaque live widget. Callers query capabilities with Supports
// instead of inspecting the concrete type.
type Handle interface {
	Type() Type
	Supports(key string) bool
	Get(key string) (Value, error)
	Set(key string, v Value) error
	// State snapshots the current content, read at export time.
	State() State
	Destroy()
}

// Instance is the in-memory Handle used by the designer. The desktop shell
// mirrors user edits (typed entry text, list content) back into it.
type Instance struct {
	state     State
	keys      []string
	destroyed bool
}

var _ Handle = (*Instance)(nil)

func (w *Instance) Type() Type { return w.state.Type }

// Keys returns the editable property keys in display order.
func (w *Instance) Keys() []string { return slices.Clone(w.keys) }

func (w *Instance) Supports(key string) bool {
	return slices.Contains(w.keys, key)
}

func (w *Instance) Get(key string) (Value, error) {
	if !w.Supports(key) {
		return Value{}, fmt.Errorf("%w: %q on %s", ErrUnsupportedProperty, key, w.state.Type)
	}
	switch key {
	case KeyText:
		return StringValue(w.state.Text), nil
	case KeyForeground:
		return StringValue(w.state.Foreground), nil
	case KeyFont:
		return TokenValue(w.state.Font...), nil
	}
	return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedProperty, key)
}

func (w *Instance) Set(key string, v Value) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if !w.Supports(key) {
		return fmt.Errorf("%w: %q on %s", ErrUnsupportedProperty, key, w.state.Type)
	}
	switch key {
	case KeyText:
		w.state.Text = v.String()
	case KeyForeground:
		w.state.Foreground = strings.TrimSpace(v.String())
	case KeyFont:
		w.state.Font = v.Tokens()
	}
	return nil
}

func (w *Instance) State() State { return w.state.clone() }

// Destroy releases the widget; later mutations fail with ErrDestroyed.
func (w *Instance) Destroy() { w.destroyed = true }

func (w *Instance) Destroyed() bool { return w.destroyed }

// SetContent replaces a Text widget's content.
func (w *Instance) SetContent(s string) error {
	if err := w.require(Text); err != nil {
		return err
	}
	w.state.Content = s
	return nil
}

// InsertItem appends an entry to a Listbox.
func (w *Instance) InsertItem(item string) error {
	if err := w.require(Listbox); err != nil {
		return err
	}
	w.state.Items = append(w.state.Items, item)
	return nil
}

// DeleteItem removes the Listbox entry at index i; out of range is a no-op.
func (w *Instance) DeleteItem(i int) error {
	if err := w.require(Listbox); err != nil {
		return err
	}
	if i >= 0 && i < len(w.state.Items) {
		w.state.Items = slices.Delete(w.state.Items, i, i+1)
	}
	return nil
}

// SetValues replaces a Combobox's option list.
func (w *Instance) SetValues(values []string) error {
	if err := w.require(Combobox); err != nil {
		return err
	}
	w.state.Values = slices.Clone(values)
	return nil
}

// SetRange sets a Spinbox's bounds.
func (w *Instance) SetRange(from, to float64) error {
	if err := w.require(Spinbox); err != nil {
		return err
	}
	if from > to {
		return fmt.Errorf("widgets: spinbox range %v > %v", from, to)
	}
	w.state.From, w.state.To = from, to
	return nil
}

func (w *Instance) require(t Type) error {
	if w.destroyed {
		return ErrDestroyed
	}
	if w.state.Type != t {
		return fmt.Errorf("widgets: %s is not a %s", w.state.Type, t)
	}
	return nil
}
