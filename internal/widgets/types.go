/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package widgets holds the widget catalog: the fixed set of widget types the
// designer can place, their default properties, the property keys each type
// accepts, and the code template each type exports to. Placement, paste and
// export all resolve a type through the same Catalog.
package widgets

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownWidgetType   = errors.New("widgets: unknown widget type")
	ErrUnsupportedProperty = errors.New("widgets: unsupported property")
	ErrDestroyed           = errors.New("widgets: widget destroyed")
)

// Type tags a widget kind. The zero value is not a valid type.
type Type int

const (
	Button Type = iota + 1
	Label
	Entry
	Checkbutton
	Radiobutton
	Combobox
	Spinbox
	Listbox
	Text
)

var typeNames = map[Type]string{
	Button:      "Button",
	Label:       "Label",
	Entry:       "Entry",
	Checkbutton: "Checkbutton",
	Radiobutton: "Radiobutton",
	Combobox:    "Combobox",
	Spinbox:     "Spinbox",
	Listbox:     "Listbox",
	Text:        "Text",
}

// Types lists every supported type in menu order.
func Types() []Type {
	return []Type{Button, Label, Entry, Checkbutton, Radiobutton, Combobox, Spinbox, Listbox, Text}
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is one of the catalog types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType resolves a type name case-insensitively.
func ParseType(name string) (Type, error) {
	n := strings.TrimSpace(name)
	for _, t := range Types() {
		if strings.EqualFold(typeNames[t], n) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWidgetType, name)
}

// MarshalText encodes the type by name, which keeps design documents readable.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWidgetType, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Property keys surfaced by the property editor.
const (
	KeyText       = "text"
	KeyForeground = "foreground"
	KeyFont       = "font"
)

// DefaultFont is the font token list a Label or Entry starts with.
var DefaultFont = []string{"TkDefaultFont"}
