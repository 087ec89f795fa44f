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

// Factory builds a new widget with its type's defaults.
type Factory func() *Instance

// CatalogEntry is one catalog row.
//
// Template is a text/template producing the construction statement and any
// content insertions for the exported program. It sees .Var, the widget State
// fields, .Lines (Text content split for insertion) and .CustomFont, plus the
// functions py, pytuple and pyfloat supplied by the code generator.
type CatalogEntry struct {
	Type     Type
	Keys     []string
	Defaults func() State
	Template string
}

// Catalog maps widget types to their construction and export behaviour.
type Catalog struct {
	entries map[Type]CatalogEntry
}

// NewCatalog returns the built-in catalog.
func NewCatalog() *Catalog {
	c := &Catalog{entries: make(map[Type]CatalogEntry, len(typeNames))}
	for _, e := range builtin() {
		c.entries[e.Type] = e
	}
	return c
}

// Default is the shared built-in catalog.
var Default = NewCatalog()

// Lookup returns the entry for t.
func (c *Catalog) Lookup(t Type) (CatalogEntry, error) {
	e, ok := c.entries[t]
	if !ok {
		return CatalogEntry{}, fmt.Errorf("%w: %s", ErrUnknownWidgetType, t)
	}
	return e, nil
}

// Factory returns the constructor for t.
func (c *Catalog) Factory(t Type) (Factory, error) {
	e, err := c.Lookup(t)
	if err != nil {
		return nil, err
	}
	return func() *Instance {
		st := e.Defaults()
		st.Type = e.Type
		return &Instance{state: st, keys: slices.Clone(e.Keys)}
	}, nil
}

// New constructs a widget of type t with default properties.
func (c *Catalog) New(t Type) (*Instance, error) {
	f, err := c.Factory(t)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// Restore rebuilds a widget from a saved State. Fields that do not apply to
// the type are dropped.
func (c *Catalog) Restore(st State) (*Instance, error) {
	w, err := c.New(st.Type)
	if err != nil {
		return nil, err
	}
	switch st.Type {
	case Button, Checkbutton, Radiobutton:
		w.state.Text = st.Text
	case Label, Entry:
		w.state.Text = st.Text
		w.state.Foreground = st.Foreground
		if len(st.Font) > 0 {
			w.state.Font = slices.Clone(st.Font)
		}
	case Combobox:
		w.state.Values = slices.Clone(st.Values)
	case Spinbox:
		if st.From > st.To {
			return nil, fmt.Errorf("widgets: spinbox range %v > %v", st.From, st.To)
		}
		w.state.From, w.state.To = st.From, st.To
	case Listbox:
		w.state.Items = slices.Clone(st.Items)
	case Text:
		w.state.Content = st.Content
		if st.Rows > 0 {
			w.state.Rows = st.Rows
		}
		if st.Cols > 0 {
			w.state.Cols = st.Cols
		}
	}
	return w, nil
}

// Types lists the catalog's types in menu order.
func (c *Catalog) Types() []Type {
	out := make([]Type, 0, len(c.entries))
	for _, t := range Types() {
		if _, ok := c.entries[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// VarName is the identifier stem used for a widget in exported code.
func VarName(t Type) string { return strings.ToLower(t.String()) }

const fontOpts = `{{with .Foreground}}, foreground={{py .}}{{end}}{{if .CustomFont}}, font={{pytuple .Font}}{{end}}`

func builtin() []CatalogEntry {
	textOnly := []string{KeyText}
	styled := []string{KeyText, KeyForeground, KeyFont}
	named := func(t Type) func() State {
		return func() State { return State{Text: t.String()} }
	}
	styledNamed := func(t Type) func() State {
		return func() State { return State{Text: t.String(), Font: slices.Clone(DefaultFont)} }
	}
	return []CatalogEntry{
		{
			Type: Button, Keys: textOnly, Defaults: named(Button),
			Template: `{{.Var}} = ttk.Button(canvas, text={{py .Text}})`,
		},
		{
			Type: Label, Keys: styled, Defaults: styledNamed(Label),
			Template: `{{.Var}} = ttk.Label(canvas, text={{py .Text}}` + fontOpts + `)`,
		},
		{
			Type: Entry, Keys: styled,
			Defaults: func() State { return State{Font: slices.Clone(DefaultFont)} },
			Template: `{{.Var}} = ttk.Entry(canvas` + fontOpts + `)
{{with .Text}}{{$.Var}}.insert(0, {{py .}}){{end}}`,
		},
		{
			Type: Checkbutton, Keys: textOnly, Defaults: named(Checkbutton),
			Template: `{{.Var}} = ttk.Checkbutton(canvas, text={{py .Text}})`,
		},
		{
			Type: Radiobutton, Keys: textOnly, Defaults: named(Radiobutton),
			Template: `{{.Var}} = ttk.Radiobutton(canvas, text={{py .Text}})`,
		},
		{
			Type: Combobox,
			Defaults: func() State {
				return State{Values: []string{"Option 1", "Option 2", "Option 3"}}
			},
			Template: `{{.Var}} = ttk.Combobox(canvas, values={{pytuple .Values}})`,
		},
		{
			Type:     Spinbox,
			Defaults: func() State { return State{From: 0, To: 10} },
			Template: `{{.Var}} = ttk.Spinbox(canvas, from_={{pyfloat .From}}, to={{pyfloat .To}})`,
		},
		{
			Type: Listbox,
			Defaults: func() State {
				return State{Items: []string{"Item 1", "Item 2", "Item 3"}}
			},
			Template: `{{.Var}} = tk.Listbox(canvas)
{{range .Items}}{{$.Var}}.insert(tk.END, {{py .}})
{{end}}`,
		},
		{
			Type:     Text,
			Defaults: func() State { return State{Rows: 4, Cols: 20} },
			Template: `{{.Var}} = tk.Text(canvas, height={{.Rows}}, width={{.Cols}})
{{range .Lines}}{{$.Var}}.insert(tk.END, {{py .}})
{{end}}`,
		},
	}
}
