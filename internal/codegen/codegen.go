/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package codegen turns a canvas into a Python program that rebuilds the same
// form with tkinter and the Sun Valley ttk theme.
package codegen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"text/template"

	"formdesigner/internal/designer"
	applog "formdesigner/internal/log"
	"formdesigner/internal/storage"
	"formdesigner/internal/widgets"
)

// Source is the read side of a canvas. *designer.Canvas implements it.
type Source interface {
	Widgets() []*designer.Placed
	Coords(id designer.SlotID) (designer.Point, bool)
}

var _ Source = (*designer.Canvas)(nil)

// Options shape the program boilerplate.
type Options struct {
	Title  string
	Theme  string
	Width  int
	Height int
}

func DefaultOptions() Options {
	return Options{Title: "Generated Application", Theme: "light", Width: 800, Height: 600}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Theme == "" {
		o.Theme = d.Theme
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// Generator renders widgets through the catalog's templates.
type Generator struct {
	catalog *widgets.Catalog
	tmpl    map[widgets.Type]*template.Template
}

var funcs = template.FuncMap{
	"py":      PyString,
	"pytuple": PyTuple,
	"pyfloat": PyFloat,
}

// New parses the templates of every catalog entry.
func New(cat *widgets.Catalog) (*Generator, error) {
	g := &Generator{catalog: cat, tmpl: make(map[widgets.Type]*template.Template)}
	for _, t := range cat.Types() {
		e, err := cat.Lookup(t)
		if err != nil {
			return nil, err
		}
		tp, err := template.New(t.String()).Funcs(funcs).Option("missingkey=error").Parse(e.Template)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", t, err)
		}
		g.tmpl[t] = tp
	}
	return g, nil
}

// tmplData is what catalog templates see.
type tmplData struct {
	widgets.State
	Var        string
	Lines      []string
	CustomFont bool
}

// Stats summarises one rendering.
type Stats struct {
	Emitted int
	Skipped int
}

// Generate renders the program. Widgets are emitted in canvas order with the
// state their handles report now. A widget whose position cannot be resolved
// is skipped.
func (g *Generator) Generate(src Source, opt Options) string {
	text, _ := g.Render(src, opt)
	return text
}

// Render is Generate with counts.
func (g *Generator) Render(src Source, opt Options) (string, Stats) {
	opt = opt.withDefaults()
	l := applog.WithComponent("codegen")
	var (
		b     strings.Builder
		st    Stats
		count = map[widgets.Type]int{}
	)
	writeHeader(&b, opt)
	for _, p := range src.Widgets() {
		pos, ok := src.Coords(p.Slot)
		if !ok {
			l.Warn("skipping widget without position", slog.Int64("slot", int64(p.Slot)))
			st.Skipped++
			continue
		}
		tp, ok := g.tmpl[p.Type]
		if !ok {
			l.Warn("skipping widget without template", slog.String("type", p.Type.String()))
			st.Skipped++
			continue
		}
		count[p.Type]++
		name := fmt.Sprintf("%s_%d", widgets.VarName(p.Type), count[p.Type])
		var buf bytes.Buffer
		if err := tp.Execute(&buf, newData(name, p.Handle.State())); err != nil {
			l.Error("template failed", slog.String("type", p.Type.String()), slog.Any("err", err))
			count[p.Type]--
			st.Skipped++
			continue
		}
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "canvas.create_window(%s, %s, window=%s, anchor='nw')\n", PyFloat(pos.X), PyFloat(pos.Y), name)
		st.Emitted++
	}
	b.WriteString("\nroot.mainloop()\n")
	return b.String(), st
}

func writeHeader(b *strings.Builder, opt Options) {
	lines := []string{
		"import tkinter as tk",
		"from tkinter import ttk",
		"import sv_ttk",
		"",
		"root = tk.Tk()",
		"root.title(" + PyString(opt.Title) + ")",
		"",
		"# Apply Sun Valley theme",
		"sv_ttk.set_theme(" + PyString(opt.Theme) + ")",
		"",
		fmt.Sprintf("canvas = tk.Canvas(root, bg='white', width=%d, height=%d)", opt.Width, opt.Height),
		"canvas.pack(fill=tk.BOTH, expand=True)",
		"",
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func newData(name string, st widgets.State) tmplData {
	return tmplData{
		State:      st,
		Var:        name,
		Lines:      textLines(st.Content),
		CustomFont: len(st.Font) > 0 && !slices.Equal(st.Font, widgets.DefaultFont),
	}
}

// textLines splits Text content into insertion chunks. Every chunk but the
// last keeps its newline; trailing newlines are dropped.
func textLines(content string) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}
	parts := strings.Split(content, "\n")
	for i := 0; i < len(parts)-1; i++ {
		parts[i] += "\n"
	}
	return parts
}

// SaveFunc stores generated text. It returns the path written, or "" when
// the user cancelled.
type SaveFunc func(ctx context.Context, text string) (string, error)

// Result describes a finished export.
type Result struct {
	Path     string
	Checksum string
	Stats
}

// Export renders src and hands the text to save. A cancelled save yields a
// zero Result and no error.
func (g *Generator) Export(ctx context.Context, src Source, opt Options, save SaveFunc) (Result, error) {
	text, st := g.Render(src, opt)
	path, err := save(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("save generated code: %w", err)
	}
	if path == "" {
		return Result{}, nil
	}
	applog.WithComponent("codegen").Info("exported", slog.String("path", path),
		slog.Int("widgets", st.Emitted), slog.Int("skipped", st.Skipped))
	return Result{Path: path, Checksum: storage.Checksum(text), Stats: st}, nil
}

// FileSaver writes to a fixed path. An empty path means cancelled.
func FileSaver(path string) SaveFunc {
	return func(ctx context.Context, text string) (string, error) {
		if path == "" {
			return "", nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := storage.WriteFileAtomic(path, []byte(text)); err != nil {
			return "", err
		}
		return path, nil
	}
}
