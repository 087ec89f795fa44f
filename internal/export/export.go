/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders wireframe previews of a design: one labelled box
// per widget at its canvas position, as PDF or PNG.
package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"formdesigner/internal/codegen"
	"formdesigner/internal/metrics"
	"formdesigner/internal/widgets"
)

// Options control preview rendering. Zero values select defaults.
type Options struct {
	Title  string
	Width  int // canvas width in canvas units
	Height int
	// Scale is PNG pixels per canvas unit.
	Scale float64
	// Grid draws a 50 unit guide grid.
	Grid       bool
	Stroke     color.RGBA
	Fill       color.RGBA
	GridColor  color.RGBA
	LabelColor color.RGBA
	Background color.RGBA
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Generated Application"
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	zero := color.RGBA{}
	if o.Stroke == zero {
		o.Stroke = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	}
	if o.Fill == zero {
		o.Fill = color.RGBA{R: 235, G: 238, B: 242, A: 255}
	}
	if o.GridColor == zero {
		o.GridColor = color.RGBA{R: 225, G: 225, B: 225, A: 255}
	}
	if o.LabelColor == zero {
		o.LabelColor = color.RGBA{A: 255}
	}
	if o.Background == zero {
		o.Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return o
}

const gridStep = 50

// box is one widget's wireframe.
type box struct {
	Type  widgets.Type
	Label string
	R     metrics.Rect
}

// layout resolves the boxes to draw in canvas order. Unresolvable slots are
// skipped the same way code export skips them.
func layout(src codegen.Source) []box {
	var out []box
	for _, p := range src.Widgets() {
		pos, ok := src.Coords(p.Slot)
		if !ok {
			continue
		}
		st := p.Handle.State()
		out = append(out, box{Type: p.Type, Label: Caption(st), R: metrics.Bounds(st, pos.X, pos.Y)})
	}
	return out
}

// Caption is the label drawn inside a widget's box.
func Caption(st widgets.State) string {
	switch st.Type {
	case widgets.Combobox:
		if len(st.Values) > 0 {
			return fmt.Sprintf("%s [%s]", st.Type, st.Values[0])
		}
	case widgets.Spinbox:
		return fmt.Sprintf("%s %g..%g", st.Type, st.From, st.To)
	case widgets.Listbox:
		return fmt.Sprintf("%s (%d items)", st.Type, len(st.Items))
	case widgets.Text:
		return fmt.Sprintf("%s %dx%d", st.Type, st.Cols, st.Rows)
	}
	if st.Text != "" {
		return fmt.Sprintf("%s: %s", st.Type, st.Text)
	}
	return st.Type.String()
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	return nil
}
