/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package metrics estimates how large a widget renders on the canvas. The
// numbers approximate Tk's themed widgets using the 7x13 bitmap face, which
// keeps hit testing and wireframe previews deterministic across platforms.
package metrics

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"formdesigner/internal/widgets"
)

// Face is the face used for every measurement.
var Face font.Face = basicfont.Face7x13

const (
	padX      = 8
	lineGap   = 2
	indicator = 20 // check/radio box plus spacing
	arrow     = 20 // combobox/spinbox button
	charCols  = 20 // Tk default width for entries and lists
	listRows  = 10 // Tk default listbox height
)

// Rect is an axis-aligned box in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Distance is the euclidean distance from (x,y) to the nearest edge; zero inside.
func (r Rect) Distance(x, y float64) float64 {
	dx := math.Max(math.Max(r.X-x, 0), x-(r.X+r.W))
	dy := math.Max(math.Max(r.Y-y, 0), y-(r.Y+r.H))
	return math.Hypot(dx, dy)
}

// TextWidth measures s in pixels with Face.
func TextWidth(s string) float64 {
	return float64(font.MeasureString(Face, s).Ceil())
}

// LineHeight is the pixel height of one text line.
func LineHeight() float64 {
	return float64(Face.Metrics().Height.Ceil())
}

func charWidth() float64 { return TextWidth("0") }

// Size returns the estimated on-screen width and height of a widget.
func Size(st widgets.State) (w, h float64) {
	lh := LineHeight()
	row := lh + padX + lineGap
	switch st.Type {
	case widgets.Button:
		return math.Max(TextWidth(st.Text), 11*charWidth()) + 2*padX, row + 6
	case widgets.Label:
		return math.Max(TextWidth(st.Text), charWidth()) + 4, lh + 4
	case widgets.Entry:
		return charCols*charWidth() + padX, row
	case widgets.Checkbutton, widgets.Radiobutton:
		return indicator + TextWidth(st.Text) + padX, row
	case widgets.Combobox, widgets.Spinbox:
		return charCols*charWidth() + arrow + padX, row
	case widgets.Listbox:
		return charCols*charWidth() + padX, listRows*(lh+lineGap) + padX
	case widgets.Text:
		rows, cols := st.Rows, st.Cols
		if rows <= 0 {
			rows = 1
		}
		if cols <= 0 {
			cols = 1
		}
		return float64(cols)*charWidth() + padX, float64(rows)*(lh+lineGap) + padX
	}
	return 0, 0
}

// Bounds places the widget's size at (x,y), its top-left anchor.
func Bounds(st widgets.State, x, y float64) Rect {
	w, h := Size(st)
	return Rect{X: x, Y: y, W: w, H: h}
}
