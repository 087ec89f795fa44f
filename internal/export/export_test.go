/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"formdesigner/internal/designer"
	"formdesigner/internal/widgets"
)

func sampleCanvas(t *testing.T) *designer.Canvas {
	t.Helper()
	c := designer.NewCanvas(designer.Config{})
	for _, typ := range []widgets.Type{widgets.Button, widgets.Label, widgets.Listbox} {
		if _, err := c.Place(typ); err != nil {
			t.Fatal(err)
		}
	}
	id, _ := c.PlaceAt(widgets.Text, designer.Point{X: 300, Y: 200})
	p, _ := c.Lookup(id)
	p.Handle.(*widgets.Instance).SetContent("Grüße")
	return c
}

func TestExportPDF_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "previews", "form.pdf")
	if err := ExportPDF(sampleCanvas(t), out, Options{Grid: true}); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}
}

func TestExportPNG_SizeAndBoxes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "form.png")
	if err := ExportPNG(sampleCanvas(t), out, Options{Scale: 0.5}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestRenderPNG_DrawsWidgetOutline(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	c.Place(widgets.Button)
	stroke := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	img := RenderPNG(c, Options{Stroke: stroke})
	if got := img.RGBAAt(50, 50); got != stroke {
		t.Fatalf("expected outline at widget origin, got %v", got)
	}
	if got := img.RGBAAt(10, 10); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("expected background away from widgets, got %v", got)
	}
}

func TestCaption(t *testing.T) {
	cases := []struct {
		st   widgets.State
		want string
	}{
		{widgets.State{Type: widgets.Button, Text: "OK"}, "Button: OK"},
		{widgets.State{Type: widgets.Entry}, "Entry"},
		{widgets.State{Type: widgets.Listbox, Items: []string{"a", "b"}}, "Listbox (2 items)"},
		{widgets.State{Type: widgets.Spinbox, From: 0, To: 10}, "Spinbox 0..10"},
		{widgets.State{Type: widgets.Text, Rows: 4, Cols: 20}, "Text 20x4"},
		{widgets.State{Type: widgets.Combobox, Values: []string{"x"}}, "Combobox [x]"},
	}
	for _, c := range cases {
		if got := Caption(c.st); got != c.want {
			t.Errorf("Caption(%v) = %q, want %q", c.st.Type, got, c.want)
		}
	}
}
