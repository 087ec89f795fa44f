/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package codegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"formdesigner/internal/designer"
	"formdesigner/internal/widgets"
)

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(widgets.Default)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func generate(t *testing.T, src Source) string {
	t.Helper()
	return newGenerator(t).Generate(src, DefaultOptions())
}

func TestGenerateButtonAtDefaultPosition(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	if _, err := c.Place(widgets.Button); err != nil {
		t.Fatal(err)
	}
	out := generate(t, c)
	ctor := "button_1 = ttk.Button(canvas, text='Button')\n"
	place := "canvas.create_window(50.0, 50.0, window=button_1, anchor='nw')\n"
	i, j := strings.Index(out, ctor), strings.Index(out, place)
	if i < 0 || j < 0 || j < i {
		t.Fatalf("construction/placement missing or out of order:\n%s", out)
	}
	for _, want := range []string{
		"import sv_ttk\n",
		"root.title('Generated Application')\n",
		"sv_ttk.set_theme('light')\n",
		"canvas = tk.Canvas(root, bg='white', width=800, height=600)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "root.mainloop()\n") {
		t.Fatalf("program does not end with mainloop:\n%s", out)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	for _, typ := range widgets.Types() {
		c.Place(typ)
	}
	if a, b := generate(t, c), generate(t, c); a != b {
		t.Fatalf("outputs differ")
	}
}

func TestGenerateReadsLiveContent(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	lb, _ := c.Place(widgets.Listbox)
	tx, _ := c.PlaceAt(widgets.Text, designer.Point{X: 10.5, Y: 20})
	p, _ := c.Lookup(lb)
	inst := p.Handle.(*widgets.Instance)
	inst.InsertItem("it's")
	pt, _ := c.Lookup(tx)
	pt.Handle.(*widgets.Instance).SetContent("one\ntwo\n")

	out := generate(t, c)
	for _, want := range []string{
		"listbox_1 = tk.Listbox(canvas)\n",
		"listbox_1.insert(tk.END, 'Item 1')\n",
		"listbox_1.insert(tk.END, 'Item 3')\n",
		`listbox_1.insert(tk.END, 'it\'s')` + "\n",
		"text_1 = tk.Text(canvas, height=4, width=20)\n",
		`text_1.insert(tk.END, 'one\n')` + "\n",
		"text_1.insert(tk.END, 'two')\n",
		"canvas.create_window(10.5, 20.0, window=text_1, anchor='nw')\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGenerateNumbersVariablesPerType(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	c.Place(widgets.Button)
	c.Place(widgets.Label)
	c.Place(widgets.Button)
	out := generate(t, c)
	for _, want := range []string{"window=button_1,", "window=label_1,", "window=button_2,"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestGenerateStyledLabelAndEntry(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	lid, _ := c.Place(widgets.Label)
	eid, _ := c.Place(widgets.Entry)
	lp, _ := c.Lookup(lid)
	lp.Handle.Set(widgets.KeyForeground, widgets.StringValue("red"))
	lp.Handle.Set(widgets.KeyFont, widgets.TokenValue("Arial", "12", "bold"))
	ep, _ := c.Lookup(eid)
	ep.Handle.Set(widgets.KeyText, widgets.StringValue("name"))

	out := generate(t, c)
	for _, want := range []string{
		"label_1 = ttk.Label(canvas, text='Label', foreground='red', font=('Arial', '12', 'bold'))\n",
		"entry_1 = ttk.Entry(canvas)\n",
		"entry_1.insert(0, 'name')\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGenerateCatalogDefaults(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	c.Place(widgets.Combobox)
	c.Place(widgets.Spinbox)
	out := generate(t, c)
	for _, want := range []string{
		"combobox_1 = ttk.Combobox(canvas, values=('Option 1', 'Option 2', 'Option 3'))\n",
		"spinbox_1 = ttk.Spinbox(canvas, from_=0.0, to=10.0)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

// staleSource reports a widget whose slot no longer resolves.
type staleSource struct {
	*designer.Canvas
	stale designer.SlotID
}

func (s staleSource) Coords(id designer.SlotID) (designer.Point, bool) {
	if id == s.stale {
		return designer.Point{}, false
	}
	return s.Canvas.Coords(id)
}

func TestGenerateSkipsUnresolvedSlots(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	a, _ := c.Place(widgets.Label)
	c.Place(widgets.Button)
	g, err := New(widgets.Default)
	if err != nil {
		t.Fatal(err)
	}
	out, st := g.Render(staleSource{Canvas: c, stale: a}, DefaultOptions())
	if strings.Contains(out, "ttk.Label") {
		t.Fatalf("stale widget exported:\n%s", out)
	}
	if !strings.Contains(out, "button_1 = ttk.Button") || st.Emitted != 1 || st.Skipped != 1 {
		t.Fatalf("unexpected render: %+v\n%s", st, out)
	}
}

func TestExportWritesFileAndHonoursCancel(t *testing.T) {
	c := designer.NewCanvas(designer.Config{})
	c.Place(widgets.Button)
	path := filepath.Join(t.TempDir(), "app.py")
	res, err := newGenerator(t).Export(context.Background(), c, DefaultOptions(), FileSaver(path))
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(b), "button_1") {
		t.Fatalf("file not written: %v", err)
	}
	if res.Path != path || res.Emitted != 1 || len(res.Checksum) != 64 {
		t.Fatalf("unexpected result: %+v", res)
	}

	res, err = newGenerator(t).Export(context.Background(), c, DefaultOptions(), FileSaver(""))
	if err != nil || res.Path != "" {
		t.Fatalf("cancelled export should be a no-op: %+v %v", res, err)
	}

	boom := errors.New("disk full")
	_, err = newGenerator(t).Export(context.Background(), c, DefaultOptions(), func(context.Context, string) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
}

func TestPythonLiterals(t *testing.T) {
	cases := map[string]string{
		"plain":      "'plain'",
		`back\slash`: `'back\\slash'`,
		"tab\there":  `'tab\there'`,
		"bell\a":     `'bell\x07'`,
		"größe":      "'größe'",
	}
	for in, want := range cases {
		if got := PyString(in); got != want {
			t.Errorf("PyString(%q) = %s, want %s", in, got, want)
		}
	}
	if PyTuple([]string{"a"}) != "('a',)" || PyTuple(nil) != "()" {
		t.Errorf("tuple rendering wrong")
	}
	for f, want := range map[float64]string{50: "50.0", -3.25: "-3.25", 0: "0.0"} {
		if got := PyFloat(f); got != want {
			t.Errorf("PyFloat(%v) = %s, want %s", f, got, want)
		}
	}
}
