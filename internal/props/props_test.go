/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package props

import (
	"errors"
	"slices"
	"testing"

	"formdesigner/internal/widgets"
)

func newWidget(t *testing.T, typ widgets.Type) *widgets.Instance {
	t.Helper()
	w, err := widgets.Default.New(typ)
	if err != nil {
		t.Fatalf("New(%v): %v", typ, err)
	}
	return w
}

func TestOpenListsSupportedKeys(t *testing.T) {
	cases := []struct {
		typ  widgets.Type
		want string
	}{
		{widgets.Button, "text: Button\n"},
		{widgets.Label, "text: Label\nforeground: \nfont: TkDefaultFont\n"},
		{widgets.Entry, "text: \nforeground: \nfont: TkDefaultFont\n"},
		{widgets.Radiobutton, "text: Radiobutton\n"},
		{widgets.Listbox, ""},
		{widgets.Spinbox, ""},
	}
	for _, c := range cases {
		if got := Open(newWidget(t, c.typ)); got != c.want {
			t.Errorf("Open(%v) = %q, want %q", c.typ, got, c.want)
		}
	}
}

func TestApplyTextAndFont(t *testing.T) {
	w := newWidget(t, widgets.Label)
	if errs := Apply(w, "text: Hello\nfont: Arial 12 bold\n"); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	st := w.State()
	if st.Text != "Hello" {
		t.Fatalf("text = %q", st.Text)
	}
	if !slices.Equal(st.Font, []string{"Arial", "12", "bold"}) {
		t.Fatalf("font = %v", st.Font)
	}
}

func TestOpenApplyRoundTripIsIdentity(t *testing.T) {
	w := newWidget(t, widgets.Entry)
	Apply(w, "text: user name\nforeground: #336699\nfont: Helvetica 10")
	before := w.State()
	if errs := Apply(w, Open(w)); len(errs) != 0 {
		t.Fatalf("round trip errors: %v", errs)
	}
	after := w.State()
	if before.Text != after.Text || before.Foreground != after.Foreground || !slices.Equal(before.Font, after.Font) {
		t.Fatalf("round trip changed state: %+v -> %+v", before, after)
	}
}

func TestApplyUnsupportedKeyKeepsOtherLines(t *testing.T) {
	w := newWidget(t, widgets.Button)
	errs := Apply(w, "text: A\nfont: Arial 10\ntext: B")
	if len(errs) != 1 || !errors.Is(errs[0], widgets.ErrUnsupportedProperty) {
		t.Fatalf("expected one ErrUnsupportedProperty, got %v", errs)
	}
	if w.State().Text != "B" {
		t.Fatalf("later line not applied: %q", w.State().Text)
	}
}

func TestParseSkipsLinesWithoutSeparator(t *testing.T) {
	got := Parse("garbage\n\ntext: a: b\r\nforeground:\n  \n: x\nfont: ")
	want := []Line{
		{No: 3, Key: "text", Value: "a: b"},
		{No: 7, Key: "font", Value: ""},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Parse = %+v, want %+v", got, want)
	}
}

func TestApplyIgnoresBareKeys(t *testing.T) {
	w := newWidget(t, widgets.Label)
	if errs := Apply(w, "foreground: red\ntext: Hello"); len(errs) != 0 {
		t.Fatal(errs)
	}
	if errs := Apply(w, "foreground:\ntext:"); len(errs) != 0 {
		t.Fatal(errs)
	}
	st := w.State()
	if st.Foreground != "red" || st.Text != "Hello" {
		t.Fatalf("bare keys changed state: foreground=%q text=%q", st.Foreground, st.Text)
	}
}

func TestApplyEmptyFontResetsToDefault(t *testing.T) {
	w := newWidget(t, widgets.Label)
	Apply(w, "font: Arial 9")
	Apply(w, "font: ")
	if !slices.Equal(w.State().Font, widgets.DefaultFont) {
		t.Fatalf("font = %v", w.State().Font)
	}
}
