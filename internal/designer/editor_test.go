/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package designer

import (
	"errors"
	"testing"

	"formdesigner/internal/storage"
	"formdesigner/internal/widgets"
)

func TestDragMovesByPointerDelta(t *testing.T) {
	e := NewEditor(NewCanvas(Config{}))
	id, _ := e.Add(widgets.Button)
	e.Press(Point{X: 55, Y: 55})
	if got, ok := e.Dragging(); !ok || got != id {
		t.Fatalf("press did not start a drag on %v", id)
	}
	e.Drag(Point{X: 65, Y: 60})
	e.Drag(Point{X: 75, Y: 80})
	e.Release()
	pos, _ := e.Canvas.Coords(id)
	if pos != (Point{X: 70, Y: 75}) {
		t.Fatalf("unexpected position %v", pos)
	}
	if _, ok := e.Dragging(); ok {
		t.Fatalf("release did not clear the active widget")
	}
	if e.Pointer() != (Point{X: 75, Y: 80}) {
		t.Fatalf("pointer not kept after release: %v", e.Pointer())
	}
}

func TestDragAfterDeleteIsHarmless(t *testing.T) {
	e := NewEditor(NewCanvas(Config{}))
	id, _ := e.Add(widgets.Button)
	e.PressOn(id, Point{X: 50, Y: 50})
	e.Canvas.Remove(id)
	e.Drag(Point{X: 90, Y: 90})
	if e.Canvas.Len() != 0 {
		t.Fatalf("drag resurrected a widget")
	}
}

func TestEditorCutPasteAtPointer(t *testing.T) {
	e := NewEditor(NewCanvas(Config{}))
	id, _ := e.Add(widgets.Listbox)
	e.PressOn(id, Point{X: 60, Y: 60})
	e.Release()
	if err := e.Cut(); err != nil {
		t.Fatalf("Cut error: %v", err)
	}
	e.Track(Point{X: 300, Y: 200})
	nid, err := e.Paste()
	if err != nil {
		t.Fatalf("Paste error: %v", err)
	}
	pos, _ := e.Canvas.Coords(nid)
	if pos != (Point{X: 300, Y: 200}) {
		t.Fatalf("paste not at pointer: %v", pos)
	}
	if sel, ok := e.Selected(); !ok || sel != nid {
		t.Fatalf("pasted widget not selected")
	}
}

func TestEditorWithoutSelection(t *testing.T) {
	e := NewEditor(NewCanvas(Config{}))
	if err := e.Cut(); !errors.Is(err, ErrStaleReference) {
		t.Fatalf("expected ErrStaleReference, got %v", err)
	}
	if err := e.Delete(); !errors.Is(err, ErrStaleReference) {
		t.Fatalf("expected ErrStaleReference, got %v", err)
	}
	if _, err := e.Paste(); !errors.Is(err, ErrMissingClipboard) {
		t.Fatalf("expected ErrMissingClipboard, got %v", err)
	}
}

func TestEditorDeleteSelection(t *testing.T) {
	e := NewEditor(NewCanvas(Config{}))
	e.Add(widgets.Button)
	second, _ := e.Add(widgets.Label)
	if err := e.Delete(); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Canvas.Lookup(second); ok || e.Canvas.Len() != 1 {
		t.Fatalf("delete removed the wrong widget")
	}
	if err := e.Copy(); !errors.Is(err, ErrStaleReference) {
		t.Fatalf("selection should be cleared after delete, got %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := NewCanvas(Config{})
	a, _ := c.Place(widgets.Label)
	c.MoveBy(a, 10, 20)
	pa, _ := c.Lookup(a)
	_ = pa.Handle.Set(widgets.KeyFont, widgets.TokenValue("Arial", "12", "bold"))
	b, _ := c.PlaceAt(widgets.Text, Point{X: 5, Y: 6})
	pb, _ := c.Lookup(b)
	_ = pb.Handle.(*widgets.Instance).SetContent("hello\nworld")

	doc := Snapshot(c, storage.NewDocument("t", 800, 600))
	if len(doc.Widgets) != 2 || doc.Widgets[0].X != 60 || doc.Widgets[0].Y != 70 {
		t.Fatalf("unexpected snapshot: %+v", doc.Widgets)
	}

	c2 := NewCanvas(Config{})
	c2.Place(widgets.Button)
	if err := Restore(c2, doc); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	ws := c2.Widgets()
	if len(ws) != 2 || ws[0].Type != widgets.Label || ws[1].Type != widgets.Text {
		t.Fatalf("unexpected restore: %+v", ws)
	}
	if v, _ := ws[0].Handle.Get(widgets.KeyFont); v.String() != "Arial 12 bold" {
		t.Fatalf("font lost: %q", v.String())
	}
	if ws[1].Handle.State().Content != "hello\nworld" || ws[1].Pos != (Point{X: 5, Y: 6}) {
		t.Fatalf("text widget lost: %+v", ws[1])
	}
}

func TestRestoreRejectsUnknownType(t *testing.T) {
	doc := storage.NewDocument("bad", 800, 600)
	doc.Widgets = append(doc.Widgets, storage.WidgetRecord{State: widgets.State{Type: widgets.Type(42)}})
	if err := Restore(NewCanvas(Config{}), doc); !errors.Is(err, widgets.ErrUnknownWidgetType) {
		t.Fatalf("expected ErrUnknownWidgetType, got %v", err)
	}
}

func TestRestoreFailureLeavesCanvasUnchanged(t *testing.T) {
	c := NewCanvas(Config{})
	keep, _ := c.Place(widgets.Button)
	doc := storage.NewDocument("bad", 800, 600)
	doc.Widgets = []storage.WidgetRecord{
		{X: 1, Y: 1, State: widgets.State{Type: widgets.Label, Text: "x"}},
		{X: 2, Y: 2, State: widgets.State{Type: widgets.Spinbox, From: 10, To: 5}},
	}
	if err := Restore(c, doc); err == nil {
		t.Fatalf("expected restore error")
	}
	if c.Len() != 1 {
		t.Fatalf("canvas has %d widgets, want 1", c.Len())
	}
	if _, ok := c.Lookup(keep); !ok {
		t.Fatalf("existing widget lost")
	}
}
