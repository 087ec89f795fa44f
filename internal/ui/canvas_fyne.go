//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"formdesigner/internal/designer"
	"formdesigner/internal/export"
	"formdesigner/internal/metrics"
	"formdesigner/internal/session"
)

// FormCanvas shows the design surface. It is the canvas Binder: every placed
// widget gets a widgetView that forwards pointer events to the editor.
type FormCanvas struct {
	widget.BaseWidget
	sess  *session.Session
	views map[designer.SlotID]*widgetView

	// OnProperties is called on double-click.
	OnProperties func(id designer.SlotID)
	// OnMenu is called on secondary tap; onWidget is false on empty canvas.
	OnMenu func(id designer.SlotID, onWidget bool, at fyne.Position)
}

var (
	_ designer.Binder        = (*FormCanvas)(nil)
	_ fyne.Tappable          = (*FormCanvas)(nil)
	_ fyne.SecondaryTappable = (*FormCanvas)(nil)
	_ desktop.Hoverable      = (*FormCanvas)(nil)
)

func NewFormCanvas(sess *session.Session) *FormCanvas {
	fc := &FormCanvas{sess: sess, views: make(map[designer.SlotID]*widgetView)}
	fc.ExtendBaseWidget(fc)
	sess.Canvas.SetBinder(fc)
	for _, p := range sess.Canvas.Widgets() {
		fc.Bind(p)
	}
	sess.OnChange(func(designer.Change) { fc.Refresh() })
	return fc
}

func (fc *FormCanvas) Bind(p *designer.Placed) {
	fc.views[p.Slot] = newWidgetView(fc, p.Slot)
}

func (fc *FormCanvas) Unbind(id designer.SlotID) {
	delete(fc.views, id)
}

func (fc *FormCanvas) canvasSize() fyne.Size {
	c := fc.sess.Design.Doc.Canvas
	return fyne.NewSize(float32(c.Width), float32(c.Height))
}

// press hit-tests taps that reach the canvas itself. Like the editor's hit
// test, a tap off every widget picks the closest one.
func (fc *FormCanvas) press(pos fyne.Position) (designer.SlotID, bool) {
	ed := fc.sess.Editor
	id, ok := ed.Press(toPoint(pos))
	if ok {
		ed.Release()
		fc.Refresh()
	}
	return id, ok
}

func (fc *FormCanvas) Tapped(e *fyne.PointEvent) {
	fc.press(e.Position)
}

func (fc *FormCanvas) TappedSecondary(e *fyne.PointEvent) {
	id, ok := fc.press(e.Position)
	if fc.OnMenu != nil {
		fc.OnMenu(id, ok, e.AbsolutePosition)
	}
}

func (fc *FormCanvas) MouseIn(e *desktop.MouseEvent)    { fc.sess.Editor.Track(toPoint(e.Position)) }
func (fc *FormCanvas) MouseMoved(e *desktop.MouseEvent) { fc.sess.Editor.Track(toPoint(e.Position)) }
func (fc *FormCanvas) MouseOut()                        {}

func (fc *FormCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	bg.StrokeColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	bg.StrokeWidth = 1
	return &formCanvasRenderer{fc: fc, bg: bg}
}

type formCanvasRenderer struct {
	fc *FormCanvas
	bg *canvas.Rectangle
}

func (r *formCanvasRenderer) Destroy()           {}
func (r *formCanvasRenderer) MinSize() fyne.Size { return r.fc.canvasSize() }

// Objects lists the background then the widgets in creation order, so later
// widgets stack on top.
func (r *formCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg}
	for _, p := range r.fc.sess.Canvas.Widgets() {
		if v, ok := r.fc.views[p.Slot]; ok {
			objs = append(objs, v)
		}
	}
	return objs
}

func (r *formCanvasRenderer) Layout(fyne.Size) {
	r.bg.Move(fyne.NewPos(0, 0))
	r.bg.Resize(r.fc.canvasSize())
	for _, p := range r.fc.sess.Canvas.Widgets() {
		v, ok := r.fc.views[p.Slot]
		if !ok {
			continue
		}
		b := p.Bounds()
		v.Move(fyne.NewPos(float32(b.X), float32(b.Y)))
		v.Resize(fyne.NewSize(float32(b.W), float32(b.H)))
	}
}

func (r *formCanvasRenderer) Refresh() {
	r.Layout(r.fc.Size())
	for _, o := range r.Objects()[1:] {
		o.Refresh()
	}
	canvas.Refresh(r.fc)
}

// widgetView draws one placed widget as a wireframe box.
type widgetView struct {
	widget.BaseWidget
	fc       *FormCanvas
	slot     designer.SlotID
	dragging bool
}

var (
	_ fyne.Draggable         = (*widgetView)(nil)
	_ fyne.Tappable          = (*widgetView)(nil)
	_ fyne.SecondaryTappable = (*widgetView)(nil)
	_ fyne.DoubleTappable    = (*widgetView)(nil)
)

func newWidgetView(fc *FormCanvas, id designer.SlotID) *widgetView {
	v := &widgetView{fc: fc, slot: id}
	v.ExtendBaseWidget(v)
	return v
}

// abs converts a view-relative position to canvas coordinates.
func (v *widgetView) abs(pos fyne.Position) designer.Point {
	return toPoint(v.Position().Add(pos))
}

func (v *widgetView) Dragged(e *fyne.DragEvent) {
	ed := v.fc.sess.Editor
	if !v.dragging {
		v.dragging = true
		ed.PressOn(v.slot, v.abs(e.Position.Subtract(e.Dragged)))
	}
	// The view moves under the pointer while dragging, so follow the
	// deltas rather than the view-relative position.
	last := ed.Pointer()
	ed.Drag(designer.Point{X: last.X + float64(e.Dragged.DX), Y: last.Y + float64(e.Dragged.DY)})
}

func (v *widgetView) DragEnd() {
	v.dragging = false
	v.fc.sess.Editor.Release()
	v.fc.Refresh()
}

func (v *widgetView) Tapped(e *fyne.PointEvent) {
	ed := v.fc.sess.Editor
	ed.PressOn(v.slot, v.abs(e.Position))
	ed.Release()
	v.fc.Refresh()
}

func (v *widgetView) TappedSecondary(e *fyne.PointEvent) {
	v.Tapped(e)
	if v.fc.OnMenu != nil {
		v.fc.OnMenu(v.slot, true, e.AbsolutePosition)
	}
}

func (v *widgetView) DoubleTapped(*fyne.PointEvent) {
	if v.fc.OnProperties != nil {
		v.fc.OnProperties(v.slot)
	}
}

func (v *widgetView) CreateRenderer() fyne.WidgetRenderer {
	box := canvas.NewRectangle(color.RGBA{R: 235, G: 238, B: 242, A: 255})
	box.StrokeWidth = 1
	box.CornerRadius = 3
	label := canvas.NewText("", color.Black)
	label.TextSize = float32(metrics.LineHeight())
	r := &widgetViewRenderer{v: v, box: box, label: label}
	r.Refresh()
	return r
}

type widgetViewRenderer struct {
	v     *widgetView
	box   *canvas.Rectangle
	label *canvas.Text
}

func (r *widgetViewRenderer) Destroy() {}

func (r *widgetViewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.box, r.label}
}

func (r *widgetViewRenderer) MinSize() fyne.Size { return fyne.NewSize(8, 8) }

func (r *widgetViewRenderer) Layout(size fyne.Size) {
	r.box.Move(fyne.NewPos(0, 0))
	r.box.Resize(size)
	r.label.Move(fyne.NewPos(4, 2))
	r.label.Resize(fyne.NewSize(size.Width-8, size.Height-4))
}

func (r *widgetViewRenderer) Refresh() {
	p, ok := r.v.fc.sess.Canvas.Lookup(r.v.slot)
	if !ok {
		return
	}
	st := p.Handle.State()
	r.label.Text = export.Caption(st)
	r.label.Color = color.Black
	if c, ok := parseColor(st.Foreground); ok {
		r.label.Color = c
	}
	r.box.StrokeColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	if sel, ok := r.v.fc.sess.Editor.Selected(); ok && sel == r.v.slot {
		r.box.StrokeColor = color.RGBA{R: 0, G: 120, B: 215, A: 255}
		r.box.StrokeWidth = 2
	} else {
		r.box.StrokeWidth = 1
	}
	r.box.Refresh()
	r.label.Refresh()
}

func toPoint(p fyne.Position) designer.Point {
	return designer.Point{X: float64(p.X), Y: float64(p.Y)}
}
