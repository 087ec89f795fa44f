/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package designer is the editing model: the canvas of placed widgets, the
// single-slot clipboard and the per-gesture drag state. It runs on the UI
// event loop and is not safe for concurrent use.
package designer

import (
	"errors"
	"log/slog"
	"slices"

	applog "formdesigner/internal/log"
	"formdesigner/internal/metrics"
	"formdesigner/internal/widgets"
)

var (
	ErrMissingClipboard = errors.New("designer: clipboard is empty")
	ErrStaleReference   = errors.New("designer: slot no longer exists")
)

// SlotID addresses a widget's placement on the canvas. Ids are never reused.
type SlotID int64

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Placed is one widget on the canvas. The canvas owns Handle and destroys it
// on removal.
type Placed struct {
	Type   widgets.Type
	Handle widgets.Handle
	Slot   SlotID
	Pos    Point
}

// Bounds estimates the on-screen box of the widget.
func (p *Placed) Bounds() metrics.Rect {
	return metrics.Bounds(p.Handle.State(), p.Pos.X, p.Pos.Y)
}

// Binder attaches interaction handlers (press, drag, context menu,
// double-click) to a newly placed widget. The desktop shell implements it.
type Binder interface {
	Bind(p *Placed)
	Unbind(id SlotID)
}

// ChangeKind classifies canvas notifications.
type ChangeKind int

const (
	ChangePlaced ChangeKind = iota + 1
	ChangeMoved
	ChangeRemoved
)

// Change is delivered to Canvas.OnChange after each mutation.
type Change struct {
	Kind ChangeKind
	Slot SlotID
}

// Config controls canvas construction. Zero values select defaults.
type Config struct {
	Catalog *widgets.Catalog
	// Origin is where Place puts new widgets; defaults to (50,50).
	Origin Point
	Binder Binder
}

// Canvas is the ordered collection of placed widgets. Insertion order is
// creation order and is the order code export walks.
type Canvas struct {
	catalog *widgets.Catalog
	origin  Point
	binder  Binder
	nextID  SlotID
	order   []*Placed
	slots   map[SlotID]*Placed
	log     *slog.Logger

	// OnChange, if set, is called after every place, move and remove.
	OnChange func(Change)
}

// DefaultOrigin is the default placement position.
var DefaultOrigin = Point{X: 50, Y: 50}

func NewCanvas(cfg Config) *Canvas {
	if cfg.Catalog == nil {
		cfg.Catalog = widgets.Default
	}
	if cfg.Origin == (Point{}) {
		cfg.Origin = DefaultOrigin
	}
	return &Canvas{
		catalog: cfg.Catalog,
		origin:  cfg.Origin,
		binder:  cfg.Binder,
		slots:   make(map[SlotID]*Placed),
		log:     applog.WithComponent("canvas"),
	}
}

// Origin returns the default placement position.
func (c *Canvas) Origin() Point { return c.origin }

// SetBinder installs the interaction collaborator for subsequently placed widgets.
func (c *Canvas) SetBinder(b Binder) { c.binder = b }

// Place builds a widget of type t and puts it at the default origin.
// An unknown type fails before any state changes.
func (c *Canvas) Place(t widgets.Type) (SlotID, error) {
	return c.PlaceAt(t, c.origin)
}

// PlaceAt builds a widget of type t and puts it at pos.
func (c *Canvas) PlaceAt(t widgets.Type, pos Point) (SlotID, error) {
	w, err := c.catalog.New(t)
	if err != nil {
		c.log.Warn("place rejected", slog.String("type", t.String()), slog.Any("err", err))
		return 0, err
	}
	return c.adopt(w, pos), nil
}

// adopt registers an already built handle.
func (c *Canvas) adopt(h widgets.Handle, pos Point) SlotID {
	c.nextID++
	p := &Placed{Type: h.Type(), Handle: h, Slot: c.nextID, Pos: pos}
	c.order = append(c.order, p)
	c.slots[p.Slot] = p
	if c.binder != nil {
		c.binder.Bind(p)
	}
	c.log.Debug("placed", slog.Int64("slot", int64(p.Slot)), slog.String("type", p.Type.String()),
		slog.Float64("x", pos.X), slog.Float64("y", pos.Y))
	c.notify(ChangePlaced, p.Slot)
	return p.Slot
}

// MoveBy translates a widget by (dx,dy). A stale id is ignored; drag events
// may arrive after the widget was deleted.
func (c *Canvas) MoveBy(id SlotID, dx, dy float64) bool {
	p, ok := c.slots[id]
	if !ok {
		return false
	}
	p.Pos.X += dx
	p.Pos.Y += dy
	c.notify(ChangeMoved, id)
	return true
}

// MoveTo puts a widget at an absolute position. A stale id is ignored.
func (c *Canvas) MoveTo(id SlotID, pos Point) bool {
	p, ok := c.slots[id]
	if !ok {
		return false
	}
	p.Pos = pos
	c.notify(ChangeMoved, id)
	return true
}

// Remove deletes a widget and destroys its handle. Removing an unknown id is
// a no-op and reports false.
func (c *Canvas) Remove(id SlotID) bool {
	p, ok := c.slots[id]
	if !ok {
		return false
	}
	delete(c.slots, id)
	c.order = slices.DeleteFunc(c.order, func(q *Placed) bool { return q.Slot == id })
	if c.binder != nil {
		c.binder.Unbind(id)
	}
	p.Handle.Destroy()
	c.log.Debug("removed", slog.Int64("slot", int64(id)), slog.String("type", p.Type.String()))
	c.notify(ChangeRemoved, id)
	return true
}

// Clear removes every widget.
func (c *Canvas) Clear() {
	for _, p := range c.Widgets() {
		c.Remove(p.Slot)
	}
}

func (c *Canvas) Lookup(id SlotID) (*Placed, bool) {
	p, ok := c.slots[id]
	return p, ok
}

// Coords resolves a slot's current position.
func (c *Canvas) Coords(id SlotID) (Point, bool) {
	p, ok := c.slots[id]
	if !ok {
		return Point{}, false
	}
	return p.Pos, true
}

// Widgets returns the placed widgets in creation order. The slice is a copy.
func (c *Canvas) Widgets() []*Placed { return slices.Clone(c.order) }

func (c *Canvas) Len() int { return len(c.order) }

// ItemAt finds the widget under pt: the topmost one whose bounds contain it,
// otherwise the closest one. It reports false only on an empty canvas.
func (c *Canvas) ItemAt(pt Point) (SlotID, bool) {
	var (
		best     SlotID
		bestDist = -1.0
	)
	for i := len(c.order) - 1; i >= 0; i-- {
		p := c.order[i]
		d := p.Bounds().Distance(pt.X, pt.Y)
		if d == 0 {
			return p.Slot, true
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = p.Slot, d
		}
	}
	return best, bestDist >= 0
}

func (c *Canvas) notify(k ChangeKind, id SlotID) {
	if c.OnChange != nil {
		c.OnChange(Change{Kind: k, Slot: id})
	}
}
