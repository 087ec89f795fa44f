/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package designer

import (
	"fmt"

	"formdesigner/internal/storage"
	"formdesigner/internal/widgets"
)

// Snapshot copies the canvas into doc's widget list, keeping doc's identity.
func Snapshot(c *Canvas, doc storage.Document) storage.Document {
	doc.Widgets = make([]storage.WidgetRecord, 0, c.Len())
	for _, p := range c.order {
		doc.Widgets = append(doc.Widgets, storage.WidgetRecord{X: p.Pos.X, Y: p.Pos.Y, State: p.Handle.State()})
	}
	return doc
}

// Restore replaces the canvas content with doc's widgets. Slot ids are not
// persisted; restored widgets get fresh ones in document order. Every widget
// is built before the canvas is touched, so on error the canvas is unchanged.
func Restore(c *Canvas, doc storage.Document) error {
	built := make([]widgets.Handle, 0, len(doc.Widgets))
	for i, rec := range doc.Widgets {
		w, err := c.catalog.Restore(rec.State)
		if err != nil {
			for _, h := range built {
				h.Destroy()
			}
			return fmt.Errorf("restore widget %d: %w", i, err)
		}
		built = append(built, w)
	}
	c.Clear()
	for i, rec := range doc.Widgets {
		c.adopt(built[i], Point{X: rec.X, Y: rec.Y})
	}
	return nil
}
