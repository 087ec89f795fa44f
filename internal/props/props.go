/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package props renders a widget's editable properties as "key: value" text
// and applies edited text back to the widget.
package props

import (
	"fmt"
	"log/slog"
	"strings"

	applog "formdesigner/internal/log"
	"formdesigner/internal/widgets"
)

// Separator splits a property line into key and value.
const Separator = ": "

// order is the display order of property keys.
var order = []string{widgets.KeyText, widgets.KeyForeground, widgets.KeyFont}

// Keys lists the keys h supports, in display order.
func Keys(h widgets.Handle) []string {
	var out []string
	for _, k := range order {
		if h.Supports(k) {
			out = append(out, k)
		}
	}
	return out
}

// Open renders the supported properties of h, one "key: value" per line.
// Widgets without editable properties yield an empty string.
func Open(h widgets.Handle) string {
	var b strings.Builder
	for _, k := range Keys(h) {
		v, err := h.Get(k)
		if err != nil {
			continue
		}
		b.WriteString(k)
		b.WriteString(Separator)
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Line is one parsed property assignment.
type Line struct {
	No    int
	Key   string
	Value string
}

// Parse splits text into assignments on the first ": " of each line. Blank
// lines and lines without a separator are skipped, so "text:" is ignored
// while "text: " assigns an empty value.
func Parse(text string) []Line {
	var out []Line
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, val, ok := strings.Cut(line, Separator)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out = append(out, Line{No: i + 1, Key: key, Value: val})
	}
	return out
}

// Apply parses text and sets each assignment on h. Lines are applied
// independently: a failing line is reported and the rest still apply.
func Apply(h widgets.Handle, text string) []error {
	l := applog.WithComponent("props")
	var errs []error
	applied := 0
	for _, ln := range Parse(text) {
		if err := h.Set(ln.Key, valueFor(ln)); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", ln.No, err))
			continue
		}
		applied++
	}
	l.Debug("properties applied", slog.String("type", h.Type().String()),
		slog.Int("applied", applied), slog.Int("failed", len(errs)))
	return errs
}

func valueFor(ln Line) widgets.Value {
	if ln.Key != widgets.KeyFont {
		return widgets.StringValue(ln.Value)
	}
	tokens := strings.Fields(ln.Value)
	if len(tokens) == 0 {
		return widgets.TokenValue(widgets.DefaultFont...)
	}
	return widgets.TokenValue(tokens...)
}
