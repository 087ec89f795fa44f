/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widgets

import (
	"fmt"
	"strconv"
	"strings"
)

// ContentEditor is implemented by handles whose content (list entries, text
// lines, numeric range) can be edited as plain text, one entry per line.
type ContentEditor interface {
	Content() (string, bool)
	ReplaceContent(s string) error
}

var _ ContentEditor = (*Instance)(nil)

// Content renders the widget's content. It reports false for types without
// editable content.
func (w *Instance) Content() (string, bool) {
	switch w.state.Type {
	case Text:
		return w.state.Content, true
	case Listbox:
		return strings.Join(w.state.Items, "\n"), true
	case Combobox:
		return strings.Join(w.state.Values, "\n"), true
	case Spinbox:
		return strconv.FormatFloat(w.state.From, 'f', -1, 64) + "\n" + strconv.FormatFloat(w.state.To, 'f', -1, 64), true
	}
	return "", false
}

// ReplaceContent parses s the way Content renders it. Blank lines are
// dropped from lists.
func (w *Instance) ReplaceContent(s string) error {
	switch w.state.Type {
	case Text:
		return w.SetContent(s)
	case Listbox:
		if w.destroyed {
			return ErrDestroyed
		}
		w.state.Items = lines(s)
		return nil
	case Combobox:
		return w.SetValues(lines(s))
	case Spinbox:
		f := strings.Fields(s)
		if len(f) != 2 {
			return fmt.Errorf("widgets: spinbox range needs two numbers, got %d", len(f))
		}
		from, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return fmt.Errorf("widgets: spinbox from: %w", err)
		}
		to, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return fmt.Errorf("widgets: spinbox to: %w", err)
		}
		return w.SetRange(from, to)
	}
	return fmt.Errorf("widgets: %s has no editable content", w.state.Type)
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
