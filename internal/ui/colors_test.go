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
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#336699", color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 255}, true},
		{"#f00", color.RGBA{R: 255, A: 255}, true},
		{" Red ", color.RGBA{R: 255, A: 255}, true},
		{"", color.RGBA{}, false},
		{"#12", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
		{"chartreuse", color.RGBA{}, false},
	}
	for _, c := range cases {
		got, ok := parseColor(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("parseColor(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
