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
	"strconv"
	"strings"
)

var namedColors = map[string]color.RGBA{
	"black":  {A: 255},
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"red":    {R: 255, A: 255},
	"green":  {G: 128, A: 255},
	"blue":   {B: 255, A: 255},
	"yellow": {R: 255, G: 255, A: 255},
	"orange": {R: 255, G: 165, A: 255},
	"purple": {R: 128, B: 128, A: 255},
	"gray":   {R: 190, G: 190, B: 190, A: 255},
	"grey":   {R: 190, G: 190, B: 190, A: 255},
}

// parseColor understands the foreground values users type most: #rgb,
// #rrggbb and a few Tk colour names.
func parseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
