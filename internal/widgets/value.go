/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widgets

import "strings"

// Value is a property value: either a literal string or a token sequence
// (fonts are stored as family/size/style tokens).
type Value struct {
	text   string
	tokens []string
}

func StringValue(s string) Value { return Value{text: s} }

func TokenValue(tokens ...string) Value {
	return Value{tokens: append([]string{}, tokens...)}
}

// IsTokens reports whether v was built from a token sequence.
func (v Value) IsTokens() bool { return v.tokens != nil }

// Tokens returns the token sequence; a string value is split on whitespace.
func (v Value) Tokens() []string {
	if v.tokens != nil {
		return append([]string(nil), v.tokens...)
	}
	return strings.Fields(v.text)
}

func (v Value) String() string {
	if v.tokens != nil {
		return strings.Join(v.tokens, " ")
	}
	return v.text
}
