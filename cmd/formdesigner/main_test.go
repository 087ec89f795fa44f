/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"strings"
	"testing"
	"time"

	"formdesigner/internal/storage"
)

func TestHistoryLineShortensChecksum(t *testing.T) {
	r := storage.ExportRecord{
		Design:   "Login",
		Path:     "/tmp/login.py",
		Widgets:  3,
		Checksum: strings.Repeat("ab", 32),
		At:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	line := historyLine(r)
	if !strings.Contains(line, "abababababab  /tmp/login.py") || strings.Contains(line, strings.Repeat("ab", 7)) {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestHistoryLineToleratesShortChecksum(t *testing.T) {
	for _, sum := range []string{"", "abc"} {
		line := historyLine(storage.ExportRecord{Design: "x", Checksum: sum, Path: "p.py"})
		if !strings.HasSuffix(line, "p.py") {
			t.Fatalf("checksum %q: unexpected line %q", sum, line)
		}
	}
}
