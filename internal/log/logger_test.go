/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestInitWritesJSONFile checks that the rotating file handler receives JSON
// records carrying the static, component, operation and design attributes.
func TestInitWritesJSONFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "fd.log")
	Init(Options{Level: "debug", Format: "json", File: fpath})
	t.Cleanup(func() { Init(Options{Level: "info"}) })

	l := WithOperation(WithComponent("canvas"), "place")
	ctx := ContextWithDesign(context.Background(), "login-form")
	l.InfoContext(ctx, "widget placed", slog.String("type", "Button"))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines in %s", fpath)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	want := map[string]string{
		"app":       "formdesigner",
		"component": "canvas",
		"op":        "place",
		"design":    "login-form",
		"type":      "Button",
		"msg":       "widget placed",
	}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("%s = %v, want %q (record %s)", k, m[k], v, last)
		}
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
