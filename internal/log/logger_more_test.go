/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "yes")
	t.Setenv(EnvFile, "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("FD_SURELY_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestConsoleHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{opts: consoleOpts{Level: slog.LevelWarn}, w: &buf}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "codegen")}).WithGroup("gen")
	r := slog.NewRecord(time.Now(), slog.LevelError, "export failed", 0)
	r.AddAttrs(slog.Int("widgets", 3), slog.Float64("x", 50.5), slog.String("path", "my form.py"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ERR", "export failed", "gen.component=codegen", "gen.widgets=3", "gen.x=50.5", `gen.path="my form.py"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newline: %q", out)
	}
}

func TestEnricherAddsDesignFromContext(t *testing.T) {
	var buf bytes.Buffer
	h := withEnricher(&consoleHandler{opts: consoleOpts{Level: slog.LevelDebug}, w: &buf})
	l := slog.New(h)
	l.InfoContext(ContextWithDesign(context.Background(), "checkout"), "saved")
	if !strings.Contains(buf.String(), "design=checkout") {
		t.Fatalf("design attr missing: %q", buf.String())
	}
	buf.Reset()
	l.Info("no design")
	if strings.Contains(buf.String(), "design=") {
		t.Fatalf("unexpected design attr: %q", buf.String())
	}
}
