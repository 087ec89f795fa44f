/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	d := Defaults()
	if cfg.Designer != d.Designer || cfg.Export != d.Export || cfg.General != d.General {
		t.Fatalf("defaults not applied: %#v", cfg)
	}
	if cfg.Designer.DefaultX != 50 || cfg.Designer.DefaultY != 50 {
		t.Fatalf("default position = (%v,%v), want (50,50)", cfg.Designer.DefaultX, cfg.Designer.DefaultY)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := isolate(t)
	cfg := Defaults()
	cfg.Designer.DefaultX = 120
	cfg.Export.AppTitle = "Survey"
	cfg.History.Enabled = false
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Designer.DefaultX != 120 || got.Export.AppTitle != "Survey" || got.History.Enabled {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestLoadReportsMalformedFile(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("designer: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Designer.CanvasWidth != 800 {
		t.Fatalf("defaults should survive a parse error: %#v", cfg.Designer)
	}
}

func TestMergeNormalizesExtension(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Export: ExportConfig{Extension: "pyw"}}
	mergeInto(&dst, &src)
	if dst.Export.Extension != ".pyw" {
		t.Fatalf("Extension = %q, want .pyw", dst.Export.Extension)
	}
	if dst.Export.AppTitle != "Generated Application" {
		t.Fatalf("empty title should keep default, got %q", dst.Export.AppTitle)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvDefaultX, "75.5")
	t.Setenv(EnvCanvasWidth, "1024")
	t.Setenv(EnvCanvasHeight, "not-a-number")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvLogSource, "on")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Designer.DefaultX != 75.5 || cfg.Designer.CanvasWidth != 1024 || cfg.Designer.CanvasHeight != 600 {
		t.Fatalf("designer overrides wrong: %#v", cfg.Designer)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Source {
		t.Fatalf("logging overrides wrong: %#v", cfg.Logging)
	}
	if env, ok := EnvOverrideFor("designer.default_x"); !ok || env != EnvDefaultX {
		t.Fatalf("EnvOverrideFor(designer.default_x) = %q,%v", env, ok)
	}
	if _, ok := EnvOverrideFor("designer.default_y"); ok {
		t.Fatalf("default_y is not overridden")
	}
}

func TestHistoryPathDefaultsNextToConfig(t *testing.T) {
	path := isolate(t)
	got, err := Defaults().HistoryPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(filepath.Dir(path), "history.sqlite"); got != want {
		t.Fatalf("HistoryPath = %q, want %q", got, want)
	}
}
