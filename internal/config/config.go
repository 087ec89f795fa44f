/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration stored as YAML in the user scope.
// Environment variables are read-only overrides applied at load time.
//
// config_version: bump when the structure changes incompatibly.
type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	General       GeneralConfig  `yaml:"general"`
	Designer      DesignerConfig `yaml:"designer"`
	Export        ExportConfig   `yaml:"export"`
	History       HistoryConfig  `yaml:"history"`
	Logging       LoggingConfig  `yaml:"logging"`
}

type GeneralConfig struct {
	Theme string `yaml:"theme"` // only "light" is honoured
}

// DesignerConfig controls the editing surface.
type DesignerConfig struct {
	DefaultX     float64 `yaml:"default_x"`
	DefaultY     float64 `yaml:"default_y"`
	CanvasWidth  int     `yaml:"canvas_width"`
	CanvasHeight int     `yaml:"canvas_height"`
}

// ExportConfig controls generated program text.
type ExportConfig struct {
	AppTitle  string `yaml:"app_title"`
	Extension string `yaml:"extension"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"` // empty: next to config.yaml
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "light"},
		Designer:      DesignerConfig{DefaultX: 50, DefaultY: 50, CanvasWidth: 800, CanvasHeight: 600},
		Export:        ExportConfig{AppTitle: "Generated Application", Extension: ".py"},
		History:       HistoryConfig{Enabled: true},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "FD_CONFIG"
	EnvTheme        = "FD_THEME"
	EnvDefaultX     = "FD_DEFAULT_X"
	EnvDefaultY     = "FD_DEFAULT_Y"
	EnvCanvasWidth  = "FD_CANVAS_WIDTH"
	EnvCanvasHeight = "FD_CANVAS_HEIGHT"
	EnvAppTitle     = "FD_APP_TITLE"
	EnvHistoryDB    = "FD_HISTORY_DB"
	EnvLogLevel     = "FD_LOG_LEVEL"
	EnvLogFormat    = "FD_LOG_FORMAT"
	EnvLogSource    = "FD_LOG_SOURCE"
	EnvLogFile      = "FD_LOG_FILE"
)

// ConfigPath returns the per-user config file path. FD_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "FormDesigner")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "FormDesigner")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "formdesigner")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "formdesigner")
		}
	}
	if base == "" || base == "formdesigner" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// HistoryPath resolves the export history database location.
func (c AppConfig) HistoryPath() (string, error) {
	if p := strings.TrimSpace(c.History.DBPath); p != "" {
		return p, nil
	}
	cfgPath, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(cfgPath), "history.sqlite"), nil
}

// Load reads the user config file (if present), applies defaults and merges env overrides.
// A malformed file is reported but the defaults are still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var parseErr error
	if data, rerr := os.ReadFile(path); rerr == nil {
		var fileCfg AppConfig
		if uerr := yaml.Unmarshal(data, &fileCfg); uerr != nil {
			parseErr = uerr
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, parseErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if t := strings.ToLower(strings.TrimSpace(src.General.Theme)); t != "" {
		dst.General.Theme = t
	}
	if src.Designer.DefaultX != 0 {
		dst.Designer.DefaultX = src.Designer.DefaultX
	}
	if src.Designer.DefaultY != 0 {
		dst.Designer.DefaultY = src.Designer.DefaultY
	}
	if src.Designer.CanvasWidth > 0 {
		dst.Designer.CanvasWidth = src.Designer.CanvasWidth
	}
	if src.Designer.CanvasHeight > 0 {
		dst.Designer.CanvasHeight = src.Designer.CanvasHeight
	}
	if s := strings.TrimSpace(src.Export.AppTitle); s != "" {
		dst.Export.AppTitle = s
	}
	if s := strings.TrimSpace(src.Export.Extension); s != "" {
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		dst.Export.Extension = s
	}
	// booleans copy straight from the file so an explicit false persists
	dst.History.Enabled = src.History.Enabled
	if s := strings.TrimSpace(src.History.DBPath); s != "" {
		dst.History.DBPath = s
	}
	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v, ok := envFloat(EnvDefaultX); ok {
		cfg.Designer.DefaultX = v
	}
	if v, ok := envFloat(EnvDefaultY); ok {
		cfg.Designer.DefaultY = v
	}
	if v, ok := envInt(EnvCanvasWidth); ok && v > 0 {
		cfg.Designer.CanvasWidth = v
	}
	if v, ok := envInt(EnvCanvasHeight); ok && v > 0 {
		cfg.Designer.CanvasHeight = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAppTitle)); v != "" {
		cfg.Export.AppTitle = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryDB)); v != "" {
		cfg.History.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// EnvOverrideFor returns the env var name if the field is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"general.theme":          EnvTheme,
		"designer.default_x":     EnvDefaultX,
		"designer.default_y":     EnvDefaultY,
		"designer.canvas_width":  EnvCanvasWidth,
		"designer.canvas_height": EnvCanvasHeight,
		"export.app_title":       EnvAppTitle,
		"history.db_path":        EnvHistoryDB,
		"logging.level":          EnvLogLevel,
		"logging.format":         EnvLogFormat,
		"logging.source":         EnvLogSource,
		"logging.file":           EnvLogFile,
	}
	env, ok := names[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
