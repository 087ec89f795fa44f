/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log provides the process-wide slog logger for the designer.
// Records go to stderr in a compact console format (or JSON) and optionally to a
// rotating JSON file. Loggers are scoped with a component and an operation, and
// records logged with a context carrying a design name get a "design" attribute.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"formdesigner/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Environment variables read by FromEnv:
//   - FD_LOG_LEVEL=debug|info|warn|error
//   - FD_LOG_FORMAT=console|json
//   - FD_LOG_FILE=<path> (rotated JSON file)
//   - FD_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
}

const (
	EnvLevel  = "FD_LOG_LEVEL"
	EnvFormat = "FD_LOG_FORMAT"
	EnvFile   = "FD_LOG_FILE"
	EnvSource = "FD_LOG_SOURCE"
)

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   *slog.Logger
)

// L returns the default logger, initializing it from the environment on first use.
func L() *slog.Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	defaultLoggerMu.RLock()
	l = defaultLogger
	defaultLoggerMu.RUnlock()
	return l
}

// Init configures the global logger and installs it as slog.Default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handlers []slog.Handler
	if format == "json" {
		handlers = append(handlers, withEnricher(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})))
	} else {
		handlers = append(handlers, withEnricher(&consoleHandler{opts: consoleOpts{Level: lvl, AddSource: opts.AddSource}, w: os.Stderr, mu: &sync.Mutex{}}))
	}

	if file := strings.TrimSpace(opts.File); file != "" {
		w := &lj.Logger{Filename: file, MaxSize: 5, MaxBackups: 3, MaxAge: 14, Compress: true}
		handlers = append(handlers, withEnricher(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = &fanout{hs: handlers}
	}

	logger := slog.New(h).With(
		slog.String("app", "formdesigner"),
		slog.String("ver", version.Version),
	)

	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv builds Options from FD_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "console"),
		AddSource: parseBool(os.Getenv(EnvSource)),
		File:      os.Getenv(EnvFile),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type designKey struct{}

// ContextWithDesign returns a context whose log records carry design=name.
func ContextWithDesign(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, designKey{}, name)
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout struct{ hs []slog.Handler }

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &fanout{hs: res}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		res[i] = h.WithGroup(name)
	}
	return &fanout{hs: res}
}

// enrich copies the design name from the context onto the record.
func withEnricher(h slog.Handler) slog.Handler { return &enrich{next: h} }

type enrich struct{ next slog.Handler }

func (e *enrich) Enabled(ctx context.Context, level slog.Level) bool {
	return e.next.Enabled(ctx, level)
}

func (e *enrich) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if name, ok := ctx.Value(designKey{}).(string); ok && name != "" {
			r.AddAttrs(slog.String("design", name))
		}
	}
	return e.next.Handle(ctx, r)
}

func (e *enrich) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &enrich{next: e.next.WithAttrs(attrs)}
}
func (e *enrich) WithGroup(name string) slog.Handler { return &enrich{next: e.next.WithGroup(name)} }

// consoleHandler prints one line per record: ts level msg key=val...
type consoleHandler struct {
	opts   consoleOpts
	w      io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

type consoleOpts struct {
	Level     slog.Leveler
	AddSource bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	b := &strings.Builder{}
	b.Grow(192)
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(levelTag(r.Level))
	if r.Message != "" {
		b.WriteString(" ")
		b.WriteString(r.Message)
	}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	write := func(a slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(prefix)
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(valueString(a.Value))
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	if h.opts.AddSource {
		// Record.Source only exists on newer toolchains.
		if rs, ok := any(r).(interface{ Source() *slog.Source }); ok {
			if src := rs.Source(); src != nil && src.File != "" {
				b.WriteString(" src=")
				b.WriteString(src.File)
				b.WriteString(":")
				b.WriteString(strconv.Itoa(src.Line))
			}
		}
	}
	b.WriteString("\n")
	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	na := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	na = append(na, h.attrs...)
	na = append(na, attrs...)
	return &consoleHandler{opts: h.opts, w: h.w, mu: h.mu, attrs: na, groups: append([]string(nil), h.groups...)}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	ng := append(append([]string(nil), h.groups...), name)
	return &consoleHandler{opts: h.opts, w: h.w, mu: h.mu, attrs: append([]slog.Attr(nil), h.attrs...), groups: ng}
}

func levelTag(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return l.String()
	}
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\"") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return v.String()
	}
}
