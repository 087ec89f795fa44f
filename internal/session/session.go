/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session holds one open design: the canvas being edited, its file,
// the export history and the operations the desktop shell and the CLI offer
// on top of them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"formdesigner/internal/codegen"
	"formdesigner/internal/config"
	"formdesigner/internal/designer"
	"formdesigner/internal/export"
	applog "formdesigner/internal/log"
	"formdesigner/internal/props"
	"formdesigner/internal/storage"
	"formdesigner/internal/widgets"
)

// ErrNoDesignFile is returned by Save before the design has a path.
var ErrNoDesignFile = errors.New("session: design has no file yet")

// Session is not safe for concurrent use; it lives on the UI event loop.
type Session struct {
	Config  config.AppConfig
	Canvas  *designer.Canvas
	Editor  *designer.Editor
	Design  *storage.DesignHandle
	History *storage.History

	gen       *codegen.Generator
	dirty     bool
	listeners []func(designer.Change)
	log       *slog.Logger
}

// New builds an empty session. A history database that cannot be opened is
// logged and disabled rather than failing the session.
func New(cfg config.AppConfig) (*Session, error) {
	gen, err := codegen.New(widgets.Default)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Config: cfg,
		Canvas: designer.NewCanvas(designer.Config{
			Catalog: widgets.Default,
			Origin:  designer.Point{X: cfg.Designer.DefaultX, Y: cfg.Designer.DefaultY},
		}),
		gen: gen,
		log: applog.WithComponent("session"),
	}
	s.Editor = designer.NewEditor(s.Canvas)
	s.Canvas.OnChange = s.changed
	s.Design = &storage.DesignHandle{Doc: storage.NewDocument("", cfg.Designer.CanvasWidth, cfg.Designer.CanvasHeight)}

	if cfg.History.Enabled {
		if p, err := cfg.HistoryPath(); err != nil {
			s.log.Warn("history disabled", slog.Any("err", err))
		} else if h, err := storage.OpenHistory(p); err != nil {
			s.log.Warn("history disabled", slog.String("path", p), slog.Any("err", err))
		} else {
			s.History = h
		}
	}
	return s, nil
}

func (s *Session) Close() error {
	if s.History == nil {
		return nil
	}
	return s.History.Close()
}

// OnChange subscribes to canvas changes.
func (s *Session) OnChange(fn func(designer.Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) changed(ch designer.Change) {
	s.dirty = true
	// keep the document current for crash autosave
	s.Design.Doc = designer.Snapshot(s.Canvas, s.Design.Doc)
	for _, fn := range s.listeners {
		fn(ch)
	}
}

// Touch marks the design modified after an edit the canvas does not see,
// such as a property change.
func (s *Session) Touch() {
	s.dirty = true
	s.Design.Doc = designer.Snapshot(s.Canvas, s.Design.Doc)
}

func (s *Session) Dirty() bool { return s.dirty }

// Name is the design name shown in titles.
func (s *Session) Name() string { return s.Design.Doc.Name }

// Path is the design file, empty for an unsaved design.
func (s *Session) Path() string { return s.Design.Path }

// Reset discards the current design and starts an unsaved one.
func (s *Session) Reset(name string) {
	s.Canvas.OnChange = nil
	defer func() { s.Canvas.OnChange = s.changed }()
	s.Canvas.Clear()
	s.Editor = designer.NewEditor(s.Canvas)
	s.Design = &storage.DesignHandle{Doc: storage.NewDocument(name, s.Config.Designer.CanvasWidth, s.Config.Designer.CanvasHeight)}
	s.dirty = false
}

// Open loads a design file into the canvas. A design that cannot be
// restored leaves the current one open.
func (s *Session) Open(path string) error {
	dh, err := storage.Open(path)
	if err != nil {
		return err
	}
	s.Canvas.OnChange = nil
	defer func() { s.Canvas.OnChange = s.changed }()
	if err := designer.Restore(s.Canvas, dh.Doc); err != nil {
		return fmt.Errorf("restore %s: %w", filepath.Base(path), err)
	}
	s.Design = dh
	s.Editor = designer.NewEditor(s.Canvas)
	s.dirty = false
	s.log.Info("design opened", slog.String("path", path), slog.Int("widgets", s.Canvas.Len()))
	return nil
}

// Save writes the design to its file.
func (s *Session) Save() error {
	if s.Design.Path == "" {
		return ErrNoDesignFile
	}
	s.Design.Doc = designer.Snapshot(s.Canvas, s.Design.Doc)
	if err := storage.Save(s.Design); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// SaveAs writes the design to path, adding the design extension if missing.
func (s *Session) SaveAs(path string) error {
	s.Design.Doc = designer.Snapshot(s.Canvas, s.Design.Doc)
	if err := storage.SaveAs(s.Design, storage.DesignPath(path)); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Add places a widget by type name at the default position.
func (s *Session) Add(typeName string) (designer.SlotID, error) {
	t, err := widgets.ParseType(typeName)
	if err != nil {
		return 0, err
	}
	return s.Editor.Add(t)
}

// Properties renders the editable properties of a placed widget.
func (s *Session) Properties(id designer.SlotID) (string, error) {
	p, ok := s.Canvas.Lookup(id)
	if !ok {
		return "", designer.ErrStaleReference
	}
	return props.Open(p.Handle), nil
}

// ApplyProperties applies edited property text to a placed widget. Lines
// that fail are reported; the others stay applied.
func (s *Session) ApplyProperties(id designer.SlotID, text string) []error {
	p, ok := s.Canvas.Lookup(id)
	if !ok {
		return []error{designer.ErrStaleReference}
	}
	errs := props.Apply(p.Handle, text)
	s.Touch()
	return errs
}

// CodeOptions are the generation options derived from config and design.
func (s *Session) CodeOptions() codegen.Options {
	return codegen.Options{
		Title:  s.Config.Export.AppTitle,
		Theme:  s.Config.General.Theme,
		Width:  s.Design.Doc.Canvas.Width,
		Height: s.Design.Doc.Canvas.Height,
	}
}

// Generate renders the program for the current canvas.
func (s *Session) Generate() string { return s.gen.Generate(s.Canvas, s.CodeOptions()) }

// Export renders the program, hands it to save and records the export.
func (s *Session) Export(ctx context.Context, save codegen.SaveFunc) (codegen.Result, error) {
	res, err := s.gen.Export(ctx, s.Canvas, s.CodeOptions(), save)
	if err != nil || res.Path == "" {
		return res, err
	}
	if s.History != nil {
		_, herr := s.History.RecordExport(ctx, storage.ExportRecord{
			Design:   s.Name(),
			Path:     res.Path,
			Widgets:  res.Emitted,
			Checksum: res.Checksum,
		})
		if herr != nil {
			s.log.Warn("record export failed", slog.Any("err", herr))
		}
	}
	return res, nil
}

// ExportTo writes the program to path, adding the configured extension.
func (s *Session) ExportTo(ctx context.Context, path string) (codegen.Result, error) {
	if path != "" && filepath.Ext(path) == "" {
		path += s.Config.Export.Extension
	}
	return s.Export(ctx, codegen.FileSaver(path))
}

// RecentExports lists the newest exports; empty when history is disabled.
func (s *Session) RecentExports(ctx context.Context, limit int) ([]storage.ExportRecord, error) {
	if s.History == nil {
		return nil, nil
	}
	return s.History.RecentExports(ctx, limit)
}

// Preview writes a wireframe; the format follows the extension (.pdf, .png).
func (s *Session) Preview(path string) error {
	opt := export.Options{
		Title:  s.Name(),
		Width:  s.Design.Doc.Canvas.Width,
		Height: s.Design.Doc.Canvas.Height,
		Grid:   true,
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return export.ExportPDF(s.Canvas, path, opt)
	case ".png":
		return export.ExportPNG(s.Canvas, path, opt)
	default:
		return fmt.Errorf("unsupported preview format %q (use .pdf or .png)", filepath.Ext(path))
	}
}

// Content returns the editable content of a widget, if it has any.
func (s *Session) Content(id designer.SlotID) (string, bool) {
	p, ok := s.Canvas.Lookup(id)
	if !ok {
		return "", false
	}
	ce, ok := p.Handle.(widgets.ContentEditor)
	if !ok {
		return "", false
	}
	return ce.Content()
}

// SetContent replaces a widget's content.
func (s *Session) SetContent(id designer.SlotID, text string) error {
	p, ok := s.Canvas.Lookup(id)
	if !ok {
		return designer.ErrStaleReference
	}
	ce, ok := p.Handle.(widgets.ContentEditor)
	if !ok {
		return fmt.Errorf("%s has no editable content", p.Type)
	}
	if err := ce.ReplaceContent(text); err != nil {
		return err
	}
	s.Touch()
	return nil
}
