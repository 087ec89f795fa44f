/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"formdesigner/internal/widgets"
)

const (
	DesignExt       = ".fdesign.json"
	BackupsDirName  = "backups"
	DocumentVersion = 1
)

// Document is the on-disk form of a design. Widgets are stored in canvas
// order, which is also the export order.
type Document struct {
	Version  int            `json:"version"`
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Canvas   CanvasSize     `json:"canvas"`
	Widgets  []WidgetRecord `json:"widgets"`
	Created  time.Time      `json:"created"`
	Modified time.Time      `json:"modified"`
}

type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WidgetRecord is one placed widget with its live state.
type WidgetRecord struct {
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
	State widgets.State `json:"state"`
}

// NewDocument returns an empty design with a fresh id.
func NewDocument(name string, width, height int) Document {
	now := time.Now().UTC()
	if strings.TrimSpace(name) == "" {
		name = "Untitled"
	}
	return Document{
		Version:  DocumentVersion,
		ID:       uuid.NewString(),
		Name:     name,
		Canvas:   CanvasSize{Width: width, Height: height},
		Widgets:  []WidgetRecord{},
		Created:  now,
		Modified: now,
	}
}

// DesignHandle ties a document to its file.
type DesignHandle struct {
	Path string
	Doc  Document
}

// DesignPath appends the design extension when missing.
func DesignPath(p string) string {
	if strings.HasSuffix(p, DesignExt) {
		return p
	}
	return strings.TrimSuffix(p, ".json") + DesignExt
}

// Create writes a new document at path. An existing file is not overwritten.
func Create(path string, doc Document) (*DesignHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("design path is required")
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("design %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create design dir: %w", err)
	}
	dh := &DesignHandle{Path: path, Doc: doc}
	if err := Save(dh); err != nil {
		return nil, err
	}
	return dh, nil
}

// Open loads a design. If the file cannot be read, parsed or validated, the
// latest backup is tried.
func Open(path string) (*DesignHandle, error) {
	doc, err := readDocument(path)
	if err != nil {
		bdoc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open design: %w; backup attempt: %v", err, berr)
		}
		return &DesignHandle{Path: path, Doc: *bdoc}, nil
	}
	return &DesignHandle{Path: path, Doc: *doc}, nil
}

func readDocument(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(b); err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse design: %w", err)
	}
	if d.Widgets == nil {
		d.Widgets = []WidgetRecord{}
	}
	return &d, nil
}

// Save writes dh.Doc to dh.Path, backing up the previous file first.
func Save(dh *DesignHandle) error {
	if dh == nil {
		return errors.New("nil DesignHandle")
	}
	if dh.Path == "" {
		return errors.New("invalid DesignHandle: missing path")
	}
	if dh.Doc.ID == "" {
		dh.Doc.ID = uuid.NewString()
	}
	if dh.Doc.Version == 0 {
		dh.Doc.Version = DocumentVersion
	}
	dh.Doc.Modified = time.Now().UTC()
	data, err := json.MarshalIndent(dh.Doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	data = append(data, '\n')

	if _, statErr := os.Stat(dh.Path); statErr == nil {
		bdir := backupsDir(dh.Path)
		if err := os.MkdirAll(bdir, 0o755); err != nil {
			return fmt.Errorf("ensure backups dir: %w", err)
		}
		stamp := time.Now().Format("20060102-150405.000")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(dh.Path), stamp))
		if cerr := copyFile(dh.Path, bpath); cerr != nil {
			return fmt.Errorf("backup current design: %w", cerr)
		}
	}
	return WriteFileAtomic(dh.Path, data)
}

// SaveAs moves the handle to a new path and saves.
func SaveAs(dh *DesignHandle, path string) error {
	if dh == nil {
		return errors.New("nil DesignHandle")
	}
	if path == "" {
		return errors.New("new path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create design dir: %w", err)
	}
	dh.Path = path
	return Save(dh)
}

// WriteFileAtomic writes data to a temp file beside path and renames it
// over the target.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	// Windows cannot rename over an existing file.
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func backupsDir(path string) string {
	return filepath.Join(filepath.Dir(path), BackupsDirName)
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// Backups lists the backups of the design at path, oldest first.
func Backups(path string) ([]string, error) {
	bdir := backupsDir(path)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	// timestamp in name yields lexicographic order
	sort.Strings(out)
	return out, nil
}

func openFromLatestBackup(path string) (*Document, error) {
	candidates, err := Backups(path)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	latest := candidates[len(candidates)-1]
	d, err := readDocument(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	return d, nil
}

// AutosaveCrashSnapshot writes dh.Doc beside the backups without touching the
// design file. It returns the snapshot path.
func AutosaveCrashSnapshot(dh *DesignHandle) (string, error) {
	if dh == nil || dh.Path == "" {
		return "", errors.New("invalid DesignHandle: missing path")
	}
	data, err := json.MarshalIndent(dh.Doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal crash snapshot: %w", err)
	}
	bdir := backupsDir(dh.Path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s.json", filepath.Base(dh.Path), stamp))
	if err := WriteFileAtomic(path, append(data, '\n')); err != nil {
		return "", err
	}
	return path, nil
}
