/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "formdesigner/internal/log"
	"formdesigner/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// historySchemaVersion tracks the layout of the history database.
const historySchemaVersion = 1

// atLayout is fixed width so stored timestamps sort lexicographically.
const atLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ExportRecord is one code export.
type ExportRecord struct {
	ID       int64
	Design   string
	Path     string
	Widgets  int
	Checksum string
	At       time.Time
}

// History is the export log.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the history database at path in WAL mode.
func OpenHistory(path string) (*History, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "history_open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureHistorySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure history schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("history ready")
	return &History{db: db}, nil
}

func ensureHistorySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exports (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			design    TEXT NOT NULL,
			path      TEXT NOT NULL,
			widgets   INTEGER NOT NULL,
			checksum  TEXT NOT NULL,
			at        TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_at ON exports(at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, updated_at) VALUES(1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET app=excluded.app, updated_at=excluded.updated_at`,
		historySchemaVersion, version.String(), now)
	if err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	return nil
}

// Checksum is the hex sha256 of exported text.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// RecordExport appends an export to the log. A zero At is set to now.
func (h *History) RecordExport(ctx context.Context, r ExportRecord) (int64, error) {
	if r.At.IsZero() {
		r.At = time.Now()
	}
	res, err := h.db.ExecContext(ctx,
		`INSERT INTO exports (design, path, widgets, checksum, at) VALUES(?, ?, ?, ?, ?)`,
		r.Design, r.Path, r.Widgets, r.Checksum, r.At.UTC().Format(atLayout))
	if err != nil {
		return 0, fmt.Errorf("record export: %w", err)
	}
	return res.LastInsertId()
}

// RecentExports returns up to limit records, newest first.
func (h *History) RecentExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, design, path, widgets, checksum, at FROM exports ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()
	var out []ExportRecord
	for rows.Next() {
		var (
			r  ExportRecord
			at string
		)
		if err := rows.Scan(&r.ID, &r.Design, &r.Path, &r.Widgets, &r.Checksum, &at); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		r.At, _ = time.Parse(atLayout, at)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}
