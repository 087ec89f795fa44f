/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report and an autosave of the
// open design.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "formdesigner/internal/log"
	"formdesigner/internal/storage"
	"formdesigner/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs it with its stack, writes a report file and
// autosaves the design held by dh (if any), then exits with code 2.
//
// Usage: defer crash.Recover(dh)
func Recover(dh *storage.DesignHandle) {
	if r := recover(); r != nil {
		handle(dh, r, debug.Stack())
	}
}

// RecoverCurrent is Recover for long-running shells whose open design
// changes; current is asked for the handle only when a panic happened.
//
// Usage: defer crash.RecoverCurrent(func() *storage.DesignHandle { return sess.Design })
func RecoverCurrent(current func() *storage.DesignHandle) {
	if r := recover(); r != nil {
		handle(current(), r, debug.Stack())
	}
}

func handle(dh *storage.DesignHandle, r any, stack []byte) {
	l := applog.WithComponent("crash")
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(dh, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if dh != nil && dh.Path != "" {
		if path, err := storage.AutosaveCrashSnapshot(dh); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", path))
		}
	}

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func reportDir(dh *storage.DesignHandle) string {
	if dh == nil || dh.Path == "" {
		return os.TempDir()
	}
	dir := filepath.Join(filepath.Dir(dh.Path), storage.BackupsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.TempDir()
	}
	return dir
}

func writeReport(dh *storage.DesignHandle, panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(reportDir(dh), fmt.Sprintf("formdesigner-crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Form Designer Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if dh != nil {
		_, _ = fmt.Fprintf(&buf, "Design: %s\n", dh.Path)
		_, _ = fmt.Fprintf(&buf, "Widgets: %d\n", len(dh.Doc.Widgets))
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}
