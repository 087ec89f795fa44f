/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"formdesigner/internal/config"
	"formdesigner/internal/crash"
	"formdesigner/internal/designer"
	"formdesigner/internal/export"
	applog "formdesigner/internal/log"
	"formdesigner/internal/session"
	"formdesigner/internal/storage"
	"formdesigner/internal/ui"
	"formdesigner/internal/version"
)

func usage() {
	fmt.Println("formdesigner: visual tkinter form designer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  formdesigner version|-v|--version             Show version")
	fmt.Println("  formdesigner new <design> [name]              Create an empty design file")
	fmt.Println("  formdesigner add <design> <type> [x y]        Place a widget and save")
	fmt.Println("  formdesigner set <design> <n> <key> [value]   Set a property on the n-th widget")
	fmt.Println("  formdesigner info <design>                    Print the widgets of a design")
	fmt.Println("  formdesigner export <design> <out.py>         Generate the Python program")
	fmt.Println("  formdesigner preview <design> <out.pdf|.png>  Write a wireframe preview")
	fmt.Println("  formdesigner history                          List recent exports")
	fmt.Println("  formdesigner schema                           Print the design file JSON schema")
	fmt.Println("  formdesigner ui [<design>]                    Launch desktop UI (build with -tags fyne for full UI)")
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func need(args []string, n int, what string) {
	if len(args) < n {
		fmt.Println(what)
		usage()
		os.Exit(2)
	}
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("formdesigner")
		fmt.Println(version.String())
		return
	case "schema":
		_, _ = os.Stdout.Write(storage.Schema())
		return
	case "ui":
		var path string
		if len(args) >= 3 {
			path = args[2]
		}
		if err := ui.Run(path); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	case "new":
		need(args, 3, "new requires <design>")
		cfg := loadConfig(l)
		name := ""
		if len(args) >= 4 {
			name = args[3]
		}
		path, _ := filepath.Abs(storage.DesignPath(args[2]))
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), storage.DesignExt)
		}
		l.Info("new design", slog.String("path", path), slog.String("name", name))
		dh, err := storage.Create(path, storage.NewDocument(name, cfg.Designer.CanvasWidth, cfg.Designer.CanvasHeight))
		if err != nil {
			fail(l, "create failed", err)
		}
		fmt.Println("Created design", dh.Doc.Name, "at", dh.Path)
		return
	case "add", "set", "info", "export", "preview", "history":
	default:
		usage()
		return
	}

	sess, err := session.New(loadConfig(l))
	if err != nil {
		fail(l, "session failed", err)
	}
	defer sess.Close()
	defer crash.RecoverCurrent(func() *storage.DesignHandle { return sess.Design })

	if args[1] == "history" {
		printHistory(l, sess)
		return
	}

	need(args, 3, args[1]+" requires <design>")
	path, _ := filepath.Abs(storage.DesignPath(args[2]))
	if err := sess.Open(path); err != nil {
		fail(l, "open failed", err)
	}

	switch args[1] {
	case "add":
		need(args, 4, "add requires <design> <type>")
		id, err := sess.Add(args[3])
		if err != nil {
			fail(l, "add failed", err)
		}
		if len(args) >= 6 {
			x, errX := strconv.ParseFloat(args[4], 64)
			y, errY := strconv.ParseFloat(args[5], 64)
			if errX != nil || errY != nil {
				fmt.Println("x and y must be numbers")
				os.Exit(2)
			}
			sess.Canvas.MoveTo(id, designer.Point{X: x, Y: y})
		}
		if err := sess.Save(); err != nil {
			fail(l, "save failed", err)
		}
		pos, _ := sess.Canvas.Coords(id)
		fmt.Printf("Added %s #%d at (%g, %g)\n", args[3], sess.Canvas.Len(), pos.X, pos.Y)
	case "set":
		need(args, 5, "set requires <design> <n> <key>")
		id := nth(sess, args[3])
		value := strings.Join(args[5:], " ")
		var errs []error
		if args[4] == "content" {
			if err := sess.SetContent(id, strings.ReplaceAll(value, `\n`, "\n")); err != nil {
				errs = append(errs, err)
			}
		} else {
			errs = sess.ApplyProperties(id, args[4]+": "+value)
		}
		for _, err := range errs {
			fmt.Println("Error:", err)
		}
		if err := sess.Save(); err != nil {
			fail(l, "save failed", err)
		}
		if len(errs) > 0 {
			os.Exit(1)
		}
	case "info":
		printInfo(sess)
	case "export":
		need(args, 4, "export requires <design> <out.py>")
		res, err := sess.ExportTo(context.Background(), args[3])
		if err != nil {
			fail(l, "export failed", err)
		}
		fmt.Printf("Wrote %s (%d widgets, %d skipped)\n", res.Path, res.Emitted, res.Skipped)
	case "preview":
		need(args, 4, "preview requires <design> <out.pdf|out.png>")
		if err := sess.Preview(args[3]); err != nil {
			fail(l, "preview failed", err)
		}
		fmt.Println("Wrote", args[3])
	}
}

func loadConfig(l *slog.Logger) config.AppConfig {
	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", err))
		return config.Defaults()
	}
	return cfg
}

// nth resolves a 1-based widget index as printed by info.
func nth(sess *session.Session, arg string) designer.SlotID {
	n, err := strconv.Atoi(arg)
	ws := sess.Canvas.Widgets()
	if err != nil || n < 1 || n > len(ws) {
		fmt.Printf("no widget #%s (design has %d)\n", arg, len(ws))
		os.Exit(2)
	}
	return ws[n-1].Slot
}

func printInfo(sess *session.Session) {
	d := sess.Design.Doc
	fmt.Printf("Design: %s\n", d.Name)
	fmt.Printf("Canvas: %dx%d\n", d.Canvas.Width, d.Canvas.Height)
	fmt.Printf("Widgets: %d\n", sess.Canvas.Len())
	for i, p := range sess.Canvas.Widgets() {
		fmt.Printf("  %2d  %-12s (%g, %g)  %s\n", i+1, p.Type, p.Pos.X, p.Pos.Y, export.Caption(p.Handle.State()))
	}
	fmt.Println("Path:", sess.Path())
}

func printHistory(l *slog.Logger, sess *session.Session) {
	if sess.History == nil {
		fmt.Println("Export history is disabled.")
		return
	}
	recs, err := sess.RecentExports(context.Background(), 20)
	if err != nil {
		fail(l, "history failed", err)
	}
	if len(recs) == 0 {
		fmt.Println("No exports yet.")
		return
	}
	for _, r := range recs {
		fmt.Println(historyLine(r))
	}
}

// historyLine formats one export; the checksum is shortened for display.
func historyLine(r storage.ExportRecord) string {
	sum := r.Checksum
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return fmt.Sprintf("%s  %-20s %3d widgets  %-12s  %s", r.At.Local().Format("2006-01-02 15:04"), r.Design, r.Widgets, sum, r.Path)
}
