//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"formdesigner/internal/config"
	"formdesigner/internal/crash"
	"formdesigner/internal/designer"
	applog "formdesigner/internal/log"
	"formdesigner/internal/session"
	"formdesigner/internal/storage"
	"formdesigner/internal/version"
	"formdesigner/internal/widgets"
)

// Run starts the designer window. Pass an optional design file to open immediately.
func Run(designPath string) error {
	l := applog.WithComponent("ui")
	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", err))
	}
	sess, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()
	defer crash.RecoverCurrent(func() *storage.DesignHandle { return sess.Design })

	fyneApp := app.NewWithID("formdesigner")
	// the light theme is applied once at startup
	if strings.EqualFold(cfg.General.Theme, "light") {
		fyneApp.Settings().SetTheme(lightTheme{Theme: theme.DefaultTheme()})
	}
	w := fyneApp.NewWindow("Form Designer")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1000)
	winH := prefs.IntWithFallback("window.height", 720)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	sh := &shell{sess: sess, w: w, prefs: prefs, log: l}
	sh.status = widget.NewLabel("Ready")
	sh.fc = NewFormCanvas(sess)
	sh.fc.OnProperties = sh.editProperties
	sh.fc.OnMenu = sh.showContextMenu
	sess.OnChange(func(designer.Change) { sh.updateTitle() })

	w.SetContent(container.NewBorder(sh.toolbar(), sh.status, nil, nil, container.NewScroll(sh.fc)))
	w.SetMainMenu(sh.mainMenu())
	sh.shortcuts()

	w.SetCloseIntercept(func() {
		quit := func() {
			sz := w.Canvas().Size()
			prefs.SetInt("window.width", int(sz.Width))
			prefs.SetInt("window.height", int(sz.Height))
			w.Close()
		}
		if !sess.Dirty() {
			quit()
			return
		}
		dialog.NewConfirm("Unsaved changes", "Discard unsaved changes to "+sess.Name()+"?", func(ok bool) {
			if ok {
				quit()
			}
		}, w).Show()
	})

	if designPath != "" {
		if err := sh.open(designPath); err != nil {
			l.Error("auto-open design failed", slog.Any("err", err))
			dialog.ShowError(err, w)
		}
	}
	sh.updateTitle()
	w.ShowAndRun()
	return nil
}

// lightTheme pins the default theme to its light variant.
type lightTheme struct{ fyne.Theme }

func (t lightTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(n, theme.VariantLight)
}

type shell struct {
	sess   *session.Session
	w      fyne.Window
	prefs  fyne.Preferences
	fc     *FormCanvas
	status *widget.Label
	log    *slog.Logger
}

func (sh *shell) setStatus(format string, args ...any) {
	sh.status.SetText(fmt.Sprintf(format, args...))
}

func (sh *shell) updateTitle() {
	title := "Form Designer - " + sh.sess.Name()
	if sh.sess.Dirty() {
		title += " *"
	}
	sh.w.SetTitle(title)
}

func (sh *shell) toolbar() fyne.CanvasObject {
	names := make([]string, 0, len(widgets.Types()))
	for _, t := range widgets.Default.Types() {
		names = append(names, t.String())
	}
	pick := widget.NewSelect(names, nil)
	pick.SetSelected(names[0])
	add := widget.NewButtonWithIcon("Add Widget", theme.ContentAddIcon(), func() {
		sh.add(pick.Selected)
	})
	export := widget.NewButtonWithIcon("Export to Python", theme.DocumentSaveIcon(), sh.exportCode)
	return container.NewHBox(
		pick, add,
		widget.NewSeparator(),
		widget.NewButtonWithIcon("", theme.ContentCutIcon(), sh.cut),
		widget.NewButtonWithIcon("", theme.ContentCopyIcon(), sh.copy),
		widget.NewButtonWithIcon("", theme.ContentPasteIcon(), sh.paste),
		widget.NewButtonWithIcon("", theme.DeleteIcon(), sh.delete),
		widget.NewSeparator(),
		export,
	)
}

func (sh *shell) mainMenu() *fyne.MainMenu {
	newItem := fyne.NewMenuItem("New", sh.newDesign)
	openItem := fyne.NewMenuItem("Open…", sh.openDialog)
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = sh.recentMenu()
	saveItem := fyne.NewMenuItem("Save", sh.save)
	saveAsItem := fyne.NewMenuItem("Save As…", sh.saveAs)
	exportItem := fyne.NewMenuItem("Export to Python…", sh.exportCode)
	previewItem := fyne.NewMenuItem("Export Preview (PDF/PNG)…", sh.exportPreview)
	historyItem := fyne.NewMenuItem("Recent Exports…", sh.showHistory)
	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}
	exportItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierShortcutDefault}
	fileMenu := fyne.NewMenu("File", newItem, openItem, recentItem, saveItem, saveAsItem,
		fyne.NewMenuItemSeparator(), exportItem, previewItem, historyItem)

	cutItem := fyne.NewMenuItem("Cut", sh.cut)
	copyItem := fyne.NewMenuItem("Copy", sh.copy)
	pasteItem := fyne.NewMenuItem("Paste", sh.paste)
	deleteItem := fyne.NewMenuItem("Delete", sh.delete)
	propsItem := fyne.NewMenuItem("Properties…", func() {
		if id, ok := sh.sess.Editor.Selected(); ok {
			sh.editProperties(id)
		}
	})
	editMenu := fyne.NewMenu("Edit", cutItem, copyItem, pasteItem, deleteItem, fyne.NewMenuItemSeparator(), propsItem)

	var addItems []*fyne.MenuItem
	for _, t := range widgets.Default.Types() {
		name := t.String()
		addItems = append(addItems, fyne.NewMenuItem(name, func() { sh.add(name) }))
	}
	insertMenu := fyne.NewMenu("Insert", addItems...)

	aboutItem := fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About", fmt.Sprintf("Form Designer\nVersion: %s", version.String()), sh.w)
	})
	return fyne.NewMainMenu(fileMenu, editMenu, insertMenu, fyne.NewMenu("Help", aboutItem))
}

func (sh *shell) shortcuts() {
	c := sh.w.Canvas()
	c.AddShortcut(&fyne.ShortcutCut{}, func(fyne.Shortcut) { sh.cut() })
	c.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) { sh.copy() })
	c.AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) { sh.paste() })
	c.SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyDelete {
			sh.delete()
		}
	})
}

func (sh *shell) add(name string) {
	id, err := sh.sess.Add(name)
	if err != nil {
		dialog.ShowError(err, sh.w)
		return
	}
	sh.fc.Refresh()
	sh.setStatus("Added %s (#%d)", name, id)
}

func (sh *shell) cut() {
	if err := sh.sess.Editor.Cut(); err != nil {
		sh.setStatus("Nothing selected")
		return
	}
	sh.setStatus("Cut")
}

func (sh *shell) copy() {
	if err := sh.sess.Editor.Copy(); err != nil {
		sh.setStatus("Nothing selected")
		return
	}
	sh.setStatus("Copied")
}

func (sh *shell) paste() {
	_, err := sh.sess.Editor.Paste()
	switch {
	case errors.Is(err, designer.ErrMissingClipboard):
		sh.setStatus("Clipboard is empty")
	case err != nil:
		dialog.ShowError(err, sh.w)
	default:
		sh.fc.Refresh()
		sh.setStatus("Pasted")
	}
}

func (sh *shell) delete() {
	if err := sh.sess.Editor.Delete(); err != nil {
		sh.setStatus("Nothing selected")
		return
	}
	sh.setStatus("Deleted")
}

func (sh *shell) showContextMenu(id designer.SlotID, onWidget bool, at fyne.Position) {
	var items []*fyne.MenuItem
	if onWidget {
		items = append(items,
			fyne.NewMenuItem("Cut", sh.cut),
			fyne.NewMenuItem("Copy", sh.copy),
		)
	}
	items = append(items, fyne.NewMenuItem("Paste", sh.paste))
	if onWidget {
		items = append(items,
			fyne.NewMenuItem("Delete", sh.delete),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Properties…", func() { sh.editProperties(id) }),
		)
		if _, ok := sh.sess.Content(id); ok {
			items = append(items, fyne.NewMenuItem("Edit Content…", func() { sh.editContent(id) }))
		}
	}
	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), sh.w.Canvas(), at)
}

func (sh *shell) editProperties(id designer.SlotID) {
	text, err := sh.sess.Properties(id)
	if err != nil {
		return
	}
	if text == "" {
		if _, ok := sh.sess.Content(id); ok {
			sh.editContent(id)
			return
		}
		dialog.ShowInformation("Properties", "This widget has no editable properties.", sh.w)
		return
	}
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	entry.SetMinRowsVisible(6)
	d := dialog.NewCustomConfirm("Edit Properties", "Apply", "Cancel", entry, func(ok bool) {
		if !ok {
			return
		}
		if errs := sh.sess.ApplyProperties(id, entry.Text); len(errs) > 0 {
			dialog.ShowError(errors.Join(errs...), sh.w)
		}
		sh.fc.Refresh()
		sh.updateTitle()
	}, sh.w)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}

func (sh *shell) editContent(id designer.SlotID) {
	text, ok := sh.sess.Content(id)
	if !ok {
		return
	}
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	entry.SetMinRowsVisible(8)
	d := dialog.NewCustomConfirm("Edit Content", "Apply", "Cancel", entry, func(ok bool) {
		if !ok {
			return
		}
		if err := sh.sess.SetContent(id, entry.Text); err != nil {
			dialog.ShowError(err, sh.w)
		}
		sh.fc.Refresh()
		sh.updateTitle()
	}, sh.w)
	d.Resize(fyne.NewSize(420, 300))
	d.Show()
}

func (sh *shell) newDesign() {
	reset := func() {
		sh.sess.Reset("")
		sh.fc.Refresh()
		sh.updateTitle()
		sh.setStatus("New design")
	}
	if !sh.sess.Dirty() {
		reset()
		return
	}
	dialog.NewConfirm("New design", "Discard unsaved changes?", func(ok bool) {
		if ok {
			reset()
		}
	}, sh.w).Show()
}

func (sh *shell) open(path string) error {
	if err := sh.sess.Open(path); err != nil {
		return err
	}
	addRecentDesign(sh.prefs, path)
	sh.fc.Refresh()
	sh.updateTitle()
	sh.setStatus("Opened %s", filepath.Base(path))
	return nil
}

func (sh *shell) openDialog() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, sh.w)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		if err := sh.open(path); err != nil {
			dialog.ShowError(err, sh.w)
		}
	}, sh.w)
	fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

func (sh *shell) recentMenu() *fyne.Menu {
	var items []*fyne.MenuItem
	for _, p := range loadRecentDesigns(sh.prefs) {
		path := p
		items = append(items, fyne.NewMenuItem(filepath.Base(path), func() {
			if err := sh.open(path); err != nil {
				dialog.ShowError(err, sh.w)
			}
		}))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		items = append(items, none)
	}
	return fyne.NewMenu("Open Recent", items...)
}

func (sh *shell) save() {
	err := sh.sess.Save()
	if errors.Is(err, session.ErrNoDesignFile) {
		sh.saveAs()
		return
	}
	if err != nil {
		dialog.ShowError(err, sh.w)
		return
	}
	sh.updateTitle()
	sh.setStatus("Saved %s", filepath.Base(sh.sess.Path()))
}

func (sh *shell) saveAs() {
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, sh.w)
			return
		}
		if uc == nil {
			return
		}
		path := uc.URI().Path()
		_ = uc.Close()
		// the dialog already created path; drop it when SaveAs adds the extension
		if storage.DesignPath(path) != path {
			_ = os.Remove(path)
		}
		if err := sh.sess.SaveAs(path); err != nil {
			dialog.ShowError(err, sh.w)
			return
		}
		addRecentDesign(sh.prefs, sh.sess.Path())
		sh.updateTitle()
		sh.setStatus("Saved %s", filepath.Base(sh.sess.Path()))
	}, sh.w)
	fd.SetFileName(sanitizeFileName(sh.sess.Name()) + storage.DesignExt)
	fd.Show()
}

func (sh *shell) exportCode() {
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, sh.w)
			return
		}
		if uc == nil {
			return
		}
		save := func(_ context.Context, text string) (string, error) {
			if _, err := uc.Write([]byte(text)); err != nil {
				_ = uc.Close()
				return "", err
			}
			return uc.URI().Path(), uc.Close()
		}
		res, err := sh.sess.Export(context.Background(), save)
		if err != nil {
			dialog.ShowError(err, sh.w)
			return
		}
		msg := fmt.Sprintf("Exported %d widgets to %s", res.Emitted, res.Path)
		if res.Skipped > 0 {
			msg += fmt.Sprintf(" (%d skipped)", res.Skipped)
		}
		sh.setStatus("%s", msg)
	}, sh.w)
	fd.SetFileName(sanitizeFileName(sh.sess.Name()) + sh.sess.Config.Export.Extension)
	fd.SetFilter(fstorage.NewExtensionFileFilter([]string{sh.sess.Config.Export.Extension}))
	fd.Show()
}

func (sh *shell) exportPreview() {
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, sh.w)
			return
		}
		if uc == nil {
			return
		}
		path := uc.URI().Path()
		_ = uc.Close()
		if err := sh.sess.Preview(path); err != nil {
			dialog.ShowError(err, sh.w)
			return
		}
		dialog.ShowInformation("Export Preview", "Exported to "+path, sh.w)
	}, sh.w)
	fd.SetFileName(sanitizeFileName(sh.sess.Name()) + ".pdf")
	fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".pdf", ".png"}))
	fd.Show()
}

func (sh *shell) showHistory() {
	recs, err := sh.sess.RecentExports(context.Background(), 50)
	if err != nil {
		dialog.ShowError(err, sh.w)
		return
	}
	if sh.sess.History == nil {
		dialog.ShowInformation("Recent Exports", "Export history is disabled.", sh.w)
		return
	}
	if len(recs) == 0 {
		dialog.ShowInformation("Recent Exports", "No exports yet.", sh.w)
		return
	}
	list := widget.NewList(
		func() int { return len(recs) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			r := recs[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  %s  %d widgets  %s",
				r.At.Local().Format("2006-01-02 15:04"), r.Design, r.Widgets, r.Path))
		},
	)
	d := dialog.NewCustom("Recent Exports", "Close", list, sh.w)
	d.Resize(fyne.NewSize(640, 400))
	d.Show()
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "design"
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
}

const recentPrefsKey = "recent.designs"
const recentMax = 10

func loadRecentDesigns(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		_ = json.Unmarshal([]byte(raw), &items)
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func addRecentDesign(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	out := []string{abs}
	for _, s := range loadRecentDesigns(p) {
		// de-dup (case-insensitive on Windows)
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	if len(out) > recentMax {
		out = out[:recentMax]
	}
	b, _ := json.Marshal(out)
	p.SetString(recentPrefsKey, string(b))
}
