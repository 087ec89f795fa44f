/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"

	"github.com/jung-kurt/gofpdf"

	"formdesigner/internal/codegen"
)

// ExportPDF writes a one-page wireframe of src. Canvas units map 1:1 to points.
func ExportPDF(src codegen.Source, path string, opt Options) error {
	opt = opt.withDefaults()
	w, h := float64(opt.Width), float64(opt.Height)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle(opt.Title, true)
	pdf.SetCreator("formdesigner", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	setFillColor(pdf, opt.Background)
	pdf.Rect(0, 0, w, h, "F")

	if opt.Grid {
		setDrawColor(pdf, opt.GridColor)
		pdf.SetLineWidth(0.3)
		for x := float64(gridStep); x < w; x += gridStep {
			pdf.Line(x, 0, x, h)
		}
		for y := float64(gridStep); y < h; y += gridStep {
			pdf.Line(0, y, w, y)
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetLineWidth(0.8)
	for _, b := range layout(src) {
		setFillColor(pdf, opt.Fill)
		setDrawColor(pdf, opt.Stroke)
		pdf.Rect(b.R.X, b.R.Y, b.R.W, b.R.H, "FD")
		setTextColor(pdf, opt.LabelColor)
		label := tr(b.Label)
		for len(label) > 1 && pdf.GetStringWidth(label) > b.R.W-4 {
			label = label[:len(label)-1]
		}
		pdf.Text(b.R.X+2, b.R.Y+9, label)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
