/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"formdesigner/internal/codegen"
	"formdesigner/internal/metrics"
	"formdesigner/internal/storage"
)

// RenderPNG rasterizes the wireframe of src.
func RenderPNG(src codegen.Source, opt Options) *image.RGBA {
	opt = opt.withDefaults()
	s := opt.Scale
	pixW := int(math.Round(float64(opt.Width) * s))
	pixH := int(math.Round(float64(opt.Height) * s))
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opt.Background}, image.Point{}, draw.Src)

	if opt.Grid {
		for x := gridStep; x < opt.Width; x += gridStep {
			px := int(math.Round(float64(x) * s))
			for y := 0; y < pixH; y++ {
				img.SetRGBA(px, y, opt.GridColor)
			}
		}
		for y := gridStep; y < opt.Height; y += gridStep {
			py := int(math.Round(float64(y) * s))
			for x := 0; x < pixW; x++ {
				img.SetRGBA(x, py, opt.GridColor)
			}
		}
	}

	d := &font.Drawer{Dst: img, Src: image.NewUniform(opt.LabelColor), Face: metrics.Face}
	for _, b := range layout(src) {
		x0 := int(math.Round(b.R.X * s))
		y0 := int(math.Round(b.R.Y * s))
		x1 := int(math.Round((b.R.X+b.R.W)*s)) - 1
		y1 := int(math.Round((b.R.Y+b.R.H)*s)) - 1
		fillRect(img, x0, y0, x1, y1, opt.Fill)
		strokeRect(img, x0, y0, x1, y1, opt.Stroke)

		label := fitLabel(d.Face, b.Label, fixed.I(x1-x0-4))
		d.Dot = fixed.P(x0+3, y0+int(metrics.LineHeight()))
		// keep glyphs inside the box
		d.Dst = img.SubImage(image.Rect(x0+1, y0+1, x1, y1)).(*image.RGBA)
		d.DrawString(label)
	}
	return img
}

// ExportPNG writes the wireframe of src as a PNG file.
func ExportPNG(src codegen.Source, path string, opt Options) error {
	img := RenderPNG(src, opt)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// fitLabel trims s until it fits width.
func fitLabel(face font.Face, s string, width fixed.Int26_6) string {
	r := []rune(s)
	for len(r) > 1 && font.MeasureString(face, string(r)) > width {
		r = r[:len(r)-1]
	}
	return string(r)
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	draw.Draw(img, image.Rect(x0, y0, x1+1, y1+1), &image.Uniform{C: col}, image.Point{}, draw.Src)
}
