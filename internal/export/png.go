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
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"

	"ringchart/internal/draw"
)

// DefaultDPI is used by raster output when no DPI is configured.
const DefaultDPI = 150

// PNG rasterizes each page into its own image using the Go fonts.
type PNG struct {
	pages PageWriter
	dpi   float64
	scale float64

	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face

	img  *image.RGBA
	h    float64
	n    int
	done [][]byte // encoded pages, written on Save

	// ferr is the first face construction error hit while measuring.
	ferr error
}

var newFace = opentype.NewFace

type faceKey struct {
	bold bool
	size float64
	dpi  float64
}

// NewPNG returns a raster canvas. dpi <= 0 selects DefaultDPI.
func NewPNG(pages PageWriter, dpi float64) (*PNG, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &PNG{
		pages:   pages,
		dpi:     dpi,
		scale:   dpi / 72.0,
		regular: reg,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func (p *PNG) face(f draw.Font, dpi float64) (font.Face, error) {
	k := faceKey{bold: f.Bold, size: f.Size, dpi: dpi}
	if fc, ok := p.faces[k]; ok {
		return fc, nil
	}
	src := p.regular
	if f.Bold {
		src = p.bold
	}
	fc, err := newFace(src, &opentype.FaceOptions{Size: f.Size, DPI: dpi, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	p.faces[k] = fc
	return fc, nil
}

// TextWidth measures at 72 DPI so the result is in points. A face error
// measures as 0 and fails the next NewPage or Save.
func (p *PNG) TextWidth(text string, f draw.Font) float64 {
	fc, err := p.face(f, 72)
	if err != nil {
		if p.ferr == nil {
			p.ferr = fmt.Errorf("png measure %gpt: %w", f.Size, err)
		}
		return 0
	}
	return fixedToFloat(font.MeasureString(fc, text))
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func grayColor(g float64) color.Gray { return color.Gray{Y: uint8(grayByte(g))} }

func (p *PNG) NewPage(width, height float64) error {
	if p.ferr != nil {
		return p.ferr
	}
	if err := p.flush(); err != nil {
		return err
	}
	w := int(math.Round(width * p.scale))
	h := int(math.Round(height * p.scale))
	p.img = image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(p.img, p.img.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	p.h = height
	p.n++
	return nil
}

// px converts a layout point to image pixels, flipping y.
func (p *PNG) px(x, y float64) (float64, float64) { return x * p.scale, (p.h - y) * p.scale }

func (p *PNG) DrawText(d draw.Directive) error {
	if p.img == nil {
		return errors.New("png: text before first page")
	}
	fc, err := p.face(d.Font, p.dpi)
	if err != nil {
		return fmt.Errorf("png face: %w", err)
	}
	x, y := p.px(draw.TextLeft(p, d), d.Y)
	dr := font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(grayColor(d.Gray)),
		Face: fc,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	dr.DrawString(d.Text)
	return nil
}

func (p *PNG) fill(x0, y0, x1, y1 float64, c color.Color) {
	r := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
	xdraw.Draw(p.img, r.Canon(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (p *PNG) FillRect(x, y, w, h, gray float64) error {
	if p.img == nil {
		return errors.New("png: fill before first page")
	}
	x0, y0 := p.px(x, y+h)
	x1, y1 := p.px(x+w, y)
	p.fill(x0, y0, x1, y1, grayColor(gray))
	return nil
}

func (p *PNG) StrokeRect(x, y, w, h, lineWidth, gray float64) error {
	for _, s := range [][4]float64{
		{x, y, x + w, y}, {x, y + h, x + w, y + h},
		{x, y, x, y + h}, {x + w, y, x + w, y + h},
	} {
		if err := p.StrokeLine(s[0], s[1], s[2], s[3], lineWidth, gray); err != nil {
			return err
		}
	}
	return nil
}

// StrokeLine draws axis-aligned lines as rectangles; other lines are
// stamped with square dots along their length.
func (p *PNG) StrokeLine(x1, y1, x2, y2, lineWidth, gray float64) error {
	if p.img == nil {
		return errors.New("png: line before first page")
	}
	c := grayColor(gray)
	half := math.Max(lineWidth*p.scale, 1) / 2
	ax, ay := p.px(x1, y1)
	bx, by := p.px(x2, y2)
	switch {
	case ax == bx || ay == by:
		p.fill(math.Min(ax, bx)-half, math.Min(ay, by)-half, math.Max(ax, bx)+half, math.Max(ay, by)+half, c)
	default:
		steps := int(math.Ceil(math.Hypot(bx-ax, by-ay)))
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			cx, cy := ax+(bx-ax)*t, ay+(by-ay)*t
			p.fill(cx-half, cy-half, cx+half, cy+half, c)
		}
	}
	return nil
}

func (p *PNG) flush() error {
	if p.img == nil {
		return nil
	}
	var b bytes.Buffer
	if err := png.Encode(&b, p.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	p.done = append(p.done, b.Bytes())
	p.img = nil
	return nil
}

// Save encodes the last page, writes every page and releases the font faces.
func (p *PNG) Save() error {
	if p.n == 0 {
		return errors.New("png: no pages")
	}
	defer func() {
		for k, fc := range p.faces {
			_ = fc.Close()
			delete(p.faces, k)
		}
	}()
	if p.ferr != nil {
		return p.ferr
	}
	if err := p.flush(); err != nil {
		return err
	}
	return writePages(p.pages, p.done, FormatPNG)
}
