/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"ringchart/internal/draw"
	"ringchart/internal/version"
)

// Built-in Helvetica keeps text vector without embedding.
const pdfFamily = "Helvetica"

// PDF is a gofpdf backed canvas producing one multi-page document.
//
// Coordinates arrive with the origin at the bottom left and are flipped to
// gofpdf's top-left origin here. All units are points.
type PDF struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	w   io.Writer
	h   float64
}

// NewPDF returns a canvas that writes the finished document to w on Save.
// When w is also an io.Closer it is closed after writing.
func NewPDF(w io.Writer, title string) *PDF {
	pdf := newFpdf()
	pdf.SetTitle(title, true)
	pdf.SetAuthor("ringchart", false)
	pdf.SetCreator("ringchart "+version.String(), false)
	return &PDF{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), w: w}
}

func newFpdf() *gofpdf.Fpdf {
	// Use points for 1:1 mapping from layout to PDF
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 595.28, Ht: 841.89},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(pdfFamily, "", 12)
	return pdf
}

func fontStyle(f draw.Font) string {
	if f.Bold {
		return "B"
	}
	return ""
}

func grayByte(g float64) int {
	return int(math.Round(math.Max(0, math.Min(1, g)) * 255))
}

// SetTitle replaces the document title metadata.
func (p *PDF) SetTitle(title string) { p.pdf.SetTitle(title, true) }

// TextWidth reports the Helvetica advance width of text.
func (p *PDF) TextWidth(text string, f draw.Font) float64 {
	p.pdf.SetFont(pdfFamily, fontStyle(f), f.Size)
	return p.pdf.GetStringWidth(p.tr(text))
}

func (p *PDF) NewPage(width, height float64) error {
	p.pdf.AddPageFormat("", gofpdf.SizeType{Wd: width, Ht: height})
	p.h = height
	return p.pdf.Error()
}

func (p *PDF) DrawText(d draw.Directive) error {
	if p.pdf.PageNo() == 0 {
		return errors.New("pdf: text before first page")
	}
	s := p.tr(d.Text)
	p.pdf.SetFont(pdfFamily, fontStyle(d.Font), d.Font.Size)
	x := d.X
	switch d.Align {
	case draw.AlignCenter:
		x -= p.pdf.GetStringWidth(s) / 2
	case draw.AlignRight:
		x -= p.pdf.GetStringWidth(s)
	}
	c := grayByte(d.Gray)
	p.pdf.SetTextColor(c, c, c)
	p.pdf.Text(x, p.h-d.Y, s)
	return p.pdf.Error()
}

func (p *PDF) FillRect(x, y, w, h, gray float64) error {
	c := grayByte(gray)
	p.pdf.SetFillColor(c, c, c)
	p.pdf.Rect(x, p.h-y-h, w, h, "F")
	return p.pdf.Error()
}

func (p *PDF) StrokeRect(x, y, w, h, lineWidth, gray float64) error {
	c := grayByte(gray)
	p.pdf.SetDrawColor(c, c, c)
	p.pdf.SetLineWidth(lineWidth)
	p.pdf.Rect(x, p.h-y-h, w, h, "D")
	return p.pdf.Error()
}

func (p *PDF) StrokeLine(x1, y1, x2, y2, lineWidth, gray float64) error {
	c := grayByte(gray)
	p.pdf.SetDrawColor(c, c, c)
	p.pdf.SetLineWidth(lineWidth)
	p.pdf.Line(x1, p.h-y1, x2, p.h-y2)
	return p.pdf.Error()
}

// Save writes the document. A document without pages is an error.
func (p *PDF) Save() error {
	if p.pdf.PageNo() == 0 {
		return errors.New("pdf: no pages")
	}
	if err := p.pdf.Output(p.w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if c, ok := p.w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close pdf: %w", err)
		}
	}
	return nil
}

// HelveticaMeasurer measures text with the PDF core font metrics. It is used
// by backends that name Helvetica without carrying font files of their own.
type HelveticaMeasurer struct {
	pdf *gofpdf.Fpdf
}

func NewHelveticaMeasurer() *HelveticaMeasurer { return &HelveticaMeasurer{pdf: newFpdf()} }

func (m *HelveticaMeasurer) TextWidth(text string, f draw.Font) float64 {
	m.pdf.SetFont(pdfFamily, fontStyle(f), f.Size)
	return m.pdf.GetStringWidth(text)
}
