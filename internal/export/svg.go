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
	"math"
	"strings"

	"ringchart/internal/draw"
)

// SVG writes one document per page. The viewBox is in points so the layout
// maps 1:1; DPI only sets the width/height attributes.
type SVG struct {
	pages PageWriter
	m     draw.Measurer
	dpi   float64

	buf  bytes.Buffer
	werr error
	open bool
	h    float64
	n    int
	done [][]byte // finished pages, written on Save
}

// NewSVG returns a vector page canvas. Text is measured with Helvetica
// metrics unless m is given.
func NewSVG(pages PageWriter, dpi float64, m draw.Measurer) *SVG {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if m == nil {
		m = NewHelveticaMeasurer()
	}
	return &SVG{pages: pages, m: m, dpi: dpi}
}

func (s *SVG) TextWidth(text string, f draw.Font) float64 { return s.m.TextWidth(text, f) }

func (s *SVG) wf(format string, args ...any) {
	if s.werr != nil {
		return
	}
	_, s.werr = fmt.Fprintf(&s.buf, format, args...)
}

func (s *SVG) NewPage(width, height float64) error {
	if err := s.flush(); err != nil {
		return err
	}
	scale := s.dpi / 72.0
	pxW := int(math.Round(width * scale))
	pxH := int(math.Round(height * scale))
	s.buf.Reset()
	s.werr = nil
	s.open = true
	s.h = height
	s.n++
	s.wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	s.wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, width, height)
	s.wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", width, height)
	return nil
}

func svgGray(g float64) string {
	c := grayByte(g)
	return fmt.Sprintf("#%02x%02x%02x", c, c, c)
}

func anchor(a draw.Align) string {
	switch a {
	case draw.AlignCenter:
		return "middle"
	case draw.AlignRight:
		return "end"
	default:
		return "start"
	}
}

func (s *SVG) DrawText(d draw.Directive) error {
	if !s.open {
		return errors.New("svg: text before first page")
	}
	weight := "normal"
	if d.Font.Bold {
		weight = "bold"
	}
	s.wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" font-weight=\"%s\" text-anchor=\"%s\" fill=\"%s\">%s</text>\n",
		d.X, s.h-d.Y, d.Font.Size, weight, anchor(d.Align), svgGray(d.Gray), escText(d.Text))
	return s.werr
}

func (s *SVG) FillRect(x, y, w, h, gray float64) error {
	if !s.open {
		return errors.New("svg: fill before first page")
	}
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", x, s.h-y-h, w, h, svgGray(gray))
	return s.werr
}

func (s *SVG) StrokeRect(x, y, w, h, lineWidth, gray float64) error {
	if !s.open {
		return errors.New("svg: rect before first page")
	}
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", x, s.h-y-h, w, h, svgGray(gray), lineWidth)
	return s.werr
}

func (s *SVG) StrokeLine(x1, y1, x2, y2, lineWidth, gray float64) error {
	if !s.open {
		return errors.New("svg: line before first page")
	}
	s.wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n", x1, s.h-y1, x2, s.h-y2, svgGray(gray), lineWidth)
	return s.werr
}

func (s *SVG) flush() error {
	if !s.open {
		return nil
	}
	s.wf("</svg>\n")
	if s.werr != nil {
		return fmt.Errorf("build svg: %w", s.werr)
	}
	s.done = append(s.done, bytes.Clone(s.buf.Bytes()))
	s.open = false
	return nil
}

func (s *SVG) Save() error {
	if s.n == 0 {
		return errors.New("svg: no pages")
	}
	if err := s.flush(); err != nil {
		return err
	}
	return writePages(s.pages, s.done, FormatSVG)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")

func escText(s string) string { return textEscaper.Replace(s) }
