/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout derives the page grid from the notation header and a page
// geometry profile. All values are points, origin bottom-left.
package layout

import (
	"fmt"

	"ringchart/internal/draw"
	"ringchart/internal/notation"
)

// DigitRatio is the nominal font height to digit height ratio of Helvetica.
const DigitRatio = 100.0 / 72.0

// Geometry is the immutable grid of one document.
type Geometry struct {
	Sizing Sizing

	PageWidth, PageHeight float64
	HMargin, VMargin      float64
	Header, Separator     float64
	TargetWidth           float64
	TargetHeight          float64
	ColumnWidth           float64
	RowHeight             float64
	LineHeight            float64
	CharHeight            float64

	Columns     int
	BeatsPerBar int
	Rows        int
	FirstSymbol int
	LastSymbol  int

	PlainLine, BarLine, GridGray float64
	TitleSize, SummarySize       float64
}

// Compute derives the geometry. m measures "10" for the height-fit rule.
func Compute(h notation.Header, p Profile, m draw.Measurer) (Geometry, error) {
	if err := h.Validate(); err != nil {
		return Geometry{}, err
	}
	if err := p.Validate(); err != nil {
		return Geometry{}, err
	}
	pw, ph, _ := p.PageSizePoints()

	g := Geometry{
		Sizing:      p.Sizing,
		PageWidth:   pw,
		PageHeight:  ph,
		HMargin:     p.HMarginIn * Inch,
		VMargin:     p.VMarginIn * Inch,
		Header:      p.HeaderIn * Inch,
		Separator:   p.SeparatorIn * Inch,
		Columns:     h.Columns(),
		BeatsPerBar: h.BeatsPerBar,
		Rows:        h.RowsPerPage,
		FirstSymbol: h.FirstSymbol,
		LastSymbol:  h.LastSymbol,
		PlainLine:   p.PlainLine,
		BarLine:     p.BarLine,
		GridGray:    p.GridGray,
		TitleSize:   p.TitleSize,
		SummarySize: p.SummarySize,
	}
	g.TargetWidth = pw - 2*g.HMargin
	g.TargetHeight = ph - 2*g.VMargin - g.Header
	g.ColumnWidth = g.TargetWidth / float64(g.Columns)
	g.RowHeight = (g.TargetHeight - g.Separator*float64(g.Rows-1)) / float64(g.Rows)
	if g.TargetWidth <= 0 || g.RowHeight <= 0 {
		return Geometry{}, fmt.Errorf("%w: margins leave no room for %d rows", ErrBadProfile, g.Rows)
	}

	n := float64(h.SymbolCount())
	switch p.Sizing {
	case WidthFit:
		g.CharHeight = 0.8 * g.ColumnWidth
		// adjacent symbols sit LineHeight/2 apart
		g.LineHeight = 2 * g.RowHeight / (n + 0.5)
	default:
		g.LineHeight = g.RowHeight / (n + 0.5)
		g.CharHeight = g.LineHeight * DigitRatio
		if w := m.TextWidth("10", draw.Regular(g.CharHeight)); w > g.ColumnWidth {
			g.CharHeight *= g.ColumnWidth / w
		}
	}
	return g, nil
}

// DigitHeight is the visible height of a digit at CharHeight.
func (g Geometry) DigitHeight() float64 { return g.CharHeight / DigitRatio }

// RowY is the bottom edge of row index row; rows count down from Rows-1 at the top.
func (g Geometry) RowY(row int) float64 {
	return g.VMargin + float64(row)*(g.RowHeight+g.Separator)
}

// BeatX is the horizontal centre of a beat (1-based) plus offset.
func (g Geometry) BeatX(beat int, offset float64) float64 {
	return g.HMargin + g.ColumnWidth*(float64(beat)-0.5) + offset
}

// ColumnLineX is the x of the grid line after column col.
func (g Geometry) ColumnLineX(col int) float64 { return g.HMargin + float64(col)*g.ColumnWidth }

// SymbolY is the baseline of symbol value within the row starting at rowY.
// The last symbol sits at the bottom of the row.
func (g Geometry) SymbolY(rowY float64, value int) float64 {
	steps := float64(g.LastSymbol - value)
	if g.Sizing == WidthFit {
		return rowY + g.LineHeight*(steps+0.5)/2
	}
	return rowY + g.LineHeight*(steps+0.25)
}

// MultiDigitShift moves numbers of two or more digits left so they look centred.
func (g Geometry) MultiDigitShift(value int) float64 {
	if value >= 10 {
		return g.LineHeight * 0.025
	}
	return 0
}

// HeaderBaseline is the baseline of the title and summary line.
func (g Geometry) HeaderBaseline() float64 { return g.VMargin + g.TargetHeight + 0.5*g.Header }
