/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import (
	"errors"
	"math"
	"testing"

	"ringchart/internal/draw"
	"ringchart/internal/notation"
)

var helvetica = draw.FixedWidth(0.556)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func header(beats, bars, rows, first, last int) notation.Header {
	return notation.Header{Title: "T", BeatsPerBar: beats, BarsPerRow: bars, RowsPerPage: rows, FirstSymbol: first, LastSymbol: last}
}

func TestComputePosterHeightFit(t *testing.T) {
	g, err := Compute(header(4, 2, 3, 1, 12), Poster(), helvetica)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"page width", g.PageWidth, 1656},
		{"page height", g.PageHeight, 2124},
		{"target width", g.TargetWidth, 1656 - 2*43.2},
		{"target height", g.TargetHeight, 2124 - 72 - 36},
		{"column width", g.ColumnWidth, (1656 - 86.4) / 8},
		{"row height", g.RowHeight, (2016.0 - 36) / 3},
		{"line height", g.LineHeight, 660 / 12.5},
		{"char height", g.CharHeight, 660 / 12.5 * 100 / 72},
	}
	for _, c := range checks {
		if !near(c.got, c.want) {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if g.Columns != 8 || g.Rows != 3 {
		t.Fatalf("grid = %dx%d", g.Columns, g.Rows)
	}
}

func TestComputeHeightFitShrinksToColumn(t *testing.T) {
	g, err := Compute(header(16, 4, 3, 1, 12), Poster(), helvetica)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	unshrunk := g.LineHeight * DigitRatio
	if g.CharHeight >= unshrunk {
		t.Fatalf("char height %v was not reduced from %v", g.CharHeight, unshrunk)
	}
	if w := helvetica.TextWidth("10", draw.Regular(g.CharHeight)); !near(w, g.ColumnWidth) {
		t.Fatalf(`width of "10" = %v, want column width %v`, w, g.ColumnWidth)
	}
}

func TestComputeWidthFit(t *testing.T) {
	p, _ := Builtin("a4")
	for _, h := range []notation.Header{header(4, 2, 3, 1, 12), header(2, 1, 8, 1, 16), header(8, 4, 2, 1, 6)} {
		g, err := Compute(h, p, helvetica)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if !near(g.CharHeight, 0.8*g.ColumnWidth) {
			t.Fatalf("char height %v, want 0.8 column width %v", g.CharHeight, 0.8*g.ColumnWidth)
		}
		if want := 2 * g.RowHeight / (float64(h.SymbolCount()) + 0.5); !near(g.LineHeight, want) {
			t.Fatalf("line height %v, want %v", g.LineHeight, want)
		}
		if base := g.SymbolY(0, g.FirstSymbol); base >= g.RowHeight {
			t.Fatalf("first symbol baseline %v leaves the row %v", base, g.RowHeight)
		}
	}
}

func TestSymbolYPerStrategy(t *testing.T) {
	g := Geometry{Sizing: HeightFit, LineHeight: 10, FirstSymbol: 1, LastSymbol: 8}
	if got := g.SymbolY(100, 8); !near(got, 102.5) {
		t.Fatalf("height-fit last symbol y = %v", got)
	}
	if got := g.SymbolY(100, 1); !near(got, 172.5) {
		t.Fatalf("height-fit first symbol y = %v", got)
	}
	g.Sizing = WidthFit
	if got := g.SymbolY(100, 8); !near(got, 102.5) {
		t.Fatalf("width-fit last symbol y = %v", got)
	}
	if got := g.SymbolY(100, 1); !near(got, 137.5) {
		t.Fatalf("width-fit first symbol y = %v", got)
	}
}

func TestPositionHelpers(t *testing.T) {
	g := Geometry{HMargin: 10, VMargin: 20, ColumnWidth: 30, RowHeight: 100, Separator: 5, LineHeight: 40, TargetHeight: 300, Header: 16}
	if got := g.BeatX(1, 0); !near(got, 25) {
		t.Fatalf("BeatX(1) = %v", got)
	}
	if got := g.BeatX(3, -6); !near(got, 79) {
		t.Fatalf("BeatX(3,-6) = %v", got)
	}
	if got := g.RowY(2); !near(got, 230) {
		t.Fatalf("RowY(2) = %v", got)
	}
	if g.MultiDigitShift(9) != 0 || !near(g.MultiDigitShift(10), 1) {
		t.Fatalf("MultiDigitShift wrong")
	}
	if got := g.HeaderBaseline(); !near(got, 328) {
		t.Fatalf("HeaderBaseline = %v", got)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	if _, err := Compute(header(4, 2, 0, 1, 12), Poster(), helvetica); !errors.Is(err, notation.ErrMalformedParameters) {
		t.Fatalf("zero rows: err = %v", err)
	}
	p := Poster()
	p.Sizing = "squeeze"
	if _, err := Compute(header(4, 2, 3, 1, 12), p, helvetica); !errors.Is(err, ErrBadProfile) {
		t.Fatalf("bad sizing: err = %v", err)
	}
	p = Poster()
	p.VMarginIn = 20
	if _, err := Compute(header(4, 2, 3, 1, 12), p, helvetica); !errors.Is(err, ErrBadProfile) {
		t.Fatalf("huge margin: err = %v", err)
	}
}

func TestProfilesPageSize(t *testing.T) {
	for _, name := range BuiltinNames() {
		p, ok := Builtin(name)
		if !ok {
			t.Fatalf("Builtin(%q) missing", name)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	p, _ := Builtin("A4-Landscape")
	w, h, err := p.PageSizePoints()
	if err != nil || w <= h {
		t.Fatalf("landscape a4 = %vx%v err=%v", w, h, err)
	}
	custom := Profile{WidthIn: 10, HeightIn: 5}
	w, h, err = custom.PageSizePoints()
	if err != nil || w != 720 || h != 360 {
		t.Fatalf("custom = %vx%v err=%v", w, h, err)
	}
	if _, _, err := (Profile{PageSize: "tabloid"}).PageSizePoints(); !errors.Is(err, ErrBadProfile) {
		t.Fatalf("unknown preset err = %v", err)
	}
}
