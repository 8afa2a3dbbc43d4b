/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package chart

import (
	"log/slog"

	"ringchart/internal/draw"
	"ringchart/internal/layout"
	"ringchart/internal/notation"
	"ringchart/internal/summary"
)

// Placer turns the symbols of one beat into positioned directives.
type Placer struct {
	Header   notation.Header
	Geometry layout.Geometry
	Measurer draw.Measurer
	// Used receives every placed symbol; may be nil.
	Used *summary.Set
	Log  *slog.Logger
}

// Place returns the directives for body at the given beat. For each symbol a
// background box (partial beats only) immediately precedes its text.
func (p *Placer) Place(body string, beat int, offset float64, partial bool, rowY float64) ([]draw.Directive, error) {
	toks := notation.Beat{Body: body}.Tokens()
	if len(toks) == 0 {
		return nil, nil
	}
	g := p.Geometry
	out := make([]draw.Directive, 0, 2*len(toks))
	for _, tok := range toks {
		sym, err := notation.ParseSymbol(tok)
		if err != nil {
			return nil, err
		}
		if err := p.Header.CheckSymbol(sym); err != nil {
			return nil, err
		}
		if p.Used != nil {
			p.Used.Add(sym.Text)
		}

		font := draw.Regular(g.CharHeight)
		if sym.Bold {
			font = draw.Bold(g.CharHeight)
		}
		x := g.BeatX(beat, offset) - g.MultiDigitShift(sym.Value)
		y := g.SymbolY(rowY, sym.Value)

		switch {
		case sym.HasAccidental():
			numeral := sym.Numeral()
			w := p.Measurer.TextWidth(numeral, font)
			small := draw.Font{Bold: font.Bold, Size: 0.8 * font.Size}
			out = append(out,
				draw.Text(font, draw.AlignCenter, x, y, numeral),
				draw.Text(small, draw.AlignLeft, x+w/2, y+0.4*g.CharHeight, string(sym.Accidental)),
			)
		default:
			if partial {
				w := p.Measurer.TextWidth(sym.Numeral(), font)
				dh := g.DigitHeight()
				out = append(out, draw.FillRect(x-w/2, y-0.2*dh, w, 1.4*dh, draw.White))
			}
			out = append(out, draw.Text(font, draw.AlignCenter, x, y, sym.Text))
		}
		if p.Log != nil {
			p.Log.Debug("symbol placed", slog.String("symbol", tok), slog.Int("beat", beat),
				slog.Float64("x", x), slog.Float64("y", y))
		}
	}
	return out, nil
}
