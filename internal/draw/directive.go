/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package draw defines the replayable drawing instructions produced by the
// chart engine and the backend contract that consumes them.
//
// Coordinates are points with the origin at the bottom-left corner of the
// page and y growing upwards. Backends with a top-left origin flip y.
// Directives are applied in order; a background fill must precede the text it
// backs.
package draw

import "fmt"

// Font selects the face. The family is fixed per backend (Helvetica for PDF).
type Font struct {
	Bold bool
	Size float64
}

func Regular(size float64) Font { return Font{Size: size} }
func Bold(size float64) Font    { return Font{Bold: true, Size: size} }

// Align is the horizontal anchor of a text directive.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Kind tags a directive.
type Kind int

const (
	KindText Kind = iota
	KindFillRect
	KindStrokeRect
	KindStrokeLine
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFillRect:
		return "fill-rect"
	case KindStrokeRect:
		return "stroke-rect"
	case KindStrokeLine:
		return "stroke-line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Gray levels used by the engine: 0 is black, 1 is white (the erase colour).
const (
	Black = 0.0
	White = 1.0
)

// Directive is one immutable drawing instruction.
//
//	KindText:       Text at (X, Y) baseline with Font and Align, colour Gray
//	KindFillRect:   rectangle (X, Y, W, H) filled with Gray
//	KindStrokeRect: rectangle outline, LineWidth, Gray
//	KindStrokeLine: line (X, Y)-(X2, Y2), LineWidth, Gray
type Directive struct {
	Kind      Kind
	Font      Font
	Align     Align
	X, Y      float64
	W, H      float64
	X2, Y2    float64
	Text      string
	Gray      float64
	LineWidth float64
}

// Text builds a black text directive.
func Text(f Font, a Align, x, y float64, s string) Directive {
	return Directive{Kind: KindText, Font: f, Align: a, X: x, Y: y, Text: s, Gray: Black}
}

// FillRect builds a filled rectangle without outline.
func FillRect(x, y, w, h, gray float64) Directive {
	return Directive{Kind: KindFillRect, X: x, Y: y, W: w, H: h, Gray: gray}
}

// StrokeRect builds a rectangle outline.
func StrokeRect(x, y, w, h, lineWidth, gray float64) Directive {
	return Directive{Kind: KindStrokeRect, X: x, Y: y, W: w, H: h, LineWidth: lineWidth, Gray: gray}
}

// Line builds a straight stroke.
func Line(x1, y1, x2, y2, lineWidth, gray float64) Directive {
	return Directive{Kind: KindStrokeLine, X: x1, Y: y1, X2: x2, Y2: y2, LineWidth: lineWidth, Gray: gray}
}

func (d Directive) String() string {
	switch d.Kind {
	case KindText:
		return fmt.Sprintf("text(%q @%.2f,%.2f size=%.2f bold=%v align=%d)", d.Text, d.X, d.Y, d.Font.Size, d.Font.Bold, d.Align)
	case KindStrokeLine:
		return fmt.Sprintf("line(%.2f,%.2f-%.2f,%.2f w=%.2f)", d.X, d.Y, d.X2, d.Y2, d.LineWidth)
	default:
		return fmt.Sprintf("%v(%.2f,%.2f %.2fx%.2f gray=%.2f)", d.Kind, d.X, d.Y, d.W, d.H, d.Gray)
	}
}
