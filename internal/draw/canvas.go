/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package draw

import "fmt"

// Measurer reports the advance width of text in points.
type Measurer interface {
	TextWidth(text string, f Font) float64
}

// Canvas is a drawing backend. Implementations live in internal/export.
type Canvas interface {
	Measurer
	// NewPage starts a page of the given size in points.
	NewPage(width, height float64) error
	DrawText(d Directive) error
	FillRect(x, y, w, h, gray float64) error
	StrokeRect(x, y, w, h, lineWidth, gray float64) error
	StrokeLine(x1, y1, x2, y2, lineWidth, gray float64) error
	// Save finalizes the document.
	Save() error
}

// Replay applies ds to c in order and stops at the first error.
func Replay(c Canvas, ds []Directive) error {
	for i, d := range ds {
		var err error
		switch d.Kind {
		case KindText:
			err = c.DrawText(d)
		case KindFillRect:
			err = c.FillRect(d.X, d.Y, d.W, d.H, d.Gray)
		case KindStrokeRect:
			err = c.StrokeRect(d.X, d.Y, d.W, d.H, d.LineWidth, d.Gray)
		case KindStrokeLine:
			err = c.StrokeLine(d.X, d.Y, d.X2, d.Y2, d.LineWidth, d.Gray)
		default:
			err = fmt.Errorf("unknown directive kind %v", d.Kind)
		}
		if err != nil {
			return fmt.Errorf("directive %d (%v): %w", i, d.Kind, err)
		}
	}
	return nil
}

// TextLeft returns the left edge of a text directive after alignment.
func TextLeft(m Measurer, d Directive) float64 {
	switch d.Align {
	case AlignCenter:
		return d.X - m.TextWidth(d.Text, d.Font)/2
	case AlignRight:
		return d.X - m.TextWidth(d.Text, d.Font)
	default:
		return d.X
	}
}
