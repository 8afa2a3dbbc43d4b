/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package draw

import "errors"

// Page is a recorded page.
type Page struct {
	Width, Height float64
	Directives    []Directive
}

// Recorder is an in-memory Canvas. It keeps every directive so a document
// can be inspected or replayed onto another backend later.
type Recorder struct {
	Measurer Measurer
	Pages    []Page
	Saved    bool
}

// NewRecorder returns a recorder measuring text with m, or with FixedWidth
// if m is nil.
func NewRecorder(m Measurer) *Recorder {
	if m == nil {
		m = FixedWidth(0.556)
	}
	return &Recorder{Measurer: m}
}

var errNoPage = errors.New("draw before NewPage")

func (r *Recorder) TextWidth(text string, f Font) float64 { return r.Measurer.TextWidth(text, f) }

func (r *Recorder) NewPage(width, height float64) error {
	r.Pages = append(r.Pages, Page{Width: width, Height: height})
	return nil
}

func (r *Recorder) add(d Directive) error {
	if len(r.Pages) == 0 {
		return errNoPage
	}
	p := &r.Pages[len(r.Pages)-1]
	p.Directives = append(p.Directives, d)
	return nil
}

func (r *Recorder) DrawText(d Directive) error { return r.add(d) }

func (r *Recorder) FillRect(x, y, w, h, gray float64) error { return r.add(FillRect(x, y, w, h, gray)) }

func (r *Recorder) StrokeRect(x, y, w, h, lw, gray float64) error {
	return r.add(StrokeRect(x, y, w, h, lw, gray))
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, lw, gray float64) error {
	return r.add(Line(x1, y1, x2, y2, lw, gray))
}

func (r *Recorder) Save() error {
	r.Saved = true
	return nil
}

// Texts returns the text directives of page i (0-based).
func (r *Recorder) Texts(i int) []Directive {
	var out []Directive
	for _, d := range r.Pages[i].Directives {
		if d.Kind == KindText {
			out = append(out, d)
		}
	}
	return out
}

// ReplayTo copies the recording onto another canvas, page by page.
func (r *Recorder) ReplayTo(c Canvas) error {
	for _, p := range r.Pages {
		if err := c.NewPage(p.Width, p.Height); err != nil {
			return err
		}
		if err := Replay(c, p.Directives); err != nil {
			return err
		}
	}
	return c.Save()
}

// FixedWidth measures every character as the same fraction of the font size.
// 0.556 matches Helvetica digits.
type FixedWidth float64

func (f FixedWidth) TextWidth(text string, font Font) float64 {
	return float64(f) * font.Size * float64(len([]rune(text)))
}
