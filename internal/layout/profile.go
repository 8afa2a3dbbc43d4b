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
	"fmt"
	"sort"
	"strings"
)

// Inch is one inch in points.
const Inch = 72.0

// Sizing selects how character and line heights are derived.
type Sizing string

const (
	// HeightFit divides the row height between the symbols and shrinks the
	// font if "10" would not fit a column.
	HeightFit Sizing = "height-fit"
	// WidthFit sizes the font from the column width and caps it so that
	// neighbouring symbols never overlap vertically.
	WidthFit Sizing = "width-fit"
)

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Page size presets in points, portrait.
var presets = map[string][2]float64{
	"poster": {23 * Inch, 29.5 * Inch},
	"a1":     {1683.78, 2383.94},
	"a2":     {1190.55, 1683.78},
	"a3":     {841.89, 1190.55},
	"a4":     {595.28, 841.89},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// ErrBadProfile reports an unusable page geometry profile.
var ErrBadProfile = errors.New("invalid geometry profile")

// Profile is the page geometry configuration. Lengths ending in In are
// inches; line widths and font sizes are points.
type Profile struct {
	PageSize    string      `yaml:"page_size,omitempty" json:"page_size,omitempty"`
	Orientation Orientation `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	WidthIn     float64     `yaml:"width_in,omitempty" json:"width_in,omitempty"`
	HeightIn    float64     `yaml:"height_in,omitempty" json:"height_in,omitempty"`
	HMarginIn   float64     `yaml:"h_margin_in,omitempty" json:"h_margin_in,omitempty"`
	VMarginIn   float64     `yaml:"v_margin_in,omitempty" json:"v_margin_in,omitempty"`
	HeaderIn    float64     `yaml:"header_in,omitempty" json:"header_in,omitempty"`
	SeparatorIn float64     `yaml:"separator_in,omitempty" json:"separator_in,omitempty"`
	Sizing      Sizing      `yaml:"sizing,omitempty" json:"sizing,omitempty"`
	PlainLine   float64     `yaml:"plain_line,omitempty" json:"plain_line,omitempty"`
	BarLine     float64     `yaml:"bar_line,omitempty" json:"bar_line,omitempty"`
	GridGray    float64     `yaml:"grid_gray,omitempty" json:"grid_gray,omitempty"`
	TitleSize   float64     `yaml:"title_size,omitempty" json:"title_size,omitempty"`
	SummarySize float64     `yaml:"summary_size,omitempty" json:"summary_size,omitempty"`
}

// Poster is the 23 x 29.5 inch sheet the notation was first drawn on.
func Poster() Profile {
	return Profile{
		PageSize:    "poster",
		Orientation: Portrait,
		HMarginIn:   0.6,
		VMarginIn:   0.5,
		HeaderIn:    0.5,
		SeparatorIn: 0.25,
		Sizing:      HeightFit,
		PlainLine:   1,
		BarLine:     2,
		GridGray:    0.4,
		TitleSize:   30,
		SummarySize: 15,
	}
}

var builtins = map[string]Profile{
	"poster":       Poster(),
	"a1":           withPage(Poster(), "a1", Portrait, HeightFit),
	"a2":           withPage(Poster(), "a2", Portrait, HeightFit),
	"a3":           withPage(Poster(), "a3", Portrait, WidthFit),
	"a4":           desk("a4", Portrait, 0.4),
	"a4-landscape": desk("a4", Landscape, 0.4),
	"letter":       desk("letter", Portrait, 0.5),
	"legal":        desk("legal", Portrait, 0.5),
}

// desk is a small sheet with thinner lines and type.
func desk(size string, o Orientation, margin float64) Profile {
	p := withPage(Poster(), size, o, WidthFit)
	p.HMarginIn, p.VMarginIn, p.HeaderIn, p.SeparatorIn = margin, margin, 0.45, 0.15
	p.PlainLine, p.BarLine = 0.5, 1
	p.TitleSize, p.SummarySize = 16, 9
	return p
}

func withPage(p Profile, size string, o Orientation, s Sizing) Profile {
	p.PageSize, p.Orientation, p.Sizing = size, o, s
	return p
}

// Builtin returns a named built-in profile.
func Builtin(name string) (Profile, bool) {
	p, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// BuiltinNames lists the built-in profile names in order.
func BuiltinNames() []string {
	out := make([]string, 0, len(builtins))
	for k := range builtins {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PageSizePoints resolves the page size, honouring custom dimensions and orientation.
func (p Profile) PageSizePoints() (w, h float64, err error) {
	switch {
	case p.WidthIn > 0 && p.HeightIn > 0:
		w, h = p.WidthIn*Inch, p.HeightIn*Inch
	case p.PageSize != "":
		sz, ok := presets[strings.ToLower(p.PageSize)]
		if !ok {
			return 0, 0, fmt.Errorf("%w: unknown page size %q", ErrBadProfile, p.PageSize)
		}
		w, h = sz[0], sz[1]
	default:
		return 0, 0, fmt.Errorf("%w: no page size", ErrBadProfile)
	}
	switch p.Orientation {
	case Landscape:
		if w < h {
			w, h = h, w
		}
	case Portrait:
		if w > h {
			w, h = h, w
		}
	case "":
	default:
		return 0, 0, fmt.Errorf("%w: unknown orientation %q", ErrBadProfile, p.Orientation)
	}
	return w, h, nil
}

// Validate checks the profile without a header.
func (p Profile) Validate() error {
	if _, _, err := p.PageSizePoints(); err != nil {
		return err
	}
	switch p.Sizing {
	case HeightFit, WidthFit:
	default:
		return fmt.Errorf("%w: unknown sizing %q", ErrBadProfile, p.Sizing)
	}
	if p.HMarginIn < 0 || p.VMarginIn < 0 || p.HeaderIn < 0 || p.SeparatorIn < 0 {
		return fmt.Errorf("%w: negative margin", ErrBadProfile)
	}
	if p.TitleSize <= 0 || p.SummarySize <= 0 {
		return fmt.Errorf("%w: font sizes must be positive", ErrBadProfile)
	}
	return nil
}
