/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package notation

import "strings"

// Timing is the optional marker at the start of a beat line.
type Timing int

const (
	// Full is an ordinary beat (no marker).
	Full Timing = iota
	// Half ('!') sits between the previous beat and the next one.
	Half
	// SplitFirst ('/') is the first half of a split beat.
	SplitFirst
	// SplitSecond ('\') is the second half of a split beat.
	SplitSecond
)

func (t Timing) String() string {
	switch t {
	case Half:
		return "half"
	case SplitFirst:
		return "split-first"
	case SplitSecond:
		return "split-second"
	default:
		return "full"
	}
}

// Advances reports whether the beat index moves forward for this marker.
func (t Timing) Advances() bool { return t == Full || t == SplitFirst }

// Partial reports whether symbols need a background box to stay legible.
func (t Timing) Partial() bool { return t != Full }

// Offset is the horizontal shift from the column centre.
func (t Timing) Offset(columnWidth float64) float64 {
	switch t {
	case Half:
		return columnWidth / 2
	case SplitFirst:
		return -columnWidth / 5
	case SplitSecond:
		return columnWidth / 5
	default:
		return 0
	}
}

// RestMarker is the body of a beat with no symbols.
const RestMarker = "-"

// Beat is one parsed beat line.
type Beat struct {
	Timing Timing
	Body   string
}

// Rest reports whether the beat carries no symbols.
func (b Beat) Rest() bool { return b.Body == RestMarker || strings.TrimSpace(b.Body) == "" }

// Tokens splits the body into symbol tokens; a rest has none.
func (b Beat) Tokens() []string {
	if b.Rest() {
		return nil
	}
	return strings.Fields(b.Body)
}

// ParseBeat splits off the timing marker.
func ParseBeat(line string) Beat {
	if line == "" {
		return Beat{}
	}
	switch line[0] {
	case '!':
		return Beat{Timing: Half, Body: line[1:]}
	case '/':
		return Beat{Timing: SplitFirst, Body: line[1:]}
	case '\\':
		return Beat{Timing: SplitSecond, Body: line[1:]}
	}
	return Beat{Timing: Full, Body: line}
}
