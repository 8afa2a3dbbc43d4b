/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package notation

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the title line plus the five-integer parameter line.
type Header struct {
	Title       string
	BeatsPerBar int
	BarsPerRow  int
	RowsPerPage int
	FirstSymbol int
	LastSymbol  int
}

// Upper bounds on the grid. Anything larger cannot be drawn legibly and
// risks int overflow in the derived counts.
const (
	MaxColumns = 1024
	MaxRows    = 1024
	MaxSymbols = 1024
)

// Columns is the number of beats across one row.
func (h Header) Columns() int { return h.BeatsPerBar * h.BarsPerRow }

// SymbolCount is the size of the vertical range.
func (h Header) SymbolCount() int { return h.LastSymbol - h.FirstSymbol + 1 }

// InRange reports whether v lies in [FirstSymbol, LastSymbol].
func (h Header) InRange(v int) bool { return h.FirstSymbol <= v && v <= h.LastSymbol }

// Validate rejects parameters that would make the layout degenerate.
func (h Header) Validate() error {
	switch {
	case h.BeatsPerBar <= 0:
		return fmt.Errorf("%w: beats per bar must be positive, got %d", ErrMalformedParameters, h.BeatsPerBar)
	case h.BarsPerRow <= 0:
		return fmt.Errorf("%w: bars per row must be positive, got %d", ErrMalformedParameters, h.BarsPerRow)
	case h.RowsPerPage <= 0:
		return fmt.Errorf("%w: rows per page must be positive, got %d", ErrMalformedParameters, h.RowsPerPage)
	case h.FirstSymbol > h.LastSymbol:
		return fmt.Errorf("%w: first symbol %d is above last symbol %d", ErrMalformedParameters, h.FirstSymbol, h.LastSymbol)
	case h.BarsPerRow > MaxColumns/h.BeatsPerBar:
		return fmt.Errorf("%w: %d beats per bar times %d bars per row exceeds %d columns", ErrMalformedParameters, h.BeatsPerBar, h.BarsPerRow, MaxColumns)
	case h.RowsPerPage > MaxRows:
		return fmt.Errorf("%w: %d rows per page exceeds %d", ErrMalformedParameters, h.RowsPerPage, MaxRows)
	case uint(h.LastSymbol-h.FirstSymbol) >= MaxSymbols:
		// the subtraction wraps for extreme ranges; as uint it is still the true distance
		return fmt.Errorf("%w: symbol range %d..%d exceeds %d symbols", ErrMalformedParameters, h.FirstSymbol, h.LastSymbol, MaxSymbols)
	}
	return nil
}

// ParseHeader consumes the title and parameter lines from r.
func ParseHeader(r *Reader) (Header, error) {
	title, err := r.Next()
	if errors.Is(err, io.EOF) {
		return Header{}, errAt(0, "", ErrMissingTitle)
	}
	if err != nil {
		return Header{}, fmt.Errorf("read title: %w", err)
	}

	line, err := r.Next()
	if errors.Is(err, io.EOF) {
		return Header{}, errAt(0, "", ErrMissingParameters)
	}
	if err != nil {
		return Header{}, fmt.Errorf("read parameters: %w", err)
	}
	h, err := ParseParameters(line)
	if err != nil {
		return Header{}, errAt(r.Line(), line, err)
	}
	h.Title = title
	return h, nil
}

// ParseParameters reads "beatsPerBar barsPerRow rowsPerPage firstSymbol lastSymbol".
func ParseParameters(line string) (Header, error) {
	f := strings.Fields(line)
	if len(f) != 5 {
		return Header{}, fmt.Errorf("%w: want 5 integers, got %d fields", ErrMalformedParameters, len(f))
	}
	var v [5]int
	for i, s := range f {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Header{}, fmt.Errorf("%w: field %d %q is not an integer", ErrMalformedParameters, i+1, s)
		}
		v[i] = n
	}
	h := Header{BeatsPerBar: v[0], BarsPerRow: v[1], RowsPerPage: v[2], FirstSymbol: v[3], LastSymbol: v[4]}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
