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
	"strconv"
	"strings"
)

// Accidentals lists the suffix characters that mark an accidental.
const Accidentals = "#,b"

// Symbol is one token of a beat line: ['*'] ['('] digits [')'] [accidental].
type Symbol struct {
	Text          string // token without the bold marker, parentheses kept
	Bold          bool
	Parenthesized bool
	Value         int
	Accidental    byte // 0 when absent
}

// Numeral is the bare number as drawn next to an accidental.
func (s Symbol) Numeral() string { return strconv.Itoa(s.Value) }

// HasAccidental reports whether the symbol carries a suffix.
func (s Symbol) HasAccidental() bool { return s.Accidental != 0 }

// Key is the identity used for the used-symbol listing: parentheses
// removed, accidental kept.
func (s Symbol) Key() string {
	if s.Accidental != 0 {
		return s.Numeral() + string(s.Accidental)
	}
	return s.Numeral()
}

// ParseSymbol tokenizes a single symbol. Range checking is separate, see
// Header.CheckSymbol.
func ParseSymbol(tok string) (Symbol, error) {
	var s Symbol
	if strings.HasPrefix(tok, "*") {
		s.Bold = true
		tok = tok[1:]
	}
	s.Text = tok

	inner := tok
	if strings.HasPrefix(inner, "(") {
		if i := strings.IndexByte(inner, ')'); i > 0 {
			s.Parenthesized = true
			inner = inner[1:i] + inner[i+1:]
		}
	}
	if n := len(inner); n > 0 && strings.IndexByte(Accidentals, inner[n-1]) >= 0 {
		s.Accidental = inner[n-1]
	}

	var digits strings.Builder
	for i := 0; i < len(inner); i++ {
		if c := inner[i]; c >= '0' && c <= '9' {
			digits.WriteByte(c)
		}
	}
	if digits.Len() == 0 {
		return Symbol{}, &Error{Text: tok, Err: ErrMalformedSymbol}
	}
	v, err := strconv.Atoi(digits.String())
	if errors.Is(err, strconv.ErrRange) {
		return Symbol{}, &Error{Text: tok, Err: ErrSymbolOutOfRange}
	}
	if err != nil {
		return Symbol{}, &Error{Text: tok, Err: ErrMalformedSymbol}
	}
	s.Value = v
	return s, nil
}

// CheckSymbol rejects symbols outside the declared range. There is no clamping.
func (h Header) CheckSymbol(s Symbol) error {
	if !h.InRange(s.Value) {
		return &Error{Text: s.Text, Err: ErrSymbolOutOfRange}
	}
	return nil
}
