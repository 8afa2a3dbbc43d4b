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
	"io"
	"strings"
	"testing"
)

func TestReaderSkipsCommentsAndBlanks(t *testing.T) {
	input := "# leading comment\n\nTitle line  \n   \n# another\n4 2 3 1 12\n1 2\n"
	r := NewReader(strings.NewReader(input))

	want := []string{"Title line", "4 2 3 1 12", "1 2"}
	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		if got != w {
			t.Fatalf("Next #%d = %q, want %q", i, got, w)
		}
	}
	if r.Line() != 7 {
		t.Fatalf("Line = %d, want 7", r.Line())
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("call %d after end: err = %v, want io.EOF", i, err)
		}
	}
	if !r.Done() {
		t.Fatalf("Done should be latched")
	}
}

func TestParseHeader(t *testing.T) {
	r := NewReader(strings.NewReader("Grandsire Triples\n4 2 3 1 12\n"))
	h, err := ParseHeader(r)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	want := Header{Title: "Grandsire Triples", BeatsPerBar: 4, BarsPerRow: 2, RowsPerPage: 3, FirstSymbol: 1, LastSymbol: 12}
	if h != want {
		t.Fatalf("header = %+v, want %+v", h, want)
	}
	if h.Columns() != 8 || h.SymbolCount() != 12 {
		t.Fatalf("derived values wrong: columns=%d count=%d", h.Columns(), h.SymbolCount())
	}
}

func TestParseHeaderErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrMissingTitle},
		{"comments only", "# nothing\n\n", ErrMissingTitle},
		{"no parameters", "Title\n", ErrMissingParameters},
		{"too few", "Title\n4 2 3 1\n", ErrMalformedParameters},
		{"too many", "Title\n4 2 3 1 12 9\n", ErrMalformedParameters},
		{"not integer", "Title\n4 two 3 1 12\n", ErrMalformedParameters},
		{"zero rows", "Title\n4 2 0 1 12\n", ErrMalformedParameters},
		{"zero beats", "Title\n0 2 3 1 12\n", ErrMalformedParameters},
		{"negative bars", "Title\n4 -2 3 1 12\n", ErrMalformedParameters},
		{"inverted range", "Title\n4 2 3 12 1\n", ErrMalformedParameters},
		{"column product wraps", "Title\n4294967296 4294967296 1 1 6\n", ErrMalformedParameters},
		{"too many columns", "Title\n64 17 1 1 6\n", ErrMalformedParameters},
		{"too many rows", "Title\n4 2 5000 1 6\n", ErrMalformedParameters},
		{"symbol count wraps", "Title\n4 2 3 -9223372036854775808 9223372036854775807\n", ErrMalformedParameters},
		{"too many symbols", "Title\n4 2 3 1 2000\n", ErrMalformedParameters},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHeader(NewReader(strings.NewReader(tc.input)))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseHeaderErrorCarriesLine(t *testing.T) {
	_, err := ParseHeader(NewReader(strings.NewReader("Title\n# c\n4 2\n")))
	var ne *Error
	if !errors.As(err, &ne) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ne.Line != 3 || ne.Text != "4 2" {
		t.Fatalf("position = %d %q", ne.Line, ne.Text)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("message lacks line: %v", err)
	}
}

func TestParseBeat(t *testing.T) {
	cases := []struct {
		line     string
		timing   Timing
		body     string
		rest     bool
		advances bool
	}{
		{"1 2 3", Full, "1 2 3", false, true},
		{"!4", Half, "4", false, false},
		{"/5 6", SplitFirst, "5 6", false, true},
		{`\7`, SplitSecond, "7", false, false},
		{"-", Full, "-", true, true},
		{"!-", Half, "-", true, false},
		{"!", Half, "", true, false},
	}
	for _, tc := range cases {
		b := ParseBeat(tc.line)
		if b.Timing != tc.timing || b.Body != tc.body || b.Rest() != tc.rest || b.Timing.Advances() != tc.advances {
			t.Fatalf("ParseBeat(%q) = %+v rest=%v", tc.line, b, b.Rest())
		}
	}
	if got := ParseBeat("1  *2 (3)").Tokens(); len(got) != 3 || got[1] != "*2" {
		t.Fatalf("Tokens = %v", got)
	}
	if ParseBeat("-").Tokens() != nil {
		t.Fatalf("rest should have no tokens")
	}
}

func TestTimingOffsets(t *testing.T) {
	const w = 10.0
	cases := map[Timing]float64{Full: 0, Half: 5, SplitFirst: -2, SplitSecond: 2}
	for tm, want := range cases {
		if got := tm.Offset(w); got != want {
			t.Fatalf("%v.Offset = %v, want %v", tm, got, want)
		}
		if tm.Partial() == (tm == Full) {
			t.Fatalf("%v.Partial wrong", tm)
		}
	}
}

func TestParseSymbol(t *testing.T) {
	cases := []struct {
		tok  string
		want Symbol
		key  string
	}{
		{"5", Symbol{Text: "5", Value: 5}, "5"},
		{"*12", Symbol{Text: "12", Bold: true, Value: 12}, "12"},
		{"(3)", Symbol{Text: "(3)", Parenthesized: true, Value: 3}, "3"},
		{"7#", Symbol{Text: "7#", Value: 7, Accidental: '#'}, "7#"},
		{"*(9)b", Symbol{Text: "(9)b", Bold: true, Parenthesized: true, Value: 9, Accidental: 'b'}, "9b"},
		{"(4,)", Symbol{Text: "(4,)", Parenthesized: true, Value: 4, Accidental: ','}, "4,"},
	}
	for _, tc := range cases {
		got, err := ParseSymbol(tc.tok)
		if err != nil {
			t.Fatalf("ParseSymbol(%q): %v", tc.tok, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSymbol(%q) = %+v, want %+v", tc.tok, got, tc.want)
		}
		if got.Key() != tc.key {
			t.Fatalf("Key(%q) = %q, want %q", tc.tok, got.Key(), tc.key)
		}
	}
	for _, bad := range []string{"x", "*", "#", "()"} {
		if _, err := ParseSymbol(bad); !errors.Is(err, ErrMalformedSymbol) {
			t.Fatalf("ParseSymbol(%q) err = %v, want ErrMalformedSymbol", bad, err)
		}
	}
	for _, huge := range []string{"99999999999999999999", "*(99999999999999999999)#"} {
		if _, err := ParseSymbol(huge); !errors.Is(err, ErrSymbolOutOfRange) {
			t.Fatalf("ParseSymbol(%q) err = %v, want ErrSymbolOutOfRange", huge, err)
		}
	}
}

func TestCheckSymbolNeverClamps(t *testing.T) {
	h := Header{BeatsPerBar: 4, BarsPerRow: 2, RowsPerPage: 3, FirstSymbol: 3, LastSymbol: 10}
	for _, v := range []int{0, 2, 11, 99} {
		if err := h.CheckSymbol(Symbol{Value: v}); !errors.Is(err, ErrSymbolOutOfRange) {
			t.Fatalf("value %d: err = %v", v, err)
		}
	}
	for v := 3; v <= 10; v++ {
		if err := h.CheckSymbol(Symbol{Value: v}); err != nil {
			t.Fatalf("value %d: unexpected %v", v, err)
		}
	}
}
