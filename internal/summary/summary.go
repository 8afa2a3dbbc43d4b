/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package summary compresses the set of symbols used on a page into a short
// listing such as "1-5, 7, 8, 10, 12 + 7#, 9#".
//
// Plain numeric symbols are grouped into contiguous runs. A run of three or
// more is written "first-last"; runs of one or two are spelled out, because
// "5-6" reads the same as a dash range. Everything else (symbols carrying an
// accidental) is listed after " + " in lexical order.
package summary

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags a classified symbol token.
type Kind int

const (
	Numeric Kind = iota
	Accidental
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Accidental:
		return "accidental"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Class is a token after classification. Value is only meaningful for Numeric.
type Class struct {
	Kind  Kind
	Value int
	Text  string
}

// Normalize strips enclosing parentheses, so "(5)" and "5" share an identity.
func Normalize(tok string) string {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 2 && tok[0] == '(' {
		if i := strings.IndexByte(tok, ')'); i > 0 {
			return tok[1:i] + tok[i+1:]
		}
	}
	return tok
}

// Classify splits tokens into plain numerals and everything else.
func Classify(tok string) Class {
	t := Normalize(tok)
	if t != "" && allDigits(t) {
		if v, err := strconv.Atoi(t); err == nil {
			return Class{Kind: Numeric, Value: v, Text: t}
		}
	}
	return Class{Kind: Accidental, Text: t}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Run is a maximal contiguous range of integers.
type Run struct{ First, Last int }

func (r Run) Len() int { return r.Last - r.First + 1 }

// Runs groups ascending, de-duplicated values into maximal contiguous runs.
func Runs(sorted []int) []Run {
	if len(sorted) == 0 {
		return nil
	}
	out := []Run{{First: sorted[0], Last: sorted[0]}}
	for _, n := range sorted[1:] {
		cur := &out[len(out)-1]
		if n == cur.Last {
			continue
		}
		if n == cur.Last+1 {
			cur.Last = n
			continue
		}
		out = append(out, Run{First: n, Last: n})
	}
	return out
}

// Fragments formats one run.
func (r Run) Fragments() []string {
	switch r.Len() {
	case 1:
		return []string{strconv.Itoa(r.First)}
	case 2:
		return []string{strconv.Itoa(r.First), strconv.Itoa(r.Last)}
	default:
		return []string{fmt.Sprintf("%d-%d", r.First, r.Last)}
	}
}

// Summarize returns the range listing for tokens. Iteration order and
// duplicates do not affect the result.
func Summarize(tokens []string) string {
	seenNum := map[int]struct{}{}
	seenAcc := map[string]struct{}{}
	var nums []int
	var accs []string
	for _, tok := range tokens {
		c := Classify(tok)
		if c.Text == "" {
			continue
		}
		switch c.Kind {
		case Numeric:
			if _, ok := seenNum[c.Value]; !ok {
				seenNum[c.Value] = struct{}{}
				nums = append(nums, c.Value)
			}
		default:
			if _, ok := seenAcc[c.Text]; !ok {
				seenAcc[c.Text] = struct{}{}
				accs = append(accs, c.Text)
			}
		}
	}
	sort.Ints(nums)
	sort.Strings(accs)

	var frags []string
	for _, r := range Runs(nums) {
		frags = append(frags, r.Fragments()...)
	}
	out := strings.Join(frags, ", ")
	if len(accs) > 0 {
		out += " + " + strings.Join(accs, ", ")
	}
	return out
}

// Expand parses a summary back into its tokens, expanding "a-b" ranges.
func Expand(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	main, acc, _ := strings.Cut(s, "+")
	var out []string
	for _, f := range splitList(main) {
		lo, hi, isRange := strings.Cut(f, "-")
		if !isRange {
			if _, err := strconv.Atoi(f); err != nil {
				return nil, fmt.Errorf("summary fragment %q: not a number", f)
			}
			out = append(out, f)
			continue
		}
		a, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("summary range %q: %w", f, err)
		}
		b, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("summary range %q: %w", f, err)
		}
		if b < a {
			return nil, fmt.Errorf("summary range %q: end before start", f)
		}
		for n := a; n <= b; n++ {
			out = append(out, strconv.Itoa(n))
		}
	}
	out = append(out, splitList(acc)...)
	return out, nil
}

// splitList splits on ", " rather than ",": a comma is itself an accidental suffix.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ", ") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
