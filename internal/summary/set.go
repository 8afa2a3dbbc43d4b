/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package summary

import "sort"

// Set accumulates the distinct symbols seen on a page or document.
// The zero value is ready to use.
type Set struct {
	m map[string]struct{}
}

// Add records tok after normalizing away enclosing parentheses.
func (s *Set) Add(tok string) {
	t := Normalize(tok)
	if t == "" {
		return
	}
	if s.m == nil {
		s.m = make(map[string]struct{})
	}
	s.m[t] = struct{}{}
}

func (s *Set) Has(tok string) bool {
	_, ok := s.m[Normalize(tok)]
	return ok
}

func (s *Set) Len() int { return len(s.m) }

// Reset empties the set.
func (s *Set) Reset() { clear(s.m) }

// Tokens returns the members in lexical order.
func (s *Set) Tokens() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Summary is shorthand for Summarize(s.Tokens()).
func (s *Set) Summary() string { return Summarize(s.Tokens()) }
