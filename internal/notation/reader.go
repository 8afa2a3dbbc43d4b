/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package notation

import (
	"bufio"
	"io"
	"strings"
)

// Reader yields significant lines: blank lines and lines starting with '#'
// are skipped. Once the source is exhausted every call returns io.EOF.
type Reader struct {
	sc   *bufio.Scanner
	line int
	err  error
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Reader{sc: sc}
}

// Next returns the next significant line with surrounding whitespace removed.
func (r *Reader) Next() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	for r.sc.Scan() {
		r.line++
		s := strings.TrimSpace(r.sc.Text())
		if s == "" || s[0] == '#' {
			continue
		}
		return s, nil
	}
	r.err = io.EOF
	if err := r.sc.Err(); err != nil {
		r.err = err
	}
	return "", r.err
}

// Line is the physical line number of the last line read.
func (r *Reader) Line() int { return r.line }

// Done reports whether the end of input has been latched.
func (r *Reader) Done() bool { return r.err != nil }
