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
)

// Every error below is fatal to a run: the notation has no recovery concept.
var (
	ErrMissingTitle        = errors.New("missing title")
	ErrMissingParameters   = errors.New("missing parameters")
	ErrMalformedParameters = errors.New("malformed parameters")
	ErrSymbolOutOfRange    = errors.New("symbol outside declared range")
	ErrMalformedSymbol     = errors.New("malformed symbol")
	ErrEmptyDocument       = errors.New("not a single beat of music")
)

// Error carries the source position of a notation error.
type Error struct {
	Line int    // 1-based physical line, 0 when unknown
	Text string // offending line or token
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Line > 0 && e.Text != "":
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Text != "":
		return fmt.Sprintf("%v: %q", e.Err, e.Text)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func errAt(line int, text string, err error) error {
	return &Error{Line: line, Text: text, Err: err}
}
