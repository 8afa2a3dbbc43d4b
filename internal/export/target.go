/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export holds the drawing backends and decides where their output goes.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ringchart/internal/draw"
)

// Format names an output backend.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPDF, FormatPNG, FormatSVG}

// ParseFormat accepts a format name in any case; empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// PageWriter opens the destination of page n (1-based).
type PageWriter func(n int) (io.WriteCloser, error)

// StdinName is the base name used when the source is standard input.
const StdinName = "chart"

// IsStdin reports whether input names standard input.
func IsStdin(input string) bool { return input == "" || input == "-" }

// BaseName strips directory and extension from input.
func BaseName(input string) string {
	if IsStdin(input) {
		return StdinName
	}
	b := filepath.Base(input)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

// DocumentPath is the single-file destination for input: next to the input
// unless dir is set.
func DocumentPath(input, dir string, f Format) string {
	if dir == "" && !IsStdin(input) {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, BaseName(input)+"."+string(f))
}

// PagePath is the destination of page n for per-page formats.
func PagePath(dir, base string, f Format, n int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-page-%d.%s", base, n, f))
}

// Target describes where a rendered chart goes.
type Target struct {
	Format Format
	// Input is the source path; "" or "-" for standard input.
	Input string
	// Output is an explicit file for PDF or a directory for page formats.
	Output string
	DPI    float64
	Title  string
	// Stdout receives a PDF rendered from standard input without Output.
	Stdout io.Writer
}

// Sink is an opened target.
type Sink interface {
	draw.Canvas
	// Paths lists the files written so far; "-" stands for Stdout.
	Paths() []string
	SetTitle(title string)
}

type sink struct {
	draw.Canvas
	paths *[]string
}

func (s sink) Paths() []string { return append([]string(nil), *s.paths...) }

// SetTitle forwards to backends that carry document metadata.
func (s sink) SetTitle(title string) {
	if t, ok := s.Canvas.(interface{ SetTitle(string) }); ok {
		t.SetTitle(title)
	}
}

// Open creates the canvas for t. Files are only created on Save, so a
// failed render leaves no partial output behind.
func (t Target) Open() (Sink, error) {
	paths := new([]string)
	switch t.Format {
	case FormatPDF, "":
		var w io.Writer
		switch {
		case t.Output == "" && IsStdin(t.Input) && t.Stdout != nil:
			w = keepOpen{t.Stdout}
			*paths = append(*paths, "-")
		default:
			p := t.Output
			if p == "" {
				p = DocumentPath(t.Input, "", FormatPDF)
			}
			w = &lazyFile{path: p}
			*paths = append(*paths, p)
		}
		return sink{Canvas: NewPDF(w, t.Title), paths: paths}, nil
	case FormatPNG, FormatSVG:
		dir := t.Output
		if dir == "" && !IsStdin(t.Input) {
			dir = filepath.Dir(t.Input)
		}
		pw := FilePages(dir, BaseName(t.Input), t.Format, paths)
		if t.Format == FormatSVG {
			return sink{Canvas: NewSVG(pw, t.DPI, nil), paths: paths}, nil
		}
		c, err := NewPNG(pw, t.DPI)
		if err != nil {
			return nil, err
		}
		return sink{Canvas: c, paths: paths}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", t.Format)
	}
}

// keepOpen hides Close so that saving does not close a caller's stream.
type keepOpen struct{ io.Writer }

// writePages hands finished pages to w in order, numbering from 1.
func writePages(w PageWriter, pages [][]byte, f Format) error {
	for i, b := range pages {
		out, err := w(i + 1)
		if err != nil {
			return err
		}
		if _, err := out.Write(b); err != nil {
			_ = out.Close()
			return fmt.Errorf("write %s page %d: %w", f, i+1, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("close %s page %d: %w", f, i+1, err)
		}
	}
	return nil
}

// FilePages writes page n to PagePath(dir, base, f, n), creating dir as
// needed, and appends each path to written when it is non-nil.
func FilePages(dir, base string, f Format, written *[]string) PageWriter {
	return func(n int) (io.WriteCloser, error) {
		if dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ensure out dir: %w", err)
			}
		}
		p := PagePath(dir, base, f, n)
		fh, err := os.Create(p)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f, err)
		}
		if written != nil {
			*written = append(*written, p)
		}
		return fh, nil
	}
}

// lazyFile creates its file on the first write.
type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Write(b []byte) (int, error) {
	if l.f == nil {
		if dir := filepath.Dir(l.path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return 0, fmt.Errorf("ensure out dir: %w", err)
			}
		}
		f, err := os.Create(l.path)
		if err != nil {
			return 0, err
		}
		l.f = f
	}
	return l.f.Write(b)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
