/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package chart runs the beat/row/page state machine that lays a notation
// file out onto pages and hands the result to a draw.Canvas.
package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ringchart/internal/draw"
	"ringchart/internal/layout"
	applog "ringchart/internal/log"
	"ringchart/internal/notation"
	"ringchart/internal/summary"
)

// Scope decides how long the used-symbol set lives.
type Scope string

const (
	ScopePage     Scope = "page"
	ScopeDocument Scope = "document"
)

// ParseScope accepts "page" or "document" in any case; empty means page.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case "":
		return ScopePage, nil
	case ScopePage, ScopeDocument:
		return sc, nil
	default:
		return "", fmt.Errorf("unknown symbol scope %q", s)
	}
}

// State is the position of the engine in its control loop.
type State int

const (
	AwaitingHeader State = iota
	InRow
	RowComplete
	InPage
	PageComplete
	DocumentComplete
)

func (s State) String() string {
	switch s {
	case AwaitingHeader:
		return "awaiting-header"
	case InRow:
		return "in-row"
	case RowComplete:
		return "row-complete"
	case InPage:
		return "in-page"
	case PageComplete:
		return "page-complete"
	case DocumentComplete:
		return "document-complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Cursor is the engine's position in the grid.
type Cursor struct {
	Beat int // 1..Columns once a beat has been read in the row
	Row  int // counts down from RowsPerPage-1
	Page int // 1-based
	EOF  bool
}

func (c Cursor) String() string {
	return fmt.Sprintf("page %d row %d beat %d", c.Page, c.Row, c.Beat)
}

// BeatEvent is reported for every beat line placed.
type BeatEvent struct {
	Line   string
	Timing notation.Timing
	Cursor Cursor
}

// Options configures an Engine.
type Options struct {
	Profile layout.Profile
	Scope   Scope
	Logger  *slog.Logger
	// OnHeader, when set, sees the parsed header before the first page.
	OnHeader func(notation.Header)
	// OnBeat, when set, observes each placed beat line.
	OnBeat func(BeatEvent)
}

// Result summarizes a finished run.
type Result struct {
	Header    notation.Header
	Geometry  layout.Geometry
	Pages     int
	Rows      int
	Beats     int
	Summaries []string // one per page
}

// Engine consumes notation from one reader and draws onto one canvas.
// It is single use and not safe for concurrent use.
type Engine struct {
	src    *notation.Reader
	canvas draw.Canvas
	opts   Options
	log    *slog.Logger

	state   State
	cursor  Cursor
	pending string
	pendAt  int

	header notation.Header
	geom   layout.Geometry
	used   summary.Set
	placer *Placer
	row    []draw.Directive
	result Result
}

// New prepares an engine. A zero Profile means layout.Poster().
func New(r io.Reader, c draw.Canvas, opts Options) *Engine {
	if opts.Profile == (layout.Profile{}) {
		opts.Profile = layout.Poster()
	}
	if opts.Scope == "" {
		opts.Scope = ScopePage
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("chart")
	}
	return &Engine{src: notation.NewReader(r), canvas: c, opts: opts, log: l}
}

func (e *Engine) State() State   { return e.state }
func (e *Engine) Cursor() Cursor { return e.cursor }

// Run processes the whole input. Any malformed input aborts the run.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	e.state = AwaitingHeader
	h, err := notation.ParseHeader(e.src)
	if err != nil {
		return Result{}, err
	}
	g, err := layout.Compute(h, e.opts.Profile, e.canvas)
	if err != nil {
		return Result{}, err
	}
	e.header, e.geom = h, g
	e.result.Header, e.result.Geometry = h, g
	e.placer = &Placer{Header: h, Geometry: g, Measurer: e.canvas, Used: &e.used, Log: e.log}
	if e.opts.OnHeader != nil {
		e.opts.OnHeader(h)
	}

	e.log.Info("header",
		slog.String("title", h.Title),
		slog.Int("beats_per_bar", h.BeatsPerBar),
		slog.Int("bars_per_row", h.BarsPerRow),
		slog.Int("rows_per_page", h.RowsPerPage),
		slog.Int("first", h.FirstSymbol),
		slog.Int("last", h.LastSymbol))
	e.log.Info("geometry",
		slog.String("sizing", string(g.Sizing)),
		slog.Float64("page_w", g.PageWidth), slog.Float64("page_h", g.PageHeight),
		slog.Float64("column_w", g.ColumnWidth), slog.Float64("row_h", g.RowHeight),
		slog.Float64("line_h", g.LineHeight), slog.Float64("char_h", g.CharHeight))

	if err := e.advance(); err != nil {
		return Result{}, err
	}
	if e.cursor.EOF {
		return Result{}, &notation.Error{Line: e.src.Line(), Err: notation.ErrEmptyDocument}
	}

	for !e.cursor.EOF {
		if err := ctx.Err(); err != nil {
			return e.result, err
		}
		if err := e.page(ctx); err != nil {
			return e.result, err
		}
	}
	if err := e.canvas.Save(); err != nil {
		return e.result, fmt.Errorf("save document: %w", err)
	}
	e.state = DocumentComplete
	return e.result, nil
}

// advance reads the next beat line into the look-ahead slot.
func (e *Engine) advance() error {
	line, err := e.src.Next()
	if errors.Is(err, io.EOF) {
		e.cursor.EOF = true
		e.pending = ""
		return nil
	}
	if err != nil {
		return fmt.Errorf("read notation: %w", err)
	}
	e.pending, e.pendAt = line, e.src.Line()
	return nil
}

func (e *Engine) page(ctx context.Context) error {
	e.state = InPage
	e.cursor.Page++
	if e.opts.Scope == ScopePage {
		e.used.Reset()
	}
	g := e.geom
	if err := e.canvas.NewPage(g.PageWidth, g.PageHeight); err != nil {
		return fmt.Errorf("page %d: %w", e.cursor.Page, err)
	}

	title := e.header.Title
	if e.cursor.Page > 1 {
		title = fmt.Sprintf("%s (page %d)", e.header.Title, e.cursor.Page)
	}
	head := draw.Text(draw.Bold(g.TitleSize), draw.AlignCenter, g.PageWidth/2, g.HeaderBaseline(), title)
	if err := draw.Replay(e.canvas, []draw.Directive{head}); err != nil {
		return err
	}

	for row := g.Rows - 1; row >= 0; row-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.cursor.Row = row
		if err := e.processRow(g.RowY(row)); err != nil {
			return err
		}
		if e.cursor.EOF {
			break
		}
	}

	text := e.used.Summary()
	sum := draw.Text(draw.Regular(g.SummarySize), draw.AlignRight, g.PageWidth-g.HMargin, g.HeaderBaseline(), text)
	if err := draw.Replay(e.canvas, []draw.Directive{sum}); err != nil {
		return err
	}
	e.state = PageComplete
	e.result.Pages++
	e.result.Summaries = append(e.result.Summaries, text)
	e.log.Debug("page complete", slog.Int("page", e.cursor.Page), slog.String("summary", text))
	return nil
}

func (e *Engine) processRow(y float64) error {
	e.state = InRow
	e.row = append(e.row[:0], e.grid(y)...)
	e.cursor.Beat = 0

	for !e.cursor.EOF {
		b := notation.ParseBeat(e.pending)
		beat := e.cursor.Beat
		if b.Timing.Advances() {
			beat++
		}
		if beat > e.geom.Columns {
			// the pending line opens the next row
			break
		}
		e.cursor.Beat = beat

		ds, err := e.placer.Place(b.Body, beat, b.Timing.Offset(e.geom.ColumnWidth), b.Timing.Partial(), y)
		if err != nil {
			return e.annotate(err)
		}
		e.row = append(e.row, ds...)
		e.result.Beats++
		if e.opts.OnBeat != nil {
			e.opts.OnBeat(BeatEvent{Line: e.pending, Timing: b.Timing, Cursor: e.cursor})
		}
		if err := e.advance(); err != nil {
			return err
		}
	}

	if err := draw.Replay(e.canvas, e.row); err != nil {
		return fmt.Errorf("page %d row %d: %w", e.cursor.Page, e.cursor.Row, err)
	}
	e.state = RowComplete
	e.result.Rows++
	e.log.Debug("row complete", slog.Int("page", e.cursor.Page), slog.Int("row", e.cursor.Row),
		slog.Int("beats", e.cursor.Beat), slog.Int("directives", len(e.row)))
	return nil
}

// grid outlines the row and draws the beat and bar separators.
func (e *Engine) grid(y float64) []draw.Directive {
	g := e.geom
	out := make([]draw.Directive, 0, g.Columns)
	out = append(out, draw.StrokeRect(g.HMargin, y, g.TargetWidth, g.RowHeight, g.BarLine, g.GridGray))
	for col := 1; col < g.Columns; col++ {
		lw := g.PlainLine
		if col%g.BeatsPerBar == 0 {
			lw = g.BarLine
		}
		x := g.ColumnLineX(col)
		out = append(out, draw.Line(x, y, x, y+g.RowHeight, lw, g.GridGray))
	}
	return out
}

// annotate attaches the source line to errors raised while placing symbols.
func (e *Engine) annotate(err error) error {
	var ne *notation.Error
	if errors.As(err, &ne) && ne.Line == 0 {
		ne.Line = e.pendAt
	}
	return err
}
