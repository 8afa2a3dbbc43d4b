/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package catalog keeps a SQLite history of rendered charts.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "ringchart/internal/log"
	"ringchart/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// FileName is the default database file name inside the config directory.
const FileName = "history.sqlite"

// schemaVersion tracks the catalog schema. Bump it together with a migration step.
const schemaVersion = 2

// Render is one recorded chart.
type Render struct {
	ID        int64
	Source    string
	Output    string
	Title     string
	Format    string
	Profile   string
	Pages     int
	Rows      int
	Beats     int
	Summaries []string
	CreatedAt time.Time
}

// Catalog is an open history database.
type Catalog struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open creates or opens the database at path, enables WAL mode and brings
// the schema up to date.
func Open(ctx context.Context, path string) (*Catalog, error) {
	l := applog.WithOperation(applog.WithComponent("catalog"), "open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		l.Error("migrate failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("catalog ready")
	return &Catalog{db: db, path: path, log: l}, nil
}

func (c *Catalog) Path() string { return c.path }

func (c *Catalog) Close() error { return c.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS renders (
			id         INTEGER PRIMARY KEY,
			source     TEXT    NOT NULL,
			output     TEXT    NOT NULL,
			title      TEXT    NOT NULL,
			format     TEXT    NOT NULL,
			profile    TEXT    NOT NULL,
			pages      INTEGER NOT NULL,
			row_count  INTEGER NOT NULL,
			beats      INTEGER NOT NULL,
			summaries  TEXT    NOT NULL,
			created_at TEXT    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fresh database: schema 1 is the bare table, migrations add the rest
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// migrate applies schema steps up to schemaVersion. Newer databases are left alone.
func migrate(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			// title search via contentless FTS5 kept in sync by triggers
			stmts = []string{
				`CREATE VIRTUAL TABLE IF NOT EXISTS fts_renders USING fts5(title, content='', tokenize='unicode61');`,
				`CREATE TRIGGER IF NOT EXISTS renders_ai AFTER INSERT ON renders BEGIN
					INSERT INTO fts_renders(rowid, title) VALUES (new.id, new.title);
				END;`,
				`CREATE TRIGGER IF NOT EXISTS renders_ad AFTER DELETE ON renders BEGIN
					INSERT INTO fts_renders(fts_renders, rowid, title) VALUES ('delete', old.id, old.title);
				END;`,
				`INSERT INTO fts_renders(rowid, title) SELECT id, title FROM renders;`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// tsLayout has fixed width so created_at sorts as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// summarySep separates per-page summaries in the summaries column. Summaries
// never contain a newline.
const summarySep = "\n"

// Record stores r and returns its id. A zero CreatedAt is set to now.
func (c *Catalog) Record(ctx context.Context, r Render) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO renders (source, output, title, format, profile, pages, row_count, beats, summaries, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source, r.Output, r.Title, r.Format, r.Profile, r.Pages, r.Rows, r.Beats,
		strings.Join(r.Summaries, summarySep), r.CreatedAt.UTC().Format(tsLayout))
	if err != nil {
		return 0, fmt.Errorf("record render: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record render id: %w", err)
	}
	c.log.Debug("render recorded", slog.Int64("id", id), slog.String("title", r.Title))
	return id, nil
}

// Query filters List. Title uses full-text matching on words of the title.
type Query struct {
	Title string
	Limit int
}

// List returns matching renders, newest first.
func (c *Catalog) List(ctx context.Context, q Query) ([]Render, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	const cols = `r.id, r.source, r.output, r.title, r.format, r.profile, r.pages, r.row_count, r.beats, r.summaries, r.created_at`
	var (
		rows *sql.Rows
		err  error
	)
	if t := strings.TrimSpace(q.Title); t != "" {
		rows, err = c.db.QueryContext(ctx,
			`SELECT `+cols+` FROM fts_renders f JOIN renders r ON r.id = f.rowid
			 WHERE fts_renders MATCH ? ORDER BY r.created_at DESC, r.id DESC LIMIT ?`, ftsTerms(t), limit)
	} else {
		rows, err = c.db.QueryContext(ctx,
			`SELECT `+cols+` FROM renders r ORDER BY r.created_at DESC, r.id DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	defer rows.Close()
	var out []Render
	for rows.Next() {
		var (
			r        Render
			sums, ts string
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.Output, &r.Title, &r.Format, &r.Profile, &r.Pages, &r.Rows, &r.Beats, &sums, &ts); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		if sums != "" {
			r.Summaries = strings.Split(sums, summarySep)
		}
		r.CreatedAt, _ = time.Parse(tsLayout, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ftsTerms quotes each word so user input never parses as FTS syntax.
func ftsTerms(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}
