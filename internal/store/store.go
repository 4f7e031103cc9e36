// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store caches fetched PubMed records in a local SQLite database
// and keeps a history of pipeline runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

const dbFile = "papers.db"

// Store manages the paper cache SQLite database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens or creates the cache database at dir/papers.db and creates
// the schema if it does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, ttl: cfg.TTL}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			pmid TEXT PRIMARY KEY,
			title TEXT,
			journal TEXT,
			pub_date TEXT,
			authors TEXT,
			abstract TEXT,
			fetched_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			executed_at TEXT NOT NULL,
			total_found INTEGER,
			fetched INTEGER,
			from_cache INTEGER,
			matched INTEGER,
			output_path TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Lookup returns the cached papers for the given PMIDs and the PMIDs that
// were not found (or whose records are older than the TTL). The returned
// papers follow the input order.
func (s *Store) Lookup(ctx context.Context, pmids []string) ([]types.Paper, []string, error) {
	var cached []types.Paper
	var missing []string

	stmt, err := s.db.PrepareContext(ctx,
		`SELECT title, journal, pub_date, authors, abstract, fetched_at
		 FROM papers WHERE pmid = ?`)
	if err != nil {
		return nil, nil, fmt.Errorf("preparing lookup: %w", err)
	}
	defer stmt.Close()

	cutoff := time.Time{}
	if s.ttl > 0 {
		cutoff = time.Now().UTC().Add(-s.ttl)
	}

	for _, pmid := range pmids {
		var (
			p           types.Paper
			authorsJSON string
			fetchedAt   string
		)
		err := stmt.QueryRowContext(ctx, pmid).Scan(
			&p.Title, &p.Journal, &p.PubDate, &authorsJSON, &p.Abstract, &fetchedAt)
		if err == sql.ErrNoRows {
			missing = append(missing, pmid)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("looking up %s: %w", pmid, err)
		}

		p.PMID = pmid
		if t, parseErr := time.Parse(time.RFC3339Nano, fetchedAt); parseErr == nil {
			p.FetchedAt = t
		}
		if !cutoff.IsZero() && p.FetchedAt.Before(cutoff) {
			missing = append(missing, pmid)
			continue
		}
		if authorsJSON != "" {
			json.Unmarshal([]byte(authorsJSON), &p.Authors)
		}
		cached = append(cached, p)
	}

	return cached, missing, nil
}

// Save upserts fetched papers into the cache in a single transaction.
func (s *Store) Save(ctx context.Context, papers []types.Paper) error {
	if len(papers) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (pmid, title, journal, pub_date, authors, abstract, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			title=excluded.title, journal=excluded.journal, pub_date=excluded.pub_date,
			authors=excluded.authors, abstract=excluded.abstract, fetched_at=excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		fetchedAt := p.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}
		_, err := stmt.ExecContext(ctx,
			p.PMID, p.Title, p.Journal, p.PubDate, string(authorsJSON),
			p.Abstract, fetchedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.PMID, err)
		}
	}

	return tx.Commit()
}

// Run is one recorded pipeline execution.
type Run struct {
	ID         int64     `json:"id"`
	Query      string    `json:"query"`
	ExecutedAt time.Time `json:"executed_at"`
	TotalFound int       `json:"total_found"`
	Fetched    int       `json:"fetched"`
	FromCache  int       `json:"from_cache"`
	Matched    int       `json:"matched"`
	OutputPath string    `json:"output_path"`
}

// RecordRun appends one run to the history table.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	executedAt := run.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (query, executed_at, total_found, fetched, from_cache, matched, output_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Query, executedAt.UTC().Format(time.RFC3339Nano),
		run.TotalFound, run.Fetched, run.FromCache, run.Matched, run.OutputPath)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first. A limit of 0 returns
// the last 20.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, executed_at, total_found, fetched, from_cache, matched, output_path
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var executedAt string
		if err := rows.Scan(&r.ID, &r.Query, &executedAt,
			&r.TotalFound, &r.Fetched, &r.FromCache, &r.Matched, &r.OutputPath); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, executedAt); parseErr == nil {
			r.ExecutedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats holds cache summary counters.
type Stats struct {
	Papers int `json:"papers"`
	Runs   int `json:"runs"`
}

// Info returns cache summary counters.
func (s *Store) Info(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&st.Papers); err != nil {
		return st, fmt.Errorf("counting papers: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs`).Scan(&st.Runs); err != nil {
		return st, fmt.Errorf("counting runs: %w", err)
	}
	return st, nil
}

// Clear removes all cached papers and run history.
func (s *Store) Clear(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM papers`, `DELETE FROM runs`} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}
	return nil
}
