// Package history keeps a small SQLite log of past validation runs so the
// upload page can show what was checked recently and how it went.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded validation.
type Run struct {
	ID             int64
	RanAt          time.Time
	CSVName        string
	XLSXName       string
	Discrepancies  int
	OK             int
	NeedsAttention int
	ReportPath     string
}

// Store persists runs in a SQLite database.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Open initializes the database at the given path, creating it if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ran_at DATETIME NOT NULL,
		csv_name TEXT NOT NULL,
		xlsx_name TEXT NOT NULL,
		discrepancies INTEGER NOT NULL,
		ok_count INTEGER NOT NULL,
		needs_attention INTEGER NOT NULL,
		report_path TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Record stores one run and returns its row id.
func (s *Store) Record(run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranAt := run.RanAt
	if ranAt.IsZero() {
		ranAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO runs (ran_at, csv_name, xlsx_name, discrepancies, ok_count, needs_attention, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ranAt.UTC().Format(time.RFC3339), run.CSVName, run.XLSXName,
		run.Discrepancies, run.OK, run.NeedsAttention, run.ReportPath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, ran_at, csv_name, xlsx_name, discrepancies, ok_count, needs_attention, report_path
		 FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ranAt string
		if err := rows.Scan(&r.ID, &ranAt, &r.CSVName, &r.XLSXName,
			&r.Discrepancies, &r.OK, &r.NeedsAttention, &r.ReportPath); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ranAt); err == nil {
			r.RanAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
