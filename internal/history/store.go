// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records conversion runs in a SQLite database so past
// conversions can be listed and inspected.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/wordhoard/pkg/types"
)

// ErrRunNotFound is returned by Get when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// defaultLimit applies when List is called with limit <= 0.
const defaultLimit = 20

// Run is one recorded conversion.
type Run struct {
	ID         string        `json:"id" yaml:"id"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	InputPath  string        `json:"input_path" yaml:"input_path"`
	Sheet      string        `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	OutputPath string        `json:"output_path" yaml:"output_path"`
	BackupPath string        `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Rows       int           `json:"rows" yaml:"rows"`
	Columns    int           `json:"columns" yaml:"columns"`
	Records    int           `json:"records" yaml:"records"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Status     string        `json:"status" yaml:"status"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// timeLayout is fixed width so started_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// runRow mirrors the runs table. Times are stored as UTC text in timeLayout.
type runRow struct {
	ID         string `db:"id"`
	StartedAt  string `db:"started_at"`
	InputPath  string `db:"input_path"`
	Sheet      string `db:"sheet"`
	OutputPath string `db:"output_path"`
	BackupPath string `db:"backup_path"`
	Rows       int    `db:"row_count"`
	Columns    int    `db:"column_count"`
	Records    int    `db:"record_count"`
	DurationMS int64  `db:"duration_ms"`
	Status     string `db:"status"`
	Error      string `db:"error"`
}

func toRow(r Run) runRow {
	return runRow{
		ID:         r.ID,
		StartedAt:  r.StartedAt.UTC().Format(timeLayout),
		InputPath:  r.InputPath,
		Sheet:      r.Sheet,
		OutputPath: r.OutputPath,
		BackupPath: r.BackupPath,
		Rows:       r.Rows,
		Columns:    r.Columns,
		Records:    r.Records,
		DurationMS: r.Duration.Milliseconds(),
		Status:     r.Status,
		Error:      r.Error,
	}
}

func (row runRow) run() (Run, error) {
	started, err := time.Parse(timeLayout, row.StartedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing started_at of run %s: %w", row.ID, err)
	}
	return Run{
		ID:         row.ID,
		StartedAt:  started,
		InputPath:  row.InputPath,
		Sheet:      row.Sheet,
		OutputPath: row.OutputPath,
		BackupPath: row.BackupPath,
		Rows:       row.Rows,
		Columns:    row.Columns,
		Records:    row.Records,
		Duration:   time.Duration(row.DurationMS) * time.Millisecond,
		Status:     row.Status,
		Error:      row.Error,
	}, nil
}

// Store manages the history database.
type Store struct {
	db *sqlx.DB
}

// NewStore opens or creates the history database at cfg.DBPath, creating
// its parent directory and schema when missing.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			input_path TEXT NOT NULL,
			sheet TEXT NOT NULL DEFAULT '',
			output_path TEXT NOT NULL,
			backup_path TEXT NOT NULL DEFAULT '',
			row_count INTEGER NOT NULL DEFAULT 0,
			column_count INTEGER NOT NULL DEFAULT 0,
			record_count INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts r. The id must be unique.
func (s *Store) Record(ctx context.Context, r Run) error {
	if r.ID == "" {
		return errors.New("recording run: empty id")
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO runs
		(id, started_at, input_path, sheet, output_path, backup_path, row_count, column_count, record_count, duration_ms, status, error)
		VALUES
		(:id, :started_at, :input_path, :sheet, :output_path, :backup_path, :row_count, :column_count, :record_count, :duration_ms, :status, :error)`,
		toRow(r))
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, started_at, input_path, sheet, output_path, backup_path,
	row_count, column_count, record_count, duration_ms, status, error FROM runs`

// List returns up to limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows,
		selectRuns+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		r, err := row.run()
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// Get returns the run with the given id, or ErrRunNotFound.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	var row runRow
	err := s.db.GetContext(ctx, &row, selectRuns+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("reading run %s: %w", id, err)
	}
	return row.run()
}
