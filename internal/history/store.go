// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a ledger of performed renames in SQLite.
// The ledger feeds the `history` subcommand and lets a re-run over the
// same directory skip files a previous run already produced.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-rename/pkg/types"
)

// Store manages the rename history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
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
		`CREATE TABLE IF NOT EXISTS renames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_path TEXT NOT NULL,
			new_path TEXT NOT NULL,
			doi TEXT,
			title TEXT,
			source TEXT,
			renamed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_renames_new_path ON renames(new_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one rename to the ledger.
func (s *Store) Record(ctx context.Context, rec types.RenameRecord) error {
	if rec.RenamedAt.IsZero() {
		rec.RenamedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renames (source_path, new_path, doi, title, source, renamed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SourcePath, rec.NewPath, rec.DOI, rec.Title, rec.Source,
		rec.RenamedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording rename: %w", err)
	}
	return nil
}

// Recent returns the most recent renames, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.RenameRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, new_path, doi, title, source, renamed_at
		 FROM renames ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []types.RenameRecord
	for rows.Next() {
		var rec types.RenameRecord
		var doi, title, source sql.NullString
		var renamedAt string
		if err := rows.Scan(&rec.ID, &rec.SourcePath, &rec.NewPath, &doi, &title, &source, &renamedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.DOI = doi.String
		rec.Title = title.String
		rec.Source = source.String
		if t, parseErr := time.Parse(time.RFC3339, renamedAt); parseErr == nil {
			rec.RenamedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// HasProduced reports whether path was the output of a previous rename.
func (s *Store) HasProduced(ctx context.Context, path string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM renames WHERE new_path = ?`, path).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying history: %w", err)
	}
	return n > 0, nil
}
