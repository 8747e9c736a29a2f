// Package sqlite provides the SQLite-backed audit history store.
//
// The store keeps one row per completed run plus the subtrees that run
// could not read. History is purely local and best-effort; the report on
// disk is the source of truth for a run's content.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/drivescope/drivescope-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/drivescope/drivescope-cli/internal/core/domain"
	"github.com/drivescope/drivescope-cli/internal/core/ports/driven"
)

// Ensure Store implements the AuditStore port.
var _ driven.AuditStore = (*Store)(nil)

// Store is the SQLite-backed audit history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.drivescope/data/audit.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".drivescope", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "audit.db")

	// WAL keeps a history read from 'drivescope history' from blocking
	// a concurrent audit's write.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveRun records a completed run.
func (s *Store) SaveRun(ctx context.Context, run domain.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, root_id, output_dir, started_at, finished_at,
			folders, files, skipped, pages, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RootID, run.OutputDir,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Folders, run.Files, run.Skipped, run.Pages, run.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root_id, output_dir, started_at, finished_at,
			folders, files, skipped, pages, status
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var run domain.Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.RootID, &run.OutputDir, &started, &finished,
			&run.Folders, &run.Files, &run.Skipped, &run.Pages, &run.Status); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveSkips records the subtrees a run could not read.
func (s *Store) SaveSkips(ctx context.Context, skips []domain.Skip) error {
	if len(skips) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO skips (run_id, item_id, name, path, reason)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing skip insert: %w", err)
	}
	defer stmt.Close()

	for _, skip := range skips {
		if _, err := stmt.ExecContext(ctx, skip.RunID, skip.ItemID, skip.Name, skip.Path, skip.Reason); err != nil {
			return fmt.Errorf("inserting skip: %w", err)
		}
	}
	return tx.Commit()
}

// ListSkips returns the skipped subtrees of one run, in insertion order.
func (s *Store) ListSkips(ctx context.Context, runID string) ([]domain.Skip, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, item_id, name, path, reason
		FROM skips
		WHERE run_id = ?
		ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying skips: %w", err)
	}
	defer rows.Close()

	var skips []domain.Skip
	for rows.Next() {
		var skip domain.Skip
		if err := rows.Scan(&skip.RunID, &skip.ItemID, &skip.Name, &skip.Path, &skip.Reason); err != nil {
			return nil, fmt.Errorf("scanning skip: %w", err)
		}
		skips = append(skips, skip)
	}
	return skips, rows.Err()
}
