// Package journal records which chapters of an input have been written so an
// interrupted split can resume. Entries are keyed by the input's absolute
// path, size and modification time; editing the input invalidates them.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Input identifies one version of an input file.
type Input struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// InputOf stats path and returns its journal key.
func InputOf(path string) (Input, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Input{}, fmt.Errorf("resolve input path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Input{}, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return Input{}, fmt.Errorf("input %s is a directory", abs)
	}
	return Input{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Entry is one completed chapter.
type Entry struct {
	Chapter     int
	Output      string
	Bytes       int64
	SessionID   string
	CompletedAt time.Time
}

// Store manages the journal database.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns $XDG_DATA_HOME/chapsplit/journal.db, creating the
// parent directory.
func DefaultPath() (string, error) {
	path, err := xdg.DataFile(filepath.Join("chapsplit", "journal.db"))
	if err != nil {
		return "", fmt.Errorf("resolve journal path: %w", err)
	}
	return path, nil
}

// Open initializes or connects to the journal at path. An empty path uses
// DefaultPath.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record stores a completed chapter, replacing any earlier entry for the
// same input and chapter.
func (s *Store) Record(ctx context.Context, in Input, entry Entry) error {
	if entry.Chapter < 1 {
		return fmt.Errorf("record chapter: invalid index %d", entry.Chapter)
	}
	completed := entry.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `INSERT INTO completed_chapters
			(input_path, input_size, input_mtime, chapter_index, output_path, output_bytes, session_id, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (input_path, input_size, input_mtime, chapter_index) DO UPDATE SET
				output_path = excluded.output_path,
				output_bytes = excluded.output_bytes,
				session_id = excluded.session_id,
				completed_at = excluded.completed_at`,
			in.Path, in.Size, in.ModTime.UnixNano(), entry.Chapter,
			entry.Output, entry.Bytes, entry.SessionID, completed.UTC().Format(time.RFC3339Nano))
		return err
	})
}

// Completed returns the recorded chapters of in, keyed by chapter index.
func (s *Store) Completed(ctx context.Context, in Input) (map[int]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chapter_index, output_path, output_bytes, session_id, completed_at
		FROM completed_chapters
		WHERE input_path = ? AND input_size = ? AND input_mtime = ?
		ORDER BY chapter_index`,
		in.Path, in.Size, in.ModTime.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	out := make(map[int]Entry)
	for rows.Next() {
		var (
			entry     Entry
			completed string
		)
		if err := rows.Scan(&entry.Chapter, &entry.Output, &entry.Bytes, &entry.SessionID, &completed); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, completed); err == nil {
			entry.CompletedAt = ts
		}
		out[entry.Chapter] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}

// Forget removes every entry for in's path, whatever its size or mtime.
func (s *Store) Forget(ctx context.Context, in Input) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM completed_chapters WHERE input_path = ?", in.Path)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("forget journal entries: %w", err)
	}
	return removed, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
