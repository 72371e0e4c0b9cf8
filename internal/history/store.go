// internal/history/store.go
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath returns the history database location under the XDG data dir,
// creating parent directories as needed.
func DefaultPath() (string, error) {
	return xdg.DataFile("litequery/history.db")
}

// Store manages query history persistence
type Store struct {
	db    *sql.DB
	limit int
}

// Open opens or creates the history database at path. limit bounds the
// number of entries kept; zero keeps everything.
func Open(ctx context.Context, path string, limit int) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			target TEXT NOT NULL,
			query TEXT NOT NULL,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			duration_ms INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON history(executed_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	store := &Store{db: db, limit: limit}
	if err := store.cleanup(ctx); err != nil {
		slog.Warn("history cleanup failed", "error", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a new execution into history
func (s *Store) Add(ctx context.Context, entry *Entry) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO history (target, query, executed_at, duration_ms, row_count, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Target,
		entry.Query,
		entry.ExecutedAt.UTC(),
		entry.DurationMs,
		entry.RowCount,
		entry.Status,
		entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("add history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	if s.limit > 0 {
		return s.enforceLimit(ctx, s.limit)
	}
	return nil
}

// enforceLimit keeps only the most recent n entries
func (s *Store) enforceLimit(ctx context.Context, n int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM history
		WHERE id NOT IN (
			SELECT id FROM history
			ORDER BY executed_at DESC, id DESC
			LIMIT ?
		)
	`, n)
	return err
}

// Recent returns up to limit successfully executed queries, oldest first,
// ready to seed an in-session recall list.
func (s *Store) Recent(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query FROM (
			SELECT id, query, executed_at FROM history
			WHERE status = ?
			ORDER BY executed_at DESC, id DESC
			LIMIT ?
		) ORDER BY executed_at ASC, id ASC
	`, StatusSuccess, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// List returns paginated history entries, newest first
func (s *Store) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target, query, executed_at, duration_ms, row_count, status, error_message
		FROM history
		ORDER BY executed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// scanEntries scans rows into an Entry slice
func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var errMsg sql.NullString
		if err := rows.Scan(&e.ID, &e.Target, &e.Query, &e.ExecutedAt,
			&e.DurationMs, &e.RowCount, &e.Status, &errMsg); err != nil {
			return nil, err
		}
		e.ErrorMessage = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// cleanup removes history entries older than 90 days
func (s *Store) cleanup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM history
		WHERE executed_at < datetime('now', '-90 days')
	`)
	return err
}

// Count returns the total number of history entries
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&count)
	return count, err
}
