// internal/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLite driver names registered with database/sql.
const (
	DriverCGo  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// MemoryTarget is the pseudo path of a private in-memory database.
const MemoryTarget = ":memory:"

// SQLiteConn implements Conn for SQLite
type SQLiteConn struct {
	db     *sql.DB
	target string
}

// OpenSQLite opens the database file at path using the named driver. The
// file must already exist; MemoryTarget opens a fresh in-memory database.
func OpenSQLite(ctx context.Context, driverName, path string) (*SQLiteConn, error) {
	path = strings.TrimPrefix(path, "sqlite://")
	if driverName == "" {
		driverName = DriverCGo
	}
	if path == "" {
		return nil, WrapConnectionError(fmt.Errorf("empty database path"))
	}

	if path != MemoryTarget {
		info, err := os.Stat(path)
		if err != nil {
			return nil, WrapConnectionError(err)
		}
		if info.IsDir() {
			return nil, WrapConnectionError(fmt.Errorf("%s is a directory", path))
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	// Every pooled connection to :memory: would be its own database.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 10000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, WrapConnectionError(fmt.Errorf("%s: %w", pragma, err))
		}
	}

	// sql.Open is lazy and a non-database file only fails on first read.
	if _, err := tablesFromQuery(ctx, db, "SELECT name FROM sqlite_master WHERE type='table'"); err != nil {
		db.Close()
		return nil, WrapConnectionError(err)
	}

	return &SQLiteConn{db: db, target: path}, nil
}

// Close closes the database connection
func (c *SQLiteConn) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Execute runs a query and returns results
func (c *SQLiteConn) Execute(ctx context.Context, query string) (*QueryResult, error) {
	return executeQuery(ctx, c.db, query)
}

// Ping checks if database is reachable
func (c *SQLiteConn) Ping(ctx context.Context) error {
	if c.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return c.db.PingContext(ctx)
}

func (c *SQLiteConn) Type() DriverType { return SQLite }

func (c *SQLiteConn) Target() string { return c.target }

// GetTables returns a list of user tables
func (c *SQLiteConn) GetTables(ctx context.Context) ([]string, error) {
	return tablesFromQuery(ctx, c.db,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
}
