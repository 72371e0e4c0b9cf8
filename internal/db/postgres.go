// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresConn implements Conn for PostgreSQL
type PostgresConn struct {
	db     *sql.DB
	target string
}

// OpenPostgres connects to the server described by dsn, a postgres:// URL.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresConn, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	dbStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", dbStr)
	if err != nil {
		stdlib.UnregisterConnConfig(dbStr)
		return nil, WrapConnectionError(err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		stdlib.UnregisterConnConfig(dbStr)
		return nil, WrapConnectionError(err)
	}

	return &PostgresConn{db: db, target: RedactDSN(dsn)}, nil
}

// Close closes the database connection
func (c *PostgresConn) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Execute runs a query and returns results
func (c *PostgresConn) Execute(ctx context.Context, query string) (*QueryResult, error) {
	return executeQuery(ctx, c.db, query)
}

// Ping checks if database is reachable
func (c *PostgresConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *PostgresConn) Type() DriverType { return Postgres }

func (c *PostgresConn) Target() string { return c.target }

// GetTables returns tables in the public schema
func (c *PostgresConn) GetTables(ctx context.Context) ([]string, error) {
	return tablesFromQuery(ctx, c.db, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`)
}
