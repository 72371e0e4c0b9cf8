// internal/db/driver.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// Conn is an open database session.
type Conn interface {
	Execute(ctx context.Context, query string) (*QueryResult, error)
	Ping(ctx context.Context) error
	Close() error
	Type() DriverType
	// Target is a display form of what the connection points at. It never
	// contains credentials.
	Target() string
	GetTables(ctx context.Context) ([]string, error)
}

// QueryResult contains query execution results
type QueryResult struct {
	Columns      []string
	Rows         [][]string
	ExecTime     time.Duration
	RowCount     int
	IsSelect     bool
	AffectedRows int64
}

// rowPrefixes lists statement heads that produce a result set.
var rowPrefixes = []string{"SELECT", "WITH", "EXPLAIN", "DESCRIBE", "SHOW", "PRAGMA", "VALUES"}

// returnsRows reports whether query is expected to produce rows
func returnsRows(query string) bool {
	trimmed := strings.ToUpper(stripLeadingComments(query))
	for _, p := range rowPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// commentEnd returns the index just past a "--" or "/* */" comment that
// starts at i, or i when no comment starts there. Unterminated comments run
// to the end of s.
func commentEnd(s string, i int) int {
	switch {
	case strings.HasPrefix(s[i:], "--"):
		if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
			return i + j + 1
		}
		return len(s)
	case strings.HasPrefix(s[i:], "/*"):
		if j := strings.Index(s[i+2:], "*/"); j >= 0 {
			return i + 2 + j + 2
		}
		return len(s)
	}
	return i
}

// stripLeadingComments drops whitespace and comments before the first token.
func stripLeadingComments(s string) string {
	i := 0
	for i < len(s) {
		if isSpace(s[i]) {
			i++
			continue
		}
		j := commentEnd(s, i)
		if j == i {
			break
		}
		i = j
	}
	return s[i:]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// executeQuery executes a query and returns results
func executeQuery(ctx context.Context, db *sql.DB, query string) (*QueryResult, error) {
	start := time.Now()
	if returnsRows(query) {
		return executeSelect(ctx, db, query, start)
	}
	return executeDML(ctx, db, query, start)
}

// executeSelect executes a SELECT query
func executeSelect(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapQueryError(err)
	}
	results := [][]string{}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		// A value the driver cannot hand back is a failure of the whole
		// query, never an empty cell.
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, WrapQueryError(err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     results,
		ExecTime: time.Since(start),
		RowCount: len(results),
		IsSelect: true,
	}, nil
}

// executeDML executes INSERT/UPDATE/DELETE queries
func executeDML(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	result, err := db.ExecContext(ctx, query)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	affected, _ := result.RowsAffected()
	return &QueryResult{
		ExecTime:     time.Since(start),
		IsSelect:     false,
		AffectedRows: affected,
	}, nil
}

// formatValue converts a scanned value to its display string
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// splitStatements splits a query string by semicolons, respecting quotes
// and comments. Segments holding only comments are dropped.
func splitStatements(query string) []string {
	var statements []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	hasCode := false

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" && hasCode {
			statements = append(statements, stmt)
		}
		current.Reset()
		hasCode = false
	}

	for i := 0; i < len(query); i++ {
		c := query[i]

		if (inSingleQuote || inDoubleQuote) && c == '\\' && i+1 < len(query) {
			current.WriteByte(c)
			i++
			current.WriteByte(query[i])
			continue
		}

		if !inSingleQuote && !inDoubleQuote {
			if end := commentEnd(query, i); end > i {
				current.WriteString(query[i:end])
				i = end - 1
				continue
			}
		}

		if c == '\'' && !inDoubleQuote {
			inSingleQuote = !inSingleQuote
		} else if c == '"' && !inSingleQuote {
			inDoubleQuote = !inDoubleQuote
		}

		if c == ';' && !inSingleQuote && !inDoubleQuote {
			flush()
			continue
		}

		if !isSpace(c) {
			hasCode = true
		}
		current.WriteByte(c)
	}
	flush()

	return statements
}

// tablesFromQuery runs a single-column listing query.
func tablesFromQuery(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, WrapQueryError(err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
