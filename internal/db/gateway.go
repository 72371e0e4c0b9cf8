// internal/db/gateway.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"net/url"
	"strings"
	"time"
)

// PolicyKind selects how the startup connection is made.
type PolicyKind int

const (
	NoDatabase PolicyKind = iota
	InMemoryWithSeedData
	FromFile
)

func (k PolicyKind) String() string {
	switch k {
	case NoDatabase:
		return "none"
	case InMemoryWithSeedData:
		return "in-memory"
	case FromFile:
		return "file"
	}
	return fmt.Sprintf("PolicyKind(%d)", int(k))
}

// Policy is the startup connection policy.
type Policy struct {
	Kind PolicyKind
	Path string // FromFile only
}

// Gateway opens connections and runs queries. It holds no connection
// itself; every call is handed the Conn it should use.
type Gateway struct {
	// SQLiteDriver is the database/sql driver name used for sqlite files.
	SQLiteDriver string
	Logger       *slog.Logger
}

// NewGateway returns a Gateway using the given sqlite driver name.
func NewGateway(sqliteDriver string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{SQLiteDriver: sqliteDriver, Logger: logger}
}

// ConnectDefault applies the startup policy. NoDatabase yields a nil Conn
// and a nil error.
func (g *Gateway) ConnectDefault(ctx context.Context, p Policy) (_ Conn, err error) {
	defer g.recoverDriver("connect", WrapConnectionError, &err)
	switch p.Kind {
	case NoDatabase:
		return nil, nil
	case InMemoryWithSeedData:
		conn, err := OpenSQLite(ctx, g.SQLiteDriver, MemoryTarget)
		if err != nil {
			return nil, err
		}
		if err := Seed(ctx, conn); err != nil {
			conn.Close()
			return nil, WrapConnectionError(err)
		}
		g.Logger.Debug("opened seeded in-memory database")
		return conn, nil
	case FromFile:
		return g.ConnectFile(ctx, p.Path)
	}
	return nil, WrapConnectionError(fmt.Errorf("unknown policy %v", p.Kind))
}

// ConnectFile opens target. URLs with a postgres or mysql scheme go to the
// matching server driver; anything else is treated as a sqlite file path.
func (g *Gateway) ConnectFile(ctx context.Context, target string) (_ Conn, err error) {
	defer g.recoverDriver("connect", WrapConnectionError, &err)
	start := time.Now()
	var conn Conn
	switch {
	case strings.HasPrefix(target, "postgres://"), strings.HasPrefix(target, "postgresql://"):
		conn, err = OpenPostgres(ctx, target)
	case strings.HasPrefix(target, "mysql://"):
		conn, err = OpenMySQL(ctx, target)
	default:
		conn, err = OpenSQLite(ctx, g.SQLiteDriver, target)
	}
	if err != nil {
		g.Logger.Debug("connect failed", "target", RedactDSN(target), "error", err)
		return nil, err
	}
	g.Logger.Debug("connected", "target", conn.Target(), "type", conn.Type(), "took", time.Since(start))
	return conn, nil
}

// Execute runs text on conn. Multiple statements separated by semicolons
// run in order; the result of the last one is returned.
func (g *Gateway) Execute(ctx context.Context, conn Conn, text string) (_ *QueryResult, err error) {
	defer g.recoverDriver("execute", WrapQueryError, &err)
	if conn == nil {
		return nil, ErrNoActiveConnection
	}
	statements := splitStatements(text)
	if len(statements) == 0 {
		return nil, WrapQueryError(fmt.Errorf("empty query"))
	}

	var (
		result *QueryResult
		total  time.Duration
	)
	for _, stmt := range statements {
		r, err := conn.Execute(ctx, stmt)
		if err != nil {
			return nil, err
		}
		total += r.ExecTime
		result = r
	}
	result.ExecTime = total
	return result, nil
}

// Tables lists the tables visible through conn.
func (g *Gateway) Tables(ctx context.Context, conn Conn) (_ []string, err error) {
	defer g.recoverDriver("tables", WrapQueryError, &err)
	if conn == nil {
		return nil, ErrNoActiveConnection
	}
	return conn.GetTables(ctx)
}

// recoverDriver turns a panic raised inside a driver into an error so it
// never crosses the gateway. It must be deferred directly.
func (g *Gateway) recoverDriver(op string, wrap func(error) error, err *error) {
	r := recover()
	if r == nil {
		return
	}
	g.Logger.Error("driver panic", "op", op, "panic", r, "stack", string(debug.Stack()))
	*err = wrap(fmt.Errorf("%s: driver panic: %v", op, r))
}

// RedactDSN strips the password from URL style targets. Plain paths are
// returned as is.
func RedactDSN(target string) string {
	if !strings.Contains(target, "://") {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
