// internal/db/gateway_test.go
package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_SeededMemory(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(DriverCGo, nil)

	conn, err := g.ConnectDefault(ctx, Policy{Kind: InMemoryWithSeedData})
	require.NoError(t, err)
	require.NotNil(t, conn)
	defer conn.Close()

	res, err := g.Execute(ctx, conn, "SELECT id, name, email FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "Alice", "temp@email.com"}}, res.Rows)

	tables, err := g.Tables(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)
}

func TestGateway_SeededMemoryIsPrivate(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(DriverPure, nil)

	a, err := g.ConnectDefault(ctx, Policy{Kind: InMemoryWithSeedData})
	require.NoError(t, err)
	defer a.Close()
	b, err := g.ConnectDefault(ctx, Policy{Kind: InMemoryWithSeedData})
	require.NoError(t, err)
	defer b.Close()

	_, err = g.Execute(ctx, a, "INSERT INTO users (name, email) VALUES ('Bob', 'bob@example.com')")
	require.NoError(t, err)

	res, err := g.Execute(ctx, b, "SELECT count(*) FROM users")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}}, res.Rows)
}

func TestGateway_NoDatabase(t *testing.T) {
	conn, err := NewGateway("", nil).ConnectDefault(context.Background(), Policy{Kind: NoDatabase})
	assert.NoError(t, err)
	assert.Nil(t, conn)
}

func TestGateway_FromMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	conn, err := NewGateway("", nil).ConnectDefault(context.Background(), Policy{Kind: FromFile, Path: path})
	assert.Nil(t, conn)
	assert.True(t, IsConnectionError(err))
}

func TestGateway_ConnectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	g := NewGateway(DriverCGo, nil)
	conn, err := g.ConnectFile(context.Background(), path)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, SQLite, conn.Type())
}

func TestGateway_ExecuteMultiStatement(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(DriverCGo, nil)
	conn, err := g.ConnectDefault(ctx, Policy{Kind: InMemoryWithSeedData})
	require.NoError(t, err)
	defer conn.Close()

	res, err := g.Execute(ctx, conn, "INSERT INTO users (name, email) VALUES ('Bob', 'b@x.io'); SELECT name FROM users ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Alice"}, {"Bob"}}, res.Rows)
}

func TestGateway_ExecuteWithoutConnection(t *testing.T) {
	_, err := NewGateway("", nil).Execute(context.Background(), nil, "SELECT 1")
	assert.ErrorIs(t, err, ErrNoActiveConnection)
}

func TestGateway_ExecuteEmpty(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(DriverCGo, nil)
	conn, err := g.ConnectDefault(ctx, Policy{Kind: InMemoryWithSeedData})
	require.NoError(t, err)
	defer conn.Close()

	_, err = g.Execute(ctx, conn, "  ;  ")
	var qe *QueryError
	assert.ErrorAs(t, err, &qe)
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "/tmp/a.db", RedactDSN("/tmp/a.db"))
	assert.Equal(t, "postgres://bob:xxxxx@db:5432/app", RedactDSN("postgres://bob:secret@db:5432/app"))
	assert.Equal(t, "mysql://root@localhost/app", RedactDSN("mysql://root@localhost/app"))
}

func TestMySQLConfig(t *testing.T) {
	cfg, err := mysqlConfig("mysql://root:pw@localhost/app?charset=utf8mb4")
	require.NoError(t, err)
	assert.Equal(t, "localhost:3306", cfg.Addr)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "pw", cfg.Passwd)
	assert.Equal(t, "app", cfg.DBName)
	assert.Equal(t, "utf8mb4", cfg.Params["charset"])

	_, err = mysqlConfig("postgres://x")
	assert.Error(t, err)
}

func TestGateway_ExecuteComments(t *testing.T) {
	for _, driver := range []string{DriverCGo, DriverPure} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			g := NewGateway(driver, nil)
			conn, err := g.ConnectDefault(ctx, Policy{Kind: InMemoryWithSeedData})
			require.NoError(t, err)
			defer conn.Close()

			for _, q := range []string{
				"-- all users\nSELECT id, name, email FROM users",
				"SELECT id, name, email FROM users; -- done",
				"/* it's; fine */ SELECT id, name, email FROM users",
			} {
				res, err := g.Execute(ctx, conn, q)
				require.NoError(t, err, q)
				assert.True(t, res.IsSelect, q)
				assert.Equal(t, []string{"id", "name", "email"}, res.Columns, q)
				assert.Equal(t, [][]string{{"1", "Alice", "temp@email.com"}}, res.Rows, q)
			}

			require.NotPanics(t, func() {
				_, err = g.Execute(ctx, conn, "-- nothing to run")
			})
			var qe *QueryError
			assert.ErrorAs(t, err, &qe)
		})
	}
}

// panicConn fails every call the way a misbehaving driver would.
type panicConn struct{}

func (panicConn) Execute(context.Context, string) (*QueryResult, error) { panic("driver bug") }
func (panicConn) Ping(context.Context) error                             { return nil }
func (panicConn) Close() error                                           { return nil }
func (panicConn) Type() DriverType                                       { return SQLite }
func (panicConn) Target() string                                         { return "bug.db" }
func (panicConn) GetTables(context.Context) ([]string, error)            { panic("driver bug") }

func TestGateway_RecoversDriverPanic(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(DriverCGo, nil)

	var res *QueryResult
	var err error
	require.NotPanics(t, func() {
		res, err = g.Execute(ctx, panicConn{}, "SELECT 1")
	})
	assert.Nil(t, res)
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Contains(t, err.Error(), "driver bug")

	require.NotPanics(t, func() {
		_, err = g.Tables(ctx, panicConn{})
	})
	assert.ErrorAs(t, err, &qe)
}
