package app

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/litequery/internal/db"
)

// sqliteEnv wires the state machine to a real sqlite gateway.
func sqliteEnv(t *testing.T) *Env {
	t.Helper()
	f := newFixture()
	f.env.Gateway = db.NewGateway(db.DriverPure, nil)
	f.env.Recorder = nil
	return f.env
}

func TestScenario_SeededDatabase(t *testing.T) {
	env := sqliteEnv(t)
	s := New(env, Options{Prefs: defaultPrefs()})
	s, boot := s.Boot(db.Policy{Kind: db.InMemoryWithSeedData})
	s = settle(t, s, run(boot)...)
	require.True(t, s.Session().Connected())
	t.Cleanup(func() { _ = s.Session().Close() })

	s = settle(t, s, FocusPanel{Panel: PanelQuery}, SelectMode{})
	s = settle(t, s, InsertText{Text: "SELECT id, name, email FROM users"})
	s = settle(t, s, RunQuery{Text: s.Session().History.Draft})

	assert.Equal(t, ModeExploreResults, s.Mode())
	r := s.Session().Results
	require.NotNil(t, r)
	assert.Equal(t, []string{"id", "name", "email"}, r.Columns)
	assert.Equal(t, [][]string{{"1", "Alice", "temp@email.com"}}, r.Rows)
}

func TestScenario_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	raw, err := sql.Open(db.DriverPure, path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, label TEXT)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	env := sqliteEnv(t)
	s := New(env, Options{Draft: "SELECT 1", Prefs: defaultPrefs()})
	s, boot := s.Boot(db.Policy{Kind: db.FromFile, Path: path})
	s = settle(t, s, run(boot)...)
	t.Cleanup(func() { _ = s.Session().Close() })

	require.True(t, s.Session().Connected())
	assert.Equal(t, path, s.Session().Conn.Target)
	r := s.Session().Results
	require.NotNil(t, r, "the draft runs after connecting")
	assert.Equal(t, 1, r.RowCount())
	assert.Equal(t, 1, r.ColumnCount())
	assert.Equal(t, "1", r.Cell(0, 0))

	s = settle(t, s, RunQuery{Text: "INSERT INTO items (label) VALUES ('a'), ('b')"})
	assert.Equal(t, []string{AffectedColumn}, s.Session().Results.Columns)
	assert.Equal(t, "2", s.Session().Results.Cell(0, 0))

	s = settle(t, s, FocusPanel{Panel: PanelConnection}, SelectMode{})
	assert.Equal(t, []string{"items"}, s.View().Explorer.Tables)
}

func TestScenario_MissingFile(t *testing.T) {
	env := sqliteEnv(t)
	s := New(env, Options{Prefs: defaultPrefs()})
	s, boot := s.Boot(db.Policy{Kind: db.FromFile, Path: filepath.Join(t.TempDir(), "nope.db")})
	s = settle(t, s, run(boot)...)

	assert.False(t, s.Session().Connected())
	assert.True(t, s.Status().IsError)

	s = settle(t, s, RunQuery{Text: "SELECT 1"})
	assert.Equal(t, db.ErrNoActiveConnection.Error(), s.Status().Text)
	assert.Nil(t, s.Session().Results)
}

func TestScenario_SyntaxErrorKeepsResults(t *testing.T) {
	env := sqliteEnv(t)
	s := New(env, Options{Prefs: defaultPrefs()})
	s, boot := s.Boot(db.Policy{Kind: db.InMemoryWithSeedData})
	s = settle(t, s, run(boot)...)
	t.Cleanup(func() { _ = s.Session().Close() })

	s = settle(t, s, RunQuery{Text: "SELECT name FROM users"})
	before := s.Session().Results
	require.NotNil(t, before)

	s = settle(t, s, RunQuery{Text: "SELEC name FROM users"})
	assert.True(t, s.Status().IsError)
	assert.Same(t, before, s.Session().Results)
}

func TestExecuteQuery_NoConnection(t *testing.T) {
	_, err := ExecuteQuery(context.Background(), db.NewGateway(db.DriverPure, nil), nil, "SELECT 1")
	assert.ErrorIs(t, err, db.ErrNoActiveConnection)
}
