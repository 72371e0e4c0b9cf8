package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nhath/litequery/internal/db"
	"github.com/nhath/litequery/internal/export"
	"github.com/nhath/litequery/internal/fsbrowse"
	"github.com/nhath/litequery/internal/history"
)

var testNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fakeConn struct {
	target string

	mu     sync.Mutex
	closed int
}

func (c *fakeConn) Execute(context.Context, string) (*db.QueryResult, error) {
	return nil, errors.New("use the gateway")
}
func (c *fakeConn) Ping(context.Context) error { return nil }
func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}
func (c *fakeConn) Type() db.DriverType                          { return db.SQLite }
func (c *fakeConn) Target() string                               { return c.target }
func (c *fakeConn) GetTables(context.Context) ([]string, error) { return nil, nil }

func (c *fakeConn) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeGateway answers queries from a fixed table.
type fakeGateway struct {
	connectErr error
	results    map[string]*db.QueryResult
	tables     []string

	mu       sync.Mutex
	opened   []*fakeConn
	executed []string
}

func (g *fakeGateway) open(target string) (db.Conn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.connectErr != nil {
		return nil, g.connectErr
	}
	c := &fakeConn{target: target}
	g.opened = append(g.opened, c)
	return c, nil
}

func (g *fakeGateway) ConnectDefault(_ context.Context, p db.Policy) (db.Conn, error) {
	if p.Kind == db.NoDatabase {
		return nil, nil
	}
	return g.open(":memory:")
}

func (g *fakeGateway) ConnectFile(_ context.Context, target string) (db.Conn, error) {
	return g.open(target)
}

func (g *fakeGateway) Execute(_ context.Context, conn db.Conn, text string) (*db.QueryResult, error) {
	if conn == nil {
		return nil, db.ErrNoActiveConnection
	}
	g.mu.Lock()
	g.executed = append(g.executed, text)
	g.mu.Unlock()
	if r, ok := g.results[text]; ok {
		return r, nil
	}
	return nil, db.WrapQueryError(errors.New("no such table"))
}

func (g *fakeGateway) Tables(context.Context, db.Conn) ([]string, error) {
	return g.tables, nil
}

type fakeProfiles map[string]string

func (f fakeProfiles) ListProfiles() []string {
	var names []string
	for _, n := range []string{"local", "broken"} {
		if _, ok := f[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

func (f fakeProfiles) ResolveDSN(name string) (string, error) {
	dsn, ok := f[name]
	if !ok || dsn == "" {
		return "", errors.New("profile not found: " + name)
	}
	return dsn, nil
}

type fakeLister struct {
	listings map[string][]fsbrowse.Entry
}

func (l fakeLister) List(dir string) (string, []fsbrowse.Entry, error) {
	entries, ok := l.listings[dir]
	if !ok {
		return dir, nil, errors.New("failed to read directory")
	}
	return dir, entries, nil
}

type memRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (r *memRecorder) Add(_ context.Context, e *history.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

var usersResult = &db.QueryResult{
	Columns:  []string{"id", "name", "email"},
	Rows:     [][]string{{"1", "Alice", "temp@email.com"}},
	RowCount: 1,
	IsSelect: true,
}

func newGateway() *fakeGateway {
	return &fakeGateway{
		results: map[string]*db.QueryResult{
			"SELECT id, name, email FROM users": usersResult,
			"SELECT 1": {Columns: []string{"1"}, Rows: [][]string{{"1"}}, RowCount: 1, IsSelect: true},
			"DELETE FROM users": {AffectedRows: 1},
		},
		tables: []string{"users"},
	}
}

type fixture struct {
	gw        *fakeGateway
	clipboard []string
	saved     []Prefs
	recorder  *memRecorder
	env       *Env
}

func newFixture() *fixture {
	f := &fixture{gw: newGateway(), recorder: &memRecorder{}}
	f.env = &Env{
		Gateway:  f.gw,
		Profiles: fakeProfiles{"local": "/data/local.db", "broken": ""},
		Lister: fakeLister{listings: map[string][]fsbrowse.Entry{
			"/data": {
				{Name: "..", Path: "/", IsDir: true},
				{Name: "archive", Path: "/data/archive", IsDir: true},
				{Name: "local.db", Path: "/data/local.db"},
			},
			"/data/archive": {{Name: "..", Path: "/data", IsDir: true}},
		}},
		Recorder:  f.recorder,
		Clipboard: func(s string) error { f.clipboard = append(f.clipboard, s); return nil },
		SavePrefs: func(p Prefs) error { f.saved = append(f.saved, p); return nil },
		Export:    export.ToFile,
		Keys:      DefaultKeys(),
		Now:       func() time.Time { return testNow },
	}
	return f
}

func defaultPrefs() Prefs {
	return Prefs{RunOnConnect: true, ResultsOnSuccess: true, ShowHelp: true, PageSize: 20, PersistHistory: true}
}

func (f *fixture) state(draft string) State {
	return New(f.env, Options{Draft: draft, Prefs: defaultPrefs(), Dir: "/data"})
}

// settle applies msg like the driver does, running every command inline
// and feeding outcomes back until nothing is left.
func settle(t *testing.T, s State, msgs ...Message) State {
	t.Helper()
	queue := append([]Message(nil), msgs...)
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "settle did not converge")
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(NoOp); ok {
			continue
		}
		var cmds []Cmd
		s, cmds = Step(s, msg)
		for _, c := range cmds {
			queue = append(queue, run(c)...)
		}
	}
	return s
}

// run executes c and flattens batches.
func run(c Cmd) []Message {
	if c == nil {
		return nil
	}
	msg := c(context.Background())
	if b, ok := msg.(batchMsg); ok {
		var out []Message
		for _, inner := range b {
			out = append(out, run(inner)...)
		}
		return out
	}
	return []Message{msg}
}

// connected returns a Home state holding a fake connection and a result.
func (f *fixture) connected(t *testing.T) State {
	t.Helper()
	s := f.state("")
	s = settle(t, s, ConnectTo{Target: "/data/local.db"})
	// ConnectTo is only meaningful in BrowseFiles
	require.Nil(t, s.Session().Conn)

	s = settle(t, s, OpenBrowser{}, ConnectTo{Target: "/data/local.db"})
	require.Equal(t, ModeHome, s.Mode())
	require.NotNil(t, s.Session().Conn)

	s = settle(t, s, RunQuery{Text: "SELECT id, name, email FROM users"})
	require.NotNil(t, s.Session().Results)
	return s
}

// inMode moves a connected state into mode.
func (f *fixture) inMode(t *testing.T, mode Mode) State {
	t.Helper()
	s := f.connected(t)
	switch mode {
	case ModeHome:
	case ModeEditQuery:
		s = settle(t, s, FocusPanel{Panel: PanelQuery}, SelectMode{})
	case ModeExploreResults:
		s = settle(t, s, FocusPanel{Panel: PanelResults}, SelectMode{})
	case ModeExploreConnection:
		s = settle(t, s, FocusPanel{Panel: PanelConnection}, SelectMode{})
	case ModeBrowseFiles:
		s = settle(t, s, OpenBrowser{})
	case ModeConfigEditor:
		s = settle(t, s, OpenConfig{})
	case ModeQuit:
		s = settle(t, s, Quit{})
	}
	require.Equal(t, mode, s.Mode())
	return s
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}
