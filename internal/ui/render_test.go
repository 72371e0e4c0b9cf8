package ui

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/litequery/internal/app"
	"github.com/nhath/litequery/internal/config"
	"github.com/nhath/litequery/internal/db"
	"github.com/nhath/litequery/internal/fsbrowse"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newTestRenderer() *Renderer {
	return NewRenderer(config.DefaultConfig().Theme, nil)
}

func usersResult(t *testing.T) *app.ResultSet {
	t.Helper()
	rs, err := app.NewResultSet("SELECT id, name, email FROM users",
		[]string{"id", "name", "email"},
		[][]string{{"1", "Alice", "temp@email.com"}},
		3*time.Millisecond)
	require.NoError(t, err)
	return rs
}

func baseView(mode app.Mode) app.View {
	return app.View{
		Mode:        mode,
		Width:       100,
		Height:      30,
		ShowHelpBar: true,
		PageSize:    20,
		Keys:        app.DefaultKeys().HelpFor(mode),
	}
}

func connection() *app.Connection {
	return &app.Connection{
		Target:   "/data/shop.db",
		Kind:     db.SQLite,
		OpenedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

// assertFits checks the frame covers exactly the terminal.
func assertFits(t *testing.T, v app.View, frame string) {
	t.Helper()
	assert.Equal(t, v.Height, lipgloss.Height(frame), "frame height")
	for i, line := range strings.Split(frame, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), v.Width, "line %d is too wide", i)
	}
}

func TestFrame_Loading(t *testing.T) {
	r := newTestRenderer()
	assert.Equal(t, "Loading...", r.Frame(app.View{}))
}

func TestFrame_HomeDisconnected(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeHome)
	v.Focus = app.PanelQuery

	out := r.Frame(v)
	assert.Contains(t, out, "not connected")
	assert.Contains(t, out, "no results yet")
	assert.Contains(t, out, "NOT CONNECTED")
	assert.Contains(t, out, "HOME")
	assertFits(t, v, out)
}

func TestFrame_HomeWithResults(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeHome)
	v.Conn = connection()
	v.Results = usersResult(t)
	v.History = app.NewQueryHistory("SELECT id, name, email FROM users", nil)

	out := r.Frame(v)
	assert.Contains(t, out, "/data/shop.db (sqlite)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "temp@email.com")
	assert.Contains(t, out, "SELECT id, name, email FROM users")
	assertFits(t, v, out)
}

func TestFrame_Editor(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeEditQuery)
	v.History = app.NewQueryHistory("SELECT 1\nFROM t", []string{"SELECT 2"})

	out := r.Frame(v)
	assert.Contains(t, out, "SELECT 1")
	assert.Contains(t, out, "FROM t")
	assert.Contains(t, out, "1 executed")
	assert.Contains(t, out, "EDIT-QUERY")
	assertFits(t, v, out)
}

func TestQueryEditor_Caret(t *testing.T) {
	h := app.NewQueryHistory("ab\ncd", nil).Move(app.Up)

	ed := queryEditor(h, 40, 10, true)
	assert.Equal(t, "ab\ncd", ed.Value())
	assert.Equal(t, 0, ed.Line())
	assert.Equal(t, 2, ed.LineInfo().CharOffset)

	lines := strings.Split(ed.View(), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "ab")
	assert.Contains(t, lines[0], "1")
	assert.Contains(t, lines[1], "cd")
	assert.Contains(t, lines[1], "2")
	for i, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 40, "line %d", i)
	}
}

func TestQueryEditor_CaretMidLine(t *testing.T) {
	h := app.NewQueryHistory("SELECT *\nFROM users", nil).Move(app.Up).Move(app.Left).Move(app.Left)
	line, col := h.CaretPos()
	require.Equal(t, 0, line)

	ed := queryEditor(h, 40, 5, true)
	assert.Equal(t, line, ed.Line())
	assert.Equal(t, col, ed.LineInfo().CharOffset)
}

func TestQueryEditor_ScrollsToCaret(t *testing.T) {
	draft := strings.Repeat("x\n", 20) + "last"

	ed := queryEditor(app.NewQueryHistory(draft, nil), 40, 5, true)
	view := ed.View()
	require.Equal(t, 5, lipgloss.Height(view))
	assert.Contains(t, view, "last")
	assert.Contains(t, view, "21")

	h := app.NewQueryHistory(draft, nil)
	for range 20 {
		h = h.Move(app.Up)
	}
	view = queryEditor(h, 40, 5, true).View()
	assert.NotContains(t, view, "last")
	assert.Contains(t, view, " 1 ")
}

func TestFrame_HomeQueryPreview(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeHome)
	v.Focus = app.PanelQuery
	v.History = app.NewQueryHistory("SELECT id\nFROM users", nil)

	out := r.Frame(v)
	assert.Contains(t, out, "SELECT id")
	assert.Contains(t, out, "FROM users")
	assertFits(t, v, out)
}

func TestFrame_Browser(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeBrowseFiles)
	v.Browser = app.BrowserView{
		Dir: "/data",
		Entries: []fsbrowse.Entry{
			{Name: "..", Path: "/", IsDir: true},
			{Name: "archive", Path: "/data/archive", IsDir: true},
			{Name: "shop.db", Path: "/data/shop.db", Size: 2048},
		},
		Cursor: 2,
	}

	out := r.Frame(v)
	assert.Contains(t, out, "/data")
	assert.Contains(t, out, "archive/")
	assert.Contains(t, out, "shop.db  2.0 kB")
	assertFits(t, v, out)

	v.Browser.Loading = true
	assert.Contains(t, r.Frame(v), "reading directory")
}

func TestFrame_Results(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeExploreResults)
	v.Conn = connection()
	v.Results = usersResult(t)
	v.Cursor = app.GridPos{Row: 0, Col: 2}

	out := r.Frame(v)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "email = temp@email.com")
	assert.Contains(t, out, "3ms")
	assertFits(t, v, out)

	v.Results = nil
	assert.Contains(t, r.Frame(v), "no results yet")
}

func TestFrame_Explorer(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeExploreConnection)
	v.Conn = connection()
	v.Explorer = app.ExplorerView{
		Profiles: []string{"local"},
		Tables:   []string{"users", "orders"},
		Cursor:   2,
	}

	out := r.Frame(v)
	assert.Contains(t, out, "Profiles")
	assert.Contains(t, out, "local")
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "opened 2024-05-01 09:30:00")
	assertFits(t, v, out)

	v.Explorer = app.ExplorerView{Loading: true}
	assert.Contains(t, r.Frame(v), "loading tables")
	v.Explorer = app.ExplorerView{Err: "permission denied"}
	assert.Contains(t, r.Frame(v), "permission denied")
}

func TestFrame_Settings(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeConfigEditor)
	v.Settings = []app.SettingView{
		{Label: "Help bar", Value: "on"},
		{Label: "Rows per page", Value: "20"},
	}
	v.Setting = 1

	out := r.Frame(v)
	assert.Contains(t, out, "Help bar")
	assert.Contains(t, out, "Rows per page  20")
	assertFits(t, v, out)
}

func TestFrame_StatusBar(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeHome)
	v.Busy = true
	v.Frame = 3
	v.Status = app.Status{Text: "running query"}

	out := r.Frame(v)
	assert.Contains(t, out, spinner.Dot.Frames[3]+" working")
	assert.Contains(t, out, "running query")

	v.Busy = false
	assert.NotContains(t, r.Frame(v), "working")
}

func TestFrame_HelpPopup(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeExploreResults)
	v.Help = true

	out := r.Frame(v)
	assert.Contains(t, out, "Keyboard shortcuts")
	assert.Contains(t, out, "copy cell")
	assertFits(t, v, out)
}

func TestFrame_ShortErrorStaysInStatusBar(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeHome)
	v.Status = app.Status{Text: "no active connection", IsError: true}

	out := r.Frame(v)
	assert.Contains(t, out, "no active connection")
	assert.NotContains(t, out, "Error")
}

func TestFrame_LongErrorPopup(t *testing.T) {
	r := newTestRenderer()
	v := baseView(app.ModeHome)
	v.Width = 60
	v.Status = app.Status{Text: "near \"SELEC\": syntax error while preparing the statement you typed", IsError: true}

	out := r.Frame(v)
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "syntax error")
	assertFits(t, v, out)
}

func TestRender_Sends(t *testing.T) {
	var frames []string
	r := NewRenderer(config.DefaultConfig().Theme, func(f string) { frames = append(frames, f) })
	r.Render(baseView(app.ModeHome))
	r.Render(app.View{})
	require.Len(t, frames, 2)
	assert.Equal(t, "Loading...", frames[1])
}

func TestTruncateLeft(t *testing.T) {
	assert.Equal(t, "/a/b", truncateLeft("/a/b", 10))
	assert.Equal(t, "…/c/d.db", truncateLeft("/very/long/c/d.db", 8))
	assert.Equal(t, "", truncateLeft("/x", 0))
}

func TestWindow(t *testing.T) {
	lo, hi := window(3, 1, 10)
	assert.Equal(t, [2]int{0, 3}, [2]int{lo, hi})
	lo, hi = window(100, 50, 10)
	assert.Equal(t, [2]int{45, 55}, [2]int{lo, hi})
	lo, hi = window(100, 99, 10)
	assert.Equal(t, [2]int{90, 100}, [2]int{lo, hi})
}
