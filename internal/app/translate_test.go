package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/nhath/litequery/internal/export"
)

func TestTranslate_Resize(t *testing.T) {
	f := newFixture()
	for _, mode := range Modes()[:6] {
		s := f.inMode(t, mode)
		assert.Equal(t, Resize{Width: 120, Height: 40}, s.Translate(tea.WindowSizeMsg{Width: 120, Height: 40}))
	}
}

func TestTranslate_Home(t *testing.T) {
	f := newFixture()
	s := f.state("")

	tests := []struct {
		key  tea.KeyMsg
		want Message
	}{
		{keyRunes("q"), Quit{}},
		{keyType(tea.KeyCtrlC), Quit{}},
		{keyType(tea.KeyEnter), SelectMode{}},
		{keyType(tea.KeyTab), FocusNext{}},
		{keyType(tea.KeyShiftTab), FocusPrev{}},
		{keyRunes("1"), FocusPanel{Panel: PanelConnection}},
		{keyRunes("2"), FocusPanel{Panel: PanelResults}},
		{keyRunes("3"), FocusPanel{Panel: PanelQuery}},
		{keyRunes("o"), OpenBrowser{}},
		{keyRunes("c"), OpenConfig{}},
		{keyRunes("d"), Disconnect{}},
		{keyRunes("?"), ToggleHelp{}},
		{keyType(tea.KeyEsc), Escape{}},
		{keyRunes("r"), NoOp{}},
		{keyRunes("z"), NoOp{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Translate(tt.key), tt.key.String())
	}
}

func TestTranslate_HomeRerun(t *testing.T) {
	f := newFixture()
	s := f.inMode(t, ModeEditQuery)
	s = settle(t, s, RunQuery{Text: "SELECT 1"}, Escape{})
	assert.Equal(t, RunQuery{Text: "SELECT 1"}, s.Translate(keyRunes("r")))
}

func TestTranslate_EscClosesHelp(t *testing.T) {
	f := newFixture()
	s := f.inMode(t, ModeExploreResults)
	assert.Equal(t, Escape{}, s.Translate(keyType(tea.KeyEsc)))

	s = settle(t, s, ToggleHelp{})
	assert.Equal(t, ToggleHelp{}, s.Translate(keyType(tea.KeyEsc)))
}

func TestTranslate_Editor(t *testing.T) {
	f := newFixture()
	s := f.state("SELECT 1")
	s = settle(t, s, FocusPanel{Panel: PanelQuery}, SelectMode{})

	tests := []struct {
		key  tea.KeyMsg
		want Message
	}{
		{keyRunes("q"), InsertText{Text: "q"}},
		{keyRunes("?"), InsertText{Text: "?"}},
		{keyRunes("héllo"), InsertText{Text: "héllo"}},
		{keyType(tea.KeySpace), InsertText{Text: " "}},
		{keyType(tea.KeyTab), InsertText{Text: "  "}},
		{keyType(tea.KeyEnter), Newline{}},
		{keyType(tea.KeyBackspace), DeleteBack{}},
		{keyType(tea.KeyDelete), DeleteForward{}},
		{keyType(tea.KeyLeft), MoveCaret{Dir: Left}},
		{keyType(tea.KeyRight), MoveCaret{Dir: Right}},
		{keyType(tea.KeyUp), MoveCaret{Dir: Up}},
		{keyType(tea.KeyDown), MoveCaret{Dir: Down}},
		{keyType(tea.KeyHome), MoveCaret{Dir: LineStart}},
		{keyType(tea.KeyEnd), MoveCaret{Dir: LineEnd}},
		{keyType(tea.KeyCtrlD), RunQuery{Text: "SELECT 1"}},
		{keyType(tea.KeyF5), RunQuery{Text: "SELECT 1"}},
		{keyType(tea.KeyCtrlP), RecallPrev{}},
		{keyType(tea.KeyCtrlN), RecallNext{}},
		{keyType(tea.KeyCtrlU), ClearDraft{}},
		{keyType(tea.KeyEsc), Escape{}},
		{keyType(tea.KeyCtrlC), Quit{}},
		{keyType(tea.KeyF12), NoOp{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Translate(tt.key), tt.key.String())
	}
}

func TestTranslate_Results(t *testing.T) {
	f := newFixture()
	s := f.inMode(t, ModeExploreResults)

	tests := []struct {
		key  tea.KeyMsg
		want Message
	}{
		{keyRunes("j"), MoveCursor{Rows: 1}},
		{keyType(tea.KeyUp), MoveCursor{Rows: -1}},
		{keyRunes("l"), MoveCursor{Cols: 1}},
		{keyType(tea.KeyLeft), MoveCursor{Cols: -1}},
		{keyType(tea.KeyPgDown), MoveCursor{Rows: 20}},
		{keyRunes("b"), MoveCursor{Rows: -20}},
		{keyRunes("y"), CopyCell{}},
		{keyRunes("Y"), CopyCell{Row: true}},
		{keyRunes("e"), SaveResults{Format: export.CSV}},
		{keyRunes("E"), SaveResults{Format: export.JSON}},
		{keyRunes("r"), RunQuery{Text: "SELECT id, name, email FROM users"}},
		{keyRunes("q"), Quit{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Translate(tt.key), tt.key.String())
	}
}

func TestTranslate_Browser(t *testing.T) {
	f := newFixture()
	s := f.inMode(t, ModeBrowseFiles)

	assert.Equal(t, ChangeDir{Dir: "/"}, s.Translate(keyType(tea.KeyBackspace)))
	assert.Equal(t, ChangeDir{Dir: "/"}, s.Translate(keyType(tea.KeyEnter)), "cursor starts on the parent link")

	s = settle(t, s, MoveCursor{Rows: 2})
	assert.Equal(t, ConnectTo{Target: "/data/local.db"}, s.Translate(keyType(tea.KeyEnter)))

	loading, _, _ := s.Update(ChangeDir{Dir: "/data/archive"})
	assert.Equal(t, NoOp{}, loading.Translate(keyType(tea.KeyEnter)))
}

func TestTranslate_ExplorerAndSettings(t *testing.T) {
	f := newFixture()
	s := f.inMode(t, ModeExploreConnection)
	assert.Equal(t, ConnectProfile{Name: "local"}, s.Translate(keyType(tea.KeyEnter)))
	assert.Equal(t, Disconnect{}, s.Translate(keyRunes("d")))
	assert.Equal(t, MoveCursor{Rows: 1}, s.Translate(keyRunes("j")))

	c := f.inMode(t, ModeConfigEditor)
	assert.Equal(t, ToggleSetting{}, c.Translate(keyType(tea.KeySpace)))
	assert.Equal(t, ToggleSetting{}, c.Translate(keyType(tea.KeyEnter)))
	assert.Equal(t, SaveConfig{}, c.Translate(keyRunes("s")))
}

func TestTranslate_QuitIgnoresInput(t *testing.T) {
	f := newFixture()
	s := f.inMode(t, ModeQuit)
	assert.Equal(t, NoOp{}, s.Translate(keyRunes("q")))
	assert.Equal(t, NoOp{}, s.Translate(tea.FocusMsg{}))
}

func TestTranslate_IsPure(t *testing.T) {
	f := newFixture()
	s := f.inMode(t, ModeEditQuery)
	before := s
	for _, k := range []tea.KeyMsg{keyRunes("x"), keyType(tea.KeyCtrlD), keyType(tea.KeyEsc)} {
		first := s.Translate(k)
		assert.Equal(t, first, s.Translate(k))
	}
	assert.Equal(t, before, s)
	assert.Len(t, f.gw.executed, 1, "translation ran no queries")
}
