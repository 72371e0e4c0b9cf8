package app

import (
	"github.com/charmbracelet/bubbles/help"

	"github.com/nhath/litequery/internal/fsbrowse"
)

// View is a read-only snapshot handed to the renderer. Slices are shared
// with the state and must not be modified.
type View struct {
	Mode   Mode
	Focus  Panel
	Width  int
	Height int

	Conn    *Connection
	Results *ResultSet
	Cursor  GridPos
	History QueryHistory

	Browser  BrowserView
	Explorer ExplorerView
	Settings []SettingView
	Setting  int

	Status      Status
	Busy        bool
	Frame       int
	Help        bool
	ShowHelpBar bool
	PageSize    int
	Keys        help.KeyMap
}

type BrowserView struct {
	Dir     string
	Entries []fsbrowse.Entry
	Cursor  int
	Loading bool
}

type ExplorerView struct {
	Profiles []string
	Tables   []string
	Cursor   int
	Loading  bool
	Err      string
}

type SettingView struct {
	Label string
	Value string
}

// View snapshots s for one render call.
func (s State) View() View {
	v := View{
		Mode:    s.mode,
		Focus:   s.focus,
		Width:   s.width,
		Height:  s.height,
		Conn:    s.session.Conn,
		Results: s.session.Results,
		Cursor:  s.grid,
		History: s.session.History,
		Browser: BrowserView{
			Dir:     s.browser.dir,
			Entries: s.browser.entries,
			Cursor:  s.browser.cursor,
			Loading: s.browser.loading,
		},
		Explorer: ExplorerView{
			Profiles: s.explorer.profiles,
			Tables:   s.explorer.tables,
			Cursor:   s.explorer.cursor,
			Loading:  s.explorer.loading,
			Err:      s.explorer.err,
		},
		Setting:     s.setting,
		Status:      s.status,
		Busy:        s.inflight > 0,
		Frame:       s.frame,
		Help:        s.help,
		ShowHelpBar: s.prefs.ShowHelp,
		PageSize:    s.prefs.PageSize,
		Keys:        s.env.Keys.HelpFor(s.mode),
	}
	if s.mode == ModeConfigEditor {
		v.Settings = make([]SettingView, len(settings))
		for i, st := range settings {
			v.Settings[i] = SettingView{Label: st.label, Value: st.value(s.prefs)}
		}
	}
	return v
}
