package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/litequery/internal/db"
	"github.com/nhath/litequery/internal/export"
	"github.com/nhath/litequery/internal/fsbrowse"
)

// Translate maps a raw terminal message to a Message for the current mode.
// It has no side effects; anything it does not recognise is NoOp.
func (s State) Translate(raw tea.Msg) Message {
	switch m := raw.(type) {
	case tea.WindowSizeMsg:
		return Resize{Width: m.Width, Height: m.Height}
	case tea.KeyMsg:
		return s.translateKey(m)
	}
	return NoOp{}
}

func (s State) translateKey(k tea.KeyMsg) Message {
	keys := s.env.Keys
	switch s.mode {
	case ModeQuit:
		return NoOp{}
	case ModeEditQuery:
		return s.translateEditor(k)
	}

	switch {
	case key.Matches(k, keys.Quit), key.Matches(k, keys.Interrupt):
		return Quit{}
	case key.Matches(k, keys.Help):
		return ToggleHelp{}
	case s.help && key.Matches(k, keys.Back):
		return ToggleHelp{}
	}

	switch s.mode {
	case ModeHome:
		return s.translateHome(k)
	case ModeBrowseFiles:
		return s.translateBrowser(k)
	case ModeExploreResults:
		return s.translateResults(k)
	case ModeExploreConnection:
		return s.translateExplorer(k)
	case ModeConfigEditor:
		return s.translateSettings(k)
	}
	return NoOp{}
}

func (s State) rerun() Message {
	if q, ok := s.session.History.Last(); ok {
		return RunQuery{Text: q}
	}
	if s.session.Results != nil {
		return RunQuery{Text: s.session.Results.Query}
	}
	return NoOp{}
}

func (s State) translateHome(k tea.KeyMsg) Message {
	keys := s.env.Keys
	switch {
	case key.Matches(k, keys.Select):
		return SelectMode{}
	case key.Matches(k, keys.NextPanel):
		return FocusNext{}
	case key.Matches(k, keys.PrevPanel):
		return FocusPrev{}
	case key.Matches(k, keys.OpenBrowser):
		return OpenBrowser{}
	case key.Matches(k, keys.OpenConfig):
		return OpenConfig{}
	case key.Matches(k, keys.Disconnect):
		return Disconnect{}
	case key.Matches(k, keys.Rerun):
		return s.rerun()
	case key.Matches(k, keys.Back):
		return Escape{}
	}
	switch k.String() {
	case "1":
		return FocusPanel{Panel: PanelConnection}
	case "2":
		return FocusPanel{Panel: PanelResults}
	case "3":
		return FocusPanel{Panel: PanelQuery}
	}
	return NoOp{}
}

func (s State) translateEditor(k tea.KeyMsg) Message {
	keys := s.env.Keys
	switch {
	case key.Matches(k, keys.Interrupt):
		return Quit{}
	case key.Matches(k, keys.Back):
		return Escape{}
	case key.Matches(k, keys.Execute):
		return RunQuery{Text: s.session.History.Draft}
	case key.Matches(k, keys.RecallPrev):
		return RecallPrev{}
	case key.Matches(k, keys.RecallNext):
		return RecallNext{}
	case key.Matches(k, keys.ClearDraft):
		return ClearDraft{}
	}

	switch k.Type {
	case tea.KeyRunes:
		return InsertText{Text: string(k.Runes)}
	case tea.KeySpace:
		return InsertText{Text: " "}
	case tea.KeyTab:
		return InsertText{Text: "  "}
	case tea.KeyEnter:
		return Newline{}
	case tea.KeyBackspace:
		return DeleteBack{}
	case tea.KeyDelete:
		return DeleteForward{}
	case tea.KeyLeft:
		return MoveCaret{Dir: Left}
	case tea.KeyRight:
		return MoveCaret{Dir: Right}
	case tea.KeyUp:
		return MoveCaret{Dir: Up}
	case tea.KeyDown:
		return MoveCaret{Dir: Down}
	case tea.KeyHome, tea.KeyCtrlA:
		return MoveCaret{Dir: LineStart}
	case tea.KeyEnd, tea.KeyCtrlE:
		return MoveCaret{Dir: LineEnd}
	}
	return NoOp{}
}

func (s State) translateBrowser(k tea.KeyMsg) Message {
	keys := s.env.Keys
	switch {
	case key.Matches(k, keys.Back):
		return Escape{}
	case key.Matches(k, keys.Up):
		return MoveCursor{Rows: -1}
	case key.Matches(k, keys.Down):
		return MoveCursor{Rows: 1}
	case key.Matches(k, keys.PrevPage):
		return MoveCursor{Rows: -s.prefs.PageSize}
	case key.Matches(k, keys.NextPage):
		return MoveCursor{Rows: s.prefs.PageSize}
	case key.Matches(k, keys.Parent):
		return ChangeDir{Dir: fsbrowse.Parent(s.browser.dir)}
	case key.Matches(k, keys.Select):
		if s.browser.loading || s.browser.cursor >= len(s.browser.entries) {
			return NoOp{}
		}
		e := s.browser.entries[s.browser.cursor]
		if e.IsDir {
			return ChangeDir{Dir: e.Path}
		}
		return ConnectTo{Target: e.Path}
	}
	return NoOp{}
}

func (s State) translateResults(k tea.KeyMsg) Message {
	keys := s.env.Keys
	switch {
	case key.Matches(k, keys.Back):
		return Escape{}
	case key.Matches(k, keys.Up):
		return MoveCursor{Rows: -1}
	case key.Matches(k, keys.Down):
		return MoveCursor{Rows: 1}
	case key.Matches(k, keys.Left):
		return MoveCursor{Cols: -1}
	case key.Matches(k, keys.Right):
		return MoveCursor{Cols: 1}
	case key.Matches(k, keys.PrevPage):
		return MoveCursor{Rows: -s.prefs.PageSize}
	case key.Matches(k, keys.NextPage):
		return MoveCursor{Rows: s.prefs.PageSize}
	case key.Matches(k, keys.CopyCell):
		return CopyCell{}
	case key.Matches(k, keys.CopyRow):
		return CopyCell{Row: true}
	case key.Matches(k, keys.ExportCSV):
		return SaveResults{Format: export.CSV}
	case key.Matches(k, keys.ExportJSON):
		return SaveResults{Format: export.JSON}
	case key.Matches(k, keys.Rerun):
		return s.rerun()
	}
	return NoOp{}
}

func (s State) translateExplorer(k tea.KeyMsg) Message {
	keys := s.env.Keys
	switch {
	case key.Matches(k, keys.Back):
		return Escape{}
	case key.Matches(k, keys.Up):
		return MoveCursor{Rows: -1}
	case key.Matches(k, keys.Down):
		return MoveCursor{Rows: 1}
	case key.Matches(k, keys.Disconnect):
		return Disconnect{}
	case key.Matches(k, keys.Select):
		i := s.explorer.cursor
		if i < len(s.explorer.profiles) {
			return ConnectProfile{Name: s.explorer.profiles[i]}
		}
		i -= len(s.explorer.profiles)
		if i < len(s.explorer.tables) {
			var kind db.DriverType
			if s.session.Conn != nil {
				kind = s.session.Conn.Kind
			}
			return RunQuery{Text: previewQuery(kind, s.explorer.tables[i])}
		}
	}
	return NoOp{}
}

func (s State) translateSettings(k tea.KeyMsg) Message {
	keys := s.env.Keys
	switch {
	case key.Matches(k, keys.Back):
		return Escape{}
	case key.Matches(k, keys.Up):
		return MoveCursor{Rows: -1}
	case key.Matches(k, keys.Down):
		return MoveCursor{Rows: 1}
	case key.Matches(k, keys.Toggle):
		return ToggleSetting{}
	case key.Matches(k, keys.Save):
		return SaveConfig{}
	}
	return NoOp{}
}
