package app

import (
	"fmt"
	"strings"

	"github.com/nhath/litequery/internal/db"
)

// Update applies msg and returns the next state, an optional followup to
// apply immediately, and optional background work. Messages a mode does
// not handle leave the state unchanged. Quit absorbs everything.
func (s State) Update(msg Message) (State, Followup, Cmd) {
	if s.mode == ModeQuit {
		return s, nil, nil
	}

	switch m := msg.(type) {
	case Quit:
		s.mode = ModeQuit
		return s, nil, nil
	case Resize:
		s.width, s.height = m.Width, m.Height
		return s, nil, nil
	case Tick:
		if s.inflight > 0 {
			s.frame++
		}
		return s, nil, nil
	case ToggleHelp:
		s.help = !s.help
		return s, nil, nil
	case RunQuery:
		return s.runQuery(m)
	case QuerySucceeded, QueryFailed, ConnectSucceeded, ConnectFailed,
		DirListed, TablesLoaded, Copied, ConfigSaved, ResultsSaved:
		return s.applyOutcome(msg)
	case Escape:
		if s.mode != ModeHome {
			s.mode = ModeHome
		}
		return s, nil, nil
	}

	switch s.mode {
	case ModeHome:
		return s.updateHome(msg)
	case ModeEditQuery:
		return s.updateEditor(msg)
	case ModeBrowseFiles:
		return s.updateBrowser(msg)
	case ModeExploreResults:
		return s.updateResults(msg)
	case ModeExploreConnection:
		return s.updateExplorer(msg)
	case ModeConfigEditor:
		return s.updateSettings(msg)
	}
	return s, nil, nil
}

func (s State) runQuery(m RunQuery) (State, Followup, Cmd) {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		s.status = errorStatus(errEmptyQuery.Error())
		return s, nil, nil
	}
	if s.mode == ModeEditQuery {
		s.session.History = s.session.History.Record(text)
	}
	s.inflight++
	s.status = infoStatus("running query")
	return s, nil, s.queryCmd(text)
}

func (s State) applyOutcome(msg Message) (State, Followup, Cmd) {
	switch m := msg.(type) {
	case QuerySucceeded:
		s.inflight = max(s.inflight-1, 0)
		s.session.Results = m.Result
		s.grid = GridPos{}
		s.status = infoStatus(queryStatus(m.Result))
		if s.prefs.ResultsOnSuccess && (s.mode == ModeEditQuery || s.mode == ModeExploreConnection) {
			return s, ShowResults{}, nil
		}
		return s, nil, nil

	case QueryFailed:
		s.inflight = max(s.inflight-1, 0)
		if m.NoConnection {
			s.status = errorStatus(db.ErrNoActiveConnection.Error())
		} else {
			s.status = errorStatus(m.Reason)
		}
		return s, nil, nil

	case ConnectSucceeded:
		if m.Conn == nil {
			return s.applyOutcome(ConnectFailed{Reason: errNoConnection.Error()})
		}
		s.inflight = max(s.inflight-1, 0)
		var old *Connection
		s.session, old = s.session.replace(m.Conn)
		s.explorer.tables = nil
		s.explorer.err = ""
		s.status = infoStatus("connected to " + m.Conn.Target)

		cmds := []Cmd{s.closeCmd(old)}
		switch s.mode {
		case ModeBrowseFiles:
			s.mode = ModeHome
		case ModeExploreConnection:
			s.explorer.loading = true
			cmds = append(cmds, s.tablesCmd())
		}

		var next Followup
		if draft := strings.TrimSpace(s.session.History.Draft); s.prefs.RunOnConnect && draft != "" {
			next = RunQuery{Text: draft}
		}
		return s, next, Batch(cmds...)

	case ConnectFailed:
		s.inflight = max(s.inflight-1, 0)
		var old *Connection
		s.session, old = s.session.Disconnect()
		s.explorer.tables = nil
		s.explorer.loading = false
		if m.Target != "" {
			s.status = errorStatus(fmt.Sprintf("%s: %s", m.Target, m.Reason))
		} else {
			s.status = errorStatus(m.Reason)
		}
		if s.mode == ModeBrowseFiles {
			s.mode = ModeHome
		}
		return s, nil, s.closeCmd(old)

	case DirListed:
		s.browser.loading = false
		if m.Reason != "" {
			s.status = errorStatus(m.Reason)
			return s, nil, nil
		}
		s.browser.dir = m.Dir
		s.browser.entries = m.Entries
		s.browser.cursor = 0
		return s, nil, nil

	case TablesLoaded:
		if s.session.Conn == nil || s.session.Conn.Target != m.Target {
			return s, nil, nil
		}
		s.explorer.loading = false
		s.explorer.tables = m.Tables
		s.explorer.err = m.Reason
		s.explorer.cursor = clamp(s.explorer.cursor, 0, s.explorerItems()-1)
		return s, nil, nil

	case Copied:
		if m.Reason != "" {
			s.status = errorStatus("copy failed: " + m.Reason)
		} else {
			s.status = infoStatus("copied " + m.What)
		}
		return s, nil, nil

	case ConfigSaved:
		if m.Reason != "" {
			s.status = errorStatus("save failed: " + m.Reason)
		} else {
			s.status = infoStatus("settings saved")
		}
		return s, nil, nil

	case ResultsSaved:
		s.inflight = max(s.inflight-1, 0)
		if m.Reason != "" {
			s.status = errorStatus("export failed: " + m.Reason)
		} else {
			s.status = infoStatus(fmt.Sprintf("saved %d rows to %s", m.Rows, m.Path))
		}
		return s, nil, nil
	}
	return s, nil, nil
}

func (s State) disconnect() (State, Followup, Cmd) {
	var old *Connection
	s.session, old = s.session.Disconnect()
	if old == nil {
		return s, nil, nil
	}
	s.explorer.tables = nil
	s.explorer.loading = false
	s.explorer.cursor = clamp(s.explorer.cursor, 0, s.explorerItems()-1)
	s.status = infoStatus("disconnected from " + old.Target)
	return s, nil, s.closeCmd(old)
}

func (s State) updateHome(msg Message) (State, Followup, Cmd) {
	switch m := msg.(type) {
	case SelectMode:
		switch s.focus {
		case PanelConnection:
			return s.enterExplorer()
		case PanelResults:
			s.mode = ModeExploreResults
		case PanelQuery:
			s.mode = ModeEditQuery
		}
	case FocusNext:
		s.focus = s.focus.next()
	case FocusPrev:
		s.focus = s.focus.prev()
	case FocusPanel:
		s.focus = m.Panel
	case OpenBrowser:
		s.mode = ModeBrowseFiles
		s.browser.loading = true
		return s, nil, s.listDirCmd(s.browser.dir)
	case OpenConfig:
		s.mode = ModeConfigEditor
		s.setting = 0
	case Disconnect:
		return s.disconnect()
	}
	return s, nil, nil
}

func (s State) enterExplorer() (State, Followup, Cmd) {
	s.mode = ModeExploreConnection
	s.explorer.profiles = s.env.profiles()
	s.explorer.cursor = 0
	s.explorer.err = ""
	if s.session.Conn == nil {
		s.explorer.tables = nil
		return s, nil, nil
	}
	s.explorer.loading = true
	return s, nil, s.tablesCmd()
}

func (s State) updateEditor(msg Message) (State, Followup, Cmd) {
	h := s.session.History
	switch m := msg.(type) {
	case InsertText:
		h = h.Insert(m.Text)
	case Newline:
		h = h.Insert("\n")
	case DeleteBack:
		h = h.DeleteBack()
	case DeleteForward:
		h = h.DeleteForward()
	case MoveCaret:
		h = h.Move(m.Dir)
	case RecallPrev:
		h = h.RecallPrev()
	case RecallNext:
		h = h.RecallNext()
	case ClearDraft:
		h = h.Clear()
	case ShowResults:
		s.mode = ModeExploreResults
		return s, nil, nil
	default:
		return s, nil, nil
	}
	s.session.History = h
	return s, nil, nil
}

func (s State) updateBrowser(msg Message) (State, Followup, Cmd) {
	switch m := msg.(type) {
	case MoveCursor:
		if len(s.browser.entries) == 0 {
			return s, nil, nil
		}
		s.browser.cursor = clamp(s.browser.cursor+m.Rows, 0, len(s.browser.entries)-1)
	case ChangeDir:
		s.browser.loading = true
		return s, nil, s.listDirCmd(m.Dir)
	case ConnectTo:
		s.inflight++
		s.status = infoStatus("connecting to " + db.RedactDSN(m.Target))
		return s, nil, s.connectCmd(m.Target)
	}
	return s, nil, nil
}

func (s State) updateResults(msg Message) (State, Followup, Cmd) {
	r := s.session.Results
	switch m := msg.(type) {
	case MoveCursor:
		if r.RowCount() == 0 {
			return s, nil, nil
		}
		s.grid.Row = clamp(s.grid.Row+m.Rows, 0, r.RowCount()-1)
		s.grid.Col = clamp(s.grid.Col+m.Cols, 0, r.ColumnCount()-1)
	case CopyCell:
		if r.RowCount() == 0 {
			s.status = errorStatus("nothing to copy")
			return s, nil, nil
		}
		if m.Row {
			return s, nil, s.copyCmd("row", copyRow(r.Rows[s.grid.Row]))
		}
		return s, nil, s.copyCmd("cell", r.Cell(s.grid.Row, s.grid.Col))
	case SaveResults:
		if r == nil {
			s.status = errorStatus("nothing to save")
			return s, nil, nil
		}
		s.inflight++
		s.status = infoStatus("saving results")
		return s, nil, s.exportCmd(m)
	}
	return s, nil, nil
}

func (s State) updateExplorer(msg Message) (State, Followup, Cmd) {
	switch m := msg.(type) {
	case MoveCursor:
		if s.explorerItems() == 0 {
			return s, nil, nil
		}
		s.explorer.cursor = clamp(s.explorer.cursor+m.Rows, 0, s.explorerItems()-1)
	case ConnectProfile:
		s.inflight++
		s.status = infoStatus("connecting to " + m.Name)
		return s, nil, s.connectProfileCmd(m.Name)
	case Disconnect:
		return s.disconnect()
	case ShowResults:
		s.mode = ModeExploreResults
	}
	return s, nil, nil
}

func (s State) updateSettings(msg Message) (State, Followup, Cmd) {
	switch m := msg.(type) {
	case MoveCursor:
		s.setting = clamp(s.setting+m.Rows, 0, len(settings)-1)
	case ToggleSetting:
		s.prefs = settings[s.setting].toggle(s.prefs)
	case SaveConfig:
		s.status = infoStatus("saving settings")
		return s, nil, s.saveCmd()
	}
	return s, nil, nil
}
